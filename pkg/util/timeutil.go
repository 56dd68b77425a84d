package util

import "time"

// NowUTC is the clock the services default to; persisted timestamps stay UTC
// and tests swap in a fixed func.
func NowUTC() time.Time {
	return time.Now().UTC()
}
