package weather

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

type stubLiveClient struct {
	current  Current
	forecast []ForecastDay
	err      error
}

func (s *stubLiveClient) Current(ctx context.Context, location string) (Current, error) {
	return s.current, s.err
}

func (s *stubLiveClient) Forecast(ctx context.Context, location string, days int) ([]ForecastDay, error) {
	return s.forecast, s.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// sequence returns a deterministic stand-in for rand.Float64.
func sequence(values ...float64) func() float64 {
	i := 0
	return func() float64 {
		v := values[i%len(values)]
		i++
		return v
	}
}

func TestCurrentSyntheticRanges(t *testing.T) {
	svc := &service{logger: discardLogger(), randFn: sequence(0, 0.5, 0.99, 0.25)}

	cur := svc.Current(context.Background(), "Delhi")

	require.Equal(t, 20.0, cur.Temperature)
	require.Equal(t, 60.0, cur.Humidity)
	require.Equal(t, 99.0, cur.Rainfall)
	require.Contains(t, []string{"Sunny", "Cloudy", "Rainy", "Partly Cloudy"}, cur.Condition)
}

func TestForecastDayCountAndNames(t *testing.T) {
	svc := &service{logger: discardLogger(), randFn: sequence(0.5)}

	fc := svc.Forecast(context.Background(), "Delhi", 0)
	require.Len(t, fc, defaultForecastDays)
	require.Equal(t, "Mon", fc[0].Day)
	require.Equal(t, "Sun", fc[6].Day)

	fc = svc.Forecast(context.Background(), "Delhi", 10)
	require.Len(t, fc, 10)
	// Day names wrap around the week.
	require.Equal(t, "Mon", fc[7].Day)

	fc = svc.Forecast(context.Background(), "Delhi", 100)
	require.Len(t, fc, maxForecastDays)
}

func TestLiveClientPreferred(t *testing.T) {
	live := &stubLiveClient{
		current:  Current{Temperature: 31.5, Humidity: 70, Condition: "Clear"},
		forecast: []ForecastDay{{Day: "Tue", Temperature: 29, Condition: "Clouds"}},
	}
	svc := &service{live: live, logger: discardLogger(), randFn: sequence(0.5)}

	cur := svc.Current(context.Background(), "Mumbai")
	require.Equal(t, 31.5, cur.Temperature)
	require.Equal(t, "Clear", cur.Condition)

	fc := svc.Forecast(context.Background(), "Mumbai", 1)
	require.Equal(t, "Tue", fc[0].Day)
}

func TestLiveFailureFallsBackToSynthetic(t *testing.T) {
	live := &stubLiveClient{err: errors.New("api down")}
	svc := &service{live: live, logger: discardLogger(), randFn: sequence(0.5)}

	cur := svc.Current(context.Background(), "Mumbai")
	require.NotZero(t, cur.Temperature)

	fc := svc.Forecast(context.Background(), "Mumbai", 3)
	require.Len(t, fc, 3)
	for _, day := range fc {
		require.Contains(t, []string{"Sunny", "Cloudy", "Light Rain", "Heavy Rain", "Partly Cloudy"}, day.Condition)
	}
}
