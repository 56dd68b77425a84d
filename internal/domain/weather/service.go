package weather

import (
	"context"
	"log/slog"
	"math"
	"math/rand"
)

// Current is a point-in-time weather snapshot for the farm location.
type Current struct {
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	Rainfall    float64 `json:"rainfall"`
	Condition   string  `json:"condition"`
}

// ForecastDay is one entry of the short-range outlook.
type ForecastDay struct {
	Day         string  `json:"day"`
	Temperature float64 `json:"temperature"`
	Condition   string  `json:"condition"`
}

// LiveClient fetches real observations from an upstream weather API.
type LiveClient interface {
	Current(ctx context.Context, location string) (Current, error)
	Forecast(ctx context.Context, location string, days int) ([]ForecastDay, error)
}

// Service answers weather queries. It never returns an error: when the
// live client is absent or fails, it degrades to synthetic conditions.
type Service interface {
	Current(ctx context.Context, location string) Current
	Forecast(ctx context.Context, location string, days int) []ForecastDay
}

const (
	defaultForecastDays = 7
	maxForecastDays     = 14
)

var (
	currentConditions  = []string{"Sunny", "Cloudy", "Rainy", "Partly Cloudy"}
	forecastConditions = []string{"Sunny", "Cloudy", "Light Rain", "Heavy Rain", "Partly Cloudy"}
	weekdays           = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}
)

type service struct {
	live   LiveClient // nil when no API key is configured
	logger *slog.Logger
	randFn func() float64
}

// NewService builds the weather service. live may be nil.
func NewService(live LiveClient, logger *slog.Logger) Service {
	return &service{
		live:   live,
		logger: logger.With("component", "weather.service"),
		randFn: rand.Float64,
	}
}

func (s *service) Current(ctx context.Context, location string) Current {
	if s.live != nil {
		cur, err := s.live.Current(ctx, location)
		if err == nil {
			return cur
		}
		s.logger.Warn("live weather fetch failed, using synthetic conditions", "error", err)
	}
	return Current{
		Temperature: round1(20 + s.randFn()*15),
		Humidity:    math.Round(40 + s.randFn()*40),
		Rainfall:    round1(s.randFn() * 100),
		Condition:   currentConditions[int(s.randFn()*float64(len(currentConditions)))%len(currentConditions)],
	}
}

func (s *service) Forecast(ctx context.Context, location string, days int) []ForecastDay {
	if days <= 0 {
		days = defaultForecastDays
	}
	if days > maxForecastDays {
		days = maxForecastDays
	}
	if s.live != nil {
		fc, err := s.live.Forecast(ctx, location, days)
		if err == nil {
			return fc
		}
		s.logger.Warn("live forecast fetch failed, using synthetic conditions", "error", err)
	}
	out := make([]ForecastDay, days)
	for i := range out {
		out[i] = ForecastDay{
			Day:         weekdays[i%len(weekdays)],
			Temperature: math.Round(18 + s.randFn()*12),
			Condition:   forecastConditions[int(s.randFn()*float64(len(forecastConditions)))%len(forecastConditions)],
		}
	}
	return out
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
