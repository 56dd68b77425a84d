package openweather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fasalmitra/crop-advisor/internal/domain/weather"
)

const defaultBaseURL = "https://api.openweathermap.org/data/2.5"

// Client fetches observations from OpenWeatherMap.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient builds an API client.
func NewClient(baseURL, apiKey string) *Client {
	base := strings.TrimSpace(baseURL)
	if base == "" {
		base = defaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(base, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Current retrieves the present conditions for a location.
func (c *Client) Current(ctx context.Context, location string) (weather.Current, error) {
	var raw currentResponse
	if err := c.get(ctx, "/weather", location, &raw); err != nil {
		return weather.Current{}, err
	}
	cur := weather.Current{
		Temperature: raw.Main.Temp,
		Humidity:    raw.Main.Humidity,
		Rainfall:    raw.Rain.OneHour,
	}
	if len(raw.Weather) > 0 {
		cur.Condition = raw.Weather[0].Main
	}
	return cur, nil
}

// Forecast retrieves the daily outlook. The 5-day/3-hour feed is thinned
// to one sample per day, taken at midday.
func (c *Client) Forecast(ctx context.Context, location string, days int) ([]weather.ForecastDay, error) {
	var raw forecastResponse
	if err := c.get(ctx, "/forecast", location, &raw); err != nil {
		return nil, err
	}
	out := make([]weather.ForecastDay, 0, days)
	seen := map[string]bool{}
	for _, item := range raw.List {
		ts := time.Unix(item.Dt, 0).UTC()
		day := ts.Format("2006-01-02")
		if seen[day] || ts.Hour() < 11 || ts.Hour() > 13 {
			continue
		}
		seen[day] = true
		fc := weather.ForecastDay{
			Day:         ts.Format("Mon"),
			Temperature: item.Main.Temp,
		}
		if len(item.Weather) > 0 {
			fc.Condition = item.Weather[0].Main
		}
		out = append(out, fc)
		if len(out) == days {
			break
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("forecast feed returned no usable entries")
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, path, location string, v any) error {
	params := url.Values{}
	params.Set("q", location)
	params.Set("appid", c.apiKey)
	params.Set("units", "metric")
	endpoint := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build weather request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("weather request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return fmt.Errorf("weather request error: status=%d body=%s", resp.StatusCode, string(payload))
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode weather response: %w", err)
	}
	return nil
}

type currentResponse struct {
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity float64 `json:"humidity"`
	} `json:"main"`
	Rain struct {
		OneHour float64 `json:"1h"`
	} `json:"rain"`
	Weather []struct {
		Main string `json:"main"`
	} `json:"weather"`
}

type forecastResponse struct {
	List []struct {
		Dt   int64 `json:"dt"`
		Main struct {
			Temp float64 `json:"temp"`
		} `json:"main"`
		Weather []struct {
			Main string `json:"main"`
		} `json:"weather"`
	} `json:"list"`
}

var _ weather.LiveClient = (*Client)(nil)
