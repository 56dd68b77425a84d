package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/fasalmitra/crop-advisor/internal/domain/advisor"
	"github.com/fasalmitra/crop-advisor/internal/domain/market"
	"github.com/fasalmitra/crop-advisor/internal/domain/predictor"
	"github.com/fasalmitra/crop-advisor/internal/domain/weather"
	"github.com/fasalmitra/crop-advisor/internal/infra/config"
	apperrors "github.com/fasalmitra/crop-advisor/pkg/errors"
)

type stubAdvisor struct {
	advice advisor.Advice
	err    error
}

func (s *stubAdvisor) Recommend(ctx context.Context, profile advisor.FarmerProfile) (advisor.Advice, error) {
	return s.advice, s.err
}

func (s *stubAdvisor) FarmingTypes(ctx context.Context, profile advisor.FarmerProfile) ([]advisor.FarmingType, error) {
	return []advisor.FarmingType{{Type: "Organic Farming", Suitability: 0.85}}, s.err
}

func (s *stubAdvisor) Crops(ctx context.Context) ([]advisor.CropSummary, error) {
	return []advisor.CropSummary{{Name: "Rice", Observations: 10}}, s.err
}

func (s *stubAdvisor) Crop(ctx context.Context, name string) (advisor.CropDetail, error) {
	return advisor.CropDetail{Name: name}, s.err
}

func (s *stubAdvisor) History(ctx context.Context, limit int) ([]advisor.HistoryEntry, error) {
	return nil, s.err
}

type stubMarket struct{}

func (s *stubMarket) Quotes(ctx context.Context, commodities []string) map[string]market.Quote {
	out := make(map[string]market.Quote, len(commodities))
	for _, name := range commodities {
		out[name] = market.Quote{Commodity: name, Price: 2000, Source: market.SourceMSP}
	}
	return out
}

type stubWeather struct{}

func (s *stubWeather) Current(ctx context.Context, location string) weather.Current {
	return weather.Current{Temperature: 28, Condition: "Sunny"}
}

func (s *stubWeather) Forecast(ctx context.Context, location string, days int) []weather.ForecastDay {
	out := make([]weather.ForecastDay, days)
	for i := range out {
		out[i] = weather.ForecastDay{Day: "Mon", Temperature: 25, Condition: "Cloudy"}
	}
	return out
}

type stubPredictor struct {
	prediction predictor.Prediction
	err        error
}

func (s *stubPredictor) Predict(ctx context.Context, in predictor.Input) (predictor.Prediction, error) {
	return s.prediction, s.err
}

func (s *stubPredictor) BatchPredict(ctx context.Context, ins []predictor.Input) ([]predictor.Prediction, error) {
	return nil, s.err
}

func (s *stubPredictor) Status(ctx context.Context) predictor.Status {
	return predictor.Status{Loaded: s.err == nil}
}

func (s *stubPredictor) Reload(ctx context.Context) error { return s.err }

func testServer(t *testing.T, adv *stubAdvisor, pred *stubPredictor) *http.Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := NewHandler(adv, &stubMarket{}, &stubWeather{}, pred, logger)
	cfg := &config.Config{}
	cfg.HTTP.Address = ":0"
	cfg.HTTP.ReadTimeout = time.Second
	cfg.HTTP.WriteTimeout = time.Second
	return NewRouter(cfg, handler, logger)
}

func doRequest(t *testing.T, server *http.Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)
	return rec
}

func TestRecommendEndpoint(t *testing.T) {
	adv := &stubAdvisor{advice: advisor.Advice{
		Recommendations: []advisor.CropRecommendation{{Name: "Rice", Score: 0.82}},
	}}
	server := testServer(t, adv, &stubPredictor{})

	rec := doRequest(t, server, http.MethodPost, "/api/v1/crops/recommend",
		`{"state":"Karnataka","acreage":2,"budget":50000,"season":"Kharif"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var advice advisor.Advice
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &advice))
	require.Len(t, advice.Recommendations, 1)
	require.Equal(t, "Rice", advice.Recommendations[0].Name)
}

func TestRecommendRejectsBadJSON(t *testing.T) {
	server := testServer(t, &stubAdvisor{}, &stubPredictor{})

	rec := doRequest(t, server, http.MethodPost, "/api/v1/crops/recommend", `{"state":`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "invalid_request")
}

func TestRecommendMapsInvalidInput(t *testing.T) {
	adv := &stubAdvisor{err: apperrors.Wrap(apperrors.CodeInvalidInput, "acreage must be positive", nil)}
	server := testServer(t, adv, &stubPredictor{})

	rec := doRequest(t, server, http.MethodPost, "/api/v1/crops/recommend",
		`{"state":"Karnataka","acreage":-1}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "invalid_request")
}

func TestCropDetailNotFound(t *testing.T) {
	adv := &stubAdvisor{err: apperrors.Wrap(apperrors.CodeNotFound, "crop not present in dataset", nil)}
	server := testServer(t, adv, &stubPredictor{})

	rec := doRequest(t, server, http.MethodGet, "/api/v1/crops/Dragonfruit", "")

	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Contains(t, rec.Body.String(), "crop_not_found")
}

func TestPredictModelNotReady(t *testing.T) {
	pred := &stubPredictor{err: predictor.ErrModelNotLoaded}
	server := testServer(t, &stubAdvisor{}, pred)

	rec := doRequest(t, server, http.MethodPost, "/api/v1/model/predict",
		`{"rainfall":1000,"acreage":1,"season":"Kharif","soilType":"Loamy"}`)

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.Contains(t, rec.Body.String(), "model_not_ready")
}

func TestMarketPricesEndpoint(t *testing.T) {
	server := testServer(t, &stubAdvisor{}, &stubPredictor{})

	rec := doRequest(t, server, http.MethodGet, "/api/v1/market/prices?commodities=Rice,Wheat", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var payload struct {
		Prices map[string]market.Quote `json:"prices"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.Len(t, payload.Prices, 2)
	require.Equal(t, 2000.0, payload.Prices["Rice"].Price)
}

func TestWeatherForecastEndpoint(t *testing.T) {
	server := testServer(t, &stubAdvisor{}, &stubPredictor{})

	rec := doRequest(t, server, http.MethodGet, "/api/v1/weather/forecast?days=3", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var payload struct {
		Forecast []weather.ForecastDay `json:"forecast"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.Len(t, payload.Forecast, 3)
}

func TestHealthz(t *testing.T) {
	server := testServer(t, &stubAdvisor{}, &stubPredictor{})

	rec := doRequest(t, server, http.MethodGet, "/healthz", "")

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestCORSHeadersAndPreflight(t *testing.T) {
	server := testServer(t, &stubAdvisor{}, &stubPredictor{})

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/crops", nil)
	req.Header.Set("Origin", "https://farm.example")
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimitKicksIn(t *testing.T) {
	adv := &stubAdvisor{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := NewHandler(adv, &stubMarket{}, &stubWeather{}, &stubPredictor{}, logger)
	cfg := &config.Config{}
	cfg.HTTP.Address = ":0"
	cfg.HTTP.RateLimit = config.RateLimitConfig{Enabled: true, RequestsPerMinute: 60, Burst: 2}
	server := NewRouter(cfg, handler, logger)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		rec := doRequest(t, server, http.MethodGet, "/api/v1/crops", "")
		codes = append(codes, rec.Code)
	}

	require.Equal(t, http.StatusOK, codes[0])
	require.Equal(t, http.StatusOK, codes[1])
	require.Equal(t, http.StatusTooManyRequests, codes[2])
}
