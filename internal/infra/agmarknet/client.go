package agmarknet

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/fasalmitra/crop-advisor/internal/domain/market"
)

const defaultBaseURL = "https://api.data.gov.in/resource/9ef84268-d588-465a-a308-a864a43d0070"

// Client fetches mandi modal prices from the data.gov.in AGMARKNET feed.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient builds an API client. timeout bounds the whole request.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	base := strings.TrimSpace(baseURL)
	if base == "" {
		base = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(base, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// FetchPrices retrieves the latest batch of commodity records in a single
// attempt; the caller degrades to its fallback on any failure. Prices come
// back in rupees per quintal, as published.
func (c *Client) FetchPrices(ctx context.Context) ([]market.CommodityPrice, error) {
	params := url.Values{}
	params.Set("api-key", c.apiKey)
	params.Set("format", "json")
	params.Set("limit", "100")
	endpoint := fmt.Sprintf("%s?%s", c.baseURL, params.Encode())

	var raw apiResponse
	if err := c.fetch(ctx, endpoint, &raw); err != nil {
		return nil, err
	}

	prices := make([]market.CommodityPrice, 0, len(raw.Records))
	for _, rec := range raw.Records {
		commodity := strings.TrimSpace(rec.Commodity)
		modal := parsePrice(rec.ModalPrice)
		if commodity == "" || modal <= 0 {
			continue
		}
		prices = append(prices, market.CommodityPrice{
			Commodity:  commodity,
			ModalPrice: modal,
		})
	}
	return prices, nil
}

func (c *Client) fetch(ctx context.Context, endpoint string, out *apiResponse) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build price request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("price request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return fmt.Errorf("price request error: status=%d body=%s", resp.StatusCode, string(payload))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode price response: %w", err)
	}
	return nil
}

type apiResponse struct {
	Records []record `json:"records"`
}

// The feed serves modal_price as a string on most days and as a number
// after schema hiccups, so the field tolerates both.
type record struct {
	Commodity  string          `json:"commodity"`
	ModalPrice json.RawMessage `json:"modal_price"`
}

func parsePrice(raw json.RawMessage) float64 {
	if len(raw) == 0 {
		return 0
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 0
		}
		return v
	}
	var v float64
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0
	}
	return v
}
