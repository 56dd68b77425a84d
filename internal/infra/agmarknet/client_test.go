package agmarknet

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFetchPricesParsesRecords(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "secret", r.URL.Query().Get("api-key"))
		require.Equal(t, "json", r.URL.Query().Get("format"))
		w.Write([]byte(`{"records":[
			{"commodity":"Paddy","modal_price":"2350"},
			{"commodity":"Wheat","modal_price":2275},
			{"commodity":"Onion","modal_price":"not-a-price"},
			{"commodity":"","modal_price":"1000"}
		]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "secret", 2*time.Second)
	prices, err := client.FetchPrices(context.Background())

	require.NoError(t, err)
	require.Len(t, prices, 2)
	require.Equal(t, "Paddy", prices[0].Commodity)
	require.Equal(t, 2350.0, prices[0].ModalPrice)
	require.Equal(t, "Wheat", prices[1].Commodity)
	require.Equal(t, 2275.0, prices[1].ModalPrice)
}

func TestFetchPricesSingleAttemptOnServerError(t *testing.T) {
	var hits int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(server.URL, "key", 2*time.Second)
	_, err := client.FetchPrices(context.Background())

	require.Error(t, err)
	require.Equal(t, 1, hits)
}

func TestFetchPricesSingleAttemptOnClientError(t *testing.T) {
	var hits int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client := NewClient(server.URL, "bad-key", 2*time.Second)
	_, err := client.FetchPrices(context.Background())

	require.Error(t, err)
	require.Equal(t, 1, hits)
}

func TestParsePrice(t *testing.T) {
	require.Equal(t, 2350.0, parsePrice([]byte(`"2350"`)))
	require.Equal(t, 2350.5, parsePrice([]byte(`2350.5`)))
	require.Equal(t, 0.0, parsePrice([]byte(`"NR"`)))
	require.Equal(t, 0.0, parsePrice(nil))
}
