package pricestore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/fasalmitra/crop-advisor/internal/domain/market"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	quote := market.Quote{Commodity: "Rice", Price: 2200, Source: market.SourceAgmarknet}

	require.NoError(t, store.Save(context.Background(), quote, time.Minute))

	got, ok, err := store.Get(context.Background(), "Rice")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, quote, got)

	// Lookups are case-insensitive.
	_, ok, err = store.Get(context.Background(), "rice")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestMemoryStoreMiss(t *testing.T) {
	store := NewMemoryStore()

	_, ok, err := store.Get(context.Background(), "Wheat")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMemoryStoreTTLExpiry(t *testing.T) {
	store := NewMemoryStore()
	quote := market.Quote{Commodity: "Maize", Price: 2000, Source: market.SourceMSP}

	require.NoError(t, store.Save(context.Background(), quote, time.Nanosecond))
	time.Sleep(5 * time.Millisecond)

	_, ok, err := store.Get(context.Background(), "Maize")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMemoryStoreZeroTTLNeverExpires(t *testing.T) {
	store := NewMemoryStore()
	quote := market.Quote{Commodity: "Gram", Price: 5440, Source: market.SourceMSP}

	require.NoError(t, store.Save(context.Background(), quote, 0))

	_, ok, err := store.Get(context.Background(), "Gram")
	require.NoError(t, err)
	require.True(t, ok)
}
