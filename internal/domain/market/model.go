package market

import (
	"context"
	"time"
)

// Quote sources, surfaced to clients so they can tell live data from the
// minimum-support-price fallback.
const (
	SourceAgmarknet = "AGMARKNET"
	SourceMSP       = "MSP 2024-25"
)

// Quote is the resolved market price for a single commodity, per quintal in INR.
type Quote struct {
	Commodity string    `json:"commodity"`
	Price     float64   `json:"price"`
	Source    string    `json:"source"`
	FetchedAt time.Time `json:"fetchedAt"`
}

// CommodityPrice is one raw record from the live market API, before alias
// mapping.
type CommodityPrice struct {
	Commodity  string
	ModalPrice float64
}

// LiveClient fetches current mandi prices from the upstream API.
type LiveClient interface {
	FetchPrices(ctx context.Context) ([]CommodityPrice, error)
}

// Store caches quotes with a TTL. Implementations must treat expired entries
// as absent.
type Store interface {
	Get(ctx context.Context, commodity string) (Quote, bool, error)
	Save(ctx context.Context, quote Quote, ttl time.Duration) error
}

// Config controls oracle behavior.
type Config struct {
	CacheTTL time.Duration
}
