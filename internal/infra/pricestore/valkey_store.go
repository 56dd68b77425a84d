package pricestore

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/fasalmitra/crop-advisor/internal/domain/market"
)

// ValkeyStore caches commodity quotes in a Valkey-compatible database so
// multiple instances share one price cache.
type ValkeyStore struct {
	client valkey.Client
	prefix string
}

// NewValkeyStore constructs a quote cache backed by Valkey.
func NewValkeyStore(client valkey.Client, prefix string) *ValkeyStore {
	if prefix == "" {
		prefix = "price"
	}
	return &ValkeyStore{client: client, prefix: prefix}
}

func (s *ValkeyStore) Get(ctx context.Context, commodity string) (market.Quote, bool, error) {
	cmd := s.client.B().Get().Key(s.quoteKey(commodity)).Build()
	payload, err := s.client.Do(ctx, cmd).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return market.Quote{}, false, nil
		}
		return market.Quote{}, false, err
	}
	var quote market.Quote
	if err := json.Unmarshal([]byte(payload), &quote); err != nil {
		return market.Quote{}, false, err
	}
	return quote, true, nil
}

func (s *ValkeyStore) Save(ctx context.Context, quote market.Quote, ttl time.Duration) error {
	payload, err := json.Marshal(quote)
	if err != nil {
		return err
	}
	builder := s.client.B().Set().Key(s.quoteKey(quote.Commodity)).Value(string(payload))
	var cmd valkey.Completed
	if ttl > 0 {
		if ttl < time.Second {
			ttl = time.Second
		}
		cmd = builder.Ex(ttl).Build()
	} else {
		cmd = builder.Build()
	}
	return s.client.Do(ctx, cmd).Error()
}

func (s *ValkeyStore) quoteKey(commodity string) string {
	return fmt.Sprintf("%s:%s", s.prefix, strings.ToLower(commodity))
}

var _ market.Store = (*ValkeyStore)(nil)
