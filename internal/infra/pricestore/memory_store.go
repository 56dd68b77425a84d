package pricestore

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/fasalmitra/crop-advisor/internal/domain/market"
)

type cachedQuote struct {
	quote     market.Quote
	expiresAt time.Time
}

// MemoryStore is an in-process quote cache for tests and single-instance
// deployments.
type MemoryStore struct {
	mu     sync.RWMutex
	quotes map[string]cachedQuote
}

// NewMemoryStore constructs a cache backed by process memory.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{quotes: make(map[string]cachedQuote)}
}

// Get implements market.Store.
func (s *MemoryStore) Get(_ context.Context, commodity string) (market.Quote, bool, error) {
	key := strings.ToLower(commodity)
	s.mu.RLock()
	cached, ok := s.quotes[key]
	s.mu.RUnlock()
	if !ok {
		return market.Quote{}, false, nil
	}
	if hasExpired(cached.expiresAt) {
		s.mu.Lock()
		delete(s.quotes, key)
		s.mu.Unlock()
		return market.Quote{}, false, nil
	}
	return cached.quote, true, nil
}

// Save caches the quote with optional TTL.
func (s *MemoryStore) Save(_ context.Context, quote market.Quote, ttl time.Duration) error {
	exp := time.Time{}
	if ttl > 0 {
		exp = time.Now().Add(ttl)
	}
	s.mu.Lock()
	s.quotes[strings.ToLower(quote.Commodity)] = cachedQuote{quote: quote, expiresAt: exp}
	s.mu.Unlock()
	return nil
}

func hasExpired(ts time.Time) bool {
	if ts.IsZero() {
		return false
	}
	return ts.Before(time.Now())
}

var _ market.Store = (*MemoryStore)(nil)
