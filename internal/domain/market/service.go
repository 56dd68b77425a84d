package market

import (
	"context"
	"log/slog"
	"math"
	"math/rand"
	"time"

	"github.com/fasalmitra/crop-advisor/pkg/util"
)

// Service resolves market prices for commodities, preferring the live feed
// and degrading to the MSP table.
type Service interface {
	// Quotes returns exactly one quote per requested commodity. It never
	// fails: upstream trouble degrades to the MSP fallback.
	Quotes(ctx context.Context, commodities []string) map[string]Quote
}

type service struct {
	cfg    Config
	live   LiveClient
	store  Store
	logger *slog.Logger
	jitter func() float64
	now    func() time.Time
}

// NewService wires up the price oracle. The store is owned by the caller so
// several consumers can share one cache.
func NewService(cfg Config, live LiveClient, store Store, logger *slog.Logger) Service {
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 30 * time.Minute
	}
	return &service{
		cfg:    cfg,
		live:   live,
		store:  store,
		logger: logger.With("component", "market.service"),
		jitter: func() float64 { return 0.9 + rand.Float64()*0.2 },
		now:    util.NowUTC,
	}
}

func (s *service) Quotes(ctx context.Context, commodities []string) map[string]Quote {
	quotes := make(map[string]Quote, len(commodities))

	unresolved := make(map[string]struct{})
	for _, name := range dedupe(commodities) {
		cached, ok, err := s.store.Get(ctx, name)
		if err != nil {
			s.logger.Warn("quote cache read failed", "commodity", name, "error", err)
		}
		if ok && cached.Price > 0 {
			quotes[name] = cached
			continue
		}
		unresolved[name] = struct{}{}
	}
	if len(unresolved) == 0 {
		return quotes
	}

	// One live attempt for the whole batch; any failure falls through to MSP.
	records, err := s.live.FetchPrices(ctx)
	if err != nil {
		s.logger.Warn("live price fetch failed, using fallback prices", "error", err)
	}
	for _, rec := range records {
		name, ok := CanonicalName(rec.Commodity)
		if !ok || rec.ModalPrice <= 0 {
			continue
		}
		if _, wanted := unresolved[name]; !wanted {
			continue
		}
		quote := Quote{Commodity: name, Price: rec.ModalPrice, Source: SourceAgmarknet, FetchedAt: s.now()}
		quotes[name] = quote
		s.save(ctx, quote)
		delete(unresolved, name)
	}

	for name := range unresolved {
		price := math.Round(FallbackPrice(name) * s.jitter())
		quote := Quote{Commodity: name, Price: price, Source: SourceMSP, FetchedAt: s.now()}
		quotes[name] = quote
		s.save(ctx, quote)
	}

	return quotes
}

func (s *service) save(ctx context.Context, quote Quote) {
	if err := s.store.Save(ctx, quote, s.cfg.CacheTTL); err != nil {
		s.logger.Warn("quote cache write failed", "commodity", quote.Commodity, "error", err)
	}
}

func dedupe(names []string) []string {
	out := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}
