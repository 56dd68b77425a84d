package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/fasalmitra/crop-advisor/internal/domain/advisor"
	"github.com/fasalmitra/crop-advisor/internal/domain/market"
	"github.com/fasalmitra/crop-advisor/internal/domain/predictor"
	"github.com/fasalmitra/crop-advisor/internal/domain/weather"
	"github.com/fasalmitra/crop-advisor/internal/infra/agmarknet"
	"github.com/fasalmitra/crop-advisor/internal/infra/config"
	"github.com/fasalmitra/crop-advisor/internal/infra/dataset"
	"github.com/fasalmitra/crop-advisor/internal/infra/historyrepo"
	"github.com/fasalmitra/crop-advisor/internal/infra/modelstore"
	"github.com/fasalmitra/crop-advisor/internal/infra/openweather"
	"github.com/fasalmitra/crop-advisor/internal/infra/pricestore"
)

func provideRulebook() advisor.Rulebook {
	return advisor.DefaultRulebook()
}

func provideCatalog(cfg *config.Config, logger *slog.Logger) *dataset.Catalog {
	return dataset.NewCatalog(cfg.Dataset.Path, logger)
}

func provideMarketConfig(cfg *config.Config) market.Config {
	return market.Config{CacheTTL: cfg.Market.CacheTTL}
}

func provideMarketClient(cfg *config.Config) *agmarknet.Client {
	return agmarknet.NewClient(cfg.Market.APIBaseURL, cfg.Market.APIKey, cfg.Market.FetchTimeout)
}

func providePriceStore(cfg *config.Config, logger *slog.Logger) market.Store {
	if cfg.Market.Valkey.Enabled {
		opt, err := buildValkeyOptions(cfg.Market.Valkey.Addr)
		if err != nil {
			logger.Error("invalid valkey configuration, falling back to memory price cache", "error", err)
			return pricestore.NewMemoryStore()
		}
		client, err := valkey.NewClient(opt)
		if err != nil {
			logger.Error("failed to create valkey client, falling back to memory price cache", "error", err)
			return pricestore.NewMemoryStore()
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
			logger.Error("valkey ping failed, falling back to memory price cache", "error", err)
		} else {
			logger.Info("valkey price cache enabled", "addr", cfg.Market.Valkey.Addr)
			return pricestore.NewValkeyStore(client, "price")
		}
	}
	return pricestore.NewMemoryStore()
}

func provideHistoryRepository(cfg *config.Config, logger *slog.Logger) advisor.HistoryRepository {
	fallback := historyrepo.NewMemoryRepository(0)
	dsn := strings.TrimSpace(cfg.History.Postgres.DSN)
	if dsn == "" {
		logger.Info("history postgres dsn not set, using memory repository")
		return fallback
	}
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		logger.Error("invalid postgres dsn, using memory repository", "error", err)
		return fallback
	}
	if cfg.History.Postgres.MaxConns > 0 {
		poolConfig.MaxConns = cfg.History.Postgres.MaxConns
	}
	if cfg.History.Postgres.MinConns > 0 {
		poolConfig.MinConns = cfg.History.Postgres.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		logger.Error("failed to initialize postgres pool, using memory repository", "error", err)
		return fallback
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		logger.Error("postgres ping failed, using memory repository", "error", err)
		pool.Close()
		return fallback
	}
	logger.Info("history postgres repository enabled")
	return historyrepo.NewPostgresRepository(pool)
}

func provideModelStore(cfg *config.Config) predictor.Store {
	return modelstore.NewFSStore(cfg.Model.Dir)
}

func provideWeatherClient(cfg *config.Config) weather.LiveClient {
	if strings.TrimSpace(cfg.Weather.APIKey) == "" {
		return nil
	}
	return openweather.NewClient(cfg.Weather.APIBaseURL, cfg.Weather.APIKey)
}

func buildValkeyOptions(addr string) (valkey.ClientOption, error) {
	if strings.Contains(addr, "://") {
		return valkey.ParseURL(addr)
	}
	return valkey.ClientOption{InitAddress: []string{addr}}, nil
}
