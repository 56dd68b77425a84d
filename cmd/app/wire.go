//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/fasalmitra/crop-advisor/internal/bootstrap"
	"github.com/fasalmitra/crop-advisor/internal/domain/advisor"
	"github.com/fasalmitra/crop-advisor/internal/domain/market"
	"github.com/fasalmitra/crop-advisor/internal/domain/predictor"
	"github.com/fasalmitra/crop-advisor/internal/domain/weather"
	"github.com/fasalmitra/crop-advisor/internal/infra/agmarknet"
	"github.com/fasalmitra/crop-advisor/internal/infra/config"
	"github.com/fasalmitra/crop-advisor/internal/infra/dataset"
	httpiface "github.com/fasalmitra/crop-advisor/internal/interface/http"
	"github.com/fasalmitra/crop-advisor/pkg/logger"
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		logger.New,
		provideRulebook,
		provideCatalog,
		provideMarketConfig,
		provideMarketClient,
		providePriceStore,
		provideHistoryRepository,
		provideModelStore,
		provideWeatherClient,
		market.NewService,
		advisor.NewService,
		predictor.NewService,
		weather.NewService,
		wire.Bind(new(market.LiveClient), new(*agmarknet.Client)),
		wire.Bind(new(advisor.Catalog), new(*dataset.Catalog)),
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}
