//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/yanqian/weather-outfit/internal/bootstrap"
	"github.com/yanqian/weather-outfit/internal/domain/airquality"
	"github.com/yanqian/weather-outfit/internal/domain/forecast"
	"github.com/yanqian/weather-outfit/internal/domain/location"
	"github.com/yanqian/weather-outfit/internal/infra/config"
	"github.com/yanqian/weather-outfit/internal/infra/openmeteo"
	httpiface "github.com/yanqian/weather-outfit/internal/interface/http"
	"github.com/yanqian/weather-outfit/pkg/logger"
)

func initializeApp() (*bootstrap.App, func(), error) {
	wire.Build(
		config.Load,
		logger.New,
		provideUpstreamConfig,
		provideForecastConfig,
		provideLocationConfig,
		provideWeatherClient,
		provideAirQualityResolver,
		provideGeocoder,
		provideLocationRepository,
		location.NewService,
		forecast.NewService,
		wire.Bind(new(forecast.WeatherClient), new(*openmeteo.ForecastClient)),
		wire.Bind(new(forecast.AirQualityResolver), new(*airquality.Resolver)),
		wire.Bind(new(location.Geocoder), new(*openmeteo.Geocoder)),
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil, nil
}
