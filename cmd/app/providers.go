package main

import (
	"log/slog"

	"github.com/yanqian/weather-outfit/internal/bootstrap"
	"github.com/yanqian/weather-outfit/internal/domain/airquality"
	"github.com/yanqian/weather-outfit/internal/domain/forecast"
	"github.com/yanqian/weather-outfit/internal/domain/location"
	"github.com/yanqian/weather-outfit/internal/infra/config"
	"github.com/yanqian/weather-outfit/internal/infra/openmeteo"
	"github.com/yanqian/weather-outfit/internal/infra/upstream"
)

func provideUpstreamConfig(cfg *config.Config) upstream.Config {
	return bootstrap.UpstreamConfig(cfg)
}

func provideForecastConfig(cfg *config.Config) forecast.Config {
	return bootstrap.ForecastConfig(cfg)
}

func provideLocationConfig(cfg *config.Config) location.Config {
	return bootstrap.LocationConfig(cfg)
}

func provideWeatherClient(cfg *config.Config, up upstream.Config, logger *slog.Logger) *openmeteo.ForecastClient {
	return bootstrap.NewWeatherClient(cfg, up, logger)
}

func provideAirQualityResolver(cfg *config.Config, up upstream.Config, logger *slog.Logger) *airquality.Resolver {
	return bootstrap.NewAirQualityResolver(cfg, up, logger)
}

func provideGeocoder(cfg *config.Config, up upstream.Config, logger *slog.Logger) *openmeteo.Geocoder {
	return bootstrap.NewGeocoder(cfg, up, logger)
}

func provideLocationRepository(cfg *config.Config, logger *slog.Logger) (location.Repository, func(), error) {
	return bootstrap.NewLocationRepository(cfg, logger)
}
