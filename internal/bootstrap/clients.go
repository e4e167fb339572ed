package bootstrap

import (
	"log/slog"

	"github.com/yanqian/weather-outfit/internal/domain/airquality"
	"github.com/yanqian/weather-outfit/internal/domain/forecast"
	"github.com/yanqian/weather-outfit/internal/domain/location"
	"github.com/yanqian/weather-outfit/internal/infra/config"
	"github.com/yanqian/weather-outfit/internal/infra/openmeteo"
	"github.com/yanqian/weather-outfit/internal/infra/upstream"
	"github.com/yanqian/weather-outfit/internal/infra/waqi"
)

// UpstreamConfig maps the shared provider settings.
func UpstreamConfig(cfg *config.Config) upstream.Config {
	u := cfg.Upstream
	return upstream.Config{
		Timeout:            u.Timeout,
		MaxRetries:         u.MaxRetries,
		InitialBackoff:     u.InitialBackoff,
		MaxBackoff:         u.MaxBackoff,
		BreakerMaxRequests: u.Breaker.HalfOpenRequests,
		BreakerInterval:    u.Breaker.Interval,
		BreakerTimeout:     u.Breaker.OpenTimeout,
		BreakerFailures:    u.Breaker.ConsecutiveFailures,
		UserAgent:          u.UserAgent,
	}
}

// NewWeatherClient builds the forecast adapter with its own breaker.
func NewWeatherClient(cfg *config.Config, up upstream.Config, logger *slog.Logger) *openmeteo.ForecastClient {
	client := upstream.NewClient("openmeteo.forecast", up, nil, logger)
	return openmeteo.NewForecastClient(cfg.Weather.BaseURL, cfg.Weather.ForecastDays, client)
}

// NewAirQualityResolver builds the ordered tier cascade: current, hourly, then WAQI.
func NewAirQualityResolver(cfg *config.Config, up upstream.Config, logger *slog.Logger) *airquality.Resolver {
	aq := openmeteo.NewAirQualityClient(cfg.AirQuality.BaseURL, upstream.NewClient("openmeteo.airquality", up, nil, logger))
	tiers := []airquality.Tier{aq.CurrentTier(), aq.HourlyTier()}
	if cfg.AirQuality.WAQIEnabled {
		feed := upstream.NewClient("waqi", up, nil, logger)
		tiers = append(tiers, waqi.NewClient(cfg.AirQuality.WAQIBaseURL, cfg.AirQuality.WAQIToken, feed))
	}
	return airquality.NewResolver(logger, tiers...)
}

// NewGeocoder builds the place search adapter.
func NewGeocoder(cfg *config.Config, up upstream.Config, logger *slog.Logger) *openmeteo.Geocoder {
	client := upstream.NewClient("openmeteo.geocoding", up, nil, logger)
	return openmeteo.NewGeocoder(cfg.Geocoding.BaseURL, cfg.Geocoding.Language, client)
}

// ForecastConfig maps the per-card budget.
func ForecastConfig(cfg *config.Config) forecast.Config {
	return forecast.Config{CardBudget: cfg.Upstream.CardBudget}
}

// LocationConfig maps the seeded defaults.
func LocationConfig(cfg *config.Config) location.Config {
	defaults := make([]location.Candidate, 0, len(cfg.Locations.Defaults))
	for _, d := range cfg.Locations.Defaults {
		defaults = append(defaults, location.Candidate{Name: d.Name, Latitude: d.Latitude, Longitude: d.Longitude})
	}
	return location.Config{Defaults: defaults}
}
