package openmeteo

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/yanqian/weather-outfit/internal/domain/forecast"
	"github.com/yanqian/weather-outfit/internal/infra/upstream"
)

const defaultForecastURL = "https://api.open-meteo.com/v1/forecast"

// ForecastClient fetches current conditions and a two-day forecast.
type ForecastClient struct {
	baseURL string
	days    int
	client  *upstream.Client
}

// NewForecastClient builds a forecast API client.
func NewForecastClient(baseURL string, days int, client *upstream.Client) *ForecastClient {
	if days < 2 {
		days = 2
	}
	return &ForecastClient{
		baseURL: trimBase(baseURL, defaultForecastURL),
		days:    days,
		client:  client,
	}
}

// Fetch implements forecast.WeatherClient.
func (c *ForecastClient) Fetch(ctx context.Context, p forecast.Point) (forecast.Observation, error) {
	values := coordinates(p.Latitude, p.Longitude)
	values.Set("current", "temperature_2m,relative_humidity_2m,uv_index,precipitation")
	values.Set("daily", "precipitation_probability_max,temperature_2m_max,temperature_2m_min")
	values.Set("hourly", "temperature_2m")
	values.Set("forecast_days", strconv.Itoa(c.days))
	values.Set("timezone", "auto")

	var raw forecastResponse
	if err := c.client.GetJSON(ctx, c.baseURL+"?"+values.Encode(), &raw); err != nil {
		return forecast.Observation{}, fmt.Errorf("weather request failed: %w", err)
	}
	return raw.toObservation(), nil
}

type forecastResponse struct {
	Timezone string           `json:"timezone"`
	Current  *currentSection  `json:"current"`
	Daily    *dailySection    `json:"daily"`
	Hourly   *hourlyTempSerie `json:"hourly"`
}

type currentSection struct {
	Time          string          `json:"time"`
	Temperature   upstream.Number `json:"temperature_2m"`
	Humidity      upstream.Number `json:"relative_humidity_2m"`
	UVIndex       upstream.Number `json:"uv_index"`
	Precipitation upstream.Number `json:"precipitation"`
}

type dailySection struct {
	PrecipitationProbabilityMax []upstream.Number `json:"precipitation_probability_max"`
	TemperatureMax              []upstream.Number `json:"temperature_2m_max"`
	TemperatureMin              []upstream.Number `json:"temperature_2m_min"`
}

type hourlyTempSerie struct {
	Temperature []upstream.Number `json:"temperature_2m"`
}

func (r forecastResponse) toObservation() forecast.Observation {
	obs := forecast.Observation{Timezone: r.Timezone}
	if r.Current != nil {
		obs.Current = &forecast.Current{
			Time:            r.Current.Time,
			TempC:           r.Current.Temperature.Ptr(),
			Humidity:        r.Current.Humidity.Ptr(),
			UVIndex:         r.Current.UVIndex.Ptr(),
			PrecipitationMm: r.Current.Precipitation.Ptr(),
		}
	}
	if r.Daily != nil {
		obs.Daily = &forecast.Daily{
			TempMax:                  upstream.Ptrs(r.Daily.TemperatureMax),
			TempMin:                  upstream.Ptrs(r.Daily.TemperatureMin),
			PrecipitationProbability: upstream.Ptrs(r.Daily.PrecipitationProbabilityMax),
		}
	}
	if r.Hourly != nil {
		obs.HourlyTemps = upstream.Ptrs(r.Hourly.Temperature)
	}
	return obs
}

func coordinates(lat, lon float64) url.Values {
	values := url.Values{}
	values.Set("latitude", strconv.FormatFloat(lat, 'f', -1, 64))
	values.Set("longitude", strconv.FormatFloat(lon, 'f', -1, 64))
	return values
}

func trimBase(baseURL, fallback string) string {
	trimmed := strings.TrimSpace(baseURL)
	if trimmed == "" {
		trimmed = fallback
	}
	return strings.TrimRight(trimmed, "/")
}

var _ forecast.WeatherClient = (*ForecastClient)(nil)
