package openmeteo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/yanqian/weather-outfit/internal/domain/airquality"
	"github.com/yanqian/weather-outfit/internal/infra/upstream"
)

const (
	defaultAirQualityURL = "https://air-quality-api.open-meteo.com/v1/air-quality"
	airQualityFields     = "pm2_5,pm10,us_aqi"
	hourlyLayout         = "2006-01-02T15:04"
)

// AirQualityClient queries the Open-Meteo air-quality API.
type AirQualityClient struct {
	baseURL string
	client  *upstream.Client
	now     func() time.Time
}

// NewAirQualityClient builds an air-quality API client.
func NewAirQualityClient(baseURL string, client *upstream.Client) *AirQualityClient {
	return &AirQualityClient{
		baseURL: trimBase(baseURL, defaultAirQualityURL),
		client:  client,
		now:     time.Now,
	}
}

// CurrentTier reads the current-instant values.
func (c *AirQualityClient) CurrentTier() airquality.Tier {
	return currentTier{c: c}
}

// HourlyTier reads the hourly series and picks the bucket nearest to now.
func (c *AirQualityClient) HourlyTier() airquality.Tier {
	return hourlyTier{c: c}
}

type airQualityResponse struct {
	UTCOffsetSeconds int            `json:"utc_offset_seconds"`
	Current          *aqCurrent     `json:"current"`
	Hourly           *aqHourlySerie `json:"hourly"`
}

type aqCurrent struct {
	PM25 upstream.Number `json:"pm2_5"`
	PM10 upstream.Number `json:"pm10"`
	AQI  upstream.Number `json:"us_aqi"`
}

type aqHourlySerie struct {
	Time []string          `json:"time"`
	PM25 []upstream.Number `json:"pm2_5"`
	PM10 []upstream.Number `json:"pm10"`
	AQI  []upstream.Number `json:"us_aqi"`
}

func (c *AirQualityClient) fetch(ctx context.Context, q airquality.Query, section string) (airQualityResponse, error) {
	values := coordinates(q.Latitude, q.Longitude)
	values.Set(section, airQualityFields)
	tz := strings.TrimSpace(q.Timezone)
	if tz == "" {
		tz = "auto"
	}
	values.Set("timezone", tz)

	var raw airQualityResponse
	if err := c.client.GetJSON(ctx, c.baseURL+"?"+values.Encode(), &raw); err != nil {
		return airQualityResponse{}, fmt.Errorf("air quality %s request failed: %w", section, err)
	}
	return raw, nil
}

type currentTier struct{ c *AirQualityClient }

func (currentTier) Name() string { return "openmeteo.current" }

func (t currentTier) Resolve(ctx context.Context, q airquality.Query) (airquality.Outcome, error) {
	raw, err := t.c.fetch(ctx, q, "current")
	if err != nil {
		return airquality.Outcome{}, err
	}
	if raw.Current == nil {
		return airquality.Unresolved(t.Name()), nil
	}
	return airquality.Resolved(t.Name(), airquality.Reading{
		PM25:            raw.Current.PM25.Ptr(),
		PM10:            raw.Current.PM10.Ptr(),
		AirQualityIndex: raw.Current.AQI.Ptr(),
	}), nil
}

type hourlyTier struct{ c *AirQualityClient }

func (hourlyTier) Name() string { return "openmeteo.hourly" }

func (t hourlyTier) Resolve(ctx context.Context, q airquality.Query) (airquality.Outcome, error) {
	raw, err := t.c.fetch(ctx, q, "hourly")
	if err != nil {
		return airquality.Outcome{}, err
	}
	if raw.Hourly == nil {
		return airquality.Unresolved(t.Name()), nil
	}

	zone := zoneFor(q.Timezone, raw.UTCOffsetSeconds)
	series := airquality.HourlySeries{
		Times: make([]time.Time, len(raw.Hourly.Time)),
		PM25:  upstream.Ptrs(raw.Hourly.PM25),
		PM10:  upstream.Ptrs(raw.Hourly.PM10),
		AQI:   upstream.Ptrs(raw.Hourly.AQI),
	}
	for i, value := range raw.Hourly.Time {
		series.Times[i] = parseHour(value, zone)
	}

	reading, ok := series.Pick(t.c.now())
	if !ok {
		return airquality.Unresolved(t.Name()), nil
	}
	return airquality.Resolved(t.Name(), reading), nil
}

// zoneFor prefers the offset reported by the API since it matches the series.
func zoneFor(name string, offsetSeconds int) *time.Location {
	if offsetSeconds != 0 {
		return time.FixedZone(name, offsetSeconds)
	}
	if name != "" {
		if loc, err := time.LoadLocation(name); err == nil {
			return loc
		}
	}
	return time.UTC
}

// parseHour returns the zero time for values it cannot read.
func parseHour(value string, zone *time.Location) time.Time {
	value = strings.TrimSpace(value)
	if ts, err := time.Parse(time.RFC3339, value); err == nil {
		return ts
	}
	ts, err := time.ParseInLocation(hourlyLayout, value, zone)
	if err != nil {
		return time.Time{}
	}
	return ts
}
