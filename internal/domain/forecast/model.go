package forecast

import (
	"errors"

	"github.com/yanqian/weather-outfit/internal/domain/location"
	"github.com/yanqian/weather-outfit/internal/domain/outfit"
	"github.com/yanqian/weather-outfit/pkg/metrics"
)

// Source tags where a snapshot's weather values came from.
type Source string

const (
	SourceLive     Source = "live"
	SourceFallback Source = "fallback"
)

// Snapshot is the full weather and air-quality view of one location.
type Snapshot struct {
	TempC                    float64   `json:"tempC"`
	Humidity                 float64   `json:"humidity"`
	UVIndex                  float64   `json:"uvIndex"`
	PrecipitationMm          float64   `json:"precipitationMm"`
	PrecipitationProbability float64   `json:"precipitationProbability"`
	TemperatureRange         *float64  `json:"temperatureRange"`
	PM25                     *float64  `json:"pm25"`
	PM10                     *float64  `json:"pm10"`
	AirQualityIndex          *float64  `json:"airQualityIndex"`
	UpdatedAt                string    `json:"updatedAt"`
	Timezone                 *string   `json:"timezone"`
	Source                   Source    `json:"source"`
	SourceMessage            *string   `json:"sourceMessage"`
	Tomorrow                 *Tomorrow `json:"tomorrow"`
}

// Tomorrow summarizes the next day of the forecast.
type Tomorrow struct {
	TempMax                  *float64 `json:"tempMax"`
	TempMin                  *float64 `json:"tempMin"`
	TempAvg                  *float64 `json:"tempAvg"`
	PrecipitationProbability *float64 `json:"precipitationProbability"`
}

// Conditions converts the snapshot into recommendation input.
func (s Snapshot) Conditions() outfit.Conditions {
	return outfit.Conditions{
		TempC:                    s.TempC,
		Humidity:                 s.Humidity,
		UVIndex:                  s.UVIndex,
		PrecipitationMm:          s.PrecipitationMm,
		PrecipitationProbability: s.PrecipitationProbability,
		TemperatureRange:         s.TemperatureRange,
		PM25:                     s.PM25,
		PM10:                     s.PM10,
		AirQualityIndex:          s.AirQualityIndex,
	}
}

// Card is the combined result returned for one location.
type Card struct {
	location.Location
	Weather                Snapshot               `json:"weather"`
	Recommendation         outfit.Recommendation  `json:"recommendation"`
	TomorrowRecommendation *outfit.Recommendation `json:"tomorrowRecommendation"`
}

// Request carries caller supplied locations.
type Request struct {
	Locations []location.Location `json:"locations" binding:"required,min=1,max=2,dive"`
}

// Result is the ordered list of cards for one aggregation call.
type Result struct {
	Cards []Card              `json:"cards"`
	Count int                 `json:"count"`
	Stats metrics.SourceStats `json:"stats"`
}

// Point is a coordinate pair sent to the weather provider.
type Point struct {
	Latitude  float64
	Longitude float64
}

// Observation is the typed weather provider payload.
// Current and Daily are nil when the provider omitted the section.
type Observation struct {
	Current     *Current
	Daily       *Daily
	HourlyTemps []*float64
	Timezone    string
}

// Current holds the current-instant readings.
type Current struct {
	Time            string
	TempC           *float64
	Humidity        *float64
	UVIndex         *float64
	PrecipitationMm *float64
}

// Daily holds day-indexed series; index 0 is today.
type Daily struct {
	TempMax                  []*float64
	TempMin                  []*float64
	PrecipitationProbability []*float64
}

var (
	ErrMissingCurrent     = errors.New("weather payload has no current section")
	ErrMissingDaily       = errors.New("weather payload has no daily section")
	ErrMissingTemperature = errors.New("weather payload has no current temperature")
)

// Validate rejects payloads that cannot produce a live snapshot.
func (o Observation) Validate() error {
	switch {
	case o.Current == nil:
		return ErrMissingCurrent
	case o.Daily == nil:
		return ErrMissingDaily
	case o.Current.TempC == nil:
		return ErrMissingTemperature
	}
	return nil
}
