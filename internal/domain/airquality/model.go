package airquality

import "time"

// Query identifies the point to resolve air quality for.
type Query struct {
	Latitude  float64
	Longitude float64
	// Timezone is the IANA zone reported by the weather provider, or empty.
	Timezone string
}

// Reading is the normalized air-quality shape shared by every tier.
// A nil field means the tier had no numeric value for it.
type Reading struct {
	PM25            *float64 `json:"pm25"`
	PM10            *float64 `json:"pm10"`
	AirQualityIndex *float64 `json:"airQualityIndex"`
}

// Empty reports whether no field carries a value.
func (r Reading) Empty() bool {
	return r.PM25 == nil && r.PM10 == nil && r.AirQualityIndex == nil
}

// Outcome is the tagged result of one tier attempt.
type Outcome struct {
	Tier     string
	Resolved bool
	Reading  Reading
}

// Resolved tags a reading as usable.
func Resolved(tier string, reading Reading) Outcome {
	return Outcome{Tier: tier, Resolved: true, Reading: reading}
}

// Unresolved tags a tier attempt that produced nothing usable.
func Unresolved(tier string) Outcome {
	return Outcome{Tier: tier}
}

// HourlySeries is an hourly time-indexed air-quality series.
// Value slices are index-aligned with Times and may be shorter.
type HourlySeries struct {
	Times []time.Time
	PM25  []*float64
	PM10  []*float64
	AQI   []*float64
}
