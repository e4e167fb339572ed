package outfit

// Conditions is the weather input of the recommendation engine.
// Optional readings are nil when the upstream could not supply them.
type Conditions struct {
	TempC                    float64
	Humidity                 float64
	UVIndex                  float64
	PrecipitationMm          float64
	PrecipitationProbability float64
	TemperatureRange         *float64
	PM25                     *float64
	PM10                     *float64
	AirQualityIndex          *float64
}

// Recommendation is serialized back to API consumers.
type Recommendation struct {
	OutfitLabel string      `json:"outfitLabel"`
	ImageRef    string      `json:"image"`
	Items       []Item      `json:"items"`
	Accessories []Accessory `json:"accessories"`
}

// Item is a base clothing piece of the selected band.
type Item struct {
	Name string  `json:"name"`
	Note *string `json:"note"`
}

// Accessory is an extra suggested on top of the base outfit.
type Accessory struct {
	Name string `json:"name"`
	Note string `json:"note"`
}
