package openmeteo

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/yanqian/weather-outfit/internal/domain/location"
	"github.com/yanqian/weather-outfit/internal/infra/upstream"
)

const defaultGeocodingURL = "https://geocoding-api.open-meteo.com/v1/search"

// Geocoder resolves place names through the Open-Meteo geocoding API.
type Geocoder struct {
	baseURL  string
	language string
	client   *upstream.Client
}

// NewGeocoder builds a geocoding client.
func NewGeocoder(baseURL, language string, client *upstream.Client) *Geocoder {
	lang := strings.TrimSpace(language)
	if lang == "" {
		lang = "en"
	}
	return &Geocoder{
		baseURL:  trimBase(baseURL, defaultGeocodingURL),
		language: lang,
		client:   client,
	}
}

type geocodingResponse struct {
	Results []struct {
		Name      string  `json:"name"`
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	} `json:"results"`
}

// Search implements location.Geocoder.
func (g *Geocoder) Search(ctx context.Context, query string) (location.Candidate, error) {
	values := url.Values{}
	values.Set("name", query)
	values.Set("count", "1")
	values.Set("language", g.language)

	var raw geocodingResponse
	if err := g.client.GetJSON(ctx, g.baseURL+"?"+values.Encode(), &raw); err != nil {
		return location.Candidate{}, fmt.Errorf("geocoding request failed: %w", err)
	}
	if len(raw.Results) == 0 {
		return location.Candidate{}, fmt.Errorf("geocode %q: %w", query, location.ErrNotFound)
	}
	first := raw.Results[0]
	return location.Candidate{
		Name:      first.Name,
		Latitude:  first.Latitude,
		Longitude: first.Longitude,
	}, nil
}

var _ location.Geocoder = (*Geocoder)(nil)
