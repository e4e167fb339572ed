package waqi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/yanqian/weather-outfit/internal/domain/airquality"
	"github.com/yanqian/weather-outfit/internal/infra/upstream"
)

const (
	defaultBaseURL = "https://api.waqi.info"
	defaultToken   = "demo"
)

// Client queries the World Air Quality Index geo feed.
type Client struct {
	baseURL string
	token   string
	client  *upstream.Client
}

// NewClient builds a WAQI client. An empty token uses the public demo token.
func NewClient(baseURL, token string, client *upstream.Client) *Client {
	base := strings.TrimSpace(baseURL)
	if base == "" {
		base = defaultBaseURL
	}
	tok := strings.TrimSpace(token)
	if tok == "" {
		tok = defaultToken
	}
	return &Client{baseURL: strings.TrimRight(base, "/"), token: tok, client: client}
}

// Name implements airquality.Tier.
func (c *Client) Name() string { return "waqi" }

type feedResponse struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
}

type feedData struct {
	AQI  upstream.Number         `json:"aqi"`
	IAQI map[string]speciesValue `json:"iaqi"`
}

type speciesValue struct {
	V upstream.Number `json:"v"`
}

// Resolve implements airquality.Tier.
func (c *Client) Resolve(ctx context.Context, q airquality.Query) (airquality.Outcome, error) {
	endpoint := fmt.Sprintf("%s/feed/geo:%s;%s/?%s",
		c.baseURL,
		strconv.FormatFloat(q.Latitude, 'f', -1, 64),
		strconv.FormatFloat(q.Longitude, 'f', -1, 64),
		url.Values{"token": []string{c.token}}.Encode(),
	)

	var raw feedResponse
	if err := c.client.GetJSON(ctx, endpoint, &raw); err != nil {
		return airquality.Outcome{}, fmt.Errorf("waqi request failed: %w", err)
	}
	// Error payloads arrive with 200 and status "error", data holding a message string.
	if raw.Status != "ok" || len(raw.Data) == 0 {
		return airquality.Unresolved(c.Name()), nil
	}
	var data feedData
	if err := json.Unmarshal(raw.Data, &data); err != nil {
		return airquality.Unresolved(c.Name()), nil
	}

	pm25 := data.IAQI["pm25"].V.Ptr()
	if pm25 == nil {
		pm25 = data.IAQI["p2"].V.Ptr()
	}
	return airquality.Resolved(c.Name(), airquality.Reading{
		PM25:            pm25,
		PM10:            data.IAQI["pm10"].V.Ptr(),
		AirQualityIndex: data.AQI.Ptr(),
	}), nil
}

var _ airquality.Tier = (*Client)(nil)
