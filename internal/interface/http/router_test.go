package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/weather-outfit/internal/domain/forecast"
	"github.com/yanqian/weather-outfit/internal/domain/location"
	"github.com/yanqian/weather-outfit/internal/infra/config"
	apperrors "github.com/yanqian/weather-outfit/pkg/errors"
	"github.com/yanqian/weather-outfit/pkg/metrics"
)

var seoul = location.Location{ID: "id-1", Name: "Seoul", Latitude: 37.5665, Longitude: 126.978}

func TestRouter_Health(t *testing.T) {
	recorder := performRequest(http.MethodGet, "/api/health", "", newRouterUnderTest(t, &stubLocations{}, &stubForecasts{}))
	require.Equal(t, http.StatusOK, recorder.Code)
	require.JSONEq(t, `{"ok":true}`, recorder.Body.String())
}

func TestRouter_ListLocations(t *testing.T) {
	locs := &stubLocations{
		listFn: func(ctx context.Context) ([]location.Location, error) {
			return []location.Location{seoul}, nil
		},
	}

	recorder := performRequest(http.MethodGet, "/api/locations", "", newRouterUnderTest(t, locs, &stubForecasts{}))
	require.Equal(t, http.StatusOK, recorder.Code)

	var body struct {
		Locations []location.Location `json:"locations"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	require.Equal(t, []location.Location{seoul}, body.Locations)
}

func TestRouter_AddLocationCreated(t *testing.T) {
	locs := &stubLocations{
		addByQueryFn: func(ctx context.Context, req location.AddRequest) (location.AddResult, error) {
			require.Equal(t, "Seoul", req.Query)
			return location.AddResult{Location: seoul, Locations: []location.Location{seoul}}, nil
		},
	}

	recorder := performRequest(http.MethodPost, "/api/locations", `{"query":"Seoul"}`, newRouterUnderTest(t, locs, &stubForecasts{}))
	require.Equal(t, http.StatusCreated, recorder.Code)

	var got location.AddResult
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &got))
	require.Equal(t, seoul, got.Location)
}

func TestRouter_AddLocationErrors(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"empty query", apperrors.Wrap(location.CodeInvalidInput, "query is required", nil), http.StatusBadRequest, location.CodeInvalidInput},
		{"capacity", apperrors.Wrap(location.CodeCapacityExceeded, "at most 2 locations can be saved", nil), http.StatusBadRequest, location.CodeCapacityExceeded},
		{"not found", apperrors.Wrap(location.CodeNotFound, "no location matched the query", location.ErrNotFound), http.StatusNotFound, location.CodeNotFound},
		{"geocoder down", apperrors.Wrap(location.CodeGeocodeFailed, "location search failed", errors.New("boom")), http.StatusBadGateway, location.CodeGeocodeFailed},
		{"storage", apperrors.Wrap(location.CodeStorage, "failed to save locations", errors.New("disk full")), http.StatusInternalServerError, location.CodeStorage},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "internal_error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			locs := &stubLocations{
				addByQueryFn: func(ctx context.Context, req location.AddRequest) (location.AddResult, error) {
					return location.AddResult{}, tc.err
				},
			}

			recorder := performRequest(http.MethodPost, "/api/locations", `{"query":"x"}`, newRouterUnderTest(t, locs, &stubForecasts{}))
			require.Equal(t, tc.status, recorder.Code)
			errBody := decodeErrorBody(t, recorder.Body.Bytes())
			require.Equal(t, tc.code, errBody["error"]["code"])
			require.NotEmpty(t, errBody["error"]["message"])
		})
	}
}

func TestRouter_AddLocationInvalidJSON(t *testing.T) {
	recorder := performRequest(http.MethodPost, "/api/locations", `{"query":12}`, newRouterUnderTest(t, &stubLocations{}, &stubForecasts{}))
	require.Equal(t, http.StatusBadRequest, recorder.Code)
	require.Equal(t, "invalid_request", decodeErrorBody(t, recorder.Body.Bytes())["error"]["code"])
}

func TestRouter_RemoveLocation(t *testing.T) {
	locs := &stubLocations{
		removeFn: func(ctx context.Context, id string) ([]location.Location, error) {
			require.Equal(t, "id-2", id)
			return []location.Location{seoul}, nil
		},
	}

	recorder := performRequest(http.MethodDelete, "/api/locations/id-2", "", newRouterUnderTest(t, locs, &stubForecasts{}))
	require.Equal(t, http.StatusOK, recorder.Code)
	require.Contains(t, recorder.Body.String(), `"Seoul"`)
}

func TestRouter_SavedRecommendationsUsesStoredLocations(t *testing.T) {
	locs := &stubLocations{
		listFn: func(ctx context.Context) ([]location.Location, error) {
			return []location.Location{seoul}, nil
		},
	}
	forecasts := &stubForecasts{
		aggregateFn: func(ctx context.Context, in []location.Location) forecast.Result {
			require.Equal(t, []location.Location{seoul}, in)
			return forecast.Result{Cards: []forecast.Card{{Location: seoul}}, Count: 1, Stats: metrics.SourceStats{Live: 1}}
		},
	}

	recorder := performRequest(http.MethodGet, "/api/recommendations", "", newRouterUnderTest(t, locs, forecasts))
	require.Equal(t, http.StatusOK, recorder.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	require.EqualValues(t, 1, body["count"])
	require.Equal(t, map[string]any{"live": float64(1), "fallback": float64(0)}, body["stats"])
}

func TestRouter_PostRecommendations(t *testing.T) {
	forecasts := &stubForecasts{
		aggregateFn: func(ctx context.Context, in []location.Location) forecast.Result {
			require.Len(t, in, 2)
			require.Equal(t, "Busan", in[1].Name)
			return forecast.Result{Cards: []forecast.Card{}, Count: 2}
		},
	}
	body := `{"locations":[{"id":"a","name":"Seoul","latitude":37.5,"longitude":127},{"id":"b","name":"Busan","latitude":35.1,"longitude":129}]}`

	recorder := performRequest(http.MethodPost, "/api/recommendations", body, newRouterUnderTest(t, &stubLocations{}, forecasts))
	require.Equal(t, http.StatusOK, recorder.Code)
}

func TestRouter_PostRecommendationsRejectsBadCounts(t *testing.T) {
	server := newRouterUnderTest(t, &stubLocations{}, &stubForecasts{})
	for _, body := range []string{
		`{"locations":[]}`,
		`{}`,
		`{"locations":[{"name":"a"},{"name":"b"},{"name":"c"}]}`,
		`{"locations":[{"name":"a","latitude":999,"longitude":0}]}`,
		`{"locations":[{"name":"a","latitude":0,"longitude":-181}]}`,
	} {
		recorder := performRequest(http.MethodPost, "/api/recommendations", body, server)
		require.Equal(t, http.StatusBadRequest, recorder.Code, body)
		require.Equal(t, "invalid_request", decodeErrorBody(t, recorder.Body.Bytes())["error"]["code"])
	}
}

func TestRouter_RecommendationRoutesLogDegradedResults(t *testing.T) {
	locs := &stubLocations{
		listFn: func(ctx context.Context) ([]location.Location, error) {
			return []location.Location{seoul}, nil
		},
	}
	forecasts := &stubForecasts{
		aggregateFn: func(ctx context.Context, in []location.Location) forecast.Result {
			return forecast.Result{Cards: []forecast.Card{{Location: seoul}}, Count: 1, Stats: metrics.SourceStats{Fallback: 1}}
		},
	}

	for _, tc := range []struct {
		method string
		body   string
	}{
		{method: http.MethodGet},
		{method: http.MethodPost, body: `{"locations":[{"name":"Seoul","latitude":37.5665,"longitude":126.978}]}`},
	} {
		var logs bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&logs, nil))
		server := NewRouter(testConfig(), NewHandler(locs, forecasts, logger))

		recorder := performRequest(tc.method, "/api/recommendations", tc.body, server)
		require.Equal(t, http.StatusOK, recorder.Code, tc.method)
		require.Contains(t, logs.String(), "recommendations served from fallback weather", tc.method)
		require.Contains(t, logs.String(), "fallback=1", tc.method)
	}
}

func TestRouter_CORSPreflight(t *testing.T) {
	recorder := performRequest(http.MethodOptions, "/api/locations/abc", "", newRouterUnderTest(t, &stubLocations{}, &stubForecasts{}))
	require.Equal(t, http.StatusNoContent, recorder.Code)
	require.Equal(t, "*", recorder.Header().Get("Access-Control-Allow-Origin"))
	require.Contains(t, recorder.Header().Get("Access-Control-Allow-Methods"), "DELETE")
}

func TestRouter_RateLimitSkipsHealth(t *testing.T) {
	cfg := testConfig()
	cfg.HTTP.RateLimit = config.RateLimitConfig{Enabled: true, RequestsPerMinute: 1, Burst: 1}
	server := NewRouter(cfg, NewHandler(&stubLocations{}, &stubForecasts{}, newTestLogger()))

	require.Equal(t, http.StatusOK, performRequest(http.MethodGet, "/api/locations", "", server).Code)
	limited := performRequest(http.MethodGet, "/api/locations", "", server)
	require.Equal(t, http.StatusTooManyRequests, limited.Code)
	require.Equal(t, "rate_limit_exceeded", decodeErrorBody(t, limited.Body.Bytes())["error"]["code"])
	require.Equal(t, http.StatusOK, performRequest(http.MethodGet, "/api/health", "", server).Code)
}

func TestRouter_RateLimitIsPerRouteGroup(t *testing.T) {
	cfg := testConfig()
	cfg.HTTP.RateLimit = config.RateLimitConfig{Enabled: true, RequestsPerMinute: 1, Burst: 1}
	server := NewRouter(cfg, NewHandler(&stubLocations{}, &stubForecasts{}, newTestLogger()))

	require.Equal(t, http.StatusOK, performRequest(http.MethodGet, "/api/locations", "", server).Code)
	require.Equal(t, http.StatusTooManyRequests, performRequest(http.MethodGet, "/api/locations", "", server).Code)

	recorder := performRequest(http.MethodGet, "/api/recommendations", "", server)
	require.NotEqual(t, http.StatusTooManyRequests, recorder.Code)
}

func TestRouter_RetriesTransientStorageFailure(t *testing.T) {
	var calls atomic.Int32
	locs := &stubLocations{
		listFn: func(ctx context.Context) ([]location.Location, error) {
			if calls.Add(1) == 1 {
				return nil, apperrors.Wrap(location.CodeStorage, "failed to load locations", errors.New("timeout"))
			}
			return []location.Location{seoul}, nil
		},
	}
	cfg := testConfig()
	cfg.HTTP.Retry = config.RetryConfig{Enabled: true, MaxAttempts: 2, BaseBackoff: time.Millisecond, Exclude: []string{"/api/locations"}}
	server := NewRouter(cfg, NewHandler(locs, &stubForecasts{}, newTestLogger()))

	recorder := performRequest(http.MethodGet, "/api/recommendations", "", server)
	require.Equal(t, http.StatusOK, recorder.Code)
	require.EqualValues(t, 2, calls.Load())
}

func TestRouter_RetrySkipsExcludedPaths(t *testing.T) {
	var calls atomic.Int32
	locs := &stubLocations{
		addByQueryFn: func(ctx context.Context, req location.AddRequest) (location.AddResult, error) {
			calls.Add(1)
			return location.AddResult{}, apperrors.Wrap(location.CodeStorage, "failed to save locations", errors.New("timeout"))
		},
	}
	cfg := testConfig()
	cfg.HTTP.Retry = config.RetryConfig{Enabled: true, MaxAttempts: 3, BaseBackoff: time.Millisecond, Exclude: []string{"/api/locations"}}
	server := NewRouter(cfg, NewHandler(locs, &stubForecasts{}, newTestLogger()))

	recorder := performRequest(http.MethodPost, "/api/locations", `{"query":"x"}`, server)
	require.Equal(t, http.StatusInternalServerError, recorder.Code)
	require.EqualValues(t, 1, calls.Load())
}

func performRequest(method, path, body string, server *http.Server) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)
	return rec
}

func testConfig() *config.Config {
	return &config.Config{
		HTTP: config.HTTPConfig{
			Address:      ":0",
			ReadTimeout:  time.Second,
			WriteTimeout: time.Second,
		},
	}
}

func newRouterUnderTest(t *testing.T, locs location.Service, forecasts forecast.Service) *http.Server {
	t.Helper()
	return NewRouter(testConfig(), NewHandler(locs, forecasts, newTestLogger()))
}

func newTestLogger() *slog.Logger {
	handler := slog.NewTextHandler(io.Discard, nil)
	return slog.New(handler)
}

type stubLocations struct {
	listFn       func(ctx context.Context) ([]location.Location, error)
	addFn        func(ctx context.Context, c location.Candidate) (location.AddResult, error)
	addByQueryFn func(ctx context.Context, req location.AddRequest) (location.AddResult, error)
	removeFn     func(ctx context.Context, id string) ([]location.Location, error)
}

func (s *stubLocations) List(ctx context.Context) ([]location.Location, error) {
	if s.listFn != nil {
		return s.listFn(ctx)
	}
	return []location.Location{}, nil
}

func (s *stubLocations) Add(ctx context.Context, c location.Candidate) (location.AddResult, error) {
	if s.addFn != nil {
		return s.addFn(ctx, c)
	}
	return location.AddResult{}, nil
}

func (s *stubLocations) AddByQuery(ctx context.Context, req location.AddRequest) (location.AddResult, error) {
	if s.addByQueryFn != nil {
		return s.addByQueryFn(ctx, req)
	}
	return location.AddResult{}, nil
}

func (s *stubLocations) Remove(ctx context.Context, id string) ([]location.Location, error) {
	if s.removeFn != nil {
		return s.removeFn(ctx, id)
	}
	return []location.Location{}, nil
}

type stubForecasts struct {
	aggregateFn func(ctx context.Context, in []location.Location) forecast.Result
}

func (s *stubForecasts) Aggregate(ctx context.Context, in []location.Location) forecast.Result {
	if s.aggregateFn != nil {
		return s.aggregateFn(ctx, in)
	}
	return forecast.Result{Cards: []forecast.Card{}}
}

func decodeErrorBody(t *testing.T, raw []byte) map[string]map[string]string {
	t.Helper()
	var body map[string]map[string]string
	require.NoError(t, json.Unmarshal(raw, &body))
	return body
}

func TestResolveOrigin(t *testing.T) {
	require.Equal(t, "*", resolveOrigin("https://a.example", nil))
	require.Equal(t, "https://B.example", resolveOrigin("https://B.example", []string{"https://a.example", "https://b.example"}))
	require.Equal(t, "https://a.example", resolveOrigin("https://evil.example", []string{"https://a.example"}))
	require.Equal(t, "*", resolveOrigin("", []string{"*"}))
}
