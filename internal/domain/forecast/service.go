package forecast

import (
	"context"
	"log/slog"
	"math"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/yanqian/weather-outfit/internal/domain/airquality"
	"github.com/yanqian/weather-outfit/internal/domain/location"
	"github.com/yanqian/weather-outfit/internal/domain/outfit"
	"github.com/yanqian/weather-outfit/pkg/metrics"
	"github.com/yanqian/weather-outfit/pkg/util"
)

// Service aggregates weather, air quality and outfit advice per location.
type Service interface {
	Aggregate(ctx context.Context, locations []location.Location) Result
}

// WeatherClient fetches current conditions and a two-day forecast.
type WeatherClient interface {
	Fetch(ctx context.Context, p Point) (Observation, error)
}

// AirQualityResolver resolves air quality, reporting false when no tier had data.
type AirQualityResolver interface {
	Resolve(ctx context.Context, q airquality.Query) (airquality.Reading, bool)
}

// Config bounds the work spent on one location.
type Config struct {
	// CardBudget caps weather plus air-quality calls for a single card. Zero disables the cap.
	CardBudget time.Duration
}

type service struct {
	cfg        Config
	weather    WeatherClient
	airQuality AirQualityResolver
	logger     *slog.Logger
	now        func() time.Time
}

// NewService wires up the aggregation pipeline.
func NewService(cfg Config, weather WeatherClient, airQuality AirQualityResolver, logger *slog.Logger) Service {
	return &service{
		cfg:        cfg,
		weather:    weather,
		airQuality: airQuality,
		logger:     logger.With("component", "forecast.service"),
		now:        util.NowUTC,
	}
}

// Aggregate builds one card per location concurrently. Cards keep input order.
func (s *service) Aggregate(ctx context.Context, locations []location.Location) Result {
	cards := make([]Card, len(locations))
	var g errgroup.Group
	for i, loc := range locations {
		g.Go(func() error {
			cards[i] = s.buildCard(ctx, loc)
			return nil
		})
	}
	_ = g.Wait()

	var stats metrics.SourceStats
	for _, card := range cards {
		stats.Record(string(card.Weather.Source))
	}
	return Result{Cards: cards, Count: len(cards), Stats: stats}
}

func (s *service) buildCard(ctx context.Context, loc location.Location) Card {
	if s.cfg.CardBudget > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.CardBudget)
		defer cancel()
	}

	snapshot, live := s.resolveWeather(ctx, loc)

	if live {
		q := airquality.Query{Latitude: loc.Latitude, Longitude: loc.Longitude}
		if snapshot.Timezone != nil {
			q.Timezone = *snapshot.Timezone
		}
		if reading, ok := s.airQuality.Resolve(ctx, q); ok {
			snapshot.PM25 = reading.PM25
			snapshot.PM10 = reading.PM10
			snapshot.AirQualityIndex = reading.AirQualityIndex
		}
	}

	rec := outfit.Recommend(snapshot.Conditions())
	if snapshot.Source == SourceFallback {
		rec.PrependNote(fallbackAdvisory)
	}

	var tomorrowRec *outfit.Recommendation
	if snapshot.Tomorrow != nil && snapshot.Tomorrow.TempAvg != nil {
		prob := 0.0
		if snapshot.Tomorrow.PrecipitationProbability != nil {
			prob = *snapshot.Tomorrow.PrecipitationProbability
		}
		next := outfit.Recommend(outfit.Conditions{
			TempC:                    *snapshot.Tomorrow.TempAvg,
			Humidity:                 snapshot.Humidity,
			UVIndex:                  snapshot.UVIndex,
			PrecipitationMm:          0,
			PrecipitationProbability: prob,
		})
		tomorrowRec = &next
	}

	return Card{
		Location:               loc,
		Weather:                snapshot,
		Recommendation:         rec,
		TomorrowRecommendation: tomorrowRec,
	}
}

func (s *service) resolveWeather(ctx context.Context, loc location.Location) (Snapshot, bool) {
	obs, err := s.weather.Fetch(ctx, Point{Latitude: loc.Latitude, Longitude: loc.Longitude})
	if err == nil {
		err = obs.Validate()
	}
	if err != nil {
		s.logger.Warn("weather fetch failed, using fallback", "location", loc.Name, "id", loc.ID, "error", err)
		return Fallback(err.Error(), s.now()), false
	}
	return s.liveSnapshot(obs), true
}

func (s *service) liveSnapshot(obs Observation) Snapshot {
	cur := obs.Current
	daily := obs.Daily

	snapshot := Snapshot{
		TempC:                    *cur.TempC,
		Humidity:                 valueOr(cur.Humidity, 0),
		UVIndex:                  valueOr(cur.UVIndex, 0),
		PrecipitationMm:          valueOr(cur.PrecipitationMm, 0),
		PrecipitationProbability: valueOr(index(daily.PrecipitationProbability, 0), 0),
		TemperatureRange:         temperatureRange(daily, obs.HourlyTemps),
		UpdatedAt:                strings.TrimSpace(cur.Time),
		Source:                   SourceLive,
	}
	if snapshot.UpdatedAt == "" {
		snapshot.UpdatedAt = s.now().UTC().Format(time.RFC3339)
	}
	if tz := strings.TrimSpace(obs.Timezone); tz != "" {
		snapshot.Timezone = &tz
	}

	tomorrow := &Tomorrow{
		TempMax:                  index(daily.TempMax, 1),
		TempMin:                  index(daily.TempMin, 1),
		PrecipitationProbability: index(daily.PrecipitationProbability, 1),
	}
	if tomorrow.TempMax != nil && tomorrow.TempMin != nil {
		avg := round1((*tomorrow.TempMax + *tomorrow.TempMin) / 2)
		tomorrow.TempAvg = &avg
	}
	snapshot.Tomorrow = tomorrow
	return snapshot
}

// temperatureRange prefers today's daily max-min and falls back to the hourly spread.
func temperatureRange(daily *Daily, hourly []*float64) *float64 {
	maxT, minT := index(daily.TempMax, 0), index(daily.TempMin, 0)
	if maxT != nil && minT != nil {
		return roundedPtr(*maxT - *minT)
	}

	var (
		hi, lo float64
		seen   bool
	)
	for _, v := range hourly {
		if v == nil || math.IsNaN(*v) {
			continue
		}
		if !seen {
			hi, lo, seen = *v, *v, true
			continue
		}
		hi = math.Max(hi, *v)
		lo = math.Min(lo, *v)
	}
	if !seen {
		return nil
	}
	return roundedPtr(hi - lo)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func roundedPtr(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	r := round1(v)
	return &r
}

func index(values []*float64, i int) *float64 {
	if i < 0 || i >= len(values) {
		return nil
	}
	return values[i]
}

func valueOr(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}
