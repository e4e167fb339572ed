package airquality

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func ptr(v float64) *float64 { return &v }

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type stubTier struct {
	name    string
	outcome Outcome
	err     error
	calls   int
	last    Query
}

func (s *stubTier) Name() string { return s.name }

func (s *stubTier) Resolve(ctx context.Context, q Query) (Outcome, error) {
	s.calls++
	s.last = q
	if s.err != nil {
		return Outcome{}, s.err
	}
	return s.outcome, nil
}

func TestResolverStopsAtFirstResolvedTier(t *testing.T) {
	first := &stubTier{name: "current", outcome: Resolved("current", Reading{PM25: ptr(12)})}
	second := &stubTier{name: "hourly"}

	reading, ok := NewResolver(newTestLogger(), first, second).Resolve(context.Background(), Query{Latitude: 1, Longitude: 2, Timezone: "Asia/Seoul"})
	require.True(t, ok)
	require.Equal(t, 12.0, *reading.PM25)
	require.Equal(t, 1, first.calls)
	require.Equal(t, 0, second.calls)
	require.Equal(t, "Asia/Seoul", first.last.Timezone)
}

func TestResolverCascadesOnErrorsAndUnresolved(t *testing.T) {
	first := &stubTier{name: "current", err: errors.New("status 503")}
	second := &stubTier{name: "hourly", outcome: Unresolved("hourly")}
	third := &stubTier{name: "waqi", outcome: Resolved("waqi", Reading{AirQualityIndex: ptr(91)})}

	reading, ok := NewResolver(newTestLogger(), first, second, third).Resolve(context.Background(), Query{})
	require.True(t, ok)
	require.Equal(t, 91.0, *reading.AirQualityIndex)
	require.Nil(t, reading.PM25)
	require.Equal(t, []int{1, 1, 1}, []int{first.calls, second.calls, third.calls})
}

func TestResolverExhaustedIsNotAnError(t *testing.T) {
	tiers := []Tier{
		&stubTier{name: "current", err: errors.New("dial tcp: timeout")},
		&stubTier{name: "hourly", outcome: Unresolved("hourly")},
		&stubTier{name: "waqi", err: errors.New("status 500")},
	}
	reading, ok := NewResolver(newTestLogger(), tiers...).Resolve(context.Background(), Query{})
	require.False(t, ok)
	require.True(t, reading.Empty())
}

func TestResolverHonoursCancelledContext(t *testing.T) {
	tier := &stubTier{name: "current", outcome: Resolved("current", Reading{PM10: ptr(3)})}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, ok := NewResolver(newTestLogger(), tier).Resolve(ctx, Query{})
	require.False(t, ok)
	require.Equal(t, 0, tier.calls)
}

func TestNearestIndexPicksSmallestOffset(t *testing.T) {
	now := time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)
	times := []time.Time{now.Add(-3 * time.Hour), now.Add(-time.Hour), now.Add(2 * time.Hour)}
	require.Equal(t, 1, NearestIndex(times, now))
}

func TestNearestIndexTieGoesToFirst(t *testing.T) {
	now := time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)
	times := []time.Time{now.Add(-time.Hour), now.Add(time.Hour)}
	require.Equal(t, 0, NearestIndex(times, now))
}

func TestNearestIndexSkipsUnparsedTimes(t *testing.T) {
	now := time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)
	times := []time.Time{{}, now.Add(5 * time.Hour), {}}
	require.Equal(t, 1, NearestIndex(times, now))
	require.Equal(t, 0, NearestIndex(nil, now))
}

func TestHourlySeriesPick(t *testing.T) {
	now := time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)
	series := HourlySeries{
		Times: []time.Time{now.Add(-3 * time.Hour), now.Add(-time.Hour), now.Add(2 * time.Hour)},
		PM25:  []*float64{ptr(5), ptr(18), ptr(40)},
		PM10:  []*float64{ptr(9), nil, ptr(70)},
		AQI:   []*float64{ptr(20), ptr(55), ptr(90)},
	}

	reading, ok := series.Pick(now)
	require.True(t, ok)
	require.Equal(t, 18.0, *reading.PM25)
	require.Nil(t, reading.PM10)
	require.Equal(t, 55.0, *reading.AirQualityIndex)
}

func TestHourlySeriesPickEmpty(t *testing.T) {
	now := time.Now()
	_, ok := HourlySeries{}.Pick(now)
	require.False(t, ok)

	_, ok = HourlySeries{
		Times: []time.Time{now},
		PM25:  []*float64{nil},
		PM10:  []*float64{nil},
	}.Pick(now)
	require.False(t, ok)
}
