package airquality

import "time"

// NearestIndex returns the index of the timestamp closest to target.
// Zero timestamps are skipped and ties go to the earliest index. When no
// timestamp is usable the first index is returned.
func NearestIndex(times []time.Time, target time.Time) int {
	best := 0
	var bestGap time.Duration = -1
	for i, ts := range times {
		if ts.IsZero() {
			continue
		}
		gap := ts.Sub(target)
		if gap < 0 {
			gap = -gap
		}
		if bestGap < 0 || gap < bestGap {
			bestGap = gap
			best = i
		}
	}
	return best
}

// Pick extracts the reading at the bucket nearest to target.
// ok is false when the series is empty or every value at that bucket is absent.
func (s HourlySeries) Pick(target time.Time) (Reading, bool) {
	if len(s.Times) == 0 && len(s.PM25) == 0 && len(s.PM10) == 0 && len(s.AQI) == 0 {
		return Reading{}, false
	}
	idx := NearestIndex(s.Times, target)
	reading := Reading{
		PM25:            at(s.PM25, idx),
		PM10:            at(s.PM10, idx),
		AirQualityIndex: at(s.AQI, idx),
	}
	if reading.Empty() {
		return Reading{}, false
	}
	return reading, true
}

func at(values []*float64, idx int) *float64 {
	if idx < 0 || idx >= len(values) {
		return nil
	}
	return values[idx]
}
