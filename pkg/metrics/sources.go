package metrics

// SourceStats counts cards by the provenance of their weather data.
type SourceStats struct {
	Live     int `json:"live"`
	Fallback int `json:"fallback"`
}

// Record bumps the counter matching source. Unknown sources are ignored.
func (s *SourceStats) Record(source string) {
	switch source {
	case "live":
		s.Live++
	case "fallback":
		s.Fallback++
	}
}

// IsZero reports whether no card was counted.
func (s SourceStats) IsZero() bool {
	return s.Live == 0 && s.Fallback == 0
}

// Degraded reports whether any card fell back to placeholder weather.
func (s SourceStats) Degraded() bool {
	return s.Fallback > 0
}
