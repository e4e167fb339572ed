package forecast

import (
	"strings"
	"time"
)

const (
	defaultFallbackReason = "external weather connection failed"
	fallbackAdvisory      = "Recommendation based on placeholder weather because the live weather connection is unstable."
)

// Fallback synthesizes a placeholder snapshot used when live weather is unavailable.
// The air-quality fields are always nil.
func Fallback(reason string, now time.Time) Snapshot {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = defaultFallbackReason
	}
	tempRange := 7.0
	return Snapshot{
		TempC:                    22,
		Humidity:                 55,
		UVIndex:                  3,
		PrecipitationMm:          0,
		PrecipitationProbability: 10,
		TemperatureRange:         &tempRange,
		UpdatedAt:                now.UTC().Format(time.RFC3339),
		Source:                   SourceFallback,
		SourceMessage:            &reason,
	}
}
