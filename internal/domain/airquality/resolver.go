package airquality

import (
	"context"
	"log/slog"
)

// Tier is one ranked attempt in the resolution cascade.
type Tier interface {
	Name() string
	Resolve(ctx context.Context, q Query) (Outcome, error)
}

// Resolver tries tiers in order and stops at the first resolved outcome.
type Resolver struct {
	tiers  []Tier
	logger *slog.Logger
}

// NewResolver builds a cascade over the given tiers in priority order.
func NewResolver(logger *slog.Logger, tiers ...Tier) *Resolver {
	return &Resolver{
		tiers:  tiers,
		logger: logger.With("component", "airquality.resolver"),
	}
}

// Resolve returns the reading of the first tier that tags its outcome resolved. ok is false when every tier came up empty.
// Tier errors are logged and never returned.
func (r *Resolver) Resolve(ctx context.Context, q Query) (Reading, bool) {
	for _, tier := range r.tiers {
		if ctx.Err() != nil {
			r.logger.Warn("air quality resolution cancelled", "tier", tier.Name(), "error", ctx.Err())
			return Reading{}, false
		}
		outcome, err := tier.Resolve(ctx, q)
		if err != nil {
			r.logger.Warn("air quality tier failed", "tier", tier.Name(), "lat", q.Latitude, "lon", q.Longitude, "error", err)
			continue
		}
		if !outcome.Resolved {
			r.logger.Debug("air quality tier unresolved", "tier", tier.Name())
			continue
		}
		r.logger.Debug("air quality resolved", "tier", tier.Name())
		return outcome.Reading, true
	}
	r.logger.Info("air quality unavailable from every tier", "lat", q.Latitude, "lon", q.Longitude)
	return Reading{}, false
}
