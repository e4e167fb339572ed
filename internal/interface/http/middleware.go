package http

import (
	"log/slog"
	"math"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/weather-outfit/internal/infra/config"
)

const (
	healthPath     = "/api/health"
	visitorTTL     = 5 * time.Minute
	retryAfterSecs = "60"
)

func errorHandlingMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		httpErr := asHTTPError(c.Errors.Last().Err)
		level := slog.LevelWarn
		if httpErr.Status >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		logger.Log(c.Request.Context(), level, "request failed",
			"method", c.Request.Method,
			"route", c.FullPath(),
			"code", httpErr.Code,
			"status", httpErr.Status,
			"error", httpErr.Err,
		)

		c.JSON(httpErr.Status, httpErr.body())
	}
}

// rateLimitMiddleware gives each client one token bucket per route group, so
// polling recommendations cannot starve location edits. Health checks are exempt.
func rateLimitMiddleware(cfg config.RateLimitConfig, logger *slog.Logger) gin.HandlerFunc {
	if !cfg.Enabled || cfg.RequestsPerMinute <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	limiter := newRouteLimiter(float64(cfg.RequestsPerMinute), float64(cfg.Burst), time.Now)
	return func(c *gin.Context) {
		if c.Request.URL.Path == healthPath {
			c.Next()
			return
		}
		key := limiterKey{client: c.ClientIP(), group: routeGroup(c.Request.URL.Path)}
		if limiter.allow(key) {
			c.Next()
			return
		}
		logger.Warn("rate limit exceeded", "ip", key.client, "group", key.group)
		c.Header("Retry-After", retryAfterSecs)
		abortWithError(c, NewHTTPError(http.StatusTooManyRequests, "rate_limit_exceeded", "too many requests", nil))
	}
}

// routeGroup is the first segment below /api, e.g. "locations".
func routeGroup(path string) string {
	rest := strings.TrimPrefix(strings.TrimPrefix(path, "/api"), "/")
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		rest = rest[:i]
	}
	if rest == "" {
		return "root"
	}
	return rest
}

type limiterKey struct {
	client string
	group  string
}

type bucket struct {
	tokens   float64
	lastSeen time.Time
}

// refill tops the bucket up for the time since it was last touched.
func (b *bucket) refill(now time.Time, perMinute, capacity float64) {
	if elapsed := now.Sub(b.lastSeen).Minutes(); elapsed > 0 {
		b.tokens = math.Min(capacity, b.tokens+elapsed*perMinute)
	}
	b.lastSeen = now
}

type routeLimiter struct {
	mu        sync.Mutex
	buckets   map[limiterKey]*bucket
	perMinute float64
	capacity  float64
	now       func() time.Time
	lastSweep time.Time
}

func newRouteLimiter(perMinute, capacity float64, now func() time.Time) *routeLimiter {
	if capacity < 1 {
		capacity = 1
	}
	return &routeLimiter{
		buckets:   make(map[limiterKey]*bucket),
		perMinute: perMinute,
		capacity:  capacity,
		now:       now,
		lastSweep: now(),
	}
}

func (l *routeLimiter) allow(key limiterKey) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{tokens: l.capacity, lastSeen: now}
		l.buckets[key] = b
	}
	b.refill(now, l.perMinute, l.capacity)
	l.sweep(now)

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

// sweep drops idle buckets at most once per TTL.
func (l *routeLimiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < visitorTTL {
		return
	}
	for key, b := range l.buckets {
		if now.Sub(b.lastSeen) > visitorTTL {
			delete(l.buckets, key)
		}
	}
	l.lastSweep = now
}
