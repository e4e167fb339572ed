package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/weather-outfit/internal/domain/forecast"
	"github.com/yanqian/weather-outfit/internal/domain/location"
)

// Handler wires the HTTP transport to domain services.
type Handler struct {
	locations location.Service
	forecasts forecast.Service
	logger    *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(locations location.Service, forecasts forecast.Service, logger *slog.Logger) *Handler {
	return &Handler{
		locations: locations,
		forecasts: forecasts,
		logger:    logger.With("component", "http.handler"),
	}
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// ListLocations returns the saved locations.
func (h *Handler) ListLocations(c *gin.Context) {
	locs, err := h.locations.List(c.Request.Context())
	if err != nil {
		abortWithError(c, domainError(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"locations": locs})
}

// AddLocation geocodes a free-text query and saves the match.
func (h *Handler) AddLocation(c *gin.Context) {
	var req location.AddRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	result, err := h.locations.AddByQuery(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, domainError(err))
		return
	}
	c.JSON(http.StatusCreated, result)
}

// RemoveLocation deletes a saved location. Unknown ids leave the list unchanged.
func (h *Handler) RemoveLocation(c *gin.Context) {
	locs, err := h.locations.Remove(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, domainError(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"locations": locs})
}

// SavedRecommendations builds cards for the stored locations.
func (h *Handler) SavedRecommendations(c *gin.Context) {
	locs, err := h.locations.List(c.Request.Context())
	if err != nil {
		abortWithError(c, domainError(err))
		return
	}
	result := h.forecasts.Aggregate(c.Request.Context(), locs)
	h.logDegraded(c, result)
	c.JSON(http.StatusOK, result)
}

// Recommendations builds cards for the locations in the request body.
func (h *Handler) Recommendations(c *gin.Context) {
	var req forecast.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	result := h.forecasts.Aggregate(c.Request.Context(), req.Locations)
	h.logDegraded(c, result)
	c.JSON(http.StatusOK, result)
}

func (h *Handler) logDegraded(c *gin.Context, result forecast.Result) {
	if !result.Stats.Degraded() {
		return
	}
	h.logger.Warn("recommendations served from fallback weather",
		"route", c.FullPath(),
		"method", c.Request.Method,
		"live", result.Stats.Live,
		"fallback", result.Stats.Fallback,
	)
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
