// Package health reports the gateway's operational state for the /health
// endpoint.
package health

import (
	"encoding/json"
	"math"
	"net/http"
	"time"

	"github.com/medregistry/search-gateway/interfaces"
	"github.com/medregistry/search-gateway/logging"
)

// Checker derives health from orchestrator activity.
type Checker struct {
	stats        interfaces.StatsSource
	cacheBackend string
	startTime    time.Time
}

// NewChecker creates a health checker. cacheBackend names the active cache
// implementation ("redis" or "memory").
func NewChecker(stats interfaces.StatsSource, cacheBackend string) *Checker {
	return &Checker{
		stats:        stats,
		cacheBackend: cacheBackend,
		startTime:    time.Now(),
	}
}

// Check returns the health status, its detail map and the HTTP status to
// serve it with. The gateway stays "degraded" rather than "unhealthy" when
// the upstream misbehaves, because cached pages can still be served.
func (c *Checker) Check() (status string, data map[string]any, httpStatus int) {
	stats := c.stats.Stats()

	status = "healthy"
	httpStatus = http.StatusOK

	if !stats.LastUpstreamError.IsZero() && stats.LastUpstreamError.After(stats.LastUpstreamSuccess) {
		status = "degraded"
	}

	data = map[string]any{
		"cache_backend":   c.cacheBackend,
		"searches_served": stats.SearchesServed,
		"cache_hits":      stats.CacheHits,
		"uptime_seconds":  math.Round(time.Since(c.startTime).Seconds()),
	}
	if !stats.LastUpstreamSuccess.IsZero() {
		data["last_upstream_success"] = stats.LastUpstreamSuccess.UTC().Format(time.RFC3339)
	}
	if !stats.LastUpstreamError.IsZero() {
		data["last_upstream_error"] = stats.LastUpstreamError.UTC().Format(time.RFC3339)
	}

	return status, data, httpStatus
}

// Handler serves the health endpoint.
func (c *Checker) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status, data, httpStatus := c.Check()

		payload := map[string]any{"status": status}
		for k, v := range data {
			payload[k] = v
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(httpStatus)
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			logging.Debug("Failed to write health response", "error", err)
		}
	}
}
