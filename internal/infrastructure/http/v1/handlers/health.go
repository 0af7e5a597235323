// Package handlers provides HTTP request handlers.
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ReadyCheck reports whether a backing dependency can serve traffic.
type ReadyCheck func(ctx context.Context) error

// ReadyStats returns backend usage shown next to the readiness result.
type ReadyStats func() any

// HealthHandler provides health check endpoints.
type HealthHandler struct {
	backend string
	check   ReadyCheck
	stats   ReadyStats
}

// NewHealthHandler creates a new health handler. check and stats may be nil
// for backends with nothing to probe or report.
func NewHealthHandler(backend string, check ReadyCheck, stats ReadyStats) *HealthHandler {
	return &HealthHandler{backend: backend, check: check, stats: stats}
}

// Live handles liveness probe (is the process alive?).
// GET /health/live
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// Ready handles readiness probe (is the service ready to accept traffic?).
// GET /health/ready
func (h *HealthHandler) Ready(c *gin.Context) {
	status, body := http.StatusOK, gin.H{
		"status": "ok",
		"checks": map[string]string{
			h.backend: "healthy",
		},
	}
	if h.check != nil {
		if err := h.check(c.Request.Context()); err != nil {
			status, body = http.StatusServiceUnavailable, gin.H{
				"status": "error",
				"checks": map[string]string{
					h.backend: "unhealthy: " + err.Error(),
				},
			}
		}
	}
	if h.stats != nil {
		body["stats"] = map[string]any{h.backend: h.stats()}
	}

	c.JSON(status, body)
}
