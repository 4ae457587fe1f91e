package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler exposes liveness and readiness information.
type HealthHandler struct {
	startedAt time.Time
	deps      map[string]Pinger
}

// NewHealthHandler builds a new health handler instance. The deps map names
// each backing store probed by the readiness endpoint.
func NewHealthHandler(deps map[string]Pinger) *HealthHandler {
	return &HealthHandler{startedAt: time.Now().UTC(), deps: deps}
}

// Status returns the status and start time of the service.
func (h *HealthHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "ok",
		StartedAt: h.startedAt,
	})
}

// Ready probes each backing store and fails if any is unreachable.
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	for name, dep := range h.deps {
		if dep == nil {
			continue
		}
		if err := dep.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, NewErrorResponse(c, name+" unavailable"))
			return
		}
	}

	c.JSON(http.StatusOK, HealthResponse{
		Status:    "ready",
		StartedAt: h.startedAt,
	})
}
