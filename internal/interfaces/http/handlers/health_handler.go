package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthChecker reports the availability of one backing dependency.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// checkTimeout bounds each dependency probe during readiness.
const checkTimeout = 3 * time.Second

// HealthHandler serves liveness and readiness.
type HealthHandler struct {
	checks map[string]HealthChecker
}

// NewHealthHandler registers the named dependency checks probed by
// readiness.
func NewHealthHandler(checks map[string]HealthChecker) *HealthHandler {
	return &HealthHandler{checks: checks}
}

// Liveness reports that the process is up.
// GET /healthz
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness probes every registered dependency and reports per-dependency
// state, returning 503 when any probe fails.
// GET /readyz
func (h *HealthHandler) Readiness(c *gin.Context) {
	status := http.StatusOK
	deps := make(map[string]string, len(h.checks))

	for name, check := range h.checks {
		ctx, cancel := context.WithTimeout(c.Request.Context(), checkTimeout)
		err := check.HealthCheck(ctx)
		cancel()
		if err != nil {
			deps[name] = err.Error()
			status = http.StatusServiceUnavailable
		} else {
			deps[name] = "ok"
		}
	}

	body := gin.H{"dependencies": deps}
	if status == http.StatusOK {
		body["status"] = "ready"
	} else {
		body["status"] = "degraded"
	}
	c.JSON(status, body)
}
