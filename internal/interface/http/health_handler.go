package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/placement-portal/pkg/response"
)

// Check probes one dependency.
type Check func(ctx context.Context) error

type HealthHandler struct {
	Checks map[string]Check
}

func NewHealthHandler(checks map[string]Check) *HealthHandler {
	return &HealthHandler{Checks: checks}
}

// Health reports 503 when any dependency is down.
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	results := make(map[string]string, len(h.Checks))
	for name, check := range h.Checks {
		if err := check(ctx); err != nil {
			results[name] = "down"
			status = http.StatusServiceUnavailable
			continue
		}
		results[name] = "up"
	}
	if status != http.StatusOK {
		response.Error[any](c, status, "degraded", gin.H{"code": "UNAVAILABLE", "details": results})
		return
	}
	response.Success(c, status, gin.H{"status": "ok", "checks": results}, "health", nil)
}
