package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/placement-portal/internal/container"
	"github.com/oksasatya/placement-portal/internal/interface/middleware"
)

// limit builds a Redis-backed limiter, or a passthrough when rate limiting
// is switched off or no Redis client was configured.
func limit(max int, window time.Duration, key middleware.KeyFunc) gin.HandlerFunc {
	cfg := container.GetConfig()
	if cfg == nil || !cfg.RateLimitEnabled {
		return middleware.RateLimit(nil, 0, 0, nil, nil)
	}
	return middleware.RateLimit(container.GetRedis(), max, window, key, nil)
}

// perUser is the soft budget shared by every authenticated route.
func perUser() gin.HandlerFunc {
	return limit(120, time.Minute, middleware.KeyByUserID())
}
