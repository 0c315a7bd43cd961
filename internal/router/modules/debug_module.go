package modules

import (
	"expvar"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/placement-portal/internal/container"
	"github.com/oksasatya/placement-portal/internal/interface/middleware"
)

type DebugModule struct{}

func NewDebugModule() *DebugModule { return &DebugModule{} }

// Register exposes the expvar counters (applications created, status
// changes, placements). Private-network scrapers skip the limiter.
func (m *DebugModule) Register(rg *gin.RouterGroup) {
	var rl gin.HandlerFunc = func(c *gin.Context) { c.Next() }
	if cfg := container.GetConfig(); cfg != nil && cfg.RateLimitEnabled {
		rl = middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())
	}
	rg.GET("/debug/vars", rl, gin.WrapH(expvar.Handler()))
}
