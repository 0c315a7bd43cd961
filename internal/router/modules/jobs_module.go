package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/placement-portal/internal/interface/http"
	"github.com/oksasatya/placement-portal/internal/interface/middleware"
)

// JobsModule is the public job board plus the health probe.
type JobsModule struct {
	Jobs   *handlers.JobsHandler
	Health *handlers.HealthHandler
}

func NewJobsModule(jobs *handlers.JobsHandler, health *handlers.HealthHandler) *JobsModule {
	return &JobsModule{Jobs: jobs, Health: health}
}

func (m *JobsModule) Register(rg *gin.RouterGroup) {
	searchLimiter := limit(60, time.Minute, middleware.KeyByIP())

	rg.GET("/jobs", m.Jobs.List)
	rg.GET("/jobs/search", searchLimiter, m.Jobs.Search)
	rg.GET("/health", m.Health.Health)
}
