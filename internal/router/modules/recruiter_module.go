package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/placement-portal/internal/application"
	"github.com/oksasatya/placement-portal/internal/domain/entity"
	handlers "github.com/oksasatya/placement-portal/internal/interface/http"
	"github.com/oksasatya/placement-portal/internal/interface/middleware"
)

type RecruiterModule struct {
	Handler *handlers.RecruiterHandler
	Guard   *application.Guard
}

func NewRecruiterModule(h *handlers.RecruiterHandler, g *application.Guard) *RecruiterModule {
	return &RecruiterModule{Handler: h, Guard: g}
}

func (m *RecruiterModule) Register(rg *gin.RouterGroup) {
	statusLimiter := limit(60, time.Minute, middleware.KeyByUserAndPath())

	r := rg.Group("/recruiter")
	r.Use(middleware.Authenticate(m.Guard), middleware.RequireRoles(m.Guard, entity.RoleRecruiter), perUser())
	{
		r.GET("/profile", m.Handler.GetProfile)
		r.PATCH("/profile", m.Handler.UpdateProfile)

		r.POST("/jobs", m.Handler.CreateJob)
		r.GET("/jobs", m.Handler.ListJobs)
		r.PATCH("/jobs/:jobId", m.Handler.UpdateJob)
		r.GET("/jobs/:jobId/applications", m.Handler.ListJobApplications)

		r.PATCH("/applications/:applicationId/status", statusLimiter, m.Handler.UpdateApplicationStatus)
		r.GET("/applications/:applicationId/resume", m.Handler.ApplicantResume)
	}
}
