package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/placement-portal/internal/application"
	"github.com/oksasatya/placement-portal/internal/domain/entity"
	handlers "github.com/oksasatya/placement-portal/internal/interface/http"
	"github.com/oksasatya/placement-portal/internal/interface/middleware"
)

type StudentModule struct {
	Handler *handlers.StudentHandler
	Guard   *application.Guard
}

func NewStudentModule(h *handlers.StudentHandler, g *application.Guard) *StudentModule {
	return &StudentModule{Handler: h, Guard: g}
}

func (m *StudentModule) Register(rg *gin.RouterGroup) {
	applyLimiter := limit(20, time.Minute, middleware.KeyByUserAndPath())

	s := rg.Group("/student")
	s.Use(middleware.Authenticate(m.Guard), middleware.RequireRoles(m.Guard, entity.RoleStudent), perUser())
	{
		s.GET("/profile", m.Handler.GetProfile)
		s.PATCH("/profile", m.Handler.UpdateProfile)

		s.POST("/jobs/:jobId/apply", applyLimiter, m.Handler.Apply)
		s.GET("/applications", m.Handler.ListApplications)
		s.PATCH("/applications/:applicationId/withdraw", m.Handler.Withdraw)

		s.POST("/resume", m.Handler.UploadResume)
		s.GET("/resume", m.Handler.ResumeURL)
		s.DELETE("/resume", m.Handler.DeleteResume)
	}
}
