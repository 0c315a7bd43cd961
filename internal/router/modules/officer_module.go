package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/placement-portal/internal/application"
	"github.com/oksasatya/placement-portal/internal/domain/entity"
	handlers "github.com/oksasatya/placement-portal/internal/interface/http"
	"github.com/oksasatya/placement-portal/internal/interface/middleware"
)

// OfficerModule serves placement-cell operations to officers and admins.
type OfficerModule struct {
	Handler *handlers.OfficerHandler
	Guard   *application.Guard
}

func NewOfficerModule(h *handlers.OfficerHandler, g *application.Guard) *OfficerModule {
	return &OfficerModule{Handler: h, Guard: g}
}

func (m *OfficerModule) Register(rg *gin.RouterGroup) {
	officer := rg.Group("/officer")
	officer.Use(
		middleware.Authenticate(m.Guard),
		middleware.RequireRoles(m.Guard, entity.RoleAdmin, entity.RoleOfficer),
		perUser(),
	)
	{
		officer.POST("/students", m.Handler.CreateStudent)
		officer.POST("/students/bulk", m.Handler.BulkImportStudents)
		officer.POST("/students/resend-activation", m.Handler.ResendActivation)

		officer.PATCH("/recruiters/verify", m.Handler.VerifyRecruiter)
		officer.PATCH("/recruiters/reject", m.Handler.RejectRecruiter)
		officer.GET("/recruiters/unverified", m.Handler.ListUnverifiedRecruiters)
		officer.GET("/recruiters/verified", m.Handler.ListVerifiedRecruiters)

		officer.GET("/statistics/overview", m.Handler.Overview)
		officer.GET("/statistics/branchwise", m.Handler.Branchwise)
		officer.GET("/statistics/job-funnel", m.Handler.JobFunnel)
	}
}
