package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/placement-portal/internal/application"
	"github.com/oksasatya/placement-portal/internal/domain/entity"
	handlers "github.com/oksasatya/placement-portal/internal/interface/http"
	"github.com/oksasatya/placement-portal/internal/interface/middleware"
)

type AdminModule struct {
	Handler *handlers.AdminHandler
	Guard   *application.Guard
}

func NewAdminModule(h *handlers.AdminHandler, g *application.Guard) *AdminModule {
	return &AdminModule{Handler: h, Guard: g}
}

func (m *AdminModule) Register(rg *gin.RouterGroup) {
	admin := rg.Group("/admin")
	admin.Use(middleware.Authenticate(m.Guard), middleware.RequireRoles(m.Guard, entity.RoleAdmin), perUser())
	{
		admin.POST("/officers", m.Handler.CreateOfficer)
		admin.PATCH("/officers/:officerId/deactivate", m.Handler.DeactivateOfficer)
		admin.PATCH("/officers/:officerId/reactivate", m.Handler.ReactivateOfficer)
	}
}
