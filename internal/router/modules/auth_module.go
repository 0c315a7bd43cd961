package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/placement-portal/internal/interface/http"
	"github.com/oksasatya/placement-portal/internal/interface/middleware"
)

// AuthModule registers the public credential routes under /auth.
type AuthModule struct {
	Handler *handlers.AuthHandler
}

func NewAuthModule(h *handlers.AuthHandler) *AuthModule {
	return &AuthModule{Handler: h}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	loginLimiter := limit(10, time.Minute, middleware.KeyByIP())
	refreshLimiter := limit(60, time.Minute, middleware.KeyByIP())
	resetLimiter := limit(10, time.Minute, middleware.KeyByIPAndPath())
	forgotLimiter := limit(5, time.Minute, middleware.KeyByIPAndPath())
	signupLimiter := limit(10, time.Minute, middleware.KeyByIPAndPath())

	auth := rg.Group("/auth")
	auth.POST("/login", loginLimiter, m.Handler.Login)
	auth.POST("/refresh", refreshLimiter, m.Handler.Refresh)
	auth.POST("/logout", m.Handler.Logout)
	auth.POST("/reset-password", resetLimiter, m.Handler.ResetPassword)
	auth.POST("/forgot-password", forgotLimiter, m.Handler.ForgotPassword)
	auth.POST("/recruiter/signup", signupLimiter, m.Handler.RecruiterSignup)
}
