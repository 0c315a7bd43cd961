package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/placement-portal/internal/application"
	"github.com/oksasatya/placement-portal/pkg/helpers"
	"github.com/oksasatya/placement-portal/pkg/response"
)

type AuthHandler struct {
	Svc     *application.AuthService
	Cookies *helpers.Manager
}

func NewAuthHandler(svc *application.AuthService, cookieDomain string, cookieSecure bool) *AuthHandler {
	return &AuthHandler{Svc: svc, Cookies: helpers.NewCookie(cookieDomain, cookieSecure)}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type resetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type loginResponse struct {
	User                 application.IdentityView `json:"user"`
	AccessToken          string                   `json:"accessToken"`
	AccessTokenExpiresAt time.Time                `json:"accessTokenExpiresAt"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	pair := res.Tokens
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.Success(c, http.StatusOK, loginResponse{
		User:                 res.User,
		AccessToken:          pair.AccessToken,
		AccessTokenExpiresAt: pair.AccessTokenExpiry,
	}, "Login successful", nil)
}

// refreshToken reads the refresh cookie first and the JSON body second.
func (h *AuthHandler) refreshToken(c *gin.Context) string {
	if v := h.Cookies.RefreshFrom(c); v != "" {
		return v
	}
	var req refreshRequest
	_ = c.ShouldBindJSON(&req)
	return req.RefreshToken
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	token, exp, err := h.Svc.Refresh(c.Request.Context(), h.refreshToken(c))
	if err != nil {
		respondError(c, err)
		return
	}
	h.Cookies.SetAccess(c, token, exp)
	response.Success(c, http.StatusOK, gin.H{"accessToken": token, "accessTokenExpiresAt": exp}, "Token refreshed", nil)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.Svc.Logout(c.Request.Context(), h.refreshToken(c)); err != nil {
		respondError(c, err)
		return
	}
	h.Cookies.Clear(c)
	response.Success[any](c, http.StatusOK, nil, "Logged out", nil)
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.Svc.ResetPassword(c.Request.Context(), req.Token, req.NewPassword); err != nil {
		respondError(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "Password has been reset", nil)
}

// ForgotPassword answers the same way whether or not the account exists.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.Svc.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		respondError(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "If the account exists, a reset link has been sent", nil)
}

func (h *AuthHandler) RecruiterSignup(c *gin.Context) {
	var req application.RecruiterSignupInput
	if !bindJSON(c, &req) {
		return
	}
	view, err := h.Svc.RecruiterSignup(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, view, "Registration received, awaiting verification", nil)
}
