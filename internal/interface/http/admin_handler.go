package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/placement-portal/internal/application"
	"github.com/oksasatya/placement-portal/pkg/response"
)

// AdminHandler manages officer accounts.
type AdminHandler struct {
	Accounts *application.AccountService
}

func NewAdminHandler(accounts *application.AccountService) *AdminHandler {
	return &AdminHandler{Accounts: accounts}
}

type reasonRequest struct {
	Reason string `json:"reason" binding:"omitempty,max=500"`
}

func (h *AdminHandler) CreateOfficer(c *gin.Context) {
	var req application.CreateOfficerInput
	if !bindJSON(c, &req) {
		return
	}
	view, err := h.Accounts.CreateOfficer(c.Request.Context(), principal(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, view, "Officer created", nil)
}

// DeactivateOfficer accepts an empty body; the reason then defaults to the
// admin's name.
func (h *AdminHandler) DeactivateOfficer(c *gin.Context) {
	var req reasonRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}
	view, err := h.Accounts.DeactivateOfficer(c.Request.Context(), principal(c), c.Param("officerId"), req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, view, "Officer deactivated", nil)
}

func (h *AdminHandler) ReactivateOfficer(c *gin.Context) {
	view, err := h.Accounts.ReactivateOfficer(c.Request.Context(), principal(c), c.Param("officerId"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, view, "Officer reactivated", nil)
}
