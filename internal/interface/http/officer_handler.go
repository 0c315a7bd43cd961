package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/placement-portal/internal/application"
	"github.com/oksasatya/placement-portal/pkg/apperrors"
	"github.com/oksasatya/placement-portal/pkg/response"
)

// OfficerHandler serves student provisioning, recruiter verification and
// placement statistics. Admins reach the same routes.
type OfficerHandler struct {
	Accounts *application.AccountService
	Stats    *application.StatisticsService
}

func NewOfficerHandler(accounts *application.AccountService, stats *application.StatisticsService) *OfficerHandler {
	return &OfficerHandler{Accounts: accounts, Stats: stats}
}

type resendActivationRequest struct {
	RollNumber string `json:"rollNumber" binding:"required"`
}

type recruiterListQuery struct {
	pageQuery
	RecruitingYear *int   `form:"recruitingYear" binding:"omitempty,gte=2000,lte=2100"`
	CompanyName    string `form:"companyName"`
}

func (h *OfficerHandler) CreateStudent(c *gin.Context) {
	var req application.CreateStudentInput
	if !bindJSON(c, &req) {
		return
	}
	out, err := h.Accounts.CreateStudent(c.Request.Context(), principal(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, out, "Student created, activation email sent", nil)
}

// BulkImportStudents reads a CSV from the multipart field "file".
func (h *OfficerHandler) BulkImportStudents(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		respondError(c, apperrors.Validation(apperrors.CodeInvalidInput, "CSV file is required in field \"file\""))
		return
	}
	f, err := fh.Open()
	if err != nil {
		respondError(c, apperrors.Internal(err))
		return
	}
	defer f.Close()

	res, err := h.Accounts.BulkImportStudents(c.Request.Context(), principal(c), f)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res, "Bulk import finished", nil)
}

func (h *OfficerHandler) ResendActivation(c *gin.Context) {
	var req resendActivationRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.Accounts.ResendActivation(c.Request.Context(), principal(c), req.RollNumber); err != nil {
		respondError(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "Activation email sent", nil)
}

func (h *OfficerHandler) VerifyRecruiter(c *gin.Context) {
	var req application.CompanyRef
	if !bindJSON(c, &req) {
		return
	}
	view, err := h.Accounts.VerifyRecruiter(c.Request.Context(), principal(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, view, "Recruiter verified", nil)
}

func (h *OfficerHandler) RejectRecruiter(c *gin.Context) {
	var req application.CompanyRef
	if !bindJSON(c, &req) {
		return
	}
	view, err := h.Accounts.RejectRecruiter(c.Request.Context(), principal(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, view, "Recruiter rejected", nil)
}

func (h *OfficerHandler) listRecruiters(c *gin.Context, verified bool) {
	var q recruiterListQuery
	if !bindQuery(c, &q) {
		return
	}
	page, err := h.Accounts.ListRecruiters(c.Request.Context(), principal(c), application.RecruiterQuery{
		Verified:       verified,
		RecruitingYear: q.RecruitingYear,
		CompanyName:    q.CompanyName,
		Page:           q.request(),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	paged(c, page, "Recruiters")
}

func (h *OfficerHandler) ListUnverifiedRecruiters(c *gin.Context) { h.listRecruiters(c, false) }

func (h *OfficerHandler) ListVerifiedRecruiters(c *gin.Context) { h.listRecruiters(c, true) }

func (h *OfficerHandler) Overview(c *gin.Context) {
	out, err := h.Stats.Overview(c.Request.Context(), principal(c))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, out, "Placement overview", nil)
}

func (h *OfficerHandler) Branchwise(c *gin.Context) {
	out, err := h.Stats.Branchwise(c.Request.Context(), principal(c))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, out, "Branch-wise placement", nil)
}

func (h *OfficerHandler) JobFunnel(c *gin.Context) {
	out, err := h.Stats.JobFunnel(c.Request.Context(), principal(c))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, out, "Job funnel", nil)
}
