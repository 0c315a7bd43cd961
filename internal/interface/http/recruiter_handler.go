package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/placement-portal/internal/application"
	"github.com/oksasatya/placement-portal/internal/domain/entity"
	"github.com/oksasatya/placement-portal/pkg/response"
)

type RecruiterHandler struct {
	Profiles *application.ProfileService
	Jobs     *application.JobService
	Apps     *application.ApplicationService
}

func NewRecruiterHandler(profiles *application.ProfileService, jobs *application.JobService, apps *application.ApplicationService) *RecruiterHandler {
	return &RecruiterHandler{Profiles: profiles, Jobs: jobs, Apps: apps}
}

type recruiterJobsQuery struct {
	pageQuery
	Status string `form:"status" binding:"omitempty,jobstatus"`
}

type statusRequest struct {
	Status string `json:"status" binding:"required,recruitstatus"`
}

func (h *RecruiterHandler) GetProfile(c *gin.Context) {
	view, err := h.Profiles.GetRecruiterProfile(c.Request.Context(), principal(c))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, view, "Recruiter profile", nil)
}

func (h *RecruiterHandler) UpdateProfile(c *gin.Context) {
	var req application.RecruiterProfileInput
	if !bindJSON(c, &req) {
		return
	}
	view, err := h.Profiles.UpdateRecruiterProfile(c.Request.Context(), principal(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, view, "Profile updated", nil)
}

func (h *RecruiterHandler) CreateJob(c *gin.Context) {
	var req application.JobInput
	if !bindJSON(c, &req) {
		return
	}
	view, err := h.Jobs.CreateJob(c.Request.Context(), principal(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, view, "Job posted", nil)
}

func (h *RecruiterHandler) ListJobs(c *gin.Context) {
	var q recruiterJobsQuery
	if !bindQuery(c, &q) {
		return
	}
	page, err := h.Jobs.ListRecruiterJobs(c.Request.Context(), principal(c), q.Status, q.request())
	if err != nil {
		respondError(c, err)
		return
	}
	paged(c, page, "Jobs")
}

func (h *RecruiterHandler) UpdateJob(c *gin.Context) {
	var req application.JobPatch
	if !bindJSON(c, &req) {
		return
	}
	view, err := h.Jobs.UpdateJob(c.Request.Context(), principal(c), c.Param("jobId"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, view, "Job updated", nil)
}

func (h *RecruiterHandler) ListJobApplications(c *gin.Context) {
	var q pageQuery
	if !bindQuery(c, &q) {
		return
	}
	out, err := h.Apps.ListByJob(c.Request.Context(), principal(c), c.Param("jobId"), q.request())
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, out, "Applications", out.Applications.Pagination)
}

func (h *RecruiterHandler) UpdateApplicationStatus(c *gin.Context) {
	var req statusRequest
	if !bindJSON(c, &req) {
		return
	}
	view, err := h.Apps.UpdateStatus(c.Request.Context(), principal(c), c.Param("applicationId"), entity.ApplicationStatus(req.Status))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, view, "Application status updated", nil)
}

func (h *RecruiterHandler) ApplicantResume(c *gin.Context) {
	link, err := h.Apps.ApplicantResumeURL(c.Request.Context(), principal(c), c.Param("applicationId"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, link, "Resume link", nil)
}
