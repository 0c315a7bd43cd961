package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/placement-portal/internal/application"
	"github.com/oksasatya/placement-portal/pkg/response"
)

// JobsHandler serves the public job board.
type JobsHandler struct {
	Jobs *application.JobService
}

func NewJobsHandler(jobs *application.JobService) *JobsHandler {
	return &JobsHandler{Jobs: jobs}
}

type openJobsQuery struct {
	pageQuery
	Branch  string   `form:"branch"`
	MinCGPA *float64 `form:"minCgpa" binding:"omitempty,cgpa"`
	JobType string   `form:"jobType"`
}

type searchQuery struct {
	Q    string `form:"q" binding:"required"`
	Size int    `form:"size" binding:"omitempty,min=1,max=50"`
}

func (h *JobsHandler) List(c *gin.Context) {
	var q openJobsQuery
	if !bindQuery(c, &q) {
		return
	}
	page, err := h.Jobs.ListOpenJobs(c.Request.Context(), application.OpenJobQuery{
		Branch:  q.Branch,
		MinCGPA: q.MinCGPA,
		JobType: q.JobType,
		Page:    q.request(),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	paged(c, page, "Open jobs")
}

func (h *JobsHandler) Search(c *gin.Context) {
	var q searchQuery
	if !bindQuery(c, &q) {
		return
	}
	jobs, err := h.Jobs.SearchJobs(c.Request.Context(), q.Q, q.Size)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, jobs, "Search results", gin.H{"count": len(jobs)})
}
