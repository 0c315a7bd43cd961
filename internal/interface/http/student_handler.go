package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/placement-portal/internal/application"
	"github.com/oksasatya/placement-portal/pkg/apperrors"
	"github.com/oksasatya/placement-portal/pkg/response"
)

// multipartSlack covers the multipart framing around the résumé itself.
const multipartSlack = 64 << 10

type StudentHandler struct {
	Profiles       *application.ProfileService
	Apps           *application.ApplicationService
	ResumeMaxBytes int64
}

func NewStudentHandler(profiles *application.ProfileService, apps *application.ApplicationService, resumeMaxBytes int64) *StudentHandler {
	return &StudentHandler{Profiles: profiles, Apps: apps, ResumeMaxBytes: resumeMaxBytes}
}

func (h *StudentHandler) GetProfile(c *gin.Context) {
	view, err := h.Profiles.GetStudentProfile(c.Request.Context(), principal(c))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, view, "Student profile", nil)
}

func (h *StudentHandler) UpdateProfile(c *gin.Context) {
	var req application.StudentProfileInput
	if !bindJSON(c, &req) {
		return
	}
	view, err := h.Profiles.UpdateStudentProfile(c.Request.Context(), principal(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, view, "Profile updated", nil)
}

func (h *StudentHandler) Apply(c *gin.Context) {
	view, err := h.Apps.Apply(c.Request.Context(), principal(c), c.Param("jobId"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, view, "Application submitted", nil)
}

func (h *StudentHandler) ListApplications(c *gin.Context) {
	var q pageQuery
	if !bindQuery(c, &q) {
		return
	}
	page, err := h.Apps.ListByStudent(c.Request.Context(), principal(c), q.request())
	if err != nil {
		respondError(c, err)
		return
	}
	paged(c, page, "Applications")
}

func (h *StudentHandler) Withdraw(c *gin.Context) {
	view, err := h.Apps.Withdraw(c.Request.Context(), principal(c), c.Param("applicationId"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, view, "Application withdrawn", nil)
}

// UploadResume takes the PDF from the multipart field "resume". Oversized
// bodies are cut off before they are buffered.
func (h *StudentHandler) UploadResume(c *gin.Context) {
	if h.ResumeMaxBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.ResumeMaxBytes+multipartSlack)
	}
	fh, err := c.FormFile("resume")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(c, apperrors.Validation(apperrors.CodeFileTooLarge, "Resume exceeds the size limit"))
			return
		}
		respondError(c, apperrors.Validation(apperrors.CodeInvalidFile, "Resume file is required in field \"resume\""))
		return
	}
	f, err := fh.Open()
	if err != nil {
		respondError(c, apperrors.Internal(err))
		return
	}
	defer f.Close()

	res, err := h.Profiles.UploadResume(c.Request.Context(), principal(c), application.ResumeUpload{
		FileName:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Body:        f,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, res, "Resume uploaded", nil)
}

func (h *StudentHandler) ResumeURL(c *gin.Context) {
	link, err := h.Profiles.ResumeURL(c.Request.Context(), principal(c))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, link, "Resume link", nil)
}

func (h *StudentHandler) DeleteResume(c *gin.Context) {
	if err := h.Profiles.DeleteResume(c.Request.Context(), principal(c)); err != nil {
		respondError(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "Resume deleted", nil)
}
