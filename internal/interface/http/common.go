package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/placement-portal/internal/domain/entity"
	"github.com/oksasatya/placement-portal/internal/interface/middleware"
	"github.com/oksasatya/placement-portal/pkg/response"
	"github.com/oksasatya/placement-portal/pkg/validation"
)

// pageQuery is the shared ?page=&limit= pair.
type pageQuery struct {
	Page  int `form:"page"`
	Limit int `form:"limit"`
}

func (q pageQuery) request() entity.PageRequest {
	return entity.NewPageRequest(q.Page, q.Limit)
}

func respondError(c *gin.Context, err error) {
	response.Fail(c, err)
}

// bindJSON binds the body into dst and answers 400 on failure.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.Invalid(c, validation.ToDetails(err))
		return false
	}
	return true
}

func bindQuery(c *gin.Context, dst any) bool {
	if err := c.ShouldBindQuery(dst); err != nil {
		response.Invalid(c, validation.ToDetails(err))
		return false
	}
	return true
}

func principal(c *gin.Context) entity.Principal {
	return middleware.PrincipalFrom(c)
}

func paged[T any](c *gin.Context, page entity.Page[T], message string) {
	response.Success(c, http.StatusOK, page.Items, message, page.Pagination)
}
