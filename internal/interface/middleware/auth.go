package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/placement-portal/internal/application"
	"github.com/oksasatya/placement-portal/internal/domain/entity"
	"github.com/oksasatya/placement-portal/pkg/helpers"
	"github.com/oksasatya/placement-portal/pkg/response"
)

const principalKey = "principal"

// Authenticate resolves the access token from the Authorization header,
// falling back to the access cookie, and stores the principal in the
// context. userID is set for the per-user rate limiter.
func Authenticate(g *application.Guard) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := application.BearerToken(c.GetHeader("Authorization"))
		if err != nil {
			cookie, cerr := c.Cookie(helpers.AccessCookie)
			if cerr != nil || cookie == "" {
				response.Fail(c, err)
				return
			}
			token = cookie
		}
		p, err := g.Resolve(token)
		if err != nil {
			response.Fail(c, err)
			return
		}
		c.Set(principalKey, p)
		c.Set("userID", p.IdentityID)
		c.Next()
	}
}

// RequireRoles rejects principals outside roles. It must run after
// Authenticate.
func RequireRoles(g *application.Guard, roles ...entity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := g.Authorize(PrincipalFrom(c), roles...); err != nil {
			response.Fail(c, err)
			return
		}
		c.Next()
	}
}

// PrincipalFrom returns the caller stored by Authenticate, or the zero
// principal on public routes.
func PrincipalFrom(c *gin.Context) entity.Principal {
	if v, ok := c.Get(principalKey); ok {
		if p, ok := v.(entity.Principal); ok {
			return p
		}
	}
	return entity.Principal{}
}
