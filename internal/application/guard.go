package application

import (
	"errors"
	"strings"

	"github.com/oksasatya/placement-portal/internal/domain/entity"
	"github.com/oksasatya/placement-portal/pkg/apperrors"
	"github.com/oksasatya/placement-portal/pkg/helpers"
)

// Guard resolves bearer credentials into principals and checks role
// membership. Ownership is decided by the services that load the target.
type Guard struct {
	tokens *helpers.JWTManager
}

func NewGuard(tokens *helpers.JWTManager) *Guard {
	return &Guard{tokens: tokens}
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, error) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", apperrors.Unauthorized(apperrors.CodeMissingToken, "Access token missing or malformed")
	}
	return strings.TrimSpace(token), nil
}

// Resolve verifies an access token.
func (g *Guard) Resolve(token string) (entity.Principal, error) {
	if token == "" {
		return entity.Principal{}, apperrors.Unauthorized(apperrors.CodeMissingToken, "Access token missing or malformed")
	}
	claims, err := g.tokens.ParseAccessToken(token)
	if err != nil {
		if errors.Is(err, helpers.ErrTokenExpired) {
			return entity.Principal{}, apperrors.Forbidden(apperrors.CodeTokenExpired, "Access token expired")
		}
		return entity.Principal{}, apperrors.Forbidden(apperrors.CodeTokenInvalid, "Invalid access token")
	}
	role := entity.Role(claims.Role)
	if !role.Valid() {
		return entity.Principal{}, apperrors.Forbidden(apperrors.CodeTokenInvalid, "Invalid access token")
	}
	return entity.Principal{IdentityID: claims.Subject, Role: role, Name: claims.Name}, nil
}

// Authorize fails with Forbidden unless p's role is one of allowed.
func (g *Guard) Authorize(p entity.Principal, allowed ...entity.Role) error {
	if !p.Role.In(allowed...) {
		return apperrors.Forbidden(apperrors.CodeRoleDenied, "Access denied for role "+string(p.Role))
	}
	return nil
}
