package application

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/placement-portal/internal/domain/entity"
	"github.com/oksasatya/placement-portal/pkg/apperrors"
	"github.com/oksasatya/placement-portal/pkg/helpers"
)

func TestBearerToken(t *testing.T) {
	tok, err := BearerToken("Bearer abc.def")
	require.NoError(t, err)
	assert.Equal(t, "abc.def", tok)

	tok, err = BearerToken("  bearer   abc.def ")
	require.NoError(t, err)
	assert.Equal(t, "abc.def", tok)

	for _, h := range []string{"", "Bearer", "Bearer   ", "Basic dXNlcjpwYXNz", "abc.def"} {
		_, err := BearerToken(h)
		requireCode(t, err, apperrors.KindUnauthorized, apperrors.CodeMissingToken)
	}
}

func TestGuardResolve(t *testing.T) {
	jwt := helpers.NewJWTManager("access-secret", "refresh-secret", time.Minute, time.Hour)
	g := NewGuard(jwt)

	access, _, err := jwt.GenerateAccessToken(helpers.TokenSubject{ID: "u-1", Role: string(entity.RoleRecruiter), Name: "Rita"})
	require.NoError(t, err)
	p, err := g.Resolve(access)
	require.NoError(t, err)
	assert.Equal(t, entity.Principal{IdentityID: "u-1", Role: entity.RoleRecruiter, Name: "Rita"}, p)

	_, err = g.Resolve("")
	requireCode(t, err, apperrors.KindUnauthorized, apperrors.CodeMissingToken)

	_, err = g.Resolve("not.a.token")
	requireCode(t, err, apperrors.KindForbidden, apperrors.CodeTokenInvalid)

	refresh, _, err := jwt.GenerateRefreshToken(helpers.TokenSubject{ID: "u-1", Role: string(entity.RoleRecruiter)})
	require.NoError(t, err)
	_, err = g.Resolve(refresh)
	requireCode(t, err, apperrors.KindForbidden, apperrors.CodeTokenInvalid)

	forged := helpers.NewJWTManager("other-secret", "refresh-secret", time.Minute, time.Hour)
	bad, _, err := forged.GenerateAccessToken(helpers.TokenSubject{ID: "u-1", Role: string(entity.RoleAdmin)})
	require.NoError(t, err)
	_, err = g.Resolve(bad)
	requireCode(t, err, apperrors.KindForbidden, apperrors.CodeTokenInvalid)

	unknownRole, _, err := jwt.GenerateAccessToken(helpers.TokenSubject{ID: "u-1", Role: "ROOT"})
	require.NoError(t, err)
	_, err = g.Resolve(unknownRole)
	requireCode(t, err, apperrors.KindForbidden, apperrors.CodeTokenInvalid)

	stale := helpers.NewJWTManager("access-secret", "refresh-secret", -time.Minute, time.Hour)
	expired, _, err := stale.GenerateAccessToken(helpers.TokenSubject{ID: "u-1", Role: string(entity.RoleStudent)})
	require.NoError(t, err)
	_, err = g.Resolve(expired)
	requireCode(t, err, apperrors.KindForbidden, apperrors.CodeTokenExpired)
}

func TestGuardAuthorize(t *testing.T) {
	g := NewGuard(nil)
	officer := entity.Principal{IdentityID: "o", Role: entity.RoleOfficer}

	assert.NoError(t, g.Authorize(officer, entity.RoleAdmin, entity.RoleOfficer))
	err := g.Authorize(officer, entity.RoleStudent)
	requireCode(t, err, apperrors.KindForbidden, apperrors.CodeRoleDenied)
	ae, _ := apperrors.As(err)
	assert.Equal(t, "Access denied for role OFFICER", ae.Message)
}
