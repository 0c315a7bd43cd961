package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/placement-portal/internal/application"
	"github.com/oksasatya/placement-portal/internal/domain/entity"
	"github.com/oksasatya/placement-portal/pkg/helpers"
)

func init() { gin.SetMode(gin.TestMode) }

type envelope struct {
	Success   bool   `json:"success"`
	RequestID string `json:"request_id"`
	Message   string `json:"message"`
	Error     struct {
		Code string `json:"code"`
	} `json:"error"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func guardedEngine(jwt *helpers.JWTManager, roles ...entity.Role) *gin.Engine {
	g := application.NewGuard(jwt)
	r := gin.New()
	r.GET("/me", Authenticate(g), RequireRoles(g, roles...), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": PrincipalFrom(c).IdentityID, "userID": c.GetString("userID")})
	})
	return r
}

func TestAuthenticate(t *testing.T) {
	jwt := helpers.NewJWTManager("access", "refresh", time.Minute, time.Hour)
	r := guardedEngine(jwt, entity.RoleStudent)

	access, _, err := jwt.GenerateAccessToken(helpers.TokenSubject{ID: "id-1", Role: string(entity.RoleStudent), Name: "Asha"})
	require.NoError(t, err)
	refresh, _, err := jwt.GenerateRefreshToken(helpers.TokenSubject{ID: "id-1", Role: string(entity.RoleStudent)})
	require.NoError(t, err)

	t.Run("bearer header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+access)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"id":"id-1","userID":"id-1"}`, w.Body.String())
	})

	t.Run("cookie fallback", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.AddCookie(&http.Cookie{Name: helpers.AccessCookie, Value: access})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("missing", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "MISSING_TOKEN", decode(t, w).Error.Code)
	})

	t.Run("refresh token is not an access token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+refresh)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "TOKEN_INVALID", decode(t, w).Error.Code)
	})
}

func TestRequireRoles(t *testing.T) {
	jwt := helpers.NewJWTManager("access", "refresh", time.Minute, time.Hour)
	r := guardedEngine(jwt, entity.RoleAdmin, entity.RoleOfficer)

	token, _, err := jwt.GenerateAccessToken(helpers.TokenSubject{ID: "id-2", Role: string(entity.RoleRecruiter)})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	env := decode(t, w)
	assert.False(t, env.Success)
	assert.Equal(t, "ROLE_DENIED", env.Error.Code)
	assert.Equal(t, "Access denied for role RECRUITER", env.Message)
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("request_id")) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	generated := w.Header().Get(RequestIDHeader)
	assert.NotEmpty(t, generated)
	assert.Equal(t, generated, w.Body.String())

	inbound := "7c9e6679-7425-40de-944b-e07fc1f90ae7"
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, inbound)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, inbound, w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "<script>")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.NotEqual(t, "<script>", w.Body.String())
}

func TestRateLimitWithoutRedisPassesThrough(t *testing.T) {
	r := gin.New()
	r.GET("/", RateLimit(nil, 1, time.Minute, KeyByIP(), nil), func(c *gin.Context) { c.Status(http.StatusNoContent) })
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Header().Get("X-RateLimit-Limit"))
	}
}

func TestRateLimitKeys(t *testing.T) {
	var keys []string
	r := gin.New()
	r.Use(RealIP())
	r.GET("/jobs/:jobId", func(c *gin.Context) {
		keys = []string{KeyByIP()(c), KeyByIPAndPath()(c), KeyByUserID()(c)}
		c.Set("userID", "u-1")
		keys = append(keys, KeyByUserID()(c), KeyByUserAndPath()(c))
	})
	req := httptest.NewRequest(http.MethodGet, "/jobs/42", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	r.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, []string{
		"rl:ip:203.0.113.7",
		"rl:path:/jobs/:jobId:ip:203.0.113.7",
		"rl:user:anon:ip:203.0.113.7",
		"rl:user:u-1",
		"rl:user:u-1:path:/jobs/:jobId",
	}, keys)
}

func TestAllowPrivateIP(t *testing.T) {
	allow := AllowPrivateIP()
	check := func(ip string) bool {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		c.Set("real_ip", ip)
		return allow(c)
	}
	assert.True(t, check("127.0.0.1"))
	assert.True(t, check("10.1.2.3"))
	assert.True(t, check("192.168.0.9"))
	assert.False(t, check("203.0.113.7"))
	assert.False(t, check("not-an-ip"))
}
