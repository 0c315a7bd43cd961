package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/placement-portal/pkg/apperrors"
)

func failWith(t *testing.T, err error) (int, map[string]any) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("request_id", "req-1")
	Fail(c, err)
	assert.True(t, c.IsAborted())

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func TestFailMapsAppErrors(t *testing.T) {
	code, body := failWith(t, apperrors.IllegalTransition("APPLIED", "SELECTED"))
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "req-1", body["request_id"])
	assert.Equal(t, map[string]any{
		"code":    "ILLEGAL_TRANSITION",
		"current": "APPLIED",
		"target":  "SELECTED",
	}, body["error"])
}

func TestFailHidesInternals(t *testing.T) {
	for _, err := range []error{
		errors.New("pq: connection refused"),
		apperrors.Internal(errors.New("disk full")),
	} {
		code, body := failWith(t, err)
		assert.Equal(t, http.StatusInternalServerError, code)
		assert.Equal(t, "Internal server error", body["message"])
		assert.Equal(t, map[string]any{"code": "INTERNAL_ERROR"}, body["error"])
	}
}

func TestSuccessEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	Success(c, 0, map[string]int{"n": 1}, "ok", map[string]int{"total": 1})

	assert.Equal(t, http.StatusOK, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
	assert.Equal(t, map[string]any{"n": float64(1)}, body["data"])
	assert.Equal(t, map[string]any{"total": float64(1)}, body["meta"])
	assert.NotContains(t, body, "error")
}
