package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/placement-portal/pkg/apperrors"
)

type APIResponse[T any] struct {
	Status    int         `json:"status"`
	Timestamp time.Time   `json:"timestamp"`
	RequestID string      `json:"request_id"`
	Success   bool        `json:"success"`
	Message   string      `json:"message"`
	Data      T           `json:"data,omitempty"`
	Meta      interface{} `json:"meta,omitempty"`
	Error     interface{} `json:"error,omitempty"`
}

// ErrorBody is the error member of a failed response.
type ErrorBody struct {
	Code    string `json:"code"`
	Details any    `json:"details,omitempty"`
	Current string `json:"current,omitempty"`
	Target  string `json:"target,omitempty"`
}

// Success writes a success envelope and returns it.
func Success[T any](ctx *gin.Context, status int, data T, message string, meta interface{}) APIResponse[T] {
	if status == 0 {
		status = http.StatusOK
	}
	res := APIResponse[T]{
		Status:    status,
		Timestamp: time.Now().UTC(),
		RequestID: ctx.GetString("request_id"),
		Success:   true,
		Message:   message,
		Data:      data,
		Meta:      meta,
	}
	ctx.JSON(status, res)
	return res
}

// Error writes a failure envelope, aborts the handler chain and returns it.
func Error[T any](ctx *gin.Context, status int, message string, err interface{}) APIResponse[T] {
	if status == 0 {
		status = http.StatusBadRequest
	}
	res := APIResponse[T]{
		Status:    status,
		Timestamp: time.Now().UTC(),
		RequestID: ctx.GetString("request_id"),
		Success:   false,
		Message:   message,
		Error:     err,
	}
	ctx.AbortWithStatusJSON(status, res)
	return res
}

// Fail writes err as a failure envelope. AppErrors keep their status, code
// and message; anything else is reported as a bare 500.
func Fail(ctx *gin.Context, err error) {
	ae, ok := apperrors.As(err)
	if !ok || ae.Kind == apperrors.KindInternal {
		Error[any](ctx, http.StatusInternalServerError, "Internal server error", ErrorBody{Code: string(apperrors.CodeInternal)})
		return
	}
	Error[any](ctx, ae.HTTPStatus(), ae.Message, ErrorBody{
		Code:    string(ae.Code),
		Details: ae.Details,
		Current: ae.Current,
		Target:  ae.Target,
	})
}

// Invalid writes a 400 for a request that failed binding.
func Invalid(ctx *gin.Context, details any) {
	Error[any](ctx, http.StatusBadRequest, "Invalid request", ErrorBody{Code: string(apperrors.CodeInvalidInput), Details: details})
}
