// Package apperrors defines the error taxonomy shared by services and the
// HTTP layer. Every failure returned by a service is an *AppError carrying a
// Kind (which fixes the HTTP status) and a machine-readable Code.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
	KindIllegalTransition
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindIllegalTransition:
		return "illegal_transition"
	default:
		return "internal"
	}
}

// HTTPStatus maps a kind to its response status.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindValidation, KindIllegalTransition:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// AppError is the error type returned across the service boundary.
type AppError struct {
	Kind    Kind   `json:"-"`
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
	Current string `json:"current,omitempty"`
	Target  string `json:"target,omitempty"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s:%s] %s (%v)", e.Kind, e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s:%s] %s", e.Kind, e.Code, e.Message)
}

func (e *AppError) Unwrap() error { return e.Err }

func (e *AppError) HTTPStatus() int { return e.Kind.HTTPStatus() }

func (e *AppError) WithDetails(details any) *AppError {
	e.Details = details
	return e
}

func (e *AppError) WithError(err error) *AppError {
	e.Err = err
	return e
}

func newError(kind Kind, code Code, message string) *AppError {
	return &AppError{Kind: kind, Code: code, Message: message}
}

func Validation(code Code, message string) *AppError {
	return newError(KindValidation, code, message)
}

func Unauthorized(code Code, message string) *AppError {
	return newError(KindUnauthorized, code, message)
}

func Forbidden(code Code, message string) *AppError {
	return newError(KindForbidden, code, message)
}

func NotFound(code Code, message string) *AppError {
	return newError(KindNotFound, code, message)
}

func Conflict(code Code, message string) *AppError {
	return newError(KindConflict, code, message)
}

// IllegalTransition reports a state-machine violation naming both states.
func IllegalTransition(current, target string) *AppError {
	e := newError(KindIllegalTransition, CodeIllegalTransition,
		fmt.Sprintf("Can't change application status from %s to %s", current, target))
	e.Current = current
	e.Target = target
	return e
}

// Internal wraps an unexpected failure. The message shown to callers is generic.
func Internal(err error) *AppError {
	return newError(KindInternal, CodeInternal, "internal server error").WithError(err)
}

// As extracts an *AppError from err.
func As(err error) (*AppError, bool) {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// KindOf returns the kind of err, KindInternal for foreign errors.
func KindOf(err error) Kind {
	if ae, ok := As(err); ok {
		return ae.Kind
	}
	return KindInternal
}

// CodeOf returns the code of err, CodeInternal for foreign errors.
func CodeOf(err error) Code {
	if ae, ok := As(err); ok {
		return ae.Code
	}
	return CodeInternal
}

// Ensure returns err unchanged when it is already an *AppError and wraps it
// as Internal otherwise.
func Ensure(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := As(err); ok {
		return err
	}
	return Internal(err)
}
