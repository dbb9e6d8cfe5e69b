package errors

import (
	stderrors "errors"
	"fmt"
	"maps"
	"net/http"
)

// AppError is the error shape restkit exposes to embedding services.
type AppError struct {
	Code      ErrorCode `json:"code"`
	Message   string    `json:"message"`
	Retryable bool      `json:"retryable"`
	// HTTPStatus suggests the status a service should answer with.
	HTTPStatus int            `json:"-"`
	Details    map[string]any `json:"details,omitempty"`
	Cause      error          `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the cause and returns e.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail sets one detail and returns e.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any, 1)
	}
	e.Details[key] = value
	return e
}

// New creates an AppError; Retryable follows the code.
func New(code ErrorCode, message string, httpStatus int) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: httpStatus, Retryable: code.Retryable()}
}

func newWithDetails(code ErrorCode, message string, status int, details map[string]any) *AppError {
	e := New(code, message, status)
	if len(details) > 0 {
		e.Details = maps.Clone(details)
	}
	return e
}

// IsAppError reports whether err wraps an AppError.
func IsAppError(err error) bool {
	_, ok := AsAppError(err)
	return ok
}

// AsAppError finds the first AppError in err's chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// ConnectionFailed reports a transport failure talking to host.
func ConnectionFailed(host string) *AppError {
	return newWithDetails(ErrCodeConnectionFailed,
		fmt.Sprintf("Unable to complete the request to %s.", host),
		http.StatusBadGateway, map[string]any{"host": host})
}

// Timeout reports an operation that was cancelled or ran out of time.
func Timeout(operation string) *AppError {
	return newWithDetails(ErrCodeTimeout, "The request took too long. Please try again.",
		http.StatusGatewayTimeout, map[string]any{"operation": operation})
}

// ContentTypeMismatch reports a response whose media type differs from the
// expected one.
func ContentTypeMismatch(expected, actual string) *AppError {
	return newWithDetails(ErrCodeContentTypeMismatch,
		fmt.Sprintf("Expected Content-Type %q but the server returned %q.", expected, actual),
		http.StatusBadGateway, map[string]any{"expected": expected, "actual": actual})
}

// Validation reports invalid input.
func Validation(message string) *AppError {
	return New(ErrCodeInvalidInput, message, http.StatusBadRequest)
}

// Unauthorized reports credentials the transport refused.
func Unauthorized(reason string) *AppError {
	if reason == "" {
		reason = "Authentication required."
	}
	return New(ErrCodeUnauthorized, reason, http.StatusUnauthorized)
}

// Internal reports an unexpected failure inside the client.
func Internal(cause error) *AppError {
	return New(ErrCodeInternal, "An unexpected error occurred.", http.StatusInternalServerError).WithCause(cause)
}
