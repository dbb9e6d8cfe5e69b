package httpclient

import (
	"errors"
	"fmt"
	"net"

	apperrors "github.com/kbukum/restkit/errors"
)

// ErrorCode classifies client errors.
type ErrorCode int

const (
	// ErrCodeTimeout indicates the call's context ended before the exchange completed.
	ErrCodeTimeout ErrorCode = iota
	// ErrCodeNetwork indicates a transport I/O failure (refused, DNS, reset, ...).
	ErrCodeNetwork
	// ErrCodeAuth indicates the transport refused the credentials or failed to drop them.
	ErrCodeAuth
	// ErrCodeValidation indicates a malformed request descriptor.
	ErrCodeValidation
	// ErrCodeContentType indicates the response media type differed from the expected one.
	ErrCodeContentType
	// ErrCodeHistory indicates the history store failed to record a response.
	ErrCodeHistory
)

// String returns the error code name.
func (c ErrorCode) String() string {
	switch c {
	case ErrCodeTimeout:
		return "timeout"
	case ErrCodeNetwork:
		return "network"
	case ErrCodeAuth:
		return "auth"
	case ErrCodeValidation:
		return "validation"
	case ErrCodeContentType:
		return "content_type"
	case ErrCodeHistory:
		return "history"
	default:
		return "unknown"
	}
}

// Error is a structured client error with classification.
type Error struct {
	// Code classifies the error.
	Code ErrorCode
	// Message describes the error.
	Message string
	// Retryable indicates whether the operation can be retried.
	Retryable bool
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("httpclient: %s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// AppError converts e into the shared application error.
func (e *Error) AppError() *apperrors.AppError {
	var appErr *apperrors.AppError
	switch e.Code {
	case ErrCodeTimeout:
		appErr = apperrors.Timeout("execute")
	case ErrCodeNetwork:
		appErr = apperrors.New(apperrors.ErrCodeConnectionFailed, e.Message, 502)
	case ErrCodeAuth:
		appErr = apperrors.Unauthorized(e.Message)
	case ErrCodeValidation:
		appErr = apperrors.Validation(e.Message)
	case ErrCodeContentType:
		var mismatch *ContentTypeMismatchError
		if errors.As(e.Err, &mismatch) {
			appErr = apperrors.ContentTypeMismatch(mismatch.Expected, mismatch.Actual)
		} else {
			appErr = apperrors.ContentTypeMismatch("", "")
		}
	default:
		appErr = apperrors.Internal(nil)
	}
	return appErr.WithCause(e)
}

// NewTimeoutError creates a timeout error.
func NewTimeoutError(err error) *Error {
	return &Error{Code: ErrCodeTimeout, Message: err.Error(), Retryable: true, Err: err}
}

// NewNetworkError creates a transport I/O error.
func NewNetworkError(err error) *Error {
	return &Error{Code: ErrCodeNetwork, Message: err.Error(), Retryable: true, Err: err}
}

// NewAuthError creates an authentication error.
func NewAuthError(err error) *Error {
	return &Error{Code: ErrCodeAuth, Message: err.Error(), Err: err}
}

// NewValidationError creates a validation error.
func NewValidationError(err error) *Error {
	return &Error{Code: ErrCodeValidation, Message: err.Error(), Err: err}
}

// NewContentTypeError wraps a media type mismatch.
func NewContentTypeError(mismatch *ContentTypeMismatchError) *Error {
	return &Error{Code: ErrCodeContentType, Message: mismatch.Error(), Err: mismatch}
}

// NewHistoryError creates a history store error.
func NewHistoryError(err error) *Error {
	return &Error{Code: ErrCodeHistory, Message: err.Error(), Err: err}
}

// classifyTransportError maps a transport failure onto a client error. Errors
// already classified by the transport pass through unchanged. Client
// deadlines count as timeouts.
func classifyTransportError(ctxErr, err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	var netErr net.Error
	if ctxErr != nil || (errors.As(err, &netErr) && netErr.Timeout()) {
		return NewTimeoutError(err)
	}
	return NewNetworkError(err)
}

func hasCode(err error, code ErrorCode) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}

// IsTimeout checks if an error is a timeout error.
func IsTimeout(err error) bool { return hasCode(err, ErrCodeTimeout) }

// IsNetwork checks if an error is a transport I/O error.
func IsNetwork(err error) bool { return hasCode(err, ErrCodeNetwork) }

// IsAuth checks if an error is an authentication error.
func IsAuth(err error) bool { return hasCode(err, ErrCodeAuth) }

// IsValidation checks if an error is a request validation error.
func IsValidation(err error) bool { return hasCode(err, ErrCodeValidation) }

// IsContentTypeMismatch checks if an error is a media type mismatch.
func IsContentTypeMismatch(err error) bool { return hasCode(err, ErrCodeContentType) }

// IsRetryable checks if an error is retryable.
func IsRetryable(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Retryable
}
