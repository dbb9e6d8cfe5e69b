package errors

// ErrorCode is a machine-readable error code.
type ErrorCode string

const (
	ErrCodeConnectionFailed    ErrorCode = "CONNECTION_FAILED"
	ErrCodeTimeout             ErrorCode = "TIMEOUT"
	ErrCodeContentTypeMismatch ErrorCode = "CONTENT_TYPE_MISMATCH"
	ErrCodeInvalidInput        ErrorCode = "INVALID_INPUT"
	ErrCodeUnauthorized        ErrorCode = "UNAUTHORIZED"
	ErrCodeInternal            ErrorCode = "INTERNAL_ERROR"
)

// Retryable reports whether failures with this code may succeed on retry.
func (c ErrorCode) Retryable() bool {
	return c == ErrCodeConnectionFailed || c == ErrCodeTimeout
}
