package validation

import (
	"fmt"
	"net"
	"regexp"
	"slices"
	"strings"

	"github.com/kbukum/restkit/errors"
)

// HTTPMethods lists the verbs a request may carry.
var HTTPMethods = []string{"GET", "HEAD", "POST", "PUT", "PATCH", "DELETE", "OPTIONS", "TRACE", "CONNECT"}

// tchar per RFC 7230.
var tokenPattern = regexp.MustCompile("^[!#$%&'*+\\-.^_`|~0-9A-Za-z]+$")

// FieldError is one failed rule.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) String() string { return e.Field + ": " + e.Message }

// Validator accumulates field errors so a caller can report all of them in
// one AppError. Every rule returns the receiver for chaining.
type Validator struct {
	errors []FieldError
}

func New() *Validator { return &Validator{} }

func (v *Validator) AddError(field, message string) {
	v.errors = append(v.errors, FieldError{Field: field, Message: message})
}

func (v *Validator) HasErrors() bool { return len(v.errors) > 0 }

func (v *Validator) Errors() []FieldError { return v.errors }

// check records message against field unless ok holds.
func (v *Validator) check(ok bool, field, message string) *Validator {
	if !ok {
		v.AddError(field, message)
	}
	return v
}

// Validate folds the collected errors into an ErrCodeInvalidInput AppError
// with the individual FieldErrors under Details["fields"]. It returns nil
// when every rule passed.
func (v *Validator) Validate() *errors.AppError {
	if !v.HasErrors() {
		return nil
	}
	parts := make([]string, 0, len(v.errors))
	for _, e := range v.errors {
		parts = append(parts, e.String())
	}
	return errors.Validation(strings.Join(parts, "; ")).WithDetail("fields", slices.Clone(v.errors))
}

// Error is Validate typed as error, so a clean validator yields a true nil.
func (v *Validator) Error() error {
	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

// Required rejects empty and whitespace-only values.
func (v *Validator) Required(field, value string) *Validator {
	return v.check(strings.TrimSpace(value) != "", field, "is required")
}

func (v *Validator) Min(field string, value, minVal int) *Validator {
	return v.check(value >= minVal, field, fmt.Sprintf("must be at least %d", minVal))
}

// OneOf skips empty values; pair it with Required when the field is mandatory.
func (v *Validator) OneOf(field, value string, allowed []string) *Validator {
	return v.check(value == "" || slices.Contains(allowed, value), field,
		"must be one of: "+strings.Join(allowed, ", "))
}

// Token requires an RFC 7230 token, the grammar of header names.
func (v *Validator) Token(field, value string) *Validator {
	return v.check(tokenPattern.MatchString(value), field, fmt.Sprintf("%q is not a valid token", value))
}

// Host accepts "name" or "name:port" and rejects anything carrying a scheme,
// path, query, userinfo or whitespace. Empty values are skipped.
func (v *Validator) Host(field, value string) *Validator {
	if value == "" {
		return v
	}
	if strings.ContainsAny(value, "/ \t?#@") {
		return v.check(false, field, "must be a host name without scheme or path")
	}
	h, _, err := net.SplitHostPort(value)
	return v.check(err != nil || h != "", field, "must name a host")
}

// Custom records message when condition is false.
func (v *Validator) Custom(condition bool, field, message string) *Validator {
	return v.check(condition, field, message)
}
