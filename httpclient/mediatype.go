package httpclient

import (
	"fmt"
	"mime"
	"strings"
)

// MediaType is a parsed Content-Type value.
type MediaType struct {
	Type    string            `json:"type"`
	Subtype string            `json:"subtype"`
	Params  map[string]string `json:"params,omitempty"`
}

// Common media types.
var (
	MediaTypeJSON = MediaType{Type: "application", Subtype: "json"}
	MediaTypeForm = MediaType{Type: "application", Subtype: "x-www-form-urlencoded"}
	MediaTypeText = MediaType{Type: "text", Subtype: "plain"}
	MediaTypeHTML = MediaType{Type: "text", Subtype: "html"}
	MediaTypeAny  = MediaType{Type: "*", Subtype: "*"}
)

// ParseMediaType parses a Content-Type header value such as
// "application/json; charset=utf-8". Type and subtype are lower-cased.
func ParseMediaType(s string) (MediaType, error) {
	full, params, err := mime.ParseMediaType(s)
	if err != nil {
		return MediaType{}, fmt.Errorf("parse media type %q: %w", s, err)
	}
	typ, sub, ok := strings.Cut(full, "/")
	if !ok || typ == "" || sub == "" {
		return MediaType{}, fmt.Errorf("parse media type %q: missing subtype", s)
	}
	if len(params) == 0 {
		params = nil
	}
	return MediaType{Type: typ, Subtype: sub, Params: params}, nil
}

// MustParseMediaType is like ParseMediaType but panics on error.
func MustParseMediaType(s string) MediaType {
	mt, err := ParseMediaType(s)
	if err != nil {
		panic(err)
	}
	return mt
}

// IsZero reports whether no media type is set.
func (m MediaType) IsZero() bool {
	return m.Type == "" && m.Subtype == ""
}

// Essence returns "type/subtype" without parameters.
func (m MediaType) Essence() string {
	if m.IsZero() {
		return ""
	}
	return strings.ToLower(m.Type) + "/" + strings.ToLower(m.Subtype)
}

// String renders the media type with its parameters.
func (m MediaType) String() string {
	if m.IsZero() {
		return ""
	}
	return mime.FormatMediaType(m.Essence(), m.Params)
}

// Matches reports whether actual satisfies m. Comparison ignores case and
// parameters; a "*" type or subtype in m accepts anything.
func (m MediaType) Matches(actual MediaType) bool {
	if m.Type != "*" && !strings.EqualFold(m.Type, actual.Type) {
		return false
	}
	return m.Subtype == "*" || strings.EqualFold(m.Subtype, actual.Subtype)
}

// ContentTypeMismatchError reports a response whose media type differs from
// the one the request expected.
type ContentTypeMismatchError struct {
	Expected string
	Actual   string
}

func (e *ContentTypeMismatchError) Error() string {
	return fmt.Sprintf("expected Content-Type ('%s') did not match actual Content-Type ('%s')", e.Expected, e.Actual)
}

// ValidateContentType checks actual against expected. A zero expected type
// disables the check.
func ValidateContentType(expected, actual MediaType) error {
	if expected.IsZero() || expected.Matches(actual) {
		return nil
	}
	return &ContentTypeMismatchError{Expected: expected.Essence(), Actual: actual.Essence()}
}
