package httpclient

import (
	"bytes"
	"fmt"
	"maps"

	"github.com/google/uuid"
)

// Response is the result of executing a Request.
type Response struct {
	// ID identifies the response; history is keyed on it.
	ID string `json:"id"`
	// StatusCode is the HTTP status code.
	StatusCode int `json:"status_code"`
	// Headers are the response headers.
	Headers Headers `json:"headers"`
	// Body is the raw response body.
	Body []byte `json:"body,omitempty"`
	// Type is the media type declared by Content-Type. Zero when absent or
	// unparseable.
	Type MediaType `json:"type"`
	// Request is the request that produced this response, with the headers
	// that were actually sent.
	Request *Request `json:"request,omitempty"`
}

// NewResponse builds a response and derives Type from the Content-Type header.
func NewResponse(req *Request, status int, headers Headers, body []byte) *Response {
	mt, _ := ParseMediaType(headers.Get("Content-Type"))
	return &Response{
		ID:         uuid.NewString(),
		StatusCode: status,
		Headers:    headers,
		Body:       body,
		Type:       mt,
		Request:    req,
	}
}

// IsSuccess returns true if the status code is 2xx.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// IsError returns true if the status code is 4xx or 5xx.
func (r *Response) IsError() bool {
	return r.StatusCode >= 400
}

// Clone returns a copy whose headers, body and media type parameters are
// independent of r. Request is shared since requests are immutable.
func (r *Response) Clone() *Response {
	if r == nil {
		return nil
	}
	out := *r
	out.Headers = r.Headers.Clone()
	out.Body = bytes.Clone(r.Body)
	out.Type.Params = maps.Clone(r.Type.Params)
	return &out
}

func (r *Response) String() string {
	return fmt.Sprintf("Response{id=%s, status=%d, type=%s, bytes=%d}", r.ID, r.StatusCode, r.Type.Essence(), len(r.Body))
}
