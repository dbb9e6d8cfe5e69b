package httpclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"net/url"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/kbukum/restkit/validation"
)

// BasicAuth holds HTTP basic credentials.
type BasicAuth struct {
	Username string
	Password string
}

// IsZero reports whether no credentials are set.
func (a BasicAuth) IsZero() bool {
	return a.Username == "" && a.Password == ""
}

// String masks the password.
func (a BasicAuth) String() string {
	if a.IsZero() {
		return "none"
	}
	return a.Username + ":****"
}

// Request is an immutable description of one REST call. Build it with a
// RequestBuilder; accessors return copies.
type Request struct {
	id       string
	method   string
	scheme   string
	host     string
	path     string
	query    url.Values
	headers  Headers
	body     []byte
	auth     BasicAuth
	expected MediaType
	// seeded lists header keys copied from transport defaults and left
	// untouched by the caller.
	seeded []string
}

// ID uniquely identifies the request.
func (r *Request) ID() string { return r.id }

// Method returns the HTTP verb.
func (r *Request) Method() string { return r.method }

// Scheme returns "http" or "https".
func (r *Request) Scheme() string { return r.scheme }

// Host returns the target host, optionally with a port.
func (r *Request) Host() string { return r.host }

// Path returns the request path.
func (r *Request) Path() string { return r.path }

// Query returns a copy of the query parameters.
func (r *Request) Query() url.Values {
	out := make(url.Values, len(r.query))
	for k, v := range r.query {
		out[k] = slices.Clone(v)
	}
	return out
}

// Headers returns a copy of the request headers.
func (r *Request) Headers() Headers { return r.headers.Clone() }

// Body returns a copy of the encoded body, or nil.
func (r *Request) Body() []byte { return bytes.Clone(r.body) }

// BasicAuth returns the credentials the request carries, if any.
func (r *Request) BasicAuth() BasicAuth { return r.auth }

// Expected returns the media type the response must carry. A zero value
// disables the check.
func (r *Request) Expected() MediaType { return r.expected }

// URL assembles the target URL.
func (r *Request) URL() *url.URL {
	path := r.path
	if path != "" && !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	u := &url.URL{
		Scheme:   r.scheme,
		Host:     r.host,
		Path:     path,
		RawQuery: r.query.Encode(),
	}
	// Path segments may already be escaped by RequestBuilder.Path.
	if unescaped, err := url.PathUnescape(path); err == nil {
		u.Path = unescaped
		u.RawPath = path
	}
	return u
}

func (r *Request) String() string {
	return fmt.Sprintf("Request{id=%s, %s %s, headers=%s, auth=%s}", r.id, r.method, r.URL(), r.headers, r.auth)
}

type requestJSON struct {
	ID       string     `json:"id"`
	Method   string     `json:"method"`
	Scheme   string     `json:"scheme"`
	Host     string     `json:"host"`
	Path     string     `json:"path,omitempty"`
	Query    url.Values `json:"query,omitempty"`
	Headers  Headers    `json:"headers"`
	Body     []byte     `json:"body,omitempty"`
	Username string     `json:"username,omitempty"`
	Expected MediaType  `json:"expected"`
}

// MarshalJSON encodes the request for history storage. The password is
// never written.
func (r *Request) MarshalJSON() ([]byte, error) {
	return json.Marshal(requestJSON{
		ID:       r.id,
		Method:   r.method,
		Scheme:   r.scheme,
		Host:     r.host,
		Path:     r.path,
		Query:    r.query,
		Headers:  r.headers,
		Body:     r.body,
		Username: r.auth.Username,
		Expected: r.expected,
	})
}

// UnmarshalJSON decodes a request written by MarshalJSON.
func (r *Request) UnmarshalJSON(data []byte) error {
	var v requestJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*r = Request{
		id:       v.ID,
		method:   v.Method,
		scheme:   v.Scheme,
		host:     v.Host,
		path:     v.Path,
		query:    v.Query,
		headers:  v.Headers,
		body:     v.Body,
		auth:     BasicAuth{Username: v.Username},
		expected: v.Expected,
	}
	return nil
}

// withCurrentDefaults drops the seeded default headers the caller left
// untouched and merges defaults in their place, so a default changed after
// the builder was created still reaches the wire.
func (r *Request) withCurrentDefaults(defaults Headers, policy MergePolicy) *Request {
	own := r.headers
	if len(r.seeded) > 0 {
		own = own.Clone()
		for _, k := range r.seeded {
			own.Del(k)
		}
	}
	return r.withHeaders(MergeHeaders(own, defaults, policy))
}

// withHeaders returns a shallow copy carrying h.
func (r *Request) withHeaders(h Headers) *Request {
	out := *r
	out.headers = h
	return &out
}

// RequestBuilder assembles a Request. Builders are not safe for concurrent
// use; Clone one per goroutine.
type RequestBuilder struct {
	method   string
	https    bool
	host     string
	path     string
	query    url.Values
	headers  Headers
	body     any
	auth     BasicAuth
	expected MediaType
	seeded   map[string]struct{}
}

// NewRequestBuilder returns a GET builder over https expecting JSON.
func NewRequestBuilder() *RequestBuilder {
	return &RequestBuilder{
		method:   "GET",
		https:    true,
		query:    url.Values{},
		expected: MediaTypeJSON,
	}
}

func newSeededBuilder(host string, https bool, defaults Headers) *RequestBuilder {
	b := NewRequestBuilder()
	b.host = host
	b.https = https
	b.headers = defaults.Clone()
	b.seeded = make(map[string]struct{}, defaults.Len())
	for _, h := range defaults.entries {
		b.seeded[h.Key] = struct{}{}
	}
	return b
}

// Method sets the HTTP verb.
func (b *RequestBuilder) Method(method string) *RequestBuilder {
	b.method = strings.ToUpper(method)
	return b
}

func (b *RequestBuilder) Get() *RequestBuilder    { return b.Method("GET") }
func (b *RequestBuilder) Delete() *RequestBuilder { return b.Method("DELETE") }

// Post sets the verb to POST with body.
func (b *RequestBuilder) Post(body any) *RequestBuilder { return b.Method("POST").Body(body) }

// Put sets the verb to PUT with body.
func (b *RequestBuilder) Put(body any) *RequestBuilder { return b.Method("PUT").Body(body) }

// Patch sets the verb to PATCH with body.
func (b *RequestBuilder) Patch(body any) *RequestBuilder { return b.Method("PATCH").Body(body) }

// Host sets the target host.
func (b *RequestBuilder) Host(host string) *RequestBuilder {
	b.host = host
	return b
}

// HTTPS selects https when true and plain http otherwise.
func (b *RequestBuilder) HTTPS(https bool) *RequestBuilder {
	b.https = https
	return b
}

// Path sets the path. Format arguments are path-escaped.
func (b *RequestBuilder) Path(format string, args ...any) *RequestBuilder {
	if len(args) > 0 {
		escaped := make([]any, len(args))
		for i, a := range args {
			escaped[i] = url.PathEscape(fmt.Sprint(a))
		}
		format = fmt.Sprintf(format, escaped...)
	}
	b.path = format
	return b
}

// Query adds a query parameter.
func (b *RequestBuilder) Query(key, value string) *RequestBuilder {
	b.query.Add(key, value)
	return b
}

// Header adds a header, keeping existing values of key.
func (b *RequestBuilder) Header(key, value string) *RequestBuilder {
	delete(b.seeded, canonicalKey(key))
	b.headers.Add(key, value)
	return b
}

// SetHeader replaces every value of key.
func (b *RequestBuilder) SetHeader(key, value string) *RequestBuilder {
	delete(b.seeded, canonicalKey(key))
	b.headers.Set(key, value)
	return b
}

// Body sets the payload: []byte, string, io.Reader or any JSON-encodable value.
func (b *RequestBuilder) Body(body any) *RequestBuilder {
	b.body = body
	return b
}

// BasicAuth attaches credentials.
func (b *RequestBuilder) BasicAuth(username, password string) *RequestBuilder {
	b.auth = BasicAuth{Username: username, Password: password}
	return b
}

// Expected sets the media type the response must carry. Pass the zero
// MediaType to skip the check.
func (b *RequestBuilder) Expected(mt MediaType) *RequestBuilder {
	b.expected = mt
	return b
}

// Clone returns an independent copy of the builder.
func (b *RequestBuilder) Clone() *RequestBuilder {
	out := *b
	out.query = url.Values{}
	for k, v := range b.query {
		out.query[k] = slices.Clone(v)
	}
	out.headers = b.headers.Clone()
	out.seeded = maps.Clone(b.seeded)
	if b.expected.Params != nil {
		out.expected.Params = maps.Clone(b.expected.Params)
	}
	return &out
}

// Build validates the builder and returns the request. Validation failures
// are *errors.AppError values.
func (b *RequestBuilder) Build() (*Request, error) {
	v := validation.New().
		Required("method", b.method).
		OneOf("method", b.method, validation.HTTPMethods).
		Required("host", b.host).
		Host("host", b.host)
	for _, h := range b.headers.entries {
		v.Token("header", h.Key)
	}
	if err := v.Error(); err != nil {
		return nil, err
	}

	body, contentType, err := encodeBody(b.body)
	if err != nil {
		return nil, validation.New().Custom(false, "body", err.Error()).Error()
	}

	headers := b.headers.Clone()
	if body != nil && contentType != "" && !headers.Has("Content-Type") {
		headers.Add("Content-Type", contentType)
	}

	scheme := "http"
	if b.https {
		scheme = "https"
	}
	return &Request{
		id:       uuid.NewString(),
		method:   b.method,
		scheme:   scheme,
		host:     b.host,
		path:     b.path,
		query:    b.Clone().query,
		headers:  headers,
		body:     body,
		auth:     b.auth,
		expected: b.expected,
		seeded:   slices.Sorted(maps.Keys(b.seeded)),
	}, nil
}

func encodeBody(body any) ([]byte, string, error) {
	if body == nil {
		return nil, "", nil
	}
	switch v := body.(type) {
	case []byte:
		return bytes.Clone(v), "", nil
	case string:
		return []byte(v), "text/plain; charset=utf-8", nil
	case io.Reader:
		data, err := io.ReadAll(v)
		if err != nil {
			return nil, "", fmt.Errorf("read body: %w", err)
		}
		return data, "", nil
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return nil, "", fmt.Errorf("encode body: %w", err)
		}
		return data, "application/json", nil
	}
}
