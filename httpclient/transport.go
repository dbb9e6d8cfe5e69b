package httpclient

import "context"

// Transport performs the wire exchange for a request and owns the default
// headers added to every outgoing call.
type Transport interface {
	// Execute sends req and returns the raw response. Implementations must
	// return an error only for I/O failures; HTTP error statuses are responses.
	Execute(ctx context.Context, req *Request) (*Response, error)
	// DefaultHeaders returns a snapshot of the default headers.
	DefaultHeaders() Headers
	// DefaultHeader returns the first default value of key.
	DefaultHeader(key string) string
	// SetDefaultHeader replaces the default value of key.
	SetDefaultHeader(key, value string)
}

// Authenticator is implemented by transports that hold credentials as
// connection state instead of per request. The client serializes exchanges on
// such transports and brackets each one with Authenticate and Deauthenticate.
type Authenticator interface {
	Authenticate(ctx context.Context, creds BasicAuth) error
	Deauthenticate(ctx context.Context) error
}
