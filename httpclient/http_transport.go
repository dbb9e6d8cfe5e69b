package httpclient

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/net/http2"

	"github.com/kbukum/restkit/security"
)

const (
	defaultTimeout     = 30 * time.Second
	defaultDialTimeout = 10 * time.Second
)

// TransportConfig configures HTTPTransport.
type TransportConfig struct {
	// Timeout bounds each exchange. Defaults to 30s.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	// Headers are the initial default headers.
	Headers map[string]string `yaml:"headers" mapstructure:"headers"`

	// H2C speaks HTTP/2 over cleartext TCP. Requests must use http.
	H2C bool `yaml:"h2c" mapstructure:"h2c"`

	// TLS configures server verification and client certificates.
	TLS *security.TLSConfig `yaml:"tls" mapstructure:"tls"`

	// HTTPClient replaces the built client. Timeout, H2C and TLS are then ignored.
	HTTPClient *http.Client `yaml:"-" mapstructure:"-"`
}

// ApplyDefaults fills in zero-value fields.
func (c *TransportConfig) ApplyDefaults() {
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
}

// Validate checks that the configuration is usable.
func (c *TransportConfig) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("httpclient: transport timeout must be positive")
	}
	if c.H2C && c.TLS.IsEnabled() {
		return fmt.Errorf("httpclient: h2c and tls are mutually exclusive")
	}
	return c.TLS.Validate()
}

// HTTPTransport is a Transport over net/http. Credentials travel with each
// request, so it does not implement Authenticator.
type HTTPTransport struct {
	client *http.Client

	mu       sync.RWMutex
	defaults Headers
}

// NewHTTPTransport creates a transport from cfg.
func NewHTTPTransport(cfg TransportConfig) (*HTTPTransport, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client := cfg.HTTPClient
	if client == nil {
		var err error
		if client, err = buildHTTPClient(cfg); err != nil {
			return nil, err
		}
	}

	t := &HTTPTransport{client: client}
	for k, v := range cfg.Headers {
		t.defaults.Set(k, v)
	}
	return t, nil
}

func buildHTTPClient(cfg TransportConfig) (*http.Client, error) {
	if cfg.H2C {
		return &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http2.Transport{
				AllowHTTP: true,
				DialTLSContext: func(ctx context.Context, network, addr string, _ *tls.Config) (net.Conn, error) {
					return (&net.Dialer{Timeout: defaultDialTimeout}).DialContext(ctx, network, addr)
				},
			},
		}, nil
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	tlsCfg, err := cfg.TLS.Build()
	if err != nil {
		return nil, err
	}
	if tlsCfg != nil {
		transport.TLSClientConfig = tlsCfg
	}
	return &http.Client{Transport: transport, Timeout: cfg.Timeout}, nil
}

// DefaultHeaders returns a snapshot of the default headers.
func (t *HTTPTransport) DefaultHeaders() Headers {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.defaults.Clone()
}

// DefaultHeader returns the first default value of key.
func (t *HTTPTransport) DefaultHeader(key string) string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.defaults.Get(key)
}

// SetDefaultHeader replaces the default value of key.
func (t *HTTPTransport) SetDefaultHeader(key, value string) {
	t.mu.Lock()
	t.defaults.Set(key, value)
	t.mu.Unlock()
}

// Execute sends req. Non-2xx statuses are returned as responses.
func (t *HTTPTransport) Execute(ctx context.Context, req *Request) (*Response, error) {
	var body io.Reader
	if req.body != nil {
		body = bytes.NewReader(req.body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.method, req.URL().String(), body)
	if err != nil {
		return nil, NewValidationError(fmt.Errorf("create request: %w", err))
	}
	httpReq.Header = req.headers.HTTPHeader()
	if !req.auth.IsZero() {
		httpReq.SetBasicAuth(req.auth.Username, req.auth.Password)
	}

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return nil, classifyTransportError(ctx.Err(), err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classifyTransportError(ctx.Err(), fmt.Errorf("read response body: %w", err))
	}
	return NewResponse(req, resp.StatusCode, HeadersFromHTTP(resp.Header), data), nil
}

// Close releases idle connections.
func (t *HTTPTransport) Close() {
	t.client.CloseIdleConnections()
}

// HTTPClient returns the underlying *http.Client.
func (t *HTTPTransport) HTTPClient() *http.Client {
	return t.client
}
