package httpclient

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/kbukum/restkit/logger"
	"github.com/kbukum/restkit/observability"
	"github.com/kbukum/restkit/provider"
	"github.com/kbukum/restkit/resilience"
)

const userAgentHeader = "User-Agent"

// Client executes requests over a Transport. It enforces the request budget,
// merges transport default headers, brackets stateful transports with
// authentication, checks response media types and records history.
//
// A Client is safe for concurrent use.
type Client struct {
	name        string
	defaultHost string
	merge       MergePolicy

	transport Transport
	exec      provider.RequestResponse[*Request, *Response]
	auth      *authBracket
	history   *HistoryRecorder

	limiter atomic.Pointer[resilience.RateLimiter]
	https   atomic.Bool
	logging atomic.Bool

	log     *logger.Logger
	metrics *observability.Metrics
	tracing bool
}

type options struct {
	log         *logger.Logger
	store       HistoryStore
	middlewares []provider.Middleware[*Request, *Response]
	metrics     *observability.Metrics
	tracing     bool
	now         func() time.Time
}

// Option configures a Client.
type Option func(*options)

// WithLogger sets the logger. Defaults to the global logger.
func WithLogger(l *logger.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithHistoryStore replaces the in-memory history.
func WithHistoryStore(s HistoryStore) Option {
	return func(o *options) { o.store = s }
}

// WithMiddleware wraps the transport call. The first middleware is outermost.
func WithMiddleware(m ...provider.Middleware[*Request, *Response]) Option {
	return func(o *options) { o.middlewares = append(o.middlewares, m...) }
}

// WithMetrics records request, transport and rate-limit metrics.
func WithMetrics(m *observability.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithTracing opens a span per Execute and per transport call.
func WithTracing() Option {
	return func(o *options) { o.tracing = true }
}

// WithClock sets the time source used for history timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// NewClient creates a client over transport. cfg.UserAgent is written to the
// transport's default headers.
func NewClient(transport Transport, cfg Config, opts ...Option) (*Client, error) {
	if transport == nil {
		return nil, fmt.Errorf("httpclient: transport is required")
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = logger.GetGlobalLogger()
	}
	if o.store == nil {
		o.store = NewMemoryHistory(cfg.HistoryMaxEntries)
	}

	c := &Client{
		name:        cfg.Name,
		defaultHost: cfg.DefaultHost,
		merge:       cfg.mergePolicy(),
		transport:   transport,
		auth:        newAuthBracket(cfg.Name, transport),
		history:     NewHistoryRecorder(o.store, cfg.SaveHistory),
		log:         o.log.WithComponent("httpclient"),
		metrics:     o.metrics,
		tracing:     o.tracing,
	}
	if o.now != nil {
		c.history.now = o.now
	}
	c.https.Store(cfg.HTTPSDefault)
	c.logging.Store(cfg.RequestLogging)
	c.SetEnforceRateLimit(cfg.RequestsPerMinute)
	c.SetUserAgent(cfg.UserAgent)
	c.exec = c.buildChain(o.middlewares)
	return c, nil
}

func (c *Client) buildChain(extra []provider.Middleware[*Request, *Response]) provider.RequestResponse[*Request, *Response] {
	base := provider.NewFunc(c.name+".transport", c.transport.Execute, nil)

	var chain []provider.Middleware[*Request, *Response]
	if c.tracing {
		chain = append(chain, provider.WithTracing[*Request, *Response](c.name))
	}
	if c.metrics != nil {
		chain = append(chain, provider.WithMetrics[*Request, *Response](c.metrics))
	}
	chain = append(chain, provider.WithLogging[*Request, *Response](c.log))
	chain = append(chain, extra...)
	return provider.Chain(chain...)(base)
}

// Request returns a builder seeded with the default host, the default scheme
// and the transport's current default headers. Each call returns an
// independent builder.
func (c *Client) Request() *RequestBuilder {
	return newSeededBuilder(c.defaultHost, c.https.Load(), c.transport.DefaultHeaders())
}

// Execute sends req and returns the validated response.
//
// On a media type mismatch the response is returned together with an error
// for which IsContentTypeMismatch is true. Stateful transports are
// deauthenticated before Execute returns, whatever the outcome.
func (c *Client) Execute(ctx context.Context, req *Request) (resp *Response, err error) {
	if req == nil {
		return nil, NewValidationError(errors.New("request is nil"))
	}

	if c.tracing {
		spanCtx, span := observability.StartSpan(ctx, observability.SpanRESTExecute)
		defer span.End()
		ctx = spanCtx
		observability.SetSpanAttribute(ctx, observability.AttrRequestID, req.ID())
		observability.SetSpanAttribute(ctx, observability.AttrHTTPMethod, req.Method())
		observability.SetSpanAttribute(ctx, observability.AttrHTTPURL, req.URL().String())
		defer func() {
			if resp != nil {
				observability.SetSpanAttribute(ctx, observability.AttrHTTPStatus, resp.StatusCode)
				observability.SetSpanAttribute(ctx, observability.AttrContentType, resp.Type.Essence())
			}
			if err != nil {
				observability.SetSpanError(ctx, err)
			}
		}()
	}

	if c.metrics != nil {
		c.metrics.RecordRequestStart(ctx)
		start := time.Now()
		defer func() {
			status := "error"
			if resp != nil {
				status = strconv.Itoa(resp.StatusCode)
			}
			c.metrics.RecordRequestEnd(ctx, c.name, req.Method(), status, time.Since(start))
		}()
	}

	return c.auth.run(ctx, req.BasicAuth(), func(ctx context.Context) (*Response, error) {
		return c.exchange(ctx, req)
	})
}

// exchange runs everything between authentication and deauthentication.
func (c *Client) exchange(ctx context.Context, req *Request) (*Response, error) {
	sent := req.withCurrentDefaults(c.transport.DefaultHeaders(), c.merge)

	if err := c.admit(ctx); err != nil {
		return nil, err
	}

	logging := c.IsLogging()
	if logging {
		c.log.Info("sending request", logger.Fields(
			logger.FieldRequestID, sent.ID(),
			logger.FieldMethod, sent.Method(),
			logger.FieldURL, sent.URL().String(),
		))
	}

	start := time.Now()
	resp, err := c.exec.Execute(ctx, sent)
	if err != nil {
		return nil, classifyTransportError(ctx.Err(), err)
	}
	if resp == nil {
		return nil, NewNetworkError(errors.New("transport returned no response"))
	}
	if resp.Request == nil {
		resp.Request = sent
	}

	if logging {
		c.log.Info("received response", logger.Fields(
			logger.FieldRequestID, sent.ID(),
			logger.FieldStatus, resp.StatusCode,
			logger.FieldDuration, time.Since(start).Milliseconds(),
			"content_type", resp.Type.Essence(),
		))
	}

	if err := ValidateContentType(sent.Expected(), resp.Type); err != nil {
		var mismatch *ContentTypeMismatchError
		if errors.As(err, &mismatch) {
			return resp, NewContentTypeError(mismatch)
		}
		return resp, err
	}

	if err := c.history.Record(ctx, resp); err != nil {
		return resp, err
	}
	return resp, nil
}

// admit blocks until the rate limiter grants a permit.
func (c *Client) admit(ctx context.Context) error {
	rl := c.limiter.Load()
	if rl == nil || rl.TryAcquire() {
		return nil
	}

	waited, err := rl.Acquire(ctx)
	if err != nil {
		return NewTimeoutError(fmt.Errorf("rate limit wait: %w", err))
	}
	if c.metrics != nil {
		c.metrics.RecordRateLimitWait(ctx, c.name, waited)
	}
	if c.IsLogging() {
		c.log.Info("rate limited, slept before sending", logger.Fields(logger.FieldWait, waited.Milliseconds()))
	}
	return nil
}

// Name returns the client name.
func (c *Client) Name() string { return c.name }

// IsAvailable reports whether the transport chain is ready.
func (c *Client) IsAvailable(ctx context.Context) bool { return c.exec.IsAvailable(ctx) }

// DefaultHost returns the host seeded into new builders.
func (c *Client) DefaultHost() string { return c.defaultHost }

// Transport returns the underlying transport.
func (c *Client) Transport() Transport { return c.transport }

// UserAgent returns the transport's User-Agent default header.
func (c *Client) UserAgent() string { return c.transport.DefaultHeader(userAgentHeader) }

// SetUserAgent updates the transport's User-Agent default header.
func (c *Client) SetUserAgent(ua string) { c.transport.SetDefaultHeader(userAgentHeader, ua) }

// SetEnforceRateLimit admits at most n requests per minute. n <= 0 disables
// limiting. Each call installs a fresh limiter with no carried credit.
func (c *Client) SetEnforceRateLimit(n int) {
	if n <= 0 {
		c.limiter.Store(nil)
		return
	}
	c.limiter.Store(resilience.NewRateLimiter(resilience.PerMinute(c.name, n)))
}

// IsEnforcingRateLimit reports whether a limiter is installed.
func (c *Client) IsEnforcingRateLimit() bool { return c.limiter.Load() != nil }

// RequestsPerMinute returns the budget of the installed limiter, 0 when
// disabled.
func (c *Client) RequestsPerMinute() int {
	rl := c.limiter.Load()
	if rl == nil {
		return 0
	}
	return int(math.Round(rl.Rate() * 60))
}

// HTTPSDefault reports whether new builders use https.
func (c *Client) HTTPSDefault() bool { return c.https.Load() }

// SetHTTPSDefault selects the scheme for builders created afterwards.
func (c *Client) SetHTTPSDefault(on bool) { c.https.Store(on) }

// IsSavingHistory reports whether successful responses are recorded.
func (c *Client) IsSavingHistory() bool { return c.history.Enabled() }

// SetSaveHistory toggles recording. Existing entries are kept.
func (c *Client) SetSaveHistory(on bool) { c.history.SetEnabled(on) }

// IsLogging reports whether rate-limit waits, requests and responses are logged.
func (c *Client) IsLogging() bool { return c.logging.Load() }

// EnableLogging toggles request logging.
func (c *Client) EnableLogging(on bool) { c.logging.Store(on) }

// HistoryRecorder returns the recorder behind History.
func (c *Client) HistoryRecorder() *HistoryRecorder { return c.history }

// History returns a snapshot of the recorded responses in call order.
func (c *Client) History(ctx context.Context) ([]HistoryEntry, error) {
	return c.history.Entries(ctx)
}
