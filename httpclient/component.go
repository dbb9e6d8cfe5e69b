package httpclient

import (
	"context"
	"fmt"

	"github.com/kbukum/restkit/component"
	"github.com/kbukum/restkit/validation"
)

// Component runs a Client over an HTTPTransport under a component.Registry.
// Both are built in Start.
type Component struct {
	config Config
	client *component.Lazy[*Client]
}

var (
	_ component.Component   = (*Component)(nil)
	_ component.Describable = (*Component)(nil)
)

// NewComponent creates a REST client component.
func NewComponent(cfg Config, opts ...Option) *Component {
	cfg.ApplyDefaults()
	build := func(context.Context) (*Client, error) {
		if err := validation.New().Required("default_host", cfg.DefaultHost).Error(); err != nil {
			return nil, err
		}
		t, err := NewHTTPTransport(cfg.Transport)
		if err != nil {
			return nil, err
		}
		client, err := NewClient(t, cfg, opts...)
		if err != nil {
			t.Close()
			return nil, err
		}
		return client, nil
	}
	return &Component{
		config: cfg,
		client: component.NewLazy(cfg.Name, build).
			WithHealthCheck(func(ctx context.Context, c *Client) error {
				if !c.IsAvailable(ctx) {
					return fmt.Errorf("transport unavailable")
				}
				return nil
			}).
			WithRelease(func(c *Client) error {
				if t, ok := c.Transport().(*HTTPTransport); ok {
					t.Close()
				}
				return nil
			}),
	}
}

// Name returns the component name.
func (c *Component) Name() string { return c.config.Name }

// Start builds the transport and client.
func (c *Component) Start(ctx context.Context) error {
	_, err := c.client.Get(ctx)
	return err
}

// Stop releases idle transport connections.
func (c *Component) Stop(_ context.Context) error {
	return c.client.Close()
}

// Health reports unhealthy until Start succeeds.
func (c *Component) Health(ctx context.Context) component.Health {
	return component.HealthFrom(c.Name(), c.client.Check(ctx))
}

// Describe returns a one-line summary of the client settings.
func (c *Component) Describe() component.Description {
	scheme := "http"
	if c.config.HTTPSDefault {
		scheme = "https"
	}
	return component.Description{
		Name:    c.Name(),
		Type:    "rest-client",
		Details: fmt.Sprintf("%s %s rpm=%d", c.config.DefaultHost, scheme, c.config.RequestsPerMinute),
	}
}

// Client returns the client, or nil before Start.
func (c *Component) Client() *Client {
	client, _ := c.client.Peek()
	return client
}
