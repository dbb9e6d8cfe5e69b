package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/kbukum/restkit/component"
	"github.com/kbukum/restkit/logger"
)

// Component connects a Client in Start so a component.Registry can order it
// before the REST client that records into its HistoryStore.
type Component struct {
	cfg    Config
	client *component.Lazy[*Client]
}

var (
	_ component.Component   = (*Component)(nil)
	_ component.Describable = (*Component)(nil)
)

// NewComponent creates a Redis component. A nil log uses the global logger.
func NewComponent(cfg Config, log *logger.Logger) *Component {
	cfg.ApplyDefaults()
	connect := func(ctx context.Context) (*Client, error) {
		client, err := New(cfg, log)
		if err != nil {
			return nil, err
		}
		if err := client.Ping(ctx); err != nil {
			return nil, errors.Join(err, client.Close())
		}
		return client, nil
	}
	return &Component{
		cfg: cfg,
		client: component.NewLazy(cfg.Name, connect).
			WithHealthCheck(func(ctx context.Context, c *Client) error { return c.Ping(ctx) }).
			WithRelease((*Client).Close),
	}
}

// Client is nil until Start succeeds.
func (c *Component) Client() *Client {
	client, _ := c.client.Peek()
	return client
}

// HistoryStore is nil until Start succeeds.
func (c *Component) HistoryStore() *HistoryStore {
	if client := c.Client(); client != nil {
		return NewHistoryStore(client)
	}
	return nil
}

func (c *Component) Name() string { return c.cfg.Name }

// Start connects and pings.
func (c *Component) Start(ctx context.Context) error {
	_, err := c.client.Get(ctx)
	return err
}

func (c *Component) Stop(_ context.Context) error { return c.client.Close() }

func (c *Component) Health(ctx context.Context) component.Health {
	return component.HealthFrom(c.Name(), c.client.Check(ctx))
}

func (c *Component) Describe() component.Description {
	return component.Description{
		Name:    "Redis",
		Type:    "redis",
		Details: fmt.Sprintf("%s db=%d pool=%d history=%s", c.cfg.Addr, c.cfg.DB, c.cfg.PoolSize, c.cfg.HistoryKey),
	}
}
