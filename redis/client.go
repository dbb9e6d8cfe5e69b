package redis

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/kbukum/restkit/logger"
	"github.com/kbukum/restkit/provider"
)

var errDisabled = errors.New("redis is disabled")

// Client is a go-redis client bound to its Config and a component logger.
type Client struct {
	rdb    *goredis.Client
	cfg    Config
	log    *logger.Logger
	closed atomic.Bool
}

var _ provider.Provider = (*Client)(nil)

// New validates cfg and builds a client without dialing. A nil log uses the
// global logger.
func New(cfg Config, log *logger.Logger) (*Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("redis config: %w", err)
	}
	if !cfg.Enabled {
		return nil, errDisabled
	}
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	log = log.WithComponent("redis")

	c := &Client{rdb: goredis.NewClient(cfg.options()), cfg: cfg, log: log}
	log.Info("redis client created", logger.Fields(
		logger.FieldHost, cfg.Addr, "db", cfg.DB, "pool_size", cfg.PoolSize))
	return c, nil
}

// options maps cfg onto go-redis. Durations were checked by Validate.
func (c Config) options() *goredis.Options {
	duration := func(s string) (d time.Duration) {
		d, _ = parseDuration(s)
		return d
	}
	return &goredis.Options{
		Addr:            c.Addr,
		Password:        c.Password,
		DB:              c.DB,
		PoolSize:        c.PoolSize,
		MinIdleConns:    c.MinIdleConns,
		MaxRetries:      c.MaxRetries,
		DialTimeout:     duration(c.DialTimeout),
		ReadTimeout:     duration(c.ReadTimeout),
		WriteTimeout:    duration(c.WriteTimeout),
		ConnMaxIdleTime: duration(c.ConnMaxIdleTime),
	}
}

func (c *Client) Name() string { return c.cfg.Name }

// IsAvailable is false once closed or when a ping fails.
func (c *Client) IsAvailable(ctx context.Context) bool {
	return !c.closed.Load() && c.Ping(ctx) == nil
}

func (c *Client) Ping(ctx context.Context) error {
	switch pong, err := c.rdb.Ping(ctx).Result(); {
	case err != nil:
		return fmt.Errorf("redis ping: %w", err)
	case pong != "PONG":
		return fmt.Errorf("redis ping: unexpected reply %q", pong)
	}
	return nil
}

// Close is idempotent and nil-safe.
func (c *Client) Close() error {
	if c == nil || !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	c.log.Info("redis connection closed")
	return c.rdb.Close()
}

// Config returns the configuration after defaults.
func (c *Client) Config() Config { return c.cfg }

// Unwrap exposes the go-redis client for commands this package does not wrap.
func (c *Client) Unwrap() *goredis.Client { return c.rdb }
