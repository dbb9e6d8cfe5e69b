package testutil

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"

	"github.com/kbukum/restkit/component"
)

var errNotStarted = errors.New("redis-test: not started")

// Component runs an in-memory Redis for tests that exercise a history store
// or a redis.Component without a real server.
type Component struct {
	mu  sync.RWMutex
	srv *server
}

type server struct {
	mini   *miniredis.Miniredis
	client *goredis.Client
}

var _ component.Component = (*Component)(nil)

func NewComponent() *Component { return &Component{} }

func (c *Component) running() *server {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.srv
}

// Client is nil until Start.
func (c *Component) Client() *goredis.Client {
	if s := c.running(); s != nil {
		return s.client
	}
	return nil
}

// Addr is the host:port to point a redis.Config at, or "" until Start.
func (c *Component) Addr() string {
	if s := c.running(); s != nil {
		return s.mini.Addr()
	}
	return ""
}

func (c *Component) Name() string { return "redis-test" }

func (c *Component) Start(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.srv != nil {
		return fmt.Errorf("%s: already started", c.Name())
	}
	mini, err := miniredis.Run()
	if err != nil {
		return fmt.Errorf("%s: run miniredis: %w", c.Name(), err)
	}
	c.srv = &server{mini: mini, client: goredis.NewClient(&goredis.Options{Addr: mini.Addr()})}
	return nil
}

// Stop is a no-op when the server is not running.
func (c *Component) Stop(_ context.Context) error {
	c.mu.Lock()
	s := c.srv
	c.srv = nil
	c.mu.Unlock()
	if s == nil {
		return nil
	}
	err := s.client.Close()
	s.mini.Close()
	return err
}

func (c *Component) Health(_ context.Context) component.Health {
	if c.running() == nil {
		return component.HealthFrom(c.Name(), errNotStarted)
	}
	return component.HealthFrom(c.Name(), nil)
}

// Reset drops every key.
func (c *Component) Reset() error {
	s := c.running()
	if s == nil {
		return errNotStarted
	}
	s.mini.FlushAll()
	return nil
}

// FastForward moves the server clock so keys with a TTL expire.
func (c *Component) FastForward(d time.Duration) {
	if s := c.running(); s != nil {
		s.mini.FastForward(d)
	}
}
