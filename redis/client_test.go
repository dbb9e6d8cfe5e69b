package redis

import (
	"context"
	"strings"
	"testing"

	"github.com/kbukum/restkit/component"
	"github.com/kbukum/restkit/logger"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"disabled skips checks", Config{}, ""},
		{"missing addr", Config{Enabled: true, PoolSize: 1}, "addr is required"},
		{"bad pool", Config{Enabled: true, Addr: "x:1"}, "pool_size"},
		{"negative history cap", Config{Enabled: true, Addr: "x:1", PoolSize: 1, HistoryMaxEntries: -1}, "history_max_entries"},
		{"bad ttl", Config{Enabled: true, Addr: "x:1", PoolSize: 1, HistoryTTL: "soon"}, "history_ttl"},
		{"valid", Config{Enabled: true, Addr: "x:1", PoolSize: 1, HistoryTTL: "24h"}, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("expected error containing %q, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestConfigApplyDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	if cfg.Name != "redis" || cfg.PoolSize != 10 || cfg.HistoryKey != "restkit:history" {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if cfg.DialTimeout != "5s" || cfg.ReadTimeout != "3s" {
		t.Errorf("unexpected timeout defaults %+v", cfg)
	}
}

func TestNew_Disabled(t *testing.T) {
	if _, err := New(Config{Addr: "localhost:6379"}, logger.NewNop()); err == nil {
		t.Error("expected error for disabled config")
	}
}

func TestClient_PingAndClose(t *testing.T) {
	srv := startMini(t)
	ctx := context.Background()

	c, err := New(Config{Enabled: true, Name: "cache", Addr: srv.Addr()}, logger.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if c.Name() != "cache" {
		t.Errorf("unexpected name %q", c.Name())
	}
	if err := c.Ping(ctx); err != nil {
		t.Fatalf("Ping: %v", err)
	}
	if !c.IsAvailable(ctx) {
		t.Error("expected available client")
	}
	if c.Unwrap() == nil {
		t.Error("expected underlying client")
	}

	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Errorf("second Close should be a no-op, got %v", err)
	}
	if c.IsAvailable(ctx) {
		t.Error("closed client must not be available")
	}
}

func TestComponent_Lifecycle(t *testing.T) {
	srv := startMini(t)
	ctx := context.Background()

	comp := NewComponent(Config{Enabled: true, Addr: srv.Addr(), HistoryMaxEntries: 5}, logger.NewNop())
	if comp.Health(ctx).Status != component.StatusUnhealthy {
		t.Error("expected unhealthy before Start")
	}
	if comp.HistoryStore() != nil {
		t.Error("expected no history store before Start")
	}

	if err := comp.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if h := comp.Health(ctx); h.Status != component.StatusHealthy {
		t.Errorf("expected healthy, got %+v", h)
	}
	if comp.HistoryStore() == nil || comp.HistoryStore().max != 5 {
		t.Error("expected history store with configured cap")
	}
	if d := comp.Describe(); d.Type != "redis" || !strings.Contains(d.Details, srv.Addr()) {
		t.Errorf("unexpected description %+v", d)
	}

	if err := comp.Stop(ctx); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if comp.Health(ctx).Status != component.StatusUnhealthy {
		t.Error("expected unhealthy after Stop")
	}
}

func TestComponent_StartUnreachable(t *testing.T) {
	srv := startMini(t)
	addr := srv.Addr()
	_ = srv.Stop(context.Background())

	comp := NewComponent(Config{Enabled: true, Addr: addr, DialTimeout: "200ms"}, logger.NewNop())
	if err := comp.Start(context.Background()); err == nil {
		t.Error("expected start to fail against a stopped server")
	}
}

func TestComponent_Registry(t *testing.T) {
	srv := startMini(t)
	ctx := context.Background()

	reg := component.NewRegistry(logger.NewNop())
	comp := NewComponent(Config{Enabled: true, Addr: srv.Addr()}, logger.NewNop())
	if err := reg.Register(comp); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := reg.StartAll(ctx); err != nil {
		t.Fatalf("StartAll: %v", err)
	}
	for _, h := range reg.HealthAll(ctx) {
		if h.Status != component.StatusHealthy {
			t.Errorf("unhealthy component %+v", h)
		}
	}
	if err := reg.StopAll(ctx); err != nil {
		t.Fatalf("StopAll: %v", err)
	}
}
