package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/kbukum/restkit/component"
)

func TestComponent_Lifecycle(t *testing.T) {
	comp := NewComponent()
	ctx := context.Background()

	if comp.Client() != nil || comp.Addr() != "" {
		t.Error("nothing should be available before Start")
	}
	if comp.Health(ctx).Status != component.StatusUnhealthy {
		t.Error("expected unhealthy before Start")
	}
	if err := comp.Start(ctx); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	if err := comp.Start(ctx); err == nil {
		t.Error("second Start should fail")
	}
	if comp.Health(ctx).Status != component.StatusHealthy {
		t.Error("expected healthy after Start")
	}
	if err := comp.Stop(ctx); err != nil {
		t.Fatalf("Stop() failed: %v", err)
	}
	if err := comp.Reset(); err == nil {
		t.Error("Reset after Stop should fail")
	}
}

func TestComponent_ResetAndFastForward(t *testing.T) {
	comp := NewComponent()
	ctx := context.Background()
	if err := comp.Start(ctx); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	defer comp.Stop(ctx)

	rdb := comp.Client()
	if err := rdb.Set(ctx, "ttl", "v", time.Minute).Err(); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := rdb.Set(ctx, "keep", "v", 0).Err(); err != nil {
		t.Fatalf("Set: %v", err)
	}

	comp.FastForward(2 * time.Minute)
	if n, _ := rdb.Exists(ctx, "ttl").Result(); n != 0 {
		t.Error("expected ttl key to expire")
	}

	if err := comp.Reset(); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if n, _ := rdb.Exists(ctx, "keep").Result(); n != 0 {
		t.Error("expected Reset to flush all keys")
	}
}
