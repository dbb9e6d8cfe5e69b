package resilience

import (
	"context"
	"errors"
	"sync"
	"time"
)

var (
	// ErrBulkheadFull is returned when no slot is free and MaxWait is 0.
	ErrBulkheadFull = errors.New("bulkhead is full")
	// ErrBulkheadTimeout is returned when MaxWait elapses before a slot frees.
	ErrBulkheadTimeout = errors.New("bulkhead wait timeout")
)

// BulkheadConfig configures a Bulkhead.
type BulkheadConfig struct {
	Name string
	// MaxConcurrent defaults to 1.
	MaxConcurrent int
	// MaxWait bounds the wait for a slot. 0 fails at once; a negative value
	// waits for as long as the context allows.
	MaxWait time.Duration
}

// Bulkhead bounds how many callers hold a slot at once. A single-slot
// bulkhead with a negative MaxWait is a mutex whose Lock honours a context.
type Bulkhead struct {
	cfg   BulkheadConfig
	slots chan struct{}
}

// NewBulkhead creates a bulkhead.
func NewBulkhead(cfg BulkheadConfig) *Bulkhead {
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = 1
	}
	return &Bulkhead{cfg: cfg, slots: make(chan struct{}, cfg.MaxConcurrent)}
}

// Name returns the configured name.
func (b *Bulkhead) Name() string { return b.cfg.Name }

// Acquire takes a slot. The returned release func is idempotent.
func (b *Bulkhead) Acquire(ctx context.Context) (release func(), err error) {
	if err := b.wait(ctx); err != nil {
		return nil, err
	}
	var once sync.Once
	return func() { once.Do(func() { <-b.slots }) }, nil
}

// Execute runs fn while holding a slot.
func (b *Bulkhead) Execute(ctx context.Context, fn func() error) error {
	release, err := b.Acquire(ctx)
	if err != nil {
		return err
	}
	defer release()
	return fn()
}

func (b *Bulkhead) wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case b.slots <- struct{}{}:
		return nil
	default:
	}

	var expired <-chan time.Time
	switch {
	case b.cfg.MaxWait == 0:
		return ErrBulkheadFull
	case b.cfg.MaxWait > 0:
		timer := time.NewTimer(b.cfg.MaxWait)
		defer timer.Stop()
		expired = timer.C
	}

	select {
	case b.slots <- struct{}{}:
		return nil
	case <-expired:
		return ErrBulkheadTimeout
	case <-ctx.Done():
		return ctx.Err()
	}
}

// InUse returns the number of held slots.
func (b *Bulkhead) InUse() int { return len(b.slots) }

// Available returns the number of free slots.
func (b *Bulkhead) Available() int { return cap(b.slots) - len(b.slots) }
