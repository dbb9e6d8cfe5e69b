package component

import (
	"context"
	"fmt"
	"sync"
)

// Lazy builds a value on first use. A failed build is retried by the next
// Get; a successful one is kept until Close.
type Lazy[T any] struct {
	name    string
	build   func(context.Context) (T, error)
	check   func(context.Context, T) error
	release func(T) error

	mu    sync.Mutex
	value T
	ready bool
}

// NewLazy creates a Lazy named name.
func NewLazy[T any](name string, build func(context.Context) (T, error)) *Lazy[T] {
	return &Lazy[T]{name: name, build: build}
}

// WithHealthCheck sets the check Check runs against a built value.
func (l *Lazy[T]) WithHealthCheck(fn func(context.Context, T) error) *Lazy[T] {
	l.check = fn
	return l
}

// WithRelease sets the func Close runs on a built value.
func (l *Lazy[T]) WithRelease(fn func(T) error) *Lazy[T] {
	l.release = fn
	return l
}

// Name returns the name.
func (l *Lazy[T]) Name() string { return l.name }

// Get returns the value, building it if needed.
func (l *Lazy[T]) Get(ctx context.Context) (T, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.ready {
		return l.value, nil
	}
	var zero T
	if l.build == nil {
		return zero, fmt.Errorf("%s: nothing to build", l.name)
	}
	v, err := l.build(ctx)
	if err != nil {
		return zero, fmt.Errorf("%s: %w", l.name, err)
	}
	l.value, l.ready = v, true
	return v, nil
}

// Peek returns the value without building it.
func (l *Lazy[T]) Peek() (T, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.value, l.ready
}

// Check fails until the value is built, then runs the health check.
func (l *Lazy[T]) Check(ctx context.Context) error {
	v, ok := l.Peek()
	if !ok {
		return fmt.Errorf("%s not started", l.name)
	}
	if l.check == nil {
		return nil
	}
	return l.check(ctx, v)
}

// Close releases a built value and resets to unbuilt.
func (l *Lazy[T]) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.ready {
		return nil
	}
	var err error
	if l.release != nil {
		err = l.release(l.value)
	}
	var zero T
	l.value, l.ready = zero, false
	return err
}
