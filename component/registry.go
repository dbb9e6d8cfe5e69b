package component

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/kbukum/restkit/logger"
)

const defaultStopTimeout = 10 * time.Second

// Registry starts components in registration order and stops the started
// ones in reverse.
type Registry struct {
	mu      sync.RWMutex
	ordered []Component
	byName  map[string]Component
	started map[string]bool
	log     *logger.Logger
}

// NewRegistry creates a registry. A nil log uses the global logger.
func NewRegistry(log *logger.Logger) *Registry {
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	return &Registry{
		byName:  make(map[string]Component),
		started: make(map[string]bool),
		log:     log.WithComponent("registry"),
	}
}

// Register adds c. Register dependencies first.
func (r *Registry) Register(c Component) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	name := c.Name()
	if _, dup := r.byName[name]; dup {
		return fmt.Errorf("component %s already registered", name)
	}
	r.ordered = append(r.ordered, c)
	r.byName[name] = c
	return nil
}

// StartAll starts every component not yet started and stops at the first
// failure. Components started before the failure stay started.
func (r *Registry) StartAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.ordered {
		name := c.Name()
		if r.started[name] {
			continue
		}
		if err := c.Start(ctx); err != nil {
			r.log.Error("component start failed", logger.Fields(logger.FieldComponent, name, logger.FieldError, err.Error()))
			return fmt.Errorf("failed to start %s: %w", name, err)
		}
		r.started[name] = true
		r.log.Info("component started", describe(c))
	}
	return nil
}

// StopAll stops started components in reverse order, each under its own
// timeout, and joins their errors.
func (r *Registry) StopAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	var errs []error
	for i := len(r.ordered) - 1; i >= 0; i-- {
		c := r.ordered[i]
		name := c.Name()
		if !r.started[name] {
			continue
		}
		stopCtx, cancel := context.WithTimeout(ctx, defaultStopTimeout)
		if err := c.Stop(stopCtx); err != nil {
			errs = append(errs, fmt.Errorf("failed to stop %s: %w", name, err))
		}
		cancel()
		delete(r.started, name)
	}
	return errors.Join(errs...)
}

// HealthAll returns the health of every component in registration order.
func (r *Registry) HealthAll(ctx context.Context) []Health {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Health, 0, len(r.ordered))
	for _, c := range r.ordered {
		out = append(out, c.Health(ctx))
	}
	return out
}

// Describe returns descriptions of the Describable components.
func (r *Registry) Describe() []Description {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Description
	for _, c := range r.ordered {
		if d, ok := c.(Describable); ok {
			desc := d.Describe()
			if desc.Name == "" {
				desc.Name = c.Name()
			}
			out = append(out, desc)
		}
	}
	return out
}

// Get returns the component registered under name, or nil.
func (r *Registry) Get(name string) Component {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byName[name]
}

// All returns the components in registration order.
func (r *Registry) All() []Component {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Component(nil), r.ordered...)
}

func describe(c Component) map[string]interface{} {
	fields := logger.Fields(logger.FieldComponent, c.Name())
	if d, ok := c.(Describable); ok {
		desc := d.Describe()
		fields["type"] = desc.Type
		fields["details"] = desc.Details
	}
	return fields
}
