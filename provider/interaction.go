package provider

import "context"

// Provider is anything middleware can address by name and check before
// routing a call to it.
type Provider interface {
	Name() string
	IsAvailable(ctx context.Context) bool
}

// RequestResponse represents a provider that takes one input and returns one output.
type RequestResponse[I, O any] interface {
	Provider
	Execute(ctx context.Context, input I) (O, error)
}

// Func adapts a plain function to RequestResponse so it can be wrapped by
// middleware.
type Func[I, O any] struct {
	name      string
	fn        func(ctx context.Context, input I) (O, error)
	available func(ctx context.Context) bool
}

// NewFunc wraps fn under name. available may be nil, in which case the
// provider always reports itself available.
func NewFunc[I, O any](name string, fn func(ctx context.Context, input I) (O, error), available func(ctx context.Context) bool) *Func[I, O] {
	return &Func[I, O]{name: name, fn: fn, available: available}
}

func (f *Func[I, O]) Name() string { return f.name }

func (f *Func[I, O]) IsAvailable(ctx context.Context) bool {
	if f.available == nil {
		return true
	}
	return f.available(ctx)
}

func (f *Func[I, O]) Execute(ctx context.Context, input I) (O, error) {
	return f.fn(ctx, input)
}
