package provider

import "context"

// Middleware wraps a RequestResponse to add behaviour around Execute.
type Middleware[I, O any] func(RequestResponse[I, O]) RequestResponse[I, O]

// Chain composes middlewares so the first one is outermost:
// Chain(a, b, c)(p) == a(b(c(p))).
func Chain[I, O any](middlewares ...Middleware[I, O]) Middleware[I, O] {
	return func(inner RequestResponse[I, O]) RequestResponse[I, O] {
		for i := len(middlewares) - 1; i >= 0; i-- {
			inner = middlewares[i](inner)
		}
		return inner
	}
}

// decorated replaces Execute and inherits Name and IsAvailable from the
// wrapped provider.
type decorated[I, O any] struct {
	RequestResponse[I, O]
	exec func(ctx context.Context, input I) (O, error)
}

func (d *decorated[I, O]) Execute(ctx context.Context, input I) (O, error) {
	return d.exec(ctx, input)
}

// Decorate returns inner with Execute replaced by exec.
func Decorate[I, O any](inner RequestResponse[I, O], exec func(ctx context.Context, input I) (O, error)) RequestResponse[I, O] {
	return &decorated[I, O]{RequestResponse: inner, exec: exec}
}
