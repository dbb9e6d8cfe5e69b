package provider

import (
	"context"

	"github.com/kbukum/restkit/observability"
)

// WithTracing opens a span named "<service>.<provider>" around every call.
func WithTracing[I, O any](service string) Middleware[I, O] {
	return func(inner RequestResponse[I, O]) RequestResponse[I, O] {
		return Decorate(inner, func(ctx context.Context, input I) (O, error) {
			ctx, span := observability.StartSpan(ctx, service+"."+inner.Name())
			defer span.End()
			observability.SetSpanAttribute(ctx, observability.AttrServiceName, service)
			observability.SetSpanAttribute(ctx, observability.AttrProvider, inner.Name())

			out, err := inner.Execute(ctx, input)
			if err != nil {
				observability.SetSpanError(ctx, err)
			}
			return out, err
		})
	}
}
