package provider

import (
	"context"
	"time"

	"github.com/kbukum/restkit/observability"
)

// WithMetrics records an operation sample per call and an error sample per
// failure.
func WithMetrics[I, O any](metrics *observability.Metrics) Middleware[I, O] {
	return func(inner RequestResponse[I, O]) RequestResponse[I, O] {
		return Decorate(inner, func(ctx context.Context, input I) (O, error) {
			start := time.Now()
			out, err := inner.Execute(ctx, input)
			status := "ok"
			if err != nil {
				status = "error"
				metrics.RecordError(ctx, "execute", inner.Name())
			}
			metrics.RecordOperation(ctx, inner.Name(), "execute", status, time.Since(start))
			return out, err
		})
	}
}
