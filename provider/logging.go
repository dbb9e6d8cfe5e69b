package provider

import (
	"context"
	"time"

	"github.com/kbukum/restkit/logger"
)

// WithLogging logs every call at debug level, failures at error level.
func WithLogging[I, O any](log *logger.Logger) Middleware[I, O] {
	return func(inner RequestResponse[I, O]) RequestResponse[I, O] {
		return Decorate(inner, func(ctx context.Context, input I) (O, error) {
			start := time.Now()
			out, err := inner.Execute(ctx, input)
			fields := logger.Fields(
				logger.FieldProvider, inner.Name(),
				logger.FieldDuration, time.Since(start).Milliseconds(),
			)
			if err != nil {
				fields[logger.FieldError] = err.Error()
				log.Error("provider call failed", fields)
				return out, err
			}
			log.Debug("provider call ok", fields)
			return out, nil
		})
	}
}
