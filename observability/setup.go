package observability

import (
	"context"
	"errors"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Providers holds the SDK providers Setup installed. Either may be nil.
type Providers struct {
	Tracer *sdktrace.TracerProvider
	Meter  *sdkmetric.MeterProvider
}

// Shutdown flushes and stops every installed provider.
func (p *Providers) Shutdown(ctx context.Context) error {
	var errs []error
	if p.Tracer != nil {
		errs = append(errs, p.Tracer.Shutdown(ctx))
	}
	if p.Meter != nil {
		errs = append(errs, p.Meter.Shutdown(ctx))
	}
	return errors.Join(errs...)
}

// Setup installs the global providers the config enables.
func Setup(ctx context.Context, cfg *Config) (*Providers, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	p := &Providers{}
	if cfg.Tracing {
		tp, err := InitTracer(ctx, cfg)
		if err != nil {
			return nil, err
		}
		p.Tracer = tp
	}
	if cfg.Metrics {
		mp, err := InitMeter(ctx, cfg)
		if err != nil {
			return nil, errors.Join(err, p.Shutdown(ctx))
		}
		p.Meter = mp
	}
	return p, nil
}
