package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/restkit/logger"
)

// InitMeter installs a global meter provider that pushes over OTLP/HTTP every
// cfg.MetricInterval. Shut the provider down on exit.
func InitMeter(ctx context.Context, cfg *Config) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}
	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("observability: metric exporter: %w", err)
	}
	res, err := newResource(cfg)
	if err != nil {
		return nil, err
	}

	var readerOpts []sdkmetric.PeriodicReaderOption
	if cfg.MetricInterval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(cfg.MetricInterval))
	}
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)

	logger.WithComponent("observability").Info("meter initialized", logger.Fields(
		"endpoint", cfg.Endpoint,
		"interval", cfg.MetricInterval.String(),
	))
	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Metrics holds the instruments the REST client records.
//
//	request.total            executions by client, method and status
//	request.duration         execution latency in seconds
//	request.active           executions in flight
//	operation.total          transport calls seen by middleware
//	operation.duration       transport call latency in seconds
//	error.total              failures by kind and component
//	ratelimit.wait.total     admissions that had to wait
//	ratelimit.wait.duration  time spent waiting for admission
type Metrics struct {
	requestTotal      metric.Int64Counter
	requestDuration   metric.Float64Histogram
	requestActive     metric.Int64UpDownCounter
	operationTotal    metric.Int64Counter
	operationDuration metric.Float64Histogram
	errorTotal        metric.Int64Counter
	rateLimitWaits    metric.Int64Counter
	rateLimitWait     metric.Float64Histogram
}

// NewMetrics creates the instruments on meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}
	counters := []struct {
		dst  *metric.Int64Counter
		name string
		desc string
	}{
		{&m.requestTotal, "request.total", "REST executions"},
		{&m.operationTotal, "operation.total", "Transport calls"},
		{&m.errorTotal, "error.total", "Failures by kind and component"},
		{&m.rateLimitWaits, "ratelimit.wait.total", "Admissions that waited for the rate limiter"},
	}
	for _, c := range counters {
		inst, err := meter.Int64Counter(c.name, metric.WithDescription(c.desc))
		if err != nil {
			return nil, fmt.Errorf("counter %s: %w", c.name, err)
		}
		*c.dst = inst
	}

	histograms := []struct {
		dst  *metric.Float64Histogram
		name string
		desc string
	}{
		{&m.requestDuration, "request.duration", "REST execution latency"},
		{&m.operationDuration, "operation.duration", "Transport call latency"},
		{&m.rateLimitWait, "ratelimit.wait.duration", "Time spent waiting for admission"},
	}
	for _, h := range histograms {
		inst, err := meter.Float64Histogram(h.name, metric.WithDescription(h.desc), metric.WithUnit("s"))
		if err != nil {
			return nil, fmt.Errorf("histogram %s: %w", h.name, err)
		}
		*h.dst = inst
	}

	active, err := meter.Int64UpDownCounter("request.active", metric.WithDescription("REST executions in flight"))
	if err != nil {
		return nil, fmt.Errorf("gauge request.active: %w", err)
	}
	m.requestActive = active
	return m, nil
}

// RecordRequestStart marks an execution in flight.
func (m *Metrics) RecordRequestStart(ctx context.Context) {
	m.requestActive.Add(ctx, 1)
}

// RecordRequestEnd closes an execution started with RecordRequestStart.
func (m *Metrics) RecordRequestEnd(ctx context.Context, client, method, status string, d time.Duration) {
	m.requestActive.Add(ctx, -1)
	m.requestTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("client", client),
		attribute.String("method", method),
		attribute.String("status", status),
	))
	m.requestDuration.Record(ctx, d.Seconds(), metric.WithAttributes(
		attribute.String("client", client),
		attribute.String("method", method),
	))
}

// RecordOperation records one transport call.
func (m *Metrics) RecordOperation(ctx context.Context, provider, operation, status string, d time.Duration) {
	m.operationTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("provider", provider),
		attribute.String("operation", operation),
		attribute.String("status", status),
	))
	m.operationDuration.Record(ctx, d.Seconds(), metric.WithAttributes(
		attribute.String("provider", provider),
		attribute.String("operation", operation),
	))
}

// RecordError counts a failure of the given kind.
func (m *Metrics) RecordError(ctx context.Context, kind, component string) {
	m.errorTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", kind),
		attribute.String("component", component),
	))
}

// RecordRateLimitWait records a blocked admission. Zero waits are ignored.
func (m *Metrics) RecordRateLimitWait(ctx context.Context, client string, wait time.Duration) {
	if wait <= 0 {
		return
	}
	attrs := metric.WithAttributes(attribute.String("client", client))
	m.rateLimitWaits.Add(ctx, 1, attrs)
	m.rateLimitWait.Record(ctx, wait.Seconds(), attrs)
}
