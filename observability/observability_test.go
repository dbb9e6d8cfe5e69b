package observability

import (
	"context"
	"fmt"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func installRecorder(t *testing.T) *tracetest.InMemoryExporter {
	t.Helper()
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		_ = tp.Shutdown(context.Background())
	})
	return exporter
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Aggregation {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("collect failed: %v", err)
	}
	out := make(map[string]metricdata.Aggregation)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m.Data
		}
	}
	return out
}

func TestConfigDefaultsAndValidate(t *testing.T) {
	cfg := DefaultConfig("reddit-client")
	if cfg.ServiceName != "reddit-client" || cfg.Endpoint != "localhost:4318" || cfg.SampleRate != 1.0 {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if cfg.ServiceVersion == "" || cfg.MetricInterval != 15*time.Second || cfg.Environment != "development" {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}

	var empty Config
	empty.ApplyDefaults()
	if empty.ServiceName != "restkit" {
		t.Errorf("expected product name fallback, got %q", empty.ServiceName)
	}

	bad := DefaultConfig("svc")
	bad.SampleRate = 1.5
	if err := bad.Validate(); err == nil {
		t.Error("expected sample rate error")
	}
}

func TestNewMetricsNoop(t *testing.T) {
	metrics, err := NewMetrics(noop.NewMeterProvider().Meter("test"))
	if err != nil {
		t.Fatalf("unexpected error creating metrics: %v", err)
	}

	ctx := context.Background()
	metrics.RecordRequestStart(ctx)
	metrics.RecordRequestEnd(ctx, "reddit", "GET", "ok", 100*time.Millisecond)
	metrics.RecordOperation(ctx, "reddit", "execute", "ok", 50*time.Millisecond)
	metrics.RecordError(ctx, "network", "httpclient")
	metrics.RecordRateLimitWait(ctx, "reddit", time.Second)
}

func TestMetricsRecorded(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer mp.Shutdown(context.Background())

	metrics, err := NewMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}

	ctx := context.Background()
	metrics.RecordRequestStart(ctx)
	metrics.RecordRequestEnd(ctx, "reddit", "GET", "ok", 10*time.Millisecond)
	metrics.RecordRateLimitWait(ctx, "reddit", 250*time.Millisecond)
	metrics.RecordRateLimitWait(ctx, "reddit", 0)
	metrics.RecordError(ctx, "content_type", "httpclient")

	data := collect(t, reader)

	total, ok := data["request.total"].(metricdata.Sum[int64])
	if !ok || len(total.DataPoints) != 1 || total.DataPoints[0].Value != 1 {
		t.Errorf("expected one request.total point with value 1, got %+v", data["request.total"])
	}

	active, ok := data["request.active"].(metricdata.Sum[int64])
	if !ok || len(active.DataPoints) != 1 || active.DataPoints[0].Value != 0 {
		t.Errorf("expected request.active back at 0, got %+v", data["request.active"])
	}

	waits, ok := data["ratelimit.wait.total"].(metricdata.Sum[int64])
	if !ok || len(waits.DataPoints) != 1 || waits.DataPoints[0].Value != 1 {
		t.Errorf("zero waits must not be counted, got %+v", data["ratelimit.wait.total"])
	}
	if v, _ := waits.DataPoints[0].Attributes.Value(attribute.Key("client")); v.AsString() != "reddit" {
		t.Errorf("expected client attribute, got %v", v.AsString())
	}

	hist, ok := data["ratelimit.wait.duration"].(metricdata.Histogram[float64])
	if !ok || len(hist.DataPoints) != 1 || hist.DataPoints[0].Count != 1 || hist.DataPoints[0].Sum != 0.25 {
		t.Errorf("unexpected wait histogram %+v", data["ratelimit.wait.duration"])
	}

	if _, ok := data["error.total"].(metricdata.Sum[int64]); !ok {
		t.Error("expected error.total to be recorded")
	}
}

func TestStartSpanRecordsAttributes(t *testing.T) {
	exporter := installRecorder(t)

	ctx, span := StartSpan(context.Background(), SpanRESTExecute)
	SetSpanAttribute(ctx, AttrHTTPMethod, "GET")
	SetSpanAttribute(ctx, AttrHTTPStatus, 200)
	SetSpanAttribute(ctx, AttrWaitMs, int64(12))
	SetSpanAttribute(ctx, "ratio", 0.5)
	SetSpanAttribute(ctx, "ok", true)
	SetSpanAttribute(ctx, "tags", []string{"a", "b"})
	SetSpanAttribute(ctx, "ignored", struct{}{})
	span.End()

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if spans[0].Name != SpanRESTExecute {
		t.Errorf("unexpected span name %q", spans[0].Name)
	}
	attrs := make(map[attribute.Key]attribute.Value)
	for _, kv := range spans[0].Attributes {
		attrs[kv.Key] = kv.Value
	}
	if attrs[AttrHTTPMethod].AsString() != "GET" {
		t.Errorf("expected method attribute, got %v", attrs[AttrHTTPMethod])
	}
	if attrs[AttrHTTPStatus].AsInt64() != 200 {
		t.Errorf("expected status attribute, got %v", attrs[AttrHTTPStatus])
	}
	if _, ok := attrs["ignored"]; ok {
		t.Error("unsupported attribute types are dropped")
	}
	if len(attrs) != 6 {
		t.Errorf("expected 6 attributes, got %d", len(attrs))
	}
}

func TestSetSpanError(t *testing.T) {
	exporter := installRecorder(t)

	ctx, span := StartSpan(context.Background(), "failing")
	SetSpanError(ctx, fmt.Errorf("boom"))
	span.End()

	spans := exporter.GetSpans()
	if len(spans) != 1 || len(spans[0].Events) != 1 {
		t.Fatalf("expected one span with an exception event, got %+v", spans)
	}
	if spans[0].Events[0].Name != "exception" {
		t.Errorf("expected exception event, got %q", spans[0].Events[0].Name)
	}
}

func TestSpanHelpersWithoutRecordingSpan(t *testing.T) {
	ctx := context.Background()
	SetSpanAttribute(ctx, "key", "value")
	SetSpanError(ctx, fmt.Errorf("no span error"))
}

func TestSamplerFor(t *testing.T) {
	tests := []struct {
		rate float64
		want string
	}{
		{1.0, "AlwaysOnSampler"},
		{2.0, "AlwaysOnSampler"},
		{0, "AlwaysOffSampler"},
		{0.5, "TraceIDRatioBased{0.5}"},
	}
	for _, tc := range tests {
		if got := samplerFor(tc.rate).Description(); got != tc.want {
			t.Errorf("samplerFor(%v) = %q, want %q", tc.rate, got, tc.want)
		}
	}
}

func TestNewResource(t *testing.T) {
	res, err := newResource(&Config{ServiceName: "reddit-client", ServiceVersion: "1.2.3", Environment: "test"})
	if err != nil {
		t.Fatalf("newResource: %v", err)
	}
	found := map[string]string{}
	for _, kv := range res.Attributes() {
		found[string(kv.Key)] = kv.Value.Emit()
	}
	if found["service.name"] != "reddit-client" || found["service.version"] != "1.2.3" || found["environment"] != "test" {
		t.Errorf("unexpected resource attributes %v", found)
	}
}

func TestSetup(t *testing.T) {
	prevTP := otel.GetTracerProvider()
	prevMP := otel.GetMeterProvider()
	defer func() {
		otel.SetTracerProvider(prevTP)
		otel.SetMeterProvider(prevMP)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	t.Run("both signals", func(t *testing.T) {
		cfg := DefaultConfig("test")
		cfg.MetricInterval = time.Hour
		p, err := Setup(ctx, &cfg)
		if err != nil {
			t.Fatalf("Setup: %v", err)
		}
		if p.Tracer == nil || p.Meter == nil {
			t.Fatalf("expected both providers, got %+v", p)
		}
		if otel.GetTracerProvider() != p.Tracer {
			t.Error("expected tracer provider to be installed globally")
		}
		_ = p.Shutdown(ctx)
	})

	t.Run("nothing enabled", func(t *testing.T) {
		p, err := Setup(ctx, &Config{ServiceName: "test"})
		if err != nil {
			t.Fatalf("Setup: %v", err)
		}
		if p.Tracer != nil || p.Meter != nil {
			t.Errorf("expected no providers, got %+v", p)
		}
		if err := p.Shutdown(ctx); err != nil {
			t.Errorf("empty shutdown: %v", err)
		}
	})

	t.Run("invalid config", func(t *testing.T) {
		if _, err := Setup(ctx, &Config{Tracing: true, SampleRate: -1}); err == nil {
			t.Error("expected validation error")
		}
	})
}
