package provider_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/kbukum/restkit/logger"
	"github.com/kbukum/restkit/observability"
	"github.com/kbukum/restkit/provider"
)

func echo(name string) provider.RequestResponse[string, string] {
	return provider.NewFunc(name, func(_ context.Context, in string) (string, error) {
		return "echo:" + in, nil
	}, nil)
}

func failing(name string) provider.RequestResponse[string, string] {
	return provider.NewFunc(name, func(_ context.Context, _ string) (string, error) {
		return "", errors.New("intentional failure")
	}, func(context.Context) bool { return false })
}

func TestFunc(t *testing.T) {
	p := echo("test")
	if p.Name() != "test" || !p.IsAvailable(context.Background()) {
		t.Fatalf("unexpected provider state")
	}
	out, err := p.Execute(context.Background(), "hi")
	if err != nil || out != "echo:hi" {
		t.Fatalf("expected echo:hi, got %q, %v", out, err)
	}
	if failing("f").IsAvailable(context.Background()) {
		t.Error("availability callback should be honoured")
	}
}

func TestChain_Empty(t *testing.T) {
	wrapped := provider.Chain[string, string]()(echo("test"))
	if wrapped.Name() != "test" {
		t.Fatalf("expected 'test', got %q", wrapped.Name())
	}
	result, err := wrapped.Execute(context.Background(), "hello")
	if err != nil || result != "echo:hello" {
		t.Fatalf("expected echo:hello, got %q, err %v", result, err)
	}
}

func TestChain_Order(t *testing.T) {
	var order []string

	mw := func(tag string) provider.Middleware[string, string] {
		return func(inner provider.RequestResponse[string, string]) provider.RequestResponse[string, string] {
			return provider.Decorate(inner, func(ctx context.Context, in string) (string, error) {
				order = append(order, tag+":before")
				out, err := inner.Execute(ctx, in)
				order = append(order, tag+":after")
				return out, err
			})
		}
	}

	if _, err := provider.Chain(mw("A"), mw("B"), mw("C"))(echo("test")).Execute(context.Background(), "x"); err != nil {
		t.Fatal(err)
	}

	want := "A:before B:before C:before C:after B:after A:after"
	if got := strings.Join(order, " "); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestDecorate_InheritsIdentity(t *testing.T) {
	inner := failing("upstream")
	d := provider.Decorate(inner, func(context.Context, string) (string, error) { return "patched", nil })
	if d.Name() != "upstream" || d.IsAvailable(context.Background()) {
		t.Error("Name and IsAvailable must come from the wrapped provider")
	}
	if out, err := d.Execute(context.Background(), "x"); err != nil || out != "patched" {
		t.Errorf("expected replaced Execute, got %q, %v", out, err)
	}
}

func TestWithLogging(t *testing.T) {
	buf := &bytes.Buffer{}
	log := logger.NewWithWriter(&logger.Config{Level: "debug", Format: "json"}, "test", buf)

	ok := provider.WithLogging[string, string](log)(echo("transport"))
	if out, err := ok.Execute(context.Background(), "a"); err != nil || out != "echo:a" {
		t.Fatalf("unexpected result %q, %v", out, err)
	}
	bad := provider.WithLogging[string, string](log)(failing("transport"))
	if _, err := bad.Execute(context.Background(), "b"); err == nil {
		t.Fatal("expected error")
	}
	if bad.IsAvailable(context.Background()) {
		t.Error("expected IsAvailable to delegate to inner provider")
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 log lines, got %d: %q", len(lines), buf.String())
	}
	var first, second map[string]any
	_ = json.Unmarshal([]byte(lines[0]), &first)
	_ = json.Unmarshal([]byte(lines[1]), &second)
	if first["level"] != "debug" || first[logger.FieldProvider] != "transport" {
		t.Errorf("unexpected success line %v", first)
	}
	if second["level"] != "error" || second[logger.FieldError] != "intentional failure" {
		t.Errorf("unexpected failure line %v", second)
	}
}

func TestWithMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer mp.Shutdown(context.Background())

	metrics, err := observability.NewMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatalf("failed to create metrics: %v", err)
	}

	_, _ = provider.WithMetrics[string, string](metrics)(echo("transport")).Execute(context.Background(), "a")
	_, _ = provider.WithMetrics[string, string](metrics)(failing("transport")).Execute(context.Background(), "b")

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("collect: %v", err)
	}
	var ops, errs int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}
			for _, dp := range sum.DataPoints {
				switch m.Name {
				case "operation.total":
					ops += dp.Value
				case "error.total":
					errs += dp.Value
				}
			}
		}
	}
	if ops != 2 || errs != 1 {
		t.Errorf("expected 2 operations and 1 error, got %d and %d", ops, errs)
	}
}

func TestWithTracing(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	defer func() {
		otel.SetTracerProvider(prev)
		_ = tp.Shutdown(context.Background())
	}()

	wrapped := provider.WithTracing[string, string]("reddit")(failing("transport"))
	if _, err := wrapped.Execute(context.Background(), "x"); err == nil {
		t.Fatal("expected error")
	}
	if wrapped.Name() != "transport" {
		t.Errorf("expected name to delegate, got %q", wrapped.Name())
	}

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if spans[0].Name != "reddit.transport" {
		t.Errorf("unexpected span name %q", spans[0].Name)
	}
	if len(spans[0].Events) == 0 {
		t.Error("expected the error to be recorded on the span")
	}
}

func TestChain_AllMiddlewares(t *testing.T) {
	metrics, err := observability.NewMetrics(observability.Meter("test"))
	if err != nil {
		t.Fatalf("failed to create metrics: %v", err)
	}

	wrapped := provider.Chain(
		provider.WithLogging[string, string](logger.NewNop()),
		provider.WithMetrics[string, string](metrics),
		provider.WithTracing[string, string]("test-svc"),
	)(echo("full-stack"))

	result, err := wrapped.Execute(context.Background(), "hello")
	if err != nil || result != "echo:hello" {
		t.Fatalf("expected echo:hello, got %q, %v", result, err)
	}
}
