// Package observability wires OpenTelemetry tracing and metrics for the
// REST client.
//
//	cfg := observability.DefaultConfig("reddit-client")
//	providers, err := observability.Setup(ctx, &cfg)
//	defer providers.Shutdown(ctx)
//
//	metrics, _ := observability.NewMetrics(observability.Meter(cfg.ServiceName))
//	client, _ := httpclient.NewClient(transport, clientCfg,
//	    httpclient.WithMetrics(metrics), httpclient.WithTracing())
package observability
