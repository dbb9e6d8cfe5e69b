// Package provider defines the RequestResponse abstraction the REST client
// implements and the middleware that wraps its transport.
//
// Middleware[I, O] is a function that wraps a RequestResponse provider.
// Use Chain to compose multiple middlewares:
//
//	wrapped := provider.Chain(
//	    provider.WithLogging[*Request, *Response](log),
//	    provider.WithMetrics[*Request, *Response](metrics),
//	    provider.WithTracing[*Request, *Response]("reddit-client"),
//	)(provider.NewFunc("transport", transport.Execute, nil))
package provider
