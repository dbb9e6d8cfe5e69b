// Package httpclient executes REST requests under a per-minute budget.
//
// A Client sits on top of a Transport. For every Execute it authenticates
// stateful transports, merges the transport's default headers, waits for rate
// limit admission, sends the request, checks the response media type against
// the one the request expects and records the response in history.
//
// # Basic Usage
//
//	transport, _ := httpclient.NewHTTPTransport(httpclient.TransportConfig{})
//	client, err := httpclient.NewClient(transport, httpclient.Config{
//	    DefaultHost:       "www.reddit.com",
//	    HTTPSDefault:      true,
//	    RequestsPerMinute: 60,
//	})
//
//	req, err := client.Request().Path("/r/%s/about.json", "golang").Build()
//	resp, err := client.Execute(ctx, req)
//
// # Stateful transports
//
// A Transport that also implements Authenticator keeps credentials as
// session state. The client then runs one exchange at a time on it and calls
// Deauthenticate once per Execute on every exit path.
package httpclient
