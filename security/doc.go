// Package security holds the TLS settings used by the REST transport.
//
//	tr, err := httpclient.NewHTTPTransport(httpclient.TransportConfig{
//	    TLS: &security.TLSConfig{CAFile: "/etc/restkit/ca.pem", MinVersion: "1.3"},
//	})
package security
