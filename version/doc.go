// Package version reports build information and renders the default
// User-Agent header of the REST client.
package version
