// Package errors provides the structured error type shared by restkit
// packages. Errors carry a machine-readable code, a retryable hint and an
// HTTP status suggestion so that services embedding the client can surface
// failures without string matching.
package errors
