// Package component defines lifecycle interfaces for the client's
// infrastructure pieces and a registry that starts them in order and stops
// them in reverse.
package component
