// Package logger provides structured logging for restkit using zerolog.
//
// It supports JSON and console output, level configuration and
// component-scoped loggers carrying structured fields.
//
// # Usage
//
//	log := logger.NewDefault("my-service").WithComponent("httpclient")
//	log.Info("request sent", logger.Fields("method", "GET", "url", u))
package logger
