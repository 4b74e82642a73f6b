// Package logger provides structured logging for depengine using zerolog.
//
// It supports JSON and console output, level configuration and
// component-scoped loggers with structured fields. The di engine logs
// through a logger obtained from Get("di") unless one is supplied with
// di.WithLogger.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.Get("di")
//	log.Info("registered", logger.Fields("type", "app.Clock"))
package logger
