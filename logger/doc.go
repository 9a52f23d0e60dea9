// Package logger provides structured logging for tabkit services using
// zerolog.
//
// It supports JSON and console output, level configuration, component
// scoped loggers, and request-scoped loggers carrying the request id the
// HTTP layer stores in the context.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.NewDefault("tabkit").WithComponent("recipe")
//	log.Info("recipe applied", logger.Fields(logger.FieldRecipe, "clean", logger.FieldRows, 42))
package logger
