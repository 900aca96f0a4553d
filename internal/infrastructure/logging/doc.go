// Package logging provides structured logging for the Birch Hill service.
//
// It wraps log/slog so every component logs the same way:
//
//	logging:
//	  level: "info"      # debug, info, warn, error
//	  format: "json"     # json, text
//	  output: "stdout"   # stdout, stderr
//
// Usage:
//
//	logger := logging.New(cfg.Logging, "1.0.0")
//	logger.Info("starting service", "port", 8080)
//	logger.Error("failed to connect", "error", err)
//
// Never log secrets such as broker passwords or InfluxDB tokens.
package logging
