// Package observability provides observability infrastructure
// including structured logging, Prometheus metrics, and OpenTelemetry tracing.
//
// Subpackages:
//   - logging: Structured logging utilities with slog
//   - metrics: Prometheus metrics registry and recorders
//   - tracing: OpenTelemetry spans for dispatch runs
//
// Example usage:
//
//	import (
//	    "newsie/internal/observability/logging"
//	    "newsie/internal/observability/metrics"
//	)
//
//	func main() {
//	    logger, closeLog, err := logging.New(logging.Options{})
//	    if err != nil { ... }
//	    defer closeLog()
//	    logger.Info("application started")
//
//	    metrics.RecordArticlesFetched("Finance News", 10)
//	}
package observability
