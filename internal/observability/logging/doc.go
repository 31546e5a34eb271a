// Package logging provides structured logging utilities with context propagation.
//
// This package wraps the standard library's log/slog package with helper functions
// for common logging patterns used throughout the application.
//
// Key features:
//   - JSON and text output formats
//   - Optional log file via LOGFILE
//   - Run ID and logger propagation through context
//   - Configurable log levels
//
// Example usage:
//
//	import "newsie/internal/observability/logging"
//
//	func main() {
//	    logger, closeLog, err := logging.New(logging.Options{})
//	    if err != nil { ... }
//	    defer closeLog()
//	    slog.SetDefault(logger)
//	}
//
//	func runQuery(ctx context.Context) {
//	    logger := logging.WithRunIDField(ctx, logging.FromContext(ctx))
//	    logger.Info("processing query")
//	}
package logging
