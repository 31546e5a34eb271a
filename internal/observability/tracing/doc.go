// Package tracing provides OpenTelemetry tracing integration.
//
// Spans are created through the global tracer provider, so they are no-ops
// until a provider is installed with otel.SetTracerProvider.
//
// Example usage:
//
//	import "newsie/internal/observability/tracing"
//
//	func runQuery(ctx context.Context, name string) error {
//	    ctx, span := tracing.StartSpan(ctx, "dispatch.query",
//	        attribute.String("query.name", name))
//	    defer span.End()
//	    err := process(ctx)
//	    tracing.RecordError(span, err)
//	    return err
//	}
package tracing
