// Package metrics provides Prometheus metrics registry and recording utilities.
//
// This package centralizes the dispatch metrics including:
//   - Run outcomes and durations
//   - Article source requests and per-query article counts
//   - Payload deliveries and payload sizes
//
// All metrics are automatically registered with the Prometheus default registry
// and exposed via the worker's /metrics endpoint.
//
// Example usage:
//
//	import "newsie/internal/observability/metrics"
//
//	func deliver(query string) {
//	    start := time.Now()
//	    // ... post payload ...
//	    metrics.RecordDelivery(query, 26, time.Since(start), true)
//	}
package metrics
