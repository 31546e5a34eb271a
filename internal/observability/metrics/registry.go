// Package metrics provides centralized Prometheus metrics for the application.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Run metrics track dispatch runs as a whole
var (
	// RunsTotal counts dispatch runs by outcome ("success", "partial", "failure")
	RunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "newsie_runs_total",
			Help: "Total number of dispatch runs",
		},
		[]string{"status"},
	)

	// RunDuration measures the wall time of a dispatch run
	RunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "newsie_run_duration_seconds",
			Help:    "Duration of a dispatch run in seconds",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
		},
	)

	// QueriesTotal counts processed queries by final state ("done", "errored")
	QueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "newsie_queries_total",
			Help: "Total number of queries processed",
		},
		[]string{"query", "state"},
	)
)

// Source metrics track calls to the article source
var (
	// ArticlesFetchedTotal counts articles returned by the source per query
	ArticlesFetchedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "newsie_articles_fetched_total",
			Help: "Total number of articles fetched from the article source",
		},
		[]string{"query"},
	)

	// ArticlesSkippedTotal counts articles left out of payloads
	ArticlesSkippedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "newsie_articles_skipped_total",
			Help: "Total number of articles skipped during layout",
		},
		[]string{"query", "reason"},
	)

	// SourceFetchDuration measures article source request latency
	SourceFetchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "newsie_source_fetch_duration_seconds",
			Help:    "Article source request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
		},
	)

	// SourceFetchErrors counts failed article source requests
	SourceFetchErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "newsie_source_fetch_errors_total",
			Help: "Total number of failed article source requests",
		},
		[]string{"query"},
	)
)

// Delivery metrics track payloads posted to the chat platform
var (
	// PayloadsTotal counts payload deliveries by status ("delivered", "failed")
	PayloadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "newsie_payloads_total",
			Help: "Total number of payload deliveries",
		},
		[]string{"query", "status"},
	)

	// DeliveryDuration measures chat platform request latency
	DeliveryDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "newsie_delivery_duration_seconds",
			Help:    "Chat delivery duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// PayloadUnits observes the number of units per payload
	PayloadUnits = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "newsie_payload_units",
			Help:    "Number of display units per payload",
			Buckets: prometheus.LinearBuckets(5, 5, 10),
		},
	)
)

// Resilience metrics track circuit breakers around external calls
var (
	// CircuitBreakerState is 0 when closed, 1 when half-open and 2 when open
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "newsie_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"circuit"},
	)
)
