package metrics

import (
	"time"
)

// RecordRun records the outcome and duration of a dispatch run.
// Status should be "success", "partial" or "failure".
func RecordRun(status string, duration time.Duration) {
	RunsTotal.WithLabelValues(status).Inc()
	RunDuration.Observe(duration.Seconds())
}

// RecordQueryState records the final state of one query.
func RecordQueryState(query, state string) {
	QueriesTotal.WithLabelValues(query, state).Inc()
}

// RecordArticlesFetched records the number of articles returned for a query.
func RecordArticlesFetched(query string, count int) {
	ArticlesFetchedTotal.WithLabelValues(query).Add(float64(count))
}

// RecordArticlesSkipped records articles left out of the layout.
func RecordArticlesSkipped(query, reason string, count int) {
	if count <= 0 {
		return
	}
	ArticlesSkippedTotal.WithLabelValues(query, reason).Add(float64(count))
}

// RecordSourceFetch records an article source request.
func RecordSourceFetch(query string, duration time.Duration, success bool) {
	SourceFetchDuration.Observe(duration.Seconds())
	if !success {
		SourceFetchErrors.WithLabelValues(query).Inc()
	}
}

// RecordDelivery records a payload delivery attempt.
func RecordDelivery(query string, units int, duration time.Duration, success bool) {
	status := "delivered"
	if !success {
		status = "failed"
	}
	PayloadsTotal.WithLabelValues(query, status).Inc()
	DeliveryDuration.Observe(duration.Seconds())
	PayloadUnits.Observe(float64(units))
}

// SetCircuitBreakerState records the current state of a circuit breaker.
func SetCircuitBreakerState(circuit string, state int) {
	CircuitBreakerState.WithLabelValues(circuit).Set(float64(state))
}
