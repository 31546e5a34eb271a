package worker

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"newsie/internal/pkg/config"
)

// WorkerMetrics provides Prometheus metrics for scheduled runs. It embeds
// ConfigMetrics for the worker's configuration load.
//
// Worker-specific metrics:
//   - worker_cron_job_runs_total: Scheduled runs by status (success/partial/failure)
//   - worker_cron_job_duration_seconds: Duration histogram of scheduled runs
//   - worker_cron_job_payloads_delivered_total: Payloads delivered by scheduled runs
//   - worker_cron_job_last_success_timestamp: Unix timestamp of the last successful run
//
// Metrics are registered with the default registry, so NewWorkerMetrics must
// be called once per process.
type WorkerMetrics struct {
	*config.ConfigMetrics

	// CronJobRunsTotal counts runs by status
	CronJobRunsTotal *prometheus.CounterVec

	// CronJobDurationSeconds measures run duration
	CronJobDurationSeconds prometheus.Histogram

	// CronJobPayloadsDeliveredTotal counts delivered payloads
	CronJobPayloadsDeliveredTotal prometheus.Counter

	// CronJobLastSuccessTimestamp is set when a run completes with status success
	CronJobLastSuccessTimestamp prometheus.Gauge
}

// NewWorkerMetrics creates and registers the worker metrics.
func NewWorkerMetrics() *WorkerMetrics {
	return &WorkerMetrics{
		ConfigMetrics: config.NewConfigMetrics("worker"),

		CronJobRunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "worker_cron_job_runs_total",
			Help: "Total number of scheduled dispatch runs by status",
		}, []string{"status"}),

		CronJobDurationSeconds: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "worker_cron_job_duration_seconds",
			Help:    "Duration of scheduled dispatch runs in seconds",
			Buckets: []float64{1, 5, 15, 30, 60, 300, 900},
		}),

		CronJobPayloadsDeliveredTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "worker_cron_job_payloads_delivered_total",
			Help: "Total number of payloads delivered by scheduled runs",
		}),

		CronJobLastSuccessTimestamp: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "worker_cron_job_last_success_timestamp",
			Help: "Unix timestamp of the last successful scheduled run",
		}),
	}
}

// RecordJobRun increments the run counter for status.
func (m *WorkerMetrics) RecordJobRun(status string) {
	m.CronJobRunsTotal.WithLabelValues(status).Inc()
}

// RecordJobDuration observes a run duration in seconds.
func (m *WorkerMetrics) RecordJobDuration(seconds float64) {
	m.CronJobDurationSeconds.Observe(seconds)
}

// RecordPayloadsDelivered adds count to the delivered payload counter.
func (m *WorkerMetrics) RecordPayloadsDelivered(count int) {
	m.CronJobPayloadsDeliveredTotal.Add(float64(count))
}

// RecordLastSuccess sets the last success timestamp to now.
func (m *WorkerMetrics) RecordLastSuccess() {
	m.CronJobLastSuccessTimestamp.SetToCurrentTime()
}
