package worker

import (
	"fmt"
	"log/slog"
	"time"

	"newsie/internal/pkg/config"
)

// WorkerConfig controls the optional in-process scheduler.
//
// Configuration sources:
//   - Environment variables (loaded via LoadConfigFromEnv)
//   - Default values (provided by DefaultConfig)
//
// Example usage:
//
//	metrics := NewWorkerMetrics()
//	cfg, _ := LoadConfigFromEnv(logger, metrics)
//	sched, err := NewScheduler(cfg, run, metrics, health, logger)
type WorkerConfig struct {
	// CronSchedule is the cron expression for dispatch runs.
	// Format: "minute hour day month weekday"
	// Default: "0 7 * * *" (every day at 7:00)
	CronSchedule string

	// Timezone is the IANA timezone the schedule is evaluated in.
	// Default: "America/New_York"
	Timezone string

	// RunTimeout bounds a single dispatch run.
	// Range: 1m-4h
	// Default: 15 minutes
	RunTimeout time.Duration

	// HealthPort serves /health, /health/ready, /health/last-run and /metrics.
	// Range: 1024-65535
	// Default: 9091
	HealthPort int
}

// DefaultConfig returns a WorkerConfig with default values.
func DefaultConfig() WorkerConfig {
	return WorkerConfig{
		CronSchedule: "0 7 * * *",
		Timezone:     "America/New_York",
		RunTimeout:   15 * time.Minute,
		HealthPort:   9091,
	}
}

// Validate checks every field and returns all failures together.
func (c *WorkerConfig) Validate() error {
	var errs []error

	if err := config.ValidateCronSchedule(c.CronSchedule); err != nil {
		errs = append(errs, fmt.Errorf("cron schedule: %w", err))
	}
	if err := config.ValidateTimezone(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("timezone: %w", err))
	}
	if err := config.ValidateDuration(c.RunTimeout, time.Minute, 4*time.Hour); err != nil {
		errs = append(errs, fmt.Errorf("run timeout: %w", err))
	}
	if err := config.ValidateIntRange(c.HealthPort, 1024, 65535); err != nil {
		errs = append(errs, fmt.Errorf("health port: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed: %v", errs)
	}
	return nil
}

// LoadConfigFromEnv loads the worker configuration with fail-open semantics:
// every invalid value is replaced by its default, logged and counted.
// The returned error is always nil.
//
// Environment variables:
//   - CRON_SCHEDULE: Cron expression (default: "0 7 * * *")
//   - WORKER_TIMEZONE: IANA timezone name (default: "America/New_York")
//   - RUN_TIMEOUT: Duration between 1m and 4h (default: 15m)
//   - WORKER_HEALTH_PORT: Integer 1024-65535 (default: 9091)
func LoadConfigFromEnv(logger *slog.Logger, metrics *WorkerMetrics) (*WorkerConfig, error) {
	cfg := DefaultConfig()
	fallbackApplied := false

	warn := func(field string, warnings []string) {
		fallbackApplied = true
		for _, warning := range warnings {
			logger.Warn("Configuration fallback applied",
				slog.String("field", field),
				slog.String("warning", warning))
		}
	}

	cron := config.LoadEnvWithFallback("CRON_SCHEDULE", cfg.CronSchedule, config.ValidateCronSchedule)
	cfg.CronSchedule = cron.Value
	config.Observe(metrics.ConfigMetrics, "cron_schedule", cron)
	if cron.FallbackApplied {
		warn("CronSchedule", cron.Warnings)
	}

	tz := config.LoadEnvWithFallback("WORKER_TIMEZONE", cfg.Timezone, config.ValidateTimezone)
	cfg.Timezone = tz.Value
	config.Observe(metrics.ConfigMetrics, "timezone", tz)
	if tz.FallbackApplied {
		warn("Timezone", tz.Warnings)
	}

	timeout := config.LoadEnvDuration("RUN_TIMEOUT", cfg.RunTimeout, func(d time.Duration) error {
		return config.ValidateDuration(d, time.Minute, 4*time.Hour)
	})
	cfg.RunTimeout = timeout.Value
	config.Observe(metrics.ConfigMetrics, "run_timeout", timeout)
	if timeout.FallbackApplied {
		warn("RunTimeout", timeout.Warnings)
	}

	port := config.LoadEnvInt("WORKER_HEALTH_PORT", cfg.HealthPort, func(v int) error {
		return config.ValidateIntRange(v, 1024, 65535)
	})
	cfg.HealthPort = port.Value
	config.Observe(metrics.ConfigMetrics, "health_port", port)
	if port.FallbackApplied {
		warn("HealthPort", port.Warnings)
	}

	metrics.SetFallbackActive(fallbackApplied)
	metrics.RecordLoadTimestamp()

	return &cfg, nil
}
