// Package worker runs dispatch on a cron schedule for hosts without an
// external scheduler, and serves health and metrics endpoints while it does.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// RunFunc performs one dispatch run. It returns the run status
// ("success", "partial" or "failure") and the number of payloads delivered.
type RunFunc func(ctx context.Context) (status string, delivered int)

// Scheduler triggers RunFunc on the configured cron schedule. A tick that
// fires while the previous run is still in progress is skipped.
type Scheduler struct {
	cron    *cron.Cron
	cfg     *WorkerConfig
	run     RunFunc
	metrics *WorkerMetrics
	health  *HealthServer
	logger  *slog.Logger

	// runCtx is the parent of every scheduled run; Start replaces it with
	// its own ctx so that cancellation reaches a run in progress.
	runCtx context.Context
}

// NewScheduler validates the schedule and timezone and registers the job.
// health may be nil.
func NewScheduler(cfg *WorkerConfig, run RunFunc, metrics *WorkerMetrics, health *HealthServer, logger *slog.Logger) (*Scheduler, error) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", cfg.Timezone, err)
	}

	cronLogger := cron.PrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelInfo))
	s := &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
		),
		cfg:     cfg,
		run:     run,
		metrics: metrics,
		health:  health,
		logger:  logger,
		runCtx:  context.Background(),
	}

	if _, err := s.cron.AddFunc(cfg.CronSchedule, func() {
		s.RunOnce(s.runCtx)
	}); err != nil {
		return nil, fmt.Errorf("add cron job: %w", err)
	}
	return s, nil
}

// Start runs the scheduler until ctx is cancelled. Scheduled runs derive
// their context from ctx, so cancellation also cancels a run in progress;
// Start returns once that run has finished.
func (s *Scheduler) Start(ctx context.Context) {
	s.runCtx = ctx
	s.cron.Start()
	if s.health != nil {
		s.health.SetReady(true)
	}
	s.logger.Info("worker started",
		slog.String("schedule", s.cfg.CronSchedule),
		slog.String("timezone", s.cfg.Timezone))

	<-ctx.Done()

	if s.health != nil {
		s.health.SetReady(false)
	}
	s.logger.Info("worker stopping")
	<-s.cron.Stop().Done()
	s.logger.Info("worker stopped")
}

// Next returns the next scheduled run time, or the zero time before Start.
func (s *Scheduler) Next() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

// RunOnce executes one run bounded by RunTimeout and records its outcome.
func (s *Scheduler) RunOnce(ctx context.Context) {
	start := time.Now()
	s.logger.Info("scheduled run started")

	ctx, cancel := context.WithTimeout(ctx, s.cfg.RunTimeout)
	defer cancel()

	status, delivered := s.run(ctx)
	duration := time.Since(start)

	s.metrics.RecordJobRun(status)
	s.metrics.RecordJobDuration(duration.Seconds())
	s.metrics.RecordPayloadsDelivered(delivered)
	if status == "success" {
		s.metrics.RecordLastSuccess()
	}
	if s.health != nil {
		s.health.RecordRun(LastRun{
			Status:     status,
			Delivered:  delivered,
			FinishedAt: time.Now(),
			Duration:   duration,
		})
	}

	s.logger.Info("scheduled run finished",
		slog.String("status", status),
		slog.Int("delivered", delivered),
		slog.Duration("duration", duration))
}
