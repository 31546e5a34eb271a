package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"newsie/internal/infra/worker"
	"newsie/internal/observability/logging"
)

func newWorkerCmd(a *app) *cobra.Command {
	var (
		dryRun bool
		runNow bool
	)

	cmd := &cobra.Command{
		Use:   "worker",
		Short: "Run on a cron schedule",
		Long: `Run dispatch on CRON_SCHEDULE (evaluated in WORKER_TIMEZONE) until interrupted.

Use this on hosts without an external scheduler. The worker serves /health,
/health/ready, /health/last-run and /metrics on WORKER_HEALTH_PORT.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			queries, err := a.loadQueries()
			if err != nil {
				return err
			}
			svc, err := a.newService(cmd.OutOrStdout(), dryRun)
			if err != nil {
				return err
			}

			metrics := workerMetrics()
			wcfg, err := worker.LoadConfigFromEnv(a.logger, metrics)
			if err != nil {
				a.logger.Error("failed to load worker configuration", slog.Any("error", err))
				return fmt.Errorf("load worker configuration: %w", err)
			}
			a.logger.Info("worker configuration loaded",
				slog.String("cron_schedule", wcfg.CronSchedule),
				slog.String("timezone", wcfg.Timezone),
				slog.Duration("run_timeout", wcfg.RunTimeout),
				slog.Int("health_port", wcfg.HealthPort))

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			health := worker.NewHealthServer(fmt.Sprintf(":%d", wcfg.HealthPort), a.logger)
			go func() {
				if err := health.Start(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
					a.logger.Error("health server failed", slog.Any("error", err))
				}
			}()

			run := func(ctx context.Context) (string, int) {
				report := svc.Run(logging.WithLogger(ctx, a.logger), queries)
				delivered, _, _ := report.Totals()
				return report.Status(), delivered
			}

			sched, err := worker.NewScheduler(wcfg, run, metrics, health, a.logger)
			if err != nil {
				return err
			}
			if runNow {
				sched.RunOnce(ctx)
			}
			sched.Start(ctx)
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print messages as Block Kit JSON instead of posting them")
	cmd.Flags().BoolVar(&runNow, "run-now", false, "run once immediately before waiting for the schedule")
	return cmd
}
