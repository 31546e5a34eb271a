package worker

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewScheduler_InvalidInputs(t *testing.T) {
	logger, _ := newTestLogger()
	run := func(ctx context.Context) (string, int) { return "success", 0 }

	cfg := DefaultConfig()
	cfg.Timezone = "Nowhere/Land"
	if _, err := NewScheduler(&cfg, run, globalTestMetrics, nil, logger); err == nil {
		t.Error("expected error for invalid timezone")
	}

	cfg = DefaultConfig()
	cfg.CronSchedule = "not a schedule"
	if _, err := NewScheduler(&cfg, run, globalTestMetrics, nil, logger); err == nil {
		t.Error("expected error for invalid schedule")
	}
}

func TestScheduler_RunOnce(t *testing.T) {
	logger, _ := newTestLogger()
	health := NewHealthServer(":0", logger)
	cfg := DefaultConfig()

	var gotDeadline bool
	run := func(ctx context.Context) (string, int) {
		_, gotDeadline = ctx.Deadline()
		return "partial", 4
	}

	sched, err := NewScheduler(&cfg, run, globalTestMetrics, health, logger)
	if err != nil {
		t.Fatalf("NewScheduler: %v", err)
	}

	runsBefore := testutil.ToFloat64(globalTestMetrics.CronJobRunsTotal.WithLabelValues("partial"))
	deliveredBefore := testutil.ToFloat64(globalTestMetrics.CronJobPayloadsDeliveredTotal)

	sched.RunOnce(context.Background())

	if !gotDeadline {
		t.Error("expected run context to carry the run timeout deadline")
	}
	if got := testutil.ToFloat64(globalTestMetrics.CronJobRunsTotal.WithLabelValues("partial")); got != runsBefore+1 {
		t.Errorf("runs{partial} = %v, want %v", got, runsBefore+1)
	}
	if got := testutil.ToFloat64(globalTestMetrics.CronJobPayloadsDeliveredTotal); got != deliveredBefore+4 {
		t.Errorf("payloads delivered = %v, want %v", got, deliveredBefore+4)
	}
	if rec := serve(t, health, "/health/last-run"); rec.Code != http.StatusOK {
		t.Errorf("expected last run to be recorded, got %d", rec.Code)
	}
}

func TestScheduler_StartStop(t *testing.T) {
	logger, _ := newTestLogger()
	health := NewHealthServer(":0", logger)
	cfg := DefaultConfig()

	sched, err := NewScheduler(&cfg, func(ctx context.Context) (string, int) { return "success", 0 }, globalTestMetrics, health, logger)
	if err != nil {
		t.Fatalf("NewScheduler: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sched.Start(ctx)
		close(done)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for serve(t, health, "/health/ready").Code != http.StatusOK {
		if time.Now().After(deadline) {
			t.Fatal("scheduler never became ready")
		}
		time.Sleep(10 * time.Millisecond)
	}
	if next := sched.Next(); !next.After(time.Now()) {
		t.Errorf("expected next run in the future, got %v", next)
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop")
	}
	if rec := serve(t, health, "/health/ready"); rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected not ready after stop, got %d", rec.Code)
	}
}

func TestScheduler_StopCancelsRunInProgress(t *testing.T) {
	logger, _ := newTestLogger()
	cfg := DefaultConfig()
	cfg.CronSchedule = "@every 1s"

	// A tick may still fire between cancel and cron.Stop, so the run is
	// written to tolerate being called again.
	var once sync.Once
	started := make(chan struct{})
	runErr := make(chan error, 1)
	run := func(ctx context.Context) (string, int) {
		once.Do(func() { close(started) })
		<-ctx.Done()
		select {
		case runErr <- ctx.Err():
		default:
		}
		return "failure", 0
	}

	sched, err := NewScheduler(&cfg, run, globalTestMetrics, nil, logger)
	if err != nil {
		t.Fatalf("NewScheduler: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		sched.Start(ctx)
		close(done)
	}()

	select {
	case <-started:
	case <-time.After(3 * time.Second):
		t.Fatal("scheduled run never started")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Start did not return after cancellation; the run was not cancelled")
	}

	select {
	case err := <-runErr:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("run context error = %v, want context.Canceled", err)
		}
	default:
		t.Error("run did not observe cancellation")
	}
}
