package worker

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

// globalTestMetrics is shared by every test in the package because the
// worker metrics register with the default Prometheus registry.
var globalTestMetrics = NewWorkerMetrics()

func newTestLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewJSONHandler(&buf, nil)), &buf
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.CronSchedule != "0 7 * * *" {
		t.Errorf("Expected CronSchedule '0 7 * * *', got '%s'", config.CronSchedule)
	}
	if config.Timezone != "America/New_York" {
		t.Errorf("Expected Timezone 'America/New_York', got '%s'", config.Timezone)
	}
	if config.RunTimeout != 15*time.Minute {
		t.Errorf("Expected RunTimeout 15m, got %v", config.RunTimeout)
	}
	if config.HealthPort != 9091 {
		t.Errorf("Expected HealthPort 9091, got %d", config.HealthPort)
	}
	if err := config.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestWorkerConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(c *WorkerConfig)
		wantErr   bool
		errSubstr string
	}{
		{name: "default", mutate: func(c *WorkerConfig) {}},
		{name: "custom valid", mutate: func(c *WorkerConfig) {
			c.CronSchedule = "*/30 * * * *"
			c.Timezone = "UTC"
			c.RunTimeout = time.Hour
			c.HealthPort = 8080
		}},
		{name: "invalid cron", mutate: func(c *WorkerConfig) { c.CronSchedule = "every morning" }, wantErr: true, errSubstr: "cron schedule"},
		{name: "empty cron", mutate: func(c *WorkerConfig) { c.CronSchedule = "" }, wantErr: true, errSubstr: "cron schedule"},
		{name: "invalid timezone", mutate: func(c *WorkerConfig) { c.Timezone = "Nowhere/Land" }, wantErr: true, errSubstr: "timezone"},
		{name: "timeout too short", mutate: func(c *WorkerConfig) { c.RunTimeout = 30 * time.Second }, wantErr: true, errSubstr: "run timeout"},
		{name: "timeout too long", mutate: func(c *WorkerConfig) { c.RunTimeout = 5 * time.Hour }, wantErr: true, errSubstr: "run timeout"},
		{name: "privileged port", mutate: func(c *WorkerConfig) { c.HealthPort = 80 }, wantErr: true, errSubstr: "health port"},
		{name: "port too high", mutate: func(c *WorkerConfig) { c.HealthPort = 70000 }, wantErr: true, errSubstr: "health port"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.mutate(&config)

			err := config.Validate()

			if tt.wantErr {
				if err == nil {
					t.Fatal("expected validation error, got nil")
				}
				if !strings.Contains(err.Error(), tt.errSubstr) {
					t.Errorf("expected error to contain %q, got %q", tt.errSubstr, err.Error())
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestWorkerConfig_Validate_MultipleErrors(t *testing.T) {
	config := WorkerConfig{
		CronSchedule: "bad",
		Timezone:     "bad",
		RunTimeout:   0,
		HealthPort:   0,
	}

	err := config.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	for _, part := range []string{"cron schedule", "timezone", "run timeout", "health port"} {
		if !strings.Contains(err.Error(), part) {
			t.Errorf("expected aggregated error to mention %q: %v", part, err)
		}
	}
}

func TestLoadConfigFromEnv_AllEnvVarsValid(t *testing.T) {
	t.Setenv("CRON_SCHEDULE", "30 6 * * 1-5")
	t.Setenv("WORKER_TIMEZONE", "Asia/Tokyo")
	t.Setenv("RUN_TIMEOUT", "20m")
	t.Setenv("WORKER_HEALTH_PORT", "9191")
	logger, buf := newTestLogger()

	config, err := LoadConfigFromEnv(logger, globalTestMetrics)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if config.CronSchedule != "30 6 * * 1-5" {
		t.Errorf("CronSchedule = %q", config.CronSchedule)
	}
	if config.Timezone != "Asia/Tokyo" {
		t.Errorf("Timezone = %q", config.Timezone)
	}
	if config.RunTimeout != 20*time.Minute {
		t.Errorf("RunTimeout = %v", config.RunTimeout)
	}
	if config.HealthPort != 9191 {
		t.Errorf("HealthPort = %d", config.HealthPort)
	}
	if strings.Contains(buf.String(), "Configuration fallback applied") {
		t.Errorf("expected no fallback warnings, got %s", buf.String())
	}
	if got := testutil.ToFloat64(globalTestMetrics.FallbackActive); got != 0 {
		t.Errorf("FallbackActive = %v, want 0", got)
	}
}

func TestLoadConfigFromEnv_MissingEnvVars(t *testing.T) {
	t.Setenv("CRON_SCHEDULE", "")
	t.Setenv("WORKER_TIMEZONE", "")
	t.Setenv("RUN_TIMEOUT", "")
	t.Setenv("WORKER_HEALTH_PORT", "")
	logger, _ := newTestLogger()

	config, err := LoadConfigFromEnv(logger, globalTestMetrics)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if *config != DefaultConfig() {
		t.Errorf("expected defaults, got %+v", *config)
	}
}

func TestLoadConfigFromEnv_InvalidValuesFallBack(t *testing.T) {
	tests := []struct {
		name   string
		envKey string
		value  string
		field  string
		check  func(c *WorkerConfig) bool
	}{
		{
			name: "cron", envKey: "CRON_SCHEDULE", value: "not a cron", field: "cron_schedule",
			check: func(c *WorkerConfig) bool { return c.CronSchedule == "0 7 * * *" },
		},
		{
			name: "timezone", envKey: "WORKER_TIMEZONE", value: "Invalid/Zone", field: "timezone",
			check: func(c *WorkerConfig) bool { return c.Timezone == "America/New_York" },
		},
		{
			name: "run timeout", envKey: "RUN_TIMEOUT", value: "10s", field: "run_timeout",
			check: func(c *WorkerConfig) bool { return c.RunTimeout == 15*time.Minute },
		},
		{
			name: "health port", envKey: "WORKER_HEALTH_PORT", value: "abc", field: "health_port",
			check: func(c *WorkerConfig) bool { return c.HealthPort == 9091 },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.envKey, tt.value)
			logger, buf := newTestLogger()
			before := testutil.ToFloat64(globalTestMetrics.FallbacksTotal.WithLabelValues(tt.field))

			config, err := LoadConfigFromEnv(logger, globalTestMetrics)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if !tt.check(config) {
				t.Errorf("expected default for %s, got %+v", tt.envKey, *config)
			}
			if !strings.Contains(buf.String(), "Configuration fallback applied") {
				t.Errorf("expected fallback warning in log, got %s", buf.String())
			}
			after := testutil.ToFloat64(globalTestMetrics.FallbacksTotal.WithLabelValues(tt.field))
			if after != before+1 {
				t.Errorf("FallbacksTotal{%s} = %v, want %v", tt.field, after, before+1)
			}
			if got := testutil.ToFloat64(globalTestMetrics.FallbackActive); got != 1 {
				t.Errorf("FallbackActive = %v, want 1", got)
			}
		})
	}
}

func TestLoadConfigFromEnv_PartiallyValid(t *testing.T) {
	t.Setenv("CRON_SCHEDULE", "15 9 * * *")
	t.Setenv("WORKER_TIMEZONE", "Invalid/Zone")
	t.Setenv("RUN_TIMEOUT", "")
	t.Setenv("WORKER_HEALTH_PORT", "")
	logger, _ := newTestLogger()

	config, _ := LoadConfigFromEnv(logger, globalTestMetrics)

	if config.CronSchedule != "15 9 * * *" {
		t.Errorf("valid CronSchedule should be kept, got %q", config.CronSchedule)
	}
	if config.Timezone != "America/New_York" {
		t.Errorf("invalid Timezone should fall back, got %q", config.Timezone)
	}
	if err := config.Validate(); err != nil {
		t.Errorf("loaded config must always be valid: %v", err)
	}
}
