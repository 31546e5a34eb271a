// Package config loads the application configuration from the environment
// and the query list from YAML.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"newsie/internal/domain/entity"
	pkgconfig "newsie/internal/pkg/config"
	"newsie/internal/usecase/layout"
)

// AppConfig holds everything a dispatch run needs.
type AppConfig struct {
	NewsAPI  NewsAPIConfig
	Slack    SlackConfig
	Dispatch DispatchConfig

	// QueriesFile is the YAML query list. Default: "queries.yaml"
	QueriesFile string
}

// NewsAPIConfig configures the article source.
type NewsAPIConfig struct {
	// APIKey authenticates with NewsAPI. Required.
	APIKey string
	// BaseURL overrides the public endpoint. Optional.
	BaseURL string
}

// SlackConfig configures delivery.
type SlackConfig struct {
	// BotToken is the xoxb- token used for chat.postMessage. Required unless dry-run.
	BotToken string
	// APIURL overrides the Slack API base URL. Optional.
	APIURL string
	// BotName is the sender display name. Default: "Newsie"
	BotName string
	// IconEmoji is the sender icon. Default: ":newspaper:"
	IconEmoji string
	// DefaultChannel is used by queries without their own channel. Default: "#news-results"
	DefaultChannel string
	// BlockCeiling is the per-message block limit. Default: 50
	BlockCeiling int
}

// DispatchConfig configures the run itself.
type DispatchConfig struct {
	// Timezone for displayed publication times. Default: "America/New_York"
	Timezone string
	// GroupSize is the number of articles per message. Default: 8
	GroupSize int
	// FetchTimeout bounds each NewsAPI call. Default: 30s
	FetchTimeout time.Duration
	// DeliveryTimeout bounds each Slack call. Default: 30s
	DeliveryTimeout time.Duration
	// QueryConcurrency is the number of queries processed at once. Default: 1
	QueryConcurrency int
}

// DefaultAppConfig returns the defaults. Credentials are empty.
func DefaultAppConfig() AppConfig {
	return AppConfig{
		Slack: SlackConfig{
			BotName:        "Newsie",
			IconEmoji:      ":newspaper:",
			DefaultChannel: "#news-results",
			BlockCeiling:   50,
		},
		Dispatch: DispatchConfig{
			Timezone:         "America/New_York",
			GroupSize:        layout.DefaultGroupSize,
			FetchTimeout:     30 * time.Second,
			DeliveryTimeout:  30 * time.Second,
			QueryConcurrency: 1,
		},
		QueriesFile: "queries.yaml",
	}
}

// LoadAppConfig reads the configuration from environment variables.
//
// Numeric and duration values that cannot be parsed fall back to their
// defaults with a logged warning. String values are taken as given and
// checked by Validate, which LoadAppConfig calls before returning.
// metrics may be nil.
//
// Environment variables:
//   - NEWS_API_KEY, NEWS_API_BASE_URL
//   - SLACK_BOT_TOKEN, SLACK_API_URL, SLACK_BOT_NAME, SLACK_ICON_EMOJI
//   - DEFAULT_SLACK_CHANNEL, BLOCK_CEILING
//   - DISPLAY_TIMEZONE, GROUP_SIZE, FETCH_TIMEOUT, DELIVERY_TIMEOUT, QUERY_CONCURRENCY
//   - QUERIES_FILE
func LoadAppConfig(logger *slog.Logger, metrics *pkgconfig.ConfigMetrics) (*AppConfig, error) {
	cfg := DefaultAppConfig()
	fallbackApplied := false

	warn := func(field string, warnings []string) {
		fallbackApplied = true
		for _, w := range warnings {
			logger.Warn("Configuration fallback applied",
				slog.String("field", field),
				slog.String("warning", w))
		}
	}
	loadInt := func(key, field string, def int, validate func(int) error) int {
		r := pkgconfig.LoadEnvInt(key, def, validate)
		pkgconfig.Observe(metrics, field, r)
		if r.FallbackApplied {
			warn(field, r.Warnings)
		}
		return r.Value
	}
	loadDuration := func(key, field string, def time.Duration) time.Duration {
		r := pkgconfig.LoadEnvDuration(key, def, pkgconfig.ValidatePositiveDuration)
		pkgconfig.Observe(metrics, field, r)
		if r.FallbackApplied {
			warn(field, r.Warnings)
		}
		return r.Value
	}

	cfg.NewsAPI.APIKey = pkgconfig.LoadEnvString("NEWS_API_KEY", "")
	cfg.NewsAPI.BaseURL = pkgconfig.LoadEnvString("NEWS_API_BASE_URL", "")

	cfg.Slack.BotToken = pkgconfig.LoadEnvString("SLACK_BOT_TOKEN", "")
	cfg.Slack.APIURL = pkgconfig.LoadEnvString("SLACK_API_URL", "")
	cfg.Slack.BotName = pkgconfig.LoadEnvString("SLACK_BOT_NAME", cfg.Slack.BotName)
	cfg.Slack.IconEmoji = pkgconfig.LoadEnvString("SLACK_ICON_EMOJI", cfg.Slack.IconEmoji)
	cfg.Slack.DefaultChannel = pkgconfig.LoadEnvString("DEFAULT_SLACK_CHANNEL", cfg.Slack.DefaultChannel)
	cfg.Slack.BlockCeiling = loadInt("BLOCK_CEILING", "block_ceiling", cfg.Slack.BlockCeiling, func(v int) error {
		return pkgconfig.ValidateIntRange(v, 5, 50)
	})

	cfg.Dispatch.Timezone = pkgconfig.LoadEnvString("DISPLAY_TIMEZONE", cfg.Dispatch.Timezone)
	cfg.Dispatch.GroupSize = loadInt("GROUP_SIZE", "group_size", cfg.Dispatch.GroupSize, nil)
	cfg.Dispatch.FetchTimeout = loadDuration("FETCH_TIMEOUT", "fetch_timeout", cfg.Dispatch.FetchTimeout)
	cfg.Dispatch.DeliveryTimeout = loadDuration("DELIVERY_TIMEOUT", "delivery_timeout", cfg.Dispatch.DeliveryTimeout)
	cfg.Dispatch.QueryConcurrency = loadInt("QUERY_CONCURRENCY", "query_concurrency", cfg.Dispatch.QueryConcurrency, func(v int) error {
		return pkgconfig.ValidateIntRange(v, 1, 16)
	})

	cfg.QueriesFile = pkgconfig.LoadEnvString("QUERIES_FILE", cfg.QueriesFile)

	if metrics != nil {
		metrics.SetFallbackActive(fallbackApplied)
		metrics.RecordLoadTimestamp()
	}

	if err := cfg.Validate(); err != nil {
		if metrics != nil {
			metrics.RecordValidationError("app")
		}
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks field values and cross-field constraints and returns every
// failure joined together. Credentials are checked by RequireCredentials.
func (c *AppConfig) Validate() error {
	var errs []error

	if c.NewsAPI.BaseURL != "" {
		if err := entity.ValidateURL("NEWS_API_BASE_URL", c.NewsAPI.BaseURL); err != nil {
			errs = append(errs, err)
		}
	}
	if c.Slack.APIURL != "" {
		if err := entity.ValidateURL("SLACK_API_URL", c.Slack.APIURL); err != nil {
			errs = append(errs, err)
		}
	}
	if c.Slack.BotName == "" {
		errs = append(errs, errors.New("SLACK_BOT_NAME cannot be empty"))
	}
	if err := pkgconfig.ValidateChannel(c.Slack.DefaultChannel); err != nil {
		errs = append(errs, fmt.Errorf("DEFAULT_SLACK_CHANNEL: %w", err))
	}
	if err := pkgconfig.ValidateTimezone(c.Dispatch.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("DISPLAY_TIMEZONE: %w", err))
	}
	if err := pkgconfig.ValidateGroupSize(c.Dispatch.GroupSize, c.Slack.BlockCeiling, layout.MaxUnits); err != nil {
		errs = append(errs, fmt.Errorf("GROUP_SIZE: %w", err))
	}
	if err := pkgconfig.ValidatePositiveDuration(c.Dispatch.FetchTimeout); err != nil {
		errs = append(errs, fmt.Errorf("FETCH_TIMEOUT: %w", err))
	}
	if err := pkgconfig.ValidatePositiveDuration(c.Dispatch.DeliveryTimeout); err != nil {
		errs = append(errs, fmt.Errorf("DELIVERY_TIMEOUT: %w", err))
	}
	if c.Dispatch.QueryConcurrency < 1 {
		errs = append(errs, fmt.Errorf("QUERY_CONCURRENCY must be at least 1, got %d", c.Dispatch.QueryConcurrency))
	}
	if c.QueriesFile == "" {
		errs = append(errs, errors.New("QUERIES_FILE cannot be empty"))
	}

	return errors.Join(errs...)
}

// RequireCredentials checks that the API credentials are present. The Slack
// token is not needed when delivery is a dry run.
func (c *AppConfig) RequireCredentials(dryRun bool) error {
	var errs []error
	if c.NewsAPI.APIKey == "" {
		errs = append(errs, errors.New("NEWS_API_KEY is required"))
	}
	if !dryRun && c.Slack.BotToken == "" {
		errs = append(errs, errors.New("SLACK_BOT_TOKEN is required"))
	}
	return errors.Join(errs...)
}

// Location returns the display timezone. Call after Validate.
func (c *AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Dispatch.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
