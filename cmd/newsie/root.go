package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/spf13/cobra"

	"newsie/internal/config"
	"newsie/internal/domain/entity"
	"newsie/internal/infra/newsapi"
	"newsie/internal/infra/notifier"
	"newsie/internal/infra/worker"
	"newsie/internal/observability/logging"
	pkgconfig "newsie/internal/pkg/config"
	"newsie/internal/usecase/dispatch"
)

// Prometheus collectors register once per process.
var (
	configMetrics = sync.OnceValue(func() *pkgconfig.ConfigMetrics { return pkgconfig.NewConfigMetrics("newsie") })
	workerMetrics = sync.OnceValue(worker.NewWorkerMetrics)
)

// app carries state shared by the subcommands once the root pre-run has loaded it.
type app struct {
	logLevel    string
	logFormat   string
	queriesFile string

	logger   *slog.Logger
	closeLog func() error
	cfg      *config.AppConfig
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "newsie",
		Short: "Post top news headlines to Slack",
		Long: `newsie fetches top headlines from NewsAPI for each configured query and
posts them to Slack as Block Kit messages, splitting long result lists across
several messages.

Example usage:
  newsie run                          # one run over every query
  newsie run --dry-run                # print the messages instead of posting
  newsie worker                       # run on CRON_SCHEDULE
  newsie validate --queries my.yaml   # check configuration and print the queries`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Annotations["skipConfig"] == "true" {
				return nil
			}
			return a.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a.closeLog != nil {
				return a.closeLog()
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error (default $LOG_LEVEL or info)")
	root.PersistentFlags().StringVar(&a.logFormat, "log-format", "", "log format: json or text (default $LOG_FORMAT or json)")
	root.PersistentFlags().StringVar(&a.queriesFile, "queries", "", "query file (default $QUERIES_FILE or queries.yaml)")

	root.AddCommand(
		newRunCmd(a),
		newWorkerCmd(a),
		newValidateCmd(a),
		newVersionCmd(),
	)
	return root
}

// setup builds the logger and loads the application configuration.
func (a *app) setup(cmd *cobra.Command) error {
	opts := logging.Options{Level: a.logLevel, Format: a.logFormat}
	if os.Getenv("LOGFILE") == "" {
		opts.Output = cmd.ErrOrStderr()
	}
	logger, closeLog, err := logging.New(opts)
	if err != nil {
		return err
	}
	a.logger = logger
	a.closeLog = closeLog
	slog.SetDefault(logger)

	cfg, err := config.LoadAppConfig(logger, configMetrics())
	if err != nil {
		return err
	}
	a.cfg = cfg
	return nil
}

// loadQueries reads the query file. When no file was named explicitly and
// the configured file does not exist, the built-in queries are used.
func (a *app) loadQueries() ([]*entity.Query, error) {
	path := a.queriesFile
	explicit := path != ""
	if !explicit {
		path = a.cfg.QueriesFile
	}

	queries, err := config.LoadQueries(path)
	if err == nil {
		a.logger.Info("queries loaded", slog.String("file", path), slog.Int("count", len(queries)))
		return queries, nil
	}
	if !explicit && errors.Is(err, os.ErrNotExist) {
		a.logger.Warn("query file not found, using built-in queries", slog.String("file", path))
		return config.DefaultQueries(), nil
	}
	return nil, err
}

// newService wires the NewsAPI source and the Slack (or dry-run) deliverer
// into a dispatch service.
func (a *app) newService(out io.Writer, dryRun bool) (*dispatch.Service, error) {
	if err := a.cfg.RequireCredentials(dryRun); err != nil {
		return nil, fmt.Errorf("missing credentials: %w", err)
	}

	source := newsapi.NewClient(newsapi.Config{
		APIKey:    a.cfg.NewsAPI.APIKey,
		BaseURL:   a.cfg.NewsAPI.BaseURL,
		Timeout:   a.cfg.Dispatch.FetchTimeout,
		UserAgent: "newsie/" + version,
	})

	var deliverer dispatch.Deliverer
	if dryRun {
		deliverer = notifier.NewDryRunNotifier(out, a.cfg.Slack.BlockCeiling)
	} else {
		deliverer = notifier.NewSlackNotifier(notifier.SlackConfig{
			Token:        a.cfg.Slack.BotToken,
			APIURL:       a.cfg.Slack.APIURL,
			BotName:      a.cfg.Slack.BotName,
			IconEmoji:    a.cfg.Slack.IconEmoji,
			BlockCeiling: a.cfg.Slack.BlockCeiling,
			Timeout:      a.cfg.Dispatch.DeliveryTimeout,
		})
	}

	return dispatch.NewService(source, deliverer, dispatch.Config{
		DefaultChannel:   a.cfg.Slack.DefaultChannel,
		GroupSize:        a.cfg.Dispatch.GroupSize,
		Location:         a.cfg.Location(),
		FetchTimeout:     a.cfg.Dispatch.FetchTimeout,
		DeliveryTimeout:  a.cfg.Dispatch.DeliveryTimeout,
		QueryConcurrency: a.cfg.Dispatch.QueryConcurrency,
	}), nil
}
