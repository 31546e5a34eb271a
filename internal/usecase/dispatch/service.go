// Package dispatch runs the query list: fetch articles, lay them out into
// payloads and deliver the payloads in order to the chat platform.
package dispatch

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"newsie/internal/domain/entity"
	"newsie/internal/observability/logging"
	"newsie/internal/observability/metrics"
	"newsie/internal/observability/tracing"
	"newsie/internal/usecase/layout"
)

// ArticleSource fetches articles for a query.
type ArticleSource interface {
	TopHeadlines(ctx context.Context, req entity.HeadlinesRequest) (*entity.Headlines, error)
}

// Deliverer posts one payload to one channel and returns the message id.
type Deliverer interface {
	Deliver(ctx context.Context, channel string, payload layout.Payload) (string, error)
}

// Config is constructed once at process start.
type Config struct {
	// DefaultChannel is used for queries without their own channel
	DefaultChannel string

	// GroupSize is the number of articles per payload
	GroupSize int

	// Location is the display timezone for published timestamps
	Location *time.Location

	// FetchTimeout bounds each article source call. Zero means no timeout.
	FetchTimeout time.Duration

	// DeliveryTimeout bounds each payload delivery. Zero means no timeout.
	DeliveryTimeout time.Duration

	// QueryConcurrency is the number of queries processed at once (minimum 1)
	QueryConcurrency int
}

// Service is the dispatch coordinator.
type Service struct {
	source    ArticleSource
	deliverer Deliverer
	chunker   *layout.Chunker
	config    Config
}

// NewService creates a Service. Zero GroupSize and QueryConcurrency select
// layout.DefaultGroupSize and 1.
func NewService(source ArticleSource, deliverer Deliverer, cfg Config) *Service {
	if cfg.QueryConcurrency < 1 {
		cfg.QueryConcurrency = 1
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	chunker := layout.NewChunker(layout.NewFormatter(cfg.Location), cfg.GroupSize)
	cfg.GroupSize = chunker.GroupSize

	return &Service{
		source:    source,
		deliverer: deliverer,
		chunker:   chunker,
		config:    cfg,
	}
}

// Run processes every query once and returns a report with one entry per
// query, in input order.
//
// Queries are independent: a fetch or layout failure marks only that query
// as Errored. Within a query, payloads are delivered strictly in order, one
// at a time, and a failed delivery does not stop the remaining payloads.
//
// Run itself never fails; all outcomes are in the report. Logs go to the
// logger stored with logging.WithLogger, or slog.Default.
func (s *Service) Run(ctx context.Context, queries []*entity.Query) *RunReport {
	report := &RunReport{
		RunID:     uuid.New().String(),
		StartedAt: time.Now(),
		Queries:   make([]QueryReport, len(queries)),
	}
	ctx = logging.WithRunID(ctx, report.RunID)
	logger := logging.WithRunIDField(ctx, logging.FromContext(ctx))

	ctx, span := tracing.StartSpan(ctx, "dispatch.run",
		attribute.String("run.id", report.RunID),
		attribute.Int("run.queries", len(queries)))
	defer span.End()

	logger.Info("dispatch run started",
		slog.Int("queries", len(queries)),
		slog.Int("concurrency", s.config.QueryConcurrency))

	var g errgroup.Group
	g.SetLimit(s.config.QueryConcurrency)
	for i, q := range queries {
		g.Go(func() error {
			report.Queries[i] = s.runQuery(ctx, logger, q)
			return nil
		})
	}
	_ = g.Wait()

	report.Duration = time.Since(report.StartedAt)
	delivered, failed, errored := report.Totals()
	status := report.Status()
	metrics.RecordRun(status, report.Duration)
	span.SetAttributes(
		attribute.String("run.status", status),
		attribute.Int("run.delivered", delivered),
		attribute.Int("run.failed", failed),
	)

	logger.Info("dispatch run finished",
		slog.String("status", status),
		slog.Int("delivered", delivered),
		slog.Int("failed", failed),
		slog.Int("errored_queries", errored),
		slog.Duration("duration", report.Duration))

	return report
}

func (s *Service) runQuery(ctx context.Context, logger *slog.Logger, q *entity.Query) QueryReport {
	qr := QueryReport{Query: q.Name(), State: StateFetching}
	logger = logger.With(slog.String("query", q.Name()))

	ctx, span := tracing.StartSpan(ctx, "dispatch.query", attribute.String("query.name", q.Name()))
	defer span.End()

	fail := func(err error) QueryReport {
		logger.Error("query dispatch abandoned",
			slog.String("state", string(qr.State)),
			slog.Any("error", err))
		qr.State = StateErrored
		qr.Err = err
		tracing.RecordError(span, err)
		metrics.RecordQueryState(qr.Query, string(qr.State))
		return qr
	}

	// Fetching
	headlines, err := s.fetch(ctx, q)
	if err != nil {
		return fail(err)
	}
	qr.TotalResults = headlines.TotalResults
	qr.Fetched = len(headlines.Articles)
	metrics.RecordArticlesFetched(qr.Query, qr.Fetched)
	logger.Info("articles fetched",
		slog.Int("total_results", headlines.TotalResults),
		slog.Int("articles", len(headlines.Articles)))

	// Chunking
	qr.State = StateChunking
	qr.Channel = q.ChannelOr(s.config.DefaultChannel)
	chunked, err := s.chunker.Chunk(q.Name(), headlines.Articles)
	if err != nil {
		return fail(err)
	}
	qr.Skipped = chunked.Skipped
	for _, sk := range chunked.Skipped {
		logger.Warn("article skipped",
			slog.Int("article_index", sk.Index),
			slog.String("title", sk.Title),
			slog.Any("error", sk.Err))
	}
	metrics.RecordArticlesSkipped(qr.Query, skipReason(chunked.Skipped), len(chunked.Skipped))

	// Delivering
	qr.State = StateDelivering
	qr.Results = make([]DispatchResult, 0, len(chunked.Payloads))
	for _, payload := range chunked.Payloads {
		result := s.deliver(ctx, qr.Channel, payload)
		if result.Err != nil {
			logger.Error("payload delivery failed",
				slog.String("channel", qr.Channel),
				slog.Int("payload_index", payload.Index),
				slog.Int("payload_total", payload.Total),
				slog.Any("error", result.Err))
			tracing.RecordError(span, result.Err)
		} else {
			logger.Info("payload delivered",
				slog.String("channel", qr.Channel),
				slog.Int("payload_index", payload.Index),
				slog.Int("payload_total", payload.Total),
				slog.String("message_id", result.MessageID))
		}
		qr.Results = append(qr.Results, result)
	}

	qr.State = StateDone
	span.SetAttributes(
		attribute.Int("query.payloads", len(qr.Results)),
		attribute.Int("query.failed", qr.FailedCount()),
	)
	metrics.RecordQueryState(qr.Query, string(qr.State))
	return qr
}

func (s *Service) fetch(ctx context.Context, q *entity.Query) (*entity.Headlines, error) {
	if s.config.FetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.FetchTimeout)
		defer cancel()
	}

	start := time.Now()
	headlines, err := s.source.TopHeadlines(ctx, q.HeadlinesRequest())
	metrics.RecordSourceFetch(q.Name(), time.Since(start), err == nil)
	if err != nil {
		return nil, &SourceFetchError{Query: q.Name(), Err: err}
	}
	if headlines == nil {
		headlines = &entity.Headlines{}
	}
	return headlines, nil
}

func (s *Service) deliver(ctx context.Context, channel string, payload layout.Payload) DispatchResult {
	if s.config.DeliveryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.DeliveryTimeout)
		defer cancel()
	}

	start := time.Now()
	id, err := s.deliverer.Deliver(ctx, channel, payload)
	metrics.RecordDelivery(payload.QueryName, payload.Len(), time.Since(start), err == nil)

	result := DispatchResult{
		Index: payload.Index,
		Total: payload.Total,
		Units: payload.Len(),
	}
	if err != nil {
		result.Err = &DeliveryFailure{Query: payload.QueryName, Index: payload.Index, Total: payload.Total, Err: err}
		return result
	}
	result.MessageID = id
	return result
}

func skipReason(skipped []layout.SkippedArticle) string {
	for _, s := range skipped {
		if !errors.Is(s.Err, entity.ErrMalformedTimestamp) {
			return "render_error"
		}
	}
	return "malformed_timestamp"
}
