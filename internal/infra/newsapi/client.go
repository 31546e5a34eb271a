// Package newsapi implements the article source on top of the NewsAPI
// top-headlines endpoint.
package newsapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"newsie/internal/domain/entity"
	"newsie/internal/resilience/circuitbreaker"
)

const (
	// DefaultBaseURL is the public NewsAPI endpoint.
	DefaultBaseURL = "https://newsapi.org"

	topHeadlinesPath = "/v2/top-headlines"

	// maxErrorBody bounds how much of an error response is read.
	maxErrorBody = 64 * 1024
)

// Config contains configuration for the NewsAPI client.
type Config struct {
	// APIKey is sent in the X-Api-Key header
	APIKey string

	// BaseURL overrides DefaultBaseURL (useful for tests)
	BaseURL string

	// Timeout is the HTTP request timeout
	Timeout time.Duration

	// UserAgent is sent with every request when set
	UserAgent string
}

// Client fetches top headlines from NewsAPI.
type Client struct {
	config         Config
	httpClient     *http.Client
	circuitBreaker *circuitbreaker.CircuitBreaker
}

// NewClient creates a Client with a circuit breaker using circuitbreaker.NewsAPIConfig.
// Client errors (4xx other than 429) do not count against the breaker.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	cbConfig := circuitbreaker.NewsAPIConfig()
	cbConfig.IsSuccessful = func(err error) bool {
		if err == nil {
			return true
		}
		var apiErr *APIError
		return errors.As(err, &apiErr) && !apiErr.Retryable()
	}

	return &Client{
		config:         cfg,
		httpClient:     &http.Client{Timeout: cfg.Timeout},
		circuitBreaker: circuitbreaker.New(cbConfig),
	}
}

// APIError is a failure reported by NewsAPI, either as a non-2xx status or
// as a body with status "error".
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("newsapi: status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("newsapi: status %d: %s: %s", e.StatusCode, e.Code, e.Message)
}

// Retryable reports whether the failure is transient (rate limit or server error).
func (e *APIError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

type headlinesResponse struct {
	Status       string       `json:"status"`
	Code         string       `json:"code"`
	Message      string       `json:"message"`
	TotalResults int          `json:"totalResults"`
	Articles     []apiArticle `json:"articles"`
}

// Every field may be null in the upstream payload; null decodes to "".
type apiArticle struct {
	Source struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"source"`
	Author      string `json:"author"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	URLToImage  string `json:"urlToImage"`
	PublishedAt string `json:"publishedAt"`
	Content     string `json:"content"`
}

func (a apiArticle) toRecord() entity.ArticleRecord {
	return entity.ArticleRecord{
		Title:       a.Title,
		Description: a.Description,
		URL:         a.URL,
		ImageURL:    a.URLToImage,
		SourceName:  a.Source.Name,
		PublishedAt: a.PublishedAt,
	}
}

// TopHeadlines requests top headlines matching req.
//
// Empty filters are omitted from the query string; Sources are comma-joined.
// A zero PageSize sends entity.DefaultPageSize.
//
// Returns:
//   - *entity.Headlines: total result count and the articles in source order
//   - error: *APIError for rejections, gobreaker.ErrOpenState when the circuit is open,
//     or a transport/decoding error
func (c *Client) TopHeadlines(ctx context.Context, req entity.HeadlinesRequest) (*entity.Headlines, error) {
	result, err := c.circuitBreaker.Execute(func() (interface{}, error) {
		return c.doTopHeadlines(ctx, req)
	})
	if err != nil {
		return nil, err
	}
	return result.(*entity.Headlines), nil
}

func (c *Client) doTopHeadlines(ctx context.Context, req entity.HeadlinesRequest) (*entity.Headlines, error) {
	endpoint := c.config.BaseURL + topHeadlinesPath + "?" + buildQuery(req).Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create http request: %w", err)
	}
	httpReq.Header.Set("X-Api-Key", c.config.APIKey)
	httpReq.Header.Set("Accept", "application/json")
	if c.config.UserAgent != "" {
		httpReq.Header.Set("User-Agent", c.config.UserAgent)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("execute http request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	slog.Debug("NewsAPI response",
		slog.Int("status", resp.StatusCode),
		slog.String("query", req.Query),
		slog.Duration("duration", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, decodeError(resp)
	}

	var body headlinesResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if body.Status == "error" {
		return nil, &APIError{StatusCode: resp.StatusCode, Code: body.Code, Message: body.Message}
	}

	headlines := &entity.Headlines{
		TotalResults: body.TotalResults,
		Articles:     make([]entity.ArticleRecord, 0, len(body.Articles)),
	}
	for _, a := range body.Articles {
		headlines.Articles = append(headlines.Articles, a.toRecord())
	}
	return headlines, nil
}

func buildQuery(req entity.HeadlinesRequest) url.Values {
	v := url.Values{}
	if req.Query != "" {
		v.Set("q", req.Query)
	}
	if req.Language != "" {
		v.Set("language", req.Language)
	}
	if req.Country != "" {
		v.Set("country", req.Country)
	}
	if req.Category != "" {
		v.Set("category", string(req.Category))
	}
	if len(req.Sources) > 0 {
		v.Set("sources", strings.Join(req.Sources, ","))
	}
	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = entity.DefaultPageSize
	}
	v.Set("pageSize", strconv.Itoa(pageSize))
	return v
}

func decodeError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var body headlinesResponse
	if err := json.Unmarshal(data, &body); err == nil && (body.Code != "" || body.Message != "") {
		return &APIError{StatusCode: resp.StatusCode, Code: body.Code, Message: body.Message}
	}
	return &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(data))}
}
