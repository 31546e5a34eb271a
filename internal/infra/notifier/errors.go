package notifier

import (
	"errors"
	"fmt"
	"time"

	"github.com/slack-go/slack"

	"newsie/internal/domain/entity"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const requestIDKey contextKey = "request_id"

// ErrBlockCeilingExceeded is returned when a payload has more units than the
// platform accepts in one message. No request is made.
var ErrBlockCeilingExceeded = errors.New("payload exceeds block ceiling")

// DeliveryError represents a rejection reported by the chat platform.
// Code is the platform's error code (e.g. "channel_not_found", "invalid_blocks").
type DeliveryError struct {
	Code       string
	Message    string
	StatusCode int
	RetryAfter time.Duration
}

func (e *DeliveryError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("slack: %s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("slack: %s", e.Code)
}

// Unwrap allows errors.Is(err, entity.ErrDelivery).
func (e *DeliveryError) Unwrap() error {
	return entity.ErrDelivery
}

// CeilingError carries the size details for ErrBlockCeilingExceeded.
type CeilingError struct {
	Units   int
	Ceiling int
}

func (e *CeilingError) Error() string {
	return fmt.Sprintf("%s: %d units, ceiling %d", ErrBlockCeilingExceeded, e.Units, e.Ceiling)
}

func (e *CeilingError) Unwrap() []error {
	return []error{ErrBlockCeilingExceeded, entity.ErrDelivery}
}

// classifySlackError converts slack-go errors into a *DeliveryError so the
// platform's error code survives to the caller. Transport errors (including
// context cancellation) are wrapped with entity.ErrDelivery unchanged.
func classifySlackError(err error) error {
	if err == nil {
		return nil
	}

	var rateLimited *slack.RateLimitedError
	if errors.As(err, &rateLimited) {
		return &DeliveryError{
			Code:       "ratelimited",
			Message:    "Slack rate limit exceeded",
			StatusCode: 429,
			RetryAfter: rateLimited.RetryAfter,
		}
	}

	var apiErr slack.SlackErrorResponse
	if errors.As(err, &apiErr) {
		return &DeliveryError{
			Code:    apiErr.Err,
			Message: joinMessages(apiErr.ResponseMetadata.Messages),
		}
	}

	var statusErr slack.StatusCodeError
	if errors.As(err, &statusErr) {
		return &DeliveryError{
			Code:       "http_error",
			Message:    statusErr.Status,
			StatusCode: statusErr.Code,
		}
	}

	return fmt.Errorf("%w: %w", entity.ErrDelivery, err)
}

func joinMessages(msgs []string) string {
	switch len(msgs) {
	case 0:
		return ""
	case 1:
		return msgs[0]
	}
	out := msgs[0]
	for _, m := range msgs[1:] {
		out += "; " + m
	}
	return out
}
