package layout

import (
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"newsie/internal/domain/entity"
)

const (
	// strictLayout is the exact shape the news source documents for publishedAt.
	strictLayout = "2006-01-02T15:04:05Z"

	// DisplayLayout is the format used for timestamps shown to readers.
	DisplayLayout = "2006-01-02 15:04:05"
)

// TimestampError reports a published timestamp that neither parser accepted.
type TimestampError struct {
	Raw string
	Err error
}

func (e *TimestampError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("malformed timestamp %q", e.Raw)
	}
	return fmt.Sprintf("malformed timestamp %q: %v", e.Raw, e.Err)
}

// Unwrap returns entity.ErrMalformedTimestamp so callers can use errors.Is.
func (e *TimestampError) Unwrap() error {
	return entity.ErrMalformedTimestamp
}

// NormalizeTimestamp parses raw into a UTC instant.
//
// The strict layout 2006-01-02T15:04:05Z is tried first. On failure a
// permissive parser is used; strings without zone information are read as
// UTC, and an explicit offset is honored. The result is always in UTC.
//
// Returns a *TimestampError wrapping entity.ErrMalformedTimestamp when both
// strategies fail or raw is empty.
func NormalizeTimestamp(raw string) (time.Time, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return time.Time{}, &TimestampError{Raw: raw}
	}

	if t, err := time.Parse(strictLayout, trimmed); err == nil {
		return t.UTC(), nil
	}

	t, err := dateparse.ParseIn(trimmed, time.UTC)
	if err != nil {
		return time.Time{}, &TimestampError{Raw: raw, Err: err}
	}
	return t.UTC(), nil
}

// FormatInZone renders t in loc using DisplayLayout. A nil loc means UTC.
func FormatInZone(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(DisplayLayout)
}
