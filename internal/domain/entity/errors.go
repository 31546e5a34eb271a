package entity

import (
	"errors"
	"fmt"
)

// Sentinel errors for domain layer operations.
var (
	// ErrConfiguration indicates that a query was constructed with an invalid
	// combination of filters. Such a query never becomes part of the active list.
	ErrConfiguration = errors.New("configuration error")

	// ErrMalformedTimestamp indicates that an article's published timestamp
	// could not be parsed by either the strict or the permissive parser.
	ErrMalformedTimestamp = errors.New("malformed timestamp")

	// ErrSourceFetch indicates that the article source could not be queried.
	ErrSourceFetch = errors.New("source fetch failed")

	// ErrDelivery indicates that the chat platform rejected a payload.
	ErrDelivery = errors.New("delivery failed")

	// ErrValidationFailed indicates that validation checks have failed
	ErrValidationFailed = errors.New("validation failed")
)

// ValidationError represents a validation error with detailed field information.
// It implements the error interface and provides context about which field failed validation.
type ValidationError struct {
	Field   string
	Message string
}

// Error returns a formatted error message for the validation error.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// Unwrap allows errors.Is(err, ErrValidationFailed).
func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}

// ConfigurationError is returned by NewQuery when the supplied options cannot
// form a valid query. It wraps ErrConfiguration and, when present, the
// underlying field validation error.
type ConfigurationError struct {
	Query  string
	Reason string
	Err    error
}

// Error returns the query name together with the reason it was rejected.
func (e *ConfigurationError) Error() string {
	if e.Query == "" {
		return fmt.Sprintf("configuration error: %s", e.Reason)
	}
	return fmt.Sprintf("configuration error in query %q: %s", e.Query, e.Reason)
}

// Unwrap returns both ErrConfiguration and the wrapped cause.
func (e *ConfigurationError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrConfiguration}
	}
	return []error{ErrConfiguration, e.Err}
}
