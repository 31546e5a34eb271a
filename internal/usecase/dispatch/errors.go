package dispatch

import (
	"fmt"

	"newsie/internal/domain/entity"
)

// SourceFetchError wraps a failure of the article source for one query.
type SourceFetchError struct {
	Query string
	Err   error
}

func (e *SourceFetchError) Error() string {
	return fmt.Sprintf("fetch %q: %v", e.Query, e.Err)
}

// Unwrap returns both entity.ErrSourceFetch and the underlying cause.
func (e *SourceFetchError) Unwrap() []error {
	return []error{entity.ErrSourceFetch, e.Err}
}

// DeliveryFailure wraps a failed payload delivery with its position.
type DeliveryFailure struct {
	Query string
	Index int
	Total int
	Err   error
}

func (e *DeliveryFailure) Error() string {
	return fmt.Sprintf("deliver %q payload %d/%d: %v", e.Query, e.Index+1, e.Total, e.Err)
}

// Unwrap returns both entity.ErrDelivery and the underlying cause, so the
// platform error (e.g. *notifier.DeliveryError) stays reachable with errors.As.
func (e *DeliveryFailure) Unwrap() []error {
	return []error{entity.ErrDelivery, e.Err}
}
