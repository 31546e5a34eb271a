package dispatch

import (
	"time"

	"newsie/internal/usecase/layout"
)

// State is the position of a query in its dispatch lifecycle.
//
//	Fetching -> Chunking -> Delivering -> Done
//
// Errored is absorbing and reachable from Fetching and Chunking.
type State string

const (
	StateFetching   State = "fetching"
	StateChunking   State = "chunking"
	StateDelivering State = "delivering"
	StateDone       State = "done"
	StateErrored    State = "errored"
)

// DispatchResult is the outcome of delivering one payload.
// Exactly one of MessageID and Err is set.
type DispatchResult struct {
	Index     int
	Total     int
	Units     int
	MessageID string
	Err       error
}

// Delivered reports whether the payload was accepted by the platform.
func (r DispatchResult) Delivered() bool { return r.Err == nil }

// QueryReport summarizes one query of a run.
type QueryReport struct {
	Query        string
	Channel      string
	State        State
	TotalResults int
	Fetched      int
	Skipped      []layout.SkippedArticle
	Results      []DispatchResult

	// Err is set when State is StateErrored.
	Err error
}

// DeliveredCount returns the number of payloads delivered.
func (q QueryReport) DeliveredCount() int {
	n := 0
	for _, r := range q.Results {
		if r.Delivered() {
			n++
		}
	}
	return n
}

// FailedCount returns the number of payloads that failed.
func (q QueryReport) FailedCount() int {
	return len(q.Results) - q.DeliveredCount()
}

// OK reports whether the query finished with every payload delivered.
func (q QueryReport) OK() bool {
	return q.State == StateDone && q.FailedCount() == 0
}

// RunReport summarizes one pass over the query list.
// Queries is in the same order as the input.
type RunReport struct {
	RunID     string
	StartedAt time.Time
	Duration  time.Duration
	Queries   []QueryReport
}

// OK reports whether every query finished with every payload delivered.
func (r *RunReport) OK() bool {
	for _, q := range r.Queries {
		if !q.OK() {
			return false
		}
	}
	return true
}

// Status classifies the run as "success", "partial" or "failure".
// A run with no queries is a success.
func (r *RunReport) Status() string {
	if r.OK() {
		return "success"
	}
	for _, q := range r.Queries {
		if q.OK() || q.DeliveredCount() > 0 {
			return "partial"
		}
	}
	return "failure"
}

// Totals returns delivered and failed payload counts and errored query count.
func (r *RunReport) Totals() (delivered, failed, errored int) {
	for _, q := range r.Queries {
		delivered += q.DeliveredCount()
		failed += q.FailedCount()
		if q.State == StateErrored {
			errored++
		}
	}
	return delivered, failed, errored
}
