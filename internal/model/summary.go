package model

import "time"

// StopReason identifies which termination condition ended a crawl run.
// Every run ends with exactly one of these; all of them are clean
// terminations, not errors.
type StopReason string

const (
	// StopBudget means the page budget was exhausted: successful and
	// failed attempts together reached the configured maximum.
	StopBudget StopReason = "budget"

	// StopDeadline means the wall-clock deadline elapsed. In-flight
	// fetches were allowed to finish or time out, but no new pages
	// were dispatched.
	StopDeadline StopReason = "deadline"

	// StopExhausted means the frontier drained with no work in flight:
	// every reachable page within the hop limit was attempted.
	StopExhausted StopReason = "exhausted"

	// StopCanceled means the caller's context was canceled, typically
	// by an interrupt signal.
	StopCanceled StopReason = "canceled"
)

// String returns a human-readable description of the stop reason.
func (s StopReason) String() string {
	switch s {
	case StopBudget:
		return "page budget reached"
	case StopDeadline:
		return "deadline reached"
	case StopExhausted:
		return "frontier exhausted"
	case StopCanceled:
		return "canceled"
	default:
		return string(s)
	}
}

// RunSummary describes the outcome of one crawl run. It is the value the
// orchestrator returns on any termination condition and the record stored
// by the database for later inspection via the history command.
type RunSummary struct {
	// Seeds is the number of unique seed URLs the run started from.
	Seeds int `json:"seeds"`

	// PagesCrawled is the number of successfully fetched pages.
	PagesCrawled int `json:"pages_crawled"`

	// PagesFailed is the number of failed fetch attempts. Failed
	// attempts consume page budget, so PagesCrawled + PagesFailed never
	// exceeds the configured maximum.
	PagesFailed int `json:"pages_failed"`

	// LinksDiscovered is the total number of outbound links seen across
	// all fetched pages, before deduplication.
	LinksDiscovered int `json:"links_discovered"`

	// UniqueURLs is the number of distinct URL identities encountered,
	// visited or not.
	UniqueURLs int `json:"unique_urls"`

	// StopReason is the termination condition that ended the run.
	StopReason StopReason `json:"stop_reason"`

	// StartedAt is when the run began.
	StartedAt time.Time `json:"started_at"`

	// Elapsed is the total wall-clock duration of the run.
	Elapsed time.Duration `json:"elapsed"`
}

// Attempts returns the total number of budget-consuming fetch attempts.
func (s *RunSummary) Attempts() int {
	return s.PagesCrawled + s.PagesFailed
}
