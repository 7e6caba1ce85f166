package crawler

import "errors"

// Configuration validation errors returned by Crawler.Crawl before any
// crawling starts. These are the only errors that propagate out of the
// engine; every per-page failure is absorbed into the result stream.
var (
	// ErrNoSeeds is returned when no usable seed URL remains after
	// normalization.
	ErrNoSeeds = errors.New("no valid seed URLs")

	// ErrInvalidMaxPages is returned when the page budget is not positive.
	ErrInvalidMaxPages = errors.New("invalid page budget: must be positive")

	// ErrInvalidMaxHops is returned when the hop limit is negative.
	// Zero is valid: only the seed pages are fetched.
	ErrInvalidMaxHops = errors.New("invalid hop limit: must be non-negative")

	// ErrInvalidWorkers is returned when the worker count is not positive.
	ErrInvalidWorkers = errors.New("invalid worker count: must be positive")

	// ErrInvalidTimeout is returned when the per-request timeout is not
	// positive.
	ErrInvalidTimeout = errors.New("invalid request timeout: must be positive")

	// ErrInvalidDeadline is returned when the overall deadline is
	// negative. Zero is valid and means unbounded.
	ErrInvalidDeadline = errors.New("invalid deadline: must be non-negative")
)
