package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages. Using errors.New() here rather than fmt.Errorf()
// because we don't need to include dynamic values in these messages.
var (
	// ErrNoSeeds is returned when no seed URL is available.
	// This error occurs when neither --seed-file nor positional arguments
	// provide any start URL.
	ErrNoSeeds = errors.New("no seeds specified: provide URLs or use --seed-file")

	// ErrInvalidMaxPages is returned when the page budget is not positive.
	// A budget of zero would mean no crawling at all.
	ErrInvalidMaxPages = errors.New("invalid page budget: must be positive")

	// ErrInvalidMaxHops is returned when the hop limit is negative.
	// Zero is valid and means only the seed pages are fetched.
	ErrInvalidMaxHops = errors.New("invalid hop limit: must be non-negative")

	// ErrInvalidWorkers is returned when the worker count is not positive.
	// Zero workers would mean no fetching, effectively stopping the crawl.
	ErrInvalidWorkers = errors.New("invalid worker count: must be positive")

	// ErrInvalidTimeout is returned when the per-request timeout is not positive.
	// A timeout of zero or negative would cause immediate request failures.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidDeadline is returned when the deadline is negative.
	// A negative deadline is invalid; use 0 for an unbounded run.
	ErrInvalidDeadline = errors.New("invalid deadline: must be non-negative")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified. Only one output format can be used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrInvalidMaxBodySize is returned when the max body size is negative.
	// A negative body size is invalid; use 0 to use the default limit.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")
)
