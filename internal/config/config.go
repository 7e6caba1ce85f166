package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
// These values are chosen to produce a useful corpus out of the box while
// staying polite to the crawled hosts.
const (
	// DefaultMaxPages is the page budget: the maximum number of fetch
	// attempts (successful or failed) per run. This prevents runaway
	// crawling on large or infinitely-generating sites.
	// Users can override this via the --num-pages CLI flag.
	DefaultMaxPages = 100

	// DefaultMaxHops of 1 fetches the seed pages and the pages they link
	// to. Depth 0 means only the seeds themselves.
	// Higher values find more content but take longer and use more resources.
	DefaultMaxHops = 1

	// DefaultWorkers of 16 concurrent fetches balances throughput with
	// resource usage. Higher values may trigger rate limiting on the
	// crawled hosts. Lower values are safer but slower for large crawls.
	DefaultWorkers = 16

	// DefaultTimeout is the per-request fetch timeout. 60 seconds is
	// generous enough for slow origins while guaranteeing a stuck request
	// eventually frees its worker slot.
	DefaultTimeout = 60 * time.Second

	// DefaultDeadline of zero means a run has no overall wall-clock bound
	// and stops on budget or frontier exhaustion instead.
	DefaultDeadline = 0 * time.Second

	// DefaultOutputDir is where corpus files are written when the user
	// does not specify --output-dir.
	DefaultOutputDir = "output"

	// AppName is the application name used for XDG directory paths.
	AppName = "webcorpus"

	// DefaultUserAgent identifies webcorpus in HTTP requests.
	// Using a descriptive User-Agent is good practice and allows operators
	// to identify crawler traffic in their logs.
	DefaultUserAgent = "webcorpus/1.0 (+https://github.com/nao1215/webcorpus)"

	// DefaultMaxBodySize limits the maximum response body size to read.
	// 5MB is sufficient for most HTML pages while preventing memory exhaustion
	// from unexpectedly large responses.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB
)

// Config holds all configuration options for webcorpus.
// This struct is designed to be populated from CLI flags and passed through
// the application via dependency injection rather than global state.
//
// Design decision: We use a single flat struct instead of nested structs
// (e.g., CrawlConfig, ReportConfig) for simplicity. The number of options
// is manageable, and nesting would add complexity without significant benefit.
// If the configuration grows significantly, consider refactoring into sub-structs.
type Config struct {
	// SeedFile is the path to a newline-delimited file of seed URLs.
	// Blank lines and lines starting with '#' are skipped.
	SeedFile string

	// Seeds is the list of start URLs for the crawl, loaded from SeedFile
	// or given directly as positional arguments.
	Seeds []string

	// MaxPages is the page budget for the run: the maximum number of
	// fetch attempts, counting failures. Must be positive.
	MaxPages int

	// MaxHops is the link-following distance from the seeds.
	// 0 means only fetch the seed pages.
	MaxHops int

	// Workers is the number of concurrent fetches.
	// Higher values increase throughput but may overwhelm the crawled hosts.
	Workers int

	// Timeout is the per-request fetch timeout.
	// This applies to individual requests, not the overall crawl duration.
	Timeout time.Duration

	// Deadline is the overall wall-clock bound for the run.
	// Zero means unbounded; the run then stops on budget or frontier
	// exhaustion.
	Deadline time.Duration

	// OutputDir is the directory where corpus files are written.
	OutputDir string

	// SameHostOnly restricts link following to the hosts of the seed URLs.
	// Cross-host links are dropped at discovery time.
	SameHostOnly bool

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only informational messages and above are logged.
	Verbose bool

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .webcorpus in the current directory
	// and then in the user's home directory.
	ConfigFilePath string

	// HostConfigs holds per-host configurations loaded from the config file.
	// This is populated by LoadConfigFile and used during crawling.
	HostConfigs *File

	// JSONReport enables JSON report output instead of human-readable format.
	// When true, outputs the run summary as indented JSON.
	// When false, outputs a human-readable simple report (default).
	// Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport enables Markdown report output instead of human-readable format.
	// When true, outputs GitHub Flavored Markdown with tables, alerts, and pie charts.
	// When false, outputs a human-readable simple report (default).
	// Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the report.
	// When set, the report is written to this file instead of stdout.
	// Directories are created automatically if they don't exist.
	ReportFile string

	// DBDir is the directory path for storing the SQLite database.
	// When set, run summaries and results are saved for the history command.
	// When empty, nothing is persisted beyond the corpus files.
	// Defaults to XDG data directory (~/.local/share/webcorpus on Linux).
	DBDir string

	// SaveToDB indicates whether to save crawl results to the database.
	// Disabled with the --no-db CLI flag.
	SaveToDB bool

	// UserAgent is the User-Agent header sent with HTTP requests.
	// A descriptive User-Agent helps site operators identify crawler traffic.
	UserAgent string

	// MaxBodySize is the maximum response body size in bytes to read.
	// Responses larger than this are truncated to prevent memory exhaustion.
	// Set to 0 to use the default (5MB).
	MaxBodySize int64
}

// NewConfig creates a new Config with default values.
// All fields are set to safe, sensible defaults that work for most use cases.
// Users can override specific values after creation.
//
// Design decision: We use a constructor function instead of relying on
// zero values because many defaults are non-zero (e.g., timeout, worker
// count). This also serves as documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		MaxPages:    DefaultMaxPages,
		MaxHops:     DefaultMaxHops,
		Workers:     DefaultWorkers,
		Timeout:     DefaultTimeout,
		Deadline:    DefaultDeadline,
		OutputDir:   DefaultOutputDir,
		UserAgent:   DefaultUserAgent,
		MaxBodySize: DefaultMaxBodySize,
		SaveToDB:    true,
	}
}

// XDGDataDir returns the XDG data directory for webcorpus.
// This follows the XDG Base Directory Specification.
// On Linux: ~/.local/share/webcorpus
// On macOS: ~/Library/Application Support/webcorpus
// On Windows: %LOCALAPPDATA%\webcorpus
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for webcorpus.
// This follows the XDG Base Directory Specification.
// On Linux: ~/.config/webcorpus
// On macOS: ~/Library/Application Support/webcorpus
// On Windows: %APPDATA%\webcorpus
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns a specific error describing what is invalid.
//
// Design decision: We validate at the config level rather than at each
// point of use to fail fast and provide clear error messages upfront.
// This is called once after CLI parsing, before any crawling begins.
//
// We chose to return the first error found rather than collecting all errors
// because fixing one error often makes others irrelevant.
func (c *Config) Validate() error {
	// We must have at least one seed to start from
	if len(c.Seeds) == 0 {
		return ErrNoSeeds
	}

	// MaxPages must be positive; zero would mean no crawling at all
	if c.MaxPages <= 0 {
		return ErrInvalidMaxPages
	}

	// MaxHops must be non-negative; zero means only the seed pages
	if c.MaxHops < 0 {
		return ErrInvalidMaxHops
	}

	// Workers must be positive; zero would mean no fetching
	if c.Workers <= 0 {
		return ErrInvalidWorkers
	}

	// Timeout must be positive; zero timeout would cause immediate failures
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	// Deadline must be non-negative; zero means unbounded
	if c.Deadline < 0 {
		return ErrInvalidDeadline
	}

	// JSONReport and MarkdownReport are mutually exclusive
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	// MaxBodySize must be non-negative if set
	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}

	return nil
}
