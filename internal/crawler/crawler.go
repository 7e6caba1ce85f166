package crawler

import (
	"context"
	"log/slog"
	"time"

	"github.com/nao1215/webcorpus/internal/model"
	"github.com/nao1215/webcorpus/internal/sink"
)

// Default engine settings. The CLI layer overrides these from flags; the
// defaults here make the engine usable as a library with no options.
const (
	// DefaultMaxPages bounds a run to a modest corpus when the caller
	// sets no budget.
	DefaultMaxPages = 100

	// DefaultMaxHops of 1 fetches the seeds and the pages they link to,
	// which is the cheapest crawl that actually expands.
	DefaultMaxHops = 1

	// DefaultWorkers balances throughput against being a bad citizen on
	// the crawled hosts.
	DefaultWorkers = 16

	// DefaultRequestTimeout bounds each individual fetch. Slow pages
	// count as failed attempts rather than stalling a slot forever.
	DefaultRequestTimeout = 60 * time.Second

	// DefaultUserAgent identifies webcorpus in HTTP requests so
	// operators can recognize crawler traffic in their logs.
	DefaultUserAgent = "webcorpus/1.0 (+https://github.com/nao1215/webcorpus)"

	// DefaultMaxBodySize caps response bodies at 5 MB, enough for any
	// reasonable HTML page while bounding memory per slot.
	DefaultMaxBodySize = 5 * 1024 * 1024
)

// Crawler orchestrates a bounded breadth-first crawl: it owns the
// frontier and the worker pool, seeds the frontier from input, drives the
// run to completion, and emits results to the configured sink.
//
// A Crawler is stateless between runs: each Crawl call builds a fresh
// frontier and counters, so calls are independent and repeatable.
type Crawler struct {
	maxPages       int
	maxHops        int
	workers        int
	requestTimeout time.Duration

	// deadline is the overall wall-clock bound for a run; zero means
	// the run is bounded by budget and frontier exhaustion only.
	deadline time.Duration

	userAgent   string
	maxBodySize int64
	headers     map[string]string
	cookie      string

	// sameHostOnly restricts link following to the seed hosts.
	sameHostOnly bool

	ignorePatterns []string
	followPatterns []string

	fetcher Fetcher
	out     sink.Sink
	logger  *slog.Logger
}

// Option configures a Crawler.
type Option func(*Crawler)

// WithMaxPages sets the page budget: the maximum number of fetch
// attempts (successful or failed) a run may consume.
func WithMaxPages(n int) Option {
	return func(c *Crawler) { c.maxPages = n }
}

// WithMaxHops sets the hop limit. 0 = only the seed pages, 1 = seeds
// plus directly linked pages, and so on.
func WithMaxHops(n int) Option {
	return func(c *Crawler) { c.maxHops = n }
}

// WithWorkers sets the number of concurrent fetch slots.
func WithWorkers(n int) Option {
	return func(c *Crawler) { c.workers = n }
}

// WithRequestTimeout sets the per-request fetch timeout.
func WithRequestTimeout(d time.Duration) Option {
	return func(c *Crawler) { c.requestTimeout = d }
}

// WithDeadline sets the overall wall-clock bound for a run. Zero means
// unbounded; the run then stops on budget or frontier exhaustion.
func WithDeadline(d time.Duration) Option {
	return func(c *Crawler) { c.deadline = d }
}

// WithUserAgent sets a custom User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Crawler) { c.userAgent = ua }
}

// WithMaxBodySize sets the maximum response body size read per page.
func WithMaxBodySize(n int64) Option {
	return func(c *Crawler) {
		if n > 0 {
			c.maxBodySize = n
		}
	}
}

// WithHeaders sets extra HTTP headers sent with every request.
func WithHeaders(headers map[string]string) Option {
	return func(c *Crawler) { c.headers = headers }
}

// WithCookie sets a raw Cookie header value sent with every request.
func WithCookie(cookie string) Option {
	return func(c *Crawler) { c.cookie = cookie }
}

// WithSameHostOnly restricts link following to the hosts of the seed
// URLs. Cross-host links are then dropped at discovery time.
func WithSameHostOnly(on bool) Option {
	return func(c *Crawler) { c.sameHostOnly = on }
}

// WithIgnorePatterns sets URL path patterns to skip during crawling.
// Patterns use glob syntax (e.g. "/logout*", "*.pdf").
func WithIgnorePatterns(patterns []string) Option {
	return func(c *Crawler) { c.ignorePatterns = patterns }
}

// WithFollowPatterns sets URL path patterns to follow during crawling.
// If set, only matching paths are crawled.
func WithFollowPatterns(patterns []string) Option {
	return func(c *Crawler) { c.followPatterns = patterns }
}

// WithFetcher injects a custom Fetcher. Tests use this to crawl
// in-memory pages; the default is an HTTPFetcher built from the
// crawler's settings.
func WithFetcher(f Fetcher) Option {
	return func(c *Crawler) { c.fetcher = f }
}

// WithSink sets where crawl results are persisted. Defaults to
// sink.Discard.
func WithSink(s sink.Sink) Option {
	return func(c *Crawler) { c.out = s }
}

// WithLogger sets the structured logger used for crawl observability.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Crawler) { c.logger = logger }
}

// New creates a Crawler with the given options applied over the package
// defaults.
func New(opts ...Option) *Crawler {
	c := &Crawler{
		maxPages:       DefaultMaxPages,
		maxHops:        DefaultMaxHops,
		workers:        DefaultWorkers,
		requestTimeout: DefaultRequestTimeout,
		userAgent:      DefaultUserAgent,
		maxBodySize:    DefaultMaxBodySize,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.out == nil {
		c.out = sink.Discard{}
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}

	return c
}

// validate checks the engine configuration before a run starts.
func (c *Crawler) validate() error {
	if c.maxPages <= 0 {
		return ErrInvalidMaxPages
	}
	if c.maxHops < 0 {
		return ErrInvalidMaxHops
	}
	if c.workers <= 0 {
		return ErrInvalidWorkers
	}
	if c.requestTimeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.deadline < 0 {
		return ErrInvalidDeadline
	}
	return nil
}

// Crawl runs one bounded breadth-first crawl from the given seed URLs
// and returns a summary on any termination condition. Configuration
// problems surface as errors before any fetching starts; per-page
// failures are recorded in the result stream and never abort the run.
func (c *Crawler) Crawl(ctx context.Context, seeds []string) (*model.RunSummary, error) {
	if err := c.validate(); err != nil {
		return nil, err
	}

	start := time.Now()

	frontier := NewFrontier(c.maxHops)
	seeded := frontier.Seed(seeds)
	if seeded == 0 {
		return nil, ErrNoSeeds
	}

	var allowHosts map[string]bool
	if c.sameHostOnly {
		allowHosts = make(map[string]bool, seeded)
		for _, seed := range seeds {
			if identity, err := Normalize(seed, nil); err == nil {
				allowHosts[hostOf(identity)] = true
			}
		}
	}

	fetcher := c.fetcher
	if fetcher == nil {
		fetcher = NewHTTPFetcher(c.requestTimeout, c.userAgent, c.maxBodySize, c.headers, c.cookie)
	}

	var deadline time.Time
	if c.deadline > 0 {
		deadline = start.Add(c.deadline)
	}

	p := &pool{
		workers:    c.workers,
		maxPages:   c.maxPages,
		deadline:   deadline,
		frontier:   frontier,
		fetcher:    fetcher,
		out:        c.out,
		logger:     c.logger,
		allowHosts: allowHosts,
		filter: pathFilter{
			ignore: c.ignorePatterns,
			follow: c.followPatterns,
		},
		state: newRunState(),
	}

	c.logger.Info("starting crawl",
		"seeds", seeded,
		"maxPages", c.maxPages,
		"maxHops", c.maxHops,
		"workers", c.workers,
		"requestTimeout", c.requestTimeout,
		"deadline", c.deadline,
	)

	p.run(ctx)

	summary := &model.RunSummary{
		Seeds:           seeded,
		PagesCrawled:    p.state.crawled,
		PagesFailed:     p.state.failed,
		LinksDiscovered: p.state.links,
		UniqueURLs:      frontier.Seen(),
		StopReason:      p.state.reason,
		StartedAt:       start,
		Elapsed:         time.Since(start),
	}

	c.logger.Info("crawl finished",
		"pagesCrawled", summary.PagesCrawled,
		"pagesFailed", summary.PagesFailed,
		"stopReason", summary.StopReason.String(),
		"elapsed", summary.Elapsed,
	)

	return summary, nil
}
