package crawler

import (
	"bytes"
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/webcorpus/internal/model"
	"github.com/nao1215/webcorpus/internal/sink"
)

// frontierPollInterval is how long an idle slot waits before re-checking
// the frontier when it is momentarily empty but other work is in flight.
const frontierPollInterval = 25 * time.Millisecond

// progressLogInterval is how many completed attempts pass between
// progress log lines.
const progressLogInterval = 25

// runState holds the mutable counters shared by all worker slots. Every
// mutation goes through methods that hold mu; no worker ever does a raw
// read-modify-write, and no I/O happens while mu is held.
type runState struct {
	mu sync.Mutex

	// started counts budget-consuming attempts dispatched so far.
	// Dispatch is gated on this, so completed attempts can never exceed
	// the budget.
	started int

	// crawled and failed count completed attempts by outcome.
	crawled int
	failed  int

	// links counts outbound links seen across all pages, pre-dedup.
	links int

	// inFlight counts slots currently fetching.
	inFlight int

	// stop is closed exactly once when a termination condition fires.
	// Workers check it at every loop boundary.
	stop chan struct{}

	// stopped and reason record which condition fired first.
	stopped bool
	reason  model.StopReason
}

func newRunState() *runState {
	return &runState{stop: make(chan struct{})}
}

// signalStop records the first termination reason and releases all
// waiting slots. Later calls with other reasons are no-ops.
func (s *runState) signalStop(reason model.StopReason) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.signalStopLocked(reason)
}

// signalStopLocked is signalStop for callers already holding mu.
func (s *runState) signalStopLocked(reason model.StopReason) {
	if s.stopped {
		return
	}
	s.stopped = true
	s.reason = reason
	close(s.stop)
}

// reserveStatus is the outcome of a dispatch attempt.
type reserveStatus int

const (
	// reserveOK means an entry was taken and the slot should fetch it.
	reserveOK reserveStatus = iota

	// reserveWait means the frontier is momentarily empty but other
	// slots are fetching; the slot should wait and retry.
	reserveWait

	// reserveDone means a termination condition fired; the slot should
	// exit.
	reserveDone
)

// pool runs up to a fixed number of concurrent fetch-extract tasks over a
// frontier, enforcing the page budget and deadline.
type pool struct {
	workers  int
	maxPages int

	// deadline is the absolute wall-clock bound; zero means unbounded.
	deadline time.Time

	frontier *Frontier
	fetcher  Fetcher
	out      sink.Sink
	logger   *slog.Logger

	// allowHosts restricts link following to the seed hosts when
	// non-nil.
	allowHosts map[string]bool

	filter pathFilter
	state  *runState
}

// run executes the crawl loop and blocks until every slot is idle, so no
// background work survives the call.
func (p *pool) run(ctx context.Context) {
	g := new(errgroup.Group)
	for i := 0; i < p.workers; i++ {
		g.Go(func() error {
			p.work(ctx)
			return nil
		})
	}
	_ = g.Wait() //nolint:errcheck // workers report outcomes via runState, never errors

	// All slots idle: if the context was canceled before any bound hit,
	// record that as the stop reason.
	if ctx.Err() != nil {
		p.state.signalStop(model.StopCanceled)
	}
}

// work is one slot's dispatch loop.
func (p *pool) work(ctx context.Context) {
	for {
		select {
		case <-p.state.stop:
			return
		case <-ctx.Done():
			p.state.signalStop(model.StopCanceled)
			return
		default:
		}

		if !p.deadline.IsZero() && !time.Now().Before(p.deadline) {
			p.state.signalStop(model.StopDeadline)
			return
		}

		entry, status := p.reserve()
		switch status {
		case reserveDone:
			return
		case reserveWait:
			select {
			case <-p.state.stop:
				return
			case <-ctx.Done():
				p.state.signalStop(model.StopCanceled)
				return
			case <-time.After(frontierPollInterval):
			}
			continue
		case reserveOK:
			p.process(ctx, entry)
		}
	}
}

// reserve atomically decides whether this slot may dispatch: it gates on
// the page budget, takes the next frontier entry, and updates the
// started/in-flight counters in one critical section. The frontier-empty
// versus crawl-finished distinction depends on the in-flight count, which
// is why the check happens under the state lock.
func (p *pool) reserve() (Entry, reserveStatus) {
	p.state.mu.Lock()
	defer p.state.mu.Unlock()

	if p.state.stopped {
		return Entry{}, reserveDone
	}

	if p.state.started >= p.maxPages {
		p.state.signalStopLocked(model.StopBudget)
		return Entry{}, reserveDone
	}

	entry, ok := p.frontier.Take()
	if !ok {
		if p.state.inFlight == 0 {
			p.state.signalStopLocked(model.StopExhausted)
			return Entry{}, reserveDone
		}
		return Entry{}, reserveWait
	}

	p.state.started++
	p.state.inFlight++
	return entry, reserveOK
}

// process fetches one entry, emits its result, and offers discovered
// links back to the frontier. No locks are held during the fetch.
func (p *pool) process(ctx context.Context, entry Entry) {
	start := time.Now()

	p.logger.Debug("fetching page",
		"url", entry.RawURL,
		"hop", entry.Hop,
	)

	fetched, err := p.fetcher.Fetch(ctx, entry.RawURL)

	result := &model.CrawlResult{
		Identity:       entry.Identity,
		URL:            entry.RawURL,
		Hop:            entry.Hop,
		DiscoveredFrom: entry.DiscoveredFrom,
		FetchedAt:      time.Now(),
		Elapsed:        time.Since(start),
	}

	var links []string
	if err != nil {
		result.Status = model.StatusFailed
		result.FailureReason = err.Error()
		if fe, ok := err.(*FetchError); ok {
			result.StatusCode = fe.StatusCode
			result.FailureReason = fe.Reason
		}
		p.logger.Debug("fetch failed",
			"url", entry.RawURL,
			"reason", result.FailureReason,
		)
	} else {
		result.Status = model.StatusSuccess
		result.StatusCode = fetched.StatusCode
		result.ContentType = fetched.ContentType
		result.Raw = fetched.Body
		result.Snapshot = string(fetched.Body)
		result.ComputeHash()
		result.TruncateSnapshot()
		result.TruncateRaw()

		if result.IsHTML() {
			links = p.extractLinks(entry, fetched.Body, result)
		}
	}

	if err := p.out.Write(result); err != nil {
		// Best-effort persistence: log and keep crawling.
		p.logger.Warn("sink write failed",
			"url", entry.RawURL,
			"error", err,
		)
	}

	// Offer before decrementing in-flight so a slot that observes an
	// empty frontier with zero in-flight work knows no more links can
	// arrive.
	for _, link := range links {
		p.offer(entry, link)
	}

	p.finish(result, len(links))
}

// extractLinks parses the page body and returns its outbound links,
// recording the title on the result.
func (p *pool) extractLinks(entry Entry, body []byte, result *model.CrawlResult) []string {
	parser, err := NewParser(entry.RawURL)
	if err != nil {
		return nil
	}

	parsed, err := parser.Parse(bytes.NewReader(body))
	if err != nil {
		p.logger.Debug("parse failed", "url", entry.RawURL, "error", err)
		return nil
	}

	result.Title = parsed.Title
	result.Links = parsed.Links
	return parsed.Links
}

// offer normalizes a discovered link and inserts it into the frontier at
// the next hop level, applying the host and path policies. Links that
// fail normalization are dropped silently; that is expected steady-state
// behavior, not an error.
func (p *pool) offer(from Entry, link string) {
	identity, err := Normalize(link, nil)
	if err != nil {
		return
	}

	if p.allowHosts != nil && !p.allowHosts[hostOf(identity)] {
		return
	}
	if !p.filter.allow(identity) {
		return
	}

	if p.frontier.Offer(identity, link, from.Identity, from.Hop+1) {
		p.logger.Debug("discovered link",
			"url", link,
			"hop", from.Hop+1,
			"from", from.Identity,
		)
	}
}

// finish reconciles the shared counters after an attempt completes and
// fires the budget stop once the final completion lands.
func (p *pool) finish(result *model.CrawlResult, linkCount int) {
	p.state.mu.Lock()
	p.state.inFlight--
	p.state.links += linkCount
	if result.Status == model.StatusSuccess {
		p.state.crawled++
	} else {
		p.state.failed++
	}
	completed := p.state.crawled + p.state.failed
	if completed >= p.maxPages {
		p.state.signalStopLocked(model.StopBudget)
	}
	pending := p.frontier.Pending()
	p.state.mu.Unlock()

	if completed%progressLogInterval == 0 {
		p.logger.Info("crawl progress",
			"completed", completed,
			"pending", pending,
		)
	}
}
