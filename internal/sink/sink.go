package sink

import "github.com/nao1215/webcorpus/internal/model"

// Sink receives one CrawlResult per completed fetch attempt.
// Implementations must be safe for concurrent Write calls because pool
// workers emit results from multiple goroutines.
type Sink interface {
	// Write persists a single crawl result.
	Write(result *model.CrawlResult) error

	// Close flushes and releases any underlying resources.
	Close() error
}

// MultiSink writes every result to all wrapped sinks.
//
// Design decision: We implement this as a separate type rather than
// using io.MultiWriter because our Sink interface writes results, not
// raw bytes.
type MultiSink struct {
	sinks []Sink
}

// NewMultiSink creates a Sink that writes to all provided sinks.
func NewMultiSink(sinks ...Sink) *MultiSink {
	return &MultiSink{sinks: sinks}
}

// Write persists the result to every wrapped sink, continuing past
// failures and returning the first error encountered so no sink is
// starved by another's failure.
func (m *MultiSink) Write(result *model.CrawlResult) error {
	var firstErr error
	for _, s := range m.sinks {
		if err := s.Write(result); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Close closes every wrapped sink, returning the first error.
func (m *MultiSink) Close() error {
	var firstErr error
	for _, s := range m.sinks {
		if err := s.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Discard is a Sink that drops every result. Useful for tests and dry
// runs.
type Discard struct{}

// Write discards the result.
func (Discard) Write(*model.CrawlResult) error { return nil }

// Close is a no-op.
func (Discard) Close() error { return nil }
