// Package crawler implements the bounded breadth-first crawl engine.
//
// # Architecture
//
// The package is designed around the Crawler type, which owns a Frontier
// (the hop-tagged queue of discovered-but-unvisited URLs) and a fixed-size
// worker pool. Workers pull frontier entries, fetch pages, extract and
// normalize outbound links, and feed new discoveries back into the
// frontier at hop+1 until one of the termination conditions fires.
//
// # Bounds
//
// Three bounds apply simultaneously:
//   - Page budget: successful and failed fetch attempts together never
//     exceed the configured maximum.
//   - Hop limit: a link discovered on a hop-h page is enqueued at hop h+1
//     and silently dropped when h+1 exceeds the limit.
//   - Deadline: an optional wall-clock bound; when it passes, no new work
//     is dispatched and in-flight fetches run to their own timeout.
//
// A run also terminates when the frontier drains with no work in flight.
//
// # Components
//
//   - Crawler: the orchestrator that validates configuration, seeds the
//     frontier, and drives a run to completion
//   - Frontier: FIFO queue with hop tags and an atomic take-and-mark-visited
//     step guaranteeing each URL identity is dispatched at most once
//   - Fetcher: the network boundary; HTTPFetcher applies the per-request
//     timeout and body size cap
//   - Parser: HTML link and title extraction on golang.org/x/net/html
//   - Normalize: canonical URL identity derivation used for deduplication
//
// # Usage
//
//	c := crawler.New(crawler.WithMaxPages(100), crawler.WithMaxHops(2))
//	summary, err := c.Crawl(ctx, seeds)
package crawler
