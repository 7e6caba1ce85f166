// Package model defines the data structures shared across webcorpus.
//
// The central types are CrawlResult, which describes one fetch attempt
// (successful or failed) of a single page, and RunSummary, which describes
// the outcome of a whole crawl run. Both are plain data structures with
// JSON tags so they can be persisted by the sink and database packages
// without conversion.
//
// Design decision: We keep models in a dedicated package rather than in
// the crawler package because:
//  1. The sink, database, and report packages all consume them
//  2. It avoids import cycles between the crawler and its outputs
//  3. Serialization concerns stay out of the crawl logic
package model
