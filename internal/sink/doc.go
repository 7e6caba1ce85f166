// Package sink persists crawl results.
//
// The crawl engine hands every completed fetch attempt, successful or
// failed, to a Sink. Persistence is best-effort: a sink write failure is
// logged by the caller and never aborts the run, so partial output is
// possible but attempted pages are never silently lost while the sink is
// healthy.
//
// JSONLSink is the primary implementation: newline-delimited JSON files
// under an output directory, rotated once a file reaches a size limit so
// downstream corpus tooling can process fixed-size chunks.
package sink
