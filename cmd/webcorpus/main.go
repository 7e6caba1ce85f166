// Package main provides the entry point for the webcorpus CLI.
//
// Webcorpus is a bounded parallel web crawler for offline corpus
// collection. It fetches pages breadth-first from a set of seed URLs and
// stores page snapshots as newline-delimited JSON for later analysis.
//
// Usage:
//
//	webcorpus crawl --seed-file seeds.txt
//	webcorpus crawl https://example.com --num-pages 50
//
// See --help for all available options.
package main

// main is the entry point for webcorpus.
func main() {
	Execute()
}
