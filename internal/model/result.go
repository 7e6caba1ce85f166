package model

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// CrawlStatus describes the outcome of a single fetch attempt.
type CrawlStatus string

const (
	// StatusSuccess means the page was fetched and its body was read.
	StatusSuccess CrawlStatus = "success"

	// StatusFailed means the fetch attempt failed (timeout, connection
	// error, or non-2xx response). Failed attempts still consume one unit
	// of the page budget so that a wall of dead links cannot make a run
	// overshoot its configured cost.
	StatusFailed CrawlStatus = "failed"
)

// MaxSnapshotSize is the maximum size of the text snapshot in bytes.
// We limit this to prevent memory issues with very large pages.
const MaxSnapshotSize = 512 * 1024 // 512 KB

// MaxPageSize is the maximum size of raw page content to store.
// Larger pages are truncated to this size.
const MaxPageSize = 5 * 1024 * 1024 // 5 MB

// CrawlResult describes one dispatched page: the identity it was
// deduplicated under, where it sits in the hop graph, and either the
// fetched content or the reason the fetch failed.
//
// A CrawlResult is created exactly once per dispatched URL identity and
// handed to the output sink. The crawler does not retain results after
// emission; sinks own them from that point on.
type CrawlResult struct {
	// Identity is the normalized URL key the page was deduplicated under.
	Identity string `json:"identity"`

	// URL is the raw URL as discovered, before normalization.
	URL string `json:"url"`

	// Hop is the number of link traversals from the nearest seed.
	// Seeds have hop 0.
	Hop int `json:"hop"`

	// DiscoveredFrom is the identity of the page that linked here.
	// Empty for seeds.
	DiscoveredFrom string `json:"discovered_from,omitempty"`

	// Status records whether the fetch attempt succeeded.
	Status CrawlStatus `json:"status"`

	// FailureReason holds a short description of why the fetch failed.
	// Empty on success.
	FailureReason string `json:"failure_reason,omitempty"`

	// StatusCode is the HTTP response status code, zero if no response
	// was received at all.
	StatusCode int `json:"status_code,omitempty"`

	// ContentType is the MIME type of the response.
	ContentType string `json:"content_type,omitempty"`

	// Title is the page title extracted from the <title> tag.
	// Empty for non-HTML content and failed fetches.
	Title string `json:"title,omitempty"`

	// Snapshot is the page body as text, limited to MaxSnapshotSize.
	// This is what corpus consumers index.
	Snapshot string `json:"snapshot,omitempty"`

	// Raw contains the raw response body bytes, limited to MaxPageSize.
	// Excluded from JSON output to keep corpus files compact; the hash
	// below is persisted instead.
	Raw []byte `json:"-"`

	// Hash is the SHA-256 hash of the raw content.
	// Used for deduplication and change detection across runs.
	Hash string `json:"hash,omitempty"`

	// Links are the outbound links discovered on this page, resolved to
	// absolute URLs. Empty for failed fetches.
	Links []string `json:"links,omitempty"`

	// FetchedAt is when the fetch attempt completed.
	FetchedAt time.Time `json:"fetched_at"`

	// Elapsed is how long the fetch attempt took, including a timed-out
	// wait for pages that never answered.
	Elapsed time.Duration `json:"elapsed"`
}

// ComputeHash calculates and sets the SHA-256 hash of the result's raw
// content. Call after setting Raw.
func (r *CrawlResult) ComputeHash() {
	if len(r.Raw) == 0 {
		r.Hash = ""
		return
	}

	hash := sha256.Sum256(r.Raw)
	r.Hash = hex.EncodeToString(hash[:])
}

// TruncateSnapshot ensures the snapshot doesn't exceed MaxSnapshotSize.
func (r *CrawlResult) TruncateSnapshot() {
	if len(r.Snapshot) > MaxSnapshotSize {
		r.Snapshot = r.Snapshot[:MaxSnapshotSize]
	}
}

// TruncateRaw ensures the raw content doesn't exceed MaxPageSize.
func (r *CrawlResult) TruncateRaw() {
	if len(r.Raw) > MaxPageSize {
		r.Raw = r.Raw[:MaxPageSize]
	}
}

// IsHTML returns true if the result's content type indicates HTML.
func (r *CrawlResult) IsHTML() bool {
	return r.ContentType == "text/html" ||
		r.ContentType == "application/xhtml+xml" ||
		// Handle content types with charset suffix
		len(r.ContentType) > 9 && r.ContentType[:9] == "text/html"
}
