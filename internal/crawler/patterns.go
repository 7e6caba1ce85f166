package crawler

import (
	"net/url"
	"path/filepath"
	"strings"
)

// pathFilter decides whether a discovered link should be crawled based on
// glob patterns matched against the URL path.
//
// Logic:
//  1. If the path matches any ignore pattern, skip it
//  2. If follow patterns are set and the path matches none, skip it
//  3. Otherwise crawl it
type pathFilter struct {
	// ignore are path patterns to skip (e.g. "/logout*", "*.pdf").
	ignore []string

	// follow restricts crawling to matching paths when non-empty.
	follow []string
}

// allow reports whether the URL passes the ignore/follow patterns.
func (pf *pathFilter) allow(rawURL string) bool {
	if len(pf.ignore) == 0 && len(pf.follow) == 0 {
		return true
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}

	path := u.Path
	if path == "" {
		path = "/"
	}

	for _, pattern := range pf.ignore {
		if matchPattern(pattern, path) {
			return false
		}
	}

	if len(pf.follow) > 0 {
		for _, pattern := range pf.follow {
			if matchPattern(pattern, path) {
				return true
			}
		}
		return false
	}

	return true
}

// matchPattern checks if a path matches a glob pattern. Patterns use
// * for any sequence of non-separator characters and ? for a single
// character. Two common shapes get fast paths:
//
//   - "/admin/*" matches "/admin" and anything below it
//   - "*.pdf" matches any path ending in ".pdf"
func matchPattern(pattern, path string) bool {
	if strings.HasSuffix(pattern, "/*") {
		prefix := strings.TrimSuffix(pattern, "/*")
		if strings.HasPrefix(path, prefix+"/") || path == prefix {
			return true
		}
	}

	if strings.HasPrefix(pattern, "*.") {
		if strings.HasSuffix(path, strings.TrimPrefix(pattern, "*")) {
			return true
		}
	}

	if matched, err := filepath.Match(pattern, path); err == nil && matched {
		return true
	}

	// Patterns without a separator also match against the filename alone,
	// so "*.pdf" works for "/docs/file.pdf".
	if strings.Contains(pattern, "*") && !strings.Contains(pattern, "/") {
		if matched, err := filepath.Match(pattern, filepath.Base(path)); err == nil && matched {
			return true
		}
	}

	return false
}
