package crawler

import (
	"strings"
	"testing"
)

// TestParser tests HTML title and link extraction.
func TestParser(t *testing.T) {
	t.Parallel()

	t.Run("extracts title", func(t *testing.T) {
		t.Parallel()

		html := `<html><head><title>Test Page</title></head><body></body></html>`
		parser, err := NewParser("http://a.test/page")
		if err != nil {
			t.Fatalf("failed to create parser: %v", err)
		}

		result, err := parser.Parse(strings.NewReader(html))
		if err != nil {
			t.Fatalf("failed to parse: %v", err)
		}

		if result.Title != "Test Page" {
			t.Errorf("expected title 'Test Page', got %q", result.Title)
		}
	})

	t.Run("resolves and classifies links", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
			<a href="/relative">Relative</a>
			<a href="http://a.test/absolute">Same Host</a>
			<a href="http://b.test/elsewhere">Other Host</a>
		</body></html>`

		parser, err := NewParser("http://a.test/page")
		if err != nil {
			t.Fatalf("failed to create parser: %v", err)
		}

		result, err := parser.Parse(strings.NewReader(html))
		if err != nil {
			t.Fatalf("failed to parse: %v", err)
		}

		if len(result.Links) != 3 {
			t.Errorf("expected 3 links, got %d: %v", len(result.Links), result.Links)
		}
		if result.Links[0] != "http://a.test/relative" {
			t.Errorf("relative link not resolved: %q", result.Links[0])
		}
		if len(result.InternalLinks) != 2 {
			t.Errorf("expected 2 internal links, got %d: %v", len(result.InternalLinks), result.InternalLinks)
		}
		if len(result.ExternalLinks) != 1 {
			t.Errorf("expected 1 external link, got %d: %v", len(result.ExternalLinks), result.ExternalLinks)
		}
	})

	t.Run("skips non-page schemes and bare fragments", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
			<a href="javascript:void(0)">JS</a>
			<a href="mailto:x@a.test">Mail</a>
			<a href="tel:+123">Tel</a>
			<a href="data:text/plain,hi">Data</a>
			<a href="#">Top</a>
			<a href="http://a.test/real">Real</a>
		</body></html>`

		parser, err := NewParser("http://a.test/")
		if err != nil {
			t.Fatalf("failed to create parser: %v", err)
		}

		result, err := parser.Parse(strings.NewReader(html))
		if err != nil {
			t.Fatalf("failed to parse: %v", err)
		}

		if len(result.Links) != 1 {
			t.Errorf("expected 1 link, got %d: %v", len(result.Links), result.Links)
		}
	})

	t.Run("tolerates malformed HTML", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><a href="/ok">unclosed<p><div></body>`
		parser, err := NewParser("http://a.test/")
		if err != nil {
			t.Fatalf("failed to create parser: %v", err)
		}

		result, err := parser.Parse(strings.NewReader(html))
		if err != nil {
			t.Fatalf("failed to parse: %v", err)
		}
		if len(result.Links) != 1 {
			t.Errorf("expected 1 link from malformed HTML, got %d", len(result.Links))
		}
	})
}

// TestMatchPattern tests glob path matching.
func TestMatchPattern(t *testing.T) {
	t.Parallel()

	tests := []struct {
		pattern string
		path    string
		want    bool
	}{
		{"/admin/*", "/admin/dashboard", true},
		{"/admin/*", "/admin", true},
		{"/admin/*", "/public", false},
		{"*.pdf", "/docs/file.pdf", true},
		{"*.pdf", "/docs/file.html", false},
		{"/api/v?", "/api/v1", true},
		{"/api/v?", "/api/v10", false},
		{"/logout*", "/logout", true},
		{"/logout*", "/logout?next=/", true},
	}

	for _, tt := range tests {
		if got := matchPattern(tt.pattern, tt.path); got != tt.want {
			t.Errorf("matchPattern(%q, %q) = %v, want %v", tt.pattern, tt.path, got, tt.want)
		}
	}
}

// TestPathFilter tests the combined ignore/follow policy.
func TestPathFilter(t *testing.T) {
	t.Parallel()

	t.Run("empty filter allows everything", func(t *testing.T) {
		t.Parallel()

		pf := pathFilter{}
		if !pf.allow("http://a.test/anything") {
			t.Error("empty filter rejected a URL")
		}
	})

	t.Run("ignore wins over follow", func(t *testing.T) {
		t.Parallel()

		pf := pathFilter{
			ignore: []string{"/private/*"},
			follow: []string{"/private/*", "/public/*"},
		}
		if pf.allow("http://a.test/private/x") {
			t.Error("ignored path allowed")
		}
		if !pf.allow("http://a.test/public/x") {
			t.Error("followed path rejected")
		}
	})

	t.Run("follow restricts to matching paths", func(t *testing.T) {
		t.Parallel()

		pf := pathFilter{follow: []string{"/docs/*"}}
		if !pf.allow("http://a.test/docs/page") {
			t.Error("matching path rejected")
		}
		if pf.allow("http://a.test/blog/page") {
			t.Error("non-matching path allowed with follow patterns set")
		}
	})
}
