package crawler

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrUnsupportedScheme is returned by Normalize for links that are not
// http or https (javascript:, mailto:, ftp:, and so on). Callers drop
// such links without counting them against any budget.
var ErrUnsupportedScheme = errors.New("unsupported URL scheme")

// Normalize derives the canonical identity key for a raw link. Two raw
// links with the same identity refer to the same page for deduplication
// purposes.
//
// The derivation: resolve relative references against base (if non-nil),
// lowercase scheme and host, strip userinfo, fragment, and default ports,
// sort query parameters, and canonicalize an empty path to "/". Paths
// beyond the root keep their trailing slash as-is because /a and /a/ may
// be distinct resources.
//
// Normalize is a pure function: the same input always yields the same
// identity.
func Normalize(raw string, base *url.URL) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", errors.New("empty URL")
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse URL %q: %w", raw, err)
	}

	if base != nil {
		u = base.ResolveReference(u)
	}

	u.Scheme = strings.ToLower(u.Scheme)
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("%q: %w", u.Scheme, ErrUnsupportedScheme)
	}

	u.Host = strings.ToLower(u.Host)
	if u.Host == "" {
		return "", fmt.Errorf("no host in URL %q", raw)
	}

	// Strip default ports: http://host:80/ and http://host/ are the same page.
	if (u.Scheme == "http" && u.Port() == "80") ||
		(u.Scheme == "https" && u.Port() == "443") {
		u.Host = u.Hostname()
	}

	// Fragments never change the fetched content.
	u.Fragment = ""
	u.RawFragment = ""

	// Credentials are not part of page identity.
	u.User = nil

	// Empty path and "/" are equivalent.
	if u.Path == "" {
		u.Path = "/"
	}

	// url.Values.Encode sorts by key, giving a stable query order.
	if u.RawQuery != "" {
		u.RawQuery = u.Query().Encode()
	}

	return u.String(), nil
}

// hostOf extracts the host portion of a normalized identity.
func hostOf(identity string) string {
	u, err := url.Parse(identity)
	if err != nil {
		return ""
	}
	return u.Host
}
