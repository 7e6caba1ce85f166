package crawler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// FetchResult is the raw outcome of a successful page fetch.
type FetchResult struct {
	// StatusCode is the HTTP response status code.
	StatusCode int

	// ContentType is the media type from the Content-Type header,
	// without parameters.
	ContentType string

	// Headers contains all response headers.
	Headers http.Header

	// Body is the response body, capped at the configured size limit.
	Body []byte
}

// FetchError describes a failed fetch attempt: a timeout, a connection
// error, or a non-2xx response. The crawl records it as a failed result
// consuming one unit of page budget and moves on; fetches are never
// retried within a run.
type FetchError struct {
	// URL is the URL that failed.
	URL string

	// StatusCode is the HTTP status if a response was received, zero
	// otherwise.
	StatusCode int

	// Reason is a short machine-friendly cause: "timeout",
	// "connection", or "http <code>".
	Reason string

	// Err is the underlying error, if any.
	Err error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch %s: %s: %v", e.URL, e.Reason, e.Err)
	}
	return fmt.Sprintf("fetch %s: %s", e.URL, e.Reason)
}

// Unwrap returns the underlying error for errors.Is/As.
func (e *FetchError) Unwrap() error { return e.Err }

// Fetcher is the network boundary of the crawl engine. Implementations
// own the actual HTTP call; the engine only sees content or a failure
// reason. The context carries cancellation from the orchestrator; the
// per-request timeout is the implementation's responsibility.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (*FetchResult, error)
}

// HTTPFetcher fetches pages over plain HTTP(S) with a per-request
// timeout and a response body size cap.
type HTTPFetcher struct {
	// client performs the requests. Redirect handling and connection
	// pooling are left to it.
	client *http.Client

	// timeout bounds each individual request, from dial to the last
	// body byte.
	timeout time.Duration

	// userAgent is sent with every request.
	userAgent string

	// headers are extra request headers, applied after the defaults.
	headers map[string]string

	// cookie is a raw Cookie header value, empty for none.
	cookie string

	// maxBodySize caps how many body bytes are read per response.
	maxBodySize int64
}

// NewHTTPFetcher creates a fetcher with the given per-request timeout and
// body size cap. The headers map and cookie may be empty.
func NewHTTPFetcher(timeout time.Duration, userAgent string, maxBodySize int64, headers map[string]string, cookie string) *HTTPFetcher {
	return &HTTPFetcher{
		client:      &http.Client{},
		timeout:     timeout,
		userAgent:   userAgent,
		headers:     headers,
		cookie:      cookie,
		maxBodySize: maxBodySize,
	}
}

// Fetch performs a GET request for rawURL. Timeouts, connection errors,
// and non-2xx responses are returned as *FetchError.
func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) (*FetchResult, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &FetchError{URL: rawURL, Reason: "invalid request", Err: err}
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	for k, v := range f.headers {
		req.Header.Set(k, v)
	}
	if f.cookie != "" {
		req.Header.Set("Cookie", f.cookie)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: rawURL, Reason: failureReason(err), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{
			URL:        rawURL,
			StatusCode: resp.StatusCode,
			Reason:     fmt.Sprintf("http %d", resp.StatusCode),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize))
	if err != nil {
		return nil, &FetchError{URL: rawURL, StatusCode: resp.StatusCode, Reason: failureReason(err), Err: err}
	}

	return &FetchResult{
		StatusCode:  resp.StatusCode,
		ContentType: mediaType(resp.Header.Get("Content-Type")),
		Headers:     resp.Header,
		Body:        body,
	}, nil
}

// failureReason classifies a transport error for the failure record.
func failureReason(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "timeout"
	}
	if errors.Is(err, context.Canceled) {
		return "canceled"
	}
	return "connection"
}

// mediaType strips parameters from a Content-Type header value.
func mediaType(contentType string) string {
	mt, _, _ := strings.Cut(contentType, ";")
	return strings.TrimSpace(mt)
}
