package wowapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// originResponse is what one round trip to the origin produced: the status
// line split into code and reason phrase, the raw body, and the
// modification instant from the Last-Modified header (zero when absent).
type originResponse struct {
	status       int
	reason       string
	body         []byte
	lastModified time.Time
}

// httpTransport performs single blocking round trips against the origin.
// There is no retry logic: a failed call surfaces immediately as a
// transport error and is never reissued.
type httpTransport struct {
	client *http.Client
}

// newHTTPTransport creates a transport whose requests are bounded by the
// configured timeout, covering connection time and body read.
func newHTTPTransport(cfg *Config) *httpTransport {
	return &httpTransport{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// roundTrip issues the request described by spec, adding If-Modified-Since
// when a nonzero revalidation instant is supplied. Connection and timeout
// failures map to a transport error carrying the underlying message.
func (t *httpTransport) roundTrip(ctx context.Context, spec *RequestSpec, ifModifiedSince time.Time) (*originResponse, error) {
	req, err := http.NewRequestWithContext(ctx, spec.Method, spec.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.URL.RawQuery = spec.Query.Encode()
	for key, values := range spec.Header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	if !ifModifiedSince.IsZero() {
		req.Header.Set("If-Modified-Since", ifModifiedSince.UTC().Format(http.TimeFormat))
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, newTransportError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, newTransportError(err)
	}

	return &originResponse{
		status:       resp.StatusCode,
		reason:       reasonPhrase(resp),
		body:         body,
		lastModified: parseLastModified(resp.Header.Get("Last-Modified")),
	}, nil
}

// close releases idle connections.
func (t *httpTransport) close() {
	t.client.CloseIdleConnections()
}

// reasonPhrase extracts the reason phrase from the status line, falling
// back to the standard text for the code.
func reasonPhrase(resp *http.Response) string {
	phrase := strings.TrimPrefix(resp.Status, fmt.Sprintf("%d ", resp.StatusCode))
	if phrase == "" || phrase == resp.Status {
		return http.StatusText(resp.StatusCode)
	}
	return phrase
}

// parseLastModified parses a Last-Modified header value, returning the zero
// time when the header is absent or malformed.
func parseLastModified(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	t, err := http.ParseTime(value)
	if err != nil {
		return time.Time{}
	}
	return t
}
