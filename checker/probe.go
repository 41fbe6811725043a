package checker

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// maxDrainBytes bounds how much of a response body is discarded so the
// connection can go back to the idle pool. Larger bodies close it instead.
const maxDrainBytes = 64 << 10

// ProbeResult is the raw outcome of fetching a URL.
type ProbeResult struct {
	URL        string        // The URL that was fetched
	StatusCode int           // Final HTTP status code (0 if no response)
	Err        error         // Transport error, if any
	Elapsed    time.Duration // Time until the final response headers arrived
}

// Probe fetches a URL with a HEAD request, falling back to GET when the
// server does not support HEAD (405 or 501). Redirects are followed by the
// client. Response bodies are discarded.
func Probe(ctx context.Context, client *http.Client, rawURL string, cfg Config) (res ProbeResult) {
	res.URL = rawURL
	start := time.Now()
	defer func() { res.Elapsed = time.Since(start) }()

	reqCtx, cancel := context.WithTimeout(ctx, cfg.RequestTimeout)
	defer cancel()

	status, err := fetch(reqCtx, client, http.MethodHead, rawURL, cfg.UserAgent)
	if err != nil {
		res.Err = err
		return
	}

	if status == http.StatusMethodNotAllowed || status == http.StatusNotImplemented {
		status, err = fetch(reqCtx, client, http.MethodGet, rawURL, cfg.UserAgent)
		if err != nil {
			res.Err = err
			return
		}
	}

	res.StatusCode = status
	return
}

// fetch issues a single request and returns the final status code.
func fetch(ctx context.Context, client *http.Client, method, rawURL, userAgent string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return 0, fmt.Errorf("create %s request: %w", method, err)
	}
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}

	resp, err := client.Do(req)
	if err != nil {
		return 0, err
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxDrainBytes))
	if closeErr := resp.Body.Close(); closeErr != nil {
		return resp.StatusCode, fmt.Errorf("close response body: %w", closeErr)
	}
	return resp.StatusCode, nil
}
