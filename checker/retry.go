package checker

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/lukemcguire/doclinks/result"
)

// RetryPolicy configures retry behavior for failed requests.
type RetryPolicy struct {
	MaxRetries int           // Maximum number of retries (0 = single attempt)
	BaseDelay  time.Duration // Initial backoff delay (1s)
	MaxDelay   time.Duration // Maximum backoff cap (30s)
}

// DefaultRetryPolicy returns a RetryPolicy that makes a single attempt,
// with a 1s base delay and 30s cap for when retries are enabled.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries: 0,
		BaseDelay:  1 * time.Second,
		MaxDelay:   30 * time.Second,
	}
}

// ProbeWithRetry wraps Probe with exponential backoff retry logic.
// It retries on transient failures (network errors, 5xx, 429) but not on
// permanent failures (other 4xx, redirect loops, cancellation).
// It returns the last probe result and the number of attempts made.
func ProbeWithRetry(ctx context.Context, client *http.Client, rawURL string, cfg Config) (ProbeResult, int) {
	policy := cfg.RetryPolicy
	backoff := policy.BaseDelay
	var last ProbeResult
	attempts := 0

	for attempt := 0; attempt <= policy.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				if last.Err == nil && last.StatusCode == 0 {
					last.Err = ctx.Err()
				}
				return last, attempts
			case <-time.After(backoff):
				backoff = min(backoff*2, policy.MaxDelay)
			}
		}

		attempts++
		last = Probe(ctx, client, rawURL, cfg)
		if !shouldRetry(last) {
			return last, attempts
		}
	}

	return last, attempts
}

// shouldRetry reports whether a probe failed transiently.
func shouldRetry(res ProbeResult) bool {
	if res.Err != nil {
		return isRetryableError(res.Err)
	}

	switch {
	case res.StatusCode == http.StatusTooManyRequests:
		return true
	case res.StatusCode >= 500:
		return true
	default:
		return false
	}
}

// isRetryableError checks if a transport error is worth retrying.
func isRetryableError(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, result.ErrTooManyRedirects) {
		return false
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return dnsErr.IsTemporary || dnsErr.IsTimeout
	}

	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
