package checker

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/temoto/robotstxt"
	"golang.org/x/sync/singleflight"

	"github.com/lukemcguire/doclinks/urlutil"
)

// robotsFetchTimeout bounds a robots.txt fetch independently of the
// per-link request timeout.
const robotsFetchTimeout = 5 * time.Second

// maxRobotsSize caps how much of a robots.txt body is read.
const maxRobotsSize = 512 << 10

type cachedRobots struct {
	data      *robotstxt.RobotsData // nil means allow-all
	fetchedAt time.Time
}

// RobotsChecker fetches and caches robots.txt rules per host.
// Lookups are safe for concurrent use by verification jobs; concurrent
// misses for one host share a single fetch.
type RobotsChecker struct {
	client   *http.Client
	cache    sync.Map // scheme://host -> *cachedRobots
	fetches  singleflight.Group
	cacheTTL time.Duration
}

// NewRobotsChecker creates a RobotsChecker that fetches with client.
func NewRobotsChecker(client *http.Client) *RobotsChecker {
	return &RobotsChecker{
		client:   client,
		cacheTTL: time.Hour,
	}
}

// Allowed reports whether userAgent may fetch rawURL.
// Fetch and parse failures fail open: the URL is allowed and the error is
// returned for logging. Non-HTTP URLs are always allowed.
func (r *RobotsChecker) Allowed(ctx context.Context, rawURL, userAgent string) (bool, error) {
	if !urlutil.IsHTTPScheme(rawURL) {
		return true, nil
	}
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return true, fmt.Errorf("parse URL: %w", err)
	}
	if parsedURL.Host == "" {
		return true, nil
	}

	key := parsedURL.Scheme + "://" + parsedURL.Host
	if entry := r.lookup(key); entry != nil {
		return entry.test(parsedURL, userAgent), nil
	}

	v, err, _ := r.fetches.Do(key, func() (any, error) {
		if entry := r.lookup(key); entry != nil {
			return entry, nil
		}
		data, fetchErr := r.fetch(ctx, key)
		entry := &cachedRobots{data: data, fetchedAt: time.Now()}
		r.cache.Store(key, entry)
		return entry, fetchErr
	})
	entry, ok := v.(*cachedRobots)
	if !ok || err != nil {
		return true, err
	}
	return entry.test(parsedURL, userAgent), nil
}

// lookup returns the cached rules for key, or nil when absent or expired.
func (r *RobotsChecker) lookup(key string) *cachedRobots {
	cached, ok := r.cache.Load(key)
	if !ok {
		return nil
	}
	entry, ok := cached.(*cachedRobots)
	if !ok || entry == nil || time.Since(entry.fetchedAt) >= r.cacheTTL {
		return nil
	}
	return entry
}

func (c *cachedRobots) test(u *url.URL, userAgent string) bool {
	if c.data == nil {
		return true
	}
	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	return c.data.TestAgent(path, userAgent)
}

// fetch downloads and parses robots.txt for origin. A nil result with a
// nil error means the host has no usable rules.
func (r *RobotsChecker) fetch(ctx context.Context, origin string) (*robotstxt.RobotsData, error) {
	ctx, cancel := context.WithTimeout(ctx, robotsFetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, origin+"/robots.txt", nil)
	if err != nil {
		return nil, fmt.Errorf("create robots.txt request for %s: %w", origin, err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch robots.txt for %s: %w", origin, err)
	}

	body, readErr := io.ReadAll(io.LimitReader(resp.Body, maxRobotsSize))
	closeErr := resp.Body.Close()
	if readErr != nil {
		return nil, fmt.Errorf("read robots.txt body for %s: %w", origin, readErr)
	}
	if closeErr != nil {
		return nil, fmt.Errorf("close robots.txt response body for %s: %w", origin, closeErr)
	}

	// 404 and 5xx mean no rules apply.
	if resp.StatusCode == http.StatusNotFound || resp.StatusCode >= 500 {
		return nil, nil
	}

	robots, err := robotstxt.FromStatusAndBytes(resp.StatusCode, body)
	if err != nil {
		return nil, fmt.Errorf("parse robots.txt for %s: %w", origin, err)
	}
	return robots, nil
}
