package checker

import "time"

// Config holds verification settings.
type Config struct {
	Concurrency    int           // Maximum concurrent verifications (default 10)
	RequestTimeout time.Duration // Per-request timeout (default 10s)
	RateLimit      int           // Requests per second across all workers; 0 disables limiting
	AdaptiveRate   bool          // Let the rate limiter follow observed response times
	UserAgent      string        // User-Agent header sent with every request
	RetryPolicy    RetryPolicy   // Retries for transient failures (default: none)
	RespectRobots  bool          // Skip targets disallowed by robots.txt
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Concurrency:    10,
		RequestTimeout: 10 * time.Second,
		UserAgent:      "doclinks/1.0 (+https://github.com/lukemcguire/doclinks)",
		RetryPolicy:    DefaultRetryPolicy(),
	}
}

// withDefaults fills zero values from DefaultConfig.
func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.Concurrency <= 0 {
		c.Concurrency = def.Concurrency
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = def.RequestTimeout
	}
	if c.UserAgent == "" {
		c.UserAgent = def.UserAgent
	}
	if c.RetryPolicy.BaseDelay <= 0 {
		c.RetryPolicy.BaseDelay = def.RetryPolicy.BaseDelay
	}
	if c.RetryPolicy.MaxDelay <= 0 {
		c.RetryPolicy.MaxDelay = def.RetryPolicy.MaxDelay
	}
	return c
}
