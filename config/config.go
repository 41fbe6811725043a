// Package config holds doclinks settings loaded from an optional YAML file
// and overridden by command-line flags.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

// FileName is the config file looked up in the scan root when --config is
// not given.
const FileName = ".doclinks.yaml"

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatCSV  = "csv"
)

// DefaultUserAgent identifies doclinks to the servers it checks.
const DefaultUserAgent = "doclinks/1.0 (+https://github.com/lukemcguire/doclinks)"

// Config holds every user-tunable setting.
type Config struct {
	// Concurrency is the maximum number of links verified at once
	// Default: 10, must be >= 1
	Concurrency int `yaml:"concurrency"`

	// Verbose is the -v count: 0 info, 1 debug, 2+ trace
	Verbose int `yaml:"verbose"`

	// NoColor disables colored output
	NoColor bool `yaml:"no_color"`

	// Timeout bounds a single verification request
	// Default: 10s
	Timeout time.Duration `yaml:"timeout"`

	// Retries is the number of extra attempts for transient failures
	// Default: 0 (single attempt)
	Retries int `yaml:"retries"`

	// RetryDelay is the initial backoff between attempts, doubled each retry
	// Default: 1s
	RetryDelay time.Duration `yaml:"retry_delay"`

	// RateLimit caps requests per second across all workers; 0 disables it
	RateLimit int `yaml:"rate_limit"`

	// AdaptiveRate lets the limiter follow observed response times
	AdaptiveRate bool `yaml:"adaptive_rate"`

	UserAgent string `yaml:"user_agent"`

	// Include selects files to scan; patterns without a slash match base names
	// Default: *.rs, *.md
	Include []string `yaml:"include"`

	// Exclude removes files matched by Include
	Exclude []string `yaml:"exclude"`

	// RespectRobots skips targets disallowed by the host's robots.txt
	RespectRobots bool `yaml:"respect_robots"`

	// Proxy routes requests through an http, https or socks5 proxy
	Proxy string `yaml:"proxy"`

	// Format selects the report written to Output: text, json or csv
	Format string `yaml:"format"`

	// Output is the report destination; empty means stdout
	Output string `yaml:"output"`

	// TUI shows a live progress view instead of streaming log lines
	TUI bool `yaml:"tui"`
}

// Default returns the configuration used when no file or flag overrides it.
func Default() Config {
	return Config{
		Concurrency: 10,
		Timeout:     10 * time.Second,
		RetryDelay:  time.Second,
		UserAgent:   DefaultUserAgent,
		Include:     []string{"*.rs", "*.md"},
		Format:      FormatText,
	}
}

// Load reads a YAML file on top of the defaults. Unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	return cfg, nil
}

// LoadOptional loads path if it exists and returns the defaults otherwise.
func LoadOptional(path string) (Config, bool, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), false, nil
		}
		return Default(), false, fmt.Errorf("stat config %s: %w", path, err)
	}
	cfg, err := Load(path)
	return cfg, true, err
}

// Validate checks that the settings can be used to start a run.
func (c Config) Validate() error {
	var errs []error

	if c.Concurrency < 1 {
		errs = append(errs, fmt.Errorf("concurrency must be at least 1, got %d", c.Concurrency))
	}
	if c.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("timeout must be positive, got %s", c.Timeout))
	}
	if c.Retries < 0 {
		errs = append(errs, fmt.Errorf("retries must not be negative, got %d", c.Retries))
	}
	if c.RateLimit < 0 {
		errs = append(errs, fmt.Errorf("rate limit must not be negative, got %d", c.RateLimit))
	}
	if len(c.Include) == 0 {
		errs = append(errs, errors.New("at least one include pattern is required"))
	}
	for _, p := range append(append([]string{}, c.Include...), c.Exclude...) {
		if !doublestar.ValidatePattern(p) {
			errs = append(errs, fmt.Errorf("invalid glob pattern %q", p))
		}
	}
	switch c.Format {
	case FormatText, FormatJSON, FormatCSV:
	default:
		errs = append(errs, fmt.Errorf("unknown format %q (want text, json or csv)", c.Format))
	}
	if c.Proxy != "" {
		if err := validateProxy(c.Proxy); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

func validateProxy(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("parse proxy URL: %w", err)
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https", "socks5", "socks5h":
	default:
		return fmt.Errorf("unsupported proxy scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("proxy URL %q has no host", raw)
	}
	return nil
}
