package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 10, cfg.Concurrency)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
	assert.Equal(t, 0, cfg.Retries)
	assert.Equal(t, []string{"*.rs", "*.md"}, cfg.Include)
	assert.Equal(t, FormatText, cfg.Format)
	assert.NoError(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
concurrency: 4
timeout: 3s
retries: 2
include:
  - "docs/**/*.md"
exclude:
  - "vendor/**"
respect_robots: true
format: json
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.Concurrency)
	assert.Equal(t, 3*time.Second, cfg.Timeout)
	assert.Equal(t, 2, cfg.Retries)
	assert.Equal(t, []string{"docs/**/*.md"}, cfg.Include)
	assert.Equal(t, []string{"vendor/**"}, cfg.Exclude)
	assert.True(t, cfg.RespectRobots)
	assert.Equal(t, FormatJSON, cfg.Format)
	// Untouched keys keep their defaults.
	assert.Equal(t, DefaultUserAgent, cfg.UserAgent)
	assert.Equal(t, time.Second, cfg.RetryDelay)
}

func TestLoad_EmptyFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_UnknownKey(t *testing.T) {
	_, err := Load(writeConfig(t, "concurency: 4\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestLoadOptional_Missing(t *testing.T) {
	cfg, found, err := LoadOptional(filepath.Join(t.TempDir(), FileName))
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, Default(), cfg)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"zero concurrency", func(c *Config) { c.Concurrency = 0 }, "concurrency must be at least 1"},
		{"negative timeout", func(c *Config) { c.Timeout = -time.Second }, "timeout must be positive"},
		{"negative retries", func(c *Config) { c.Retries = -1 }, "retries must not be negative"},
		{"negative rate", func(c *Config) { c.RateLimit = -5 }, "rate limit must not be negative"},
		{"no includes", func(c *Config) { c.Include = nil }, "at least one include pattern"},
		{"bad glob", func(c *Config) { c.Exclude = []string{"docs/[a"} }, "invalid glob pattern"},
		{"bad format", func(c *Config) { c.Format = "xml" }, "unknown format"},
		{"bad proxy scheme", func(c *Config) { c.Proxy = "ftp://proxy:21" }, "unsupported proxy scheme"},
		{"proxy without host", func(c *Config) { c.Proxy = "socks5://" }, "has no host"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_AcceptsSocksProxy(t *testing.T) {
	cfg := Default()
	cfg.Proxy = "socks5://127.0.0.1:9050"
	assert.NoError(t, cfg.Validate())
}
