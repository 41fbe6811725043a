package cli

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lukemcguire/doclinks/checker"
)

func newLinkServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/ok", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		full := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	}
	return dir
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := NewRootCommand(&stdout, &stderr)
	cmd.SetArgs(append([]string{"--no-color"}, args...))
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestRoot_AllReachable(t *testing.T) {
	server := newLinkServer(t)
	dir := writeFiles(t, map[string]string{
		"README.md": fmt.Sprintf("[ok](%s/ok)\n[anchor](#usage)\n", server.URL),
	})

	stdout, _, err := execute(t, dir)

	require.NoError(t, err)
	readme := filepath.Join(dir, "README.md")
	assert.Contains(t, stdout, fmt.Sprintf("✓ %s:1: %s/ok", readme, server.URL))
	assert.Contains(t, stdout, fmt.Sprintf("✓ %s:2: #usage (local anchor; no network check)", readme))
	assert.Contains(t, stdout, "No broken links found!")
	assert.Contains(t, stdout, "Checked 2 links, found 0 broken (1 questionable)")
}

func TestRoot_BrokenLinkFails(t *testing.T) {
	server := newLinkServer(t)
	dir := writeFiles(t, map[string]string{
		"src/lib.rs": fmt.Sprintf("//! [ok](%s/ok)\n//! [gone](%s/gone)\n", server.URL, server.URL),
	})

	stdout, _, err := execute(t, "-c", "2", dir)

	require.ErrorIs(t, err, checker.ErrBrokenLinks)
	assert.Contains(t, stdout, fmt.Sprintf("✗ %s:2: %s/gone (404 Not Found)", filepath.Join(dir, "src", "lib.rs"), server.URL))
	assert.Contains(t, stdout, "Found 1 bad links")
	assert.Contains(t, stdout, "Broken Links:")
}

func TestRoot_JSONReportOnStdout(t *testing.T) {
	server := newLinkServer(t)
	dir := writeFiles(t, map[string]string{
		"README.md": fmt.Sprintf("[a](%s/ok)\n[b](%s/missing)\n", server.URL, server.URL),
	})

	stdout, stderr, err := execute(t, "--format", "json", dir)

	require.ErrorIs(t, err, checker.ErrBrokenLinks)
	var records []map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &records), "stdout should hold only the report")
	require.Len(t, records, 2)
	assert.Equal(t, "reachable", records[0]["status"])
	assert.Equal(t, "unreachable", records[1]["status"])
	assert.Equal(t, "4xx", records[1]["error_type"])
	assert.Contains(t, stderr, "Found 1 bad links")
}

func TestRoot_CSVReportToFile(t *testing.T) {
	server := newLinkServer(t)
	dir := writeFiles(t, map[string]string{
		"README.md": fmt.Sprintf("[a](%s/ok)\n", server.URL),
	})
	out := filepath.Join(t.TempDir(), "links.csv")

	stdout, _, err := execute(t, "--format", "csv", "-o", out, dir)

	require.NoError(t, err)
	assert.Contains(t, stdout, "✓ ")
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"path", "line", "target", "status", "status_code", "error_type", "reason"}, rows[0])
	assert.Equal(t, "reachable", rows[1][3])
}

func TestRoot_ConfigFile(t *testing.T) {
	server := newLinkServer(t)
	dir := writeFiles(t, map[string]string{
		".doclinks.yaml": "include: [\"*.txt\"]\nconcurrency: 0\n",
		"notes.txt":      fmt.Sprintf("[gone](%s/gone)\n", server.URL),
		"README.md":      fmt.Sprintf("[ok](%s/ok)\n", server.URL),
	})

	_, _, err := execute(t, dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "concurrency must be at least 1")

	stdout, _, err := execute(t, "-c", "3", dir)
	require.ErrorIs(t, err, checker.ErrBrokenLinks, "include from the file should select notes.txt")
	assert.Contains(t, stdout, "notes.txt:1:")
	assert.NotContains(t, stdout, "README.md")

	stdout, _, err = execute(t, "-c", "3", "--include", "*.md", dir)
	require.NoError(t, err, "--include should override the file")
	assert.Contains(t, stdout, "README.md:1:")
}

func TestRoot_ExplicitConfigPath(t *testing.T) {
	dir := writeFiles(t, map[string]string{"README.md": "[a](#x)\n"})
	cfgPath := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("concurrency: 4\nunknown_key: 1\n"), 0o644))

	_, _, err := execute(t, "--config", cfgPath, dir)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown_key")
}

func TestRoot_InvalidFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "zero concurrency", args: []string{"-c", "0"}, want: "concurrency must be at least 1"},
		{name: "bad format", args: []string{"--format", "xml"}, want: `unknown format "xml"`},
		{name: "bad proxy", args: []string{"--proxy", "ftp://proxy:21"}, want: "unsupported proxy scheme"},
		{name: "bad glob", args: []string{"--include", "[a"}, want: "invalid glob pattern"},
		{name: "too many args", args: []string{"a", "b"}, want: "accepts at most 1 arg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := writeFiles(t, map[string]string{"README.md": ""})
			args := tt.args
			if tt.name != "too many args" {
				args = append(args, dir)
			}

			_, _, err := execute(t, args...)

			require.Error(t, err)
			assert.NotErrorIs(t, err, checker.ErrBrokenLinks)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestRoot_MissingRoot(t *testing.T) {
	_, _, err := execute(t, filepath.Join(t.TempDir(), "nope"))

	require.Error(t, err)
	assert.NotErrorIs(t, err, checker.ErrBrokenLinks)
}

func TestRoot_VerboseLogsScannedFiles(t *testing.T) {
	dir := writeFiles(t, map[string]string{"README.md": "[a](#x)\n"})

	stdout, _, err := execute(t, "-v", dir)

	require.NoError(t, err)
	assert.Contains(t, stdout, "searching")
	assert.True(t, strings.Contains(stdout, "path="), "debug lines should carry fields")
}
