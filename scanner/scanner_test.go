package scanner

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"

	"github.com/lukemcguire/doclinks/result"
)

func scanAll(t *testing.T, s *Scanner, root string) []*result.Link {
	t.Helper()
	var links []*result.Link
	if err := s.Scan(context.Background(), root, func(l *result.Link) {
		links = append(links, l)
	}); err != nil {
		t.Fatalf("Scan() error: %v", err)
	}
	return links
}

func TestScanner_Scan(t *testing.T) {
	root := writeTree(t, map[string]string{
		"README.md": "# Title\n" +
			"[ok](https://example.com/) and [anchor](#section)\r\n" +
			"\n" +
			"last line [bad](https://example.invalid/nope)",
		"src/lib.rs": "//! See [docs](https://docs.rs/doclinks)\nfn main() {}\n",
		"notes.txt":  "[ignored](https://example.com/txt)\n",
	})
	logger, _ := logtest.NewNullLogger()

	s, err := New(Options{}, logger)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	links := scanAll(t, s, root)

	want := []struct {
		path   string
		line   int
		target string
	}{
		{"README.md", 2, "https://example.com/"},
		{"README.md", 2, "#section"},
		{"README.md", 4, "https://example.invalid/nope"},
		{"src/lib.rs", 1, "https://docs.rs/doclinks"},
	}
	if len(links) != len(want) {
		t.Fatalf("got %d links, want %d: %v", len(links), len(want), links)
	}
	for i, w := range want {
		l := links[i]
		if l.Seq != i+1 {
			t.Errorf("links[%d].Seq = %d, want %d", i, l.Seq, i+1)
		}
		if l.Path != filepath.Join(root, filepath.FromSlash(w.path)) {
			t.Errorf("links[%d].Path = %q, want suffix %q", i, l.Path, w.path)
		}
		if l.Line != w.line || l.Target != w.target {
			t.Errorf("links[%d] = %d %q, want %d %q", i, l.Line, l.Target, w.line, w.target)
		}
		if l.Resolved() {
			t.Errorf("links[%d] should not be resolved", i)
		}
	}
}

func TestScanner_SkipsInvalidUTF8Lines(t *testing.T) {
	root := writeTree(t, map[string]string{
		"a.md": "[x](https://a.example/)\n\xff\xfe [y](https://b.example/)\n[z](https://c.example/)\n",
	})
	logger, hook := logtest.NewNullLogger()

	s, err := New(Options{}, logger)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	links := scanAll(t, s, root)

	if len(links) != 2 {
		t.Fatalf("got %d links, want 2", len(links))
	}
	if links[1].Line != 3 {
		t.Errorf("line numbers should keep counting past skipped lines, got %d", links[1].Line)
	}
	entry := hook.LastEntry()
	if entry == nil || entry.Level != logrus.WarnLevel {
		t.Fatalf("expected a warning, got %+v", entry)
	}
	if entry.Data["line"] != 2 {
		t.Errorf("warning line = %v, want 2", entry.Data["line"])
	}
}

func TestScanner_HTMLFiles(t *testing.T) {
	root := writeTree(t, map[string]string{
		"site/index.html": "<p>\n<a href=\"https://example.com/\">x</a>\n</p>\n",
	})
	logger, _ := logtest.NewNullLogger()

	s, err := New(Options{Include: []string{"*.html"}}, logger)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	links := scanAll(t, s, root)

	if len(links) != 1 || links[0].Line != 2 || links[0].Target != "https://example.com/" {
		t.Errorf("Scan() = %v, want one link on line 2", links)
	}
}

func TestScanner_UnreadableFileIsFatal(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root can read files regardless of mode")
	}
	root := writeTree(t, map[string]string{"a.md": "[x](https://a.example/)\n"})
	if err := os.Chmod(filepath.Join(root, "a.md"), 0o000); err != nil {
		t.Fatalf("chmod: %v", err)
	}
	logger, _ := logtest.NewNullLogger()

	s, err := New(Options{}, logger)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if err := s.Scan(context.Background(), root, func(*result.Link) {}); err == nil {
		t.Error("expected error for unreadable file")
	}
}

func TestNew_InvalidPattern(t *testing.T) {
	logger, _ := logtest.NewNullLogger()
	if _, err := New(Options{Pattern: `(`}, logger); err == nil {
		t.Error("expected error for invalid pattern")
	}
}
