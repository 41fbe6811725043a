// Package scanner finds link references in the files of a source tree.
// Markdown and source files are matched line by line against the link
// pattern; HTML files are tokenized.
package scanner

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"github.com/lukemcguire/doclinks/result"
)

// Options configures a Scanner.
type Options struct {
	Include []string // Glob patterns selecting files (default *.rs, *.md)
	Exclude []string // Glob patterns removing files from the selection
	Pattern string   // Link pattern (default LinkPattern)
}

// Scanner walks a tree and reports every link reference it finds.
type Scanner struct {
	opts    Options
	matcher *Matcher
	log     logrus.FieldLogger
}

// New creates a Scanner. It fails if the link pattern cannot be compiled.
func New(opts Options, log logrus.FieldLogger) (*Scanner, error) {
	if len(opts.Include) == 0 {
		opts.Include = []string{"*.rs", "*.md"}
	}
	if opts.Pattern == "" {
		opts.Pattern = LinkPattern
	}

	matcher, err := NewMatcher(opts.Pattern)
	if err != nil {
		return nil, err
	}

	return &Scanner{opts: opts, matcher: matcher, log: log}, nil
}

// Scan walks root and calls fn synchronously for every link found, in file
// order then line order. Links are numbered from 1 in the order they are
// reported. Unreadable files abort the scan.
func (s *Scanner) Scan(ctx context.Context, root string, fn func(*result.Link)) error {
	walker, err := NewWalker(root, s.opts.Include, s.opts.Exclude)
	if err != nil {
		return err
	}

	seq := 0
	emit := func(path string, line int, target string) {
		seq++
		fn(result.NewLink(seq, path, line, target))
	}

	return walker.Walk(ctx, func(path string) error {
		if !utf8.ValidString(path) {
			s.log.Warnf("Filename is not valid unicode, skipping: %q", path)
			return nil
		}
		s.log.WithField("path", path).Debug("searching")

		if isHTML(path) {
			return s.scanHTML(path, emit)
		}
		return s.scanLines(path, emit)
	})
}

func (s *Scanner) scanLines(path string, emit func(string, int, string)) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	reader := bufio.NewReader(f)
	for lnum := 1; ; lnum++ {
		line, readErr := reader.ReadString('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return fmt.Errorf("read %s: %w", path, readErr)
		}
		if line == "" && readErr != nil {
			return nil
		}

		line = strings.TrimRight(line, "\r\n")
		s.matchLine(path, lnum, line, emit)

		if readErr != nil {
			return nil
		}
	}
}

func (s *Scanner) matchLine(path string, lnum int, line string, emit func(string, int, string)) {
	if !utf8.ValidString(line) {
		s.log.WithFields(logrus.Fields{"path": path, "line": lnum}).
			Warn("Line is not valid UTF-8, skipping")
		return
	}

	targets, err := s.matcher.Targets(line)
	if err != nil {
		s.log.WithFields(logrus.Fields{"path": path, "line": lnum}).
			Warnf("Skipping line: %v", err)
		return
	}
	for _, target := range targets {
		emit(path, lnum, target)
	}
}

func (s *Scanner) scanHTML(path string, emit func(string, int, string)) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	refs, err := ExtractHTML(f)
	for _, ref := range refs {
		emit(path, ref.Line, ref.Target)
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	return nil
}

func isHTML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return true
	}
	return false
}
