package scanner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	ignore "github.com/sabhiram/go-gitignore"
)

// ignoreFiles are read in every directory; their patterns apply to paths
// below that directory.
var ignoreFiles = []string{".gitignore", ".ignore"}

// ignoreRule is one compiled ignore pattern and the directory of the file
// it came from, relative to the walk root ("" for the root itself). A
// negated rule re-includes what an earlier rule ignored.
type ignoreRule struct {
	dir     string
	matcher *ignore.GitIgnore
	negate  bool
}

// Walker yields the regular files under a root that are not hidden, not
// ignored by .gitignore/.ignore files, and selected by the glob patterns.
type Walker struct {
	root    string
	include []string
	exclude []string
}

// NewWalker validates the glob patterns and returns a Walker for root.
// Patterns without a slash are matched against the file's base name,
// others against its slash-separated path relative to root.
func NewWalker(root string, include, exclude []string) (*Walker, error) {
	for _, p := range append(append([]string{}, include...), exclude...) {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid glob pattern %q", p)
		}
	}
	return &Walker{root: root, include: include, exclude: exclude}, nil
}

// Walk calls fn for every selected file in lexical order. The path passed
// to fn is root joined with the file's relative path. Walking stops at the
// first error returned by fn or by the file system.
func (w *Walker) Walk(ctx context.Context, fn func(path string) error) error {
	var rules []ignoreRule

	return filepath.WalkDir(w.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("walk %s: %w", p, err)
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		rel, err := filepath.Rel(w.root, p)
		if err != nil {
			return fmt.Errorf("relative path for %s: %w", p, err)
		}
		rel = filepath.ToSlash(rel)

		if rel == "." {
			if !d.IsDir() {
				// The root is a single file: no ignore rules apply.
				if d.Type().IsRegular() && w.selected(filepath.Base(p)) {
					return fn(p)
				}
				return nil
			}
			rules, err = loadIgnoreRules(p, "", rules)
			return err
		}

		if strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if isIgnored(rules, rel, d.IsDir()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if matchAny(w.exclude, rel) {
				return filepath.SkipDir
			}
			rules, err = loadIgnoreRules(p, rel, rules)
			return err
		}

		if !d.Type().IsRegular() || !w.selected(rel) {
			return nil
		}
		return fn(p)
	})
}

func (w *Walker) selected(rel string) bool {
	return matchAny(w.include, rel) && !matchAny(w.exclude, rel)
}

// matchAny reports whether rel matches one of the patterns.
func matchAny(patterns []string, rel string) bool {
	base := path.Base(rel)
	for _, p := range patterns {
		target := rel
		if !strings.Contains(p, "/") {
			target = base
		}
		if ok, _ := doublestar.Match(p, target); ok {
			return true
		}
	}
	return false
}

// loadIgnoreRules appends the patterns of the ignore files in dirPath, one
// rule per pattern so that negations can apply across files.
func loadIgnoreRules(dirPath, rel string, rules []ignoreRule) ([]ignoreRule, error) {
	for _, name := range ignoreFiles {
		file := filepath.Join(dirPath, name)
		data, err := os.ReadFile(file)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return rules, fmt.Errorf("read ignore file %s: %w", file, err)
		}
		for _, line := range strings.Split(string(data), "\n") {
			line = strings.Trim(strings.TrimRight(line, "\r"), " ")
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			negate := strings.HasPrefix(line, "!")
			if negate {
				line = line[1:]
			}
			if line == "" {
				continue
			}
			rules = append(rules, ignoreRule{dir: rel, matcher: ignore.CompileIgnoreLines(line), negate: negate})
		}
	}
	return rules, nil
}

// isIgnored applies every rule whose directory contains rel, parents before
// children and in file order. The last matching rule decides.
func isIgnored(rules []ignoreRule, rel string, isDir bool) bool {
	ignored := false
	for _, r := range rules {
		sub := rel
		if r.dir != "" {
			if !strings.HasPrefix(rel, r.dir+"/") {
				continue
			}
			sub = strings.TrimPrefix(rel, r.dir+"/")
		}
		if r.matcher.MatchesPath(sub) || (isDir && r.matcher.MatchesPath(sub+"/")) {
			ignored = !r.negate
		}
	}
	return ignored
}
