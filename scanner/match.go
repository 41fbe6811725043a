package scanner

import (
	"errors"
	"fmt"
	"time"

	"github.com/dlclark/regexp2"
)

// LinkPattern matches inline Markdown links, [label](target), capturing the
// target in group 1.
const LinkPattern = `\[[^\[\]]+\]\(([^\(\)]+)\)`

// matchTimeout bounds a single line match so a pathological line cannot
// stall the scan.
const matchTimeout = time.Second

// Matcher extracts link targets from a single line of text.
type Matcher struct {
	re *regexp2.Regexp
}

// NewMatcher compiles pattern. The pattern must have at least one capture
// group; group 1 is taken as the link target.
func NewMatcher(pattern string) (*Matcher, error) {
	re, err := regexp2.Compile(pattern, regexp2.None)
	if err != nil {
		return nil, fmt.Errorf("compile link pattern: %w", err)
	}
	if len(re.GetGroupNumbers()) < 2 {
		return nil, errors.New("link pattern has no capture group")
	}
	re.MatchTimeout = matchTimeout
	return &Matcher{re: re}, nil
}

// Targets returns the capture of every non-overlapping match in line, in
// order of appearance.
func (m *Matcher) Targets(line string) ([]string, error) {
	var targets []string

	match, err := m.re.FindStringMatch(line)
	for err == nil && match != nil {
		if g := match.GroupByNumber(1); g != nil {
			targets = append(targets, g.String())
		}
		match, err = m.re.FindNextMatch(match)
	}
	if err != nil {
		return nil, fmt.Errorf("match line: %w", err)
	}
	return targets, nil
}
