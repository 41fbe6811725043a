package result

import (
	"errors"
	"fmt"
)

// ErrAlreadyResolved is returned when an outcome is attached to a link that
// has already been verified.
var ErrAlreadyResolved = errors.New("link already resolved")

// Status is the terminal classification of a verified link.
type Status int

const (
	// StatusReachable means the target responded successfully.
	StatusReachable Status = iota + 1
	// StatusQuestionable means the target was not conclusively checked.
	StatusQuestionable
	// StatusUnreachable means the target is broken or the check failed.
	StatusUnreachable
)

func (s Status) String() string {
	switch s {
	case StatusReachable:
		return "reachable"
	case StatusQuestionable:
		return "questionable"
	case StatusUnreachable:
		return "unreachable"
	default:
		return "unknown"
	}
}

// Outcome is the result of verifying a single link.
type Outcome struct {
	Status     Status
	Reason     string        // Why the link is questionable or unreachable (may be empty)
	StatusCode int           // Final HTTP status code (0 if no response was received)
	Category   ErrorCategory // Error classification for unreachable links
}

// Reachable returns an outcome for a target that responded successfully.
func Reachable() Outcome {
	return Outcome{Status: StatusReachable}
}

// Questionable returns an outcome for a target that could not be checked.
func Questionable(reason string) Outcome {
	return Outcome{Status: StatusQuestionable, Reason: reason}
}

// Unreachable returns an outcome for a broken target.
func Unreachable(reason string) Outcome {
	return Outcome{Status: StatusUnreachable, Reason: reason, Category: CategoryUnknown}
}

// Link is a single reference found in a source file.
// The identity fields are set at discovery time; the outcome is attached
// exactly once by the job that verifies it.
type Link struct {
	Seq    int    // 1-based discovery order
	Path   string // File containing the reference
	Line   int    // 1-based line number within Path
	Target string // Raw link destination, exactly as captured

	outcome *Outcome
}

// NewLink creates an unverified link.
func NewLink(seq int, path string, line int, target string) *Link {
	return &Link{Seq: seq, Path: path, Line: line, Target: target}
}

// Resolve attaches the verification outcome. It fails if the link has
// already been resolved.
func (l *Link) Resolve(o Outcome) error {
	if l.outcome != nil {
		return fmt.Errorf("resolve %s: %w", l, ErrAlreadyResolved)
	}
	l.outcome = &o
	return nil
}

// Outcome returns the verification outcome and whether one has been attached.
func (l *Link) Outcome() (Outcome, bool) {
	if l.outcome == nil {
		return Outcome{}, false
	}
	return *l.outcome, true
}

// Resolved reports whether the link has a terminal outcome.
func (l *Link) Resolved() bool {
	return l.outcome != nil
}

func (l *Link) String() string {
	return fmt.Sprintf("%s:%d: %s", l.Path, l.Line, l.Target)
}
