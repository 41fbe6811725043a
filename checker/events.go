package checker

import "github.com/lukemcguire/doclinks/result"

// CheckEvent reports progress for a single verified link, or the end of the
// scan when Scanned is set.
type CheckEvent struct {
	Path       string
	Line       int
	Target     string
	Status     result.Status
	Reason     string
	StatusCode int
	Checked    int  // Links verified so far
	Broken     int  // Unreachable links so far
	Total      int  // Links discovered; 0 until the scan completes
	Scanned    bool // Set on the single event sent when the scan completes
}
