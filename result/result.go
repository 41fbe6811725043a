package result

import (
	"sort"
	"time"
)

// Stats contains aggregate counts for a run.
type Stats struct {
	Total        int           // Total number of links verified
	Reachable    int           // Links that responded successfully
	Questionable int           // Links that were not conclusively checked
	Unreachable  int           // Broken links
	Duration     time.Duration // Time spent verifying
}

// Report is the complete output of a run.
type Report struct {
	Links []*Link // All verified links in discovery order
	Stats Stats
}

// NewReport builds a report from links received in any order.
// Links are sorted by discovery order and tallied by status.
func NewReport(links []*Link, elapsed time.Duration) *Report {
	sorted := make([]*Link, len(links))
	copy(sorted, links)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Seq < sorted[j].Seq })

	rep := &Report{Links: sorted, Stats: Stats{Total: len(sorted), Duration: elapsed}}
	for _, l := range sorted {
		o, _ := l.Outcome()
		switch o.Status {
		case StatusReachable:
			rep.Stats.Reachable++
		case StatusQuestionable:
			rep.Stats.Questionable++
		default:
			rep.Stats.Unreachable++
		}
	}
	return rep
}

// Broken returns the unreachable links in discovery order.
func (r *Report) Broken() []*Link {
	var broken []*Link
	for _, l := range r.Links {
		if o, ok := l.Outcome(); !ok || o.Status == StatusUnreachable {
			broken = append(broken, l)
		}
	}
	return broken
}
