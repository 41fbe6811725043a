package checker

import (
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/lukemcguire/doclinks/result"
)

// ErrBrokenLinks is returned when at least one link is unreachable.
var ErrBrokenLinks = errors.New("broken links found")

// Aggregator is the single consumer of verified links. It reports each
// link as it arrives and tallies the unreachable ones.
type Aggregator struct {
	log      logrus.FieldLogger
	progress chan<- CheckEvent
}

// NewAggregator creates an Aggregator. progress is optional; pass nil to
// disable progress events.
func NewAggregator(log logrus.FieldLogger, progress chan<- CheckEvent) *Aggregator {
	return &Aggregator{log: log, progress: progress}
}

// Drain receives exactly n links from results, reporting each in arrival
// order, and returns the report. It returns ErrBrokenLinks (wrapped with
// the count) alongside the report when any link is unreachable.
func (a *Aggregator) Drain(results <-chan *result.Link, n int) (*result.Report, error) {
	start := time.Now()
	links := make([]*result.Link, 0, n)
	bad := 0

	for i := 0; i < n; i++ {
		link := <-results
		if link == nil {
			return nil, fmt.Errorf("result channel closed after %d of %d links", i, n)
		}
		links = append(links, link)

		o, ok := link.Outcome()
		if !ok {
			o = result.Unreachable("no outcome recorded")
		}
		if o.Status == result.StatusUnreachable {
			bad++
		}
		a.report(link, o)

		if a.progress != nil {
			a.progress <- CheckEvent{
				Path:       link.Path,
				Line:       link.Line,
				Target:     link.Target,
				Status:     o.Status,
				Reason:     o.Reason,
				StatusCode: o.StatusCode,
				Checked:    i + 1,
				Broken:     bad,
				Total:      n,
			}
		}
	}

	report := result.NewReport(links, time.Since(start))
	a.log.Debugf("checked %d links in %s: %d reachable, %d questionable, %d unreachable",
		report.Stats.Total, report.Stats.Duration.Round(time.Millisecond),
		report.Stats.Reachable, report.Stats.Questionable, report.Stats.Unreachable)

	if bad > 0 {
		a.log.Errorf("Found %d bad links", bad)
		return report, fmt.Errorf("%d unreachable: %w", bad, ErrBrokenLinks)
	}
	return report, nil
}

// report writes the log line for one link.
func (a *Aggregator) report(link *result.Link, o result.Outcome) {
	switch o.Status {
	case result.StatusReachable:
		a.log.Infof("✓ %s", link)
	case result.StatusQuestionable:
		a.log.Warnf("✓ %s (%s)", link, o.Reason)
	default:
		if o.Reason == "" {
			a.log.Errorf("✗ %s", link)
			return
		}
		a.log.Errorf("✗ %s (%s)", link, o.Reason)
	}
}
