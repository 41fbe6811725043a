// Package checker verifies the links found in a source tree. It runs each
// verification as a job on a bounded pool sharing one HTTP client, with
// optional robots.txt compliance and rate limiting, and aggregates the
// results over a channel whose expected count is known once the scan ends.
package checker

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/lukemcguire/doclinks/result"
	"github.com/lukemcguire/doclinks/scanner"
)

// Checker coordinates scanning, verification and aggregation.
type Checker struct {
	cfg      Config
	scanner  *scanner.Scanner
	verifier *Verifier
	log      logrus.FieldLogger
	progress chan<- CheckEvent
}

// New creates a Checker. The client is shared by every verification job.
// The progress parameter is optional; pass nil to disable progress events.
func New(cfg Config, client *http.Client, sc *scanner.Scanner, log logrus.FieldLogger, progress chan<- CheckEvent) *Checker {
	cfg = cfg.withDefaults()
	return &Checker{
		cfg:      cfg,
		scanner:  sc,
		verifier: NewVerifier(cfg, client, log),
		log:      log,
		progress: progress,
	}
}

// Run scans root, verifies every link found and returns the report.
// Jobs are dispatched while the scan is still running. The returned error
// wraps ErrBrokenLinks when any link is unreachable; the report is still
// returned in that case.
func (c *Checker) Run(ctx context.Context, root string) (*result.Report, error) {
	start := time.Now()

	results := make(chan *result.Link, c.cfg.Concurrency)
	dispatcher := NewDispatcher(c.cfg.Concurrency)

	n := 0
	scanErr := c.scanner.Scan(ctx, root, func(link *result.Link) {
		n++
		c.log.WithFields(logrus.Fields{
			"path":   link.Path,
			"line":   link.Line,
			"target": link.Target,
		}).Trace("found link")

		dispatcher.Submit(ctx,
			func(jobCtx context.Context) { c.verifier.Verify(jobCtx, link) },
			func() { results <- link },
		)
	})
	if scanErr != nil {
		// Jobs already submitted still send; consume them so none block.
		go func(pending int) {
			for range pending {
				<-results
			}
			_ = dispatcher.Wait()
		}(n)
		return nil, fmt.Errorf("scan %s: %w", root, scanErr)
	}

	c.log.Debugf("scan complete: %d links, %d workers", n, dispatcher.Limit())
	if c.progress != nil {
		c.progress <- CheckEvent{Total: n, Scanned: true}
	}

	report, err := NewAggregator(c.log, c.progress).Drain(results, n)
	if waitErr := dispatcher.Wait(); waitErr != nil && err == nil {
		err = fmt.Errorf("wait for jobs: %w", waitErr)
	}
	if report != nil {
		report.Stats.Duration = time.Since(start)
	}
	return report, err
}
