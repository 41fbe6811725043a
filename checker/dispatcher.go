package checker

import (
	"context"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// Dispatcher runs submitted jobs with at most C executing at once.
// Submit never blocks on running jobs, so the scan is not slowed by the
// network. Jobs carry no ordering guarantee.
type Dispatcher struct {
	group errgroup.Group
	sem   *semaphore.Weighted
	limit int
}

// NewDispatcher creates a Dispatcher with the given concurrency limit.
// A non-positive limit falls back to the default of 10.
func NewDispatcher(concurrency int) *Dispatcher {
	if concurrency <= 0 {
		concurrency = DefaultConfig().Concurrency
	}
	return &Dispatcher{
		sem:   semaphore.NewWeighted(int64(concurrency)),
		limit: concurrency,
	}
}

// Limit returns the concurrency limit.
func (d *Dispatcher) Limit() int {
	return d.limit
}

// Submit schedules work and then deliver. Only work counts against the
// concurrency limit: the slot is released before deliver runs, so a
// deliver blocked on a slow consumer never holds back other jobs. If ctx
// is cancelled before a slot frees up, work still runs, with the cancelled
// context, so that it can produce a terminal result. deliver may be nil.
func (d *Dispatcher) Submit(ctx context.Context, work func(context.Context), deliver func()) {
	d.group.Go(func() error {
		if err := d.sem.Acquire(ctx, 1); err != nil {
			work(ctx)
		} else {
			func() {
				defer d.sem.Release(1)
				work(ctx)
			}()
		}
		if deliver != nil {
			deliver()
		}
		return nil
	})
}

// Wait blocks until every submitted job has returned.
func (d *Dispatcher) Wait() error {
	return d.group.Wait()
}
