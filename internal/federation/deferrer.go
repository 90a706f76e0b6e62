package federation

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Deferrer runs dispatches in the background. The request that created the
// entity never waits on them and never sees their errors. Failures are
// logged and not retried.
type Deferrer struct {
	dispatcher Dispatcher
	timeout    time.Duration
	logger     *slog.Logger
	wg         sync.WaitGroup
}

// NewDeferrer creates a deferrer whose dispatches give up after timeout.
func NewDeferrer(dispatcher Dispatcher, timeout time.Duration, logger *slog.Logger) *Deferrer {
	return &Deferrer{
		dispatcher: dispatcher,
		timeout:    timeout,
		logger:     logger,
	}
}

// Defer dispatches job on its own goroutine. ctx only contributes values;
// its cancellation does not abort the dispatch.
func (d *Deferrer) Defer(ctx context.Context, job Job) {
	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now().UTC()
	}

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.timeout)
		defer cancel()

		if err := d.dispatcher.Dispatch(ctx, job); err != nil {
			d.logger.Error("federation dispatch failed",
				"entity_type", job.EntityType,
				"entity_guid", job.EntityGUID,
				"error", err,
			)
			return
		}
		d.logger.Debug("federation dispatch queued",
			"entity_type", job.EntityType,
			"entity_guid", job.EntityGUID,
		)
	}()
}

// Wait blocks until every deferred dispatch has finished.
func (d *Deferrer) Wait() {
	d.wg.Wait()
}
