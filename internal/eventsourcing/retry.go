package eventsourcing

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/impierce/ssi-agent-sub000/internal/eventsourcing/metrics"
)

// RetryWorker re-drives failed projections in the background. Commands
// succeed once their events are durably appended; a projector error is
// surfaced through metrics and handed here rather than failing the command.
// Jobs are retried at a fixed interval until they succeed or maxAttempts is
// exhausted, after which they are counted as dropped and logged loudly so an
// operator can replay the aggregate.
type RetryWorker struct {
	jobs        chan retryJob
	interval    time.Duration
	maxAttempts int
	logger      *slog.Logger
	metrics     *metrics.Metrics

	group  *errgroup.Group
	cancel context.CancelFunc
}

type retryJob struct {
	projector   Projector
	aggregateID string
	envelopes   []Envelope
	attempts    int
}

func NewRetryWorker(interval time.Duration, maxAttempts int, logger *slog.Logger, m *metrics.Metrics) *RetryWorker {
	if interval <= 0 {
		interval = time.Second
	}
	if maxAttempts <= 0 {
		maxAttempts = 5
	}
	return &RetryWorker{
		jobs:        make(chan retryJob, 256),
		interval:    interval,
		maxAttempts: maxAttempts,
		logger:      logger,
		metrics:     m,
	}
}

// Enqueue hands a failed projection to the worker. It never blocks the
// dispatcher: when the buffer is full the job is dropped and counted.
func (w *RetryWorker) Enqueue(projector Projector, aggregateID string, envelopes []Envelope) {
	select {
	case w.jobs <- retryJob{projector: projector, aggregateID: aggregateID, envelopes: envelopes}:
	default:
		w.metrics.ProjectionDropped.Inc()
		w.logger.Error("projection retry queue full, dropping job", "aggregate_id", aggregateID)
	}
}

// Start launches the retry loop. Call Stop to drain and shut down.
func (w *RetryWorker) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel
	w.group, ctx = errgroup.WithContext(ctx)

	w.group.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case job := <-w.jobs:
				w.run(ctx, job)
			}
		}
	})
}

// Stop terminates the retry loop.
func (w *RetryWorker) Stop() {
	if w.cancel == nil {
		return
	}
	w.cancel()
	_ = w.group.Wait()
}

func (w *RetryWorker) run(ctx context.Context, job retryJob) {
	timer := time.NewTimer(w.interval)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return
	case <-timer.C:
	}

	w.metrics.ProjectionRetries.Inc()
	err := job.projector.Project(ctx, job.aggregateID, job.envelopes)
	if err == nil {
		return
	}

	job.attempts++
	if job.attempts >= w.maxAttempts {
		w.metrics.ProjectionDropped.Inc()
		w.logger.Error("projection abandoned after max attempts",
			"aggregate_id", job.aggregateID,
			"attempts", job.attempts,
			"error", err,
		)
		return
	}

	w.logger.Warn("projection retry failed, requeueing",
		"aggregate_id", job.aggregateID,
		"attempts", job.attempts,
		"error", err,
	)
	select {
	case w.jobs <- job:
	default:
		w.metrics.ProjectionDropped.Inc()
	}
}
