package eventsourcing

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/impierce/ssi-agent-sub000/internal/eventsourcing/metrics"
	syncutil "github.com/impierce/ssi-agent-sub000/pkg/platform/sync"
)

// UnmarshalEventFunc decodes a persisted payload back into a typed domain
// event. Each aggregate package supplies one for its closed event set.
type UnmarshalEventFunc[E Event] func(eventType string, payload []byte) (E, error)

// CommandHandler is the dispatcher for one aggregate type: it loads the
// event log, folds it into current state, asks the aggregate to handle the
// command, appends the resulting events as a unit, and drives the registered
// projectors in event order.
//
// Commands against the same aggregate id are serialized via a sharded mutex
// so no two commands observe the same pre-state concurrently; commands
// against different ids run in parallel. The event store additionally
// enforces an expected-sequence check for out-of-process writers.
type CommandHandler[E Event, C Command, A Aggregate[E, C]] struct {
	store        EventStore
	newAggregate func() A
	unmarshal    UnmarshalEventFunc[E]
	projectors   []Projector
	retry        *RetryWorker
	locks        *syncutil.ShardedMutex
	logger       *slog.Logger
	metrics      *metrics.Metrics
	tracer       trace.Tracer
	clock        func() time.Time
}

// Option configures a CommandHandler.
type Option func(*handlerOptions)

type handlerOptions struct {
	projectors []Projector
	retry      *RetryWorker
	logger     *slog.Logger
	metrics    *metrics.Metrics
	clock      func() time.Time
}

// WithProjectors registers the projectors driven after each append.
func WithProjectors(projectors ...Projector) Option {
	return func(o *handlerOptions) {
		o.projectors = append(o.projectors, projectors...)
	}
}

// WithRetryWorker routes failed projections to an asynchronous retry worker.
func WithRetryWorker(w *RetryWorker) Option {
	return func(o *handlerOptions) {
		o.retry = w
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *handlerOptions) {
		o.logger = logger
	}
}

// WithMetrics sets the metrics collector.
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *handlerOptions) {
		o.metrics = m
	}
}

// WithClock overrides the timestamp source, for deterministic tests.
func WithClock(clock func() time.Time) Option {
	return func(o *handlerOptions) {
		o.clock = clock
	}
}

// NewCommandHandler builds a dispatcher for one aggregate type. newAggregate
// returns the zero state; services are closed over by the factory, never
// held in persisted state.
func NewCommandHandler[E Event, C Command, A Aggregate[E, C]](
	store EventStore,
	newAggregate func() A,
	unmarshal UnmarshalEventFunc[E],
	opts ...Option,
) *CommandHandler[E, C, A] {
	options := handlerOptions{
		logger: slog.Default(),
		clock:  time.Now,
	}
	for _, opt := range opts {
		opt(&options)
	}
	if options.metrics == nil {
		options.metrics = metrics.New()
	}

	return &CommandHandler[E, C, A]{
		store:        store,
		newAggregate: newAggregate,
		unmarshal:    unmarshal,
		projectors:   options.projectors,
		retry:        options.retry,
		locks:        syncutil.NewShardedMutex(),
		logger:       options.logger,
		metrics:      options.metrics,
		tracer:       otel.Tracer("ssi-agent/eventsourcing"),
		clock:        options.clock,
	}
}

// Execute runs one command against one aggregate instance. Handle errors
// abort the command with zero side effects and are returned verbatim; the
// command succeeds once its events are durably appended. Projector failures
// do not fail the command: they are counted, logged, and retried
// asynchronously.
func (h *CommandHandler[E, C, A]) Execute(ctx context.Context, aggregateID string, cmd C, metadata map[string]string) error {
	aggregateType := h.newAggregate().AggregateType()

	ctx, span := h.tracer.Start(ctx, "command.execute", trace.WithAttributes(
		attribute.String("aggregate.type", aggregateType),
		attribute.String("aggregate.id", aggregateID),
		attribute.String("command.type", cmd.CommandType()),
	))
	defer span.End()

	start := h.clock()
	err := h.execute(ctx, aggregateType, aggregateID, cmd, metadata)
	h.metrics.CommandDuration.WithLabelValues(aggregateType).Observe(time.Since(start).Seconds())

	if err != nil {
		h.metrics.CommandsHandled.WithLabelValues(aggregateType, "error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	h.metrics.CommandsHandled.WithLabelValues(aggregateType, "ok").Inc()
	return nil
}

func (h *CommandHandler[E, C, A]) execute(ctx context.Context, aggregateType, aggregateID string, cmd C, metadata map[string]string) error {
	key := streamKey(aggregateType, aggregateID)
	h.locks.Lock(key)
	defer h.locks.Unlock(key)

	persisted, err := h.store.Load(ctx, aggregateType, aggregateID)
	if err != nil {
		return fmt.Errorf("load aggregate %q: %w", aggregateID, err)
	}

	aggregate := h.newAggregate()
	for _, env := range persisted {
		event, err := h.unmarshal(env.EventType, env.Payload)
		if err != nil {
			return fmt.Errorf("decode event %q seq %d: %w", env.EventType, env.Sequence, err)
		}
		if err := aggregate.Apply(event); err != nil {
			return fmt.Errorf("apply event %q seq %d: %w", env.EventType, env.Sequence, err)
		}
	}

	events, err := aggregate.Handle(ctx, cmd)
	if err != nil {
		// Domain rejection: no I/O against the event log has happened.
		return err
	}
	if len(events) == 0 {
		return nil
	}

	now := h.clock().UTC()
	envelopes := make([]Envelope, 0, len(events))
	for i, event := range events {
		env, err := NewEnvelope(aggregateType, aggregateID, len(persisted)+i+1, event, metadata, now)
		if err != nil {
			return fmt.Errorf("encode event %q: %w", event.EventType(), err)
		}
		envelopes = append(envelopes, env)
	}

	if err := h.store.Append(ctx, aggregateType, aggregateID, len(persisted), envelopes); err != nil {
		return err
	}
	h.metrics.EventsAppended.WithLabelValues(aggregateType).Add(float64(len(envelopes)))

	for _, projector := range h.projectors {
		if err := projector.Project(ctx, aggregateID, envelopes); err != nil {
			h.metrics.ProjectionFailures.WithLabelValues(aggregateType).Inc()
			h.logger.Error("projection failed",
				"aggregate_type", aggregateType,
				"aggregate_id", aggregateID,
				"error", err,
			)
			if h.retry != nil {
				h.retry.Enqueue(projector, aggregateID, envelopes)
			}
		}
	}
	return nil
}
