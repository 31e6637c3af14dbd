package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus metrics for the command/query engine.
type Metrics struct {
	CommandsHandled    *prometheus.CounterVec
	EventsAppended     *prometheus.CounterVec
	CommandDuration    *prometheus.HistogramVec
	ProjectionFailures *prometheus.CounterVec
	ProjectionRetries  prometheus.Counter
	ProjectionDropped  prometheus.Counter
}

// New creates and registers all engine metrics with the default registry.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith registers the metrics with the given registerer. Tests pass a fresh
// registry to avoid duplicate registration panics.
func NewWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		CommandsHandled: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ssi_agent_commands_handled_total",
			Help: "Commands dispatched, partitioned by aggregate type and result",
		}, []string{"aggregate_type", "result"}),
		EventsAppended: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ssi_agent_events_appended_total",
			Help: "Events durably appended to the event store",
		}, []string{"aggregate_type"}),
		CommandDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ssi_agent_command_duration_seconds",
			Help:    "End-to-end command execution duration including projection",
			Buckets: prometheus.DefBuckets,
		}, []string{"aggregate_type"}),
		ProjectionFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ssi_agent_projection_failures_total",
			Help: "Projector invocations that returned an error",
		}, []string{"aggregate_type"}),
		ProjectionRetries: factory.NewCounter(prometheus.CounterOpts{
			Name: "ssi_agent_projection_retries_total",
			Help: "Asynchronous retries of failed projections",
		}),
		ProjectionDropped: factory.NewCounter(prometheus.CounterOpts{
			Name: "ssi_agent_projection_dropped_total",
			Help: "Projections abandoned after exhausting retry attempts",
		}),
	}
}
