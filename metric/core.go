package metric

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics contains the core object-model metrics (not consumer-specific).
// Every Record method is safe to call on a nil receiver, so entities can
// carry an optional *Metrics without guarding each call site.
type Metrics struct {
	// Class lifecycle metrics
	ClassesCreated    *prometheus.CounterVec
	ClassesDestroyed  *prometheus.CounterVec
	CreateFailures    *prometheus.CounterVec
	ListenersFired    prometheus.Counter
	ListenersAttached prometheus.Counter
}

// Entity label values used by the core metrics
const (
	EntityTraceClass  = "trace_class"
	EntityStreamClass = "stream_class"
	EntityEventClass  = "event_class"
)

// NewMetrics creates a new Metrics instance with all core metrics
func NewMetrics() *Metrics {
	return &Metrics{
		ClassesCreated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "babeltrace",
				Subsystem: "classes",
				Name:      "created_total",
				Help:      "Total number of classes created, by entity kind",
			},
			[]string{"entity"},
		),

		ClassesDestroyed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "babeltrace",
				Subsystem: "classes",
				Name:      "destroyed_total",
				Help:      "Total number of classes destroyed, by entity kind",
			},
			[]string{"entity"},
		),

		CreateFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "babeltrace",
				Subsystem: "classes",
				Name:      "create_failures_total",
				Help:      "Total number of failed class creations, by error kind",
			},
			[]string{"kind"},
		),

		ListenersFired: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "babeltrace",
				Subsystem: "lifecycle",
				Name:      "listeners_fired_total",
				Help:      "Total number of destruction listener invocations",
			},
		),

		ListenersAttached: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "babeltrace",
				Subsystem: "lifecycle",
				Name:      "listeners_attached_total",
				Help:      "Total number of destruction listener registrations",
			},
		),
	}
}

// RecordTraceClassCreated increments the created counter for trace classes
func (c *Metrics) RecordTraceClassCreated() {
	if c == nil {
		return
	}
	c.ClassesCreated.WithLabelValues(EntityTraceClass).Inc()
}

// RecordStreamClassCreated increments the created counter for stream classes
func (c *Metrics) RecordStreamClassCreated() {
	if c == nil {
		return
	}
	c.ClassesCreated.WithLabelValues(EntityStreamClass).Inc()
}

// RecordEventClassCreated increments the created counter for event classes
func (c *Metrics) RecordEventClassCreated() {
	if c == nil {
		return
	}
	c.ClassesCreated.WithLabelValues(EntityEventClass).Inc()
}

// RecordEntityDestroyed increments the destroyed counter for an entity kind
func (c *Metrics) RecordEntityDestroyed(entity string) {
	if c == nil {
		return
	}
	c.ClassesDestroyed.WithLabelValues(entity).Inc()
}

// RecordCreateFailure increments the failure counter for an error kind
func (c *Metrics) RecordCreateFailure(kind string) {
	if c == nil {
		return
	}
	c.CreateFailures.WithLabelValues(kind).Inc()
}

// RecordListenersFired adds the number of listeners a destruction invoked
func (c *Metrics) RecordListenersFired(count int) {
	if c == nil || count <= 0 {
		return
	}
	c.ListenersFired.Add(float64(count))
}

// RecordListenerAttached increments the listener registration counter
func (c *Metrics) RecordListenerAttached() {
	if c == nil {
		return
	}
	c.ListenersAttached.Inc()
}
