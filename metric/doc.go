// Package metric provides Prometheus-based instrumentation for the trace IR
// object model.
//
// The package offers a centralized metrics registry managing both core
// object-model metrics (class creation, destruction, listener activity) and
// custom metrics registered by embedding applications. Exposition is left to
// the application: the registry hands out a standard http.Handler instead of
// running its own server.
//
// # Architecture
//
// The package follows a two-layer design:
//
//  1. Core Metrics: object-model metrics automatically registered (Metrics type)
//  2. Custom Registry: extensible registration for application metrics (MetricsRegistrar interface)
//
// Core metrics are recorded by the traceir package itself; the registry exists
// so applications embedding the object model can add their own instruments to
// the same scrape endpoint.
//
// # Basic Usage
//
// Setting up metrics collection:
//
//	registry := metric.NewMetricsRegistry()
//
//	tc, err := traceir.NewTraceClass(traceir.ClassConfig{
//	    Metrics: registry.CoreMetrics(),
//	})
//
//	// Expose on an existing server
//	mux.Handle("/metrics", registry.Handler())
//
// Entities accept a nil *Metrics, in which case every Record method is a
// no-op. Instrumentation is therefore strictly opt-in and call sites never
// guard against a missing collector.
//
// # Core Metrics
//
// The registry automatically registers object-model metrics tracking:
//
//   - Class creation: babeltrace_classes_created_total{entity}
//   - Class destruction: babeltrace_classes_destroyed_total{entity}
//   - Creation failures: babeltrace_classes_create_failures_total{kind}
//   - Listener activity: babeltrace_lifecycle_listeners_fired_total,
//     babeltrace_lifecycle_listeners_attached_total
//
// The entity label carries one of the Entity* constants (trace_class,
// stream_class, event_class); the kind label carries the error kind that
// caused a creation to fail (invalid-argument, duplicate-key, ...).
//
// # Custom Metrics
//
// Applications can register their own instruments through the registry:
//
//	sessionsOpen := prometheus.NewGauge(prometheus.GaugeOpts{
//	    Name: "converter_sessions_open",
//	    Help: "Number of conversion sessions currently holding a trace class",
//	})
//	err := registry.RegisterGauge("converter", "converter_sessions_open", sessionsOpen)
//
// Registration is keyed by (owner, metric name); registering the same pair
// twice fails with a DuplicateKey error, as does a name collision inside the
// underlying Prometheus registry:
//
//	if err := registry.RegisterGauge("converter", "converter_sessions_open", other); err != nil {
//	    if errors.IsDuplicateKey(err) {
//	        // already registered
//	    }
//	}
//
// Unregister removes a previously registered instrument and reports whether
// anything was removed:
//
//	removed := registry.Unregister("converter", "converter_sessions_open")
//
// # Exposition
//
// Handler returns a promhttp handler (with OpenMetrics enabled) over the
// registry's collectors, including the Go runtime and process collectors:
//
//	srv := &http.Server{Addr: ":9090", Handler: registry.Handler()}
//
// # Thread Safety
//
// All registry operations and all Record methods are safe for concurrent use.
package metric
