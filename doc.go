// Package babeltrace provides an in-memory registry for trace metadata
// classes: the schema side of a tracing system, describing what traces,
// streams and events look like before any trace data exists.
//
// # Object Model
//
// The model is a three-level hierarchy of metadata classes:
//
//	TraceClass                 aggregate root
//	  ├── Environment          ordered name → value annotations
//	  └── StreamClass ...      registered by unique numeric id
//	        └── EventClass ... registered by unique numeric id
//
// A TraceClass describes a category of traces: an optional UUID, an ordered
// environment of producer annotations (hostname, domain, tracer version) and
// a registry of stream classes. A StreamClass describes one kind of data
// stream and owns a registry of event classes plus an optional packet context
// structure. An EventClass describes one kind of event record: a name, an
// optional log level on the extended syslog scale and an optional payload
// structure. Field classes (integer, enumeration, real, string, structure)
// describe the shape of payload and context fields.
//
// # Ownership and Destruction
//
// Every class in the hierarchy is shared through explicit reference counts.
// Creation hands the caller one reference; Ref acquires another; Unref
// releases one, and releasing the last destroys the entity synchronously on
// the releasing goroutine. Destruction listeners registered on an entity fire
// exactly once, in registration order, while the entity is still fully
// formed; afterwards the entity releases its children, cascading destruction
// to any child not externally retained. Parent links (StreamClass.TraceClass,
// EventClass.StreamClass) are weak: they never extend the parent's lifetime
// and become nil once the parent is gone.
//
// # Id Assignment
//
// Each registry level is either automatic (ids allocated 0, 1, 2, ... and
// never reused) or manual (the caller supplies every id; duplicates are
// rejected). The trace class fixes its policy at construction; a stream class
// may switch its event-class policy until the first event class exists.
//
// # Packages
//
// Core object model:
//   - traceir: TraceClass, StreamClass, EventClass, Environment, field classes
//   - pkg/lifecycle: generic reference counting and destruction notification
//
// Creation boundary:
//   - config: descriptor files (JSON/YAML), schema validation, Build
//
// Infrastructure:
//   - errors: classified error taxonomy (invalid-argument, duplicate-key,
//     not-found, wrong-key-type)
//   - metric: Prometheus instrumentation of creations, destructions and
//     listener activity
//
// # Usage Patterns
//
// Building a hierarchy programmatically:
//
//	tc, err := traceir.NewTraceClass(traceir.ClassConfig{
//	    StreamClassIDs: traceir.IDAssignmentManual,
//	})
//	if err != nil {
//	    return err
//	}
//	defer tc.Unref()
//
//	sc, err := tc.CreateStreamClassWithID(12)
//	if err != nil {
//	    return err
//	}
//	sc.SetName("kernel")
//
//	ec, err := sc.CreateEventClass()
//	if err != nil {
//	    return err
//	}
//	ec.SetName("sched_switch")
//
// Building from a descriptor file:
//
//	desc, err := config.Load("trace.yaml")
//	if err != nil {
//	    return err
//	}
//	tc, err := desc.Build(config.BuildOptions{Logger: logger, Metrics: metrics})
//	if err != nil {
//	    return err
//	}
//	defer tc.Unref()
//
// Observing destruction:
//
//	handle, _ := tc.AddDestructionListenerFunc(func(dead *traceir.TraceClass) {
//	    log.Printf("trace class destroyed with %d stream classes", dead.StreamClassCount())
//	})
//	// ... later, before destruction, if the notification is no longer wanted:
//	_ = tc.RemoveDestructionListener(handle)
//
// # Error Handling
//
// Every failure carries one of four kinds, checkable through the errors
// package predicates:
//
//	if _, err := tc.StreamClassByID(99); errors.IsNotFound(err) {
//	    // no stream class 99
//	}
//
// InvalidArgument covers bad input and policy violations, DuplicateKey covers
// id and name reuse, NotFound covers lookup misses and WrongKeyType covers
// dynamic lookups keyed by a non-integer type.
//
// # Observability
//
// Entities optionally carry a *slog.Logger (lifecycle events at Debug) and a
// *metric.Metrics (Prometheus counters for creations, destructions, creation
// failures by kind and listener activity). Both are nil-safe: a zero
// ClassConfig builds a silent, unmetered hierarchy.
//
// # Design Principles
//
// Deterministic teardown:
//   - Destruction is synchronous and ordered, never deferred to a finalizer
//   - Listeners see a fully formed entity, children intact
//
// Explicit sharing:
//   - References are counted, not inferred
//   - Weak parent links keep retained children usable after the parent dies
//
// Uniform failure taxonomy:
//   - Four kinds cover every failure across the model and its config boundary
//   - Kinds survive wrapping and feed metric labels directly
package babeltrace
