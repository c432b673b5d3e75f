// Package traceir provides the trace metadata object model: trace classes,
// stream classes, event classes and the field classes describing their
// payloads. It is the registry a trace producer populates before any data
// flows, and the schema a consumer walks to interpret that data.
//
// # Object Model
//
// The model is a three-level hierarchy of peer entities:
//
// 1. TraceClass - The aggregate root: UUID, environment, stream classes
// 2. StreamClass - One class of streams: name, event classes, packet context
// 3. EventClass - One class of events: name, log level, payload structure
//
// Every child is keyed by a numeric id unique within its owner and is
// additionally reachable by creation index, so the hierarchy supports both
// keyed lookup and ordered iteration.
//
// # Ownership and Lifecycle
//
// Entities are reference counted. Constructors and Create methods hand the
// owner role to the caller or to the owning class:
//
//   - NewTraceClass returns an owned reference; the caller must Unref it.
//   - CreateStreamClass and CreateEventClass return borrowed references; the
//     owning class holds the owning reference and releases it when it is
//     destroyed itself.
//
// A borrowed child can be retained past its owner's lifetime with Ref. A
// retained child stays fully readable after the owner is gone; only its
// weak back-reference (TraceClass or StreamClass accessor) becomes nil.
//
// Destruction is synchronous and runs on the goroutine releasing the last
// reference: destruction listeners fire first, in registration order, while
// the entity is still fully formed; afterwards the entity releases its own
// children.
//
// # Id Assignment
//
// Each class fixes an id-assignment policy for its children:
//
//   - Automatic: the class allocates ids itself, starting at zero,
//     monotonically increasing, never reused. Explicit ids are rejected.
//   - Manual: every creation supplies its id. Missing ids are rejected, and
//     colliding ids fail without disturbing the registry.
//
// A trace class's policy is fixed at construction. A stream class assigns
// event class ids automatically by default and may switch policy until its
// first event class exists.
//
// # Destruction Listeners
//
// Listeners observe the end of an entity's lifetime without extending it:
//
//	tc, _ := traceir.NewTraceClass(traceir.ClassConfig{})
//	handle, _ := tc.AddDestructionListenerFunc(func(tc *traceir.TraceClass) {
//		// runs exactly once, before children are released
//	})
//	_ = tc.RemoveDestructionListener(handle) // optional
//	tc.Unref()
//
// # Environment
//
// The trace class environment is an insertion-ordered, write-once store of
// named string or integer values describing the traced system (hostname,
// tracer version, clock offset). Entries cannot be replaced or removed once
// added.
//
// # Field Classes
//
// Field classes describe the shape of event payloads and packet contexts:
// integers with display bases and value ranges, enumerations mapping labels
// to value ranges, reals, strings, and structures of uniquely named members.
// They are plain values without lifecycle: the garbage collector reclaims
// them.
//
// # Concurrency
//
// Ref and Unref are safe for concurrent use. Everything else follows a
// single-owner discipline: one goroutine mutates a given entity at a time,
// and reads are safe only while no mutation is in flight. The model never
// spawns goroutines and never fires a listener asynchronously.
//
// # Errors
//
// Failures carry the taxonomy in the errors package: invalid-argument for
// policy violations and malformed input, duplicate-key for id and name
// collisions, not-found for missing lookups, and wrong-key-type for lookup
// keys of a non-integer type. Callers branch with errors.IsNotFound and
// friends rather than string matching.
package traceir
