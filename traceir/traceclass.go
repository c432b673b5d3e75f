package traceir

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/philippeDG/babeltrace/errors"
	"github.com/philippeDG/babeltrace/metric"
	"github.com/philippeDG/babeltrace/pkg/lifecycle"
)

// IDAssignment selects who assigns child class ids
type IDAssignment int

const (
	// IDAssignmentAutomatic lets the owning class allocate ids starting at zero
	IDAssignmentAutomatic IDAssignment = iota
	// IDAssignmentManual requires the caller to supply every id
	IDAssignmentManual
)

// String returns the string representation of IDAssignment
func (a IDAssignment) String() string {
	switch a {
	case IDAssignmentAutomatic:
		return "automatic"
	case IDAssignmentManual:
		return "manual"
	default:
		return "unknown"
	}
}

// ClassConfig carries the construction-time configuration of a TraceClass.
// The zero value is valid: no UUID, automatic stream class ids, an empty
// environment, and no logging or metrics.
type ClassConfig struct {
	// UUID is stored verbatim when non-nil and never regenerated
	UUID *uuid.UUID

	// StreamClassIDs fixes the id-assignment policy for the class's lifetime
	StreamClassIDs IDAssignment

	// Environment entries are inserted in the order given here
	Environment []EnvironmentEntry

	// Logger receives lifecycle events at debug level; nil disables logging
	Logger *slog.Logger

	// Metrics receives instrumentation; nil disables it
	Metrics *metric.Metrics
}

// TraceClass is the aggregate root of the trace metadata object model. It
// owns an insertion-ordered environment, a registry of stream classes keyed
// by numeric id, an optional UUID, and destruction listeners fired when the
// last reference is released.
//
// Mutating operations follow a single-owner discipline; reference counting
// alone is safe for concurrent use. NewTraceClass returns an owned reference:
// the creating caller must eventually call Unref.
type TraceClass struct {
	uuidValue      uuid.UUID
	hasUUID        bool
	streamClassIDs IDAssignment
	env            *Environment
	streamClasses  *classRegistry[*StreamClass]

	listeners lifecycle.Notifier[*TraceClass]
	refs      *lifecycle.RefCount

	logger  *slog.Logger
	metrics *metric.Metrics
}

// NewTraceClass constructs a trace class from cfg. Construction is atomic:
// on any validation failure nothing observable is created.
func NewTraceClass(cfg ClassConfig) (*TraceClass, error) {
	switch cfg.StreamClassIDs {
	case IDAssignmentAutomatic, IDAssignmentManual:
	default:
		return nil, errors.WrapInvalidArgument(errors.ErrInvalidArgument,
			"TraceClass", "NewTraceClass",
			fmt.Sprintf("unknown id assignment policy %d", int(cfg.StreamClassIDs)))
	}

	tc := &TraceClass{
		streamClassIDs: cfg.StreamClassIDs,
		env:            newEnvironment(),
		streamClasses:  newClassRegistry[*StreamClass]("stream class"),
		logger:         cfg.Logger,
		metrics:        cfg.Metrics,
	}
	if cfg.UUID != nil {
		tc.uuidValue = *cfg.UUID
		tc.hasUUID = true
	}

	for _, entry := range cfg.Environment {
		if err := tc.env.Add(entry.Name, entry.Value); err != nil {
			return nil, err
		}
	}

	tc.refs = lifecycle.NewRefCount(tc.destroy)

	tc.metrics.RecordTraceClassCreated()
	if tc.logger != nil {
		tc.logger.Debug("trace class created",
			"stream_class_ids", tc.streamClassIDs.String(),
			"environment_entries", tc.env.Len(),
			"has_uuid", tc.hasUUID)
	}
	return tc, nil
}

// UUID returns the construction-time UUID and whether one was set
func (tc *TraceClass) UUID() (uuid.UUID, bool) {
	return tc.uuidValue, tc.hasUUID
}

// AssignsAutomaticStreamClassID reports whether stream class ids are
// allocated by this trace class rather than supplied by callers
func (tc *TraceClass) AssignsAutomaticStreamClassID() bool {
	return tc.streamClassIDs == IDAssignmentAutomatic
}

// Environment returns the environment view. The returned store is the live
// one, not a copy.
func (tc *TraceClass) Environment() *Environment {
	return tc.env
}

// CreateStreamClass creates a stream class with an automatically allocated
// id. It fails with an invalid-argument error when the trace class uses
// manual id assignment. Allocated ids start at zero, increase monotonically
// and are never reused.
//
// The returned reference is borrowed: the trace class holds the owning
// reference. Call Ref on the stream class to retain it past the trace
// class's lifetime.
func (tc *TraceClass) CreateStreamClass() (*StreamClass, error) {
	if tc.streamClassIDs != IDAssignmentAutomatic {
		err := errors.WrapInvalidArgument(errors.ErrInvalidArgument,
			"TraceClass", "CreateStreamClass",
			"trace class assigns stream class ids manually, an explicit id is required")
		tc.metrics.RecordCreateFailure(errors.KindOf(err).String())
		return nil, err
	}
	return tc.registerStreamClass(tc.streamClasses.allocateID(), "CreateStreamClass")
}

// CreateStreamClassWithID creates a stream class with the supplied id. It
// fails with an invalid-argument error when the trace class assigns ids
// automatically, and with a duplicate-key error when the id already exists.
// Creation is atomic: after a failure the registry is unchanged.
func (tc *TraceClass) CreateStreamClassWithID(id uint64) (*StreamClass, error) {
	if tc.streamClassIDs != IDAssignmentManual {
		err := errors.WrapInvalidArgument(errors.ErrInvalidArgument,
			"TraceClass", "CreateStreamClassWithID",
			"trace class assigns stream class ids automatically, explicit ids are forbidden")
		tc.metrics.RecordCreateFailure(errors.KindOf(err).String())
		return nil, err
	}
	return tc.registerStreamClass(id, "CreateStreamClassWithID")
}

func (tc *TraceClass) registerStreamClass(id uint64, operation string) (*StreamClass, error) {
	sc := newStreamClass(tc, id)
	if err := tc.streamClasses.add(id, sc, "TraceClass", operation); err != nil {
		tc.metrics.RecordCreateFailure(errors.KindOf(err).String())
		return nil, err
	}

	tc.metrics.RecordStreamClassCreated()
	if tc.logger != nil {
		tc.logger.Debug("stream class created", "stream_class_id", id)
	}
	return sc, nil
}

// StreamClassByID returns the stream class with the given id, or a not-found
// error when no entry has that id
func (tc *TraceClass) StreamClassByID(id uint64) (*StreamClass, error) {
	return tc.streamClasses.get(id, "TraceClass", "StreamClassByID")
}

// StreamClassByKey resolves a dynamically typed lookup key. Integer keys
// behave like StreamClassByID; any other key type fails with a
// wrong-key-type error, keeping a programmer error distinguishable from a
// missing id.
func (tc *TraceClass) StreamClassByKey(key any) (*StreamClass, error) {
	return tc.streamClasses.getByKey(key, "TraceClass", "StreamClassByKey")
}

// StreamClassAt returns the stream class at creation index i
func (tc *TraceClass) StreamClassAt(i int) (*StreamClass, error) {
	return tc.streamClasses.at(i, "TraceClass", "StreamClassAt")
}

// StreamClassCount returns the number of stream classes
func (tc *TraceClass) StreamClassCount() int {
	return tc.streamClasses.len()
}

// RangeStreamClasses calls fn for each (id, stream class) pair in creation
// order until fn returns false. Every pair is visited exactly once as long
// as no mutation happens during iteration.
func (tc *TraceClass) RangeStreamClasses(fn func(id uint64, sc *StreamClass) bool) {
	tc.streamClasses.rangeEntries(fn)
}

// AddDestructionListener registers a listener fired when the last reference
// to this trace class is released. The returned handle removes it again.
// Listeners never keep the trace class alive.
func (tc *TraceClass) AddDestructionListener(l lifecycle.Listener[*TraceClass]) (lifecycle.ListenerHandle, error) {
	h, err := tc.listeners.Add(l)
	if err != nil {
		return 0, errors.WrapInvalidArgument(err,
			"TraceClass", "AddDestructionListener", "register destruction listener")
	}
	tc.metrics.RecordListenerAttached()
	return h, nil
}

// AddDestructionListenerFunc registers a plain function as a destruction
// listener
func (tc *TraceClass) AddDestructionListenerFunc(fn func(*TraceClass)) (lifecycle.ListenerHandle, error) {
	h, err := tc.listeners.AddFunc(fn)
	if err != nil {
		return 0, errors.WrapInvalidArgument(err,
			"TraceClass", "AddDestructionListenerFunc", "register destruction listener")
	}
	tc.metrics.RecordListenerAttached()
	return h, nil
}

// RemoveDestructionListener unregisters the listener identified by handle
func (tc *TraceClass) RemoveDestructionListener(h lifecycle.ListenerHandle) error {
	if err := tc.listeners.Remove(h); err != nil {
		return errors.WrapNotFound(err,
			"TraceClass", "RemoveDestructionListener",
			fmt.Sprintf("listener handle %d", h))
	}
	return nil
}

// Ref acquires an additional reference to the trace class
func (tc *TraceClass) Ref() {
	tc.refs.Ref()
}

// Unref releases one reference. Releasing the last one destroys the trace
// class synchronously: destruction listeners fire first, in registration
// order, while the entity is still fully formed; afterwards the trace class
// releases its stream classes, which destroys every stream class not
// externally retained.
func (tc *TraceClass) Unref() {
	tc.refs.Unref()
}

func (tc *TraceClass) destroy() {
	fired := tc.listeners.Len()
	tc.listeners.Notify(tc)

	for _, sc := range tc.streamClasses.values() {
		sc.detach()
		sc.Unref()
	}
	tc.streamClasses.clear()

	tc.metrics.RecordListenersFired(fired)
	tc.metrics.RecordEntityDestroyed(metric.EntityTraceClass)
	if tc.logger != nil {
		tc.logger.Debug("trace class destroyed", "destruction_listeners", fired)
	}
}
