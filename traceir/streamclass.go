package traceir

import (
	"fmt"
	"log/slog"

	"github.com/philippeDG/babeltrace/errors"
	"github.com/philippeDG/babeltrace/metric"
	"github.com/philippeDG/babeltrace/pkg/lifecycle"
)

// StreamClass describes one class of streams within a trace class: a numeric
// id unique within its owner, an optional name, a registry of event classes
// and an optional packet context structure.
//
// A stream class is a peer entity with the same lifecycle pattern as
// TraceClass: its owner holds the owning reference, external holders may
// Ref/Unref it, and its destruction listeners fire exactly once when the
// last reference goes away. A stream class retained beyond its owner's
// destruction stays fully readable.
type StreamClass struct {
	id           uint64
	name         string
	traceClass   *TraceClass
	eventClassID IDAssignment
	eventClasses *classRegistry[*EventClass]
	packetCtx    *StructureFieldClass

	listeners lifecycle.Notifier[*StreamClass]
	refs      *lifecycle.RefCount

	logger  *slog.Logger
	metrics *metric.Metrics
}

func newStreamClass(tc *TraceClass, id uint64) *StreamClass {
	sc := &StreamClass{
		id:           id,
		traceClass:   tc,
		eventClassID: IDAssignmentAutomatic,
		eventClasses: newClassRegistry[*EventClass]("event class"),
		logger:       tc.logger,
		metrics:      tc.metrics,
	}
	sc.refs = lifecycle.NewRefCount(sc.destroy)
	return sc
}

// ID returns the stream class id, unique within the owning trace class
func (sc *StreamClass) ID() uint64 {
	return sc.id
}

// Name returns the stream class name, empty when unset
func (sc *StreamClass) Name() string {
	return sc.name
}

// SetName names the stream class
func (sc *StreamClass) SetName(name string) {
	sc.name = name
}

// TraceClass returns the owning trace class. The back-reference is weak: it
// never extends the owner's lifetime, and it is nil once the owner has
// released this stream class.
func (sc *StreamClass) TraceClass() *TraceClass {
	return sc.traceClass
}

// AssignsAutomaticEventClassID reports whether event class ids are allocated
// by this stream class rather than supplied by callers. New stream classes
// assign automatically.
func (sc *StreamClass) AssignsAutomaticEventClassID() bool {
	return sc.eventClassID == IDAssignmentAutomatic
}

// SetAssignsAutomaticEventClassID switches the event class id policy. The
// policy is fixed once the first event class exists; switching later fails
// with an invalid-argument error.
func (sc *StreamClass) SetAssignsAutomaticEventClassID(automatic bool) error {
	if sc.eventClasses.len() > 0 {
		return errors.WrapInvalidArgument(errors.ErrInvalidArgument,
			"StreamClass", "SetAssignsAutomaticEventClassID",
			fmt.Sprintf("id policy is fixed, stream class already has %d event classes", sc.eventClasses.len()))
	}
	if automatic {
		sc.eventClassID = IDAssignmentAutomatic
	} else {
		sc.eventClassID = IDAssignmentManual
	}
	return nil
}

// CreateEventClass creates an event class with an automatically allocated
// id. It fails with an invalid-argument error when the stream class uses
// manual id assignment. The returned reference is borrowed, like stream
// class creation on TraceClass.
func (sc *StreamClass) CreateEventClass() (*EventClass, error) {
	if sc.eventClassID != IDAssignmentAutomatic {
		err := errors.WrapInvalidArgument(errors.ErrInvalidArgument,
			"StreamClass", "CreateEventClass",
			"stream class assigns event class ids manually, an explicit id is required")
		sc.metrics.RecordCreateFailure(errors.KindOf(err).String())
		return nil, err
	}
	return sc.registerEventClass(sc.eventClasses.allocateID(), "CreateEventClass")
}

// CreateEventClassWithID creates an event class with the supplied id. It
// fails with an invalid-argument error when the stream class assigns ids
// automatically, and with a duplicate-key error when the id already exists.
func (sc *StreamClass) CreateEventClassWithID(id uint64) (*EventClass, error) {
	if sc.eventClassID != IDAssignmentManual {
		err := errors.WrapInvalidArgument(errors.ErrInvalidArgument,
			"StreamClass", "CreateEventClassWithID",
			"stream class assigns event class ids automatically, explicit ids are forbidden")
		sc.metrics.RecordCreateFailure(errors.KindOf(err).String())
		return nil, err
	}
	return sc.registerEventClass(id, "CreateEventClassWithID")
}

func (sc *StreamClass) registerEventClass(id uint64, operation string) (*EventClass, error) {
	ec := newEventClass(sc, id)
	if err := sc.eventClasses.add(id, ec, "StreamClass", operation); err != nil {
		sc.metrics.RecordCreateFailure(errors.KindOf(err).String())
		return nil, err
	}

	sc.metrics.RecordEventClassCreated()
	if sc.logger != nil {
		sc.logger.Debug("event class created",
			"stream_class_id", sc.id, "event_class_id", id)
	}
	return ec, nil
}

// EventClassByID returns the event class with the given id, or a not-found
// error when no entry has that id
func (sc *StreamClass) EventClassByID(id uint64) (*EventClass, error) {
	return sc.eventClasses.get(id, "StreamClass", "EventClassByID")
}

// EventClassByKey resolves a dynamically typed lookup key with the same
// semantics as TraceClass.StreamClassByKey
func (sc *StreamClass) EventClassByKey(key any) (*EventClass, error) {
	return sc.eventClasses.getByKey(key, "StreamClass", "EventClassByKey")
}

// EventClassAt returns the event class at creation index i
func (sc *StreamClass) EventClassAt(i int) (*EventClass, error) {
	return sc.eventClasses.at(i, "StreamClass", "EventClassAt")
}

// EventClassCount returns the number of event classes
func (sc *StreamClass) EventClassCount() int {
	return sc.eventClasses.len()
}

// RangeEventClasses calls fn for each (id, event class) pair in creation
// order until fn returns false
func (sc *StreamClass) RangeEventClasses(fn func(id uint64, ec *EventClass) bool) {
	sc.eventClasses.rangeEntries(fn)
}

// PacketContextFieldClass returns the packet context structure, nil when unset
func (sc *StreamClass) PacketContextFieldClass() *StructureFieldClass {
	return sc.packetCtx
}

// SetPacketContextFieldClass attaches the structure describing per-packet
// context fields
func (sc *StreamClass) SetPacketContextFieldClass(fc *StructureFieldClass) error {
	if fc == nil {
		return errors.WrapInvalidArgument(errors.ErrInvalidArgument,
			"StreamClass", "SetPacketContextFieldClass", "field class cannot be nil")
	}
	sc.packetCtx = fc
	return nil
}

// AddDestructionListener registers a listener fired when the last reference
// to this stream class is released
func (sc *StreamClass) AddDestructionListener(l lifecycle.Listener[*StreamClass]) (lifecycle.ListenerHandle, error) {
	h, err := sc.listeners.Add(l)
	if err != nil {
		return 0, errors.WrapInvalidArgument(err,
			"StreamClass", "AddDestructionListener", "register destruction listener")
	}
	sc.metrics.RecordListenerAttached()
	return h, nil
}

// AddDestructionListenerFunc registers a plain function as a destruction
// listener
func (sc *StreamClass) AddDestructionListenerFunc(fn func(*StreamClass)) (lifecycle.ListenerHandle, error) {
	h, err := sc.listeners.AddFunc(fn)
	if err != nil {
		return 0, errors.WrapInvalidArgument(err,
			"StreamClass", "AddDestructionListenerFunc", "register destruction listener")
	}
	sc.metrics.RecordListenerAttached()
	return h, nil
}

// RemoveDestructionListener unregisters the listener identified by handle
func (sc *StreamClass) RemoveDestructionListener(h lifecycle.ListenerHandle) error {
	if err := sc.listeners.Remove(h); err != nil {
		return errors.WrapNotFound(err,
			"StreamClass", "RemoveDestructionListener",
			fmt.Sprintf("listener handle %d", h))
	}
	return nil
}

// Ref acquires an additional reference to the stream class
func (sc *StreamClass) Ref() {
	sc.refs.Ref()
}

// Unref releases one reference, destroying the stream class when it was the
// last one
func (sc *StreamClass) Unref() {
	sc.refs.Unref()
}

// detach severs the weak back-reference when the owner releases this child
func (sc *StreamClass) detach() {
	sc.traceClass = nil
}

func (sc *StreamClass) destroy() {
	fired := sc.listeners.Len()
	sc.listeners.Notify(sc)

	for _, ec := range sc.eventClasses.values() {
		ec.detach()
		ec.Unref()
	}
	sc.eventClasses.clear()

	sc.metrics.RecordListenersFired(fired)
	sc.metrics.RecordEntityDestroyed(metric.EntityStreamClass)
	if sc.logger != nil {
		sc.logger.Debug("stream class destroyed",
			"stream_class_id", sc.id, "destruction_listeners", fired)
	}
}
