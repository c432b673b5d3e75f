package traceir

import (
	"fmt"
	"log/slog"

	"github.com/philippeDG/babeltrace/errors"
	"github.com/philippeDG/babeltrace/metric"
	"github.com/philippeDG/babeltrace/pkg/lifecycle"
)

// LogLevel is the severity attached to an event class, on the extended
// syslog scale used by trace formats
type LogLevel int

const (
	// LogLevelEmergency means the system is unusable
	LogLevelEmergency LogLevel = iota
	// LogLevelAlert means action must be taken immediately
	LogLevelAlert
	// LogLevelCritical means a critical condition
	LogLevelCritical
	// LogLevelError means an error condition
	LogLevelError
	// LogLevelWarning means a warning condition
	LogLevelWarning
	// LogLevelNotice means a normal but significant condition
	LogLevelNotice
	// LogLevelInfo means an informational message
	LogLevelInfo
	// LogLevelDebugSystem means system-level debug information
	LogLevelDebugSystem
	// LogLevelDebugProgram means program-level debug information
	LogLevelDebugProgram
	// LogLevelDebugProcess means process-level debug information
	LogLevelDebugProcess
	// LogLevelDebugModule means module-level debug information
	LogLevelDebugModule
	// LogLevelDebugUnit means unit-level debug information
	LogLevelDebugUnit
	// LogLevelDebugFunction means function-level debug information
	LogLevelDebugFunction
	// LogLevelDebugLine means line-level debug information
	LogLevelDebugLine
	// LogLevelDebug means general debug information
	LogLevelDebug
)

// String returns the string representation of LogLevel
func (l LogLevel) String() string {
	switch l {
	case LogLevelEmergency:
		return "emergency"
	case LogLevelAlert:
		return "alert"
	case LogLevelCritical:
		return "critical"
	case LogLevelError:
		return "error"
	case LogLevelWarning:
		return "warning"
	case LogLevelNotice:
		return "notice"
	case LogLevelInfo:
		return "info"
	case LogLevelDebugSystem:
		return "debug-system"
	case LogLevelDebugProgram:
		return "debug-program"
	case LogLevelDebugProcess:
		return "debug-process"
	case LogLevelDebugModule:
		return "debug-module"
	case LogLevelDebugUnit:
		return "debug-unit"
	case LogLevelDebugFunction:
		return "debug-function"
	case LogLevelDebugLine:
		return "debug-line"
	case LogLevelDebug:
		return "debug"
	default:
		return "unknown"
	}
}

func validLogLevel(l LogLevel) bool {
	return l >= LogLevelEmergency && l <= LogLevelDebug
}

// EventClass describes one class of events within a stream class: a numeric
// id unique within its owner, an optional name, an optional log level and an
// optional payload structure. It follows the same lifecycle pattern as
// StreamClass.
type EventClass struct {
	id          uint64
	name        string
	streamClass *StreamClass
	logLevel    LogLevel
	hasLogLevel bool
	payload     *StructureFieldClass

	listeners lifecycle.Notifier[*EventClass]
	refs      *lifecycle.RefCount

	logger  *slog.Logger
	metrics *metric.Metrics
}

func newEventClass(sc *StreamClass, id uint64) *EventClass {
	ec := &EventClass{
		id:          id,
		streamClass: sc,
		logger:      sc.logger,
		metrics:     sc.metrics,
	}
	ec.refs = lifecycle.NewRefCount(ec.destroy)
	return ec
}

// ID returns the event class id, unique within the owning stream class
func (ec *EventClass) ID() uint64 {
	return ec.id
}

// Name returns the event class name, empty when unset
func (ec *EventClass) Name() string {
	return ec.name
}

// SetName names the event class
func (ec *EventClass) SetName(name string) {
	ec.name = name
}

// StreamClass returns the owning stream class. The back-reference is weak
// and nil once the owner has released this event class.
func (ec *EventClass) StreamClass() *StreamClass {
	return ec.streamClass
}

// LogLevel returns the event class severity and whether one was set
func (ec *EventClass) LogLevel() (LogLevel, bool) {
	return ec.logLevel, ec.hasLogLevel
}

// SetLogLevel attaches a severity to the event class
func (ec *EventClass) SetLogLevel(l LogLevel) error {
	if !validLogLevel(l) {
		return errors.WrapInvalidArgument(errors.ErrInvalidArgument,
			"EventClass", "SetLogLevel", fmt.Sprintf("unknown log level %d", int(l)))
	}
	ec.logLevel = l
	ec.hasLogLevel = true
	return nil
}

// PayloadFieldClass returns the payload structure, nil when unset
func (ec *EventClass) PayloadFieldClass() *StructureFieldClass {
	return ec.payload
}

// SetPayloadFieldClass attaches the structure describing the event payload
func (ec *EventClass) SetPayloadFieldClass(fc *StructureFieldClass) error {
	if fc == nil {
		return errors.WrapInvalidArgument(errors.ErrInvalidArgument,
			"EventClass", "SetPayloadFieldClass", "field class cannot be nil")
	}
	ec.payload = fc
	return nil
}

// AddDestructionListener registers a listener fired when the last reference
// to this event class is released
func (ec *EventClass) AddDestructionListener(l lifecycle.Listener[*EventClass]) (lifecycle.ListenerHandle, error) {
	h, err := ec.listeners.Add(l)
	if err != nil {
		return 0, errors.WrapInvalidArgument(err,
			"EventClass", "AddDestructionListener", "register destruction listener")
	}
	ec.metrics.RecordListenerAttached()
	return h, nil
}

// AddDestructionListenerFunc registers a plain function as a destruction
// listener
func (ec *EventClass) AddDestructionListenerFunc(fn func(*EventClass)) (lifecycle.ListenerHandle, error) {
	h, err := ec.listeners.AddFunc(fn)
	if err != nil {
		return 0, errors.WrapInvalidArgument(err,
			"EventClass", "AddDestructionListenerFunc", "register destruction listener")
	}
	ec.metrics.RecordListenerAttached()
	return h, nil
}

// RemoveDestructionListener unregisters the listener identified by handle
func (ec *EventClass) RemoveDestructionListener(h lifecycle.ListenerHandle) error {
	if err := ec.listeners.Remove(h); err != nil {
		return errors.WrapNotFound(err,
			"EventClass", "RemoveDestructionListener",
			fmt.Sprintf("listener handle %d", h))
	}
	return nil
}

// Ref acquires an additional reference to the event class
func (ec *EventClass) Ref() {
	ec.refs.Ref()
}

// Unref releases one reference, destroying the event class when it was the
// last one
func (ec *EventClass) Unref() {
	ec.refs.Unref()
}

// detach severs the weak back-reference when the owner releases this child
func (ec *EventClass) detach() {
	ec.streamClass = nil
}

func (ec *EventClass) destroy() {
	fired := ec.listeners.Len()
	ec.listeners.Notify(ec)

	ec.metrics.RecordListenersFired(fired)
	ec.metrics.RecordEntityDestroyed(metric.EntityEventClass)
	if ec.logger != nil {
		ec.logger.Debug("event class destroyed",
			"event_class_id", ec.id, "destruction_listeners", fired)
	}
}
