package traceir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/philippeDG/babeltrace/errors"
)

// newTestEventClass returns an event class plus the owning trace class
func newTestEventClass(t *testing.T) (*TraceClass, *EventClass) {
	t.Helper()
	tc, err := NewTraceClass(ClassConfig{})
	require.NoError(t, err)
	sc, err := tc.CreateStreamClass()
	require.NoError(t, err)
	ec, err := sc.CreateEventClass()
	require.NoError(t, err)
	return tc, ec
}

// Test identity and naming
func TestEventClass_Identity(t *testing.T) {
	tc, ec := newTestEventClass(t)
	defer tc.Unref()

	assert.Equal(t, uint64(0), ec.ID())
	assert.Empty(t, ec.Name())

	ec.SetName("sched_switch")
	assert.Equal(t, "sched_switch", ec.Name())

	require.NotNil(t, ec.StreamClass())
	assert.Same(t, tc, ec.StreamClass().TraceClass())
}

// Test the log level is absent until set and validated when set
func TestEventClass_LogLevel(t *testing.T) {
	tc, ec := newTestEventClass(t)
	defer tc.Unref()

	_, ok := ec.LogLevel()
	assert.False(t, ok)

	require.NoError(t, ec.SetLogLevel(LogLevelWarning))
	level, ok := ec.LogLevel()
	require.True(t, ok)
	assert.Equal(t, LogLevelWarning, level)

	// Levels can be reassigned
	require.NoError(t, ec.SetLogLevel(LogLevelDebugLine))
	level, _ = ec.LogLevel()
	assert.Equal(t, LogLevelDebugLine, level)

	// Out-of-range levels are rejected and keep the previous value
	err := ec.SetLogLevel(LogLevel(99))
	require.Error(t, err)
	assert.True(t, errors.IsInvalidArgument(err))
	err = ec.SetLogLevel(LogLevel(-1))
	require.Error(t, err)
	assert.True(t, errors.IsInvalidArgument(err))

	level, ok = ec.LogLevel()
	require.True(t, ok)
	assert.Equal(t, LogLevelDebugLine, level)
}

// Test log level names cover the extended syslog scale
func TestLogLevel_String(t *testing.T) {
	names := map[LogLevel]string{
		LogLevelEmergency:     "emergency",
		LogLevelAlert:         "alert",
		LogLevelCritical:      "critical",
		LogLevelError:         "error",
		LogLevelWarning:       "warning",
		LogLevelNotice:        "notice",
		LogLevelInfo:          "info",
		LogLevelDebugSystem:   "debug-system",
		LogLevelDebugProgram:  "debug-program",
		LogLevelDebugProcess:  "debug-process",
		LogLevelDebugModule:   "debug-module",
		LogLevelDebugUnit:     "debug-unit",
		LogLevelDebugFunction: "debug-function",
		LogLevelDebugLine:     "debug-line",
		LogLevelDebug:         "debug",
	}
	for level, want := range names {
		assert.Equal(t, want, level.String())
	}
	assert.Equal(t, "unknown", LogLevel(99).String())
}

// Test the payload structure attachment
func TestEventClass_Payload(t *testing.T) {
	tc, ec := newTestEventClass(t)
	defer tc.Unref()

	assert.Nil(t, ec.PayloadFieldClass())

	err := ec.SetPayloadFieldClass(nil)
	require.Error(t, err)
	assert.True(t, errors.IsInvalidArgument(err))

	payload := NewStructureFieldClass()
	require.NoError(t, payload.AppendMember("prev_comm", NewStringFieldClass()))
	require.NoError(t, payload.AppendMember("prev_tid", NewSignedIntegerFieldClass()))

	require.NoError(t, ec.SetPayloadFieldClass(payload))
	assert.Same(t, payload, ec.PayloadFieldClass())
}

// Test destruction listeners on event classes
func TestEventClass_DestructionListeners(t *testing.T) {
	tc, ec := newTestEventClass(t)

	var order []string
	_, err := ec.AddDestructionListenerFunc(func(dead *EventClass) {
		order = append(order, "a")
		assert.Same(t, ec, dead)
	})
	require.NoError(t, err)
	_, err = ec.AddDestructionListenerFunc(func(*EventClass) { order = append(order, "b") })
	require.NoError(t, err)

	removed := false
	h, err := ec.AddDestructionListenerFunc(func(*EventClass) { removed = true })
	require.NoError(t, err)
	require.NoError(t, ec.RemoveDestructionListener(h))

	tc.Unref()

	assert.Equal(t, []string{"a", "b"}, order)
	assert.False(t, removed)

	err = ec.RemoveDestructionListener(h)
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}
