package traceir

import (
	"io"
	"log/slog"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/philippeDG/babeltrace/errors"
	"github.com/philippeDG/babeltrace/metric"
	"github.com/philippeDG/babeltrace/pkg/lifecycle"
)

// Test the zero config yields the documented defaults
func TestNewTraceClass_Defaults(t *testing.T) {
	tc, err := NewTraceClass(ClassConfig{})
	require.NoError(t, err)
	defer tc.Unref()

	_, hasUUID := tc.UUID()
	assert.False(t, hasUUID)
	assert.True(t, tc.AssignsAutomaticStreamClassID())
	assert.Equal(t, 0, tc.Environment().Len())
	assert.Equal(t, 0, tc.StreamClassCount())
}

// Test the UUID is stored verbatim and never regenerated
func TestNewTraceClass_UUID(t *testing.T) {
	u := uuid.MustParse("2a6422d0-6cee-11e0-8c08-cb07d7b3a564")

	tc, err := NewTraceClass(ClassConfig{UUID: &u})
	require.NoError(t, err)
	defer tc.Unref()

	got, ok := tc.UUID()
	require.True(t, ok)
	assert.Equal(t, u, got)

	// Reading twice returns the identical value
	again, _ := tc.UUID()
	assert.Equal(t, got, again)
}

// Test construction-time environment entries land in order
func TestNewTraceClass_Environment(t *testing.T) {
	tc, err := NewTraceClass(ClassConfig{
		Environment: []EnvironmentEntry{
			{Name: "hostname", Value: StringValue("sessiond-host")},
			{Name: "tracer_major", Value: IntegerValue(2)},
		},
	})
	require.NoError(t, err)
	defer tc.Unref()

	env := tc.Environment()
	require.Equal(t, 2, env.Len())
	first, err := env.EntryAt(0)
	require.NoError(t, err)
	assert.Equal(t, "hostname", first.Name)

	// The view is live: later additions are visible through it
	require.NoError(t, env.AddInteger("tracer_minor", 11))
	assert.Equal(t, 3, tc.Environment().Len())
}

// Test construction rejects bad input atomically
func TestNewTraceClass_Invalid(t *testing.T) {
	tc, err := NewTraceClass(ClassConfig{StreamClassIDs: IDAssignment(7)})
	require.Error(t, err)
	assert.Nil(t, tc)
	assert.True(t, errors.IsInvalidArgument(err))

	tc, err = NewTraceClass(ClassConfig{
		Environment: []EnvironmentEntry{
			{Name: "hostname", Value: StringValue("a")},
			{Name: "hostname", Value: StringValue("b")},
		},
	})
	require.Error(t, err)
	assert.Nil(t, tc)
	assert.True(t, errors.IsDuplicateKey(err))
}

// Test automatic stream class ids start at zero and increase
func TestTraceClass_CreateStreamClass(t *testing.T) {
	tc, err := NewTraceClass(ClassConfig{})
	require.NoError(t, err)
	defer tc.Unref()

	for want := uint64(0); want < 3; want++ {
		sc, err := tc.CreateStreamClass()
		require.NoError(t, err)
		assert.Equal(t, want, sc.ID())
		assert.Same(t, tc, sc.TraceClass())
	}
	assert.Equal(t, 3, tc.StreamClassCount())

	// Explicit ids are forbidden under the automatic policy
	_, err = tc.CreateStreamClassWithID(23)
	require.Error(t, err)
	assert.True(t, errors.IsInvalidArgument(err))
	assert.Equal(t, 3, tc.StreamClassCount())
}

// Test manual id assignment accepts sparse ids and rejects the allocator
func TestTraceClass_CreateStreamClassWithID(t *testing.T) {
	tc, err := NewTraceClass(ClassConfig{StreamClassIDs: IDAssignmentManual})
	require.NoError(t, err)
	defer tc.Unref()

	assert.False(t, tc.AssignsAutomaticStreamClassID())

	for _, id := range []uint64{12, 54, 2018} {
		sc, err := tc.CreateStreamClassWithID(id)
		require.NoError(t, err)
		assert.Equal(t, id, sc.ID())
	}

	// Automatic creation is forbidden under the manual policy
	_, err = tc.CreateStreamClass()
	require.Error(t, err)
	assert.True(t, errors.IsInvalidArgument(err))

	// Reusing an id fails and changes nothing
	before, err := tc.StreamClassByID(54)
	require.NoError(t, err)
	_, err = tc.CreateStreamClassWithID(54)
	require.Error(t, err)
	assert.True(t, errors.IsDuplicateKey(err))
	after, err := tc.StreamClassByID(54)
	require.NoError(t, err)
	assert.Same(t, before, after)
	assert.Equal(t, 3, tc.StreamClassCount())
}

// Test keyed lookups and their three failure kinds
func TestTraceClass_Lookups(t *testing.T) {
	tc, err := NewTraceClass(ClassConfig{StreamClassIDs: IDAssignmentManual})
	require.NoError(t, err)
	defer tc.Unref()

	for _, id := range []uint64{12, 54, 2018} {
		_, err := tc.CreateStreamClassWithID(id)
		require.NoError(t, err)
	}

	sc, err := tc.StreamClassByID(12)
	require.NoError(t, err)
	assert.Equal(t, uint64(12), sc.ID())

	_, err = tc.StreamClassByID(4)
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))

	// Any integer key type resolves
	sc, err = tc.StreamClassByKey(int32(54))
	require.NoError(t, err)
	assert.Equal(t, uint64(54), sc.ID())

	// Negative keys are well-typed misses
	_, err = tc.StreamClassByKey(-1)
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))

	// Non-integer keys are programmer errors, kept distinguishable
	_, err = tc.StreamClassByKey("hello")
	require.Error(t, err)
	assert.True(t, errors.IsWrongKeyType(err))

	// Indexed access follows creation order
	first, err := tc.StreamClassAt(0)
	require.NoError(t, err)
	assert.Equal(t, uint64(12), first.ID())
	_, err = tc.StreamClassAt(3)
	require.Error(t, err)
	assert.True(t, errors.IsInvalidArgument(err))
}

// Test iteration visits each stream class exactly once, in creation order
func TestTraceClass_RangeStreamClasses(t *testing.T) {
	tc, err := NewTraceClass(ClassConfig{StreamClassIDs: IDAssignmentManual})
	require.NoError(t, err)
	defer tc.Unref()

	ids := []uint64{2018, 12, 54}
	for _, id := range ids {
		_, err := tc.CreateStreamClassWithID(id)
		require.NoError(t, err)
	}

	var visited []uint64
	tc.RangeStreamClasses(func(id uint64, sc *StreamClass) bool {
		assert.Equal(t, id, sc.ID())
		visited = append(visited, id)
		return true
	})
	assert.Equal(t, ids, visited)

	visited = visited[:0]
	tc.RangeStreamClasses(func(id uint64, sc *StreamClass) bool {
		visited = append(visited, id)
		return false
	})
	assert.Equal(t, ids[:1], visited)
}

// Test destruction listeners fire exactly once, in registration order, while
// the trace class is still fully formed
func TestTraceClass_DestructionListeners(t *testing.T) {
	tc, err := NewTraceClass(ClassConfig{StreamClassIDs: IDAssignmentManual})
	require.NoError(t, err)
	_, err = tc.CreateStreamClassWithID(12)
	require.NoError(t, err)

	var order []string
	_, err = tc.AddDestructionListenerFunc(func(dead *TraceClass) {
		order = append(order, "first")
		// The entity is intact inside the callback
		assert.Equal(t, 1, dead.StreamClassCount())
	})
	require.NoError(t, err)
	_, err = tc.AddDestructionListenerFunc(func(*TraceClass) {
		order = append(order, "second")
	})
	require.NoError(t, err)

	tc.Unref()
	assert.Equal(t, []string{"first", "second"}, order)
}

// Test removed listeners never fire and unknown handles report not-found
func TestTraceClass_RemoveDestructionListener(t *testing.T) {
	tc, err := NewTraceClass(ClassConfig{})
	require.NoError(t, err)

	fired := false
	h, err := tc.AddDestructionListenerFunc(func(*TraceClass) { fired = true })
	require.NoError(t, err)

	require.NoError(t, tc.RemoveDestructionListener(h))

	// Removing twice reports not-found
	err = tc.RemoveDestructionListener(h)
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))

	tc.Unref()
	assert.False(t, fired)
}

// Test listener registration is rejected once the entity is destroyed
func TestTraceClass_AddListenerAfterDestroy(t *testing.T) {
	tc, err := NewTraceClass(ClassConfig{})
	require.NoError(t, err)
	tc.Unref()

	_, err = tc.AddDestructionListenerFunc(func(*TraceClass) {})
	require.Error(t, err)
	assert.True(t, errors.IsInvalidArgument(err))
}

// Test nil listeners are rejected
func TestTraceClass_AddNilListener(t *testing.T) {
	tc, err := NewTraceClass(ClassConfig{})
	require.NoError(t, err)
	defer tc.Unref()

	_, err = tc.AddDestructionListener(nil)
	require.Error(t, err)
	assert.True(t, errors.IsInvalidArgument(err))

	_, err = tc.AddDestructionListenerFunc(nil)
	require.Error(t, err)
	assert.True(t, errors.IsInvalidArgument(err))
}

// Test the Listener interface form
func TestTraceClass_ListenerInterface(t *testing.T) {
	tc, err := NewTraceClass(ClassConfig{})
	require.NoError(t, err)

	var got *TraceClass
	h, err := tc.AddDestructionListener(lifecycle.ListenerFunc[*TraceClass](func(dead *TraceClass) {
		got = dead
	}))
	require.NoError(t, err)
	assert.NotZero(t, h)

	tc.Unref()
	assert.Same(t, tc, got)
}

// Test owner destruction cascades: trace class listeners fire before its
// stream classes are released
func TestTraceClass_DestructionCascade(t *testing.T) {
	tc, err := NewTraceClass(ClassConfig{})
	require.NoError(t, err)
	sc, err := tc.CreateStreamClass()
	require.NoError(t, err)
	ec, err := sc.CreateEventClass()
	require.NoError(t, err)

	var order []string
	_, err = tc.AddDestructionListenerFunc(func(*TraceClass) { order = append(order, "trace") })
	require.NoError(t, err)
	_, err = sc.AddDestructionListenerFunc(func(*StreamClass) { order = append(order, "stream") })
	require.NoError(t, err)
	_, err = ec.AddDestructionListenerFunc(func(*EventClass) { order = append(order, "event") })
	require.NoError(t, err)

	tc.Unref()
	assert.Equal(t, []string{"trace", "stream", "event"}, order)
}

// Test a stream class retained with Ref outlives its owner and stays readable
func TestTraceClass_RetainedStreamClassSurvives(t *testing.T) {
	tc, err := NewTraceClass(ClassConfig{StreamClassIDs: IDAssignmentManual})
	require.NoError(t, err)

	sc, err := tc.CreateStreamClassWithID(12)
	require.NoError(t, err)
	sc.SetName("kernel")
	sc.Ref() // retain past the owner's lifetime

	scDestroyed := false
	_, err = sc.AddDestructionListenerFunc(func(*StreamClass) { scDestroyed = true })
	require.NoError(t, err)

	tc.Unref()

	// Still alive and fully readable, only the back-reference is gone
	assert.False(t, scDestroyed)
	assert.Equal(t, uint64(12), sc.ID())
	assert.Equal(t, "kernel", sc.Name())
	assert.Nil(t, sc.TraceClass())

	sc.Unref()
	assert.True(t, scDestroyed)
}

// Test listeners alone never keep the entity alive
func TestTraceClass_ListenerDoesNotRetain(t *testing.T) {
	tc, err := NewTraceClass(ClassConfig{})
	require.NoError(t, err)

	fires := 0
	_, err = tc.AddDestructionListenerFunc(func(*TraceClass) { fires++ })
	require.NoError(t, err)

	tc.Unref()
	assert.Equal(t, 1, fires) // a registered listener did not defer destruction
}

// Test reference counting under concurrent use
func TestTraceClass_ConcurrentRefUnref(t *testing.T) {
	tc, err := NewTraceClass(ClassConfig{})
	require.NoError(t, err)

	var destroyed atomic.Int32
	_, err = tc.AddDestructionListenerFunc(func(*TraceClass) { destroyed.Add(1) })
	require.NoError(t, err)

	var g errgroup.Group
	for i := 0; i < 8; i++ {
		g.Go(func() error {
			for j := 0; j < 1000; j++ {
				tc.Ref()
				tc.Unref()
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, int32(0), destroyed.Load())
	tc.Unref()
	assert.Equal(t, int32(1), destroyed.Load())
}

// Test instrumentation counts creations, failures, listener activity and
// destructions
func TestTraceClass_Metrics(t *testing.T) {
	m := metric.NewMetrics()

	tc, err := NewTraceClass(ClassConfig{
		StreamClassIDs: IDAssignmentManual,
		Metrics:        m,
	})
	require.NoError(t, err)

	_, err = tc.CreateStreamClassWithID(12)
	require.NoError(t, err)

	// A policy violation and a duplicate, each by kind
	_, err = tc.CreateStreamClass()
	require.Error(t, err)
	_, err = tc.CreateStreamClassWithID(12)
	require.Error(t, err)

	_, err = tc.AddDestructionListenerFunc(func(*TraceClass) {})
	require.NoError(t, err)

	assert.Equal(t, float64(1),
		testutil.ToFloat64(m.ClassesCreated.WithLabelValues(metric.EntityTraceClass)))
	assert.Equal(t, float64(1),
		testutil.ToFloat64(m.ClassesCreated.WithLabelValues(metric.EntityStreamClass)))
	assert.Equal(t, float64(1),
		testutil.ToFloat64(m.CreateFailures.WithLabelValues("invalid-argument")))
	assert.Equal(t, float64(1),
		testutil.ToFloat64(m.CreateFailures.WithLabelValues("duplicate-key")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.ListenersAttached))

	tc.Unref()

	assert.Equal(t, float64(1),
		testutil.ToFloat64(m.ClassesDestroyed.WithLabelValues(metric.EntityTraceClass)))
	assert.Equal(t, float64(1),
		testutil.ToFloat64(m.ClassesDestroyed.WithLabelValues(metric.EntityStreamClass)))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.ListenersFired))
}

// Test the optional logger is exercised without affecting behavior
func TestTraceClass_Logging(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tc, err := NewTraceClass(ClassConfig{Logger: logger})
	require.NoError(t, err)

	sc, err := tc.CreateStreamClass()
	require.NoError(t, err)
	_, err = sc.CreateEventClass()
	require.NoError(t, err)

	tc.Unref()
}
