package lifecycle

import (
	"sync/atomic"
)

// RefCount tracks shared ownership of an entity and runs a destroy hook when
// the final reference is released. The count starts at 1 for the creating
// caller. All methods are safe for concurrent use.
type RefCount struct {
	refs    atomic.Int64
	destroy func()
}

// NewRefCount returns a counter holding one reference.
// The destroy hook runs exactly once, synchronously, on the goroutine that
// releases the final reference. Panics if destroy is nil.
func NewRefCount(destroy func()) *RefCount {
	if destroy == nil {
		panic("lifecycle: NewRefCount called with nil destroy hook")
	}
	rc := &RefCount{destroy: destroy}
	rc.refs.Store(1)
	return rc
}

// Ref acquires one additional reference.
// Panics if the entity has already been destroyed; a destroyed entity cannot
// be revived.
func (rc *RefCount) Ref() {
	for {
		current := rc.refs.Load()
		if current <= 0 {
			panic("lifecycle: Ref on destroyed entity")
		}
		if rc.refs.CompareAndSwap(current, current+1) {
			return
		}
	}
}

// Unref releases one reference. Releasing the final reference runs the
// destroy hook before Unref returns. Panics on unbalanced use.
func (rc *RefCount) Unref() {
	remaining := rc.refs.Add(-1)
	switch {
	case remaining == 0:
		rc.destroy()
	case remaining < 0:
		panic("lifecycle: Unref on destroyed entity")
	}
}

// Refs returns the current reference count. Zero means destroyed.
func (rc *RefCount) Refs() int64 {
	return rc.refs.Load()
}
