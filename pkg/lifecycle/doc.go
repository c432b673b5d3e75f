// Package lifecycle provides generic reference counting and destruction
// notification for entities whose teardown must be deterministic.
//
// # Overview
//
// The lifecycle package implements the two mechanisms shared by every
// reference-counted entity in the object model:
//
//   - RefCount: an atomic shared-ownership counter that runs a destroy hook
//     exactly once, synchronously, on the goroutine releasing the final
//     reference
//   - Notifier: an ordered, single-fire registry of destruction listeners
//     with removal by handle
//
// # Quick Start
//
// An entity embeds both and wires them together:
//
//	type Widget struct {
//		listeners lifecycle.Notifier[*Widget]
//		refs      *lifecycle.RefCount
//	}
//
//	func NewWidget() *Widget {
//		w := &Widget{}
//		w.refs = lifecycle.NewRefCount(func() {
//			w.listeners.Notify(w)
//		})
//		return w
//	}
//
//	handle, _ := w.listeners.AddFunc(func(w *Widget) {
//		// w is valid only for the duration of this call
//	})
//
//	w.Ref()   // share ownership
//	w.Unref() // release it; the last Unref fires the listeners
//
// # Guarantees
//
// Listeners run in registration order, each at most once, on the goroutine
// that released the final reference. Registering a listener never extends the
// entity's lifetime. Ref and Unref are safe for concurrent use; reviving a
// fully released entity or releasing more references than were taken is a
// programmer error and panics, matching the sync.WaitGroup contract.
package lifecycle
