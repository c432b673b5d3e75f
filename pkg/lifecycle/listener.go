package lifecycle

import (
	"sync"
)

// Listener receives a destruction notification for an entity of type T.
// The entity is fully formed when the callback runs and must not be retained
// after the callback returns.
type Listener[T any] interface {
	EntityDestroyed(entity T)
}

// ListenerFunc adapts a plain function to the Listener interface
type ListenerFunc[T any] func(entity T)

// EntityDestroyed implements Listener
func (f ListenerFunc[T]) EntityDestroyed(entity T) {
	f(entity)
}

// ListenerHandle identifies a registered listener for later removal.
// Handles are unique within one Notifier and are never reused.
type ListenerHandle uint64

// registration pairs a listener with its handle, preserving insertion order
type registration[T any] struct {
	handle   ListenerHandle
	listener Listener[T]
}

// Notifier is an ordered, single-fire registry of destruction listeners.
// The zero value is ready to use. Registered listeners never contribute to
// the entity's reference count.
type Notifier[T any] struct {
	mu         sync.Mutex
	nextHandle ListenerHandle
	listeners  []registration[T]
	notified   bool
}

// Add registers a listener and returns its removal handle.
// Returns ErrNilListener for a nil listener and ErrAlreadyNotified once the
// notifier has fired.
func (n *Notifier[T]) Add(l Listener[T]) (ListenerHandle, error) {
	if l == nil {
		return 0, ErrNilListener
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	if n.notified {
		return 0, ErrAlreadyNotified
	}

	n.nextHandle++
	n.listeners = append(n.listeners, registration[T]{
		handle:   n.nextHandle,
		listener: l,
	})
	return n.nextHandle, nil
}

// AddFunc registers a plain function as a listener
func (n *Notifier[T]) AddFunc(fn func(entity T)) (ListenerHandle, error) {
	if fn == nil {
		return 0, ErrNilListener
	}
	return n.Add(ListenerFunc[T](fn))
}

// Remove unregisters the listener identified by handle.
// Remaining listeners keep their registration order. Returns
// ErrListenerNotFound if the handle matches no registered listener.
func (n *Notifier[T]) Remove(handle ListenerHandle) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	for i, reg := range n.listeners {
		if reg.handle == handle {
			n.listeners = append(n.listeners[:i], n.listeners[i+1:]...)
			return nil
		}
	}
	return ErrListenerNotFound
}

// Len returns the number of registered listeners
func (n *Notifier[T]) Len() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.listeners)
}

// Notify invokes every registered listener exactly once, synchronously, in
// registration order. Subsequent calls are no-ops. Listeners run outside the
// notifier's lock so a callback may inspect the entity freely.
func (n *Notifier[T]) Notify(entity T) {
	n.mu.Lock()
	if n.notified {
		n.mu.Unlock()
		return
	}
	n.notified = true
	fired := n.listeners
	n.listeners = nil
	n.mu.Unlock()

	for _, reg := range fired {
		reg.listener.EntityDestroyed(entity)
	}
}
