package lifecycle

import "errors"

// Sentinel errors for listener registry operations
var (
	// ErrNilListener indicates a nil listener or listener function was provided
	ErrNilListener = errors.New("listener cannot be nil")

	// ErrListenerNotFound indicates the handle matches no registered listener
	ErrListenerNotFound = errors.New("listener not found")

	// ErrAlreadyNotified indicates the notifier already fired its listeners
	ErrAlreadyNotified = errors.New("entity already destroyed")
)
