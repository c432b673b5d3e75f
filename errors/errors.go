package errors

import (
	"errors"
	"fmt"
)

// Kind represents the classification of errors for handling purposes
type Kind int

const (
	// KindUnknown represents errors that carry no classification
	KindUnknown Kind = iota
	// KindInvalidArgument represents errors due to invalid input or configuration
	KindInvalidArgument
	// KindDuplicateKey represents errors due to reuse of an existing key or id
	KindDuplicateKey
	// KindNotFound represents lookups whose key matched no entry
	KindNotFound
	// KindWrongKeyType represents lookups whose key has an unsupported type
	KindWrongKeyType
)

// String returns the string representation of Kind
func (k Kind) String() string {
	switch k {
	case KindInvalidArgument:
		return "invalid-argument"
	case KindDuplicateKey:
		return "duplicate-key"
	case KindNotFound:
		return "not-found"
	case KindWrongKeyType:
		return "wrong-key-type"
	default:
		return "unknown"
	}
}

// Standard error variables for common conditions
var (
	// Validation errors
	ErrInvalidArgument = errors.New("invalid argument")

	// Registry and lookup errors
	ErrDuplicateKey = errors.New("duplicate key")
	ErrNotFound     = errors.New("not found")
	ErrWrongKeyType = errors.New("wrong key type")
)

// ClassifiedError wraps an error with its classification
type ClassifiedError struct {
	Kind      Kind
	Err       error
	Message   string
	Entity    string
	Operation string
}

// Error implements the error interface
func (ce *ClassifiedError) Error() string {
	if ce.Message != "" {
		return ce.Message
	}
	return ce.Err.Error()
}

// Unwrap returns the underlying error
func (ce *ClassifiedError) Unwrap() error {
	return ce.Err
}

// IsInvalidArgument checks if an error was caused by invalid input
func IsInvalidArgument(err error) bool {
	return kindMatches(err, KindInvalidArgument, ErrInvalidArgument)
}

// IsDuplicateKey checks if an error was caused by reuse of an existing key
func IsDuplicateKey(err error) bool {
	return kindMatches(err, KindDuplicateKey, ErrDuplicateKey)
}

// IsNotFound checks if an error was caused by a lookup miss
func IsNotFound(err error) bool {
	return kindMatches(err, KindNotFound, ErrNotFound)
}

// IsWrongKeyType checks if an error was caused by a key of an unsupported type
func IsWrongKeyType(err error) bool {
	return kindMatches(err, KindWrongKeyType, ErrWrongKeyType)
}

func kindMatches(err error, kind Kind, sentinel error) bool {
	if err == nil {
		return false
	}

	// Check for classified error
	var ce *ClassifiedError
	if errors.As(err, &ce) {
		return ce.Kind == kind
	}

	return errors.Is(err, sentinel)
}

// KindOf returns the Kind for an error
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}

	if IsInvalidArgument(err) {
		return KindInvalidArgument
	}
	if IsDuplicateKey(err) {
		return KindDuplicateKey
	}
	if IsNotFound(err) {
		return KindNotFound
	}
	if IsWrongKeyType(err) {
		return KindWrongKeyType
	}

	return KindUnknown
}

// newClassified creates a new classified error
// This is an internal helper - use the Wrap* constructors instead.
func newClassified(kind Kind, err error, entity, operation, message string) *ClassifiedError {
	return &ClassifiedError{
		Kind:      kind,
		Err:       err,
		Message:   message,
		Entity:    entity,
		Operation: operation,
	}
}

// Wrap creates a standardized error with context following the pattern:
// "entity.operation: action: %w"
func Wrap(err error, entity, operation, action string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s.%s: %s: %w", entity, operation, action, err)
}

// WrapInvalidArgument wraps an error as invalid-argument with context
func WrapInvalidArgument(err error, entity, operation, action string) error {
	if err == nil {
		return nil
	}
	wrappedErr := Wrap(err, entity, operation, action)
	return newClassified(KindInvalidArgument, wrappedErr, entity, operation, wrappedErr.Error())
}

// WrapDuplicateKey wraps an error as duplicate-key with context
func WrapDuplicateKey(err error, entity, operation, action string) error {
	if err == nil {
		return nil
	}
	wrappedErr := Wrap(err, entity, operation, action)
	return newClassified(KindDuplicateKey, wrappedErr, entity, operation, wrappedErr.Error())
}

// WrapNotFound wraps an error as not-found with context
func WrapNotFound(err error, entity, operation, action string) error {
	if err == nil {
		return nil
	}
	wrappedErr := Wrap(err, entity, operation, action)
	return newClassified(KindNotFound, wrappedErr, entity, operation, wrappedErr.Error())
}

// WrapWrongKeyType wraps an error as wrong-key-type with context
func WrapWrongKeyType(err error, entity, operation, action string) error {
	if err == nil {
		return nil
	}
	wrappedErr := Wrap(err, entity, operation, action)
	return newClassified(KindWrongKeyType, wrappedErr, entity, operation, wrappedErr.Error())
}
