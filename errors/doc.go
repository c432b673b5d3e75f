// Package errors provides standardized error handling patterns for the trace
// IR object model.
//
// # Overview
//
// The errors package implements a four-kind error classification for registry
// style APIs: InvalidArgument (bad input or configuration), DuplicateKey
// (reuse of an existing key or id), NotFound (a lookup whose key matched no
// entry) and WrongKeyType (a lookup whose key has an unsupported type).
//
// The classification lets callers branch on failure category without
// hardcoded error string matching, and gives the metric layer a stable label
// per failure kind.
//
// # Error Classification
//
// Every error produced by this module falls into one of the kinds:
//
//   - InvalidArgument: nil inputs, out-of-range values, operations rejected
//     by the entity's current state (frozen id policy, destroyed entity)
//   - DuplicateKey: an id, name or label that already exists in a registry
//   - NotFound: a lookup key that matched no entry
//   - WrongKeyType: a lookup key whose Go type the registry cannot interpret
//
// The classification integrates with Go's standard error handling patterns,
// supporting errors.Is(), errors.As() and error wrapping chains.
//
// # Quick Start
//
// Wrap errors with context at the failure site:
//
//	if _, exists := r.byID[id]; exists {
//	    return errors.WrapDuplicateKey(errors.ErrDuplicateKey,
//	        "StreamClass", "CreateEventClassWithID",
//	        fmt.Sprintf("event class id %d", id))
//	}
//
// Check classification at the call site:
//
//	sc, err := tc.StreamClassByID(12)
//	if errors.IsNotFound(err) {
//	    // no stream class with that id; create it
//	}
//
// # Error Wrapping Pattern
//
// All error wrapping follows the standardized format:
//
//	"entity.operation: action: %w"
//
// The Wrap family of functions applies this pattern while attaching the
// classification, so both the message shape and the kind survive the chain:
//
//	errors.WrapInvalidArgument(err, "TraceClass", "SetUUID", "parse uuid")
//	errors.WrapDuplicateKey(err, "Environment", "Add", "entry name")
//	errors.WrapNotFound(err, "TraceClass", "StreamClassByID", "id 12")
//	errors.WrapWrongKeyType(err, "TraceClass", "StreamClassByKey", "key type bool")
//
// The generic Wrap() adds the same context without a classification.
//
// # Standard Error Variables
//
// Sentinels exist for each kind and seed most wrapped errors:
//
//	errors.ErrInvalidArgument
//	errors.ErrDuplicateKey
//	errors.ErrNotFound
//	errors.ErrWrongKeyType
//
// # Integration with errors.Is/As
//
// Classification is preserved through error chains:
//
//	err := errors.WrapNotFound(errors.ErrNotFound, "TraceClass", "StreamClassByID", "id 4")
//	errors.IsNotFound(err)              // true
//	errors.Is(err, errors.ErrNotFound)  // true
//
//	var ce *errors.ClassifiedError
//	if errors.As(err, &ce) {
//	    log.Printf("entity=%s operation=%s kind=%s", ce.Entity, ce.Operation, ce.Kind)
//	}
//
// KindOf reports the kind of any error, which is how creation failures get
// their metric label:
//
//	metrics.RecordCreateFailure(errors.KindOf(err).String())
//
// # Thread Safety
//
// Error variables are immutable and safe for concurrent access. A
// ClassifiedError is safe to share across goroutines after creation.
package errors
