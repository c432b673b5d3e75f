package traceir

import (
	"fmt"

	"github.com/philippeDG/babeltrace/errors"
)

// classRegistry holds child classes keyed by numeric id, preserving creation
// order for iteration and by-index access. One registry only ever sees one
// id-assignment policy: either every id comes from allocateID or every id is
// caller-supplied. The automatic allocator is monotonic from zero and never
// hands out the same id twice, so removal support added later cannot make it
// reuse a freed id.
type classRegistry[T any] struct {
	childName string
	byID      map[uint64]T
	order     []uint64
	nextAuto  uint64
}

func newClassRegistry[T any](childName string) *classRegistry[T] {
	return &classRegistry[T]{
		childName: childName,
		byID:      make(map[uint64]T),
	}
}

// allocateID returns the next automatic id
func (r *classRegistry[T]) allocateID() uint64 {
	id := r.nextAuto
	r.nextAuto++
	return id
}

// add registers v under id. A colliding id fails with a duplicate-key error
// and leaves the registry unchanged.
func (r *classRegistry[T]) add(id uint64, v T, entity, operation string) error {
	if _, exists := r.byID[id]; exists {
		return errors.WrapDuplicateKey(errors.ErrDuplicateKey, entity, operation,
			fmt.Sprintf("%s id %d already exists", r.childName, id))
	}
	r.byID[id] = v
	r.order = append(r.order, id)
	return nil
}

// get returns the entry with the given id or a not-found error
func (r *classRegistry[T]) get(id uint64, entity, operation string) (T, error) {
	v, ok := r.byID[id]
	if !ok {
		var zero T
		return zero, errors.WrapNotFound(errors.ErrNotFound, entity, operation,
			fmt.Sprintf("no %s with id %d", r.childName, id))
	}
	return v, nil
}

// getByKey resolves a dynamically typed key. Integer keys of any width are
// accepted; a negative integer is a well-typed key that can never match, so
// it reports not-found. Every other key type reports wrong-key-type — the two
// failure kinds stay distinguishable for callers.
func (r *classRegistry[T]) getByKey(key any, entity, operation string) (T, error) {
	id, ok, negative := normalizeKey(key)
	if !ok {
		var zero T
		return zero, errors.WrapWrongKeyType(errors.ErrWrongKeyType, entity, operation,
			fmt.Sprintf("%s ids are unsigned integers, got key of type %T", r.childName, key))
	}
	if negative {
		var zero T
		return zero, errors.WrapNotFound(errors.ErrNotFound, entity, operation,
			fmt.Sprintf("no %s with id %v", r.childName, key))
	}
	return r.get(id, entity, operation)
}

// at returns the entry at creation index i
func (r *classRegistry[T]) at(i int, entity, operation string) (T, error) {
	if i < 0 || i >= len(r.order) {
		var zero T
		return zero, errors.WrapInvalidArgument(errors.ErrInvalidArgument, entity, operation,
			fmt.Sprintf("index %d out of range with %d entries", i, len(r.order)))
	}
	return r.byID[r.order[i]], nil
}

// len returns the number of entries
func (r *classRegistry[T]) len() int {
	return len(r.order)
}

// rangeEntries calls fn for each (id, entry) pair in creation order until fn
// returns false. Each pair is visited exactly once as long as the registry is
// not mutated during iteration.
func (r *classRegistry[T]) rangeEntries(fn func(id uint64, v T) bool) {
	for _, id := range r.order {
		if !fn(id, r.byID[id]) {
			return
		}
	}
}

// values returns the entries in creation order
func (r *classRegistry[T]) values() []T {
	out := make([]T, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}

// clear drops every entry
func (r *classRegistry[T]) clear() {
	r.byID = make(map[uint64]T)
	r.order = nil
}

// normalizeKey widens any integer-typed key to uint64. The second result
// reports whether the key was integer-typed at all, the third whether it was
// negative.
func normalizeKey(key any) (id uint64, ok bool, negative bool) {
	switch k := key.(type) {
	case uint64:
		return k, true, false
	case uint:
		return uint64(k), true, false
	case uint8:
		return uint64(k), true, false
	case uint16:
		return uint64(k), true, false
	case uint32:
		return uint64(k), true, false
	case int:
		if k < 0 {
			return 0, true, true
		}
		return uint64(k), true, false
	case int8:
		if k < 0 {
			return 0, true, true
		}
		return uint64(k), true, false
	case int16:
		if k < 0 {
			return 0, true, true
		}
		return uint64(k), true, false
	case int32:
		if k < 0 {
			return 0, true, true
		}
		return uint64(k), true, false
	case int64:
		if k < 0 {
			return 0, true, true
		}
		return uint64(k), true, false
	default:
		return 0, false, false
	}
}
