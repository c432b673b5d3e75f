package traceir

import (
	"fmt"

	"github.com/philippeDG/babeltrace/errors"
)

// Environment stores trace-wide descriptive metadata as an insertion-ordered
// mapping from entry name to Value. Entries are write-once: re-adding an
// existing name fails rather than overwriting it. Mutation follows the
// single-owner discipline of the owning trace class; concurrent reads are
// safe while no mutation is in flight.
type Environment struct {
	entries []EnvironmentEntry
	index   map[string]int
}

func newEnvironment() *Environment {
	return &Environment{
		index: make(map[string]int),
	}
}

// Add appends an entry. An empty name fails with an invalid-argument error;
// a name that already exists fails with a duplicate-key error and leaves the
// environment unchanged.
func (e *Environment) Add(name string, v Value) error {
	if name == "" {
		return errors.WrapInvalidArgument(errors.ErrInvalidArgument,
			"Environment", "Add", "entry name cannot be empty")
	}
	if _, exists := e.index[name]; exists {
		return errors.WrapDuplicateKey(errors.ErrDuplicateKey,
			"Environment", "Add", fmt.Sprintf("entry %q already exists", name))
	}

	e.index[name] = len(e.entries)
	e.entries = append(e.entries, EnvironmentEntry{Name: name, Value: v})
	return nil
}

// AddInteger appends an integer entry
func (e *Environment) AddInteger(name string, value int64) error {
	return e.Add(name, IntegerValue(value))
}

// AddString appends a string entry
func (e *Environment) AddString(name, value string) error {
	return e.Add(name, StringValue(value))
}

// Get returns the value stored under name. The match is exact: no
// case-folding and no default. A missing name fails with a not-found error.
func (e *Environment) Get(name string) (Value, error) {
	i, ok := e.index[name]
	if !ok {
		return Value{}, errors.WrapNotFound(errors.ErrNotFound,
			"Environment", "Get", fmt.Sprintf("no entry named %q", name))
	}
	return e.entries[i].Value, nil
}

// EntryAt returns the entry at insertion index i
func (e *Environment) EntryAt(i int) (EnvironmentEntry, error) {
	if i < 0 || i >= len(e.entries) {
		return EnvironmentEntry{}, errors.WrapInvalidArgument(errors.ErrInvalidArgument,
			"Environment", "EntryAt", fmt.Sprintf("index %d out of range with %d entries", i, len(e.entries)))
	}
	return e.entries[i], nil
}

// Len returns the number of entries
func (e *Environment) Len() int {
	return len(e.entries)
}

// Range calls fn for each entry in insertion order until fn returns false
func (e *Environment) Range(fn func(name string, v Value) bool) {
	for _, entry := range e.entries {
		if !fn(entry.Name, entry.Value) {
			return
		}
	}
}
