package traceir

import (
	"strconv"
)

// ValueKind identifies the dynamic type carried by a Value
type ValueKind int

const (
	// ValueKindInteger is a signed 64-bit integer value
	ValueKindInteger ValueKind = iota
	// ValueKindString is a string value
	ValueKindString
)

// String returns the string representation of ValueKind
func (k ValueKind) String() string {
	switch k {
	case ValueKindInteger:
		return "integer"
	case ValueKindString:
		return "string"
	default:
		return "unknown"
	}
}

// Value is an immutable environment value holding either a signed 64-bit
// integer or a string. The zero value is the integer 0.
type Value struct {
	kind ValueKind
	i    int64
	s    string
}

// IntegerValue returns a Value holding v
func IntegerValue(v int64) Value {
	return Value{kind: ValueKindInteger, i: v}
}

// StringValue returns a Value holding s
func StringValue(s string) Value {
	return Value{kind: ValueKindString, s: s}
}

// Kind returns the dynamic type of the value
func (v Value) Kind() ValueKind {
	return v.kind
}

// AsInteger returns the integer payload and true when the value holds an integer
func (v Value) AsInteger() (int64, bool) {
	if v.kind != ValueKindInteger {
		return 0, false
	}
	return v.i, true
}

// AsString returns the string payload and true when the value holds a string
func (v Value) AsString() (string, bool) {
	if v.kind != ValueKindString {
		return "", false
	}
	return v.s, true
}

// Equal reports whether two values have the same kind and payload
func (v Value) Equal(other Value) bool {
	return v == other
}

// String renders the value for logs and error messages
func (v Value) String() string {
	switch v.kind {
	case ValueKindString:
		return strconv.Quote(v.s)
	default:
		return strconv.FormatInt(v.i, 10)
	}
}

// EnvironmentEntry pairs an environment entry name with its value
type EnvironmentEntry struct {
	Name  string
	Value Value
}
