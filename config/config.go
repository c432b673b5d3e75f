package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"fortio.org/safecast"
	"github.com/google/uuid"

	"github.com/philippeDG/babeltrace/errors"
	"github.com/philippeDG/babeltrace/traceir"
)

// SupportedVersion is the descriptor format version this package reads.
// Descriptors may omit the version; when present, the major version must
// match.
const SupportedVersion = "1.0.0"

// Descriptor is the declarative form of a trace class: everything needed to
// build the aggregate through the object model's public operations. The zero
// value describes an empty trace class with automatic stream class ids.
type Descriptor struct {
	Version    string               `json:"version,omitempty"` // Semantic format version (e.g. "1.0.0")
	TraceClass TraceClassDescriptor `json:"trace_class"`
}

// TraceClassDescriptor describes the aggregate root
type TraceClassDescriptor struct {
	UUID           string                       `json:"uuid,omitempty"`             // RFC 4122 string, optional
	StreamClassIDs string                       `json:"stream_class_ids,omitempty"` // "automatic" (default) or "manual"
	Environment    []EnvironmentEntryDescriptor `json:"environment,omitempty"`      // Inserted in array order
	StreamClasses  []StreamClassDescriptor      `json:"stream_classes,omitempty"`
}

// EnvironmentEntryDescriptor is one environment entry. Value holds a string
// or a signed 64-bit integer.
type EnvironmentEntryDescriptor struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}

// StreamClassDescriptor describes one stream class. ID is required exactly
// when the trace class assigns ids manually.
type StreamClassDescriptor struct {
	ID            *int64                 `json:"id,omitempty"`
	Name          string                 `json:"name,omitempty"`
	EventClassIDs string                 `json:"event_class_ids,omitempty"` // "automatic" (default) or "manual"
	EventClasses  []EventClassDescriptor `json:"event_classes,omitempty"`
}

// EventClassDescriptor describes one event class within a stream class
type EventClassDescriptor struct {
	ID       *int64 `json:"id,omitempty"`
	Name     string `json:"name,omitempty"`
	LogLevel string `json:"log_level,omitempty"`
}

// UnmarshalJSON implements custom JSON unmarshaling for environment entries,
// normalizing the value to a string or an int64 so numeric precision is not
// lost to float64 on the way through
func (e *EnvironmentEntryDescriptor) UnmarshalJSON(data []byte) error {
	type Alias EnvironmentEntryDescriptor
	aux := &struct {
		Value json.RawMessage `json:"value"`
		*Alias
	}{
		Alias: (*Alias)(e),
	}

	if err := json.Unmarshal(data, aux); err != nil {
		return err
	}

	if len(aux.Value) == 0 || string(aux.Value) == "null" {
		e.Value = nil
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(aux.Value))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return err
	}

	switch v := raw.(type) {
	case string:
		e.Value = v
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return fmt.Errorf("environment entry %q: value %s is not an integer: %w", e.Name, v, err)
		}
		e.Value = n
	default:
		// Validate reports the unsupported type with a classified error
		e.Value = raw
	}
	return nil
}

// traceValue converts the descriptor value into an object-model Value
func (e EnvironmentEntryDescriptor) traceValue() (traceir.Value, error) {
	switch v := e.Value.(type) {
	case string:
		return traceir.StringValue(v), nil
	case int64:
		return traceir.IntegerValue(v), nil
	case int:
		return traceir.IntegerValue(int64(v)), nil
	case int32:
		return traceir.IntegerValue(int64(v)), nil
	case uint64:
		n, err := safecast.Conv[int64](v)
		if err != nil {
			return traceir.Value{}, errors.WrapInvalidArgument(err,
				"Descriptor", "Validate",
				fmt.Sprintf("environment entry %q value does not fit a signed 64-bit integer", e.Name))
		}
		return traceir.IntegerValue(n), nil
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return traceir.Value{}, errors.WrapInvalidArgument(err,
				"Descriptor", "Validate",
				fmt.Sprintf("environment entry %q value %s is not an integer", e.Name, v))
		}
		return traceir.IntegerValue(n), nil
	default:
		return traceir.Value{}, errors.WrapInvalidArgument(errors.ErrInvalidArgument,
			"Descriptor", "Validate",
			fmt.Sprintf("environment entry %q must hold a string or an integer, got %T", e.Name, e.Value))
	}
}

// assignmentFromName maps a descriptor policy name to an id assignment. The
// empty string selects the automatic default.
func assignmentFromName(name string) (traceir.IDAssignment, bool) {
	switch name {
	case "", traceir.IDAssignmentAutomatic.String():
		return traceir.IDAssignmentAutomatic, true
	case traceir.IDAssignmentManual.String():
		return traceir.IDAssignmentManual, true
	default:
		return 0, false
	}
}

// logLevelFromName maps a descriptor log level name to the object-model
// severity
func logLevelFromName(name string) (traceir.LogLevel, bool) {
	for l := traceir.LogLevelEmergency; l <= traceir.LogLevelDebug; l++ {
		if l.String() == name {
			return l, true
		}
	}
	return 0, false
}

// Validate checks the descriptor for semantic errors: malformed UUID or
// version, unknown policy or log level names, ids inconsistent with the
// declared policy, and duplicate names or ids. Errors carry the taxonomy
// kinds (invalid-argument, duplicate-key) so callers can branch on them.
func (d *Descriptor) Validate() error {
	if d == nil {
		return errors.WrapInvalidArgument(errors.ErrInvalidArgument,
			"Descriptor", "Validate", "descriptor cannot be nil")
	}

	if d.Version != "" {
		if err := checkFormatVersion(d.Version); err != nil {
			return err
		}
	}

	tc := &d.TraceClass

	if tc.UUID != "" {
		if _, err := uuid.Parse(tc.UUID); err != nil {
			return errors.WrapInvalidArgument(err,
				"Descriptor", "Validate", fmt.Sprintf("trace class uuid %q", tc.UUID))
		}
	}

	scPolicy, ok := assignmentFromName(tc.StreamClassIDs)
	if !ok {
		return errors.WrapInvalidArgument(errors.ErrInvalidArgument,
			"Descriptor", "Validate",
			fmt.Sprintf("stream_class_ids %q must be %q or %q",
				tc.StreamClassIDs, traceir.IDAssignmentAutomatic, traceir.IDAssignmentManual))
	}

	if err := validateEnvironmentEntries(tc.Environment); err != nil {
		return err
	}

	scIDs := make(map[int64]struct{}, len(tc.StreamClasses))
	for i, sc := range tc.StreamClasses {
		if err := validateClassID(scPolicy, sc.ID, scIDs, "stream class", i); err != nil {
			return err
		}

		ecPolicy, ok := assignmentFromName(sc.EventClassIDs)
		if !ok {
			return errors.WrapInvalidArgument(errors.ErrInvalidArgument,
				"Descriptor", "Validate",
				fmt.Sprintf("stream class %s: event_class_ids %q must be %q or %q",
					describeClass(sc.Name, i), sc.EventClassIDs,
					traceir.IDAssignmentAutomatic, traceir.IDAssignmentManual))
		}

		ecIDs := make(map[int64]struct{}, len(sc.EventClasses))
		for j, ec := range sc.EventClasses {
			if err := validateClassID(ecPolicy, ec.ID, ecIDs, "event class", j); err != nil {
				return err
			}
			if ec.LogLevel != "" {
				if _, ok := logLevelFromName(ec.LogLevel); !ok {
					return errors.WrapInvalidArgument(errors.ErrInvalidArgument,
						"Descriptor", "Validate",
						fmt.Sprintf("event class %s: unknown log level %q",
							describeClass(ec.Name, j), ec.LogLevel))
				}
			}
		}
	}

	return nil
}

// validateEnvironmentEntries checks names are non-empty and unique and that
// every value converts
func validateEnvironmentEntries(entries []EnvironmentEntryDescriptor) error {
	seen := make(map[string]struct{}, len(entries))
	for i, entry := range entries {
		if entry.Name == "" {
			return errors.WrapInvalidArgument(errors.ErrInvalidArgument,
				"Descriptor", "Validate",
				fmt.Sprintf("environment entry %d has an empty name", i))
		}
		if _, dup := seen[entry.Name]; dup {
			return errors.WrapDuplicateKey(errors.ErrDuplicateKey,
				"Descriptor", "Validate",
				fmt.Sprintf("environment entry %q appears more than once", entry.Name))
		}
		seen[entry.Name] = struct{}{}

		if _, err := entry.traceValue(); err != nil {
			return err
		}
	}
	return nil
}

// validateClassID checks one child id against the owner's assignment policy
// and the ids seen so far
func validateClassID(policy traceir.IDAssignment, id *int64, seen map[int64]struct{}, child string, index int) error {
	switch policy {
	case traceir.IDAssignmentManual:
		if id == nil {
			return errors.WrapInvalidArgument(errors.ErrInvalidArgument,
				"Descriptor", "Validate",
				fmt.Sprintf("%s %d needs an id under manual assignment", child, index))
		}
		if _, dup := seen[*id]; dup {
			return errors.WrapDuplicateKey(errors.ErrDuplicateKey,
				"Descriptor", "Validate",
				fmt.Sprintf("%s id %d appears more than once", child, *id))
		}
		seen[*id] = struct{}{}
	default:
		if id != nil {
			return errors.WrapInvalidArgument(errors.ErrInvalidArgument,
				"Descriptor", "Validate",
				fmt.Sprintf("%s %d must not set an id under automatic assignment", child, index))
		}
	}
	return nil
}

// describeClass names a class for error messages, falling back to its index
func describeClass(name string, index int) string {
	if name != "" {
		return strconv.Quote(name)
	}
	return fmt.Sprintf("at index %d", index)
}

// Clone creates a deep copy of the descriptor
func (d *Descriptor) Clone() *Descriptor {
	if d == nil {
		return &Descriptor{}
	}

	// Use JSON marshaling/unmarshaling for deep copy
	data, err := json.Marshal(d)
	if err != nil {
		// Fallback to shallow copy if marshaling fails
		copied := *d
		return &copied
	}

	var clone Descriptor
	if err := json.Unmarshal(data, &clone); err != nil {
		copied := *d
		return &copied
	}

	return &clone
}

// SaveToFile writes the descriptor to a JSON file
func (d *Descriptor) SaveToFile(path string) error {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return errors.WrapInvalidArgument(err, "Descriptor", "SaveToFile", "marshal descriptor")
	}

	// Use secure file writing with validation
	if err := safeWriteFile(path, data); err != nil {
		return errors.WrapInvalidArgument(err, "Descriptor", "SaveToFile", "write descriptor file")
	}
	return nil
}

// String returns a JSON representation of the descriptor
func (d *Descriptor) String() string {
	data, _ := json.MarshalIndent(d, "", "  ")
	return string(data)
}

// checkFormatVersion rejects descriptors written for another major format
// version
func checkFormatVersion(version string) error {
	major, _, _, err := parseSemVer(version)
	if err != nil {
		return errors.WrapInvalidArgument(err,
			"Descriptor", "Validate", fmt.Sprintf("version %q", version))
	}

	supportedMajor, _, _, _ := parseSemVer(SupportedVersion)
	if major != supportedMajor {
		return errors.WrapInvalidArgument(errors.ErrInvalidArgument,
			"Descriptor", "Validate",
			fmt.Sprintf("version %s is not supported, this reader handles %d.x", version, supportedMajor))
	}
	return nil
}

// CompareVersions compares two semver version strings
// Returns:
//
//	-1 if v1 < v2
//	 0 if v1 == v2
//	 1 if v1 > v2
//	error if either version is invalid
func CompareVersions(v1, v2 string) (int, error) {
	major1, minor1, patch1, err := parseSemVer(v1)
	if err != nil {
		return 0, fmt.Errorf("invalid version '%s': %w", v1, err)
	}

	major2, minor2, patch2, err := parseSemVer(v2)
	if err != nil {
		return 0, fmt.Errorf("invalid version '%s': %w", v2, err)
	}

	if major1 != major2 {
		if major1 > major2 {
			return 1, nil
		}
		return -1, nil
	}

	if minor1 != minor2 {
		if minor1 > minor2 {
			return 1, nil
		}
		return -1, nil
	}

	if patch1 != patch2 {
		if patch1 > patch2 {
			return 1, nil
		}
		return -1, nil
	}

	return 0, nil
}

// parseSemVer parses a semantic version string (e.g., "1.2.3")
// Returns major, minor, patch, error
func parseSemVer(version string) (int, int, int, error) {
	if version == "" {
		return 0, 0, 0, fmt.Errorf("version cannot be empty")
	}

	// Remove 'v' prefix if present
	version = strings.TrimPrefix(version, "v")

	parts := strings.Split(version, ".")
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("version must be in format 'major.minor.patch', got '%s'", version)
	}

	major, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid major version '%s': %w", parts[0], err)
	}

	minor, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid minor version '%s': %w", parts[1], err)
	}

	patch, err := strconv.Atoi(parts[2])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid patch version '%s': %w", parts[2], err)
	}

	return major, minor, patch, nil
}
