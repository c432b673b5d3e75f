package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/philippeDG/babeltrace/errors"
)

// Format identifies a descriptor file encoding
type Format int

const (
	// FormatJSON is a JSON descriptor
	FormatJSON Format = iota
	// FormatYAML is a YAML descriptor
	FormatYAML
)

// String returns the string representation of Format
func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	default:
		return "unknown"
	}
}

// FormatForPath returns the Format implied by a file extension
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return 0, errors.WrapInvalidArgument(errors.ErrInvalidArgument,
			"Loader", "FormatForPath",
			fmt.Sprintf("unsupported descriptor extension on %s (want .json, .yaml or .yml)", path))
	}
}

// Load reads, schema-checks and validates a single descriptor file. The
// format follows the file extension.
func Load(path string) (*Descriptor, error) {
	loader := NewLoader()
	loader.EnableValidation(true)
	return loader.LoadFile(path)
}

// Parse decodes a descriptor from memory, schema-checks it and validates it
func Parse(data []byte, format Format) (*Descriptor, error) {
	raw, err := decodeRaw(data, format)
	if err != nil {
		return nil, err
	}

	desc, err := descriptorFromMap(raw)
	if err != nil {
		return nil, err
	}

	if err := desc.Validate(); err != nil {
		return nil, err
	}
	return desc, nil
}

// Loader handles descriptor loading with layers and overrides
type Loader struct {
	layers     []string
	validation bool
	envPrefix  string
}

// NewLoader creates a new descriptor loader
func NewLoader() *Loader {
	return &Loader{
		layers:     []string{},
		validation: false,
		envPrefix:  "BABELTRACE",
	}
}

// AddLayer adds a descriptor file layer. Later layers override earlier ones
// field by field.
func (l *Loader) AddLayer(path string) {
	l.layers = append(l.layers, path)
}

// EnableValidation enables or disables semantic validation of the merged
// descriptor
func (l *Loader) EnableValidation(enable bool) {
	l.validation = enable
}

// LoadFile loads a descriptor from a single file
func (l *Loader) LoadFile(path string) (*Descriptor, error) {
	l.layers = []string{path}
	return l.Load()
}

// Load loads and merges all descriptor layers, applies environment
// overrides, and validates the result when validation is enabled
func (l *Loader) Load() (*Descriptor, error) {
	merged := l.defaults()

	for _, path := range l.layers {
		raw, err := l.loadRawLayer(path)
		if err != nil {
			return nil, err
		}
		merged = deepMergeMaps(merged, raw)
	}

	desc, err := descriptorFromMap(merged)
	if err != nil {
		return nil, err
	}

	if err := l.applyEnvOverrides(desc); err != nil {
		return nil, err
	}

	if l.validation {
		if err := desc.Validate(); err != nil {
			return nil, err
		}
	}

	return desc, nil
}

// defaults returns the base layer every load starts from
func (l *Loader) defaults() map[string]any {
	return map[string]any{
		"version": SupportedVersion,
	}
}

// loadRawLayer reads one layer file and returns its schema-checked contents
// as a raw map
func (l *Loader) loadRawLayer(path string) (map[string]any, error) {
	data, err := safeReadFile(path)
	if err != nil {
		return nil, errors.WrapInvalidArgument(err,
			"Loader", "Load", fmt.Sprintf("read descriptor %s", path))
	}

	format, err := FormatForPath(path)
	if err != nil {
		return nil, err
	}

	return decodeRaw(data, format)
}

// decodeRaw decodes descriptor bytes into a raw map and schema-checks them.
// JSON numbers stay json.Number so 64-bit ids survive the round trip.
func decodeRaw(data []byte, format Format) (map[string]any, error) {
	var raw map[string]any

	switch format {
	case FormatJSON:
		if err := validateJSONDepth(data); err != nil {
			return nil, errors.WrapInvalidArgument(err,
				"Loader", "Load", "descriptor structure")
		}
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&raw); err != nil {
			return nil, errors.WrapInvalidArgument(err,
				"Loader", "Load", "decode JSON descriptor")
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, errors.WrapInvalidArgument(err,
				"Loader", "Load", "decode YAML descriptor")
		}
	default:
		return nil, errors.WrapInvalidArgument(errors.ErrInvalidArgument,
			"Loader", "Load", fmt.Sprintf("unknown descriptor format %d", int(format)))
	}

	// Normalize to JSON once so YAML and JSON pass the same schema check
	normalized, err := json.Marshal(raw)
	if err != nil {
		return nil, errors.WrapInvalidArgument(err,
			"Loader", "Load", "normalize descriptor")
	}
	if err := ValidateSchema(normalized); err != nil {
		return nil, err
	}

	return raw, nil
}

// descriptorFromMap converts a merged raw map into a typed Descriptor
func descriptorFromMap(raw map[string]any) (*Descriptor, error) {
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, errors.WrapInvalidArgument(err,
			"Loader", "Load", "normalize descriptor")
	}

	var desc Descriptor
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&desc); err != nil {
		return nil, errors.WrapInvalidArgument(err,
			"Loader", "Load", "decode descriptor")
	}
	return &desc, nil
}

// deepMergeMaps recursively merges two maps, with override taking precedence
func deepMergeMaps(base, override map[string]any) map[string]any {
	result := make(map[string]any)

	// Copy base values
	for k, v := range base {
		result[k] = v
	}

	// Override with values from override map
	for k, v := range override {
		if v == nil {
			continue
		}

		// If both base and override have maps at this key, merge them
		if baseMap, baseOk := base[k].(map[string]any); baseOk {
			if overrideMap, overrideOk := v.(map[string]any); overrideOk {
				result[k] = deepMergeMaps(baseMap, overrideMap)
				continue
			}
		}

		// Otherwise, override takes precedence
		result[k] = v
	}

	return result
}

// applyEnvOverrides applies environment variable overrides.
//
// BABELTRACE_TRACE_UUID replaces the trace class UUID.
// BABELTRACE_ENV_<NAME> upserts a string environment entry whose name is the
// lowercased <NAME>; existing entries are replaced in place, new ones are
// appended in name order.
func (l *Loader) applyEnvOverrides(desc *Descriptor) error {
	uuidKey := l.envPrefix + "_TRACE_UUID"
	if val := os.Getenv(uuidKey); val != "" {
		if err := validateEnvVar(uuidKey, val); err != nil {
			return errors.WrapInvalidArgument(err, "Loader", "Load", "environment override")
		}
		desc.TraceClass.UUID = val
	}

	entryPrefix := l.envPrefix + "_ENV_"
	var overrides []EnvironmentEntryDescriptor
	for _, kv := range os.Environ() {
		if !strings.HasPrefix(kv, entryPrefix) {
			continue
		}
		key, value, found := strings.Cut(kv, "=")
		if !found {
			continue
		}
		name := strings.ToLower(strings.TrimPrefix(key, entryPrefix))
		if name == "" {
			continue
		}
		if err := validateEnvVar(key, value); err != nil {
			return errors.WrapInvalidArgument(err, "Loader", "Load", "environment override")
		}
		overrides = append(overrides, EnvironmentEntryDescriptor{Name: name, Value: value})
	}

	// Environ order is not specified; sort for a deterministic result
	sort.Slice(overrides, func(i, j int) bool { return overrides[i].Name < overrides[j].Name })

	for _, o := range overrides {
		replaced := false
		for i := range desc.TraceClass.Environment {
			if desc.TraceClass.Environment[i].Name == o.Name {
				desc.TraceClass.Environment[i].Value = o.Value
				replaced = true
				break
			}
		}
		if !replaced {
			desc.TraceClass.Environment = append(desc.TraceClass.Environment, o)
		}
	}

	return nil
}
