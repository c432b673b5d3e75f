package config

import (
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/philippeDG/babeltrace/errors"
)

// descriptorSchema is the JSON Schema every descriptor layer must satisfy
// before semantic validation runs. It pins the structure: unknown fields are
// rejected, policies and log levels come from closed enums, ids are
// non-negative integers.
const descriptorSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "title": "Trace class descriptor",
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "version": {"type": "string"},
    "trace_class": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "uuid": {"type": "string"},
        "stream_class_ids": {"type": "string", "enum": ["automatic", "manual"]},
        "environment": {
          "type": "array",
          "items": {
            "type": "object",
            "additionalProperties": false,
            "required": ["name", "value"],
            "properties": {
              "name": {"type": "string", "minLength": 1},
              "value": {"type": ["string", "integer"]}
            }
          }
        },
        "stream_classes": {
          "type": "array",
          "items": {
            "type": "object",
            "additionalProperties": false,
            "properties": {
              "id": {"type": "integer", "minimum": 0},
              "name": {"type": "string"},
              "event_class_ids": {"type": "string", "enum": ["automatic", "manual"]},
              "event_classes": {
                "type": "array",
                "items": {
                  "type": "object",
                  "additionalProperties": false,
                  "properties": {
                    "id": {"type": "integer", "minimum": 0},
                    "name": {"type": "string"},
                    "log_level": {
                      "type": "string",
                      "enum": [
                        "emergency", "alert", "critical", "error", "warning",
                        "notice", "info", "debug-system", "debug-program",
                        "debug-process", "debug-module", "debug-unit",
                        "debug-function", "debug-line", "debug"
                      ]
                    }
                  }
                }
              }
            }
          }
        }
      }
    }
  }
}`

// ValidateSchema checks descriptor JSON against the embedded schema. All
// violations are collected into a single invalid-argument error so a caller
// sees every problem at once.
func ValidateSchema(data []byte) error {
	schemaLoader := gojsonschema.NewStringLoader(descriptorSchema)
	documentLoader := gojsonschema.NewBytesLoader(data)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return errors.WrapInvalidArgument(err,
			"Descriptor", "ValidateSchema", "evaluate descriptor schema")
	}

	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			msgs = append(msgs, desc.String())
		}
		return errors.WrapInvalidArgument(errors.ErrInvalidArgument,
			"Descriptor", "ValidateSchema", strings.Join(msgs, "; "))
	}

	return nil
}
