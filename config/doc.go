// Package config provides declarative descriptors for trace classes.
//
// This package handles loading, validation and construction of trace class
// aggregates from JSON or YAML descriptor files, environment variable
// overrides, and in-memory descriptor values.
//
// # Core Components
//
// Descriptor: the declarative form of a trace class — UUID, id-assignment
// policy, environment entries, stream classes and their event classes.
//
// Loader: loads descriptors with layer merging (base + overrides) and
// environment variable substitution for flexible deployment scenarios.
//
// Build: constructs a *traceir.TraceClass from a descriptor through the
// object model's public operations, releasing the partial aggregate on any
// failure.
//
// # Basic Usage
//
// Loading a descriptor and building the aggregate:
//
//	desc, err := config.Load("trace.yaml")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	tc, err := desc.Build(config.BuildOptions{Logger: logger})
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer tc.Unref()
//
// # Descriptor Files
//
// JSON and YAML carry the same structure; the file extension picks the
// decoder:
//
//	trace_class:
//	  uuid: "2d400dbe-1f0c-43fe-a1a9-5b37283ce27d"
//	  stream_class_ids: manual
//	  environment:
//	    - {name: hostname, value: sennheiser}
//	    - {name: sysname, value: Linux}
//	  stream_classes:
//	    - id: 12
//	      name: syscalls
//	      event_class_ids: manual
//	      event_classes:
//	        - {id: 0, name: sys_enter, log_level: info}
//
// Ids are required exactly when the owning class declares manual assignment
// and are forbidden under automatic assignment. Every descriptor layer must
// pass the embedded JSON Schema before the merged result is validated
// semantically, so typos in field names or policy values fail early.
//
// # Layer Merging
//
// Descriptor layers are merged with last-wins semantics:
//
//	loader := config.NewLoader()
//	loader.AddLayer("descriptors/base.json")
//	loader.AddLayer("descriptors/capture.yaml") // Overrides base
//	loader.EnableValidation(true)
//
//	desc, err := loader.Load()
//
// # Environment Variable Overrides
//
// Descriptor values can be overridden using environment variables:
//
//	# Override the trace class UUID
//	export BABELTRACE_TRACE_UUID="c1f8b4a0-52cb-4a6c-b04e-96b3e06f3397"
//
//	# Upsert a string environment entry named "hostname"
//	export BABELTRACE_ENV_HOSTNAME="capture-07"
//
// # Error Kinds
//
// All loading and validation failures carry the object model's error
// taxonomy: structural and type problems are invalid-argument errors,
// repeated names or ids are duplicate-key errors. Errors from Build pass
// through from the object model unchanged.
//
// # Security
//
// The package includes file handling validation:
//   - File size limits (1MB max) to prevent memory exhaustion
//   - JSON depth validation (100 levels max) to prevent DoS attacks
//   - Path validation to prevent directory traversal
//   - Regular file checks (no symlinks or device files)
package config
