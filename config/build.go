package config

import (
	"fmt"
	"log/slog"

	"fortio.org/safecast"
	"github.com/google/uuid"

	"github.com/philippeDG/babeltrace/errors"
	"github.com/philippeDG/babeltrace/metric"
	"github.com/philippeDG/babeltrace/traceir"
)

// BuildOptions carries the ambient dependencies handed to the constructed
// aggregate. The zero value disables logging and instrumentation.
type BuildOptions struct {
	Logger  *slog.Logger
	Metrics *metric.Metrics
}

// Build constructs a trace class from the descriptor through the object
// model's public operations. The returned reference is owned by the caller,
// who must eventually call Unref.
//
// Building is atomic from the caller's point of view: on any failure the
// partially built aggregate is released and only the error escapes. Errors
// from the object model pass through unchanged, so they keep their taxonomy
// kinds.
func (d *Descriptor) Build(opts BuildOptions) (*traceir.TraceClass, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	cfg := traceir.ClassConfig{
		Logger:  opts.Logger,
		Metrics: opts.Metrics,
	}

	tcd := &d.TraceClass

	if tcd.UUID != "" {
		u, err := uuid.Parse(tcd.UUID)
		if err != nil {
			return nil, errors.WrapInvalidArgument(err,
				"Descriptor", "Build", fmt.Sprintf("trace class uuid %q", tcd.UUID))
		}
		cfg.UUID = &u
	}

	// Validate accepted the policy names already
	cfg.StreamClassIDs, _ = assignmentFromName(tcd.StreamClassIDs)

	for _, entry := range tcd.Environment {
		v, err := entry.traceValue()
		if err != nil {
			return nil, err
		}
		cfg.Environment = append(cfg.Environment, traceir.EnvironmentEntry{Name: entry.Name, Value: v})
	}

	tc, err := traceir.NewTraceClass(cfg)
	if err != nil {
		return nil, err
	}

	for i, scd := range tcd.StreamClasses {
		if err := buildStreamClass(tc, scd, i); err != nil {
			tc.Unref()
			return nil, err
		}
	}

	return tc, nil
}

// buildStreamClass creates one stream class and its event classes on tc
func buildStreamClass(tc *traceir.TraceClass, scd StreamClassDescriptor, index int) error {
	var (
		sc  *traceir.StreamClass
		err error
	)
	if scd.ID != nil {
		id, convErr := safecast.Conv[uint64](*scd.ID)
		if convErr != nil {
			return errors.WrapInvalidArgument(convErr,
				"Descriptor", "Build",
				fmt.Sprintf("stream class %s id", describeClass(scd.Name, index)))
		}
		sc, err = tc.CreateStreamClassWithID(id)
	} else {
		sc, err = tc.CreateStreamClass()
	}
	if err != nil {
		return err
	}

	if scd.Name != "" {
		sc.SetName(scd.Name)
	}

	if policy, _ := assignmentFromName(scd.EventClassIDs); policy == traceir.IDAssignmentManual {
		if err := sc.SetAssignsAutomaticEventClassID(false); err != nil {
			return err
		}
	}

	for j, ecd := range scd.EventClasses {
		if err := buildEventClass(sc, ecd, j); err != nil {
			return err
		}
	}

	return nil
}

// buildEventClass creates one event class on sc
func buildEventClass(sc *traceir.StreamClass, ecd EventClassDescriptor, index int) error {
	var (
		ec  *traceir.EventClass
		err error
	)
	if ecd.ID != nil {
		id, convErr := safecast.Conv[uint64](*ecd.ID)
		if convErr != nil {
			return errors.WrapInvalidArgument(convErr,
				"Descriptor", "Build",
				fmt.Sprintf("event class %s id", describeClass(ecd.Name, index)))
		}
		ec, err = sc.CreateEventClassWithID(id)
	} else {
		ec, err = sc.CreateEventClass()
	}
	if err != nil {
		return err
	}

	if ecd.Name != "" {
		ec.SetName(ecd.Name)
	}

	if ecd.LogLevel != "" {
		level, _ := logLevelFromName(ecd.LogLevel)
		if err := ec.SetLogLevel(level); err != nil {
			return err
		}
	}

	return nil
}
