// Package diag defines the structured diagnostics emitted by the typedict
// validation engine and the sinks that receive them.
//
// The engine never throws across the validator/record boundary; every
// failure is a Diagnostic delivered both in the operation's result and,
// fire-and-forget, to a Sink. Sinks own formatting and output destination;
// the engine owns only the structured payload.
//
// # Core Types
//
// Diagnostic: one validation failure (kind, schema, field, expected
// descriptor, actual runtime kind, context excerpt, suggestion)
//
// Kind: failure taxonomy (empty_schema, missing_field, type_mismatch,
// unexpected_field, construction_rejected, malformed_descriptor, syntax)
//
// List: accumulator used by exhaustive validation and the linter
//
// Sink: fire-and-forget receiver (NopSink, SlogSink, Recorder, Multi)
//
// # Basic Usage
//
//	rec := diag.NewRecorder()
//	v := validator.New(validator.WithSink(rec))
//
//	// ... run validations ...
//
//	if d, ok := rec.Last(); ok {
//	    fmt.Println(d.Error())
//	}
//
// Every diagnostic carries a uuid event ID so log lines, metrics, and CLI
// output referring to the same failure can be correlated.
package diag
