package validator

import (
	"fmt"
	"sort"
	"time"

	"github.com/Echo-Logic-Interactive/typedict/pkg/diag"
	"github.com/Echo-Logic-Interactive/typedict/pkg/schema"
)

// Result is the outcome of a record validation pass.
type Result struct {
	// Valid reports whether the data matched the schema under the mode.
	Valid bool

	// Violations holds the diagnostics produced. Default validation
	// short-circuits, so it carries at most one entry; ValidateAll
	// accumulates every violation found.
	Violations []diag.Diagnostic
}

// First returns the first violation and whether one exists.
func (r Result) First() (diag.Diagnostic, bool) {
	if len(r.Violations) == 0 {
		return diag.Diagnostic{}, false
	}
	return r.Violations[0], true
}

// valid is the success result.
var valid = Result{Valid: true}

// ValidateRecord checks an entire record against a schema.
//
// Declared fields are checked in schema declaration order, so error messages
// are reproducible. The missing-field gate fires before the type gate: a
// declared non-nullable field absent from the data is a missing_field, never
// a type_mismatch. Absent nullable fields pass (absence counts as null).
//
// In strict mode a missing declared field fails the pass; in loose mode it
// is reported as a warning only, since loose records are not required to
// cover the schema's key set. Type mismatches on present fields fail in
// both modes.
//
// In strict mode, any data key the schema does not declare fails the pass;
// the reserved side-channel field is exempt. Loose mode permits extra keys.
//
// Validation fails on an empty schema. That is a deliberate guard against
// accidental no-op validation, not an error-free pass.
//
// ValidateRecord stops at the first violation. Use ValidateAll to collect
// every violation in one pass.
func (v *Validator) ValidateRecord(data map[string]any, s *schema.Schema, mode Mode) Result {
	return v.validate(data, s, mode, false)
}

// ValidateAll is the exhaustive variant of ValidateRecord: it accumulates
// every violation instead of stopping at the first one. First-failure
// semantics stay the default; this exists for lint-style tooling.
func (v *Validator) ValidateAll(data map[string]any, s *schema.Schema, mode Mode) Result {
	return v.validate(data, s, mode, true)
}

func (v *Validator) validate(data map[string]any, s *schema.Schema, mode Mode, exhaustive bool) Result {
	if v.disabled {
		return valid
	}

	start := time.Now()
	result := v.run(data, s, mode, exhaustive)

	if v.metrics != nil {
		name := ""
		if s != nil {
			name = s.Name()
		}
		v.metrics.ObserveValidation(name, mode, result.Valid, time.Since(start))
	}
	return result
}

func (v *Validator) run(data map[string]any, s *schema.Schema, mode Mode, exhaustive bool) Result {
	if s == nil || s.Len() == 0 {
		d := diag.New(diag.KindEmptySchema, diag.SeverityError, "schema has no fields; refusing to validate")
		if s != nil {
			d.Schema = s.Name()
		}
		v.report(d)
		return Result{Violations: []diag.Diagnostic{d}}
	}

	var violations []diag.Diagnostic
	fatal := false
	fields := s.Fields()

	for _, f := range fields {
		d, failed := v.validateField(data, s, f, mode)
		if !failed {
			continue
		}
		v.report(d)
		violations = append(violations, d)
		if d.Severity == diag.SeverityError {
			fatal = true
			if !exhaustive {
				return Result{Violations: violations}
			}
		}
	}

	if mode == ModeStrict {
		// Deterministic order for reproducible error messages.
		extras := make([]string, 0)
		for key := range data {
			if key == schema.SideChannelField {
				continue
			}
			if !s.Has(key) {
				extras = append(extras, key)
			}
		}
		sort.Strings(extras)

		for _, key := range extras {
			d := diag.New(diag.KindUnexpectedField, diag.SeverityError,
				fmt.Sprintf("field %q is not declared in the schema (strict mode)", key))
			d.Schema = s.Name()
			d.Field = key
			d.Actual = schema.KindOf(data[key]).String()
			d.Suggestion = diag.SuggestFieldName(key, s.FieldNames())
			v.report(d)
			violations = append(violations, d)
			fatal = true
			if !exhaustive {
				return Result{Violations: violations}
			}
		}
	}

	return Result{Valid: !fatal, Violations: violations}
}

// validateField runs the missing-field and type gates for one declared field.
func (v *Validator) validateField(data map[string]any, s *schema.Schema, f schema.Field, mode Mode) (diag.Diagnostic, bool) {
	p, err := v.parse(f.Descriptor)
	if err != nil {
		d := diag.New(diag.KindMalformedDescriptor, diag.SeverityError, err.Error())
		d.Schema = s.Name()
		d.Field = f.Name
		d.Expected = string(f.Descriptor)
		return d, true
	}

	value, present := data[f.Name]
	if !present {
		if p.Nullable {
			// Absence of a nullable field counts as null.
			return diag.Diagnostic{}, false
		}
		severity := diag.SeverityError
		if mode == ModeLoose {
			// Loose records are not required to cover the schema.
			severity = diag.SeverityWarning
		}
		d := diag.New(diag.KindMissingField, severity,
			fmt.Sprintf("required field %q is missing", f.Name))
		d.Schema = s.Name()
		d.Field = f.Name
		d.Expected = string(f.Descriptor)
		d.Context = v.fieldContext(s, f.Name)
		return d, true
	}

	if !v.checkParsed(value, p, mode) {
		d := diag.New(diag.KindTypeMismatch, diag.SeverityError,
			fmt.Sprintf("field %q does not match descriptor %q", f.Name, f.Descriptor))
		d.Schema = s.Name()
		d.Field = f.Name
		d.Expected = string(f.Descriptor)
		d.Actual = schema.KindOf(value).String()
		d.Context = v.fieldContext(s, f.Name)
		return d, true
	}

	return diag.Diagnostic{}, false
}

// fieldContext renders the neighboring-field excerpt for a diagnostic.
// Quality-of-life for humans reading errors, not a correctness requirement.
func (v *Validator) fieldContext(s *schema.Schema, around string) string {
	fields := s.Fields()
	names := make([]string, len(fields))
	descs := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
		descs[i] = string(f.Descriptor)
	}
	return diag.FieldContext(names, descs, around, 1)
}
