package record

import (
	"fmt"
	"sort"
	"sync"

	"github.com/Echo-Logic-Interactive/typedict/pkg/diag"
	"github.com/Echo-Logic-Interactive/typedict/pkg/schema"
	"github.com/Echo-Logic-Interactive/typedict/pkg/validator"
)

// Record is a mapping of field name to value bound to a schema. Every write
// goes through the validation engine; strict-mode failures roll the record
// back to its last-known-valid state, loose-mode failures are kept and
// reported as warnings.
//
// A Record guards its backing map with a mutex, so the rollback protocol
// (snapshot, merge, validate, restore-or-commit) is atomic against
// interleaved writers on the same instance.
type Record struct {
	base *schema.Schema
	ext  *ExtensionStore
	mode validator.Mode
	v    *validator.Validator
	sink diag.Sink
	res  validator.Resolver

	mu   sync.Mutex
	data map[string]any
}

// Option configures a Record at construction.
type Option func(*Record)

// WithValidator sets the validation engine the record delegates to.
// Without it the record builds its own from the resolver and sink options.
func WithValidator(v *validator.Validator) Option {
	return func(r *Record) { r.v = v }
}

// WithResolver sets the schema resolver used both for validation of nested
// references and for auto-wrapping raw mappings into record instances.
func WithResolver(res validator.Resolver) Option {
	return func(r *Record) { r.res = res }
}

// WithSink sets the diagnostic sink warnings and errors are reported to.
func WithSink(s diag.Sink) Option {
	return func(r *Record) { r.sink = s }
}

// WithExtensions binds the record to a shared extension store. Extensions
// registered for the record's schema name become part of its effective
// schema immediately.
func WithExtensions(store *ExtensionStore) Option {
	return func(r *Record) { r.ext = store }
}

// New creates a record bound to a schema and validates the initial data.
//
// On validation failure the record is returned with an empty backing map
// alongside the error: a record never commits known-invalid initial state.
// Callers that want the failure detail inspect the returned error or the
// diagnostic sink.
func New(s *schema.Schema, initial map[string]any, mode validator.Mode, opts ...Option) (*Record, error) {
	r := &Record{
		base: s,
		mode: mode,
		sink: diag.NopSink{},
		data: make(map[string]any),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.v == nil {
		r.v = validator.New(validator.WithResolver(r.res), validator.WithSink(r.sink))
	}

	effective := r.effectiveSchema()
	if effective.Len() > 0 {
		res := r.v.ValidateRecord(initial, effective, mode)
		if !res.Valid {
			first, _ := res.First()
			d := diag.New(diag.KindConstructionRejected, diag.SeverityError,
				fmt.Sprintf("initial data for schema %q rejected: %s", s.Name(), first.Message))
			d.Schema = s.Name()
			d.Field = first.Field
			d.Expected = first.Expected
			d.Actual = first.Actual
			r.sink.Report(d)
			return r, d
		}
	}

	// Defensive copy so later caller mutations of the input map cannot
	// bypass validation.
	for k, v := range initial {
		r.data[k] = v
	}
	return r, nil
}

// SchemaName returns the name of the schema the record is bound to.
// Together with ToMap it implements schema.Instance.
func (r *Record) SchemaName() string {
	return r.base.Name()
}

// Mode returns the record's validation mode.
func (r *Record) Mode() validator.Mode {
	return r.mode
}

// EffectiveSchema returns the base schema merged with the current extension
// fields. The result changes as the shared extension store changes.
func (r *Record) EffectiveSchema() *schema.Schema {
	return r.effectiveSchema()
}

func (r *Record) effectiveSchema() *schema.Schema {
	if r.ext == nil {
		return r.base
	}
	return r.base.Merge(r.ext.FieldsFor(r.base.Name()))
}

// ExtendSchema merges fields into the extension component for this record's
// schema. It requires a shared extension store; the zero configuration (no
// store) makes extension a no-op and returns an error.
func (r *Record) ExtendSchema(fields ...schema.Field) error {
	if r.ext == nil {
		return fmt.Errorf("record for schema %q has no extension store", r.base.Name())
	}
	r.ext.Extend(r.base.Name(), fields...)
	return nil
}

// Get returns the stored value for a field, or def when absent. Reads are
// not re-validated; validation is a write-time gate only.
//
// When the field's descriptor names a nested schema (or an array of such)
// and the stored value is still a raw mapping, Get transparently wraps it
// into the referenced schema's record type and stores the wrapped form back.
// Wrapping is idempotent: an already-wrapped value is returned as is.
func (r *Record) Get(field string, def any) any {
	r.mu.Lock()
	defer r.mu.Unlock()

	value, ok := r.data[field]
	if !ok {
		return def
	}

	if d, ok := r.effectiveSchema().Descriptor(field); ok {
		if wrapped, changed := r.wrapForDescriptor(value, d); changed {
			r.data[field] = wrapped
			return wrapped
		}
	}
	return value
}

// Has reports whether the record holds a value for the field.
func (r *Record) Has(field string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.data[field]
	return ok
}

// Keys returns the record's field keys in sorted order.
func (r *Record) Keys() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	keys := make([]string, 0, len(r.data))
	for k := range r.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of stored fields, the side-channel field included.
func (r *Record) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.data)
}

// Set stores a value under a field and re-validates the whole record.
//
// In strict mode a failed validation rolls the write back and returns the
// failure; the externally visible state is always the last-known-valid one.
// In loose mode the value is kept, the failure is reported to the sink as a
// warning, and Set returns nil.
func (r *Record) Set(field string, value any) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	effective := r.effectiveSchema()
	if d, ok := effective.Descriptor(field); ok {
		value, _ = r.wrapForDescriptor(value, d)
	}

	old, existed := r.data[field]
	r.data[field] = value

	if effective.Len() == 0 {
		return nil
	}

	res := r.v.ValidateRecord(r.data, effective, r.mode)
	if res.Valid {
		return nil
	}

	first, _ := res.First()
	if r.mode == validator.ModeStrict {
		// Rollback to the pre-write state.
		if existed {
			r.data[field] = old
		} else {
			delete(r.data, field)
		}
		return first
	}

	r.warnKept(field, first)
	return nil
}

// Update merges partial data into the record and re-validates.
//
// The rollback is whole-operation: a strict-mode failure restores the full
// pre-merge snapshot rather than unwinding key by key. Loose mode keeps the
// merged result and reports a warning.
func (r *Record) Update(partial map[string]any) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	snapshot := make(map[string]any, len(r.data))
	for k, v := range r.data {
		snapshot[k] = v
	}

	effective := r.effectiveSchema()
	for k, v := range partial {
		if d, ok := effective.Descriptor(k); ok {
			v, _ = r.wrapForDescriptor(v, d)
		}
		r.data[k] = v
	}

	if effective.Len() == 0 {
		return nil
	}

	res := r.v.ValidateRecord(r.data, effective, r.mode)
	if res.Valid {
		return nil
	}

	first, _ := res.First()
	if r.mode == validator.ModeStrict {
		r.data = snapshot
		return first
	}

	r.warnKept(first.Field, first)
	return nil
}

// ToMap returns a plain mapping snapshot of the record. Nested record
// instances are converted back to mappings, so the result round-trips
// through New/Update losslessly.
func (r *Record) ToMap() map[string]any {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(map[string]any, len(r.data))
	for k, v := range r.data {
		out[k] = unwrap(v)
	}
	return out
}

// warnKept reports a loose-mode kept-invalid-write warning.
func (r *Record) warnKept(field string, cause diag.Diagnostic) {
	d := diag.New(cause.Kind, diag.SeverityWarning,
		fmt.Sprintf("loose mode kept an invalid write to schema %q: %s", r.base.Name(), cause.Message))
	d.Schema = r.base.Name()
	d.Field = field
	d.Expected = cause.Expected
	d.Actual = cause.Actual
	r.sink.Report(d)
}

// wrapForDescriptor converts raw mappings into record instances when the
// descriptor references a nested schema, element-wise for arrays of such.
// It reports whether anything changed, so lazy wrap-on-read can store the
// upgraded value back. Values that are already instances pass through.
func (r *Record) wrapForDescriptor(value any, d schema.Descriptor) (any, bool) {
	p, err := schema.Parse(d)
	if err != nil {
		return value, false
	}

	switch p.Base {
	case schema.BaseReference:
		return r.wrapReference(value, p.Reference)

	case schema.BaseArray:
		if p.Elem.Base != schema.BaseReference {
			return value, false
		}
		elems, ok := value.([]any)
		if !ok {
			return value, false
		}
		changed := false
		out := make([]any, len(elems))
		for i, e := range elems {
			wrapped, c := r.wrapReference(e, p.Elem.Reference)
			out[i] = wrapped
			changed = changed || c
		}
		if !changed {
			return value, false
		}
		return out, true
	}

	return value, false
}

// wrapReference wraps a single raw mapping into an instance of the named
// schema. Wrapping is a no-op for anything that is not a plain mapping and
// for mappings whose schema cannot be resolved. A wrap that fails its own
// construction validation keeps the raw mapping; full-record validation
// then deals with it.
func (r *Record) wrapReference(value any, name string) (any, bool) {
	if _, ok := value.(schema.Instance); ok {
		return value, false
	}
	m, ok := value.(map[string]any)
	if !ok || r.res == nil {
		return value, false
	}
	ref, ok := r.res.Resolve(name)
	if !ok {
		return value, false
	}

	nested, err := New(ref, m, r.mode,
		WithValidator(r.v),
		WithResolver(r.res),
		WithSink(r.sink),
		WithExtensions(r.ext),
	)
	if err != nil {
		return value, false
	}
	return nested, true
}

// unwrap converts record instances back to plain mappings, recursively for
// array elements.
func unwrap(v any) any {
	switch val := v.(type) {
	case schema.Instance:
		return val.ToMap()
	case []any:
		out := make([]any, len(val))
		for i, e := range val {
			out[i] = unwrap(e)
		}
		return out
	}
	return v
}
