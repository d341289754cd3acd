package schema

import "fmt"

// SideChannelField is the reserved record field holding per-owner namespaced
// data. It is exempt from schema validation entirely, so third-party
// extensions can attach data to a record without schema collisions.
const SideChannelField = "_mod_data"

// Origin records whether a field belongs to a schema's base component or was
// merged in later through a runtime extension.
type Origin string

const (
	OriginBase      Origin = "base"
	OriginExtension Origin = "extension"
)

// Field is a single named, typed slot in a schema.
type Field struct {
	// Name is the field name. Non-empty and unique within a schema.
	Name string

	// Descriptor is the type expression values of this field must match.
	Descriptor Descriptor

	// Origin reports whether the field is part of the base schema or was
	// added by an extension.
	Origin Origin
}

// Schema is an ordered set of fields bound to a name. Field order is the
// declaration order; validation and error reporting iterate fields in that
// order so diagnostics are reproducible.
//
// A Schema is immutable after construction. Merging extensions produces a
// new Schema rather than mutating the receiver.
type Schema struct {
	name   string
	fields []Field
	index  map[string]int
}

// New builds a schema from fields in declaration order.
// It returns an error for empty or duplicate field names and for fields
// whose descriptor does not parse.
func New(name string, fields ...Field) (*Schema, error) {
	s := &Schema{
		name:   name,
		fields: make([]Field, 0, len(fields)),
		index:  make(map[string]int, len(fields)),
	}

	for _, f := range fields {
		if f.Name == "" {
			return nil, fmt.Errorf("schema %q: field name cannot be empty", name)
		}
		if _, exists := s.index[f.Name]; exists {
			return nil, fmt.Errorf("schema %q: duplicate field %q", name, f.Name)
		}
		if _, err := Parse(f.Descriptor); err != nil {
			return nil, fmt.Errorf("schema %q: field %q: %w", name, f.Name, err)
		}
		if f.Origin == "" {
			f.Origin = OriginBase
		}
		s.index[f.Name] = len(s.fields)
		s.fields = append(s.fields, f)
	}

	return s, nil
}

// MustNew builds a schema and panics on invalid input.
// It is intended for statically-known schemas in tests and examples.
func MustNew(name string, fields ...Field) *Schema {
	s, err := New(name, fields...)
	if err != nil {
		panic(err)
	}
	return s
}

// Name returns the schema's name.
func (s *Schema) Name() string {
	return s.name
}

// Len returns the number of fields.
func (s *Schema) Len() int {
	return len(s.fields)
}

// Fields returns the fields in declaration order. The returned slice is a
// copy; mutating it does not affect the schema.
func (s *Schema) Fields() []Field {
	out := make([]Field, len(s.fields))
	copy(out, s.fields)
	return out
}

// FieldNames returns the field names in declaration order.
func (s *Schema) FieldNames() []string {
	names := make([]string, len(s.fields))
	for i, f := range s.fields {
		names[i] = f.Name
	}
	return names
}

// Field looks up a field by name.
func (s *Schema) Field(name string) (Field, bool) {
	i, ok := s.index[name]
	if !ok {
		return Field{}, false
	}
	return s.fields[i], true
}

// Descriptor looks up the descriptor for a field name.
func (s *Schema) Descriptor(name string) (Descriptor, bool) {
	f, ok := s.Field(name)
	if !ok {
		return "", false
	}
	return f.Descriptor, true
}

// Has reports whether the schema declares the named field.
func (s *Schema) Has(name string) bool {
	_, ok := s.index[name]
	return ok
}

// Merge returns a new schema containing the receiver's fields plus the given
// extension fields. On name collision the extension field's descriptor wins
// but the field keeps its original position, so declaration order stays
// stable across extensions. Extension fields are marked OriginExtension.
//
// The effective key set of the result is exactly the union of the two sides.
func (s *Schema) Merge(extra []Field) *Schema {
	if len(extra) == 0 {
		return s
	}

	merged := &Schema{
		name:   s.name,
		fields: make([]Field, len(s.fields)),
		index:  make(map[string]int, len(s.fields)+len(extra)),
	}
	copy(merged.fields, s.fields)
	for name, i := range s.index {
		merged.index[name] = i
	}

	for _, f := range extra {
		f.Origin = OriginExtension
		if i, exists := merged.index[f.Name]; exists {
			merged.fields[i] = f
			continue
		}
		merged.index[f.Name] = len(merged.fields)
		merged.fields = append(merged.fields, f)
	}

	return merged
}
