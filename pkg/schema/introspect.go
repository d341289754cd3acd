package schema

// FieldInfo is the read-only introspection view of a single schema field.
// It is consumed by documentation and export tooling; the engine itself does
// not generate any document format.
type FieldInfo struct {
	// Name is the field name.
	Name string `json:"name"`

	// Descriptor is the raw descriptor string.
	Descriptor string `json:"descriptor"`

	// Nullable reports whether the descriptor carries a trailing "?".
	Nullable bool `json:"nullable"`

	// IsArray reports whether the base descriptor is an Array<...> form.
	IsArray bool `json:"is_array"`

	// Elem is the element descriptor when IsArray is true.
	Elem string `json:"elem,omitempty"`

	// IsDictionary reports whether the base descriptor is the untyped map
	// marker.
	IsDictionary bool `json:"is_dictionary"`

	// Reference is the referenced schema name when the base descriptor
	// names another schema. Empty otherwise.
	Reference string `json:"reference,omitempty"`

	// Origin reports whether the field comes from the base schema or from
	// a runtime extension.
	Origin Origin `json:"origin"`
}

// Describe returns introspection metadata for every field in declaration
// order. Fields with malformed descriptors are reported with only the raw
// descriptor set; New rejects those up front, so this only happens for
// schemas assembled by hand.
func (s *Schema) Describe() []FieldInfo {
	infos := make([]FieldInfo, 0, len(s.fields))
	for _, f := range s.fields {
		info := FieldInfo{
			Name:       f.Name,
			Descriptor: string(f.Descriptor),
			Origin:     f.Origin,
		}
		if p, err := Parse(f.Descriptor); err == nil {
			info.Nullable = p.Nullable
			switch p.Base {
			case BaseArray:
				info.IsArray = true
				info.Elem = string(p.Elem.Raw)
			case BaseDictionary:
				info.IsDictionary = true
			case BaseReference:
				info.Reference = p.Reference
			}
		}
		infos = append(infos, info)
	}
	return infos
}
