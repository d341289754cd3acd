package export

import (
	"fmt"
	"strings"

	"github.com/Echo-Logic-Interactive/typedict/pkg/schema"
)

// TypeScript renders schemas as TypeScript interface declarations, one per
// schema in the order given. Descriptors map as:
//
//	String          string
//	int, float      number
//	bool            boolean
//	Array<T>        T[]
//	Dictionary      Record<string, unknown>
//	RPlayer         Player
//
// Nullable descriptors widen to "T | null" and mark the property optional,
// matching the absent-as-null read semantics.
func TypeScript(schemas ...*schema.Schema) ([]byte, error) {
	var b strings.Builder
	b.WriteString("// Code generated by typedict export. DO NOT EDIT.\n")

	for _, s := range schemas {
		if s == nil {
			return nil, fmt.Errorf("cannot export a nil schema")
		}

		b.WriteString("\nexport interface ")
		b.WriteString(interfaceName(s.Name()))
		b.WriteString(" {\n")

		for _, f := range s.Fields() {
			p, err := schema.Parse(f.Descriptor)
			if err != nil {
				return nil, fmt.Errorf("schema %q field %q: %w", s.Name(), f.Name, err)
			}

			b.WriteString("  ")
			b.WriteString(f.Name)
			if p.Nullable {
				b.WriteString("?: ")
				b.WriteString(tsType(p))
				b.WriteString(" | null")
			} else {
				b.WriteString(": ")
				b.WriteString(tsType(p))
			}
			b.WriteString(";\n")
		}

		b.WriteString("  ")
		b.WriteString(schema.SideChannelField)
		b.WriteString("?: Record<string, Record<string, unknown>>;\n")
		b.WriteString("}\n")
	}

	return []byte(b.String()), nil
}

// tsType maps a parsed descriptor base to its TypeScript type.
func tsType(p *schema.Parsed) string {
	switch p.Base {
	case schema.BaseArray:
		elem := tsType(p.Elem)
		if p.Elem.Nullable {
			return "(" + elem + " | null)[]"
		}
		return elem + "[]"
	case schema.BaseDictionary:
		return "Record<string, unknown>"
	case schema.BaseReference:
		return interfaceName(p.Reference)
	}

	switch p.Primitive {
	case schema.KindString:
		return "string"
	case schema.KindInt, schema.KindFloat:
		return "number"
	case schema.KindBool:
		return "boolean"
	}
	return "unknown"
}

// interfaceName strips the schema reference marker from a schema name.
func interfaceName(name string) string {
	if len(name) > 1 && name[0] == schema.ReferenceMarker {
		return name[1:]
	}
	return name
}
