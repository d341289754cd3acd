package schema

import (
	"fmt"
	"strings"
)

// Descriptor is a string-encoded type expression attached to a schema field.
//
// Grammar:
//
//	descriptor := base "?"?
//	base       := primitive | "Array<" descriptor ">" | "Dictionary" | reference
//	primitive  := "String" | "int" | "float" | "bool"
//	reference  := "R" identifier   (names another registered schema)
//
// Examples: "int", "float?", "Array<String>", "Array<RItem?>", "RPlayer".
type Descriptor string

// ReferenceMarker is the reserved leading letter that distinguishes a schema
// reference from a primitive name in a descriptor.
const ReferenceMarker = 'R'

// BaseKind classifies the base form a descriptor reduces to after stripping
// at most one trailing nullable marker.
type BaseKind int

const (
	BasePrimitive BaseKind = iota
	BaseArray
	BaseDictionary
	BaseReference
)

// Parsed is the structured form of a descriptor.
type Parsed struct {
	// Raw is the descriptor this was parsed from.
	Raw Descriptor

	// Nullable reports whether the descriptor carried a trailing "?".
	Nullable bool

	// Base classifies the descriptor after stripping the nullable marker.
	Base BaseKind

	// Primitive is the kind a value must have when Base is BasePrimitive.
	Primitive Kind

	// Elem is the element descriptor when Base is BaseArray.
	Elem *Parsed

	// Reference is the referenced schema name when Base is BaseReference.
	Reference string
}

// ParseError describes a malformed descriptor. A malformed descriptor never
// matches any value; parsing it eagerly surfaces the authoring mistake.
type ParseError struct {
	Descriptor Descriptor
	Reason     string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed descriptor %q: %s", string(e.Descriptor), e.Reason)
}

// primitiveKinds maps primitive descriptor names to the kind they require.
var primitiveKinds = map[string]Kind{
	"String": KindString,
	"int":    KindInt,
	"float":  KindFloat,
	"bool":   KindBool,
}

// Parse parses a descriptor into its structured form.
// It returns a *ParseError for empty descriptors, unbalanced Array<...>
// forms, and unknown primitive names.
func Parse(d Descriptor) (*Parsed, error) {
	s := strings.TrimSpace(string(d))
	if s == "" {
		return nil, &ParseError{Descriptor: d, Reason: "empty descriptor"}
	}

	p := &Parsed{Raw: d}

	if strings.HasSuffix(s, "?") {
		p.Nullable = true
		s = s[:len(s)-1]
		if s == "" {
			return nil, &ParseError{Descriptor: d, Reason: "nullable marker with no base type"}
		}
		if strings.HasSuffix(s, "?") {
			return nil, &ParseError{Descriptor: d, Reason: "at most one nullable marker is allowed"}
		}
	}

	switch {
	case strings.HasPrefix(s, "Array<"):
		if !strings.HasSuffix(s, ">") {
			return nil, &ParseError{Descriptor: d, Reason: "unbalanced Array<...>"}
		}
		inner := s[len("Array<") : len(s)-1]
		elem, err := Parse(Descriptor(inner))
		if err != nil {
			return nil, &ParseError{Descriptor: d, Reason: fmt.Sprintf("invalid element type: %v", err)}
		}
		p.Base = BaseArray
		p.Elem = elem

	case s == "Dictionary":
		p.Base = BaseDictionary

	case isReferenceName(s):
		p.Base = BaseReference
		p.Reference = s

	default:
		kind, ok := primitiveKinds[s]
		if !ok {
			// Case-insensitive fallback: "string" and "Int" are accepted
			// as secondary spellings of the canonical primitive names.
			for name, k := range primitiveKinds {
				if strings.EqualFold(name, s) {
					kind, ok = k, true
					break
				}
			}
		}
		if !ok {
			return nil, &ParseError{Descriptor: d, Reason: fmt.Sprintf("unknown type name %q", s)}
		}
		p.Base = BasePrimitive
		p.Primitive = kind
	}

	return p, nil
}

// isReferenceName reports whether a bare name is a schema reference.
// References start with the reserved marker letter followed by an upper-case
// identifier, e.g. "RPlayer". The marker alone is not a reference.
func isReferenceName(s string) bool {
	if len(s) < 2 || s[0] != ReferenceMarker {
		return false
	}
	c := s[1]
	return c >= 'A' && c <= 'Z'
}

// MustParse parses a descriptor and panics on malformed input.
// It is intended for statically-known descriptors in tests and examples.
func MustParse(d Descriptor) *Parsed {
	p, err := Parse(d)
	if err != nil {
		panic(err)
	}
	return p
}

// String returns the raw descriptor text.
func (d Descriptor) String() string {
	return string(d)
}
