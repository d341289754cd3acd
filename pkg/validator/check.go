package validator

import (
	"github.com/Echo-Logic-Interactive/typedict/pkg/schema"
)

// Check reports whether a single value structurally matches a descriptor.
//
// Semantics:
//   - A nil value matches exactly the descriptors carrying the nullable
//     marker "?".
//   - Array<T> requires a sequence whose every element matches T. Empty
//     sequences always match.
//   - Dictionary accepts any key-value mapping, with no further checks.
//   - A schema reference matches a record instance bound to that schema
//     name, or a raw mapping that loosely validates against the referenced
//     schema (the record layer auto-wraps such mappings on write).
//   - Primitives match by runtime kind, with one widening rule: a whole
//     number is accepted where a float is expected. There is no range or
//     overflow checking; int vs float is representational only.
//
// A malformed descriptor never matches any value.
func (v *Validator) Check(value any, d schema.Descriptor) bool {
	if v.disabled {
		return true
	}

	p, err := v.parse(d)
	if err != nil {
		return false
	}
	return v.checkParsed(value, p, ModeLoose)
}

func (v *Validator) checkParsed(value any, p *schema.Parsed, mode Mode) bool {
	if value == nil {
		return p.Nullable
	}

	switch p.Base {
	case schema.BaseArray:
		elems, ok := schema.Elements(value)
		if !ok {
			return false
		}
		for _, e := range elems {
			if !v.checkParsed(e, p.Elem, mode) {
				return false
			}
		}
		return true

	case schema.BaseDictionary:
		return schema.KindOf(value) == schema.KindDictionary

	case schema.BaseReference:
		return v.checkReference(value, p.Reference, mode)

	default: // schema.BasePrimitive
		k := schema.KindOf(value)
		if k == p.Primitive {
			return true
		}
		// Whole numbers are acceptable where floats are expected.
		return p.Primitive == schema.KindFloat && k == schema.KindInt
	}
}

// checkReference matches a value against a named schema. Record instances
// must be bound to exactly that schema name. Raw mappings are accepted when
// they validate against the referenced schema under the enclosing mode; the
// record layer is responsible for wrapping them into real instances on
// write.
func (v *Validator) checkReference(value any, name string, mode Mode) bool {
	if inst, ok := value.(schema.Instance); ok {
		return inst.SchemaName() == name
	}

	if v.resolver == nil {
		return false
	}
	ref, ok := v.resolver.Resolve(name)
	if !ok {
		return false
	}

	m, ok := value.(map[string]any)
	if !ok {
		return false
	}
	return v.validate(m, ref, mode, false).Valid
}
