package schema

import "reflect"

// Kind represents the runtime kind of a value in the typedict data model.
// It is a closed set: every value a record can hold maps to exactly one Kind.
type Kind int

const (
	KindUnknown Kind = iota
	KindNull
	KindBool
	KindInt
	KindFloat
	KindString
	KindArray
	KindDictionary
	KindRecord
)

// kindNames maps every Kind to its display name. The names are the ones
// descriptors use for primitives ("String", "int", "float", "bool").
var kindNames = map[Kind]string{
	KindUnknown:    "Unknown",
	KindNull:       "null",
	KindBool:       "bool",
	KindInt:        "int",
	KindFloat:      "float",
	KindString:     "String",
	KindArray:      "Array",
	KindDictionary: "Dictionary",
	KindRecord:     "Record",
}

// String returns the display name for the kind.
// Unknown kinds render as "Unknown".
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return kindNames[KindUnknown]
}

// Instance is implemented by validated record instances so the engine can
// recognize them without depending on the record package. SchemaName reports
// the name of the schema the instance is bound to.
type Instance interface {
	SchemaName() string
	ToMap() map[string]any
}

// KindOf computes the runtime kind of an arbitrary value.
// The mapping is total: any Go value resolves to exactly one Kind.
func KindOf(value any) Kind {
	if value == nil {
		return KindNull
	}

	if _, ok := value.(Instance); ok {
		return KindRecord
	}

	switch value.(type) {
	case bool:
		return KindBool
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return KindInt
	case float32, float64:
		return KindFloat
	case string:
		return KindString
	case []any:
		return KindArray
	case map[string]any:
		return KindDictionary
	}

	// Fall back to reflection for typed slices and maps (e.g. []string,
	// map[string]int) so callers are not forced to convert to []any first.
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return KindArray
	case reflect.Map:
		return KindDictionary
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return KindNull
		}
		return KindOf(rv.Elem().Interface())
	}

	return KindUnknown
}

// Elements returns the value as a generic slice if its kind is Array.
// Typed slices are converted element by element.
func Elements(value any) ([]any, bool) {
	if s, ok := value.([]any); ok {
		return s, true
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}
