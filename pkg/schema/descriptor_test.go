package schema

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		name       string
		descriptor Descriptor
		wantErr    bool
		check      func(t *testing.T, p *Parsed)
	}{
		{
			name:       "primitive int",
			descriptor: "int",
			check: func(t *testing.T, p *Parsed) {
				if p.Base != BasePrimitive || p.Primitive != KindInt || p.Nullable {
					t.Errorf("got base=%v primitive=%v nullable=%v", p.Base, p.Primitive, p.Nullable)
				}
			},
		},
		{
			name:       "nullable float",
			descriptor: "float?",
			check: func(t *testing.T, p *Parsed) {
				if p.Base != BasePrimitive || p.Primitive != KindFloat || !p.Nullable {
					t.Errorf("got base=%v primitive=%v nullable=%v", p.Base, p.Primitive, p.Nullable)
				}
			},
		},
		{
			name:       "array of strings",
			descriptor: "Array<String>",
			check: func(t *testing.T, p *Parsed) {
				if p.Base != BaseArray {
					t.Fatalf("got base=%v, want BaseArray", p.Base)
				}
				if p.Elem.Base != BasePrimitive || p.Elem.Primitive != KindString {
					t.Errorf("elem: got base=%v primitive=%v", p.Elem.Base, p.Elem.Primitive)
				}
			},
		},
		{
			name:       "nullable array of nullable references",
			descriptor: "Array<RItem?>?",
			check: func(t *testing.T, p *Parsed) {
				if !p.Nullable || p.Base != BaseArray {
					t.Fatalf("got base=%v nullable=%v", p.Base, p.Nullable)
				}
				if p.Elem.Base != BaseReference || p.Elem.Reference != "RItem" || !p.Elem.Nullable {
					t.Errorf("elem: got base=%v ref=%q nullable=%v", p.Elem.Base, p.Elem.Reference, p.Elem.Nullable)
				}
			},
		},
		{
			name:       "nested arrays",
			descriptor: "Array<Array<int>>",
			check: func(t *testing.T, p *Parsed) {
				if p.Base != BaseArray || p.Elem.Base != BaseArray || p.Elem.Elem.Primitive != KindInt {
					t.Errorf("nested array did not parse: %+v", p)
				}
			},
		},
		{
			name:       "dictionary",
			descriptor: "Dictionary",
			check: func(t *testing.T, p *Parsed) {
				if p.Base != BaseDictionary {
					t.Errorf("got base=%v, want BaseDictionary", p.Base)
				}
			},
		},
		{
			name:       "schema reference",
			descriptor: "RPlayer",
			check: func(t *testing.T, p *Parsed) {
				if p.Base != BaseReference || p.Reference != "RPlayer" {
					t.Errorf("got base=%v ref=%q", p.Base, p.Reference)
				}
			},
		},
		{
			name:       "empty descriptor",
			descriptor: "",
			wantErr:    true,
		},
		{
			name:       "bare nullable marker",
			descriptor: "?",
			wantErr:    true,
		},
		{
			name:       "double nullable marker",
			descriptor: "int??",
			wantErr:    true,
		},
		{
			name:       "unbalanced array",
			descriptor: "Array<String",
			wantErr:    true,
		},
		{
			name:       "unknown primitive",
			descriptor: "Stirng",
			wantErr:    true,
		},
		{
			name:       "array of unknown primitive",
			descriptor: "Array<foo>",
			wantErr:    true,
		},
		{
			name:       "marker letter alone is not a reference",
			descriptor: "R",
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Parse(tt.descriptor)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse(%q) error = %v, wantErr %v", tt.descriptor, err, tt.wantErr)
			}
			if err == nil && tt.check != nil {
				tt.check(t, p)
			}
		})
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  Kind
	}{
		{"nil", nil, KindNull},
		{"bool", true, KindBool},
		{"int", 42, KindInt},
		{"int64", int64(42), KindInt},
		{"uint8", uint8(1), KindInt},
		{"float64", 1.5, KindFloat},
		{"float32", float32(1.5), KindFloat},
		{"string", "hi", KindString},
		{"generic slice", []any{1, 2}, KindArray},
		{"typed slice", []string{"a"}, KindArray},
		{"generic map", map[string]any{}, KindDictionary},
		{"typed map", map[string]int{"a": 1}, KindDictionary},
		{"struct", struct{}{}, KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.value); got != tt.want {
				t.Errorf("KindOf(%v) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestElements(t *testing.T) {
	if _, ok := Elements("not a slice"); ok {
		t.Error("Elements should reject non-slice values")
	}

	elems, ok := Elements([]string{"a", "b"})
	if !ok || len(elems) != 2 || elems[0] != "a" {
		t.Errorf("Elements([]string) = %v, %v", elems, ok)
	}
}
