package export

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/Echo-Logic-Interactive/typedict/pkg/schema"
)

func playerSchema(t *testing.T) *schema.Schema {
	t.Helper()
	return schema.MustNew("RPlayer",
		schema.Field{Name: "name", Descriptor: "String"},
		schema.Field{Name: "level", Descriptor: "int"},
		schema.Field{Name: "health", Descriptor: "float?"},
		schema.Field{Name: "alive", Descriptor: "bool"},
		schema.Field{Name: "tags", Descriptor: "Array<String>"},
		schema.Field{Name: "grid", Descriptor: "Array<Array<int>>"},
		schema.Field{Name: "meta", Descriptor: "Dictionary"},
		schema.Field{Name: "weapon", Descriptor: "RItem?"},
	)
}

func TestJSON(t *testing.T) {
	out, err := JSON(playerSchema(t))
	if err != nil {
		t.Fatalf("JSON failed: %v", err)
	}

	var docs []SchemaDocument
	if err := json.Unmarshal(out, &docs); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("exported %d documents, want 1", len(docs))
	}

	doc := docs[0]
	if doc.Name != "RPlayer" {
		t.Errorf("Name = %q, want RPlayer", doc.Name)
	}
	if len(doc.Fields) != 8 {
		t.Fatalf("exported %d fields, want 8", len(doc.Fields))
	}
	if doc.Fields[0].Name != "name" {
		t.Errorf("first field = %q, declaration order must survive", doc.Fields[0].Name)
	}

	health := doc.Fields[2]
	if !health.Nullable {
		t.Error("health must export as nullable")
	}

	weapon := doc.Fields[7]
	if weapon.Reference != "RItem" {
		t.Errorf("weapon.Reference = %q, want RItem", weapon.Reference)
	}
}

func TestTypeScript(t *testing.T) {
	out, err := TypeScript(playerSchema(t))
	if err != nil {
		t.Fatalf("TypeScript failed: %v", err)
	}
	ts := string(out)

	wantLines := []string{
		"export interface Player {",
		"name: string;",
		"level: number;",
		"health?: number | null;",
		"alive: boolean;",
		"tags: string[];",
		"grid: number[][];",
		"meta: Record<string, unknown>;",
		"weapon?: Item | null;",
		"_mod_data?: Record<string, Record<string, unknown>>;",
	}
	for _, line := range wantLines {
		if !strings.Contains(ts, line) {
			t.Errorf("TypeScript output missing %q:\n%s", line, ts)
		}
	}
}

func TestTypeScriptNullableArrayElement(t *testing.T) {
	s := schema.MustNew("RBoard",
		schema.Field{Name: "cells", Descriptor: "Array<int?>"},
	)

	out, err := TypeScript(s)
	if err != nil {
		t.Fatalf("TypeScript failed: %v", err)
	}
	if !strings.Contains(string(out), "cells: (number | null)[];") {
		t.Errorf("nullable element type wrong:\n%s", out)
	}
}

func TestExportNil(t *testing.T) {
	if _, err := JSON(nil); err == nil {
		t.Error("JSON(nil) should fail")
	}
	if _, err := TypeScript(nil); err == nil {
		t.Error("TypeScript(nil) should fail")
	}
}
