package registry

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/Echo-Logic-Interactive/typedict/pkg/diag"
)

const validSchemaFile = `
schemas:
  RPlayer:
    description: Player character
    fields:
      name: String
      level: int
      health: float?
  RItem:
    fields:
      id: int
      tags: Array<String>
`

func TestParseBytes(t *testing.T) {
	t.Run("valid file", func(t *testing.T) {
		result, err := ParseBytes([]byte(validSchemaFile), "schemas.yaml")
		if err != nil {
			t.Fatalf("ParseBytes failed: %v", err)
		}
		if result.Diagnostics.HasErrors() {
			t.Fatalf("unexpected diagnostics: %v", result.Diagnostics.Error())
		}
		if len(result.Schemas) != 2 {
			t.Fatalf("parsed %d schemas, want 2", len(result.Schemas))
		}

		player := result.Schemas[0]
		if player.Name() != "RPlayer" {
			t.Errorf("first schema = %q, want RPlayer (file order)", player.Name())
		}

		// Field declaration order must survive YAML parsing.
		want := []string{"name", "level", "health"}
		got := player.FieldNames()
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("field %d = %q, want %q", i, got[i], want[i])
			}
		}
	})

	t.Run("invalid yaml", func(t *testing.T) {
		result, err := ParseBytes([]byte("schemas: [unclosed"), "bad.yaml")
		if err != nil {
			t.Fatalf("ParseBytes failed: %v", err)
		}
		if !result.Diagnostics.HasKind(diag.KindSyntax) {
			t.Error("expected a syntax diagnostic for invalid YAML")
		}
	})

	t.Run("missing schemas mapping", func(t *testing.T) {
		result, err := ParseBytes([]byte("other: thing"), "bad.yaml")
		if err != nil {
			t.Fatalf("ParseBytes failed: %v", err)
		}
		if !result.Diagnostics.HasKind(diag.KindSyntax) {
			t.Error("expected a syntax diagnostic for missing 'schemas' mapping")
		}
	})

	t.Run("empty schema block", func(t *testing.T) {
		src := "schemas:\n  REmpty:\n    fields: {}\n"
		result, err := ParseBytes([]byte(src), "empty.yaml")
		if err != nil {
			t.Fatalf("ParseBytes failed: %v", err)
		}
		if !result.Diagnostics.HasKind(diag.KindEmptySchema) {
			t.Error("expected an empty_schema diagnostic")
		}
		if len(result.Schemas) != 0 {
			t.Error("empty schema must not parse")
		}
	})

	t.Run("malformed descriptor has location", func(t *testing.T) {
		src := "schemas:\n  RBroken:\n    fields:\n      name: Stringg\n"
		result, err := ParseBytes([]byte(src), "broken.yaml")
		if err != nil {
			t.Fatalf("ParseBytes failed: %v", err)
		}
		d := result.Diagnostics.First()
		if d.Kind != diag.KindMalformedDescriptor {
			t.Fatalf("expected malformed_descriptor diagnostic, got %+v", d)
		}
		if d.Location.Line != 4 {
			t.Errorf("diagnostic line = %d, want 4", d.Location.Line)
		}
		if d.Field != "name" {
			t.Errorf("diagnostic field = %q, want name", d.Field)
		}
	})

	t.Run("broken block does not poison file", func(t *testing.T) {
		src := "schemas:\n  RBroken:\n    fields:\n      x: Nope\n  RGood:\n    fields:\n      y: int\n"
		result, err := ParseBytes([]byte(src), "mixed.yaml")
		if err != nil {
			t.Fatalf("ParseBytes failed: %v", err)
		}
		if len(result.Schemas) != 1 || result.Schemas[0].Name() != "RGood" {
			t.Errorf("expected only RGood to parse, got %d schemas", len(result.Schemas))
		}
		if !result.Diagnostics.HasErrors() {
			t.Error("expected diagnostics for the broken block")
		}
	})

	t.Run("duplicate field", func(t *testing.T) {
		src := "schemas:\n  RDup:\n    fields:\n      a: int\n      a: String\n"
		result, err := ParseBytes([]byte(src), "dup.yaml")
		if err != nil {
			t.Fatalf("ParseBytes failed: %v", err)
		}
		if !result.Diagnostics.HasKind(diag.KindSyntax) {
			t.Error("expected a syntax diagnostic for a duplicate field")
		}
	})
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()

	writeFile := func(name, content string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	writeFile("base.yaml", "schemas:\n  RPlayer:\n    fields:\n      name: String\n")
	writeFile("extra.yml", "schemas:\n  RItem:\n    fields:\n      id: int\n")
	writeFile("broken.yaml", "schemas:\n  RBad:\n    fields:\n      x: Whatever\n")
	writeFile("ignored.txt", "not yaml")

	reg := NewMemory()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	count, err := LoadDir(dir, reg, logger)
	if err != nil {
		t.Fatalf("LoadDir failed: %v", err)
	}
	if count != 2 {
		t.Errorf("LoadDir registered %d schemas, want 2", count)
	}

	for _, name := range []string{"RPlayer", "RItem"} {
		if _, ok := reg.Resolve(name); !ok {
			t.Errorf("expected %s to be registered", name)
		}
	}
	if _, ok := reg.Resolve("RBad"); ok {
		t.Error("broken schema must not be registered")
	}
}
