package record

import (
	"reflect"
	"testing"

	"github.com/Echo-Logic-Interactive/typedict/pkg/diag"
	"github.com/Echo-Logic-Interactive/typedict/pkg/schema"
	"github.com/Echo-Logic-Interactive/typedict/pkg/validator"
)

// mapResolver is a test double for the schema registry.
type mapResolver map[string]*schema.Schema

func (m mapResolver) Resolve(name string) (*schema.Schema, bool) {
	s, ok := m[name]
	return s, ok
}

func playerSchema() *schema.Schema {
	return schema.MustNew("RPlayer",
		schema.Field{Name: "name", Descriptor: "String"},
		schema.Field{Name: "level", Descriptor: "int"},
		schema.Field{Name: "health", Descriptor: "float?"},
	)
}

func validPlayer() map[string]any {
	return map[string]any{"name": "Hero", "level": 1}
}

func TestNew(t *testing.T) {
	t.Run("valid initial data", func(t *testing.T) {
		rec, err := New(playerSchema(), validPlayer(), validator.ModeStrict)
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}
		if got := rec.Get("name", nil); got != "Hero" {
			t.Errorf("Get(name) = %v", got)
		}
	})

	t.Run("rejected initial data leaves the record empty", func(t *testing.T) {
		sink := diag.NewRecorder()
		bad := map[string]any{"name": "Hero", "level": "one"}
		rec, err := New(playerSchema(), bad, validator.ModeStrict, WithSink(sink))
		if err == nil {
			t.Fatal("New() accepted invalid initial data")
		}
		if rec == nil {
			t.Fatal("New() must still return a usable record")
		}
		if got := rec.Keys(); len(got) != 0 {
			t.Errorf("record holds %v after rejected construction, want empty", got)
		}
		last, ok := sink.Last()
		if !ok || last.Kind != diag.KindConstructionRejected {
			t.Errorf("sink diagnostic = %+v, %v, want construction_rejected", last, ok)
		}
	})

	t.Run("defensive copy of initial data", func(t *testing.T) {
		initial := validPlayer()
		rec, err := New(playerSchema(), initial, validator.ModeStrict)
		if err != nil {
			t.Fatal(err)
		}
		initial["level"] = "tampered"
		if got := rec.Get("level", nil); got != 1 {
			t.Errorf("Get(level) = %v after caller mutation, want 1", got)
		}
	})

	t.Run("empty schema skips validation", func(t *testing.T) {
		empty := schema.MustNew("RNothing")
		rec, err := New(empty, map[string]any{"free": "form"}, validator.ModeStrict)
		if err != nil {
			t.Fatalf("New() with empty schema error = %v", err)
		}
		if got := rec.Get("free", nil); got != "form" {
			t.Errorf("Get(free) = %v", got)
		}
	})
}

// P4: a failed strict write leaves the record exactly as it was, and a
// subsequent valid write succeeds and changes only that field.
func TestSet_StrictRollback(t *testing.T) {
	rec, err := New(playerSchema(), validPlayer(), validator.ModeStrict)
	if err != nil {
		t.Fatal(err)
	}
	before := rec.ToMap()

	if err := rec.Set("level", "not a number"); err == nil {
		t.Fatal("Set accepted an invalid value in strict mode")
	}
	if got := rec.ToMap(); !reflect.DeepEqual(got, before) {
		t.Errorf("record after failed Set = %v, want %v", got, before)
	}

	// Setting a brand new invalid field must not leave the key behind.
	if err := rec.Set("bogus", 1); err == nil {
		t.Fatal("Set accepted an undeclared field in strict mode")
	}
	if rec.Has("bogus") {
		t.Error("failed Set left the new key in the record")
	}

	if err := rec.Set("level", 12); err != nil {
		t.Fatalf("valid Set failed: %v", err)
	}
	after := rec.ToMap()
	if after["level"] != 12 || after["name"] != "Hero" {
		t.Errorf("record after valid Set = %v", after)
	}
}

// P5: loose mode keeps the invalid value and only warns.
func TestSet_LooseKeepsInvalid(t *testing.T) {
	sink := diag.NewRecorder()
	rec, err := New(playerSchema(), validPlayer(), validator.ModeLoose, WithSink(sink))
	if err != nil {
		t.Fatal(err)
	}
	sink.Reset()

	if err := rec.Set("level", "one"); err != nil {
		t.Fatalf("loose Set returned error: %v", err)
	}
	if got := rec.Get("level", nil); got != "one" {
		t.Errorf("Get(level) = %v, want the kept invalid value", got)
	}

	warned := false
	for _, d := range sink.All() {
		if d.Severity == diag.SeverityWarning {
			warned = true
		}
	}
	if !warned {
		t.Error("loose mode kept an invalid value without warning")
	}
}

func TestUpdate(t *testing.T) {
	t.Run("valid merge", func(t *testing.T) {
		rec, err := New(playerSchema(), validPlayer(), validator.ModeStrict)
		if err != nil {
			t.Fatal(err)
		}
		if err := rec.Update(map[string]any{"level": 5, "health": 0.5}); err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		if rec.Get("level", nil) != 5 || rec.Get("health", nil) != 0.5 {
			t.Errorf("record after Update = %v", rec.ToMap())
		}
	})

	t.Run("strict failure restores the whole snapshot", func(t *testing.T) {
		rec, err := New(playerSchema(), validPlayer(), validator.ModeStrict)
		if err != nil {
			t.Fatal(err)
		}
		before := rec.ToMap()

		// level is fine, health is not: the whole merge must unwind.
		err = rec.Update(map[string]any{"level": 9, "health": "full"})
		if err == nil {
			t.Fatal("Update accepted an invalid merge in strict mode")
		}
		if got := rec.ToMap(); !reflect.DeepEqual(got, before) {
			t.Errorf("record after failed Update = %v, want %v (whole-operation rollback)", got, before)
		}
	})

	t.Run("loose failure keeps the merge", func(t *testing.T) {
		rec, err := New(playerSchema(), validPlayer(), validator.ModeLoose)
		if err != nil {
			t.Fatal(err)
		}
		if err := rec.Update(map[string]any{"level": "nine"}); err != nil {
			t.Fatalf("loose Update returned error: %v", err)
		}
		if got := rec.Get("level", nil); got != "nine" {
			t.Errorf("Get(level) = %v, want the kept invalid value", got)
		}
	})
}

// P6: the newest extension wins on collision.
func TestExtendSchema(t *testing.T) {
	store := NewExtensionStore()
	rec, err := New(playerSchema(), validPlayer(), validator.ModeStrict, WithExtensions(store))
	if err != nil {
		t.Fatal(err)
	}

	if err := rec.ExtendSchema(schema.Field{Name: "x", Descriptor: "int"}); err != nil {
		t.Fatal(err)
	}
	if err := rec.ExtendSchema(schema.Field{Name: "x", Descriptor: "String"}); err != nil {
		t.Fatal(err)
	}

	d, ok := rec.EffectiveSchema().Descriptor("x")
	if !ok || d != "String" {
		t.Errorf("effective descriptor for x = %q, %v, want String", d, ok)
	}

	// The extension is live: a strict write to the extended field validates
	// against the newest descriptor.
	if err := rec.Set("x", 5); err == nil {
		t.Error("Set(x, 5) passed against descriptor String")
	}
	if err := rec.Set("x", "ok"); err != nil {
		t.Errorf("Set(x, ok) failed: %v", err)
	}
}

func TestExtendSchema_SharedStore(t *testing.T) {
	store := NewExtensionStore()
	recA, err := New(playerSchema(), validPlayer(), validator.ModeStrict, WithExtensions(store))
	if err != nil {
		t.Fatal(err)
	}
	recB, err := New(playerSchema(), validPlayer(), validator.ModeStrict, WithExtensions(store))
	if err != nil {
		t.Fatal(err)
	}

	if err := recA.ExtendSchema(schema.Field{Name: "guild", Descriptor: "String?"}); err != nil {
		t.Fatal(err)
	}

	// The extension retroactively applies to the other record too.
	if !recB.EffectiveSchema().Has("guild") {
		t.Error("extension did not propagate through the shared store")
	}
	if err := recB.Set("guild", "Iron Pact"); err != nil {
		t.Errorf("Set(guild) on the sibling record failed: %v", err)
	}
}

func TestExtendSchema_NoStore(t *testing.T) {
	rec, err := New(playerSchema(), validPlayer(), validator.ModeStrict)
	if err != nil {
		t.Fatal(err)
	}
	if err := rec.ExtendSchema(schema.Field{Name: "x", Descriptor: "int"}); err == nil {
		t.Error("ExtendSchema without a store should fail")
	}
}

// P7: namespaces are isolated from each other and from schema validation.
func TestNamespacedData(t *testing.T) {
	rec, err := New(playerSchema(), validPlayer(), validator.ModeStrict)
	if err != nil {
		t.Fatal(err)
	}

	rec.SetNamespacedData("modA", "k", 1)
	rec.SetNamespacedData("modB", "k", 2)

	if got := rec.GetNamespacedData("modA", "k", nil); got != 1 {
		t.Errorf("modA k = %v, want 1", got)
	}
	if got := rec.GetNamespacedData("modB", "k", nil); got != 2 {
		t.Errorf("modB k = %v, want 2", got)
	}
	if got := rec.GetNamespacedData("modA", "absent", "def"); got != "def" {
		t.Errorf("default = %v", got)
	}

	if owners := rec.NamespaceOwners(); !reflect.DeepEqual(owners, []string{"modA", "modB"}) {
		t.Errorf("NamespaceOwners() = %v", owners)
	}
	if !rec.HasNamespacedData("modA") || rec.HasNamespacedData("modC") {
		t.Error("HasNamespacedData reported the wrong owners")
	}

	// The side-channel must not break strict validation of ordinary writes.
	if err := rec.Set("level", 3); err != nil {
		t.Errorf("Set after namespaced writes failed: %v", err)
	}

	all := rec.AllNamespacedData("modB")
	if !reflect.DeepEqual(all, map[string]any{"k": 2}) {
		t.Errorf("AllNamespacedData(modB) = %v", all)
	}

	rec.ClearNamespacedData("modA")
	if rec.HasNamespacedData("modA") {
		t.Error("ClearNamespacedData left data behind")
	}
	if got := rec.GetNamespacedData("modB", "k", nil); got != 2 {
		t.Errorf("clearing modA affected modB: %v", got)
	}
}

func TestNestedRecords(t *testing.T) {
	item := schema.MustNew("RItem",
		schema.Field{Name: "id", Descriptor: "String"},
		schema.Field{Name: "count", Descriptor: "int"},
	)
	player := schema.MustNew("RPlayer",
		schema.Field{Name: "name", Descriptor: "String"},
		schema.Field{Name: "weapon", Descriptor: "RItem?"},
		schema.Field{Name: "bag", Descriptor: "Array<RItem>?"},
	)
	res := mapResolver{"RItem": item, "RPlayer": player}

	t.Run("set wraps raw mappings", func(t *testing.T) {
		rec, err := New(player, map[string]any{"name": "Hero"}, validator.ModeStrict, WithResolver(res))
		if err != nil {
			t.Fatal(err)
		}

		if err := rec.Set("weapon", map[string]any{"id": "sword", "count": 1}); err != nil {
			t.Fatalf("Set(weapon) failed: %v", err)
		}
		weapon, ok := rec.Get("weapon", nil).(*Record)
		if !ok {
			t.Fatalf("stored weapon is %T, want *Record", rec.Get("weapon", nil))
		}
		if weapon.SchemaName() != "RItem" || weapon.Get("id", nil) != "sword" {
			t.Errorf("wrapped weapon = %v", weapon.ToMap())
		}
	})

	t.Run("get lazily wraps and is idempotent", func(t *testing.T) {
		initial := map[string]any{
			"name":   "Hero",
			"weapon": map[string]any{"id": "axe", "count": 2},
		}
		rec, err := New(player, initial, validator.ModeStrict, WithResolver(res))
		if err != nil {
			t.Fatal(err)
		}

		first, ok := rec.Get("weapon", nil).(*Record)
		if !ok {
			t.Fatalf("lazy wrap did not produce a *Record")
		}
		second, _ := rec.Get("weapon", nil).(*Record)
		if first != second {
			t.Error("wrap-on-read is not idempotent: produced a new instance")
		}
	})

	t.Run("arrays wrap element-wise", func(t *testing.T) {
		rec, err := New(player, map[string]any{"name": "Hero"}, validator.ModeStrict, WithResolver(res))
		if err != nil {
			t.Fatal(err)
		}
		bag := []any{
			map[string]any{"id": "rope", "count": 1},
			map[string]any{"id": "torch", "count": 3},
		}
		if err := rec.Set("bag", bag); err != nil {
			t.Fatalf("Set(bag) failed: %v", err)
		}
		stored, _ := rec.Get("bag", nil).([]any)
		if len(stored) != 2 {
			t.Fatalf("bag = %v", stored)
		}
		for i, e := range stored {
			if _, ok := e.(*Record); !ok {
				t.Errorf("bag[%d] is %T, want *Record", i, e)
			}
		}
	})

	t.Run("to map unwraps nested records", func(t *testing.T) {
		rec, err := New(player, map[string]any{"name": "Hero"}, validator.ModeStrict, WithResolver(res))
		if err != nil {
			t.Fatal(err)
		}
		if err := rec.Set("weapon", map[string]any{"id": "sword", "count": 1}); err != nil {
			t.Fatal(err)
		}

		m := rec.ToMap()
		weapon, ok := m["weapon"].(map[string]any)
		if !ok {
			t.Fatalf("ToMap weapon is %T, want plain mapping", m["weapon"])
		}
		if weapon["id"] != "sword" {
			t.Errorf("weapon = %v", weapon)
		}

		// Lossless round-trip: the plain mapping reconstructs the record.
		again, err := New(player, m, validator.ModeStrict, WithResolver(res))
		if err != nil {
			t.Fatalf("round-trip construction failed: %v", err)
		}
		if !reflect.DeepEqual(again.ToMap(), m) {
			t.Errorf("round-trip mismatch: %v vs %v", again.ToMap(), m)
		}
	})
}

func TestGet_Default(t *testing.T) {
	rec, err := New(playerSchema(), validPlayer(), validator.ModeLoose)
	if err != nil {
		t.Fatal(err)
	}
	if got := rec.Get("health", 1.0); got != 1.0 {
		t.Errorf("Get(health, 1.0) = %v, want the default", got)
	}
}
