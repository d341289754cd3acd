// Package record implements the validated record: a mapping of field name
// to value bound to a schema, with every write mediated by the validation
// engine.
//
// # Mutation Contract
//
// Set stores one field and re-validates the whole record. Update merges a
// partial mapping and re-validates. In strict mode a failed validation
// rolls the mutation back (Set restores the single field, Update restores
// the full pre-merge snapshot) and the error is returned; the externally
// visible state is always the last-known-valid one. In loose mode the
// mutation is kept and the failure is reported to the diagnostic sink as a
// warning, trading safety for flexibility.
//
// Construction validates the initial data the same way. A record never
// commits known-invalid initial state: on failure it is returned empty,
// alongside the error.
//
// # Schema Extension
//
// Records can share an ExtensionStore. Extending a schema merges fields
// into its extension component, effective immediately for every record
// bound to that schema name; on collision the newest descriptor wins.
//
// # Nested Records
//
// When a field's descriptor references another schema (or an array of
// such), raw mappings are auto-wrapped into instances of that schema on
// write, and lazily on read. Wrapping is idempotent.
//
// # Namespaced Side-Channel
//
// The reserved field "_mod_data" holds per-owner arbitrary data exempt from
// schema validation, so external extensions can attach state to a record
// without schema collisions:
//
//	rec.SetNamespacedData("coolmod", "charge", 3)
//	rec.GetNamespacedData("coolmod", "charge", 0) // 3
//
// # Basic Usage
//
//	player := schema.MustNew("RPlayer",
//	    schema.Field{Name: "name", Descriptor: "String"},
//	    schema.Field{Name: "level", Descriptor: "int"},
//	)
//
//	rec, err := record.New(player, map[string]any{
//	    "name":  "Hero",
//	    "level": 1,
//	}, validator.ModeStrict, record.WithSink(sink))
//	if err != nil {
//	    // initial data rejected; rec is empty
//	}
//
//	if err := rec.Set("level", "not a number"); err != nil {
//	    // strict mode: write rolled back, rec unchanged
//	}
package record
