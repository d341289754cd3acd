// Package schema defines the type-descriptor grammar and the schema model
// used by the typedict validation engine.
//
// A schema is an ordered mapping from field name to a Descriptor, a
// string-encoded type expression:
//
//	descriptor := base "?"?            // trailing "?" makes the field nullable
//	base       := primitive | "Array<" descriptor ">" | "Dictionary" | reference
//	primitive  := "String" | "int" | "float" | "bool"
//	reference  := "R" identifier      // names another registered schema
//
// # Core Types
//
// Descriptor: string-encoded type expression ("int", "float?", "Array<String>")
//
// Parsed: structured form of a descriptor (Parse / MustParse)
//
// Schema: ordered, named field set with extension merging (New / Merge)
//
// Field: single named slot with a descriptor and an origin (base or extension)
//
// Kind: closed tagged-variant over the runtime value model (KindOf)
//
// FieldInfo: read-only introspection view consumed by export tooling
//
// # Basic Usage
//
//	player := schema.MustNew("RPlayer",
//	    schema.Field{Name: "name", Descriptor: "String"},
//	    schema.Field{Name: "level", Descriptor: "int"},
//	    schema.Field{Name: "health", Descriptor: "float?"},
//	)
//
//	desc, _ := player.Descriptor("health")
//	p, _ := schema.Parse(desc)
//	fmt.Println(p.Nullable) // true
//
// # Extension Merging
//
// A schema splits into a base component and extension fields merged in later
// (for example by a mod). Merge produces the effective schema: the union of
// both key sets, with extension descriptors winning on collision while the
// field keeps its original position.
//
// # Immutability
//
// Schema values are immutable after construction; Merge returns a new
// Schema. This keeps a shared base schema safe to use from many records.
package schema
