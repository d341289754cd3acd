// Package export renders schemas into external formats: a JSON document
// for tooling and TypeScript interface declarations for clients that
// consume the same records over the wire. Both work from the schema
// introspection view, so extensions merged at runtime export like any
// other field.
package export
