// Typedict is the schema toolchain for runtime-validated key/value records.
//
// It manages YAML schema definitions for the validation engine:
//   - Lint schema files for syntax and descriptor errors
//   - Validate data files against a named schema
//   - Inspect registered schemas
//   - Export schemas as JSON or TypeScript declarations
//   - Watch schema directories and serve validation metrics
//
// Usage:
//
//	# Lint schema files
//	typedict lint --dir schemas/
//
//	# Validate a data file against a schema
//	typedict validate --schema RPlayer --data player.yaml --mode strict
//
//	# List registered schemas
//	typedict schemas list
//
//	# Export TypeScript declarations
//	typedict export --format typescript -o types.ts
//
//	# Watch schema directories, persisting revisions
//	typedict watch
package main

func main() {
	Execute()
}
