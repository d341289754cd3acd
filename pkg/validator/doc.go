// Package validator implements the structural type-checking engine for
// typedict records.
//
// The validator is stateless apart from its pluggable collaborators: a
// Resolver for schema references, a diag.Sink for fire-and-forget failure
// reporting, and an optional Metrics recorder. All collaborators are passed
// explicitly at construction; there is no ambient global validator.
//
// # Operations
//
// Check: match a single value against one descriptor
//
// ValidateRecord: check a whole record against a schema in strict or loose
// mode, stopping at the first violation
//
// ValidateAll: exhaustive variant collecting every violation
//
// # Enforcement Modes
//
// Strict mode requires an exact key-set match: every declared non-nullable
// field present, no undeclared keys. Loose mode permits undeclared keys;
// declared keys that are present must still match their descriptors.
//
// # Basic Usage
//
//	v := validator.New(
//	    validator.WithResolver(reg),
//	    validator.WithSink(diag.NewSlogSink(logger)),
//	)
//
//	res := v.ValidateRecord(data, playerSchema, validator.ModeStrict)
//	if !res.Valid {
//	    d, _ := res.First()
//	    fmt.Println(d.Error())
//	}
//
// # Escape Hatch
//
// validator.New(validator.Disabled()) builds a validator whose every check
// reports success without looking at the data. Production deployments that
// trust their inputs can use it for zero validation overhead.
package validator
