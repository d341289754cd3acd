// Package registry manages the set of known schemas: name resolution for
// the validator, YAML schema definition files, persistence, and hot reload.
//
// # Resolution
//
// The Registry interface maps schema names ("RPlayer") to schemas and
// satisfies validator.Resolver. Memory is the standard implementation;
// registering a name again replaces the earlier schema so a reload can swap
// definitions under live validators.
//
// # Definition Files
//
// Schemas are authored in YAML:
//
//	schemas:
//	  RPlayer:
//	    description: Player character
//	    fields:
//	      name: String
//	      level: int
//	      health: float?
//
// ParseFile and LoadDir parse these files, preserving field declaration
// order and attaching source locations to every diagnostic. A file with a
// broken block still yields its clean schemas.
//
// # Persistence
//
// Store persists revisioned schema definitions. MemoryStore is the default;
// SQLiteStore keeps every saved revision in a SQLite database so a bad edit
// can be rolled back. RetentionScheduler prunes superseded revisions on a
// cron schedule.
//
// # Hot Reload
//
// Watcher observes schema directories with fsnotify and triggers a
// debounced reload callback, typically LoadDir into the live registry.
package registry
