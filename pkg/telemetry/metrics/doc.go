// Package metrics exposes validation activity as Prometheus metrics.
//
// Collector implements validator.Metrics, so a single option wires it into
// the validation engine. All metric instances are pre-allocated at
// construction; recording a validation costs two label lookups and a
// histogram observation.
package metrics
