// Package telemetry provides observability for the validation engine:
// structured logging (telemetry/logging) and Prometheus metrics
// (telemetry/metrics). Both are optional; the engine runs silently without
// them.
package telemetry
