package validator

import (
	"fmt"
	"sync"
	"time"

	"github.com/Echo-Logic-Interactive/typedict/pkg/diag"
	"github.com/Echo-Logic-Interactive/typedict/pkg/schema"
)

// Mode selects the enforcement policy for record validation.
type Mode string

const (
	// ModeStrict requires an exact key-set match between data and schema.
	ModeStrict Mode = "strict"
	// ModeLoose permits extra undeclared keys and treats missing declared
	// fields as warnings at the record layer.
	ModeLoose Mode = "loose"
)

// ParseMode converts a configuration string into a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeStrict, ModeLoose:
		return Mode(s), nil
	case "":
		return ModeLoose, nil
	default:
		return "", fmt.Errorf("unknown validation mode %q (want strict or loose)", s)
	}
}

// Resolver answers whether a bare descriptor name refers to a known schema.
// The engine assumes nothing about the backing store; a registry, a fixture
// map, or a test double all satisfy it.
type Resolver interface {
	Resolve(name string) (*schema.Schema, bool)
}

// Metrics receives validation observations. The telemetry collector
// implements it; a nil Metrics disables observation entirely.
type Metrics interface {
	ObserveValidation(schemaName string, mode Mode, valid bool, duration time.Duration)
	ObserveViolation(kind diag.Kind)
}

// Validator is the stateless structural type-checking engine. It holds no
// record data; its only state is the pluggable collaborators and a cache of
// parsed descriptors.
//
// Validator is safe for concurrent use.
type Validator struct {
	resolver Resolver
	sink     diag.Sink
	metrics  Metrics
	disabled bool

	mu     sync.RWMutex
	parsed map[schema.Descriptor]*parseEntry
}

type parseEntry struct {
	p   *schema.Parsed
	err error
}

// Option configures a Validator.
type Option func(*Validator)

// WithResolver sets the collaborator used to resolve schema references.
func WithResolver(r Resolver) Option {
	return func(v *Validator) { v.resolver = r }
}

// WithSink sets the diagnostic sink failures are reported to.
func WithSink(s diag.Sink) Option {
	return func(v *Validator) { v.sink = s }
}

// WithMetrics sets the metrics recorder for validation observations.
func WithMetrics(m Metrics) Option {
	return func(v *Validator) { v.metrics = m }
}

// Disabled turns the validator into a no-op that accepts everything.
// This is the documented production escape hatch: validation costs nothing
// and every check reports success.
func Disabled() Option {
	return func(v *Validator) { v.disabled = true }
}

// New creates a validator. Without options it has no resolver (schema
// references never match) and discards diagnostics.
func New(opts ...Option) *Validator {
	v := &Validator{
		sink:   diag.NopSink{},
		parsed: make(map[schema.Descriptor]*parseEntry),
	}
	for _, opt := range opts {
		opt(v)
	}
	if v.sink == nil {
		v.sink = diag.NopSink{}
	}
	return v
}

// parse returns the cached parse of a descriptor.
func (v *Validator) parse(d schema.Descriptor) (*schema.Parsed, error) {
	v.mu.RLock()
	e, ok := v.parsed[d]
	v.mu.RUnlock()
	if ok {
		return e.p, e.err
	}

	p, err := schema.Parse(d)
	v.mu.Lock()
	v.parsed[d] = &parseEntry{p: p, err: err}
	v.mu.Unlock()
	return p, err
}

// report forwards a diagnostic to the sink and the metrics recorder.
func (v *Validator) report(d diag.Diagnostic) {
	v.sink.Report(d)
	if v.metrics != nil {
		v.metrics.ObserveViolation(d.Kind)
	}
}
