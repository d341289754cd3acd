package diag

import (
	"log/slog"
	"sync"
)

// Sink receives structured diagnostics from the validator and records.
// Reporting is fire-and-forget: a sink must not influence control flow and
// must not block for long, since every failed validation calls it inline.
type Sink interface {
	Report(d Diagnostic)
}

// NopSink discards every diagnostic. It is the default sink for callers that
// only inspect validation results programmatically.
type NopSink struct{}

func (NopSink) Report(Diagnostic) {}

// SlogSink forwards diagnostics to a structured logger. Error-severity
// diagnostics log at error level, warnings at warn level.
type SlogSink struct {
	logger *slog.Logger
}

// NewSlogSink creates a sink over the given logger.
// A nil logger falls back to slog.Default.
func NewSlogSink(logger *slog.Logger) *SlogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogSink{logger: logger.With("component", "typedict.diag")}
}

func (s *SlogSink) Report(d Diagnostic) {
	attrs := []any{
		"diagnostic_id", d.ID,
		"kind", string(d.Kind),
		"schema", d.Schema,
		"field", d.Field,
	}
	if d.Expected != "" {
		attrs = append(attrs, "expected", d.Expected, "actual", d.Actual)
	}
	if d.Severity == SeverityWarning {
		s.logger.Warn(d.Message, attrs...)
		return
	}
	s.logger.Error(d.Message, attrs...)
}

// Recorder is a thread-safe sink that keeps every reported diagnostic.
// It is used by tests and by the CLI to surface the last failure.
type Recorder struct {
	mu   sync.Mutex
	seen []Diagnostic
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Report(d Diagnostic) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen = append(r.seen, d)
}

// All returns a copy of every recorded diagnostic in report order.
func (r *Recorder) All() []Diagnostic {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Diagnostic, len(r.seen))
	copy(out, r.seen)
	return out
}

// Last returns the most recent diagnostic and whether one exists.
func (r *Recorder) Last() (Diagnostic, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.seen) == 0 {
		return Diagnostic{}, false
	}
	return r.seen[len(r.seen)-1], true
}

// Reset discards all recorded diagnostics.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen = nil
}

// Multi fans a diagnostic out to several sinks in order.
type Multi []Sink

func (m Multi) Report(d Diagnostic) {
	for _, s := range m {
		s.Report(d)
	}
}
