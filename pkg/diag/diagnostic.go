package diag

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Kind categorizes a validation failure.
type Kind string

const (
	// KindEmptySchema means validation ran against a schema with no fields.
	KindEmptySchema Kind = "empty_schema"
	// KindMissingField means a schema-declared field was absent from the data.
	KindMissingField Kind = "missing_field"
	// KindTypeMismatch means a present field's value failed the structural check.
	KindTypeMismatch Kind = "type_mismatch"
	// KindUnexpectedField means strict mode found a data key the schema does not declare.
	KindUnexpectedField Kind = "unexpected_field"
	// KindConstructionRejected means initial data failed validation at construction time.
	KindConstructionRejected Kind = "construction_rejected"
	// KindMalformedDescriptor means a field's descriptor string does not parse.
	KindMalformedDescriptor Kind = "malformed_descriptor"
	// KindSyntax means a schema definition file failed to parse.
	KindSyntax Kind = "syntax"
)

// Severity indicates whether a diagnostic is fatal for the operation that
// produced it. Loose-mode validation failures are reported as warnings.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Location points into a schema definition file for lint-style diagnostics.
// Diagnostics produced by runtime validation carry no location.
type Location struct {
	File   string `json:"file,omitempty"`
	Line   int    `json:"line,omitempty"`
	Column int    `json:"column,omitempty"`
}

// String returns "file:line:column", or "<unknown>" when unset.
func (l Location) String() string {
	if l.File == "" {
		return "<unknown>"
	}
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}

// IsValid reports whether the location carries usable file and line info.
func (l Location) IsValid() bool {
	return l.File != "" && l.Line > 0
}

// Diagnostic is a structured validation error or warning. It carries enough
// context to locate the failure without re-running validation: the schema
// and field involved, the expected descriptor, the actual runtime kind, and
// optionally an excerpt of neighboring schema fields.
type Diagnostic struct {
	// ID uniquely identifies this diagnostic event.
	ID string `json:"id"`

	// Kind categorizes the failure.
	Kind Kind `json:"kind"`

	// Severity is error or warning.
	Severity Severity `json:"severity"`

	// Schema is the name of the schema being validated.
	Schema string `json:"schema,omitempty"`

	// Field is the field the failure concerns, if any.
	Field string `json:"field,omitempty"`

	// Expected is the descriptor the field's value was checked against.
	Expected string `json:"expected,omitempty"`

	// Actual is the display name of the value's runtime kind.
	Actual string `json:"actual,omitempty"`

	// Message is the human-readable failure description.
	Message string `json:"message"`

	// Context is an excerpt of neighboring schema fields for display.
	Context string `json:"context,omitempty"`

	// Suggestion is an optional hint for fixing the failure.
	Suggestion string `json:"suggestion,omitempty"`

	// Location points into a schema definition file, for lint diagnostics.
	Location Location `json:"location,omitzero"`
}

// New creates a diagnostic with a fresh event ID.
func New(kind Kind, severity Severity, message string) Diagnostic {
	return Diagnostic{
		ID:       uuid.New().String(),
		Kind:     kind,
		Severity: severity,
		Message:  message,
	}
}

// Error implements the error interface with a multi-line formatted message.
func (d Diagnostic) Error() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("[%s] %s\n", d.Kind, d.Message))

	if d.Schema != "" || d.Field != "" {
		sb.WriteString(fmt.Sprintf("  --> schema %q", d.Schema))
		if d.Field != "" {
			sb.WriteString(fmt.Sprintf(", field %q", d.Field))
		}
		sb.WriteString("\n")
	}
	if d.Location.IsValid() {
		sb.WriteString(fmt.Sprintf("  --> %s\n", d.Location))
	}
	if d.Expected != "" {
		sb.WriteString(fmt.Sprintf("  = expected: %s\n", d.Expected))
	}
	if d.Actual != "" {
		sb.WriteString(fmt.Sprintf("  = actual:   %s\n", d.Actual))
	}
	if d.Context != "" {
		sb.WriteString("  |\n")
		sb.WriteString(d.Context)
		sb.WriteString("  |\n")
	}
	if d.Suggestion != "" {
		sb.WriteString(fmt.Sprintf("  = suggestion: %s\n", d.Suggestion))
	}

	return sb.String()
}
