package diag

import (
	"fmt"
	"strings"
)

// List accumulates diagnostics. The validator's exhaustive mode uses it to
// collect every violation in one pass instead of stopping at the first.
type List struct {
	Diagnostics []Diagnostic
}

// NewList creates an empty diagnostic list.
func NewList() *List {
	return &List{Diagnostics: make([]Diagnostic, 0)}
}

// Add appends a diagnostic to the list.
func (l *List) Add(d Diagnostic) {
	l.Diagnostics = append(l.Diagnostics, d)
}

// HasErrors reports whether the list contains any error-severity diagnostic.
func (l *List) HasErrors() bool {
	for _, d := range l.Diagnostics {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Count returns the number of diagnostics in the list.
func (l *List) Count() int {
	return len(l.Diagnostics)
}

// ByKind returns all diagnostics of the given kind.
func (l *List) ByKind(kind Kind) []Diagnostic {
	var out []Diagnostic
	for _, d := range l.Diagnostics {
		if d.Kind == kind {
			out = append(out, d)
		}
	}
	return out
}

// HasKind reports whether the list contains at least one diagnostic of the
// given kind.
func (l *List) HasKind(kind Kind) bool {
	for _, d := range l.Diagnostics {
		if d.Kind == kind {
			return true
		}
	}
	return false
}

// First returns the first diagnostic, or a zero Diagnostic if empty.
func (l *List) First() Diagnostic {
	if len(l.Diagnostics) == 0 {
		return Diagnostic{}
	}
	return l.Diagnostics[0]
}

// Error implements the error interface, formatting every diagnostic.
func (l *List) Error() string {
	if l.Count() == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("found %d problem(s):\n\n", l.Count()))
	for i, d := range l.Diagnostics {
		sb.WriteString(fmt.Sprintf("Problem %d:\n", i+1))
		sb.WriteString(d.Error())
		sb.WriteString("\n")
	}
	return sb.String()
}

// ToError returns nil for an empty list, otherwise the list itself.
func (l *List) ToError() error {
	if l.Count() == 0 {
		return nil
	}
	return l
}
