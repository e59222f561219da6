// Package diag provides structured diagnostics for the Gizbox toolchain.
// Diagnostics map one-to-one onto LSP diagnostics.
package diag

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gizbox-lang/gizbox/internal/token"
)

// Severity represents the severity of a diagnostic.
type Severity int

const (
	Error Severity = iota
	Warning
	Info
	Hint
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	case Info:
		return "info"
	case Hint:
		return "hint"
	default:
		return "unknown"
	}
}

// Range represents a range in the source code.
type Range struct {
	Start token.Position
	End   token.Position
}

// Diagnostic represents a toolchain diagnostic.
type Diagnostic struct {
	Range    Range
	Severity Severity
	Code     string // e.g., "E0101"
	Message  string
	Source   string // always "gizbox"
}

// String returns a human-readable representation of the diagnostic.
func (d Diagnostic) String() string {
	var b strings.Builder

	// Format: filename:line:column: severity: message [code]
	if d.Range.Start.Filename != "" {
		fmt.Fprintf(&b, "%s:", d.Range.Start.Filename)
	}
	fmt.Fprintf(&b, "%d:%d: ", d.Range.Start.Line, d.Range.Start.Column)
	fmt.Fprintf(&b, "%s: %s", d.Severity, d.Message)
	if d.Code != "" {
		fmt.Fprintf(&b, " [%s]", d.Code)
	}

	return b.String()
}

// List accumulates the diagnostics of one or more scans.
type List struct {
	items []Diagnostic
}

// New returns an empty List.
func New() *List {
	return &List{}
}

// Add appends d.
func (l *List) Add(d Diagnostic) {
	l.items = append(l.items, d)
}

// AddErrorAt records an error at pos.
func (l *List) AddErrorAt(pos token.Position, code, message string) {
	l.Add(Diagnostic{
		Range:    Range{Start: pos, End: pos},
		Severity: Error,
		Code:     code,
		Message:  message,
		Source:   "gizbox",
	})
}

// AddFromError records err through FromError.
func (l *List) AddFromError(err error, filename string) {
	l.Add(FromError(err, filename))
}

// All returns the diagnostics in the order they were recorded.
func (l *List) All() []Diagnostic {
	return l.items
}

// Errors returns only the error diagnostics.
func (l *List) Errors() []Diagnostic {
	var errs []Diagnostic
	for _, d := range l.items {
		if d.Severity == Error {
			errs = append(errs, d)
		}
	}
	return errs
}

// HasErrors reports whether any diagnostic is an error.
func (l *List) HasErrors() bool {
	for _, d := range l.items {
		if d.Severity == Error {
			return true
		}
	}
	return false
}

// Len returns the number of diagnostics.
func (l *List) Len() int {
	return len(l.items)
}

// Merge appends every diagnostic of other. A nil other is ignored.
func (l *List) Merge(other *List) {
	if other == nil {
		return
	}
	l.items = append(l.items, other.items...)
}

// Positioned is implemented by errors that know where in the source they
// occurred.
type Positioned interface {
	error
	Position() token.Position
	Code() string
}

// Coded is implemented by errors that carry a diagnostic code but no
// source position (runtime errors).
type Coded interface {
	error
	Code() string
}

// FromError converts an error into a diagnostic. Errors carrying a source
// position keep it; filename is applied when the error has none.
func FromError(err error, filename string) Diagnostic {
	d := Diagnostic{
		Severity: Error,
		Message:  err.Error(),
		Source:   "gizbox",
	}

	var p Positioned
	var c Coded
	switch {
	case errors.As(err, &p):
		pos := p.Position()
		if pos.Filename == "" {
			pos.Filename = filename
		}
		d.Range = Range{Start: pos, End: pos}
		d.Code = p.Code()
	case errors.As(err, &c):
		d.Range.Start.Filename = filename
		d.Range.End.Filename = filename
		d.Code = c.Code()
	default:
		d.Range.Start.Filename = filename
		d.Range.End.Filename = filename
	}

	return d
}

// Error codes for the Gizbox toolchain.
// Format: E = Error, W = Warning.
// First two digits = category, last two = specific error.
const (
	// Input errors (E00xx)
	ErrReadFile = "E0001"

	// Lexer errors (E01xx)
	ErrLexical = "E0101"

	// Value errors (E08xx)
	ErrOperationType  = "E0801"
	ErrDivisionByZero = "E0802"
	ErrUnsupportedLit = "E0803"

	// Object model errors (E09xx)
	ErrClassLookup = "E0901"
)
