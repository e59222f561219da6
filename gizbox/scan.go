// Package gizbox provides the public API for the Gizbox front end.
package gizbox

import (
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/gizbox-lang/gizbox/internal/diag"
	"github.com/gizbox-lang/gizbox/internal/lexer"
	"github.com/gizbox-lang/gizbox/internal/token"
)

// Version is the toolchain version reported by the CLI and the inspector.
const Version = "0.3.0"

// Token is a scanned token.
type Token struct {
	Name    string `json:"name"`
	Kind    string `json:"kind"`
	Literal string `json:"literal,omitempty"`
	Line    int    `json:"line"`
	Column  int    `json:"column"`
	Length  int    `json:"length"`
}

// String renders the token as <name> or <name,literal>.
func (t Token) String() string {
	if t.Literal == "" {
		return "<" + t.Name + ">"
	}
	return "<" + t.Name + "," + t.Literal + ">"
}

// Diagnostic represents a front-end diagnostic.
type Diagnostic struct {
	Filename string `json:"filename,omitempty"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
	Severity string `json:"severity"` // "error", "warning", "info", "hint"
	Code     string `json:"code"`
	Message  string `json:"message"`
}

// String formats the diagnostic as filename:line:column: severity: message [code].
func (d Diagnostic) String() string {
	s := fmt.Sprintf("%d:%d: %s: %s", d.Line, d.Column, d.Severity, d.Message)
	if d.Filename != "" {
		s = d.Filename + ":" + s
	}
	if d.Code != "" {
		s += " [" + d.Code + "]"
	}
	return s
}

// ScanResult contains the result of scanning one source.
type ScanResult struct {
	Filename    string       `json:"filename,omitempty"`
	Tokens      []Token      `json:"tokens"`
	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`
	HasErrors   bool         `json:"has_errors"`

	diags *diag.List
}

// Scanner scans sources with a shared type-name set. It is safe for
// concurrent use; scans are serialized.
type Scanner struct {
	mu sync.Mutex
	s  *lexer.Scanner
}

// NewScanner returns a Scanner that classifies typeNames as TYPE_NAME.
func NewScanner(typeNames []string) *Scanner {
	s := lexer.NewScanner()
	s.SetTypeNames(typeNames)
	return &Scanner{s: s}
}

// SetTypeNames replaces the type-name set.
func (s *Scanner) SetTypeNames(names []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.s.SetTypeNames(names)
}

// TypeNames returns the type-name set, sorted.
func (s *Scanner) TypeNames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.s.TypeNames()
}

// SetLogger enables the scanner's debug trace.
func (s *Scanner) SetLogger(logger *slog.Logger) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.s.SetLogger(logger)
}

// Scan scans src. filename is only used to label diagnostics.
func (s *Scanner) Scan(filename, src string) *ScanResult {
	s.mu.Lock()
	tokens, err := s.s.Scan(src)
	s.mu.Unlock()

	result := &ScanResult{Filename: filename, Tokens: convertTokens(tokens), diags: diag.New()}
	if err != nil {
		result.diags.AddFromError(err, filename)
	}
	result.sync()
	return result
}

// ScanFile reads and scans one file.
func (s *Scanner) ScanFile(path string) *ScanResult {
	content, err := os.ReadFile(path)
	if err != nil {
		result := &ScanResult{Filename: path, Tokens: []Token{}, diags: diag.New()}
		result.diags.AddErrorAt(token.Position{Filename: path}, diag.ErrReadFile,
			fmt.Sprintf("failed to read %s: %v", path, err))
		result.sync()
		return result
	}
	return s.Scan(path, string(content))
}

// Scan scans src with a fresh scanner.
func Scan(src string, typeNames []string) *ScanResult {
	return NewScanner(typeNames).Scan("", src)
}

// ScanFile scans one file with a fresh scanner.
func ScanFile(path string, typeNames []string) *ScanResult {
	return NewScanner(typeNames).ScanFile(path)
}

// Check scans every file with one scanner and returns the results in order.
func Check(files []string, typeNames []string) []*ScanResult {
	s := NewScanner(typeNames)
	results := make([]*ScanResult, 0, len(files))
	for _, f := range files {
		results = append(results, s.ScanFile(f))
	}
	return results
}

// TokenNames lists every token category the scanner can produce.
func TokenNames() []string {
	return lexer.NewScanner().TokenNames()
}

// sync refreshes the exported diagnostic fields from the collected list.
func (r *ScanResult) sync() {
	all := r.diags.All()
	r.Diagnostics = make([]Diagnostic, len(all))
	for i, d := range all {
		r.Diagnostics[i] = convertDiagnostic(d)
	}
	if len(r.Diagnostics) == 0 {
		r.Diagnostics = nil
	}
	r.HasErrors = r.diags.HasErrors()
}

// Summary is the merged diagnostic outcome of several scans.
type Summary struct {
	Diagnostics []Diagnostic `json:"diagnostics"`
	Errors      int          `json:"errors"`
}

// HasErrors reports whether any scan produced an error.
func (s Summary) HasErrors() bool { return s.Errors > 0 }

// Summarize merges the diagnostics of results in order.
func Summarize(results []*ScanResult) Summary {
	merged := diag.New()
	for _, r := range results {
		merged.Merge(r.diags)
	}

	var sum Summary
	for _, d := range merged.All() {
		sum.Diagnostics = append(sum.Diagnostics, convertDiagnostic(d))
	}
	sum.Errors = len(merged.Errors())
	return sum
}

func convertTokens(tokens []token.Token) []Token {
	out := make([]Token, len(tokens))
	for i, t := range tokens {
		out[i] = Token{
			Name:    t.Name,
			Kind:    t.Kind.String(),
			Literal: t.Literal,
			Line:    t.Line,
			Column:  t.Column,
			Length:  t.Length,
		}
	}
	return out
}

func convertDiagnostic(d diag.Diagnostic) Diagnostic {
	return Diagnostic{
		Filename: d.Range.Start.Filename,
		Line:     d.Range.Start.Line,
		Column:   d.Range.Start.Column,
		Severity: d.Severity.String(),
		Code:     d.Code,
		Message:  d.Message,
	}
}
