// Package lexer provides the table-driven scanner for the Gizbox language.
//
// The scanner grows a window over the source one character at a time and
// tests it against ordered pattern tables. Rules that need lookahead match
// one extra character and trim it (see Pattern.Back). After the main scan, a
// second pass relabels angle brackets that enclose generic type arguments.
package lexer

import (
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/gizbox-lang/gizbox/internal/token"
)

// Scanner tokenizes Gizbox source code.
//
// A Scanner is not safe for concurrent use. The pattern tables are read-only
// after NewScanner; the type-name set may be replaced between scans.
type Scanner struct {
	keywords   []*Pattern
	operators  []*Pattern
	literals   []*Pattern
	identifier *Pattern
	whitespace *Pattern
	comment    *Pattern

	typeNames map[string]struct{}
	logger    *slog.Logger
}

// NewScanner creates a Scanner with the Gizbox pattern tables.
func NewScanner() *Scanner {
	return &Scanner{
		keywords:   keywordPatterns(),
		operators:  operatorPatterns(),
		literals:   literalPatterns(),
		identifier: identifierPattern(),
		whitespace: whitespacePattern(),
		comment:    commentPattern(),
		typeNames:  make(map[string]struct{}),
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// SetLogger routes the scanner's debug trace to logger.
func (s *Scanner) SetLogger(logger *slog.Logger) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s.logger = logger
}

// SetTypeNames replaces the set of names classified as TYPE_NAME.
// Blank names are ignored.
func (s *Scanner) SetTypeNames(names []string) {
	s.typeNames = make(map[string]struct{}, len(names))
	for _, name := range names {
		if strings.TrimSpace(name) == "" {
			continue
		}
		s.typeNames[name] = struct{}{}
	}
}

// TypeNames returns the current type-name set, sorted.
func (s *Scanner) TypeNames() []string {
	names := make([]string, 0, len(s.typeNames))
	for name := range s.typeNames {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TokenNames returns every category name the scanner can emit.
func (s *Scanner) TokenNames() []string {
	var names []string
	for _, p := range s.keywords {
		names = append(names, p.Name)
	}
	for _, p := range s.operators {
		names = append(names, p.Name)
	}
	for _, p := range s.literals {
		names = append(names, p.Name)
	}
	names = append(names, s.identifier.Name, token.TypeName, token.GenericOpen, token.GenericClose)
	return names
}

// scan holds the cursor state of a single Scan call.
type scan struct {
	src       string
	begin     int // start of the current lexeme
	forward   int // end of the window (exclusive)
	line      int
	lineStart int
	tokens    []token.Token
}

// advance moves the lexeme start past n characters and resets the window.
func (st *scan) advance(n int) {
	st.begin += n
	st.forward = st.begin + 1
}

func (st *scan) emit(name string, kind token.Kind, literal, lexeme string) {
	st.tokens = append(st.tokens, token.Token{
		Name:    name,
		Kind:    kind,
		Literal: literal,
		Line:    st.line,
		Column:  st.begin - st.lineStart,
		Length:  len(lexeme),
	})
}

// fragment returns at most n characters of s, never splitting a multi-byte
// character.
func fragment(s string, n int) string {
	for i := range s {
		if n == 0 {
			return s[:i]
		}
		n--
	}
	return s
}

// Scan tokenizes input. It either covers the whole input or fails with an
// *Error describing where no pattern could be matched.
func (s *Scanner) Scan(input string) ([]token.Token, error) {
	st := &scan{
		src:     input + "\n",
		line:    1,
		forward: 1,
	}
	s.logger.Debug("scan started", "length", len(input))

	for st.begin != len(st.src) {
		if st.forward > len(st.src) {
			return nil, &Error{
				Line:     st.line,
				Column:   st.begin - st.lineStart,
				Fragment: fragment(st.src[st.begin:], 10),
			}
		}

		window := st.src[st.begin:st.forward]
		if s.step(st, window) {
			continue
		}
		st.forward++
	}

	tokens := ReclassifyGenerics(st.tokens)
	s.logger.Debug("scan finished", "tokens", len(tokens), "lines", st.line)
	return tokens, nil
}

// step tries every table against window in priority order. It reports
// whether a pattern matched and the cursors were advanced.
func (s *Scanner) step(st *scan, window string) bool {
	if s.whitespace.Match(window) {
		lexeme := s.whitespace.Lexeme(window)
		for i := 0; i < len(lexeme); i++ {
			if lexeme[i] == '\n' {
				st.line++
				st.lineStart = st.begin + i + 1
			}
		}
		st.advance(len(lexeme))
		return true
	}

	if len(window) > 2 && s.comment.Match(window) {
		st.advance(len(s.comment.Lexeme(window)))
		return true
	}

	for _, kw := range s.keywords {
		if kw.Match(window) {
			lexeme := kw.Lexeme(window)
			s.logger.Debug("keyword", "lexeme", lexeme, "line", st.line)
			st.emit(lexeme, token.Keyword, "", lexeme)
			st.advance(len(lexeme))
			return true
		}
	}

	for _, op := range s.operators {
		if op.Match(window) {
			lexeme := op.Lexeme(window)
			s.logger.Debug("operator", "lexeme", lexeme, "line", st.line)
			st.emit(lexeme, token.Operator, "", lexeme)
			st.advance(len(lexeme))
			return true
		}
	}

	for _, lit := range s.literals {
		if lit.Match(window) {
			lexeme := lit.Lexeme(window)
			s.logger.Debug("literal", "name", lit.Name, "lexeme", lexeme, "line", st.line)
			st.emit(lit.Name, token.Literal, lexeme, lexeme)
			st.advance(len(lexeme))
			return true
		}
	}

	if s.identifier.Match(window) {
		lexeme := s.identifier.Lexeme(window)
		name := s.classifyIdentifier(st.tokens, lexeme)
		s.logger.Debug("identifier", "name", name, "lexeme", lexeme, "line", st.line)
		st.emit(name, token.Identifier, lexeme, lexeme)
		st.advance(len(lexeme))
		return true
	}

	return false
}

// classifyIdentifier decides between ID and TYPE_NAME. Names declared by a
// namespace statement are never types; otherwise the unqualified name is
// looked up in the type-name set.
func (s *Scanner) classifyIdentifier(prev []token.Token, lexeme string) string {
	if n := len(prev); n > 0 && prev[n-1].Kind == token.Keyword && prev[n-1].Name == "namespace" {
		return token.ID
	}
	if _, ok := s.typeNames[token.SimpleName(lexeme)]; ok {
		return token.TypeName
	}
	return token.ID
}
