// Package token defines the tokens produced by the Gizbox scanner.
package token

import "strings"

// Kind is the broad lexical class a token was recognized as.
type Kind int

const (
	Keyword Kind = iota
	Operator
	Literal
	Identifier
)

var kindNames = map[Kind]string{
	Keyword:    "keyword",
	Operator:   "operator",
	Literal:    "literal",
	Identifier: "identifier",
}

// String returns the string representation of the kind.
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// Category names that are not spelled like their lexeme.
const (
	ID       = "ID"
	TypeName = "TYPE_NAME"

	LitBool   = "LITBOOL"
	LitInt    = "LITINT"
	LitLong   = "LITLONG"
	LitFloat  = "LITFLOAT"
	LitDouble = "LITDOUBLE"
	LitChar   = "LITCHAR"
	LitString = "LITSTRING"

	// Angle brackets relabeled by the generic-bracket pass.
	GenericOpen  = "GEN_LT"
	GenericClose = "GEN_GT"
)

// ScopeSeparator joins the segments of a qualified name (ns::Type).
const ScopeSeparator = "::"

// primitives are the keywords that name a built-in type.
var primitives = map[string]bool{
	"void":   true,
	"bool":   true,
	"int":    true,
	"long":   true,
	"float":  true,
	"double": true,
	"char":   true,
	"string": true,
}

// IsPrimitive returns true if name is a primitive-type keyword.
func IsPrimitive(name string) bool {
	return primitives[name]
}

// Primitives returns the primitive-type keywords.
func Primitives() []string {
	return []string{"void", "bool", "int", "long", "float", "double", "char", "string"}
}

// Position represents a position in the source code.
type Position struct {
	Filename string
	Line     int // 1-indexed
	Column   int // 0-indexed offset from the start of the line
}

// Token represents a lexical token.
//
// Name is the token category. It is the lexeme itself for keywords and
// operators. The generic-bracket pass may rewrite it after scanning.
type Token struct {
	Name    string
	Kind    Kind
	Literal string
	Line    int
	Column  int
	Length  int
}

// Pos returns the start position of the token.
func (t Token) Pos() Position {
	return Position{Line: t.Line, Column: t.Column}
}

// End returns the position just past the token on its line.
func (t Token) End() Position {
	return Position{Line: t.Line, Column: t.Column + t.Length}
}

// IsTypeLike reports whether the token can start a type argument.
func (t Token) IsTypeLike() bool {
	if t.Name == TypeName {
		return true
	}
	return t.Kind == Keyword && IsPrimitive(t.Name)
}

// IsName reports whether the token is an identifier or a type name.
func (t Token) IsName() bool {
	return t.Name == ID || t.Name == TypeName
}

// SimpleName strips any namespace qualifier from a qualified name.
func SimpleName(qualified string) string {
	if i := strings.LastIndex(qualified, ScopeSeparator); i >= 0 {
		return qualified[i+len(ScopeSeparator):]
	}
	return qualified
}

// String renders the token as <name> or <name,literal>.
func (t Token) String() string {
	if t.Literal == "" {
		return "<" + t.Name + ">"
	}
	return "<" + t.Name + "," + t.Literal + ">"
}
