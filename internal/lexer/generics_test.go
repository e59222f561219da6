package lexer

import (
	"testing"

	"github.com/gizbox-lang/gizbox/internal/token"
)

func TestGenerics_Classification(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		typeNames []string
		expected  []string
	}{
		{
			name:     "comparison",
			input:    "a < b",
			expected: []string{token.ID, "<", token.ID},
		},
		{
			name:      "generic with primitive arguments",
			input:     "Map<int, int> x",
			typeNames: []string{"Map"},
			expected:  []string{token.TypeName, token.GenericOpen, "int", ",", "int", token.GenericClose, token.ID},
		},
		{
			name:      "stop token rejects candidate",
			input:     "a < b; c > d",
			typeNames: []string{"b"},
			expected:  []string{token.ID, "<", token.TypeName, ";", token.ID, ">", token.ID},
		},
		{
			name:      "nested arguments",
			input:     "List<List<int>> xs;",
			typeNames: []string{"List"},
			expected: []string{
				token.TypeName, token.GenericOpen, token.TypeName, token.GenericOpen, "int",
				token.GenericClose, token.GenericClose, token.ID, ";",
			},
		},
		{
			name:      "qualified generic",
			input:     "Core::Map<string, Item> m;",
			typeNames: []string{"Map", "Item"},
			expected: []string{
				token.TypeName, token.GenericOpen, "string", ",", token.TypeName, token.GenericClose, token.ID, ";",
			},
		},
		{
			name:     "comparison chain with plain identifiers",
			input:    "x = a < b > c;",
			expected: []string{token.ID, "=", token.ID, "<", token.ID, ">", token.ID, ";"},
		},
		{
			name:      "unclosed candidate",
			input:     "Foo<int",
			typeNames: []string{"Foo"},
			expected:  []string{token.TypeName, "<", "int"},
		},
		{
			name:      "opener must follow a name",
			input:     "(1) < Foo > x",
			typeNames: []string{"Foo"},
			expected:  []string{"(", token.LitInt, ")", "<", token.TypeName, ">", token.ID},
		},
		{
			name:      "generic call in condition",
			input:     "if (n < Max) { f<int>(n); }",
			typeNames: []string{"Max"},
			expected: []string{
				"if", "(", token.ID, "<", token.TypeName, ")", "{",
				token.ID, token.GenericOpen, "int", token.GenericClose, "(", token.ID, ")", ";", "}",
			},
		},
		{
			// Type-like operands between angle brackets look generic; the
			// heuristic accepts this.
			name:      "type-like comparison chain",
			input:     "a < B > c",
			typeNames: []string{"B"},
			expected:  []string{token.ID, token.GenericOpen, token.TypeName, token.GenericClose, token.ID},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewScanner()
			s.SetTypeNames(tt.typeNames)
			expectNames(t, scanOK(t, s, tt.input), tt.expected)
		})
	}
}

func TestGenerics_CommaStaysSeparator(t *testing.T) {
	s := NewScanner()
	s.SetTypeNames([]string{"Map"})
	tokens := scanOK(t, s, "Map<int, int> x")

	comma := tokens[3]
	if comma.Name != "," || comma.Kind != token.Keyword {
		t.Errorf("expected plain ',' separator, got %v (%v)", comma, comma.Kind)
	}
}

func TestReclassifyGenerics_DoesNotMutateInput(t *testing.T) {
	in := []token.Token{
		{Name: token.TypeName, Kind: token.Identifier, Literal: "List"},
		{Name: "<", Kind: token.Operator},
		{Name: "int", Kind: token.Keyword},
		{Name: ">", Kind: token.Operator},
	}

	out := ReclassifyGenerics(in)

	if in[1].Name != "<" || in[3].Name != ">" {
		t.Errorf("input was modified: %v", in)
	}
	if out[1].Name != token.GenericOpen || out[3].Name != token.GenericClose {
		t.Errorf("expected generic brackets, got %v", out)
	}
}

func TestReclassifyGenerics_Empty(t *testing.T) {
	if out := ReclassifyGenerics(nil); out != nil {
		t.Errorf("expected nil, got %v", out)
	}
	if out := ReclassifyGenerics([]token.Token{}); len(out) != 0 {
		t.Errorf("expected empty, got %v", out)
	}
}

func TestIsStopToken(t *testing.T) {
	tests := []struct {
		tok      token.Token
		expected bool
	}{
		{token.Token{Name: ";", Kind: token.Keyword}, true},
		{token.Token{Name: ")", Kind: token.Operator}, true},
		{token.Token{Name: "==", Kind: token.Operator}, true},
		{token.Token{Name: "?", Kind: token.Operator}, true},
		{token.Token{Name: ",", Kind: token.Keyword}, false},
		{token.Token{Name: "<", Kind: token.Operator}, false},
		{token.Token{Name: ".", Kind: token.Operator}, false},
		{token.Token{Name: token.ID, Kind: token.Identifier, Literal: ";"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.tok.String(), func(t *testing.T) {
			if got := IsStopToken(tt.tok); got != tt.expected {
				t.Errorf("IsStopToken(%v) = %v, want %v", tt.tok, got, tt.expected)
			}
		})
	}
}
