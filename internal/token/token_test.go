package token

import "testing"

func TestSimpleName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Vector", "Vector"},
		{"Core::Vector", "Vector"},
		{"A::B::Vector", "Vector"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := SimpleName(tt.input); got != tt.expected {
				t.Errorf("SimpleName(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestToken_IsTypeLike(t *testing.T) {
	tests := []struct {
		name     string
		tok      Token
		expected bool
	}{
		{"type name", Token{Name: TypeName, Kind: Identifier, Literal: "Map"}, true},
		{"primitive keyword", Token{Name: "int", Kind: Keyword}, true},
		{"non-type keyword", Token{Name: "while", Kind: Keyword}, false},
		{"plain identifier", Token{Name: ID, Kind: Identifier, Literal: "x"}, false},
		{"operator", Token{Name: "<", Kind: Operator}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.tok.IsTypeLike(); got != tt.expected {
				t.Errorf("IsTypeLike() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestToken_String(t *testing.T) {
	if got := (Token{Name: "while", Kind: Keyword}).String(); got != "<while>" {
		t.Errorf("expected <while>, got %s", got)
	}
	if got := (Token{Name: ID, Kind: Identifier, Literal: "count"}).String(); got != "<ID,count>" {
		t.Errorf("expected <ID,count>, got %s", got)
	}
}

func TestToken_Positions(t *testing.T) {
	tok := Token{Name: ID, Literal: "abc", Line: 3, Column: 4, Length: 3}
	if p := tok.Pos(); p.Line != 3 || p.Column != 4 {
		t.Errorf("unexpected start %+v", p)
	}
	if p := tok.End(); p.Line != 3 || p.Column != 7 {
		t.Errorf("unexpected end %+v", p)
	}
}

func TestKind_String(t *testing.T) {
	if Keyword.String() != "keyword" || Identifier.String() != "identifier" {
		t.Error("unexpected kind names")
	}
	if Kind(42).String() != "unknown" {
		t.Error("expected unknown for out-of-range kind")
	}
}
