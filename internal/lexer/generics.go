package lexer

import "github.com/gizbox-lang/gizbox/internal/token"

// stopTokens end a generic-bracket candidate: statement and expression
// punctuation that cannot appear inside a type argument list.
var stopTokens = map[string]bool{
	";": true, ")": true, "]": true, "}": true, "{": true, "=": true,

	"+": true, "-": true, "*": true, "/": true, "%": true,
	"==": true, "!=": true, "<=": true, ">=": true,
	"<<": true, ">>": true,
	"&&": true, "||": true, "!": true,
	"?": true, ":": true,

	"+=": true, "-=": true, "*=": true, "/=": true, "%=": true,
	"++": true, "--": true,
}

// IsStopToken reports whether tok aborts a generic-bracket candidate.
func IsStopToken(tok token.Token) bool {
	if tok.Kind != token.Operator && tok.Kind != token.Keyword {
		return false
	}
	return stopTokens[tok.Name]
}

func isAngleOpen(tok token.Token) bool {
	return tok.Kind == token.Operator && (tok.Name == "<" || tok.Name == token.GenericOpen)
}

func isAngleClose(tok token.Token) bool {
	return tok.Kind == token.Operator && (tok.Name == ">" || tok.Name == token.GenericClose)
}

// ReclassifyGenerics returns a copy of tokens in which the angle brackets
// around generic type arguments are renamed GEN_LT and GEN_GT.
//
// A "<" is a candidate only when it follows an identifier or type name and
// precedes a type-like token. The matching ">" is found by depth counting;
// a stop token seen before depth returns to zero rejects the candidate. The
// pass is greedy and never backtracks, so "a < b" and "a < B; c > d" keep
// their comparison operators.
func ReclassifyGenerics(tokens []token.Token) []token.Token {
	if tokens == nil {
		return nil
	}
	out := make([]token.Token, len(tokens))
	copy(out, tokens)

	for i := 0; i < len(out); {
		if !isGenericCandidate(out, i) {
			i++
			continue
		}
		end, ok := matchGenericClose(out, i)
		if !ok {
			i++
			continue
		}
		for j := i; j <= end; j++ {
			switch {
			case isAngleOpen(out[j]):
				out[j].Name = token.GenericOpen
			case isAngleClose(out[j]):
				out[j].Name = token.GenericClose
			}
		}
		i = end + 1
	}
	return out
}

func isGenericCandidate(tokens []token.Token, i int) bool {
	if tokens[i].Kind != token.Operator || tokens[i].Name != "<" {
		return false
	}
	if i == 0 || i+1 >= len(tokens) {
		return false
	}
	return tokens[i-1].IsName() && tokens[i+1].IsTypeLike()
}

// matchGenericClose returns the index of the ">" closing the "<" at open.
func matchGenericClose(tokens []token.Token, open int) (int, bool) {
	depth := 0
	for j := open; j < len(tokens); j++ {
		tok := tokens[j]
		switch {
		case isAngleOpen(tok):
			depth++
		case isAngleClose(tok):
			depth--
			if depth == 0 {
				return j, true
			}
		case IsStopToken(tok):
			return 0, false
		}
	}
	return 0, false
}
