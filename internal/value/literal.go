package value

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/gizbox-lang/gizbox/internal/diag"
	"github.com/gizbox-lang/gizbox/internal/token"
)

var (
	// ErrUnsupportedLiteral is returned for literal categories that need heap
	// or constant-pool storage (long and string literals).
	ErrUnsupportedLiteral = errors.New("literal has no direct value cell")

	ErrMalformedLiteral = errors.New("malformed literal")
)

// LiteralError reports a literal that could not be turned into a Value.
type LiteralError struct {
	Category string
	Text     string
	Err      error
}

func (e *LiteralError) Error() string {
	return fmt.Sprintf("%v: %s %q", e.Err, e.Category, e.Text)
}

func (e *LiteralError) Unwrap() error { return e.Err }

func (e *LiteralError) Code() string { return diag.ErrUnsupportedLit }

func malformed(category, text string, cause error) error {
	err := ErrMalformedLiteral
	if cause != nil {
		err = fmt.Errorf("%w: %w", ErrMalformedLiteral, cause)
	}
	return &LiteralError{Category: category, Text: text, Err: err}
}

// ParseLiteral converts the text of a literal token into a Value.
func ParseLiteral(category, text string) (Value, error) {
	switch category {
	case token.LitBool:
		b, err := strconv.ParseBool(text)
		if err != nil {
			return Void(), malformed(category, text, err)
		}
		return Bool(b), nil

	case token.LitInt:
		i, err := strconv.ParseInt(text, 10, 32)
		if err != nil {
			return Void(), malformed(category, text, err)
		}
		return Int(int32(i)), nil

	case token.LitFloat:
		f, err := strconv.ParseFloat(strings.TrimRight(text, "Ff"), 32)
		if err != nil {
			return Void(), malformed(category, text, err)
		}
		return Float(float32(f)), nil

	case token.LitDouble:
		d, err := strconv.ParseFloat(strings.TrimRight(text, "Dd"), 64)
		if err != nil {
			return Void(), malformed(category, text, err)
		}
		return Double(d), nil

	case token.LitChar:
		if len(text) < 3 || text[0] != '\'' || text[len(text)-1] != '\'' {
			return Void(), malformed(category, text, nil)
		}
		r, size := utf8.DecodeRuneInString(text[1 : len(text)-1])
		if r == utf8.RuneError || size != len(text)-2 {
			return Void(), malformed(category, text, nil)
		}
		return Char(r), nil

	default:
		return Void(), &LiteralError{Category: category, Text: text, Err: ErrUnsupportedLiteral}
	}
}

// FromToken converts a literal token into a Value.
func FromToken(tok token.Token) (Value, error) {
	if tok.Kind != token.Literal {
		return Void(), &LiteralError{Category: tok.Name, Text: tok.Literal, Err: ErrUnsupportedLiteral}
	}
	return ParseLiteral(tok.Name, tok.Literal)
}
