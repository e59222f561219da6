package gizbox

import (
	"errors"
	"fmt"

	"github.com/gizbox-lang/gizbox/internal/diag"
	"github.com/gizbox-lang/gizbox/internal/lexer"
	"github.com/gizbox-lang/gizbox/internal/token"
	"github.com/gizbox-lang/gizbox/internal/value"
)

// ErrCalcSyntax is returned by Calc for input that is not a literal or a
// literal-operator-literal expression.
var ErrCalcSyntax = errors.New("expected <literal> or <literal> <op> <literal>")

// CalcResult is the value of an evaluated expression.
type CalcResult struct {
	Value string `json:"value"`
	Type  string `json:"type"`
}

// Calc evaluates a single literal or one binary operator applied to two
// literals. Either operand may carry a leading minus sign.
func Calc(expr string) (*CalcResult, error) {
	tokens, err := lexer.NewScanner().Scan(expr)
	if err != nil {
		return nil, err
	}

	left, rest, err := operand(tokens)
	if err != nil {
		return nil, err
	}
	if len(rest) == 0 {
		return result(left), nil
	}

	op := rest[0]
	if op.Kind != token.Operator {
		return nil, fmt.Errorf("%w: unexpected %s", ErrCalcSyntax, op)
	}

	right, rest, err := operand(rest[1:])
	if err != nil {
		return nil, err
	}
	if len(rest) != 0 {
		return nil, fmt.Errorf("%w: unexpected %s", ErrCalcSyntax, rest[0])
	}

	v, err := value.Binary(op.Name, left, right)
	if err != nil {
		return nil, err
	}
	return result(v), nil
}

// CalcDiagnostic converts a Calc error into a Diagnostic.
func CalcDiagnostic(err error) Diagnostic {
	return convertDiagnostic(diag.FromError(err, ""))
}

func operand(tokens []token.Token) (value.Value, []token.Token, error) {
	negate := false
	if len(tokens) > 0 && tokens[0].Name == "-" {
		negate = true
		tokens = tokens[1:]
	}
	if len(tokens) == 0 {
		return value.Void(), nil, fmt.Errorf("%w: missing operand", ErrCalcSyntax)
	}

	tok := tokens[0]
	if negate && isNumericLiteral(tok.Name) {
		// Parse the sign with the digits so the most negative int fits.
		v, err := value.ParseLiteral(tok.Name, "-"+tok.Literal)
		if err != nil {
			return value.Void(), nil, err
		}
		return v, tokens[1:], nil
	}

	v, err := value.FromToken(tok)
	if err != nil {
		return value.Void(), nil, err
	}
	if negate {
		if v, err = negateValue(v); err != nil {
			return value.Void(), nil, err
		}
	}
	return v, tokens[1:], nil
}

func isNumericLiteral(name string) bool {
	return name == token.LitInt || name == token.LitFloat || name == token.LitDouble
}

func negateValue(v value.Value) (value.Value, error) {
	switch v.Type() {
	case value.TypeInt:
		return value.Sub(value.Int(0), v)
	case value.TypeFloat:
		return value.Sub(value.Float(0), v)
	case value.TypeDouble:
		d, _ := v.AsDouble()
		return value.Double(-d), nil
	default:
		return value.Void(), &value.OpError{Op: "-", Left: v.Type(), Right: v.Type(), Err: value.ErrOperationType}
	}
}

func result(v value.Value) *CalcResult {
	return &CalcResult{Value: v.String(), Type: v.Type().String()}
}
