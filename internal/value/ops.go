package value

import (
	"errors"
	"fmt"
	"math"

	"github.com/gizbox-lang/gizbox/internal/diag"
)

var (
	// ErrOperationType is matched by every operator applied to operands of
	// different types, or of a type the operator is not defined for.
	ErrOperationType = errors.New("operation type error")

	// ErrDivisionByZero is returned by int division and modulo by zero.
	ErrDivisionByZero = errors.New("integer division by zero")

	// ErrUnsupportedType is returned by From for Go values with no cell.
	ErrUnsupportedType = errors.New("unsupported value type")
)

// OpError describes a failed operator application.
type OpError struct {
	Op    string
	Left  Type
	Right Type
	Err   error
}

func (e *OpError) Error() string {
	return fmt.Sprintf("%v: %s %s %s", e.Err, e.Left, e.Op, e.Right)
}

func (e *OpError) Unwrap() error { return e.Err }

// Code returns the diagnostic code for the failure.
func (e *OpError) Code() string {
	if errors.Is(e.Err, ErrDivisionByZero) {
		return diag.ErrDivisionByZero
	}
	return diag.ErrOperationType
}

func typeError(op string, a, b Value) error {
	return &OpError{Op: op, Left: a.typ, Right: b.typ, Err: ErrOperationType}
}

// arith applies one of + - * / % to two ints or two floats.
func arith(op string, a, b Value, onInt func(x, y int32) (int32, error), onFloat func(x, y float32) float32) (Value, error) {
	if a.typ != b.typ {
		return Void(), typeError(op, a, b)
	}
	switch a.typ {
	case TypeInt:
		x, _ := a.AsInt()
		y, _ := b.AsInt()
		r, err := onInt(x, y)
		if err != nil {
			return Void(), &OpError{Op: op, Left: a.typ, Right: b.typ, Err: err}
		}
		return Int(r), nil
	case TypeFloat:
		x, _ := a.AsFloat()
		y, _ := b.AsFloat()
		return Float(onFloat(x, y)), nil
	default:
		return Void(), typeError(op, a, b)
	}
}

// compare applies a relational operator to two ints or two floats.
func compare(op string, a, b Value, onInt func(x, y int32) bool, onFloat func(x, y float32) bool) (Value, error) {
	if a.typ != b.typ {
		return Void(), typeError(op, a, b)
	}
	switch a.typ {
	case TypeInt:
		x, _ := a.AsInt()
		y, _ := b.AsInt()
		return Bool(onInt(x, y)), nil
	case TypeFloat:
		x, _ := a.AsFloat()
		y, _ := b.AsFloat()
		return Bool(onFloat(x, y)), nil
	default:
		return Void(), typeError(op, a, b)
	}
}

// Add returns a + b. Int overflow wraps.
func Add(a, b Value) (Value, error) {
	return arith("+", a, b,
		func(x, y int32) (int32, error) { return x + y, nil },
		func(x, y float32) float32 { return x + y })
}

// Sub returns a - b.
func Sub(a, b Value) (Value, error) {
	return arith("-", a, b,
		func(x, y int32) (int32, error) { return x - y, nil },
		func(x, y float32) float32 { return x - y })
}

// Mul returns a * b.
func Mul(a, b Value) (Value, error) {
	return arith("*", a, b,
		func(x, y int32) (int32, error) { return x * y, nil },
		func(x, y float32) float32 { return x * y })
}

// Div returns a / b. Int division truncates toward zero and fails on a zero
// divisor; float division follows IEEE-754.
func Div(a, b Value) (Value, error) {
	return arith("/", a, b,
		func(x, y int32) (int32, error) {
			if y == 0 {
				return 0, ErrDivisionByZero
			}
			return x / y, nil
		},
		func(x, y float32) float32 { return x / y })
}

// Mod returns a % b with the sign of a. Int modulo fails on a zero divisor.
func Mod(a, b Value) (Value, error) {
	return arith("%", a, b,
		func(x, y int32) (int32, error) {
			if y == 0 {
				return 0, ErrDivisionByZero
			}
			return x % y, nil
		},
		func(x, y float32) float32 { return float32(math.Mod(float64(x), float64(y))) })
}

// Gt returns a > b.
func Gt(a, b Value) (Value, error) {
	return compare(">", a, b,
		func(x, y int32) bool { return x > y },
		func(x, y float32) bool { return x > y })
}

// Lt returns a < b.
func Lt(a, b Value) (Value, error) {
	return compare("<", a, b,
		func(x, y int32) bool { return x < y },
		func(x, y float32) bool { return x < y })
}

// Ge returns a >= b.
func Ge(a, b Value) (Value, error) {
	return compare(">=", a, b,
		func(x, y int32) bool { return x >= y },
		func(x, y float32) bool { return x >= y })
}

// Le returns a <= b.
func Le(a, b Value) (Value, error) {
	return compare("<=", a, b,
		func(x, y int32) bool { return x <= y },
		func(x, y float32) bool { return x <= y })
}

// Eq returns a == b. Besides ints and floats it is defined for void, bool
// and for two references of the same kind, which compare by pointer.
func Eq(a, b Value) (Value, error) {
	eq, err := equal("==", a, b)
	if err != nil {
		return Void(), err
	}
	return Bool(eq), nil
}

// Ne returns a != b over the same types as Eq.
func Ne(a, b Value) (Value, error) {
	eq, err := equal("!=", a, b)
	if err != nil {
		return Void(), err
	}
	return Bool(!eq), nil
}

func equal(op string, a, b Value) (bool, error) {
	if a.typ != b.typ {
		return false, typeError(op, a, b)
	}
	switch a.typ {
	case TypeVoid:
		return true, nil
	case TypeBool, TypeInt:
		return a.bits == b.bits, nil
	case TypeFloat:
		x, _ := a.AsFloat()
		y, _ := b.AsFloat()
		return x == y, nil
	case TypeStringRef, TypeObjectRef, TypeArrayRef:
		return a.bits == b.bits, nil
	default:
		return false, typeError(op, a, b)
	}
}

var binaryOps = map[string]func(a, b Value) (Value, error){
	"+":  Add,
	"-":  Sub,
	"*":  Mul,
	"/":  Div,
	"%":  Mod,
	">":  Gt,
	"<":  Lt,
	">=": Ge,
	"<=": Le,
	"==": Eq,
	"!=": Ne,
}

// ErrUnknownOperator is returned by Binary for operators with no Value
// semantics.
var ErrUnknownOperator = errors.New("unknown operator")

// Binary applies the operator spelled op.
func Binary(op string, a, b Value) (Value, error) {
	fn, ok := binaryOps[op]
	if !ok {
		return Void(), &OpError{Op: op, Left: a.typ, Right: b.typ, Err: ErrUnknownOperator}
	}
	return fn(a, b)
}

// Operators lists the operator spellings accepted by Binary.
func Operators() []string {
	return []string{"+", "-", "*", "/", "%", ">", "<", ">=", "<=", "==", "!="}
}
