package value

import (
	"errors"
	"math"
	"testing"

	"github.com/gizbox-lang/gizbox/internal/diag"
)

func TestBinary_Arithmetic(t *testing.T) {
	tests := []struct {
		op       string
		a, b     Value
		expected Value
	}{
		{"+", Int(2), Int(3), Int(5)},
		{"-", Int(2), Int(3), Int(-1)},
		{"*", Int(-4), Int(3), Int(-12)},
		{"/", Int(7), Int(2), Int(3)},
		{"/", Int(-7), Int(2), Int(-3)},
		{"%", Int(7), Int(3), Int(1)},
		{"%", Int(-7), Int(3), Int(-1)},
		{"+", Int(math.MaxInt32), Int(1), Int(math.MinInt32)},
		{"+", Float(1.5), Float(2.25), Float(3.75)},
		{"-", Float(1), Float(0.5), Float(0.5)},
		{"*", Float(2), Float(0.25), Float(0.5)},
		{"/", Float(1), Float(4), Float(0.25)},
		{"%", Float(7.5), Float(2), Float(1.5)},
		{"%", Float(-7.5), Float(2), Float(-1.5)},
	}

	for _, tt := range tests {
		t.Run(tt.a.String()+tt.op+tt.b.String(), func(t *testing.T) {
			got, err := Binary(tt.op, tt.a, tt.b)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestBinary_Comparison(t *testing.T) {
	tests := []struct {
		op       string
		a, b     Value
		expected bool
	}{
		{">", Int(3), Int(2), true},
		{"<", Int(3), Int(2), false},
		{">=", Int(2), Int(2), true},
		{"<=", Int(3), Int(2), false},
		{">", Float(0.5), Float(0.25), true},
		{"<=", Float(0.5), Float(0.5), true},
		{"==", Int(4), Int(4), true},
		{"!=", Int(4), Int(5), true},
		{"==", Float(1.5), Float(1.5), true},
		{"==", Bool(true), Bool(true), true},
		{"!=", Bool(true), Bool(false), true},
		{"==", Void(), Void(), true},
		{"==", FromObject(3), FromObject(3), true},
		{"==", FromObject(3), FromObject(4), false},
		{"==", FromConstString(0), FromHeapString(0), false},
		{"!=", FromArray(1), FromArray(2), true},
	}

	for _, tt := range tests {
		t.Run(tt.a.Type().String()+tt.op+tt.b.Type().String(), func(t *testing.T) {
			got, err := Binary(tt.op, tt.a, tt.b)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			b, ok := got.AsBool()
			if !ok {
				t.Fatalf("expected bool result, got %s", got.Type())
			}
			if b != tt.expected {
				t.Errorf("%v %s %v = %v, want %v", tt.a, tt.op, tt.b, b, tt.expected)
			}
		})
	}
}

func TestBinary_NaN(t *testing.T) {
	nan := Float(float32(math.NaN()))

	eq, err := Eq(nan, nan)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b, _ := eq.AsBool(); b {
		t.Error("NaN must not equal itself")
	}

	ne, _ := Ne(nan, nan)
	if b, _ := ne.AsBool(); !b {
		t.Error("NaN != NaN must hold")
	}
}

func TestBinary_FloatDivisionByZero(t *testing.T) {
	got, err := Div(Float(1), Float(0))
	if err != nil {
		t.Fatalf("float division must not fail: %v", err)
	}
	f, _ := got.AsFloat()
	if !math.IsInf(float64(f), 1) {
		t.Errorf("expected +Inf, got %v", f)
	}
}

func TestBinary_IntDivisionByZero(t *testing.T) {
	for _, op := range []string{"/", "%"} {
		t.Run(op, func(t *testing.T) {
			_, err := Binary(op, Int(1), Int(0))
			if !errors.Is(err, ErrDivisionByZero) {
				t.Fatalf("expected ErrDivisionByZero, got %v", err)
			}

			var opErr *OpError
			if !errors.As(err, &opErr) {
				t.Fatalf("expected *OpError, got %T", err)
			}
			if opErr.Code() != diag.ErrDivisionByZero {
				t.Errorf("expected code %s, got %s", diag.ErrDivisionByZero, opErr.Code())
			}
		})
	}
}

func TestBinary_MismatchedTypes(t *testing.T) {
	pairs := []struct {
		name string
		a, b Value
	}{
		{"int float", Int(1), Float(1)},
		{"float int", Float(1), Int(1)},
		{"int bool", Int(1), Bool(true)},
		{"int void", Int(0), Void()},
		{"string object", FromHeapString(1), FromObject(1)},
		{"object array", FromObject(0), FromArray(0)},
		{"char int", Char('a'), Int(97)},
	}

	for _, p := range pairs {
		for _, op := range Operators() {
			t.Run(p.name+" "+op, func(t *testing.T) {
				_, err := Binary(op, p.a, p.b)
				if !errors.Is(err, ErrOperationType) {
					t.Fatalf("expected ErrOperationType, got %v", err)
				}

				var opErr *OpError
				if errors.As(err, &opErr) {
					if opErr.Left != p.a.Type() || opErr.Right != p.b.Type() || opErr.Op != op {
						t.Errorf("unexpected error detail %+v", opErr)
					}
					if opErr.Code() != diag.ErrOperationType {
						t.Errorf("expected code %s, got %s", diag.ErrOperationType, opErr.Code())
					}
				}
			})
		}
	}
}

func TestBinary_UndefinedForType(t *testing.T) {
	tests := []struct {
		op   string
		a, b Value
	}{
		{"+", Bool(true), Bool(false)},
		{"<", Bool(true), Bool(false)},
		{"+", FromObject(1), FromObject(2)},
		{"-", Void(), Void()},
		{"+", Double(1), Double(2)},
		{"==", Double(1), Double(1)},
		{"==", Char('a'), Char('a')},
	}

	for _, tt := range tests {
		t.Run(tt.a.Type().String()+tt.op, func(t *testing.T) {
			if _, err := Binary(tt.op, tt.a, tt.b); !errors.Is(err, ErrOperationType) {
				t.Errorf("expected ErrOperationType, got %v", err)
			}
		})
	}
}

func TestBinary_UnknownOperator(t *testing.T) {
	_, err := Binary("<<", Int(1), Int(2))
	if !errors.Is(err, ErrUnknownOperator) {
		t.Errorf("expected ErrUnknownOperator, got %v", err)
	}
}

func TestOpError_Message(t *testing.T) {
	_, err := Add(Int(1), Float(2))
	if err == nil {
		t.Fatal("expected error")
	}
	if got := err.Error(); got != "operation type error: int + float" {
		t.Errorf("unexpected message %q", got)
	}
}
