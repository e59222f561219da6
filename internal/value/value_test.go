package value

import (
	"errors"
	"math"
	"strconv"
	"testing"

	"github.com/gizbox-lang/gizbox/internal/diag"
	"github.com/gizbox-lang/gizbox/internal/token"
)

func TestValue_Constructors(t *testing.T) {
	tests := []struct {
		name     string
		v        Value
		typ      Type
		rendered string
	}{
		{"void", Void(), TypeVoid, ""},
		{"zero value", Value{}, TypeVoid, ""},
		{"true", Bool(true), TypeBool, "true"},
		{"false", Bool(false), TypeBool, "false"},
		{"int", Int(42), TypeInt, "42"},
		{"negative int", Int(-7), TypeInt, "-7"},
		{"float", Float(1.5), TypeFloat, "1.5"},
		{"float third", Float(1.0 / 3.0), TypeFloat, strconv.FormatFloat(float64(float32(1.0/3.0)), 'g', -1, 32)},
		{"double", Double(2.25), TypeDouble, "2.25"},
		{"char", Char('x'), TypeChar, "x"},
		{"const string", FromConstString(0), TypeStringRef, "String(ptr:-1)"},
		{"heap string", FromHeapString(0), TypeStringRef, "String(ptr:0)"},
		{"object", FromObject(12), TypeObjectRef, "Object(ptr:12)"},
		{"array", FromArray(3), TypeArrayRef, "Array(ptr:3)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.v.Type() != tt.typ {
				t.Errorf("expected type %s, got %s", tt.typ, tt.v.Type())
			}
			if got := tt.v.String(); got != tt.rendered {
				t.Errorf("expected %q, got %q", tt.rendered, got)
			}
		})
	}
}

func TestValue_NativeRoundTrip(t *testing.T) {
	for _, i := range []int32{0, 1, -1, 42, math.MaxInt32, math.MinInt32} {
		v := Int(i)
		got, ok := v.AsInt()
		if !ok || got != i {
			t.Errorf("AsInt round trip failed for %d: got %d ok=%v", i, got, ok)
		}
		if v.String() != strconv.FormatInt(int64(i), 10) {
			t.Errorf("rendering of %d: got %q", i, v.String())
		}
	}

	for _, f := range []float32{0, -0.5, 3.25, math.MaxFloat32} {
		v := Float(f)
		got, ok := v.AsFloat()
		if !ok || got != f {
			t.Errorf("AsFloat round trip failed for %v", f)
		}
		if v.String() != strconv.FormatFloat(float64(f), 'g', -1, 32) {
			t.Errorf("rendering of %v: got %q", f, v.String())
		}
	}

	d, ok := Double(math.Pi).AsDouble()
	if !ok || d != math.Pi {
		t.Errorf("AsDouble round trip failed: %v", d)
	}

	c, ok := Char('é').AsChar()
	if !ok || c != 'é' {
		t.Errorf("AsChar round trip failed: %q", c)
	}
}

func TestValue_GuardedAccessors(t *testing.T) {
	v := Int(7)

	if _, ok := v.AsFloat(); ok {
		t.Error("AsFloat on int must fail")
	}
	if _, ok := v.AsBool(); ok {
		t.Error("AsBool on int must fail")
	}
	if _, ok := v.AsDouble(); ok {
		t.Error("AsDouble on int must fail")
	}
	if _, ok := v.AsChar(); ok {
		t.Error("AsChar on int must fail")
	}
	if _, ok := v.Ptr(); ok {
		t.Error("Ptr on int must fail")
	}
	if _, ok := Float(1).AsInt(); ok {
		t.Error("AsInt on float must fail")
	}
}

func TestValue_Predicates(t *testing.T) {
	tests := []struct {
		name      string
		v         Value
		void      bool
		ref       bool
		valueType bool
	}{
		{"void", Void(), true, false, false},
		{"int", Int(1), false, false, true},
		{"bool", Bool(true), false, false, true},
		{"string", FromHeapString(1), false, true, false},
		{"object", FromObject(1), false, true, false},
		{"array", FromArray(1), false, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.v.IsVoid() != tt.void || tt.v.IsRef() != tt.ref || tt.v.IsValueType() != tt.valueType {
				t.Errorf("unexpected predicates void=%v ref=%v value=%v",
					tt.v.IsVoid(), tt.v.IsRef(), tt.v.IsValueType())
			}
		})
	}
}

func TestValue_ReferenceEncoding(t *testing.T) {
	konst := FromConstString(5)
	heap := FromHeapString(5)

	kp, _ := konst.Ptr()
	hp, _ := heap.Ptr()
	if kp >= 0 {
		t.Errorf("constant-pool reference must be negative, got %d", kp)
	}
	if kp != -6 {
		t.Errorf("expected encoded -6, got %d", kp)
	}
	if hp != 5 {
		t.Errorf("expected heap offset 5, got %d", hp)
	}

	if !konst.IsConstString() || heap.IsConstString() {
		t.Error("sign must discriminate constant from heap strings")
	}

	if idx, ok := konst.ConstIndex(); !ok || idx != 5 {
		t.Errorf("expected const index 5, got %d ok=%v", idx, ok)
	}
	if _, ok := konst.HeapOffset(); ok {
		t.Error("constant string has no heap offset")
	}
	if off, ok := heap.HeapOffset(); !ok || off != 5 {
		t.Errorf("expected heap offset 5, got %d ok=%v", off, ok)
	}
	if _, ok := heap.ConstIndex(); ok {
		t.Error("heap string has no constant index")
	}

	// Constant index 0 is distinct from heap offset 0.
	if FromConstString(0) == FromHeapString(0) {
		t.Error("const index 0 collides with heap offset 0")
	}

	if off, ok := FromObject(9).HeapOffset(); !ok || off != 9 {
		t.Errorf("expected object offset 9, got %d", off)
	}
	if off, ok := FromArray(0).HeapOffset(); !ok || off != 0 {
		t.Errorf("expected array offset 0, got %d", off)
	}
}

func TestValue_NegativeReferencePanics(t *testing.T) {
	tests := map[string]func(){
		"const":  func() { FromConstString(-1) },
		"heap":   func() { FromHeapString(-1) },
		"object": func() { FromObject(-2) },
		"array":  func() { FromArray(-3) },
	}

	for name, fn := range tests {
		t.Run(name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("expected panic")
				}
			}()
			fn()
		})
	}
}

func TestFrom(t *testing.T) {
	tests := []struct {
		name  string
		input any
		typ   Type
		str   string
	}{
		{"bool", true, TypeBool, "true"},
		{"int", 12, TypeInt, "12"},
		{"int8", int8(-3), TypeInt, "-3"},
		{"uint16", uint16(65535), TypeInt, "65535"},
		{"int32", int32(9), TypeInt, "9"},
		{"int64 in range", int64(10), TypeInt, "10"},
		{"float32", float32(0.5), TypeFloat, "0.5"},
		{"float64", 0.125, TypeDouble, "0.125"},
		{"nil", nil, TypeVoid, ""},
		{"value", Char('z'), TypeChar, "z"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := From(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if v.Type() != tt.typ || v.String() != tt.str {
				t.Errorf("expected %s %q, got %s %q", tt.typ, tt.str, v.Type(), v.String())
			}
		})
	}

	for _, bad := range []any{int64(math.MaxInt32) + 1, "text", []int{1}} {
		if _, err := From(bad); !errors.Is(err, ErrUnsupportedType) {
			t.Errorf("From(%v): expected ErrUnsupportedType, got %v", bad, err)
		}
	}
}

func TestParseLiteral(t *testing.T) {
	tests := []struct {
		category string
		text     string
		expected Value
	}{
		{token.LitBool, "true", Bool(true)},
		{token.LitInt, "123", Int(123)},
		{token.LitFloat, "1.5f", Float(1.5)},
		{token.LitFloat, "0.25F", Float(0.25)},
		{token.LitDouble, "2.25d", Double(2.25)},
		{token.LitDouble, "3.5", Double(3.5)},
		{token.LitChar, "'c'", Char('c')},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			v, err := ParseLiteral(tt.category, tt.text)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if v != tt.expected {
				t.Errorf("expected %v (%s), got %v (%s)", tt.expected, tt.expected.Type(), v, v.Type())
			}
		})
	}
}

func TestParseLiteral_Errors(t *testing.T) {
	tests := []struct {
		name        string
		category    string
		text        string
		unsupported bool
	}{
		{"long", token.LitLong, "42L", true},
		{"string", token.LitString, `"hi"`, true},
		{"int overflow", token.LitInt, "99999999999", false},
		{"bad char", token.LitChar, "'ab'", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseLiteral(tt.category, tt.text)
			if err == nil {
				t.Fatal("expected error")
			}
			if errors.Is(err, ErrUnsupportedLiteral) != tt.unsupported {
				t.Errorf("unsupported=%v, got %v", tt.unsupported, err)
			}
			if errors.Is(err, ErrMalformedLiteral) == tt.unsupported {
				t.Errorf("malformed=%v, got %v", !tt.unsupported, err)
			}

			var litErr *LiteralError
			if !errors.As(err, &litErr) || litErr.Code() != diag.ErrUnsupportedLit {
				t.Errorf("expected LiteralError with code %s, got %v", diag.ErrUnsupportedLit, err)
			}
		})
	}
}

func TestFromToken(t *testing.T) {
	v, err := FromToken(token.Token{Name: token.LitInt, Kind: token.Literal, Literal: "8"})
	if err != nil || v != Int(8) {
		t.Errorf("expected int 8, got %v (%v)", v, err)
	}

	if _, err := FromToken(token.Token{Name: token.ID, Kind: token.Identifier, Literal: "x"}); err == nil {
		t.Error("expected error for identifier token")
	}
}

func TestType_String(t *testing.T) {
	if TypeStringRef.String() != "string" || TypeObjectRef.String() != "object" {
		t.Error("unexpected type names")
	}
	if Type(200).String() != "type(200)" {
		t.Errorf("unexpected name %q", Type(200).String())
	}
}
