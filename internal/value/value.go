// Package value implements the Gizbox runtime value cell.
//
// A Value is a discriminant plus one 64-bit payload word. The payload is
// read back only through accessors that check the discriminant first, so a
// float can never be read out of an int cell.
package value

import (
	"fmt"
	"math"
	"strconv"
)

// Type is the discriminant of a Value.
type Type uint8

const (
	TypeVoid Type = iota

	// Value types
	TypeInt
	TypeFloat
	TypeDouble
	TypeBool
	TypeChar

	// Reference types
	TypeStringRef
	TypeObjectRef
	TypeArrayRef
)

var typeNames = [...]string{
	TypeVoid:      "void",
	TypeInt:       "int",
	TypeFloat:     "float",
	TypeDouble:    "double",
	TypeBool:      "bool",
	TypeChar:      "char",
	TypeStringRef: "string",
	TypeObjectRef: "object",
	TypeArrayRef:  "array",
}

func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return fmt.Sprintf("type(%d)", uint8(t))
}

// IsRef reports whether t names a heap or constant-pool reference.
func (t Type) IsRef() bool {
	return t == TypeStringRef || t == TypeObjectRef || t == TypeArrayRef
}

// Value is a tagged cell. The zero Value is Void.
type Value struct {
	typ  Type
	bits uint64
}

// Void returns the distinguished "no value".
func Void() Value {
	return Value{typ: TypeVoid}
}

// Bool returns a bool cell.
func Bool(b bool) Value {
	v := Value{typ: TypeBool}
	if b {
		v.bits = 1
	}
	return v
}

// Int returns a 32-bit integer cell.
func Int(i int32) Value {
	return Value{typ: TypeInt, bits: uint64(uint32(i))}
}

// Float returns a 32-bit float cell.
func Float(f float32) Value {
	return Value{typ: TypeFloat, bits: uint64(math.Float32bits(f))}
}

// Double returns a 64-bit float cell.
func Double(f float64) Value {
	return Value{typ: TypeDouble, bits: math.Float64bits(f)}
}

// Char returns a character cell.
func Char(r rune) Value {
	return Value{typ: TypeChar, bits: uint64(uint32(r))}
}

// From converts a Go primitive without loss. Integers must fit in 32 bits.
func From(x any) (Value, error) {
	switch v := x.(type) {
	case Value:
		return v, nil
	case bool:
		return Bool(v), nil
	case int8:
		return Int(int32(v)), nil
	case int16:
		return Int(int32(v)), nil
	case int32:
		return Int(v), nil
	case uint8:
		return Int(int32(v)), nil
	case uint16:
		return Int(int32(v)), nil
	case int:
		if v < math.MinInt32 || v > math.MaxInt32 {
			return Void(), fmt.Errorf("%w: int %d overflows int32", ErrUnsupportedType, v)
		}
		return Int(int32(v)), nil
	case int64:
		if v < math.MinInt32 || v > math.MaxInt32 {
			return Void(), fmt.Errorf("%w: int64 %d overflows int32", ErrUnsupportedType, v)
		}
		return Int(int32(v)), nil
	case float32:
		return Float(v), nil
	case float64:
		return Double(v), nil
	case nil:
		return Void(), nil
	default:
		return Void(), fmt.Errorf("%w: %T", ErrUnsupportedType, x)
	}
}

// FromConstString references constant-pool entry index. The entry is stored
// as -(index+1) so that it never collides with heap offset 0.
func FromConstString(index int64) Value {
	if index < 0 {
		panic(fmt.Sprintf("value: negative constant-pool index %d", index))
	}
	return Value{typ: TypeStringRef, bits: uint64(-index - 1)}
}

// FromHeapString references a mutable string at heap offset.
func FromHeapString(offset int64) Value {
	return ref(TypeStringRef, offset)
}

// FromObject references an object at heap offset.
func FromObject(offset int64) Value {
	return ref(TypeObjectRef, offset)
}

// FromArray references an array at heap offset.
func FromArray(offset int64) Value {
	return ref(TypeArrayRef, offset)
}

func ref(t Type, offset int64) Value {
	if offset < 0 {
		panic(fmt.Sprintf("value: negative %s offset %d", t, offset))
	}
	return Value{typ: t, bits: uint64(offset)}
}

// Type returns the discriminant.
func (v Value) Type() Type { return v.typ }

// IsVoid reports whether v carries no value.
func (v Value) IsVoid() bool { return v.typ == TypeVoid }

// IsRef reports whether v is a string, object or array reference.
func (v Value) IsRef() bool { return v.typ.IsRef() }

// IsValueType reports whether v holds a primitive.
func (v Value) IsValueType() bool { return !v.IsRef() && !v.IsVoid() }

// AsBool returns the payload if v is a bool.
func (v Value) AsBool() (bool, bool) {
	if v.typ != TypeBool {
		return false, false
	}
	return v.bits != 0, true
}

// AsInt returns the payload if v is an int.
func (v Value) AsInt() (int32, bool) {
	if v.typ != TypeInt {
		return 0, false
	}
	return int32(uint32(v.bits)), true
}

// AsFloat returns the payload if v is a float.
func (v Value) AsFloat() (float32, bool) {
	if v.typ != TypeFloat {
		return 0, false
	}
	return math.Float32frombits(uint32(v.bits)), true
}

// AsDouble returns the payload if v is a double.
func (v Value) AsDouble() (float64, bool) {
	if v.typ != TypeDouble {
		return 0, false
	}
	return math.Float64frombits(v.bits), true
}

// AsChar returns the payload if v is a char.
func (v Value) AsChar() (rune, bool) {
	if v.typ != TypeChar {
		return 0, false
	}
	return rune(int32(uint32(v.bits))), true
}

// Ptr returns the encoded reference of a reference value.
func (v Value) Ptr() (int64, bool) {
	if !v.IsRef() {
		return 0, false
	}
	return int64(v.bits), true
}

// IsConstString reports whether v references the constant pool.
func (v Value) IsConstString() bool {
	return v.typ == TypeStringRef && int64(v.bits) < 0
}

// ConstIndex decodes the constant-pool index of a constant string.
func (v Value) ConstIndex() (int64, bool) {
	if !v.IsConstString() {
		return 0, false
	}
	return -int64(v.bits) - 1, true
}

// HeapOffset returns the heap offset of a heap string, object or array.
func (v Value) HeapOffset() (int64, bool) {
	if !v.IsRef() || v.IsConstString() {
		return 0, false
	}
	return int64(v.bits), true
}

// String renders primitives with the standard Go formatting. References
// render as a placeholder naming their kind; their contents live on a heap
// this package cannot see.
func (v Value) String() string {
	switch v.typ {
	case TypeVoid:
		return ""
	case TypeBool:
		b, _ := v.AsBool()
		return strconv.FormatBool(b)
	case TypeInt:
		i, _ := v.AsInt()
		return strconv.FormatInt(int64(i), 10)
	case TypeFloat:
		f, _ := v.AsFloat()
		return strconv.FormatFloat(float64(f), 'g', -1, 32)
	case TypeDouble:
		d, _ := v.AsDouble()
		return strconv.FormatFloat(d, 'g', -1, 64)
	case TypeChar:
		c, _ := v.AsChar()
		return string(c)
	case TypeStringRef:
		return fmt.Sprintf("String(ptr:%d)", int64(v.bits))
	case TypeArrayRef:
		return fmt.Sprintf("Array(ptr:%d)", int64(v.bits))
	case TypeObjectRef:
		return fmt.Sprintf("Object(ptr:%d)", int64(v.bits))
	default:
		return "???"
	}
}
