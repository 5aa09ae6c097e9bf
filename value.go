package minituna

import (
	"fmt"
	"reflect"
	"strconv"
)

//////
// Const, vars, types.
//////

// ValueKind tags which payload a Value carries.
type ValueKind int

const (
	// KindInvalid is the kind of the zero Value.
	KindInvalid ValueKind = iota

	// KindBool marks a boolean payload.
	KindBool

	// KindInt marks an integer payload.
	KindInt

	// KindFloat marks a floating-point payload.
	KindFloat

	// KindString marks a text payload.
	KindString
)

// Choosable constrains the Go types that can be used as categorical choices
// and as typed suggestion results.
type Choosable interface {
	~bool | ~int | ~float64 | ~string
}

// Value is the user-facing value of a parameter. It holds exactly one of a
// bool, an int, a float64 or a string, and the payload can only be read back
// through the accessor matching its kind.
//
// Usage:
//
//	v := IntValue(42)
//	if n, ok := v.AsInt(); ok {
//	    fmt.Println(n + 1)
//	}
//
// The zero Value is invalid and is rejected by every distribution.
type Value struct {
	kind ValueKind
	b    bool
	i    int
	f    float64
	s    string
}

//////
// Exported functionalities.
//////

// BoolValue wraps a bool.
func BoolValue(b bool) Value { return Value{kind: KindBool, b: b} }

// IntValue wraps an int.
func IntValue(i int) Value { return Value{kind: KindInt, i: i} }

// FloatValue wraps a float64.
func FloatValue(f float64) Value { return Value{kind: KindFloat, f: f} }

// StringValue wraps a string.
func StringValue(s string) Value { return Value{kind: KindString, s: s} }

// ValueOf converts a typed Go value into a Value. Named types such as
// `type mode string` map onto their underlying kind.
func ValueOf[T Choosable](v T) Value {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Bool:
		return BoolValue(rv.Bool())
	case reflect.Int:
		return IntValue(int(rv.Int()))
	case reflect.Float64:
		return FloatValue(rv.Float())
	case reflect.String:
		return StringValue(rv.String())
	default:
		return Value{}
	}
}

// ValueAs converts a Value back into T. ok is false when the payload kind
// doesn't match T's underlying kind.
func ValueAs[T Choosable](v Value) (out T, ok bool) {
	rv := reflect.ValueOf(&out).Elem()
	switch rv.Kind() {
	case reflect.Bool:
		var b bool
		if b, ok = v.AsBool(); ok {
			rv.SetBool(b)
		}
	case reflect.Int:
		var i int
		if i, ok = v.AsInt(); ok {
			rv.SetInt(int64(i))
		}
	case reflect.Float64:
		var f float64
		if f, ok = v.AsFloat(); ok {
			rv.SetFloat(f)
		}
	case reflect.String:
		var s string
		if s, ok = v.AsString(); ok {
			rv.SetString(s)
		}
	}

	return out, ok
}

// ValuesOf converts a slice of typed Go values into Values, preserving order.
func ValuesOf[T Choosable](vs []T) []Value {
	out := make([]Value, len(vs))
	for i, v := range vs {
		out[i] = ValueOf(v)
	}

	return out
}

//////
// Methods.
//////

// Kind returns the payload tag.
func (v Value) Kind() ValueKind { return v.kind }

// IsValid reports whether v carries a payload.
func (v Value) IsValid() bool {
	return v.kind >= KindBool && v.kind <= KindString
}

// AsBool returns the boolean payload, ok is false for other kinds.
func (v Value) AsBool() (b bool, ok bool) { return v.b, v.kind == KindBool }

// AsInt returns the integer payload, ok is false for other kinds.
func (v Value) AsInt() (i int, ok bool) { return v.i, v.kind == KindInt }

// AsFloat returns the floating-point payload, ok is false for other kinds.
func (v Value) AsFloat() (f float64, ok bool) { return v.f, v.kind == KindFloat }

// AsString returns the text payload, ok is false for other kinds.
func (v Value) AsString() (s string, ok bool) { return v.s, v.kind == KindString }

// Any returns the payload as an interface value, nil for the zero Value.
func (v Value) Any() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindString:
		return v.s
	default:
		return nil
	}
}

// Equal reports whether both values have the same kind and payload. Floats
// compare with ==, so NaN never equals itself.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}

	switch v.kind {
	case KindBool:
		return v.b == other.b
	case KindInt:
		return v.i == other.i
	case KindFloat:
		return v.f == other.f
	case KindString:
		return v.s == other.s
	default:
		return true
	}
}

// String implements fmt.Stringer.
func (v Value) String() string {
	switch v.kind {
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindInt:
		return strconv.Itoa(v.i)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindString:
		return strconv.Quote(v.s)
	default:
		return "<invalid>"
	}
}

// String implements fmt.Stringer.
func (k ValueKind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	default:
		return fmt.Sprintf("ValueKind(%d)", int(k))
	}
}
