// Package value defines the runtime values held by script variables.
package value

import (
	"fmt"
	"strconv"
)

// Kind identifies which payload a Value carries.
type Kind uint8

const (
	// KindNone marks a value that has not been computed yet.
	KindNone Kind = iota
	KindInt
	KindFloat
	KindBool
	KindString
	KindObject
)

// String returns the lower-case name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	case KindObject:
		return "object"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// ObjectRef is a reference to a script object.
// A zero ID is the null reference of the given type.
type ObjectRef struct {
	Type string
	ID   uint64
}

// IsNull reports whether the reference points at nothing.
func (r ObjectRef) IsNull() bool {
	return r.ID == 0
}

// Value is a tagged union over the script runtime types.
// The zero Value is None.
type Value struct {
	kind Kind
	i    int32
	f    float32
	b    bool
	s    string
	obj  ObjectRef
}

// None returns the uncomputed value.
func None() Value {
	return Value{}
}

// Int returns an integer value.
func Int(i int32) Value {
	return Value{kind: KindInt, i: i}
}

// Float returns a floating-point value.
func Float(f float32) Value {
	return Value{kind: KindFloat, f: f}
}

// Bool returns a boolean value.
func Bool(b bool) Value {
	return Value{kind: KindBool, b: b}
}

// String returns a string value.
func String(s string) Value {
	return Value{kind: KindString, s: s}
}

// Object returns an object reference value.
func Object(ref ObjectRef) Value {
	return Value{kind: KindObject, obj: ref}
}

// NullObject returns the null reference of the given object type.
func NullObject(typeName string) Value {
	return Object(ObjectRef{Type: typeName})
}

// Kind returns the kind tag.
func (v Value) Kind() Kind {
	return v.kind
}

// IsNone reports whether v is the uncomputed value.
func (v Value) IsNone() bool {
	return v.kind == KindNone
}

// AsInt returns the integer payload and whether v is an integer.
func (v Value) AsInt() (int32, bool) {
	return v.i, v.kind == KindInt
}

// AsFloat returns the floating-point payload and whether v is a float.
func (v Value) AsFloat() (float32, bool) {
	return v.f, v.kind == KindFloat
}

// AsBool returns the boolean payload and whether v is a boolean.
func (v Value) AsBool() (bool, bool) {
	return v.b, v.kind == KindBool
}

// AsString returns the string payload and whether v is a string.
func (v Value) AsString() (string, bool) {
	return v.s, v.kind == KindString
}

// AsObject returns the object reference and whether v is an object.
func (v Value) AsObject() (ObjectRef, bool) {
	return v.obj, v.kind == KindObject
}

// Equal reports whether v and other have the same kind and payload.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNone:
		return true
	case KindInt:
		return v.i == other.i
	case KindFloat:
		return v.f == other.f
	case KindBool:
		return v.b == other.b
	case KindString:
		return v.s == other.s
	case KindObject:
		return v.obj == other.obj
	}
	return false
}

// String renders v for diagnostics.
func (v Value) String() string {
	switch v.kind {
	case KindInt:
		return strconv.FormatInt(int64(v.i), 10)
	case KindFloat:
		return strconv.FormatFloat(float64(v.f), 'g', -1, 32)
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindString:
		return strconv.Quote(v.s)
	case KindObject:
		return fmt.Sprintf("%s#%d", v.obj.Type, v.obj.ID)
	default:
		return "none"
	}
}
