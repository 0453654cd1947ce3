// Package value models JSON-compatible documents as a closed set of types.
//
// A Value is exactly one of *Map, *List, String, Number, Bool or Null.
// Containers are pointers so that entries can be replaced in place; scalars
// are plain values.
package value

import (
	"strconv"
)

// Kind identifies the concrete type behind a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindList
	KindMap
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindList:
		return "array"
	case KindMap:
		return "object"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Value is implemented only by the types of this package.
type Value interface {
	Kind() Kind
	isValue()
}

// Container is a Value whose entries can be replaced by key.
type Container interface {
	Value
	Put(key string, v Value) error
}

type (
	// Null is the JSON null and also stands for an absent value.
	Null struct{}
	// Bool is a JSON boolean.
	Bool bool
	// String is a JSON string.
	String string
	// Number keeps the textual form of a JSON number.
	Number string
)

func (Null) Kind() Kind   { return KindNull }
func (Bool) Kind() Kind   { return KindBool }
func (String) Kind() Kind { return KindString }
func (Number) Kind() Kind { return KindNumber }

func (Null) isValue()   {}
func (Bool) isValue()   {}
func (String) isValue() {}
func (Number) isValue() {}

// Int64 reports the number as an int64 when it is integral and in range.
func (n Number) Int64() (int64, bool) {
	i, err := strconv.ParseInt(string(n), 10, 64)
	return i, err == nil
}

// Float64 parses the number as a float64.
func (n Number) Float64() (float64, error) {
	return strconv.ParseFloat(string(n), 64)
}

// IsNull reports whether v is absent or null.
func IsNull(v Value) bool {
	if v == nil {
		return true
	}
	_, ok := v.(Null)
	return ok
}

// Text returns the string form of a scalar, as used for synthetic keys.
// Containers and null have no text form.
func Text(v Value) (string, bool) {
	switch current := v.(type) {
	case String:
		return string(current), true
	case Number:
		return string(current), true
	case Bool:
		return strconv.FormatBool(bool(current)), true
	default:
		return "", false
	}
}

// Equal reports deep equality. Map key order is significant.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return IsNull(a) && IsNull(b)
	}

	switch x := a.(type) {
	case *Map:
		y, ok := b.(*Map)
		return ok && x.Equal(y)
	case *List:
		y, ok := b.(*List)
		return ok && x.Equal(y)
	case Null:
		return IsNull(b)
	case Number:
		y, ok := b.(Number)
		if !ok {
			return false
		}
		c, err := compareNumbers(x, y)
		return err == nil && c == 0
	default:
		return a == b
	}
}
