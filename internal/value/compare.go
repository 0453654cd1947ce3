package value

import (
	"cmp"
	"errors"
	"fmt"
	"strings"
)

// ErrIncomparable is returned when two values have no natural order.
var ErrIncomparable = errors.New("values are not comparable")

// Compare orders two scalars of the same kind: numbers numerically, strings
// by bytes, booleans false before true. Any other pairing fails.
func Compare(a, b Value) (int, error) {
	switch x := a.(type) {
	case Number:
		if y, ok := b.(Number); ok {
			return compareNumbers(x, y)
		}
	case String:
		if y, ok := b.(String); ok {
			return strings.Compare(string(x), string(y)), nil
		}
	case Bool:
		if y, ok := b.(Bool); ok {
			return compareBools(bool(x), bool(y)), nil
		}
	}

	return 0, fmt.Errorf("%w: %s and %s", ErrIncomparable, kindOf(a), kindOf(b))
}

func compareNumbers(a, b Number) (int, error) {
	if x, ok := a.Int64(); ok {
		if y, ok := b.Int64(); ok {
			return cmp.Compare(x, y), nil
		}
	}

	x, err := a.Float64()
	if err != nil {
		return 0, fmt.Errorf("%w: malformed number %q", ErrIncomparable, string(a))
	}
	y, err := b.Float64()
	if err != nil {
		return 0, fmt.Errorf("%w: malformed number %q", ErrIncomparable, string(b))
	}
	return cmp.Compare(x, y), nil
}

func compareBools(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	default:
		return 1
	}
}

func kindOf(v Value) Kind {
	if v == nil {
		return KindNull
	}
	return v.Kind()
}
