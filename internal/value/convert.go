package value

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"math"
	"slices"
	"strconv"
)

// ErrUnsupportedType is returned by FromAny for Go values with no JSON form.
var ErrUnsupportedType = errors.New("unsupported type")

// FromAny converts decoded Go data (map[string]any, []any and scalars) into a
// Value. Go maps carry no order, so their keys are sorted.
func FromAny(in any) (Value, error) {
	switch current := in.(type) {
	case nil:
		return Null{}, nil
	case Value:
		return current, nil
	case map[string]any:
		m := NewMap()
		for _, key := range slices.Sorted(maps.Keys(current)) {
			v, err := FromAny(current[key])
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", key, err)
			}
			m.Set(key, v)
		}
		return m, nil
	case []any:
		items := make([]Value, len(current))
		for i, item := range current {
			v, err := FromAny(item)
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}
			items[i] = v
		}
		return NewList(items...), nil
	case string:
		return String(current), nil
	case bool:
		return Bool(current), nil
	case json.Number:
		return Number(current.String()), nil
	case int:
		return Number(strconv.Itoa(current)), nil
	case int64:
		return Number(strconv.FormatInt(current, 10)), nil
	case uint64:
		return Number(strconv.FormatUint(current, 10)), nil
	case float64:
		return FromFloat(current)
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedType, in)
	}
}

// FromFloat rejects NaN and infinities, which JSON cannot represent.
func FromFloat(f float64) (Value, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("%w: non-finite number %v", ErrUnsupportedType, f)
	}
	return Number(strconv.FormatFloat(f, 'g', -1, 64)), nil
}

// ToAny converts a Value into plain Go data. Integral numbers become int64,
// other numbers float64.
func ToAny(v Value) any {
	switch current := v.(type) {
	case *Map:
		out := make(map[string]any, current.Len())
		for _, member := range current.members {
			out[member.Key] = ToAny(member.Value)
		}
		return out
	case *List:
		out := make([]any, len(current.Items))
		for i, item := range current.Items {
			out[i] = ToAny(item)
		}
		return out
	case String:
		return string(current)
	case Bool:
		return bool(current)
	case Number:
		if i, ok := current.Int64(); ok {
			return i
		}
		f, err := current.Float64()
		if err != nil {
			return string(current)
		}
		return f
	default:
		return nil
	}
}
