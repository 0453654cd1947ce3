package sortspec

import (
	"fmt"
	"strings"

	"github.com/jacoelho/jsort/internal/value"
)

// Direction is the order applied to one sort key.
type Direction uint8

const (
	Ascending Direction = iota
	Descending
)

func (d Direction) String() string {
	if d == Descending {
		return "desc"
	}
	return "asc"
}

// parseDirection treats everything except "desc" as ascending.
func parseDirection(s string) Direction {
	if s == "desc" {
		return Descending
	}
	return Ascending
}

type sortKey struct {
	path      string
	segments  []string
	direction Direction
}

// parseSortingSpec zips sortBy with direction by position. Directions
// missing at the tail default to ascending.
func parseSortingSpec(at string, spec *value.Map) ([]sortKey, error) {
	sortBy, err := stringList(at, spec, sortByKey)
	if err != nil {
		return nil, err
	}
	directions, err := stringList(at, spec, directionKey)
	if err != nil {
		return nil, err
	}

	keys := make([]sortKey, 0, len(sortBy))
	for i, path := range sortBy {
		direction := Ascending
		if i < len(directions) {
			direction = parseDirection(directions[i])
		}
		keys = append(keys, sortKey{
			path:      path,
			segments:  strings.Split(path, "."),
			direction: direction,
		})
	}
	return keys, nil
}

// stringList reads a string or a list of strings. Any other value, including
// absent and null, reads as empty; only non-string list elements are errors.
func stringList(at string, spec *value.Map, field string) ([]string, error) {
	raw, ok := spec.Get(field)
	if !ok {
		return nil, nil
	}

	switch current := raw.(type) {
	case value.String:
		return []string{string(current)}, nil
	case *value.List:
		out := make([]string, 0, current.Len())
		for i, item := range current.Items {
			s, ok := item.(value.String)
			if !ok {
				return nil, specError(at, "%s[%d] must be a string, got %s", field, i, item.Kind())
			}
			out = append(out, string(s))
		}
		return out, nil
	default:
		return nil, nil
	}
}

// compareElements orders two list elements by the sort keys in turn. An
// element missing a key sorts before the other one, even when the other is
// missing it as well.
func (l *leafNode) compareElements(a, b value.Value) (int, error) {
	objA, ok := a.(*value.Map)
	if !ok {
		return 0, fmt.Errorf("%w: cannot sort %s among objects", value.ErrIncomparable, a.Kind())
	}
	objB, ok := b.(*value.Map)
	if !ok {
		return 0, fmt.Errorf("%w: cannot sort %s among objects", value.ErrIncomparable, b.Kind())
	}

	for _, key := range l.sortingSpec {
		sign := 1
		if key.direction == Descending {
			sign = -1
		}

		v1, err := key.resolve(objA)
		if err != nil {
			return 0, err
		}
		v2, err := key.resolve(objB)
		if err != nil {
			return 0, err
		}

		if v1 == nil {
			return -sign, nil
		}
		if v2 == nil {
			return sign, nil
		}
		c, err := value.Compare(v1, v2)
		if err != nil {
			return 0, fmt.Errorf("sortBy %q: %w", key.path, err)
		}
		if c != 0 {
			return sign * c, nil
		}
	}
	return 0, nil
}

// resolve follows the dotted path through nested objects. A missing key, a
// null, or a non-object on the way all resolve to nil; a container at the end
// of the path cannot be compared.
func (k sortKey) resolve(obj *value.Map) (value.Value, error) {
	current := obj
	for i, segment := range k.segments {
		v, ok := current.Get(segment)
		if !ok || value.IsNull(v) {
			return nil, nil
		}
		if i == len(k.segments)-1 {
			switch v.(type) {
			case *value.Map, *value.List:
				return nil, fmt.Errorf("%w: sortBy %q expects a primitive value, got %s", value.ErrIncomparable, k.path, v.Kind())
			}
			return v, nil
		}
		next, ok := v.(*value.Map)
		if !ok {
			return nil, nil
		}
		current = next
	}
	return nil, nil
}
