package codec

import (
	"fmt"
	"strconv"

	"github.com/goccy/go-yaml"

	"github.com/jacoelho/jsort/internal/value"
)

func decodeYAML(data []byte) (value.Value, error) {
	var raw any
	if err := yaml.UnmarshalWithOptions(data, &raw, yaml.UseOrderedMap()); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	v, err := fromYAML(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return v, nil
}

// fromYAML converts the decoder output; integers arrive as int64 or uint64
// depending on sign and every mapping as a yaml.MapSlice.
func fromYAML(raw any) (value.Value, error) {
	switch current := raw.(type) {
	case yaml.MapSlice:
		m := value.NewMap()
		for _, item := range current {
			key, err := yamlKey(item.Key)
			if err != nil {
				return nil, err
			}
			v, err := fromYAML(item.Value)
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", key, err)
			}
			m.Set(key, v)
		}
		return m, nil
	case []any:
		items := make([]value.Value, len(current))
		for i, item := range current {
			v, err := fromYAML(item)
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}
			items[i] = v
		}
		return value.NewList(items...), nil
	case float32:
		return value.FromFloat(float64(current))
	case uint64:
		return value.Number(strconv.FormatUint(current, 10)), nil
	case int64, int, float64, string, bool, nil:
		return value.FromAny(current)
	default:
		return nil, fmt.Errorf("unsupported YAML value of type %T", raw)
	}
}

func yamlKey(raw any) (string, error) {
	switch current := raw.(type) {
	case string:
		return current, nil
	case nil:
		return "null", nil
	case yaml.MapSlice, []any:
		return "", fmt.Errorf("mapping keys must be scalars, got %T", raw)
	default:
		return fmt.Sprint(current), nil
	}
}

func encodeYAML(v value.Value) ([]byte, error) {
	data, err := yaml.Marshal(toYAML(v))
	if err != nil {
		return nil, fmt.Errorf("encode YAML: %w", err)
	}
	return data, nil
}

func toYAML(v value.Value) any {
	switch current := v.(type) {
	case *value.Map:
		out := make(yaml.MapSlice, 0, current.Len())
		for _, member := range current.Members() {
			out = append(out, yaml.MapItem{Key: member.Key, Value: toYAML(member.Value)})
		}
		return out
	case *value.List:
		out := make([]any, len(current.Items))
		for i, item := range current.Items {
			out[i] = toYAML(item)
		}
		return out
	case value.Number:
		if u, err := strconv.ParseUint(string(current), 10, 64); err == nil {
			return u
		}
		return value.ToAny(current)
	default:
		return value.ToAny(v)
	}
}
