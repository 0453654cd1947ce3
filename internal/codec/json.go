package codec

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	json "github.com/goccy/go-json"

	"github.com/jacoelho/jsort/internal/value"
)

func decodeJSON(data []byte) (value.Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty JSON document", ErrDecode)
		}
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	v, err := jsonValue(dec, tok)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: unexpected data after top-level value", ErrDecode)
	}
	return v, nil
}

func jsonValue(dec *json.Decoder, tok any) (value.Value, error) {
	switch current := tok.(type) {
	case json.Delim:
		switch current {
		case '{':
			return jsonObject(dec)
		case '[':
			return jsonArray(dec)
		default:
			return nil, fmt.Errorf("unexpected delimiter %q", rune(current))
		}
	case string:
		return value.String(current), nil
	case json.Number:
		return value.Number(current.String()), nil
	case float64:
		return value.FromFloat(current)
	case bool:
		return value.Bool(current), nil
	case nil:
		return value.Null{}, nil
	default:
		return nil, fmt.Errorf("unexpected token %T", tok)
	}
}

func jsonObject(dec *json.Decoder) (value.Value, error) {
	obj := value.NewMap()
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		if d, ok := tok.(json.Delim); ok && d == '}' {
			return obj, nil
		}

		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("object key must be a string, got %T", tok)
		}

		valueTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		v, err := jsonValue(dec, valueTok)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", key, err)
		}
		obj.Set(key, v)
	}
}

func jsonArray(dec *json.Decoder) (value.Value, error) {
	arr := value.NewList()
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		if d, ok := tok.(json.Delim); ok && d == ']' {
			return arr, nil
		}

		v, err := jsonValue(dec, tok)
		if err != nil {
			return nil, fmt.Errorf("index %d: %w", arr.Len(), err)
		}
		arr.Items = append(arr.Items, v)
	}
}

func encodeJSON(v value.Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeJSON(&buf, v, 0); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

func writeJSON(buf *bytes.Buffer, v value.Value, depth int) error {
	switch current := v.(type) {
	case *value.Map:
		if current.Len() == 0 {
			buf.WriteString("{}")
			return nil
		}
		buf.WriteByte('{')
		for i, member := range current.Members() {
			if i > 0 {
				buf.WriteByte(',')
			}
			newline(buf, depth+1)
			if err := writeJSONString(buf, member.Key); err != nil {
				return err
			}
			buf.WriteString(": ")
			if err := writeJSON(buf, member.Value, depth+1); err != nil {
				return err
			}
		}
		newline(buf, depth)
		buf.WriteByte('}')
	case *value.List:
		if current.Len() == 0 {
			buf.WriteString("[]")
			return nil
		}
		buf.WriteByte('[')
		for i, item := range current.Items {
			if i > 0 {
				buf.WriteByte(',')
			}
			newline(buf, depth+1)
			if err := writeJSON(buf, item, depth+1); err != nil {
				return err
			}
		}
		newline(buf, depth)
		buf.WriteByte(']')
	case value.String:
		return writeJSONString(buf, string(current))
	case value.Number:
		if !json.Valid([]byte(current)) {
			return fmt.Errorf("invalid JSON number %q", string(current))
		}
		buf.WriteString(string(current))
	case value.Bool:
		if current {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case value.Null, nil:
		buf.WriteString("null")
	default:
		return fmt.Errorf("cannot encode %T as JSON", v)
	}
	return nil
}

func writeJSONString(buf *bytes.Buffer, s string) error {
	encoded, err := json.MarshalWithOption(s, json.DisableHTMLEscape())
	if err != nil {
		return err
	}
	buf.Write(encoded)
	return nil
}

func newline(buf *bytes.Buffer, depth int) {
	buf.WriteByte('\n')
	for range depth {
		buf.WriteString("  ")
	}
}
