// Package codec reads and writes documents as JSON or YAML while keeping the
// key order of every object.
package codec

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/jacoelho/jsort/internal/value"
)

var (
	// ErrDecode wraps every failure to read a document.
	ErrDecode = errors.New("decode error")
	// ErrUnsupportedFormat is returned for unknown format names.
	ErrUnsupportedFormat = errors.New("unsupported format")
)

// Format names a document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts "json", "yaml" and "yml", case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// FormatFromPath picks YAML for .yaml/.yml files and JSON otherwise.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Decode reads a single document from r.
func Decode(r io.Reader, f Format) (value.Value, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: read: %v", ErrDecode, err)
	}
	return DecodeBytes(data, f)
}

// DecodeBytes decodes a single document held in data.
func DecodeBytes(data []byte, f Format) (value.Value, error) {
	switch f {
	case FormatJSON:
		return decodeJSON(data)
	case FormatYAML:
		return decodeYAML(data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
	}
}

// Encode writes v to w followed by a newline.
func Encode(w io.Writer, v value.Value, f Format) error {
	data, err := EncodeBytes(v, f)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// EncodeBytes renders v; JSON is indented by two spaces. Both formats end
// with a newline.
func EncodeBytes(v value.Value, f Format) ([]byte, error) {
	switch f {
	case FormatJSON:
		return encodeJSON(v)
	case FormatYAML:
		return encodeYAML(v)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
	}
}
