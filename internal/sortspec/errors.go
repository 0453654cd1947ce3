package sortspec

import (
	"errors"
	"fmt"
)

var (
	// ErrSpec reports a malformed sort spec. It is only returned by New.
	ErrSpec = errors.New("invalid sort spec")
	// ErrTransform aborts a single Apply call; the Transform stays usable.
	ErrTransform = errors.New("sort transform failed")
)

func specError(at, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", ErrSpec, at, fmt.Sprintf(format, args...))
}

func transformError(at string, err error) error {
	return fmt.Errorf("%w: at %s: %w", ErrTransform, at, err)
}
