package runner

import (
	"fmt"

	"github.com/jacoelho/jsort/internal/codec"
	"github.com/jacoelho/jsort/internal/value"
)

// project encodes the nodes selected from doc as a list. Mapping keys come
// out in lexical order since the selection works on plain Go maps.
func (r *Runner) project(doc value.Value, format codec.Format) ([]byte, error) {
	nodes := r.selector.Select(value.ToAny(doc))

	selected, err := value.FromAny([]any(nodes))
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", r.config.Select, err)
	}
	return codec.EncodeBytes(selected, format)
}
