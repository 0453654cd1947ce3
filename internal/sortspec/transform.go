// Package sortspec compiles sort specs and applies them to documents.
//
// A spec mirrors the shape of the documents it sorts. Each key selects
// entries of the document at the same level (see package pathelement for the
// key syntax); a mapping holding "sortBy" marks the list to sort:
//
//	{
//	  "departments": {
//	    "*": {
//	      "staff": {"sortBy": ["team", "age"], "direction": ["asc", "desc"]}
//	    }
//	  }
//	}
//
// A compiled Transform is immutable and may be shared by goroutines as long
// as each document is only handed to one Apply call at a time.
package sortspec

import (
	"github.com/jacoelho/jsort/internal/value"
	"github.com/jacoelho/jsort/internal/walk"
)

// RootKey is the key under which the document root is walked.
const RootKey = "root"

// Transform is a compiled sort spec.
type Transform struct {
	root *compositeNode
}

// New compiles spec, which must be a mapping.
func New(spec value.Value, opts ...Option) (*Transform, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	m, ok := spec.(*value.Map)
	if !ok {
		kind := value.KindNull
		if spec != nil {
			kind = spec.Kind()
		}
		return nil, specError(RootKey, "expected a spec of object type, got %s", kind)
	}

	root, err := compileComposite(RootKey, RootKey, m, o)
	if err != nil {
		return nil, err
	}
	return &Transform{root: root}, nil
}

// Apply sorts doc in place and returns it. Lists below the root are replaced
// by sorted copies; a list at the root is reordered in place.
func (t *Transform) Apply(doc value.Value) (value.Value, error) {
	wp := walk.New()
	if _, err := t.root.apply(RootKey, doc, wp, nil); err != nil {
		return nil, err
	}
	return doc, nil
}
