package sortspec

import (
	"slices"

	"github.com/jacoelho/jsort/internal/pathelement"
	"github.com/jacoelho/jsort/internal/value"
	"github.com/jacoelho/jsort/internal/walk"
)

const directionKey = "direction"

// leafNode sorts the list found under its key.
type leafNode struct {
	rawKey      string
	pe          pathelement.PathElement
	sortingSpec []sortKey
	opts        *options
}

func compileLeaf(at, rawKey string, spec *value.Map, opts *options) (*leafNode, error) {
	pe, err := pathelement.Parse(rawKey)
	if err != nil {
		return nil, specError(at, "%v", err)
	}

	sortingSpec, err := parseSortingSpec(at, spec)
	if err != nil {
		return nil, err
	}

	return &leafNode{
		rawKey:      rawKey,
		pe:          pe,
		sortingSpec: sortingSpec,
		opts:        opts,
	}, nil
}

func (l *leafNode) pathElement() pathelement.PathElement {
	return l.pe
}

func (l *leafNode) apply(key string, in value.Value, wp *walk.Path, parent value.Container) (bool, error) {
	m, ok := l.pe.Match(key, wp)
	if !ok {
		return false, nil
	}

	_, err := l.performSort(key, in, wp, parent, m)
	return true, err
}

// applyAsSpecialChild is used for "@" children. It returns the value now
// stored under key: the sorted list, or null when nothing was sorted.
func (l *leafNode) applyAsSpecialChild(key string, in value.Value, wp *walk.Path, parent value.Container) (value.Value, error) {
	m, ok := l.pe.Match(key, wp)
	if !ok {
		return value.Null{}, nil
	}
	return l.performSort(key, in, wp, parent, m)
}

// performSort writes the sorted copy of in back into parent under key. Lists
// shorter than two elements are written back as null unless short lists are
// preserved. A nil parent means in is the document root, which is sorted in
// place instead.
func (l *leafNode) performSort(key string, in value.Value, wp *walk.Path, parent value.Container, m *walk.MatchedElement) (value.Value, error) {
	wp.Push(in, m)
	defer wp.Pop()

	list, ok := in.(*value.List)
	if !ok {
		return value.Null{}, nil
	}

	var result value.Value = value.Null{}
	if list.Len() > 1 {
		sorted, err := l.sortList(list)
		if err != nil {
			return nil, transformError(wp.String(), err)
		}
		result = sorted
	} else if l.opts.preserveShortLists {
		result = list
	}

	if parent == nil {
		if sorted, ok := result.(*value.List); ok {
			list.Items = sorted.Items
		}
		return list, nil
	}

	if err := parent.Put(key, result); err != nil {
		return nil, transformError(wp.String(), err)
	}
	return result, nil
}

func (l *leafNode) sortList(list *value.List) (*value.List, error) {
	items := slices.Clone(list.Items)

	compare := value.Compare
	if _, structured := items[0].(*value.Map); structured {
		compare = l.compareElements
	}

	var sortErr error
	slices.SortStableFunc(items, func(a, b value.Value) int {
		if sortErr != nil {
			return 0
		}
		c, err := compare(a, b)
		if err != nil {
			sortErr = err
			return 0
		}
		return c
	})
	if sortErr != nil {
		return nil, sortErr
	}

	return value.NewList(items...), nil
}
