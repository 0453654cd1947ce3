package sortspec

import (
	"cmp"
	"slices"
	"strconv"

	"github.com/jacoelho/jsort/internal/pathelement"
	"github.com/jacoelho/jsort/internal/value"
	"github.com/jacoelho/jsort/internal/walk"
)

const sortByKey = "sortBy"

// node is one compiled spec entry.
type node interface {
	pathElement() pathelement.PathElement
	// apply reports whether the node consumed key; siblings must not be
	// offered a consumed key.
	apply(key string, in value.Value, wp *walk.Path, parent value.Container) (bool, error)
}

// compositeNode continues the walk one level down into its children.
type compositeNode struct {
	rawKey string
	pe     pathelement.PathElement

	// exact key -> child
	literalChildren map[string]node
	// wildcard and reference children, in trial order
	computedChildren []node
	// the "@" child, sorting this level's own value
	specialChild *leafNode
}

func compileComposite(at, rawKey string, spec *value.Map, opts *options) (*compositeNode, error) {
	pe, err := pathelement.Parse(rawKey)
	if err != nil {
		return nil, specError(at, "%v", err)
	}
	if pe.Kind() == pathelement.KindSelf {
		return nil, specError(at, "@ key can not have children")
	}

	children, err := compileChildren(at, spec, opts)
	if err != nil {
		return nil, err
	}
	if len(children) == 0 {
		return nil, specError(at, "spec line with empty {} as value is not valid")
	}

	c := &compositeNode{
		rawKey:          rawKey,
		pe:              pe,
		literalChildren: make(map[string]node),
	}

	for _, child := range children {
		childPE := child.pathElement()
		switch childPE.Kind() {
		case pathelement.KindLiteral:
			text, _ := pathelement.LiteralText(childPE)
			c.literalChildren[text] = child
		case pathelement.KindSelf:
			leaf, ok := child.(*leafNode)
			if !ok {
				return nil, specError(at, "@ key can not have children")
			}
			if c.specialChild != nil {
				return nil, specError(at, "more than one @ key")
			}
			c.specialChild = leaf
		default:
			c.computedChildren = append(c.computedChildren, child)
		}
	}

	slices.SortStableFunc(c.computedChildren, func(a, b node) int {
		return cmp.Compare(a.pathElement().Kind().Priority(), b.pathElement().Kind().Priority())
	})

	return c, nil
}

// compileChildren compiles every mapping valued entry of spec in order.
// Entries whose value is not a mapping are skipped.
func compileChildren(at string, spec *value.Map, opts *options) ([]node, error) {
	var children []node
	seen := make(map[string]string)

	for _, member := range spec.Members() {
		childSpec, ok := member.Value.(*value.Map)
		if !ok {
			continue
		}

		childAt := at + "." + member.Key
		var child node
		var err error
		if childSpec.Has(sortByKey) {
			child, err = compileLeaf(childAt, member.Key, childSpec, opts)
		} else {
			child, err = compileComposite(childAt, member.Key, childSpec, opts)
		}
		if err != nil {
			return nil, err
		}

		canonicalForm := child.pathElement().CanonicalForm()
		if prev, dup := seen[canonicalForm]; dup {
			return nil, specError(at, "duplicate canonical key %q (from %q and %q)", canonicalForm, prev, member.Key)
		}
		seen[canonicalForm] = member.Key

		children = append(children, child)
	}

	return children, nil
}

func (c *compositeNode) pathElement() pathelement.PathElement {
	return c.pe
}

func (c *compositeNode) apply(key string, in value.Value, wp *walk.Path, parent value.Container) (bool, error) {
	m, ok := c.pe.Match(key, wp)
	if !ok {
		return false, nil
	}

	wp.Push(in, m)
	defer wp.Pop()

	// The "@" child may replace the value seen by the other children with
	// its sorted copy.
	if c.specialChild != nil {
		out, err := c.specialChild.applyAsSpecialChild(key, in, wp, parent)
		if err != nil {
			return true, err
		}
		in = out
	}

	return true, c.dispatchChildren(in, wp)
}

// dispatchChildren offers each key of the level below in to the children.
// Entries are snapshotted first because sorting replaces them in place.
func (c *compositeNode) dispatchChildren(in value.Value, wp *walk.Path) error {
	switch current := in.(type) {
	case *value.Map:
		for _, member := range current.Members() {
			if err := c.resolveKey(member.Key, member.Value, wp, current); err != nil {
				return err
			}
		}
	case *value.List:
		for i, item := range slices.Clone(current.Items) {
			if err := c.resolveKey(strconv.Itoa(i), item, wp, current); err != nil {
				return err
			}
		}
	case value.String, value.Number, value.Bool:
		text, _ := value.Text(current)
		return c.resolveKey(text, value.String(text), wp, nil)
	case value.Null, nil:
	}
	return nil
}

// resolveKey hands key to the literal child with that exact key or, failing
// that, to the first computed child that accepts it.
func (c *compositeNode) resolveKey(key string, in value.Value, wp *walk.Path, parent value.Container) error {
	if child, ok := c.literalChildren[key]; ok {
		_, err := child.apply(key, in, wp, parent)
		return err
	}

	for _, child := range c.computedChildren {
		handled, err := child.apply(key, in, wp, parent)
		if err != nil {
			return err
		}
		if handled {
			return nil
		}
	}
	return nil
}
