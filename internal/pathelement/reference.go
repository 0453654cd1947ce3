package pathelement

import (
	"strings"

	"github.com/jacoelho/jsort/internal/walk"
)

// reference matches a key equal to text assembled from keys already matched
// on the walk. &(up,group) reads sub key group of the frame up levels above
// the node being matched; up 0 is the parent.
type reference struct {
	rawKey    string
	canonical string
	parts     []part
}

func newReference(rawKey string, parts []part) reference {
	return reference{rawKey: rawKey, canonical: canonical(parts), parts: parts}
}

func (reference) Kind() Kind              { return KindReference }
func (r reference) RawKey() string        { return r.rawKey }
func (r reference) CanonicalForm() string { return r.canonical }
func (r reference) String() string        { return r.canonical }

func (r reference) Match(key string, wp *walk.Path) (*walk.MatchedElement, bool) {
	evaluated, ok := r.evaluate(wp)
	if !ok || evaluated != key {
		return nil, false
	}
	return walk.NewMatchedElement(key), true
}

func (r reference) evaluate(wp *walk.Path) (string, bool) {
	if wp == nil {
		return "", false
	}

	var b strings.Builder
	for _, p := range r.parts {
		if p.kind == partText {
			b.WriteString(p.text)
			continue
		}

		frame, ok := wp.ElementFromEnd(p.up)
		if !ok || frame.Match == nil {
			return "", false
		}
		sub, ok := frame.Match.SubKey(p.group)
		if !ok {
			return "", false
		}
		b.WriteString(sub)
	}
	return b.String(), true
}
