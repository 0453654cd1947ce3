// Package walk records the ancestry of a parallel walk over a spec tree and a
// document: one frame per matched level, newest last.
package walk

import (
	"slices"
	"strings"

	"github.com/jacoelho/jsort/internal/value"
)

// MatchedElement is the outcome of a path element accepting an input key.
// Sub key 0 is the key itself; further sub keys are the substrings captured
// by wildcards, in order.
type MatchedElement struct {
	rawKey   string
	captures []string
}

// NewMatchedElement records key with the substrings its wildcards captured.
func NewMatchedElement(key string, captures ...string) *MatchedElement {
	return &MatchedElement{rawKey: key, captures: captures}
}

func (m *MatchedElement) RawKey() string {
	return m.rawKey
}

func (m *MatchedElement) SubKey(group int) (string, bool) {
	if group == 0 {
		return m.rawKey, true
	}
	if group < 0 || group > len(m.captures) {
		return "", false
	}
	return m.captures[group-1], true
}

func (m *MatchedElement) SubKeyCount() int {
	return len(m.captures) + 1
}

// Frame pairs the input value seen at a level with how its key matched.
type Frame struct {
	Value value.Value
	Match *MatchedElement
}

// Path is the stack of frames from the document root to the current level.
type Path struct {
	frames []Frame
}

// New returns an empty Path.
func New() *Path {
	return &Path{}
}

// NewWithCapacity reduces allocations when the spec depth is known.
func NewWithCapacity(capacity int) *Path {
	return &Path{frames: make([]Frame, 0, capacity)}
}

func (p *Path) Push(v value.Value, m *MatchedElement) {
	p.frames = append(p.frames, Frame{Value: v, Match: m})
}

func (p *Path) Pop() (Frame, bool) {
	if len(p.frames) == 0 {
		return Frame{}, false
	}

	index := len(p.frames) - 1
	frame := p.frames[index]
	p.frames[index] = Frame{}
	p.frames = p.frames[:index]
	return frame, true
}

// ElementFromEnd returns the frame up levels below the newest one;
// ElementFromEnd(0) is the newest frame.
func (p *Path) ElementFromEnd(up int) (Frame, bool) {
	index := len(p.frames) - 1 - up
	if up < 0 || index < 0 {
		return Frame{}, false
	}
	return p.frames[index], true
}

func (p *Path) Size() int {
	return len(p.frames)
}

// Frames orders from the oldest to the newest frame.
func (p *Path) Frames() []Frame {
	return slices.Clone(p.frames)
}

// String joins the matched keys with dots, e.g. "root.items.0".
func (p *Path) String() string {
	keys := make([]string, len(p.frames))
	for i, frame := range p.frames {
		if frame.Match != nil {
			keys[i] = frame.Match.RawKey()
		}
	}
	return strings.Join(keys, ".")
}
