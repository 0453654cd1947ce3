// Package pathelement compiles and matches the keys of a sort spec.
//
// Supported key forms:
//
//	name            literal, matches exactly "name"
//	*               matches any key
//	pre*suf, a*b*c  wildcard pattern, every star matches one or more characters
//	&, &1, &(1,2)   reference to a key matched higher up the walk, may be mixed
//	                with literal text as in "tag-&1"
//	@               the current level itself
//
// A backslash escapes the next character, so `a\*` is the literal key "a*".
package pathelement

import (
	"errors"
	"math"

	"github.com/jacoelho/jsort/internal/walk"
)

// ErrInvalidKey is returned when a spec key cannot be compiled.
var ErrInvalidKey = errors.New("invalid spec key")

// Kind classifies a compiled key.
type Kind uint8

const (
	KindLiteral Kind = iota + 1
	KindReference
	KindStar
	KindSelf
)

func (k Kind) String() string {
	switch k {
	case KindLiteral:
		return "literal"
	case KindReference:
		return "reference"
	case KindStar:
		return "star"
	case KindSelf:
		return "self"
	default:
		return "unknown"
	}
}

// computedPriority orders the kinds that are tried when no literal matches;
// lower runs first. Literal and self keys are dispatched structurally.
var computedPriority = map[Kind]int{
	KindReference: 1,
	KindStar:      2,
}

// Priority returns the trial order of a computed kind. Kinds without an
// entry sort last.
func (k Kind) Priority() int {
	if p, ok := computedPriority[k]; ok {
		return p
	}
	return math.MaxInt
}

// PathElement is the compiled form of one spec key.
type PathElement interface {
	Kind() Kind
	// RawKey is the key as written in the spec.
	RawKey() string
	// CanonicalForm identifies keys that match the same input keys.
	CanonicalForm() string
	// Match reports whether key is accepted at the current position of wp.
	Match(key string, wp *walk.Path) (*walk.MatchedElement, bool)
}
