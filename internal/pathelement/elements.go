package pathelement

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/jacoelho/jsort/internal/walk"
)

type literal struct {
	rawKey    string
	text      string
	canonical string
}

func newLiteral(rawKey string, parts []part) literal {
	var text strings.Builder
	for _, p := range parts {
		text.WriteString(p.text)
	}
	return literal{rawKey: rawKey, text: text.String(), canonical: canonical(parts)}
}

func (literal) Kind() Kind              { return KindLiteral }
func (l literal) RawKey() string        { return l.rawKey }
func (l literal) CanonicalForm() string { return l.canonical }
func (l literal) String() string        { return l.canonical }

func (l literal) Match(key string, _ *walk.Path) (*walk.MatchedElement, bool) {
	if key != l.text {
		return nil, false
	}
	return walk.NewMatchedElement(key), true
}

// LiteralText returns the exact key matched by a literal element.
func LiteralText(pe PathElement) (string, bool) {
	l, ok := pe.(literal)
	if !ok {
		return "", false
	}
	return l.text, true
}

// star matches with either a prefix/suffix check for a single star or a
// compiled pattern for several.
type star struct {
	rawKey    string
	canonical string
	all       bool
	prefix    string
	suffix    string
	pattern   *regexp.Regexp
}

func newStar(rawKey string, parts []part) (star, error) {
	s := star{rawKey: rawKey, canonical: canonical(parts)}

	if len(parts) == 1 {
		s.all = true
		return s, nil
	}

	var stars int
	for _, p := range parts {
		if p.kind == partStar {
			stars++
		}
	}

	if stars == 1 {
		for i, p := range parts {
			if p.kind != partText {
				continue
			}
			if i == 0 {
				s.prefix = p.text
			} else {
				s.suffix = p.text
			}
		}
		return s, nil
	}

	var expr strings.Builder
	expr.WriteByte('^')
	for _, p := range parts {
		if p.kind == partStar {
			expr.WriteString("(.+?)")
			continue
		}
		expr.WriteString(regexp.QuoteMeta(p.text))
	}
	expr.WriteByte('$')

	pattern, err := regexp.Compile(expr.String())
	if err != nil {
		return star{}, fmt.Errorf("%w: %q: %v", ErrInvalidKey, rawKey, err)
	}
	s.pattern = pattern
	return s, nil
}

func (star) Kind() Kind              { return KindStar }
func (s star) RawKey() string        { return s.rawKey }
func (s star) CanonicalForm() string { return s.canonical }
func (s star) String() string        { return s.canonical }

func (s star) Match(key string, _ *walk.Path) (*walk.MatchedElement, bool) {
	switch {
	case s.all:
		return walk.NewMatchedElement(key, key), true
	case s.pattern != nil:
		groups := s.pattern.FindStringSubmatch(key)
		if groups == nil {
			return nil, false
		}
		return walk.NewMatchedElement(key, groups[1:]...), true
	}

	if len(key) <= len(s.prefix)+len(s.suffix) {
		return nil, false
	}
	if !strings.HasPrefix(key, s.prefix) || !strings.HasSuffix(key, s.suffix) {
		return nil, false
	}
	return walk.NewMatchedElement(key, key[len(s.prefix):len(key)-len(s.suffix)]), true
}

// self is the "@" key: it always matches and names the current level.
type self struct{}

func (self) Kind() Kind            { return KindSelf }
func (self) RawKey() string        { return "@" }
func (self) CanonicalForm() string { return "@" }
func (self) String() string        { return "@" }

func (self) Match(key string, _ *walk.Path) (*walk.MatchedElement, bool) {
	return walk.NewMatchedElement(key), true
}
