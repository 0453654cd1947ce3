package pathelement

import (
	"fmt"
	"strconv"
	"strings"
)

type partKind uint8

const (
	partText partKind = iota
	partStar
	partRef
)

type part struct {
	kind  partKind
	text  string
	up    int
	group int
}

// Parse compiles a spec key.
func Parse(key string) (PathElement, error) {
	if key == "@" {
		return self{}, nil
	}

	parts, err := tokenize(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidKey, key, err)
	}

	var stars, refs int
	for _, p := range parts {
		switch p.kind {
		case partStar:
			stars++
		case partRef:
			refs++
		}
	}

	switch {
	case stars > 0 && refs > 0:
		return nil, fmt.Errorf("%w: %q: cannot mix * and & in one key", ErrInvalidKey, key)
	case stars > 0:
		return newStar(key, parts)
	case refs > 0:
		return newReference(key, parts), nil
	default:
		return newLiteral(key, parts), nil
	}
}

// MustParse is like Parse but panics on error.
func MustParse(key string) PathElement {
	pe, err := Parse(key)
	if err != nil {
		panic(err)
	}
	return pe
}

func tokenize(key string) ([]part, error) {
	var (
		parts []part
		text  strings.Builder
	)

	flush := func() {
		if text.Len() > 0 {
			parts = append(parts, part{kind: partText, text: text.String()})
			text.Reset()
		}
	}

	for i := 0; i < len(key); i++ {
		switch c := key[i]; c {
		case '\\':
			if i+1 == len(key) {
				return nil, fmt.Errorf("dangling escape at offset %d", i)
			}
			i++
			text.WriteByte(key[i])
		case '*':
			flush()
			if n := len(parts); n > 0 && parts[n-1].kind == partStar {
				return nil, fmt.Errorf("consecutive * at offset %d", i)
			}
			parts = append(parts, part{kind: partStar})
		case '&':
			flush()
			ref, next, err := parseReference(key, i+1)
			if err != nil {
				return nil, err
			}
			parts = append(parts, ref)
			i = next - 1
		case '@':
			return nil, fmt.Errorf("@ is only valid as a whole key")
		default:
			text.WriteByte(c)
		}
	}
	flush()

	return parts, nil
}

// parseReference reads what follows '&': nothing, digits, or "(up)" /
// "(up,group)". It returns the part and the offset after it.
func parseReference(key string, i int) (part, int, error) {
	ref := part{kind: partRef}

	if i < len(key) && key[i] == '(' {
		end := strings.IndexByte(key[i:], ')')
		if end < 0 {
			return part{}, 0, fmt.Errorf("unterminated reference at offset %d", i-1)
		}
		args := strings.Split(key[i+1:i+end], ",")
		if len(args) > 2 {
			return part{}, 0, fmt.Errorf("reference takes at most two arguments, got %d", len(args))
		}

		up, err := parseRefNumber(args[0])
		if err != nil {
			return part{}, 0, err
		}
		ref.up = up

		if len(args) == 2 {
			group, err := parseRefNumber(args[1])
			if err != nil {
				return part{}, 0, err
			}
			ref.group = group
		}
		return ref, i + end + 1, nil
	}

	start := i
	for i < len(key) && key[i] >= '0' && key[i] <= '9' {
		i++
	}
	if i > start {
		up, err := parseRefNumber(key[start:i])
		if err != nil {
			return part{}, 0, err
		}
		ref.up = up
	}
	return ref, i, nil
}

func parseRefNumber(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0, fmt.Errorf("reference index must be a non-negative integer, got %q", s)
	}
	return n, nil
}

// canonical renders parts back into key syntax with every reference in its
// long form and special characters escaped.
func canonical(parts []part) string {
	var b strings.Builder
	for _, p := range parts {
		switch p.kind {
		case partText:
			b.WriteString(escape(p.text))
		case partStar:
			b.WriteByte('*')
		case partRef:
			fmt.Fprintf(&b, "&(%d,%d)", p.up, p.group)
		}
	}
	return b.String()
}

func escape(s string) string {
	if !strings.ContainsAny(s, `\*&@`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\', '*', '&', '@':
			b.WriteByte('\\')
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
