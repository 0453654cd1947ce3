package value

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
)

// ErrInvalidIndex is returned when a list entry is addressed by a key that is
// not an index inside the list.
var ErrInvalidIndex = errors.New("invalid list index")

// Member is a single key/value entry of a Map.
type Member struct {
	Key   string
	Value Value
}

// Map is an insertion ordered string keyed mapping.
type Map struct {
	members []Member
	index   map[string]int
}

// NewMap returns a Map holding members in order; a repeated key keeps its
// first position and its last value.
func NewMap(members ...Member) *Map {
	m := &Map{
		members: make([]Member, 0, len(members)),
		index:   make(map[string]int, len(members)),
	}
	for _, member := range members {
		m.Set(member.Key, member.Value)
	}
	return m
}

func (*Map) Kind() Kind { return KindMap }
func (*Map) isValue()   {}

func (m *Map) Len() int {
	return len(m.members)
}

func (m *Map) Get(key string) (Value, bool) {
	i, ok := m.index[key]
	if !ok {
		return nil, false
	}
	return m.members[i].Value, true
}

func (m *Map) Has(key string) bool {
	_, ok := m.index[key]
	return ok
}

// Set replaces the value of an existing key in place or appends a new entry.
func (m *Map) Set(key string, v Value) {
	if m.index == nil {
		m.index = make(map[string]int)
	}
	if i, ok := m.index[key]; ok {
		m.members[i].Value = v
		return
	}
	m.index[key] = len(m.members)
	m.members = append(m.members, Member{Key: key, Value: v})
}

// Put implements Container.
func (m *Map) Put(key string, v Value) error {
	m.Set(key, v)
	return nil
}

func (m *Map) Keys() []string {
	keys := make([]string, len(m.members))
	for i, member := range m.members {
		keys[i] = member.Key
	}
	return keys
}

// Members returns a snapshot of the entries. Later writes to the map are not
// reflected in the returned slice.
func (m *Map) Members() []Member {
	return slices.Clone(m.members)
}

// Equal compares entries and their order.
func (m *Map) Equal(o *Map) bool {
	if m == nil || o == nil {
		return m == o
	}
	if len(m.members) != len(o.members) {
		return false
	}
	for i, member := range m.members {
		other := o.members[i]
		if member.Key != other.Key || !Equal(member.Value, other.Value) {
			return false
		}
	}
	return true
}

// List is an ordered sequence of values.
type List struct {
	Items []Value
}

// NewList returns a List backed by items.
func NewList(items ...Value) *List {
	return &List{Items: items}
}

func (*List) Kind() Kind { return KindList }
func (*List) isValue()   {}

func (l *List) Len() int {
	return len(l.Items)
}

// Put implements Container; key must be the decimal index of an existing entry.
func (l *List) Put(key string, v Value) error {
	i, err := strconv.Atoi(key)
	if err != nil || i < 0 || i >= len(l.Items) {
		return fmt.Errorf("%w: %q (length %d)", ErrInvalidIndex, key, len(l.Items))
	}
	l.Items[i] = v
	return nil
}

func (l *List) Equal(o *List) bool {
	if l == nil || o == nil {
		return l == o
	}
	return slices.EqualFunc(l.Items, o.Items, Equal)
}
