package sortspec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jacoelho/jsort/internal/codec"
	"github.com/jacoelho/jsort/internal/pathelement"
	"github.com/jacoelho/jsort/internal/value"
)

func mustDecode(t *testing.T, input string) value.Value {
	t.Helper()
	v, err := codec.DecodeBytes([]byte(input), codec.FormatJSON)
	require.NoError(t, err)
	return v
}

func mustCompile(t *testing.T, spec string, opts ...Option) *Transform {
	t.Helper()
	tr, err := New(mustDecode(t, spec), opts...)
	require.NoError(t, err)
	return tr
}

func TestNew_SpecErrors(t *testing.T) {
	tests := []struct {
		name string
		spec string
	}{
		{name: "empty_root", spec: `{}`},
		{name: "empty_nested", spec: `{"items": {}}`},
		{name: "only_scalars", spec: `{"items": 1, "other": "x"}`},
		{name: "nested_scalars_only", spec: `{"items": {"note": "x"}}`},
		{name: "self_with_children", spec: `{"@": {"x": {}}}`},
		{name: "self_with_sorting_children", spec: `{"@": {"x": {"sortBy": ["a"]}}}`},
		{name: "self_empty", spec: `{"@": {}}`},
		{name: "nested_self_with_children", spec: `{"items": {"@": {"x": {"sortBy": ["a"]}}}}`},
		{name: "duplicate_canonical_literal", spec: `{"a": {"sortBy": ["x"]}, "\\a": {"sortBy": ["y"]}}`},
		{name: "duplicate_canonical_reference", spec: `{"*": {"&": {"sortBy": ["x"]}, "&(0,0)": {"sortBy": ["y"]}}}`},
		{name: "non_string_sort_by", spec: `{"items": {"sortBy": ["age", 1]}}`},
		{name: "non_string_direction", spec: `{"items": {"sortBy": ["age"], "direction": [true]}}`},
		{name: "invalid_key", spec: `{"a**": {"sortBy": ["x"]}}`},
		{name: "mixed_key", spec: `{"*&": {"sortBy": ["x"]}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(mustDecode(t, tt.spec))
			require.ErrorIs(t, err, ErrSpec)
			assert.NotErrorIs(t, err, ErrTransform)
		})
	}
}

func TestNew_SpecMustBeObject(t *testing.T) {
	for _, spec := range []value.Value{nil, value.Null{}, value.NewList(), value.String("x")} {
		_, err := New(spec)
		assert.ErrorIs(t, err, ErrSpec, "spec %#v", spec)
	}
}

func TestNew_ErrorNamesPosition(t *testing.T) {
	_, err := New(mustDecode(t, `{"shop": {"items": {}}}`))
	require.ErrorIs(t, err, ErrSpec)
	assert.Contains(t, err.Error(), "root.shop.items")
}

func TestNew_SkipsNonObjectEntries(t *testing.T) {
	tr := mustCompile(t, `{"items": {"sortBy": ["age"]}, "comment": "ignored", "n": 3}`)
	assert.Len(t, tr.root.literalChildren, 1)
	assert.Empty(t, tr.root.computedChildren)
}

func TestNew_PartitionsChildren(t *testing.T) {
	tr := mustCompile(t, `{
		"data": {
			"*": {"sortBy": ["a"]},
			"items": {"sortBy": ["b"]},
			"x*": {"sortBy": ["c"]},
			"&": {"sortBy": ["d"]},
			"@": {"sortBy": ["e"]}
		}
	}`)

	data, ok := tr.root.literalChildren["data"].(*compositeNode)
	require.True(t, ok)

	assert.Contains(t, data.literalChildren, "items")
	require.NotNil(t, data.specialChild)
	assert.Equal(t, "@", data.specialChild.rawKey)

	var order []string
	for _, child := range data.computedChildren {
		order = append(order, child.pathElement().RawKey())
	}
	// references first, then stars in the order they were written
	assert.Equal(t, []string{"&", "*", "x*"}, order)
}

func TestNew_SortingSpec(t *testing.T) {
	tests := []struct {
		name string
		spec string
		want []sortKey
	}{
		{
			name: "zipped",
			spec: `{"i": {"sortBy": ["a", "b.c"], "direction": ["desc", "asc"]}}`,
			want: []sortKey{
				{path: "a", segments: []string{"a"}, direction: Descending},
				{path: "b.c", segments: []string{"b", "c"}, direction: Ascending},
			},
		},
		{
			name: "missing_directions_default_to_asc",
			spec: `{"i": {"sortBy": ["a", "b"], "direction": ["desc"]}}`,
			want: []sortKey{
				{path: "a", segments: []string{"a"}, direction: Descending},
				{path: "b", segments: []string{"b"}, direction: Ascending},
			},
		},
		{
			name: "single_strings",
			spec: `{"i": {"sortBy": "a", "direction": "desc"}}`,
			want: []sortKey{
				{path: "a", segments: []string{"a"}, direction: Descending},
			},
		},
		{
			name: "unknown_direction_is_asc",
			spec: `{"i": {"sortBy": ["a"], "direction": ["DESC"]}}`,
			want: []sortKey{
				{path: "a", segments: []string{"a"}, direction: Ascending},
			},
		},
		{
			name: "extra_directions_ignored",
			spec: `{"i": {"sortBy": ["a"], "direction": ["desc", "desc"]}}`,
			want: []sortKey{
				{path: "a", segments: []string{"a"}, direction: Descending},
			},
		},
		{
			name: "empty",
			spec: `{"i": {"sortBy": []}}`,
			want: []sortKey{},
		},
		{
			name: "null",
			spec: `{"i": {"sortBy": null}}`,
			want: nil,
		},
		{
			name: "number_reads_as_empty",
			spec: `{"i": {"sortBy": 5}}`,
			want: nil,
		},
		{
			name: "object_reads_as_empty",
			spec: `{"i": {"sortBy": {"age": "asc"}}}`,
			want: nil,
		},
		{
			name: "direction_scalar_reads_as_asc",
			spec: `{"i": {"sortBy": ["a"], "direction": true}}`,
			want: []sortKey{
				{path: "a", segments: []string{"a"}, direction: Ascending},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := mustCompile(t, tt.spec)
			leaf, ok := tr.root.literalChildren["i"].(*leafNode)
			require.True(t, ok)
			if len(tt.want) == 0 {
				assert.Empty(t, leaf.sortingSpec)
				return
			}
			assert.Equal(t, tt.want, leaf.sortingSpec)
		})
	}
}

func TestNew_RootKeyIsLiteral(t *testing.T) {
	tr := mustCompile(t, `{"items": {"sortBy": ["a"]}}`)
	assert.Equal(t, pathelement.KindLiteral, tr.root.pe.Kind())
	assert.Equal(t, RootKey, tr.root.rawKey)
}
