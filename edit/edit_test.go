package edit

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApply(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		edits []Edit
		want  string
	}{
		{"no edits", "abc", nil, "abc"},
		{"insert", "ac", []Edit{Insert(1, "b")}, "abc"},
		{"insert at end", "ab", []Edit{Insert(2, "c")}, "abc"},
		{"replace", "aXc", []Edit{Replace(1, 2, "b")}, "abc"},
		{"remove", "abXc", []Edit{Remove(2, 3)}, "abc"},
		{
			"unsorted batch",
			"0123456789",
			[]Edit{Replace(1, 2, "one"), Remove(8, 10), Insert(5, "-")},
			"0one234-567",
		},
		{
			"insert touching replaced range",
			"foo(bar)",
			[]Edit{Replace(4, 7, "baz"), Insert(7, ", qux"), Insert(4, "x, ")},
			"foo(x, baz, qux)",
		},
		{
			"same anchor keeps list order",
			"[]",
			[]Edit{Insert(1, "a"), Insert(1, "b"), Insert(1, "c")},
			"[abc]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Apply([]byte(tt.src), tt.edits)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestApplyDoesNotModifyInput(t *testing.T) {
	src := []byte("hello world")
	_, err := Apply(src, []Edit{Replace(0, 5, "HELLO")})
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(src))
}

func TestApplyInvalidSpan(t *testing.T) {
	tests := []struct {
		name string
		edit Edit
	}{
		{"negative start", Edit{Start: -1, End: 0}},
		{"end before start", Edit{Start: 3, End: 2}},
		{"past end", Edit{Start: 2, End: 6}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Apply([]byte("hello"), []Edit{Insert(0, "x"), tt.edit})
			require.Error(t, err)
			assert.Nil(t, out)
			assert.True(t, errors.Is(err, ErrInvalidSpan))

			var spanErr *SpanError
			require.True(t, errors.As(err, &spanErr))
			assert.Equal(t, tt.edit, spanErr.Edit)
			assert.Equal(t, 5, spanErr.Size)
		})
	}
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b Edit
		want bool
	}{
		{"disjoint", Replace(0, 2, ""), Replace(3, 5, ""), false},
		{"adjacent", Replace(0, 2, ""), Replace(2, 5, ""), false},
		{"intersecting", Replace(0, 3, ""), Replace(2, 5, ""), true},
		{"nested", Replace(0, 10, ""), Replace(2, 5, ""), true},
		{"two inserts same anchor", Insert(3, "a"), Insert(3, "b"), false},
		{"insert at range start", Insert(2, "a"), Replace(2, 5, ""), false},
		{"insert at range end", Replace(2, 5, ""), Insert(5, "a"), false},
		{"insert inside range", Insert(3, "a"), Replace(2, 5, ""), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Overlaps(tt.a, tt.b))
			assert.Equal(t, tt.want, Overlaps(tt.b, tt.a))
		})
	}
}

func TestValidate(t *testing.T) {
	require.NoError(t, Validate([]Edit{Insert(0, "a"), Replace(1, 3, "b"), Remove(3, 4)}))

	err := Validate([]Edit{Replace(1, 4, "b"), Insert(9, "x"), Remove(3, 5)})
	require.Error(t, err)
	var overlap *OverlapError
	require.True(t, errors.As(err, &overlap))
	assert.Equal(t, Replace(1, 4, "b"), overlap.First)
	assert.Equal(t, Remove(3, 5), overlap.Second)
}

func TestLineIndex(t *testing.T) {
	src := []byte("ab\nπx\n\U0001F600y\n")
	x := NewLineIndex(src)
	assert.Equal(t, 4, x.Lines())

	tests := []struct {
		offset int
		want   Position
	}{
		{0, Position{0, 0}},
		{2, Position{0, 2}},
		{3, Position{1, 0}},
		{5, Position{1, 1}},
		{6, Position{1, 2}},
		{7, Position{2, 0}},
		{11, Position{2, 2}},
		{12, Position{2, 3}},
		{13, Position{3, 0}},
		{99, Position{3, 0}},
	}

	for _, tt := range tests {
		pos := x.Position(tt.offset)
		assert.Equal(t, tt.want, pos, "offset %d", tt.offset)
		if tt.offset <= len(src) {
			assert.Equal(t, tt.offset, x.Offset(pos), "round trip of %d", tt.offset)
		}
	}

	assert.Equal(t, 2, x.Offset(Position{Line: 0, Character: 40}))
	assert.Equal(t, len(src), x.Offset(Position{Line: 9}))
}
