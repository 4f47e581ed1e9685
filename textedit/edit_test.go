package textedit_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"bundrs/textedit"
)

func pos(line, column int) textedit.Position {
	return textedit.Position{Line: line, Column: column}
}

func TestApply(t *testing.T) {
	testCases := []struct {
		description string
		src         string
		register    func(s *textedit.Set)
		expect      string
	}{
		{
			description: "no edits",
			src:         "fn main() {}\n",
			register:    func(s *textedit.Set) {},
			expect:      "fn main() {}\n",
		},
		{
			description: "insertion in the middle of a line",
			src:         "ab",
			register: func(s *textedit.Set) {
				s.Insert(pos(1, 1), "X")
			},
			expect: "aXb",
		},
		{
			description: "insertion at end of line",
			src:         "ab\ncd",
			register: func(s *textedit.Set) {
				s.Insert(pos(1, 2), "X")
			},
			expect: "abX\ncd",
		},
		{
			description: "replacement of a range",
			src:         "hello world",
			register: func(s *textedit.Set) {
				s.Replace(textedit.NewSpan(pos(1, 0), pos(1, 5)), "goodbye")
			},
			expect: "goodbye world",
		},
		{
			description: "multi line deletion keeps the newlines",
			src:         "a\nb\nc\n",
			register: func(s *textedit.Set) {
				s.Delete(textedit.NewSpan(pos(1, 0), pos(3, 0)))
			},
			expect: "\n\nc\n",
		},
		{
			description: "coincident insertions apply in registration order",
			src:         "x",
			register: func(s *textedit.Set) {
				s.Insert(pos(1, 0), "A")
				s.Insert(pos(1, 0), "B")
			},
			expect: "ABx",
		},
		{
			description: "registration order is independent of position order",
			src:         "abcdef",
			register: func(s *textedit.Set) {
				s.Insert(pos(1, 4), "Y")
				s.Insert(pos(1, 1), "X")
			},
			expect: "aXbcdYef",
		},
		{
			description: "insertion at the boundary of a deleted range",
			src:         "abcd",
			register: func(s *textedit.Set) {
				s.Insert(pos(1, 1), "<")
				s.Delete(textedit.NewSpan(pos(1, 1), pos(1, 3)))
			},
			expect: "a<d",
		},
		{
			description: "two disjoint replacements on one line",
			src:         "use foo; use bar;",
			register: func(s *textedit.Set) {
				s.Replace(textedit.NewSpan(pos(1, 4), pos(1, 7)), "aaa")
				s.Replace(textedit.NewSpan(pos(1, 13), pos(1, 16)), "bbb")
			},
			expect: "use aaa; use bbb;",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			var set textedit.Set
			tc.register(&set)
			actual := set.Apply(tc.src)
			assert.Equal(t, tc.expect, actual)
		})
	}
}

func TestApplyIsRepeatable(t *testing.T) {
	var set textedit.Set
	set.Insert(pos(1, 1), "X")
	assert.Equal(t, "aXb", set.Apply("ab"))
	assert.Equal(t, "aXb", set.Apply("ab"))
}

func TestPositionCompare(t *testing.T) {
	assert.True(t, pos(1, 5).Before(pos(2, 0)))
	assert.True(t, pos(2, 1).Before(pos(2, 3)))
	assert.False(t, pos(2, 3).Before(pos(2, 3)))
	assert.Equal(t, 0, pos(4, 2).Compare(pos(4, 2)))
	assert.True(t, textedit.NewSpan(pos(1, 1), pos(1, 1)).Zero())
	assert.False(t, textedit.NewSpan(pos(1, 1), pos(1, 2)).Zero())
}
