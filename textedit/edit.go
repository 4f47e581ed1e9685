package textedit

import "sort"

// Edit replaces the text under Span with Text. A zero-width span is a pure
// insertion.
type Edit struct {
	Span Span
	Text string
}

// Set is an ordered collection of edits, keyed by (start, end). Edits must
// not overlap, except that a zero-width edit may sit at the boundary of a
// ranged edit. Zero-width edits registered at the same point apply in
// registration order.
type Set struct {
	edits []Edit
}

// Insert registers a pure insertion at the given point.
func (s *Set) Insert(at Position, text string) {
	s.add(Edit{Span: Span{Start: at, End: at}, Text: text})
}

// Replace registers a replacement of the given span.
func (s *Set) Replace(span Span, text string) {
	s.add(Edit{Span: span, Text: text})
}

// Delete registers a removal of the given span.
func (s *Set) Delete(span Span) {
	s.add(Edit{Span: span})
}

// Len returns the number of registered edits.
func (s *Set) Len() int {
	return len(s.edits)
}

// Empty reports whether no edit was registered.
func (s *Set) Empty() bool {
	return len(s.edits) == 0
}

// add inserts the edit at its sorted position; edits with an equal key keep
// their registration order.
func (s *Set) add(e Edit) {
	i := sort.Search(len(s.edits), func(i int) bool {
		return compareSpans(s.edits[i].Span, e.Span) > 0
	})
	s.edits = append(s.edits, Edit{})
	copy(s.edits[i+1:], s.edits[i:])
	s.edits[i] = e
}

func compareSpans(a, b Span) int {
	if c := a.Start.Compare(b.Start); c != 0 {
		return c
	}
	return a.End.Compare(b.End)
}
