// Package textedit provides the coordinate model and the sparse-edit patcher
// every rewriting pass builds on. Passes compute spans against the original
// text and register edits; the patcher is the only place text is assembled.
package textedit

// Position addresses a character in source text.
// Line is 1-based; Column is a 0-based rune offset within the line.
type Position struct {
	Line   int
	Column int
}

// Compare orders positions by line, then column.
func (p Position) Compare(q Position) int {
	if p.Line != q.Line {
		if p.Line < q.Line {
			return -1
		}
		return 1
	}
	if p.Column != q.Column {
		if p.Column < q.Column {
			return -1
		}
		return 1
	}
	return 0
}

// Before reports whether p addresses a character strictly before q.
func (p Position) Before(q Position) bool {
	return p.Compare(q) < 0
}

// Span is a half-open range of text. Start == End denotes an insertion point.
type Span struct {
	Start Position
	End   Position
}

// Zero reports whether the span is an insertion point.
func (s Span) Zero() bool {
	return s.Start == s.End
}

// NewSpan builds a span from two positions.
func NewSpan(start, end Position) Span {
	return Span{Start: start, End: end}
}
