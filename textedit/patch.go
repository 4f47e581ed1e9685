package textedit

import (
	"strings"
	"unicode"
)

// Apply patches src with the registered edits in a single forward scan over
// lines and columns. Characters are copied verbatim except where the current
// position matches a pending edit's start: the edit's text is emitted and,
// for a ranged edit, characters are skipped until its end position. All
// zero-width edits registered at a point are emitted before the character at
// that point is copied. Apply does not mutate the set and may be called again.
func (s *Set) Apply(src string) string {
	if len(s.edits) == 0 {
		return src
	}
	edits := s.edits

	var out strings.Builder
	out.Grow(len(src) + len(src)/8)

	var skipUntil *Position
	lines := strings.Split(strings.TrimRightFunc(src, unicode.IsSpace), "\n")
	endsWithNewline := strings.HasSuffix(src, "\n")

	for i, line := range lines {
		lineNo := i + 1
		for j, ch := range []rune(line) {
			here := Position{Line: lineNo, Column: j}
			matched := false
			for len(edits) > 0 && edits[0].Span.Start == here {
				out.WriteString(edits[0].Text)
				if !edits[0].Span.Zero() {
					end := edits[0].Span.End
					skipUntil = &end
				}
				edits = edits[1:]
				matched = true
			}
			if matched && skipUntil == nil {
				out.WriteRune(ch)
				continue
			}
			if skipUntil == nil || !here.Before(*skipUntil) {
				out.WriteRune(ch)
				skipUntil = nil
			}
		}
		// Edits that start at or past the end of this line.
		for len(edits) > 0 && edits[0].Span.Start.Line == lineNo {
			out.WriteString(edits[0].Text)
			if !edits[0].Span.Zero() {
				end := edits[0].Span.End
				skipUntil = &end
			}
			edits = edits[1:]
		}
		if i < len(lines)-1 || endsWithNewline {
			out.WriteString("\n")
		}
	}
	return out.String()
}
