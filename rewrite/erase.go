package rewrite

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"bundrs/rustsyn"
	"bundrs/rusttok"
	"bundrs/textedit"
)

// lineMask marks, per line and rune column, which characters get blanked.
// Blanking replaces a character with a space, so line count and per-line
// character count never change and no later pass's coordinates shift.
type lineMask [][]bool

func newLineMask(lines []string, blanked bool) lineMask {
	m := make(lineMask, len(lines))
	for i, line := range lines {
		row := make([]bool, len([]rune(line)))
		if blanked {
			for j := range row {
				row[j] = true
			}
		}
		m[i] = row
	}
	return m
}

func (m lineMask) set(span textedit.Span, blank bool) {
	i1 := span.Start.Line - 1
	i2 := span.End.Line - 1
	if i1 < 0 || i1 >= len(m) || i2 < 0 || i2 >= len(m) {
		return
	}
	if i1 == i2 {
		m.setRange(i1, span.Start.Column, span.End.Column, blank)
		return
	}
	m.setRange(i1, span.Start.Column, len(m[i1]), blank)
	for i := i1 + 1; i < i2; i++ {
		m.setRange(i, 0, len(m[i]), blank)
	}
	m.setRange(i2, 0, span.End.Column, blank)
}

func (m lineMask) setRange(i, from, to int, blank bool) {
	if from < 0 {
		from = 0
	}
	if to > len(m[i]) {
		to = len(m[i])
	}
	for j := from; j < to; j++ {
		m[i][j] = blank
	}
}

func (m lineMask) apply(lines []string) string {
	var b strings.Builder
	for i, line := range lines {
		for j, ch := range []rune(line) {
			if m[i][j] {
				b.WriteByte(' ')
			} else {
				b.WriteRune(ch)
			}
		}
		if i < len(lines)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// EraseDocs blanks documentation: doc comments and doc attributes. A leading
// interpreter directive is stripped first and not restored.
func EraseDocs(ctx context.Context, code string) (string, error) {
	code = stripShebang(code)
	src, err := rustsyn.Parse(ctx, code)
	if err != nil {
		return "", err
	}
	lines := src.Lines()
	m := newLineMask(lines, false)
	rustsyn.Walk(src.Root(), func(n *sitter.Node) bool {
		switch n.Type() {
		case "attribute_item", "inner_attribute_item":
			if attr, ok := src.ParseAttr(n); ok && attr.Path == "doc" {
				m.set(src.Span(n), true)
			}
			return false
		case "line_comment", "block_comment":
			if isDocComment(src.Text(n)) {
				m.set(src.Span(n), true)
			}
			return false
		}
		return true
	})
	return m.apply(lines), nil
}

// EraseComments blanks everything no token covers: comment text and nothing
// else, since whitespace is already blank. Starts from an all-blanked mask
// and keeps every token span, group delimiters and doc comments included.
func EraseComments(ctx context.Context, code string) (string, error) {
	code = stripShebang(code)
	toks, err := rusttok.Lex(code)
	if err != nil {
		return "", fmt.Errorf("could not lex the code: %w", err)
	}
	lines := strings.Split(code, "\n")
	m := newLineMask(lines, true)
	keepTokens(m, toks)
	return m.apply(lines), nil
}

func keepTokens(m lineMask, toks []rusttok.Token) {
	for _, t := range toks {
		if t.Kind == rusttok.Group {
			m.set(t.Open, false)
			keepTokens(m, t.Tokens)
			m.set(t.Close, false)
			continue
		}
		m.set(t.Span, false)
	}
}

func isDocComment(text string) bool {
	switch {
	case strings.HasPrefix(text, "////"):
		return false
	case strings.HasPrefix(text, "///"), strings.HasPrefix(text, "//!"):
		return true
	case text == "/**/":
		return false
	case strings.HasPrefix(text, "/***"):
		return false
	case strings.HasPrefix(text, "/**"), strings.HasPrefix(text, "/*!"):
		return true
	}
	return false
}
