package rewrite

import (
	"context"
	"fmt"
	"strings"

	"bundrs/rustsyn"
	"bundrs/rusttok"
	"bundrs/shell"
)

// forbiddenPairs lists adjacent punctuation renderings that would fuse into a
// different operator if emitted without a separating space. The left side is
// the whole pending punct run or its last character, the right side is the
// first character of the next run.
var forbiddenPairs = [][2]string{
	{"!", "="},
	{"%", "="},
	{"&", "&"},
	{"&", "="},
	{"*", "="},
	{"+", "="},
	{"-", "="},
	{"-", ">"},
	{".", "."},
	{"..", "."},
	{"..", "="},
	{"/", "="},
	{":", ":"},
	{"<", "-"},
	{"<", "<"},
	{"<", "="},
	{"<<", "="},
	{"=", "="},
	{"=", ">"},
	{">", "="},
	{">", ">"},
	{">>", "="},
	{"^", "="},
	{"|", "="},
	{"|", "|"},
}

func pairForbidden(left, right string) bool {
	if left == "" || right == "" {
		return false
	}
	last := left[len(left)-1:]
	first := right[:1]
	for _, p := range forbiddenPairs {
		if (p[0] == left || p[0] == last) && p[1] == first {
			return true
		}
	}
	return false
}

const (
	prevNone = iota
	prevIdentOrLit
	prevPuncts
)

type minifier struct {
	b       strings.Builder
	prev    int
	pending string
	spacing rusttok.Spacing
}

func (m *minifier) flush() {
	if m.prev == prevPuncts {
		m.b.WriteString(m.pending)
		m.pending = ""
	}
	m.prev = prevNone
}

func (m *minifier) tokens(toks []rusttok.Token) {
	for _, t := range toks {
		switch t.Kind {
		case rusttok.Group:
			m.flush()
			switch t.Delim {
			case rusttok.Paren:
				m.b.WriteString("(")
				m.tokens(t.Tokens)
				m.flush()
				m.b.WriteString(")")
			case rusttok.Brace:
				m.b.WriteString("{")
				m.tokens(t.Tokens)
				m.flush()
				m.b.WriteString("}")
			case rusttok.Bracket:
				m.b.WriteString("[")
				m.tokens(t.Tokens)
				m.flush()
				m.b.WriteString("]")
			default:
				// delimiterless groups only occur in macro output;
				// spaces keep their token boundaries intact
				m.b.WriteString(" ")
				m.tokens(t.Tokens)
				m.flush()
				m.b.WriteString(" ")
			}
			m.prev = prevNone
		case rusttok.Ident, rusttok.Literal:
			if m.prev == prevIdentOrLit {
				m.b.WriteString(" ")
			} else {
				m.flush()
			}
			m.b.WriteString(t.Text)
			m.prev = prevIdentOrLit
		case rusttok.DocComment:
			m.flush()
			m.b.WriteString(t.Text)
			if strings.HasPrefix(t.Text, "//") {
				m.b.WriteString("\n")
			}
			m.prev = prevNone
		case rusttok.Punct:
			if m.prev != prevPuncts {
				m.flush()
				m.prev = prevPuncts
				m.pending = t.Text
				m.spacing = t.Spacing
				break
			}
			if m.spacing == rusttok.Joint {
				m.pending += t.Text
				m.spacing = t.Spacing
				break
			}
			if pairForbidden(m.pending, t.Text) {
				m.b.WriteString(m.pending)
				m.b.WriteString(" ")
			} else {
				m.b.WriteString(m.pending)
			}
			m.pending = t.Text
			m.spacing = t.Spacing
		}
	}
}

// Minify renders code with the least whitespace that keeps the token stream
// intact. The result is reparsed before being accepted; if the round trip
// fails, a conservative space-separated rendering is returned instead and an
// advisory names the unit.
func Minify(ctx context.Context, code string, sh *shell.Shell, name string) (string, error) {
	code = stripShebang(code)
	if err := rustsyn.Check(ctx, code); err != nil {
		return "", err
	}
	toks, err := rusttok.Lex(code)
	if err != nil {
		return "", fmt.Errorf("could not lex the code: %w", err)
	}

	var m minifier
	m.tokens(toks)
	m.flush()
	out := m.b.String()

	if err := rustsyn.Check(ctx, out); err == nil {
		return out, nil
	}
	sh.Warnf("could not minify the code. inserting spaces: `%s`", name)
	var b strings.Builder
	safeRender(&b, toks)
	return b.String(), nil
}

// safeRender joins every token with a space, gluing only punct runs the lexer
// marked joint.
func safeRender(b *strings.Builder, toks []rusttok.Token) {
	joint := false
	for _, t := range toks {
		if b.Len() > 0 && !joint {
			b.WriteString(" ")
		}
		switch t.Kind {
		case rusttok.Group:
			open, closing := "(", ")"
			switch t.Delim {
			case rusttok.Brace:
				open, closing = "{", "}"
			case rusttok.Bracket:
				open, closing = "[", "]"
			case rusttok.NoDelim:
				open, closing = "", ""
			}
			b.WriteString(open)
			safeRender(b, t.Tokens)
			b.WriteString(closing)
			joint = false
		case rusttok.DocComment:
			b.WriteString(t.Text)
			if strings.HasPrefix(t.Text, "//") {
				b.WriteString("\n")
			}
			joint = false
		default:
			b.WriteString(t.Text)
			joint = t.Kind == rusttok.Punct && t.Spacing == rusttok.Joint
		}
	}
}
