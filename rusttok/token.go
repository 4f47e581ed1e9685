// Package rusttok lexes Rust source text into the flat token-tree form the
// minifier, eraser and macro-hygiene passes consume: identifiers, literals,
// punctuation characters carrying a joint/alone adjacency flag, and delimited
// groups with a nested token sequence. Doc comments survive as tokens; plain
// comments and whitespace do not.
//
// Positions follow the textedit convention: 1-based line, 0-based rune column.
package rusttok

import "bundrs/textedit"

// Kind classifies a token.
type Kind int

const (
	Ident Kind = iota
	Literal
	Punct
	Group
	DocComment
)

// Spacing records whether a punctuation character was written immediately
// adjacent to the next punctuation character. It is meaningful for Punct
// tokens only and drives the minifier.
type Spacing int

const (
	Alone Spacing = iota
	Joint
)

// Delim is the bracket kind of a group.
type Delim int

const (
	Paren Delim = iota
	Brace
	Bracket
	// NoDelim marks an invisible-delimiter group; the lexer never produces
	// one, but the minifier renders them for completeness.
	NoDelim
)

// Token is one element of a token tree.
type Token struct {
	Kind Kind

	// Text holds the identifier, the literal verbatim, the doc comment
	// verbatim, or the single punctuation character.
	Text string

	// Spacing is set for Punct tokens.
	Spacing Spacing

	// Delim and Tokens are set for Group tokens.
	Delim  Delim
	Tokens []Token

	// Span covers the token; for groups it runs from the opening to the
	// closing delimiter. Open and Close cover the delimiters themselves.
	Span  textedit.Span
	Open  textedit.Span
	Close textedit.Span
}

// Multiline reports whether the token's text spans more than one line.
func (t Token) Multiline() bool {
	return t.Span.Start.Line != t.Span.End.Line
}

// HasMultilineLiteral reports whether any literal in the token sequence,
// recursively, spans more than one line. Indenting such a sequence would
// corrupt the literal's text.
func HasMultilineLiteral(tokens []Token) bool {
	for _, t := range tokens {
		switch t.Kind {
		case Literal:
			if t.Multiline() {
				return true
			}
		case Group:
			if HasMultilineLiteral(t.Tokens) {
				return true
			}
		}
	}
	return false
}
