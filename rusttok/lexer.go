package rusttok

import (
	"fmt"
	"strings"
	"unicode"

	"bundrs/textedit"
)

// Lex tokenizes a complete source text into a token tree.
func Lex(src string) ([]Token, error) {
	return LexAt(src, textedit.Position{Line: 1})
}

// LexAt tokenizes a source fragment whose first character sits at the given
// position of the enclosing text, so token spans come out in the enclosing
// text's coordinates.
func LexAt(src string, at textedit.Position) ([]Token, error) {
	l := &lexer{src: []rune(src), line: at.Line, col: at.Column}
	toks, err := l.sequence(0)
	if err != nil {
		return nil, err
	}
	return toks, nil
}

type lexer struct {
	src  []rune
	pos  int
	line int
	col  int
}

func (l *lexer) eof() bool {
	return l.pos >= len(l.src)
}

func (l *lexer) peek() rune {
	return l.peekAt(0)
}

func (l *lexer) peekAt(n int) rune {
	if l.pos+n >= len(l.src) {
		return 0
	}
	return l.src[l.pos+n]
}

func (l *lexer) position() textedit.Position {
	return textedit.Position{Line: l.line, Column: l.col}
}

func (l *lexer) next() rune {
	ch := l.src[l.pos]
	l.pos++
	if ch == '\n' {
		l.line++
		l.col = 0
	} else {
		l.col++
	}
	return ch
}

// sequence lexes tokens until EOF (closing == 0) or until the closing
// delimiter of the enclosing group is reached; the delimiter itself is left
// for the caller.
func (l *lexer) sequence(closing rune) ([]Token, error) {
	var toks []Token
	for {
		if l.eof() {
			if closing != 0 {
				return nil, fmt.Errorf("unexpected end of input, expected %q", closing)
			}
			return toks, nil
		}
		ch := l.peek()
		switch {
		case ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n':
			l.next()
		case closing != 0 && ch == closing:
			return toks, nil
		case ch == ')' || ch == ']' || ch == '}':
			return nil, fmt.Errorf("unexpected %q at line %d, column %d", ch, l.line, l.col)
		case ch == '(' || ch == '[' || ch == '{':
			tok, err := l.group(ch)
			if err != nil {
				return nil, err
			}
			toks = append(toks, tok)
		case ch == '/' && (l.peekAt(1) == '/' || l.peekAt(1) == '*'):
			tok, keep, err := l.comment()
			if err != nil {
				return nil, err
			}
			if keep {
				toks = append(toks, tok)
			}
		case ch == '"':
			tok, err := l.quotedString(l.position(), "")
			if err != nil {
				return nil, err
			}
			toks = append(toks, tok)
		case ch == '\'':
			if err := l.quote(&toks); err != nil {
				return nil, err
			}
		case unicode.IsDigit(ch):
			tok, err := l.number()
			if err != nil {
				return nil, err
			}
			toks = append(toks, tok)
		case isIdentStart(ch):
			tok, err := l.identOrPrefixed()
			if err != nil {
				return nil, err
			}
			toks = append(toks, tok)
		default:
			tok, err := l.punct()
			if err != nil {
				return nil, err
			}
			toks = append(toks, tok)
		}
	}
}

func (l *lexer) group(open rune) (Token, error) {
	openStart := l.position()
	l.next()
	openEnd := l.position()

	var delim Delim
	var closing rune
	switch open {
	case '(':
		delim, closing = Paren, ')'
	case '[':
		delim, closing = Bracket, ']'
	default:
		delim, closing = Brace, '}'
	}

	inner, err := l.sequence(closing)
	if err != nil {
		return Token{}, err
	}
	if l.eof() || l.peek() != closing {
		return Token{}, fmt.Errorf("unclosed %q opened at line %d, column %d", open, openStart.Line, openStart.Column)
	}
	closeStart := l.position()
	l.next()
	closeEnd := l.position()

	return Token{
		Kind:   Group,
		Delim:  delim,
		Tokens: inner,
		Open:   textedit.NewSpan(openStart, openEnd),
		Close:  textedit.NewSpan(closeStart, closeEnd),
		Span:   textedit.NewSpan(openStart, closeEnd),
	}, nil
}

// comment consumes a line or block comment; doc comments come back as tokens.
func (l *lexer) comment() (Token, bool, error) {
	start := l.position()
	if l.peekAt(1) == '/' {
		doc := (l.peekAt(2) == '/' && l.peekAt(3) != '/') || l.peekAt(2) == '!'
		var b strings.Builder
		for !l.eof() && l.peek() != '\n' {
			b.WriteRune(l.next())
		}
		if doc {
			return Token{Kind: DocComment, Text: b.String(), Span: textedit.NewSpan(start, l.position())}, true, nil
		}
		return Token{}, false, nil
	}

	doc := (l.peekAt(2) == '*' && l.peekAt(3) != '*' && l.peekAt(3) != '/') || l.peekAt(2) == '!'
	var b strings.Builder
	b.WriteRune(l.next())
	b.WriteRune(l.next())
	depth := 1
	for depth > 0 {
		if l.eof() {
			return Token{}, false, fmt.Errorf("unterminated block comment starting at line %d", start.Line)
		}
		switch {
		case l.peek() == '/' && l.peekAt(1) == '*':
			depth++
			b.WriteRune(l.next())
			b.WriteRune(l.next())
		case l.peek() == '*' && l.peekAt(1) == '/':
			depth--
			b.WriteRune(l.next())
			b.WriteRune(l.next())
		default:
			b.WriteRune(l.next())
		}
	}
	if doc {
		return Token{Kind: DocComment, Text: b.String(), Span: textedit.NewSpan(start, l.position())}, true, nil
	}
	return Token{}, false, nil
}

// quote lexes either a lifetime (emitted as a joint ' punct plus identifier)
// or a character literal.
func (l *lexer) quote(toks *[]Token) error {
	j := 1
	for isIdentContinue(l.peekAt(j)) {
		j++
	}
	if j > 1 && l.peekAt(j) != '\'' {
		start := l.position()
		l.next()
		*toks = append(*toks, Token{Kind: Punct, Text: "'", Spacing: Joint, Span: textedit.NewSpan(start, l.position())})
		identStart := l.position()
		var b strings.Builder
		for !l.eof() && isIdentContinue(l.peek()) {
			b.WriteRune(l.next())
		}
		*toks = append(*toks, Token{Kind: Ident, Text: b.String(), Span: textedit.NewSpan(identStart, l.position())})
		return nil
	}
	tok, err := l.charLit(l.position(), "")
	if err != nil {
		return err
	}
	*toks = append(*toks, tok)
	return nil
}

func (l *lexer) charLit(start textedit.Position, prefix string) (Token, error) {
	var b strings.Builder
	b.WriteString(prefix)
	b.WriteRune(l.next())
	for {
		if l.eof() {
			return Token{}, fmt.Errorf("unterminated character literal starting at line %d", start.Line)
		}
		ch := l.next()
		b.WriteRune(ch)
		if ch == '\\' {
			if l.eof() {
				return Token{}, fmt.Errorf("unterminated character literal starting at line %d", start.Line)
			}
			b.WriteRune(l.next())
			continue
		}
		if ch == '\'' {
			return Token{Kind: Literal, Text: b.String(), Span: textedit.NewSpan(start, l.position())}, nil
		}
	}
}

func (l *lexer) quotedString(start textedit.Position, prefix string) (Token, error) {
	var b strings.Builder
	b.WriteString(prefix)
	b.WriteRune(l.next())
	for {
		if l.eof() {
			return Token{}, fmt.Errorf("unterminated string literal starting at line %d", start.Line)
		}
		ch := l.next()
		b.WriteRune(ch)
		if ch == '\\' {
			if l.eof() {
				return Token{}, fmt.Errorf("unterminated string literal starting at line %d", start.Line)
			}
			b.WriteRune(l.next())
			continue
		}
		if ch == '"' {
			return Token{Kind: Literal, Text: b.String(), Span: textedit.NewSpan(start, l.position())}, nil
		}
	}
}

func (l *lexer) rawString(start textedit.Position, prefix string) (Token, error) {
	var b strings.Builder
	b.WriteString(prefix)
	hashes := 0
	for l.peek() == '#' {
		hashes++
		b.WriteRune(l.next())
	}
	if l.peek() != '"' {
		return Token{}, fmt.Errorf("malformed raw string literal at line %d, column %d", start.Line, start.Column)
	}
	b.WriteRune(l.next())
	for {
		if l.eof() {
			return Token{}, fmt.Errorf("unterminated raw string literal starting at line %d", start.Line)
		}
		ch := l.next()
		b.WriteRune(ch)
		if ch != '"' {
			continue
		}
		matched := true
		for k := 0; k < hashes; k++ {
			if l.peekAt(k) != '#' {
				matched = false
				break
			}
		}
		if matched {
			for k := 0; k < hashes; k++ {
				b.WriteRune(l.next())
			}
			return Token{Kind: Literal, Text: b.String(), Span: textedit.NewSpan(start, l.position())}, nil
		}
	}
}

func (l *lexer) number() (Token, error) {
	start := l.position()
	var b strings.Builder
	first := l.next()
	b.WriteRune(first)
	if first == '0' && (l.peek() == 'x' || l.peek() == 'o' || l.peek() == 'b') {
		b.WriteRune(l.next())
		for !l.eof() && (isHexDigit(l.peek()) || l.peek() == '_') {
			b.WriteRune(l.next())
		}
	} else {
		for !l.eof() && (unicode.IsDigit(l.peek()) || l.peek() == '_') {
			b.WriteRune(l.next())
		}
		if l.peek() == '.' && l.peekAt(1) != '.' && !isIdentStart(l.peekAt(1)) {
			b.WriteRune(l.next())
			for !l.eof() && (unicode.IsDigit(l.peek()) || l.peek() == '_') {
				b.WriteRune(l.next())
			}
		}
		if (l.peek() == 'e' || l.peek() == 'E') && (l.peekAt(1) == '+' || l.peekAt(1) == '-') && unicode.IsDigit(l.peekAt(2)) {
			b.WriteRune(l.next())
			b.WriteRune(l.next())
			for !l.eof() && (unicode.IsDigit(l.peek()) || l.peek() == '_') {
				b.WriteRune(l.next())
			}
		}
	}
	// type suffix and non-signed exponents fall out of the identifier chars
	for !l.eof() && isIdentContinue(l.peek()) {
		b.WriteRune(l.next())
	}
	return Token{Kind: Literal, Text: b.String(), Span: textedit.NewSpan(start, l.position())}, nil
}

func (l *lexer) identOrPrefixed() (Token, error) {
	start := l.position()
	var b strings.Builder
	for !l.eof() && isIdentContinue(l.peek()) {
		b.WriteRune(l.next())
	}
	name := b.String()
	switch {
	case name == "r" && l.peek() == '#' && isIdentStart(l.peekAt(1)):
		l.next()
		var rb strings.Builder
		for !l.eof() && isIdentContinue(l.peek()) {
			rb.WriteRune(l.next())
		}
		return Token{Kind: Ident, Text: "r#" + rb.String(), Span: textedit.NewSpan(start, l.position())}, nil
	case isRawStringPrefix(name) && (l.peek() == '"' || l.peek() == '#'):
		return l.rawString(start, name)
	case (name == "b" || name == "c") && l.peek() == '"':
		return l.quotedString(start, name)
	case name == "b" && l.peek() == '\'':
		return l.charLit(start, name)
	}
	return Token{Kind: Ident, Text: name, Span: textedit.NewSpan(start, l.position())}, nil
}

func (l *lexer) punct() (Token, error) {
	start := l.position()
	ch := l.next()
	if !isPunctChar(ch) {
		return Token{}, fmt.Errorf("unexpected character %q at line %d, column %d", ch, start.Line, start.Column)
	}
	spacing := Alone
	nxt := l.peek()
	if isPunctChar(nxt) || nxt == '\'' {
		// a following comment is a gap, not an adjacent punct
		if !(nxt == '/' && (l.peekAt(1) == '/' || l.peekAt(1) == '*')) {
			spacing = Joint
		}
	}
	return Token{Kind: Punct, Text: string(ch), Spacing: spacing, Span: textedit.NewSpan(start, l.position())}, nil
}

func isIdentStart(ch rune) bool {
	return ch == '_' || unicode.IsLetter(ch)
}

func isIdentContinue(ch rune) bool {
	return ch == '_' || unicode.IsLetter(ch) || unicode.IsDigit(ch)
}

func isHexDigit(ch rune) bool {
	return unicode.IsDigit(ch) || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

func isPunctChar(ch rune) bool {
	return strings.ContainsRune(";,.@#~?:$=!<>-&|+*/^%", ch)
}

func isRawStringPrefix(name string) bool {
	switch name {
	case "r", "br", "rb", "cr", "rc":
		return true
	}
	return false
}
