// Package rustsyn wraps the tree-sitter Rust grammar behind the small
// surface the rewriting passes need: parsing with an explicit validity
// check, node spans converted to the shared line/column model, and outer
// attribute association.
package rustsyn

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/rust"

	"bundrs/textedit"
)

// Source couples one unit's text with its concrete syntax tree.
type Source struct {
	text  string
	src   []byte
	lines []string
	tree  *sitter.Tree
}

// Parse parses text and fails when the grammar reports any error or missing
// node, naming the first offending position.
func Parse(ctx context.Context, text string) (*Source, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(rust.GetLanguage())

	src := []byte(text)
	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("could not parse the code: %w", err)
	}
	s := &Source{text: text, src: src, lines: strings.Split(text, "\n"), tree: tree}
	root := tree.RootNode()
	if root.HasError() {
		if bad := firstError(root); bad != nil {
			pos := s.Start(bad)
			return nil, fmt.Errorf("could not parse the code: syntax error at line %d, column %d", pos.Line, pos.Column)
		}
		return nil, fmt.Errorf("could not parse the code")
	}
	return s, nil
}

// Check reports whether text parses cleanly. Every rewriting pass's output
// must satisfy it.
func Check(ctx context.Context, text string) error {
	_, err := Parse(ctx, text)
	return err
}

// Root returns the file node.
func (s *Source) Root() *sitter.Node {
	return s.tree.RootNode()
}

// Text returns the source text a node covers.
func (s *Source) Text(n *sitter.Node) string {
	return n.Content(s.src)
}

// Lines returns the source split into lines, without terminators.
func (s *Source) Lines() []string {
	return s.lines
}

// Start returns a node's start position in rune columns.
func (s *Source) Start(n *sitter.Node) textedit.Position {
	return s.position(n.StartPoint())
}

// End returns a node's end position in rune columns.
func (s *Source) End(n *sitter.Node) textedit.Position {
	return s.position(n.EndPoint())
}

// Span returns a node's extent.
func (s *Source) Span(n *sitter.Node) textedit.Span {
	return textedit.NewSpan(s.Start(n), s.End(n))
}

// position converts a tree-sitter point (byte column) to a rune column.
func (s *Source) position(p sitter.Point) textedit.Position {
	line := int(p.Row)
	col := int(p.Column)
	if line < len(s.lines) {
		text := s.lines[line]
		if col > len(text) {
			col = len(text)
		}
		col = utf8.RuneCountInString(text[:col])
	}
	return textedit.Position{Line: line + 1, Column: col}
}

func firstError(n *sitter.Node) *sitter.Node {
	if n.Type() == "ERROR" || n.IsMissing() {
		return n
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		if bad := firstError(n.Child(i)); bad != nil {
			return bad
		}
	}
	return nil
}

// Walk visits n and, when fn returns true, its named children in source
// order.
func Walk(n *sitter.Node, fn func(*sitter.Node) bool) {
	if !fn(n) {
		return
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		Walk(n.NamedChild(i), fn)
	}
}

// IsComment reports whether a node is a comment extra, which the grammar may
// interleave anywhere.
func IsComment(n *sitter.Node) bool {
	t := n.Type()
	return t == "line_comment" || t == "block_comment"
}
