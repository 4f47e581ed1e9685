package rustsyn

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"bundrs/rusttok"
)

// Attr is one parsed attribute: #[path], #[path(args)] or #[path = "value"].
type Attr struct {
	Node  *sitter.Node
	Inner bool
	// Path is the attribute path, e.g. "cfg", "doc", "macro_export".
	Path string
	// Args holds the raw text inside the parenthesised list, if any.
	Args string
	// Value holds the unquoted string after =, if any.
	Value string
}

// ParseAttr interprets an attribute_item or inner_attribute_item node.
func (s *Source) ParseAttr(n *sitter.Node) (Attr, bool) {
	attr := Attr{Node: n}
	text := s.Text(n)
	switch {
	case strings.HasPrefix(text, "#!["):
		attr.Inner = true
		text = strings.TrimPrefix(text, "#![")
	case strings.HasPrefix(text, "#["):
		text = strings.TrimPrefix(text, "#[")
	default:
		return Attr{}, false
	}
	if !strings.HasSuffix(text, "]") {
		return Attr{}, false
	}
	text = text[:len(text)-1]

	if open := strings.IndexByte(text, '('); open >= 0 {
		close := strings.LastIndexByte(text, ')')
		if close < open {
			return Attr{}, false
		}
		attr.Path = strings.TrimSpace(text[:open])
		attr.Args = strings.TrimSpace(text[open+1 : close])
		return attr, attr.Path != ""
	}
	if eq := strings.IndexByte(text, '='); eq >= 0 {
		attr.Path = strings.TrimSpace(text[:eq])
		if v, ok := rusttok.Unquote(strings.TrimSpace(text[eq+1:])); ok {
			attr.Value = v
		}
		return attr, attr.Path != ""
	}
	attr.Path = strings.TrimSpace(text)
	return attr, attr.Path != ""
}

// OuterAttrs collects the outer attributes attached to n: attribute_item
// nodes written immediately before it (comments in between are skipped), plus
// leading attribute_item children for kinds that carry them inside, the way
// match arms do.
func (s *Source) OuterAttrs(n *sitter.Node) []Attr {
	var attrs []Attr
	for prev := n.PrevNamedSibling(); prev != nil; prev = prev.PrevNamedSibling() {
		if IsComment(prev) {
			continue
		}
		if prev.Type() != "attribute_item" {
			break
		}
		if attr, ok := s.ParseAttr(prev); ok {
			attrs = append([]Attr{attr}, attrs...)
		}
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		if IsComment(c) {
			continue
		}
		if c.Type() != "attribute_item" {
			break
		}
		if attr, ok := s.ParseAttr(c); ok {
			attrs = append(attrs, attr)
		}
	}
	return attrs
}

// HasOuterAttr reports whether n carries an outer attribute with the given
// path.
func (s *Source) HasOuterAttr(n *sitter.Node, path string) bool {
	for _, attr := range s.OuterAttrs(n) {
		if attr.Path == path {
			return true
		}
	}
	return false
}

// ChildToken returns the first non-named child with the given token text,
// e.g. the ";" of an out-of-line module declaration.
func ChildToken(n *sitter.Node, text string) *sitter.Node {
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		if !c.IsNamed() && c.Type() == text {
			return c
		}
	}
	return nil
}
