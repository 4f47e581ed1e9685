package rewrite

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"bundrs/rustsyn"
	"bundrs/textedit"
)

// ListModNames returns the names of all top-level modules, inline or
// out-of-line, in source order.
func ListModNames(ctx context.Context, code string) ([]string, error) {
	src, err := rustsyn.Parse(ctx, code)
	if err != nil {
		return nil, err
	}
	var names []string
	root := src.Root()
	for i := 0; i < int(root.NamedChildCount()); i++ {
		n := root.NamedChild(i)
		if n.Type() != "mod_item" {
			continue
		}
		if nameNode := n.ChildByFieldName("name"); nameNode != nil {
			names = append(names, src.Text(nameNode))
		}
	}
	return names, nil
}

// StripUnreachable deletes top-level modules the predicate rejects, each with
// its outer attributes, and reports which names survived.
func StripUnreachable(ctx context.Context, code string, reachable func(string) bool) (string, map[string]bool, error) {
	src, err := rustsyn.Parse(ctx, code)
	if err != nil {
		return "", nil, err
	}
	kept := map[string]bool{}
	var edits textedit.Set
	root := src.Root()
	for i := 0; i < int(root.NamedChildCount()); i++ {
		n := root.NamedChild(i)
		if n.Type() != "mod_item" {
			continue
		}
		nameNode := n.ChildByFieldName("name")
		if nameNode == nil {
			continue
		}
		name := src.Text(nameNode)
		if reachable(name) {
			kept[name] = true
			continue
		}
		edits.Replace(itemSpan(src, n), "")
	}
	return edits.Apply(code), kept, nil
}

// StripTopLevel removes every top-level item that is not a module or an
// extern crate declaration. Inner attributes and comments stay; attributes
// belonging to a removed item go with it.
func StripTopLevel(ctx context.Context, code string) (string, error) {
	src, err := rustsyn.Parse(ctx, code)
	if err != nil {
		return "", err
	}
	var edits textedit.Set
	var pending []*sitter.Node
	root := src.Root()
	for i := 0; i < int(root.NamedChildCount()); i++ {
		n := root.NamedChild(i)
		switch {
		case n.Type() == "inner_attribute_item" || rustsyn.IsComment(n):
			continue
		case n.Type() == "attribute_item":
			pending = append(pending, n)
			continue
		case n.Type() == "mod_item" || n.Type() == "extern_crate_declaration":
			pending = nil
			continue
		}
		span := src.Span(n)
		if len(pending) > 0 {
			span.Start = src.Start(pending[0])
		}
		pending = nil
		edits.Replace(span, "")
	}
	return edits.Apply(code), nil
}

// ReplaceExternCrates rewrites every top-level `extern crate name [as alias];`
// into `use crate::<mapped> as <binding>;`, asking convert for the bundled
// module path of each crate name. Visibility and outer attributes on the
// declaration are preserved.
func ReplaceExternCrates(ctx context.Context, code string, convert func(name string) (string, error)) (string, error) {
	src, err := rustsyn.Parse(ctx, code)
	if err != nil {
		return "", err
	}
	var edits textedit.Set
	var convErr error
	root := src.Root()
	for i := 0; i < int(root.NamedChildCount()); i++ {
		n := root.NamedChild(i)
		if n.Type() != "extern_crate_declaration" {
			continue
		}
		nameNode := n.ChildByFieldName("name")
		if nameNode == nil {
			continue
		}
		name := src.Text(nameNode)
		binding := name
		if aliasNode := n.ChildByFieldName("alias"); aliasNode != nil {
			binding = src.Text(aliasNode)
		}
		mapped, err := convert(name)
		if err != nil {
			convErr = err
			break
		}
		vis := ""
		if visNode := namedChildOfType(n, "visibility_modifier"); visNode != nil {
			vis = src.Text(visNode) + " "
		}
		edits.Replace(src.Span(n), vis+"use crate::"+mapped+" as "+binding+";")
	}
	if convErr != nil {
		return "", convErr
	}
	return edits.Apply(code), nil
}

// CommentOutMacroUses disables `#[macro_use] extern crate name as _;` items
// whose macros are not directly available in the bundle. The item and its
// attributes are wrapped in a block comment rather than deleted so the reader
// can see what was dropped.
func CommentOutMacroUses(ctx context.Context, code string, directlyAvailable func(string) bool) (string, error) {
	src, err := rustsyn.Parse(ctx, code)
	if err != nil {
		return "", err
	}
	var edits textedit.Set
	root := src.Root()
	for i := 0; i < int(root.NamedChildCount()); i++ {
		n := root.NamedChild(i)
		if n.Type() != "extern_crate_declaration" {
			continue
		}
		aliasNode := n.ChildByFieldName("alias")
		if aliasNode == nil || src.Text(aliasNode) != "_" {
			continue
		}
		if !src.HasOuterAttr(n, "macro_use") {
			continue
		}
		nameNode := n.ChildByFieldName("name")
		if nameNode == nil || directlyAvailable(src.Text(nameNode)) {
			continue
		}
		span := itemSpan(src, n)
		edits.Insert(span.Start, "/*")
		edits.Insert(span.End, "*/")
	}
	return edits.Apply(code), nil
}

// PrependModDoc hoists the root's existing module documentation above a
// generated banner, keeping any interpreter directive first. Existing docs
// may be `//!` comments or inner doc attributes in any mix.
func PrependModDoc(ctx context.Context, code string, banner []string) (string, error) {
	shebang := ""
	rest := code
	if strings.HasPrefix(code, "#!") && !strings.HasPrefix(code, "#![") {
		if i := strings.Index(code, "\n"); i >= 0 {
			shebang = code[:i+1]
			rest = code[i+1:]
		} else {
			shebang = code + "\n"
			rest = ""
		}
	}

	src, err := rustsyn.Parse(ctx, rest)
	if err != nil {
		return "", err
	}
	lines := src.Lines()
	m := newLineMask(lines, false)
	var docs []string
	root := src.Root()
	for i := 0; i < int(root.NamedChildCount()); i++ {
		n := root.NamedChild(i)
		switch n.Type() {
		case "line_comment":
			text := src.Text(n)
			if strings.HasPrefix(text, "//!") {
				docs = append(docs, strings.TrimPrefix(text, "//!"))
				m.set(src.Span(n), true)
				continue
			}
		case "inner_attribute_item":
			if attr, ok := src.ParseAttr(n); ok && attr.Path == "doc" && attr.Value != "" {
				docs = append(docs, attr.Value)
				m.set(src.Span(n), true)
				continue
			}
		}
		if rustsyn.IsComment(n) || n.Type() == "inner_attribute_item" {
			continue
		}
		break
	}
	body := strings.TrimLeft(m.apply(lines), " \n")

	var b strings.Builder
	b.WriteString(shebang)
	for _, d := range docs {
		b.WriteString("//!" + d + "\n")
	}
	if len(docs) > 0 && len(banner) > 0 {
		b.WriteString("//!\n")
	}
	for _, line := range banner {
		if line == "" {
			b.WriteString("//!\n")
			continue
		}
		b.WriteString("//! " + line + "\n")
	}
	b.WriteString("\n")
	b.WriteString(body)
	return b.String(), nil
}

func namedChildOfType(n *sitter.Node, kind string) *sitter.Node {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		if c.Type() == kind {
			return c
		}
	}
	return nil
}
