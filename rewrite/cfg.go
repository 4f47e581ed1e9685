package rewrite

import (
	"context"

	sitter "github.com/smacker/go-tree-sitter"

	"bundrs/cfgexpr"
	"bundrs/rustsyn"
	"bundrs/textedit"
)

// attrsInside lists node kinds whose outer attributes sit inside the node as
// leading children rather than as preceding siblings.
var attrsInside = map[string]bool{
	"match_arm": true,
}

// ResolveCfgs prunes code under cfg attributes that are decidable at
// bundling time: a node whose predicate is definitely false is removed with
// all its attributes and never recursed into; a definitely true cfg
// attribute is removed while the node stays; undecidable predicates leave
// node and attribute untouched for the later compilation of the bundle.
// Attributes on one node are evaluated independently and their remove
// decisions OR-ed.
func ResolveCfgs(ctx context.Context, code string, features []string) (string, error) {
	src, err := rustsyn.Parse(ctx, code)
	if err != nil {
		return "", err
	}
	env := cfgexpr.DefaultEnv(features)
	var edits textedit.Set
	resolveNode(src, src.Root(), env, &edits)
	return edits.Apply(code), nil
}

func resolveNode(src *rustsyn.Source, n *sitter.Node, env cfgexpr.Env, edits *textedit.Set) {
	switch n.Type() {
	case "token_tree", "macro_definition":
		return
	}

	// Inner attributes configure the enclosing node itself.
	count := int(n.NamedChildCount())
	for i := 0; i < count; i++ {
		c := n.NamedChild(i)
		if c.Type() != "inner_attribute_item" {
			continue
		}
		attr, ok := src.ParseAttr(c)
		if !ok || attr.Path != "cfg" || attr.Args == "" {
			continue
		}
		expr, err := cfgexpr.Parse(attr.Args)
		if err != nil {
			continue
		}
		switch expr.Eval(env) {
		case cfgexpr.False:
			// a false inner attribute disables the item owning the body,
			// not just the body's braces
			target := n
			switch n.Type() {
			case "declaration_list", "block", "field_declaration_list":
				if p := n.Parent(); p != nil {
					target = p
				}
			}
			edits.Replace(itemSpan(src, target), "")
			return
		case cfgexpr.True:
			edits.Replace(src.Span(c), "")
		}
	}

	skipLeading := attrsInside[n.Type()]
	leading := true
	var pending []*sitter.Node
	for i := 0; i < count; i++ {
		c := n.NamedChild(i)
		t := c.Type()
		if t == "inner_attribute_item" || rustsyn.IsComment(c) {
			continue
		}
		if t == "attribute_item" {
			if skipLeading && leading {
				// decided together with n at its parent's level
				continue
			}
			pending = append(pending, c)
			continue
		}
		leading = false
		siblingAttrs := pending
		pending = nil
		resolveChild(src, c, siblingAttrs, env, edits)
	}
}

func resolveChild(src *rustsyn.Source, c *sitter.Node, siblingAttrs []*sitter.Node, env cfgexpr.Env, edits *textedit.Set) {
	attrNodes := siblingAttrs
	if attrsInside[c.Type()] {
		attrNodes = append(attrNodes, leadingAttrChildren(c)...)
	}

	anyFalse := false
	var trueAttrs []*sitter.Node
	for _, a := range attrNodes {
		attr, ok := src.ParseAttr(a)
		if !ok || attr.Path != "cfg" || attr.Args == "" {
			continue
		}
		expr, err := cfgexpr.Parse(attr.Args)
		if err != nil {
			// undecidable shapes stay in place
			continue
		}
		switch expr.Eval(env) {
		case cfgexpr.False:
			anyFalse = true
		case cfgexpr.True:
			trueAttrs = append(trueAttrs, a)
		}
	}

	if anyFalse {
		span := src.Span(c)
		if len(siblingAttrs) > 0 {
			span.Start = src.Start(siblingAttrs[0])
		}
		if comma := trailingComma(c); comma != nil {
			span.End = src.End(comma)
		}
		edits.Replace(span, "")
		return
	}
	for _, a := range trueAttrs {
		edits.Replace(src.Span(a), "")
	}
	resolveNode(src, c, env, edits)
}

func leadingAttrChildren(n *sitter.Node) []*sitter.Node {
	var attrs []*sitter.Node
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		if rustsyn.IsComment(c) {
			continue
		}
		if c.Type() != "attribute_item" {
			break
		}
		attrs = append(attrs, c)
	}
	return attrs
}

// trailingComma returns the comma token directly after a list element, so
// removing the element does not leave the list unparseable.
func trailingComma(n *sitter.Node) *sitter.Node {
	next := n.NextSibling()
	if next != nil && !next.IsNamed() && next.Type() == "," {
		return next
	}
	return nil
}
