package rewrite

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"bundrs/rustsyn"
	"bundrs/rusttok"
	"bundrs/textedit"
)

// UseKind discriminates use-tree nodes.
type UseKind int

const (
	UsePath UseKind = iota
	UseName
	UseRename
	UseGroup
	UseGlob
)

// UseTree is the shape of one use declaration's import clause.
type UseTree struct {
	Kind  UseKind
	Name  string
	Alias string
	Child *UseTree
	Items []*UseTree
}

// String renders the tree back to source form.
func (t *UseTree) String() string {
	switch t.Kind {
	case UsePath:
		return t.Name + "::" + t.Child.String()
	case UseRename:
		return t.Name + " as " + t.Alias
	case UseGroup:
		parts := make([]string, len(t.Items))
		for i, item := range t.Items {
			parts[i] = item.String()
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case UseGlob:
		return "*"
	default:
		return t.Name
	}
}

// ModNames is the fold of a use tree below one segment: either a finite set
// of names, or All once any glob makes the exact set unknowable. Merging is
// a commutative monoid with Scoped(empty) as identity and All absorbing.
type ModNames struct {
	All   bool
	Names map[string]struct{}
}

// ScopedNames builds a finite ModNames.
func ScopedNames(names ...string) ModNames {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return ModNames{Names: set}
}

// AllNames builds the absorbing element.
func AllNames() ModNames {
	return ModNames{All: true}
}

// Add merges two ModNames.
func (m ModNames) Add(o ModNames) ModNames {
	if m.All || o.All {
		return AllNames()
	}
	merged := make(map[string]struct{}, len(m.Names)+len(o.Names))
	for n := range m.Names {
		merged[n] = struct{}{}
	}
	for n := range o.Names {
		merged[n] = struct{}{}
	}
	return ModNames{Names: merged}
}

// Contains reports whether name is covered.
func (m ModNames) Contains(name string) bool {
	if m.All {
		return true
	}
	_, ok := m.Names[name]
	return ok
}

// Sorted returns the finite names in order, nil for All.
func (m ModNames) Sorted() []string {
	if m.All {
		return nil
	}
	names := make([]string, 0, len(m.Names))
	for n := range m.Names {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func extractFromDepth2(t *UseTree) ModNames {
	switch t.Kind {
	case UseGroup:
		acc := ScopedNames()
		for _, item := range t.Items {
			acc = acc.Add(extractFromDepth2(item))
		}
		return acc
	case UseGlob:
		return AllNames()
	default:
		return ScopedNames(t.Name)
	}
}

// flattenGroups explodes nested grouped trees into a list of plain trees.
func flattenGroups(t *UseTree) []*UseTree {
	if t.Kind != UseGroup {
		return []*UseTree{t}
	}
	var flat []*UseTree
	for _, item := range t.Items {
		flat = append(flat, flattenGroups(item)...)
	}
	return flat
}

// ParseUseClause parses the clause of a use declaration (the text between
// `use` and `;`). leadingColon reports an explicit ::-rooted path.
func ParseUseClause(clause string) (tree *UseTree, leadingColon bool, err error) {
	toks, err := rusttok.Lex(clause)
	if err != nil {
		return nil, false, fmt.Errorf("could not lex use clause %q: %w", clause, err)
	}
	if len(toks) >= 2 && isPunct(toks[0], ":") && isPunct(toks[1], ":") {
		leadingColon = true
		toks = toks[2:]
	}
	tree, rest, err := parseUseTree(toks)
	if err != nil {
		return nil, false, err
	}
	if len(rest) != 0 {
		return nil, false, fmt.Errorf("trailing tokens in use clause %q", clause)
	}
	return tree, leadingColon, nil
}

func parseUseTree(toks []rusttok.Token) (*UseTree, []rusttok.Token, error) {
	if len(toks) == 0 {
		return nil, nil, fmt.Errorf("empty use tree")
	}
	head := toks[0]
	switch {
	case head.Kind == rusttok.Group && head.Delim == rusttok.Brace:
		var items []*UseTree
		inner := head.Tokens
		for len(inner) > 0 {
			item, rest, err := parseUseTree(inner)
			if err != nil {
				return nil, nil, err
			}
			items = append(items, item)
			if len(rest) > 0 {
				if !isPunct(rest[0], ",") {
					return nil, nil, fmt.Errorf("expected comma in use group")
				}
				rest = rest[1:]
			}
			inner = rest
		}
		return &UseTree{Kind: UseGroup, Items: items}, toks[1:], nil
	case isPunct(head, "*"):
		return &UseTree{Kind: UseGlob}, toks[1:], nil
	case head.Kind == rusttok.Ident:
		if len(toks) >= 3 && isPunct(toks[1], ":") && isPunct(toks[2], ":") {
			child, rest, err := parseUseTree(toks[3:])
			if err != nil {
				return nil, nil, err
			}
			return &UseTree{Kind: UsePath, Name: head.Text, Child: child}, rest, nil
		}
		if len(toks) >= 3 && toks[1].Kind == rusttok.Ident && toks[1].Text == "as" && toks[2].Kind == rusttok.Ident {
			return &UseTree{Kind: UseRename, Name: head.Text, Alias: toks[2].Text}, toks[3:], nil
		}
		return &UseTree{Kind: UseName, Name: head.Text}, toks[1:], nil
	}
	return nil, nil, fmt.Errorf("unexpected token %q in use tree", head.Text)
}

func isPunct(t rusttok.Token, text string) bool {
	return t.Kind == rusttok.Punct && t.Text == text
}

// ExtractNames maps the first segment of every ::-rooted top-level use
// declaration to the names it imports below that segment. A glob directly
// under the root is not yet supported and fails loudly rather than being
// silently mis-analyzed.
func ExtractNames(ctx context.Context, code string) (map[string]ModNames, error) {
	trees, err := topLevelAbsoluteUses(ctx, code, nil)
	if err != nil {
		return nil, err
	}
	names := map[string]ModNames{}
	for _, tree := range trees {
		for _, flat := range flattenGroups(tree) {
			switch flat.Kind {
			case UsePath:
				names[flat.Name] = names[flat.Name].Add(extractFromDepth2(flat.Child))
			case UseName, UseRename:
				names[flat.Name] = AllNames()
			case UseGlob:
				return nil, fmt.Errorf("`use ::*;` is not yet supported")
			}
		}
	}
	return names, nil
}

// CommentOutAbsoluteUses comments out every ::-rooted top-level use
// declaration (the aggregate root will provide them instead) and returns the
// rewritten code together with the parsed clauses.
func CommentOutAbsoluteUses(ctx context.Context, code string) (string, []*UseTree, error) {
	var edits textedit.Set
	trees, err := topLevelAbsoluteUses(ctx, code, &edits)
	if err != nil {
		return "", nil, err
	}
	return edits.Apply(code), trees, nil
}

// ShiftUses renders ::-rooted clauses as crate-rooted declarations for the
// aggregate root, one per flattened tree.
func ShiftUses(trees []*UseTree) []string {
	var out []string
	for _, tree := range trees {
		for _, flat := range flattenGroups(tree) {
			out = append(out, "use crate::"+flat.String()+";")
		}
	}
	return out
}

func topLevelAbsoluteUses(ctx context.Context, code string, commentOut *textedit.Set) ([]*UseTree, error) {
	src, err := rustsyn.Parse(ctx, code)
	if err != nil {
		return nil, err
	}
	var trees []*UseTree
	root := src.Root()
	for i := 0; i < int(root.NamedChildCount()); i++ {
		n := root.NamedChild(i)
		if n.Type() != "use_declaration" {
			continue
		}
		text := src.Text(n)
		idx := strings.Index(text, "use")
		if idx < 0 {
			continue
		}
		clause := strings.TrimSuffix(strings.TrimSpace(text[idx+len("use"):]), ";")
		tree, leadingColon, err := ParseUseClause(clause)
		if err != nil {
			return nil, err
		}
		if !leadingColon {
			continue
		}
		trees = append(trees, tree)
		if commentOut != nil {
			span := itemSpan(src, n)
			commentOut.Insert(span.Start, "/*")
			commentOut.Insert(span.End, "*/")
		}
	}
	return trees, nil
}
