package rewrite

import (
	"context"

	sitter "github.com/smacker/go-tree-sitter"

	"bundrs/rustsyn"
	"bundrs/shell"
	"bundrs/textedit"
)

// QualifyCratePaths rewrites a unit's self-referencing `crate` paths and
// crate-restricted visibilities so the unit still resolves once nested as
// crate::<externCrateName>. Paths inside unparsed macro token trees are left
// alone; the hygiene pass owns those. A non-fatal advisory is emitted when
// anything was rewritten, since such paths mean the unit was not written to
// be relocation-safe.
func QualifyCratePaths(ctx context.Context, code, externCrateName string, sh *shell.Shell) (string, error) {
	src, err := rustsyn.Parse(ctx, code)
	if err != nil {
		return "", err
	}

	var edits textedit.Set
	rustsyn.Walk(src.Root(), func(n *sitter.Node) bool {
		switch n.Type() {
		case "token_tree", "macro_definition":
			return false
		case "extern_crate_declaration":
			// the `crate` keyword there is not a path segment
			return false
		case "visibility_modifier":
			qualifyVisibility(src, n, externCrateName, &edits)
			return false
		case "crate":
			edits.Insert(src.End(n), "::"+externCrateName)
		}
		return true
	})

	if edits.Empty() {
		return code, nil
	}
	sh.Warnf("found `crate` paths. replacing them with `crate::%s`", externCrateName)
	return edits.Apply(code), nil
}

// qualifyVisibility handles the two restricted forms: `pub(crate)` must grow
// an explicit `in` so the result parses as the arbitrary-path form
// `pub(in crate::name)`, while `pub(in crate::...)` only needs the segment
// qualified.
func qualifyVisibility(src *rustsyn.Source, vis *sitter.Node, externCrateName string, edits *textedit.Set) {
	hasIn := false
	for i := 0; i < int(vis.ChildCount()); i++ {
		if vis.Child(i).Type() == "in" {
			hasIn = true
			break
		}
	}
	var crateNode *sitter.Node
	rustsyn.Walk(vis, func(n *sitter.Node) bool {
		if crateNode != nil {
			return false
		}
		if n.Type() == "crate" {
			crateNode = n
			return false
		}
		return true
	})
	if crateNode == nil {
		return
	}
	if !hasIn {
		edits.Insert(src.Start(crateNode), "in ")
	}
	edits.Insert(src.End(crateNode), "::"+externCrateName)
}
