package rewrite

import (
	"context"

	sitter "github.com/smacker/go-tree-sitter"

	"bundrs/rustsyn"
	"bundrs/rusttok"
	"bundrs/textedit"
)

// QualifyMacroHygiene inserts `::<externCrateName>` after every bare $crate
// reference inside exported macro_rules! bodies. $crate is hygiene syntax
// inside unparsed token trees, so matching happens over raw token streams,
// not paths. A $crate immediately followed by `::ident!` already resolves as
// a sibling macro invocation and is excluded; qualifying it would name a
// nested macro path that does not exist. Non-exported macros are never
// referenced from outside the unit and stay untouched.
func QualifyMacroHygiene(ctx context.Context, code, externCrateName string) (string, error) {
	src, err := rustsyn.Parse(ctx, code)
	if err != nil {
		return "", err
	}

	points := map[textedit.Position]struct{}{}
	var scanErr error
	rustsyn.Walk(src.Root(), func(n *sitter.Node) bool {
		if scanErr != nil {
			return false
		}
		if n.Type() != "macro_definition" {
			return true
		}
		if !src.HasOuterAttr(n, "macro_export") {
			return false
		}
		toks, err := rusttok.LexAt(src.Text(n), src.Start(n))
		if err != nil {
			scanErr = err
			return false
		}
		findDollarCrates(toks, points)
		excludeCrateMacros(toks, points)
		return false
	})
	if scanErr != nil {
		return "", scanErr
	}

	var edits textedit.Set
	for p := range points {
		edits.Insert(p, "::"+externCrateName)
	}
	return edits.Apply(code), nil
}

// findDollarCrates records the end position of the `crate` in every
// sigil+identifier pair, recursing into nested groups.
func findDollarCrates(toks []rusttok.Token, acc map[textedit.Position]struct{}) {
	for i, t := range toks {
		if t.Kind == rusttok.Group {
			findDollarCrates(t.Tokens, acc)
			continue
		}
		if t.Kind == rusttok.Punct && t.Text == "$" && i+1 < len(toks) {
			next := toks[i+1]
			if next.Kind == rusttok.Ident && next.Text == "crate" {
				acc[next.Span.End] = struct{}{}
			}
		}
	}
}

// excludeCrateMacros drops recorded points that sit inside the six-token
// window `$ crate : : ident !`.
func excludeCrateMacros(toks []rusttok.Token, acc map[textedit.Position]struct{}) {
	for i := 0; i+5 < len(toks); i++ {
		if isPunct(toks[i], "$") &&
			toks[i+1].Kind == rusttok.Ident && toks[i+1].Text == "crate" &&
			isPunct(toks[i+2], ":") && isPunct(toks[i+3], ":") &&
			toks[i+4].Kind == rusttok.Ident &&
			isPunct(toks[i+5], "!") {
			delete(acc, toks[i+1].Span.End)
		}
	}
	for _, t := range toks {
		if t.Kind == rusttok.Group {
			excludeCrateMacros(t.Tokens, acc)
		}
	}
}
