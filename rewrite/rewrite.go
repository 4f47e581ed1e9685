// Package rewrite implements the source-to-source passes that turn one
// crate's text into a form that can be nested inside an aggregate namespace:
// module inlining, cfg resolution, crate-path and macro-hygiene
// qualification, dead-module stripping, doc/comment erasure and
// minification. Every pass computes spans against the text it was given and
// applies them through a textedit.Set; output of each pass must still parse.
package rewrite

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"bundrs/rustsyn"
	"bundrs/textedit"
)

// stripShebang removes a leading interpreter-directive line. A leading
// #![...] inner attribute is not a shebang.
func stripShebang(code string) string {
	if strings.HasPrefix(code, "#!") && !strings.HasPrefix(code, "#![") {
		if i := strings.IndexByte(code, '\n'); i >= 0 {
			return code[i+1:]
		}
		return ""
	}
	return code
}

// outerAttrNodes returns the attribute_item siblings written immediately
// before n, in source order, skipping interleaved comments.
func outerAttrNodes(n *sitter.Node) []*sitter.Node {
	var attrs []*sitter.Node
	for prev := n.PrevNamedSibling(); prev != nil; prev = prev.PrevNamedSibling() {
		if rustsyn.IsComment(prev) {
			continue
		}
		if prev.Type() != "attribute_item" {
			break
		}
		attrs = append([]*sitter.Node{prev}, attrs...)
	}
	return attrs
}

// itemSpan is the extent of an item together with its outer attributes.
func itemSpan(src *rustsyn.Source, n *sitter.Node) textedit.Span {
	span := src.Span(n)
	if attrs := outerAttrNodes(n); len(attrs) > 0 {
		span.Start = src.Start(attrs[0])
	}
	return span
}
