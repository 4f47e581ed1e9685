package rewrite

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/viant/afs"

	"bundrs/rustsyn"
	"bundrs/rusttok"
	"bundrs/textedit"
)

// Expander inlines out-of-line module declarations by reading the files that
// back them. It is the only pass that touches the filesystem; reads go
// through an afs.Service so callers control the capability.
type Expander struct {
	fs afs.Service
}

// NewExpander creates an expander; a nil service defaults to the local
// filesystem.
func NewExpander(fs afs.Service) *Expander {
	if fs == nil {
		fs = afs.New()
	}
	return &Expander{fs: fs}
}

// Expand reads the unit root at srcPath and recursively replaces every
// `mod name;` declaration with `mod name { ... }`, resolving module files by
// the two on-disk conventions and failing with every candidate tried when
// none exists.
func (e *Expander) Expand(ctx context.Context, srcPath string) (string, error) {
	return e.expand(ctx, srcPath, 0)
}

func (e *Expander) expand(ctx context.Context, srcPath string, depth int) (string, error) {
	data, err := e.fs.DownloadWithURL(ctx, srcPath)
	if err != nil {
		return "", fmt.Errorf("could not read %q: %w", srcPath, err)
	}
	code := string(data)
	src, err := rustsyn.Parse(ctx, code)
	if err != nil {
		return "", fmt.Errorf("could not parse %q: %w", srcPath, err)
	}

	var edits textedit.Set
	root := src.Root()
	for i := 0; i < int(root.NamedChildCount()); i++ {
		n := root.NamedChild(i)
		if n.Type() != "mod_item" || n.ChildByFieldName("body") != nil {
			continue
		}
		nameNode := n.ChildByFieldName("name")
		semi := rustsyn.ChildToken(n, ";")
		if nameNode == nil || semi == nil {
			continue
		}
		name := src.Text(nameNode)

		candidates := e.candidates(src, n, srcPath, name, depth)
		resolved := ""
		for _, candidate := range candidates {
			if ok, _ := e.fs.Exists(ctx, candidate); ok {
				resolved = candidate
				break
			}
		}
		if resolved == "" {
			return "", fmt.Errorf("could not resolve module %q declared in %q: none of %v exists", name, srcPath, candidates)
		}

		body, err := e.expand(ctx, resolved, depth+1)
		if err != nil {
			return "", err
		}
		body = Indent(body, depth+1)
		edits.Replace(src.Span(semi), " {\n"+body+strings.Repeat("    ", depth+1)+"}")
	}
	return edits.Apply(code), nil
}

// candidates lists the files that may back the declaration, most specific
// first. A crate root or a directory-entry file resolves beside itself; an
// ordinary nested file resolves beside its extension-stripped path. The
// asymmetry mirrors the two historical module layouts and must not be
// collapsed.
func (e *Expander) candidates(src *rustsyn.Source, n *sitter.Node, srcPath, name string, depth int) []string {
	for _, attr := range src.OuterAttrs(n) {
		if attr.Path == "path" && attr.Value != "" {
			return []string{filepath.Join(filepath.Dir(srcPath), attr.Value)}
		}
	}
	if depth == 0 || filepath.Base(srcPath) == "mod.rs" {
		dir := filepath.Dir(srcPath)
		return []string{
			filepath.Join(dir, name+".rs"),
			filepath.Join(dir, name, "mod.rs"),
		}
	}
	stem := strings.TrimSuffix(srcPath, filepath.Ext(srcPath))
	return []string{
		filepath.Join(stem, name+".rs"),
		filepath.Join(stem, name, "mod.rs"),
	}
}

// Indent shifts code right by n levels. Code containing a multi-line literal
// is returned untouched: shifting would corrupt the literal's text.
func Indent(code string, n int) string {
	toks, err := rusttok.Lex(code)
	if err != nil || rusttok.HasMultilineLiteral(toks) {
		return code
	}
	pad := strings.Repeat("    ", n)
	lines := strings.Split(code, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	var b strings.Builder
	for _, line := range lines {
		if line == "" {
			b.WriteString("\n")
			continue
		}
		b.WriteString(pad)
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}
