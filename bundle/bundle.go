// Package bundle drives the rewriting passes that turn a set of library
// units into one self-contained source file.
package bundle

import (
	"context"
	"fmt"
	"strings"

	"github.com/viant/afs"
	"golang.org/x/sync/errgroup"

	"bundrs/rewrite"
	"bundrs/rustsyn"
	"bundrs/shell"
)

// Unit is one library crate being folded into the bundle. Source holds the
// rewritten text as passes run; Modules is captured before erasure so
// reachability can still be decided on minified output.
type Unit struct {
	ID       UnitID
	Name     string
	RootPath string
	Features []string
	Source   string
	Modules  []string
}

// NewUnit builds a unit for the library rooted at rootPath, nested into the
// bundle as crate::<name>.
func NewUnit(name, rootPath string, features []string) *Unit {
	return &Unit{
		ID:       Identify(rootPath),
		Name:     name,
		RootPath: rootPath,
		Features: features,
	}
}

// ModuleRef names one top-level module of one unit.
type ModuleRef struct {
	Unit UnitID
	Name string
}

// Bundler applies a profile's passes to units and renders the result.
type Bundler struct {
	fs      afs.Service
	sh      *shell.Shell
	profile *Profile
}

func New(fs afs.Service, sh *shell.Shell, profile *Profile) *Bundler {
	if fs == nil {
		fs = afs.New()
	}
	if sh == nil {
		sh = shell.New(nil)
	}
	if profile == nil {
		profile = DefaultProfile()
	}
	return &Bundler{fs: fs, sh: sh, profile: profile}
}

// Process runs the rewriting pipeline over one unit in place. Pass order is
// fixed: expansion first so later passes see the whole unit, structural
// rewrites before erasure so they still see layout, minification last.
func (b *Bundler) Process(ctx context.Context, u *Unit) error {
	fail := func(err error) error {
		return fmt.Errorf("unit %q: %w", u.Name, err)
	}
	verify := func(pass string) error {
		if !b.profile.Verify {
			return nil
		}
		if err := rustsyn.Check(ctx, u.Source); err != nil {
			return fmt.Errorf("post-condition violated after %s for unit %q: %w", pass, u.Name, err)
		}
		return nil
	}

	b.sh.Statusf("Bundling", "%s (%s)", u.Name, u.RootPath)

	source, err := rewrite.NewExpander(b.fs).Expand(ctx, u.RootPath)
	if err != nil {
		return fail(err)
	}
	u.Source = source
	if err := verify("expansion"); err != nil {
		return err
	}

	if b.profile.ResolveCfgs {
		if u.Source, err = rewrite.ResolveCfgs(ctx, u.Source, u.Features); err != nil {
			return fail(err)
		}
		if err := verify("cfg resolution"); err != nil {
			return err
		}
	}

	if u.Source, err = rewrite.QualifyCratePaths(ctx, u.Source, u.Name, b.sh); err != nil {
		return fail(err)
	}
	if err := verify("crate path qualification"); err != nil {
		return err
	}

	if u.Source, err = rewrite.QualifyMacroHygiene(ctx, u.Source, u.Name); err != nil {
		return fail(err)
	}
	if err := verify("macro hygiene"); err != nil {
		return err
	}

	if u.Modules, err = rewrite.ListModNames(ctx, u.Source); err != nil {
		return fail(err)
	}

	if b.profile.EraseDocs {
		if u.Source, err = rewrite.EraseDocs(ctx, u.Source); err != nil {
			return fail(err)
		}
		if err := verify("doc erasure"); err != nil {
			return err
		}
	}

	if b.profile.EraseComments {
		if u.Source, err = rewrite.EraseComments(ctx, u.Source); err != nil {
			return fail(err)
		}
		if err := verify("comment erasure"); err != nil {
			return err
		}
	}

	if b.profile.Minify {
		if u.Source, err = rewrite.Minify(ctx, u.Source, b.sh, u.Name); err != nil {
			return fail(err)
		}
	}
	return nil
}

// Bundle processes every unit concurrently and renders them in input order,
// each nested as a public module under its unit name.
func (b *Bundler) Bundle(ctx context.Context, units []*Unit) (string, error) {
	g, gctx := errgroup.WithContext(ctx)
	for _, u := range units {
		u := u
		g.Go(func() error {
			return b.Process(gctx, u)
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}

	var out strings.Builder
	for _, u := range units {
		out.WriteString("pub mod " + u.Name + " {\n")
		out.WriteString(rewrite.Indent(u.Source, 1))
		out.WriteString("}\n")
	}
	return out.String(), nil
}

// StripUnreachable removes, from each unit, the top-level modules the
// reachability set does not include.
func (b *Bundler) StripUnreachable(ctx context.Context, units []*Unit, reachable map[ModuleRef]struct{}) error {
	for _, u := range units {
		source, kept, err := rewrite.StripUnreachable(ctx, u.Source, func(name string) bool {
			_, ok := reachable[ModuleRef{Unit: u.ID, Name: name}]
			return ok
		})
		if err != nil {
			return fmt.Errorf("unit %q: %w", u.Name, err)
		}
		u.Source = source
		modules := u.Modules[:0]
		for _, name := range u.Modules {
			if kept[name] {
				modules = append(modules, name)
			}
		}
		u.Modules = modules
	}
	return nil
}
