package bundle_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bundrs/bundle"
	"bundrs/rustsyn"
	"bundrs/shell"
)

func TestIdentify(t *testing.T) {
	a := bundle.Identify("/tmp/crates/alpha/src/lib.rs")
	b := bundle.Identify("/tmp/crates/beta/src/lib.rs")
	assert.Equal(t, a, bundle.Identify("/tmp/crates/alpha/src/lib.rs"), "identity is deterministic")
	assert.NotEqual(t, a, b)
}

func TestLoadProfile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "profile.yaml")
	require.NoError(t, os.WriteFile(path, []byte("eraseDocs: true\nminify: true\nfeatures:\n  - std\n"), 0o644))

	profile, err := bundle.LoadProfile(context.Background(), nil, path)
	require.NoError(t, err)
	assert.True(t, profile.EraseDocs)
	assert.True(t, profile.Minify)
	assert.Equal(t, []string{"std"}, profile.Features)
	assert.True(t, profile.ResolveCfgs, "unset fields keep their defaults")
	assert.True(t, profile.Verify)
	assert.False(t, profile.EraseComments)
}

func TestLoadProfileMissing(t *testing.T) {
	_, err := bundle.LoadProfile(context.Background(), nil, filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func writeCrate(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

func TestProcess(t *testing.T) {
	dir := writeCrate(t, map[string]string{
		"src/lib.rs": `mod util;

#[cfg(test)]
mod tests {
    fn t() {}
}

pub fn entry() -> u32 {
    util::value()
}
`,
		"src/util.rs": "pub(crate) fn value() -> u32 { 42 }\n",
	})

	var out bytes.Buffer
	b := bundle.New(nil, shell.New(&out), bundle.DefaultProfile())
	u := bundle.NewUnit("mylib", filepath.Join(dir, "src", "lib.rs"), nil)
	require.NoError(t, b.Process(context.Background(), u))

	assert.Contains(t, u.Source, "mod util {")
	assert.Contains(t, u.Source, "pub(in crate::mylib)")
	assert.NotContains(t, u.Source, "mod tests")
	assert.Equal(t, []string{"util"}, u.Modules)
	assert.Contains(t, out.String(), "warning", "crate path rewriting emits an advisory")
	assert.NoError(t, rustsyn.Check(context.Background(), u.Source))
}

func TestBundle(t *testing.T) {
	first := writeCrate(t, map[string]string{
		"src/lib.rs": "pub fn one() -> u32 { 1 }\n",
	})
	second := writeCrate(t, map[string]string{
		"src/lib.rs": "pub fn two() -> u32 { 2 }\n",
	})

	var out bytes.Buffer
	b := bundle.New(nil, shell.New(&out), bundle.DefaultProfile())
	units := []*bundle.Unit{
		bundle.NewUnit("first", filepath.Join(first, "src", "lib.rs"), nil),
		bundle.NewUnit("second", filepath.Join(second, "src", "lib.rs"), nil),
	}
	bundled, err := b.Bundle(context.Background(), units)
	require.NoError(t, err)

	assert.Contains(t, bundled, "pub mod first {")
	assert.Contains(t, bundled, "pub mod second {")
	assert.Less(t,
		strings.Index(bundled, "pub mod first"),
		strings.Index(bundled, "pub mod second"),
		"units render in input order")
	assert.NoError(t, rustsyn.Check(context.Background(), bundled))
}

func TestBundleFailsOnBrokenUnit(t *testing.T) {
	dir := writeCrate(t, map[string]string{
		"src/lib.rs": "fn broken( {\n",
	})
	b := bundle.New(nil, shell.New(&bytes.Buffer{}), bundle.DefaultProfile())
	units := []*bundle.Unit{bundle.NewUnit("bad", filepath.Join(dir, "src", "lib.rs"), nil)}
	_, err := b.Bundle(context.Background(), units)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unit "bad"`)
}

func TestStripUnreachable(t *testing.T) {
	b := bundle.New(nil, shell.New(&bytes.Buffer{}), bundle.DefaultProfile())
	u := &bundle.Unit{
		ID:      bundle.Identify("root"),
		Name:    "lib",
		Source:  "mod a {}\nmod b {}\n",
		Modules: []string{"a", "b"},
	}
	reachable := map[bundle.ModuleRef]struct{}{
		{Unit: u.ID, Name: "a"}: {},
	}
	require.NoError(t, b.StripUnreachable(context.Background(), []*bundle.Unit{u}, reachable))
	assert.Contains(t, u.Source, "mod a")
	assert.NotContains(t, u.Source, "mod b")
	assert.Equal(t, []string{"a"}, u.Modules)
}
