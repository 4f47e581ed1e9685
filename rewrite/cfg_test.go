package rewrite_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bundrs/rewrite"
	"bundrs/rustsyn"
)

func TestResolveCfgsItems(t *testing.T) {
	code := `#[cfg(feature = "alloc")]
pub fn with_alloc() {}

#[cfg(test)]
mod tests {
    #[test]
    fn t() {}
}

#[cfg(target_os = "linux")]
fn linux_only() {}

fn always() {}
`
	rewritten, err := rewrite.ResolveCfgs(context.Background(), code, []string{"alloc"})
	require.NoError(t, err)

	assert.Contains(t, rewritten, "pub fn with_alloc()")
	assert.NotContains(t, rewritten, `feature = "alloc"`, "a true cfg attribute is consumed")
	assert.NotContains(t, rewritten, "mod tests")
	assert.Contains(t, rewritten, `#[cfg(target_os = "linux")]`, "undecidable cfgs stay verbatim")
	assert.Contains(t, rewritten, "fn linux_only()")
	assert.Contains(t, rewritten, "fn always()")
	assert.NoError(t, rustsyn.Check(context.Background(), rewritten))
}

func TestResolveCfgsFeatureInactive(t *testing.T) {
	code := `#[cfg(feature = "alloc")]
pub fn with_alloc() {}

fn always() {}
`
	rewritten, err := rewrite.ResolveCfgs(context.Background(), code, nil)
	require.NoError(t, err)
	assert.NotContains(t, rewritten, "with_alloc")
	assert.Contains(t, rewritten, "fn always()")
}

func TestResolveCfgsMultipleAttrs(t *testing.T) {
	code := `#[cfg(feature = "std")]
#[cfg(test)]
fn both() {}
`
	rewritten, err := rewrite.ResolveCfgs(context.Background(), code, []string{"std"})
	require.NoError(t, err)
	assert.NotContains(t, rewritten, "fn both", "one false attribute removes the item")
}

func TestResolveCfgsMatchArms(t *testing.T) {
	code := `fn pick(x: u32) -> u32 {
    match x {
        #[cfg(feature = "std")]
        0 => 10,
        #[cfg(test)]
        1 => 20,
        _ => 30,
    }
}
`
	rewritten, err := rewrite.ResolveCfgs(context.Background(), code, []string{"std"})
	require.NoError(t, err)
	assert.Contains(t, rewritten, "0 => 10")
	assert.NotContains(t, rewritten, `feature = "std"`)
	assert.NotContains(t, rewritten, "1 => 20")
	assert.Contains(t, rewritten, "_ => 30")
	assert.NoError(t, rustsyn.Check(context.Background(), rewritten))
}

func TestResolveCfgsInnerAttribute(t *testing.T) {
	code := `mod gone {
    #![cfg(test)]
    pub fn f() {}
}

mod kept {
    #![cfg(feature = "std")]
    pub fn g() {}
}
`
	rewritten, err := rewrite.ResolveCfgs(context.Background(), code, []string{"std"})
	require.NoError(t, err)
	assert.NotContains(t, rewritten, "mod gone")
	assert.Contains(t, rewritten, "mod kept")
	assert.Contains(t, rewritten, "pub fn g()")
	assert.NotContains(t, rewritten, `#![cfg(feature = "std")]`)
	assert.NoError(t, rustsyn.Check(context.Background(), rewritten))
}

func TestResolveCfgsLeavesMacroBodies(t *testing.T) {
	code := `macro_rules! m {
    () => {
        #[cfg(test)]
        fn inside() {}
    };
}
`
	rewritten, err := rewrite.ResolveCfgs(context.Background(), code, nil)
	require.NoError(t, err)
	assert.Equal(t, code, rewritten)
}

func TestResolveCfgsNonCfgAttrsUntouched(t *testing.T) {
	code := `#[derive(Debug)]
#[cfg(feature = "std")]
struct S;
`
	rewritten, err := rewrite.ResolveCfgs(context.Background(), code, []string{"std"})
	require.NoError(t, err)
	assert.Contains(t, rewritten, "#[derive(Debug)]")
	assert.Contains(t, rewritten, "struct S;")
	assert.NotContains(t, rewritten, "cfg")
}
