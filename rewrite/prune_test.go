package rewrite_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bundrs/rewrite"
)

func TestListModNames(t *testing.T) {
	code := `mod alpha;
mod beta {}
fn f() {}
mod gamma {
    mod nested {}
}
`
	names, err := rewrite.ListModNames(context.Background(), code)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "beta", "gamma"}, names)
}

func TestStripUnreachable(t *testing.T) {
	code := `#[allow(dead_code)]
mod used {
    pub fn f() {}
}

mod unused {
    pub fn g() {}
}
`
	rewritten, kept, err := rewrite.StripUnreachable(context.Background(), code, func(name string) bool {
		return name == "used"
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"used": true}, kept)
	assert.Contains(t, rewritten, "mod used")
	assert.Contains(t, rewritten, "#[allow(dead_code)]")
	assert.NotContains(t, rewritten, "mod unused")
	assert.NotContains(t, rewritten, "fn g()")
}

func TestStripUnreachableRemovesAttachedAttrs(t *testing.T) {
	code := `#[allow(dead_code)]
mod unused {}
`
	rewritten, kept, err := rewrite.StripUnreachable(context.Background(), code, func(string) bool {
		return false
	})
	require.NoError(t, err)
	assert.Empty(t, kept)
	assert.NotContains(t, rewritten, "allow(dead_code)")
	assert.NotContains(t, rewritten, "mod unused")
}

func TestStripTopLevel(t *testing.T) {
	code := `//! kept doc
#![allow(dead_code)]

use std::fmt;

mod keep {}

#[derive(Debug)]
struct Gone;

extern crate foo as bar;

fn gone() {}
`
	rewritten, err := rewrite.StripTopLevel(context.Background(), code)
	require.NoError(t, err)
	assert.Contains(t, rewritten, "//! kept doc")
	assert.Contains(t, rewritten, "#![allow(dead_code)]")
	assert.Contains(t, rewritten, "mod keep {}")
	assert.Contains(t, rewritten, "extern crate foo as bar;")
	assert.NotContains(t, rewritten, "use std::fmt")
	assert.NotContains(t, rewritten, "struct Gone")
	assert.NotContains(t, rewritten, "derive")
	assert.NotContains(t, rewritten, "fn gone")
}

func TestReplaceExternCrates(t *testing.T) {
	code := `extern crate foo;
pub extern crate bar as baz;
`
	rewritten, err := rewrite.ReplaceExternCrates(context.Background(), code, func(name string) (string, error) {
		return "__bundled::" + name, nil
	})
	require.NoError(t, err)
	assertCode(t, `use crate::__bundled::foo as foo;
pub use crate::__bundled::bar as baz;
`, rewritten)
}

func TestCommentOutMacroUses(t *testing.T) {
	code := `#[macro_use]
extern crate missing as _;
extern crate plain as _;
#[macro_use]
extern crate present as _;
`
	rewritten, err := rewrite.CommentOutMacroUses(context.Background(), code, func(name string) bool {
		return name == "present"
	})
	require.NoError(t, err)
	assertCode(t, `/*#[macro_use]
extern crate missing as _;*/
extern crate plain as _;
#[macro_use]
extern crate present as _;
`, rewritten)
}

func TestPrependModDoc(t *testing.T) {
	code := `//! existing

fn main() {}
`
	rewritten, err := rewrite.PrependModDoc(context.Background(), code, []string{"bundled crates:", "", "`mylib` v0.1.0"})
	require.NoError(t, err)
	assertCode(t, "//! existing\n//!\n//! bundled crates:\n//!\n//! `mylib` v0.1.0\n\nfn main() {}\n", rewritten)
}

func TestPrependModDocKeepsShebangFirst(t *testing.T) {
	code := "#!/usr/bin/env rust-script\nfn main() {}\n"
	rewritten, err := rewrite.PrependModDoc(context.Background(), code, []string{"banner"})
	require.NoError(t, err)
	assertCode(t, "#!/usr/bin/env rust-script\n//! banner\n\nfn main() {}\n", rewritten)
}

func TestPrependModDocCollectsDocAttrs(t *testing.T) {
	code := `//! first
#![doc = " second"]

fn main() {}
`
	rewritten, err := rewrite.PrependModDoc(context.Background(), code, nil)
	require.NoError(t, err)
	assert.Contains(t, rewritten, "//! first\n//! second\n")
	assert.NotContains(t, rewritten, "#![doc")
}
