package manifest_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bundrs/manifest"
)

const sampleManifest = `
[package]
name = "my-crate"
version = "0.3.1"
edition = "2018"

[features]
default = ["std"]
std = []
extras = []
full = ["std", "extras", "dep:serde", "serde/derive"]
`

func TestParse(t *testing.T) {
	m, err := manifest.Parse([]byte(sampleManifest))
	require.NoError(t, err)
	assert.Equal(t, "my-crate", m.Package.Name)
	assert.Equal(t, "0.3.1", m.Package.Version)
	assert.Equal(t, "2018", m.Package.Edition)
	assert.Equal(t, []string{"std"}, m.Features["default"])
}

func TestParseError(t *testing.T) {
	_, err := manifest.Parse([]byte("[package\nname ="))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "could not parse the manifest")
}

func TestCrateName(t *testing.T) {
	m, err := manifest.Parse([]byte(sampleManifest))
	require.NoError(t, err)
	assert.Equal(t, "my_crate", m.CrateName(), "dashes map to underscores")

	m, err = manifest.Parse([]byte(sampleManifest + "\n[lib]\nname = \"renamed\"\npath = \"src/custom.rs\"\n"))
	require.NoError(t, err)
	assert.Equal(t, "renamed", m.CrateName())
	assert.Equal(t, "src/custom.rs", m.LibPath())
}

func TestLibPathDefault(t *testing.T) {
	m, err := manifest.Parse([]byte(sampleManifest))
	require.NoError(t, err)
	assert.Equal(t, "src/lib.rs", m.LibPath())
}

func TestResolveFeatures(t *testing.T) {
	m, err := manifest.Parse([]byte(sampleManifest))
	require.NoError(t, err)

	assert.Equal(t, []string{"default", "std"}, m.ResolveFeatures(nil))
	assert.Equal(t, []string{"default", "extras", "full", "std"}, m.ResolveFeatures([]string{"full"}),
		"transitive activation skips dep: and crate/feature entries")
	assert.Equal(t, []string{"default", "extras", "std"}, m.ResolveFeatures([]string{"extras"}))
}

func TestResolveFeaturesWithoutDefault(t *testing.T) {
	m, err := manifest.Parse([]byte("[package]\nname = \"bare\"\n"))
	require.NoError(t, err)
	assert.Empty(t, m.ResolveFeatures(nil), "no feature table means nothing to activate")
}
