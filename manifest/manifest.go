// Package manifest reads the subset of Cargo.toml a bundling run needs:
// the crate's name, its library target, and its feature graph.
package manifest

import (
	"fmt"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

type Package struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
	Edition string `toml:"edition"`
}

type Lib struct {
	Name string `toml:"name"`
	Path string `toml:"path"`
}

type Manifest struct {
	Package  Package             `toml:"package"`
	Lib      Lib                 `toml:"lib"`
	Features map[string][]string `toml:"features"`
}

// Parse decodes a Cargo manifest.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("could not parse the manifest: %w", err)
	}
	return &m, nil
}

// CrateName returns the library crate name: the explicit lib target name when
// present, otherwise the package name with dashes mapped to underscores.
func (m *Manifest) CrateName() string {
	if m.Lib.Name != "" {
		return m.Lib.Name
	}
	return strings.ReplaceAll(m.Package.Name, "-", "_")
}

// LibPath returns the library root relative to the manifest directory,
// defaulting to the conventional src/lib.rs.
func (m *Manifest) LibPath() string {
	if m.Lib.Path != "" {
		return m.Lib.Path
	}
	return "src/lib.rs"
}

// ResolveFeatures expands the requested feature names through the feature
// graph, always including "default". Dependency activations (`dep:` entries
// and `crate/feature` forwards) name things outside this manifest and are
// skipped. The result is sorted and duplicate-free.
func (m *Manifest) ResolveFeatures(requested []string) []string {
	active := map[string]bool{}
	queue := append([]string{"default"}, requested...)
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		if active[name] {
			continue
		}
		deps, known := m.Features[name]
		if !known && name == "default" {
			continue
		}
		active[name] = true
		for _, dep := range deps {
			if strings.HasPrefix(dep, "dep:") || strings.Contains(dep, "/") {
				continue
			}
			queue = append(queue, dep)
		}
	}
	names := make([]string, 0, len(active))
	for name := range active {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
