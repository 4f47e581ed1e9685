package bundle

import (
	"context"
	"fmt"

	"github.com/viant/afs"
	"gopkg.in/yaml.v3"
)

// Profile selects which rewriting passes a bundling run applies. Structural
// passes (module expansion, path qualification, macro hygiene) always run;
// the profile only governs the optional ones.
type Profile struct {
	Features      []string `yaml:"features,omitempty"`
	ResolveCfgs   bool     `yaml:"resolveCfgs"`
	EraseDocs     bool     `yaml:"eraseDocs"`
	EraseComments bool     `yaml:"eraseComments"`
	Minify        bool     `yaml:"minify"`
	Verify        bool     `yaml:"verify"`
}

// DefaultProfile resolves cfgs and verifies each pass but keeps docs,
// comments, and layout.
func DefaultProfile() *Profile {
	return &Profile{
		ResolveCfgs: true,
		Verify:      true,
	}
}

// LoadProfile reads a profile from a YAML document at URL.
func LoadProfile(ctx context.Context, fs afs.Service, URL string) (*Profile, error) {
	if fs == nil {
		fs = afs.New()
	}
	data, err := fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("could not read profile %q: %w", URL, err)
	}
	profile := DefaultProfile()
	if err := yaml.Unmarshal(data, profile); err != nil {
		return nil, fmt.Errorf("could not parse profile %q: %w", URL, err)
	}
	return profile, nil
}
