// Package catalog holds the per-legal-area triage knowledge base: candidate
// rights, required-document checklists and optional follow-up questions.
// The data ships embedded so synthesis output is deterministic per build.
package catalog

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"litgo/pkg/schema"
)

//go:embed catalog.yaml
var catalogYAML []byte

// AreaProfile is the triage knowledge for one legal area.
type AreaProfile struct {
	Rights    []string          `yaml:"rights"`
	Documents []string          `yaml:"documents"`
	Questions []schema.Question `yaml:"questions"`
}

// Catalog maps legal areas to their profiles, with a default profile for
// areas the classifier produces that are not listed.
type Catalog struct {
	Default AreaProfile            `yaml:"default"`
	Areas   map[string]AreaProfile `yaml:"areas"`
}

// Load parses the embedded catalog.
func Load() (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(catalogYAML, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	if len(c.Default.Rights) == 0 || len(c.Default.Documents) == 0 {
		return nil, fmt.Errorf("catalog default entry must list rights and documents")
	}

	for area, profile := range c.Areas {
		if len(profile.Rights) == 0 || len(profile.Documents) == 0 {
			return nil, fmt.Errorf("catalog area %q must list rights and documents", area)
		}
		for i := range profile.Questions {
			if err := schema.ValidateQuestion(&profile.Questions[i]); err != nil {
				return nil, fmt.Errorf("catalog area %q: %w", area, err)
			}
		}
	}

	return &c, nil
}

// Profile returns the profile for a legal area, falling back to the default
// entry for unknown areas.
func (c *Catalog) Profile(legalArea string) AreaProfile {
	if profile, ok := c.Areas[legalArea]; ok {
		return profile
	}
	return c.Default
}
