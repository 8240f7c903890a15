package config

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed architectures.yaml
var defaultArchitectures []byte

// Architecture describes one secondary hardware scope of the multi-arch snapshot
type Architecture struct {
	Name            string   `yaml:"name" json:"name"`
	Platforms       []string `yaml:"platforms" json:"platforms"`
	WhiteboardTerms []string `yaml:"whiteboard_terms" json:"whiteboard_terms"`
}

// ArchitectureTable maps an architecture token to its platforms and desired whiteboard terms
type ArchitectureTable struct {
	Architectures []Architecture `yaml:"architectures"`
}

// LoadArchitectures parses the architecture table from path, or the embedded default when path is empty
func LoadArchitectures(path string) (*ArchitectureTable, error) {
	data := defaultArchitectures
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read architectures file: %w", err)
		}
		data = raw
	}
	return ParseArchitectures(data)
}

// ParseArchitectures decodes an architecture table document
func ParseArchitectures(data []byte) (*ArchitectureTable, error) {
	table := &ArchitectureTable{}
	if err := yaml.Unmarshal(data, table); err != nil {
		return nil, fmt.Errorf("failed to parse architectures: %w", err)
	}

	for i, a := range table.Architectures {
		if strings.TrimSpace(a.Name) == "" {
			return nil, fmt.Errorf("architecture %d has no name", i)
		}
		if len(a.Platforms) == 0 {
			table.Architectures[i].Platforms = strings.Fields(a.Name)
		}
	}
	return table, nil
}

// Lookup returns the configured architecture for name. Unknown names still get a usable
// scope: their platforms are the whitespace separated tokens and no whiteboard terms apply.
func (t *ArchitectureTable) Lookup(name string) (Architecture, bool) {
	for _, a := range t.Architectures {
		if a.Name == name {
			return a, true
		}
	}
	return Architecture{Name: name, Platforms: strings.Fields(name)}, false
}

// Names returns the configured architecture tokens in table order
func (t *ArchitectureTable) Names() []string {
	names := make([]string, 0, len(t.Architectures))
	for _, a := range t.Architectures {
		names = append(names, a.Name)
	}
	return names
}

// Match returns the configured architecture whose platforms include platform
func (t *ArchitectureTable) Match(platform string) (Architecture, bool) {
	for _, a := range t.Architectures {
		for _, p := range a.Platforms {
			if p == platform {
				return a, true
			}
		}
	}
	return Architecture{}, false
}
