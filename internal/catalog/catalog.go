package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

type Role string

const (
	RoleArchitect Role = "Architect"
	RoleDeveloper Role = "Developer"
	RoleDesigner  Role = "Designer"
	RoleAuditor   Role = "Auditor"
	RoleQA        Role = "QA"
)

var knownRoles = map[Role]struct{}{
	RoleArchitect: {},
	RoleDeveloper: {},
	RoleDesigner:  {},
	RoleAuditor:   {},
	RoleQA:        {},
}

type Agent struct {
	Name   string `yaml:"name"`
	Role   Role   `yaml:"role"`
	Avatar string `yaml:"avatar"`
}

// Swarm is one provider offered on the marketplace.
type Swarm struct {
	ID          string  `yaml:"id"`
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	Specialty   string  `yaml:"specialty"`
	PriceModel  string  `yaml:"price_model"`
	Color       string  `yaml:"color"`
	Agents      []Agent `yaml:"agents"`
}

type Catalog struct {
	Swarms []Swarm `yaml:"swarms"`
}

func Default() *Catalog {
	return &Catalog{Swarms: []Swarm{
		{
			ID:          "ironclad",
			Name:        "IronClad Backend",
			Description: "High-performance systems. We build APIs that survive 10k RPS.",
			Specialty:   "Go / Python / SQL",
			PriceModel:  "$0.05 / step",
			Color:       "blue",
			Agents: []Agent{
				{Name: "Atlas", Role: RoleArchitect, Avatar: "🏛️"},
				{Name: "Forge", Role: RoleDeveloper, Avatar: "🔨"},
			},
		},
		{
			ID:          "pixel",
			Name:        "Pixel Perfect Studios",
			Description: "Fluid UIs. We treat DOM manipulation as a fine art.",
			Specialty:   "React / Motion",
			PriceModel:  "$0.08 / step",
			Color:       "pink",
			Agents: []Agent{
				{Name: "Venus", Role: RoleDesigner, Avatar: "🎨"},
				{Name: "Flash", Role: RoleDeveloper, Avatar: "⚡"},
			},
		},
		{
			ID:          "solid",
			Name:        "SolidBlock Web3",
			Description: "Smart contracts with zero vulnerabilities. Gas optimized.",
			Specialty:   "Solidity / Rust",
			PriceModel:  "$0.15 / step",
			Color:       "emerald",
			Agents: []Agent{
				{Name: "Argus", Role: RoleAuditor, Avatar: "👁️"},
				{Name: "Chain", Role: RoleQA, Avatar: "⛓️"},
			},
		},
		{
			ID:          "godmode",
			Name:        "GodMode Inc.",
			Description: "The elite full-stack agency. Autonomous recursive improvement.",
			Specialty:   "Polyglot / AI",
			PriceModel:  "$0.50 / step",
			Color:       "purple",
			Agents: []Agent{
				{Name: "Zeus", Role: RoleArchitect, Avatar: "⚡"},
				{Name: "Athena", Role: RoleQA, Avatar: "🛡️"},
				{Name: "Vulcan", Role: RoleDeveloper, Avatar: "🔥"},
			},
		},
	}}
}

// LoadFile reads a YAML catalog that replaces the built-in one.
func LoadFile(path string) (*Catalog, error) {
	clean := filepath.Clean(path)
	data, err := os.ReadFile(clean)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", clean, err)
	}
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", clean, err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("catalog %s: %w", clean, err)
	}
	return &c, nil
}

// Load returns the catalog at path, or the built-in one when path is empty.
func Load(path string) (*Catalog, error) {
	if strings.TrimSpace(path) == "" {
		return Default(), nil
	}
	return LoadFile(path)
}

func (c *Catalog) Validate() error {
	if len(c.Swarms) == 0 {
		return fmt.Errorf("no swarms defined")
	}
	seen := make(map[string]struct{}, len(c.Swarms))
	for i, s := range c.Swarms {
		if strings.TrimSpace(s.ID) == "" {
			return fmt.Errorf("swarm %d has no id", i+1)
		}
		if _, dup := seen[s.ID]; dup {
			return fmt.Errorf("duplicate swarm id %q", s.ID)
		}
		seen[s.ID] = struct{}{}
		for _, a := range s.Agents {
			if _, ok := knownRoles[a.Role]; !ok {
				return fmt.Errorf("swarm %q: agent %q has unknown role %q", s.ID, a.Name, a.Role)
			}
		}
	}
	return nil
}

func (c *Catalog) Lookup(id string) (Swarm, bool) {
	for _, s := range c.Swarms {
		if strings.EqualFold(s.ID, strings.TrimSpace(id)) {
			return s, true
		}
	}
	return Swarm{}, false
}

func (c *Catalog) IDs() []string {
	ids := make([]string, len(c.Swarms))
	for i, s := range c.Swarms {
		ids[i] = s.ID
	}
	return ids
}
