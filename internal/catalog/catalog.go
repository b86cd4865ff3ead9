// Package catalog holds the ordered skill-group table that maps a group name
// to the metric columns it covers.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed skill_groups.yaml
var defaultDocument []byte

var ErrUnknownGroup = errors.New("unknown skill group")

type Group struct {
	Name        string   `yaml:"name" json:"name"`
	Description string   `yaml:"description" json:"description,omitempty"`
	Metrics     []string `yaml:"metrics" json:"metrics"`
}

type document struct {
	Note   string  `yaml:"note"`
	Groups []Group `yaml:"groups"`
}

// Catalog is immutable after construction. Every accessor returns copies.
type Catalog struct {
	note   string
	groups []Group
	index  map[string]int
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the catalog compiled into the binary.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := Parse(defaultDocument)
		if err != nil {
			panic(fmt.Sprintf("embedded skill groups: %v", err))
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// Load reads a catalog file. An empty path yields Default().
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if len(doc.Groups) == 0 {
		return nil, errors.New("catalog has no groups")
	}

	c := &Catalog{note: doc.Note, index: make(map[string]int, len(doc.Groups))}
	for i, g := range doc.Groups {
		if g.Name == "" {
			return nil, fmt.Errorf("group %d has no name", i)
		}
		if _, dup := c.index[g.Name]; dup {
			return nil, fmt.Errorf("duplicate group %q", g.Name)
		}
		if len(g.Metrics) == 0 {
			return nil, fmt.Errorf("group %q has no metrics", g.Name)
		}
		seen := make(map[string]bool, len(g.Metrics))
		for _, m := range g.Metrics {
			if m == "" {
				return nil, fmt.Errorf("group %q has an empty metric", g.Name)
			}
			if seen[m] {
				return nil, fmt.Errorf("group %q lists metric %q twice", g.Name, m)
			}
			seen[m] = true
		}
		c.index[g.Name] = i
		c.groups = append(c.groups, Group{
			Name:        g.Name,
			Description: g.Description,
			Metrics:     append([]string(nil), g.Metrics...),
		})
	}
	return c, nil
}

// Groups returns group names in declaration order.
func (c *Catalog) Groups() []string {
	names := make([]string, len(c.groups))
	for i, g := range c.groups {
		names[i] = g.Name
	}
	return names
}

// MetricsOf returns the ordered metric identifiers of a group.
func (c *Catalog) MetricsOf(group string) ([]string, error) {
	g, err := c.Group(group)
	if err != nil {
		return nil, err
	}
	return g.Metrics, nil
}

func (c *Catalog) Group(name string) (Group, error) {
	i, ok := c.index[name]
	if !ok {
		return Group{}, fmt.Errorf("%w: %q", ErrUnknownGroup, name)
	}
	g := c.groups[i]
	g.Metrics = append([]string(nil), g.Metrics...)
	return g, nil
}

// Describe returns the reference text for a group, or "" if the group is unknown.
func (c *Catalog) Describe(group string) string {
	i, ok := c.index[group]
	if !ok {
		return ""
	}
	return c.groups[i].Description
}

func (c *Catalog) Note() string { return c.note }

// Metrics returns every metric referenced by any group, first occurrence wins.
func (c *Catalog) Metrics() []string {
	seen := make(map[string]bool)
	var out []string
	for _, g := range c.groups {
		for _, m := range g.Metrics {
			if !seen[m] {
				seen[m] = true
				out = append(out, m)
			}
		}
	}
	return out
}

// All returns a copy of every group in order.
func (c *Catalog) All() []Group {
	out := make([]Group, len(c.groups))
	for i, g := range c.groups {
		g.Metrics = append([]string(nil), g.Metrics...)
		out[i] = g
	}
	return out
}
