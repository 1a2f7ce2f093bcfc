package seed

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed presets.yaml
var defaultPresetsYAML []byte

// Preset is a named set of entity counts.
type Preset struct {
	Description     string `yaml:"description"`
	Alumni          int    `yaml:"alumni"`
	Students        int    `yaml:"students"`
	PendingStudents int    `yaml:"pending_students"`
	Teachers        int    `yaml:"teachers"`
	Staff           int    `yaml:"staff"`
	Posts           int    `yaml:"posts"`
	CommentsPerPost int    `yaml:"comments_per_post"`
	Events          int    `yaml:"events"`
	Jobs            int    `yaml:"jobs"`
	Donations       int    `yaml:"donations"`
	Connections     int    `yaml:"connections"`
	Messages        int    `yaml:"messages"`
}

// Catalog is the parsed preset file: vocabularies shared by all presets plus
// the presets themselves.
type Catalog struct {
	Branches       []string          `yaml:"branches"`
	Skills         []string          `yaml:"skills"`
	PostCategories []string          `yaml:"post_categories"`
	Presets        map[string]Preset `yaml:"presets"`
}

// LoadCatalog parses a preset file.
func LoadCatalog(r io.Reader) (*Catalog, error) {
	var c Catalog
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("parse seed presets: %w", err)
	}
	if len(c.Branches) == 0 || len(c.Skills) == 0 {
		return nil, fmt.Errorf("seed presets: branches and skills must not be empty")
	}
	for name, p := range c.Presets {
		if p.Alumni+p.Students+p.Teachers+p.Staff == 0 {
			return nil, fmt.Errorf("seed preset %q creates no active users", name)
		}
	}
	return &c, nil
}

// DefaultCatalog returns the presets compiled into the binary.
func DefaultCatalog() *Catalog {
	c, err := LoadCatalog(bytes.NewReader(defaultPresetsYAML))
	if err != nil {
		panic(err)
	}
	return c
}

// Preset looks up a preset by name.
func (c *Catalog) Preset(name string) (Preset, error) {
	p, ok := c.Presets[name]
	if !ok {
		return Preset{}, fmt.Errorf("unknown seed preset %q (available: %v)", name, c.Names())
	}
	return p, nil
}

// Names lists the preset names in sorted order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.Presets))
	for n := range c.Presets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
