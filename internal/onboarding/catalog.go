package onboarding

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalogYAML []byte

// Catalog holds the enumerated options of the counselor form
type Catalog struct {
	Positions    []string `yaml:"positions"`
	Regions      []string `yaml:"regions"`
	AvatarColors []string `yaml:"avatarColors"`

	positionSet map[string]struct{}
	regionSet   map[string]struct{}
}

// DefaultCatalog returns the catalog compiled into the binary
func DefaultCatalog() *Catalog {
	c, err := ParseCatalog(defaultCatalogYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded catalog is invalid: %v", err))
	}
	return c
}

// LoadCatalog reads a catalog from a YAML file. An empty path yields the
// default catalog.
func LoadCatalog(path string) (*Catalog, error) {
	if path == "" {
		return DefaultCatalog(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file %s: %w", path, err)
	}
	return ParseCatalog(data)
}

// ParseCatalog decodes and checks a YAML catalog
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	return NewCatalog(c.Positions, c.Regions, c.AvatarColors)
}

// NewCatalog builds a catalog from explicit lists
func NewCatalog(positions, regions, avatarColors []string) (*Catalog, error) {
	c := &Catalog{
		Positions:    append([]string(nil), positions...),
		Regions:      append([]string(nil), regions...),
		AvatarColors: append([]string(nil), avatarColors...),
	}

	var err error
	if c.positionSet, err = buildSet("positions", c.Positions); err != nil {
		return nil, err
	}
	if c.regionSet, err = buildSet("regions", c.Regions); err != nil {
		return nil, err
	}
	if _, err = buildSet("avatarColors", c.AvatarColors); err != nil {
		return nil, err
	}
	return c, nil
}

func buildSet(name string, values []string) (map[string]struct{}, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("catalog %s must not be empty", name)
	}
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			return nil, fmt.Errorf("catalog %s contains a blank entry", name)
		}
		if _, dup := set[v]; dup {
			return nil, fmt.Errorf("catalog %s contains %q twice", name, v)
		}
		set[v] = struct{}{}
	}
	return set, nil
}

// HasPosition reports whether position is one of the selectable job titles
func (c *Catalog) HasPosition(position string) bool {
	_, ok := c.positionSet[position]
	return ok
}

// HasRegion reports whether region is one of the selectable regions
func (c *Catalog) HasRegion(region string) bool {
	_, ok := c.regionSet[region]
	return ok
}
