// Package materials holds the read-only catalog of projectile materials.
//
// The catalog is decoded once from an embedded YAML table when the package
// is initialised and never mutated afterwards, so lookups are safe from any
// number of goroutines.
package materials

import (
	_ "embed"
	"fmt"
	"math"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Custom is the entry returned for names the catalog does not know.
const Custom = "custom"

const (
	Basketball   = "basketball"
	Baseball     = "baseball"
	TennisBall   = "tennis_ball"
	GolfBall     = "golf_ball"
	SoccerBall   = "soccer_ball"
	PingPongBall = "ping_pong_ball"
	BowlingBall  = "bowling_ball"
	RubberBall   = "rubber_ball"
)

// Properties describes a projectile. Mass in kg, radius in m.
type Properties struct {
	Name            string  `yaml:"-" json:"name"`
	Mass            float64 `yaml:"mass" json:"mass"`
	Radius          float64 `yaml:"radius" json:"radius"`
	DragCoefficient float64 `yaml:"drag_coefficient" json:"drag_coefficient"`
	Restitution     float64 `yaml:"restitution" json:"restitution"`
}

// CrossSection is the frontal area of the sphere.
func (p Properties) CrossSection() float64 {
	return math.Pi * p.Radius * p.Radius
}

// Volume is the volume of the sphere.
func (p Properties) Volume() float64 {
	return 4.0 / 3.0 * math.Pi * p.Radius * p.Radius * p.Radius
}

func (p Properties) validate() error {
	switch {
	case p.Mass <= 0:
		return fmt.Errorf("material %q: mass must be positive, got %f", p.Name, p.Mass)
	case p.Radius <= 0:
		return fmt.Errorf("material %q: radius must be positive, got %f", p.Name, p.Radius)
	case p.DragCoefficient < 0:
		return fmt.Errorf("material %q: drag coefficient must be non-negative, got %f", p.Name, p.DragCoefficient)
	case p.Restitution < 0 || p.Restitution > 1:
		return fmt.Errorf("material %q: restitution must be in [0,1], got %f", p.Name, p.Restitution)
	}
	return nil
}

//go:embed catalog.yaml
var catalogYAML []byte

type Catalog struct {
	entries map[string]Properties
}

// Parse decodes a catalog table. The table must contain a "custom" entry.
func Parse(data []byte) (*Catalog, error) {
	raw := make(map[string]Properties)
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	c := &Catalog{entries: make(map[string]Properties, len(raw))}
	for name, p := range raw {
		p.Name = normalize(name)
		if err := p.validate(); err != nil {
			return nil, err
		}
		c.entries[p.Name] = p
	}
	if _, ok := c.entries[Custom]; !ok {
		return nil, fmt.Errorf("catalog has no %q entry", Custom)
	}
	return c, nil
}

// Lookup never fails: unknown names resolve to the custom entry.
func (c *Catalog) Lookup(name string) Properties {
	if p, ok := c.entries[normalize(name)]; ok {
		return p
	}
	return c.entries[Custom]
}

// Known reports whether name is a catalog entry rather than a fallback.
func (c *Catalog) Known(name string) bool {
	_, ok := c.entries[normalize(name)]
	return ok
}

func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.entries))
	for name := range c.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (c *Catalog) All() []Properties {
	names := c.Names()
	out := make([]Properties, len(names))
	for i, name := range names {
		out[i] = c.entries[name]
	}
	return out
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

var defaultCatalog = mustParse(catalogYAML)

func mustParse(data []byte) *Catalog {
	c, err := Parse(data)
	if err != nil {
		panic(err)
	}
	return c
}

// Default is the process-wide built-in catalog.
func Default() *Catalog { return defaultCatalog }

func Lookup(name string) Properties { return defaultCatalog.Lookup(name) }
func Known(name string) bool        { return defaultCatalog.Known(name) }
func Names() []string               { return defaultCatalog.Names() }
func All() []Properties             { return defaultCatalog.All() }
