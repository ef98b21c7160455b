// Package catalog holds the static unit stat blocks: cost, role, dice
// loadouts and the special-behaviour hook of every unit kind.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/nathoo/skirmish/engine/dice"
)

// ErrUnknownUnit is returned when a unit name is not in the catalog.
var ErrUnknownUnit = errors.New("unknown unit")

//go:embed units.yaml
var defaultUnits []byte

// Hook is the special behaviour a unit kind carries beyond its dice.
type Hook string

const (
	HookNone     Hook = ""
	HookGarrison Hook = "garrison" // scalable defender, downgrades on loss
	HookResource Hook = "resource" // may convert a spare bolt into resources once per battle
)

// Role is the unit's battlefield role, e.g. "Basic Rider".
type Role string

// Mounted reports whether the role is a rider role.
func (r Role) Mounted() bool {
	return strings.Contains(string(r), "Rider")
}

// Kind is an immutable unit stat block.
type Kind struct {
	Name      string
	Cost      int
	Role      Role
	Hook      Hook
	Level     int   // garrison level, 0 for other kinds
	Downgrade *Kind // garrison kind one level down; nil at level 1
	Archery   []dice.Variant
	Clash     []dice.Variant
}

func (k *Kind) String() string {
	return k.Name
}

// Catalog is a lookup table of unit kinds by name.
type Catalog struct {
	kinds map[string]*Kind
	order []string
}

type rawUnit struct {
	Name      string         `yaml:"name"`
	Cost      int            `yaml:"cost"`
	Role      string         `yaml:"role"`
	Hook      string         `yaml:"hook"`
	Level     int            `yaml:"level"`
	Downgrade string         `yaml:"downgrade"`
	Archery   []dice.Variant `yaml:"archery"`
	Clash     []dice.Variant `yaml:"clash"`
}

type rawCatalog struct {
	Units []rawUnit `yaml:"units"`
}

// Parse decodes and validates a YAML unit catalog.
func Parse(data []byte) (*Catalog, error) {
	var raw rawCatalog
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing unit catalog: %w", err)
	}

	c := &Catalog{kinds: map[string]*Kind{}}
	for _, u := range raw.Units {
		if u.Name == "" {
			return nil, fmt.Errorf("unit with cost %d has no name", u.Cost)
		}
		if _, dup := c.kinds[u.Name]; dup {
			return nil, fmt.Errorf("duplicate unit %q", u.Name)
		}
		hook := Hook(u.Hook)
		switch hook {
		case HookNone, HookResource:
		case HookGarrison:
			if u.Level < 1 || u.Level > 3 {
				return nil, fmt.Errorf("garrison %q has level %d, want 1-3", u.Name, u.Level)
			}
		default:
			return nil, fmt.Errorf("unit %q has unknown hook %q", u.Name, u.Hook)
		}
		if u.Cost < 0 {
			return nil, fmt.Errorf("unit %q has negative cost", u.Name)
		}
		c.kinds[u.Name] = &Kind{
			Name:    u.Name,
			Cost:    u.Cost,
			Role:    Role(u.Role),
			Hook:    hook,
			Level:   u.Level,
			Archery: u.Archery,
			Clash:   u.Clash,
		}
		c.order = append(c.order, u.Name)
	}

	// Resolve downgrade chains once every kind exists.
	for _, u := range raw.Units {
		if u.Downgrade == "" {
			continue
		}
		next, ok := c.kinds[u.Downgrade]
		if !ok {
			return nil, fmt.Errorf("unit %q downgrades to undefined unit %q", u.Name, u.Downgrade)
		}
		k := c.kinds[u.Name]
		if k.Hook != HookGarrison || next.Hook != HookGarrison || next.Level != k.Level-1 {
			return nil, fmt.Errorf("unit %q: downgrade to %q must step a garrison down one level", u.Name, u.Downgrade)
		}
		k.Downgrade = next
	}

	return c, nil
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the embedded catalog. It panics if the embedded data is
// invalid, which the package tests rule out.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := Parse(defaultUnits)
		if err != nil {
			panic("catalog: embedded units.yaml: " + err.Error())
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// Lookup returns the kind with the given name.
func (c *Catalog) Lookup(name string) (*Kind, error) {
	k, ok := c.kinds[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownUnit, name)
	}
	return k, nil
}

// MustLookup is Lookup for names known to exist, such as in tests.
func (c *Catalog) MustLookup(name string) *Kind {
	k, err := c.Lookup(name)
	if err != nil {
		panic(err)
	}
	return k
}

// Names returns every unit name in catalog order.
func (c *Catalog) Names() []string {
	return append([]string(nil), c.order...)
}

// Garrisons returns the garrison kinds sorted by level.
func (c *Catalog) Garrisons() []*Kind {
	var out []*Kind
	for _, name := range c.order {
		if k := c.kinds[name]; k.Hook == HookGarrison {
			out = append(out, k)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Level < out[j].Level })
	return out
}
