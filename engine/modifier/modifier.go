// Package modifier implements the ordered roll-time and result-time
// modification pipelines and the built-in modifications.
//
// A modification mutates the battle state in place and is responsible for
// its own applicability guard (terrain, phase, symbol counts). Missing
// preconditions are no-ops; modifications never fail.
package modifier

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/nathoo/skirmish/engine/dice"
	"github.com/nathoo/skirmish/engine/state"
	"github.com/nathoo/skirmish/types"
)

var (
	// ErrUnknownModification is returned for a modification name with no
	// registered constructor.
	ErrUnknownModification = errors.New("unknown modification")
	// ErrWrongStage is returned when a roll-time modification is placed in
	// the result pipeline or the other way around.
	ErrWrongStage = errors.New("modification used in the wrong pipeline")
	// ErrInvalidParam is returned for a bad side or count.
	ErrInvalidParam = errors.New("invalid modification parameter")
)

// Modification is one rule applied to the battle state.
type Modification interface {
	Name() string
	Apply(b *state.Battle)
}

// pipeline is an ordered list of modifications applied unconditionally in
// registration order.
type pipeline struct {
	mods []Modification
}

func (p *pipeline) add(m Modification) {
	if m != nil {
		p.mods = append(p.mods, m)
	}
}

func (p *pipeline) apply(b *state.Battle) {
	for _, m := range p.mods {
		m.Apply(b)
	}
}

func (p *pipeline) names() []string {
	out := make([]string, len(p.mods))
	for i, m := range p.mods {
		out[i] = m.Name()
	}
	return out
}

// RollModifier runs before dice are rolled and acts on pool composition.
type RollModifier struct {
	pipeline
}

// Add appends a modification. Nil is ignored.
func (r *RollModifier) Add(m Modification) *RollModifier {
	r.add(m)
	return r
}

// Apply runs every modification in order.
func (r *RollModifier) Apply(b *state.Battle) {
	if r == nil {
		return
	}
	r.apply(b)
}

// Names lists the modifications in application order.
func (r *RollModifier) Names() []string {
	if r == nil {
		return nil
	}
	return r.names()
}

// ResultModifier runs after dice are rolled and acts on the results.
type ResultModifier struct {
	pipeline
}

// Add appends a modification. Nil is ignored.
func (r *ResultModifier) Add(m Modification) *ResultModifier {
	r.add(m)
	return r
}

// Apply runs every modification in order.
func (r *ResultModifier) Apply(b *state.Battle) {
	if r == nil {
		return
	}
	r.apply(b)
}

// Names lists the modifications in application order.
func (r *ResultModifier) Names() []string {
	if r == nil {
		return nil
	}
	return r.names()
}

// Stage is the pipeline a modification belongs to.
type Stage int

const (
	StageRoll Stage = iota
	StageResult
)

func (s Stage) String() string {
	if s == StageRoll {
		return "roll"
	}
	return "result"
}

type constructor struct {
	stage Stage
	build func(spec types.ModSpec) (Modification, error)
}

// registry maps modification names to constructors. Every call builds a
// fresh instance so per-battle counters are never shared.
var registry = map[string]constructor{
	"TerrainRoll": {StageRoll, func(types.ModSpec) (Modification, error) {
		return TerrainRoll{}, nil
	}},
	"TerrainResult": {StageResult, func(types.ModSpec) (Modification, error) {
		return TerrainResult{}, nil
	}},
	"Reroll": {StageResult, func(spec types.ModSpec) (Modification, error) {
		side, err := parseSide(spec.Side)
		if err != nil {
			return nil, err
		}
		if spec.Count <= 0 {
			return nil, fmt.Errorf("%w: reroll count %d, want > 0", ErrInvalidParam, spec.Count)
		}
		return &Reroll{Side: side, Count: spec.Count, Priority: dice.RerollPriority()}, nil
	}},
	"MountainHeart": {StageResult, func(spec types.ModSpec) (Modification, error) {
		side, err := parseSide(spec.Side)
		if err != nil {
			return nil, err
		}
		return MountainHeart{Side: side}, nil
	}},
	"Harvest": {StageResult, func(spec types.ModSpec) (Modification, error) {
		side, err := parseSide(spec.Side)
		if err != nil {
			return nil, err
		}
		return NewHarvest(side), nil
	}},
}

// Names returns every registered modification name, sorted.
func Names() []string {
	out := make([]string, 0, len(registry))
	for name := range registry {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Build constructs a fresh modification for the given stage.
func Build(stage Stage, spec types.ModSpec) (Modification, error) {
	c, ok := registry[spec.Name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (valid: %s)", ErrUnknownModification, spec.Name, strings.Join(Names(), ", "))
	}
	if c.stage != stage {
		return nil, fmt.Errorf("%w: %s is a %s modification", ErrWrongStage, spec.Name, c.stage)
	}
	m, err := c.build(spec)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", spec.Name, err)
	}
	return m, nil
}

// BuildRoll builds a roll-time pipeline from specs, in order.
func BuildRoll(specs []types.ModSpec) (*RollModifier, error) {
	r := &RollModifier{}
	for _, spec := range specs {
		m, err := Build(StageRoll, spec)
		if err != nil {
			return nil, err
		}
		r.Add(m)
	}
	return r, nil
}

// BuildResult builds a result-time pipeline from specs, in order.
func BuildResult(specs []types.ModSpec) (*ResultModifier, error) {
	r := &ResultModifier{}
	for _, spec := range specs {
		m, err := Build(StageResult, spec)
		if err != nil {
			return nil, err
		}
		r.Add(m)
	}
	return r, nil
}

func parseSide(s types.Side) (types.Side, error) {
	switch types.Side(strings.ToLower(string(s))) {
	case "", types.SidePlayer:
		return types.SidePlayer, nil
	case types.SideEnemy:
		return types.SideEnemy, nil
	}
	return "", fmt.Errorf("%w: side %q (valid: player, enemy)", ErrInvalidParam, s)
}
