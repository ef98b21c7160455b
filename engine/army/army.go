// Package army implements unit collections, dice collection per phase,
// value and hit-point accounting, and casualty removal.
//
// There are two closed army variants. A standard army holds up to five
// discrete units and loses them worst-first. A garrison army holds a
// single scalable defender whose level drops by one per casualty.
// Behaviour that differs between variants is dispatched through the
// capability table below, not through per-variant types.
package army

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/nathoo/skirmish/engine/catalog"
	"github.com/nathoo/skirmish/engine/dice"
	"github.com/nathoo/skirmish/types"
)

// MaxUnits is the capacity of any army. Additional units are dropped.
const MaxUnits = 5

// ErrUnknownVariant is returned for an army variant name that is not
// "standard" or "garrison".
var ErrUnknownVariant = errors.New("unknown army variant")

// Variant selects the loss and hit-point policy of an army.
type Variant string

const (
	Standard Variant = "standard"
	Garrison Variant = "garrison"
)

// ParseVariant looks up an army variant by name, ignoring case.
func ParseVariant(name string) (Variant, error) {
	switch Variant(strings.ToLower(strings.TrimSpace(name))) {
	case Standard:
		return Standard, nil
	case Garrison:
		return Garrison, nil
	}
	return "", fmt.Errorf("%w: %q (valid: standard, garrison)", ErrUnknownVariant, name)
}

// capabilities is the per-variant behaviour table.
type capabilities struct {
	add       func(a *Army, k *catalog.Kind) bool
	collect   func(a *Army, phase types.Phase) *dice.Pool
	applyLoss func(a *Army) bool
	hitPoints func(a *Army) int
}

var variantOps = map[Variant]capabilities{
	Standard: {
		add:       addStandard,
		collect:   collectLoadouts,
		applyLoss: removeWorstUnit,
		hitPoints: func(a *Army) int { return len(a.units) },
	},
	Garrison: {
		add:       addGarrison,
		collect:   collectLoadouts,
		applyLoss: downgradeGarrison,
		hitPoints: garrisonLevel,
	},
}

// Unit is one fielded unit. Kind is shared and immutable; the rest is
// per-battle state.
type Unit struct {
	Kind              *catalog.Kind
	ResourceGenerated bool
}

func (u *Unit) String() string {
	return u.Kind.Name
}

// Army is one side of a battle.
type Army struct {
	variant      Variant
	ops          capabilities
	units        []*Unit
	pool         *dice.Pool
	mercy        bool
	lossPriority []dice.Variant
	log          *zap.Logger
}

// Option configures an Army.
type Option func(*Army)

// WithLossPriority overrides the worst-first casualty order.
func WithLossPriority(order []dice.Variant) Option {
	return func(a *Army) {
		a.lossPriority = append([]dice.Variant(nil), order...)
	}
}

// WithLogger sets the logger used for casualty tracing.
func WithLogger(l *zap.Logger) Option {
	return func(a *Army) {
		if l != nil {
			a.log = l
		}
	}
}

// New creates an empty army of the given variant. An unknown variant is
// treated as standard.
func New(variant Variant, opts ...Option) *Army {
	ops, ok := variantOps[variant]
	if !ok {
		variant = Standard
		ops = variantOps[Standard]
	}
	a := &Army{
		variant:      variant,
		ops:          ops,
		lossPriority: dice.LossPriority(),
		log:          zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// AddUnit fields count units of kind k. Units beyond capacity are
// silently dropped.
func (a *Army) AddUnit(k *catalog.Kind, count int) *Army {
	if k == nil {
		return a
	}
	for i := 0; i < count; i++ {
		if !a.ops.add(a, k) {
			a.log.Debug("unit not added", zap.String("unit", k.Name), zap.Int("units", len(a.units)))
			return a
		}
	}
	a.log.Debug("added units", zap.String("unit", k.Name), zap.Int("count", count))
	return a
}

// Variant returns the army's variant.
func (a *Army) Variant() Variant {
	return a.variant
}

// Units returns the living units in fielding order. The slice must not
// be modified.
func (a *Army) Units() []*Unit {
	return a.units
}

// Len returns the number of living units.
func (a *Army) Len() int {
	return len(a.units)
}

// Pool returns the dice pool assembled for the current phase.
func (a *Army) Pool() *dice.Pool {
	return a.pool
}

// Mercy reports whether this army is sparing its opponent this round.
func (a *Army) Mercy() bool {
	return a.mercy
}

// SetMercy sets the mercy flag.
func (a *Army) SetMercy(v bool) {
	a.mercy = v
}

// CollectDice builds a fresh pool from the living units' loadouts for the
// phase and stores it as the current pool.
func (a *Army) CollectDice(phase types.Phase) *dice.Pool {
	a.pool = a.ops.collect(a, phase)
	a.log.Debug("collected dice",
		zap.String("phase", string(phase)),
		zap.Stringers("units", a.units),
		zap.Any("dice", a.pool.Counts()))
	return a.pool
}

// ApplyLosses removes up to n casualties one at a time, stopping early
// when the army is empty. It returns the number of casualties applied.
func (a *Army) ApplyLosses(n int) int {
	applied := 0
	for i := 0; i < n; i++ {
		if len(a.units) == 0 {
			a.log.Debug("no more units to remove")
			break
		}
		if a.ops.applyLoss(a) {
			applied++
		}
	}
	return applied
}

// ApplyLossesGuarded is ApplyLosses with the mercy guard: a casualty is
// applied only while the army has more than one unit or its sole unit is
// a garrison of level 2 or more. The finishing blow is withheld.
func (a *Army) ApplyLossesGuarded(n int) int {
	applied := 0
	for i := 0; i < n; i++ {
		if !a.canSpare() {
			a.log.Debug("mercy: withholding finishing blow", zap.Int("withheld", n-i))
			break
		}
		if a.ops.applyLoss(a) {
			applied++
		}
	}
	return applied
}

func (a *Army) canSpare() bool {
	switch {
	case len(a.units) > 1:
		return true
	case len(a.units) == 1:
		k := a.units[0].Kind
		return k.Hook == catalog.HookGarrison && k.Level >= 2
	default:
		return false
	}
}

// Value is the sum of the living units' costs.
func (a *Army) Value() int {
	v := 0
	for _, u := range a.units {
		v += u.Kind.Cost
	}
	return v
}

// HitPoints is the living unit count for a standard army and the current
// level for a garrison army.
func (a *Army) HitPoints() int {
	return a.ops.hitPoints(a)
}

func addStandard(a *Army, k *catalog.Kind) bool {
	if len(a.units) >= MaxUnits {
		return false
	}
	a.units = append(a.units, &Unit{Kind: k})
	return true
}

// addGarrison installs k as the army's single garrison, replacing any
// previous one. Non-garrison kinds are rejected.
func addGarrison(a *Army, k *catalog.Kind) bool {
	if k.Hook != catalog.HookGarrison {
		return false
	}
	a.units = []*Unit{{Kind: k}}
	return true
}

func collectLoadouts(a *Army, phase types.Phase) *dice.Pool {
	pool := &dice.Pool{}
	for _, u := range a.units {
		loadout := u.Kind.Clash
		if phase == types.PhaseArchery {
			loadout = u.Kind.Archery
		}
		for _, v := range loadout {
			pool.Add(dice.NewDie(v))
		}
	}
	return pool
}

// removeWorstUnit removes the first unit whose clash loadout is exactly
// one die of the earliest variant in the loss priority. Units with larger
// clash loadouts are never chosen.
func removeWorstUnit(a *Army) bool {
	for _, v := range a.lossPriority {
		for i, u := range a.units {
			if len(u.Kind.Clash) == 1 && u.Kind.Clash[0] == v {
				a.log.Debug("removing unit", zap.String("unit", u.Kind.Name), zap.Stringer("die", v))
				a.units = append(a.units[:i], a.units[i+1:]...)
				return true
			}
		}
	}
	return false
}

// downgradeGarrison steps the garrison down one level: 3→2, 2→1,
// 1→destroyed.
func downgradeGarrison(a *Army) bool {
	if len(a.units) == 0 {
		return false
	}
	current := a.units[0].Kind
	if current.Downgrade == nil {
		a.units = nil
		a.log.Debug("garrison destroyed", zap.String("unit", current.Name))
		return true
	}
	a.units = []*Unit{{Kind: current.Downgrade}}
	a.log.Debug("garrison downgraded", zap.String("from", current.Name), zap.String("to", current.Downgrade.Name))
	return true
}

func garrisonLevel(a *Army) int {
	if len(a.units) == 0 {
		return 0
	}
	return a.units[0].Kind.Level
}
