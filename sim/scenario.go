// Package sim runs many independent battles of one scenario in parallel
// and aggregates their results.
package sim

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/nathoo/skirmish/engine"
	"github.com/nathoo/skirmish/engine/army"
	"github.com/nathoo/skirmish/engine/catalog"
	"github.com/nathoo/skirmish/engine/modifier"
	"github.com/nathoo/skirmish/types"
)

// DefaultTrials is the trial count used when a scenario does not set one.
const DefaultTrials = 5000

// ErrEmptyArmy is returned for an army spec that fields no units.
var ErrEmptyArmy = errors.New("army has no units")

// Scenario is everything needed to build one trial: both armies, the
// terrain and the modification pipelines, by name.
type Scenario struct {
	Name     string          `json:"name"`
	Title    string          `json:"title,omitempty"`
	Terrain  types.Terrain   `json:"terrain"`
	Player   types.ArmySpec  `json:"player"`
	Enemy    types.ArmySpec  `json:"enemy"`
	Roll     []types.ModSpec `json:"roll,omitempty"`
	Result   []types.ModSpec `json:"result,omitempty"`
	Trials   int             `json:"trials,omitempty"`
	RoundCap int             `json:"round_cap,omitempty"`
}

// Validate checks every name in the scenario against the catalog and the
// modification registry. All problems are reported together.
func (sc *Scenario) Validate(cat *catalog.Catalog) error {
	var err error
	if sc.Name == "" {
		err = multierr.Append(err, errors.New("scenario has no name"))
	}
	if _, terr := engine.ParseTerrain(string(sc.Terrain)); terr != nil {
		err = multierr.Append(err, terr)
	}
	err = multierr.Append(err, validateArmy(cat, "player", sc.Player))
	err = multierr.Append(err, validateArmy(cat, "enemy", sc.Enemy))
	for _, spec := range sc.Roll {
		if _, merr := modifier.Build(modifier.StageRoll, spec); merr != nil {
			err = multierr.Append(err, fmt.Errorf("roll: %w", merr))
		}
	}
	for _, spec := range sc.Result {
		if _, merr := modifier.Build(modifier.StageResult, spec); merr != nil {
			err = multierr.Append(err, fmt.Errorf("result: %w", merr))
		}
	}
	if sc.Trials < 0 {
		err = multierr.Append(err, fmt.Errorf("trials %d must not be negative", sc.Trials))
	}
	if sc.RoundCap < 0 {
		err = multierr.Append(err, fmt.Errorf("round cap %d must not be negative", sc.RoundCap))
	}
	return err
}

func validateArmy(cat *catalog.Catalog, side string, spec types.ArmySpec) error {
	var err error
	variant, verr := army.ParseVariant(spec.Variant)
	if verr != nil {
		err = multierr.Append(err, fmt.Errorf("%s: %w", side, verr))
	}
	total := 0
	for _, u := range spec.Units {
		k, kerr := cat.Lookup(u.Name)
		if kerr != nil {
			err = multierr.Append(err, fmt.Errorf("%s: %w", side, kerr))
			continue
		}
		if u.Count < 1 {
			err = multierr.Append(err, fmt.Errorf("%s: %s count %d, want at least 1", side, u.Name, u.Count))
		}
		if variant == army.Garrison && k.Hook != catalog.HookGarrison {
			err = multierr.Append(err, fmt.Errorf("%s: garrison army cannot field %s", side, u.Name))
		}
		total += u.Count
	}
	if total == 0 {
		err = multierr.Append(err, fmt.Errorf("%s: %w", side, ErrEmptyArmy))
	}
	return err
}

// TrialCount returns the number of trials to run.
func (sc *Scenario) TrialCount() int {
	if sc.Trials > 0 {
		return sc.Trials
	}
	return DefaultTrials
}

// buildArmy fields a fresh army from spec.
func buildArmy(cat *catalog.Catalog, spec types.ArmySpec, log *zap.Logger) (*army.Army, error) {
	variant, err := army.ParseVariant(spec.Variant)
	if err != nil {
		return nil, err
	}
	a := army.New(variant, army.WithLogger(log))
	for _, u := range spec.Units {
		k, err := cat.Lookup(u.Name)
		if err != nil {
			return nil, err
		}
		a.AddUnit(k, u.Count)
	}
	return a, nil
}

// NewBattle builds a fresh battle for one trial. Armies, pools and
// modification instances are never shared between battles.
func (sc *Scenario) NewBattle(cat *catalog.Catalog, seed int64, roundCap int, log *zap.Logger) (*engine.Battle, error) {
	player, err := buildArmy(cat, sc.Player, log.Named("player"))
	if err != nil {
		return nil, fmt.Errorf("player: %w", err)
	}
	enemy, err := buildArmy(cat, sc.Enemy, log.Named("enemy"))
	if err != nil {
		return nil, fmt.Errorf("enemy: %w", err)
	}
	roll, err := modifier.BuildRoll(sc.Roll)
	if err != nil {
		return nil, err
	}
	result, err := modifier.BuildResult(sc.Result)
	if err != nil {
		return nil, err
	}
	if sc.RoundCap > 0 {
		roundCap = sc.RoundCap
	}
	return engine.NewBattle(player, enemy, sc.Terrain,
		engine.Modifiers{Roll: roll, Result: result},
		engine.WithRNG(engine.NewRNG(seed)),
		engine.WithLogger(log),
		engine.WithRoundCap(roundCap))
}
