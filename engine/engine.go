// Package engine provides the battle controller that wires armies, the
// modifier pipelines and loss resolution into one archery round followed
// by clash rounds until a terminal outcome.
package engine

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/nathoo/skirmish/engine/army"
	"github.com/nathoo/skirmish/engine/dice"
	"github.com/nathoo/skirmish/engine/modifier"
	"github.com/nathoo/skirmish/engine/state"
	"github.com/nathoo/skirmish/types"
)

// DefaultRoundCap bounds the number of rounds a battle may run when no
// WithRoundCap option is given.
const DefaultRoundCap = 500

var (
	// ErrUnknownTerrain is returned for a terrain name outside Terrains.
	ErrUnknownTerrain = errors.New("unknown terrain")
	// ErrNilArmy is returned when a battle is created without both armies.
	ErrNilArmy = errors.New("battle needs a player and an enemy army")
)

// Terrains returns every valid terrain.
func Terrains() []types.Terrain {
	return []types.Terrain{
		types.TerrainMountain,
		types.TerrainForest,
		types.TerrainMarshes,
		types.TerrainBadlands,
		types.TerrainFrozenWastes,
	}
}

// ParseTerrain looks up a terrain by name, ignoring case. Underscores are
// accepted in place of spaces.
func ParseTerrain(name string) (types.Terrain, error) {
	n := strings.ReplaceAll(strings.TrimSpace(name), "_", " ")
	var valid []string
	for _, t := range Terrains() {
		if strings.EqualFold(n, string(t)) {
			return t, nil
		}
		valid = append(valid, string(t))
	}
	return "", fmt.Errorf("%w: %q (valid options: %s)", ErrUnknownTerrain, name, strings.Join(valid, ", "))
}

// Modifiers are the two pipelines a battle applies every round. Either may
// be nil.
type Modifiers struct {
	Roll   *modifier.RollModifier
	Result *modifier.ResultModifier
}

// Battle runs one battle to completion. It owns its armies, pipelines and
// random source; none of them may be shared with another battle.
type Battle struct {
	State *state.Battle

	mods     Modifiers
	log      *zap.Logger
	roundCap int

	initialValue int
	lostValue    int
	result       types.BattleResult
	done         bool
}

// Option configures a Battle.
type Option func(*Battle)

// WithRNG sets the battle's random source.
func WithRNG(src dice.Roller) Option {
	return func(b *Battle) {
		if src != nil {
			b.State.Dice = src
		}
	}
}

// WithLogger sets the logger for round tracing.
func WithLogger(l *zap.Logger) Option {
	return func(b *Battle) {
		if l != nil {
			b.log = l
		}
	}
}

// WithRoundCap bounds the number of rounds, archery included. Zero means
// unlimited.
func WithRoundCap(n int) Option {
	return func(b *Battle) {
		b.roundCap = max(n, 0)
	}
}

// NewBattle sets up a battle. The armies and pipelines are owned by the
// battle from here on.
func NewBattle(player, enemy *army.Army, terrain types.Terrain, mods Modifiers, opts ...Option) (*Battle, error) {
	if player == nil || enemy == nil {
		return nil, ErrNilArmy
	}
	t, err := ParseTerrain(string(terrain))
	if err != nil {
		return nil, err
	}

	b := &Battle{
		State:    state.New(player, enemy, t, nil),
		mods:     mods,
		log:      zap.NewNop(),
		roundCap: DefaultRoundCap,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.State.Dice == nil {
		b.State.Dice = NewRNG(time.Now().UnixNano())
	}
	b.State.Log = b.log
	b.initialValue = player.Value()

	b.log.Debug("setting up battle",
		zap.String("terrain", string(t)),
		zap.Stringers("player", player.Units()),
		zap.Stringers("enemy", enemy.Units()),
		zap.Strings("roll", mods.Roll.Names()),
		zap.Strings("result", mods.Result.Names()))
	return b, nil
}

// Perform runs the battle to a terminal outcome and returns the result.
// Calling it again returns the same result without fighting further.
func (b *Battle) Perform() types.BattleResult {
	if b.done {
		return b.result
	}
	s := b.State

	// 1. Archery, exactly once.
	b.log.Debug("performing archery round")
	b.round()

	// 2. Clash rounds until someone is down or the cap is hit.
	for {
		if outcome, over := b.outcome(); over {
			b.result.Outcome = outcome
			break
		}
		if b.roundCap > 0 && b.result.Rounds >= b.roundCap {
			b.result.Outcome = types.OutcomeUndecided
			b.result.Anomaly = true
			b.log.Warn("round cap reached without a decision",
				zap.Int("rounds", b.result.Rounds),
				zap.Int("player_hp", s.Player.HitPoints()),
				zap.Int("enemy_hp", s.Enemy.HitPoints()))
			break
		}
		if s.Phase == types.PhaseArchery {
			s.Phase = types.PhaseClash
			s.ClashRound = 1
		} else {
			s.ClashRound++
		}
		b.log.Debug("performing clash round", zap.Int("round", s.ClashRound))
		b.round()
	}

	b.result.NetResources = s.NetResources
	b.result.ValueLost = b.lostValue
	b.done = true
	b.log.Debug("battle over",
		zap.String("outcome", string(b.result.Outcome)),
		zap.Int("net_resources", b.result.NetResources),
		zap.Int("rounds", b.result.Rounds))
	return b.result
}

// round runs collect, roll modifiers, roll, result modifiers, losses and
// accounting for the current phase.
func (b *Battle) round() {
	s := b.State
	s.ResetRound()

	playerPool := s.Player.CollectDice(s.Phase)
	enemyPool := s.Enemy.CollectDice(s.Phase)
	b.mods.Roll.Apply(s)

	s.PlayerResult = dice.RollPool(playerPool, s.Dice)
	s.EnemyResult = dice.RollPool(enemyPool, s.Dice)
	b.log.Debug("rolled",
		zap.Stringer("player", s.PlayerResult),
		zap.Stringer("enemy", s.EnemyResult))

	b.mods.Result.Apply(s)
	s.PlayerResult = s.PlayerResult.Clamped()
	s.EnemyResult = s.EnemyResult.Clamped()

	playerLost, enemyLost := resolveLosses(s)
	b.log.Debug("losses",
		zap.Int("player", playerLost),
		zap.Int("enemy", enemyLost),
		zap.Int("player_hp", s.Player.HitPoints()),
		zap.Int("enemy_hp", s.Enemy.HitPoints()))

	b.updateNetResources()
	b.result.Rounds++
}
