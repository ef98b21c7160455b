// Package state holds the mutable context threaded through one battle:
// both armies, terrain, phase, round counter, the latest roll results and
// the running net-resource tally.
package state

import (
	"go.uber.org/zap"

	"github.com/nathoo/skirmish/engine/army"
	"github.com/nathoo/skirmish/engine/dice"
	"github.com/nathoo/skirmish/types"
)

// Battle is owned by one battle controller for the battle's lifetime.
type Battle struct {
	Player  *army.Army
	Enemy   *army.Army
	Terrain types.Terrain
	Phase   types.Phase

	// ClashRound is 1-based and only meaningful during the clash phase.
	ClashRound int

	PlayerResult dice.Result
	EnemyResult  dice.Result

	NetResources int

	// Dice is the battle's random source. Never shared between battles.
	Dice dice.Roller

	Log *zap.Logger
}

// New creates the state for a battle about to begin.
func New(player, enemy *army.Army, terrain types.Terrain, src dice.Roller) *Battle {
	return &Battle{
		Player:     player,
		Enemy:      enemy,
		Terrain:    terrain,
		Phase:      types.PhaseArchery,
		ClashRound: 1,
		Dice:       src,
		Log:        zap.NewNop(),
	}
}

// Army returns the army on the given side.
func (b *Battle) Army(side types.Side) *army.Army {
	if side == types.SideEnemy {
		return b.Enemy
	}
	return b.Player
}

// Opponent returns the army facing the given side.
func (b *Battle) Opponent(side types.Side) *army.Army {
	if side == types.SideEnemy {
		return b.Player
	}
	return b.Enemy
}

// Result returns the latest roll result of the given side for in-place
// modification.
func (b *Battle) Result(side types.Side) *dice.Result {
	if side == types.SideEnemy {
		return &b.EnemyResult
	}
	return &b.PlayerResult
}

// OpponentResult returns the latest roll result of the side facing side.
func (b *Battle) OpponentResult(side types.Side) *dice.Result {
	return b.Result(Other(side))
}

// IncomingLosses is the casualty count side would take from the current
// results: opponent skulls minus (own shields minus opponent bolts). The
// value is not clamped and may be negative.
func (b *Battle) IncomingLosses(side types.Side) int {
	own := b.Result(side)
	opp := b.OpponentResult(side)
	return opp.Skulls - (own.Shields - opp.Bolts)
}

// ResetRound clears per-round army state before a new round begins.
func (b *Battle) ResetRound() {
	b.Player.SetMercy(false)
	b.Enemy.SetMercy(false)
}

// Other returns the opposing side.
func Other(side types.Side) types.Side {
	if side == types.SideEnemy {
		return types.SidePlayer
	}
	return types.SideEnemy
}
