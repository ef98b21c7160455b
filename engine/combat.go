package engine

import (
	"go.uber.org/zap"

	"github.com/nathoo/skirmish/engine/state"
	"github.com/nathoo/skirmish/types"
)

// resolveLosses applies this round's casualties to both armies, player
// first. Negative counts apply nothing. An army whose opponent has mercy
// set this round is never dealt the finishing blow. It returns the
// casualties actually applied.
func resolveLosses(s *state.Battle) (player, enemy int) {
	playerLoss := max(s.IncomingLosses(types.SidePlayer), 0)
	enemyLoss := max(s.IncomingLosses(types.SideEnemy), 0)

	if s.Enemy.Mercy() {
		player = s.Player.ApplyLossesGuarded(playerLoss)
	} else {
		player = s.Player.ApplyLosses(playerLoss)
	}
	if s.Player.Mercy() {
		enemy = s.Enemy.ApplyLossesGuarded(enemyLoss)
	} else {
		enemy = s.Enemy.ApplyLosses(enemyLoss)
	}
	return player, enemy
}

// updateNetResources charges the player value lost this round against the
// net-resource tally.
func (b *Battle) updateNetResources() {
	roundLoss := (b.initialValue - b.lostValue) - b.State.Player.Value()
	b.lostValue += roundLoss
	b.State.NetResources -= roundLoss
	b.result.RoundLosses = append(b.result.RoundLosses, roundLoss)
	if roundLoss != 0 {
		b.log.Debug("lost value this round", zap.Int("value", roundLoss))
	}
}

// outcome reports the terminal outcome, if any, from hit points.
func (b *Battle) outcome() (types.Outcome, bool) {
	player := b.State.Player.HitPoints()
	enemy := b.State.Enemy.HitPoints()
	switch {
	case player == 0 && enemy == 0:
		return types.OutcomeDraw, true
	case player == 0:
		return types.OutcomeDefeat, true
	case enemy == 0:
		return types.OutcomeVictory, true
	}
	return types.OutcomeUndecided, false
}
