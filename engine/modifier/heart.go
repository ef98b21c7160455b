package modifier

import (
	"go.uber.org/zap"

	"github.com/nathoo/skirmish/engine/state"
	"github.com/nathoo/skirmish/types"
)

// MountainHeart spends one of Side's bolts to cancel the skulls of the
// opponent's single most damaging die, but only when damage would
// otherwise land.
type MountainHeart struct {
	Side types.Side
}

func (MountainHeart) Name() string { return "MountainHeart" }

func (m MountainHeart) Apply(b *state.Battle) {
	own := b.Result(m.Side)
	if own.Bolts < 1 || b.IncomingLosses(m.Side) <= 0 {
		return
	}
	pool := b.Opponent(m.Side).Pool()
	if pool == nil {
		return
	}
	opp := b.OpponentResult(m.Side)
	for _, skulls := range []int{3, 2, 1} {
		for _, d := range pool.Dice {
			if !d.Rolled || d.Face.Skulls != skulls {
				continue
			}
			d.Face.Skulls = 0
			opp.Skulls -= skulls
			own.Bolts--
			b.Log.Debug("mountain heart: ignored skulls",
				zap.String("side", string(m.Side)),
				zap.Stringer("die", d.Variant),
				zap.Int("skulls", skulls))
			return
		}
	}
}
