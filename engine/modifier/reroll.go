package modifier

import (
	"go.uber.org/zap"

	"github.com/nathoo/skirmish/engine/dice"
	"github.com/nathoo/skirmish/engine/state"
	"github.com/nathoo/skirmish/types"
)

// Reroll rerolls up to Count blank dice of one side, best variants first.
// Each die is rerolled at most once per pass. A nil Priority means
// dice.RerollPriority.
type Reroll struct {
	Side     types.Side
	Count    int
	Priority []dice.Variant
}

func (r *Reroll) Name() string { return "Reroll" }

func (r *Reroll) Apply(b *state.Battle) {
	pool := b.Army(r.Side).Pool()
	res := b.Result(r.Side)
	if pool == nil || res.Blanks <= 0 {
		return
	}
	order := r.Priority
	if order == nil {
		order = dice.RerollPriority()
	}

	for i := 0; i < r.Count; i++ {
		d := firstBlank(pool, order)
		if d == nil {
			break
		}
		old := d.Face
		res.Sub(old)
		dice.Roll(d, b.Dice)
		d.Rerolled = true
		res.Add(d.Face)
		b.Log.Debug("rerolled die",
			zap.String("side", string(r.Side)),
			zap.Stringer("die", d.Variant),
			zap.Any("from", old),
			zap.Any("to", d.Face))
	}
	pool.ClearRerolled()
}

func firstBlank(p *dice.Pool, order []dice.Variant) *dice.Die {
	for _, v := range order {
		for _, d := range p.Dice {
			if d.Variant == v && d.Rolled && !d.Rerolled && d.Face.Blanks > 0 {
				return d
			}
		}
	}
	return nil
}
