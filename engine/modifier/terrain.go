package modifier

import (
	"go.uber.org/zap"

	"github.com/nathoo/skirmish/engine/army"
	"github.com/nathoo/skirmish/engine/dice"
	"github.com/nathoo/skirmish/engine/state"
	"github.com/nathoo/skirmish/types"
)

// TerrainRoll applies terrain effects to both pools before rolling:
//
//	Mountain (archery): each pool is cut down to its single best die.
//	Badlands (archery): mounted units add their clash dice.
//	Marshes (every round): every Red die becomes White.
type TerrainRoll struct{}

func (TerrainRoll) Name() string { return "TerrainRoll" }

func (TerrainRoll) Apply(b *state.Battle) {
	if b.Phase == types.PhaseArchery {
		switch b.Terrain {
		case types.TerrainMountain:
			b.Log.Debug("mountain: reducing pools to one die")
			reduceToOne(b.Player.Pool())
			reduceToOne(b.Enemy.Pool())
		case types.TerrainBadlands:
			b.Log.Debug("badlands: adding rider dice")
			addRiderDice(b.Player)
			addRiderDice(b.Enemy)
		}
	}
	if b.Terrain == types.TerrainMarshes {
		n := b.Player.Pool().Replace(dice.Red, dice.White) + b.Enemy.Pool().Replace(dice.Red, dice.White)
		if n > 0 {
			b.Log.Debug("marshes: converted red dice to white", zap.Int("dice", n))
		}
	}
}

// reduceToOne removes dice worst-first until a single die remains. The
// survivor depends only on the variants present, not on pool order.
func reduceToOne(p *dice.Pool) {
	if p == nil {
		return
	}
	order := dice.LossPriority()
	for p.Len() > 1 {
		removed := false
		for _, v := range order {
			if p.Remove(v) {
				removed = true
				break
			}
		}
		if !removed {
			return
		}
	}
}

func addRiderDice(a *army.Army) {
	p := a.Pool()
	if p == nil {
		return
	}
	for _, u := range a.Units() {
		if !u.Kind.Role.Mounted() {
			continue
		}
		for _, v := range u.Kind.Clash {
			p.Add(dice.NewDie(v))
		}
	}
}

// TerrainResult applies terrain effects after rolling. In a forest the
// archery round grants each side a two-die reroll pass, player first.
type TerrainResult struct{}

func (TerrainResult) Name() string { return "TerrainResult" }

func (TerrainResult) Apply(b *state.Battle) {
	if b.Phase != types.PhaseArchery || b.Terrain != types.TerrainForest {
		return
	}
	b.Log.Debug("forest: rerolling blanks for best dice")
	(&Reroll{Side: types.SidePlayer, Count: 2}).Apply(b)
	(&Reroll{Side: types.SideEnemy, Count: 2}).Apply(b)
}
