package modifier

import (
	"go.uber.org/zap"

	"github.com/nathoo/skirmish/engine/catalog"
	"github.com/nathoo/skirmish/engine/state"
	"github.com/nathoo/skirmish/types"
)

// HarvestUses is the per-battle use budget of a Harvest.
const HarvestUses = 2

// Harvest converts Side's spare bolts into net resources through its
// resource-hook units and holds back the killing blow while that is safe.
//
// Each round while uses remain it sets Side's mercy flag when Side would
// keep at least three units after this round's incoming losses. Bolts not
// needed to bring the opponent down to one hit point are spent one per
// resource unit that has not yet generated, each worth one net resource.
// Once the budget is spent mercy stays off for the rest of the battle.
//
// A Harvest carries state and must not be shared between battles.
type Harvest struct {
	Side types.Side
	uses int
}

// NewHarvest returns a Harvest with a full use budget.
func NewHarvest(side types.Side) *Harvest {
	return &Harvest{Side: side}
}

func (h *Harvest) Name() string { return "Harvest" }

// Uses returns how many resources the Harvest has generated.
func (h *Harvest) Uses() int { return h.uses }

func (h *Harvest) Apply(b *state.Battle) {
	friendly := b.Army(h.Side)
	if h.uses >= HarvestUses {
		friendly.SetMercy(false)
		return
	}

	incoming := max(b.IncomingLosses(h.Side), 0)
	friendly.SetMercy(friendly.Len()-incoming >= 3)

	spare := h.spareBolts(b)
	own := b.Result(h.Side)
	for _, u := range friendly.Units() {
		if spare <= 0 || h.uses >= HarvestUses {
			break
		}
		if u.Kind.Hook != catalog.HookResource || u.ResourceGenerated {
			continue
		}
		u.ResourceGenerated = true
		own.Bolts--
		spare--
		h.uses++
		b.NetResources++
		b.Log.Debug("harvest: generated resource",
			zap.String("side", string(h.Side)),
			zap.String("unit", u.Kind.Name),
			zap.Int("uses", h.uses))
	}

	if h.uses >= HarvestUses {
		friendly.SetMercy(false)
	}
}

// spareBolts is the number of Side's bolts beyond those needed to bring
// the opponent to one hit point this round.
func (h *Harvest) spareBolts(b *state.Battle) int {
	hp := b.Opponent(h.Side).HitPoints()
	if hp == 0 {
		return 0
	}
	own := b.Result(h.Side)
	opp := b.OpponentResult(h.Side)
	needed := (hp - 1) - (own.Skulls - opp.Shields)
	needed = min(max(needed, 0), max(own.Bolts, 0))
	return own.Bolts - needed
}
