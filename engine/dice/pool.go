package dice

import "fmt"

// Roller is the random source for dice rolls. Roll returns an integer in
// [1, sides]. Implementations need not be safe for concurrent use; each
// battle owns its own.
type Roller interface {
	Roll(sides int) int
}

// Die is a single die instance in a pool. Face is meaningful only after
// the die has been rolled.
type Die struct {
	Variant  Variant
	Face     Face
	Rolled   bool
	Rerolled bool // set during a reroll pass, cleared when the pass ends
}

// NewDie returns an unrolled die of the given variant.
func NewDie(v Variant) *Die {
	return &Die{Variant: v}
}

// Roll picks one of the die's six faces uniformly at random.
func Roll(d *Die, src Roller) Face {
	d.Face = faceTables[d.Variant][src.Roll(6)-1]
	d.Rolled = true
	return d.Face
}

func (d *Die) String() string {
	return d.Variant.String()
}

// Result is the symbol-wise sum over a rolled pool. Modifications adjust
// the counters directly, so fields may be negative until Clamped is used.
type Result struct {
	Skulls  int
	Shields int
	Bolts   int
	Stars   int
	Blanks  int
}

// Add accumulates a face into the result.
func (r *Result) Add(f Face) {
	r.Skulls += f.Skulls
	r.Shields += f.Shields
	r.Bolts += f.Bolts
	r.Stars += f.Stars
	r.Blanks += f.Blanks
}

// Sub removes a face from the result.
func (r *Result) Sub(f Face) {
	r.Skulls -= f.Skulls
	r.Shields -= f.Shields
	r.Bolts -= f.Bolts
	r.Stars -= f.Stars
	r.Blanks -= f.Blanks
}

// Clamped returns a copy with every counter floored at zero.
func (r Result) Clamped() Result {
	return Result{
		Skulls:  max(r.Skulls, 0),
		Shields: max(r.Shields, 0),
		Bolts:   max(r.Bolts, 0),
		Stars:   max(r.Stars, 0),
		Blanks:  max(r.Blanks, 0),
	}
}

func (r Result) String() string {
	return fmt.Sprintf("Skulls: %d, Shields: %d, Bolts: %d, Stars: %d, Blanks: %d",
		r.Skulls, r.Shields, r.Bolts, r.Stars, r.Blanks)
}

// Pool is the ordered multiset of dice one side rolls in one phase.
type Pool struct {
	Dice []*Die
}

// NewPool returns a pool with one fresh die per variant given.
func NewPool(variants ...Variant) *Pool {
	p := &Pool{Dice: make([]*Die, 0, len(variants))}
	for _, v := range variants {
		p.Add(NewDie(v))
	}
	return p
}

// Add appends a die to the pool.
func (p *Pool) Add(d *Die) *Pool {
	p.Dice = append(p.Dice, d)
	return p
}

// Remove deletes the first die of variant v. It reports whether a die
// was removed.
func (p *Pool) Remove(v Variant) bool {
	if p == nil {
		return false
	}
	for i, d := range p.Dice {
		if d.Variant == v {
			p.Dice = append(p.Dice[:i], p.Dice[i+1:]...)
			return true
		}
	}
	return false
}

// Replace converts every die of variant from into a fresh die of variant
// to, keeping pool order. It returns the number of dice converted.
func (p *Pool) Replace(from, to Variant) int {
	if p == nil {
		return 0
	}
	n := 0
	for i, d := range p.Dice {
		if d.Variant == from {
			p.Dice[i] = NewDie(to)
			n++
		}
	}
	return n
}

// Count returns how many dice of variant v the pool holds.
func (p *Pool) Count(v Variant) int {
	if p == nil {
		return 0
	}
	n := 0
	for _, d := range p.Dice {
		if d.Variant == v {
			n++
		}
	}
	return n
}

// Len returns the number of dice in the pool.
func (p *Pool) Len() int {
	if p == nil {
		return 0
	}
	return len(p.Dice)
}

// Counts returns the number of dice per variant name, for logging.
func (p *Pool) Counts() map[string]int {
	counts := map[string]int{}
	if p == nil {
		return counts
	}
	for _, d := range p.Dice {
		counts[d.Variant.String()]++
	}
	return counts
}

// Sum totals the current faces of every rolled die in the pool.
func (p *Pool) Sum() Result {
	var r Result
	if p == nil {
		return r
	}
	for _, d := range p.Dice {
		if d.Rolled {
			r.Add(d.Face)
		}
	}
	return r
}

// ClearRerolled resets the rerolled flag on every die.
func (p *Pool) ClearRerolled() {
	if p == nil {
		return
	}
	for _, d := range p.Dice {
		d.Rerolled = false
	}
}

// RollPool rolls every die in the pool independently and returns the
// symbol-wise sum of the faces.
func RollPool(p *Pool, src Roller) Result {
	var r Result
	if p == nil {
		return r
	}
	for _, d := range p.Dice {
		r.Add(Roll(d, src))
	}
	return r
}
