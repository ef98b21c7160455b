// Package dice implements the six-sided symbol dice, their fixed outcome
// tables, and pooled roll aggregation.
package dice

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownVariant is returned when a die name does not match any variant.
var ErrUnknownVariant = errors.New("unknown die variant")

// Variant identifies a die by colour. The outcome table of a die is
// determined solely by its variant.
type Variant int

const (
	White Variant = iota
	Red
	Orange
	Blue
	Purple
	Black
)

var variantNames = [...]string{
	White:  "White",
	Red:    "Red",
	Orange: "Orange",
	Blue:   "Blue",
	Purple: "Purple",
	Black:  "Black",
}

// Variants returns every die variant in declaration order.
func Variants() []Variant {
	return []Variant{White, Red, Orange, Blue, Purple, Black}
}

func (v Variant) String() string {
	if v < 0 || int(v) >= len(variantNames) {
		return fmt.Sprintf("Variant(%d)", int(v))
	}
	return variantNames[v]
}

// ParseVariant looks up a variant by name, ignoring case.
func ParseVariant(name string) (Variant, error) {
	for i, n := range variantNames {
		if strings.EqualFold(n, strings.TrimSpace(name)) {
			return Variant(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownVariant, name)
}

// MarshalText implements encoding.TextMarshaler.
func (v Variant) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *Variant) UnmarshalText(b []byte) error {
	parsed, err := ParseVariant(string(b))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// Face is one side of a die: a count per symbol.
type Face struct {
	Skulls  int
	Shields int
	Bolts   int
	Stars   int
	Blanks  int
}

var (
	blank      = Face{Blanks: 1}
	skull      = Face{Skulls: 1}
	shield     = Face{Shields: 1}
	twoSkulls  = Face{Skulls: 2}
	skullBolt  = Face{Skulls: 1, Bolts: 1}
	skullGuard = Face{Skulls: 1, Shields: 1}
)

// faceTables are the fixed outcome tables. Each face has probability 1/6.
var faceTables = [...][6]Face{
	White:  {skullGuard, skull, shield, blank, blank, blank},
	Red:    {twoSkulls, skullBolt, skull, skull, blank, blank},
	Orange: {skull, skull, skull, skull, blank, blank},
	Blue:   {shield, shield, skull, skull, skull, blank},
	Purple: {{Bolts: 2}, skullBolt, skull, skull, skull, blank},
	Black:  {{Skulls: 3}, twoSkulls, skull, skull, skull, {Bolts: 1}},
}

// Faces returns the outcome table for v. The returned array is a copy.
func Faces(v Variant) [6]Face {
	return faceTables[v]
}

// Expectation is the mean of each symbol over one roll of a die.
type Expectation struct {
	Skulls  float64
	Shields float64
	Bolts   float64
	Stars   float64
	Blanks  float64
}

// Expected returns the per-symbol expectation of a single roll of v.
func Expected(v Variant) Expectation {
	var sum Face
	for _, f := range faceTables[v] {
		sum.Skulls += f.Skulls
		sum.Shields += f.Shields
		sum.Bolts += f.Bolts
		sum.Stars += f.Stars
		sum.Blanks += f.Blanks
	}
	return Expectation{
		Skulls:  float64(sum.Skulls) / 6,
		Shields: float64(sum.Shields) / 6,
		Bolts:   float64(sum.Bolts) / 6,
		Stars:   float64(sum.Stars) / 6,
		Blanks:  float64(sum.Blanks) / 6,
	}
}

// RerollPriority orders variants best-first; reroll passes spend their
// budget on the most valuable blank dice first.
func RerollPriority() []Variant {
	return []Variant{Black, Purple, Blue, Red, Orange, White}
}

// LossPriority orders variants worst-first; casualties and pool
// reductions remove the cheapest dice first.
func LossPriority() []Variant {
	return []Variant{White, Orange, Red, Blue, Purple, Black}
}
