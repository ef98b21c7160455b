// Package types defines the shared data structures for the skirmish simulator.
// This package contains only type definitions, no logic and no methods.
package types

// Side identifies one of the two forces in a battle.
type Side string

const (
	SidePlayer Side = "player"
	SideEnemy  Side = "enemy"
)

// Phase is the kind of roll a round performs.
type Phase string

const (
	PhaseArchery Phase = "archery"
	PhaseClash   Phase = "clash"
)

// Terrain is the battlefield type. Valid values are listed in engine.Terrains.
type Terrain string

const (
	TerrainMountain     Terrain = "Mountain"
	TerrainForest       Terrain = "Forest"
	TerrainMarshes      Terrain = "Marshes"
	TerrainBadlands     Terrain = "Badlands"
	TerrainFrozenWastes Terrain = "Frozen Wastes"
)

// Outcome is the terminal state of a battle from the player's perspective.
type Outcome string

const (
	OutcomeVictory   Outcome = "Player victory!"
	OutcomeDraw      Outcome = "Draw!"
	OutcomeDefeat    Outcome = "Player defeat!"
	OutcomeUndecided Outcome = "Undecided"
)

// BattleResult is the output of a single battle.
type BattleResult struct {
	Outcome      Outcome
	NetResources int
	Rounds       int   // rounds fought, archery included
	RoundLosses  []int // player value lost per round
	ValueLost    int   // player value lost over the whole battle
	Anomaly      bool  // round cap exceeded before a terminal state
}

// UnitCount names a catalog unit and how many of it to field.
type UnitCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// ArmySpec describes how to build one side's army for a trial.
type ArmySpec struct {
	Variant string      `json:"variant"` // "standard" or "garrison"
	Units   []UnitCount `json:"units"`
}

// ModSpec names a modification and its parameters.
type ModSpec struct {
	Name  string `json:"name"`
	Side  Side   `json:"side,omitempty"`
	Count int    `json:"count,omitempty"`
}

// Output is the result of a single console step.
type Output struct {
	Lines  []string
	Trace  []string
	System bool // meta-command output
	Quit   bool
}
