package engine

import "math/rand"

// RNG wraps math/rand.Rand with deterministic position tracking.
// Each battle owns its own RNG; it is not safe for concurrent use.
type RNG struct {
	seed int64
	src  *rand.Rand
	pos  int64
}

// NewRNG creates a new deterministic RNG from a seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		seed: seed,
		src:  rand.New(rand.NewSource(seed)),
	}
}

// Roll returns a random integer in [1, sides].
func (r *RNG) Roll(sides int) int {
	r.pos++
	return r.src.Intn(sides) + 1
}

// Seed returns the seed the RNG was created with.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Position returns the number of RNG calls made since creation.
func (r *RNG) Position() int64 {
	return r.pos
}

// TrialSeed derives the seed of one Monte-Carlo trial from the run seed,
// so a trial replays identically no matter which worker ran it.
func TrialSeed(base int64, trial int) int64 {
	return base + int64(trial)
}
