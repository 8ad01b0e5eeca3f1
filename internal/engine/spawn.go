package engine

import (
	"math/rand"
	"time"
)

// Spawn4Probability is the chance that a spawned tile is a 4 instead of a 2.
const Spawn4Probability = 0.10

// Rand is the source of randomness for tile spawns.
type Rand interface {
	// Intn picks uniformly among n options, returning a value in [0, n).
	Intn(n int) int

	// SpawnValue returns 2 with probability 0.9 and 4 with probability 0.1.
	SpawnValue() int
}

// MathRand adapts a math/rand generator to Rand.
type MathRand struct {
	rng *rand.Rand
}

// NewRand returns a seeded Rand. A zero seed uses the current time.
func NewRand(seed int64) *MathRand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &MathRand{rng: rand.New(rand.NewSource(seed))}
}

// Intn implements Rand.
func (m *MathRand) Intn(n int) int {
	return m.rng.Intn(n)
}

// SpawnValue implements Rand.
func (m *MathRand) SpawnValue() int {
	if m.rng.Float64() < Spawn4Probability {
		return 4
	}
	return 2
}

// SpawnTile places a 2 or 4 in a uniformly chosen empty cell.
// A full board is returned unchanged.
func SpawnTile(b Board, rng Rand) Board {
	cells := EmptyCells(b)
	if len(cells) == 0 {
		return b
	}

	cell := cells[rng.Intn(len(cells))]
	b[cell.Row][cell.Col] = rng.SpawnValue()
	return b
}

// New returns an empty board seeded with two tiles. The second spawn sees the
// board produced by the first.
func New(rng Rand) Board {
	b := Empty()
	b = SpawnTile(b, rng)
	return SpawnTile(b, rng)
}
