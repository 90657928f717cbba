package engine

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
)

// Rand is the randomness the engine needs to place new tiles.
// *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	// IntN picks one of n empty cells
	IntN(n int) int
	// Float64 drives the 2-or-4 choice
	Float64() float64
}

// NewRand returns a PCG source seeded from crypto/rand
func NewRand() *rand.Rand {
	var seed [16]byte
	_, _ = crand.Read(seed[:])
	return rand.New(rand.NewPCG(binary.LittleEndian.Uint64(seed[:8]), binary.LittleEndian.Uint64(seed[8:])))
}

// NewSeededRand returns a deterministic source for replays and tests
func NewSeededRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// spawnTile places a 2 (90%) or 4 (10%) on a uniformly chosen empty cell.
// Returns nil when the board has no empty cell.
func spawnTile(g *Grid, rng Rand) *Tile {
	empty := g.EmptyCells()
	if len(empty) == 0 {
		return nil
	}

	tile := empty[rng.IntN(len(empty))]
	tile.Value = 2
	if rng.Float64() >= 1-FourProbability {
		tile.Value = 4
	}

	g[tile.Row][tile.Col] = tile.Value
	return &tile
}
