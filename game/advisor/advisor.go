// Package advisor ranks candidate moves for a 2048 board.
//
// It is a one-ply greedy evaluator built on engine.Preview: it never looks at
// spawned tiles, so it is deterministic for a given board.
package advisor

import (
	"sort"

	"github.com/wricardo/mcp-training/game2048/game/engine"
)

// Option is the outcome of sliding a board in one direction
type Option struct {
	Direction  engine.Direction `json:"direction"`
	Board      engine.Grid      `json:"board"`
	Gain       int              `json:"gain"`
	Moved      bool             `json:"moved"`
	EmptyCells int              `json:"empty_cells"`
	MaxTile    int              `json:"max_tile"`
	CornerMax  bool             `json:"corner_max"`
}

// Evaluate previews every direction in engine.Directions order
func Evaluate(g engine.Grid) []Option {
	options := make([]Option, 0, len(engine.Directions))
	for _, d := range engine.Directions {
		next, gain, moved, err := engine.Preview(g, d)
		if err != nil {
			continue
		}
		options = append(options, Option{
			Direction:  d,
			Board:      next,
			Gain:       gain,
			Moved:      moved,
			EmptyCells: engine.CountEmpty(next),
			MaxTile:    engine.MaxTile(next),
			CornerMax:  maxInCorner(next),
		})
	}
	return options
}

// Rank returns the moving options, best first. Ties keep engine.Directions order.
func Rank(g engine.Grid) []Option {
	var moving []Option
	for _, o := range Evaluate(g) {
		if o.Moved {
			moving = append(moving, o)
		}
	}
	sort.SliceStable(moving, func(i, j int) bool {
		return score(moving[i]) > score(moving[j])
	})
	return moving
}

// Best returns the highest ranked direction, or false when no move changes the board
func Best(g engine.Grid) (engine.Direction, bool) {
	ranked := Rank(g)
	if len(ranked) == 0 {
		return "", false
	}
	return ranked[0].Direction, true
}

// score weighs open space above immediate gain
func score(o Option) int {
	s := o.Gain + 16*o.EmptyCells
	if o.CornerMax {
		s += 2 * o.MaxTile
	}
	return s
}

func maxInCorner(g engine.Grid) bool {
	m := engine.MaxTile(g)
	if m == 0 {
		return false
	}
	last := engine.Size - 1
	return g[0][0] == m || g[0][last] == m || g[last][0] == m || g[last][last] == m
}
