package engine

import (
	"fmt"
	"strings"
)

const (
	// Size is the width and height of the board
	Size = 4

	// WinningTile is the tile value that wins the game
	WinningTile = 2048

	// InitialTiles is the number of tiles spawned on a fresh board
	InitialTiles = 2

	// FourProbability is the chance that a spawned tile is a 4 instead of a 2
	FourProbability = 0.1
)

// Direction is the direction tiles slide in
type Direction string

const (
	Left  Direction = "left"
	Right Direction = "right"
	Up    Direction = "up"
	Down  Direction = "down"
)

// Directions lists every valid direction
var Directions = []Direction{Left, Right, Up, Down}

// ParseDirection converts user input into a Direction.
// Accepts the direction names and the w/a/s/d keys, case-insensitively.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "left", "a":
		return Left, nil
	case "right", "d":
		return Right, nil
	case "up", "w":
		return Up, nil
	case "down", "s":
		return Down, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidDirection, s)
	}
}

// rotations returns how many clockwise quarter turns bring d to Left
func (d Direction) rotations() (int, bool) {
	switch d {
	case Left:
		return 0, true
	case Down:
		return 1, true
	case Right:
		return 2, true
	case Up:
		return 3, true
	default:
		return 0, false
	}
}

// Valid reports whether d is one of the four directions
func (d Direction) Valid() bool {
	_, ok := d.rotations()
	return ok
}

// Grid is the board, indexed [row][col]
type Grid [Size][Size]int

// Tile is a single placed tile
type Tile struct {
	Row   int `json:"row"`
	Col   int `json:"col"`
	Value int `json:"value"`
}

// MoveResult describes the outcome of one move attempt
type MoveResult struct {
	Moved   bool  `json:"moved"`
	Spawned *Tile `json:"spawned"`        // nil when nothing moved or the board was full
	Gain    int   `json:"gain,omitempty"` // score added by this move
}

// GameState is a serializable snapshot of an engine
type GameState struct {
	Board      Grid `json:"board"`
	Score      int  `json:"score"`
	BestScore  int  `json:"best_score"`
	Won        bool `json:"won"`
	Over       bool `json:"over"`
	MaxTile    int  `json:"max_tile"`
	EmptyCells int  `json:"empty_cells"`
}
