package engine

import (
	"fmt"
	"strings"
)

// rotateClockwise returns g turned a quarter turn clockwise
func (g Grid) rotateClockwise() Grid {
	var out Grid
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			out[col][Size-1-row] = g[row][col]
		}
	}
	return out
}

// rotate turns g clockwise the given number of quarter turns
func (g Grid) rotate(times int) Grid {
	times = ((times % 4) + 4) % 4
	for i := 0; i < times; i++ {
		g = g.rotateClockwise()
	}
	return g
}

// slideRow compacts a row to the left and merges equal neighbours once.
// A tile produced by a merge never merges again in the same slide.
func slideRow(row [Size]int) ([Size]int, int) {
	compact := make([]int, 0, Size)
	for _, v := range row {
		if v != 0 {
			compact = append(compact, v)
		}
	}

	gain := 0
	for i := 0; i < len(compact)-1; i++ {
		if compact[i] != 0 && compact[i] == compact[i+1] {
			compact[i] *= 2
			gain += compact[i]
			compact[i+1] = 0
			i++
		}
	}

	var out [Size]int
	n := 0
	for _, v := range compact {
		if v != 0 {
			out[n] = v
			n++
		}
	}
	return out, gain
}

// slide rotates g so that d points left, slides every row, and rotates back
func slide(g Grid, d Direction) (Grid, int, error) {
	turns, ok := d.rotations()
	if !ok {
		return g, 0, fmt.Errorf("%w: %q", ErrInvalidDirection, string(d))
	}

	rotated := g.rotate(turns)
	gain := 0
	for row := 0; row < Size; row++ {
		var rowGain int
		rotated[row], rowGain = slideRow(rotated[row])
		gain += rowGain
	}
	return rotated.rotate((4 - turns) % 4), gain, nil
}

// Preview computes the board a move would produce, without spawning.
// It reports the merge gain and whether any cell changed.
func Preview(g Grid, d Direction) (Grid, int, bool, error) {
	next, gain, err := slide(g, d)
	if err != nil {
		return g, 0, false, err
	}
	return next, gain, next != g, nil
}

// HasWinningTile reports whether any cell holds WinningTile
func (g Grid) HasWinningTile() bool {
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			if g[row][col] == WinningTile {
				return true
			}
		}
	}
	return false
}

// NoMovesLeft reports whether the board is full with no equal neighbours
func (g Grid) NoMovesLeft() bool {
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			if g[row][col] == 0 {
				return false
			}
		}
	}

	for row := 0; row < Size; row++ {
		for col := 0; col < Size-1; col++ {
			if g[row][col] != 0 && g[row][col] == g[row][col+1] {
				return false
			}
		}
	}

	for row := 0; row < Size-1; row++ {
		for col := 0; col < Size; col++ {
			if g[row][col] != 0 && g[row][col] == g[row+1][col] {
				return false
			}
		}
	}

	return true
}

// EmptyCells returns the coordinates of all empty cells in row-major order
func (g Grid) EmptyCells() []Tile {
	var empty []Tile
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			if g[row][col] == 0 {
				empty = append(empty, Tile{Row: row, Col: col})
			}
		}
	}
	return empty
}

// String renders the board as ASCII art
func (g Grid) String() string {
	line := "+" + strings.Repeat("------+", Size)
	var b strings.Builder
	b.WriteString(line + "\n")
	for row := 0; row < Size; row++ {
		b.WriteString("|")
		for col := 0; col < Size; col++ {
			if g[row][col] == 0 {
				b.WriteString("      |")
			} else {
				fmt.Fprintf(&b, "%5d |", g[row][col])
			}
		}
		b.WriteString("\n" + line + "\n")
	}
	return b.String()
}
