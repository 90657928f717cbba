package engine

import (
	"fmt"
	"math/bits"
)

// MaxTile returns the largest value on the board
func MaxTile(g Grid) int {
	max := 0
	for _, row := range g {
		for _, v := range row {
			if v > max {
				max = v
			}
		}
	}
	return max
}

// CountEmpty counts the empty cells on the board
func CountEmpty(g Grid) int {
	count := 0
	for _, row := range g {
		for _, v := range row {
			if v == 0 {
				count++
			}
		}
	}
	return count
}

// IsTileValue reports whether v may appear on a board: 0 or a power of two >= 2
func IsTileValue(v int) bool {
	if v == 0 {
		return true
	}
	return v >= 2 && bits.OnesCount(uint(v)) == 1
}

// ValidateGrid checks that every cell is empty or a power of two
func ValidateGrid(g Grid) error {
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			if !IsTileValue(g[row][col]) {
				return fmt.Errorf("%w: cell (%d,%d) holds %d", ErrInvalidGrid, row, col, g[row][col])
			}
		}
	}
	return nil
}

// GridFromValues builds a board from Size*Size values in row-major order
func GridFromValues(values []int) (Grid, error) {
	var g Grid
	if len(values) != Size*Size {
		return g, fmt.Errorf("%w: expected %d values, got %d", ErrInvalidGrid, Size*Size, len(values))
	}
	for i, v := range values {
		g[i/Size][i%Size] = v
	}
	if err := ValidateGrid(g); err != nil {
		return Grid{}, err
	}
	return g, nil
}

// Mirror flips the board left to right
func Mirror(g Grid) Grid {
	var out Grid
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			out[row][Size-1-col] = g[row][col]
		}
	}
	return out
}
