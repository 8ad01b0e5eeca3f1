// Package engine implements the 2048 board rules: sliding and merging tiles,
// spawning new tiles and classifying terminal states.
//
// Every function is a pure transform of an explicit Board value. Boards are
// arrays, so they are copied on assignment and never shared between callers.
package engine

import (
	"fmt"
	"strings"
)

const (
	// Size is the board dimension.
	Size = 4

	// WinTile is the tile value that counts as a win.
	WinTile = 2048
)

// Board is a 4x4 grid. A zero cell is empty; any other value is a tile.
type Board [Size][Size]int

// Cell addresses a board position.
type Cell struct {
	Row, Col int
}

// Empty returns a board with no tiles.
func Empty() Board {
	return Board{}
}

// Equal reports whether two boards hold the same value in every cell.
func Equal(a, b Board) bool {
	for r := range Size {
		for c := range Size {
			if a[r][c] != b[r][c] {
				return false
			}
		}
	}
	return true
}

// Score returns the sum of all cell values.
func Score(b Board) int {
	sum := 0
	for r := range Size {
		for c := range Size {
			sum += b[r][c]
		}
	}
	return sum
}

// MaxTile returns the highest tile value on the board.
func MaxTile(b Board) int {
	maxVal := 0
	for r := range Size {
		for c := range Size {
			if b[r][c] > maxVal {
				maxVal = b[r][c]
			}
		}
	}
	return maxVal
}

// EmptyCells returns the positions of all empty cells in row-major order.
func EmptyCells(b Board) []Cell {
	var cells []Cell
	for r := range Size {
		for c := range Size {
			if b[r][c] == 0 {
				cells = append(cells, Cell{Row: r, Col: c})
			}
		}
	}
	return cells
}

// TileCount returns the number of occupied cells.
func TileCount(b Board) int {
	return Size*Size - len(EmptyCells(b))
}

// String renders the board as four space-separated rows.
func (b Board) String() string {
	var sb strings.Builder
	for r := range Size {
		if r > 0 {
			sb.WriteByte('\n')
		}
		for c := range Size {
			if c > 0 {
				sb.WriteByte(' ')
			}
			fmt.Fprintf(&sb, "%4d", b[r][c])
		}
	}
	return sb.String()
}
