package engine

// Direction selects which way tiles slide.
type Direction int

const (
	Left Direction = iota
	Right
	Up
	Down
)

// Directions lists every direction in a stable order.
var Directions = [...]Direction{Left, Right, Up, Down}

// String returns the lowercase direction name.
func (d Direction) String() string {
	switch d {
	case Left:
		return "left"
	case Right:
		return "right"
	case Up:
		return "up"
	case Down:
		return "down"
	default:
		return "unknown"
	}
}

// Row is a single line of cells in slide order.
type Row [Size]int

// CompressRow slides a row toward index 0 and merges equal neighbours.
// Zeros are dropped first, then one left-to-right pass merges adjacent pairs.
// A merged tile is not eligible to merge again in the same pass.
func CompressRow(row Row) Row {
	var result Row
	writePos := 0
	mergeable := false

	for i := range Size {
		if row[i] == 0 {
			continue
		}

		if mergeable && result[writePos-1] == row[i] {
			result[writePos-1] *= 2
			mergeable = false
		} else {
			result[writePos] = row[i]
			writePos++
			mergeable = true
		}
	}

	return result
}

// frame maps a board into the coordinate system where every move is a left
// slide, and back again.
type frame struct {
	in  func(Board) Board
	out func(Board) Board
}

func identity(b Board) Board { return b }

// frames holds the adapter for each direction. Down is transpose then reverse,
// so it unwinds as reverse then transpose.
var frames = map[Direction]frame{
	Left:  {in: identity, out: identity},
	Right: {in: reverseRows, out: reverseRows},
	Up:    {in: transpose, out: transpose},
	Down: {
		in:  func(b Board) Board { return reverseRows(transpose(b)) },
		out: func(b Board) Board { return transpose(reverseRows(b)) },
	},
}

// Move returns the board after sliding every line in the given direction.
// Unknown directions return the board unchanged.
func Move(b Board, dir Direction) Board {
	f, ok := frames[dir]
	if !ok {
		return b
	}

	moved := f.in(b)
	for r := range Size {
		moved[r] = CompressRow(moved[r])
	}
	return f.out(moved)
}

// reverseRows mirrors the board left to right.
func reverseRows(b Board) Board {
	var result Board
	for r := range Size {
		for c := range Size {
			result[r][c] = b[r][Size-1-c]
		}
	}
	return result
}

// transpose returns the matrix transpose.
func transpose(b Board) Board {
	var result Board
	for r := range Size {
		for c := range Size {
			result[r][c] = b[c][r]
		}
	}
	return result
}
