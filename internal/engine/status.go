package engine

// HasEmptyCell reports whether at least one cell is empty.
func HasEmptyCell(b Board) bool {
	for r := range Size {
		for c := range Size {
			if b[r][c] == 0 {
				return true
			}
		}
	}
	return false
}

// HasPossibleMerge reports whether any two horizontally or vertically
// adjacent tiles hold the same value. Empty cells never count.
func HasPossibleMerge(b Board) bool {
	for r := range Size {
		for c := range Size {
			val := b[r][c]
			if val == 0 {
				continue
			}
			if c < Size-1 && b[r][c+1] == val {
				return true
			}
			if r < Size-1 && b[r+1][c] == val {
				return true
			}
		}
	}
	return false
}

// IsGameOver reports whether no move can change the board.
func IsGameOver(b Board) bool {
	return !HasEmptyCell(b) && !HasPossibleMerge(b)
}

// HasWon reports whether any cell holds the winning tile.
func HasWon(b Board) bool {
	for r := range Size {
		for c := range Size {
			if b[r][c] == WinTile {
				return true
			}
		}
	}
	return false
}
