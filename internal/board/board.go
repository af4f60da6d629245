package board

import "tresraya/internal/models"

// winConditions defines all possible winning combinations, scanned in order:
// rows, then columns, then the two diagonals.
var winConditions = [][3]int{
	{0, 1, 2}, // top row
	{3, 4, 5}, // middle row
	{6, 7, 8}, // bottom row
	{0, 3, 6}, // left column
	{1, 4, 7}, // middle column
	{2, 5, 8}, // right column
	{0, 4, 8}, // diagonal
	{2, 4, 6}, // anti-diagonal
}

// IsFull reports whether no cell on the board is empty.
func IsFull(b models.Board) bool {
	for _, cell := range b {
		if cell == models.Empty {
			return false
		}
	}
	return true
}

// Winner evaluates the board: the first fully-occupied line in scan order
// decides the winner; a full board with no winner is a tie.
func Winner(b models.Board) models.Winner {
	for _, line := range winConditions {
		a, c, d := line[0], line[1], line[2]
		if b[a] != models.Empty && b[a] == b[c] && b[c] == b[d] {
			return models.Winner(b[a])
		}
	}
	if IsFull(b) {
		return models.WinnerTie
	}
	return models.WinnerNone
}

// WinningLine returns the index triple of the first winning line in scan
// order, or nil if no line is won. Independent of board fullness.
func WinningLine(b models.Board) []int {
	for _, line := range winConditions {
		a, c, d := line[0], line[1], line[2]
		if b[a] != models.Empty && b[a] == b[c] && b[c] == b[d] {
			return []int{a, c, d}
		}
	}
	return nil
}

// Reset returns a fresh board of 9 empty cells.
func Reset() models.Board {
	return models.Board{}
}
