package game

import "tresraya/internal/models"

// IsLegalSuccessor reports whether next is a legal successor of prev for a
// room whose turn pointer is turn: exactly one previously-empty cell now
// holds turn's symbol, every other cell is untouched, and the submitted turn
// pointer is the alternation of turn.
func IsLegalSuccessor(prev, next models.Board, turn, submittedTurn models.Symbol) bool {
	if !turn.Valid() || submittedTurn != turn.Opponent() {
		return false
	}
	changed := -1
	for i := range prev {
		if prev[i] == next[i] {
			continue
		}
		if changed != -1 || prev[i] != models.Empty || next[i] != turn {
			return false
		}
		changed = i
	}
	return changed != -1
}
