package board

import (
	"testing"

	"tresraya/internal/models"

	"github.com/stretchr/testify/assert"
)

const (
	x = models.SymbolX
	o = models.SymbolO
	e = models.Empty
)

func TestWinnerEmptyBoard(t *testing.T) {
	assert.Equal(t, models.WinnerNone, Winner(models.Board{}))
	assert.Nil(t, WinningLine(models.Board{}))
}

func TestWinnerRows(t *testing.T) {
	tests := []struct {
		name  string
		board models.Board
		line  []int
	}{
		{"top row", models.Board{x, x, x, o, o, e, e, e, e}, []int{0, 1, 2}},
		{"middle row", models.Board{o, o, e, x, x, x, e, e, e}, []int{3, 4, 5}},
		{"bottom row", models.Board{o, o, e, e, e, e, x, x, x}, []int{6, 7, 8}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, models.WinnerX, Winner(tt.board))
			assert.Equal(t, tt.line, WinningLine(tt.board))
		})
	}
}

func TestWinnerColumns(t *testing.T) {
	tests := []struct {
		name  string
		board models.Board
		line  []int
	}{
		{"left column", models.Board{o, x, x, o, e, e, o, e, e}, []int{0, 3, 6}},
		{"middle column", models.Board{x, o, x, e, o, e, e, o, e}, []int{1, 4, 7}},
		{"right column", models.Board{x, x, o, e, e, o, e, e, o}, []int{2, 5, 8}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, models.WinnerO, Winner(tt.board))
			assert.Equal(t, tt.line, WinningLine(tt.board))
		})
	}
}

func TestWinnerDiagonals(t *testing.T) {
	diag := models.Board{x, o, e, o, x, e, e, e, x}
	assert.Equal(t, models.WinnerX, Winner(diag))
	assert.Equal(t, []int{0, 4, 8}, WinningLine(diag))

	anti := models.Board{e, e, o, x, o, x, o, e, e}
	assert.Equal(t, models.WinnerO, Winner(anti))
	assert.Equal(t, []int{2, 4, 6}, WinningLine(anti))
}

func TestWinnerTie(t *testing.T) {
	// Full board, no three-in-a-row.
	b := models.Board{x, o, x, x, o, o, o, x, x}
	assert.Equal(t, models.WinnerTie, Winner(b))
	assert.Nil(t, WinningLine(b))
	assert.True(t, IsFull(b))
}

func TestWinnerInProgress(t *testing.T) {
	b := models.Board{x, x, e, o, o, e, e, e, e}
	assert.Equal(t, models.WinnerNone, Winner(b))
	assert.Nil(t, WinningLine(b))
	assert.False(t, IsFull(b))
}

func TestScanOrderRowsBeforeDiagonals(t *testing.T) {
	// Both the top row and the diagonal are won; rows scan first.
	b := models.Board{x, x, x, o, x, o, o, e, x}
	assert.Equal(t, models.WinnerX, Winner(b))
	assert.Equal(t, []int{0, 1, 2}, WinningLine(b))
}

func TestReset(t *testing.T) {
	b := Reset()
	for i, cell := range b {
		assert.Equal(t, models.Empty, cell, "cell %d", i)
	}
	assert.False(t, IsFull(b))
}
