package board

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mcoot/tictactoe-go/internal/model"
)

type cell struct {
	x, y  int
	first bool
}

// play builds a board from cells in order and returns it with the last move
func play(cells ...cell) (*model.Board, *model.Move) {
	moves := make([]*model.Move, len(cells))
	for i, c := range cells {
		moves[i] = &model.Move{Seq: i + 1, X: c.x, Y: c.y, ByFirstPlayer: c.first}
	}
	return model.NewBoard(moves), moves[len(moves)-1]
}

func TestEvaluateFlipsTurnWithoutLine(t *testing.T) {
	tests := []struct {
		name    string
		cells   []cell
		current model.GameStatus
		want    model.GameStatus
	}{
		{
			name:    "opening move by first",
			cells:   []cell{{1, 1, true}},
			current: model.StatusFirstToMove,
			want:    model.StatusSecondToMove,
		},
		{
			name:    "reply by second",
			cells:   []cell{{1, 1, true}, {0, 0, false}},
			current: model.StatusSecondToMove,
			want:    model.StatusFirstToMove,
		},
		{
			name:    "two in a row is not a line",
			cells:   []cell{{0, 0, true}, {2, 2, false}, {1, 0, true}},
			current: model.StatusFirstToMove,
			want:    model.StatusSecondToMove,
		},
		{
			name: "mixed line does not win",
			cells: []cell{
				{0, 0, true}, {1, 0, false}, {2, 0, true},
				{1, 1, false},
			},
			current: model.StatusSecondToMove,
			want:    model.StatusFirstToMove,
		},
		{
			name: "eight moves without line",
			cells: []cell{
				{0, 0, true}, {1, 0, false}, {2, 0, true},
				{1, 1, false}, {0, 1, true}, {2, 1, false},
				{1, 2, true}, {0, 2, false},
			},
			current: model.StatusSecondToMove,
			want:    model.StatusFirstToMove,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, last := play(tt.cells...)
			assert.Equal(t, tt.want, Evaluate(b, last, tt.current, len(tt.cells)))
		})
	}
}

func TestEvaluateWinsOnEveryLine(t *testing.T) {
	for i, line := range model.Lines {
		for _, first := range []bool{true, false} {
			t.Run(fmt.Sprintf("line %d first=%v", i, first), func(t *testing.T) {
				cells := make([]cell, 0, len(line))
				for _, p := range line {
					cells = append(cells, cell{p.X, p.Y, first})
				}
				b, last := play(cells...)

				current := model.StatusSecondToMove
				want := model.StatusSecondWins
				if first {
					current = model.StatusFirstToMove
					want = model.StatusFirstWins
				}
				assert.Equal(t, want, Evaluate(b, last, current, 5))
			})
		}
	}
}

func TestEvaluateFirstColumnWin(t *testing.T) {
	b, last := play(
		cell{0, 0, true}, cell{1, 1, false},
		cell{0, 1, true}, cell{2, 2, false},
		cell{0, 2, true},
	)
	assert.Equal(t, model.StatusFirstWins, Evaluate(b, last, model.StatusFirstToMove, 5))
}

func TestEvaluateFullBoardDraw(t *testing.T) {
	// X O X
	// X O O
	// O X X
	b, last := play(
		cell{0, 0, true}, cell{1, 0, false},
		cell{2, 0, true}, cell{1, 1, false},
		cell{0, 1, true}, cell{2, 1, false},
		cell{1, 2, true}, cell{0, 2, false},
		cell{2, 2, true},
	)
	assert.Equal(t, model.StatusDraw, Evaluate(b, last, model.StatusFirstToMove, 9))
}

func TestEvaluateWinOnNinthMoveBeatsDraw(t *testing.T) {
	// X O X
	// O X O
	// O X X  <- final move at (2,2) completes the diagonal
	b, last := play(
		cell{0, 0, true}, cell{1, 0, false},
		cell{2, 0, true}, cell{0, 1, false},
		cell{1, 1, true}, cell{2, 1, false},
		cell{1, 2, true}, cell{0, 2, false},
		cell{2, 2, true},
	)
	assert.Equal(t, model.StatusFirstWins, Evaluate(b, last, model.StatusFirstToMove, 9))
}

func TestEvaluateIgnoresEmptyLines(t *testing.T) {
	b := model.NewBoard(nil)
	last := &model.Move{X: 1, Y: 1, ByFirstPlayer: true}
	b.Place(last)

	assert.Equal(t, model.StatusSecondToMove, Evaluate(b, last, model.StatusFirstToMove, 1))
}
