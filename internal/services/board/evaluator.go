package board

import "github.com/mcoot/tictactoe-go/internal/model"

// FullBoard is the number of moves that fill every cell
const FullBoard = model.BoardSize * model.BoardSize

// Evaluate returns the status that follows last being played on b.
// b must already contain last. current is expected to be one of the
// to-move statuses; terminal statuses never reach here.
func Evaluate(b *model.Board, last *model.Move, current model.GameStatus, totalMoves int) model.GameStatus {
	for _, line := range model.Lines {
		if completes(b, line) {
			if last.ByFirstPlayer {
				return model.StatusFirstWins
			}
			return model.StatusSecondWins
		}
	}

	if totalMoves >= FullBoard {
		return model.StatusDraw
	}

	if current == model.StatusFirstToMove {
		return model.StatusSecondToMove
	}
	return model.StatusFirstToMove
}

// completes reports whether one player holds all three cells of line
func completes(b *model.Board, line model.Line) bool {
	a := b.At(line[0])
	return a.Equal(b.At(line[1])) && a.Equal(b.At(line[2]))
}
