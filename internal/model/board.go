package model

// BoardSize is the side length of the grid
const BoardSize = 3

// Position identifies a cell on the board
type Position struct {
	X int // column, 0-indexed from left
	Y int // row, 0-indexed from top
}

// Board is the 3x3 grid derived from a game's moves.
// Cells are indexed [y][x]; nil means unplayed.
type Board struct {
	Cells [BoardSize][BoardSize]*Move
}

// NewBoard replays moves onto an empty board
func NewBoard(moves []*Move) *Board {
	b := &Board{}
	for _, m := range moves {
		b.Place(m)
	}
	return b
}

// Place puts a move on the board, ignoring out-of-range coordinates
func (b *Board) Place(m *Move) {
	if m == nil || !b.IsValidPosition(Position{X: m.X, Y: m.Y}) {
		return
	}
	b.Cells[m.Y][m.X] = m
}

// At returns the move at pos, or nil
func (b *Board) At(pos Position) *Move {
	if !b.IsValidPosition(pos) {
		return nil
	}
	return b.Cells[pos.Y][pos.X]
}

// IsEmpty returns true if no move occupies pos
func (b *Board) IsEmpty(pos Position) bool {
	return b.At(pos) == nil
}

// IsValidPosition returns true if the position is within bounds
func (b *Board) IsValidPosition(pos Position) bool {
	return pos.X >= MinCoord && pos.X <= MaxCoord && pos.Y >= MinCoord && pos.Y <= MaxCoord
}

// Count returns the number of occupied cells
func (b *Board) Count() int {
	n := 0
	for y := range BoardSize {
		for x := range BoardSize {
			if b.Cells[y][x] != nil {
				n++
			}
		}
	}
	return n
}

// Line is three cells that win when held by one player
type Line [BoardSize]Position

// Lines lists the 3 rows, 3 columns and 2 diagonals
var Lines = func() []Line {
	lines := make([]Line, 0, 2*BoardSize+2)
	for i := range BoardSize {
		lines = append(lines,
			Line{{0, i}, {1, i}, {2, i}},
			Line{{i, 0}, {i, 1}, {i, 2}},
		)
	}
	return append(lines,
		Line{{0, 0}, {1, 1}, {2, 2}},
		Line{{2, 0}, {1, 1}, {0, 2}},
	)
}()

// Marks renders the board as rows of "X", "O" or ""
func (b *Board) Marks() [][]string {
	rows := make([][]string, BoardSize)
	for y := range BoardSize {
		rows[y] = make([]string, BoardSize)
		for x := range BoardSize {
			rows[y][x] = b.Cells[y][x].Mark()
		}
	}
	return rows
}
