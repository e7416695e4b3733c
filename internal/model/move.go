package model

import (
	"time"
	"unicode/utf8"
)

const (
	// MinCoord and MaxCoord bound both x and y
	MinCoord = 0
	MaxCoord = 2

	// MaxCommentLength is the longest comment a move may carry, in characters
	MaxCommentLength = 300
)

// Move is a single mark placed on the board
type Move struct {
	GameID        GameID
	Seq           int // 1-based order within the game
	X             int // column
	Y             int // row
	Comment       string
	ByFirstPlayer bool
	CreatedAt     time.Time
}

// Equal reports whether two moves were made by the same player.
// Coordinates are ignored; callers only compare cells of a single line.
// A nil move never equals anything, including another nil.
func (m *Move) Equal(other *Move) bool {
	if m == nil || other == nil {
		return false
	}
	return m.ByFirstPlayer == other.ByFirstPlayer
}

// Validate checks coordinate bounds and comment length
func (m *Move) Validate() error {
	if m.X < MinCoord || m.X > MaxCoord || m.Y < MinCoord || m.Y > MaxCoord {
		return ErrInvalidPosition
	}
	if utf8.RuneCountInString(m.Comment) > MaxCommentLength {
		return ErrCommentTooLong
	}
	return nil
}

// Mark returns the symbol drawn for this move
func (m *Move) Mark() string {
	if m == nil {
		return ""
	}
	if m.ByFirstPlayer {
		return "X"
	}
	return "O"
}
