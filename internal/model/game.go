package model

import "time"

// GameID uniquely identifies a game
type GameID string

// GameStatus is the position of a game in its state machine
type GameStatus string

const (
	StatusFirstToMove  GameStatus = "first_to_move"
	StatusSecondToMove GameStatus = "second_to_move"
	StatusFirstWins    GameStatus = "first_wins"
	StatusSecondWins   GameStatus = "second_wins"
	StatusDraw         GameStatus = "draw"
)

// IsValid reports whether s is one of the five known statuses
func (s GameStatus) IsValid() bool {
	switch s {
	case StatusFirstToMove, StatusSecondToMove, StatusFirstWins, StatusSecondWins, StatusDraw:
		return true
	}
	return false
}

// IsTerminal returns true once no further moves may be made
func (s GameStatus) IsTerminal() bool {
	return s == StatusFirstWins || s == StatusSecondWins || s == StatusDraw
}

// Label returns a human-readable description of the status
func (s GameStatus) Label() string {
	switch s {
	case StatusFirstToMove:
		return "First player to move"
	case StatusSecondToMove:
		return "Second player to move"
	case StatusFirstWins:
		return "First player wins"
	case StatusSecondWins:
		return "Second player wins"
	case StatusDraw:
		return "Draw"
	default:
		return string(s)
	}
}

// Game is a single match between two players
type Game struct {
	ID           GameID
	FirstPlayer  PlayerID
	SecondPlayer PlayerID
	Status       GameStatus
	CreatedAt    time.Time
	LastActive   time.Time
}

// IsUsersMove returns true if it is playerID's turn
func (g *Game) IsUsersMove(playerID PlayerID) bool {
	return (playerID == g.FirstPlayer && g.Status == StatusFirstToMove) ||
		(playerID == g.SecondPlayer && g.Status == StatusSecondToMove)
}

// NewMove returns an unsaved move for whoever is to play next.
// Coordinates are left for the caller to fill in.
func (g *Game) NewMove() (*Move, error) {
	if g.Status != StatusFirstToMove && g.Status != StatusSecondToMove {
		return nil, ErrGameFinished
	}
	return &Move{
		GameID:        g.ID,
		ByFirstPlayer: g.Status == StatusFirstToMove,
	}, nil
}

// IsParticipant returns true if playerID is one of the two players
func (g *Game) IsParticipant(playerID PlayerID) bool {
	return playerID == g.FirstPlayer || playerID == g.SecondPlayer
}

// Opponent returns the other player, or empty if playerID is not in the game
func (g *Game) Opponent(playerID PlayerID) PlayerID {
	switch playerID {
	case g.FirstPlayer:
		return g.SecondPlayer
	case g.SecondPlayer:
		return g.FirstPlayer
	}
	return ""
}

// Winner returns the winning player, or empty for draws and unfinished games
func (g *Game) Winner() PlayerID {
	switch g.Status {
	case StatusFirstWins:
		return g.FirstPlayer
	case StatusSecondWins:
		return g.SecondPlayer
	}
	return ""
}

// CurrentPlayer returns the player whose turn it is, or empty once finished
func (g *Game) CurrentPlayer() PlayerID {
	switch g.Status {
	case StatusFirstToMove:
		return g.FirstPlayer
	case StatusSecondToMove:
		return g.SecondPlayer
	}
	return ""
}
