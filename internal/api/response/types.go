package response

import (
	"time"

	"github.com/mcoot/tictactoe-go/internal/model"
	"github.com/mcoot/tictactoe-go/internal/services/auth"
	"github.com/mcoot/tictactoe-go/internal/services/game"
)

// Player represents a player in API responses
type Player struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
}

// PlayerFromModel converts a model.Player to a response Player
func PlayerFromModel(p *model.Player) Player {
	return Player{
		ID:          string(p.ID),
		Username:    p.Username,
		DisplayName: p.DisplayName,
	}
}

// AuthResponse is the response for authentication endpoints
type AuthResponse struct {
	Player       Player `json:"player"`
	SessionToken string `json:"session_token"`
}

// AuthResponseFromSession creates an AuthResponse from a session
func AuthResponseFromSession(s *auth.Session) AuthResponse {
	return AuthResponse{
		Player:       PlayerFromModel(&s.Player),
		SessionToken: s.Token,
	}
}

// Game represents a game in API responses
type Game struct {
	ID           string    `json:"id"`
	FirstPlayer  string    `json:"first_player"`
	SecondPlayer string    `json:"second_player"`
	Status       string    `json:"status"`
	StatusLabel  string    `json:"status_label"`
	Winner       string    `json:"winner,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	LastActive   time.Time `json:"last_active"`
}

// GameFromModel converts a model.Game
func GameFromModel(g *model.Game) Game {
	return Game{
		ID:           string(g.ID),
		FirstPlayer:  string(g.FirstPlayer),
		SecondPlayer: string(g.SecondPlayer),
		Status:       string(g.Status),
		StatusLabel:  g.Status.Label(),
		Winner:       string(g.Winner()),
		CreatedAt:    g.CreatedAt,
		LastActive:   g.LastActive,
	}
}

// GamesFromModel converts a slice of games, never returning nil
func GamesFromModel(games []*model.Game) []Game {
	out := make([]Game, len(games))
	for i, g := range games {
		out[i] = GameFromModel(g)
	}
	return out
}

// Move represents a move in API responses
type Move struct {
	Seq           int       `json:"seq"`
	X             int       `json:"x"`
	Y             int       `json:"y"`
	Mark          string    `json:"mark"`
	ByFirstPlayer bool      `json:"by_first_player"`
	Comment       string    `json:"comment,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// MoveFromModel converts a model.Move
func MoveFromModel(m *model.Move) Move {
	return Move{
		Seq:           m.Seq,
		X:             m.X,
		Y:             m.Y,
		Mark:          m.Mark(),
		ByFirstPlayer: m.ByFirstPlayer,
		Comment:       m.Comment,
		CreatedAt:     m.CreatedAt,
	}
}

// GameDetail is a game with its board and history
type GameDetail struct {
	Game         Game       `json:"game"`
	FirstPlayer  Player     `json:"first_player"`
	SecondPlayer Player     `json:"second_player"`
	Board        [][]string `json:"board"`
	Moves        []Move     `json:"moves"`
	YourMove     bool       `json:"your_move"`
}

// GameDetailFromView builds a GameDetail as seen by viewer
func GameDetailFromView(v *game.View, viewer model.PlayerID) GameDetail {
	moves := make([]Move, len(v.Moves))
	for i, m := range v.Moves {
		moves[i] = MoveFromModel(m)
	}
	return GameDetail{
		Game:         GameFromModel(v.Game),
		FirstPlayer:  PlayerFromModel(v.FirstPlayer),
		SecondPlayer: PlayerFromModel(v.SecondPlayer),
		Board:        v.Board.Marks(),
		Moves:        moves,
		YourMove:     v.Game.IsUsersMove(viewer),
	}
}

// MoveResult is returned after a successful move
type MoveResult struct {
	Game Game `json:"game"`
	Move Move `json:"move"`
}

// PlayerGames lists a player's games by state
type PlayerGames struct {
	Active   []Game `json:"active"`
	Finished []Game `json:"finished"`
}

// Invitation represents an invitation in API responses
type Invitation struct {
	ID         string    `json:"id"`
	FromPlayer string    `json:"from_player"`
	ToPlayer   string    `json:"to_player"`
	Message    string    `json:"message,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// InvitationFromModel converts a model.Invitation
func InvitationFromModel(inv *model.Invitation) Invitation {
	return Invitation{
		ID:         string(inv.ID),
		FromPlayer: string(inv.FromPlayer),
		ToPlayer:   string(inv.ToPlayer),
		Message:    inv.Message,
		CreatedAt:  inv.CreatedAt,
	}
}

// InvitationsFromModel converts a slice of invitations, never returning nil
func InvitationsFromModel(invs []*model.Invitation) []Invitation {
	out := make([]Invitation, len(invs))
	for i, inv := range invs {
		out[i] = InvitationFromModel(inv)
	}
	return out
}
