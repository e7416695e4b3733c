// Package pages renders the full HTML pages served by the web router.
package pages

import (
	"strconv"
	"time"

	"github.com/mcoot/tictactoe-go/internal/model"
	"github.com/mcoot/tictactoe-go/internal/services/game"
	"github.com/mcoot/tictactoe-go/internal/web/templates/layout"
)

// GameSummary is one row in a list of games
type GameSummary struct {
	ID           string
	FirstPlayer  string
	SecondPlayer string
	Status       string
	YourMove     bool
	Finished     bool
	LastActive   time.Time
}

// InvitationSummary is one row in a list of invitations
type InvitationSummary struct {
	ID        string
	From      string
	Message   string
	CreatedAt time.Time
}

// HomeData is the data for the home page
type HomeData struct {
	layout.PageData
	Invitations []InvitationSummary
	Active      []GameSummary
	Finished    []GameSummary
}

// LoginData is the data for the login page
type LoginData struct {
	layout.PageData
	Username string
	Next     string
	Error    string
}

// SignupData is the data for the signup page
type SignupData struct {
	layout.PageData
	Username    string
	DisplayName string
	Error       string
	FieldErrors map[string]string
}

// NewInvitationData is the data for the invitation form
type NewInvitationData struct {
	layout.PageData
	ToUsername string
	Message    string
	Error      string
}

// InvitationData is the data for a received invitation
type InvitationData struct {
	layout.PageData
	Invitation InvitationSummary
}

// GamesData is the data for the all-games page
type GamesData struct {
	layout.PageData
	Games []GameSummary
}

// MoveForm holds the submitted move so it survives a failed submission
type MoveForm struct {
	X       string
	Y       string
	Comment string
	Error   string
}

// GameData is the data for a single game
type GameData struct {
	layout.PageData
	View     *game.View
	Status   string
	YourMove bool
	Form     MoveForm
}

// ErrorData is the data for an error page
type ErrorData struct {
	layout.PageData
	Status  int
	Message string
}

// coordinates lists the values a column or row can take
func coordinates() []string {
	out := make([]string, model.BoardSize)
	for i := range out {
		out[i] = strconv.Itoa(i)
	}
	return out
}

func cellMark(b *model.Board, x, y int) string {
	return b.At(model.Position{X: x, Y: y}).Mark()
}

// moverName is the display name of the player who made m
func moverName(v *game.View, m *model.Move) string {
	if m.ByFirstPlayer {
		return v.FirstPlayer.DisplayName
	}
	return v.SecondPlayer.DisplayName
}
