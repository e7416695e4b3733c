package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter writing to w
func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		o.printJSON(map[string]string{"message": msg})
	} else {
		fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Player:
		o.printPlayer(v)
	case AuthResult:
		o.printAuthResult(v)
	case Game:
		o.printGame(v)
	case []Game:
		o.printGames(v)
	case PlayerGames:
		o.printPlayerGames(v)
	case GameDetail:
		o.printGameDetail(v)
	case MoveResult:
		o.printMoveResult(v)
	case Invitation:
		o.printInvitation(v)
	case []Invitation:
		o.printInvitations(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Player response type (matches API)
type Player struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
}

// AuthResult combines player and token
type AuthResult struct {
	Player       Player `json:"player"`
	SessionToken string `json:"session_token"`
}

// Game response type
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

// Move response type
type Move struct {
	Seq           int       `json:"seq"`
	X             int       `json:"x"`
	Y             int       `json:"y"`
	Mark          string    `json:"mark"`
	ByFirstPlayer bool      `json:"by_first_player"`
	Comment       string    `json:"comment,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// GameDetail response type
type GameDetail struct {
	Game         Game       `json:"game"`
	FirstPlayer  Player     `json:"first_player"`
	SecondPlayer Player     `json:"second_player"`
	Board        [][]string `json:"board"`
	Moves        []Move     `json:"moves"`
	YourMove     bool       `json:"your_move"`
}

// MoveResult response type
type MoveResult struct {
	Game Game `json:"game"`
	Move Move `json:"move"`
}

// PlayerGames response type
type PlayerGames struct {
	Active   []Game `json:"active"`
	Finished []Game `json:"finished"`
}

// Invitation response type
type Invitation struct {
	ID         string    `json:"id"`
	FromPlayer string    `json:"from_player"`
	ToPlayer   string    `json:"to_player"`
	Message    string    `json:"message,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printPlayer(p Player) {
	fmt.Fprintf(o.w, "Player: %s (@%s)\n", p.DisplayName, p.Username)
	fmt.Fprintf(o.w, "ID: %s\n", p.ID)
}

func (o *Output) printAuthResult(a AuthResult) {
	o.printPlayer(a.Player)
	fmt.Fprintf(o.w, "Token: %s\n", a.SessionToken)
}

func (o *Output) printGame(g Game) {
	fmt.Fprintf(o.w, "Game: %s\n", g.ID)
	fmt.Fprintf(o.w, "Status: %s\n", g.StatusLabel)
	fmt.Fprintf(o.w, "X: %s\n", g.FirstPlayer)
	fmt.Fprintf(o.w, "O: %s\n", g.SecondPlayer)
}

func (o *Output) printGames(games []Game) {
	if len(games) == 0 {
		fmt.Fprintln(o.w, "  (none)")
		return
	}
	for _, g := range games {
		fmt.Fprintf(o.w, "  %s  %-22s  %s\n", g.ID, g.StatusLabel, g.LastActive.Format(time.DateTime))
	}
}

func (o *Output) printPlayerGames(pg PlayerGames) {
	if pg.Active != nil {
		fmt.Fprintln(o.w, "Active games:")
		o.printGames(pg.Active)
	}
	if pg.Finished != nil {
		fmt.Fprintln(o.w, "Finished games:")
		o.printGames(pg.Finished)
	}
}

func (o *Output) printGameDetail(d GameDetail) {
	fmt.Fprintf(o.w, "Game: %s\n", d.Game.ID)
	fmt.Fprintf(o.w, "X: %s (@%s)\n", d.FirstPlayer.DisplayName, d.FirstPlayer.Username)
	fmt.Fprintf(o.w, "O: %s (@%s)\n", d.SecondPlayer.DisplayName, d.SecondPlayer.Username)
	fmt.Fprintf(o.w, "Status: %s\n\n", d.Game.StatusLabel)

	o.printBoard(d.Board)

	if len(d.Moves) > 0 {
		fmt.Fprintln(o.w, "\nMoves:")
		for _, m := range d.Moves {
			fmt.Fprintf(o.w, "  %d. %s at (%d, %d)", m.Seq, m.Mark, m.X, m.Y)
			if m.Comment != "" {
				fmt.Fprintf(o.w, "  %q", m.Comment)
			}
			fmt.Fprintln(o.w)
		}
	}

	if d.YourMove {
		fmt.Fprintln(o.w, "\nIt's your move!")
	}
}

// printBoard draws the grid with x along the top and y down the side
func (o *Output) printBoard(cells [][]string) {
	if len(cells) == 0 {
		return
	}

	size := len(cells)

	// Print column headers
	fmt.Fprint(o.w, "    ")
	for x := range size {
		fmt.Fprintf(o.w, " %d ", x)
	}
	fmt.Fprintln(o.w)

	border := func() {
		fmt.Fprint(o.w, "   +")
		for range size {
			fmt.Fprint(o.w, "---")
		}
		fmt.Fprintln(o.w, "+")
	}

	border()
	for y, row := range cells {
		fmt.Fprintf(o.w, " %d |", y)
		for _, cell := range row {
			if cell == "" {
				fmt.Fprint(o.w, " . ")
			} else {
				fmt.Fprintf(o.w, " %s ", cell)
			}
		}
		fmt.Fprintln(o.w, "|")
	}
	border()
}

func (o *Output) printMoveResult(r MoveResult) {
	fmt.Fprintf(o.w, "Played %s at (%d, %d)\n", r.Move.Mark, r.Move.X, r.Move.Y)
	fmt.Fprintf(o.w, "Status: %s\n", r.Game.StatusLabel)
}

func (o *Output) printInvitation(inv Invitation) {
	fmt.Fprintf(o.w, "Invitation: %s\n", inv.ID)
	fmt.Fprintf(o.w, "From: %s\n", inv.FromPlayer)
	fmt.Fprintf(o.w, "To: %s\n", inv.ToPlayer)
	if inv.Message != "" {
		fmt.Fprintf(o.w, "Message: %s\n", inv.Message)
	}
}

func (o *Output) printInvitations(invs []Invitation) {
	if len(invs) == 0 {
		fmt.Fprintln(o.w, "No invitations")
		return
	}
	for _, inv := range invs {
		fmt.Fprintf(o.w, "  %s  from %s", inv.ID, inv.FromPlayer)
		if inv.Message != "" {
			fmt.Fprintf(o.w, "  %q", inv.Message)
		}
		fmt.Fprintln(o.w)
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Fprintf(o.w, "Status: %s\n", h.Status)
}
