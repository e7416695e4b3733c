package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/mcoot/tictactoe-go/internal/model"
	"github.com/mcoot/tictactoe-go/internal/services/auth"
	"github.com/mcoot/tictactoe-go/internal/services/game"
	"github.com/mcoot/tictactoe-go/internal/web/middleware"
	"github.com/mcoot/tictactoe-go/internal/web/templates/pages"
)

// GameHandler handles game pages and actions
type GameHandler struct {
	authService    *auth.Service
	gameController *game.Controller
}

// NewGameHandler creates a new GameHandler
func NewGameHandler(authService *auth.Service, gameController *game.Controller) *GameHandler {
	return &GameHandler{
		authService:    authService,
		gameController: gameController,
	}
}

// List renders every game
func (h *GameHandler) List(w http.ResponseWriter, r *http.Request) {
	player := middleware.GetPlayer(r.Context())

	games, err := h.gameController.AllGames(r.Context())
	if err != nil {
		renderError(w, r, http.StatusInternalServerError, "Could not load games")
		return
	}

	names := newPlayerNames(h.authService)
	render(w, r, http.StatusOK, pages.Games(pages.GamesData{
		PageData: pageData(r, "All games"),
		Games:    names.games(r.Context(), games, player.ID),
	}))
}

// Show renders a game
func (h *GameHandler) Show(w http.ResponseWriter, r *http.Request) {
	h.renderGame(w, r, http.StatusOK, model.GameID(mux.Vars(r)["id"]), pages.MoveForm{})
}

// Move plays a move from the form and redirects back to the game
func (h *GameHandler) Move(w http.ResponseWriter, r *http.Request) {
	player := middleware.GetPlayer(r.Context())
	gameID := model.GameID(mux.Vars(r)["id"])

	if _, err := h.gameController.CheckTurn(r.Context(), gameID, player.ID); err != nil {
		renderMoveRefused(w, r, err)
		return
	}

	if err := r.ParseForm(); err != nil {
		renderError(w, r, http.StatusBadRequest, "Invalid form data")
		return
	}
	form := pages.MoveForm{
		X:       r.FormValue("x"),
		Y:       r.FormValue("y"),
		Comment: strings.TrimSpace(r.FormValue("comment")),
	}

	x, errX := strconv.Atoi(form.X)
	y, errY := strconv.Atoi(form.Y)
	if errX != nil || errY != nil {
		form.Error = "Choose a column and a row"
		h.renderGame(w, r, http.StatusUnprocessableEntity, gameID, form)
		return
	}

	g, _, err := h.gameController.MakeMove(r.Context(), gameID, player.ID, x, y, form.Comment)
	switch {
	case err == nil:
	case errors.Is(err, model.ErrInvalidPosition):
		form.Error = "Column and row must be between 0 and 2"
		h.renderGame(w, r, http.StatusUnprocessableEntity, gameID, form)
		return
	case errors.Is(err, model.ErrCommentTooLong):
		form.Error = "Comment must be at most " + strconv.Itoa(model.MaxCommentLength) + " characters"
		h.renderGame(w, r, http.StatusUnprocessableEntity, gameID, form)
		return
	case errors.Is(err, model.ErrCellOccupied):
		form.Error = "That square is already taken"
		h.renderGame(w, r, http.StatusUnprocessableEntity, gameID, form)
		return
	default:
		// the game may have changed hands since CheckTurn
		renderMoveRefused(w, r, err)
		return
	}

	switch {
	case g.Winner() == player.ID:
		middleware.SetFlash(w, middleware.FlashSuccess, "You win!")
	case g.Status == model.StatusDraw:
		middleware.SetFlash(w, middleware.FlashInfo, "It's a draw")
	}
	http.Redirect(w, r, "/games/"+string(gameID), http.StatusSeeOther)
}

// renderMoveRefused renders the page for a player who may not move at all
func renderMoveRefused(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, model.ErrGameNotFound):
		renderError(w, r, http.StatusNotFound, "Game not found")
	case errors.Is(err, model.ErrNotPlayerTurn):
		renderError(w, r, http.StatusForbidden, "It is not your turn")
	case errors.Is(err, model.ErrGameFinished):
		renderError(w, r, http.StatusForbidden, "This game is already over")
	default:
		renderError(w, r, http.StatusInternalServerError, "Could not make that move")
	}
}

func (h *GameHandler) renderGame(w http.ResponseWriter, r *http.Request, status int, gameID model.GameID, form pages.MoveForm) {
	player := middleware.GetPlayer(r.Context())

	view, err := h.gameController.GetGameView(r.Context(), gameID)
	if err != nil {
		if errors.Is(err, model.ErrGameNotFound) {
			renderError(w, r, http.StatusNotFound, "Game not found")
			return
		}
		renderError(w, r, http.StatusInternalServerError, "Could not load game")
		return
	}

	render(w, r, status, pages.Game(pages.GameData{
		PageData: pageData(r, view.FirstPlayer.DisplayName+" vs "+view.SecondPlayer.DisplayName),
		View:     view,
		Status:   statusText(view.Game, view.FirstPlayer.DisplayName, view.SecondPlayer.DisplayName),
		YourMove: view.Game.IsUsersMove(player.ID),
		Form:     form,
	}))
}
