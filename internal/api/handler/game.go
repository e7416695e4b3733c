package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/tictactoe-go/internal/api/middleware"
	"github.com/mcoot/tictactoe-go/internal/api/request"
	"github.com/mcoot/tictactoe-go/internal/api/response"
	"github.com/mcoot/tictactoe-go/internal/model"
	"github.com/mcoot/tictactoe-go/internal/services/game"
)

// GameHandler handles game endpoints
type GameHandler struct {
	gameController *game.Controller
}

// NewGameHandler creates a new game handler
func NewGameHandler(gameController *game.Controller) *GameHandler {
	return &GameHandler{
		gameController: gameController,
	}
}

// List handles GET /api/v1/games
func (h *GameHandler) List(w http.ResponseWriter, r *http.Request) {
	games, err := h.gameController.AllGames(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.OK(w, response.GamesFromModel(games))
}

// Get handles GET /api/v1/games/{id}
func (h *GameHandler) Get(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	gameID := model.GameID(mux.Vars(r)["id"])

	view, err := h.gameController.GetGameView(r.Context(), gameID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.OK(w, response.GameDetailFromView(view, player.ID))
}

// Move handles POST /api/v1/games/{id}/moves
func (h *GameHandler) Move(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	gameID := model.GameID(mux.Vars(r)["id"])

	// Players who cannot move are refused whatever they sent
	if _, err := h.gameController.CheckTurn(r.Context(), gameID, player.ID); err != nil {
		WriteError(w, err)
		return
	}

	var req request.MoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.X == nil || req.Y == nil {
		WriteError(w, NewInvalidRequestError("x and y are required"))
		return
	}

	g, move, err := h.gameController.MakeMove(r.Context(), gameID, player.ID, *req.X, *req.Y, req.Comment)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.Created(w, response.MoveResult{
		Game: response.GameFromModel(g),
		Move: response.MoveFromModel(move),
	})
}

// Delete handles DELETE /api/v1/games/{id}
func (h *GameHandler) Delete(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	gameID := model.GameID(mux.Vars(r)["id"])

	if err := h.gameController.DeleteGame(r.Context(), gameID, player.ID); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}
