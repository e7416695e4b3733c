package handler

import (
	"net/http"

	"github.com/mcoot/tictactoe-go/internal/services/auth"
	"github.com/mcoot/tictactoe-go/internal/services/game"
	"github.com/mcoot/tictactoe-go/internal/services/invitation"
	"github.com/mcoot/tictactoe-go/internal/web/middleware"
	"github.com/mcoot/tictactoe-go/internal/web/templates/pages"
)

// HomeHandler handles the home page
type HomeHandler struct {
	authService          *auth.Service
	gameController       *game.Controller
	invitationController *invitation.Controller
}

// NewHomeHandler creates a new HomeHandler
func NewHomeHandler(authService *auth.Service, gameController *game.Controller, invitationController *invitation.Controller) *HomeHandler {
	return &HomeHandler{
		authService:          authService,
		gameController:       gameController,
		invitationController: invitationController,
	}
}

// Home renders the home page
func (h *HomeHandler) Home(w http.ResponseWriter, r *http.Request) {
	data := pages.HomeData{PageData: pageData(r, "Home")}

	player := middleware.GetPlayer(r.Context())
	if player == nil {
		render(w, r, http.StatusOK, pages.Home(data))
		return
	}

	active, finished, err := h.gameController.GamesForPlayer(r.Context(), player.ID)
	if err != nil {
		renderError(w, r, http.StatusInternalServerError, "Could not load your games")
		return
	}
	invs, err := h.invitationController.Received(r.Context(), player.ID)
	if err != nil {
		renderError(w, r, http.StatusInternalServerError, "Could not load your invitations")
		return
	}

	names := newPlayerNames(h.authService)
	data.Active = names.games(r.Context(), active, player.ID)
	data.Finished = names.games(r.Context(), finished, player.ID)
	data.Invitations = names.invitations(r.Context(), invs)

	render(w, r, http.StatusOK, pages.Home(data))
}
