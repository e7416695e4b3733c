package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/mcoot/tictactoe-go/internal/api/middleware"
	"github.com/mcoot/tictactoe-go/internal/api/request"
	"github.com/mcoot/tictactoe-go/internal/api/response"
	"github.com/mcoot/tictactoe-go/internal/model"
	"github.com/mcoot/tictactoe-go/internal/services/invitation"
)

// InvitationHandler handles invitation endpoints
type InvitationHandler struct {
	invitationController *invitation.Controller
}

// NewInvitationHandler creates a new invitation handler
func NewInvitationHandler(invitationController *invitation.Controller) *InvitationHandler {
	return &InvitationHandler{
		invitationController: invitationController,
	}
}

// Create handles POST /api/v1/invitations
func (h *InvitationHandler) Create(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	var req request.CreateInvitationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	toUsername := strings.TrimSpace(req.ToUsername)
	if toUsername == "" {
		WriteError(w, NewInvalidRequestError("to_username is required"))
		return
	}

	inv, err := h.invitationController.Create(r.Context(), player.ID, toUsername, req.Message)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.Created(w, response.InvitationFromModel(inv))
}

// Received handles GET /api/v1/invitations
func (h *InvitationHandler) Received(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	invs, err := h.invitationController.Received(r.Context(), player.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.OK(w, response.InvitationsFromModel(invs))
}

// Sent handles GET /api/v1/invitations/sent
func (h *InvitationHandler) Sent(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	invs, err := h.invitationController.Sent(r.Context(), player.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.OK(w, response.InvitationsFromModel(invs))
}

// Accept handles POST /api/v1/invitations/{id}/accept
func (h *InvitationHandler) Accept(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	id := model.InvitationID(mux.Vars(r)["id"])

	g, err := h.invitationController.Accept(r.Context(), id, player.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.Created(w, response.GameFromModel(g))
}

// Decline handles POST /api/v1/invitations/{id}/decline
func (h *InvitationHandler) Decline(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	id := model.InvitationID(mux.Vars(r)["id"])

	if err := h.invitationController.Decline(r.Context(), id, player.ID); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}
