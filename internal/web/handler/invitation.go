package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/mcoot/tictactoe-go/internal/model"
	"github.com/mcoot/tictactoe-go/internal/services/auth"
	"github.com/mcoot/tictactoe-go/internal/services/invitation"
	"github.com/mcoot/tictactoe-go/internal/web/middleware"
	"github.com/mcoot/tictactoe-go/internal/web/templates/pages"
)

// InvitationHandler handles sending and answering invitations
type InvitationHandler struct {
	authService          *auth.Service
	invitationController *invitation.Controller
}

// NewInvitationHandler creates a new InvitationHandler
func NewInvitationHandler(authService *auth.Service, invitationController *invitation.Controller) *InvitationHandler {
	return &InvitationHandler{
		authService:          authService,
		invitationController: invitationController,
	}
}

// New renders the invitation form, optionally prefilled with ?to=username
func (h *InvitationHandler) New(w http.ResponseWriter, r *http.Request) {
	render(w, r, http.StatusOK, pages.NewInvitation(pages.NewInvitationData{
		PageData:   pageData(r, "Invite a player"),
		ToUsername: r.URL.Query().Get("to"),
	}))
}

// Create sends an invitation
func (h *InvitationHandler) Create(w http.ResponseWriter, r *http.Request) {
	player := middleware.GetPlayer(r.Context())

	if err := r.ParseForm(); err != nil {
		renderError(w, r, http.StatusBadRequest, "Invalid form data")
		return
	}
	toUsername := strings.TrimSpace(r.FormValue("to_username"))
	message := strings.TrimSpace(r.FormValue("message"))

	formError := func(status int, msg string) {
		render(w, r, status, pages.NewInvitation(pages.NewInvitationData{
			PageData:   pageData(r, "Invite a player"),
			ToUsername: toUsername,
			Message:    message,
			Error:      msg,
		}))
	}

	if toUsername == "" {
		formError(http.StatusUnprocessableEntity, "Enter the username of the player to invite")
		return
	}

	_, err := h.invitationController.Create(r.Context(), player.ID, toUsername, message)
	switch {
	case errors.Is(err, model.ErrPlayerNotFound):
		formError(http.StatusUnprocessableEntity, "No player named "+toUsername)
		return
	case errors.Is(err, model.ErrCannotInviteSelf):
		formError(http.StatusUnprocessableEntity, "You cannot invite yourself")
		return
	case errors.Is(err, model.ErrMessageTooLong):
		formError(http.StatusUnprocessableEntity, "Message is too long")
		return
	case err != nil:
		renderError(w, r, http.StatusInternalServerError, "Could not send invitation")
		return
	}

	middleware.SetFlash(w, middleware.FlashSuccess, "Invitation sent to "+toUsername)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Show renders the accept/decline page for the invitee
func (h *InvitationHandler) Show(w http.ResponseWriter, r *http.Request) {
	player := middleware.GetPlayer(r.Context())
	id := model.InvitationID(mux.Vars(r)["id"])

	inv, err := h.invitationController.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if inv.ToPlayer != player.ID {
		h.writeError(w, r, model.ErrNotInvitee)
		return
	}

	names := newPlayerNames(h.authService)
	render(w, r, http.StatusOK, pages.Invitation(pages.InvitationData{
		PageData:   pageData(r, "Invitation"),
		Invitation: names.invitations(r.Context(), []*model.Invitation{inv})[0],
	}))
}

// Respond accepts or declines according to the action field
func (h *InvitationHandler) Respond(w http.ResponseWriter, r *http.Request) {
	player := middleware.GetPlayer(r.Context())
	id := model.InvitationID(mux.Vars(r)["id"])

	if err := r.ParseForm(); err != nil {
		renderError(w, r, http.StatusBadRequest, "Invalid form data")
		return
	}

	switch r.FormValue("action") {
	case "accept":
		g, err := h.invitationController.Accept(r.Context(), id, player.ID)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		middleware.SetFlash(w, middleware.FlashSuccess, "Game on! You move first.")
		http.Redirect(w, r, "/games/"+string(g.ID), http.StatusSeeOther)
	case "decline":
		if err := h.invitationController.Decline(r.Context(), id, player.ID); err != nil {
			h.writeError(w, r, err)
			return
		}
		middleware.SetFlash(w, middleware.FlashInfo, "Invitation declined")
		http.Redirect(w, r, "/", http.StatusSeeOther)
	default:
		renderError(w, r, http.StatusBadRequest, "Action must be accept or decline")
	}
}

func (h *InvitationHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, model.ErrInvitationNotFound):
		renderError(w, r, http.StatusNotFound, "That invitation no longer exists")
	case errors.Is(err, model.ErrNotInvitee):
		renderError(w, r, http.StatusForbidden, "That invitation is not addressed to you")
	default:
		renderError(w, r, http.StatusInternalServerError, "Something went wrong")
	}
}
