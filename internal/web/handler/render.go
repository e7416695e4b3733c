package handler

import (
	"bytes"
	"context"
	"net/http"
	"strings"

	"github.com/a-h/templ"

	"github.com/mcoot/tictactoe-go/internal/model"
	"github.com/mcoot/tictactoe-go/internal/services/auth"
	"github.com/mcoot/tictactoe-go/internal/web/middleware"
	"github.com/mcoot/tictactoe-go/internal/web/templates/layout"
	"github.com/mcoot/tictactoe-go/internal/web/templates/pages"
)

// render buffers the component so a template failure can still produce a clean 500
func render(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	var buf bytes.Buffer
	if err := c.Render(r.Context(), &buf); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func pageData(r *http.Request, title string) layout.PageData {
	return layout.PageData{
		Title:  title,
		Player: middleware.GetPlayer(r.Context()),
		Flash:  middleware.GetFlash(r.Context()),
	}
}

func renderError(w http.ResponseWriter, r *http.Request, status int, message string) {
	render(w, r, status, pages.Error(pages.ErrorData{
		PageData: pageData(r, http.StatusText(status)),
		Status:   status,
		Message:  message,
	}))
}

// NotFound renders the 404 page for unmatched paths
func NotFound(w http.ResponseWriter, r *http.Request) {
	renderError(w, r, http.StatusNotFound, "There is nothing at "+r.URL.Path+".")
}

// safeNext only allows redirects back onto this site
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	return next
}

// playerNames resolves display names, caching lookups for one request
type playerNames struct {
	authService *auth.Service
	cache       map[model.PlayerID]string
}

func newPlayerNames(authService *auth.Service) *playerNames {
	return &playerNames{authService: authService, cache: make(map[model.PlayerID]string)}
}

func (n *playerNames) name(ctx context.Context, id model.PlayerID) string {
	if name, ok := n.cache[id]; ok {
		return name
	}
	name := string(id)
	if p, err := n.authService.GetPlayer(ctx, id); err == nil {
		name = p.DisplayName
	}
	n.cache[id] = name
	return name
}

func (n *playerNames) games(ctx context.Context, games []*model.Game, viewer model.PlayerID) []pages.GameSummary {
	out := make([]pages.GameSummary, len(games))
	for i, g := range games {
		first, second := n.name(ctx, g.FirstPlayer), n.name(ctx, g.SecondPlayer)
		out[i] = pages.GameSummary{
			ID:           string(g.ID),
			FirstPlayer:  first,
			SecondPlayer: second,
			Status:       statusText(g, first, second),
			YourMove:     g.IsUsersMove(viewer),
			Finished:     g.Status.IsTerminal(),
			LastActive:   g.LastActive,
		}
	}
	return out
}

func (n *playerNames) invitations(ctx context.Context, invs []*model.Invitation) []pages.InvitationSummary {
	out := make([]pages.InvitationSummary, len(invs))
	for i, inv := range invs {
		out[i] = pages.InvitationSummary{
			ID:        string(inv.ID),
			From:      n.name(ctx, inv.FromPlayer),
			Message:   inv.Message,
			CreatedAt: inv.CreatedAt,
		}
	}
	return out
}

// statusText describes the game state using the players' names
func statusText(g *model.Game, first, second string) string {
	switch g.Status {
	case model.StatusFirstToMove:
		return first + " to move"
	case model.StatusSecondToMove:
		return second + " to move"
	case model.StatusFirstWins:
		return first + " wins"
	case model.StatusSecondWins:
		return second + " wins"
	default:
		return g.Status.Label()
	}
}
