package middleware

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/tictactoe-go/internal/middleware"
	"github.com/mcoot/tictactoe-go/internal/web/templates/layout"
	"github.com/mcoot/tictactoe-go/internal/web/templates/pages"
)

// Recovery creates panic recovery middleware for the web interface.
// The visitor gets the standard error page rather than a dropped connection.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Recovery(logger, func(w http.ResponseWriter, r *http.Request, _ any) {
		msg := "Something went wrong. Please try again later."
		if id := middleware.RequestID(r.Context()); id != "" {
			msg += " Reference: " + id
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_ = pages.Error(pages.ErrorData{
			PageData: layout.PageData{Title: "Error", Player: GetPlayer(r.Context())},
			Status:   http.StatusInternalServerError,
			Message:  msg,
		}).Render(r.Context(), w)
	})
}
