package middleware

import (
	"context"
	"net/http"
	"net/url"

	"github.com/mcoot/tictactoe-go/internal/middleware"
	"github.com/mcoot/tictactoe-go/internal/model"
	"github.com/mcoot/tictactoe-go/internal/services/auth"
)

// SessionCookieName holds the session token for browser clients
const SessionCookieName = middleware.SessionCookieName

// GetPlayer returns the logged-in player, or nil for visitors
func GetPlayer(ctx context.Context) *model.Player {
	return middleware.Player(ctx)
}

// Auth sends visitors without a live session to the login page, remembering
// where they were headed
func Auth(authService *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, err := middleware.Authenticate(r, authService, middleware.CookieToken)
			if err != nil {
				http.Redirect(w, r, "/login?next="+url.QueryEscape(r.URL.RequestURI()), http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r.WithContext(middleware.WithSession(r.Context(), session)))
		})
	}
}

// OptionalAuth attaches the session when the cookie holds a live one and
// otherwise serves the page as a visitor
func OptionalAuth(authService *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if session, err := middleware.Authenticate(r, authService, middleware.CookieToken); err == nil {
				r = r.WithContext(middleware.WithSession(r.Context(), session))
			}
			next.ServeHTTP(w, r)
		})
	}
}
