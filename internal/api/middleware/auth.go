package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/mcoot/tictactoe-go/internal/api/apierr"
	"github.com/mcoot/tictactoe-go/internal/middleware"
	"github.com/mcoot/tictactoe-go/internal/model"
	"github.com/mcoot/tictactoe-go/internal/services/auth"
)

// Auth rejects requests without a live session. The bearer header wins over
// the browser cookie when both are present.
func Auth(authService *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, err := middleware.Authenticate(r, authService, middleware.BearerToken, middleware.CookieToken)
			if errors.Is(err, middleware.ErrNoToken) {
				apierr.WriteError(w, apierr.NewUnauthorizedError())
				return
			}
			if err != nil {
				apierr.WriteError(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(middleware.WithSession(r.Context(), session)))
		})
	}
}

// GetSession returns the session from the request context
func GetSession(ctx context.Context) *auth.Session {
	return middleware.Session(ctx)
}

// MustGetPlayer returns the authenticated player. Handlers behind Auth can
// rely on it; anywhere else it panics.
func MustGetPlayer(ctx context.Context) *model.Player {
	player := middleware.Player(ctx)
	if player == nil {
		panic("no player in context: route is not behind Auth")
	}
	return player
}
