package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/mcoot/tictactoe-go/internal/model"
	"github.com/mcoot/tictactoe-go/internal/services/auth"
)

// SessionCookieName holds the session token for browser clients
const SessionCookieName = "session"

// ErrNoToken means the request carried no session token at all
var ErrNoToken = errors.New("no session token")

type sessionKey struct{}

// WithSession attaches a validated session to ctx and names its player in
// the access log
func WithSession(ctx context.Context, session *auth.Session) context.Context {
	if info := infoFrom(ctx); info != nil && session != nil {
		info.player = session.Player.ID
	}
	return context.WithValue(ctx, sessionKey{}, session)
}

// Session returns the session attached by WithSession, or nil
func Session(ctx context.Context) *auth.Session {
	session, _ := ctx.Value(sessionKey{}).(*auth.Session)
	return session
}

// Player returns the authenticated player, or nil
func Player(ctx context.Context) *model.Player {
	if session := Session(ctx); session != nil {
		return &session.Player
	}
	return nil
}

// BearerToken returns the token from an "Authorization: Bearer" header
func BearerToken(r *http.Request) string {
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok {
		return ""
	}
	return strings.TrimSpace(token)
}

// CookieToken returns the session cookie's value
func CookieToken(r *http.Request) string {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// Authenticate validates the first non-empty token, trying each source in order
func Authenticate(r *http.Request, authService *auth.Service, sources ...func(*http.Request) string) (*auth.Session, error) {
	for _, source := range sources {
		if token := source(r); token != "" {
			return authService.ValidateSession(token)
		}
	}
	return nil, ErrNoToken
}
