package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/tictactoe-go/internal/dependencies/mocks"
	"github.com/mcoot/tictactoe-go/internal/model"
	"github.com/mcoot/tictactoe-go/internal/services/auth"
	"github.com/mcoot/tictactoe-go/internal/storage/memory"
	"github.com/mcoot/tictactoe-go/internal/testutil"
)

func TestWithSessionNamesPlayerInAccessLog(t *testing.T) {
	logger, buf := testutil.CaptureLogger()

	handler := Logging(logger)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		ctx := WithSession(r.Context(), &auth.Session{Player: model.Player{ID: "p-alice"}})
		assert.Equal(t, model.PlayerID("p-alice"), Player(ctx).ID)
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Contains(t, buf.String(), `"player_id":"p-alice"`)
}

func TestPlayerWithoutSession(t *testing.T) {
	assert.Nil(t, Player(context.Background()))
	assert.Nil(t, Session(context.Background()))
}

func TestTokenSources(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, BearerToken(req))
	assert.Empty(t, CookieToken(req))

	req.Header.Set("Authorization", "Bearer  abc.def ")
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "cookie-token"})
	assert.Equal(t, "abc.def", BearerToken(req))
	assert.Equal(t, "cookie-token", CookieToken(req))

	req.Header.Set("Authorization", "Basic Zm9vOmJhcg==")
	assert.Empty(t, BearerToken(req))
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	authService := auth.New(memory.New(), mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)), auth.Config{JWTSecret: "test-secret"}, testutil.NopLogger())
	session, err := authService.RegisterPlayer(ctx, "alice", "secret123", "Alice")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, err = Authenticate(req, authService, BearerToken, CookieToken)
	assert.ErrorIs(t, err, ErrNoToken)

	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: session.Token})
	got, err := Authenticate(req, authService, BearerToken, CookieToken)
	require.NoError(t, err)
	assert.Equal(t, session.PlayerID, got.PlayerID)

	// The first source with a token decides, even if a later one is valid
	req.Header.Set("Authorization", "Bearer garbage")
	_, err = Authenticate(req, authService, BearerToken, CookieToken)
	assert.ErrorIs(t, err, auth.ErrInvalidSession)
}
