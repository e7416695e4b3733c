package api_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/tictactoe-go/internal/api"
	"github.com/mcoot/tictactoe-go/internal/api/apierr"
	"github.com/mcoot/tictactoe-go/internal/api/response"
	"github.com/mcoot/tictactoe-go/internal/factory"
)

// testServer creates a test server with all dependencies
type testServer struct {
	handler http.Handler
	app     *factory.App
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	// API tests are integration tests - use production factory with real random/clock
	app, err := factory.New(factory.Config{Logger: logger})
	require.NoError(t, err)

	router := api.NewRouter(api.RouterConfig{
		Logger:               logger,
		AuthService:          app.AuthService,
		GameController:       app.GameController,
		InvitationController: app.InvitationController,
	})

	return &testServer{handler: router, app: app}
}

func (ts *testServer) request(method, path string, body any, token string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		b, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(b)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func errorCode(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[apierr.ErrorResponse](t, rr).Error.Code
}

func register(t *testing.T, ts *testServer, username string) response.AuthResponse {
	t.Helper()
	body := map[string]string{"username": username, "password": "secret123"}
	rr := ts.request(http.MethodPost, "/api/v1/players/register", body, "")
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	return decode[response.AuthResponse](t, rr)
}

// startGame has inviter invite invitee and invitee accept. The invitee moves first.
func startGame(t *testing.T, ts *testServer, inviter, invitee response.AuthResponse) response.Game {
	t.Helper()
	body := map[string]string{"to_username": invitee.Player.Username}
	rr := ts.request(http.MethodPost, "/api/v1/invitations", body, inviter.SessionToken)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	inv := decode[response.Invitation](t, rr)

	rr = ts.request(http.MethodPost, "/api/v1/invitations/"+inv.ID+"/accept", nil, invitee.SessionToken)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	return decode[response.Game](t, rr)
}

func move(ts *testServer, gameID string, player response.AuthResponse, x, y int) *httptest.ResponseRecorder {
	body := map[string]any{"x": x, "y": y}
	return ts.request(http.MethodPost, "/api/v1/games/"+gameID+"/moves", body, player.SessionToken)
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/health", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "ok")
	assert.Equal(t, "no-store", rr.Header().Get("Cache-Control"))
}

func TestUnknownRouteIsJSON(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/nope", nil, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, apierr.CodeNotFound, errorCode(t, rr))
}

func TestRegisterAndLogin(t *testing.T) {
	ts := newTestServer(t)

	registered := register(t, ts, "alice")
	assert.Equal(t, "alice", registered.Player.Username)
	assert.Equal(t, "alice", registered.Player.DisplayName)
	assert.NotEmpty(t, registered.SessionToken)

	body := map[string]string{"username": "alice", "password": "secret123"}
	rr := ts.request(http.MethodPost, "/api/v1/players/login", body, "")
	require.Equal(t, http.StatusOK, rr.Code)
	loggedIn := decode[response.AuthResponse](t, rr)
	assert.Equal(t, registered.Player.ID, loggedIn.Player.ID)

	body["password"] = "wrong-password"
	rr = ts.request(http.MethodPost, "/api/v1/players/login", body, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, apierr.CodeInvalidCredentials, errorCode(t, rr))
}

func TestRegisterValidation(t *testing.T) {
	ts := newTestServer(t)
	register(t, ts, "alice")

	tests := []struct {
		name   string
		body   map[string]string
		status int
		code   string
	}{
		{"missing username", map[string]string{"password": "secret123"}, http.StatusBadRequest, apierr.CodeInvalidRequest},
		{"missing password", map[string]string{"username": "bob"}, http.StatusBadRequest, apierr.CodeInvalidRequest},
		{"short password", map[string]string{"username": "bob", "password": "abc"}, http.StatusBadRequest, apierr.CodeInvalidRequest},
		{"duplicate", map[string]string{"username": "alice", "password": "secret123"}, http.StatusConflict, apierr.CodeUsernameExists},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := ts.request(http.MethodPost, "/api/v1/players/register", tt.body, "")
			assert.Equal(t, tt.status, rr.Code)
			assert.Equal(t, tt.code, errorCode(t, rr))
		})
	}
}

func TestGetMeAndLogout(t *testing.T) {
	ts := newTestServer(t)
	alice := register(t, ts, "alice")

	rr := ts.request(http.MethodGet, "/api/v1/players/me", nil, alice.SessionToken)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "alice", decode[response.Player](t, rr).Username)

	rr = ts.request(http.MethodPost, "/api/v1/players/logout", nil, alice.SessionToken)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = ts.request(http.MethodGet, "/api/v1/players/me", nil, alice.SessionToken)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestUnauthorizedWithoutToken(t *testing.T) {
	ts := newTestServer(t)

	for _, path := range []string{"/api/v1/players/me", "/api/v1/invitations", "/api/v1/games"} {
		rr := ts.request(http.MethodGet, path, nil, "")
		assert.Equal(t, http.StatusUnauthorized, rr.Code, path)
		assert.Equal(t, apierr.CodeUnauthorized, errorCode(t, rr))
	}

	rr := ts.request(http.MethodGet, "/api/v1/games", nil, "not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestInvitationFlow(t *testing.T) {
	ts := newTestServer(t)
	alice := register(t, ts, "alice")
	bob := register(t, ts, "bob")
	carol := register(t, ts, "carol")

	body := map[string]string{"to_username": "bob", "message": "rematch?"}
	rr := ts.request(http.MethodPost, "/api/v1/invitations", body, alice.SessionToken)
	require.Equal(t, http.StatusCreated, rr.Code)
	inv := decode[response.Invitation](t, rr)
	assert.Equal(t, alice.Player.ID, inv.FromPlayer)
	assert.Equal(t, bob.Player.ID, inv.ToPlayer)
	assert.Equal(t, "rematch?", inv.Message)

	rr = ts.request(http.MethodGet, "/api/v1/invitations", nil, bob.SessionToken)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decode[[]response.Invitation](t, rr), 1)

	rr = ts.request(http.MethodGet, "/api/v1/invitations/sent", nil, alice.SessionToken)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decode[[]response.Invitation](t, rr), 1)

	// only the invitee may answer
	rr = ts.request(http.MethodPost, "/api/v1/invitations/"+inv.ID+"/accept", nil, carol.SessionToken)
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, apierr.CodeNotInvitee, errorCode(t, rr))

	rr = ts.request(http.MethodPost, "/api/v1/invitations/"+inv.ID+"/accept", nil, bob.SessionToken)
	require.Equal(t, http.StatusCreated, rr.Code)
	g := decode[response.Game](t, rr)
	assert.Equal(t, bob.Player.ID, g.FirstPlayer)
	assert.Equal(t, alice.Player.ID, g.SecondPlayer)
	assert.Equal(t, "first_to_move", g.Status)

	rr = ts.request(http.MethodGet, "/api/v1/invitations", nil, bob.SessionToken)
	assert.Empty(t, decode[[]response.Invitation](t, rr))
}

func TestInvitationErrors(t *testing.T) {
	ts := newTestServer(t)
	alice := register(t, ts, "alice")
	bob := register(t, ts, "bob")

	tests := []struct {
		name   string
		body   map[string]string
		status int
		code   string
	}{
		{"self", map[string]string{"to_username": "alice"}, http.StatusUnprocessableEntity, apierr.CodeCannotInviteSelf},
		{"unknown", map[string]string{"to_username": "nobody"}, http.StatusNotFound, apierr.CodePlayerNotFound},
		{"missing", map[string]string{}, http.StatusBadRequest, apierr.CodeInvalidRequest},
		{"long message", map[string]string{"to_username": "bob", "message": strings.Repeat("x", 301)}, http.StatusUnprocessableEntity, apierr.CodeMessageTooLong},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := ts.request(http.MethodPost, "/api/v1/invitations", tt.body, alice.SessionToken)
			assert.Equal(t, tt.status, rr.Code)
			assert.Equal(t, tt.code, errorCode(t, rr))
		})
	}

	body := map[string]string{"to_username": "bob"}
	rr := ts.request(http.MethodPost, "/api/v1/invitations", body, alice.SessionToken)
	inv := decode[response.Invitation](t, rr)

	rr = ts.request(http.MethodPost, "/api/v1/invitations/"+inv.ID+"/decline", nil, bob.SessionToken)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = ts.request(http.MethodPost, "/api/v1/invitations/"+inv.ID+"/accept", nil, bob.SessionToken)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, apierr.CodeInvitationNotFound, errorCode(t, rr))
}

func TestFullGameFlow(t *testing.T) {
	ts := newTestServer(t)
	alice := register(t, ts, "alice")
	bob := register(t, ts, "bob")

	g := startGame(t, ts, alice, bob)

	// bob is first
	rr := move(ts, g.ID, alice, 1, 1)
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, apierr.CodeNotYourTurn, errorCode(t, rr))

	rr = move(ts, g.ID, bob, 1, 1)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	result := decode[response.MoveResult](t, rr)
	assert.Equal(t, "second_to_move", result.Game.Status)
	assert.Equal(t, "X", result.Move.Mark)
	assert.Equal(t, 1, result.Move.Seq)

	rr = move(ts, g.ID, alice, 1, 1)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, apierr.CodeCellOccupied, errorCode(t, rr))

	rr = move(ts, g.ID, alice, 3, 0)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Equal(t, apierr.CodeInvalidPosition, errorCode(t, rr))

	require.Equal(t, http.StatusCreated, move(ts, g.ID, alice, 0, 0).Code)
	require.Equal(t, http.StatusCreated, move(ts, g.ID, bob, 0, 1).Code)
	require.Equal(t, http.StatusCreated, move(ts, g.ID, alice, 2, 0).Code)
	rr = move(ts, g.ID, bob, 2, 1)
	require.Equal(t, http.StatusCreated, rr.Code)
	result = decode[response.MoveResult](t, rr)
	assert.Equal(t, "first_wins", result.Game.Status)
	assert.Equal(t, bob.Player.ID, result.Game.Winner)

	rr = move(ts, g.ID, alice, 2, 2)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, apierr.CodeGameFinished, errorCode(t, rr))

	rr = ts.request(http.MethodGet, "/api/v1/games/"+g.ID, nil, alice.SessionToken)
	require.Equal(t, http.StatusOK, rr.Code)
	detail := decode[response.GameDetail](t, rr)
	assert.Len(t, detail.Moves, 5)
	assert.Equal(t, []string{"X", "X", "X"}, detail.Board[1])
	assert.Equal(t, []string{"O", "", "O"}, detail.Board[0])
	assert.False(t, detail.YourMove)
	assert.Equal(t, "bob", detail.FirstPlayer.Username)
}

func TestMoveRequiresCoordinates(t *testing.T) {
	ts := newTestServer(t)
	alice := register(t, ts, "alice")
	bob := register(t, ts, "bob")
	g := startGame(t, ts, alice, bob)

	body := map[string]any{"x": 1}
	rr := ts.request(http.MethodPost, "/api/v1/games/"+g.ID+"/moves", body, bob.SessionToken)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	body = map[string]any{"x": 0, "y": 0, "comment": strings.Repeat("c", 301)}
	rr = ts.request(http.MethodPost, "/api/v1/games/"+g.ID+"/moves", body, bob.SessionToken)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Equal(t, apierr.CodeCommentTooLong, errorCode(t, rr))
}

func TestTurnCheckedBeforeMoveBody(t *testing.T) {
	ts := newTestServer(t)
	alice := register(t, ts, "alice")
	bob := register(t, ts, "bob")
	carol := register(t, ts, "carol")
	g := startGame(t, ts, alice, bob)
	path := "/api/v1/games/" + g.ID + "/moves"

	tests := []struct {
		name   string
		player response.AuthResponse
		body   any
	}{
		{"out of turn, missing y", alice, map[string]any{"x": 1}},
		{"out of turn, no body", alice, nil},
		{"outsider, wrong types", carol, map[string]any{"x": "nine", "y": "z"}},
		{"outsider, out of range", carol, map[string]any{"x": 9, "y": 9}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := ts.request(http.MethodPost, path, tt.body, tt.player.SessionToken)
			assert.Equal(t, http.StatusForbidden, rr.Code, rr.Body.String())
			assert.Equal(t, apierr.CodeNotYourTurn, errorCode(t, rr))
		})
	}

	rr := ts.request(http.MethodPost, "/api/v1/games/nope/moves", map[string]any{"x": "?"}, bob.SessionToken)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestGameDetailShowsYourMove(t *testing.T) {
	ts := newTestServer(t)
	alice := register(t, ts, "alice")
	bob := register(t, ts, "bob")
	g := startGame(t, ts, alice, bob)

	rr := ts.request(http.MethodGet, "/api/v1/games/"+g.ID, nil, bob.SessionToken)
	assert.True(t, decode[response.GameDetail](t, rr).YourMove)

	rr = ts.request(http.MethodGet, "/api/v1/games/"+g.ID, nil, alice.SessionToken)
	assert.False(t, decode[response.GameDetail](t, rr).YourMove)

	rr = ts.request(http.MethodGet, "/api/v1/games/missing", nil, alice.SessionToken)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, apierr.CodeGameNotFound, errorCode(t, rr))
}

func TestMyGamesAndList(t *testing.T) {
	ts := newTestServer(t)
	alice := register(t, ts, "alice")
	bob := register(t, ts, "bob")
	carol := register(t, ts, "carol")

	startGame(t, ts, alice, bob)
	startGame(t, ts, bob, carol)

	rr := ts.request(http.MethodGet, "/api/v1/players/me/games", nil, bob.SessionToken)
	require.Equal(t, http.StatusOK, rr.Code)
	games := decode[response.PlayerGames](t, rr)
	assert.Len(t, games.Active, 2)
	assert.Empty(t, games.Finished)

	rr = ts.request(http.MethodGet, "/api/v1/players/me/games?status=finished", nil, alice.SessionToken)
	require.Equal(t, http.StatusOK, rr.Code)
	games = decode[response.PlayerGames](t, rr)
	assert.Nil(t, games.Active)
	assert.Empty(t, games.Finished)

	rr = ts.request(http.MethodGet, "/api/v1/players/me/games?status=bogus", nil, alice.SessionToken)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = ts.request(http.MethodGet, "/api/v1/games", nil, alice.SessionToken)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decode[[]response.Game](t, rr), 2)
}

func TestDeleteGame(t *testing.T) {
	ts := newTestServer(t)
	alice := register(t, ts, "alice")
	bob := register(t, ts, "bob")
	carol := register(t, ts, "carol")
	g := startGame(t, ts, alice, bob)

	rr := ts.request(http.MethodDelete, "/api/v1/games/"+g.ID, nil, carol.SessionToken)
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, apierr.CodeNotParticipant, errorCode(t, rr))

	rr = ts.request(http.MethodDelete, "/api/v1/games/"+g.ID, nil, alice.SessionToken)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = ts.request(http.MethodGet, "/api/v1/games/"+g.ID, nil, alice.SessionToken)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
