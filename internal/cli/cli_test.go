package cli

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/tictactoe-go/internal/api"
	"github.com/mcoot/tictactoe-go/internal/factory"
	"github.com/mcoot/tictactoe-go/internal/testutil"
)

// cliHarness runs commands in-process against a test API server.
// Each player gets their own token file.
type cliHarness struct {
	t      *testing.T
	server *httptest.Server
	dir    string
}

func newCLIHarness(t *testing.T) *cliHarness {
	t.Helper()

	app := factory.NewTestApp()
	router := api.NewRouter(api.RouterConfig{
		Logger:               testutil.NopLogger(),
		AuthService:          app.AuthService,
		GameController:       app.GameController,
		InvitationController: app.InvitationController,
	})
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &cliHarness{t: t, server: server, dir: t.TempDir()}
}

func (h *cliHarness) tokenFile(player string) string {
	return filepath.Join(h.dir, player, "token")
}

// run executes a command as player and returns its stdout
func (h *cliHarness) run(player string, args ...string) (string, error) {
	h.t.Helper()

	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--server", h.server.URL, "--token-file", h.tokenFile(player)}, args...))

	err := cmd.Execute()
	return out.String(), err
}

// runJSON executes a command with JSON output and decodes the result
func (h *cliHarness) runJSON(player string, result any, args ...string) {
	h.t.Helper()
	out, err := h.run(player, append([]string{"-o", "json"}, args...)...)
	require.NoError(h.t, err, "output: %s", out)
	require.NoError(h.t, json.Unmarshal([]byte(out), result), "output: %s", out)
}

func (h *cliHarness) register(player string) AuthResult {
	h.t.Helper()
	var result AuthResult
	h.runJSON(player, &result, "player", "register", "--user", player, "--pass", "password123")
	return result
}

// startGame has inviter invite invitee and invitee accept
func (h *cliHarness) startGame(inviter, invitee string) Game {
	h.t.Helper()
	var inv Invitation
	h.runJSON(inviter, &inv, "invite", "send", invitee)
	var g Game
	h.runJSON(invitee, &g, "invite", "accept", inv.ID)
	return g
}

func TestHealth(t *testing.T) {
	h := newCLIHarness(t)

	out, err := h.run("anon", "health")
	require.NoError(t, err)
	assert.Equal(t, "Status: ok\n", out)
}

func TestRegisterSavesToken(t *testing.T) {
	h := newCLIHarness(t)

	out, err := h.run("alice", "player", "register", "--user", "alice", "--pass", "password123", "--name", "Alice")
	require.NoError(t, err)
	assert.Contains(t, out, "Player: Alice (@alice)")

	saved, err := os.ReadFile(h.tokenFile("alice"))
	require.NoError(t, err)
	assert.NotEmpty(t, saved)

	var me Player
	h.runJSON("alice", &me, "player", "me")
	assert.Equal(t, "alice", me.Username)
	assert.Equal(t, "Alice", me.DisplayName)
}

func TestLoginAndLogout(t *testing.T) {
	h := newCLIHarness(t)
	h.register("alice")

	out, err := h.run("alice", "player", "logout")
	require.NoError(t, err)
	assert.Equal(t, "Logged out\n", out)
	_, err = os.Stat(h.tokenFile("alice"))
	assert.True(t, os.IsNotExist(err))

	_, err = h.run("alice", "player", "me")
	require.Error(t, err)

	_, err = h.run("alice", "player", "login", "--user", "alice", "--pass", "nope-nope")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "INVALID_CREDENTIALS", apiErr.Code)
	assert.Equal(t, 401, apiErr.Status)

	_, err = h.run("alice", "player", "login", "--user", "alice", "--pass", "password123")
	require.NoError(t, err)
	_, err = h.run("alice", "player", "me")
	assert.NoError(t, err)
}

func TestTokenFlagOverridesFile(t *testing.T) {
	h := newCLIHarness(t)
	bob := h.register("bob")

	var me Player
	h.runJSON("nobody", &me, "--token", bob.SessionToken, "player", "me")
	assert.Equal(t, "bob", me.Username)
}

func TestInvitations(t *testing.T) {
	h := newCLIHarness(t)
	alice := h.register("alice")
	h.register("bob")

	var inv Invitation
	h.runJSON("alice", &inv, "invite", "send", "bob", "-m", "up for a game?")
	assert.Equal(t, alice.Player.ID, inv.FromPlayer)

	out, err := h.run("bob", "invite", "list")
	require.NoError(t, err)
	assert.Contains(t, out, inv.ID)
	assert.Contains(t, out, `"up for a game?"`)

	var sent []Invitation
	h.runJSON("alice", &sent, "invite", "sent")
	require.Len(t, sent, 1)

	// only bob can answer
	_, err = h.run("alice", "invite", "decline", inv.ID)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "NOT_INVITEE", apiErr.Code)

	out, err = h.run("bob", "invite", "decline", inv.ID)
	require.NoError(t, err)
	assert.Equal(t, "Invitation declined\n", out)

	out, err = h.run("bob", "invite", "list")
	require.NoError(t, err)
	assert.Equal(t, "No invitations\n", out)
}

func TestPlayGame(t *testing.T) {
	h := newCLIHarness(t)
	h.register("alice")
	bob := h.register("bob")

	g := h.startGame("alice", "bob")
	assert.Equal(t, bob.Player.ID, g.FirstPlayer)

	out, err := h.run("bob", "game", "move", g.ID, "1", "1", "--comment", "centre")
	require.NoError(t, err)
	assert.Contains(t, out, "Played X at (1, 1)")

	_, err = h.run("bob", "game", "move", g.ID, "0", "0")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "NOT_YOUR_TURN", apiErr.Code)

	_, err = h.run("alice", "game", "move", g.ID, "1", "1")
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "CELL_OCCUPIED", apiErr.Code)

	_, err = h.run("alice", "game", "move", g.ID, "one", "1")
	assert.ErrorContains(t, err, "invalid x")

	for _, m := range [][]string{
		{"alice", "0", "0"}, {"bob", "0", "1"}, {"alice", "2", "2"}, {"bob", "2", "1"},
	} {
		_, err := h.run(m[0], "game", "move", g.ID, m[1], m[2])
		require.NoError(t, err)
	}

	out, err = h.run("alice", "game", "show", g.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "Status: First player wins")
	assert.Contains(t, out, " 1 | X  X  X |")
	assert.Contains(t, out, " 0 | O  .  . |")
	assert.Contains(t, out, `1. X at (1, 1)  "centre"`)
	assert.NotContains(t, out, "your move")

	var detail GameDetail
	h.runJSON("alice", &detail, "game", "show", g.ID)
	assert.Equal(t, "first_wins", detail.Game.Status)
	assert.Len(t, detail.Moves, 5)
}

func TestGameLists(t *testing.T) {
	h := newCLIHarness(t)
	h.register("alice")
	h.register("bob")
	g := h.startGame("alice", "bob")

	var games PlayerGames
	h.runJSON("alice", &games, "game", "list")
	require.Len(t, games.Active, 1)
	assert.Empty(t, games.Finished)

	out, err := h.run("alice", "game", "list", "--status", "active")
	require.NoError(t, err)
	assert.Contains(t, out, "Active games:")
	assert.NotContains(t, out, "Finished games:")
	assert.Contains(t, out, g.ID)

	_, err = h.run("alice", "game", "list", "--status", "bogus")
	assert.Error(t, err)

	var all []Game
	h.runJSON("bob", &all, "game", "all")
	assert.Len(t, all, 1)

	out, err = h.run("bob", "game", "delete", g.ID)
	require.NoError(t, err)
	assert.Equal(t, "Game deleted\n", out)

	out, err = h.run("bob", "game", "all")
	require.NoError(t, err)
	assert.Equal(t, "  (none)", strings.TrimRight(out, "\n"))
}
