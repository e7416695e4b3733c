package factory

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/tictactoe-go/internal/config"
	"github.com/mcoot/tictactoe-go/internal/model"
	"github.com/mcoot/tictactoe-go/internal/services/auth"
	"github.com/mcoot/tictactoe-go/internal/storage/memory"
	redisstorage "github.com/mcoot/tictactoe-go/internal/storage/redis"
	"github.com/mcoot/tictactoe-go/internal/storage/sqlite"
)

type IntegrationSuite struct {
	suite.Suite
	app   *TestApp
	ctx   context.Context
	alice *auth.Session
	bob   *auth.Session
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationSuite))
}

func (s *IntegrationSuite) SetupTest() {
	s.app = NewTestApp()
	s.ctx = context.Background()

	var err error
	s.alice, err = s.app.Register(s.ctx, "alice")
	s.Require().NoError(err)
	s.bob, err = s.app.Register(s.ctx, "bob")
	s.Require().NoError(err)
}

func (s *IntegrationSuite) play(g *model.Game, player *auth.Session, x, y int) *model.Game {
	s.app.MockClock.Advance(time.Second)
	updated, _, err := s.app.GameController.MakeMove(s.ctx, g.ID, player.PlayerID, x, y, "")
	s.Require().NoError(err)
	return updated
}

// Complete flow from invitation to a win
func (s *IntegrationSuite) TestInvitationToWin() {
	s.app.MockRandom.QueueString("game000001")

	inv, err := s.app.InvitationController.Create(s.ctx, s.alice.PlayerID, "bob", "best of one?")
	s.Require().NoError(err)

	received, err := s.app.InvitationController.Received(s.ctx, s.bob.PlayerID)
	s.Require().NoError(err)
	s.Require().Len(received, 1)
	s.Equal(inv.ID, received[0].ID)

	g, err := s.app.InvitationController.Accept(s.ctx, inv.ID, s.bob.PlayerID)
	s.Require().NoError(err)
	s.Equal(model.GameID("game000001"), g.ID)

	// bob was invited so bob plays first
	g = s.play(g, s.bob, 0, 0)
	g = s.play(g, s.alice, 1, 1)
	g = s.play(g, s.bob, 1, 0)
	g = s.play(g, s.alice, 2, 2)
	g = s.play(g, s.bob, 2, 0)

	s.Equal(model.StatusFirstWins, g.Status)
	s.Equal(s.bob.PlayerID, g.Winner())

	_, _, err = s.app.GameController.MakeMove(s.ctx, g.ID, s.alice.PlayerID, 0, 2, "")
	s.ErrorIs(err, model.ErrGameFinished)

	active, finished, err := s.app.GameController.GamesForPlayer(s.ctx, s.alice.PlayerID)
	s.Require().NoError(err)
	s.Empty(active)
	s.Require().Len(finished, 1)
	s.Equal(g.ID, finished[0].ID)
}

func (s *IntegrationSuite) TestDrawFlow() {
	g, err := s.app.StartGame(s.ctx, s.alice.PlayerID, "bob")
	s.Require().NoError(err)

	// X O X
	// X O O
	// O X X
	g = s.play(g, s.bob, 0, 0)
	g = s.play(g, s.alice, 1, 0)
	g = s.play(g, s.bob, 2, 0)
	g = s.play(g, s.alice, 1, 1)
	g = s.play(g, s.bob, 0, 1)
	g = s.play(g, s.alice, 2, 1)
	g = s.play(g, s.bob, 1, 2)
	g = s.play(g, s.alice, 0, 2)
	g = s.play(g, s.bob, 2, 2)

	s.Equal(model.StatusDraw, g.Status)

	view, err := s.app.GameController.GetGameView(s.ctx, g.ID)
	s.Require().NoError(err)
	s.Len(view.Moves, 9)
	s.Equal(9, view.Board.Count())
	s.Equal("bob", view.FirstPlayer.Username)
	s.Equal("alice", view.SecondPlayer.Username)
}

func (s *IntegrationSuite) TestLastActiveFollowsMoves() {
	g, err := s.app.StartGame(s.ctx, s.alice.PlayerID, "bob")
	s.Require().NoError(err)
	created := g.LastActive

	g = s.play(g, s.bob, 1, 1)

	s.True(g.LastActive.After(created))
	s.Equal(s.app.MockClock.Now(), g.LastActive)
}

func (s *IntegrationSuite) TestDeclinedInvitationStartsNothing() {
	inv, err := s.app.InvitationController.Create(s.ctx, s.alice.PlayerID, "bob", "")
	s.Require().NoError(err)

	s.Require().NoError(s.app.InvitationController.Decline(s.ctx, inv.ID, s.bob.PlayerID))

	games, err := s.app.GameController.AllGames(s.ctx)
	s.Require().NoError(err)
	s.Empty(games)
}

func (s *IntegrationSuite) TestSessionsUseMockClock() {
	s.app.MockClock.Advance(25 * time.Hour)

	_, err := s.app.AuthService.ValidateSession(s.alice.Token)
	s.ErrorIs(err, auth.ErrInvalidSession)
}

// Factory wiring

func TestNewDefaultsToMemory(t *testing.T) {
	app, err := New(Config{})
	require.NoError(t, err)
	defer func() { _ = app.Close() }()

	_, ok := app.Storage.(*memory.Storage)
	assert.True(t, ok)
}

func TestNewWithSQLite(t *testing.T) {
	app, err := New(Config{StorageType: StorageTypeSQLite, SQLitePath: filepath.Join(t.TempDir(), "ttt.db")})
	require.NoError(t, err)
	defer func() { _ = app.Close() }()

	_, ok := app.Storage.(*sqlite.Storage)
	assert.True(t, ok)
}

func TestNewWithRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	redisCfg := redisstorage.DefaultConfig()
	redisCfg.URL = "redis://" + mr.Addr()

	app, err := New(Config{StorageType: StorageTypeRedis, RedisConfig: &redisCfg})
	require.NoError(t, err)
	defer func() { _ = app.Close() }()

	_, ok := app.Storage.(*redisstorage.Storage)
	assert.True(t, ok)
}

func TestNewRejectsIncompleteConfig(t *testing.T) {
	tests := map[string]Config{
		"unknown type":        {StorageType: "mongo"},
		"redis without cfg":   {StorageType: StorageTypeRedis},
		"sqlite without path": {StorageType: StorageTypeSQLite},
		"postgres no dsn":     {StorageType: StorageTypePostgres},
	}
	for name, cfg := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := New(cfg)
			assert.Error(t, err)
		})
	}
}

func TestConfigFrom(t *testing.T) {
	cfg := &config.Config{
		Storage: config.Storage{
			Type:   config.StorageSQLite,
			SQLite: config.SQLite{Path: "/data/ttt.db"},
			Redis:  config.Redis{URL: "redis://cache:6379/0", PoolSize: 4, GameTTL: time.Hour},
		},
		Auth: config.Auth{SessionDuration: time.Hour, JWTSecret: "s3cret"},
	}

	fc := ConfigFrom(cfg, nil)

	assert.Equal(t, StorageTypeSQLite, fc.StorageType)
	assert.Equal(t, "/data/ttt.db", fc.SQLitePath)
	require.NotNil(t, fc.RedisConfig)
	assert.Equal(t, "redis://cache:6379/0", fc.RedisConfig.URL)
	assert.Equal(t, 4, fc.RedisConfig.PoolSize)
	assert.Equal(t, time.Hour, fc.RedisConfig.GameTTL)
	assert.Equal(t, "s3cret", fc.AuthConfig.JWTSecret)
}
