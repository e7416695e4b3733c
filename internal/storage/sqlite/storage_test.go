package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/tictactoe-go/internal/model"
	"github.com/mcoot/tictactoe-go/internal/storage"
	"github.com/mcoot/tictactoe-go/internal/storage/storagetest"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "ttt.db"))
	require.NoError(t, err)
	return s
}

func TestConformanceSuite(t *testing.T) {
	suite.Run(t, &storagetest.Suite{
		NewStorage: func(t *testing.T) storage.Storage { return newTestStorage(t) },
	})
}

func TestReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "ttt.db")

	s, err := New(path)
	require.NoError(t, err)
	require.NoError(t, s.SaveGame(ctx, &model.Game{ID: "g1", FirstPlayer: "p1", SecondPlayer: "p2", Status: model.StatusFirstToMove}))
	require.NoError(t, s.SaveMove(ctx, &model.Move{GameID: "g1", Seq: 1, X: 1, Y: 1, ByFirstPlayer: true}))
	require.NoError(t, s.Close())

	s, err = New(path)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	moves, err := s.GetMovesForGame(ctx, "g1")
	require.NoError(t, err)
	require.Len(t, moves, 1)
	assert.True(t, moves[0].ByFirstPlayer)
}

func TestForeignKeyRequiresExplicitCascade(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)
	defer func() { _ = s.Close() }()

	require.NoError(t, s.SaveGame(ctx, &model.Game{ID: "g1", FirstPlayer: "p1", SecondPlayer: "p2", Status: model.StatusFirstToMove}))
	require.NoError(t, s.SaveMove(ctx, &model.Move{GameID: "g1", Seq: 1, X: 0, Y: 0}))

	// removing the game row alone is refused while moves still point at it
	_, err := s.db.ExecContext(ctx, `DELETE FROM games WHERE id = ?`, "g1")
	assert.Error(t, err)

	require.NoError(t, s.DeleteGame(ctx, "g1"))
}

func TestSchemaRejectsUnknownStatus(t *testing.T) {
	s := newTestStorage(t)
	defer func() { _ = s.Close() }()

	err := s.SaveGame(context.Background(), &model.Game{ID: "g1", FirstPlayer: "p1", SecondPlayer: "p2", Status: "F"})
	assert.Error(t, err)
}
