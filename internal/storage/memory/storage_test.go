package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/tictactoe-go/internal/model"
	"github.com/mcoot/tictactoe-go/internal/storage"
	"github.com/mcoot/tictactoe-go/internal/storage/storagetest"
)

func TestStorageSuite(t *testing.T) {
	suite.Run(t, &storagetest.Suite{
		NewStorage: func(t *testing.T) storage.Storage { return New() },
	})
}

func TestReturnedRecordsAreCopies(t *testing.T) {
	ctx := context.Background()
	s := New()

	game := &model.Game{ID: "g1", FirstPlayer: "p1", SecondPlayer: "p2", Status: model.StatusFirstToMove, CreatedAt: time.Now()}
	require.NoError(t, s.SaveGame(ctx, game))

	// mutating the caller's copy must not leak into storage
	game.Status = model.StatusDraw
	got, err := s.GetGame(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, model.StatusFirstToMove, got.Status)

	got.Status = model.StatusFirstWins
	again, err := s.GetGame(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, model.StatusFirstToMove, again.Status)
}
