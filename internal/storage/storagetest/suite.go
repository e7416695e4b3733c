// Package storagetest holds a conformance suite that every storage backend
// runs from its own tests.
package storagetest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/tictactoe-go/internal/model"
	"github.com/mcoot/tictactoe-go/internal/storage"
)

// Suite exercises the storage.Storage contract.
// NewStorage is called once per test and must return an empty store.
type Suite struct {
	suite.Suite
	NewStorage func(t *testing.T) storage.Storage

	Store storage.Storage
	Ctx   context.Context
	now   time.Time
}

func (s *Suite) SetupTest() {
	s.Store = s.NewStorage(s.T())
	s.Ctx = context.Background()
	s.now = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
}

func (s *Suite) TearDownTest() {
	if s.Store != nil {
		_ = s.Store.Close()
	}
}

func (s *Suite) sameTime(expected, actual time.Time) {
	s.True(expected.Equal(actual), "expected %s, got %s", expected, actual)
}

func (s *Suite) saveGame(id model.GameID, first, second model.PlayerID, status model.GameStatus) *model.Game {
	g := &model.Game{
		ID:           id,
		FirstPlayer:  first,
		SecondPlayer: second,
		Status:       status,
		CreatedAt:    s.now,
		LastActive:   s.now,
	}
	s.Require().NoError(s.Store.SaveGame(s.Ctx, g))
	return g
}

func (s *Suite) saveMove(gameID model.GameID, seq, x, y int) *model.Move {
	m := &model.Move{
		GameID:        gameID,
		Seq:           seq,
		X:             x,
		Y:             y,
		Comment:       "move",
		ByFirstPlayer: seq%2 == 1,
		CreatedAt:     s.now.Add(time.Duration(seq) * time.Second),
	}
	s.Require().NoError(s.Store.SaveMove(s.Ctx, m))
	return m
}

func gameIDs(games []*model.Game) []model.GameID {
	ids := make([]model.GameID, len(games))
	for i, g := range games {
		ids[i] = g.ID
	}
	return ids
}

// Player tests

func (s *Suite) TestSaveAndGetPlayer() {
	player := &model.Player{ID: "p1", Username: "alice", DisplayName: "Alice", CreatedAt: s.now}
	s.Require().NoError(s.Store.SavePlayer(s.Ctx, player))

	got, err := s.Store.GetPlayer(s.Ctx, "p1")
	s.Require().NoError(err)
	s.Equal(player.ID, got.ID)
	s.Equal("alice", got.Username)
	s.Equal("Alice", got.DisplayName)
	s.sameTime(player.CreatedAt, got.CreatedAt)
}

func (s *Suite) TestSavePlayerOverwrites() {
	s.Require().NoError(s.Store.SavePlayer(s.Ctx, &model.Player{ID: "p1", Username: "alice", DisplayName: "Alice", CreatedAt: s.now}))
	s.Require().NoError(s.Store.SavePlayer(s.Ctx, &model.Player{ID: "p1", Username: "alice", DisplayName: "Alicia", CreatedAt: s.now}))

	got, err := s.Store.GetPlayer(s.Ctx, "p1")
	s.Require().NoError(err)
	s.Equal("Alicia", got.DisplayName)
}

func (s *Suite) TestGetPlayerNotFound() {
	_, err := s.Store.GetPlayer(s.Ctx, "missing")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *Suite) TestDeletePlayer() {
	s.Require().NoError(s.Store.SavePlayer(s.Ctx, &model.Player{ID: "p1", Username: "alice", CreatedAt: s.now}))
	s.Require().NoError(s.Store.DeletePlayer(s.Ctx, "p1"))

	_, err := s.Store.GetPlayer(s.Ctx, "p1")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *Suite) TestRegisteredPlayerLookups() {
	s.Require().NoError(s.Store.SavePlayer(s.Ctx, &model.Player{ID: "p1", Username: "alice", CreatedAt: s.now}))
	rp := &model.RegisteredPlayer{PlayerID: "p1", Username: "alice", PasswordHash: "hash", CreatedAt: s.now, UpdatedAt: s.now}
	s.Require().NoError(s.Store.SaveRegisteredPlayer(s.Ctx, rp))

	byID, err := s.Store.GetRegisteredPlayer(s.Ctx, "p1")
	s.Require().NoError(err)
	s.Equal("hash", byID.PasswordHash)

	byName, err := s.Store.GetRegisteredPlayerByUsername(s.Ctx, "alice")
	s.Require().NoError(err)
	s.Equal(model.PlayerID("p1"), byName.PlayerID)

	_, err = s.Store.GetRegisteredPlayerByUsername(s.Ctx, "bob")
	s.ErrorIs(err, model.ErrPlayerNotFound)
	_, err = s.Store.GetRegisteredPlayer(s.Ctx, "p2")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

// Game tests

func (s *Suite) TestSaveAndGetGame() {
	g := s.saveGame("g1", "p1", "p2", model.StatusFirstToMove)

	got, err := s.Store.GetGame(s.Ctx, "g1")
	s.Require().NoError(err)
	s.Equal(g.ID, got.ID)
	s.Equal(g.FirstPlayer, got.FirstPlayer)
	s.Equal(g.SecondPlayer, got.SecondPlayer)
	s.Equal(model.StatusFirstToMove, got.Status)
	s.sameTime(g.CreatedAt, got.CreatedAt)
	s.sameTime(g.LastActive, got.LastActive)
}

func (s *Suite) TestSaveGameUpdatesStatus() {
	g := s.saveGame("g1", "p1", "p2", model.StatusFirstToMove)
	g.Status = model.StatusSecondToMove
	g.LastActive = s.now.Add(time.Minute)
	s.Require().NoError(s.Store.SaveGame(s.Ctx, g))

	got, err := s.Store.GetGame(s.Ctx, "g1")
	s.Require().NoError(err)
	s.Equal(model.StatusSecondToMove, got.Status)
	s.sameTime(g.LastActive, got.LastActive)
}

func (s *Suite) TestGetGameNotFound() {
	_, err := s.Store.GetGame(s.Ctx, "missing")
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *Suite) TestGameQueries() {
	s.saveGame("g1", "p1", "p2", model.StatusFirstToMove)
	s.saveGame("g2", "p2", "p3", model.StatusFirstWins)
	s.saveGame("g3", "p3", "p1", model.StatusSecondToMove)
	s.saveGame("g4", "p3", "p4", model.StatusDraw)

	all, err := s.Store.ListGames(s.Ctx)
	s.Require().NoError(err)
	s.ElementsMatch([]model.GameID{"g1", "g2", "g3", "g4"}, gameIDs(all))

	forP1, err := s.Store.GamesForPlayer(s.Ctx, "p1")
	s.Require().NoError(err)
	s.ElementsMatch([]model.GameID{"g1", "g3"}, gameIDs(forP1))

	forP2, err := s.Store.GamesForPlayer(s.Ctx, "p2")
	s.Require().NoError(err)
	s.ElementsMatch([]model.GameID{"g1", "g2"}, gameIDs(forP2))

	active, err := s.Store.ActiveGames(s.Ctx)
	s.Require().NoError(err)
	s.ElementsMatch([]model.GameID{"g1", "g3"}, gameIDs(active))

	none, err := s.Store.GamesForPlayer(s.Ctx, "nobody")
	s.Require().NoError(err)
	s.Empty(none)
}

func (s *Suite) TestActiveGamesTracksStatusChanges() {
	g := s.saveGame("g1", "p1", "p2", model.StatusSecondToMove)
	g.Status = model.StatusSecondWins
	s.Require().NoError(s.Store.SaveGame(s.Ctx, g))

	active, err := s.Store.ActiveGames(s.Ctx)
	s.Require().NoError(err)
	s.Empty(active)
}

// Move tests

func (s *Suite) TestMovesReturnedInSequenceOrder() {
	s.saveGame("g1", "p1", "p2", model.StatusFirstToMove)
	s.saveMove("g1", 1, 1, 1)
	s.saveMove("g1", 2, 0, 0)
	s.saveMove("g1", 3, 2, 1)

	moves, err := s.Store.GetMovesForGame(s.Ctx, "g1")
	s.Require().NoError(err)
	s.Require().Len(moves, 3)
	for i, m := range moves {
		s.Equal(i+1, m.Seq)
		s.Equal(model.GameID("g1"), m.GameID)
	}
	s.Equal(1, moves[0].X)
	s.Equal(1, moves[0].Y)
	s.True(moves[0].ByFirstPlayer)
	s.False(moves[1].ByFirstPlayer)
	s.Equal("move", moves[2].Comment)
	s.sameTime(s.now.Add(3*time.Second), moves[2].CreatedAt)
}

func (s *Suite) TestMovesForUnknownGameIsEmpty() {
	moves, err := s.Store.GetMovesForGame(s.Ctx, "missing")
	s.Require().NoError(err)
	s.Empty(moves)
}

func (s *Suite) TestSaveMoveRejectsOccupiedCell() {
	s.saveGame("g1", "p1", "p2", model.StatusFirstToMove)
	s.saveMove("g1", 1, 1, 1)

	err := s.Store.SaveMove(s.Ctx, &model.Move{GameID: "g1", Seq: 2, X: 1, Y: 1, CreatedAt: s.now})
	s.ErrorIs(err, model.ErrCellOccupied)

	moves, err := s.Store.GetMovesForGame(s.Ctx, "g1")
	s.Require().NoError(err)
	s.Len(moves, 1)
}

func (s *Suite) TestSaveMoveRejectsDuplicateSequence() {
	s.saveGame("g1", "p1", "p2", model.StatusFirstToMove)
	s.saveMove("g1", 1, 1, 1)

	err := s.Store.SaveMove(s.Ctx, &model.Move{GameID: "g1", Seq: 1, X: 0, Y: 0, CreatedAt: s.now})
	s.ErrorIs(err, model.ErrCellOccupied)
}

func (s *Suite) TestSameCellInDifferentGames() {
	s.saveGame("g1", "p1", "p2", model.StatusFirstToMove)
	s.saveGame("g2", "p1", "p2", model.StatusFirstToMove)
	s.saveMove("g1", 1, 1, 1)
	s.saveMove("g2", 1, 1, 1)
}

func (s *Suite) TestSaveMoveUnknownGame() {
	err := s.Store.SaveMove(s.Ctx, &model.Move{GameID: "missing", Seq: 1, X: 0, Y: 0, CreatedAt: s.now})
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *Suite) TestDeleteGameCascadesToMoves() {
	s.saveGame("g1", "p1", "p2", model.StatusFirstToMove)
	s.saveGame("g2", "p1", "p2", model.StatusFirstToMove)
	s.saveMove("g1", 1, 0, 0)
	s.saveMove("g1", 2, 1, 0)
	s.saveMove("g2", 1, 2, 2)

	s.Require().NoError(s.Store.DeleteGame(s.Ctx, "g1"))

	_, err := s.Store.GetGame(s.Ctx, "g1")
	s.ErrorIs(err, model.ErrGameNotFound)

	moves, err := s.Store.GetMovesForGame(s.Ctx, "g1")
	s.Require().NoError(err)
	s.Empty(moves)

	forP1, err := s.Store.GamesForPlayer(s.Ctx, "p1")
	s.Require().NoError(err)
	s.Equal([]model.GameID{"g2"}, gameIDs(forP1))

	active, err := s.Store.ActiveGames(s.Ctx)
	s.Require().NoError(err)
	s.Equal([]model.GameID{"g2"}, gameIDs(active))

	others, err := s.Store.GetMovesForGame(s.Ctx, "g2")
	s.Require().NoError(err)
	s.Len(others, 1)

	// a recreated game starts with an empty board
	s.saveGame("g1", "p1", "p2", model.StatusFirstToMove)
	s.saveMove("g1", 1, 0, 0)
}

// Invitation tests

func (s *Suite) saveInvitation(id model.InvitationID, from, to model.PlayerID) *model.Invitation {
	inv := &model.Invitation{ID: id, FromPlayer: from, ToPlayer: to, Message: "fancy a game?", CreatedAt: s.now}
	s.Require().NoError(s.Store.SaveInvitation(s.Ctx, inv))
	return inv
}

func (s *Suite) TestSaveAndGetInvitation() {
	inv := s.saveInvitation("i1", "p1", "p2")

	got, err := s.Store.GetInvitation(s.Ctx, "i1")
	s.Require().NoError(err)
	s.Equal(inv.FromPlayer, got.FromPlayer)
	s.Equal(inv.ToPlayer, got.ToPlayer)
	s.Equal(inv.Message, got.Message)
	s.sameTime(inv.CreatedAt, got.CreatedAt)
}

func (s *Suite) TestGetInvitationNotFound() {
	_, err := s.Store.GetInvitation(s.Ctx, "missing")
	s.ErrorIs(err, model.ErrInvitationNotFound)
}

func (s *Suite) TestInvitationQueriesAndDelete() {
	s.saveInvitation("i1", "p1", "p2")
	s.saveInvitation("i2", "p3", "p2")
	s.saveInvitation("i3", "p2", "p1")

	to, err := s.Store.InvitationsTo(s.Ctx, "p2")
	s.Require().NoError(err)
	s.Len(to, 2)

	from, err := s.Store.InvitationsFrom(s.Ctx, "p2")
	s.Require().NoError(err)
	s.Require().Len(from, 1)
	s.Equal(model.InvitationID("i3"), from[0].ID)

	s.Require().NoError(s.Store.DeleteInvitation(s.Ctx, "i1"))

	_, err = s.Store.GetInvitation(s.Ctx, "i1")
	s.ErrorIs(err, model.ErrInvitationNotFound)
	s.ErrorIs(s.Store.DeleteInvitation(s.Ctx, "i1"), model.ErrInvitationNotFound)

	to, err = s.Store.InvitationsTo(s.Ctx, "p2")
	s.Require().NoError(err)
	s.Require().Len(to, 1)
	s.Equal(model.InvitationID("i2"), to[0].ID)

	from, err = s.Store.InvitationsFrom(s.Ctx, "p1")
	s.Require().NoError(err)
	s.Empty(from)
}
