package board

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/tictactoe-go/internal/model"
	"github.com/mcoot/tictactoe-go/internal/storage/memory"
	"github.com/mcoot/tictactoe-go/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.service = New(s.storage, testutil.NopLogger())
	s.ctx = context.Background()

	s.Require().NoError(s.storage.SaveGame(s.ctx, &model.Game{
		ID:           "game-1",
		FirstPlayer:  "player-1",
		SecondPlayer: "player-2",
		Status:       model.StatusFirstToMove,
	}))
}

func (s *ServiceSuite) saveMove(seq, x, y int) {
	s.Require().NoError(s.storage.SaveMove(s.ctx, &model.Move{
		GameID:        "game-1",
		Seq:           seq,
		X:             x,
		Y:             y,
		ByFirstPlayer: seq%2 == 1,
	}))
}

func (s *ServiceSuite) TestGetBoardEmptyGame() {
	board, moves, err := s.service.GetBoard(s.ctx, "game-1")
	s.Require().NoError(err)

	s.Empty(moves)
	s.Equal(0, board.Count())
}

func (s *ServiceSuite) TestGetBoardReplaysMoves() {
	s.saveMove(1, 1, 1)
	s.saveMove(2, 0, 2)

	board, moves, err := s.service.GetBoard(s.ctx, "game-1")
	s.Require().NoError(err)

	s.Len(moves, 2)
	s.Equal(2, board.Count())
	s.Equal("X", board.At(model.Position{X: 1, Y: 1}).Mark())
	s.Equal("O", board.At(model.Position{X: 0, Y: 2}).Mark())
	s.True(board.IsEmpty(model.Position{X: 2, Y: 0}))
}

func (s *ServiceSuite) TestGetBoardMovesInPlayOrder() {
	s.saveMove(2, 0, 0)
	s.saveMove(1, 2, 2)
	s.saveMove(3, 1, 0)

	_, moves, err := s.service.GetBoard(s.ctx, "game-1")
	s.Require().NoError(err)

	s.Require().Len(moves, 3)
	for i, m := range moves {
		s.Equal(i+1, m.Seq)
	}
}

func (s *ServiceSuite) TestGetBoardUnknownGameIsEmpty() {
	board, moves, err := s.service.GetBoard(s.ctx, "missing")
	s.Require().NoError(err)
	s.Empty(moves)
	s.Equal(0, board.Count())
}
