package board

import (
	"context"
	"log/slog"

	"github.com/mcoot/tictactoe-go/internal/model"
	"github.com/mcoot/tictactoe-go/internal/storage"
)

// Service rebuilds boards from stored moves
type Service struct {
	storage storage.Storage
	logger  *slog.Logger
}

// New creates a new board Service
func New(storage storage.Storage, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		logger:  logger,
	}
}

// GetBoard replays a game's moves, returning the board and the moves in play order
func (s *Service) GetBoard(ctx context.Context, gameID model.GameID) (*model.Board, []*model.Move, error) {
	moves, err := s.storage.GetMovesForGame(ctx, gameID)
	if err != nil {
		return nil, nil, err
	}

	board := model.NewBoard(moves)
	if board.Count() != len(moves) {
		s.logger.Warn("moves overlap on board",
			slog.String("game_id", string(gameID)),
			slog.Int("moves", len(moves)),
			slog.Int("occupied", board.Count()),
		)
	}
	return board, moves, nil
}

// ServiceInterface for dependency injection
type ServiceInterface interface {
	GetBoard(ctx context.Context, gameID model.GameID) (*model.Board, []*model.Move, error)
}

var _ ServiceInterface = (*Service)(nil)
