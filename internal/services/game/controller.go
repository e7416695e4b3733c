package game

import (
	"cmp"
	"context"
	"errors"
	"log/slog"
	"slices"

	"github.com/mcoot/tictactoe-go/internal/dependencies/clock"
	"github.com/mcoot/tictactoe-go/internal/dependencies/random"
	"github.com/mcoot/tictactoe-go/internal/model"
	"github.com/mcoot/tictactoe-go/internal/services/board"
	"github.com/mcoot/tictactoe-go/internal/storage"
)

// View is a game together with everything needed to display it
type View struct {
	Game         *model.Game
	Board        *model.Board
	Moves        []*model.Move
	FirstPlayer  *model.Player
	SecondPlayer *model.Player
}

// Controller manages the game state machine and turn flow
type Controller struct {
	storage      storage.Storage
	boardService *board.Service
	clock        clock.Clock
	random       random.Random
	logger       *slog.Logger
	locks        *gameLocks
}

// NewController creates a new game Controller
func NewController(
	storage storage.Storage,
	boardService *board.Service,
	clock clock.Clock,
	random random.Random,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		storage:      storage,
		boardService: boardService,
		clock:        clock,
		random:       random,
		logger:       logger,
		locks:        newGameLocks(),
	}
}

// CreateGame starts a new game with first to move
func (c *Controller) CreateGame(ctx context.Context, first, second model.PlayerID) (*model.Game, error) {
	now := c.clock.Now()
	game := &model.Game{
		ID:           model.GameID(c.random.String(random.GameIDLength, random.IDAlphabet)),
		FirstPlayer:  first,
		SecondPlayer: second,
		Status:       model.StatusFirstToMove,
		CreatedAt:    now,
		LastActive:   now,
	}

	if err := c.storage.SaveGame(ctx, game); err != nil {
		c.logger.Error("failed to save game",
			slog.String("game_id", string(game.ID)),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	c.logger.Info("game created",
		slog.String("game_id", string(game.ID)),
		slog.String("first_player", string(first)),
		slog.String("second_player", string(second)),
	)

	return game, nil
}

// GetGame retrieves a game by ID
func (c *Controller) GetGame(ctx context.Context, gameID model.GameID) (*model.Game, error) {
	return c.storage.GetGame(ctx, gameID)
}

// GetGameView loads a game with its board, move history and players
func (c *Controller) GetGameView(ctx context.Context, gameID model.GameID) (*View, error) {
	game, err := c.storage.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}

	b, moves, err := c.boardService.GetBoard(ctx, gameID)
	if err != nil {
		return nil, err
	}

	first, err := c.lookupPlayer(ctx, game.FirstPlayer)
	if err != nil {
		return nil, err
	}
	second, err := c.lookupPlayer(ctx, game.SecondPlayer)
	if err != nil {
		return nil, err
	}

	return &View{
		Game:         game,
		Board:        b,
		Moves:        moves,
		FirstPlayer:  first,
		SecondPlayer: second,
	}, nil
}

// lookupPlayer falls back to a bare ID for players with no stored profile
func (c *Controller) lookupPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	p, err := c.storage.GetPlayer(ctx, id)
	if errors.Is(err, model.ErrPlayerNotFound) {
		return &model.Player{ID: id, Username: string(id), DisplayName: string(id)}, nil
	}
	return p, err
}

// MakeMove places a mark for playerID at (x, y).
// Checks run in order: game over, turn, input, cell occupancy.
// A failed attempt leaves the game untouched.
func (c *Controller) MakeMove(ctx context.Context, gameID model.GameID, playerID model.PlayerID, x, y int, comment string) (*model.Game, *model.Move, error) {
	unlock := c.locks.lock(gameID)
	defer unlock()

	game, err := c.storage.GetGame(ctx, gameID)
	if err != nil {
		return nil, nil, err
	}

	move, err := turnFor(game, playerID)
	if err != nil {
		return nil, nil, err
	}

	move.X = x
	move.Y = y
	move.Comment = comment
	if err := move.Validate(); err != nil {
		return nil, nil, err
	}

	b, moves, err := c.boardService.GetBoard(ctx, gameID)
	if err != nil {
		return nil, nil, err
	}
	if !b.IsEmpty(model.Position{X: x, Y: y}) {
		return nil, nil, model.ErrCellOccupied
	}

	move.Seq = len(moves) + 1
	move.CreatedAt = c.clock.Now()
	if err := c.storage.SaveMove(ctx, move); err != nil {
		return nil, nil, err
	}

	if err := c.ApplyMove(ctx, game, move); err != nil {
		return nil, nil, err
	}

	return game, move, nil
}

// CheckTurn reports whether playerID may move in gameID now, without
// looking at any proposed position. It fails the same way MakeMove would
// before input is validated.
func (c *Controller) CheckTurn(ctx context.Context, gameID model.GameID, playerID model.PlayerID) (*model.Game, error) {
	game, err := c.storage.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if _, err := turnFor(game, playerID); err != nil {
		return nil, err
	}
	return game, nil
}

// turnFor starts playerID's next move in game
func turnFor(game *model.Game, playerID model.PlayerID) (*model.Move, error) {
	move, err := game.NewMove()
	if err != nil {
		return nil, err
	}
	if !game.IsUsersMove(playerID) {
		return nil, model.ErrNotPlayerTurn
	}
	return move, nil
}

// ApplyMove recomputes and persists the game's status after move has been
// saved. The board is rebuilt from storage so it includes move.
func (c *Controller) ApplyMove(ctx context.Context, game *model.Game, move *model.Move) error {
	b, moves, err := c.boardService.GetBoard(ctx, game.ID)
	if err != nil {
		return err
	}

	previous := game.Status
	game.Status = board.Evaluate(b, move, game.Status, len(moves))
	game.LastActive = c.clock.Now()

	if err := c.storage.SaveGame(ctx, game); err != nil {
		c.logger.Error("failed to save game",
			slog.String("game_id", string(game.ID)),
			slog.String("error", err.Error()),
		)
		return err
	}

	c.logger.Info("move applied",
		slog.String("game_id", string(game.ID)),
		slog.Int("x", move.X),
		slog.Int("y", move.Y),
		slog.String("from_status", string(previous)),
		slog.String("to_status", string(game.Status)),
	)

	if game.Status.IsTerminal() {
		c.logger.Info("game finished",
			slog.String("game_id", string(game.ID)),
			slog.String("status", string(game.Status)),
			slog.Int("moves", len(moves)),
		)
	}

	return nil
}

// GamesForPlayer returns a player's games split into active and finished,
// each ordered by most recent activity
func (c *Controller) GamesForPlayer(ctx context.Context, playerID model.PlayerID) (active, finished []*model.Game, err error) {
	games, err := c.storage.GamesForPlayer(ctx, playerID)
	if err != nil {
		return nil, nil, err
	}

	sortByActivity(games)
	for _, g := range games {
		if g.Status.IsTerminal() {
			finished = append(finished, g)
		} else {
			active = append(active, g)
		}
	}
	return active, finished, nil
}

// ActiveGames returns every game still in progress
func (c *Controller) ActiveGames(ctx context.Context) ([]*model.Game, error) {
	games, err := c.storage.ActiveGames(ctx)
	if err != nil {
		return nil, err
	}
	sortByActivity(games)
	return games, nil
}

// AllGames returns every game
func (c *Controller) AllGames(ctx context.Context) ([]*model.Game, error) {
	games, err := c.storage.ListGames(ctx)
	if err != nil {
		return nil, err
	}
	sortByActivity(games)
	return games, nil
}

// DeleteGame removes a game and its moves. Only participants may delete.
func (c *Controller) DeleteGame(ctx context.Context, gameID model.GameID, playerID model.PlayerID) error {
	unlock := c.locks.lock(gameID)
	defer unlock()

	game, err := c.storage.GetGame(ctx, gameID)
	if err != nil {
		return err
	}
	if !game.IsParticipant(playerID) {
		return model.ErrNotParticipant
	}

	if err := c.storage.DeleteGame(ctx, gameID); err != nil {
		return err
	}

	c.logger.Info("game deleted",
		slog.String("game_id", string(gameID)),
		slog.String("player_id", string(playerID)),
	)
	return nil
}

func sortByActivity(games []*model.Game) {
	slices.SortFunc(games, func(a, b *model.Game) int {
		if c := b.LastActive.Compare(a.LastActive); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}

// Interface for dependency injection
type ControllerInterface interface {
	CreateGame(ctx context.Context, first, second model.PlayerID) (*model.Game, error)
	GetGame(ctx context.Context, gameID model.GameID) (*model.Game, error)
	GetGameView(ctx context.Context, gameID model.GameID) (*View, error)
	CheckTurn(ctx context.Context, gameID model.GameID, playerID model.PlayerID) (*model.Game, error)
	MakeMove(ctx context.Context, gameID model.GameID, playerID model.PlayerID, x, y int, comment string) (*model.Game, *model.Move, error)
	ApplyMove(ctx context.Context, game *model.Game, move *model.Move) error
	GamesForPlayer(ctx context.Context, playerID model.PlayerID) (active, finished []*model.Game, err error)
	ActiveGames(ctx context.Context) ([]*model.Game, error)
	AllGames(ctx context.Context) ([]*model.Game, error)
	DeleteGame(ctx context.Context, gameID model.GameID, playerID model.PlayerID) error
}

var _ ControllerInterface = (*Controller)(nil)
