package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/mcoot/tictactoe-go/internal/model"
	"github.com/mcoot/tictactoe-go/internal/storage"
)

// Storage is a PostgreSQL-backed implementation of the storage interface
type Storage struct {
	db *gorm.DB
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// New connects to the database at dsn and migrates the schema
func New(dsn string, logger *slog.Logger) (*Storage, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.New(
			slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
			gormlogger.Config{
				SlowThreshold:             200 * time.Millisecond,
				LogLevel:                  gormlogger.Warn,
				IgnoreRecordNotFoundError: true,
			},
		),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	if err := AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return &Storage{db: db}, nil
}

// Close closes the underlying connection pool
func (s *Storage) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func upsert(columns ...string) clause.OnConflict {
	return clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns(columns),
	}
}

// Player operations

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	return s.db.WithContext(ctx).
		Clauses(upsert("username", "display_name")).
		Create(fromPlayer(player)).Error
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	var row playerRow
	err := s.db.WithContext(ctx).First(&row, "id = ?", string(id)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, model.ErrPlayerNotFound
	}
	if err != nil {
		return nil, err
	}
	return row.toModel(), nil
}

func (s *Storage) DeletePlayer(ctx context.Context, id model.PlayerID) error {
	return s.db.WithContext(ctx).Delete(&playerRow{}, "id = ?", string(id)).Error
}

// Registered player operations

func (s *Storage) SaveRegisteredPlayer(ctx context.Context, rp *model.RegisteredPlayer) error {
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "player_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"username", "password_hash", "updated_at"}),
		}).
		Create(fromRegisteredPlayer(rp)).Error
}

func (s *Storage) GetRegisteredPlayer(ctx context.Context, playerID model.PlayerID) (*model.RegisteredPlayer, error) {
	return s.getRegisteredPlayer(ctx, "player_id = ?", string(playerID))
}

func (s *Storage) GetRegisteredPlayerByUsername(ctx context.Context, username string) (*model.RegisteredPlayer, error) {
	return s.getRegisteredPlayer(ctx, "username = ?", username)
}

func (s *Storage) getRegisteredPlayer(ctx context.Context, query string, arg string) (*model.RegisteredPlayer, error) {
	var row registeredPlayerRow
	err := s.db.WithContext(ctx).First(&row, query, arg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, model.ErrPlayerNotFound
	}
	if err != nil {
		return nil, err
	}
	return row.toModel(), nil
}

// Game operations

func (s *Storage) SaveGame(ctx context.Context, game *model.Game) error {
	return s.db.WithContext(ctx).
		Clauses(upsert("first_player", "second_player", "status", "last_active")).
		Create(fromGame(game)).Error
}

func (s *Storage) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	var row gameRow
	err := s.db.WithContext(ctx).First(&row, "id = ?", string(id)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, model.ErrGameNotFound
	}
	if err != nil {
		return nil, err
	}
	return row.toModel(), nil
}

func (s *Storage) DeleteGame(ctx context.Context, id model.GameID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&moveRow{}, "game_id = ?", string(id)).Error; err != nil {
			return fmt.Errorf("delete moves: %w", err)
		}
		if err := tx.Delete(&gameRow{}, "id = ?", string(id)).Error; err != nil {
			return fmt.Errorf("delete game: %w", err)
		}
		return nil
	})
}

func (s *Storage) ListGames(ctx context.Context) ([]*model.Game, error) {
	return s.findGames(s.db.WithContext(ctx))
}

func (s *Storage) GamesForPlayer(ctx context.Context, playerID model.PlayerID) ([]*model.Game, error) {
	id := string(playerID)
	return s.findGames(s.db.WithContext(ctx).Where("first_player = ? OR second_player = ?", id, id))
}

func (s *Storage) ActiveGames(ctx context.Context) ([]*model.Game, error) {
	return s.findGames(s.db.WithContext(ctx).
		Where("status IN ?", []string{string(model.StatusFirstToMove), string(model.StatusSecondToMove)}))
}

func (s *Storage) findGames(q *gorm.DB) ([]*model.Game, error) {
	var rows []gameRow
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	games := make([]*model.Game, len(rows))
	for i := range rows {
		games[i] = rows[i].toModel()
	}
	return games, nil
}

// Move operations

func (s *Storage) SaveMove(ctx context.Context, move *model.Move) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&gameRow{}).Where("id = ?", string(move.GameID)).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return model.ErrGameNotFound
		}

		err := tx.Create(fromMove(move)).Error
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return model.ErrCellOccupied
		}
		return err
	})
}

func (s *Storage) GetMovesForGame(ctx context.Context, gameID model.GameID) ([]*model.Move, error) {
	var rows []moveRow
	err := s.db.WithContext(ctx).
		Where("game_id = ?", string(gameID)).
		Order("seq").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	moves := make([]*model.Move, len(rows))
	for i := range rows {
		moves[i] = rows[i].toModel()
	}
	return moves, nil
}

// Invitation operations

func (s *Storage) SaveInvitation(ctx context.Context, inv *model.Invitation) error {
	return s.db.WithContext(ctx).
		Clauses(upsert("message")).
		Create(fromInvitation(inv)).Error
}

func (s *Storage) GetInvitation(ctx context.Context, id model.InvitationID) (*model.Invitation, error) {
	var row invitationRow
	err := s.db.WithContext(ctx).First(&row, "id = ?", string(id)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, model.ErrInvitationNotFound
	}
	if err != nil {
		return nil, err
	}
	return row.toModel(), nil
}

func (s *Storage) DeleteInvitation(ctx context.Context, id model.InvitationID) error {
	res := s.db.WithContext(ctx).Delete(&invitationRow{}, "id = ?", string(id))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return model.ErrInvitationNotFound
	}
	return nil
}

func (s *Storage) InvitationsTo(ctx context.Context, playerID model.PlayerID) ([]*model.Invitation, error) {
	return s.findInvitations(s.db.WithContext(ctx).Where("to_player = ?", string(playerID)))
}

func (s *Storage) InvitationsFrom(ctx context.Context, playerID model.PlayerID) ([]*model.Invitation, error) {
	return s.findInvitations(s.db.WithContext(ctx).Where("from_player = ?", string(playerID)))
}

func (s *Storage) findInvitations(q *gorm.DB) ([]*model.Invitation, error) {
	var rows []invitationRow
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	invs := make([]*model.Invitation, len(rows))
	for i := range rows {
		invs[i] = rows[i].toModel()
	}
	return invs, nil
}
