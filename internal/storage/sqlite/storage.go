package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ncruces/go-sqlite3"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/mcoot/tictactoe-go/internal/model"
	"github.com/mcoot/tictactoe-go/internal/storage"
)

// Storage is a SQLite-backed implementation of the storage interface
type Storage struct {
	db *sql.DB
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// New opens (creating if needed) the database at path and applies the schema
func New(path string) (*Storage, error) {
	dsn := "file:" + path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_txlock=immediate"
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec(Schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Storage{db: db}, nil
}

// Close closes the database
func (s *Storage) Close() error {
	return s.db.Close()
}

func toUnix(t time.Time) int64 {
	return t.UnixNano()
}

func fromUnix(n int64) time.Time {
	return time.Unix(0, n).UTC()
}

// isConstraint reports whether err is a uniqueness or primary key violation
func isConstraint(err error) bool {
	return errors.Is(err, sqlite3.CONSTRAINT_UNIQUE) || errors.Is(err, sqlite3.CONSTRAINT_PRIMARYKEY)
}

type scanner interface {
	Scan(dest ...any) error
}

// Player operations

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO players (id, username, display_name, created_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET username = excluded.username, display_name = excluded.display_name`,
		player.ID, player.Username, player.DisplayName, toUnix(player.CreatedAt))
	return err
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	var (
		p       model.Player
		created int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, username, display_name, created_at FROM players WHERE id = ?`, id,
	).Scan(&p.ID, &p.Username, &p.DisplayName, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrPlayerNotFound
	}
	if err != nil {
		return nil, err
	}
	p.CreatedAt = fromUnix(created)
	return &p, nil
}

func (s *Storage) DeletePlayer(ctx context.Context, id model.PlayerID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM players WHERE id = ?`, id)
	return err
}

// Registered player operations

func (s *Storage) SaveRegisteredPlayer(ctx context.Context, rp *model.RegisteredPlayer) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO registered_players (player_id, username, password_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(player_id) DO UPDATE SET
			username = excluded.username,
			password_hash = excluded.password_hash,
			updated_at = excluded.updated_at`,
		rp.PlayerID, rp.Username, rp.PasswordHash, toUnix(rp.CreatedAt), toUnix(rp.UpdatedAt))
	return err
}

func (s *Storage) GetRegisteredPlayer(ctx context.Context, playerID model.PlayerID) (*model.RegisteredPlayer, error) {
	return s.getRegisteredPlayer(ctx, `WHERE player_id = ?`, playerID)
}

func (s *Storage) GetRegisteredPlayerByUsername(ctx context.Context, username string) (*model.RegisteredPlayer, error) {
	return s.getRegisteredPlayer(ctx, `WHERE username = ?`, username)
}

func (s *Storage) getRegisteredPlayer(ctx context.Context, where string, arg any) (*model.RegisteredPlayer, error) {
	var (
		rp               model.RegisteredPlayer
		created, updated int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT player_id, username, password_hash, created_at, updated_at FROM registered_players `+where, arg,
	).Scan(&rp.PlayerID, &rp.Username, &rp.PasswordHash, &created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrPlayerNotFound
	}
	if err != nil {
		return nil, err
	}
	rp.CreatedAt = fromUnix(created)
	rp.UpdatedAt = fromUnix(updated)
	return &rp, nil
}

// Game operations

const gameColumns = `id, first_player, second_player, status, created_at, last_active`

func scanGame(row scanner) (*model.Game, error) {
	var (
		g                model.Game
		created, updated int64
	)
	if err := row.Scan(&g.ID, &g.FirstPlayer, &g.SecondPlayer, &g.Status, &created, &updated); err != nil {
		return nil, err
	}
	g.CreatedAt = fromUnix(created)
	g.LastActive = fromUnix(updated)
	return &g, nil
}

func (s *Storage) SaveGame(ctx context.Context, game *model.Game) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO games (`+gameColumns+`) VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			first_player = excluded.first_player,
			second_player = excluded.second_player,
			status = excluded.status,
			last_active = excluded.last_active`,
		game.ID, game.FirstPlayer, game.SecondPlayer, game.Status, toUnix(game.CreatedAt), toUnix(game.LastActive))
	return err
}

func (s *Storage) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	g, err := scanGame(s.db.QueryRowContext(ctx, `SELECT `+gameColumns+` FROM games WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrGameNotFound
	}
	return g, err
}

func (s *Storage) DeleteGame(ctx context.Context, id model.GameID) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM moves WHERE game_id = ?`, id); err != nil {
		return fmt.Errorf("delete moves: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM games WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete game: %w", err)
	}
	return tx.Commit()
}

func (s *Storage) ListGames(ctx context.Context) ([]*model.Game, error) {
	return s.queryGames(ctx, `SELECT `+gameColumns+` FROM games`)
}

func (s *Storage) GamesForPlayer(ctx context.Context, playerID model.PlayerID) ([]*model.Game, error) {
	return s.queryGames(ctx,
		`SELECT `+gameColumns+` FROM games WHERE first_player = ? OR second_player = ?`, playerID, playerID)
}

func (s *Storage) ActiveGames(ctx context.Context) ([]*model.Game, error) {
	return s.queryGames(ctx,
		`SELECT `+gameColumns+` FROM games WHERE status IN (?, ?)`, model.StatusFirstToMove, model.StatusSecondToMove)
}

func (s *Storage) queryGames(ctx context.Context, query string, args ...any) ([]*model.Game, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var games []*model.Game
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, err
		}
		games = append(games, g)
	}
	return games, rows.Err()
}

// Move operations

func (s *Storage) SaveMove(ctx context.Context, move *model.Move) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM games WHERE id = ?`, move.GameID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ErrGameNotFound
	}
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO moves (game_id, seq, x, y, comment, by_first_player, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		move.GameID, move.Seq, move.X, move.Y, move.Comment, move.ByFirstPlayer, toUnix(move.CreatedAt))
	if isConstraint(err) {
		return model.ErrCellOccupied
	}
	if err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Storage) GetMovesForGame(ctx context.Context, gameID model.GameID) ([]*model.Move, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT game_id, seq, x, y, comment, by_first_player, created_at
		FROM moves WHERE game_id = ? ORDER BY seq`, gameID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	moves := []*model.Move{}
	for rows.Next() {
		var (
			m       model.Move
			created int64
		)
		if err := rows.Scan(&m.GameID, &m.Seq, &m.X, &m.Y, &m.Comment, &m.ByFirstPlayer, &created); err != nil {
			return nil, err
		}
		m.CreatedAt = fromUnix(created)
		moves = append(moves, &m)
	}
	return moves, rows.Err()
}

// Invitation operations

const invitationColumns = `id, from_player, to_player, message, created_at`

func scanInvitation(row scanner) (*model.Invitation, error) {
	var (
		inv     model.Invitation
		created int64
	)
	if err := row.Scan(&inv.ID, &inv.FromPlayer, &inv.ToPlayer, &inv.Message, &created); err != nil {
		return nil, err
	}
	inv.CreatedAt = fromUnix(created)
	return &inv, nil
}

func (s *Storage) SaveInvitation(ctx context.Context, inv *model.Invitation) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO invitations (`+invitationColumns+`) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET message = excluded.message`,
		inv.ID, inv.FromPlayer, inv.ToPlayer, inv.Message, toUnix(inv.CreatedAt))
	return err
}

func (s *Storage) GetInvitation(ctx context.Context, id model.InvitationID) (*model.Invitation, error) {
	inv, err := scanInvitation(s.db.QueryRowContext(ctx, `SELECT `+invitationColumns+` FROM invitations WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrInvitationNotFound
	}
	return inv, err
}

func (s *Storage) DeleteInvitation(ctx context.Context, id model.InvitationID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM invitations WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return model.ErrInvitationNotFound
	}
	return nil
}

func (s *Storage) InvitationsTo(ctx context.Context, playerID model.PlayerID) ([]*model.Invitation, error) {
	return s.queryInvitations(ctx, `SELECT `+invitationColumns+` FROM invitations WHERE to_player = ?`, playerID)
}

func (s *Storage) InvitationsFrom(ctx context.Context, playerID model.PlayerID) ([]*model.Invitation, error) {
	return s.queryInvitations(ctx, `SELECT `+invitationColumns+` FROM invitations WHERE from_player = ?`, playerID)
}

func (s *Storage) queryInvitations(ctx context.Context, query string, args ...any) ([]*model.Invitation, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var invs []*model.Invitation
	for rows.Next() {
		inv, err := scanInvitation(rows)
		if err != nil {
			return nil, err
		}
		invs = append(invs, inv)
	}
	return invs, rows.Err()
}
