package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/tictactoe-go/internal/model"
	"github.com/mcoot/tictactoe-go/internal/storage"
)

// saveMoveScript records a move only if its cell and sequence number are free.
// Returns -1 when the game is missing, 0 when the slot is taken, 1 on success.
var saveMoveScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
	return -1
end
if redis.call('HEXISTS', KEYS[2], ARGV[1]) == 1 or redis.call('HEXISTS', KEYS[2], ARGV[2]) == 1 then
	return 0
end
redis.call('HSET', KEYS[2], ARGV[1], ARGV[2], ARGV[2], ARGV[1])
redis.call('RPUSH', KEYS[3], ARGV[3])
local ttl = tonumber(ARGV[4])
if ttl > 0 then
	redis.call('PEXPIRE', KEYS[2], ttl)
	redis.call('PEXPIRE', KEYS[3], ttl)
end
return 1
`)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func getJSON[T any](ctx context.Context, c *redis.Client, key string, notFound error) (*T, error) {
	data, err := c.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, notFound
		}
		return nil, err
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	return &v, nil
}

// mgetJSON loads every key in one round trip, skipping keys that have expired
func mgetJSON[T any](ctx context.Context, c *redis.Client, keys []string) ([]*T, error) {
	if len(keys) == 0 {
		return nil, nil
	}

	values, err := c.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	result := make([]*T, 0, len(values))
	for i, raw := range values {
		str, ok := raw.(string)
		if !ok {
			continue
		}
		var v T
		if err := json.Unmarshal([]byte(str), &v); err != nil {
			return nil, fmt.Errorf("decode %s: %w", keys[i], err)
		}
		result = append(result, &v)
	}
	return result, nil
}

// Player operations

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	data, err := json.Marshal(player)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, playerKey(player.ID), data, 0).Err()
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	return getJSON[model.Player](ctx, s.client, playerKey(id), model.ErrPlayerNotFound)
}

func (s *Storage) DeletePlayer(ctx context.Context, id model.PlayerID) error {
	return s.client.Del(ctx, playerKey(id)).Err()
}

// Registered player operations

func (s *Storage) SaveRegisteredPlayer(ctx context.Context, rp *model.RegisteredPlayer) error {
	data, err := json.Marshal(rp)
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, registeredPlayerKey(rp.PlayerID), data, 0)
	pipe.Set(ctx, usernameIndexKey(rp.Username), string(rp.PlayerID), 0)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetRegisteredPlayer(ctx context.Context, playerID model.PlayerID) (*model.RegisteredPlayer, error) {
	return getJSON[model.RegisteredPlayer](ctx, s.client, registeredPlayerKey(playerID), model.ErrPlayerNotFound)
}

func (s *Storage) GetRegisteredPlayerByUsername(ctx context.Context, username string) (*model.RegisteredPlayer, error) {
	playerIDStr, err := s.client.Get(ctx, usernameIndexKey(username)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}

	return s.GetRegisteredPlayer(ctx, model.PlayerID(playerIDStr))
}

// Game operations

func (s *Storage) SaveGame(ctx context.Context, game *model.Game) error {
	data, err := json.Marshal(game)
	if err != nil {
		return err
	}

	id := string(game.ID)
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, gameKey(game.ID), data, s.cfg.GameTTL)
	pipe.SAdd(ctx, allGamesIndexKey(), id)
	pipe.SAdd(ctx, playerGamesIndexKey(game.FirstPlayer), id)
	pipe.SAdd(ctx, playerGamesIndexKey(game.SecondPlayer), id)
	if game.Status.IsTerminal() {
		pipe.SRem(ctx, activeGamesIndexKey(), id)
	} else {
		pipe.SAdd(ctx, activeGamesIndexKey(), id)
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	return getJSON[model.Game](ctx, s.client, gameKey(id), model.ErrGameNotFound)
}

func (s *Storage) DeleteGame(ctx context.Context, id model.GameID) error {
	game, err := s.GetGame(ctx, id)
	if err != nil && !errors.Is(err, model.ErrGameNotFound) {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, gameKey(id), movesKey(id), cellsKey(id))
	pipe.SRem(ctx, allGamesIndexKey(), string(id))
	pipe.SRem(ctx, activeGamesIndexKey(), string(id))
	if game != nil {
		pipe.SRem(ctx, playerGamesIndexKey(game.FirstPlayer), string(id))
		pipe.SRem(ctx, playerGamesIndexKey(game.SecondPlayer), string(id))
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) ListGames(ctx context.Context) ([]*model.Game, error) {
	return s.gamesInIndex(ctx, allGamesIndexKey())
}

func (s *Storage) GamesForPlayer(ctx context.Context, playerID model.PlayerID) ([]*model.Game, error) {
	return s.gamesInIndex(ctx, playerGamesIndexKey(playerID))
}

func (s *Storage) ActiveGames(ctx context.Context) ([]*model.Game, error) {
	games, err := s.gamesInIndex(ctx, activeGamesIndexKey())
	if err != nil {
		return nil, err
	}
	return slices.DeleteFunc(games, func(g *model.Game) bool { return g.Status.IsTerminal() }), nil
}

func (s *Storage) gamesInIndex(ctx context.Context, indexKey string) ([]*model.Game, error) {
	ids, err := s.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return nil, err
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = gameKey(model.GameID(id))
	}
	return mgetJSON[model.Game](ctx, s.client, keys)
}

// Move operations

func (s *Storage) SaveMove(ctx context.Context, move *model.Move) error {
	data, err := json.Marshal(move)
	if err != nil {
		return err
	}

	res, err := saveMoveScript.Run(ctx, s.client,
		[]string{gameKey(move.GameID), cellsKey(move.GameID), movesKey(move.GameID)},
		cellField(move.X, move.Y), seqField(move.Seq), string(data), s.cfg.GameTTL.Milliseconds(),
	).Int()
	if err != nil {
		return err
	}

	switch res {
	case -1:
		return model.ErrGameNotFound
	case 0:
		return model.ErrCellOccupied
	}
	return nil
}

func (s *Storage) GetMovesForGame(ctx context.Context, gameID model.GameID) ([]*model.Move, error) {
	raw, err := s.client.LRange(ctx, movesKey(gameID), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	moves := make([]*model.Move, 0, len(raw))
	for _, item := range raw {
		var m model.Move
		if err := json.Unmarshal([]byte(item), &m); err != nil {
			return nil, fmt.Errorf("decode move: %w", err)
		}
		moves = append(moves, &m)
	}
	slices.SortFunc(moves, func(a, b *model.Move) int { return a.Seq - b.Seq })
	return moves, nil
}

// Invitation operations

func (s *Storage) SaveInvitation(ctx context.Context, inv *model.Invitation) error {
	data, err := json.Marshal(inv)
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, invitationKey(inv.ID), data, s.cfg.InvitationTTL)
	pipe.SAdd(ctx, invitationsToIndexKey(inv.ToPlayer), string(inv.ID))
	pipe.SAdd(ctx, invitationsFromIndexKey(inv.FromPlayer), string(inv.ID))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetInvitation(ctx context.Context, id model.InvitationID) (*model.Invitation, error) {
	return getJSON[model.Invitation](ctx, s.client, invitationKey(id), model.ErrInvitationNotFound)
}

func (s *Storage) DeleteInvitation(ctx context.Context, id model.InvitationID) error {
	inv, err := s.GetInvitation(ctx, id)
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	deleted := pipe.Del(ctx, invitationKey(id))
	pipe.SRem(ctx, invitationsToIndexKey(inv.ToPlayer), string(id))
	pipe.SRem(ctx, invitationsFromIndexKey(inv.FromPlayer), string(id))
	if _, err = pipe.Exec(ctx); err != nil {
		return err
	}
	// another client may have removed it between the read and the transaction
	if deleted.Val() == 0 {
		return model.ErrInvitationNotFound
	}
	return nil
}

func (s *Storage) InvitationsTo(ctx context.Context, playerID model.PlayerID) ([]*model.Invitation, error) {
	return s.invitationsInIndex(ctx, invitationsToIndexKey(playerID))
}

func (s *Storage) InvitationsFrom(ctx context.Context, playerID model.PlayerID) ([]*model.Invitation, error) {
	return s.invitationsInIndex(ctx, invitationsFromIndexKey(playerID))
}

func (s *Storage) invitationsInIndex(ctx context.Context, indexKey string) ([]*model.Invitation, error) {
	ids, err := s.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return nil, err
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = invitationKey(model.InvitationID(id))
	}
	return mgetJSON[model.Invitation](ctx, s.client, keys)
}
