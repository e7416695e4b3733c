package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/mcoot/tictactoe-go/internal/model"
	"github.com/mcoot/tictactoe-go/internal/storage"
)

// Storage is an in-memory implementation of the storage interface.
// Records are copied on the way in and out so callers never share state.
type Storage struct {
	mu sync.RWMutex

	players           map[model.PlayerID]*model.Player
	registeredPlayers map[model.PlayerID]*model.RegisteredPlayer
	usernameIndex     map[string]model.PlayerID
	games             map[model.GameID]*model.Game
	moves             map[model.GameID][]*model.Move
	invitations       map[model.InvitationID]*model.Invitation
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		players:           make(map[model.PlayerID]*model.Player),
		registeredPlayers: make(map[model.PlayerID]*model.RegisteredPlayer),
		usernameIndex:     make(map[string]model.PlayerID),
		games:             make(map[model.GameID]*model.Game),
		moves:             make(map[model.GameID][]*model.Move),
		invitations:       make(map[model.InvitationID]*model.Invitation),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Close is a no-op
func (s *Storage) Close() error {
	return nil
}

func clone[T any](v *T) *T {
	c := *v
	return &c
}

// Player operations

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.players[player.ID] = clone(player)
	return nil
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	player, ok := s.players[id]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	return clone(player), nil
}

func (s *Storage) DeletePlayer(ctx context.Context, id model.PlayerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.players, id)
	return nil
}

// Registered player operations

func (s *Storage) SaveRegisteredPlayer(ctx context.Context, rp *model.RegisteredPlayer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.registeredPlayers[rp.PlayerID] = clone(rp)
	s.usernameIndex[rp.Username] = rp.PlayerID
	return nil
}

func (s *Storage) GetRegisteredPlayer(ctx context.Context, playerID model.PlayerID) (*model.RegisteredPlayer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rp, ok := s.registeredPlayers[playerID]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	return clone(rp), nil
}

func (s *Storage) GetRegisteredPlayerByUsername(ctx context.Context, username string) (*model.RegisteredPlayer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	playerID, ok := s.usernameIndex[username]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	rp, ok := s.registeredPlayers[playerID]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	return clone(rp), nil
}

// Game operations

func (s *Storage) SaveGame(ctx context.Context, game *model.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.games[game.ID] = clone(game)
	return nil
}

func (s *Storage) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	game, ok := s.games[id]
	if !ok {
		return nil, model.ErrGameNotFound
	}
	return clone(game), nil
}

func (s *Storage) DeleteGame(ctx context.Context, id model.GameID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.moves, id)
	delete(s.games, id)
	return nil
}

func (s *Storage) ListGames(ctx context.Context) ([]*model.Game, error) {
	return s.filterGames(func(*model.Game) bool { return true }), nil
}

func (s *Storage) GamesForPlayer(ctx context.Context, playerID model.PlayerID) ([]*model.Game, error) {
	return s.filterGames(func(g *model.Game) bool { return g.IsParticipant(playerID) }), nil
}

func (s *Storage) ActiveGames(ctx context.Context) ([]*model.Game, error) {
	return s.filterGames(func(g *model.Game) bool { return !g.Status.IsTerminal() }), nil
}

func (s *Storage) filterGames(keep func(*model.Game) bool) []*model.Game {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var games []*model.Game
	for _, g := range s.games {
		if keep(g) {
			games = append(games, clone(g))
		}
	}
	return games
}

// Move operations

func (s *Storage) SaveMove(ctx context.Context, move *model.Move) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.games[move.GameID]; !ok {
		return model.ErrGameNotFound
	}
	existing := s.moves[move.GameID]
	for _, m := range existing {
		if m.Seq == move.Seq || (m.X == move.X && m.Y == move.Y) {
			return model.ErrCellOccupied
		}
	}
	s.moves[move.GameID] = append(existing, clone(move))
	return nil
}

func (s *Storage) GetMovesForGame(ctx context.Context, gameID model.GameID) ([]*model.Move, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	moves := make([]*model.Move, 0, len(s.moves[gameID]))
	for _, m := range s.moves[gameID] {
		moves = append(moves, clone(m))
	}
	slices.SortFunc(moves, func(a, b *model.Move) int { return a.Seq - b.Seq })
	return moves, nil
}

// Invitation operations

func (s *Storage) SaveInvitation(ctx context.Context, inv *model.Invitation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invitations[inv.ID] = clone(inv)
	return nil
}

func (s *Storage) GetInvitation(ctx context.Context, id model.InvitationID) (*model.Invitation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	inv, ok := s.invitations[id]
	if !ok {
		return nil, model.ErrInvitationNotFound
	}
	return clone(inv), nil
}

func (s *Storage) DeleteInvitation(ctx context.Context, id model.InvitationID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.invitations[id]; !ok {
		return model.ErrInvitationNotFound
	}
	delete(s.invitations, id)
	return nil
}

func (s *Storage) InvitationsTo(ctx context.Context, playerID model.PlayerID) ([]*model.Invitation, error) {
	return s.filterInvitations(func(i *model.Invitation) bool { return i.ToPlayer == playerID }), nil
}

func (s *Storage) InvitationsFrom(ctx context.Context, playerID model.PlayerID) ([]*model.Invitation, error) {
	return s.filterInvitations(func(i *model.Invitation) bool { return i.FromPlayer == playerID }), nil
}

func (s *Storage) filterInvitations(keep func(*model.Invitation) bool) []*model.Invitation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var invs []*model.Invitation
	for _, inv := range s.invitations {
		if keep(inv) {
			invs = append(invs, clone(inv))
		}
	}
	return invs
}
