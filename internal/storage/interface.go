package storage

import (
	"context"

	"github.com/mcoot/tictactoe-go/internal/model"
)

// Storage defines the interface for data persistence.
//
// Lookups of a missing record return the matching model.ErrXNotFound.
// List methods return records in no particular order unless stated.
type Storage interface {
	// Player operations
	SavePlayer(ctx context.Context, player *model.Player) error
	GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error)
	DeletePlayer(ctx context.Context, id model.PlayerID) error

	// Registered player operations
	SaveRegisteredPlayer(ctx context.Context, rp *model.RegisteredPlayer) error
	GetRegisteredPlayer(ctx context.Context, playerID model.PlayerID) (*model.RegisteredPlayer, error)
	GetRegisteredPlayerByUsername(ctx context.Context, username string) (*model.RegisteredPlayer, error)

	// Game operations
	SaveGame(ctx context.Context, game *model.Game) error
	GetGame(ctx context.Context, id model.GameID) (*model.Game, error)
	// DeleteGame removes the game and every move belonging to it
	DeleteGame(ctx context.Context, id model.GameID) error
	ListGames(ctx context.Context) ([]*model.Game, error)
	GamesForPlayer(ctx context.Context, playerID model.PlayerID) ([]*model.Game, error)
	// ActiveGames returns games whose status is not terminal
	ActiveGames(ctx context.Context) ([]*model.Game, error)

	// Move operations
	//
	// SaveMove returns model.ErrCellOccupied if the game already has a move
	// at the same coordinates or with the same sequence number.
	SaveMove(ctx context.Context, move *model.Move) error
	// GetMovesForGame returns moves ordered by Seq
	GetMovesForGame(ctx context.Context, gameID model.GameID) ([]*model.Move, error)

	// Invitation operations
	SaveInvitation(ctx context.Context, inv *model.Invitation) error
	GetInvitation(ctx context.Context, id model.InvitationID) (*model.Invitation, error)
	// DeleteInvitation fails with model.ErrInvitationNotFound if id was already gone,
	// so exactly one of several concurrent deletes succeeds.
	DeleteInvitation(ctx context.Context, id model.InvitationID) error
	InvitationsTo(ctx context.Context, playerID model.PlayerID) ([]*model.Invitation, error)
	InvitationsFrom(ctx context.Context, playerID model.PlayerID) ([]*model.Invitation, error)

	// Close releases any underlying connections
	Close() error
}
