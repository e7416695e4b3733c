package invitation

import (
	"cmp"
	"context"
	"log/slog"
	"slices"

	"github.com/google/uuid"

	"github.com/mcoot/tictactoe-go/internal/dependencies/clock"
	"github.com/mcoot/tictactoe-go/internal/model"
	"github.com/mcoot/tictactoe-go/internal/services/game"
	"github.com/mcoot/tictactoe-go/internal/storage"
)

// Controller manages invitations between players
type Controller struct {
	storage        storage.Storage
	gameController *game.Controller
	clock          clock.Clock
	logger         *slog.Logger
}

// NewController creates a new invitation Controller
func NewController(
	storage storage.Storage,
	gameController *game.Controller,
	clock clock.Clock,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		storage:        storage,
		gameController: gameController,
		clock:          clock,
		logger:         logger,
	}
}

// Create invites the player registered as toUsername to a game
func (c *Controller) Create(ctx context.Context, from model.PlayerID, toUsername string, message string) (*model.Invitation, error) {
	invitee, err := c.storage.GetRegisteredPlayerByUsername(ctx, toUsername)
	if err != nil {
		return nil, err
	}

	inv := &model.Invitation{
		ID:         model.InvitationID(uuid.NewString()),
		FromPlayer: from,
		ToPlayer:   invitee.PlayerID,
		Message:    message,
		CreatedAt:  c.clock.Now(),
	}
	if err := inv.Validate(); err != nil {
		return nil, err
	}

	if err := c.storage.SaveInvitation(ctx, inv); err != nil {
		return nil, err
	}

	c.logger.Info("invitation created",
		slog.String("invitation_id", string(inv.ID)),
		slog.String("from_player", string(inv.FromPlayer)),
		slog.String("to_player", string(inv.ToPlayer)),
	)

	return inv, nil
}

// Get retrieves an invitation by ID
func (c *Controller) Get(ctx context.Context, id model.InvitationID) (*model.Invitation, error) {
	return c.storage.GetInvitation(ctx, id)
}

// Received lists invitations addressed to playerID
func (c *Controller) Received(ctx context.Context, playerID model.PlayerID) ([]*model.Invitation, error) {
	invs, err := c.storage.InvitationsTo(ctx, playerID)
	if err != nil {
		return nil, err
	}
	sortNewestFirst(invs)
	return invs, nil
}

// Sent lists invitations sent by playerID
func (c *Controller) Sent(ctx context.Context, playerID model.PlayerID) ([]*model.Invitation, error) {
	invs, err := c.storage.InvitationsFrom(ctx, playerID)
	if err != nil {
		return nil, err
	}
	sortNewestFirst(invs)
	return invs, nil
}

// Accept starts a game from the invitation and removes it.
// The invitee moves first. The invitation is claimed before the game is
// created, so of several concurrent accepts only one starts a game and the
// rest see model.ErrInvitationNotFound.
func (c *Controller) Accept(ctx context.Context, id model.InvitationID, playerID model.PlayerID) (*model.Game, error) {
	inv, err := c.inviteeOnly(ctx, id, playerID)
	if err != nil {
		return nil, err
	}

	if err := c.storage.DeleteInvitation(ctx, id); err != nil {
		return nil, err
	}

	g, err := c.gameController.CreateGame(ctx, inv.ToPlayer, inv.FromPlayer)
	if err != nil {
		// put it back so the invitee can try again
		if restoreErr := c.storage.SaveInvitation(ctx, inv); restoreErr != nil {
			c.logger.Error("failed to restore invitation",
				slog.String("invitation_id", string(id)),
				slog.String("error", restoreErr.Error()),
			)
		}
		return nil, err
	}

	c.logger.Info("invitation accepted",
		slog.String("invitation_id", string(id)),
		slog.String("game_id", string(g.ID)),
	)

	return g, nil
}

// Decline removes the invitation without starting a game
func (c *Controller) Decline(ctx context.Context, id model.InvitationID, playerID model.PlayerID) error {
	if _, err := c.inviteeOnly(ctx, id, playerID); err != nil {
		return err
	}

	if err := c.storage.DeleteInvitation(ctx, id); err != nil {
		return err
	}

	c.logger.Info("invitation declined", slog.String("invitation_id", string(id)))
	return nil
}

func (c *Controller) inviteeOnly(ctx context.Context, id model.InvitationID, playerID model.PlayerID) (*model.Invitation, error) {
	inv, err := c.storage.GetInvitation(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv.ToPlayer != playerID {
		return nil, model.ErrNotInvitee
	}
	return inv, nil
}

func sortNewestFirst(invs []*model.Invitation) {
	slices.SortFunc(invs, func(a, b *model.Invitation) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}

// Interface for dependency injection
type ControllerInterface interface {
	Create(ctx context.Context, from model.PlayerID, toUsername string, message string) (*model.Invitation, error)
	Get(ctx context.Context, id model.InvitationID) (*model.Invitation, error)
	Received(ctx context.Context, playerID model.PlayerID) ([]*model.Invitation, error)
	Sent(ctx context.Context, playerID model.PlayerID) ([]*model.Invitation, error)
	Accept(ctx context.Context, id model.InvitationID, playerID model.PlayerID) (*model.Game, error)
	Decline(ctx context.Context, id model.InvitationID, playerID model.PlayerID) error
}

var _ ControllerInterface = (*Controller)(nil)
