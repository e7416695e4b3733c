package model

import "errors"

// Common errors used across the application
var (
	// Player errors
	ErrPlayerNotFound = errors.New("player not found")

	// Game errors
	ErrGameNotFound    = errors.New("game not found")
	ErrGameFinished    = errors.New("cannot make move on finished game")
	ErrNotPlayerTurn   = errors.New("not this player's turn")
	ErrNotParticipant  = errors.New("player is not in this game")
	ErrInvalidPosition = errors.New("coordinates must be between 0 and 2")
	ErrCommentTooLong  = errors.New("comment is too long")
	ErrCellOccupied    = errors.New("cell is already occupied")

	// Invitation errors
	ErrInvitationNotFound = errors.New("invitation not found")
	ErrNotInvitee         = errors.New("invitation is not addressed to this player")
	ErrCannotInviteSelf   = errors.New("cannot invite yourself")
	ErrMessageTooLong     = errors.New("message is too long")
)
