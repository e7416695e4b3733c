package model

import (
	"time"
	"unicode/utf8"
)

// InvitationID uniquely identifies an invitation
type InvitationID string

// MaxMessageLength bounds the free-text message on an invitation
const MaxMessageLength = 300

// Invitation asks ToPlayer to start a game against FromPlayer
type Invitation struct {
	ID         InvitationID
	FromPlayer PlayerID
	ToPlayer   PlayerID
	Message    string
	CreatedAt  time.Time
}

// Validate checks the invitation is well-formed
func (i *Invitation) Validate() error {
	if i.FromPlayer == i.ToPlayer {
		return ErrCannotInviteSelf
	}
	if utf8.RuneCountInString(i.Message) > MaxMessageLength {
		return ErrMessageTooLong
	}
	return nil
}
