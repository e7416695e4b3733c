package model

import "time"

// PlayerID uniquely identifies a player across the system
type PlayerID string

// Player is a user who can invite and play
type Player struct {
	ID          PlayerID
	Username    string
	DisplayName string
	CreatedAt   time.Time
}

// RegisteredPlayer holds login credentials for a Player.
// Stored separately so the hash never travels with the session.
type RegisteredPlayer struct {
	PlayerID     PlayerID
	Username     string // login username (immutable)
	PasswordHash string // bcrypt hash
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
