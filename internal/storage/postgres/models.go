package postgres

import (
	"time"

	"gorm.io/gorm"

	"github.com/mcoot/tictactoe-go/internal/model"
)

type playerRow struct {
	ID          string    `gorm:"primaryKey;type:text"`
	Username    string    `gorm:"type:text;not null;default:''"`
	DisplayName string    `gorm:"type:text;not null;default:''"`
	CreatedAt   time.Time `gorm:"autoCreateTime:false"`
}

func (playerRow) TableName() string { return "players" }

type registeredPlayerRow struct {
	PlayerID     string    `gorm:"primaryKey;type:text"`
	Username     string    `gorm:"type:text;not null;uniqueIndex"`
	PasswordHash string    `gorm:"type:text;not null"`
	CreatedAt    time.Time `gorm:"autoCreateTime:false"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime:false"`
}

func (registeredPlayerRow) TableName() string { return "registered_players" }

type gameRow struct {
	ID           string    `gorm:"primaryKey;type:text"`
	FirstPlayer  string    `gorm:"type:text;not null;index"`
	SecondPlayer string    `gorm:"type:text;not null;index"`
	Status       string    `gorm:"type:text;not null;index"`
	CreatedAt    time.Time `gorm:"autoCreateTime:false"`
	LastActive   time.Time
}

func (gameRow) TableName() string { return "games" }

type moveRow struct {
	GameID        string    `gorm:"primaryKey;type:text;uniqueIndex:idx_moves_cell,priority:1"`
	Seq           int       `gorm:"primaryKey;autoIncrement:false"`
	X             int       `gorm:"not null;uniqueIndex:idx_moves_cell,priority:2"`
	Y             int       `gorm:"not null;uniqueIndex:idx_moves_cell,priority:3"`
	Comment       string    `gorm:"type:text;not null;default:''"`
	ByFirstPlayer bool      `gorm:"not null"`
	CreatedAt     time.Time `gorm:"autoCreateTime:false"`
}

func (moveRow) TableName() string { return "moves" }

type invitationRow struct {
	ID         string    `gorm:"primaryKey;type:text"`
	FromPlayer string    `gorm:"type:text;not null;index"`
	ToPlayer   string    `gorm:"type:text;not null;index"`
	Message    string    `gorm:"type:text;not null;default:''"`
	CreatedAt  time.Time `gorm:"autoCreateTime:false"`
}

func (invitationRow) TableName() string { return "invitations" }

// AutoMigrate creates or updates every table used by the backend
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&playerRow{}, &registeredPlayerRow{}, &gameRow{}, &moveRow{}, &invitationRow{})
}

func fromPlayer(p *model.Player) *playerRow {
	return &playerRow{ID: string(p.ID), Username: p.Username, DisplayName: p.DisplayName, CreatedAt: p.CreatedAt}
}

func (r *playerRow) toModel() *model.Player {
	return &model.Player{
		ID:          model.PlayerID(r.ID),
		Username:    r.Username,
		DisplayName: r.DisplayName,
		CreatedAt:   r.CreatedAt.UTC(),
	}
}

func fromRegisteredPlayer(rp *model.RegisteredPlayer) *registeredPlayerRow {
	return &registeredPlayerRow{
		PlayerID:     string(rp.PlayerID),
		Username:     rp.Username,
		PasswordHash: rp.PasswordHash,
		CreatedAt:    rp.CreatedAt,
		UpdatedAt:    rp.UpdatedAt,
	}
}

func (r *registeredPlayerRow) toModel() *model.RegisteredPlayer {
	return &model.RegisteredPlayer{
		PlayerID:     model.PlayerID(r.PlayerID),
		Username:     r.Username,
		PasswordHash: r.PasswordHash,
		CreatedAt:    r.CreatedAt.UTC(),
		UpdatedAt:    r.UpdatedAt.UTC(),
	}
}

func fromGame(g *model.Game) *gameRow {
	return &gameRow{
		ID:           string(g.ID),
		FirstPlayer:  string(g.FirstPlayer),
		SecondPlayer: string(g.SecondPlayer),
		Status:       string(g.Status),
		CreatedAt:    g.CreatedAt,
		LastActive:   g.LastActive,
	}
}

func (r *gameRow) toModel() *model.Game {
	return &model.Game{
		ID:           model.GameID(r.ID),
		FirstPlayer:  model.PlayerID(r.FirstPlayer),
		SecondPlayer: model.PlayerID(r.SecondPlayer),
		Status:       model.GameStatus(r.Status),
		CreatedAt:    r.CreatedAt.UTC(),
		LastActive:   r.LastActive.UTC(),
	}
}

func fromMove(m *model.Move) *moveRow {
	return &moveRow{
		GameID:        string(m.GameID),
		Seq:           m.Seq,
		X:             m.X,
		Y:             m.Y,
		Comment:       m.Comment,
		ByFirstPlayer: m.ByFirstPlayer,
		CreatedAt:     m.CreatedAt,
	}
}

func (r *moveRow) toModel() *model.Move {
	return &model.Move{
		GameID:        model.GameID(r.GameID),
		Seq:           r.Seq,
		X:             r.X,
		Y:             r.Y,
		Comment:       r.Comment,
		ByFirstPlayer: r.ByFirstPlayer,
		CreatedAt:     r.CreatedAt.UTC(),
	}
}

func fromInvitation(inv *model.Invitation) *invitationRow {
	return &invitationRow{
		ID:         string(inv.ID),
		FromPlayer: string(inv.FromPlayer),
		ToPlayer:   string(inv.ToPlayer),
		Message:    inv.Message,
		CreatedAt:  inv.CreatedAt,
	}
}

func (r *invitationRow) toModel() *model.Invitation {
	return &model.Invitation{
		ID:         model.InvitationID(r.ID),
		FromPlayer: model.PlayerID(r.FromPlayer),
		ToPlayer:   model.PlayerID(r.ToPlayer),
		Message:    r.Message,
		CreatedAt:  r.CreatedAt.UTC(),
	}
}
