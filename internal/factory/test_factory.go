package factory

import (
	"context"
	"time"

	"github.com/mcoot/tictactoe-go/internal/dependencies/mocks"
	"github.com/mcoot/tictactoe-go/internal/model"
	"github.com/mcoot/tictactoe-go/internal/services/auth"
	"github.com/mcoot/tictactoe-go/internal/storage/memory"
	"github.com/mcoot/tictactoe-go/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()

	authCfg := auth.DefaultConfig()
	authCfg.JWTSecret = "test-secret"

	app := newWithDependencies(store, mockClock, mockRandom, authCfg, testutil.NopLogger())

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}

// Register creates an account and returns its session
func (t *TestApp) Register(ctx context.Context, username string) (*auth.Session, error) {
	return t.AuthService.RegisterPlayer(ctx, username, "password123", "")
}

// StartGame invites invitee on behalf of inviter and accepts it, returning
// a game where invitee moves first
func (t *TestApp) StartGame(ctx context.Context, inviter model.PlayerID, invitee string) (*model.Game, error) {
	inv, err := t.InvitationController.Create(ctx, inviter, invitee, "")
	if err != nil {
		return nil, err
	}
	return t.InvitationController.Accept(ctx, inv.ID, inv.ToPlayer)
}
