package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/tictactoe-go/internal/dependencies/mocks"
	"github.com/mcoot/tictactoe-go/internal/model"
	"github.com/mcoot/tictactoe-go/internal/storage/memory"
	"github.com/mcoot/tictactoe-go/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.service = New(s.storage, s.clock, Config{SessionDuration: 24 * time.Hour, JWTSecret: "test-secret"}, testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *ServiceSuite) register(username string) *Session {
	session, err := s.service.RegisterPlayer(s.ctx, username, "password123", "")
	s.Require().NoError(err)
	return session
}

// RegisterPlayer tests

func (s *ServiceSuite) TestRegisterPlayerSucceeds() {
	session, err := s.service.RegisterPlayer(s.ctx, "alice", "password123", "Alice")
	s.Require().NoError(err)

	s.NotEmpty(session.Token)
	s.NotEmpty(session.PlayerID)
	s.Equal("Alice", session.Player.DisplayName)
	s.Equal("alice", session.Player.Username)
}

func (s *ServiceSuite) TestRegisterPlayerDefaultsDisplayName() {
	session := s.register("alice")
	s.Equal("alice", session.Player.DisplayName)
}

func (s *ServiceSuite) TestRegisterPlayerPersistsRegistration() {
	session := s.register("alice")

	rp, err := s.storage.GetRegisteredPlayerByUsername(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(session.PlayerID, rp.PlayerID)
	s.NotEmpty(rp.PasswordHash)
	s.NotEqual("password123", rp.PasswordHash)

	player, err := s.storage.GetPlayer(s.ctx, session.PlayerID)
	s.Require().NoError(err)
	s.Equal("alice", player.Username)
}

func (s *ServiceSuite) TestRegisterPlayerFailsIfUsernameExists() {
	s.register("alice")

	_, err := s.service.RegisterPlayer(s.ctx, "alice", "different", "Alice2")
	s.ErrorIs(err, ErrUsernameExists)
}

func (s *ServiceSuite) TestRegisterPlayerValidatesInput() {
	tests := []struct {
		username, password string
		want               error
	}{
		{"al", "password123", ErrInvalidUsername},
		{strings.Repeat("a", 31), "password123", ErrInvalidUsername},
		{"al ice", "password123", ErrInvalidUsername},
		{"alice", "short", ErrPasswordTooShort},
	}
	for _, tt := range tests {
		_, err := s.service.RegisterPlayer(s.ctx, tt.username, tt.password, "")
		s.ErrorIs(err, tt.want, "username %q", tt.username)
	}
}

// Login tests

func (s *ServiceSuite) TestLoginSucceeds() {
	registered := s.register("alice")

	session, err := s.service.Login(s.ctx, "alice", "password123")
	s.Require().NoError(err)

	s.Equal(registered.PlayerID, session.PlayerID)
	s.NotEqual(registered.Token, session.Token)
}

func (s *ServiceSuite) TestLoginFailsWithWrongPassword() {
	s.register("alice")

	_, err := s.service.Login(s.ctx, "alice", "wrongpassword")
	s.ErrorIs(err, ErrInvalidCredentials)
}

func (s *ServiceSuite) TestLoginFailsWithUnknownUser() {
	_, err := s.service.Login(s.ctx, "nobody", "password123")
	s.ErrorIs(err, ErrInvalidCredentials)
}

// ValidateSession tests

func (s *ServiceSuite) TestValidateSessionSucceeds() {
	session := s.register("alice")

	validated, err := s.service.ValidateSession(session.Token)
	s.Require().NoError(err)
	s.Equal(session.PlayerID, validated.PlayerID)
	s.Equal("alice", validated.Player.Username)
}

func (s *ServiceSuite) TestTokenCarriesStandardClaims() {
	session := s.register("alice")

	claims := &jwt.RegisteredClaims{}
	_, _, err := jwt.NewParser().ParseUnverified(session.Token, claims)
	s.Require().NoError(err)

	s.Equal(string(session.PlayerID), claims.Subject)
	s.Equal(session.ID, claims.ID)
	s.True(claims.ExpiresAt.Equal(s.clock.Now().Add(24 * time.Hour)))
}

func (s *ServiceSuite) TestValidateSessionFailsWithInvalidToken() {
	_, err := s.service.ValidateSession("invalid_token")
	s.ErrorIs(err, ErrInvalidSession)
}

func (s *ServiceSuite) TestValidateSessionRejectsForeignSignature() {
	session := s.register("alice")

	other := New(s.storage, s.clock, Config{JWTSecret: "other-secret"}, testutil.NopLogger())
	_, err := other.ValidateSession(session.Token)
	s.ErrorIs(err, ErrInvalidSession)
}

func (s *ServiceSuite) TestValidateSessionFailsWhenExpired() {
	session := s.register("alice")

	s.clock.Advance(25 * time.Hour)

	_, err := s.service.ValidateSession(session.Token)
	s.ErrorIs(err, ErrInvalidSession)
	s.Equal(0, s.service.CleanExpiredSessions())
}

// InvalidateSession tests

func (s *ServiceSuite) TestInvalidateSessionRevokesToken() {
	session := s.register("alice")
	other, err := s.service.Login(s.ctx, "alice", "password123")
	s.Require().NoError(err)

	s.service.InvalidateSession(session.Token)

	_, err = s.service.ValidateSession(session.Token)
	s.ErrorIs(err, ErrInvalidSession)

	_, err = s.service.ValidateSession(other.Token)
	s.NoError(err)
}

func (s *ServiceSuite) TestInvalidateSessionNoopForUnknownToken() {
	s.NotPanics(func() { s.service.InvalidateSession("unknown_token") })
}

// Player lookup tests

func (s *ServiceSuite) TestGetPlayer() {
	session := s.register("alice")

	player, err := s.service.GetPlayer(s.ctx, session.PlayerID)
	s.Require().NoError(err)
	s.Equal("alice", player.Username)

	_, err = s.service.GetPlayer(s.ctx, "missing")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *ServiceSuite) TestGetPlayerByUsername() {
	session := s.register("alice")

	player, err := s.service.GetPlayerByUsername(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(session.PlayerID, player.ID)

	_, err = s.service.GetPlayerByUsername(s.ctx, "nobody")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

// CleanExpiredSessions tests

func (s *ServiceSuite) TestCleanExpiredSessionsRemovesExpired() {
	old := s.register("alice")

	s.clock.Advance(25 * time.Hour)

	fresh := s.register("bob")

	s.Equal(1, s.service.CleanExpiredSessions())

	_, err := s.service.ValidateSession(old.Token)
	s.ErrorIs(err, ErrInvalidSession)

	_, err = s.service.ValidateSession(fresh.Token)
	s.NoError(err)
}
