package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/whoknow/internal/dependencies/mocks"
	"github.com/mcoot/whoknow/internal/storage/memory"
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
	s.service = New(s.storage, s.clock, DefaultConfig())
	s.ctx = context.Background()
}

// CreateGuest tests

func (s *ServiceSuite) TestCreateGuestSucceeds() {
	session, err := s.service.CreateGuest(s.ctx, "Alice")
	s.Require().NoError(err)

	s.NotEmpty(session.Token)
	s.Equal("Alice", session.Account.DisplayName)
	s.True(session.Account.IsGuest)
	s.NotEmpty(session.PlayerID)
}

func (s *ServiceSuite) TestCreateGuestPersistsAccount() {
	session, _ := s.service.CreateGuest(s.ctx, "Alice")

	account, err := s.storage.GetAccount(s.ctx, session.PlayerID)
	s.Require().NoError(err)
	s.Equal("Alice", account.DisplayName)
}

func (s *ServiceSuite) TestCreateGuestRejectsBlankName() {
	_, err := s.service.CreateGuest(s.ctx, "  ")
	s.ErrorIs(err, ErrEmptyDisplayName)
}

// Register tests

func (s *ServiceSuite) TestRegisterSucceeds() {
	session, err := s.service.Register(s.ctx, "alice", "password123", "Alice")
	s.Require().NoError(err)

	s.NotEmpty(session.Token)
	s.Equal("Alice", session.Account.DisplayName)
	s.False(session.Account.IsGuest)
}

func (s *ServiceSuite) TestRegisterPersistsCredentials() {
	_, _ = s.service.Register(s.ctx, "alice", "password123", "Alice")

	creds, err := s.storage.GetCredentialsByUsername(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal("alice", creds.Username)
	s.NotEmpty(creds.PasswordHash)
	s.NotEqual("password123", creds.PasswordHash)
}

func (s *ServiceSuite) TestRegisterFailsIfUsernameExists() {
	_, _ = s.service.Register(s.ctx, "alice", "password123", "Alice")

	_, err := s.service.Register(s.ctx, "alice", "different", "Alice2")
	s.ErrorIs(err, ErrUsernameExists)
}

// Login tests

func (s *ServiceSuite) TestLoginSucceeds() {
	registered, _ := s.service.Register(s.ctx, "alice", "password123", "Alice")

	session, err := s.service.Login(s.ctx, "alice", "password123")
	s.Require().NoError(err)

	s.NotEqual(registered.Token, session.Token)
	s.Equal(registered.PlayerID, session.PlayerID)
	s.Equal("Alice", session.Account.DisplayName)
}

func (s *ServiceSuite) TestLoginFailsWithWrongPassword() {
	_, _ = s.service.Register(s.ctx, "alice", "password123", "Alice")

	_, err := s.service.Login(s.ctx, "alice", "wrongpassword")
	s.ErrorIs(err, ErrInvalidCredentials)
}

func (s *ServiceSuite) TestLoginFailsWithUnknownUser() {
	_, err := s.service.Login(s.ctx, "nobody", "password123")
	s.ErrorIs(err, ErrInvalidCredentials)
}

// ValidateSession tests

func (s *ServiceSuite) TestValidateSessionSucceeds() {
	session, _ := s.service.CreateGuest(s.ctx, "Alice")

	validated, err := s.service.ValidateSession(session.Token)
	s.Require().NoError(err)
	s.Equal(session.Token, validated.Token)
}

func (s *ServiceSuite) TestValidateSessionFailsWithInvalidToken() {
	_, err := s.service.ValidateSession("invalid_token")
	s.ErrorIs(err, ErrInvalidSession)
}

func (s *ServiceSuite) TestValidateSessionFailsWhenExpired() {
	session, _ := s.service.CreateGuest(s.ctx, "Alice")

	s.clock.Advance(25 * time.Hour)

	_, err := s.service.ValidateSession(session.Token)
	s.ErrorIs(err, ErrInvalidSession)
}

// InvalidateSession tests

func (s *ServiceSuite) TestInvalidateSessionRemovesSession() {
	session, _ := s.service.CreateGuest(s.ctx, "Alice")

	s.service.InvalidateSession(session.Token)

	_, err := s.service.ValidateSession(session.Token)
	s.ErrorIs(err, ErrInvalidSession)
}

// GetAccount tests

func (s *ServiceSuite) TestGetAccountSucceeds() {
	session, _ := s.service.CreateGuest(s.ctx, "Alice")

	account, err := s.service.GetAccount(session.Token)
	s.Require().NoError(err)
	s.Equal("Alice", account.DisplayName)
}

func (s *ServiceSuite) TestGetAccountFailsWithInvalidToken() {
	_, err := s.service.GetAccount("invalid_token")
	s.ErrorIs(err, ErrInvalidSession)
}

// CleanExpiredSessions tests

func (s *ServiceSuite) TestCleanExpiredSessionsRemovesExpired() {
	session1, _ := s.service.CreateGuest(s.ctx, "Alice")

	s.clock.Advance(25 * time.Hour)

	session2, _ := s.service.CreateGuest(s.ctx, "Bob")

	s.Equal(1, s.service.CleanExpiredSessions())

	_, err := s.service.ValidateSession(session1.Token)
	s.ErrorIs(err, ErrInvalidSession)

	_, err = s.service.ValidateSession(session2.Token)
	s.NoError(err)
}

func (s *ServiceSuite) TestRunJanitorStopsWithContext() {
	ctx, cancel := context.WithCancel(s.ctx)
	cancel()

	s.NoError(s.service.RunJanitor(ctx, time.Hour))
}
