package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/whoknow/internal/dependencies/clock"
	"github.com/mcoot/whoknow/internal/model"
	"github.com/mcoot/whoknow/internal/storage"
)

// Errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidSession     = errors.New("invalid or expired session")
	ErrUsernameExists     = errors.New("username already exists")
	ErrEmptyDisplayName   = errors.New("display name must not be empty")
)

// Session represents an authenticated session
type Session struct {
	Token     string
	PlayerID  model.PlayerID
	Account   model.Account
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Service handles accounts and session management for the HTTP API
type Service struct {
	storage storage.Storage
	clock   clock.Clock

	mu       sync.RWMutex
	sessions map[string]*Session

	sessionDuration time.Duration
}

// Config holds configuration for the auth service
type Config struct {
	SessionDuration time.Duration
}

// DefaultConfig returns default auth configuration
func DefaultConfig() Config {
	return Config{
		SessionDuration: 24 * time.Hour,
	}
}

// New creates a new auth Service
func New(storage storage.Storage, clock clock.Clock, cfg Config) *Service {
	if cfg.SessionDuration == 0 {
		cfg.SessionDuration = DefaultConfig().SessionDuration
	}
	return &Service{
		storage:         storage,
		clock:           clock,
		sessions:        make(map[string]*Session),
		sessionDuration: cfg.SessionDuration,
	}
}

// CreateGuest creates an anonymous account and session
func (s *Service) CreateGuest(ctx context.Context, displayName string) (*Session, error) {
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return nil, ErrEmptyDisplayName
	}

	account := &model.Account{
		ID:          model.PlayerID(s.generateID("p_")),
		DisplayName: displayName,
		IsGuest:     true,
		CreatedAt:   s.clock.Now(),
	}

	if err := s.storage.SaveAccount(ctx, account); err != nil {
		return nil, err
	}

	return s.createSession(account), nil
}

// Register creates a registered account and session
func (s *Service) Register(ctx context.Context, username, password, displayName string) (*Session, error) {
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return nil, ErrEmptyDisplayName
	}

	_, err := s.storage.GetCredentialsByUsername(ctx, username)
	if err == nil {
		return nil, ErrUsernameExists
	}
	if !errors.Is(err, model.ErrAccountNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	account := &model.Account{
		ID:          model.PlayerID(s.generateID("p_")),
		DisplayName: displayName,
		IsGuest:     false,
		CreatedAt:   now,
	}
	creds := &model.Credentials{
		PlayerID:     account.ID,
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.storage.SaveAccount(ctx, account); err != nil {
		return nil, err
	}
	if err := s.storage.SaveCredentials(ctx, creds); err != nil {
		return nil, err
	}

	return s.createSession(account), nil
}

// Login authenticates a registered account and creates a session
func (s *Service) Login(ctx context.Context, username, password string) (*Session, error) {
	creds, err := s.storage.GetCredentialsByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, model.ErrAccountNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(creds.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	account, err := s.storage.GetAccount(ctx, creds.PlayerID)
	if err != nil {
		return nil, err
	}

	return s.createSession(account), nil
}

// ValidateSession checks if a session token is valid and returns the session
func (s *Service) ValidateSession(token string) (*Session, error) {
	s.mu.RLock()
	session, ok := s.sessions[token]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrInvalidSession
	}

	if s.clock.Now().After(session.ExpiresAt) {
		s.mu.Lock()
		delete(s.sessions, token)
		s.mu.Unlock()
		return nil, ErrInvalidSession
	}

	return session, nil
}

// InvalidateSession removes a session
func (s *Service) InvalidateSession(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}

// GetAccount returns the account for a session token
func (s *Service) GetAccount(token string) (*model.Account, error) {
	session, err := s.ValidateSession(token)
	if err != nil {
		return nil, err
	}
	return &session.Account, nil
}

func (s *Service) createSession(account *model.Account) *Session {
	now := s.clock.Now()
	session := &Session{
		Token:     s.generateID("sess_"),
		PlayerID:  account.ID,
		Account:   *account,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionDuration),
	}

	s.mu.Lock()
	s.sessions[session.Token] = session
	s.mu.Unlock()

	return session
}

// generateID generates a random ID with a prefix
func (s *Service) generateID(prefix string) string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return prefix + base64.RawURLEncoding.EncodeToString(b)
}

// CleanExpiredSessions removes expired sessions and reports how many went
func (s *Service) CleanExpiredSessions() int {
	now := s.clock.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for token, session := range s.sessions {
		if now.After(session.ExpiresAt) {
			delete(s.sessions, token)
			removed++
		}
	}
	return removed
}

// RunJanitor cleans expired sessions every interval until ctx is done
func (s *Service) RunJanitor(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.CleanExpiredSessions()
		}
	}
}
