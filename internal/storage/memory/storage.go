package memory

import (
	"context"
	"sync"

	"github.com/mcoot/whoknow/internal/model"
	"github.com/mcoot/whoknow/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	rooms         map[model.RoomCode]*model.Room
	secrets       map[model.RoomCode]model.Secret
	accounts      map[model.PlayerID]model.Account
	credentials   map[model.PlayerID]model.Credentials
	usernameIndex map[string]model.PlayerID
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		rooms:         make(map[model.RoomCode]*model.Room),
		secrets:       make(map[model.RoomCode]model.Secret),
		accounts:      make(map[model.PlayerID]model.Account),
		credentials:   make(map[model.PlayerID]model.Credentials),
		usernameIndex: make(map[string]model.PlayerID),
	}
}

var _ storage.Storage = (*Storage)(nil)

// Room operations

func (s *Storage) SaveRoom(ctx context.Context, room *model.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rooms[room.Code] = room.Clone()
	return nil
}

func (s *Storage) GetRoom(ctx context.Context, code model.RoomCode) (*model.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	room, ok := s.rooms[code]
	if !ok {
		return nil, model.ErrRoomNotFound
	}
	return room.Clone(), nil
}

func (s *Storage) DeleteRoom(ctx context.Context, code model.RoomCode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rooms, code)
	delete(s.secrets, code)
	return nil
}

func (s *Storage) RoomExists(ctx context.Context, code model.RoomCode) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.rooms[code]
	return ok, nil
}

// Secret operations

func (s *Storage) SaveSecret(ctx context.Context, secret *model.Secret) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.secrets[secret.RoomCode] = *secret
	return nil
}

func (s *Storage) GetSecret(ctx context.Context, code model.RoomCode) (*model.Secret, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	secret, ok := s.secrets[code]
	if !ok {
		return nil, model.ErrSecretNotFound
	}
	return &secret, nil
}

func (s *Storage) DeleteSecret(ctx context.Context, code model.RoomCode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.secrets, code)
	return nil
}

// Account operations

func (s *Storage) SaveAccount(ctx context.Context, account *model.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[account.ID] = *account
	return nil
}

func (s *Storage) GetAccount(ctx context.Context, id model.PlayerID) (*model.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	account, ok := s.accounts[id]
	if !ok {
		return nil, model.ErrAccountNotFound
	}
	return &account, nil
}

// Credential operations

func (s *Storage) SaveCredentials(ctx context.Context, creds *model.Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.credentials[creds.PlayerID] = *creds
	s.usernameIndex[creds.Username] = creds.PlayerID
	return nil
}

func (s *Storage) GetCredentialsByUsername(ctx context.Context, username string) (*model.Credentials, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	playerID, ok := s.usernameIndex[username]
	if !ok {
		return nil, model.ErrAccountNotFound
	}
	creds, ok := s.credentials[playerID]
	if !ok {
		return nil, model.ErrAccountNotFound
	}
	return &creds, nil
}
