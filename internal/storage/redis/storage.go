package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/whoknow/internal/model"
	"github.com/mcoot/whoknow/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ping checks the connection is alive
func (s *Storage) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

var _ storage.Storage = (*Storage)(nil)

// getJSON loads and decodes a key, mapping a miss to notFound
func (s *Storage) getJSON(ctx context.Context, key string, notFound error, v any) error {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return notFound
		}
		return err
	}
	return json.Unmarshal(data, v)
}

// Room operations

func (s *Storage) SaveRoom(ctx context.Context, room *model.Room) error {
	data, err := json.Marshal(room)
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, roomKey(room.Code), data, s.cfg.RoomTTL)
	// Keep the secret alive as long as its room
	if s.cfg.RoomTTL > 0 {
		pipe.Expire(ctx, secretKey(room.Code), s.cfg.RoomTTL)
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetRoom(ctx context.Context, code model.RoomCode) (*model.Room, error) {
	var room model.Room
	if err := s.getJSON(ctx, roomKey(code), model.ErrRoomNotFound, &room); err != nil {
		return nil, err
	}
	return &room, nil
}

func (s *Storage) DeleteRoom(ctx context.Context, code model.RoomCode) error {
	return s.client.Del(ctx, roomKey(code), secretKey(code)).Err()
}

func (s *Storage) RoomExists(ctx context.Context, code model.RoomCode) (bool, error) {
	n, err := s.client.Exists(ctx, roomKey(code)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Secret operations

func (s *Storage) SaveSecret(ctx context.Context, secret *model.Secret) error {
	data, err := json.Marshal(secret)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, secretKey(secret.RoomCode), data, s.cfg.RoomTTL).Err()
}

func (s *Storage) GetSecret(ctx context.Context, code model.RoomCode) (*model.Secret, error) {
	var secret model.Secret
	if err := s.getJSON(ctx, secretKey(code), model.ErrSecretNotFound, &secret); err != nil {
		return nil, err
	}
	return &secret, nil
}

func (s *Storage) DeleteSecret(ctx context.Context, code model.RoomCode) error {
	return s.client.Del(ctx, secretKey(code)).Err()
}

// Account operations

func (s *Storage) SaveAccount(ctx context.Context, account *model.Account) error {
	data, err := json.Marshal(account)
	if err != nil {
		return err
	}

	// Apply TTL only for guest accounts
	var ttl time.Duration
	if account.IsGuest {
		ttl = s.cfg.GuestAccountTTL
	}
	return s.client.Set(ctx, accountKey(account.ID), data, ttl).Err()
}

func (s *Storage) GetAccount(ctx context.Context, id model.PlayerID) (*model.Account, error) {
	var account model.Account
	if err := s.getJSON(ctx, accountKey(id), model.ErrAccountNotFound, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

// Credential operations

func (s *Storage) SaveCredentials(ctx context.Context, creds *model.Credentials) error {
	data, err := json.Marshal(creds)
	if err != nil {
		return err
	}

	// Use pipeline for atomic save + index update
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, credentialsKey(creds.PlayerID), data, 0)
	pipe.Set(ctx, usernameIndexKey(creds.Username), string(creds.PlayerID), 0)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetCredentialsByUsername(ctx context.Context, username string) (*model.Credentials, error) {
	playerIDStr, err := s.client.Get(ctx, usernameIndexKey(username)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrAccountNotFound
		}
		return nil, err
	}

	var creds model.Credentials
	if err := s.getJSON(ctx, credentialsKey(model.PlayerID(playerIDStr)), model.ErrAccountNotFound, &creds); err != nil {
		return nil, err
	}
	return &creds, nil
}
