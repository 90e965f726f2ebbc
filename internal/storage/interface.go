package storage

import (
	"context"

	"github.com/mcoot/whoknow/internal/model"
)

// Storage defines the interface for data persistence.
// Implementations must be safe for concurrent use and must not let callers
// mutate stored values through returned pointers.
type Storage interface {
	// Room operations
	SaveRoom(ctx context.Context, room *model.Room) error
	GetRoom(ctx context.Context, code model.RoomCode) (*model.Room, error)
	DeleteRoom(ctx context.Context, code model.RoomCode) error
	RoomExists(ctx context.Context, code model.RoomCode) (bool, error)

	// Round secret operations
	SaveSecret(ctx context.Context, secret *model.Secret) error
	GetSecret(ctx context.Context, code model.RoomCode) (*model.Secret, error)
	DeleteSecret(ctx context.Context, code model.RoomCode) error

	// Account operations
	SaveAccount(ctx context.Context, account *model.Account) error
	GetAccount(ctx context.Context, id model.PlayerID) (*model.Account, error)

	// Credential operations
	SaveCredentials(ctx context.Context, creds *model.Credentials) error
	GetCredentialsByUsername(ctx context.Context, username string) (*model.Credentials, error)
}
