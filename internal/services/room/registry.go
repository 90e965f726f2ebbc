package room

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mcoot/whoknow/internal/dependencies/clock"
	"github.com/mcoot/whoknow/internal/dependencies/random"
	"github.com/mcoot/whoknow/internal/model"
	"github.com/mcoot/whoknow/internal/storage"
)

const (
	// CodeLength is the length of generated room codes
	CodeLength = 6
	// CodeAlphabet is the characters used in room codes (avoid confusing chars)
	CodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

	maxCodeAttempts = 10
)

// ErrCodesExhausted is returned when no unused room code could be generated
var ErrCodesExhausted = errors.New("could not generate an unused room code")

// errUnchanged lets a mutation report success without a save
var errUnchanged = errors.New("room unchanged")

// Registry owns the rooms and runs every state transition on them.
// Commands on the same room are serialised; different rooms proceed in parallel.
type Registry struct {
	storage storage.Storage
	clock   clock.Clock
	random  random.Random
	logger  *slog.Logger
	locks   *Locks
}

// NewRegistry creates a new Registry
func NewRegistry(
	storage storage.Storage,
	clock clock.Clock,
	random random.Random,
	logger *slog.Logger,
) *Registry {
	return &Registry{
		storage: storage,
		clock:   clock,
		random:  random,
		logger:  logger.With(slog.String("component", "room_registry")),
		locks:   NewLocks(),
	}
}

// mutate loads a room under its lock, applies fn and saves the result
func (r *Registry) mutate(ctx context.Context, code model.RoomCode, fn func(room *model.Room) error) (*model.Room, error) {
	unlock := r.locks.Lock(code)
	defer unlock()

	room, err := r.storage.GetRoom(ctx, code)
	if err != nil {
		return nil, err
	}

	if err := fn(room); err != nil {
		if errors.Is(err, errUnchanged) {
			return room, nil
		}
		return nil, err
	}

	room.UpdatedAt = r.clock.Now()
	if err := r.storage.SaveRoom(ctx, room); err != nil {
		r.logger.Error("failed to save room",
			slog.String("room_code", string(code)),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("save room %s: %w", code, err)
	}
	return room, nil
}

// CreateRoom opens an empty lobby. The creator is not seated; callers join
// them straight afterwards.
func (r *Registry) CreateRoom(ctx context.Context, creatorID model.PlayerID) (*model.Room, error) {
	for range maxCodeAttempts {
		code := model.RoomCode(r.random.String(CodeLength, CodeAlphabet))
		room, err := r.tryCreate(ctx, code, creatorID)
		if err != nil {
			return nil, err
		}
		if room != nil {
			r.logger.Info("room created",
				slog.String("room_code", string(room.Code)),
				slog.String("player_id", string(creatorID)),
			)
			return room, nil
		}
	}
	return nil, ErrCodesExhausted
}

// tryCreate claims code if it is free, returning nil if it was taken
func (r *Registry) tryCreate(ctx context.Context, code model.RoomCode, creatorID model.PlayerID) (*model.Room, error) {
	unlock := r.locks.Lock(code)
	defer unlock()

	exists, err := r.storage.RoomExists(ctx, code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, nil
	}

	now := r.clock.Now()
	room := &model.Room{
		ID:        r.random.ID(),
		Code:      code,
		Status:    model.StatusLobby,
		HostID:    creatorID,
		Players:   []model.Player{},
		Config:    model.DefaultRoomConfig(),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := r.storage.SaveRoom(ctx, room); err != nil {
		return nil, fmt.Errorf("save room %s: %w", code, err)
	}
	return room, nil
}

// GetRoom retrieves a room by code
func (r *Registry) GetRoom(ctx context.Context, code model.RoomCode) (*model.Room, error) {
	return r.storage.GetRoom(ctx, code)
}

// JoinRoom seats a player in the lobby. Joining a room you already sit in
// is a no-op in any phase.
func (r *Registry) JoinRoom(ctx context.Context, code model.RoomCode, playerID model.PlayerID, name string) (*model.Room, error) {
	return r.mutate(ctx, code, func(room *model.Room) error {
		if room.GetPlayer(playerID) != nil {
			return errUnchanged
		}
		if room.Status != model.StatusLobby {
			return model.ErrInvalidState
		}

		room.Players = append(room.Players, model.Player{
			ID:       playerID,
			Name:     name,
			JoinedAt: r.clock.Now(),
		})

		r.logger.Info("player joined",
			slog.String("room_code", string(code)),
			slog.String("player_id", string(playerID)),
			slog.Int("player_count", len(room.Players)),
		)
		return nil
	})
}

// UpdateConfig merges a patch into the lobby configuration
func (r *Registry) UpdateConfig(ctx context.Context, code model.RoomCode, requesterID model.PlayerID, patch model.ConfigPatch) (*model.Room, error) {
	return r.mutate(ctx, code, func(room *model.Room) error {
		if room.HostID != requesterID {
			return model.ErrNotRoomHost
		}
		if room.Status != model.StatusLobby {
			return model.ErrInvalidState
		}

		cfg := room.Config.Apply(patch)
		if err := cfg.Validate(); err != nil {
			return err
		}
		room.Config = cfg
		return nil
	})
}

// ResetGame returns a finished room to the lobby. Scores and host rotation
// carry over to the next round.
func (r *Registry) ResetGame(ctx context.Context, code model.RoomCode, requesterID model.PlayerID) (*model.Room, error) {
	return r.mutate(ctx, code, func(room *model.Room) error {
		if room.HostID != requesterID {
			return model.ErrNotRoomHost
		}
		if room.Status != model.StatusResult {
			return model.ErrInvalidState
		}

		if err := r.storage.DeleteSecret(ctx, code); err != nil {
			r.logger.Warn("failed to delete round secret",
				slog.String("room_code", string(code)),
				slog.String("error", err.Error()),
			)
		}

		room.Status = model.StatusLobby
		room.Votes = nil
		room.EndTime = nil
		room.Winner = model.WinnerNone
		for i := range room.Players {
			room.Players[i].Role = model.RoleNone
		}
		return nil
	})
}

// RegistryInterface is the command surface used by transports
type RegistryInterface interface {
	CreateRoom(ctx context.Context, creatorID model.PlayerID) (*model.Room, error)
	GetRoom(ctx context.Context, code model.RoomCode) (*model.Room, error)
	JoinRoom(ctx context.Context, code model.RoomCode, playerID model.PlayerID, name string) (*model.Room, error)
	StartGame(ctx context.Context, code model.RoomCode, requesterID model.PlayerID) (*model.Room, map[model.PlayerID]model.Role, error)
	SetWord(ctx context.Context, code model.RoomCode, word string, requesterID model.PlayerID) (*model.Room, error)
	EndQuestioning(ctx context.Context, code model.RoomCode, requesterID model.PlayerID, timedOut bool) (*model.Room, error)
	SubmitVote(ctx context.Context, code model.RoomCode, voterID, targetID model.PlayerID) (*model.Room, error)
	ResetGame(ctx context.Context, code model.RoomCode, requesterID model.PlayerID) (*model.Room, error)
	UpdateConfig(ctx context.Context, code model.RoomCode, requesterID model.PlayerID, patch model.ConfigPatch) (*model.Room, error)
	Reveal(ctx context.Context, code model.RoomCode, requesterID model.PlayerID) (*model.PrivateView, error)
}

var _ RegistryInterface = (*Registry)(nil)
