package dispatch

import (
	"context"
	"log/slog"
	"strings"

	"github.com/mcoot/whoknow/internal/api/response"
	"github.com/mcoot/whoknow/internal/model"
	"github.com/mcoot/whoknow/internal/services/room"
)

// Dispatcher runs commands against the registry and pushes the results.
// Successful commands broadcast the public room snapshot plus any private
// reveals; failed commands push nothing and return the error to the caller.
// A room's lock is held from the command until its last push is queued, so
// listeners see snapshots in commit order.
type Dispatcher struct {
	registry room.RegistryInterface
	notifier Notifier
	locks    *room.Locks
	logger   *slog.Logger
}

// New creates a new Dispatcher
func New(registry room.RegistryInterface, notifier Notifier, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		notifier: notifier,
		locks:    room.NewLocks(),
		logger:   logger.With(slog.String("component", "dispatcher")),
	}
}

// CreateRoom opens a room and seats its creator. Only the creator hears about it.
func (d *Dispatcher) CreateRoom(ctx context.Context, playerID model.PlayerID, name string) (*model.Room, error) {
	name, err := cleanName(name)
	if err != nil {
		return nil, err
	}

	created, err := d.registry.CreateRoom(ctx, playerID)
	if err != nil {
		return nil, d.fail("create_room", "", playerID, err)
	}

	unlock := d.locks.Lock(created.Code)
	defer unlock()

	r, err := d.registry.JoinRoom(ctx, created.Code, playerID, name)
	if err != nil {
		return nil, d.fail("create_room", created.Code, playerID, err)
	}

	d.notifier.Subscribe(r.Code, playerID)
	d.notifier.Send(r.Code, playerID, stateMessage(r))
	return r, nil
}

// JoinRoom seats a player and tells the whole room
func (d *Dispatcher) JoinRoom(ctx context.Context, code model.RoomCode, playerID model.PlayerID, name string) (*model.Room, error) {
	name, err := cleanName(name)
	if err != nil {
		return nil, err
	}

	unlock := d.locks.Lock(code)
	defer unlock()

	r, err := d.registry.JoinRoom(ctx, code, playerID, name)
	if err != nil {
		return nil, d.fail("join_room", code, playerID, err)
	}

	d.notifier.Subscribe(code, playerID)
	d.broadcastState(r)
	return r, nil
}

// StartGame assigns roles. Only the in-game host learns their role now; the
// rest learn theirs once the word is set.
func (d *Dispatcher) StartGame(ctx context.Context, code model.RoomCode, playerID model.PlayerID) (*model.Room, error) {
	unlock := d.locks.Lock(code)
	defer unlock()

	r, roles, err := d.registry.StartGame(ctx, code, playerID)
	if err != nil {
		return nil, d.fail("start_game", code, playerID, err)
	}

	for id, role := range roles {
		if role == model.RoleHost {
			d.notifier.Send(code, id, roleMessage(code, role))
		}
	}
	d.broadcastState(r)
	return r, nil
}

// SetWord stores the word, reveals it to the insider and host, then tells
// every other player their role.
func (d *Dispatcher) SetWord(ctx context.Context, code model.RoomCode, playerID model.PlayerID, word string) (*model.Room, error) {
	unlock := d.locks.Lock(code)
	defer unlock()

	r, err := d.registry.SetWord(ctx, code, word, playerID)
	if err != nil {
		return nil, d.fail("set_word", code, playerID, err)
	}

	revealed := Message{
		Event: model.EventWordRevealed,
		Data:  response.WordRevealed{RoomCode: string(code), Word: strings.TrimSpace(word)},
	}
	if insider := r.PlayerWithRole(model.RoleInsider); insider != nil {
		d.notifier.Send(code, insider.ID, revealed)
	}
	if host := r.PlayerWithRole(model.RoleHost); host != nil {
		d.notifier.Send(code, host.ID, revealed)
	}

	for _, p := range r.Players {
		if p.Role != model.RoleHost {
			d.notifier.Send(code, p.ID, roleMessage(code, p.Role))
		}
	}
	d.broadcastState(r)
	return r, nil
}

// EndQuestioning closes questioning, by the host's call or the timer
func (d *Dispatcher) EndQuestioning(ctx context.Context, code model.RoomCode, playerID model.PlayerID, timedOut bool) (*model.Room, error) {
	unlock := d.locks.Lock(code)
	defer unlock()

	r, err := d.registry.EndQuestioning(ctx, code, playerID, timedOut)
	if err != nil {
		return nil, d.fail("end_questioning", code, playerID, err)
	}
	d.broadcastState(r)
	return r, nil
}

// SubmitVote records a vote
func (d *Dispatcher) SubmitVote(ctx context.Context, code model.RoomCode, playerID, targetID model.PlayerID) (*model.Room, error) {
	unlock := d.locks.Lock(code)
	defer unlock()

	r, err := d.registry.SubmitVote(ctx, code, playerID, targetID)
	if err != nil {
		return nil, d.fail("submit_vote", code, playerID, err)
	}
	d.broadcastState(r)
	return r, nil
}

// ResetGame returns the room to the lobby
func (d *Dispatcher) ResetGame(ctx context.Context, code model.RoomCode, playerID model.PlayerID) (*model.Room, error) {
	unlock := d.locks.Lock(code)
	defer unlock()

	r, err := d.registry.ResetGame(ctx, code, playerID)
	if err != nil {
		return nil, d.fail("reset_game", code, playerID, err)
	}
	d.broadcastState(r)
	return r, nil
}

// UpdateConfig changes lobby settings
func (d *Dispatcher) UpdateConfig(ctx context.Context, code model.RoomCode, playerID model.PlayerID, patch model.ConfigPatch) (*model.Room, error) {
	unlock := d.locks.Lock(code)
	defer unlock()

	r, err := d.registry.UpdateConfig(ctx, code, playerID, patch)
	if err != nil {
		return nil, d.fail("update_config", code, playerID, err)
	}
	d.broadcastState(r)
	return r, nil
}

// GetRoom reads a room without pushing anything
func (d *Dispatcher) GetRoom(ctx context.Context, code model.RoomCode) (*model.Room, error) {
	return d.registry.GetRoom(ctx, code)
}

// Reveal returns the requester's private view without pushing anything
func (d *Dispatcher) Reveal(ctx context.Context, code model.RoomCode, playerID model.PlayerID) (*model.PrivateView, error) {
	return d.registry.Reveal(ctx, code, playerID)
}

// Watch hands fn the room and the requester's private view while no command
// on the room can commit or push. Streams attach inside fn so that nothing
// is pushed between the read and the attach.
func (d *Dispatcher) Watch(ctx context.Context, code model.RoomCode, playerID model.PlayerID, fn func(*model.Room, *model.PrivateView) error) error {
	unlock := d.locks.Lock(code)
	defer unlock()

	view, err := d.registry.Reveal(ctx, code, playerID)
	if err != nil {
		return err
	}
	r, err := d.registry.GetRoom(ctx, code)
	if err != nil {
		return err
	}
	return fn(r, view)
}

func (d *Dispatcher) broadcastState(r *model.Room) {
	d.notifier.Broadcast(r.Code, stateMessage(r))
}

func (d *Dispatcher) fail(command string, code model.RoomCode, playerID model.PlayerID, err error) error {
	d.logger.Debug("command rejected",
		slog.String("command", command),
		slog.String("room_code", string(code)),
		slog.String("player_id", string(playerID)),
		slog.String("error", err.Error()),
	)
	return err
}

func stateMessage(r *model.Room) Message {
	return Message{Event: model.EventRoomStateUpdated, Data: response.RoomFromModel(r)}
}

func roleMessage(code model.RoomCode, role model.Role) Message {
	return Message{
		Event: model.EventRoleAssigned,
		Data:  response.RoleAssigned{RoomCode: string(code), Role: string(role)},
	}
}

func cleanName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", model.ErrEmptyName
	}
	return name, nil
}

// DispatcherInterface is the command surface shared by every transport
type DispatcherInterface interface {
	CreateRoom(ctx context.Context, playerID model.PlayerID, name string) (*model.Room, error)
	JoinRoom(ctx context.Context, code model.RoomCode, playerID model.PlayerID, name string) (*model.Room, error)
	StartGame(ctx context.Context, code model.RoomCode, playerID model.PlayerID) (*model.Room, error)
	SetWord(ctx context.Context, code model.RoomCode, playerID model.PlayerID, word string) (*model.Room, error)
	EndQuestioning(ctx context.Context, code model.RoomCode, playerID model.PlayerID, timedOut bool) (*model.Room, error)
	SubmitVote(ctx context.Context, code model.RoomCode, playerID, targetID model.PlayerID) (*model.Room, error)
	ResetGame(ctx context.Context, code model.RoomCode, playerID model.PlayerID) (*model.Room, error)
	UpdateConfig(ctx context.Context, code model.RoomCode, playerID model.PlayerID, patch model.ConfigPatch) (*model.Room, error)
	GetRoom(ctx context.Context, code model.RoomCode) (*model.Room, error)
	Reveal(ctx context.Context, code model.RoomCode, playerID model.PlayerID) (*model.PrivateView, error)
	Watch(ctx context.Context, code model.RoomCode, playerID model.PlayerID, fn func(*model.Room, *model.PrivateView) error) error
}

var _ DispatcherInterface = (*Dispatcher)(nil)
