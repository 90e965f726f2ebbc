package room

import (
	"context"
	"log/slog"

	"github.com/mcoot/whoknow/internal/model"
)

// StartGame assigns roles for a new round and moves the room to word setting.
// The returned map holds every seated player's role and must only be
// disclosed privately.
func (r *Registry) StartGame(ctx context.Context, code model.RoomCode, requesterID model.PlayerID) (*model.Room, map[model.PlayerID]model.Role, error) {
	var roles map[model.PlayerID]model.Role

	room, err := r.mutate(ctx, code, func(room *model.Room) error {
		if room.HostID != requesterID {
			return model.ErrNotRoomHost
		}
		if room.Status != model.StatusLobby {
			return model.ErrInvalidState
		}
		if len(room.Players) < model.MinPlayers {
			return model.ErrInsufficientPlayers
		}

		roles = r.assignRoles(room)
		room.Status = model.StatusWordSetting
		room.Round++
		room.Votes = nil
		room.Winner = model.WinnerNone

		r.logger.Info("round started",
			slog.String("room_code", string(code)),
			slog.Int("round", room.Round),
			slog.String("host_selection", string(room.Config.HostSelection)),
			slog.Int("player_count", len(room.Players)),
		)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return room, roles, nil
}

// assignRoles picks the in-game host and the insider; everyone else is a commoner
func (r *Registry) assignRoles(room *model.Room) map[model.PlayerID]model.Role {
	hostIdx := r.pickHost(room)
	room.Players[hostIdx].HasBeenHost = true

	rest := make([]int, 0, len(room.Players)-1)
	for i := range room.Players {
		if i != hostIdx {
			rest = append(rest, i)
		}
	}
	insiderIdx := rest[r.random.Intn(len(rest))]

	roles := make(map[model.PlayerID]model.Role, len(room.Players))
	for i := range room.Players {
		p := &room.Players[i]
		switch i {
		case hostIdx:
			p.Role = model.RoleHost
		case insiderIdx:
			p.Role = model.RoleInsider
		default:
			p.Role = model.RoleCommoner
		}
		roles[p.ID] = p.Role
	}
	return roles
}

// pickHost returns the seat index of this round's in-game host
func (r *Registry) pickHost(room *model.Room) int {
	switch room.Config.HostSelection {
	case model.HostSelectionFixed:
		for i, p := range room.Players {
			if p.ID == room.HostID {
				return i
			}
		}
		// Room host never sat down
		return 0

	case model.HostSelectionRandom:
		return r.random.Intn(len(room.Players))

	default:
		var eligible []int
		for i, p := range room.Players {
			if !p.HasBeenHost {
				eligible = append(eligible, i)
			}
		}
		// Everyone has had a turn: start a new cycle
		if len(eligible) == 0 {
			for i := range room.Players {
				room.Players[i].HasBeenHost = false
				eligible = append(eligible, i)
			}
		}
		return eligible[r.random.Intn(len(eligible))]
	}
}
