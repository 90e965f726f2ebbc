package room

import (
	"context"
	"errors"

	"github.com/mcoot/whoknow/internal/model"
)

// Reveal returns what the requester may privately know right now.
// During word setting only the in-game host learns their role; from
// questioning on every player sees their own role and the host and insider
// also see the word.
func (r *Registry) Reveal(ctx context.Context, code model.RoomCode, requesterID model.PlayerID) (*model.PrivateView, error) {
	room, err := r.storage.GetRoom(ctx, code)
	if err != nil {
		return nil, err
	}

	player := room.GetPlayer(requesterID)
	if player == nil {
		return nil, model.ErrPlayerNotFound
	}

	view := &model.PrivateView{
		RoomCode: code,
		PlayerID: requesterID,
		Status:   room.Status,
	}

	if !room.InRound() {
		return view, nil
	}
	switch room.Status {
	case model.StatusWordSetting:
		if player.Role == model.RoleHost {
			view.Role = player.Role
		}
		return view, nil
	}

	view.Role = player.Role
	if player.Role != model.RoleHost && player.Role != model.RoleInsider {
		return view, nil
	}

	secret, err := r.storage.GetSecret(ctx, code)
	if err != nil {
		if errors.Is(err, model.ErrSecretNotFound) {
			return view, nil
		}
		return nil, err
	}
	if secret.Round == room.Round {
		view.Word = secret.Word
	}
	return view, nil
}
