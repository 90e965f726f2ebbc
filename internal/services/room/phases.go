package room

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/mcoot/whoknow/internal/model"
)

// SetWord records the secret word and starts the questioning timer
func (r *Registry) SetWord(ctx context.Context, code model.RoomCode, word string, requesterID model.PlayerID) (*model.Room, error) {
	word = strings.TrimSpace(word)

	return r.mutate(ctx, code, func(room *model.Room) error {
		if room.Status != model.StatusWordSetting {
			return model.ErrInvalidState
		}
		if room.RoleOf(requesterID) != model.RoleHost {
			return model.ErrNotGameHost
		}
		if word == "" {
			return model.ErrEmptyWord
		}

		now := r.clock.Now()
		secret := &model.Secret{
			RoomCode: code,
			Round:    room.Round,
			Word:     word,
			SetAt:    now,
		}
		if err := r.storage.SaveSecret(ctx, secret); err != nil {
			return err
		}

		end := now.Add(time.Duration(room.Config.TimerMinutes) * time.Minute)
		room.Status = model.StatusQuestioning
		room.EndTime = &end

		r.logger.Info("word set",
			slog.String("room_code", string(code)),
			slog.Int("round", room.Round),
			slog.Time("end_time", end),
		)
		return nil
	})
}

// EndQuestioning closes the questioning phase. A timeout ends the round with
// no winner scoring; otherwise voting opens.
func (r *Registry) EndQuestioning(ctx context.Context, code model.RoomCode, requesterID model.PlayerID, timedOut bool) (*model.Room, error) {
	return r.mutate(ctx, code, func(room *model.Room) error {
		if room.Status != model.StatusQuestioning {
			return model.ErrInvalidState
		}
		if room.RoleOf(requesterID) != model.RoleHost {
			return model.ErrNotGameHost
		}

		room.EndTime = nil
		if timedOut {
			room.Status = model.StatusResult
			room.Winner = model.WinnerTimeout
		} else {
			room.Status = model.StatusVoting
			room.Votes = make(map[model.PlayerID]model.PlayerID)
		}

		r.logger.Info("questioning ended",
			slog.String("room_code", string(code)),
			slog.Bool("timed_out", timedOut),
		)
		return nil
	})
}
