package room

import (
	"context"
	"log/slog"
	"slices"

	"github.com/mcoot/whoknow/internal/model"
)

const (
	commonerWinPoints = 1
	insiderWinPoints  = 2
)

// SubmitVote records or replaces a vote. Once every non-host player has
// voted the round is tallied and scored.
func (r *Registry) SubmitVote(ctx context.Context, code model.RoomCode, voterID, targetID model.PlayerID) (*model.Room, error) {
	return r.mutate(ctx, code, func(room *model.Room) error {
		if room.Status != model.StatusVoting {
			return model.ErrInvalidState
		}
		if room.GetPlayer(voterID) == nil || room.GetPlayer(targetID) == nil {
			return model.ErrPlayerNotFound
		}

		if room.Votes == nil {
			room.Votes = make(map[model.PlayerID]model.PlayerID)
		}
		room.Votes[voterID] = targetID

		if len(room.Votes) < room.VotersRequired() {
			return nil
		}

		suspects := Tally(room.Votes)
		settle(room, suspects)

		r.logger.Info("round finished",
			slog.String("room_code", string(code)),
			slog.Int("round", room.Round),
			slog.String("winner", string(room.Winner)),
		)
		return nil
	})
}

// Tally returns every target sharing the highest vote count, sorted by ID
func Tally(votes map[model.PlayerID]model.PlayerID) []model.PlayerID {
	counts := make(map[model.PlayerID]int)
	best := 0
	for _, target := range votes {
		counts[target]++
		best = max(best, counts[target])
	}

	var suspects []model.PlayerID
	for target, n := range counts {
		if n == best {
			suspects = append(suspects, target)
		}
	}
	slices.Sort(suspects)
	return suspects
}

// settle decides the winner from the top suspects and awards points.
// Catching the insider in a tie still counts as a catch.
func settle(room *model.Room, suspects []model.PlayerID) {
	insider := room.PlayerWithRole(model.RoleInsider)
	caught := insider != nil && slices.Contains(suspects, insider.ID)

	if caught {
		room.Winner = model.WinnerCommoners
		for i := range room.Players {
			if room.Players[i].Role != model.RoleInsider {
				room.Players[i].Score += commonerWinPoints
			}
		}
	} else {
		room.Winner = model.WinnerInsider
		if insider != nil {
			insider.Score += insiderWinPoints
		}
	}
	room.Status = model.StatusResult
}
