package gateway

import (
	"context"
	"encoding/json"

	"github.com/mcoot/whoknow/internal/api/apierr"
	"github.com/mcoot/whoknow/internal/api/request"
	"github.com/mcoot/whoknow/internal/model"
	"github.com/mcoot/whoknow/internal/services/dispatch"
)

// Client command names
const (
	cmdCreateRoom     = "create_room"
	cmdJoinRoom       = "join_room"
	cmdStartGame      = "start_game"
	cmdSetWord        = "set_word"
	cmdEndQuestioning = "end_questioning"
	cmdSubmitVote     = "submit_vote"
	cmdResetGame      = "reset_game"
	cmdUpdateConfig   = "update_config"
)

// inbound is a client frame: {"event": ..., "data": {...}}
type inbound struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type roomPayload struct {
	Code string `json:"code"`
}

type createRoomPayload struct {
	Name string `json:"name"`
}

type joinRoomPayload struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type setWordPayload struct {
	Code string `json:"code"`
	Word string `json:"word"`
}

type endQuestioningPayload struct {
	Code     string `json:"code"`
	TimedOut bool   `json:"timed_out"`
}

type submitVotePayload struct {
	Code     string `json:"code"`
	TargetID string `json:"target_id"`
}

type updateConfigPayload struct {
	Code   string              `json:"code"`
	Config request.ConfigPatch `json:"config"`
}

// handle decodes one client frame and runs it as the connection's player.
// Results reach the client through the notifier; only errors come back here.
func handle(ctx context.Context, cmds dispatch.DispatcherInterface, playerID model.PlayerID, frame []byte) error {
	var in inbound
	if err := json.Unmarshal(frame, &in); err != nil {
		return apierr.NewInvalidRequestError("Frames must be JSON objects with an event field")
	}

	var err error
	switch in.Event {
	case cmdCreateRoom:
		var p createRoomPayload
		if err = decode(in.Data, &p); err == nil {
			_, err = cmds.CreateRoom(ctx, playerID, p.Name)
		}
	case cmdJoinRoom:
		var p joinRoomPayload
		if err = decode(in.Data, &p); err == nil {
			_, err = cmds.JoinRoom(ctx, model.NormalizeRoomCode(p.Code), playerID, p.Name)
		}
	case cmdStartGame:
		var p roomPayload
		if err = decode(in.Data, &p); err == nil {
			_, err = cmds.StartGame(ctx, model.NormalizeRoomCode(p.Code), playerID)
		}
	case cmdSetWord:
		var p setWordPayload
		if err = decode(in.Data, &p); err == nil {
			_, err = cmds.SetWord(ctx, model.NormalizeRoomCode(p.Code), playerID, p.Word)
		}
	case cmdEndQuestioning:
		var p endQuestioningPayload
		if err = decode(in.Data, &p); err == nil {
			_, err = cmds.EndQuestioning(ctx, model.NormalizeRoomCode(p.Code), playerID, p.TimedOut)
		}
	case cmdSubmitVote:
		var p submitVotePayload
		if err = decode(in.Data, &p); err == nil {
			_, err = cmds.SubmitVote(ctx, model.NormalizeRoomCode(p.Code), playerID, model.PlayerID(p.TargetID))
		}
	case cmdResetGame:
		var p roomPayload
		if err = decode(in.Data, &p); err == nil {
			_, err = cmds.ResetGame(ctx, model.NormalizeRoomCode(p.Code), playerID)
		}
	case cmdUpdateConfig:
		var p updateConfigPayload
		if err = decode(in.Data, &p); err == nil {
			_, err = cmds.UpdateConfig(ctx, model.NormalizeRoomCode(p.Code), playerID, p.Config.ToModel())
		}
	default:
		return apierr.NewInvalidRequestError("Unknown event: " + in.Event)
	}
	return err
}

func decode(data json.RawMessage, v any) error {
	if len(data) == 0 {
		return apierr.NewInvalidRequestError("Missing data")
	}
	if err := json.Unmarshal(data, v); err != nil {
		return apierr.NewInvalidRequestError("Malformed data")
	}
	return nil
}

func errorMessage(err error) dispatch.Message {
	_, payload := apierr.FromError(err)
	return dispatch.Message{Event: model.EventError, Data: payload}
}
