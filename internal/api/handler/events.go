package handler

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/mcoot/whoknow/internal/api/middleware"
	"github.com/mcoot/whoknow/internal/api/response"
	"github.com/mcoot/whoknow/internal/model"
	"github.com/mcoot/whoknow/internal/services/dispatch"
	"github.com/mcoot/whoknow/internal/sse"
)

// EventsHandler streams room events over SSE
type EventsHandler struct {
	dispatcher dispatch.DispatcherInterface
	hubManager *sse.HubManager
	logger     *slog.Logger
}

// NewEventsHandler creates a new events handler
func NewEventsHandler(dispatcher dispatch.DispatcherInterface, hubManager *sse.HubManager, logger *slog.Logger) *EventsHandler {
	return &EventsHandler{
		dispatcher: dispatcher,
		hubManager: hubManager,
		logger:     logger,
	}
}

// Stream handles GET /api/v1/rooms/{code}/events.
// Only seated players may listen. A new stream starts with the current
// snapshot and whatever the player is privately allowed to know.
func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	account := middleware.MustGetAccount(r.Context())
	code := roomCode(r)

	var client *sse.Client
	var frames [][]byte
	err := h.dispatcher.Watch(r.Context(), code, account.ID, func(room *model.Room, view *model.PrivateView) error {
		var err error
		if frames, err = initialFrames(room, view); err != nil {
			return err
		}
		hub := h.hubManager.GetOrCreateHub(code)
		client = sse.NewClient(hub, account.ID)
		hub.Register(client)
		return nil
	})
	if err != nil {
		h.logger.Debug("event stream refused",
			slog.String("room_code", string(code)),
			slog.String("player_id", string(account.ID)),
			slog.String("error", err.Error()))
		WriteError(w, err)
		return
	}

	sse.ServeSSE(w, r, client, frames...)
}

// initialFrames is the snapshot plus the player's private state
func initialFrames(room *model.Room, view *model.PrivateView) ([][]byte, error) {
	initial := []dispatch.Message{{
		Event: model.EventRoomStateUpdated,
		Data:  response.RoomFromModel(room),
	}}
	if view.Role != model.RoleNone {
		initial = append(initial, dispatch.Message{
			Event: model.EventRoleAssigned,
			Data:  response.RoleAssigned{RoomCode: string(room.Code), Role: string(view.Role)},
		})
	}
	if view.Word != "" {
		initial = append(initial, dispatch.Message{
			Event: model.EventWordRevealed,
			Data:  response.WordRevealed{RoomCode: string(room.Code), Word: view.Word},
		})
	}

	frames := make([][]byte, 0, len(initial))
	for _, msg := range initial {
		frame, err := sse.Frame(msg)
		if err != nil {
			return nil, fmt.Errorf("encode %s frame: %w", msg.Event, err)
		}
		frames = append(frames, frame)
	}
	return frames, nil
}
