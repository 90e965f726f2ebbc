package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/whoknow/internal/api/middleware"
	"github.com/mcoot/whoknow/internal/api/request"
	"github.com/mcoot/whoknow/internal/api/response"
	"github.com/mcoot/whoknow/internal/model"
	"github.com/mcoot/whoknow/internal/services/dispatch"
)

// RoomHandler handles room endpoints. Every command goes through the
// dispatcher so websocket and SSE clients see the same pushes.
type RoomHandler struct {
	dispatcher dispatch.DispatcherInterface
}

// NewRoomHandler creates a new room handler
func NewRoomHandler(dispatcher dispatch.DispatcherInterface) *RoomHandler {
	return &RoomHandler{dispatcher: dispatcher}
}

func roomCode(r *http.Request) model.RoomCode {
	return model.NormalizeRoomCode(mux.Vars(r)["code"])
}

// seatName picks the in-room name, defaulting to the account's display name
func seatName(account *model.Account, name string) string {
	if name == "" {
		return account.DisplayName
	}
	return name
}

// writeRoom finishes a room command with either the error or the public snapshot
func writeRoom(w http.ResponseWriter, status int, room *model.Room, err error) {
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, status, response.RoomFromModel(room))
}

// Create handles POST /api/v1/rooms
func (h *RoomHandler) Create(w http.ResponseWriter, r *http.Request) {
	account := middleware.MustGetAccount(r.Context())

	var req request.CreateRoomRequest
	if err := decodeBody(r, &req, true); err != nil {
		WriteError(w, err)
		return
	}

	room, err := h.dispatcher.CreateRoom(r.Context(), account.ID, seatName(account, req.Name))
	writeRoom(w, http.StatusCreated, room, err)
}

// Get handles GET /api/v1/rooms/{code}
func (h *RoomHandler) Get(w http.ResponseWriter, r *http.Request) {
	room, err := h.dispatcher.GetRoom(r.Context(), roomCode(r))
	writeRoom(w, http.StatusOK, room, err)
}

// Join handles POST /api/v1/rooms/{code}/join
func (h *RoomHandler) Join(w http.ResponseWriter, r *http.Request) {
	account := middleware.MustGetAccount(r.Context())

	var req request.JoinRoomRequest
	if err := decodeBody(r, &req, true); err != nil {
		WriteError(w, err)
		return
	}

	room, err := h.dispatcher.JoinRoom(r.Context(), roomCode(r), account.ID, seatName(account, req.Name))
	writeRoom(w, http.StatusOK, room, err)
}

// Start handles POST /api/v1/rooms/{code}/start
func (h *RoomHandler) Start(w http.ResponseWriter, r *http.Request) {
	account := middleware.MustGetAccount(r.Context())

	room, err := h.dispatcher.StartGame(r.Context(), roomCode(r), account.ID)
	writeRoom(w, http.StatusOK, room, err)
}

// SetWord handles POST /api/v1/rooms/{code}/word
func (h *RoomHandler) SetWord(w http.ResponseWriter, r *http.Request) {
	account := middleware.MustGetAccount(r.Context())

	var req request.SetWordRequest
	if err := decodeBody(r, &req, false); err != nil {
		WriteError(w, err)
		return
	}

	room, err := h.dispatcher.SetWord(r.Context(), roomCode(r), account.ID, req.Word)
	writeRoom(w, http.StatusOK, room, err)
}

// EndQuestioning handles POST /api/v1/rooms/{code}/end-questioning
func (h *RoomHandler) EndQuestioning(w http.ResponseWriter, r *http.Request) {
	account := middleware.MustGetAccount(r.Context())

	var req request.EndQuestioningRequest
	if err := decodeBody(r, &req, true); err != nil {
		WriteError(w, err)
		return
	}

	room, err := h.dispatcher.EndQuestioning(r.Context(), roomCode(r), account.ID, req.TimedOut)
	writeRoom(w, http.StatusOK, room, err)
}

// Vote handles POST /api/v1/rooms/{code}/votes
func (h *RoomHandler) Vote(w http.ResponseWriter, r *http.Request) {
	account := middleware.MustGetAccount(r.Context())

	var req request.SubmitVoteRequest
	if err := decodeBody(r, &req, false); err != nil {
		WriteError(w, err)
		return
	}
	if req.TargetID == "" {
		WriteError(w, NewInvalidRequestError("target_id is required"))
		return
	}

	room, err := h.dispatcher.SubmitVote(r.Context(), roomCode(r), account.ID, model.PlayerID(req.TargetID))
	writeRoom(w, http.StatusOK, room, err)
}

// Reset handles POST /api/v1/rooms/{code}/reset
func (h *RoomHandler) Reset(w http.ResponseWriter, r *http.Request) {
	account := middleware.MustGetAccount(r.Context())

	room, err := h.dispatcher.ResetGame(r.Context(), roomCode(r), account.ID)
	writeRoom(w, http.StatusOK, room, err)
}

// UpdateConfig handles PATCH /api/v1/rooms/{code}/config
func (h *RoomHandler) UpdateConfig(w http.ResponseWriter, r *http.Request) {
	account := middleware.MustGetAccount(r.Context())

	var req request.ConfigPatch
	if err := decodeBody(r, &req, false); err != nil {
		WriteError(w, err)
		return
	}

	room, err := h.dispatcher.UpdateConfig(r.Context(), roomCode(r), account.ID, req.ToModel())
	writeRoom(w, http.StatusOK, room, err)
}

// Me handles GET /api/v1/rooms/{code}/me
func (h *RoomHandler) Me(w http.ResponseWriter, r *http.Request) {
	account := middleware.MustGetAccount(r.Context())

	view, err := h.dispatcher.Reveal(r.Context(), roomCode(r), account.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PrivateViewFromModel(view))
}
