package request

import "github.com/mcoot/whoknow/internal/model"

// CreateGuestRequest is the request body for creating a guest player
type CreateGuestRequest struct {
	DisplayName string `json:"display_name"`
}

// RegisterRequest is the request body for registering a player
type RegisterRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

// LoginRequest is the request body for logging in
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// CreateRoomRequest is the request body for creating a room.
// Name defaults to the account's display name.
type CreateRoomRequest struct {
	Name string `json:"name,omitempty"`
}

// JoinRoomRequest is the request body for joining a room
type JoinRoomRequest struct {
	Name string `json:"name,omitempty"`
}

// SetWordRequest is the request body for setting the secret word
type SetWordRequest struct {
	Word string `json:"word"`
}

// EndQuestioningRequest is the request body for ending questioning
type EndQuestioningRequest struct {
	TimedOut bool `json:"timed_out"`
}

// SubmitVoteRequest is the request body for voting
type SubmitVoteRequest struct {
	TargetID string `json:"target_id"`
}

// ConfigPatch is a partial room configuration; omitted fields are unchanged
type ConfigPatch struct {
	HostSelection *string `json:"host_selection,omitempty"`
	TimerMinutes  *int    `json:"timer_minutes,omitempty"`
}

// ToModel converts the patch to its model form
func (p ConfigPatch) ToModel() model.ConfigPatch {
	var patch model.ConfigPatch
	if p.HostSelection != nil {
		hs := model.HostSelection(*p.HostSelection)
		patch.HostSelection = &hs
	}
	patch.TimerMinutes = p.TimerMinutes
	return patch
}
