package response

import (
	"sort"
	"time"

	"github.com/mcoot/whoknow/internal/model"
	"github.com/mcoot/whoknow/internal/services/auth"
)

// Account represents an API identity in responses
type Account struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	IsGuest     bool   `json:"is_guest"`
}

// AccountFromModel converts a model.Account to a response Account
func AccountFromModel(a *model.Account) Account {
	return Account{
		ID:          string(a.ID),
		DisplayName: a.DisplayName,
		IsGuest:     a.IsGuest,
	}
}

// AuthResponse is the response for authentication endpoints
type AuthResponse struct {
	Player       Account `json:"player"`
	SessionToken string  `json:"session_token"`
}

// AuthResponseFromSession creates an AuthResponse from a session
func AuthResponseFromSession(s *auth.Session) AuthResponse {
	return AuthResponse{
		Player:       AccountFromModel(&s.Account),
		SessionToken: s.Token,
	}
}

// RoomConfig represents room configuration
type RoomConfig struct {
	HostSelection string `json:"host_selection"`
	TimerMinutes  int    `json:"timer_minutes"`
}

// RoomConfigFromModel converts model.RoomConfig
func RoomConfigFromModel(c model.RoomConfig) RoomConfig {
	return RoomConfig{
		HostSelection: string(c.HostSelection),
		TimerMinutes:  c.TimerMinutes,
	}
}

// RoomPlayer represents a seated player as everyone in the room sees them
type RoomPlayer struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Score       int    `json:"score"`
	Role        string `json:"role,omitempty"`
	HasBeenHost bool   `json:"has_been_host"`
	IsRoomHost  bool   `json:"is_room_host"`
}

// Room is the public room snapshot broadcast to every member
type Room struct {
	ID      string       `json:"id"`
	Code    string       `json:"code"`
	Status  string       `json:"status"`
	HostID  string       `json:"host_id"`
	Players []RoomPlayer `json:"players"`
	Config  RoomConfig   `json:"config"`
	Round   int          `json:"round"`

	EndTime *time.Time        `json:"end_time,omitempty"`
	Voted   []string          `json:"voted,omitempty"` // Who has voted, while voting is open
	Votes   map[string]string `json:"votes,omitempty"` // Full ballot, once the round is over
	Winner  string            `json:"winner,omitempty"`
}

// RoomFromModel builds the public snapshot of a room.
// The in-game host is public from word setting on; insider and commoner
// roles and individual votes stay hidden until the result.
func RoomFromModel(r *model.Room) Room {
	players := make([]RoomPlayer, len(r.Players))
	for i, p := range r.Players {
		players[i] = RoomPlayer{
			ID:          string(p.ID),
			Name:        p.Name,
			Score:       p.Score,
			Role:        string(publicRole(r, p.Role)),
			HasBeenHost: p.HasBeenHost,
			IsRoomHost:  p.ID == r.HostID,
		}
	}

	room := Room{
		ID:      r.ID,
		Code:    string(r.Code),
		Status:  string(r.Status),
		HostID:  string(r.HostID),
		Players: players,
		Config:  RoomConfigFromModel(r.Config),
		Round:   r.Round,
		EndTime: r.EndTime,
		Winner:  string(r.Winner),
	}

	switch r.Status {
	case model.StatusVoting:
		room.Voted = make([]string, 0, len(r.Votes))
		for voter := range r.Votes {
			room.Voted = append(room.Voted, string(voter))
		}
		sort.Strings(room.Voted)
	case model.StatusResult:
		if len(r.Votes) > 0 {
			room.Votes = make(map[string]string, len(r.Votes))
			for voter, target := range r.Votes {
				room.Votes[string(voter)] = string(target)
			}
		}
	}

	return room
}

func publicRole(r *model.Room, role model.Role) model.Role {
	switch {
	case r.Status == model.StatusResult:
		return role
	case r.InRound() && role == model.RoleHost:
		return role
	default:
		return model.RoleNone
	}
}

// PrivateView is what one player may know privately about the round
type PrivateView struct {
	RoomCode string `json:"room_code"`
	PlayerID string `json:"player_id"`
	Status   string `json:"status"`
	Role     string `json:"role,omitempty"`
	Word     string `json:"word,omitempty"`
}

// PrivateViewFromModel converts model.PrivateView
func PrivateViewFromModel(v *model.PrivateView) PrivateView {
	return PrivateView{
		RoomCode: string(v.RoomCode),
		PlayerID: string(v.PlayerID),
		Status:   string(v.Status),
		Role:     string(v.Role),
		Word:     v.Word,
	}
}

// RoleAssigned is the private payload telling a player their role
type RoleAssigned struct {
	RoomCode string `json:"room_code"`
	Role     string `json:"role"`
}

// WordRevealed is the private payload carrying the secret word
type WordRevealed struct {
	RoomCode string `json:"room_code"`
	Word     string `json:"word"`
}

// Welcome announces a websocket connection's identity
type Welcome struct {
	PlayerID string `json:"player_id"`
}

// Health is the health check payload
type Health struct {
	Status  string `json:"status"`
	Storage string `json:"storage"`
}
