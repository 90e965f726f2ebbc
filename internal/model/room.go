package model

import (
	"strings"
	"time"
)

// RoomCode is a short human-shareable token for joining rooms
type RoomCode string

// NormalizeRoomCode trims and upper-cases user-entered codes
func NormalizeRoomCode(s string) RoomCode {
	return RoomCode(strings.ToUpper(strings.TrimSpace(s)))
}

// RoomStatus is the phase a room is currently in
type RoomStatus string

const (
	StatusLobby       RoomStatus = "LOBBY"        // Waiting for players, config editable
	StatusWordSetting RoomStatus = "WORD_SETTING" // Roles assigned, in-game host picking the word
	StatusQuestioning RoomStatus = "QUESTIONING"  // Timer running, players asking yes/no questions
	StatusVoting      RoomStatus = "VOTING"       // Players naming the suspected insider
	StatusResult      RoomStatus = "RESULT"       // Round over, winner decided
)

// Role is the per-round role of a seated player
type Role string

const (
	RoleNone     Role = ""
	RoleHost     Role = "HOST"
	RoleInsider  Role = "INSIDER"
	RoleCommoner Role = "COMMONER"
)

// Winner records how a round ended
type Winner string

const (
	WinnerNone      Winner = ""
	WinnerCommoners Winner = "COMMONERS"
	WinnerInsider   Winner = "INSIDER"
	WinnerTimeout   Winner = "TIMEOUT"
)

// Room is a single game room and its current round
type Room struct {
	ID      string
	Code    RoomCode
	Status  RoomStatus
	HostID  PlayerID // Room host (creator); never changes
	Players []Player // Join order
	Config  RoomConfig
	Round   int // Incremented on every successful start

	EndTime *time.Time            // Only set while questioning
	Votes   map[PlayerID]PlayerID // voter -> suspect; only from voting onward
	Winner  Winner                // Only set in result

	CreatedAt time.Time
	UpdatedAt time.Time
}

// GetPlayer returns the seated player with the given ID, or nil if not found
func (r *Room) GetPlayer(id PlayerID) *Player {
	for i := range r.Players {
		if r.Players[i].ID == id {
			return &r.Players[i]
		}
	}
	return nil
}

// PlayerWithRole returns the first player holding the role, or nil
func (r *Room) PlayerWithRole(role Role) *Player {
	for i := range r.Players {
		if r.Players[i].Role == role {
			return &r.Players[i]
		}
	}
	return nil
}

// RoleOf returns the role of the given player, or RoleNone if not seated
func (r *Room) RoleOf(id PlayerID) Role {
	if p := r.GetPlayer(id); p != nil {
		return p.Role
	}
	return RoleNone
}

// InRound reports whether roles are currently assigned
func (r *Room) InRound() bool {
	return r.Status != StatusLobby
}

// VotersRequired is the number of votes that closes the voting phase
func (r *Room) VotersRequired() int {
	n := 0
	for _, p := range r.Players {
		if p.Role != RoleHost {
			n++
		}
	}
	return n
}

// Clone returns a deep copy of the room
func (r *Room) Clone() *Room {
	c := *r
	c.Players = make([]Player, len(r.Players))
	copy(c.Players, r.Players)
	if r.EndTime != nil {
		t := *r.EndTime
		c.EndTime = &t
	}
	if r.Votes != nil {
		c.Votes = make(map[PlayerID]PlayerID, len(r.Votes))
		for voter, target := range r.Votes {
			c.Votes[voter] = target
		}
	}
	return &c
}
