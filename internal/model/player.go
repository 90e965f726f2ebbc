package model

import "time"

// PlayerID is an opaque identity: a websocket connection or an API session's account
type PlayerID string

// Player is a seat in a room
type Player struct {
	ID          PlayerID
	Name        string
	Score       int  // Carries over between rounds in the same room
	Role        Role // RoleNone in the lobby
	HasBeenHost bool // Round-robin bookkeeping
	JoinedAt    time.Time
}

// Account is an API identity that can sit in rooms
type Account struct {
	ID          PlayerID
	DisplayName string
	IsGuest     bool // true for unregistered players
	CreatedAt   time.Time
}

// Credentials holds login data for a registered account
// Stored separately so password hashes never travel with sessions
type Credentials struct {
	PlayerID     PlayerID
	Username     string // login username (immutable)
	PasswordHash string // bcrypt hash
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
