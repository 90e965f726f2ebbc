package model

import "time"

// Secret is the word for one round. It is kept apart from the Room so that
// room snapshots can be broadcast without leaking it.
type Secret struct {
	RoomCode RoomCode
	Round    int
	Word     string
	SetAt    time.Time
}

// PrivateView is what a single player may know about the current round
type PrivateView struct {
	RoomCode RoomCode
	PlayerID PlayerID
	Status   RoomStatus
	Role     Role   // RoleNone until disclosed
	Word     string // Only for the host and insider once the word is set
}
