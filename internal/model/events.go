package model

// EventType identifies a message pushed to clients
type EventType string

const (
	EventRoomStateUpdated EventType = "room_state_updated"
	EventRoleAssigned     EventType = "role_assigned"
	EventWordRevealed     EventType = "word_revealed"
	EventError            EventType = "error"
	EventWelcome          EventType = "welcome"
)

// MinPlayers is the smallest roster that can start a round
const MinPlayers = 4
