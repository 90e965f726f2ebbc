package dispatch

import (
	"github.com/mcoot/whoknow/internal/model"
)

// Message is one pushed event. Every push channel frames it as
// {"event": ..., "data": ...}.
type Message struct {
	Event model.EventType `json:"event"`
	Data  any             `json:"data"`
}

// Notifier delivers messages to the players of a room
type Notifier interface {
	// Subscribe routes future room broadcasts to the player
	Subscribe(code model.RoomCode, playerID model.PlayerID)
	// Broadcast sends to every subscriber of the room
	Broadcast(code model.RoomCode, msg Message)
	// Send delivers to one player only
	Send(code model.RoomCode, playerID model.PlayerID, msg Message)
}

// FanOut forwards every call to each of its notifiers
type FanOut []Notifier

var _ Notifier = FanOut(nil)

func (f FanOut) Subscribe(code model.RoomCode, playerID model.PlayerID) {
	for _, n := range f {
		n.Subscribe(code, playerID)
	}
}

func (f FanOut) Broadcast(code model.RoomCode, msg Message) {
	for _, n := range f {
		n.Broadcast(code, msg)
	}
}

func (f FanOut) Send(code model.RoomCode, playerID model.PlayerID, msg Message) {
	for _, n := range f {
		n.Send(code, playerID, msg)
	}
}
