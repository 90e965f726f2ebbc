package sse

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/mcoot/whoknow/internal/model"
	"github.com/mcoot/whoknow/internal/services/dispatch"
)

// HubManager manages hubs for all rooms and pushes dispatcher messages to them
type HubManager struct {
	hubs   map[model.RoomCode]*Hub
	mu     sync.RWMutex
	logger *slog.Logger
}

var _ dispatch.Notifier = (*HubManager)(nil)

// NewHubManager creates a new HubManager
func NewHubManager(logger *slog.Logger) *HubManager {
	return &HubManager{
		hubs:   make(map[model.RoomCode]*Hub),
		logger: logger.With(slog.String("component", "sse")),
	}
}

// GetOrCreateHub returns the hub for a room, creating one if it doesn't exist
func (m *HubManager) GetOrCreateHub(code model.RoomCode) *Hub {
	m.mu.Lock()
	defer m.mu.Unlock()

	if hub, ok := m.hubs[code]; ok {
		return hub
	}

	hub := NewHub(code, m.logger)
	m.hubs[code] = hub
	go hub.Run()
	return hub
}

// GetHub returns the hub for a room, or nil if it doesn't exist
func (m *HubManager) GetHub(code model.RoomCode) *Hub {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.hubs[code]
}

// RemoveHub removes and closes a hub
func (m *HubManager) RemoveHub(code model.RoomCode) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if hub, ok := m.hubs[code]; ok {
		hub.Close()
		delete(m.hubs, code)
		m.logger.Info("sse hub removed", slog.String("room_code", string(code)))
	}
}

// CleanupEmptyHubs removes hubs with no clients and reports how many went
func (m *HubManager) CleanupEmptyHubs() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for code, hub := range m.hubs {
		if hub.ClientCount() == 0 {
			hub.Close()
			delete(m.hubs, code)
			removed++
		}
	}
	if removed > 0 {
		m.logger.Info("sse empty hubs cleaned up", slog.Int("removed", removed))
	}
	return removed
}

// Subscribe is a no-op: SSE streams join a room by connecting to it
func (m *HubManager) Subscribe(code model.RoomCode, playerID model.PlayerID) {}

// Broadcast pushes a message to every stream open on the room
func (m *HubManager) Broadcast(code model.RoomCode, msg dispatch.Message) {
	hub := m.GetHub(code)
	if hub == nil {
		return
	}
	if data, ok := m.encode(msg); ok {
		hub.BroadcastEvent(string(msg.Event), data)
	}
}

// Send pushes a message to one player's streams on the room
func (m *HubManager) Send(code model.RoomCode, playerID model.PlayerID, msg dispatch.Message) {
	hub := m.GetHub(code)
	if hub == nil {
		return
	}
	if data, ok := m.encode(msg); ok {
		hub.SendEvent(playerID, string(msg.Event), data)
	}
}

// Frame renders a message the way it appears on the stream
func Frame(msg dispatch.Message) ([]byte, error) {
	data, err := json.Marshal(msg.Data)
	if err != nil {
		return nil, err
	}
	return formatSSEMessage(string(msg.Event), string(data)), nil
}

func (m *HubManager) encode(msg dispatch.Message) (string, bool) {
	data, err := json.Marshal(msg.Data)
	if err != nil {
		m.logger.Error("sse failed to encode message",
			slog.String("event", string(msg.Event)),
			slog.Any("error", err))
		return "", false
	}
	return string(data), true
}
