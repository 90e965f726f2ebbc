package sse

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/mcoot/whoknow/internal/model"
)

// envelope is a framed message and, for private messages, its recipient.
// A registration travels as an envelope too, so a new client only sees
// messages queued after it joined.
type envelope struct {
	to   model.PlayerID // empty for broadcasts
	data []byte

	join   *Client
	joined chan struct{}
}

// Hub manages SSE clients for a single room
type Hub struct {
	roomCode model.RoomCode
	clients  map[*Client]bool
	mu       sync.RWMutex
	logger   *slog.Logger

	// Channels for managing clients
	unregister chan *Client
	outbound   chan envelope
	done       chan struct{}
	stopped    chan struct{} // closed when Run returns
	closeOnce  sync.Once
}

// NewHub creates a new Hub for a room
func NewHub(roomCode model.RoomCode, logger *slog.Logger) *Hub {
	return &Hub{
		roomCode:   roomCode,
		clients:    make(map[*Client]bool),
		logger:     logger.With(slog.String("room_code", string(roomCode))),
		unregister: make(chan *Client),
		outbound:   make(chan envelope, 256),
		done:       make(chan struct{}),
		stopped:    make(chan struct{}),
	}
}

// Run starts the hub's event loop
func (h *Hub) Run() {
	h.logger.Debug("sse hub started")
	defer close(h.stopped)
	for {
		select {
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				clientCount := len(h.clients)
				h.mu.Unlock()
				h.logger.Info("sse client unregistered",
					slog.String("player_id", string(client.playerID)),
					slog.Duration("connection_duration", time.Since(client.connectedAt)),
					slog.Int("total_clients", clientCount))
			} else {
				h.mu.Unlock()
			}

		case env := <-h.outbound:
			if env.join != nil {
				h.add(env.join)
				close(env.joined)
				continue
			}
			h.deliver(env)

		case <-h.done:
			h.mu.Lock()
			clientCount := len(h.clients)
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			h.mu.Unlock()
			h.logger.Debug("sse hub stopped", slog.Int("disconnected_clients", clientCount))
			return
		}
	}
}

func (h *Hub) add(client *Client) {
	h.mu.Lock()
	h.clients[client] = true
	clientCount := len(h.clients)
	h.mu.Unlock()
	h.logger.Info("sse client registered",
		slog.String("player_id", string(client.playerID)),
		slog.Int("total_clients", clientCount))
}

func (h *Hub) deliver(env envelope) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	dropped := 0
	for client := range h.clients {
		if env.to != "" && client.playerID != env.to {
			continue
		}
		select {
		case client.send <- env.data:
		default:
			dropped++
			h.logger.Warn("sse message dropped - client buffer full",
				slog.String("player_id", string(client.playerID)))
		}
	}
	if dropped > 0 {
		h.logger.Warn("sse delivery partial failure", slog.Int("dropped", dropped))
	}
}

// Register adds a client to the hub and returns once it is listening.
// Messages queued before the call are not delivered to it.
func (h *Hub) Register(client *Client) {
	select {
	case <-h.done:
		close(client.send)
		return
	default:
	}

	joined := make(chan struct{})
	select {
	case h.outbound <- envelope{join: client, joined: joined}:
	case <-h.done:
		close(client.send)
		return
	}

	select {
	case <-joined:
	case <-h.stopped:
		// A client that made it in was closed on shutdown
		select {
		case <-joined:
		default:
			close(client.send)
		}
	}
}

// Unregister removes a client from the hub
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// BroadcastEvent sends an SSE event to every client
func (h *Hub) BroadcastEvent(eventName, data string) {
	h.enqueue(envelope{data: formatSSEMessage(eventName, data)})
}

// SendEvent sends an SSE event to every stream opened by one player
func (h *Hub) SendEvent(playerID model.PlayerID, eventName, data string) {
	h.enqueue(envelope{to: playerID, data: formatSSEMessage(eventName, data)})
}

func (h *Hub) enqueue(env envelope) {
	select {
	case h.outbound <- env:
	default:
		h.logger.Warn("sse message dropped - hub buffer full")
	}
}

// Close shuts down the hub
func (h *Hub) Close() {
	h.closeOnce.Do(func() { close(h.done) })
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// formatSSEMessage formats an SSE message with event name and data
// Multi-line data is properly formatted with "data: " prefix on each line
func formatSSEMessage(eventName, data string) []byte {
	var b strings.Builder
	b.WriteString("event: " + eventName + "\n")
	for _, line := range splitLines(data) {
		b.WriteString("data: " + line + "\n")
	}
	b.WriteString("\n")
	return []byte(b.String())
}

// splitLines splits a string into lines, handling various line endings
func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r", "")
	s = strings.TrimSuffix(s, "\n")
	return strings.Split(s, "\n")
}
