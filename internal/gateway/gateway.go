package gateway

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/mcoot/whoknow/internal/api/response"
	"github.com/mcoot/whoknow/internal/dependencies/random"
	"github.com/mcoot/whoknow/internal/model"
	"github.com/mcoot/whoknow/internal/services/dispatch"
)

// Gateway serves the websocket transport. Each connection is one player
// identity; the gateway also routes dispatcher pushes to connections.
type Gateway struct {
	cfg      Config
	random   random.Random
	logger   *slog.Logger
	upgrader websocket.Upgrader

	mu    sync.RWMutex
	conns map[model.PlayerID]*conn
	rooms map[model.RoomCode]map[model.PlayerID]struct{}
}

var _ dispatch.Notifier = (*Gateway)(nil)

// New creates a new Gateway
func New(cfg Config, random random.Random, logger *slog.Logger) *Gateway {
	g := &Gateway{
		cfg:    cfg,
		random: random,
		logger: logger.With(slog.String("component", "gateway")),
		conns:  make(map[model.PlayerID]*conn),
		rooms:  make(map[model.RoomCode]map[model.PlayerID]struct{}),
	}
	g.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if cfg.CheckOrigin == nil {
				return true
			}
			return cfg.CheckOrigin(r.Header.Get("Origin"))
		},
	}
	return g
}

// Handler returns the upgrade endpoint, running commands through cmds
func (g *Gateway) Handler(cmds dispatch.DispatcherInterface) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := g.upgrader.Upgrade(w, r, nil)
		if err != nil {
			// Upgrade has already replied to the client
			g.logger.Warn("websocket upgrade failed", slog.String("error", err.Error()))
			return
		}

		c := &conn{
			id:      model.PlayerID(g.random.ID()),
			ws:      ws,
			send:    make(chan []byte, g.cfg.SendBufferSize),
			done:    make(chan struct{}),
			limiter: rate.NewLimiter(g.cfg.RateLimit, g.cfg.RateBurst),
			cfg:     g.cfg,
			logger:  g.logger,
		}
		g.add(c)
		defer g.remove(c)

		g.logger.Info("websocket connected",
			slog.String("player_id", string(c.id)),
			slog.String("remote_addr", r.RemoteAddr))

		c.enqueue(g.frame(dispatch.Message{
			Event: model.EventWelcome,
			Data:  response.Welcome{PlayerID: string(c.id)},
		}))

		go c.writePump()
		c.readPump(r.Context(), cmds)
	})
}

func (g *Gateway) add(c *conn) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.conns[c.id] = c
}

// remove drops a closed connection and its room subscriptions
func (g *Gateway) remove(c *conn) {
	g.mu.Lock()
	delete(g.conns, c.id)
	left := 0
	for code, members := range g.rooms {
		if _, ok := members[c.id]; !ok {
			continue
		}
		delete(members, c.id)
		left++
		if len(members) == 0 {
			delete(g.rooms, code)
		}
	}
	g.mu.Unlock()

	c.close()
	g.logger.Info("websocket disconnected",
		slog.String("player_id", string(c.id)),
		slog.Int("rooms_left", left))
}

// ConnectionCount returns the number of open connections
func (g *Gateway) ConnectionCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.conns)
}

// Subscribe routes room broadcasts to the player's connection, if it has one
func (g *Gateway) Subscribe(code model.RoomCode, playerID model.PlayerID) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.conns[playerID]; !ok {
		return
	}
	members, ok := g.rooms[code]
	if !ok {
		members = make(map[model.PlayerID]struct{})
		g.rooms[code] = members
	}
	members[playerID] = struct{}{}
}

// Broadcast pushes a message to every connection subscribed to the room
func (g *Gateway) Broadcast(code model.RoomCode, msg dispatch.Message) {
	data := g.frame(msg)
	if data == nil {
		return
	}

	g.mu.RLock()
	defer g.mu.RUnlock()
	for id := range g.rooms[code] {
		if c, ok := g.conns[id]; ok {
			c.enqueue(data)
		}
	}
}

// Send pushes a message to one player's connection
func (g *Gateway) Send(code model.RoomCode, playerID model.PlayerID, msg dispatch.Message) {
	g.mu.RLock()
	c, ok := g.conns[playerID]
	g.mu.RUnlock()
	if !ok {
		return
	}
	if data := g.frame(msg); data != nil {
		c.enqueue(data)
	}
}

func (g *Gateway) frame(msg dispatch.Message) []byte {
	data, err := json.Marshal(msg)
	if err != nil {
		g.logger.Error("failed to encode websocket message",
			slog.String("event", string(msg.Event)),
			slog.String("error", err.Error()))
		return nil
	}
	return data
}
