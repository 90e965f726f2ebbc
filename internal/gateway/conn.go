package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/mcoot/whoknow/internal/api/apierr"
	"github.com/mcoot/whoknow/internal/model"
	"github.com/mcoot/whoknow/internal/services/dispatch"
)

// conn is one websocket client
type conn struct {
	id      model.PlayerID
	ws      *websocket.Conn
	send    chan []byte
	done    chan struct{}
	limiter *rate.Limiter
	cfg     Config
	logger  *slog.Logger

	closeOnce sync.Once
}

// enqueue queues a frame without blocking; slow clients lose messages
func (c *conn) enqueue(data []byte) {
	select {
	case <-c.done:
	case c.send <- data:
	default:
		c.logger.Warn("websocket message dropped - client buffer full",
			slog.String("player_id", string(c.id)))
	}
}

func (c *conn) close() {
	c.closeOnce.Do(func() { close(c.done) })
}

// readPump runs client commands until the socket fails or ctx ends
func (c *conn) readPump(ctx context.Context, cmds dispatch.DispatcherInterface) {
	c.ws.SetReadLimit(c.cfg.MaxMessageSize)
	_ = c.ws.SetReadDeadline(time.Now().Add(c.cfg.PongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(c.cfg.PongWait))
	})

	for {
		_, frame, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Debug("websocket read failed",
					slog.String("player_id", string(c.id)),
					slog.String("error", err.Error()))
			}
			return
		}

		if !c.limiter.Allow() {
			c.reject(apierr.NewRateLimitedError())
			continue
		}

		cmdCtx, cancel := context.WithTimeout(ctx, c.cfg.CommandTimeout)
		err = handle(cmdCtx, cmds, c.id, frame)
		cancel()
		if err != nil {
			c.reject(err)
		}
	}
}

// reject tells this client, and only this client, why a command failed
func (c *conn) reject(err error) {
	status, _ := apierr.FromError(err)
	if status >= 500 && !errors.Is(err, context.DeadlineExceeded) {
		c.logger.Error("websocket command failed",
			slog.String("player_id", string(c.id)),
			slog.String("error", err.Error()))
	}

	data, mErr := json.Marshal(errorMessage(err))
	if mErr != nil {
		return
	}
	c.enqueue(data)
}

// writePump owns all writes to the socket
func (c *conn) writePump() {
	ticker := time.NewTicker(c.cfg.PingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.ws.Close()
	}()

	for {
		select {
		case data := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(c.cfg.WriteWait))
			if err := c.ws.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(c.cfg.WriteWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.done:
			_ = c.ws.SetWriteDeadline(time.Now().Add(c.cfg.WriteWait))
			_ = c.ws.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}
