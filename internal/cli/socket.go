package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newSocketCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "socket",
		Short: "Play over a raw websocket session",
		Long: `Open a websocket to the server. The connection itself is your identity:
the server greets you with a welcome event carrying your player id.

Each input line is a command name followed by its JSON data, for example:

  create_room {"name":"Alice"}
  join_room {"code":"ABC234","name":"Bob"}
  start_game {"code":"ABC234"}
  set_word {"code":"ABC234","word":"lighthouse"}
  end_questioning {"code":"ABC234","timed_out":false}
  submit_vote {"code":"ABC234","target_id":"..."}
  reset_game {"code":"ABC234"}
  update_config {"code":"ABC234","config":{"timer_minutes":5}}

Every frame the server pushes is printed as one JSON line.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runSocket(ctx, socketURL(cfg.ServerURL), cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

func socketURL(server string) string {
	server = strings.TrimSuffix(server, "/")
	switch {
	case strings.HasPrefix(server, "https://"):
		server = "wss://" + strings.TrimPrefix(server, "https://")
	case strings.HasPrefix(server, "http://"):
		server = "ws://" + strings.TrimPrefix(server, "http://")
	}
	return server + "/ws"
}

// parseSocketLine turns `event {json}` into a frame
func parseSocketLine(line string) ([]byte, error) {
	event, data, _ := strings.Cut(strings.TrimSpace(line), " ")
	if event == "" {
		return nil, nil
	}
	data = strings.TrimSpace(data)
	if data == "" {
		data = "{}"
	}
	if !json.Valid([]byte(data)) {
		return nil, fmt.Errorf("data for %s is not valid JSON", event)
	}
	return json.Marshal(map[string]any{"event": event, "data": json.RawMessage(data)})
}

func runSocket(ctx context.Context, url string, in io.Reader, out io.Writer) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return fmt.Errorf("connection failed: %w", err)
	}
	defer func() { _ = conn.Close() }()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		for {
			_, frame, err := conn.ReadMessage()
			if err != nil {
				if ctx.Err() != nil || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					return nil
				}
				return fmt.Errorf("read failed: %w", err)
			}
			fmt.Fprintln(out, string(frame))
		}
	})

	g.Go(func() error {
		lines := make(chan string)
		go func() {
			defer close(lines)
			scanner := bufio.NewScanner(in)
			for scanner.Scan() {
				lines <- scanner.Text()
			}
		}()

		for {
			select {
			case <-ctx.Done():
				return closeSocket(conn)
			case line, ok := <-lines:
				if !ok {
					return closeSocket(conn)
				}
				frame, err := parseSocketLine(line)
				if err != nil {
					fmt.Fprintf(os.Stderr, "Error: %s\n", err)
					continue
				}
				if frame == nil {
					continue
				}
				if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
					return fmt.Errorf("write failed: %w", err)
				}
			}
		}
	})

	err = g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func closeSocket(conn *websocket.Conn) error {
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	if err := conn.WriteMessage(websocket.CloseMessage, msg); err != nil && !errors.Is(err, websocket.ErrCloseSent) {
		return err
	}
	return nil
}
