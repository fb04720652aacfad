// Command watch prints the world's change feed as it happens, one event per
// line.
//
//	go run ./cmd/watch -addr localhost:8080
//	go run ./cmd/watch -json
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/url"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/websocket"

	"github.com/wricardo/rusty-world/game/service"
)

var (
	addr    = flag.String("addr", "localhost:8080", "server host:port")
	rawJSON = flag.Bool("json", false, "print events as raw JSON")
)

func main() {
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	wsURL := url.URL{Scheme: "ws", Host: *addr, Path: "/ws"}
	if err := watch(ctx, wsURL.String(), os.Stdout, *rawJSON); err != nil {
		log.Fatalf("watch: %v", err)
	}
}

// watch connects to the change feed at wsURL and writes every event to out
// until ctx is done or the server closes the connection
func watch(ctx context.Context, wsURL string, out io.Writer, raw bool) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return err
	}
	defer conn.Close()
	log.Printf("[WS] connected to %s", wsURL)

	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return fmt.Errorf("read error: %w", err)
		}

		if raw {
			fmt.Fprintln(out, string(message))
			continue
		}

		var ev service.ChangeEvent
		if err := json.Unmarshal(message, &ev); err != nil {
			log.Printf("[WS] JSON parse error: %v", err)
			continue
		}
		fmt.Fprintln(out, formatEvent(ev))
	}
}

func formatEvent(ev service.ChangeEvent) string {
	stamp := ev.Timestamp.Format("15:04:05.000")
	switch ev.Event {
	case service.EventRobotChanged:
		return fmt.Sprintf("%s robot %s -> (%d/%d)", stamp, ev.Name, ev.X, ev.Y)
	case service.EventTileChanged:
		return fmt.Sprintf("%s tile %s at (%d/%d)", stamp, ev.Name, ev.X, ev.Y)
	}
	return fmt.Sprintf("%s %s %s (%d/%d)", stamp, ev.Event, ev.Name, ev.X, ev.Y)
}
