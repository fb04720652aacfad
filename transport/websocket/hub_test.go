package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/wricardo/rusty-world/game/engine"
	"github.com/wricardo/rusty-world/game/service"
)

func startHub(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	server := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	t.Cleanup(func() {
		server.Close()
		cancel()
	})
	return hub, server
}

func dial(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Failed to dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitForClients(t *testing.T, hub *Hub, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount() != n {
		if time.Now().After(deadline) {
			t.Fatalf("Expected %d clients, have %d", n, hub.ClientCount())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func readEvent(t *testing.T, conn *websocket.Conn) service.ChangeEvent {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("Failed to read message: %v", err)
	}
	var ev service.ChangeEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		t.Fatalf("Failed to decode %s: %v", data, err)
	}
	return ev
}

func TestNewHub(t *testing.T) {
	hub := NewHub()

	if hub.clients == nil {
		t.Error("Hub clients map is nil")
	}
	if hub.broadcast == nil || hub.register == nil || hub.unregister == nil {
		t.Error("Hub channels must be initialized")
	}
	if hub.ClientCount() != 0 {
		t.Errorf("Expected no clients, got %d", hub.ClientCount())
	}

	var _ service.Notifier = hub
}

func TestHubRegisterUnregister(t *testing.T) {
	hub := NewHub()
	client := &Client{hub: hub, send: make(chan []byte, 1)}

	hub.registerClient(client)
	if !hub.clients[client] || hub.ClientCount() != 1 {
		t.Fatal("Client was not registered")
	}

	hub.unregisterClient(client)
	if hub.clients[client] || hub.ClientCount() != 0 {
		t.Error("Client was not unregistered")
	}
	if _, ok := <-client.send; ok {
		t.Error("Send channel should be closed")
	}

	// Unregistering twice is harmless
	hub.unregisterClient(client)
}

func TestHubBroadcastDropsSlowClient(t *testing.T) {
	hub := NewHub()
	slow := &Client{hub: hub, send: make(chan []byte)}
	fast := &Client{hub: hub, send: make(chan []byte, 1)}
	hub.registerClient(slow)
	hub.registerClient(fast)

	hub.broadcastMessage([]byte(`{}`))

	if hub.clients[slow] {
		t.Error("Slow client should be dropped")
	}
	if !hub.clients[fast] {
		t.Error("Fast client should stay registered")
	}
	if msg := <-fast.send; string(msg) != `{}` {
		t.Errorf("Unexpected message %s", msg)
	}
}

func TestHubPublishNeverBlocks(t *testing.T) {
	hub := NewHub()

	done := make(chan struct{})
	go func() {
		for i := 0; i < broadcastBacklog*2; i++ {
			hub.RobotChanged("karl", engine.Position{X: int32(i)})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked without a running hub")
	}
	if len(hub.broadcast) != broadcastBacklog {
		t.Errorf("Expected a full backlog of %d, got %d", broadcastBacklog, len(hub.broadcast))
	}
}

func TestHubFeed(t *testing.T) {
	hub, server := startHub(t)

	first := dial(t, server)
	second := dial(t, server)
	waitForClients(t, hub, 2)

	hub.RobotChanged("karl", engine.Position{X: 0, Y: 2})
	hub.TileChanged(engine.ChargePad, engine.Position{X: 3, Y: 4})

	for _, conn := range []*websocket.Conn{first, second} {
		robot := readEvent(t, conn)
		if robot.Event != service.EventRobotChanged || robot.Name != "karl" || robot.X != 0 || robot.Y != 2 {
			t.Errorf("Unexpected robot event %+v", robot)
		}
		tile := readEvent(t, conn)
		if tile.Event != service.EventTileChanged || tile.Name != "ChargePad" || tile.X != 3 || tile.Y != 4 {
			t.Errorf("Unexpected tile event %+v", tile)
		}
	}
}

func TestHubClientDisconnect(t *testing.T) {
	hub, server := startHub(t)

	conn := dial(t, server)
	waitForClients(t, hub, 1)

	conn.Close()
	waitForClients(t, hub, 0)
}

func TestHubStopsWithContext(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- hub.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Expected nil error, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
