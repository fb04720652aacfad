// Package websocket provides the WebSocket change feed for the shared World.
//
// The websocket package implements:
//   - A single feed every connected client subscribes to
//   - Broadcasting RobotChanged and TileChanged notifications as JSON
//   - Connection lifecycle management with ping/pong keepalive
//
// Architecture:
//
// The package uses a hub-and-spoke model where a central Hub owns all
// connections. Each client has a read goroutine that detects disconnects and
// a write goroutine that drains its send queue.
//
// Message Protocol:
//
// Clients only receive. Each text message is one event:
//
//	{"event": "robot_changed", "name": "karl", "x": 0, "y": 2, "timestamp": "..."}
//	{"event": "tile_changed", "name": "Wall", "x": 3, "y": 4, "timestamp": "..."}
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run(ctx)
//
//	worldService := service.NewWorldService(manager, hub)
//	router.HandleFunc("/ws", hub.ServeWS)
//
// Concurrency:
//
// Publish never blocks the caller. Slow clients whose queue fills up are
// disconnected rather than holding back the others.
package websocket
