// Package api provides the HTTP REST API for the shared World.
//
// Endpoints:
//
// World:
//   - GET /api/world - Dimensions, robots and tile counts
//   - GET /api/world/height - Number of rows: {"height": 20}
//   - GET /api/world/width - Number of columns: {"width": 40}
//   - GET /api/world/frame - The rendered grid as plain text
//   - GET /api/world/snapshot - The current snapshot document
//   - POST /api/world/save - Persist the World now
//
// Robots:
//   - POST /api/robots - Add a robot at the origin: {"name": "karl"}
//   - GET /api/robots - List robots
//   - GET /api/robots/{name} - Robot position: {"name": "karl", "x": 0, "y": 2}
//   - POST /api/robots/{name}/move - Move a robot: {"direction": "forward", "step": 2}
//
// Tiles:
//   - POST /api/tiles - Place a tile: {"tile": "Wall", "x": 3, "y": 4}
//
// Change feed:
//   - GET /ws - WebSocket stream of robot_changed and tile_changed events
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run(ctx)
//	server := api.NewServer(service.NewWorldService(manager, hub), hub)
//	http.ListenAndServe(":8080", server)
//
// Error Handling:
//
// Errors are returned as JSON with a status derived from the error:
//
//	{"error": "robot \"ghost\": not found"}
//
//   - 400 for invalid arguments (unknown tile, empty or duplicate name, bad direction)
//   - 404 for unknown robots
//   - 422 for moves rejected as too far
//   - 503 when the request is cancelled or times out
//   - 500 for store failures
package api
