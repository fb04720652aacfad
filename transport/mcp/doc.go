// Package mcp exposes the world to AI agents over the Model Context Protocol.
//
// The Client is a thin proxy: every tool call is translated into a REST API
// request, so agents, the terminal view and WebSocket subscribers all observe
// the same World.
//
// MCP Tools:
//   - add_robot: Add a robot at the origin
//   - list_robots: List robots with position and charge
//   - get_robot: Get the position of one robot
//   - move_robot: Move a robot forward (0-3 cells), backward, left or right
//   - add_tile: Place a tile
//   - world_info: Dimensions, robots and tile counts
//   - world_frame: Text rendering of the world
//   - save_world: Persist a snapshot immediately
//
// Transport Modes:
//
//	// Stdio
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
//
//	// HTTP
//	apiServer.Handle("/mcp", client.HTTPHandler())
package mcp
