// Package engine provides the world model for rusty-world.
//
// The engine package implements:
//   - Grid positions and tile kinds
//   - The movement state machine for robots
//   - The World aggregate holding tiles and robots
//   - Frame rendering of the grid for display
//
// Core Types:
//
// World owns a Position to Tile map and an ordered list of Robots. Robots
// move through Direction commands (Forward, Backward, Left, Right) that are
// validated by Apply. Frame is a detached rendering of a World.
//
// Usage:
//
//	world := engine.NewWorld(20, 40)
//	world.AddOuterWall(engine.Wall)
//	world.AddRobot("karl")
//
//	if err := world.MoveRobot("karl", engine.Forward{Step: 2}); err != nil {
//		log.Printf("move rejected: %v", err)
//	}
//	fmt.Print(world.Frame())
//
// Movement Rules:
//
// Backward, Left and Right move exactly one unit and never fail. Forward
// moves Step units along the y axis and is rejected with ErrTooFar unless
// 0 <= Step <= MaxForwardStep. A rejected move leaves the position unchanged.
//
// World is not safe for concurrent use. The session package guards the single
// World instance shared between the remote interface and the terminal client.
package engine
