package service

import (
	"time"

	"github.com/wricardo/rusty-world/game/engine"
)

// RobotInfo describes a robot as seen by the remote interface
type RobotInfo struct {
	Name   string `json:"name"`
	X      int32  `json:"x"`
	Y      int32  `json:"y"`
	Charge uint8  `json:"state_of_charge"`
}

// TileInfo describes a placed tile
type TileInfo struct {
	Tile engine.Tile `json:"tile"`
	X    int32       `json:"x"`
	Y    int32       `json:"y"`
}

// WorldInfo summarizes the World
type WorldInfo struct {
	Height     uint32              `json:"height"`
	Width      uint32              `json:"width"`
	Robots     []RobotInfo         `json:"robots"`
	Tiles      int                 `json:"tiles"`
	TileCounts map[engine.Tile]int `json:"tile_counts"`
}

// MoveResult contains the result of a move operation
type MoveResult struct {
	Direction string          `json:"direction"`
	From      engine.Position `json:"from"`
	To        engine.Position `json:"to"`
	Robot     RobotInfo       `json:"robot"`
}

func robotInfo(r engine.Robot) RobotInfo {
	return RobotInfo{
		Name:   r.Name,
		X:      r.Position.X,
		Y:      r.Position.Y,
		Charge: r.Charge,
	}
}

// Change event kinds carried by the WebSocket feed and the journal
const (
	EventRobotChanged = "robot_changed"
	EventTileChanged  = "tile_changed"
)

// ChangeEvent is the wire form of a notification. Name holds the robot name
// for robot events and the tile kind for tile events.
type ChangeEvent struct {
	Event     string    `json:"event"`
	Name      string    `json:"name"`
	X         int32     `json:"x"`
	Y         int32     `json:"y"`
	Timestamp time.Time `json:"timestamp"`
}

// NewRobotEvent builds the ChangeEvent for RobotChanged
func NewRobotEvent(name string, pos engine.Position) ChangeEvent {
	return ChangeEvent{Event: EventRobotChanged, Name: name, X: pos.X, Y: pos.Y, Timestamp: time.Now()}
}

// NewTileEvent builds the ChangeEvent for TileChanged
func NewTileEvent(tile engine.Tile, pos engine.Position) ChangeEvent {
	return ChangeEvent{Event: EventTileChanged, Name: string(tile), X: pos.X, Y: pos.Y, Timestamp: time.Now()}
}
