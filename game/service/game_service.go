package service

import (
	"context"
	"errors"

	"github.com/wricardo/rusty-world/game/engine"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidArgument = errors.New("invalid argument")
)

// WorldService defines all operations on the shared World
type WorldService interface {
	// Robots
	AddRobot(ctx context.Context, name string) (*RobotInfo, error)
	GetRobot(ctx context.Context, name string) (x, y int32, err error)
	ListRobots(ctx context.Context) ([]RobotInfo, error)
	MoveRobot(ctx context.Context, name string, dir engine.Direction) (*MoveResult, error)
	Nudge(ctx context.Context, name string, dx, dy int32) (engine.Position, error)

	// Tiles
	AddTile(ctx context.Context, token string, x, y int32) (*TileInfo, error)

	// World state
	Height(ctx context.Context) (uint32, error)
	Width(ctx context.Context) (uint32, error)
	Info(ctx context.Context) (*WorldInfo, error)
	Frame(ctx context.Context) (*engine.Frame, error)

	// Persistence
	Snapshot(ctx context.Context) ([]byte, error)
	Save(ctx context.Context) error
}

// WorldGuard is the shared-state guard the service runs against
type WorldGuard interface {
	Read(fn func(w *engine.World))
	Write(fn func(w *engine.World))
	Encode() ([]byte, error)
	Save() error
}

// Notifier receives change notifications
type Notifier interface {
	RobotChanged(name string, pos engine.Position)
	TileChanged(tile engine.Tile, pos engine.Position)
}

// Notifiers fans every notification out to each listener in order
type Notifiers []Notifier

func (n Notifiers) RobotChanged(name string, pos engine.Position) {
	for _, notifier := range n {
		if notifier != nil {
			notifier.RobotChanged(name, pos)
		}
	}
}

func (n Notifiers) TileChanged(tile engine.Tile, pos engine.Position) {
	for _, notifier := range n {
		if notifier != nil {
			notifier.TileChanged(tile, pos)
		}
	}
}
