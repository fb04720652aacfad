package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/wricardo/rusty-world/game/engine"
)

// worldServiceImpl implements the WorldService interface
type worldServiceImpl struct {
	guard    WorldGuard
	notifier Notifier
	order    *sequencer
}

// NewWorldService creates a new world service. notifier may be nil.
func NewWorldService(guard WorldGuard, notifier Notifier) WorldService {
	if notifier == nil {
		notifier = Notifiers{}
	}
	return &worldServiceImpl{
		guard:    guard,
		notifier: notifier,
		order:    newSequencer(),
	}
}

// AddRobot places a new robot at the origin
func (s *worldServiceImpl) AddRobot(ctx context.Context, name string) (*RobotInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("robot name cannot be empty: %w", ErrInvalidArgument)
	}

	var (
		info      RobotInfo
		duplicate bool
		seq       uint64
	)
	s.guard.Write(func(w *engine.World) {
		if _, exists := w.Robot(name); exists {
			duplicate = true
			return
		}
		info = robotInfo(*w.AddRobot(name))
		seq = s.order.ticket()
	})
	if duplicate {
		return nil, fmt.Errorf("robot %q already exists: %w", name, ErrInvalidArgument)
	}

	log.Printf("[ROBOT] added %s at (%d, %d)", info.Name, info.X, info.Y)
	s.order.emit(seq, func() {
		s.notifier.RobotChanged(info.Name, engine.NewPosition(info.X, info.Y))
	})
	return &info, nil
}

// AddTile places (or replaces) a tile at the given coordinates
func (s *worldServiceImpl) AddTile(ctx context.Context, token string, x, y int32) (*TileInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tile, err := engine.ParseTile(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}

	pos := engine.NewPosition(x, y)
	var seq uint64
	s.guard.Write(func(w *engine.World) {
		w.AddTile(pos, tile)
		seq = s.order.ticket()
	})

	log.Printf("[TILE] %s at %s", tile, pos)
	s.order.emit(seq, func() {
		s.notifier.TileChanged(tile, pos)
	})
	return &TileInfo{Tile: tile, X: x, Y: y}, nil
}

// GetRobot returns the position of the named robot
func (s *worldServiceImpl) GetRobot(ctx context.Context, name string) (int32, int32, error) {
	if err := ctx.Err(); err != nil {
		return 0, 0, err
	}

	var (
		pos   engine.Position
		found bool
	)
	s.guard.Read(func(w *engine.World) {
		pos, found = w.RobotPosition(name)
	})
	if !found {
		return 0, 0, fmt.Errorf("robot %q: %w", name, ErrNotFound)
	}
	return pos.X, pos.Y, nil
}

// ListRobots returns every robot in insertion order
func (s *worldServiceImpl) ListRobots(ctx context.Context) ([]RobotInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var robots []engine.Robot
	s.guard.Read(func(w *engine.World) {
		robots = w.Robots()
	})

	result := make([]RobotInfo, len(robots))
	for i, robot := range robots {
		result[i] = robotInfo(robot)
	}
	return result, nil
}

// MoveRobot applies a validated movement to the named robot
func (s *worldServiceImpl) MoveRobot(ctx context.Context, name string, dir engine.Direction) (*MoveResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if dir == nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, engine.ErrUnknownDirection)
	}

	var (
		result  MoveResult
		found   bool
		moveErr error
		seq     uint64
	)
	s.guard.Write(func(w *engine.World) {
		robot, ok := w.Robot(name)
		if !ok {
			return
		}
		found = true
		result.From = robot.Position
		moveErr = robot.Move(dir)
		result.To = robot.Position
		result.Robot = robotInfo(*robot)
		if moveErr == nil {
			seq = s.order.ticket()
		}
	})

	if !found {
		return nil, fmt.Errorf("robot %q: %w", name, ErrNotFound)
	}
	if moveErr != nil {
		log.Printf("[MOVE] %s %s rejected: %v", name, dir, moveErr)
		return nil, fmt.Errorf("move %s %s: %w", name, dir, moveErr)
	}

	result.Direction = dir.String()
	log.Printf("[MOVE] %s %s %s -> %s", name, dir, result.From, result.To)
	s.order.emit(seq, func() {
		s.notifier.RobotChanged(name, result.To)
	})
	return &result, nil
}

// Nudge moves the named robot one cell, clamped to the grid. No notification
// is emitted when the clamp leaves the robot where it was.
func (s *worldServiceImpl) Nudge(ctx context.Context, name string, dx, dy int32) (engine.Position, error) {
	if err := ctx.Err(); err != nil {
		return engine.Position{}, err
	}

	var (
		from, to engine.Position
		found    bool
		seq      uint64
	)
	s.guard.Write(func(w *engine.World) {
		robot, ok := w.Robot(name)
		if !ok {
			return
		}
		found = true
		from = robot.Position
		to = engine.Nudge(from, dx, dy, w.Height(), w.Width())
		robot.Position = to
		if to != from {
			seq = s.order.ticket()
		}
	})

	if !found {
		return engine.Position{}, fmt.Errorf("robot %q: %w", name, ErrNotFound)
	}
	if to != from {
		s.order.emit(seq, func() {
			s.notifier.RobotChanged(name, to)
		})
	}
	return to, nil
}

// Height returns the number of rows of the World
func (s *worldServiceImpl) Height(ctx context.Context) (uint32, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	var height uint32
	s.guard.Read(func(w *engine.World) {
		height = w.Height()
	})
	return height, nil
}

// Width returns the number of columns of the World
func (s *worldServiceImpl) Width(ctx context.Context) (uint32, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	var width uint32
	s.guard.Read(func(w *engine.World) {
		width = w.Width()
	})
	return width, nil
}

// Info summarizes the World in one consistent read
func (s *worldServiceImpl) Info(ctx context.Context) (*WorldInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		info  WorldInfo
		tiles map[engine.Position]engine.Tile
		bots  []engine.Robot
	)
	s.guard.Read(func(w *engine.World) {
		info.Height = w.Height()
		info.Width = w.Width()
		tiles = w.Tiles()
		bots = w.Robots()
	})

	info.Tiles = len(tiles)
	info.TileCounts = make(map[engine.Tile]int, len(engine.Tiles))
	for _, kind := range engine.Tiles {
		info.TileCounts[kind] = engine.CountTiles(tiles, kind)
	}
	info.Robots = make([]RobotInfo, len(bots))
	for i, robot := range bots {
		info.Robots[i] = robotInfo(robot)
	}
	return &info, nil
}

// Frame renders the World
func (s *worldServiceImpl) Frame(ctx context.Context) (*engine.Frame, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var frame engine.Frame
	s.guard.Read(func(w *engine.World) {
		frame = w.Frame()
	})
	return &frame, nil
}

// Snapshot returns the current snapshot document
func (s *worldServiceImpl) Snapshot(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.guard.Encode()
}

// Save persists the World through the guard's store
func (s *worldServiceImpl) Save(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.guard.Save(); err != nil {
		return err
	}
	log.Printf("[SNAPSHOT] saved on request")
	return nil
}
