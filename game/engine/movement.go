package engine

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrTooFar           = errors.New("movement too far")
	ErrUnknownDirection = errors.New("unknown direction")
	ErrUnknownTile      = errors.New("unknown tile")
)

// Direction is a movement command. The set of directions is closed:
// Forward, Backward, Left and Right are the only implementations.
type Direction interface {
	direction()
	String() string
}

// Forward moves Step units along the y axis
type Forward struct {
	Step int
}

// Backward moves one unit back along the y axis
type Backward struct{}

// Left moves one unit along the negative x axis
type Left struct{}

// Right moves one unit along the positive x axis
type Right struct{}

func (Forward) direction()  {}
func (Backward) direction() {}
func (Left) direction()     {}
func (Right) direction()    {}

func (f Forward) String() string { return fmt.Sprintf("forward(%d)", f.Step) }
func (Backward) String() string  { return "backward" }
func (Left) String() string      { return "left" }
func (Right) String() string     { return "right" }

// Moveable is implemented by entities that change position on a Direction
type Moveable interface {
	Move(direction Direction) error
}

// Apply computes the position reached from pos when moving in direction.
// Forward is accepted only for steps in [0, MaxForwardStep]; anything else
// returns ErrTooFar together with the unchanged position.
func Apply(pos Position, direction Direction) (Position, error) {
	switch d := direction.(type) {
	case Forward:
		if d.Step < 0 || d.Step > MaxForwardStep {
			return pos, fmt.Errorf("%w: forward step %d outside [0, %d]", ErrTooFar, d.Step, MaxForwardStep)
		}
		pos.Y += int32(d.Step)
	case Backward:
		pos.Y--
	case Left:
		pos.X--
	case Right:
		pos.X++
	case nil:
		return pos, fmt.Errorf("%w: nil", ErrUnknownDirection)
	default:
		return pos, fmt.Errorf("%w: %T", ErrUnknownDirection, direction)
	}
	return pos, nil
}

// ParseDirection converts a direction name into a Direction. The step is
// only used by "forward".
func ParseDirection(name string, step int) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "forward":
		return Forward{Step: step}, nil
	case "backward", "backwards":
		return Backward{}, nil
	case "left":
		return Left{}, nil
	case "right":
		return Right{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownDirection, name)
}

// Nudge moves pos by (dx, dy) and clamps the result into a grid of the given
// height and width. This is the interactive movement rule: it never fails.
func Nudge(pos Position, dx, dy int32, height, width uint32) Position {
	pos.X = clamp(pos.X+dx, int32(width)-1)
	pos.Y = clamp(pos.Y+dy, int32(height)-1)
	return pos
}

func clamp(v, hi int32) int32 {
	if v > hi {
		v = hi
	}
	if v < 0 {
		v = 0
	}
	return v
}
