package tui

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/wricardo/rusty-world/game/engine"
)

// DefaultRedraw is the redraw interval used when Options.Redraw is unset
const DefaultRedraw = 50 * time.Millisecond

// World is the part of the world service the control loop needs
type World interface {
	Frame(ctx context.Context) (*engine.Frame, error)
	Nudge(ctx context.Context, name string, dx, dy int32) (engine.Position, error)
}

// Options configures Run
type Options struct {
	// Robot is the name of the robot moved by the arrow keys
	Robot  string
	Redraw time.Duration
}

// Run draws the World on screen until the user quits or ctx is cancelled.
// screen is closed on return.
func Run(ctx context.Context, screen Screen, world World, opts Options) error {
	defer func() {
		if err := screen.Close(); err != nil {
			log.Printf("[TUI] failed to close screen: %v", err)
		}
	}()

	redraw := opts.Redraw
	if redraw <= 0 {
		redraw = DefaultRedraw
	}
	ticker := time.NewTicker(redraw)
	defer ticker.Stop()

	for {
		frame, err := world.Frame(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("failed to render frame: %w", err)
		}
		if err := screen.Draw(frame, statusLine(frame, opts.Robot)); err != nil {
			return fmt.Errorf("failed to draw frame: %w", err)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		case ev, ok := <-screen.Events():
			if !ok {
				return nil
			}
			if ev.Err != nil {
				return fmt.Errorf("terminal input: %w", ev.Err)
			}
			if ev.Key == KeyQuit {
				log.Printf("[TUI] quit requested")
				return nil
			}
			handleKey(ctx, world, opts.Robot, ev.Key)
		}
	}
}

func handleKey(ctx context.Context, world World, robot string, key Key) {
	var dx, dy int32
	switch key {
	case KeyUp:
		dy = -1
	case KeyDown:
		dy = 1
	case KeyLeft:
		dx = -1
	case KeyRight:
		dx = 1
	default:
		return
	}

	if _, err := world.Nudge(ctx, robot, dx, dy); err != nil {
		log.Printf("[TUI] failed to move %s: %v", robot, err)
	}
}

func statusLine(frame *engine.Frame, name string) string {
	for _, robot := range frame.Robots {
		if robot.Name == name {
			return fmt.Sprintf("%s %s charge %d | arrows move, q quits", robot.Name, robot.Position, robot.Charge)
		}
	}
	return fmt.Sprintf("%s is not in the world | q quits", name)
}
