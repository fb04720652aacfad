package tui

import (
	"errors"
	"sync"

	"github.com/nsf/termbox-go"

	"github.com/wricardo/rusty-world/game/engine"
)

// Key is a key press the control loop understands
type Key int

const (
	KeyOther Key = iota
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyQuit
)

// Event is one input event. A non-nil Err ends the loop.
type Event struct {
	Key Key
	Err error
}

// Screen is the display the control loop draws on
type Screen interface {
	Draw(frame *engine.Frame, status string) error
	Events() <-chan Event
	Close() error
}

var errScreenClosed = errors.New("screen closed")

// TermboxScreen draws frames in the terminal with termbox
type TermboxScreen struct {
	events chan Event
	done   chan struct{}
	polled chan struct{}
	once   sync.Once
}

// Open takes over the terminal. The caller must Close the screen to restore it.
func Open() (*TermboxScreen, error) {
	if err := termbox.Init(); err != nil {
		return nil, err
	}
	termbox.SetInputMode(termbox.InputEsc)
	termbox.SetOutputMode(termbox.OutputNormal)

	s := &TermboxScreen{
		events: make(chan Event),
		done:   make(chan struct{}),
		polled: make(chan struct{}),
	}
	go s.poll()
	return s, nil
}

func (s *TermboxScreen) poll() {
	defer close(s.polled)
	for {
		ev := termbox.PollEvent()

		var out Event
		switch ev.Type {
		case termbox.EventInterrupt:
			return
		case termbox.EventError:
			out.Err = ev.Err
		case termbox.EventKey:
			out.Key = translateKey(ev)
		default:
			continue
		}

		// Keep polling after Close so Interrupt always has a receiver
		select {
		case s.events <- out:
		case <-s.done:
		}
	}
}

func translateKey(ev termbox.Event) Key {
	switch ev.Key {
	case termbox.KeyArrowUp:
		return KeyUp
	case termbox.KeyArrowDown:
		return KeyDown
	case termbox.KeyArrowLeft:
		return KeyLeft
	case termbox.KeyArrowRight:
		return KeyRight
	case termbox.KeyEsc:
		return KeyQuit
	}
	if ev.Ch == 'q' {
		return KeyQuit
	}
	return KeyOther
}

// Events returns the key events read from the terminal
func (s *TermboxScreen) Events() <-chan Event {
	return s.events
}

// Draw clears the terminal and paints frame with status on the line below it
func (s *TermboxScreen) Draw(frame *engine.Frame, status string) error {
	select {
	case <-s.done:
		return errScreenClosed
	default:
	}

	if err := termbox.Clear(termbox.ColorDefault, termbox.ColorDefault); err != nil {
		return err
	}
	for y, row := range frame.Cells {
		for x, glyph := range row {
			termbox.SetCell(x, y, glyph, glyphColor(glyph), termbox.ColorDefault)
		}
	}
	for x, ch := range status {
		termbox.SetCell(x, len(frame.Cells)+1, ch, termbox.ColorDefault, termbox.ColorDefault)
	}
	return termbox.Flush()
}

func glyphColor(glyph rune) termbox.Attribute {
	switch glyph {
	case engine.RobotGlyph:
		return termbox.ColorGreen | termbox.AttrBold
	case engine.Wall.Glyph():
		return termbox.ColorWhite
	case engine.ChargePad.Glyph():
		return termbox.ColorYellow
	}
	return termbox.ColorDefault
}

// Close stops the input reader and restores the terminal. It is safe to call
// more than once.
func (s *TermboxScreen) Close() error {
	s.once.Do(func() {
		close(s.done)
		termbox.Interrupt()
		<-s.polled
		termbox.Close()
	})
	return nil
}
