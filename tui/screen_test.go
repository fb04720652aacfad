package tui

import (
	"testing"

	"github.com/nsf/termbox-go"
)

func TestTranslateKey(t *testing.T) {
	tests := []struct {
		name     string
		event    termbox.Event
		expected Key
	}{
		{"arrow up", termbox.Event{Type: termbox.EventKey, Key: termbox.KeyArrowUp}, KeyUp},
		{"arrow down", termbox.Event{Type: termbox.EventKey, Key: termbox.KeyArrowDown}, KeyDown},
		{"arrow left", termbox.Event{Type: termbox.EventKey, Key: termbox.KeyArrowLeft}, KeyLeft},
		{"arrow right", termbox.Event{Type: termbox.EventKey, Key: termbox.KeyArrowRight}, KeyRight},
		{"q", termbox.Event{Type: termbox.EventKey, Ch: 'q'}, KeyQuit},
		{"escape", termbox.Event{Type: termbox.EventKey, Key: termbox.KeyEsc}, KeyQuit},
		{"uppercase Q", termbox.Event{Type: termbox.EventKey, Ch: 'Q'}, KeyOther},
		{"ctrl-c", termbox.Event{Type: termbox.EventKey, Key: termbox.KeyCtrlC}, KeyOther},
		{"space", termbox.Event{Type: termbox.EventKey, Key: termbox.KeySpace}, KeyOther},
		{"letter", termbox.Event{Type: termbox.EventKey, Ch: 'w'}, KeyOther},
		{"enter", termbox.Event{Type: termbox.EventKey, Key: termbox.KeyEnter}, KeyOther},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := translateKey(test.event); got != test.expected {
				t.Errorf("translateKey: expected %v, got %v", test.expected, got)
			}
		})
	}
}
