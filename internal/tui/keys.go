package tui

import (
	"time"

	"github.com/gdamore/tcell/v2"

	"labyrinth/internal/sim"
)

// Terminals report no key releases, so a key counts as held for a while after
// each press. The first press of a run gets DefaultFirstHoldWindow, which
// covers the terminal's delay before auto-repeat starts. Once repeats arrive
// the shorter DefaultHoldWindow applies.
const (
	DefaultHoldWindow      = 180 * time.Millisecond
	DefaultFirstHoldWindow = 600 * time.Millisecond
)

type direction int

const (
	dirUp direction = iota
	dirDown
	dirLeft
	dirRight
	numDirections
)

// directionFor maps arrows, WASD and hjkl onto board directions.
func directionFor(key tcell.Key, r rune) (direction, bool) {
	switch key {
	case tcell.KeyUp:
		return dirUp, true
	case tcell.KeyDown:
		return dirDown, true
	case tcell.KeyLeft:
		return dirLeft, true
	case tcell.KeyRight:
		return dirRight, true
	case tcell.KeyRune:
		switch r {
		case 'w', 'W', 'k':
			return dirUp, true
		case 's', 'S', 'j':
			return dirDown, true
		case 'a', 'A', 'h':
			return dirLeft, true
		case 'd', 'D', 'l':
			return dirRight, true
		}
	}
	return 0, false
}

// HeldKeys turns press events into a held-key state.
type HeldKeys struct {
	window    time.Duration // between repeats
	first     time.Duration // after the first press of a run
	last      [numDirections]time.Time
	repeating [numDirections]bool
}

// NewHeldKeys uses window between repeats. The first-press window is
// DefaultFirstHoldWindow, or window if that is longer.
func NewHeldKeys(window time.Duration) *HeldKeys {
	if window <= 0 {
		window = DefaultHoldWindow
	}
	return &HeldKeys{window: window, first: max(window, DefaultFirstHoldWindow)}
}

func (h *HeldKeys) press(d direction, now time.Time) {
	h.repeating[d] = h.held(d, now)
	h.last[d] = now
	// Reversing direction releases the opposite key at once.
	switch d {
	case dirUp:
		h.clear(dirDown)
	case dirDown:
		h.clear(dirUp)
	case dirLeft:
		h.clear(dirRight)
	case dirRight:
		h.clear(dirLeft)
	}
}

func (h *HeldKeys) clear(d direction) {
	h.last[d] = time.Time{}
	h.repeating[d] = false
}

func (h *HeldKeys) held(d direction, now time.Time) bool {
	t := h.last[d]
	if t.IsZero() {
		return false
	}
	window := h.first
	if h.repeating[d] {
		window = h.window
	}
	return now.Sub(t) < window
}

// Keys reports which directions are held at now.
func (h *HeldKeys) Keys(now time.Time) sim.Keys {
	return sim.Keys{
		Up:    h.held(dirUp, now),
		Down:  h.held(dirDown, now),
		Left:  h.held(dirLeft, now),
		Right: h.held(dirRight, now),
	}
}

// Release drops every held key.
func (h *HeldKeys) Release() {
	h.last = [numDirections]time.Time{}
	h.repeating = [numDirections]bool{}
}
