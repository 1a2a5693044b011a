package tui

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"labyrinth/internal/sim"
)

func TestDirectionFor(t *testing.T) {
	cases := []struct {
		key  tcell.Key
		r    rune
		want direction
		ok   bool
	}{
		{tcell.KeyUp, 0, dirUp, true},
		{tcell.KeyDown, 0, dirDown, true},
		{tcell.KeyLeft, 0, dirLeft, true},
		{tcell.KeyRight, 0, dirRight, true},
		{tcell.KeyRune, 'w', dirUp, true},
		{tcell.KeyRune, 'S', dirDown, true},
		{tcell.KeyRune, 'h', dirLeft, true},
		{tcell.KeyRune, 'l', dirRight, true},
		{tcell.KeyRune, 'x', 0, false},
		{tcell.KeyEnter, 0, 0, false},
	}
	for _, tc := range cases {
		got, ok := directionFor(tc.key, tc.r)
		if got != tc.want || ok != tc.ok {
			t.Errorf("directionFor(%v, %q) = (%v, %v), want (%v, %v)", tc.key, tc.r, got, ok, tc.want, tc.ok)
		}
	}
}

func TestHeldKeysWindow(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	h := NewHeldKeys(100 * time.Millisecond)

	if h.Keys(base) != (sim.Keys{}) {
		t.Fatal("nothing should be held initially")
	}
	h.press(dirDown, base)
	h.press(dirLeft, base.Add(50*time.Millisecond))

	if got := h.Keys(base.Add(60 * time.Millisecond)); got != (sim.Keys{Down: true, Left: true}) {
		t.Fatalf("expected down+left held, got %+v", got)
	}
	if got := h.Keys(base.Add(620 * time.Millisecond)); got != (sim.Keys{Left: true}) {
		t.Fatalf("expected only left held after down's first press expired, got %+v", got)
	}

	// Auto-repeat keeps the key alive on the short window.
	h.press(dirLeft, base.Add(600*time.Millisecond))
	if got := h.Keys(base.Add(690 * time.Millisecond)); !got.Left {
		t.Fatal("repeat should extend the hold")
	}
	if got := h.Keys(base.Add(710 * time.Millisecond)); got.Left {
		t.Fatal("once repeating, a missing repeat releases the key")
	}

	h.press(dirUp, base.Add(800*time.Millisecond))
	h.Release()
	if h.Keys(base.Add(800*time.Millisecond)) != (sim.Keys{}) {
		t.Fatal("release should drop every key")
	}
}

func TestHeldKeysCoverRepeatDelay(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	h := NewHeldKeys(0)
	h.press(dirUp, base)

	// Terminals wait 250-600ms before the first auto-repeat.
	for _, ms := range []int{16, 200, 400, 590} {
		if !h.Keys(base.Add(time.Duration(ms) * time.Millisecond)).Up {
			t.Fatalf("key dropped %dms after the first press", ms)
		}
	}

	// Repeats every 33ms after the delay.
	at := base.Add(500 * time.Millisecond)
	for i := 0; i < 10; i++ {
		h.press(dirUp, at)
		if !h.Keys(at.Add(20 * time.Millisecond)).Up {
			t.Fatalf("key dropped between repeats %d and %d", i, i+1)
		}
		at = at.Add(33 * time.Millisecond)
	}

	// Released after the last repeat: gone within the short window.
	last := at.Add(-33 * time.Millisecond)
	if h.Keys(last.Add(DefaultHoldWindow)).Up {
		t.Fatal("expected release one hold window after the last repeat")
	}

	// A fresh press later gets the long window again.
	again := last.Add(time.Second)
	h.press(dirUp, again)
	if !h.Keys(again.Add(400 * time.Millisecond)).Up {
		t.Fatal("a new press should cover the repeat delay again")
	}
}

func TestHeldKeysReverseReleasesOpposite(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	h := NewHeldKeys(0)
	h.press(dirUp, base)
	h.press(dirDown, base.Add(10*time.Millisecond))
	if got := h.Keys(base.Add(20 * time.Millisecond)); got != (sim.Keys{Down: true}) {
		t.Fatalf("expected the reversed key only, got %+v", got)
	}
}
