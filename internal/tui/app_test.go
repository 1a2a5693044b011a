package tui

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"labyrinth/internal/config"
	"labyrinth/internal/logging"
	"labyrinth/internal/session"
	"labyrinth/internal/sim"
)

type recordingPlayer struct {
	cues []session.Cue
}

func (p *recordingPlayer) Play(c session.Cue, _ float64) { p.cues = append(p.cues, c) }

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func newTestApp(t *testing.T) (*App, *fakeClock, *recordingPlayer) {
	t.Helper()
	sess, err := session.New(&config.Config{MaxDT: 100 * time.Millisecond}, session.WithLogger(logging.NewTestLogger()))
	if err != nil {
		t.Fatalf("session.New: %v", err)
	}
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	player := &recordingPlayer{}
	app := NewApp(newScreen(t, 80, 24), sess, player, WithClock(clock.now))
	return app, clock, player
}

func TestAppQuitKeys(t *testing.T) {
	app, _, _ := newTestApp(t)
	for _, tc := range []struct {
		key tcell.Key
		r   rune
	}{
		{tcell.KeyEscape, 0},
		{tcell.KeyCtrlC, 0},
		{tcell.KeyRune, 'q'},
	} {
		if !app.handleKey(tc.key, tc.r) {
			t.Errorf("expected %v/%q to quit", tc.key, tc.r)
		}
	}
	if app.handleKey(tcell.KeyDown, 0) {
		t.Fatal("arrow keys must not quit")
	}
}

func TestAppFramesDriveSession(t *testing.T) {
	app, clock, player := newTestApp(t)

	// One second of frames finishes the grow animation.
	for i := 0; i < 63; i++ {
		clock.t = clock.t.Add(frameInterval)
		app.frame()
	}
	if got := app.sess.Sim().Phase(); got != sim.PhaseRunning {
		t.Fatalf("expected running after a second of frames, got %s", got)
	}
	if len(player.cues) != 1 || player.cues[0] != session.CueSpawn {
		t.Fatalf("expected spawn cue, got %v", player.cues)
	}

	app.handleKey(tcell.KeyDown, 0)
	clock.t = clock.t.Add(frameInterval)
	app.frame()
	if app.sess.Sim().Tilt().X() <= 0 {
		t.Fatalf("expected a held key to tilt the board, got %v", app.sess.Sim().Tilt())
	}

	// A single press with no repeats expires after the first-press window.
	clock.t = clock.t.Add(DefaultFirstHoldWindow)
	app.frame()
	before := app.sess.Sim().Tilt().X()
	clock.t = clock.t.Add(frameInterval)
	app.frame()
	if after := app.sess.Sim().Tilt().X(); after >= before {
		t.Fatalf("expected tilt to relax after release, %v -> %v", before, after)
	}
}

func TestAppFocusLossReleasesKeys(t *testing.T) {
	app, clock, _ := newTestApp(t)
	app.handleKey(tcell.KeyLeft, 0)
	if !app.keys.Keys(clock.t).Left {
		t.Fatal("expected left held")
	}
	app.handle(tcell.NewEventFocus(false))
	if app.keys.Keys(clock.t).Left {
		t.Fatal("focus loss should release keys")
	}
}
