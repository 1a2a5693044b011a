package tui

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"

	"labyrinth/internal/logging"
	"labyrinth/internal/session"
)

// frameInterval is the redraw cadence, about 60 FPS.
const frameInterval = 16 * time.Millisecond

// Player plays a sound cue.
type Player interface {
	Play(cue session.Cue, volume float64)
}

// App runs a session on a terminal screen.
type App struct {
	screen tcell.Screen
	sess   *session.Session
	keys   *HeldKeys
	now    func() time.Time
	last   time.Time
	log    *logging.Logger
}

// Option configures an App.
type Option func(*App)

// WithClock overrides the frame clock.
func WithClock(now func() time.Time) Option {
	return func(a *App) {
		if now != nil {
			a.now = now
		}
	}
}

// WithHoldWindow sets how long a key press keeps the key held.
func WithHoldWindow(d time.Duration) Option {
	return func(a *App) { a.keys = NewHeldKeys(d) }
}

// NewApp wires sound cues and prepares the frame clock. The screen must be
// initialised.
func NewApp(screen tcell.Screen, sess *session.Session, sound Player, opts ...Option) *App {
	a := &App{
		screen: screen,
		sess:   sess,
		keys:   NewHeldKeys(DefaultHoldWindow),
		now:    time.Now,
		log:    logging.L().With(logging.String("component", "tui")),
	}
	for _, opt := range opts {
		opt(a)
	}
	if sound != nil {
		session.WireCues(sess.Sim().Events(), sound.Play)
	}
	a.last = a.now()
	return a
}

// Run polls input and steps the game until the player quits, the game asks
// to exit, or ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	events := make(chan tcell.Event, 64)
	go func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				// Screen finalised.
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	a.last = a.now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-events:
			if a.handle(ev) {
				a.log.Info("player quit")
				return nil
			}
		case <-ticker.C:
			a.frame()
			if a.sess.Done() {
				return nil
			}
		}
	}
}

// handle reports whether the event asks to quit.
func (a *App) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return a.handleKey(ev.Key(), ev.Rune())
	case *tcell.EventResize:
		a.screen.Sync()
	case *tcell.EventFocus:
		if !ev.Focused {
			a.keys.Release()
		}
	}
	return false
}

func (a *App) handleKey(key tcell.Key, r rune) bool {
	switch {
	case key == tcell.KeyEscape, key == tcell.KeyCtrlC:
		return true
	case key == tcell.KeyRune && (r == 'q' || r == 'Q'):
		return true
	}
	if d, ok := directionFor(key, r); ok {
		a.keys.press(d, a.now())
	}
	return false
}

// frame steps the session by the wall time since the last frame and redraws.
func (a *App) frame() {
	now := a.now()
	dt := now.Sub(a.last).Seconds()
	a.last = now
	a.sess.Step(dt, a.keys.Keys(now))
	Draw(a.screen, a.sess.Sim())
}
