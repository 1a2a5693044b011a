package session

import (
	"fmt"
	"time"

	"labyrinth/internal/config"
	"labyrinth/internal/logging"
	"labyrinth/internal/replay"
	"labyrinth/internal/sim"
)

// Session ties a simulation to the optional replay recorder and clamps the
// frame step. Frontends own one Session and call Step once per frame.
type Session struct {
	sim     *sim.Simulation
	rec     *replay.Writer
	log     *logging.Logger
	maxStep float64
	clock   func() time.Time
}

// Option configures a Session.
type Option func(*Session)

// WithClock overrides the wall clock used for replay timestamps.
func WithClock(clock func() time.Time) Option {
	return func(s *Session) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithLogger sets the logger. The default is the global logger.
func WithLogger(l *logging.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

// LoadLevel returns the level at path, or the built-in level when path is empty.
func LoadLevel(path string) (sim.Level, error) {
	if path == "" {
		return sim.DefaultLevel(), nil
	}
	return sim.LoadLevel(path)
}

// New loads the configured level, builds the simulation and, when a replay
// directory is configured, starts recording.
func New(cfg *config.Config, opts ...Option) (*Session, error) {
	s := &Session{
		log:     logging.L(),
		maxStep: cfg.MaxStep(),
		clock:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	level, err := LoadLevel(cfg.LevelPath)
	if err != nil {
		return nil, err
	}
	s.sim, err = sim.New(level, sim.WithLogger(s.log))
	if err != nil {
		return nil, err
	}

	if cfg.ReplayDir != "" {
		s.rec, err = replay.NewWriter(cfg.ReplayDir, level.Name, s.clock)
		if err != nil {
			return nil, fmt.Errorf("start replay: %w", err)
		}
		s.log.Info("recording replay", logging.String("dir", s.rec.Dir()))
		s.sim.Events().SubscribeAll(s.recordEvent)
	}
	return s, nil
}

// Sim exposes the simulation for read access and event subscription.
func (s *Session) Sim() *sim.Simulation { return s.sim }

// Recording reports whether a replay is being written.
func (s *Session) Recording() bool { return s.rec != nil }

// Step advances one frame. dt is clamped to [0, maxStep]; NaN counts as 0.
func (s *Session) Step(dt float64, keys sim.Keys) {
	if !(dt > 0) {
		dt = 0
	} else if dt > s.maxStep {
		dt = s.maxStep
	}
	s.sim.Step(dt, keys)
	if s.rec == nil {
		return
	}
	snap := s.sim.Snapshot()
	err := s.rec.AppendFrame(replay.Frame{
		Tick:      snap.Tick,
		DT:        dt,
		Keys:      keys.Bits(),
		Phase:     snap.Phase.String(),
		BallX:     snap.BallPosition.X(),
		BallY:     snap.BallPosition.Y(),
		BallZ:     snap.BallPosition.Z(),
		BallScale: snap.BallScale,
		TiltX:     snap.Tilt.X(),
		TiltY:     snap.Tilt.Y(),
	})
	if err != nil {
		s.stopRecording(err)
	}
}

// Done reports whether the game asked to exit.
func (s *Session) Done() bool { return s.sim.Done() }

// Close finalises the replay, if any.
func (s *Session) Close() error {
	if s.rec == nil {
		return nil
	}
	outcome := "quit"
	if s.sim.Stats().Won {
		outcome = "won"
	}
	s.rec.SetOutcome(outcome)
	err := s.rec.Close()
	s.rec = nil
	if err != nil {
		return fmt.Errorf("close replay: %w", err)
	}
	return nil
}

func (s *Session) recordEvent(e sim.Event) {
	if s.rec == nil {
		return
	}
	re := replay.Event{
		Tick:  e.Tick,
		Type:  e.Type.String(),
		X:     e.X,
		Z:     e.Z,
		Speed: e.Speed,
		Index: e.Index,
		Final: e.Final,
	}
	if e.Type == sim.EventPhaseChanged {
		re.From, re.To = e.From.String(), e.To.String()
	}
	if err := s.rec.AppendEvent(re); err != nil {
		s.stopRecording(err)
	}
}

// stopRecording drops the recorder after a write error; the game goes on.
func (s *Session) stopRecording(err error) {
	s.log.Error("replay disabled after write error", logging.Error(err))
	_ = s.rec.Close()
	s.rec = nil
}
