package sim

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"labyrinth/internal/logging"
	"labyrinth/internal/physics"
)

// Obstacle is a static wall on the board.
type Obstacle struct {
	Position mgl64.Vec2
	Body     physics.Body
}

// Box returns the obstacle's half extents.
func (o Obstacle) Box() physics.Box {
	return o.Body.Collider.(physics.Box)
}

// Hole is a static trigger. Entering the final hole wins.
type Hole struct {
	Position mgl64.Vec2
	Body     physics.Body
	Final    bool
}

func (h Hole) Radius() float64 {
	return h.Body.Collider.(physics.Circle).Radius
}

// Stats summarises the session so far.
type Stats struct {
	Attempts int     // respawns including the first spawn
	Falls    int     // holes entered plus drops off the edge
	Bumps    int     // obstacle contacts
	RunTime  float64 // seconds spent in PhaseRunning
	Won      bool
}

// Snapshot is everything a renderer or recorder needs for one frame.
type Snapshot struct {
	Tick          uint64
	Phase         Phase
	PhaseProgress float64

	BallPosition    mgl64.Vec3
	BallRadius      float64
	BallScale       float64
	BallOrientation mgl64.Quat
	BallVelocity    mgl64.Vec2

	Tilt                mgl64.Vec2
	PlatformOrientation mgl64.Quat

	Stats Stats
}

// Option configures a Simulation.
type Option func(*Simulation)

// WithLogger sets the logger. The default is the global logger.
func WithLogger(l *logging.Logger) Option {
	return func(s *Simulation) {
		if l != nil {
			s.log = l
		}
	}
}

// WithTuning replaces the default tuning. Level overrides still apply.
func WithTuning(t Tuning) Option {
	return func(s *Simulation) {
		s.tuning = t
	}
}

// Simulation owns the whole game state and advances it one tick at a time.
// It is not safe for concurrent use.
type Simulation struct {
	tuning    Tuning
	arenaSize float64
	levelName string

	ball      Ball
	tilt      mgl64.Vec2
	obstacles []Obstacle
	holes     []Hole

	phase       Phase
	elapsed     float64
	pending     phaseSlot
	shrinkStart mgl64.Vec2
	exitSent    bool

	tick   uint64
	stats  Stats
	events *EventBus
	log    *logging.Logger
}

// New builds a simulation for level and enters PhaseRespawnGrow.
func New(level Level, opts ...Option) (*Simulation, error) {
	if err := level.Validate(); err != nil {
		return nil, fmt.Errorf("new simulation: %w", err)
	}
	s := &Simulation{
		tuning:    DefaultTuning(),
		arenaSize: level.ArenaSize,
		levelName: level.Name,
		events:    NewEventBus(),
		log:       logging.L(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.tuning = s.tuning.withLevel(level)
	s.log = s.log.With(logging.String("component", "sim"))

	s.ball = newBall(level.Ball)
	for _, o := range level.Obstacles {
		s.obstacles = append(s.obstacles, Obstacle{
			Position: mgl64.Vec2{o.X, o.Z},
			Body:     physics.NewStaticBody(physics.BoxFromSize(o.Width, o.Depth)),
		})
	}
	for _, h := range level.Holes {
		s.holes = append(s.holes, Hole{
			Position: mgl64.Vec2{h.X, h.Z},
			Body:     physics.NewStaticBody(physics.Circle{Radius: h.Radius}),
			Final:    h.Final,
		})
	}

	s.log.Info("level loaded",
		logging.String("level", level.Name),
		logging.Int("obstacles", len(s.obstacles)),
		logging.Int("holes", len(s.holes)),
		logging.Float64("push_factor", s.tuning.PushFactor),
	)
	s.enter(PhaseRespawnGrow)
	return s, nil
}

// Events returns the bus events are emitted on. Subscribe before stepping.
func (s *Simulation) Events() *EventBus { return s.events }

func (s *Simulation) Phase() Phase       { return s.phase }
func (s *Simulation) Tilt() mgl64.Vec2   { return s.tilt }
func (s *Simulation) Ball() Ball         { return s.ball }
func (s *Simulation) Stats() Stats       { return s.stats }
func (s *Simulation) Tuning() Tuning     { return s.tuning }
func (s *Simulation) ArenaSize() float64 { return s.arenaSize }
func (s *Simulation) LevelName() string  { return s.levelName }

// Obstacles returns the walls in insertion order. The slice is shared; do not modify.
func (s *Simulation) Obstacles() []Obstacle { return s.obstacles }

// Holes returns the holes in insertion order. The slice is shared; do not modify.
func (s *Simulation) Holes() []Hole { return s.holes }

// Done reports whether the exit request has been emitted.
func (s *Simulation) Done() bool { return s.exitSent }

// Step advances the game by dt seconds with the given keys held. A negative
// or NaN dt counts as zero.
func (s *Simulation) Step(dt float64, keys Keys) {
	if !(dt > 0) {
		dt = 0
	}
	s.tick++

	switch s.phase {
	case PhaseRespawnGrow:
		s.elapsed += dt
		p := progress(s.elapsed, s.tuning.GrowDuration)
		s.ball.Scale = p
		if p >= 1 {
			s.request(PhaseRunning)
		}

	case PhaseRunning:
		s.stats.RunTime += dt
		s.tilt = UpdateTilt(s.tilt, keys, dt, s.tuning)
		s.ball.integrate(s.tilt, dt, s.tuning)
		if s.ball.outOfBounds(s.arenaSize) {
			s.stats.Falls++
			s.emit(Event{Type: EventOutOfBounds})
			s.request(PhaseRespawnShrink)
			break
		}
		s.resolveObstacles()
		s.resolveHoles()

	case PhaseRespawnShrink:
		s.elapsed += dt
		ratio := 1 - progress(s.elapsed, s.tuning.ShrinkDuration)
		s.tilt = s.shrinkStart.Mul(ratio)
		s.ball.Scale = ratio
		if ratio <= 0 {
			s.request(PhaseRespawnGrow)
		}

	case PhaseSplash:
		s.elapsed += dt
		if !s.exitSent && progress(s.elapsed, s.tuning.SplashDuration) >= 1 {
			s.exitSent = true
			s.log.Info("exit requested", logging.Float64("run_time", s.stats.RunTime))
			s.emit(Event{Type: EventExitRequested})
		}
	}

	if to, ok := s.pending.take(); ok {
		s.enter(to)
	}
}

func (s *Simulation) resolveObstacles() {
	for i, o := range s.obstacles {
		pos := s.ball.XZ()
		c, ok := physics.Collide(s.ball.Body.Collider, pos, o.Body.Collider, o.Position)
		if !ok {
			continue
		}
		speed := s.ball.Body.Velocity.Len()
		physics.ResolveSolid(&pos, &s.ball.Body, c, s.tuning.PushFactor)
		s.ball.setXZ(pos)
		s.stats.Bumps++
		s.emit(Event{Type: EventObstacleHit, Speed: speed, Index: i})
	}
}

func (s *Simulation) resolveHoles() {
	pos := s.ball.XZ()
	for i, h := range s.holes {
		if !physics.Overlaps(s.ball.Body.Collider, pos, h.Body.Collider, h.Position) {
			continue
		}
		s.emit(Event{Type: EventHoleEntered, Index: i, Final: h.Final})
		if h.Final {
			s.request(PhaseSplash)
		} else {
			s.stats.Falls++
			s.request(PhaseRespawnShrink)
		}
		return
	}
}

// request offers a transition for the end of this tick. The first request
// wins; an undefined edge is a bug in the caller.
func (s *Simulation) request(to Phase) {
	if !s.phase.CanTransition(to) {
		panic(fmt.Sprintf("sim: undefined phase transition %s -> %s", s.phase, to))
	}
	if !s.pending.offer(to) {
		s.log.Debug("phase request rejected",
			logging.String("from", s.phase.String()),
			logging.String("to", to.String()),
			logging.String("pending", s.pending.to.String()),
		)
	}
}

func (s *Simulation) enter(to Phase) {
	from := s.phase
	s.phase = to
	s.elapsed = 0

	switch to {
	case PhaseRespawnGrow:
		s.ball.respawn()
		s.stats.Attempts++
	case PhaseRunning:
		s.ball.Scale = 1
	case PhaseRespawnShrink:
		s.shrinkStart = s.tilt
	case PhaseSplash:
		s.ball.Body.Stop()
		s.stats.Won = true
	}

	s.log.Info("phase changed",
		logging.String("from", from.String()),
		logging.String("to", to.String()),
		logging.Int("attempt", s.stats.Attempts),
	)
	s.emit(Event{Type: EventPhaseChanged, From: from, To: to})
}

func (s *Simulation) emit(e Event) {
	e.Tick = s.tick
	e.X, e.Z = s.ball.Position.X(), s.ball.Position.Z()
	s.events.Emit(e)
}

// Snapshot captures the current frame.
func (s *Simulation) Snapshot() Snapshot {
	var p float64
	switch s.phase {
	case PhaseRespawnGrow:
		p = progress(s.elapsed, s.tuning.GrowDuration)
	case PhaseRespawnShrink:
		p = progress(s.elapsed, s.tuning.ShrinkDuration)
	case PhaseSplash:
		p = progress(s.elapsed, s.tuning.SplashDuration)
	}
	return Snapshot{
		Tick:                s.tick,
		Phase:               s.phase,
		PhaseProgress:       p,
		BallPosition:        s.ball.Position,
		BallRadius:          s.ball.Radius,
		BallScale:           s.ball.Scale,
		BallOrientation:     s.ball.Orientation,
		BallVelocity:        s.ball.Body.Velocity,
		Tilt:                s.tilt,
		PlatformOrientation: PlatformOrientation(s.tilt),
		Stats:               s.stats,
	}
}
