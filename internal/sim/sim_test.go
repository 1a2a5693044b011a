package sim

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"labyrinth/internal/logging"
)

// testLevel places the ball at (x, z) with a far-away goal unless holes
// supplies its own final hole.
func testLevel(x, z float64, obstacles []ObstacleSpec, holes []HoleSpec) Level {
	hasFinal := false
	for _, h := range holes {
		hasFinal = hasFinal || h.Final
	}
	if !hasFinal {
		holes = append(holes, HoleSpec{X: 5, Z: 5, Radius: 0.15, Final: true})
	}
	return Level{
		Name:      "test",
		ArenaSize: DefaultArenaSize,
		Ball:      BallSpec{X: x, Y: 0.5, Z: z, Radius: 0.5, MaxAccelX: 1, MaxAccelZ: 1},
		Obstacles: obstacles,
		Holes:     holes,
	}
}

func newTestSim(t *testing.T, level Level) (*Simulation, *[]Event) {
	t.Helper()
	s, err := New(level, WithLogger(logging.NewTestLogger()))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	events := &[]Event{}
	s.Events().SubscribeAll(func(e Event) { *events = append(*events, e) })
	return s, events
}

// runToRunning finishes the one second grow animation.
func runToRunning(t *testing.T, s *Simulation) {
	t.Helper()
	for i := 0; i < 4; i++ {
		s.Step(0.25, Keys{})
	}
	if s.Phase() != PhaseRunning {
		t.Fatalf("expected running after grow, got %s", s.Phase())
	}
}

func countEvents(events []Event, typ EventType) int {
	n := 0
	for _, e := range events {
		if e.Type == typ {
			n++
		}
	}
	return n
}

func TestNewStartsInRespawnGrow(t *testing.T) {
	s, _ := newTestSim(t, DefaultLevel())
	snap := s.Snapshot()
	if snap.Phase != PhaseRespawnGrow {
		t.Fatalf("expected respawn_grow, got %s", snap.Phase)
	}
	if snap.BallScale != 0 {
		t.Fatalf("expected ball scale 0, got %v", snap.BallScale)
	}
	if snap.BallPosition != (mgl64.Vec3{-5, 0.5, -5}) {
		t.Fatalf("expected ball at start, got %v", snap.BallPosition)
	}
	if snap.Stats.Attempts != 1 {
		t.Fatalf("expected first attempt, got %d", snap.Stats.Attempts)
	}
	if len(s.Obstacles()) != 5 || len(s.Holes()) != 6 {
		t.Fatalf("unexpected layout: %d obstacles, %d holes", len(s.Obstacles()), len(s.Holes()))
	}
	if b := s.Obstacles()[0].Box(); b.HalfW != 0.2 || b.HalfH != 4 {
		t.Fatalf("expected half extents from full sizes, got %+v", b)
	}
}

func TestNewRejectsInvalidLevel(t *testing.T) {
	l := DefaultLevel()
	l.Holes = l.Holes[1:]
	if _, err := New(l); !errors.Is(err, ErrNoFinalHole) {
		t.Fatalf("expected ErrNoFinalHole, got %v", err)
	}
	l = DefaultLevel()
	l.Ball.X = math.NaN()
	if _, err := New(l); !errors.Is(err, ErrNotFinite) {
		t.Fatalf("expected ErrNotFinite, got %v", err)
	}
}

func TestGrowReachesRunningAfterOneSecond(t *testing.T) {
	s, events := newTestSim(t, DefaultLevel())
	for i := 0; i < 9; i++ {
		s.Step(0.1, Keys{})
		if s.Phase() != PhaseRespawnGrow {
			t.Fatalf("left grow early at step %d", i)
		}
	}
	if scale := s.Ball().Scale; math.Abs(scale-0.9) > 1e-9 {
		t.Fatalf("expected scale 0.9, got %v", scale)
	}
	s.Step(0.1, Keys{})
	if s.Phase() != PhaseRunning {
		t.Fatalf("expected running after ten 0.1s steps, got %s", s.Phase())
	}
	if s.Ball().Scale != 1 {
		t.Fatalf("expected full scale, got %v", s.Ball().Scale)
	}
	if n := countEvents(*events, EventPhaseChanged); n != 1 {
		t.Fatalf("expected one phase change, got %d", n)
	}
}

func TestGrowIgnoresInput(t *testing.T) {
	s, _ := newTestSim(t, DefaultLevel())
	s.Step(0.5, Keys{Down: true, Left: true})
	if s.Tilt() != (mgl64.Vec2{}) {
		t.Fatalf("tilt moved during grow: %v", s.Tilt())
	}
}

func TestIntegrateAccelerationConvention(t *testing.T) {
	tun := DefaultTuning()
	b := newBall(BallSpec{Radius: 0.5, MaxAccelX: 1, MaxAccelZ: 1})

	b.integrate(mgl64.Vec2{tun.MaxAngle, 0}, 0.1, tun)
	if got := b.Body.Acceleration; math.Abs(got.X()) > 1e-12 || math.Abs(got.Y()-1) > 1e-12 {
		t.Fatalf("expected acceleration (0, 1) at full pitch, got %v", got)
	}

	b = newBall(BallSpec{Radius: 0.5, MaxAccelX: 1, MaxAccelZ: 1})
	b.integrate(mgl64.Vec2{0, tun.MaxAngle}, 0.1, tun)
	if got := b.Body.Acceleration; math.Abs(got.X()+1) > 1e-12 || math.Abs(got.Y()) > 1e-12 {
		t.Fatalf("expected acceleration (-1, 0) at full roll, got %v", got)
	}
}

func TestIntegrateUsesPreviousVelocity(t *testing.T) {
	tun := DefaultTuning()
	b := newBall(BallSpec{Radius: 0.5, MaxAccelX: 1, MaxAccelZ: 1})
	b.Body.Velocity = mgl64.Vec2{2, 0}

	b.integrate(mgl64.Vec2{tun.MaxAngle, 0}, 0.5, tun)
	if b.Position.X() != 1 || b.Position.Z() != 0 {
		t.Fatalf("expected position from old velocity (1, 0), got %v", b.Position)
	}
	if want := (mgl64.Vec2{2, 0.5}); !vecNear(b.Body.Velocity, want) {
		t.Fatalf("expected velocity %v, got %v", want, b.Body.Velocity)
	}
	if math.Abs(b.Orientation.Len()-1) > 1e-9 {
		t.Fatalf("orientation lost unit length: %v", b.Orientation.Len())
	}
	if b.Orientation.ApproxEqual(mgl64.QuatIdent()) {
		t.Fatal("expected the ball to roll")
	}
}

func TestSpeedDampScalesVelocity(t *testing.T) {
	tun := DefaultTuning()
	tun.SpeedDamp = 0.5
	b := newBall(BallSpec{Radius: 0.5, MaxAccelX: 1, MaxAccelZ: 1})
	b.Body.Velocity = mgl64.Vec2{2, 2}
	b.integrate(mgl64.Vec2{}, 0.1, tun)
	if !vecNear(b.Body.Velocity, mgl64.Vec2{1, 1}) {
		t.Fatalf("expected damped velocity (1, 1), got %v", b.Body.Velocity)
	}
}

func TestRunningTiltDrivesBall(t *testing.T) {
	s, _ := newTestSim(t, testLevel(0, 0, nil, nil))
	runToRunning(t, s)
	for i := 0; i < 10; i++ {
		s.Step(0.05, Keys{Down: true})
	}
	if s.Tilt().X() <= 0 {
		t.Fatalf("expected positive pitch, got %v", s.Tilt())
	}
	if s.Ball().Position.Z() <= 0 {
		t.Fatalf("expected ball to roll towards +Z, got %v", s.Ball().Position)
	}
	if s.Stats().RunTime < 0.5-1e-9 {
		t.Fatalf("expected run time to accumulate, got %v", s.Stats().RunTime)
	}
}

func TestObstacleDoubleCorrection(t *testing.T) {
	// Box spans x in [0.4, 1.4]; the ball at the origin overlaps it by 0.1.
	level := testLevel(0, 0, []ObstacleSpec{{X: 0.9, Z: 0, Width: 1, Depth: 1}}, nil)
	s, events := newTestSim(t, level)
	runToRunning(t, s)

	s.ball.Body.Velocity = mgl64.Vec2{1, 0}
	s.Step(0, Keys{})

	// Pushed out by 2 * 0.1, so the surface is r + d = 0.6 away.
	if got := s.Ball().Position.X(); math.Abs(got-(-0.2)) > 1e-9 {
		t.Fatalf("expected ball at x=-0.2, got %v", got)
	}
	if !vecNear(s.Ball().Body.Velocity, mgl64.Vec2{-1, 0}) {
		t.Fatalf("expected reflected velocity (-1, 0), got %v", s.Ball().Body.Velocity)
	}
	if n := countEvents(*events, EventObstacleHit); n != 1 {
		t.Fatalf("expected one obstacle hit, got %d", n)
	}
	if s.Stats().Bumps != 1 {
		t.Fatalf("expected one bump, got %d", s.Stats().Bumps)
	}
}

func TestObstaclesResolveBeforeHoles(t *testing.T) {
	// The hole overlaps the ball only before the wall pushes it back.
	level := testLevel(-3, -3,
		[]ObstacleSpec{{X: 0.9, Z: 0, Width: 1, Depth: 1}},
		[]HoleSpec{{X: 0.55, Z: 0, Radius: 0.15}},
	)
	s, events := newTestSim(t, level)
	runToRunning(t, s)
	s.ball.setXZ(mgl64.Vec2{0, 0})
	s.Step(0, Keys{})

	if s.Phase() != PhaseRunning {
		t.Fatalf("expected to stay running, got %s", s.Phase())
	}
	if n := countEvents(*events, EventHoleEntered); n != 0 {
		t.Fatalf("expected no hole event, got %d", n)
	}
}

func TestFinalHoleStartsSplashThenExitsOnce(t *testing.T) {
	level := testLevel(-3, -3, nil, []HoleSpec{{X: 0.3, Z: 0, Radius: 0.15, Final: true}})
	s, events := newTestSim(t, level)
	runToRunning(t, s)
	s.ball.setXZ(mgl64.Vec2{0, 0})

	s.Step(0.01, Keys{})
	if s.Phase() != PhaseSplash {
		t.Fatalf("expected splash, got %s", s.Phase())
	}
	if !s.Stats().Won {
		t.Fatal("expected win to be recorded")
	}

	frozen := s.Ball().Position
	s.Step(1, Keys{Down: true})
	s.Step(1, Keys{Down: true})
	if s.Done() {
		t.Fatal("exit requested before the splash finished")
	}
	if s.Ball().Position != frozen {
		t.Fatal("ball moved during splash")
	}
	s.Step(1, Keys{})
	s.Step(1, Keys{})
	if !s.Done() {
		t.Fatal("expected exit after three seconds of splash")
	}
	if n := countEvents(*events, EventExitRequested); n != 1 {
		t.Fatalf("expected exactly one exit request, got %d", n)
	}
	if s.Phase() != PhaseSplash {
		t.Fatalf("splash is terminal, got %s", s.Phase())
	}
}

func TestNonFinalHoleStartsShrink(t *testing.T) {
	level := testLevel(-3, -3, nil, []HoleSpec{{X: -0.3, Z: 0.2, Radius: 0.15}})
	s, events := newTestSim(t, level)
	runToRunning(t, s)
	s.ball.setXZ(mgl64.Vec2{0, 0})
	s.Step(0.01, Keys{})

	if s.Phase() != PhaseRespawnShrink {
		t.Fatalf("expected respawn_shrink, got %s", s.Phase())
	}
	var hole *Event
	for i := range *events {
		if (*events)[i].Type == EventHoleEntered {
			hole = &(*events)[i]
		}
	}
	if hole == nil || hole.Final || hole.Index != 0 {
		t.Fatalf("expected non-final hole event for index 0, got %+v", hole)
	}
	if s.Stats().Falls != 1 {
		t.Fatalf("expected one fall, got %d", s.Stats().Falls)
	}
}

func TestBallOnHoleCentre(t *testing.T) {
	cases := []struct {
		name  string
		final bool
		want  Phase
	}{
		{"goal", true, PhaseSplash},
		{"trap", false, PhaseRespawnShrink},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			level := testLevel(-3, -3, nil, []HoleSpec{{X: 2, Z: 1, Radius: 0.15, Final: tc.final}})
			s, events := newTestSim(t, level)
			runToRunning(t, s)
			s.ball.setXZ(mgl64.Vec2{2, 1})
			s.Step(0.01, Keys{})

			if s.Phase() != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, s.Phase())
			}
			if n := countEvents(*events, EventHoleEntered); n != 1 {
				t.Fatalf("expected one hole event, got %d", n)
			}
		})
	}
}

func TestFirstTriggeringHoleWins(t *testing.T) {
	level := testLevel(-3, -3, nil, []HoleSpec{
		{X: 0.2, Z: 0, Radius: 0.15},
		{X: -0.2, Z: 0, Radius: 0.15, Final: true},
	})
	s, events := newTestSim(t, level)
	runToRunning(t, s)
	s.ball.setXZ(mgl64.Vec2{0, 0})
	s.Step(0.01, Keys{})

	if s.Phase() != PhaseRespawnShrink {
		t.Fatalf("expected the first hole in insertion order to win, got %s", s.Phase())
	}
	if n := countEvents(*events, EventHoleEntered); n != 1 {
		t.Fatalf("expected one hole event, got %d", n)
	}
}

func TestNaNDTCountsAsZero(t *testing.T) {
	s, _ := newTestSim(t, DefaultLevel())
	s.Step(0.5, Keys{})
	s.Step(math.NaN(), Keys{})
	if p := s.Snapshot().PhaseProgress; math.Abs(p-0.5) > 1e-9 {
		t.Fatalf("expected progress to stay at 0.5, got %v", p)
	}
	s.Step(0.5, Keys{})
	if s.Phase() != PhaseRunning {
		t.Fatalf("expected running after a NaN step, got %s", s.Phase())
	}
}

func TestNaNPositionRespawnsInsteadOfWinning(t *testing.T) {
	level := testLevel(-3, -3, nil, nil)
	s, events := newTestSim(t, level)
	runToRunning(t, s)
	s.ball.setXZ(mgl64.Vec2{math.NaN(), -3})
	s.Step(0.01, Keys{})

	if s.Phase() != PhaseRespawnShrink {
		t.Fatalf("expected respawn_shrink, got %s", s.Phase())
	}
	if n := countEvents(*events, EventHoleEntered); n != 0 {
		t.Fatalf("expected no hole event, got %d", n)
	}
	for i := 0; i < 20; i++ {
		s.Step(0.1, Keys{})
	}
	if p := s.Ball().Position; math.IsNaN(p.X()) || p.X() != -3 {
		t.Fatalf("expected the respawn to restore the start, got %v", p)
	}
}

func TestOutOfBoundsSkipsCollisionsAndRespawns(t *testing.T) {
	// A final hole sits just past the edge; leaving the arena must not win.
	level := testLevel(5.5, 0, nil, []HoleSpec{{X: 6.5, Z: 0, Radius: 0.15, Final: true}})
	s, events := newTestSim(t, level)
	runToRunning(t, s)

	s.ball.Body.Velocity = mgl64.Vec2{10, 0}
	s.Step(0.1, Keys{})
	if s.Phase() != PhaseRespawnShrink {
		t.Fatalf("expected respawn_shrink, got %s", s.Phase())
	}
	if countEvents(*events, EventOutOfBounds) != 1 || countEvents(*events, EventHoleEntered) != 0 {
		t.Fatalf("unexpected events: %+v", *events)
	}

	for i := 0; i < 10; i++ {
		s.Step(0.1, Keys{})
	}
	if s.Phase() != PhaseRespawnGrow {
		t.Fatalf("expected respawn_grow after shrink, got %s", s.Phase())
	}
	b := s.Ball()
	if b.Body.Velocity != (mgl64.Vec2{}) || b.Body.Acceleration != (mgl64.Vec2{}) {
		t.Fatalf("expected motionless ball, got v=%v a=%v", b.Body.Velocity, b.Body.Acceleration)
	}
	if b.Position != b.Start || b.Scale != 0 {
		t.Fatalf("expected ball reset at start with scale 0, got %v scale %v", b.Position, b.Scale)
	}
	if s.Stats().Attempts != 2 {
		t.Fatalf("expected second attempt, got %d", s.Stats().Attempts)
	}
}

func TestShrinkAnnealsTilt(t *testing.T) {
	s, _ := newTestSim(t, testLevel(5.5, 0, nil, nil))
	runToRunning(t, s)

	s.tilt = mgl64.Vec2{0.4, -0.2}
	s.ball.Body.Velocity = mgl64.Vec2{10, 0}
	s.Step(0.1, Keys{})
	if s.Phase() != PhaseRespawnShrink {
		t.Fatalf("expected respawn_shrink, got %s", s.Phase())
	}
	captured := s.Tilt()

	for i := 0; i < 5; i++ {
		s.Step(0.1, Keys{Down: true})
	}
	if half := captured.Mul(0.5); !vecNear(s.Tilt(), half) {
		t.Fatalf("expected tilt %v halfway, got %v", half, s.Tilt())
	}
	if math.Abs(s.Ball().Scale-0.5) > 1e-9 {
		t.Fatalf("expected scale 0.5 halfway, got %v", s.Ball().Scale)
	}
	if p := s.Snapshot().PhaseProgress; math.Abs(p-0.5) > 1e-9 {
		t.Fatalf("expected progress 0.5, got %v", p)
	}

	for i := 0; i < 5; i++ {
		s.Step(0.1, Keys{})
	}
	if s.Tilt() != (mgl64.Vec2{}) {
		t.Fatalf("expected level board, got %v", s.Tilt())
	}
	if s.Phase() != PhaseRespawnGrow {
		t.Fatalf("expected respawn_grow, got %s", s.Phase())
	}
}

func TestRequestSlotFirstWins(t *testing.T) {
	s, _ := newTestSim(t, testLevel(0, 0, nil, nil))
	runToRunning(t, s)

	s.request(PhaseSplash)
	s.request(PhaseRespawnShrink)
	if to, ok := s.pending.take(); !ok || to != PhaseSplash {
		t.Fatalf("expected splash to hold the slot, got %s %v", to, ok)
	}
	if _, ok := s.pending.take(); ok {
		t.Fatal("slot should be empty after take")
	}
}

func TestUndefinedTransitionPanics(t *testing.T) {
	s, _ := newTestSim(t, DefaultLevel())
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for respawn_grow -> splash")
		}
	}()
	s.request(PhaseSplash)
}

func TestPhaseEdges(t *testing.T) {
	phases := []Phase{PhaseRespawnGrow, PhaseRunning, PhaseRespawnShrink, PhaseSplash}
	allowed := map[[2]Phase]bool{
		{PhaseRespawnGrow, PhaseRunning}:       true,
		{PhaseRunning, PhaseRespawnShrink}:     true,
		{PhaseRunning, PhaseSplash}:            true,
		{PhaseRespawnShrink, PhaseRespawnGrow}: true,
	}
	for _, from := range phases {
		for _, to := range phases {
			if got := from.CanTransition(to); got != allowed[[2]Phase{from, to}] {
				t.Errorf("%s -> %s: got %v", from, to, got)
			}
		}
	}
}

func TestLevelOverridesTuning(t *testing.T) {
	level := testLevel(0, 0, nil, nil)
	level.PushFactor = 1
	level.SpeedDamp = 0.99
	s, err := New(level, WithLogger(logging.NewTestLogger()))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if s.Tuning().PushFactor != 1 || s.Tuning().SpeedDamp != 0.99 {
		t.Fatalf("level overrides ignored: %+v", s.Tuning())
	}
}

func vecNear(a, b mgl64.Vec2) bool {
	return math.Abs(a.X()-b.X()) < 1e-9 && math.Abs(a.Y()-b.Y()) < 1e-9
}
