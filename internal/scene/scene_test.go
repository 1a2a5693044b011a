package scene

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"labyrinth/internal/sim"
)

const eps = 1e-9

func near(a, b mgl64.Vec2) bool {
	return math.Abs(a.X()-b.X()) < eps && math.Abs(a.Y()-b.Y()) < eps
}

func flatSnapshot() sim.Snapshot {
	return sim.Snapshot{
		BallPosition:        mgl64.Vec3{1, 0.5, 2},
		BallRadius:          0.5,
		BallScale:           1,
		BallOrientation:     mgl64.QuatIdent(),
		PlatformOrientation: mgl64.QuatIdent(),
	}
}

func TestProjectFlatBoard(t *testing.T) {
	got := Project(mgl64.QuatIdent(), mgl64.Vec3{1, 2, 3})
	if want := (mgl64.Vec2{1, 3 - 2*Lift}); !near(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestProjectTiltedBoard(t *testing.T) {
	const a = 0.4
	q := sim.PlatformOrientation(mgl64.Vec2{a, 0})
	got := Project(q, mgl64.Vec3{0, 0, 5})
	// Rotating about X lifts the far edge: y' = -5 sin a, z' = 5 cos a.
	want := mgl64.Vec2{0, 5*math.Cos(a) + Lift*5*math.Sin(a)}
	if !near(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestFloorCornersWhenLevel(t *testing.T) {
	sc := BuildFrom(flatSnapshot(), 12, nil, nil)
	want := [4]mgl64.Vec2{{-6, -6}, {6, -6}, {6, 6}, {-6, 6}}
	for i := range want {
		if !near(sc.Floor.Corners[i], want[i]) {
			t.Errorf("corner %d: expected %v, got %v", i, want[i], sc.Floor.Corners[i])
		}
	}
	if sc.Floor.Surface != SurfaceFloor {
		t.Fatalf("unexpected floor surface %v", sc.Floor.Surface)
	}
	if want := 0.35 + 0.65*lightDir.Y(); math.Abs(sc.Floor.Shade-want) > eps {
		t.Fatalf("expected floor shade %v, got %v", want, sc.Floor.Shade)
	}
}

func TestExtentCoversBoardAtMaxTilt(t *testing.T) {
	m := sim.DefaultTuning().MaxAngle
	for _, tilt := range []mgl64.Vec2{{m, m}, {-m, m}, {m, -m}, {-m, -m}} {
		snap := flatSnapshot()
		snap.PlatformOrientation = sim.PlatformOrientation(tilt)
		sc := BuildFrom(snap, 12, nil, nil)
		for _, c := range sc.Floor.Corners {
			if math.Abs(c.X()) > sc.Extent-Margin || math.Abs(c.Y()) > sc.Extent-Margin {
				t.Fatalf("tilt %v: corner %v outside extent %v", tilt, c, sc.Extent)
			}
		}
	}
}

func TestWallsVisibleFacesAndOrder(t *testing.T) {
	s, err := sim.New(sim.DefaultLevel())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	obstacles := s.Obstacles()

	level := BuildFrom(flatSnapshot(), s.ArenaSize(), obstacles, nil)
	if len(level.Walls) != 2*len(obstacles) {
		t.Fatalf("level board: expected front and top per wall, got %d quads", len(level.Walls))
	}
	// The deepest wall (smallest Z) is drawn first; its top comes after its side.
	first := obstacles[1]
	if level.Walls[0].Surface != SurfaceWallSide || level.Walls[1].Surface != SurfaceWallTop {
		t.Fatalf("expected side then top, got %v then %v", level.Walls[0].Surface, level.Walls[1].Surface)
	}
	b := first.Box()
	wantTL := mgl64.Vec2{first.Position.X() - b.HalfW, first.Position.Y() - b.HalfH - Lift*WallHeight}
	if !near(level.Walls[1].Corners[0], wantTL) {
		t.Fatalf("expected first top corner %v, got %v", wantTL, level.Walls[1].Corners[0])
	}

	snap := flatSnapshot()
	snap.PlatformOrientation = sim.PlatformOrientation(mgl64.Vec2{0, 0.3})
	tilted := BuildFrom(snap, s.ArenaSize(), obstacles, nil)
	if len(tilted.Walls) != 3*len(obstacles) {
		t.Fatalf("tilted board: expected an extra side per wall, got %d quads", len(tilted.Walls))
	}
}

func TestBallAndSpot(t *testing.T) {
	sc := BuildFrom(flatSnapshot(), 12, nil, nil)
	if !sc.BallVisible || math.Abs(sc.Ball.Radius-0.5) > eps {
		t.Fatalf("expected visible ball of radius 0.5, got %+v", sc.Ball)
	}
	if want := (mgl64.Vec2{1, 2 - 0.5*Lift}); !near(sc.Ball.Center, want) {
		t.Fatalf("expected ball at %v, got %v", want, sc.Ball.Center)
	}
	if !sc.SpotVisible {
		t.Fatal("spot on top of an unrotated ball should be visible")
	}
	if want := sc.Ball.Center.Sub(mgl64.Vec2{0, 0.35 * Lift}); !near(sc.Spot, want) {
		t.Fatalf("expected spot at %v, got %v", want, sc.Spot)
	}

	snap := flatSnapshot()
	snap.BallOrientation = mgl64.QuatRotate(math.Pi, mgl64.Vec3{1, 0, 0})
	if BuildFrom(snap, 12, nil, nil).SpotVisible {
		t.Fatal("spot rolled underneath should be hidden")
	}

	snap = flatSnapshot()
	snap.BallScale = 0
	if BuildFrom(snap, 12, nil, nil).BallVisible {
		t.Fatal("ball at scale 0 should be hidden")
	}
}

func TestBuildHoles(t *testing.T) {
	s, err := sim.New(sim.DefaultLevel())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	sc := Build(s)
	if len(sc.Holes) != len(s.Holes()) {
		t.Fatalf("expected %d holes, got %d", len(s.Holes()), len(sc.Holes))
	}
	for i, h := range s.Holes() {
		if sc.Holes[i].Final != h.Final {
			t.Errorf("hole %d: final flag lost", i)
		}
		if !near(sc.Holes[i].Center, h.Position) {
			t.Errorf("hole %d: expected %v on a level board, got %v", i, h.Position, sc.Holes[i].Center)
		}
	}
}
