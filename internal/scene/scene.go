// Package scene turns a simulation snapshot into flat 2D geometry: the
// tilted board seen from above and slightly in front. Renderers only fill
// the quads and discs it returns, back to front.
package scene

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"

	"labyrinth/internal/sim"
)

const (
	// Lift is how far one unit of height moves a point up the screen.
	Lift = 0.55
	// WallHeight is the height of every obstacle above the floor.
	WallHeight = 0.6
	// Margin is the empty border kept around the board when fitting a view.
	Margin = 1.5
)

var (
	// lightDir points towards the light, in world space.
	lightDir = mgl64.Vec3{-0.4, 1, -0.6}.Normalize()
	// viewDir points towards the viewer; Project collapses points along it.
	viewDir = mgl64.Vec3{0, 1, Lift}
)

// Surface identifies what a quad is part of.
type Surface int

const (
	SurfaceFloor Surface = iota
	SurfaceWallSide
	SurfaceWallTop
)

// Quad is a projected convex quadrilateral. Shade is the Lambert term of its
// rotated normal, in [0, 1].
type Quad struct {
	Corners [4]mgl64.Vec2
	Surface Surface
	Shade   float64
}

// Disc is a projected circle. Holes and the ball are drawn as discs.
type Disc struct {
	Center mgl64.Vec2
	Radius float64
}

// Hole is a projected hole.
type Hole struct {
	Disc
	Final bool
}

// Scene is one frame of geometry, in draw order: Floor, Holes, Walls, Ball.
type Scene struct {
	Floor Quad
	Holes []Hole
	Walls []Quad

	Ball        Disc
	BallVisible bool
	// Spot is a marker fixed on the ball surface so rolling is visible.
	Spot        mgl64.Vec2
	SpotVisible bool

	// Extent is the half size of a square that contains the whole board at
	// any tilt, Margin included.
	Extent float64
}

// Project maps a board-local point through the platform rotation onto the
// screen plane. Screen Y grows downwards.
func Project(q mgl64.Quat, p mgl64.Vec3) mgl64.Vec2 {
	w := q.Rotate(p)
	return mgl64.Vec2{w.X(), w.Z() - Lift*w.Y()}
}

// Build projects the simulation's current frame.
func Build(s *sim.Simulation) Scene {
	return BuildFrom(s.Snapshot(), s.ArenaSize(), s.Obstacles(), s.Holes())
}

// BuildFrom projects a snapshot against the static level geometry.
func BuildFrom(snap sim.Snapshot, arenaSize float64, obstacles []sim.Obstacle, holes []sim.Hole) Scene {
	q := snap.PlatformOrientation
	half := arenaSize / 2

	sc := Scene{
		Extent: half*math.Sqrt2*math.Hypot(1, Lift) + WallHeight + Margin,
	}
	sc.Floor = quad(q, SurfaceFloor, mgl64.Vec3{0, 1, 0},
		mgl64.Vec3{-half, 0, -half},
		mgl64.Vec3{half, 0, -half},
		mgl64.Vec3{half, 0, half},
		mgl64.Vec3{-half, 0, half},
	)

	sc.Holes = make([]Hole, 0, len(holes))
	for _, h := range holes {
		sc.Holes = append(sc.Holes, Hole{
			Disc: Disc{
				Center: Project(q, mgl64.Vec3{h.Position.X(), 0, h.Position.Y()}),
				Radius: h.Radius(),
			},
			Final: h.Final,
		})
	}

	// Walls further back (smaller Z) first so nearer faces cover them.
	order := make([]int, len(obstacles))
	for i := range order {
		order[i] = i
	}
	sortByDepth(order, obstacles)
	sc.Walls = make([]Quad, 0, 3*len(obstacles))
	for _, i := range order {
		sc.Walls = append(sc.Walls, wall(q, obstacles[i])...)
	}

	r := snap.BallRadius * snap.BallScale
	if r > 0 {
		sc.Ball = Disc{Center: Project(q, snap.BallPosition), Radius: r}
		sc.BallVisible = true

		// The marker sits on the ball's local up axis.
		local := snap.BallOrientation.Rotate(mgl64.Vec3{0, r * 0.7, 0})
		sc.Spot = Project(q, snap.BallPosition.Add(local))
		sc.SpotVisible = Facing(local)
	}
	return sc
}

// wall returns the faces of a box that face the viewer, sides first.
func wall(q mgl64.Quat, o sim.Obstacle) []Quad {
	b := o.Box()
	x0, x1 := o.Position.X()-b.HalfW, o.Position.X()+b.HalfW
	z0, z1 := o.Position.Y()-b.HalfH, o.Position.Y()+b.HalfH
	const y0, y1 = 0.0, WallHeight

	sides := []struct {
		normal     mgl64.Vec3
		a, b, c, d mgl64.Vec3
	}{
		{mgl64.Vec3{0, 0, 1}, mgl64.Vec3{x0, y1, z1}, mgl64.Vec3{x1, y1, z1}, mgl64.Vec3{x1, y0, z1}, mgl64.Vec3{x0, y0, z1}},
		{mgl64.Vec3{0, 0, -1}, mgl64.Vec3{x1, y1, z0}, mgl64.Vec3{x0, y1, z0}, mgl64.Vec3{x0, y0, z0}, mgl64.Vec3{x1, y0, z0}},
		{mgl64.Vec3{1, 0, 0}, mgl64.Vec3{x1, y1, z1}, mgl64.Vec3{x1, y1, z0}, mgl64.Vec3{x1, y0, z0}, mgl64.Vec3{x1, y0, z1}},
		{mgl64.Vec3{-1, 0, 0}, mgl64.Vec3{x0, y1, z0}, mgl64.Vec3{x0, y1, z1}, mgl64.Vec3{x0, y0, z1}, mgl64.Vec3{x0, y0, z0}},
	}
	faces := make([]Quad, 0, 3)
	for _, f := range sides {
		if Facing(q.Rotate(f.normal)) {
			faces = append(faces, quad(q, SurfaceWallSide, f.normal, f.a, f.b, f.c, f.d))
		}
	}
	return append(faces, quad(q, SurfaceWallTop, mgl64.Vec3{0, 1, 0},
		mgl64.Vec3{x0, y1, z0},
		mgl64.Vec3{x1, y1, z0},
		mgl64.Vec3{x1, y1, z1},
		mgl64.Vec3{x0, y1, z1},
	))
}

// Facing reports whether a world-space direction points towards the viewer.
func Facing(n mgl64.Vec3) bool {
	return n.Dot(viewDir) > 0
}

func quad(q mgl64.Quat, s Surface, normal mgl64.Vec3, a, b, c, d mgl64.Vec3) Quad {
	return Quad{
		Corners: [4]mgl64.Vec2{Project(q, a), Project(q, b), Project(q, c), Project(q, d)},
		Surface: s,
		Shade:   shade(q.Rotate(normal)),
	}
}

func shade(n mgl64.Vec3) float64 {
	const ambient = 0.35
	d := n.Dot(lightDir)
	if d < 0 {
		d = 0
	}
	return math.Min(1, ambient+(1-ambient)*d)
}

func sortByDepth(order []int, obstacles []sim.Obstacle) {
	sort.SliceStable(order, func(i, j int) bool {
		return obstacles[order[i]].Position.Y() < obstacles[order[j]].Position.Y()
	})
}
