package physics

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Contact describes an overlap between shape A and shape B.
// Normal is a unit vector pointing from B towards A; moving A by
// Normal*Depth separates the shapes exactly.
type Contact struct {
	Normal mgl64.Vec2
	Depth  float64
}

type pairFunc func(a Collider, pa mgl64.Vec2, b Collider, pb mgl64.Vec2) (Contact, bool)

// pairTable is indexed [A kind][B kind]. init refuses to start with a hole in
// it, so adding a Kind without its handlers fails on first use of the package.
var pairTable = [numKinds][numKinds]pairFunc{
	KindBox: {
		KindBox:    boxBox,
		KindCircle: flipped(circleBox),
	},
	KindCircle: {
		KindBox:    circleBox,
		KindCircle: circleCircle,
	},
}

func init() {
	for a := Kind(0); a < numKinds; a++ {
		for b := Kind(0); b < numKinds; b++ {
			if pairTable[a][b] == nil {
				panic(fmt.Sprintf("physics: no collision handler for %s vs %s", a, b))
			}
		}
	}
}

// Collide runs the narrow phase for shape a at pa against shape b at pb.
func Collide(a Collider, pa mgl64.Vec2, b Collider, pb mgl64.Vec2) (Contact, bool) {
	return pairTable[a.Kind()][b.Kind()](a, pa, b, pb)
}

// Overlaps reports whether the two shapes intersect.
func Overlaps(a Collider, pa mgl64.Vec2, b Collider, pb mgl64.Vec2) bool {
	_, ok := Collide(a, pa, b, pb)
	return ok
}

func flipped(f pairFunc) pairFunc {
	return func(a Collider, pa mgl64.Vec2, b Collider, pb mgl64.Vec2) (Contact, bool) {
		c, ok := f(b, pb, a, pa)
		c.Normal = c.Normal.Mul(-1)
		return c, ok
	}
}

// circleBox uses the closest point on the box to the circle centre.
func circleBox(a Collider, pa mgl64.Vec2, b Collider, pb mgl64.Vec2) (Contact, bool) {
	r := a.(Circle).Radius
	box := b.(Box)

	rel := pa.Sub(pb)
	closest := mgl64.Vec2{
		clampF(rel.X(), -box.HalfW, box.HalfW),
		clampF(rel.Y(), -box.HalfH, box.HalfH),
	}
	u := rel.Sub(closest)
	dist := u.Len()
	if !(dist < r) {
		return Contact{}, false
	}
	if dist > 0 {
		return Contact{Normal: u.Mul(1 / dist), Depth: r - dist}, true
	}

	// Centre on or inside the box: leave through the nearest face.
	fx := box.HalfW - math.Abs(rel.X())
	fz := box.HalfH - math.Abs(rel.Y())
	if fx <= fz {
		return Contact{Normal: mgl64.Vec2{signOf(rel.X()), 0}, Depth: r + fx}, true
	}
	return Contact{Normal: mgl64.Vec2{0, signOf(rel.Y())}, Depth: r + fz}, true
}

func circleCircle(a Collider, pa mgl64.Vec2, b Collider, pb mgl64.Vec2) (Contact, bool) {
	sum := a.(Circle).Radius + b.(Circle).Radius
	rel := pa.Sub(pb)
	dist := rel.Len()
	if !(dist < sum) {
		return Contact{}, false
	}
	if dist == 0 {
		return Contact{Normal: mgl64.Vec2{1, 0}, Depth: sum}, true
	}
	return Contact{Normal: rel.Mul(1 / dist), Depth: sum - dist}, true
}

// boxBox separates along the axis of smallest overlap.
func boxBox(a Collider, pa mgl64.Vec2, b Collider, pb mgl64.Vec2) (Contact, bool) {
	ba, bb := a.(Box), b.(Box)
	rel := pa.Sub(pb)
	ox := ba.HalfW + bb.HalfW - math.Abs(rel.X())
	oz := ba.HalfH + bb.HalfH - math.Abs(rel.Y())
	if !(ox > 0 && oz > 0) {
		return Contact{}, false
	}
	if ox <= oz {
		return Contact{Normal: mgl64.Vec2{signOf(rel.X()), 0}, Depth: ox}, true
	}
	return Contact{Normal: mgl64.Vec2{0, signOf(rel.Y())}, Depth: oz}, true
}

func signOf(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}
