package physics

import "github.com/go-gl/mathgl/mgl64"

// Body is the physics state attached to an entity. Static entities keep zero
// Velocity and zero MaxAcceleration.
type Body struct {
	Velocity        mgl64.Vec2
	Acceleration    mgl64.Vec2
	MaxAcceleration mgl64.Vec2
	Collider        Collider
}

// NewStaticBody returns a body that never moves.
func NewStaticBody(c Collider) Body {
	return Body{Collider: c}
}

// Stop zeroes velocity and acceleration.
func (b *Body) Stop() {
	b.Velocity = mgl64.Vec2{}
	b.Acceleration = mgl64.Vec2{}
}

// PlanarDistance is the Euclidean distance between two points on the X/Z plane.
func PlanarDistance(a, b mgl64.Vec2) float64 {
	return a.Sub(b).Len()
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
