package sim

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"labyrinth/internal/physics"
)

// Ball is the player-controlled marble. Gameplay moves it on X/Z only.
type Ball struct {
	Position    mgl64.Vec3
	Start       mgl64.Vec3
	Radius      float64
	Scale       float64
	Orientation mgl64.Quat
	Body        physics.Body
}

func newBall(spec BallSpec) Ball {
	start := mgl64.Vec3{spec.X, spec.Y, spec.Z}
	return Ball{
		Position:    start,
		Start:       start,
		Radius:      spec.Radius,
		Orientation: mgl64.QuatIdent(),
		Body: physics.Body{
			MaxAcceleration: mgl64.Vec2{spec.MaxAccelX, spec.MaxAccelZ},
			Collider:        physics.Circle{Radius: spec.Radius},
		},
	}
}

// XZ returns the position on the board plane.
func (b *Ball) XZ() mgl64.Vec2 {
	return mgl64.Vec2{b.Position.X(), b.Position.Z()}
}

func (b *Ball) setXZ(p mgl64.Vec2) {
	b.Position[0] = p.X()
	b.Position[2] = p.Y()
}

// respawn puts the ball back at its start, motionless and invisible.
func (b *Ball) respawn() {
	b.Position = b.Start
	b.Body.Stop()
	b.Scale = 0
	b.Orientation = mgl64.QuatIdent()
}

// integrate moves the ball with last tick's velocity, then derives the new
// acceleration from the tilt and updates velocity.
func (b *Ball) integrate(tilt mgl64.Vec2, dt float64, t Tuning) {
	before := b.XZ()
	b.setXZ(before.Add(b.Body.Velocity.Mul(dt)))
	b.roll(b.XZ().Sub(before))

	// Positive pitch accelerates towards +Z, positive roll towards -X.
	b.Body.Acceleration = mgl64.Vec2{
		-b.Body.MaxAcceleration.X() * tilt.Y() / t.MaxAngle,
		b.Body.MaxAcceleration.Y() * tilt.X() / t.MaxAngle,
	}
	b.Body.Velocity = b.Body.Velocity.Add(b.Body.Acceleration.Mul(dt)).Mul(t.SpeedDamp)
}

// roll turns the ball about up×d by |d|/r so it appears to roll.
func (b *Ball) roll(d mgl64.Vec2) {
	dist := d.Len()
	if dist == 0 || b.Radius <= 0 {
		return
	}
	axis := mgl64.Vec3{d.Y(), 0, -d.X()}.Mul(1 / dist)
	b.Orientation = mgl64.QuatRotate(dist/b.Radius, axis).Mul(b.Orientation).Normalize()
}

// outOfBounds reports whether the centre left the square arena. A NaN
// position counts as out.
func (b *Ball) outOfBounds(arenaSize float64) bool {
	half := arenaSize / 2
	return !(math.Abs(b.Position.X()) <= half && math.Abs(b.Position.Z()) <= half)
}
