package sim

import "github.com/go-gl/mathgl/mgl64"

// UpdateTilt advances the platform angle by one tick. X (pitch) is driven by
// Down/Up, Y (roll) by Left/Right; each axis is clamped to ±MaxAngle.
func UpdateTilt(angle mgl64.Vec2, keys Keys, dt float64, t Tuning) mgl64.Vec2 {
	x := angle.X() + axisDelta(keys.Down, keys.Up, angle.X(), t.Momentum, dt)
	y := angle.Y() + axisDelta(keys.Left, keys.Right, angle.Y(), t.Momentum, dt)
	return mgl64.Vec2{
		clampF(x, -t.MaxAngle, t.MaxAngle),
		clampF(y, -t.MaxAngle, t.MaxAngle),
	}
}

func axisDelta(pos, neg bool, angle, momentum, dt float64) float64 {
	switch {
	case pos && neg:
		return 0
	case pos:
		return momentum * dt
	case neg:
		return -momentum * dt
	default:
		// Relax towards level.
		return -momentum * angle * dt
	}
}

// PlatformOrientation converts a tilt angle into the board rotation:
// Rx(angle.x) * Rz(angle.y).
func PlatformOrientation(angle mgl64.Vec2) mgl64.Quat {
	rx := mgl64.QuatRotate(angle.X(), mgl64.Vec3{1, 0, 0})
	rz := mgl64.QuatRotate(angle.Y(), mgl64.Vec3{0, 0, 1})
	return rx.Mul(rz)
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
