package sim

import (
	"math"

	"labyrinth/internal/physics"
)

// Tuning holds the gameplay constants. Durations are in seconds.
type Tuning struct {
	MaxAngle   float64 // tilt clamp per axis, radians
	Momentum   float64 // tilt rate while a key is held, and relaxation rate when none is
	SpeedDamp  float64 // velocity multiplier per tick
	PushFactor float64 // multiple of penetration depth applied on obstacle contact

	GrowDuration   float64
	ShrinkDuration float64
	SplashDuration float64
}

// DefaultTuning returns the values the built-in level was designed around.
func DefaultTuning() Tuning {
	return Tuning{
		MaxAngle:       math.Pi / 6,
		Momentum:       0.8,
		SpeedDamp:      1.0,
		PushFactor:     physics.DefaultPushFactor,
		GrowDuration:   1,
		ShrinkDuration: 1,
		SplashDuration: 3,
	}
}

// withLevel applies the per-level overrides. Zero means "keep".
func (t Tuning) withLevel(l Level) Tuning {
	if l.PushFactor > 0 {
		t.PushFactor = l.PushFactor
	}
	if l.SpeedDamp > 0 {
		t.SpeedDamp = l.SpeedDamp
	}
	return t
}
