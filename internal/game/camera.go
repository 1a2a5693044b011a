package game

import "labyrinth/internal/session"

type Camera struct {
	X, Y float64 // projected board space, camera centre
	Zoom float64 // screen pixels per board unit

	// Screen shake.
	ShakeX, ShakeY float64 // current offset in board units
	ShakeTimer     float64 // remaining shake time
	ShakeIntensity float64 // max offset magnitude
}

// AddShake triggers screen shake with given intensity and duration.
func (c *Camera) AddShake(intensity, duration float64) {
	if intensity > c.ShakeIntensity {
		c.ShakeIntensity = intensity
	}
	if duration > c.ShakeTimer {
		c.ShakeTimer = duration
	}
}

// ShakeFor shakes the camera for gameplay cues: a scaled jolt on bumps and a
// longer one on falls.
func (c *Camera) ShakeFor(cue session.Cue, volume float64) {
	switch cue {
	case session.CueBump:
		c.AddShake(BumpShake*volume, BumpShakeTime)
	case session.CueFall:
		c.AddShake(FallShake, FallShakeTime)
	}
}

// UpdateShake decays shake and computes random offsets.
func (c *Camera) UpdateShake(dt float64, seed uint64) {
	if c.ShakeTimer <= 0 {
		c.ShakeX = 0
		c.ShakeY = 0
		c.ShakeIntensity = 0
		return
	}
	c.ShakeTimer -= dt
	if c.ShakeTimer < 0 {
		c.ShakeTimer = 0
	}
	// Decaying intensity.
	t := c.ShakeTimer
	rr := NewRand(seed ^ uint64(t*10000))
	mag := c.ShakeIntensity * (t / (t + 0.08))
	c.ShakeX = rr.RangeF(-mag, mag)
	c.ShakeY = rr.RangeF(-mag, mag)
}

// EffectivePos returns camera position with shake applied.
func (c *Camera) EffectivePos() (float64, float64) {
	return c.X + c.ShakeX, c.Y + c.ShakeY
}
