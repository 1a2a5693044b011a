package game

import (
	"math"

	"labyrinth/internal/scene"
)

type ParticleKind uint8

const (
	ParticleDust ParticleKind = iota
	ParticleSparkle
)

// Particle lives in projected board space; Z is height above the board
// and lifts the sprite up the screen.
type Particle struct {
	X, Y   float64
	VX, VY float64
	Z, VZ  float64

	Size    float64
	Life    float64
	MaxLife float64

	Col  RGB
	Kind ParticleKind
}

type ParticleSystem struct {
	Max    int
	P      []Particle
	seed   uint64
	ovrIdx int // circular overwrite index when full
}

func NewParticleSystem(maxParticles int, seed uint64) *ParticleSystem {
	if maxParticles <= 0 {
		maxParticles = MaxParticles
	}
	if seed == 0 {
		seed = 1
	}
	return &ParticleSystem{
		Max:  maxParticles,
		P:    make([]Particle, 0, maxParticles),
		seed: seed,
	}
}

func (ps *ParticleSystem) Clear() {
	ps.P = ps.P[:0]
	ps.ovrIdx = 0
}

func (ps *ParticleSystem) Add(p Particle) {
	if len(ps.P) < ps.Max {
		ps.P = append(ps.P, p)
		return
	}
	// Circular overwrite.
	if ps.ovrIdx >= ps.Max {
		ps.ovrIdx = 0
	}
	ps.P[ps.ovrIdx] = p
	ps.ovrIdx++
}

// SpawnDust puffs wall dust where the ball hit; intensity in [0, 1] scales
// the count and speed.
func (ps *ParticleSystem) SpawnDust(x, y float64, col RGB, intensity float64) {
	if intensity <= 0 {
		return
	}
	ps.seed++
	r := NewRand(ps.seed * 0x9E3779B97F4A7C15)
	for range 4 + int(10*intensity) {
		ang := r.RangeF(0, math.Pi*2)
		spd := r.RangeF(0.4, 1.6) * intensity
		ps.Add(Particle{
			X: x, Y: y,
			VX: math.Cos(ang) * spd, VY: math.Sin(ang) * spd,
			VZ:   r.RangeF(0.5, 1.5) * intensity,
			Size: r.RangeF(0.06, 0.14), MaxLife: r.RangeF(0.25, 0.5),
			Col: lerpRGB(col, Palette.Floor, r.Float64()*0.5), Kind: ParticleDust,
		})
	}
}

// SpawnSparkles bursts gold sparks from the goal.
func (ps *ParticleSystem) SpawnSparkles(x, y float64) {
	ps.seed++
	r := NewRand(ps.seed * 0xC2B2AE3D27D4EB4F)
	for range 48 {
		ang := r.RangeF(0, math.Pi*2)
		spd := r.RangeF(0.5, 3)
		ps.Add(Particle{
			X: x, Y: y,
			VX: math.Cos(ang) * spd, VY: math.Sin(ang) * spd,
			VZ:   r.RangeF(1.5, 4),
			Size: r.RangeF(0.15, 0.35), MaxLife: r.RangeF(0.8, 1.6),
			Col: lerpRGB(Palette.Win, Palette.GoalGlow, r.Float64()), Kind: ParticleSparkle,
		})
	}
}

// Update ages particles, applies drag and gravity and drops dead ones.
func (ps *ParticleSystem) Update(dt float64) {
	const (
		drag    = 3.0
		gravity = 6.0
	)
	damp := math.Exp(-drag * dt)
	alive := ps.P[:0]
	for _, p := range ps.P {
		p.Life += dt
		if p.Life >= p.MaxLife {
			continue
		}
		p.X += p.VX * dt
		p.Y += p.VY * dt
		p.VX *= damp
		p.VY *= damp
		p.Z += p.VZ * dt
		p.VZ -= gravity * dt
		if p.Z < 0 {
			p.Z = 0
			p.VZ = -p.VZ * 0.3
		}
		alive = append(alive, p)
	}
	ps.P = alive
	if ps.ovrIdx > len(ps.P) {
		ps.ovrIdx = 0
	}
}

// ParticleRenderData splits particles into glow (additive) and normal (alpha blend) buffers.
// Format: [x, y, size, r, g, b, a, style] * N.
func (ps *ParticleSystem) ParticleRenderData(glowBuf, normBuf []float32) ([]float32, []float32) {
	glowBuf = glowBuf[:0]
	normBuf = normBuf[:0]

	for _, p := range ps.P {
		t := clampF(p.Life/p.MaxLife, 0, 1)
		a := 1.0 - t
		if a <= 0 {
			continue
		}
		rc, gc, bc := p.Col.Floats()
		ac := float32(a)
		sx := float32(p.X)
		sy := float32(p.Y - p.Z*scene.Lift)
		sz := float32(p.Size)

		if p.Kind == ParticleSparkle {
			// Additive: pre-multiply color by alpha.
			glowBuf = append(glowBuf, sx, sy, sz*3, rc*ac, gc*ac, bc*ac, 1, 0)
			continue
		}
		normBuf = append(normBuf, sx, sy, sz, rc, gc, bc, ac*0.8, discFlat)
	}
	return glowBuf, normBuf
}
