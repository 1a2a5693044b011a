package sim

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-gl/mathgl/mgl64"

	"labyrinth/internal/physics"
)

// DefaultArenaSize is the side length of the square board.
const DefaultArenaSize = 12.0

var (
	ErrNoFinalHole   = errors.New("level has no final hole")
	ErrBadSize       = errors.New("level size must be positive")
	ErrBallOutside   = errors.New("ball start lies outside the arena")
	ErrUnknownFields = errors.New("level file has unknown fields")
	ErrNotFinite     = errors.New("level value is not a finite number")
	ErrBadTuning     = errors.New("level tuning override must not be negative")
	ErrBallInHole    = errors.New("ball start overlaps a trap hole")
)

// Level is the static layout of one board. Obstacles use full sizes, as
// authored; they are converted to half extents when the simulation starts.
type Level struct {
	Name      string         `toml:"name"`
	ArenaSize float64        `toml:"arena_size"`
	Ball      BallSpec       `toml:"ball"`
	Obstacles []ObstacleSpec `toml:"obstacle"`
	Holes     []HoleSpec     `toml:"hole"`

	// Optional tuning overrides. Zero keeps the default.
	PushFactor float64 `toml:"push_factor,omitempty"`
	SpeedDamp  float64 `toml:"speed_damp,omitempty"`
}

type BallSpec struct {
	X         float64 `toml:"x"`
	Y         float64 `toml:"y"`
	Z         float64 `toml:"z"`
	Radius    float64 `toml:"radius"`
	MaxAccelX float64 `toml:"max_accel_x"`
	MaxAccelZ float64 `toml:"max_accel_z"`
}

type ObstacleSpec struct {
	X     float64 `toml:"x"`
	Z     float64 `toml:"z"`
	Width float64 `toml:"width"` // along X
	Depth float64 `toml:"depth"` // along Z
}

type HoleSpec struct {
	X      float64 `toml:"x"`
	Z      float64 `toml:"z"`
	Radius float64 `toml:"radius"`
	Final  bool    `toml:"final"`
}

const holeRadius = 0.15

// DefaultLevel is the classic board: walls splitting the arena into a
// winding lane from the bottom-left corner to the goal at (5, 5).
func DefaultLevel() Level {
	return Level{
		Name:      "classic",
		ArenaSize: DefaultArenaSize,
		Ball: BallSpec{
			X:         -5,
			Y:         0.5,
			Z:         -5,
			Radius:    0.5,
			MaxAccelX: 1,
			MaxAccelZ: 1,
		},
		Obstacles: []ObstacleSpec{
			{X: -5.8, Z: 0, Width: 0.4, Depth: 8},
			{X: -3.5, Z: -4.5, Width: 0.4, Depth: 1.5},
			{X: -3.5, Z: 2.5, Width: 0.4, Depth: 6},
			{X: 4, Z: 0, Width: 1, Depth: 4},
			{X: 1.5, Z: 0, Width: 4, Depth: 0.4},
		},
		Holes: []HoleSpec{
			{X: 5, Z: 5, Radius: holeRadius, Final: true},
			{X: 3, Z: -3, Radius: holeRadius},
			{X: -3.5, Z: -2.8, Radius: holeRadius},
			{X: 0, Z: 1.8, Radius: holeRadius},
			{X: -1.5, Z: 3.8, Radius: holeRadius},
			{X: 2.6, Z: 4.2, Radius: holeRadius},
		},
	}
}

// Validate checks the invariants the simulation relies on.
func (l Level) Validate() error {
	if err := l.checkFinite(); err != nil {
		return err
	}
	if l.PushFactor < 0 || l.SpeedDamp < 0 {
		return fmt.Errorf("push_factor %v, speed_damp %v: %w", l.PushFactor, l.SpeedDamp, ErrBadTuning)
	}
	if !(l.ArenaSize > 0) {
		return fmt.Errorf("arena_size %v: %w", l.ArenaSize, ErrBadSize)
	}
	if !(l.Ball.Radius > 0) {
		return fmt.Errorf("ball radius %v: %w", l.Ball.Radius, ErrBadSize)
	}
	half := l.ArenaSize / 2
	if math.Abs(l.Ball.X) > half || math.Abs(l.Ball.Z) > half {
		return fmt.Errorf("ball at (%v, %v): %w", l.Ball.X, l.Ball.Z, ErrBallOutside)
	}
	for i, o := range l.Obstacles {
		if !(o.Width > 0) || !(o.Depth > 0) {
			return fmt.Errorf("obstacle %d size %vx%v: %w", i, o.Width, o.Depth, ErrBadSize)
		}
	}
	final := false
	for i, h := range l.Holes {
		if !(h.Radius > 0) {
			return fmt.Errorf("hole %d radius %v: %w", i, h.Radius, ErrBadSize)
		}
		final = final || h.Final
	}
	if !final {
		return ErrNoFinalHole
	}
	ball := physics.Circle{Radius: l.Ball.Radius}
	start := mgl64.Vec2{l.Ball.X, l.Ball.Z}
	for i, h := range l.Holes {
		if h.Final {
			continue
		}
		if physics.Overlaps(ball, start, physics.Circle{Radius: h.Radius}, mgl64.Vec2{h.X, h.Z}) {
			return fmt.Errorf("hole %d at (%v, %v): %w", i, h.X, h.Z, ErrBallInHole)
		}
	}
	return nil
}

func (l Level) checkFinite() error {
	check := func(what string, vs ...float64) error {
		for _, v := range vs {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("%s %v: %w", what, v, ErrNotFinite)
			}
		}
		return nil
	}
	if err := check("arena_size", l.ArenaSize); err != nil {
		return err
	}
	if err := check("tuning", l.PushFactor, l.SpeedDamp); err != nil {
		return err
	}
	b := l.Ball
	if err := check("ball", b.X, b.Y, b.Z, b.Radius, b.MaxAccelX, b.MaxAccelZ); err != nil {
		return err
	}
	for i, o := range l.Obstacles {
		if err := check(fmt.Sprintf("obstacle %d", i), o.X, o.Z, o.Width, o.Depth); err != nil {
			return err
		}
	}
	for i, h := range l.Holes {
		if err := check(fmt.Sprintf("hole %d", i), h.X, h.Z, h.Radius); err != nil {
			return err
		}
	}
	return nil
}

// LoadLevel reads a TOML level file. Missing arena size and hole radii fall
// back to the classic values.
func LoadLevel(path string) (Level, error) {
	var l Level
	md, err := toml.DecodeFile(path, &l)
	if err != nil {
		return Level{}, fmt.Errorf("decode level %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Level{}, fmt.Errorf("level %s: %w: %s", path, ErrUnknownFields, strings.Join(keys, ", "))
	}
	if l.ArenaSize == 0 {
		l.ArenaSize = DefaultArenaSize
	}
	for i := range l.Holes {
		if l.Holes[i].Radius == 0 {
			l.Holes[i].Radius = holeRadius
		}
	}
	if err := l.Validate(); err != nil {
		return Level{}, fmt.Errorf("level %s: %w", path, err)
	}
	return l, nil
}

// EncodeLevel writes l as TOML.
func EncodeLevel(w io.Writer, l Level) error {
	return toml.NewEncoder(w).Encode(l)
}
