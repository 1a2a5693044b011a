package game

// RGB is an 8-bit per channel colour.
type RGB struct {
	R, G, B uint8
}

func (c RGB) Mul(k uint8) RGB {
	return RGB{
		R: uint8((uint16(c.R) * uint16(k)) / 255),
		G: uint8((uint16(c.G) * uint16(k)) / 255),
		B: uint8((uint16(c.B) * uint16(k)) / 255),
	}
}

// Shade scales the colour by a light factor in [0, 1].
func (c RGB) Shade(f float64) RGB {
	return c.Mul(uint8(clampF(f, 0, 1) * 255))
}

// Floats returns the colour as normalised GL components.
func (c RGB) Floats() (float32, float32, float32) {
	return float32(c.R) / 255.0, float32(c.G) / 255.0, float32(c.B) / 255.0
}

var Palette = struct {
	Background RGB
	Floor      RGB
	WallTop    RGB
	WallSide   RGB
	Hole       RGB
	Goal       RGB
	GoalGlow   RGB
	Ball       RGB
	BallSpot   RGB
	HUD        RGB
	HUDDim     RGB
	Win        RGB
}{
	Background: RGB{R: 28, G: 30, B: 36},
	Floor:      RGB{R: 196, G: 160, B: 112},
	WallTop:    RGB{R: 142, G: 96, B: 58},
	WallSide:   RGB{R: 112, G: 72, B: 42},
	Hole:       RGB{R: 16, G: 12, B: 10},
	Goal:       RGB{R: 40, G: 120, B: 60},
	GoalGlow:   RGB{R: 120, G: 255, B: 140},
	Ball:       RGB{R: 210, G: 214, B: 222},
	BallSpot:   RGB{R: 200, G: 40, B: 40},
	HUD:        RGB{R: 240, G: 236, B: 220},
	HUDDim:     RGB{R: 150, G: 146, B: 132},
	Win:        RGB{R: 255, G: 210, B: 90},
}
