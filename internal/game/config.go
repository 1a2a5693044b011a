package game

// Window defaults.
const (
	WindowWidth  = 800
	WindowHeight = 800
	WindowTitle  = "Labyrinth"
)

// Frame step clamp, in seconds.
const MaxFrameDT = 0.1

// Camera zoom easing, in screen pixels per world unit per second.
const ZoomRate = 60.0

// Screen shake (world units, seconds).
const (
	BumpShake     = 0.12
	BumpShakeTime = 0.15
	FallShake     = 0.18
	FallShakeTime = 0.35
)

// Streaming buffer capacities.
const (
	MaxParticles    = 256
	MaxSprites      = MaxParticles
	MaxPolyVertices = 1024
)

// Disc sprite styles, matching discFragSrc.
const (
	discFlat   = 0
	discSphere = 1
)

// Font atlas layout: basicfont 7x13 glyphs baked into 32 cols x 4 rows,
// ASCII 0-127.
const (
	FontCellW  = 7
	FontCellH  = 13
	FontCols   = 32
	FontRows   = 4
	FontAtlasW = FontCellW * FontCols // 224
	FontAtlasH = FontCellH * FontRows // 52
)

// HUD text scales.
const (
	HUDScale    = 2
	BannerScale = 6
)
