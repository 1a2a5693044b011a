//go:build !android

package game

import (
	"fmt"
	"math"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"labyrinth/internal/scene"
)

// glOffset converts a byte offset to unsafe.Pointer for OpenGL VBO offset params.
func glOffset(n int) unsafe.Pointer { return unsafe.Pointer(uintptr(n)) }

type Renderer struct {
	// Polygon program: floor and wall faces.
	polyProg uint32
	polyVAO  uint32
	polyVBO  uint32

	polyUCamera     int32
	polyUZoom       int32
	polyUResolution int32

	// Disc program: holes and the ball.
	discProg  uint32
	spriteVAO uint32
	spriteVBO uint32

	discUCamera     int32
	discUZoom       int32
	discUResolution int32

	// Glow (radial light) program, uses spriteVAO, additive blend only.
	glowProg        uint32
	glowUCamera     int32
	glowUZoom       int32
	glowUResolution int32

	// Font/text rendering.
	fontTex      uint32
	textProg     uint32
	textVAO      uint32
	textVBO      uint32
	textURes     int32
	textUFontTex int32
	textBuf      []float32

	// Reusable render buffers to avoid per-frame heap allocations.
	polyBuf   []float32
	spriteBuf []float32
}

func NewRenderer() (*Renderer, error) {
	polyProg, err := linkProgram(polyVertSrc, polyFragSrc)
	if err != nil {
		return nil, fmt.Errorf("polygon program: %w", err)
	}
	discProg, err := linkProgram(discVertSrc, discFragSrc)
	if err != nil {
		gl.DeleteProgram(polyProg)
		return nil, fmt.Errorf("disc program: %w", err)
	}
	glowProg, err := linkProgram(discVertSrc, glowFragSrc)
	if err != nil {
		gl.DeleteProgram(polyProg)
		gl.DeleteProgram(discProg)
		return nil, fmt.Errorf("glow program: %w", err)
	}

	r := &Renderer{
		polyProg: polyProg,
		discProg: discProg,
		glowProg: glowProg,
	}

	// Polygon VAO/VBO: streaming triangles, 6 floats per vertex (x, y, r, g, b, a).
	var pVAO, pVBO uint32
	gl.GenVertexArrays(1, &pVAO)
	gl.GenBuffers(1, &pVBO)
	gl.BindVertexArray(pVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, pVBO)

	pStride := int32(6 * 4)
	gl.BufferData(gl.ARRAY_BUFFER, MaxPolyVertices*int(pStride), nil, gl.STREAM_DRAW)
	gl.EnableVertexAttribArray(0) // aPos
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, pStride, glOffset(0))
	gl.EnableVertexAttribArray(1) // aColor
	gl.VertexAttribPointer(1, 4, gl.FLOAT, false, pStride, glOffset(2*4))
	r.polyVAO = pVAO
	r.polyVBO = pVBO

	gl.UseProgram(polyProg)
	r.polyUCamera = gl.GetUniformLocation(polyProg, gl.Str("uCamera\x00"))
	r.polyUZoom = gl.GetUniformLocation(polyProg, gl.Str("uZoom\x00"))
	r.polyUResolution = gl.GetUniformLocation(polyProg, gl.Str("uResolution\x00"))

	// Sprite VAO/VBO: streaming buffer for point sprites.
	// Each sprite: 8 floats (x, y, size, r, g, b, a, style).
	var sVAO, sVBO uint32
	gl.GenVertexArrays(1, &sVAO)
	gl.GenBuffers(1, &sVBO)
	gl.BindVertexArray(sVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, sVBO)

	stride := int32(8 * 4)
	gl.BufferData(gl.ARRAY_BUFFER, MaxSprites*int(stride), nil, gl.STREAM_DRAW)
	// aPos (vec2)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, stride, glOffset(0))
	// aSize (float)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 1, gl.FLOAT, false, stride, glOffset(2*4))
	// aColor (vec4)
	gl.EnableVertexAttribArray(2)
	gl.VertexAttribPointer(2, 4, gl.FLOAT, false, stride, glOffset(3*4))
	// aStyle (float)
	gl.EnableVertexAttribArray(3)
	gl.VertexAttribPointer(3, 1, gl.FLOAT, false, stride, glOffset(7*4))
	r.spriteVAO = sVAO
	r.spriteVBO = sVBO

	gl.UseProgram(discProg)
	r.discUCamera = gl.GetUniformLocation(discProg, gl.Str("uCamera\x00"))
	r.discUZoom = gl.GetUniformLocation(discProg, gl.Str("uZoom\x00"))
	r.discUResolution = gl.GetUniformLocation(discProg, gl.Str("uResolution\x00"))

	gl.UseProgram(glowProg)
	r.glowUCamera = gl.GetUniformLocation(glowProg, gl.Str("uCamera\x00"))
	r.glowUZoom = gl.GetUniformLocation(glowProg, gl.Str("uZoom\x00"))
	r.glowUResolution = gl.GetUniformLocation(glowProg, gl.Str("uResolution\x00"))

	gl.BindVertexArray(0)
	return r, nil
}

func (r *Renderer) Destroy() {
	for _, id := range []uint32{r.polyVBO, r.spriteVBO, r.textVBO} {
		if id != 0 {
			gl.DeleteBuffers(1, &id)
		}
	}
	for _, id := range []uint32{r.polyVAO, r.spriteVAO, r.textVAO} {
		if id != 0 {
			gl.DeleteVertexArrays(1, &id)
		}
	}
	for _, id := range []uint32{r.polyProg, r.discProg, r.glowProg, r.textProg} {
		if id != 0 {
			gl.DeleteProgram(id)
		}
	}
	if r.fontTex != 0 {
		gl.DeleteTextures(1, &r.fontTex)
	}
}

func (r *Renderer) BeginFrame(fbW, fbH int) {
	gl.Viewport(0, 0, int32(fbW), int32(fbH))
	gl.Clear(gl.COLOR_BUFFER_BIT)
}

// DrawScene draws the board back to front: floor, holes, goal glow, walls,
// ball. now drives the goal pulse.
func (r *Renderer) DrawScene(sc scene.Scene, cam Camera, fbW, fbH int, now float64) {
	r.polyBuf = appendQuad(r.polyBuf[:0], sc.Floor, Palette.Floor)
	r.drawPolys(cam, fbW, fbH)

	pulse := 0.5 + 0.5*math.Sin(now*3)
	r.spriteBuf = r.spriteBuf[:0]
	var glow []float32
	for _, h := range sc.Holes {
		col := Palette.Hole
		if h.Final {
			col = lerpRGB(Palette.Goal, Palette.GoalGlow, pulse*0.5)
			g := float32(0.35 + 0.25*pulse)
			gr, gg, gb := Palette.GoalGlow.Floats()
			glow = append(glow, float32(h.Center.X()), float32(h.Center.Y()), float32(h.Radius*8),
				gr*g, gg*g, gb*g, 1, 0)
		}
		r.spriteBuf = appendDisc(r.spriteBuf, h.Disc, col, discFlat)
	}
	r.drawSprites(r.discProg, r.discUCamera, r.discUZoom, r.discUResolution, r.spriteBuf, cam, fbW, fbH, false)
	r.drawSprites(r.glowProg, r.glowUCamera, r.glowUZoom, r.glowUResolution, glow, cam, fbW, fbH, true)

	r.polyBuf = r.polyBuf[:0]
	for _, q := range sc.Walls {
		col := Palette.WallSide
		if q.Surface == scene.SurfaceWallTop {
			col = Palette.WallTop
		}
		r.polyBuf = appendQuad(r.polyBuf, q, col)
	}
	r.drawPolys(cam, fbW, fbH)

	if !sc.BallVisible {
		return
	}
	r.spriteBuf = appendDisc(r.spriteBuf[:0], sc.Ball, Palette.Ball, discSphere)
	if sc.SpotVisible {
		spot := scene.Disc{Center: sc.Spot, Radius: sc.Ball.Radius * 0.22}
		r.spriteBuf = appendDisc(r.spriteBuf, spot, Palette.BallSpot, discFlat)
	}
	r.drawSprites(r.discProg, r.discUCamera, r.discUZoom, r.discUResolution, r.spriteBuf, cam, fbW, fbH, false)
}

// appendQuad appends a quad as two triangles: 0-1-2 and 0-2-3.
func appendQuad(buf []float32, q scene.Quad, base RGB) []float32 {
	cr, cg, cb := base.Shade(q.Shade).Floats()
	c := q.Corners
	for _, i := range [6]int{0, 1, 2, 0, 2, 3} {
		buf = append(buf, float32(c[i].X()), float32(c[i].Y()), cr, cg, cb, 1)
	}
	return buf
}

func appendDisc(buf []float32, d scene.Disc, col RGB, style float32) []float32 {
	cr, cg, cb := col.Floats()
	return append(buf, float32(d.Center.X()), float32(d.Center.Y()), float32(2*d.Radius),
		cr, cg, cb, 1, style)
}

func (r *Renderer) drawPolys(cam Camera, fbW, fbH int) {
	if len(r.polyBuf) == 0 {
		return
	}
	count := len(r.polyBuf) / 6
	if count > MaxPolyVertices {
		count = MaxPolyVertices - MaxPolyVertices%3
	}
	cx, cy := cam.EffectivePos()

	gl.UseProgram(r.polyProg)
	gl.BindVertexArray(r.polyVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.polyVBO)

	gl.Uniform2f(r.polyUCamera, float32(cx), float32(cy))
	gl.Uniform1f(r.polyUZoom, float32(cam.Zoom))
	gl.Uniform2f(r.polyUResolution, float32(fbW), float32(fbH))

	gl.BufferData(gl.ARRAY_BUFFER, count*6*4, gl.Ptr(r.polyBuf), gl.STREAM_DRAW)
	gl.DrawArrays(gl.TRIANGLES, 0, int32(count))
}

// drawSprites renders point sprites with the given program.
// buf format: [x, y, size, r, g, b, a, style] * N (8 floats per sprite).
// additive selects glow blending instead of alpha blending.
func (r *Renderer) drawSprites(prog uint32, uCamera, uZoom, uRes int32, buf []float32, cam Camera, fbW, fbH int, additive bool) {
	if len(buf) == 0 {
		return
	}
	count := len(buf) / 8
	if count > MaxSprites {
		count = MaxSprites
	}
	cx, cy := cam.EffectivePos()

	gl.UseProgram(prog)
	gl.BindVertexArray(r.spriteVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.spriteVBO)

	gl.Uniform2f(uCamera, float32(cx), float32(cy))
	gl.Uniform1f(uZoom, float32(cam.Zoom))
	gl.Uniform2f(uRes, float32(fbW), float32(fbH))

	gl.Enable(gl.BLEND)
	if additive {
		gl.BlendFunc(gl.ONE, gl.ONE)
	} else {
		gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	}

	gl.BufferData(gl.ARRAY_BUFFER, count*8*4, gl.Ptr(buf), gl.STREAM_DRAW)
	gl.DrawArrays(gl.POINTS, 0, int32(count))

	gl.Disable(gl.BLEND)
}

// DrawParticles renders particle buffers from ParticleRenderData: normal
// particles as flat discs, glow particles additively.
func (r *Renderer) DrawParticles(glowBuf, normBuf []float32, cam Camera, fbW, fbH int) {
	r.drawSprites(r.discProg, r.discUCamera, r.discUZoom, r.discUResolution, normBuf, cam, fbW, fbH, false)
	r.drawSprites(r.glowProg, r.glowUCamera, r.glowUZoom, r.glowUResolution, glowBuf, cam, fbW, fbH, true)
}
