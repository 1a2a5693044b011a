//go:build !android

package game

import (
	"fmt"
	"runtime"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl64"

	"labyrinth/internal/config"
	"labyrinth/internal/logging"
	"labyrinth/internal/scene"
	"labyrinth/internal/session"
	"labyrinth/internal/sim"
)

// RunDesktop opens a window and plays one session until the player wins or
// quits.
func RunDesktop(cfg *config.Config, logger *logging.Logger) (err error) {
	runtime.LockOSThread()

	sess, err := session.New(cfg, session.WithLogger(logger))
	if err != nil {
		return err
	}
	defer func() {
		if cerr := sess.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	window, err := initWindow()
	if err != nil {
		return err
	}
	defer glfw.Terminate()
	defer window.Destroy()

	if err := gl.Init(); err != nil {
		return fmt.Errorf("gl init: %w", err)
	}

	if err := InitAudio(); err != nil {
		logger.Warn("audio init failed, continuing without sound", logging.Error(err))
	}
	muted := cfg.Mute
	SetMuted(muted)

	// GL state.
	gl.Disable(gl.DEPTH_TEST)
	gl.Disable(gl.CULL_FACE)
	gl.Enable(gl.PROGRAM_POINT_SIZE)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	bgR, bgG, bgB := Palette.Background.Floats()
	gl.ClearColor(bgR, bgG, bgB, 1.0)

	rend, err := NewRenderer()
	if err != nil {
		return fmt.Errorf("renderer: %w", err)
	}
	defer rend.Destroy()
	if err := rend.InitFont(); err != nil {
		return fmt.Errorf("font: %w", err)
	}

	var cam Camera
	bus := sess.Sim().Events()
	session.WireCues(bus, func(c session.Cue, volume float64) {
		PlayCue(c, volume)
		cam.ShakeFor(c, volume)
	})
	particles := NewParticleSystem(MaxParticles, uint64(glfw.GetTime()*1e6)+1)
	bus.Subscribe(sim.EventObstacleHit, func(e sim.Event) {
		q := sim.PlatformOrientation(sess.Sim().Tilt())
		p := scene.Project(q, mgl64.Vec3{e.X, scene.WallHeight / 2, e.Z})
		particles.SpawnDust(p.X(), p.Y(), Palette.WallTop, session.BumpVolume(e.Speed))
	})
	bus.Subscribe(sim.EventHoleEntered, func(e sim.Event) {
		if !e.Final {
			return
		}
		q := sim.PlatformOrientation(sess.Sim().Tilt())
		p := scene.Project(q, mgl64.Vec3{e.X, 0, e.Z})
		particles.SpawnSparkles(p.X(), p.Y())
	})
	bus.Subscribe(sim.EventPhaseChanged, func(e sim.Event) {
		if e.To == sim.PhaseRespawnGrow {
			particles.Clear()
		}
	})
	input := NewInput()
	var glowBuf, normBuf []float32

	logger.Info("desktop frontend started", logging.String("level", sess.Sim().LevelName()))

	last := glfw.GetTime()
	frame := uint64(0)
	for !window.ShouldClose() {
		now := glfw.GetTime()
		dt := now - last
		last = now
		if dt > MaxFrameDT {
			dt = MaxFrameDT
		}
		frame++

		glfw.PollEvents()
		if window.GetKey(glfw.KeyEscape) == glfw.Press {
			window.SetShouldClose(true)
			continue
		}
		if input.JustPressed(window, glfw.KeyM) {
			muted = !muted
			SetMuted(muted)
		}

		sess.Step(dt, TiltKeys(window))
		if sess.Done() {
			window.SetShouldClose(true)
			continue
		}

		fbW, fbH := window.GetFramebufferSize()
		if fbW <= 0 || fbH <= 0 {
			continue
		}

		sc := scene.Build(sess.Sim())
		UpdateAutoCamera(&cam, sc.Extent, dt, fbW, fbH)
		cam.UpdateShake(dt, frame)
		particles.Update(dt)
		glowBuf, normBuf = particles.ParticleRenderData(glowBuf, normBuf)

		rend.BeginFrame(fbW, fbH)
		rend.DrawScene(sc, cam, fbW, fbH, now)
		rend.DrawParticles(glowBuf, normBuf, cam, fbW, fbH)
		// HUD uses screen space (no shake).
		RenderHUD(rend, sess.Sim().Snapshot(), muted, fbW, fbH)
		window.SwapBuffers()
	}
	return nil
}
