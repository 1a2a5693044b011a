//go:build !android

package game

import (
	"github.com/go-gl/glfw/v3.3/glfw"

	"labyrinth/internal/sim"
)

type Input struct {
	prevKeys map[glfw.Key]bool
}

func NewInput() *Input {
	return &Input{
		prevKeys: make(map[glfw.Key]bool),
	}
}

func (in *Input) JustPressed(window *glfw.Window, key glfw.Key) bool {
	down := window.GetKey(key) == glfw.Press
	jp := down && !in.prevKeys[key]
	in.prevKeys[key] = down
	return jp
}

// TiltKeys samples the tilt keys: arrows or WASD.
func TiltKeys(window *glfw.Window) sim.Keys {
	held := func(keys ...glfw.Key) bool {
		for _, k := range keys {
			if window.GetKey(k) == glfw.Press {
				return true
			}
		}
		return false
	}
	return sim.Keys{
		Up:    held(glfw.KeyUp, glfw.KeyW),
		Down:  held(glfw.KeyDown, glfw.KeyS),
		Left:  held(glfw.KeyLeft, glfw.KeyA),
		Right: held(glfw.KeyRight, glfw.KeyD),
	}
}
