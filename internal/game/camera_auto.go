package game

import "math"

// UpdateAutoCamera keeps the whole board on screen. extent is the half size
// of the square the projected board always fits in; zoom eases towards the
// fitting value so window resizes do not snap.
func UpdateAutoCamera(cam *Camera, extent, dt float64, fbW, fbH int) {
	if extent <= 0 || fbW <= 0 || fbH <= 0 {
		return
	}
	target := math.Min(float64(fbW), float64(fbH)) / (2 * extent)
	if cam.Zoom <= 0 {
		cam.Zoom = target
	} else {
		cam.Zoom = approach(cam.Zoom, target, ZoomRate*dt)
	}
	cam.X = 0
	cam.Y = 0
}
