package session

import "labyrinth/internal/sim"

// Cue is a sound the frontends play in response to gameplay events.
type Cue int

const (
	CueNone  Cue = iota // silent
	CueBump             // ball hit a wall
	CueFall             // ball dropped into a hole or off the board
	CueSpawn            // ball finished growing in
	CueWin              // goal reached
)

// minBumpSpeed keeps resting contact against a wall silent.
const minBumpSpeed = 0.3

// CueFor maps an event onto a sound cue. The second result is false when
// the event is silent.
func CueFor(e sim.Event) (Cue, bool) {
	switch e.Type {
	case sim.EventObstacleHit:
		if e.Speed >= minBumpSpeed {
			return CueBump, true
		}
	case sim.EventOutOfBounds:
		return CueFall, true
	case sim.EventHoleEntered:
		if e.Final {
			return CueWin, true
		}
		return CueFall, true
	case sim.EventPhaseChanged:
		if e.To == sim.PhaseRunning {
			return CueSpawn, true
		}
	}
	return CueNone, false
}

// BumpVolume scales a bump by impact speed into [0.2, 1].
func BumpVolume(speed float64) float64 {
	v := speed / 3
	if v < 0.2 {
		return 0.2
	}
	if v > 1 {
		return 1
	}
	return v
}

// WireCues calls play for every event on bus that has a cue.
func WireCues(bus *sim.EventBus, play func(c Cue, volume float64)) {
	bus.SubscribeAll(func(e sim.Event) {
		cue, ok := CueFor(e)
		if !ok {
			return
		}
		volume := 1.0
		if cue == CueBump {
			volume = BumpVolume(e.Speed)
		}
		play(cue, volume)
	})
}
