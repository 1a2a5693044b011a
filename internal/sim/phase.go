package sim

import "fmt"

// Phase is the top-level game state.
type Phase int

const (
	PhaseRespawnGrow   Phase = iota // ball scales in at the start position
	PhaseRunning                    // tilt, dynamics and collisions active
	PhaseRespawnShrink              // ball scales out, board returns to level
	PhaseSplash                     // goal reached
)

func (p Phase) String() string {
	switch p {
	case PhaseRespawnGrow:
		return "respawn_grow"
	case PhaseRunning:
		return "running"
	case PhaseRespawnShrink:
		return "respawn_shrink"
	case PhaseSplash:
		return "splash"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// CanTransition reports whether to is a defined successor of p.
func (p Phase) CanTransition(to Phase) bool {
	switch p {
	case PhaseRespawnGrow:
		return to == PhaseRunning
	case PhaseRunning:
		return to == PhaseRespawnShrink || to == PhaseSplash
	case PhaseRespawnShrink:
		return to == PhaseRespawnGrow
	}
	return false
}

// phaseSlot holds at most one pending transition per tick.
type phaseSlot struct {
	to  Phase
	set bool
}

// offer stores to if the slot is empty and reports whether it was taken.
func (s *phaseSlot) offer(to Phase) bool {
	if s.set {
		return false
	}
	s.to, s.set = to, true
	return true
}

func (s *phaseSlot) take() (Phase, bool) {
	to, ok := s.to, s.set
	s.set = false
	return to, ok
}

// timerEpsilon absorbs float drift from accumulating dt, so ten 0.1 s steps
// complete a one second animation.
const timerEpsilon = 1e-9

// progress returns elapsed/duration clamped to [0, 1].
func progress(elapsed, duration float64) float64 {
	if duration <= 0 || elapsed >= duration-timerEpsilon {
		return 1
	}
	return clampF(elapsed/duration, 0, 1)
}
