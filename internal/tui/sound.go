package tui

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"

	"labyrinth/internal/logging"
	"labyrinth/internal/session"
)

const sampleRate = beep.SampleRate(44100)

// Sound plays cues through the system speaker. A zero Sound is silent.
type Sound struct {
	enabled bool
}

// NewSound opens the speaker unless muted. Failure is logged and leaves the
// game silent.
func NewSound(mute bool) *Sound {
	if mute {
		return &Sound{}
	}
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		logging.L().Warn("audio disabled", logging.Error(err))
		return &Sound{}
	}
	return &Sound{enabled: true}
}

func (s *Sound) Play(cue session.Cue, volume float64) {
	if s == nil || !s.enabled {
		return
	}
	if st := cueStreamer(cue, volume); st != nil {
		speaker.Play(st)
	}
}

func (s *Sound) Close() {
	if s != nil && s.enabled {
		speaker.Close()
		s.enabled = false
	}
}

func tone(freq float64, d time.Duration) beep.Streamer {
	n := sampleRate.N(d)
	sine, err := generators.SineTone(sampleRate, freq)
	if err != nil {
		return generators.Silence(n)
	}
	return beep.Take(n, sine)
}

func withVolume(st beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: st, Base: 2, Silent: true}
	}
	// Full volume sits one step below unity to leave headroom for overlaps.
	return &effects.Volume{Streamer: st, Base: 2, Volume: math.Log2(vol) - 1}
}

func cueStreamer(cue session.Cue, volume float64) beep.Streamer {
	var st beep.Streamer
	switch cue {
	case session.CueBump:
		st = tone(110, 60*time.Millisecond)
	case session.CueSpawn:
		st = tone(660, 70*time.Millisecond)
	case session.CueFall:
		st = beep.Seq(
			tone(440, 80*time.Millisecond),
			tone(330, 80*time.Millisecond),
			tone(220, 160*time.Millisecond),
		)
	case session.CueWin:
		st = beep.Seq(
			tone(523.25, 120*time.Millisecond),
			tone(659.25, 120*time.Millisecond),
			tone(783.99, 120*time.Millisecond),
			tone(1046.5, 240*time.Millisecond),
		)
	default:
		return nil
	}
	return withVolume(st, volume)
}
