package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"

	"github.com/yvann-ba/ft-transcendence-sub000/internal/game"
)

const (
	sampleRate = beep.SampleRate(44100)
)

// Player turns match events into short synthesized sounds.
type Player struct {
	enabled bool
}

// Init opens the speaker. A muted player never touches the audio device.
func Init(muted bool) (*Player, error) {
	if muted {
		return &Player{}, nil
	}

	err := speaker.Init(sampleRate, sampleRate.N(time.Second/30))
	if err != nil {
		return &Player{}, err
	}
	return &Player{enabled: true}, nil
}

// Close shuts down the audio system
func (p *Player) Close() {
	if p.enabled {
		speaker.Close()
		p.enabled = false
	}
}

// Enabled reports whether sounds are played
func (p *Player) Enabled() bool {
	return p.enabled
}

// Play plays the sound for ev, if it has one
func (p *Player) Play(ev game.Event) {
	if !p.enabled {
		return
	}
	if s, ok := cueFor(ev); ok {
		speaker.Play(s)
	}
}

// cueFor returns the sound of an event
func cueFor(ev game.Event) (beep.Streamer, bool) {
	switch ev.Kind {
	case game.EventPaddleHit:
		// High-pitched short beep
		return squareWave(880, 50*time.Millisecond), true

	case game.EventWallBounce:
		// Medium-pitched short beep
		return squareWave(440, 30*time.Millisecond), true

	case game.EventBrickBroken:
		return beep.Seq(
			squareWave(1320, 40*time.Millisecond),
			squareWave(990, 40*time.Millisecond),
		), true

	case game.EventScored:
		// Descending tone for score
		return beep.Seq(
			squareWave(660, 100*time.Millisecond),
			squareWave(440, 100*time.Millisecond),
			squareWave(330, 150*time.Millisecond),
		), true

	case game.EventCountdownTick:
		return tone(523, 120*time.Millisecond), true

	case game.EventPhaseChanged:
		if ev.Phase == game.PhaseFadingOut {
			// "GO"
			return tone(1046, 250*time.Millisecond), true
		}

	case game.EventMatchEnded:
		if ev.Result != nil && ev.Result.Outcome == game.OutcomeWin {
			return beep.Seq(
				squareWave(523, 100*time.Millisecond),
				squareWave(659, 100*time.Millisecond),
				squareWave(784, 100*time.Millisecond),
				squareWave(1046, 250*time.Millisecond),
			), true
		}
		return beep.Seq(
			squareWave(392, 150*time.Millisecond),
			silence(50*time.Millisecond),
			squareWave(330, 150*time.Millisecond),
			silence(50*time.Millisecond),
			squareWave(262, 300*time.Millisecond),
		), true
	}
	return nil, false
}

func silence(duration time.Duration) beep.Streamer {
	return beep.Silence(sampleRate.N(duration))
}

// tone generates a sine wave tone at the given frequency for the given duration
func tone(freq float64, duration time.Duration) beep.Streamer {
	numSamples := sampleRate.N(duration)
	phase := 0.0
	phaseStep := 2 * math.Pi * freq / float64(sampleRate)

	return beep.StreamerFunc(func(samples [][2]float64) (n int, ok bool) {
		for i := range samples {
			if numSamples <= 0 {
				return i, i > 0
			}
			val := math.Sin(phase) * 0.3 // 0.3 volume
			samples[i][0] = val
			samples[i][1] = val
			phase += phaseStep
			numSamples--
		}
		return len(samples), true
	})
}

// squareWave generates a square wave tone (more retro/8-bit feel)
func squareWave(freq float64, duration time.Duration) beep.Streamer {
	numSamples := sampleRate.N(duration)
	phase := 0.0
	phaseStep := freq / float64(sampleRate)

	return beep.StreamerFunc(func(samples [][2]float64) (n int, ok bool) {
		for i := range samples {
			if numSamples <= 0 {
				return i, i > 0
			}
			// Square wave: positive or negative based on phase
			val := 0.2 // volume
			if math.Mod(phase, 1.0) > 0.5 {
				val = -val
			}
			samples[i][0] = val
			samples[i][1] = val
			phase += phaseStep
			numSamples--
		}
		return len(samples), true
	})
}
