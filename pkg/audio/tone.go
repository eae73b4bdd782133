package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// sine generates a sine wave at a fixed frequency for a fixed number of
// samples
type sine struct {
	freq     float64
	phase    float64
	duration int
	position int
	rate     beep.SampleRate
}

// NewSine creates a sine oscillator lasting d
func NewSine(freq float64, d time.Duration, rate beep.SampleRate) beep.Streamer {
	return &sine{
		freq:     freq,
		duration: rate.N(d),
		rate:     rate,
	}
}

func (s *sine) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if s.position >= s.duration {
			return i, i > 0
		}
		val := math.Sin(2 * math.Pi * s.phase)
		samples[i][0] = val
		samples[i][1] = val

		s.phase += s.freq / float64(s.rate)
		s.phase -= math.Floor(s.phase)
		s.position++
	}
	return len(samples), true
}

func (s *sine) Err() error { return nil }

// envelope fades a stream in over attack samples and out over the last
// release samples of total
type envelope struct {
	streamer beep.Streamer
	position int
	attack   int
	release  int
	total    int
}

// NewEnvelope shapes s with a linear attack and release. The release ends
// at duration.
func NewEnvelope(s beep.Streamer, duration, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	return &envelope{
		streamer: s,
		attack:   rate.N(attack),
		release:  rate.N(release),
		total:    rate.N(duration),
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)

	for i := 0; i < n; i++ {
		if e.position >= e.total {
			return i, i > 0
		}
		vol := envelopeGain(e.position, e.attack, e.release, e.total)
		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}

	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// envelopeGain is the gain at sample pos of a total-sample envelope
func envelopeGain(pos, attack, release, total int) float64 {
	vol := 1.0
	if attack > 0 && pos < attack {
		vol = float64(pos) / float64(attack)
	}
	if release > 0 && pos >= total-release {
		tail := float64(total-pos) / float64(release)
		vol = math.Min(vol, tail)
	}
	return math.Max(vol, 0)
}

// newVolume wraps s in a linear volume. effects.Volume works in powers of
// Base, so zero volume becomes silent.
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

// Tone builds a cue: a sine at freq lasting d, with a short fade in and
// out, at linear volume vol
func Tone(freq float64, d time.Duration, vol float64, rate beep.SampleRate) beep.Streamer {
	fade := d / 4
	shaped := NewEnvelope(NewSine(freq, d, rate), d, fade, fade, rate)
	return newVolume(shaped, vol)
}
