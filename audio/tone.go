package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"

	"github.com/lixenwraith/blockcompare/parameter"
)

// ToneFrequency returns the pitch for a feedback level
// Levels are clamped to [ToneMinLevel, ToneMaxLevel]
func ToneFrequency(level int) float64 {
	level = max(parameter.ToneMinLevel, min(parameter.ToneMaxLevel, level))
	return parameter.ToneBaseFrequency + parameter.ToneStepFrequency*float64(level)
}

// sine generates a fixed-length sine wave
type sine struct {
	freq     float64
	phase    float64
	duration int
	position int
	rate     beep.SampleRate
}

// NewSine creates a sine streamer of the given length
func NewSine(freq float64, duration time.Duration, rate beep.SampleRate) beep.Streamer {
	return &sine{
		freq:     freq,
		duration: rate.N(duration),
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

// envelope ramps linearly to peak over attack, then back to zero at the end
type envelope struct {
	streamer beep.Streamer
	position int
	attack   int
	total    int
	peak     float64
}

// NewEnvelope shapes s with a linear attack and release
func NewEnvelope(s beep.Streamer, duration, attack time.Duration, peak float64, rate beep.SampleRate) beep.Streamer {
	total := rate.N(duration)
	att := min(rate.N(attack), total)
	return &envelope{
		streamer: s,
		attack:   att,
		total:    total,
		peak:     peak,
	}
}

// gain returns the envelope value at sample position p
func (e *envelope) gain(p int) float64 {
	switch {
	case p >= e.total:
		return 0
	case p < e.attack:
		return e.peak * float64(p) / float64(e.attack)
	default:
		release := e.total - e.attack
		if release <= 0 {
			return 0
		}
		return e.peak * float64(e.total-p) / float64(release)
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)
	for i := 0; i < n; i++ {
		if e.position >= e.total {
			return i, i > 0
		}
		g := e.gain(e.position)
		samples[i][0] *= g
		samples[i][1] *= g
		e.position++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// newVolume wraps s in a beep volume effect, zero volume is silent
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}

// NewTone builds the feedback tone for level
func NewTone(level int, volume float64, rate beep.SampleRate) beep.Streamer {
	osc := NewSine(ToneFrequency(level), parameter.ToneDuration, rate)
	shaped := NewEnvelope(osc, parameter.ToneDuration, parameter.ToneAttack, parameter.TonePeakGain, rate)
	return newVolume(shaped, volume)
}
