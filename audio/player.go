// Package audio plays short feedback tones
package audio

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"github.com/pkg/errors"

	"github.com/lixenwraith/blockcompare/parameter"
)

// Player plays a tone for a feedback level
type Player interface {
	PlayTone(level int)
}

// Silent discards every tone
type Silent struct{}

func (Silent) PlayTone(int) {}

// Speaker plays tones through the beep speaker
type Speaker struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	rate        beep.SampleRate
	volume      float64
	initialized bool

	muted  atomic.Bool
	played atomic.Int64
}

// NewSpeaker creates an uninitialized speaker at the configured sample rate
func NewSpeaker(volume float64) *Speaker {
	return &Speaker{
		mixer:  &beep.Mixer{},
		rate:   beep.SampleRate(parameter.AudioSampleRate),
		volume: volume,
	}
}

// Initialize opens the audio device and starts the mixer
func (s *Speaker) Initialize() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return nil
	}
	if err := speaker.Init(s.rate, s.rate.N(parameter.AudioBufferDuration)); err != nil {
		return errors.Wrap(err, "audio device init")
	}
	speaker.Play(s.mixer)
	s.initialized = true
	return nil
}

// PlayTone queues a tone on the mixer
func (s *Speaker) PlayTone(level int) {
	if s.muted.Load() {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initialized {
		return
	}
	tone := NewTone(level, s.volume, s.rate)
	speaker.Lock()
	if s.mixer.Len() < parameter.MixerQueueSize {
		s.mixer.Add(tone)
	}
	speaker.Unlock()
	s.played.Add(1)
}

// ToggleMute flips mute and reports whether sound is now enabled
func (s *Speaker) ToggleMute() bool {
	m := !s.muted.Load()
	s.muted.Store(m)
	return !m
}

// IsMuted reports the mute state
func (s *Speaker) IsMuted() bool {
	return s.muted.Load()
}

// Played returns the number of tones queued since start
func (s *Speaker) Played() int64 {
	return s.played.Load()
}

// Close clears pending tones and releases the device
func (s *Speaker) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initialized {
		return
	}
	speaker.Clear()
	speaker.Close()
	s.initialized = false
}

// Open returns a working speaker, or Silent when no device is available
// The returned close function is always safe to call
func Open(enabled bool, volume float64, logger *log.Logger) (Player, func()) {
	if !enabled {
		return Silent{}, func() {}
	}
	sp := NewSpeaker(volume)
	start := time.Now()
	if err := sp.Initialize(); err != nil {
		if logger != nil {
			logger.Warn("audio unavailable, continuing silent", "err", err)
		}
		return Silent{}, func() {}
	}
	if logger != nil {
		logger.Debug("audio ready", "rate", parameter.AudioSampleRate, "init", time.Since(start))
	}
	return sp, sp.Close
}
