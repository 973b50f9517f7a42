package parameter

import "time"

// Audio Hardware Settings
const (
	AudioSampleRate = 44100

	// AudioBufferDuration determines speaker latency
	AudioBufferDuration = 100 * time.Millisecond
)

// Tone Shape
// Frequency is ToneBaseFrequency + ToneStepFrequency*level
const (
	ToneBaseFrequency = 200.0
	ToneStepFrequency = 50.0

	ToneDuration = 200 * time.Millisecond
	ToneAttack   = 10 * time.Millisecond

	// TonePeakGain is the linear gain reached at the end of the attack
	TonePeakGain = 0.3

	// ToneMinLevel and ToneMaxLevel bound the accepted level range
	ToneMinLevel = 0
	ToneMaxLevel = 20
)

// Mixer
const (
	// MixerQueueSize bounds tones waiting to be mixed
	MixerQueueSize = 16
)
