// Package vad implements the voice-activity-detection frontend: a
// narrow capability interface with a neural and a heuristic backend,
// chosen at construction, never swapped at runtime.
package vad

// FrameSamples is the fixed frame length at the model sample rate (10 ms
// at Fm = 16 kHz).
const FrameSamples = 160

// Frontend is the capability every VAD backend satisfies. It owns
// whatever state the backend needs (neural hidden state, heuristic
// noise floor and smoothing) and is safe to call only from the audio
// thread that constructed/reset it.
type Frontend interface {
	// ProcessFrame scores one 10 ms frame at Fm and returns a voice
	// activity probability in [0,1]. On backend error it returns 0 and
	// leaves smoothed state unchanged, never an error value — the
	// pipeline never unwinds on a frontend failure.
	ProcessFrame(samples []float32) float32

	// Reset clears smoothed/hidden state, e.g. on transport stop or
	// pipeline reconfigure.
	Reset()

	// SetSampleRate informs the backend of Fm. Backends that don't
	// care may ignore it.
	SetSampleRate(fm int)
}
