// Package pitch implements the voiced-pitch-confidence frontend: a 64
// ms-hop voiced-confidence score, again via a narrow capability
// interface with neural and heuristic backends.
package pitch

// HopSamples is the fixed hop length at the model sample rate (64 ms at
// Fm = 16 kHz).
const HopSamples = 1024

// Frontend is the capability every pitch backend satisfies.
type Frontend interface {
	// ProcessHop scores one 64 ms hop at Fm and returns a voiced
	// confidence in [0,1]. Backend errors collapse to 0, state
	// unchanged.
	ProcessHop(samples []float32) float32

	Reset()
	SetSampleRate(fm int)
}
