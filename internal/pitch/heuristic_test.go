package pitch

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noiseHop(amp float32) []float32 {
	s := make([]float32, HopSamples)
	for i := range s {
		x := math.Sin(float64(i)*12.9898) * 43758.5453
		s[i] = amp * float32(2*(x-math.Floor(x))-1)
	}
	return s
}

func sineHop(freqHz, fm float64, amp float32, startPhase float64) ([]float32, float64) {
	s := make([]float32, HopSamples)
	phase := startPhase
	step := 2 * math.Pi * freqHz / fm
	for i := range s {
		s[i] = amp * float32(math.Sin(phase))
		phase += step
	}
	return s, phase
}

func TestHeuristicPitch_ScoreStaysInRange(t *testing.T) {
	t.Parallel()
	h := NewHeuristic()
	phase := 0.0
	for i := 0; i < 50; i++ {
		var hop []float32
		hop, phase = sineHop(220, 16000, 0.3, phase)
		score := h.ProcessHop(hop)
		require.GreaterOrEqual(t, score, float32(0))
		require.LessOrEqual(t, score, float32(1))
	}
}

func TestHeuristicPitch_SilentHopDecaysSmoothedConfidence(t *testing.T) {
	t.Parallel()
	h := NewHeuristic()
	h.smoothed = 0.8
	score := h.ProcessHop(make([]float32, HopSamples))
	assert.InDelta(t, float64(float32(0.4)), score, 1e-9)
}

func TestHeuristicPitch_RisesOnSineOnset(t *testing.T) {
	t.Parallel()
	h := NewHeuristic()

	// 1 s of quiet noise to settle smoothing near 0.
	phase := 0.0
	for i := 0; i < 15; i++ {
		h.ProcessHop(noiseHop(0.001))
	}

	// 200 Hz sine at amplitude 0.3; confidence should cross 0.5 within
	// 100 ms (roughly 2 hops at 64 ms each).
	crossed := -1
	for i := 0; i < 2; i++ {
		var hop []float32
		hop, phase = sineHop(200, 16000, 0.3, phase)
		score := h.ProcessHop(hop)
		if score > 0.5 {
			crossed = i
			break
		}
	}
	assert.NotEqual(t, -1, crossed, "heuristic pitch confidence never crossed 0.5 within 100ms of sine onset")
}

func TestHeuristicPitch_ResetClearsSmoothedState(t *testing.T) {
	t.Parallel()
	h := NewHeuristic()
	h.smoothed = 0.75
	h.Reset()
	assert.Equal(t, 0.0, h.smoothed)
}
