package vad

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func silenceFrame() []float32 {
	return make([]float32, FrameSamples)
}

func noiseFrame(amp float32) []float32 {
	s := make([]float32, FrameSamples)
	// deterministic pseudo-noise, not math/rand, so the test is stable.
	for i := range s {
		x := math.Sin(float64(i)*12.9898) * 43758.5453
		s[i] = amp * float32(2*(x-math.Floor(x))-1)
	}
	return s
}

func sineFrame(freqHz, fm float64, amp float32, startPhase float64) ([]float32, float64) {
	s := make([]float32, FrameSamples)
	phase := startPhase
	step := 2 * math.Pi * freqHz / fm
	for i := range s {
		s[i] = amp * float32(math.Sin(phase))
		phase += step
	}
	return s, phase
}

func TestHeuristicVAD_ScoreStaysInRange(t *testing.T) {
	t.Parallel()
	h := NewHeuristic()
	for i := 0; i < 500; i++ {
		score := h.ProcessFrame(sineOrSilence(i))
		require.GreaterOrEqual(t, score, float32(0))
		require.LessOrEqual(t, score, float32(1))
	}
}

func sineOrSilence(i int) []float32 {
	if i%2 == 0 {
		return silenceFrame()
	}
	f, _ := sineFrame(200, 16000, 0.3, 0)
	return f
}

func TestHeuristicVAD_RisesOnVoiceOnset(t *testing.T) {
	t.Parallel()
	h := NewHeuristic()

	// 1 s of quiet noise (100 frames @ 10 ms) to settle the noise floor.
	for i := 0; i < 100; i++ {
		h.ProcessFrame(noiseFrame(0.001))
	}

	// Onset: 200 Hz sine at amplitude 0.3. The score should cross 0.7
	// within 200 ms (20 frames).
	phase := 0.0
	crossed := -1
	for i := 0; i < 20; i++ {
		var frame []float32
		frame, phase = sineFrame(200, 16000, 0.3, phase)
		score := h.ProcessFrame(frame)
		if score > 0.7 {
			crossed = i
			break
		}
	}
	assert.NotEqual(t, -1, crossed, "heuristic VAD never crossed 0.7 within 200ms of onset")
}

func TestHeuristicVAD_ResetClearsState(t *testing.T) {
	t.Parallel()
	h := NewHeuristic()
	phase := 0.0
	for i := 0; i < 50; i++ {
		var frame []float32
		frame, phase = sineFrame(200, 16000, 0.3, phase)
		h.ProcessFrame(frame)
	}
	require.Greater(t, h.smoothed, 0.0)
	h.Reset()
	assert.Equal(t, 0.0, h.smoothed)
	assert.Equal(t, initialNoiseFloor, h.noiseFloor)
}

func TestHeuristicVAD_EmptyFrameReturnsCurrentSmoothed(t *testing.T) {
	t.Parallel()
	h := NewHeuristic()
	h.smoothed = 0.42
	score := h.ProcessFrame(nil)
	assert.InDelta(t, float64(float32(0.42)), score, 1e-9)
}
