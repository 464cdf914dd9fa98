package media

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResampleChannel_NoOpWhenRatesMatch(t *testing.T) {
	t.Parallel()
	in := []float32{0.1, 0.2, 0.3, 0.4}
	out := resampleChannel(in, 48000, 48000)
	assert.Equal(t, in, out)
}

func TestResampleChannel_44100To48000LengthMatchesCeilFormula(t *testing.T) {
	t.Parallel()
	samples := make([]float32, 44100) // 1.0s @ 44100Hz
	for i := range samples {
		samples[i] = float32(math.Sin(float64(i) * 0.01))
	}

	out := resampleChannel(samples, 44100, 48000)
	want := int(math.Ceil(float64(len(samples)) * 48000.0 / 44100.0))
	assert.InDelta(t, want, len(out), 1)
	assert.InDelta(t, 48000, len(out), 1)
}

func TestNewBuffer_ResamplesEachChannelIndependently(t *testing.T) {
	t.Parallel()
	left := make([]float32, 44100)
	right := make([]float32, 44100)
	for i := range left {
		left[i] = float32(math.Sin(float64(i) * 0.02))
		right[i] = float32(math.Cos(float64(i) * 0.02))
	}

	buf, err := NewBuffer([][]float32{left, right}, 44100, 48000)
	if err != nil {
		t.Fatalf("NewBuffer: %v", err)
	}
	assert.Equal(t, 2, buf.Channels())
	assert.InDelta(t, 48000, buf.Length(), 1)
}
