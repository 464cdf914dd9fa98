package mixer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReverb_SilenceProducesSilence(t *testing.T) {
	t.Parallel()
	r := NewReverb(48000, 0.2, 1.0)
	for i := 0; i < 1000; i++ {
		wetL, wetR := r.Process(0)
		assert.Equal(t, float32(0), wetL)
		assert.Equal(t, float32(0), wetR)
	}
}

func TestReverb_ImpulseProducesDecayingTail(t *testing.T) {
	t.Parallel()
	r := NewReverb(48000, 1.0, 0.5)
	r.Process(1.0)
	var sawNonZero bool
	var peak float32
	for i := 0; i < 48000; i++ {
		wetL, _ := r.Process(0)
		if wetL != 0 {
			sawNonZero = true
			if wetL > peak {
				peak = wetL
			}
		}
	}
	assert.True(t, sawNonZero, "reverb should produce a tail after an impulse")
}

func TestReverb_ResetClearsDelayLines(t *testing.T) {
	t.Parallel()
	r := NewReverb(48000, 1.0, 1.0)
	for i := 0; i < 100; i++ {
		r.Process(0.5)
	}
	r.Reset()
	for _, v := range r.bufL {
		assert.Equal(t, float32(0), v)
	}
}
