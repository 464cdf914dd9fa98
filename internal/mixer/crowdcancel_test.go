package mixer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCrowdCancel_SilenceStaysSilent(t *testing.T) {
	t.Parallel()
	c := NewCrowdCancel(0.01, 0.002, 0.2)
	for i := 0; i < 100; i++ {
		out := c.Process(0)
		assert.Equal(t, float32(0), out)
	}
}

func TestCrowdCancel_AttenuatesSustainedLevel(t *testing.T) {
	t.Parallel()
	c := NewCrowdCancel(0.05, 0.01, 0.5)
	var last float32
	for i := 0; i < 500; i++ {
		last = c.Process(0.1)
	}
	assert.Less(t, last, float32(0.1), "sustained ambient level should be attenuated over time")
}

func TestCrowdCancel_ResetClearsEstimate(t *testing.T) {
	t.Parallel()
	c := NewCrowdCancel(0.05, 0.01, 0.5)
	for i := 0; i < 200; i++ {
		c.Process(0.1)
	}
	c.Reset()
	assert.Equal(t, 0.0, c.estimate)
}
