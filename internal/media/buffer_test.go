package media

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuffer_EmptyBufferAlwaysReturnsZero(t *testing.T) {
	t.Parallel()
	b := EmptyBuffer()
	assert.True(t, b.IsEmpty())
	assert.Equal(t, float32(0), b.Sample(0, 0))
	assert.Equal(t, float32(0), b.Sample(0, 1))
}

func TestBuffer_MonoFeedsBothChannels(t *testing.T) {
	t.Parallel()
	b, err := NewBuffer([][]float32{{0.1, 0.2, 0.3}}, 48000, 48000)
	require.NoError(t, err)
	assert.Equal(t, float32(0.2), b.Sample(1, 0))
	assert.Equal(t, float32(0.2), b.Sample(1, 1), "mono source should feed channel 1 too")
}

func TestBuffer_OutOfRangeCursorReturnsZero(t *testing.T) {
	t.Parallel()
	b, err := NewBuffer([][]float32{{0.1, 0.2}}, 48000, 48000)
	require.NoError(t, err)
	assert.Equal(t, float32(0), b.Sample(-1, 0))
	assert.Equal(t, float32(0), b.Sample(99, 0))
}

func TestBuffer_TooManyChannelsRejected(t *testing.T) {
	t.Parallel()
	_, err := NewBuffer([][]float32{{0}, {0}, {0}}, 48000, 48000)
	assert.Error(t, err)
}
