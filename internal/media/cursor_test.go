package media

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCursor_LoopWrap(t *testing.T) {
	t.Parallel()
	c := &Cursor{Loop: true}
	const length = 1000
	for i := 0; i < 2500; i++ {
		c.Advance(length)
		assert.GreaterOrEqual(t, c.Index, 0)
		assert.Less(t, c.Index, length)
	}
	assert.Equal(t, 500, c.Index)
	assert.False(t, c.AtEnd)
}

func TestCursor_ClampAtEndWithoutLoop(t *testing.T) {
	t.Parallel()
	c := &Cursor{Loop: false}
	const length = 10
	for i := 0; i < 25; i++ {
		c.Advance(length)
	}
	assert.Equal(t, length-1, c.Index)
	assert.True(t, c.AtEnd)
}

func TestCursor_ResetReturnsToStart(t *testing.T) {
	t.Parallel()
	c := &Cursor{Loop: false, Index: 7, AtEnd: true}
	c.Reset()
	assert.Equal(t, 0, c.Index)
	assert.False(t, c.AtEnd)
}

func TestCursor_ZeroLengthIsNoOp(t *testing.T) {
	t.Parallel()
	c := &Cursor{Index: 3}
	c.Advance(0)
	assert.Equal(t, 3, c.Index)
}
