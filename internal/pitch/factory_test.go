package pitch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_DefaultsToHeuristic(t *testing.T) {
	t.Parallel()
	f := New("", "")
	_, ok := f.(*Heuristic)
	assert.True(t, ok)
}

func TestNewWithFallbackInfo_MissingModelReportsError(t *testing.T) {
	t.Parallel()
	f, err := NewWithFallbackInfo("neural", "/nonexistent/crepe.tflite")
	require.Error(t, err)
	_, ok := f.(*Heuristic)
	assert.True(t, ok)
}
