package vad

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_DefaultsToHeuristic(t *testing.T) {
	t.Parallel()
	f := New("", "")
	_, ok := f.(*Heuristic)
	assert.True(t, ok, "expected heuristic backend for empty backend name")
}

func TestNew_NeuralWithoutModelPathFallsBack(t *testing.T) {
	t.Parallel()
	f := New("neural", "")
	_, ok := f.(*Heuristic)
	assert.True(t, ok, "neural backend requested with no model path should fall back to heuristic")
}

func TestNewWithFallbackInfo_MissingModelReportsError(t *testing.T) {
	t.Parallel()
	f, err := NewWithFallbackInfo("neural", "/nonexistent/model.tflite")
	require.Error(t, err)
	_, ok := f.(*Heuristic)
	assert.True(t, ok)
}
