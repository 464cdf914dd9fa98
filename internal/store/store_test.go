package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emmjayh/SingWithMe/internal/calibrate"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "calibration.db")
	s, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestLoad_ReturnsNotOkForUnknownVenue(t *testing.T) {
	s := openTestStore(t)

	_, ok, err := s.Load("unknown-venue")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSaveThenLoad_RoundTrips(t *testing.T) {
	s := openTestStore(t)

	result := calibrate.Result{NoiseFloorDb: -80, VocalPeakDb: -12, IsValid: true}
	require.NoError(t, s.Save("the-tavern", result))

	profile, ok, err := s.Load("the-tavern")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, result.NoiseFloorDb, profile.NoiseFloorDb)
	assert.Equal(t, result.VocalPeakDb, profile.VocalPeakDb)
}

func TestSave_UpsertsExistingVenue(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.Save("arena", calibrate.Result{NoiseFloorDb: -80, VocalPeakDb: -20}))
	require.NoError(t, s.Save("arena", calibrate.Result{NoiseFloorDb: -80, VocalPeakDb: -5}))

	profile, ok, err := s.Load("arena")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, -5.0, profile.VocalPeakDb)
}
