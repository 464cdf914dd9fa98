package pipeline

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/emmjayh/SingWithMe/internal/config"
	"github.com/emmjayh/SingWithMe/internal/pitch"
	"github.com/emmjayh/SingWithMe/internal/vad"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestPipeline(t *testing.T) *Pipeline {
	t.Helper()
	cfg := config.Default()
	cfg.SampleRateHz = 8000
	cfg.BufferSamples = 64

	ctx := config.NewContext(cfg, "pipeline", nil)
	p := New(ctx, vad.NewHeuristic(), pitch.NewHeuristic())
	require.NoError(t, p.Configure(cfg))
	return p
}

func TestConfigure_StartsStopped(t *testing.T) {
	p := newTestPipeline(t)
	require.Equal(t, Stopped, p.TransportState())
	require.False(t, p.IsPlaying())
}

func TestPlayPauseStop_TransitionTransportState(t *testing.T) {
	p := newTestPipeline(t)

	p.Play()
	require.Equal(t, Playing, p.TransportState())
	require.True(t, p.IsPlaying())

	p.Pause()
	require.Equal(t, Paused, p.TransportState())
	require.False(t, p.IsPlaying())

	p.Stop()
	require.Equal(t, Stopped, p.TransportState())
}

func TestStartCalibration_ResultInvalidUntilComplete(t *testing.T) {
	p := newTestPipeline(t)

	require.False(t, p.CalibrationResult().IsValid)

	p.StartCalibration(0.01) // 8000*0.01 = 80 samples

	mic := make([]float32, 16)
	out := [][]float32{make([]float32, 16), make([]float32, 16)}
	for i := 0; i < 10; i++ {
		for j := range mic {
			mic[j] = 0.9
		}
		p.Process(mic, len(mic), out)
	}

	result := p.CalibrationResult()
	require.True(t, result.IsValid)
	require.Greater(t, result.VocalPeakDb, result.NoiseFloorDb)
}

func TestClearInstrumentAndGuide_LeaveBuffersEmpty(t *testing.T) {
	p := newTestPipeline(t)
	p.ClearInstrument()
	p.ClearGuide()

	mic := make([]float32, 8)
	out := [][]float32{make([]float32, 8), make([]float32, 8)}
	p.Play()
	p.Process(mic, len(mic), out)

	for _, v := range out[0] {
		require.Zero(t, v)
	}
}
