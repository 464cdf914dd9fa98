package pipeline

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/emmjayh/SingWithMe/internal/config"
	"github.com/emmjayh/SingWithMe/internal/gate"
	"github.com/emmjayh/SingWithMe/internal/media"
	"github.com/emmjayh/SingWithMe/internal/pitch"
	"github.com/emmjayh/SingWithMe/internal/vad"
)

func loadedGuideBuffer(t *testing.T, fs, n int, amplitude float32) *Pipeline {
	t.Helper()
	p := newTestPipeline(t)

	channels := [][]float32{make([]float32, n), make([]float32, n)}
	for i := range channels[0] {
		channels[0][i] = amplitude
		channels[1][i] = amplitude
	}
	buf, err := media.NewBuffer(channels, fs, fs)
	require.NoError(t, err)
	p.guide.Store(&buf)
	return p
}

func TestProcess_HostCallbackWithoutOutput_IsNoOp(t *testing.T) {
	p := newTestPipeline(t)
	p.Play()

	before := p.GetMetrics()

	mic := []float32{0.5, 0.5, 0.5, 0.5}
	p.Process(mic, 4, nil)
	p.Process(mic, 4, [][]float32{make([]float32, 4)})          // only one channel
	p.Process(mic, 4, [][]float32{nil, make([]float32, 4)})     // first channel nil
	p.Process(mic, 0, [][]float32{make([]float32, 4), make([]float32, 4)}) // n == 0

	require.Equal(t, before, p.GetMetrics())
}

func TestProcess_AlwaysOffYieldsExactZeroGuide(t *testing.T) {
	p := loadedGuideBuffer(t, 8000, 256, 0.8)
	p.SetManualMode(gate.AlwaysOff)
	p.SetMicMonitorGainDb(0) // isolate the guide bus: mic input stays silent
	p.Play()

	mic := make([]float32, 32) // silent mic: would normally still leave the guide ducked, never fully open
	out := [][]float32{make([]float32, 32), make([]float32, 32)}

	// Run several blocks so any dB glide has time to settle; AlwaysOff
	// must still be exactly zero even mid-glide.
	for i := 0; i < 5; i++ {
		p.Process(mic, len(mic), out)
	}

	for _, v := range out[0] {
		require.Equal(t, float32(0), v)
	}
	for _, v := range out[1] {
		require.Equal(t, float32(0), v)
	}
}

func TestProcess_SetGuideMute_AlsoYieldsExactZeroGuide(t *testing.T) {
	p := loadedGuideBuffer(t, 8000, 256, 0.8)
	p.SetGuideMute(true)
	p.Play()

	mic := make([]float32, 32)
	out := [][]float32{make([]float32, 32), make([]float32, 32)}
	p.Process(mic, len(mic), out)

	for _, v := range out[0] {
		require.Equal(t, float32(0), v)
	}
}

func TestProcess_IsDeterministicForIdenticalInputs(t *testing.T) {
	cfg := config.Default()
	cfg.SampleRateHz = 8000
	cfg.BufferSamples = 64

	build := func() *Pipeline {
		ctx := config.NewContext(cfg, "pipeline", nil)
		p := New(ctx, vad.NewHeuristic(), pitch.NewHeuristic())
		require.NoError(t, p.Configure(cfg))
		p.Play()
		return p
	}

	p1, p2 := build(), build()

	mic := make([]float32, 64)
	for i := range mic {
		mic[i] = float32(i%7) / 10
	}
	out1 := [][]float32{make([]float32, 64), make([]float32, 64)}
	out2 := [][]float32{make([]float32, 64), make([]float32, 64)}

	for i := 0; i < 20; i++ {
		p1.Process(mic, len(mic), out1)
		p2.Process(mic, len(mic), out2)
		require.Equal(t, out1, out2)
		require.Equal(t, p1.GetMetrics(), p2.GetMetrics())
	}
}

func TestProcess_ShortMicTreatedAsSilencePadding(t *testing.T) {
	p := newTestPipeline(t)
	p.Play()

	mic := []float32{0.5, 0.5} // shorter than n
	out := [][]float32{make([]float32, 8), make([]float32, 8)}

	require.NotPanics(t, func() {
		p.Process(mic, 8, out)
	})
}
