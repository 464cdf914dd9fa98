package pipeline

import (
	"math"
	"sync/atomic"

	"github.com/emmjayh/SingWithMe/internal/gate"
)

// paramStore holds every control-thread-writable scalar parameter as an
// atomic cell: each is snapshotted once at the top of process(), so a
// write landing mid-block simply waits for the next block boundary to
// take effect. No lock is ever held across the audio callback.
type paramStore struct {
	instrumentGainDb atomic.Uint64
	guideGainDb      atomic.Uint64
	micMonitorGainDb atomic.Uint64
	noiseFloorAmp    atomic.Uint64
	playbackLeakComp atomic.Uint64

	manualMode atomic.Int32
	guideMuted atomic.Bool

	crowdAdapt   atomic.Uint64
	crowdRecover atomic.Uint64
	crowdClamp   atomic.Uint64

	reverbMix   atomic.Uint64
	reverbTailS atomic.Uint64

	timbreStrength atomic.Uint64

	envHoldMs     atomic.Uint64
	envReleaseMs  atomic.Uint64
	envReleaseMod atomic.Uint64
}

func storeF64(cell *atomic.Uint64, v float64) { cell.Store(math.Float64bits(v)) }
func loadF64(cell *atomic.Uint64) float64      { return math.Float64frombits(cell.Load()) }

// paramSnapshot is the value-copied view the audio thread reads once per
// process() call.
type paramSnapshot struct {
	instrumentGainDb float64
	guideGainDb      float64
	micMonitorGainDb float64
	noiseFloorAmp    float64
	playbackLeakComp float64

	manualMode gate.ManualMode
	guideMuted bool

	crowdAdapt, crowdRecover, crowdClamp float64
	reverbMix, reverbTailS               float64
	timbreStrength                       float64
	envHoldMs, envReleaseMs, envReleaseMod float64
}

func (p *paramStore) snapshot() paramSnapshot {
	return paramSnapshot{
		instrumentGainDb: loadF64(&p.instrumentGainDb),
		guideGainDb:      loadF64(&p.guideGainDb),
		micMonitorGainDb: loadF64(&p.micMonitorGainDb),
		noiseFloorAmp:    loadF64(&p.noiseFloorAmp),
		playbackLeakComp: loadF64(&p.playbackLeakComp),
		manualMode:       gate.ManualMode(p.manualMode.Load()),
		guideMuted:       p.guideMuted.Load(),
		crowdAdapt:       loadF64(&p.crowdAdapt),
		crowdRecover:     loadF64(&p.crowdRecover),
		crowdClamp:       loadF64(&p.crowdClamp),
		reverbMix:        loadF64(&p.reverbMix),
		reverbTailS:      loadF64(&p.reverbTailS),
		timbreStrength:   loadF64(&p.timbreStrength),
		envHoldMs:        loadF64(&p.envHoldMs),
		envReleaseMs:     loadF64(&p.envReleaseMs),
		envReleaseMod:    loadF64(&p.envReleaseMod),
	}
}
