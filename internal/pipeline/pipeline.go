// Package pipeline owns the karaoke accompaniment engine's real-time
// audio graph: voice-activity and pitch frontends, the calibrator, the
// confidence gate, the media buffers, and the mixer, wired together
// behind the device callback contract.
package pipeline

import (
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/emmjayh/SingWithMe/internal/calibrate"
	"github.com/emmjayh/SingWithMe/internal/config"
	"github.com/emmjayh/SingWithMe/internal/errors"
	"github.com/emmjayh/SingWithMe/internal/gate"
	"github.com/emmjayh/SingWithMe/internal/media"
	"github.com/emmjayh/SingWithMe/internal/mixer"
	"github.com/emmjayh/SingWithMe/internal/pitch"
	"github.com/emmjayh/SingWithMe/internal/vad"
)

// TransportState is one of {Playing, Paused, Stopped}.
type TransportState int32

const (
	Stopped TransportState = iota
	Playing
	Paused
)

// Pipeline owns every analysis and mixing subsystem. VAD
// and Pitch frontends are borrowed: the caller constructs them (they may
// be reused across Pipeline instances) and must keep them alive for at
// least the Pipeline's lifetime.
type Pipeline struct {
	id uuid.UUID

	ctx *config.Context
	cfg config.RuntimeConfig

	vadFrontend   vad.Frontend
	pitchFrontend pitch.Frontend
	calibrator atomic.Pointer[calibrate.Calibrator]
	gate          *gate.Gate
	mixer         *mixer.Mixer
	envelope      *mixer.Envelope

	vadRing   *analysisRing
	pitchRing *analysisRing

	backing atomic.Pointer[media.Buffer]
	guide   atomic.Pointer[media.Buffer]
	cursor  media.Cursor

	transport  atomic.Int32
	params     paramStore
	phraseAware atomic.Uint64 // external phrase-confidence scalar the caller may set

	lastVAD, lastPitch, fusedConfidence float64

	metrics     metricsCell
	promMetrics *promMetrics
}

// New constructs an unconfigured Pipeline. Call Configure before Play.
func New(ctx *config.Context, vadFrontend vad.Frontend, pitchFrontend pitch.Frontend) *Pipeline {
	p := &Pipeline{
		id:            uuid.New(),
		ctx:           ctx,
		vadFrontend:   vadFrontend,
		pitchFrontend: pitchFrontend,
	}
	p.transport.Store(int32(Stopped))
	empty := media.EmptyBuffer()
	p.backing.Store(&empty)
	emptyGuide := media.EmptyBuffer()
	p.guide.Store(&emptyGuide)
	return p
}

// ID identifies this pipeline instance, useful for correlating control
// plane requests and MQTT state broadcasts to a specific running engine.
func (p *Pipeline) ID() uuid.UUID { return p.id }

// Configure snapshots cfg, reconfigures the gate, resets VAD state,
// recomputes linear gains, and (if media paths are set) triggers file
// loads. Leaves transport Stopped. Must only be called while the audio
// thread is quiesced.
func (p *Pipeline) Configure(cfg config.RuntimeConfig) error {
	p.cfg = cfg.Clone()

	p.gate = gate.New(cfg.Fs(), cfg.N(), gate.Config{
		LookAheadMs:  cfg.Gate.LookAheadMs,
		AttackMs:     cfg.Gate.AttackMs,
		ReleaseMs:    cfg.Gate.ReleaseMs,
		HoldMs:       cfg.Gate.HoldMs,
		ThresholdOn:  cfg.Gate.ThresholdOn,
		ThresholdOff: cfg.Gate.ThresholdOff,
		FramesOn:     cfg.Gate.FramesOn,
		FramesOff:    cfg.Gate.FramesOff,
		DuckDb:       cfg.Gate.DuckDb,
	})

	p.vadFrontend.Reset()
	p.vadFrontend.SetSampleRate(cfg.Fm())
	p.pitchFrontend.Reset()
	p.pitchFrontend.SetSampleRate(cfg.Fm())

	p.calibrator.Store(nil)

	p.mixer = mixer.New(cfg.Fs())
	p.mixer.SetInstrumentGainDb(cfg.Media.InstrumentGainDb)
	p.mixer.SetGuideGainDb(cfg.Media.GuideGainDb)
	p.mixer.SetMicMonitorGainDb(cfg.Media.MicMonitorGainDb)
	p.mixer.SetPlaybackLeakCompensation(cfg.Media.PlaybackLeakCompensation)
	p.mixer.SetCrowdCancel(cfg.Environment.CrowdCancelAdapt, cfg.Environment.CrowdCancelRecover, cfg.Environment.CrowdCancelClamp)
	p.mixer.SetTimbreStrength(cfg.Environment.TimbreStrength)
	p.mixer.SetReverb(cfg.Environment.ReverbMix, cfg.Environment.ReverbTailSeconds)

	p.envelope = mixer.NewEnvelope(cfg.Environment.EnvelopeHoldMs, cfg.Environment.EnvelopeReleaseMs, cfg.Environment.EnvelopeReleaseMod)

	p.initParams(cfg)
	p.rebuildRings(cfg)
	p.cursor = media.Cursor{Loop: cfg.Media.Loop}

	p.transport.Store(int32(Stopped))

	if cfg.Media.InstrumentPath != "" {
		if err := p.LoadInstrument(cfg.Media.InstrumentPath); err != nil {
			p.ctx.ReportError(err)
		}
	}
	if cfg.Media.GuidePath != "" {
		if err := p.LoadGuide(cfg.Media.GuidePath); err != nil {
			p.ctx.ReportError(err)
		}
	}

	return nil
}

func (p *Pipeline) initParams(cfg config.RuntimeConfig) {
	storeF64(&p.params.instrumentGainDb, cfg.Media.InstrumentGainDb)
	storeF64(&p.params.guideGainDb, cfg.Media.GuideGainDb)
	storeF64(&p.params.micMonitorGainDb, cfg.Media.MicMonitorGainDb)
	storeF64(&p.params.noiseFloorAmp, 0)
	storeF64(&p.params.playbackLeakComp, cfg.Media.PlaybackLeakCompensation)
	p.params.manualMode.Store(int32(gate.Auto))
	p.params.guideMuted.Store(false)
	storeF64(&p.params.crowdAdapt, cfg.Environment.CrowdCancelAdapt)
	storeF64(&p.params.crowdRecover, cfg.Environment.CrowdCancelRecover)
	storeF64(&p.params.crowdClamp, cfg.Environment.CrowdCancelClamp)
	storeF64(&p.params.reverbMix, cfg.Environment.ReverbMix)
	storeF64(&p.params.reverbTailS, cfg.Environment.ReverbTailSeconds)
	storeF64(&p.params.timbreStrength, cfg.Environment.TimbreStrength)
	storeF64(&p.params.envHoldMs, cfg.Environment.EnvelopeHoldMs)
	storeF64(&p.params.envReleaseMs, cfg.Environment.EnvelopeReleaseMs)
	storeF64(&p.params.envReleaseMod, cfg.Environment.EnvelopeReleaseMod)
	storeF64(&p.phraseAware, 0)
}

func (p *Pipeline) rebuildRings(cfg config.RuntimeConfig) {
	fs, fm := cfg.Fs(), cfg.Fm()
	k := int(roundDiv(fs, fm))
	if k < 1 {
		k = 1
	}
	p.vadRing = newAnalysisRing(480, vad.FrameSamples, k)
	pitchRawLen := roundTo(0.064 * float64(fs))
	p.pitchRing = newAnalysisRing(pitchRawLen, pitch.HopSamples, k)
}

func roundDiv(a, b int) int {
	if b == 0 {
		return 0
	}
	return roundTo(float64(a) / float64(b))
}

func roundTo(x float64) int {
	return int(x + 0.5)
}

// UpdateBufferSize rebuilds the gate and analysis rings for a new block
// size n while preserving transport state, manual mode, mute state, and
// loaded media.
func (p *Pipeline) UpdateBufferSize(n int) {
	p.cfg.BufferSamples = n
	p.gate.Configure(p.cfg.Fs(), n, gate.Config{
		LookAheadMs:  p.cfg.Gate.LookAheadMs,
		AttackMs:     p.cfg.Gate.AttackMs,
		ReleaseMs:    p.cfg.Gate.ReleaseMs,
		HoldMs:       p.cfg.Gate.HoldMs,
		ThresholdOn:  p.cfg.Gate.ThresholdOn,
		ThresholdOff: p.cfg.Gate.ThresholdOff,
		FramesOn:     p.cfg.Gate.FramesOn,
		FramesOff:    p.cfg.Gate.FramesOff,
		DuckDb:       p.cfg.Gate.DuckDb,
	})
	p.rebuildRings(p.cfg)
}

// Play, Pause and Stop are the transport operations.
func (p *Pipeline) Play() { p.transport.Store(int32(Playing)) }

func (p *Pipeline) Pause() { p.transport.Store(int32(Paused)) }

func (p *Pipeline) Stop() {
	p.transport.Store(int32(Stopped))
	p.cursor.Reset()
	p.vadRing.reset()
	p.pitchRing.reset()
	p.mixer.Reset()
	p.vadFrontend.Reset()
	p.pitchFrontend.Reset()
	p.envelope.Reset()
}

func (p *Pipeline) IsPlaying() bool { return TransportState(p.transport.Load()) == Playing }

func (p *Pipeline) TransportState() TransportState { return TransportState(p.transport.Load()) }

// LoadInstrument decodes and resamples path, then publishes it to the
// audio thread via an atomic pointer swap — a single-writer,
// single-reader handoff so the audio thread never observes a partially
// written buffer.
func (p *Pipeline) LoadInstrument(path string) error {
	buf, err := media.Load(path, p.cfg.Fs())
	if err != nil {
		p.ctx.ReportError(errors.New(err).Component("pipeline").Category(errors.CategoryMedia).Build())
		p.ClearInstrument()
		return err
	}
	p.backing.Store(&buf)
	return nil
}

// LoadGuide is LoadInstrument's counterpart for the guide track.
func (p *Pipeline) LoadGuide(path string) error {
	buf, err := media.Load(path, p.cfg.Fs())
	if err != nil {
		p.ctx.ReportError(errors.New(err).Component("pipeline").Category(errors.CategoryMedia).Build())
		p.ClearGuide()
		return err
	}
	p.guide.Store(&buf)
	return nil
}

// ClearInstrument/ClearGuide empty the named buffer in place.
func (p *Pipeline) ClearInstrument() {
	empty := media.EmptyBuffer()
	p.backing.Store(&empty)
}

func (p *Pipeline) ClearGuide() {
	empty := media.EmptyBuffer()
	p.guide.Store(&empty)
}

// GetMetrics returns the most recently published snapshot, non-blocking.
func (p *Pipeline) GetMetrics() Metrics { return p.metrics.get() }

// RegisterMetrics wires this pipeline's live metrics into reg as
// Prometheus gauges, for the control plane's /metrics endpoint. Call
// once, before the audio thread starts; the gauges are then updated from
// Process without any further registration traffic.
func (p *Pipeline) RegisterMetrics(reg prometheus.Registerer) {
	p.promMetrics = newPromMetrics(reg)
}

// --- control-thread parameter setters ---

func (p *Pipeline) SetManualMode(mode gate.ManualMode) { p.params.manualMode.Store(int32(mode)) }

func (p *Pipeline) SetGuideMute(muted bool) { p.params.guideMuted.Store(muted) }

func (p *Pipeline) SetInstrumentGainDb(db float64) { storeF64(&p.params.instrumentGainDb, db) }

func (p *Pipeline) SetGuideGainDb(db float64) { storeF64(&p.params.guideGainDb, db) }

func (p *Pipeline) SetMicMonitorGainDb(db float64) { storeF64(&p.params.micMonitorGainDb, db) }

func (p *Pipeline) SetNoiseFloorAmp(amp float64) { storeF64(&p.params.noiseFloorAmp, amp) }

// SetPlaybackLeakCompensation sets the linear coefficient (0-1) of the
// backing/guide bus subtracted from the mic signal before crowd
// cancellation, compensating for the played-back tracks leaking back
// into an open mic off monitor speakers.
func (p *Pipeline) SetPlaybackLeakCompensation(coeff float64) {
	storeF64(&p.params.playbackLeakComp, coeff)
}

func (p *Pipeline) SetCrowdCancel(adapt, recover, clampLevel float64) {
	storeF64(&p.params.crowdAdapt, adapt)
	storeF64(&p.params.crowdRecover, recover)
	storeF64(&p.params.crowdClamp, clampLevel)
}

func (p *Pipeline) SetReverb(mix, tailSeconds float64) {
	storeF64(&p.params.reverbMix, mix)
	storeF64(&p.params.reverbTailS, tailSeconds)
}

func (p *Pipeline) SetTimbre(strength float64) { storeF64(&p.params.timbreStrength, strength) }

func (p *Pipeline) SetEnvelope(holdMs, releaseMs, mod float64) {
	storeF64(&p.params.envHoldMs, holdMs)
	storeF64(&p.params.envReleaseMs, releaseMs)
	storeF64(&p.params.envReleaseMod, mod)
}

// SetPhraseAware sets the externally supplied phrase-confidence scalar.
// Nothing in this module produces a value for it; it exists so a caller
// with lyric-timing information can feed a phrase-boundary-aware
// confidence boost into the weighted fuse in Process.
func (p *Pipeline) SetPhraseAware(v float64) { storeF64(&p.phraseAware, v) }

// StartCalibration arms a fresh calibration run of durationS seconds,
// consumed by Process on subsequent callbacks regardless of transport
// state (calibration runs inline on whatever mic samples arrive, Playing
// or not). Safe to call from the control thread; the audio thread only
// ever reads the pointer it installs here, never mutates it.
func (p *Pipeline) StartCalibration(durationS float64) {
	p.calibrator.Store(calibrate.Start(p.cfg.Fs(), durationS))
}

// CalibrationResult returns the most recent calibration outcome. Valid
// to call at any time; IsValid is false until a run has both completed
// and measured a plausible vocal peak.
func (p *Pipeline) CalibrationResult() calibrate.Result {
	c := p.calibrator.Load()
	if c == nil {
		return calibrate.Result{}
	}
	return c.Result()
}
