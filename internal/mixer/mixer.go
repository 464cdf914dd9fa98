// Package mixer implements the per-sample mix and effects chain: gain
// staging for backing and guide, crowd cancellation on the mic,
// timbre matching, an envelope shaper on the guide bus, a stereo reverb
// tail, and the mic monitor contribution. Every Process call is
// allocation-free; state resets on transport stop.
package mixer

import "math"

// Mixer owns the effects chain and per-bus gain state. Nothing here
// allocates after construction/Configure.
type Mixer struct {
	fs int

	InstrumentGainLin float64
	GuideGainLin      float64
	MicMonitorGainLin float64
	GuideMuted        bool

	// PlaybackLeakComp is the linear coefficient (0-1) of the combined
	// backing+guide bus subtracted from the mic before CrowdCancel runs,
	// compensating for the backing/guide playback leaking back into an
	// open mic off monitor speakers. Zero disables it.
	PlaybackLeakComp float64

	CrowdCancel *CrowdCancel
	Timbre      *TimbreMatch
	Reverb      *Reverb
}

// New builds a Mixer at fs with all effects at their default strength;
// callers adjust via the Set* methods before transport starts.
func New(fs int) *Mixer {
	return &Mixer{
		fs:                fs,
		InstrumentGainLin: 1,
		GuideGainLin:      1,
		MicMonitorGainLin: dbToLin(-6),
		CrowdCancel:       NewCrowdCancel(0.01, 0.002, 0.2),
		Timbre:            NewTimbreMatch(fs, 0.3),
		Reverb:            NewReverb(fs, 0.15, 1.2),
	}
}

// Reset clears all effect state, run on transport Stop.
func (m *Mixer) Reset() {
	m.CrowdCancel.Reset()
	m.Timbre.Reset()
	m.Reverb.Reset()
}

func (m *Mixer) SetInstrumentGainDb(db float64) { m.InstrumentGainLin = dbToLin(db) }
func (m *Mixer) SetGuideGainDb(db float64)      { m.GuideGainLin = dbToLin(db) }
func (m *Mixer) SetMicMonitorGainDb(db float64) { m.MicMonitorGainLin = dbToLin(db) }
func (m *Mixer) SetGuideMuted(muted bool)       { m.GuideMuted = muted }

func (m *Mixer) SetPlaybackLeakCompensation(coeff float64) { m.PlaybackLeakComp = coeff }

func (m *Mixer) SetCrowdCancel(adapt, recover, clamp float64) {
	m.CrowdCancel.Adapt = adapt
	m.CrowdCancel.Recover = recover
	m.CrowdCancel.Clamp = clamp
}

func (m *Mixer) SetTimbreStrength(strength float64) { m.Timbre.SetStrength(strength) }

func (m *Mixer) SetReverb(mix, tailSeconds float64) { m.Reverb.SetDecay(mix, tailSeconds) }

// Process runs one sample through the chain. gateGainLin and
// envelopeGainLin are externally computed (gate.Gate and mixer.Envelope
// live at the Pipeline level, one Update per block) and simply scale the
// guide bus here.
func (m *Mixer) Process(backingL, backingR, guideL, guideR, mic float32, gateGainLin, envelopeGainLin float64) (outL, outR float32) {
	instrumentL := backingL * float32(m.InstrumentGainLin)
	instrumentR := backingR * float32(m.InstrumentGainLin)

	guideScale := float32(0)
	if !m.GuideMuted {
		guideScale = float32(m.GuideGainLin * gateGainLin * envelopeGainLin)
	}
	guideAdjL := guideL * guideScale
	guideAdjR := guideR * guideScale

	micDeLeaked := mic
	if m.PlaybackLeakComp != 0 {
		playbackBus := (backingL + backingR + guideL + guideR) / 4
		micDeLeaked -= float32(m.PlaybackLeakComp) * playbackBus
	}
	micCancelled := m.CrowdCancel.Process(micDeLeaked)

	guideAdjL = m.Timbre.Process(guideAdjL, micCancelled, 0)
	guideAdjR = m.Timbre.Process(guideAdjR, micCancelled, 1)

	reverbIn := (guideAdjL + guideAdjR) / 2
	wetL, wetR := m.Reverb.Process(reverbIn)

	micContrib := micCancelled * float32(m.MicMonitorGainLin)

	outL = instrumentL + guideAdjL + wetL + micContrib
	outR = instrumentR + guideAdjR + wetR + micContrib
	return outL, outR
}

func dbToLin(db float64) float64 {
	return math.Pow(10, db/20)
}
