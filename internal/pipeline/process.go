package pipeline

import (
	"math"

	"github.com/emmjayh/SingWithMe/internal/gate"
	"github.com/emmjayh/SingWithMe/internal/media"
)

// Process is the hot path: the device callback contract boiled down to
// mic in, stereo-plus out. Preconditions: outputs is zero length or
// already zero-initialised per output channel by the caller; mic may be
// shorter than n (missing samples are treated as silence) or nil.
//
// Channel layout: outputs[0]/outputs[1] carry the full stereo mix; any
// further channels receive only the raw mic contribution. Fewer than two
// output channels means the host called without an output buffer — the
// call returns immediately, writing nothing and touching no state.
func (p *Pipeline) Process(mic []float32, n int, outputs [][]float32) {
	if n <= 0 || len(outputs) < 2 || outputs[0] == nil || outputs[1] == nil {
		return
	}

	snap := p.params.snapshot()
	p.applySnapshot(snap)

	fs := p.cfg.Fs()
	blockMs := 0.0
	if fs > 0 {
		blockMs = 1000 * float64(n) / float64(fs)
	}

	weights := p.cfg.ConfidenceWeights
	phrase := loadF64(&p.phraseAware)
	confidence := clamp01(weights.VAD*p.lastVAD + weights.Pitch*p.lastPitch + weights.Phrase*phrase)
	p.fusedConfidence = confidence

	gateGainDb := p.gate.Update(confidence, p.lastVAD, p.lastPitch)
	gateGainLin := math.Pow(10, gateGainDb/20)
	envelopeGainLin := p.envelope.Update(blockMs, confidence, p.cfg.Gate.ThresholdOff, p.gate.IsTargetOpen())

	backing := p.backing.Load()
	guide := p.guide.Load()
	playing := p.IsPlaying()
	cursorLen := mediaLength(backing, guide)

	var inputSumSq, outputSumSq float64

	for i := 0; i < n; i++ {
		var micSample float32
		if i < len(mic) {
			micSample = mic[i]
		}
		inputSumSq += float64(micSample) * float64(micSample)

		// Calibrator: accumulates noise floor / vocal peak samples.
		if cal := p.calibrator.Load(); cal != nil && !cal.IsComplete() {
			cal.ProcessSample(micSample)
		}

		// VAD/pitch analysis rings, downsampled to Fm on fill.
		if p.vadRing.push(micSample) {
			p.lastVAD = float64(p.vadFrontend.ProcessFrame(p.vadRing.frame()))
		}
		if p.pitchRing.push(micSample) {
			p.lastPitch = float64(p.pitchFrontend.ProcessHop(p.pitchRing.frame()))
		}

		// Read next media samples per channel.
		var backingL, backingR, guideL, guideR float32
		if playing {
			backingL = backing.Sample(p.cursor.Index, 0)
			backingR = backing.Sample(p.cursor.Index, 1)
			guideL = guide.Sample(p.cursor.Index, 0)
			guideR = guide.Sample(p.cursor.Index, 1)
		}

		// Mixer & effects.
		outL, outR := p.mixer.Process(backingL, backingR, guideL, guideR, micSample, gateGainLin, envelopeGainLin)
		outputs[0][i] = outL
		outputs[1][i] = outR
		for ch := 2; ch < len(outputs); ch++ {
			if outputs[ch] != nil {
				outputs[ch][i] = micSample
			}
		}
		outputSumSq += float64(outL)*float64(outL) + float64(outR)*float64(outR)

		// Advance media cursors, synchronised across both tracks.
		if playing {
			p.cursor.Advance(cursorLen)
		}
	}

	inputRMS := math.Sqrt(inputSumSq / float64(n))
	outputRMS := math.Sqrt(outputSumSq / float64(2*n))

	strength := 0.0
	if cal := p.calibrator.Load(); cal != nil {
		if peak := cal.PeakAmp(); peak > snap.noiseFloorAmp {
			strength = clamp01((inputRMS - snap.noiseFloorAmp) / (peak - snap.noiseFloorAmp))
		}
	}

	m := Metrics{
		InputRMS:        inputRMS,
		OutputRMS:       outputRMS,
		LastVAD:         p.lastVAD,
		LastPitch:       p.lastPitch,
		FusedConfidence: confidence,
		Strength:        strength,
		GateGainDb:      gateGainDb,
	}
	p.metrics.publish(m)
	p.promMetrics.update(m)
}

// applySnapshot pushes the control thread's latest parameter snapshot
// into the mixer, gate and envelope. Every call it makes is one of the
// allocation-free scalar setters (Reverb.SetDecay, not Reverb.Configure)
// so this is safe to run at the top of every Process call.
func (p *Pipeline) applySnapshot(s paramSnapshot) {
	p.mixer.SetInstrumentGainDb(s.instrumentGainDb)
	p.mixer.SetGuideGainDb(s.guideGainDb)
	p.mixer.SetMicMonitorGainDb(s.micMonitorGainDb)
	p.mixer.SetPlaybackLeakCompensation(s.playbackLeakComp)
	p.mixer.SetCrowdCancel(s.crowdAdapt, s.crowdRecover, s.crowdClamp)
	p.mixer.SetTimbreStrength(s.timbreStrength)
	p.mixer.SetReverb(s.reverbMix, s.reverbTailS)

	p.gate.SetManualMode(s.manualMode)
	p.envelope.Configure(s.envHoldMs, s.envReleaseMs, s.envReleaseMod)

	// A user mute and a manual-off gate both mean "silence the guide",
	// but only the latter goes through the gate's smoothed dB duck; AlwaysOff
	// must yield an exact zero even mid-glide, so it also goes through
	// GuideMuted.
	p.mixer.SetGuideMuted(s.guideMuted || s.manualMode == gate.AlwaysOff)
}

func mediaLength(backing, guide *media.Buffer) int {
	bl, gl := 0, 0
	if !backing.IsEmpty() {
		bl = backing.Length()
	}
	if !guide.IsEmpty() {
		gl = guide.Length()
	}
	if bl > gl {
		return bl
	}
	return gl
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
