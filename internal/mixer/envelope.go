package mixer

import "math"

// Envelope shapes the guide bus on top of the gate's own dB glide: once
// the gate opens it holds the guide at full strength for envelopeHoldMs,
// then eases it back down over envelopeReleaseMs, with
// envelopeReleaseMod steepening or softening that release while
// confidence is falling but hasn't yet crossed thresholdOff.
type Envelope struct {
	HoldMs      float64
	ReleaseMs   float64
	ReleaseMod  float64

	gain        float64
	holdTimerMs float64
	wasOpen     bool
}

func NewEnvelope(holdMs, releaseMs, releaseMod float64) *Envelope {
	return &Envelope{HoldMs: holdMs, ReleaseMs: releaseMs, ReleaseMod: releaseMod, gain: 1}
}

func (e *Envelope) Reset() {
	e.gain = 1
	e.holdTimerMs = 0
	e.wasOpen = false
}

func (e *Envelope) Configure(holdMs, releaseMs, releaseMod float64) {
	e.HoldMs = holdMs
	e.ReleaseMs = releaseMs
	e.ReleaseMod = releaseMod
}

// Update advances the envelope by one block and returns the linear
// multiplier to apply to the guide bus, gateOpen is true when the gate's
// target is fully open (0 dB), confidence/thresholdOff identify the
// "falling but not yet off" band that modulates the release rate.
func (e *Envelope) Update(blockMs, confidence, thresholdOff float64, gateOpen bool) float64 {
	if gateOpen && !e.wasOpen {
		e.holdTimerMs = e.HoldMs
		e.gain = 1
	}
	e.wasOpen = gateOpen

	if e.holdTimerMs > 0 {
		e.holdTimerMs -= blockMs
		if e.holdTimerMs < 0 {
			e.holdTimerMs = 0
		}
		e.gain = 1
		return e.gain
	}

	releaseCoef := math.Exp(-blockMs / math.Max(e.ReleaseMs, 1))
	if confidence > thresholdOff && !gateOpen {
		releaseCoef = math.Pow(releaseCoef, math.Max(e.ReleaseMod, 1e-6))
	}
	e.gain *= releaseCoef
	if e.gain < 0 {
		e.gain = 0
	}
	if e.gain > 1 {
		e.gain = 1
	}
	return e.gain
}
