package mixer

import "math"

// minCentroidHz/maxCentroidHz bound the cutoff the timbre matcher derives
// from the mic's estimated spectral tilt.
const (
	minCentroidHz = 200.0
	maxCentroidHz = 4000.0
	centroidTauS  = 0.1 // ~100ms tracking window
)

// TimbreMatch lightly filters the guide bus by a per-channel one-pole
// whose cutoff tracks an estimate of the mic's spectral tilt. The tilt
// estimate itself is a lightweight proxy (relative energy of a
// high-passed vs low-passed mic signal) rather than an FFT-based
// centroid, to stay allocation-free and O(1) per sample.
type TimbreMatch struct {
	fs       int
	strength float64

	micLP float64 // slow envelope of |mic|, low band proxy
	micHP float64 // slow envelope of |mic first difference|, high band proxy
	prevMic float64

	guideLP [2]float64 // per-channel one-pole state on the guide bus
}

func NewTimbreMatch(fs int, strength float64) *TimbreMatch {
	return &TimbreMatch{fs: fs, strength: strength}
}

func (t *TimbreMatch) SetStrength(s float64) { t.strength = s }

func (t *TimbreMatch) Reset() {
	t.micLP = 0
	t.micHP = 0
	t.prevMic = 0
	t.guideLP = [2]float64{}
}

// Process filters one sample of the guide bus on the given channel
// (0=L, 1=R), using the mic sample to continually update the tilt
// estimate. Call once per channel per sample with the same mic value.
func (t *TimbreMatch) Process(guide float32, mic float32, channel int) float32 {
	if t.strength <= 0 {
		return guide
	}

	micF := float64(mic)
	highPassed := micF - t.prevMic
	t.prevMic = micF

	centroidCoef := math.Exp(-1 / (centroidTauS * float64(t.fs)))
	t.micLP = centroidCoef*t.micLP + (1-centroidCoef)*math.Abs(micF)
	t.micHP = centroidCoef*t.micHP + (1-centroidCoef)*math.Abs(highPassed)

	tilt := 0.5
	if total := t.micLP + t.micHP; total > 1e-9 {
		tilt = t.micHP / total
	}
	centroidHz := minCentroidHz + tilt*(maxCentroidHz-minCentroidHz)

	// At strength 0 the cutoff sits at Nyquist (no filtering); at 1 it
	// follows the mic's estimated centroid exactly.
	nyquist := float64(t.fs) / 2
	cutoffHz := nyquist + t.strength*(centroidHz-nyquist)
	coef := math.Exp(-2 * math.Pi * cutoffHz / float64(t.fs))

	ch := channel
	if ch > 1 {
		ch = 1
	}
	t.guideLP[ch] = coef*t.guideLP[ch] + (1-coef)*float64(guide)
	return float32(t.guideLP[ch])
}
