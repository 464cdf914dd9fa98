// Package calibrate implements the one-shot mic calibration reducer: a
// pure, allocation-free accumulator run inline on the audio thread that
// measures the running peak of the mic signal over a fixed duration and
// reports a noise floor / vocal peak pair.
package calibrate

import "math"

// defaultNoiseFloorDb is the fixed reference noise floor reported
// alongside the measured peak; the calibrator only ever measures the
// peak.
const defaultNoiseFloorDb = -80.0

// Result is the outcome of a completed calibration run.
type Result struct {
	NoiseFloorDb float64
	VocalPeakDb  float64
	IsValid      bool
}

// Calibrator tracks the running max |s| over fs*duration_s samples.
// It never allocates once Start has run; Start is the only call that may
// happen away from the audio thread's per-sample rhythm.
type Calibrator struct {
	fs       int
	total    int64
	seen     int64
	peakAbs  float64
	complete bool
}

// Start begins a new calibration run of durationS seconds at fs Hz.
func Start(fs int, durationS float64) *Calibrator {
	if durationS <= 0 {
		durationS = 10
	}
	return &Calibrator{
		fs:    fs,
		total: int64(float64(fs) * durationS),
	}
}

// ProcessBlock folds n samples into the running peak. Calling it after
// IsComplete is a no-op.
func (c *Calibrator) ProcessBlock(samples []float32) {
	for _, s := range samples {
		if c.complete {
			return
		}
		c.ProcessSample(s)
	}
}

// ProcessSample folds a single sample into the running peak, for callers
// that already iterate per-sample (the pipeline's hot path) and would
// otherwise need a throwaway one-element slice to call ProcessBlock.
func (c *Calibrator) ProcessSample(s float32) {
	if c.complete {
		return
	}
	abs := math.Abs(float64(s))
	if abs > c.peakAbs {
		c.peakAbs = abs
	}
	c.seen++
	if c.seen >= c.total {
		c.complete = true
	}
}

// PeakAmp returns the running (or final) linear peak amplitude, used by
// the pipeline to normalise the live "strength" metric against the
// calibrated dynamic range.
func (c *Calibrator) PeakAmp() float64 { return c.peakAbs }

// IsComplete reports whether enough samples have accumulated.
func (c *Calibrator) IsComplete() bool { return c.complete }

// Result returns the calibration outcome. IsValid is false if the run
// finished with an implausibly quiet peak (nothing sung into the mic).
func (c *Calibrator) Result() Result {
	peakDb := defaultNoiseFloorDb
	if c.peakAbs > 0 {
		peakDb = 20 * math.Log10(c.peakAbs)
	}
	return Result{
		NoiseFloorDb: defaultNoiseFloorDb,
		VocalPeakDb:  peakDb,
		IsValid:      c.complete && peakDb > defaultNoiseFloorDb+10,
	}
}
