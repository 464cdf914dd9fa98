package mixer

import "math"

// CrowdCancel is a leaky adaptive high-pass on the mic signal: it tracks
// a slow estimate of sustained ambient level and subtracts it,
// aiming to attenuate crowd noise while preserving vocal transients.
type CrowdCancel struct {
	Adapt   float64
	Recover float64
	Clamp   float64

	estimate float64
}

func NewCrowdCancel(adapt, recover, clampLevel float64) *CrowdCancel {
	return &CrowdCancel{Adapt: adapt, Recover: recover, Clamp: clampLevel}
}

func (c *CrowdCancel) Reset() { c.estimate = 0 }

// Process returns mic with the sustained-level estimate removed.
func (c *CrowdCancel) Process(mic float32) float32 {
	abs := math.Abs(float64(mic))
	if abs < c.Clamp {
		c.estimate += c.Adapt * (abs - c.estimate)
	} else {
		c.estimate *= 1 - c.Recover
	}
	sign := 0.0
	switch {
	case mic > 0:
		sign = 1.0
	case mic < 0:
		sign = -1.0
	}
	return mic - float32(c.estimate*sign)
}
