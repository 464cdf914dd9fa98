package media

import "math"

// resampleChannel resamples one channel from rate r to rate fs with a
// 4-point Lagrange interpolator, producing ⌈len(samples)·fs/r⌉ output
// samples. The 4-tap neighbourhood and index-clamping shape mirrors a
// typical cubic audio resampler; the interpolation itself is genuine
// cubic Lagrange through four uniformly spaced samples rather than
// Catmull-Rom.
func resampleChannel(samples []float32, r, fs int) []float32 {
	if len(samples) == 0 {
		return samples
	}
	if r == fs {
		out := make([]float32, len(samples))
		copy(out, samples)
		return out
	}

	step := float64(r) / float64(fs)
	newLength := int(math.Ceil(float64(len(samples)) * float64(fs) / float64(r)))
	out := make([]float32, newLength)

	n := len(samples)
	lastIndex := n - 3
	if lastIndex < 1 {
		lastIndex = 1
	}

	for i := 0; i < newLength; i++ {
		origPos := float64(i) * step
		index := int(origPos)
		if index < 1 {
			index = 1
		} else if index > lastIndex {
			index = lastIndex
		}
		mu := origPos - float64(index)

		y0, y1, y2, y3 := sampleAt(samples, index-1), sampleAt(samples, index), sampleAt(samples, index+1), sampleAt(samples, index+2)
		out[i] = lagrange4(y0, y1, y2, y3, mu)
	}
	return out
}

func sampleAt(samples []float32, i int) float32 {
	if i < 0 {
		return samples[0]
	}
	if i >= len(samples) {
		return samples[len(samples)-1]
	}
	return samples[i]
}

// lagrange4 evaluates the cubic Lagrange polynomial through four
// uniformly spaced samples y0..y3 (at relative positions -1,0,1,2) at
// fractional offset mu ∈ [0,1) between y1 and y2.
func lagrange4(y0, y1, y2, y3 float32, mu float64) float32 {
	m := mu
	c0 := -m * (m - 1) * (m - 2) / 6
	c1 := (m + 1) * (m - 1) * (m - 2) / 2
	c2 := -(m + 1) * m * (m - 2) / 2
	c3 := (m + 1) * m * (m - 1) / 6
	return float32(c0)*y0 + float32(c1)*y1 + float32(c2)*y2 + float32(c3)*y3
}
