package pipeline

// analysisRing accumulates samples at the device rate Fs until it has
// enough for one model-rate frame/hop, then downsamples by averaging
// into the target length. Allocation-free after construction: the
// "downsampled" buffer is pre-sized and reused in place.
type analysisRing struct {
	raw         []float32
	rawFilled   int
	downsampled []float32
	k           int // Fs/Fm samples averaged per downsampled output sample
}

func newAnalysisRing(rawLen, modelLen, k int) *analysisRing {
	return &analysisRing{
		raw:         make([]float32, rawLen),
		downsampled: make([]float32, modelLen),
		k:           k,
	}
}

func (r *analysisRing) reset() {
	r.rawFilled = 0
	for i := range r.raw {
		r.raw[i] = 0
	}
}

// push appends one device-rate sample. It returns true exactly when the
// ring has just become full, at which point downsampled() holds the
// averaged model-rate frame and the ring offset has been reset.
func (r *analysisRing) push(sample float32) bool {
	r.raw[r.rawFilled] = sample
	r.rawFilled++
	if r.rawFilled < len(r.raw) {
		return false
	}

	downsampleAverage(r.raw, r.downsampled, r.k)
	r.rawFilled = 0
	return true
}

func (r *analysisRing) frame() []float32 { return r.downsampled }

// downsampleAverage folds blocks of k adjacent samples in src into
// successive entries of dst by averaging them. If src has trailing
// samples that don't make a full block of k, they're folded into the
// last output bucket so no input sample is silently dropped.
func downsampleAverage(src, dst []float32, k int) {
	if k < 1 {
		k = 1
	}
	for i := range dst {
		start := i * k
		end := start + k
		if start >= len(src) {
			dst[i] = 0
			continue
		}
		if i == len(dst)-1 {
			end = len(src)
		}
		if end > len(src) {
			end = len(src)
		}
		var sum float32
		for j := start; j < end; j++ {
			sum += src[j]
		}
		dst[i] = sum / float32(end-start)
	}
}
