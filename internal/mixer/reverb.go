package mixer

import "math"

// delayMsL/delayMsR are fixed, mutually-prime-ish delay lengths (in
// milliseconds) for the two feedback taps; cross-feeding them is
// what gives the network its stereo spread.
const (
	delayMsL = 29.7
	delayMsR = 37.1
)

// Reverb is a fixed-topology stereo feedback-delay network: two delay
// lines that cross-feed each other, with feedback gain derived
// from the configured decay time so a comb fed at delay d decays by
// 60dB over tailSeconds.
type Reverb struct {
	fs     int
	mix    float64
	tailS  float64

	bufL, bufR   []float32
	posL, posR   int
	feedback     float64
}

func NewReverb(fs int, mix, tailSeconds float64) *Reverb {
	r := &Reverb{fs: fs}
	r.allocate()
	r.SetDecay(mix, tailSeconds)
	return r
}

// allocate (re)builds the delay lines for the current fs. Only called
// at construction and from Configure (an fs change), both control-thread
// operations while the audio thread is quiesced — never from SetDecay,
// which the audio thread's block-boundary parameter snapshot may call
// every block and which therefore must never allocate.
func (r *Reverb) allocate() {
	lenL := int(delayMsL * float64(r.fs) / 1000)
	lenR := int(delayMsR * float64(r.fs) / 1000)
	if lenL < 1 {
		lenL = 1
	}
	if lenR < 1 {
		lenR = 1
	}
	r.bufL = make([]float32, lenL)
	r.bufR = make([]float32, lenR)
	r.posL = 0
	r.posR = 0
}

// Configure changes the sample rate, reallocating the delay lines.
// Control-thread only, while the audio thread is quiesced.
func (r *Reverb) Configure(fs int, mix, tailSeconds float64) {
	r.fs = fs
	r.allocate()
	r.SetDecay(mix, tailSeconds)
}

// SetDecay updates the wet mix and feedback gain without touching the
// delay line buffers, so it is safe to call from the audio thread's
// per-block parameter snapshot.
func (r *Reverb) SetDecay(mix, tailSeconds float64) {
	r.mix = mix
	r.tailS = tailSeconds

	delayS := delayMsL / 1000
	if tailSeconds <= 0 {
		r.feedback = 0
	} else {
		r.feedback = math.Pow(0.001, delayS/tailSeconds)
	}
}

func (r *Reverb) Reset() {
	for i := range r.bufL {
		r.bufL[i] = 0
	}
	for i := range r.bufR {
		r.bufR[i] = 0
	}
	r.posL = 0
	r.posR = 0
}

// Process takes the mono guide input ((guide_L+guide_R)/2) and returns
// the wet L/R contribution to add to the outputs.
func (r *Reverb) Process(in float32) (wetL, wetR float32) {
	if len(r.bufL) == 0 || len(r.bufR) == 0 {
		return 0, 0
	}

	outL := r.bufL[r.posL]
	outR := r.bufR[r.posR]

	// Cross-feed: each line's feedback is seeded by the other channel's
	// output, which is what gives the network stereo decorrelation.
	r.bufL[r.posL] = in + float32(r.feedback)*outR
	r.bufR[r.posR] = in + float32(r.feedback)*outL

	r.posL = (r.posL + 1) % len(r.bufL)
	r.posR = (r.posR + 1) % len(r.bufR)

	wetL = float32(r.mix) * outL
	wetR = float32(r.mix) * outR
	return wetL, wetR
}
