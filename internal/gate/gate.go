// Package gate implements the hysteretic confidence gate: the
// controller that decides, block by block, how loud the guide vocal bus
// should be.
package gate

import "math"

// ManualMode overrides the hysteresis state machine.
type ManualMode int

const (
	Auto ManualMode = iota
	AlwaysOn
	AlwaysOff
)

// Config mirrors the JSON "gate" block. LookAheadMs is accepted but
// unused — reserved for a future look-ahead buffer.
type Config struct {
	LookAheadMs  float64
	AttackMs     float64
	ReleaseMs    float64
	HoldMs       float64
	ThresholdOn  float64
	ThresholdOff float64
	FramesOn     int
	FramesOff    int
	DuckDb       float64
}

// Gate is the per-block gain controller for the guide bus. All state is
// plain fields. The audio thread calls SetManualMode, Update and
// IsTargetOpen once per process() call.
type Gate struct {
	cfg Config

	fs        int
	blockSize int
	blockMs   float64

	mode ManualMode

	gainDb   float64
	targetDb float64

	holdTimerMs float64
	onCount     int
	offCount    int
}

// New builds a Gate already configured for fs/blockSize/cfg, gain
// starting ducked (the source starts silent until the singer proves
// confident).
func New(fs, blockSize int, cfg Config) *Gate {
	g := &Gate{}
	g.Configure(fs, blockSize, cfg)
	g.gainDb = cfg.DuckDb
	g.targetDb = cfg.DuckDb
	return g
}

// Configure (re)applies fs/blockSize/cfg. Called from the control thread
// only while the audio thread is quiesced, same rule as Pipeline.configure.
func (g *Gate) Configure(fs, blockSize int, cfg Config) {
	g.cfg = cfg
	g.fs = fs
	g.blockSize = blockSize
	if fs > 0 {
		g.blockMs = 1000 * float64(blockSize) / float64(fs)
	}
}

// SetManualMode switches between Auto and the two forced states.
func (g *Gate) SetManualMode(mode ManualMode) {
	g.mode = mode
}

// Update runs one block of the state machine and returns the new
// smoothed gain in dB, always within [duckDb, 0].
func (g *Gate) Update(confidence, vad, pitch float64) float64 {
	_ = vad
	_ = pitch

	switch g.mode {
	case AlwaysOn:
		g.targetDb = 0
	case AlwaysOff:
		g.targetDb = g.cfg.DuckDb
	default:
		g.updateHysteresis(confidence)
	}

	g.holdTimerMs -= g.blockMs
	if g.holdTimerMs < 0 {
		g.holdTimerMs = 0
	}

	attackCoef := math.Exp(-g.blockMs / math.Max(g.cfg.AttackMs, 1))
	releaseCoef := math.Exp(-g.blockMs / math.Max(g.cfg.ReleaseMs, 1))

	if g.gainDb > g.targetDb {
		g.gainDb = g.targetDb + (g.gainDb-g.targetDb)*attackCoef
	} else {
		g.gainDb = g.targetDb + (g.gainDb-g.targetDb)*releaseCoef
	}

	g.gainDb = clamp(g.gainDb, g.cfg.DuckDb, 0)
	return g.gainDb
}

func (g *Gate) updateHysteresis(confidence float64) {
	switch {
	case confidence >= g.cfg.ThresholdOn:
		g.onCount++
		g.offCount = 0
	case confidence <= g.cfg.ThresholdOff:
		g.offCount++
		g.onCount = 0
	default:
		// Mid-band: only the "on" run is cancelled. A growing "off"
		// judgement survives a single ambiguous block.
		g.onCount = 0
	}

	if g.onCount >= g.cfg.FramesOn {
		g.targetDb = 0
		g.holdTimerMs = g.cfg.HoldMs
	}
	if g.offCount >= g.cfg.FramesOff && g.holdTimerMs <= 0 {
		g.targetDb = g.cfg.DuckDb
	}
}

// GainDb returns the most recently computed smoothed gain.
func (g *Gate) GainDb() float64 { return g.gainDb }

// IsTargetOpen reports whether the gate's current target is fully open
// (0 dB), as opposed to ducked. The envelope shaper uses this to decide
// when to arm its hold timer, independent of the gate's own dB glide.
func (g *Gate) IsTargetOpen() bool { return g.targetDb == 0 }

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
