// Package config defines the RuntimeConfig snapshot and loads it from a
// JSON file with "extends" resolution, structured as a plain nested
// struct that viper unmarshals into directly.
package config

// ConfidenceWeights weighs the three confidence inputs fused each block.
// They are nominal, not enforced, to sum to 1 — only the fused value is
// clamped to [0,1] after weighting.
type ConfidenceWeights struct {
	VAD    float64 `json:"vad" yaml:"vad"`
	Pitch  float64 `json:"pitch" yaml:"pitch"`
	Phrase float64 `json:"phraseAware" yaml:"phraseAware"`
}

// GateConfig configures the confidence gate.
type GateConfig struct {
	LookAheadMs  float64 `json:"lookAheadMs" yaml:"lookAheadMs"`
	AttackMs     float64 `json:"attackMs" yaml:"attackMs"`
	ReleaseMs    float64 `json:"releaseMs" yaml:"releaseMs"`
	HoldMs       float64 `json:"holdMs" yaml:"holdMs"`
	ThresholdOn  float64 `json:"thresholdOn" yaml:"thresholdOn"`
	ThresholdOff float64 `json:"thresholdOff" yaml:"thresholdOff"`
	FramesOn     int     `json:"framesOn" yaml:"framesOn"`
	FramesOff    int     `json:"framesOff" yaml:"framesOff"`
	DuckDb       float64 `json:"duckDb" yaml:"duckDb"`
}

// MediaConfig configures the backing/guide media buffers and the gains
// feeding them into the mix.
type MediaConfig struct {
	InstrumentPath   string  `json:"instrumentPath" yaml:"instrumentPath"`
	GuidePath        string  `json:"guidePath" yaml:"guidePath"`
	Loop             bool    `json:"loop" yaml:"loop"`
	InstrumentGainDb float64 `json:"instrumentGainDb" yaml:"instrumentGainDb"`
	GuideGainDb      float64 `json:"guideGainDb" yaml:"guideGainDb"`
	MicMonitorGainDb float64 `json:"micMonitorGainDb" yaml:"micMonitorGainDb"`

	// PlaybackLeakCompensation is the linear coefficient (0-1) of the
	// combined backing+guide bus subtracted from the mic signal before
	// crowd cancellation, to compensate for the backing/guide playback
	// acoustically leaking back into an open mic from monitor speakers.
	// Zero (the default) disables it; venues that monitor over speakers
	// rather than in-ear tune it up during soundcheck.
	PlaybackLeakCompensation float64 `json:"playbackLeakCompensation" yaml:"playbackLeakCompensation"`
}

// EnvironmentConfig configures the mixer effects.
type EnvironmentConfig struct {
	ReverbMix           float64 `json:"reverbMix" yaml:"reverbMix"`
	ReverbTailSeconds   float64 `json:"reverbTailSeconds" yaml:"reverbTailSeconds"`
	TimbreStrength      float64 `json:"timbreMatchStrength" yaml:"timbreMatchStrength"`
	EnvelopeHoldMs      float64 `json:"envelopeHoldMs" yaml:"envelopeHoldMs"`
	EnvelopeReleaseMs   float64 `json:"envelopeReleaseMs" yaml:"envelopeReleaseMs"`
	EnvelopeReleaseMod  float64 `json:"envelopeReleaseMod" yaml:"envelopeReleaseMod"`
	CrowdCancelAdapt    float64 `json:"crowdCancelAdapt" yaml:"crowdCancelAdapt"`
	CrowdCancelRecover  float64 `json:"crowdCancelRecover" yaml:"crowdCancelRecover"`
	CrowdCancelClamp    float64 `json:"crowdCancelClamp" yaml:"crowdCancelClamp"`
}

// ModelsConfig names the VAD/pitch backends and the model sample rate Fm.
// VAD/Pitch select "heuristic" or "neural"; the *ModelPath fields are only
// consulted for "neural" (an empty or bad path falls back to the
// heuristic backend rather than failing construction).
type ModelsConfig struct {
	VAD             string `json:"vad" yaml:"vad"`
	VADModelPath    string `json:"vadModelPath" yaml:"vadModelPath"`
	Pitch           string `json:"pitch" yaml:"pitch"`
	PitchModelPath  string `json:"pitchModelPath" yaml:"pitchModelPath"`
	ModelSampleRate int    `json:"modelSampleRateHz" yaml:"modelSampleRateHz"`
}

// RuntimeConfig is the immutable configuration snapshot for one engine
// instance. It is value-copied into the Pipeline at Configure time;
// nothing in the Pipeline retains a pointer into a caller-owned
// RuntimeConfig.
type RuntimeConfig struct {
	Extends           string            `json:"extends,omitempty" yaml:"extends,omitempty"`
	SampleRateHz      int               `json:"sampleRateHz" yaml:"sampleRateHz"`
	BufferSamples     int               `json:"bufferSamples" yaml:"bufferSamples"`
	Models            ModelsConfig      `json:"models" yaml:"models"`
	ConfidenceWeights ConfidenceWeights `json:"confidenceWeights" yaml:"confidenceWeights"`
	Gate              GateConfig        `json:"gate" yaml:"gate"`
	Media             MediaConfig       `json:"media" yaml:"media"`
	Environment       EnvironmentConfig `json:"environment" yaml:"environment"`
}

// Fs is the device sample rate in Hz.
func (c RuntimeConfig) Fs() int { return c.SampleRateHz }

// N is the device block size in frames.
func (c RuntimeConfig) N() int { return c.BufferSamples }

// Fm is the model (analysis) sample rate in Hz.
func (c RuntimeConfig) Fm() int { return c.Models.ModelSampleRate }

// Clone returns a deep value copy, since RuntimeConfig has no reference
// fields today but callers should not rely on that staying true.
func (c RuntimeConfig) Clone() RuntimeConfig {
	return c
}
