package config

import "github.com/emmjayh/SingWithMe/internal/errors"

// Validate checks the invariants the pipeline's Configure call relies on
// so bad values fail at load time rather than mid-callback.
func Validate(c RuntimeConfig) error {
	if c.SampleRateHz <= 0 {
		return errors.Newf("sampleRateHz must be positive, got %d", c.SampleRateHz).
			Component("config").
			Category(errors.CategoryValidation).
			Build()
	}
	if c.BufferSamples <= 0 {
		return errors.Newf("bufferSamples must be positive, got %d", c.BufferSamples).
			Component("config").
			Category(errors.CategoryValidation).
			Build()
	}
	if c.Models.ModelSampleRate <= 0 {
		return errors.Newf("models.modelSampleRateHz must be positive, got %d", c.Models.ModelSampleRate).
			Component("config").
			Category(errors.CategoryValidation).
			Build()
	}
	if c.Gate.ThresholdOff > c.Gate.ThresholdOn {
		return errors.Newf("gate.thresholdOff (%f) must not exceed gate.thresholdOn (%f)", c.Gate.ThresholdOff, c.Gate.ThresholdOn).
			Component("config").
			Category(errors.CategoryValidation).
			Build()
	}
	if c.Gate.DuckDb > 0 {
		return errors.Newf("gate.duckDb must be <= 0, got %f", c.Gate.DuckDb).
			Component("config").
			Category(errors.CategoryValidation).
			Build()
	}
	if c.Gate.FramesOn <= 0 || c.Gate.FramesOff <= 0 {
		return errors.Newf("gate.framesOn and gate.framesOff must be positive").
			Component("config").
			Category(errors.CategoryValidation).
			Build()
	}
	return nil
}
