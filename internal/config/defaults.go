package config

// Default returns the built-in RuntimeConfig: every field has a sane
// value so a bare `{}` config file is usable.
func Default() RuntimeConfig {
	return RuntimeConfig{
		SampleRateHz: 48000,
		BufferSamples: 128,
		Models: ModelsConfig{
			VAD:             "heuristic",
			VADModelPath:    "",
			Pitch:           "heuristic",
			PitchModelPath:  "",
			ModelSampleRate: 16000,
		},
		ConfidenceWeights: ConfidenceWeights{
			VAD:    0.5,
			Pitch:  0.3,
			Phrase: 0.2,
		},
		Gate: GateConfig{
			LookAheadMs:  0,
			AttackMs:     40,
			ReleaseMs:    250,
			HoldMs:       150,
			ThresholdOn:  0.65,
			ThresholdOff: 0.35,
			FramesOn:     3,
			FramesOff:    5,
			DuckDb:       -24,
		},
		Media: MediaConfig{
			Loop:                     false,
			InstrumentGainDb:         0,
			GuideGainDb:              0,
			MicMonitorGainDb:         -6,
			PlaybackLeakCompensation: 0,
		},
		Environment: EnvironmentConfig{
			ReverbMix:          0.15,
			ReverbTailSeconds:  1.2,
			TimbreStrength:     0.3,
			EnvelopeHoldMs:     80,
			EnvelopeReleaseMs:  180,
			EnvelopeReleaseMod: 1.0,
			CrowdCancelAdapt:   0.01,
			CrowdCancelRecover: 0.002,
			CrowdCancelClamp:   0.2,
		},
	}
}
