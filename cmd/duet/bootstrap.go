package main

import (
	"os"

	"github.com/emmjayh/SingWithMe/internal/config"
	"github.com/emmjayh/SingWithMe/internal/pipeline"
	"github.com/emmjayh/SingWithMe/internal/pitch"
	"github.com/emmjayh/SingWithMe/internal/telemetry"
	"github.com/emmjayh/SingWithMe/internal/vad"
)

// engine bundles everything a subcommand needs to drive one pipeline
// instance: the resolved config, the telemetry handle (possibly a nil
// Reporter), and the pipeline itself, already Configure'd.
type engine struct {
	ctx      *config.Context
	reporter *telemetry.Reporter
	pipeline *pipeline.Pipeline
}

func bootstrap(configPath string) (*engine, error) {
	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	reporter, err := telemetry.New(telemetry.Config{DSN: os.Getenv("DUET_SENTRY_DSN")})
	if err != nil {
		return nil, err
	}

	ctx := config.NewContext(cfg, "pipeline", reporter)

	vadFrontend, vadErr := vad.NewWithFallbackInfo(cfg.Models.VAD, cfg.Models.VADModelPath)
	if vadErr != nil {
		ctx.ReportError(vadErr)
	}
	pitchFrontend, pitchErr := pitch.NewWithFallbackInfo(cfg.Models.Pitch, cfg.Models.PitchModelPath)
	if pitchErr != nil {
		ctx.ReportError(pitchErr)
	}

	p := pipeline.New(ctx, vadFrontend, pitchFrontend)
	if err := p.Configure(cfg); err != nil {
		return nil, err
	}

	return &engine{ctx: ctx, reporter: reporter, pipeline: p}, nil
}
