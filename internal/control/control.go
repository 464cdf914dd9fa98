// Package control exposes the public transport/control API over HTTP
// with echo, so a tablet or lighting desk can drive the pipeline without
// embedding Go. Every handler here just forwards into the same atomic
// parameter cells Process reads — it adds no state of its own.
package control

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/emmjayh/SingWithMe/internal/gate"
	"github.com/emmjayh/SingWithMe/internal/pipeline"
)

// Server wraps an echo.Echo bound to a single Pipeline. One Server per
// Pipeline; the control plane doesn't multiplex several engines.
type Server struct {
	echo *echo.Echo
	p    *pipeline.Pipeline
}

// New builds a Server for p with the standard route table registered.
func New(p *pipeline.Pipeline) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())

	s := &Server{echo: e, p: p}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	s.echo.GET("/state", s.handleState)

	s.echo.POST("/transport/play", s.handlePlay)
	s.echo.POST("/transport/pause", s.handlePause)
	s.echo.POST("/transport/stop", s.handleStop)

	s.echo.POST("/calibration/start", s.handleStartCalibration)
	s.echo.GET("/calibration/result", s.handleCalibrationResult)

	s.echo.POST("/mode", s.handleSetMode)
	s.echo.POST("/mute", s.handleSetMute)
	s.echo.POST("/gains", s.handleSetGains)
	s.echo.POST("/effects/crowd-cancel", s.handleSetCrowdCancel)
	s.echo.POST("/effects/reverb", s.handleSetReverb)
	s.echo.POST("/effects/timbre", s.handleSetTimbre)
	s.echo.POST("/effects/envelope", s.handleSetEnvelope)
	s.echo.POST("/phrase-aware", s.handleSetPhraseAware)
}

// ListenAndServe starts the HTTP server on addr; blocks until the
// listener errors or is shut down.
func (s *Server) ListenAndServe(addr string) error {
	return s.echo.Start(addr)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

type stateResponse struct {
	TransportState string             `json:"transportState"`
	Metrics        pipeline.Metrics   `json:"metrics"`
	Calibration    calibrationPayload `json:"calibration"`
}

type calibrationPayload struct {
	NoiseFloorDb float64 `json:"noiseFloorDb"`
	VocalPeakDb  float64 `json:"vocalPeakDb"`
	IsValid      bool    `json:"isValid"`
}

func (s *Server) handleState(c echo.Context) error {
	result := s.p.CalibrationResult()
	return c.JSON(http.StatusOK, stateResponse{
		TransportState: transportName(s.p.TransportState()),
		Metrics:        s.p.GetMetrics(),
		Calibration: calibrationPayload{
			NoiseFloorDb: result.NoiseFloorDb,
			VocalPeakDb:  result.VocalPeakDb,
			IsValid:      result.IsValid,
		},
	})
}

func transportName(st pipeline.TransportState) string {
	switch st {
	case pipeline.Playing:
		return "playing"
	case pipeline.Paused:
		return "paused"
	default:
		return "stopped"
	}
}

func (s *Server) handlePlay(c echo.Context) error {
	s.p.Play()
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handlePause(c echo.Context) error {
	s.p.Pause()
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleStop(c echo.Context) error {
	s.p.Stop()
	return c.NoContent(http.StatusNoContent)
}

type calibrationStartRequest struct {
	DurationSeconds float64 `json:"durationSeconds"`
}

func (s *Server) handleStartCalibration(c echo.Context) error {
	var req calibrationStartRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	s.p.StartCalibration(req.DurationSeconds)
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleCalibrationResult(c echo.Context) error {
	result := s.p.CalibrationResult()
	return c.JSON(http.StatusOK, calibrationPayload{
		NoiseFloorDb: result.NoiseFloorDb,
		VocalPeakDb:  result.VocalPeakDb,
		IsValid:      result.IsValid,
	})
}

type modeRequest struct {
	Mode string `json:"mode"` // "auto" | "alwaysOn" | "alwaysOff"
}

func (s *Server) handleSetMode(c echo.Context) error {
	var req modeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	mode, err := parseMode(req.Mode)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	s.p.SetManualMode(mode)
	return c.NoContent(http.StatusNoContent)
}

func parseMode(s string) (gate.ManualMode, error) {
	switch s {
	case "auto", "":
		return gate.Auto, nil
	case "alwaysOn":
		return gate.AlwaysOn, nil
	case "alwaysOff":
		return gate.AlwaysOff, nil
	default:
		return gate.Auto, echo.NewHTTPError(http.StatusBadRequest, "unknown mode "+s)
	}
}

type muteRequest struct {
	Muted bool `json:"muted"`
}

func (s *Server) handleSetMute(c echo.Context) error {
	var req muteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	s.p.SetGuideMute(req.Muted)
	return c.NoContent(http.StatusNoContent)
}

type gainsRequest struct {
	InstrumentGainDb         float64 `json:"instrumentGainDb"`
	GuideGainDb              float64 `json:"guideGainDb"`
	MicMonitorGainDb         float64 `json:"micMonitorGainDb"`
	PlaybackLeakCompensation float64 `json:"playbackLeakCompensation"`
}

func (s *Server) handleSetGains(c echo.Context) error {
	var req gainsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	s.p.SetInstrumentGainDb(req.InstrumentGainDb)
	s.p.SetGuideGainDb(req.GuideGainDb)
	s.p.SetMicMonitorGainDb(req.MicMonitorGainDb)
	s.p.SetPlaybackLeakCompensation(req.PlaybackLeakCompensation)
	return c.NoContent(http.StatusNoContent)
}

type crowdCancelRequest struct {
	Adapt   float64 `json:"adapt"`
	Recover float64 `json:"recover"`
	Clamp   float64 `json:"clamp"`
}

func (s *Server) handleSetCrowdCancel(c echo.Context) error {
	var req crowdCancelRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	s.p.SetCrowdCancel(req.Adapt, req.Recover, req.Clamp)
	return c.NoContent(http.StatusNoContent)
}

type reverbRequest struct {
	Mix         float64 `json:"mix"`
	TailSeconds float64 `json:"tailSeconds"`
}

func (s *Server) handleSetReverb(c echo.Context) error {
	var req reverbRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	s.p.SetReverb(req.Mix, req.TailSeconds)
	return c.NoContent(http.StatusNoContent)
}

type timbreRequest struct {
	Strength float64 `json:"strength"`
}

func (s *Server) handleSetTimbre(c echo.Context) error {
	var req timbreRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	s.p.SetTimbre(req.Strength)
	return c.NoContent(http.StatusNoContent)
}

type envelopeRequest struct {
	HoldMs     float64 `json:"holdMs"`
	ReleaseMs  float64 `json:"releaseMs"`
	ReleaseMod float64 `json:"releaseMod"`
}

func (s *Server) handleSetEnvelope(c echo.Context) error {
	var req envelopeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	s.p.SetEnvelope(req.HoldMs, req.ReleaseMs, req.ReleaseMod)
	return c.NoContent(http.StatusNoContent)
}

type phraseAwareRequest struct {
	Value float64 `json:"value"`
}

func (s *Server) handleSetPhraseAware(c echo.Context) error {
	var req phraseAwareRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	s.p.SetPhraseAware(req.Value)
	return c.NoContent(http.StatusNoContent)
}
