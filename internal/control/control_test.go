package control

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emmjayh/SingWithMe/internal/config"
	"github.com/emmjayh/SingWithMe/internal/pipeline"
	"github.com/emmjayh/SingWithMe/internal/pitch"
	"github.com/emmjayh/SingWithMe/internal/vad"
)

func newTestServer(t *testing.T) (*Server, *pipeline.Pipeline) {
	t.Helper()
	cfg := config.Default()
	cfg.SampleRateHz = 8000
	cfg.BufferSamples = 64

	ctx := config.NewContext(cfg, "pipeline", nil)
	p := pipeline.New(ctx, vad.NewHeuristic(), pitch.NewHeuristic())
	require.NoError(t, p.Configure(cfg))

	return New(p), p
}

func doJSON(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)
	return rec
}

func TestHandlePlayPauseStop_ChangeTransportState(t *testing.T) {
	s, p := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/transport/play", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, pipeline.Playing, p.TransportState())

	rec = doJSON(t, s, http.MethodPost, "/transport/pause", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, pipeline.Paused, p.TransportState())

	rec = doJSON(t, s, http.MethodPost, "/transport/stop", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, pipeline.Stopped, p.TransportState())
}

func TestHandleState_ReportsTransportAndMetrics(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doJSON(t, s, http.MethodGet, "/state", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp stateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "stopped", resp.TransportState)
}

func TestHandleSetMode_RejectsUnknownMode(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/mode", modeRequest{Mode: "bogus"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleSetMode_AcceptsKnownModes(t *testing.T) {
	s, _ := newTestServer(t)

	for _, mode := range []string{"auto", "alwaysOn", "alwaysOff"} {
		rec := doJSON(t, s, http.MethodPost, "/mode", modeRequest{Mode: mode})
		assert.Equal(t, http.StatusNoContent, rec.Code)
	}
}

func TestHandleStartCalibration_ArmsAndReportsResult(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/calibration/start", calibrationStartRequest{DurationSeconds: 0.001})
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, s, http.MethodGet, "/calibration/result", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var payload calibrationPayload
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
}

func TestHandleSetGains_UpdatesPipelineParams(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/gains", gainsRequest{
		InstrumentGainDb: -3,
		GuideGainDb:      2,
		MicMonitorGainDb: -12,
	})
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
