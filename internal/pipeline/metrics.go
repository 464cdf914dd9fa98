package pipeline

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics is the read-only snapshot published atomically each block.
// GetMetrics returns the most recent one without blocking the audio
// thread.
type Metrics struct {
	InputRMS        float64
	OutputRMS       float64
	LastVAD         float64
	LastPitch       float64
	FusedConfidence float64
	Strength        float64
	GateGainDb      float64
}

// metricsCell is a single-writer/single-reader snapshot cell: the audio
// thread writes, the control thread (or Prometheus scrape) reads. A
// mutex is enough here since reads/writes are both just a struct copy,
// not part of the per-sample hot loop.
type metricsCell struct {
	mu   sync.Mutex
	last Metrics
}

func (c *metricsCell) publish(m Metrics) {
	c.mu.Lock()
	c.last = m
	c.mu.Unlock()
}

func (c *metricsCell) get() Metrics {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last
}

// promMetrics mirrors the Metrics snapshot as Prometheus gauges so the
// control plane can expose /metrics alongside the JSON control API.
type promMetrics struct {
	inputRMS        prometheus.Gauge
	outputRMS       prometheus.Gauge
	lastVAD         prometheus.Gauge
	lastPitch       prometheus.Gauge
	fusedConfidence prometheus.Gauge
	strength        prometheus.Gauge
	gateGainDb      prometheus.Gauge
}

func newPromMetrics(reg prometheus.Registerer) *promMetrics {
	p := &promMetrics{
		inputRMS:        prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "duet", Name: "input_rms", Help: "Microphone input RMS for the last processed block."}),
		outputRMS:       prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "duet", Name: "output_rms", Help: "Stereo output RMS for the last processed block."}),
		lastVAD:         prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "duet", Name: "vad_score", Help: "Most recent voice-activity score."}),
		lastPitch:       prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "duet", Name: "pitch_score", Help: "Most recent pitch confidence score."}),
		fusedConfidence: prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "duet", Name: "fused_confidence", Help: "Weighted fusion of VAD, pitch and phrase confidence."}),
		strength:        prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "duet", Name: "strength", Help: "Mic RMS normalised against the calibrated vocal peak."}),
		gateGainDb:      prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "duet", Name: "gate_gain_db", Help: "Current guide bus gain in dB."}),
	}
	if reg != nil {
		reg.MustRegister(p.inputRMS, p.outputRMS, p.lastVAD, p.lastPitch, p.fusedConfidence, p.strength, p.gateGainDb)
	}
	return p
}

func (p *promMetrics) update(m Metrics) {
	if p == nil {
		return
	}
	p.inputRMS.Set(m.InputRMS)
	p.outputRMS.Set(m.OutputRMS)
	p.lastVAD.Set(m.LastVAD)
	p.lastPitch.Set(m.LastPitch)
	p.fusedConfidence.Set(m.FusedConfidence)
	p.strength.Set(m.Strength)
	p.gateGainDb.Set(m.GateGainDb)
}
