// Package mqttpublish periodically broadcasts live pipeline state
// (fused confidence, gate gain, transport state) to an MQTT topic, so
// stage lighting or a teleprompter cue outside this module can react to
// the performance live. Off by default; this is control-state telemetry,
// never performance audio.
package mqttpublish

import (
	"context"
	"encoding/json"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/emmjayh/SingWithMe/internal/errors"
	"github.com/emmjayh/SingWithMe/internal/pipeline"
)

// Config configures the broker connection and publish cadence.
type Config struct {
	BrokerURL string
	ClientID  string
	Topic     string
	Interval  time.Duration
}

// StateMessage is the JSON payload published on Config.Topic.
type StateMessage struct {
	PipelineID      string  `json:"pipelineId"`
	FusedConfidence float64 `json:"fusedConfidence"`
	GateGainDb      float64 `json:"gateGainDb"`
	TransportState  string  `json:"transportState"`
	Timestamp       int64   `json:"timestampUnixMs"`
}

// Publisher owns the MQTT client and the background goroutine that
// samples pipeline.GetMetrics on an interval.
type Publisher struct {
	cfg    Config
	client mqtt.Client
}

// Connect dials the broker. Call Run to start the publish loop.
func Connect(cfg Config) (*Publisher, error) {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Second
	}
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.BrokerURL).
		SetClientID(cfg.ClientID).
		SetAutoReconnect(true)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, errors.New(token.Error()).
			Component("mqttpublish").
			Category(errors.CategoryBroadcast).
			Context("broker", cfg.BrokerURL).
			Build()
	}
	return &Publisher{cfg: cfg, client: client}, nil
}

// Run publishes p's state every cfg.Interval until ctx is cancelled.
// Intended to be run in an errgroup alongside the pipeline and the
// control server.
func (pub *Publisher) Run(ctx context.Context, p *pipeline.Pipeline) error {
	ticker := time.NewTicker(pub.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := pub.publishOnce(p); err != nil {
				return err
			}
		}
	}
}

func (pub *Publisher) publishOnce(p *pipeline.Pipeline) error {
	m := p.GetMetrics()
	msg := StateMessage{
		PipelineID:      p.ID().String(),
		FusedConfidence: m.FusedConfidence,
		GateGainDb:      m.GateGainDb,
		TransportState:  transportName(p.TransportState()),
		Timestamp:       time.Now().UnixMilli(),
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return errors.New(err).
			Component("mqttpublish").
			Category(errors.CategoryBroadcast).
			Build()
	}

	token := pub.client.Publish(pub.cfg.Topic, 0, false, payload)
	if token.Wait() && token.Error() != nil {
		return errors.New(token.Error()).
			Component("mqttpublish").
			Category(errors.CategoryBroadcast).
			Context("topic", pub.cfg.Topic).
			Build()
	}
	return nil
}

func transportName(s pipeline.TransportState) string {
	switch s {
	case pipeline.Playing:
		return "playing"
	case pipeline.Paused:
		return "paused"
	default:
		return "stopped"
	}
}

// Close disconnects from the broker, waiting up to 250ms for in-flight
// publishes to drain.
func (pub *Publisher) Close() {
	pub.client.Disconnect(250)
}
