package mqttpublish

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emmjayh/SingWithMe/internal/pipeline"
)

func TestTransportName_MapsEveryState(t *testing.T) {
	assert.Equal(t, "playing", transportName(pipeline.Playing))
	assert.Equal(t, "paused", transportName(pipeline.Paused))
	assert.Equal(t, "stopped", transportName(pipeline.Stopped))
}

func TestStateMessage_MarshalsExpectedFields(t *testing.T) {
	msg := StateMessage{
		PipelineID:      "abc-123",
		FusedConfidence: 0.75,
		GateGainDb:      -6,
		TransportState:  "playing",
		Timestamp:       1700000000000,
	}

	payload, err := json.Marshal(msg)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(payload, &decoded))
	assert.Equal(t, "abc-123", decoded["pipelineId"])
	assert.Equal(t, 0.75, decoded["fusedConfidence"])
	assert.Equal(t, "playing", decoded["transportState"])
}
