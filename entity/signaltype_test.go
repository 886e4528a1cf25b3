package entity_test

import (
	"testing"

	mapv2 "git.fiblab.net/sim/protos/v2/go/city/map/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/agentsociety-signal-sim/entity"
)

func TestStatusNames(t *testing.T) {
	for i, s := range entity.AllStatuses {
		assert.Equal(t, entity.Status(i), s)
		parsed, err := entity.ParseStatus(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
	}
	_, err := entity.ParseStatus("blue")
	assert.Error(t, err)
	assert.Equal(t, "status(7)", entity.Status(7).String())
}

func TestStatusLightState(t *testing.T) {
	assert.Equal(t, mapv2.LightState_LIGHT_STATE_GREEN, entity.StatusGreen.LightState())
	assert.Equal(t, mapv2.LightState_LIGHT_STATE_YELLOW, entity.StatusGreenRed.LightState())
	assert.Equal(t, mapv2.LightState_LIGHT_STATE_RED, entity.StatusRed.LightState())
	assert.Equal(t, mapv2.LightState_LIGHT_STATE_YELLOW, entity.StatusRedGreen.LightState())
	assert.Equal(t, mapv2.LightState_LIGHT_STATE_UNSPECIFIED, entity.Status(7).LightState())
}
