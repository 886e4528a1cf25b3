package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/agentsociety-signal-sim/utils/config"
)

func TestParse(t *testing.T) {
	c, err := config.Parse([]byte(`
control:
  step: {start: 0, total: 100, interval: 0.5}
  random_offset: true
  seed: 42
  triggers:
    - {step: 10, group: g1}
input:
  roads:
    - id: 3
      length: 120
      traffic_lights:
        - {type: main, group: g1, position: 100}
  traffic_light_groups:
    - id: g1
      junction_id: 7
      phases:
        - duration: 20
          states: {main: green}
output:
  dir: out
  project: demo
  traffic_light_interval: 10
  mongo: {uri: "mongodb://localhost:27017", db: sim, col: tl}
`))
	require.NoError(t, err)
	assert.True(t, c.Control.RandomOffset)
	assert.Equal(t, uint64(42), c.Control.Seed)
	assert.Equal(t, []config.Trigger{{Step: 10, Group: "g1"}}, c.Control.Triggers)
	require.Len(t, c.Input.Roads, 1)
	assert.Equal(t, 100., c.Input.Roads[0].TrafficLights[0].Position)
	assert.Equal(t, int32(7), c.Input.TrafficLightGroups[0].JunctionID)
	assert.Equal(t, "green", c.Input.TrafficLightGroups[0].Phases[0].States["main"])

	require.NotNil(t, c.Output)
	assert.Equal(t, int64(10), c.Output.TrafficLightInterval)
	assert.Equal(t, "out/demo.tl_log.csv", c.Output.TrafficLightLogPath())
	assert.Equal(t, "sim", c.Output.Mongo.GetDb())
	assert.Equal(t, "tl", c.Output.Mongo.GetColl())

	rc := config.NewRuntimeConfig(c)
	assert.True(t, rc.C.RandomOffset)
}

func TestParseErrors(t *testing.T) {
	_, err := config.Parse([]byte("control: {step: {total: 1}}"))
	assert.ErrorIs(t, err, config.ErrNoStep)

	_, err = config.Parse([]byte("control: {step: {total: 1, interval: 1}}\nunknown: 1"))
	assert.Error(t, err)

	// 非有限的步长会让相位推进无法结束
	for _, interval := range []string{".inf", "-.inf", ".nan", "-1"} {
		_, err = config.Parse([]byte("control: {step: {total: 1, interval: " + interval + "}}"))
		assert.ErrorIs(t, err, config.ErrNoStep, interval)
	}

	// 采样间隔必须显式给出且为正
	for _, output := range []string{"{dir: out, project: demo}", "{dir: out, project: demo, traffic_light_interval: -5}"} {
		_, err = config.Parse([]byte("control: {step: {total: 1, interval: 1}}\noutput: " + output))
		assert.ErrorIs(t, err, config.ErrNoInterval, output)
	}
}
