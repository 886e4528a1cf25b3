package trafficlight

import (
	"testing"

	"git.fiblab.net/general/common/v2/mathutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/agentsociety-signal-sim/entity"
	"github.com/tsinghua-fib-lab/agentsociety-signal-sim/utils/config"
)

// 两个方向交替放行的四相位方案
func testGroupConfig() config.TrafficLightGroup {
	return config.TrafficLightGroup{
		ID:         "plan1",
		JunctionID: 11,
		Phases: []config.Phase{
			{Duration: 30, States: map[string]string{"first": "green", "second": "red"}},
			{Duration: 3, States: map[string]string{"first": "green_red", "second": "red_green"}},
			{Duration: 30, States: map[string]string{"first": "red", "second": "green"}},
			{Duration: 3, States: map[string]string{"first": "red_green", "second": "green_red"}},
		},
	}
}

func newTestGroup(t *testing.T) (*Group, *Signal, *Signal) {
	first := NewSignal("first", "plan1")
	second := NewSignal("second", "plan1")
	g, err := newGroup(testGroupConfig(), []*Signal{first, second}, 0)
	require.NoError(t, err)
	return g, first, second
}

func TestGroupInit(t *testing.T) {
	g, first, second := newTestGroup(t)
	assert.Equal(t, "plan1", g.ID())
	assert.Equal(t, int32(0), g.Phase())
	assert.Equal(t, 30., g.RemainingTime())
	assert.Equal(t, entity.StatusGreen, first.Status())
	assert.Equal(t, entity.StatusRed, second.Status())
	assert.Equal(t, 3, first.LightCount())
	assert.Equal(t, 3, second.LightCount())

	// 信控组已绑定为相位推进能力
	require.NoError(t, first.TriggerNextPhase())
	assert.Equal(t, int32(1), g.Phase())
	assert.Equal(t, entity.StatusGreenRed, first.Status())
	assert.Equal(t, entity.StatusRedGreen, second.Status())
}

func TestGroupInitOffset(t *testing.T) {
	first := NewSignal("first", "plan1")
	g, err := newGroup(testGroupConfig(), []*Signal{first}, 6)
	require.NoError(t, err)
	assert.Equal(t, int32(2), g.Phase())
	assert.Equal(t, entity.StatusRed, first.Status())
}

func TestGroupInitErrors(t *testing.T) {
	base := testGroupConfig()
	base.Phases[1].Duration = 0
	_, err := newGroup(base, nil, 0)
	assert.Error(t, err)

	base = testGroupConfig()
	base.Phases[0].States["first"] = "blue"
	_, err = newGroup(base, nil, 0)
	assert.Error(t, err)
}

func TestGroupUpdate(t *testing.T) {
	g, first, second := newTestGroup(t)
	for range 29 {
		g.update(1)
	}
	assert.Equal(t, int32(0), g.Phase())
	assert.Equal(t, 1., g.RemainingTime())

	g.update(1)
	assert.Equal(t, int32(1), g.Phase())
	assert.Equal(t, 3., g.RemainingTime())
	assert.Equal(t, entity.StatusGreenRed, first.Status())
	assert.Equal(t, entity.StatusRedGreen, second.Status())

	for range 3 {
		g.update(1)
	}
	assert.Equal(t, int32(2), g.Phase())
	assert.Equal(t, entity.StatusRed, first.Status())
	assert.Equal(t, entity.StatusGreen, second.Status())
}

func TestGroupUpdateCrossesSeveralPhases(t *testing.T) {
	g, first, _ := newTestGroup(t)
	g.update(40)
	assert.Equal(t, int32(2), g.Phase())
	assert.Equal(t, 23., g.RemainingTime())
	assert.Equal(t, entity.StatusRed, first.Status())
}

func TestGroupWrapsAround(t *testing.T) {
	g, first, _ := newTestGroup(t)
	for range 4 {
		g.NextPhase()
	}
	assert.Equal(t, int32(0), g.Phase())
	assert.Equal(t, entity.StatusGreen, first.Status())
}

func TestGroupSetPhase(t *testing.T) {
	g, first, second := newTestGroup(t)
	assert.Error(t, g.setPhase(4, 1))
	assert.Error(t, g.setPhase(-1, 1))

	require.NoError(t, g.setPhase(2, 5))
	// 延迟到下一个更新周期生效
	assert.Equal(t, int32(0), g.Phase())
	g.update(1)
	assert.Equal(t, int32(2), g.Phase())
	assert.Equal(t, 4., g.RemainingTime())
	assert.Equal(t, entity.StatusRed, first.Status())
	assert.Equal(t, entity.StatusGreen, second.Status())

	require.NoError(t, g.setPhase(1, 0))
	g.update(0)
	assert.Equal(t, 3., g.RemainingTime())
}

func TestGroupSetOk(t *testing.T) {
	g, first, second := newTestGroup(t)
	g.setOk(false)
	g.update(1)
	assert.False(t, g.Ok())
	assert.Equal(t, mathutil.INF, g.RemainingTime())
	assert.Equal(t, entity.StatusGreen, first.Status())
	assert.Equal(t, entity.StatusGreen, second.Status())

	// 关闭期间手动触发无效
	require.NoError(t, first.TriggerNextPhase())
	assert.Equal(t, int32(0), g.Phase())

	g.setOk(true)
	g.update(1)
	assert.True(t, g.Ok())
	assert.Equal(t, entity.StatusGreen, first.Status())
	assert.Equal(t, entity.StatusRed, second.Status())
}

func TestGroupWithoutPhases(t *testing.T) {
	s := NewSignal("first", "empty")
	g, err := newGroup(config.TrafficLightGroup{ID: "empty"}, []*Signal{s}, 0)
	require.NoError(t, err)
	assert.Equal(t, int32(-1), g.Phase())
	assert.Equal(t, mathutil.INF, g.RemainingTime())
	g.update(100)
	g.NextPhase()
	assert.Equal(t, entity.StatusGreen, s.Status())
	assert.Equal(t, 0, s.LightCount())
}
