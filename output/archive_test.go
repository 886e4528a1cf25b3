package output

import (
	"testing"

	mapv2 "git.fiblab.net/sim/protos/v2/go/city/map/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/agentsociety-signal-sim/entity"
	"github.com/tsinghua-fib-lab/agentsociety-signal-sim/entity/trafficlight"
	"go.mongodb.org/mongo-driver/bson"
)

type archiveSegment struct{}

func (archiveSegment) ID() int32 { return 3 }
func (archiveSegment) Length() float64 { return 400 }

func archiveSignals(t *testing.T) []entity.ISignal {
	placed := trafficlight.NewSignal("first", "plan1")
	require.NoError(t, placed.SetPosition(120))
	require.NoError(t, placed.SetRoadSegment(archiveSegment{}))
	// 未装配的信号灯只输出身份与状态
	bare := trafficlight.NewSignal("second", "plan2")
	return []entity.ISignal{placed, bare}
}

func TestSampleDoc(t *testing.T) {
	doc := sampleDoc(10, 2.5, archiveSignals(t))
	assert.Equal(t, int64(10), doc["step"])
	assert.Equal(t, 2.5, doc["t"])

	lights, ok := doc["traffic_lights"].(bson.A)
	require.True(t, ok)
	require.Len(t, lights, 2)
	assert.Equal(t, bson.M{
		"index":       1,
		"type":        "first",
		"group_id":    "plan1",
		"status":      int32(entity.StatusGreen),
		"light_state": int32(mapv2.LightState_LIGHT_STATE_GREEN),
		"position":    120.,
		"road_id":     int32(3),
	}, lights[0])
	assert.Equal(t, bson.M{
		"index":       2,
		"type":        "second",
		"group_id":    "plan2",
		"status":      int32(entity.StatusGreen),
		"light_state": int32(mapv2.LightState_LIGHT_STATE_GREEN),
	}, lights[1])
}

func TestArchiveBuffering(t *testing.T) {
	a, err := NewArchive(nil, 5, 0, archiveSignals(t))
	require.NoError(t, err)
	assert.Equal(t, defaultBatchSize, a.batchSize)

	for i := int64(0); i <= 12; i++ {
		a.Update(i, float64(i))
	}
	assert.Len(t, a.buffer, 3)
	a.Close()
	assert.Empty(t, a.buffer)

	_, err = NewArchive(nil, 0, 10, nil)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestArchiveBatchFlush(t *testing.T) {
	a, err := NewArchive(nil, 1, 2, archiveSignals(t))
	require.NoError(t, err)
	a.Update(0, 0)
	assert.Len(t, a.buffer, 1)
	a.Update(1, 1)
	assert.Empty(t, a.buffer)
}
