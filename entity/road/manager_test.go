package road_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/agentsociety-signal-sim/entity/road"
	"github.com/tsinghua-fib-lab/agentsociety-signal-sim/utils/config"
)

func TestManagerGet(t *testing.T) {
	m := road.NewManager()
	m.Init([]config.Road{
		{ID: 1, Name: "main", Length: 1000},
		{ID: 7, Length: 250.5},
	})

	r, err := m.GetOrError(7)
	require.NoError(t, err)
	assert.Equal(t, int32(7), r.ID())
	assert.Equal(t, 250.5, r.Length())
	r, err = m.GetOrError(1)
	require.NoError(t, err)
	assert.Equal(t, int32(1), r.ID())

	_, err = m.GetOrError(2)
	assert.Error(t, err)
}

func TestManagerRejectsBadData(t *testing.T) {
	assert.Panics(t, func() {
		road.NewManager().Init([]config.Road{{ID: 1, Length: 10}, {ID: 1, Length: 20}})
	})
	assert.Panics(t, func() {
		road.NewManager().Init([]config.Road{{ID: 1, Length: 0}})
	})
}
