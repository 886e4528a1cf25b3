package randengine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tsinghua-fib-lab/agentsociety-signal-sim/utils/randengine"
)

func TestEngineReproducible(t *testing.T) {
	a := randengine.New(42)
	b := randengine.New(42)
	for range 20 {
		x := a.IntnSafe(4)
		assert.Equal(t, x, b.IntnSafe(4))
		assert.GreaterOrEqual(t, x, 0)
		assert.Less(t, x, 4)
	}
}
