package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/endorses/nekotop/internal/pkg/api"
)

func TestMetricsHistory_WindowIsBounded(t *testing.T) {
	mh := NewMetricsHistory(3)
	for i := 1; i <= 5; i++ {
		mh.PushTraffic(api.Traffic{Up: int64(i), Down: int64(i * 10)})
	}

	up, down := mh.TrafficWindows()
	require.Len(t, up, 3)
	assert.Equal(t, []float64{3, 4, 5}, up)
	assert.Equal(t, []float64{30, 40, 50}, down)

	last, _ := mh.Last()
	assert.EqualValues(t, 5, last.Up)
}

func TestMetricsHistory_MemoryWindow(t *testing.T) {
	mh := NewMetricsHistory(4)
	mh.PushMemory(api.Memory{InUse: 100})
	mh.PushMemory(api.Memory{InUse: 200})

	assert.Equal(t, []float64{100, 200}, mh.MemoryWindow())

	_, mem := mh.Last()
	assert.EqualValues(t, 200, mem.InUse)
}

func TestMetricsHistory_Totals(t *testing.T) {
	mh := NewMetricsHistory(4)
	mh.SetTotals(1024, 4096)

	up, down := mh.Totals()
	assert.EqualValues(t, 1024, up)
	assert.EqualValues(t, 4096, down)
}

func TestMetricsHistory_ReturnsCopies(t *testing.T) {
	mh := NewMetricsHistory(4)
	mh.PushTraffic(api.Traffic{Up: 1, Down: 2})

	up, _ := mh.TrafficWindows()
	up[0] = 999

	again, _ := mh.TrafficWindows()
	assert.Equal(t, []float64{1}, again)
}
