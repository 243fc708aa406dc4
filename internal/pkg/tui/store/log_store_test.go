package store

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogStore_AddAndOrder(t *testing.T) {
	ls := NewLogStore(10)
	now := time.Now()
	ls.Add(LogRow{Level: "info", Payload: "first", At: now})
	ls.Add(LogRow{Level: "warning", Payload: "second", At: now.Add(time.Second)})

	snap := ls.Snapshot()
	require.Len(t, snap, 2)
	assert.Equal(t, "first", snap[0].Payload)
	assert.Equal(t, "second", snap[1].Payload)
	assert.EqualValues(t, 2, ls.Total())
}

func TestLogStore_EvictsOldestAtCapacity(t *testing.T) {
	ls := NewLogStore(500)
	for i := 0; i < 501; i++ {
		ls.Add(LogRow{Level: "info", Payload: fmt.Sprintf("line-%d", i)})
	}

	assert.Equal(t, 500, ls.Count())
	snap := ls.Snapshot()
	assert.Equal(t, "line-1", snap[0].Payload, "oldest line evicted")
	assert.Equal(t, "line-500", snap[len(snap)-1].Payload)
	assert.EqualValues(t, 501, ls.Total())
}

func TestLogStore_Clear(t *testing.T) {
	ls := NewLogStore(5)
	ls.Add(LogRow{Level: "error", Payload: "boom"})

	ls.Clear()
	assert.Equal(t, 0, ls.Count())
	assert.Nil(t, ls.Snapshot())
}
