package components

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToast_ShowActivates(t *testing.T) {
	toast := NewToast()
	require.False(t, toast.Visible())

	cmd := toast.Show("proxy switched", ToastSuccess, ToastDurationShort)
	require.NotNil(t, cmd)
	assert.True(t, toast.Visible())
	assert.Equal(t, "proxy switched", toast.message)
}

func TestToast_SecondShowQueues(t *testing.T) {
	toast := NewToast()
	toast.Show("first", ToastInfo, ToastDurationShort)

	cmd := toast.Show("second", ToastError, ToastDurationLong)
	assert.Nil(t, cmd)
	assert.Equal(t, "first", toast.message)
	require.Len(t, toast.queue, 1)
	assert.Equal(t, "second", toast.queue[0].message)
}

func TestToast_ExpiryPromotesQueue(t *testing.T) {
	toast := NewToast()
	toast.Show("first", ToastInfo, ToastDurationShort)
	toast.Show("second", ToastError, ToastDurationShort)

	// Before the deadline the toast stays and the tick loop continues.
	cmd := toast.Update(ToastTickMsg{Time: toast.startTime.Add(time.Second)})
	assert.NotNil(t, cmd)
	assert.Equal(t, "first", toast.message)

	// Past the deadline the queued toast takes over.
	cmd = toast.Update(ToastTickMsg{Time: toast.startTime.Add(ToastDurationShort + time.Millisecond)})
	assert.NotNil(t, cmd)
	assert.Equal(t, "second", toast.message)
	assert.Equal(t, ToastError, toast.toastType)
	assert.Empty(t, toast.queue)

	// Once the queue drains, expiry clears the toast and ends the loop.
	cmd = toast.Update(ToastTickMsg{Time: toast.startTime.Add(ToastDurationShort + time.Millisecond)})
	assert.Nil(t, cmd)
	assert.False(t, toast.Visible())
}

func TestToast_UpdateIgnoresOtherMessages(t *testing.T) {
	toast := NewToast()
	toast.Show("loaded", ToastInfo, ToastDurationShort)

	assert.Nil(t, toast.Update("not a tick"))
	assert.True(t, toast.Visible())
}

func TestToast_Dismiss(t *testing.T) {
	toast := NewToast()
	toast.Show("first", ToastInfo, ToastDurationShort)
	toast.Show("second", ToastInfo, ToastDurationShort)

	toast.Dismiss()
	assert.False(t, toast.Visible())
	assert.Empty(t, toast.queue)
}

func TestToast_ZeroDurationGetsDefault(t *testing.T) {
	toast := NewToast()
	toast.Show("hello", ToastInfo, 0)
	assert.Equal(t, ToastDurationNormal, toast.duration)
}

func TestToast_View(t *testing.T) {
	toast := NewToast()
	assert.Equal(t, "", toast.View())

	toast.SetSize(80, 24)
	toast.Show("rules updated", ToastSuccess, ToastDurationShort)
	out := toast.View()
	assert.Contains(t, out, "rules updated")
	assert.Contains(t, out, "✓")
}
