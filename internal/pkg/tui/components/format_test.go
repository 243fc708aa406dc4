package components

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		bytes int64
		want  string
	}{
		{0, "0B"},
		{512, "512B"},
		{1023, "1023B"},
		{1024, "1.0KB"},
		{1536, "1.5KB"},
		{1048576, "1.0MB"},
		{1610612736, "1.5GB"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatBytes(tt.bytes), "formatBytes(%d)", tt.bytes)
	}
}

func TestFormatRate(t *testing.T) {
	tests := []struct {
		rate float64
		want string
	}{
		{0, "0B/s"},
		{512, "512B/s"},
		{1536, "1.5KB/s"},
		{1048576, "1.0MB/s"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatRate(tt.rate), "formatRate(%f)", tt.rate)
	}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{123456, "123,456"},
		{1234567, "1,234,567"},
		{-1234, "-1,234"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatNumber(tt.n), "formatNumber(%d)", tt.n)
	}
}

func TestFormatAge(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{500 * time.Millisecond, "<1s"},
		{45 * time.Second, "45s"},
		{61 * time.Second, "1m01s"},
		{90 * time.Second, "1m30s"},
		{3*time.Hour + 25*time.Minute, "3h25m"},
		{49 * time.Hour, "2d01h"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatAge(tt.d), "formatAge(%s)", tt.d)
	}
}

func TestFormatTimeAgo(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, "never", formatTimeAgo(time.Time{}, now))
	assert.Equal(t, "10m00s ago", formatTimeAgo(now.Add(-10*time.Minute), now))

	// A timestamp ahead of the clock clamps to zero elapsed.
	assert.Equal(t, "<1s ago", formatTimeAgo(now.Add(time.Minute), now))
}

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "", truncateString("abc", 0))
	assert.Equal(t, "abc", truncateString("abc", 3))
	assert.Equal(t, "abc", truncateString("abc", 10))
	assert.Equal(t, "ab…", truncateString("abcdef", 3))
	assert.Equal(t, "…", truncateString("abcdef", 1))

	// Truncation counts runes, not bytes.
	assert.Equal(t, "hé…", truncateString("héllo", 3))
}
