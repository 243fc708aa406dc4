package logger

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    slog.Level
		wantErr bool
	}{
		{"trace", "trace", LevelTrace, false},
		{"debug", "debug", slog.LevelDebug, false},
		{"info", "info", slog.LevelInfo, false},
		{"warning", "warning", slog.LevelWarn, false},
		{"warn alias", "warn", slog.LevelWarn, false},
		{"error", "error", slog.LevelError, false},
		{"empty defaults to error", "", slog.LevelError, false},
		{"case insensitive", "INFO", slog.LevelInfo, false},
		{"unknown", "verbose", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSetupWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nekotop.log")

	require.NoError(t, Setup(path, "debug"))
	defer func() { _ = Close() }()

	Info("hello", "key", "value")
	Debug("lowlevel", "n", 42)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	// First line must be valid JSON with our message
	var entry map[string]any
	first := data[:indexByte(data, '\n')]
	require.NoError(t, json.Unmarshal(first, &entry))
	assert.Equal(t, "hello", entry["msg"])
	assert.Equal(t, "value", entry["key"])
}

func TestSetupSilentIsNoop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "silent.log")

	require.NoError(t, Setup(path, "silent"))
	Info("should go nowhere")

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "silent level must not create the log file")
}

func TestSetupEmptyPathIsNoop(t *testing.T) {
	require.NoError(t, Setup("", "debug"))
	// Must not panic
	Info("discarded")
	Warn("discarded")
	Error("discarded")
	Trace("discarded")
}

func TestSetupRejectsUnknownLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.log")
	assert.Error(t, Setup(path, "chatty"))
}

func TestLevelFiltering(t *testing.T) {
	path := filepath.Join(t.TempDir(), "filtered.log")

	require.NoError(t, Setup(path, "error"))
	defer func() { _ = Close() }()

	Debug("below threshold")
	Info("below threshold")
	Error("visible")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "visible")
	assert.NotContains(t, string(data), "below threshold")
}

func TestContextVariants(t *testing.T) {
	ctx := context.Background()
	// Discard destination; just verify none of these panic
	InfoContext(ctx, "msg", "k", "v")
	WarnContext(ctx, "msg")
	ErrorContext(ctx, "msg")
	DebugContext(ctx, "msg")
}

func TestWithMethods(t *testing.T) {
	assert.NotNil(t, Get())
	assert.NotNil(t, With("service", "test"))
	assert.NotNil(t, WithGroup("api"))
}

func indexByte(b []byte, c byte) int {
	for i, v := range b {
		if v == c {
			return i
		}
	}
	return len(b)
}
