package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/sayyes/internal/config"
)

func TestParseLevel(t *testing.T) {
	for name, want := range map[string]slog.Level{
		"debug":  slog.LevelDebug,
		"info":   slog.LevelInfo,
		"":       slog.LevelInfo,
		" WARN ": slog.LevelWarn,
		"error":  slog.LevelError,
	} {
		got, err := ParseLevel(name)
		require.NoError(t, err, name)
		require.Equal(t, want, got, name)
	}
	_, err := ParseLevel("trace")
	require.ErrorIs(t, err, config.ErrInvalid)
}

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "sayyes.log")
	logger, closer, err := New(config.LogConfig{Path: path, Level: "warn"})
	require.NoError(t, err)

	logger.Info("dropped")
	logger.Warn("placement fell back to a corner", "container_w", 3)
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NotContains(t, string(data), "dropped")
	require.Contains(t, string(data), "WARN")
	require.Contains(t, string(data), "placement fell back to a corner")
	require.Contains(t, string(data), "container_w=3")
}

func TestNewWriterFiltersLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriter(&buf, slog.LevelInfo)
	logger.Debug("hidden")
	logger.Info("accepted", "declines", 4)
	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), "INFO")
	require.Contains(t, buf.String(), "sayyes")
	require.Contains(t, buf.String(), "declines=4")

	buf.Reset()
	debug := NewWriter(&buf, slog.LevelDebug)
	debug.Debug("task", "task", "burst(phase=2)")
	require.Contains(t, buf.String(), "DEBU")
	require.Contains(t, buf.String(), "burst(phase=2)")
}
