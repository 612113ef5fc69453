package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriter(t *testing.T) {
	original := slog.Default()
	t.Cleanup(func() { slog.SetDefault(original) })

	t.Run("json format", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewWithWriter(&buf, "json", "info")

		logger.Debug("hidden")
		logger.Info("Message stored", "id", 1)

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "Message stored", entry["msg"])
		assert.Equal(t, float64(1), entry["id"])
		assert.Same(t, logger, slog.Default())
	})

	t.Run("text format includes source", func(t *testing.T) {
		var buf bytes.Buffer
		NewWithWriter(&buf, "text", "debug").Debug("visible")

		assert.Contains(t, buf.String(), "msg=visible")
		assert.Contains(t, buf.String(), "source=")
	})
}

func TestParseLevel(t *testing.T) {
	testCases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"unknown": slog.LevelDebug,
	}
	for in, want := range testCases {
		assert.Equal(t, want, parseLevel(in), in)
	}
}
