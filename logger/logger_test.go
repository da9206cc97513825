package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStructuredLogger(t *testing.T) {
	t.Run("TextFormat", func(t *testing.T) {
		buf := &bytes.Buffer{}
		l := NewStdLogger()
		l.SetLevel(LogLevelInfo)
		l.SetOutput(buf)
		l.SetFormat(LogFormatText)
		l.Info("hello %s", "world")

		output := buf.String()
		assert.Contains(t, output, "INFO")
		assert.Contains(t, output, "hello world")
		assert.Contains(t, output, "[LAPPA]")
	})

	t.Run("JSONFormat", func(t *testing.T) {
		buf := &bytes.Buffer{}
		l := NewStdLogger()
		l.SetLevel(LogLevelInfo)
		l.SetOutput(buf)
		l.SetFormat(LogFormatJSON)
		l.Info("hello %s", "world")

		var data map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &data))
		assert.Equal(t, "INFO", data["level"])
		assert.Equal(t, "hello world", data["msg"])
		assert.Contains(t, data, "time")
	})

	t.Run("WithFields", func(t *testing.T) {
		buf := &bytes.Buffer{}
		l := NewStdLogger()
		l.SetLevel(LogLevelInfo)
		l.SetOutput(buf)
		l.SetFormat(LogFormatJSON)
		l2 := l.WithFields(map[string]any{"record": "User"})
		l2.Info("compiled")

		var data map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &data))
		assert.Equal(t, "User", data["record"])
		assert.Equal(t, "compiled", data["msg"])
	})

	t.Run("LevelFiltering", func(t *testing.T) {
		buf := &bytes.Buffer{}
		l := NewStdLogger()
		l.SetLevel(LogLevelWarn)
		l.SetOutput(buf)
		l.Info("hidden")
		l.Debug("hidden")
		assert.Empty(t, buf.String())

		l.Warn("shown")
		assert.Contains(t, buf.String(), "shown")
	})

	t.Run("Discard", func(t *testing.T) {
		l := Discard()
		l.Error("nothing to see")
	})
}

func TestParseLevel(t *testing.T) {
	tests := map[string]LogLevel{
		"silent":  LogLevelSilent,
		"ERROR":   LogLevelError,
		"warn":    LogLevelWarn,
		" info ":  LogLevelInfo,
		"debug":   LogLevelDebug,
		"unknown": LogLevelWarn,
	}
	for name, want := range tests {
		assert.Equal(t, want, ParseLevel(name), name)
	}
}
