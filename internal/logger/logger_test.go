package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		enabled zapcore.Level
		hidden  zapcore.Level
	}{
		{"default", Config{}, zapcore.InfoLevel, zapcore.DebugLevel},
		{"debug", Config{Level: "debug"}, zapcore.DebugLevel, zapcore.DebugLevel - 1},
		{"warn json", Config{Level: "warn", Format: "json"}, zapcore.WarnLevel, zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, err := New(tt.cfg)
			require.NoError(t, err)
			assert.True(t, log.Core().Enabled(tt.enabled))
			assert.False(t, log.Core().Enabled(tt.hidden))
		})
	}
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New(Config{Level: "loud"})
	assert.Error(t, err)
}

func TestWithFile(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := zap.New(core)

	WithFile(log, "src/Form.cs").Debug("lookup call")
	WithFile(log, "").Debug("no file")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "src/Form.cs", entries[0].ContextMap()["file"])
	assert.NotContains(t, entries[1].ContextMap(), "file")
}

func TestNew_Output(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(Config{Level: "warn", Format: "json", Output: &buf})
	require.NoError(t, err)

	log.Info("hidden")
	log.Warn("language file not loaded", zap.String("file", "Language.xml"))

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"message":"language file not loaded"`)
	assert.Contains(t, out, `"file":"Language.xml"`)
}

func TestNew_ConsoleColor(t *testing.T) {
	tests := []struct {
		name  string
		color bool
	}{
		{"plain", false},
		{"color", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log, err := New(Config{Level: "warn", Output: &buf, Color: tt.color})
			require.NoError(t, err)

			log.Warn("missing key")

			out := buf.String()
			assert.Contains(t, out, "missing key")
			if tt.color {
				assert.Contains(t, out, "\x1b[")
			} else {
				assert.Contains(t, out, "WARN")
				assert.NotContains(t, out, "\x1b[")
			}
		})
	}
}
