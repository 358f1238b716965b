package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/treadline/backend/internal/infrastructure/config"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.LogConfig
	}{
		{"json to stdout", config.LogConfig{Level: "info", Format: "json", Output: "stdout"}},
		{"console to stderr", config.LogConfig{Level: "debug", Format: "console", Output: "stderr"}},
		{"unknown level falls back to info", config.LogConfig{Level: "verbose", Format: "json", Output: "stdout"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := New(tt.cfg)
			require.NoError(t, err)
			require.NotNil(t, l)
		})
	}
}

func TestNewForEnvironment(t *testing.T) {
	prod, err := NewForEnvironment("production")
	require.NoError(t, err)
	assert.NotNil(t, prod)

	dev, err := NewForEnvironment("development")
	require.NoError(t, err)
	assert.NotNil(t, dev)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"warning", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"ERROR", zapcore.ErrorLevel},
		{"fatal", zapcore.FatalLevel},
		{"", zapcore.InfoLevel},
		{"bogus", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLevel(tt.input), "level %q", tt.input)
	}
}

func TestWithExtraCores(t *testing.T) {
	base, baseLogs := observer.New(zapcore.InfoLevel)
	extra, extraLogs := observer.New(zapcore.InfoLevel)

	l := WithExtraCores(zap.New(base), extra)
	l.Info("stock received")

	assert.Equal(t, 1, baseLogs.Len())
	assert.Equal(t, 1, extraLogs.Len())
}

func TestWithExtraCores_NoCores(t *testing.T) {
	base, baseLogs := observer.New(zapcore.InfoLevel)

	l := WithExtraCores(zap.New(base))
	l.Info("order placed")

	assert.Equal(t, 1, baseLogs.Len())
}

func TestNewWriter_FileFallback(t *testing.T) {
	// Unwritable path falls back to stdout rather than failing
	w := newWriter("/nonexistent-dir/app.log")
	assert.NotNil(t, w)
}
