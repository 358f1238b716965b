package telemetry_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/treadline/backend/internal/infrastructure/config"
	"github.com/treadline/backend/internal/infrastructure/telemetry"
)

func TestNewLoggerProvider_Disabled(t *testing.T) {
	logger := zaptest.NewLogger(t)
	ctx := context.Background()

	cfg := telemetry.LogsConfig{
		Enabled:           false,
		CollectorEndpoint: "localhost:14317",
		ServiceName:       "test-service",
	}

	lp, err := telemetry.NewLoggerProvider(ctx, cfg, logger)
	require.NoError(t, err)
	require.NotNil(t, lp)

	assert.False(t, lp.IsEnabled())

	gotCfg := lp.GetConfig()
	assert.Equal(t, "test-service", gotCfg.ServiceName)
	assert.False(t, gotCfg.Enabled)

	// Shutdown and flush are no-ops when disabled
	require.NoError(t, lp.Shutdown(ctx))
	require.NoError(t, lp.ForceFlush(ctx))
}

func TestLogsConfigFrom(t *testing.T) {
	cfg := telemetry.LogsConfigFrom(config.TelemetryConfig{
		Enabled:           true,
		CollectorEndpoint: "collector:4317",
		ServiceName:       "treadline-backend",
		Insecure:          true,
	})

	assert.True(t, cfg.Enabled)
	assert.Equal(t, "collector:4317", cfg.CollectorEndpoint)
	assert.Equal(t, "treadline-backend", cfg.ServiceName)
	assert.True(t, cfg.Insecure)
}

func TestNewZapBridgeCore_DisabledIsNoop(t *testing.T) {
	lp, err := telemetry.NewLoggerProvider(context.Background(), telemetry.LogsConfig{}, zaptest.NewLogger(t))
	require.NoError(t, err)

	core := telemetry.NewZapBridgeCore(lp, "test-service", zapcore.InfoLevel)
	require.NotNil(t, core)
	assert.False(t, core.Enabled(zapcore.ErrorLevel))

	// A nil provider also yields a no-op core
	core = telemetry.NewZapBridgeCore(nil, "test-service", zapcore.InfoLevel)
	assert.False(t, core.Enabled(zapcore.ErrorLevel))
}

func TestNewZapBridgeCore_TeeStillWritesBaseCore(t *testing.T) {
	base, logs := observer.New(zapcore.InfoLevel)
	lp, err := telemetry.NewLoggerProvider(context.Background(), telemetry.LogsConfig{}, zaptest.NewLogger(t))
	require.NoError(t, err)

	bridge := telemetry.NewZapBridgeCore(lp, "test-service", zapcore.InfoLevel)
	logger := zap.New(zapcore.NewTee(base, bridge))
	logger.Info("stock received")

	assert.Equal(t, 1, logs.Len())
}
