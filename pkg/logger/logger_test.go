package logger_test

import (
	"context"
	"passive/pkg/logger"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestSetup(t *testing.T) {
	tests := []struct {
		name        string
		environment string
		debug       bool
	}{
		{name: "development", environment: logger.DevelopmentEnvironment},
		{name: "development debug", environment: logger.DevelopmentEnvironment, debug: true},
		{name: "production", environment: logger.ProductionEnvironment},
		{name: "unknown falls back to development", environment: "staging"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, logger.Setup(tt.environment, tt.debug))

			ctx := context.Background()
			require.NotNil(t, logger.Get(ctx))
			require.Equal(t, tt.debug, logger.IsDebug(ctx))
		})
	}
}

func TestGetFallsBackToDefault(t *testing.T) {
	require.NoError(t, logger.Setup(logger.DevelopmentEnvironment, false))

	ctx := context.Background()
	require.NotNil(t, logger.Get(ctx))

	custom := zap.NewNop()
	require.Equal(t, custom, logger.Get(logger.WithLogger(ctx, custom)))
}

func TestWithFieldsAreAttached(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	ctx := logger.WithLogger(context.Background(), zap.New(core))

	ctx = logger.WithFields(ctx, zap.String("domain", "example.com"))
	logger.Info(ctx, "merging")

	entries := logs.All()
	require.Len(t, entries, 1)
	require.Equal(t, "merging", entries[0].Message)
	require.Equal(t, "example.com", entries[0].ContextMap()["domain"])
}

func TestLevelFunctions(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	ctx := logger.WithLogger(context.Background(), zap.New(core))

	logger.Debug(ctx, "d")
	logger.Info(ctx, "i")
	logger.Warn(ctx, "w")
	logger.Error(ctx, "e")

	require.Equal(t, 1, logs.FilterLevelExact(zapcore.DebugLevel).Len())
	require.Equal(t, 1, logs.FilterLevelExact(zapcore.InfoLevel).Len())
	require.Equal(t, 1, logs.FilterLevelExact(zapcore.WarnLevel).Len())
	require.Equal(t, 1, logs.FilterLevelExact(zapcore.ErrorLevel).Len())
	require.True(t, logger.IsDebug(ctx))
}
