package util

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSlogLevel(t *testing.T) {

	assert := assert.New(t)

	assert.Equal(slog.LevelDebug, SlogLevel(zap.DebugLevel))
	assert.Equal(slog.LevelInfo, SlogLevel(zap.InfoLevel))
	assert.Equal(slog.LevelWarn, SlogLevel(zap.WarnLevel))
	assert.Equal(slog.LevelError, SlogLevel(zap.FatalLevel))
}

func TestSlogLoggerHonorsLevel(t *testing.T) {

	var buf bytes.Buffer
	logger := NewSlogLogger(&buf, zap.WarnLevel)

	logger.Info("hidden")
	assert.Empty(t, buf.String())

	logger.Warn("config errors", "error", "bad port")
	assert.Contains(t, buf.String(), "config errors")
	assert.Contains(t, buf.String(), "bad port")
}

func TestZapLogger(t *testing.T) {

	logger, err := NewZapLogger(zap.WarnLevel)
	require.NoError(t, err)

	assert.False(t, logger.Core().Enabled(zap.InfoLevel))
	assert.True(t, logger.Core().Enabled(zap.ErrorLevel))
}

func TestTestConfigIsValid(t *testing.T) {
	assert.NoError(t, LoadTestConfig().Validate())
}
