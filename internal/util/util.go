package util

import (
	"io"
	"log/slog"
	"time"

	"github.com/berfenger/solaredge2prom/internal/config"
	"github.com/lmittmann/tint"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func LoadTestConfig() config.Config {
	return config.Config{
		LogLevel: zap.DebugLevel,
		InverterModbusTCPConfig: config.InverterModbusTCPConfig{
			Host:    "127.0.0.1",
			Port:    1502,
			Timeout: 1,
			Unit:    1,
		},
		PollingInterval: 1,
		MetricsPort:     2112,
	}
}

func NewZapLogger(level zapcore.Level) (*zap.Logger, error) {
	zapCfg := zap.NewProductionConfig()
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	return zapCfg.Build()
}

// NewSlogLogger is used until the zap logger can be built.
func NewSlogLogger(w io.Writer, level zapcore.Level) *slog.Logger {
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      SlogLevel(level),
		TimeFormat: time.DateTime,
	}))
}

func SlogLevel(level zapcore.Level) slog.Level {
	switch level {
	case zap.DebugLevel:
		return slog.LevelDebug
	case zap.WarnLevel:
		return slog.LevelWarn
	case zap.ErrorLevel, zap.DPanicLevel, zap.PanicLevel, zap.FatalLevel:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func ComponentLogger(name string, logger *zap.Logger) *zap.Logger {
	return logger.With(zap.String("component", name))
}
