package config

import (
	"errors"
	"fmt"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const EnvPrefix = "solaredge"

type Config struct {
	InverterModbusTCPConfig `mapstructure:",squash"`

	LogLevel        zapcore.Level `mapstructure:"-"`
	PollingInterval uint          `mapstructure:"polling_interval"`
	MetricsPort     uint          `mapstructure:"metrics_port"`
	HttpLog         bool          `mapstructure:"http_log"`
}

type InverterModbusTCPConfig struct {
	Host    string
	Port    uint
	Timeout uint
	Unit    uint
}

// RequestTimeout bounds every Modbus request.
func (c InverterModbusTCPConfig) RequestTimeout() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

func (c Config) PollInterval() time.Duration {
	return time.Duration(c.PollingInterval) * time.Second
}

// Load reads the configuration from SOLAREDGE_* environment variables,
// a .env file included.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	cfg.LogLevel = ParseLogLevel(v.GetString("log_level"))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("host", "192.168.1.152")
	v.SetDefault("port", 1502)
	v.SetDefault("timeout", 5)
	v.SetDefault("unit", 1)
	v.SetDefault("polling_interval", 5)
	v.SetDefault("metrics_port", 2112)
	v.SetDefault("log_level", "info")
	v.SetDefault("http_log", false)
}

func ParseLogLevel(level string) zapcore.Level {
	switch level {
	case "trace":
		return zap.DebugLevel
	case "debug":
		return zap.DebugLevel
	case "info":
		return zap.InfoLevel
	case "error":
		return zap.ErrorLevel
	case "warn":
		return zap.WarnLevel
	case "fatal":
		return zap.FatalLevel
	default:
		return zap.InfoLevel
	}
}

func (cfg Config) Validate() error {
	if cfg.Host == "" {
		return errors.New("config param host must not be empty")
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		return fmt.Errorf("config param port should be in 1..65535, got %d", cfg.Port)
	}
	if cfg.Unit > 247 {
		return fmt.Errorf("config param unit should be <= 247, got %d", cfg.Unit)
	}
	if cfg.Timeout < 1 {
		return errors.New("config param timeout should be >= 1 second")
	}
	if cfg.PollingInterval < 1 {
		return errors.New("config param polling_interval should be >= 1 second")
	}
	if cfg.MetricsPort < 1 || cfg.MetricsPort > 65535 {
		return fmt.Errorf("config param metrics_port should be in 1..65535, got %d", cfg.MetricsPort)
	}
	return nil
}
