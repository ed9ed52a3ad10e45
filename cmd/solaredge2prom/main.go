package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/berfenger/solaredge2prom/internal/adapter/metrics"
	"github.com/berfenger/solaredge2prom/internal/config"
	"github.com/berfenger/solaredge2prom/internal/core/service"
	"github.com/berfenger/solaredge2prom/internal/server"
	"github.com/berfenger/solaredge2prom/internal/util"
	"github.com/berfenger/solaredge2prom/pkg/sunspec_modbus"

	"github.com/carlmjohnson/versioninfo"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

func main() {

	slog.SetDefault(util.NewSlogLogger(os.Stderr, zap.InfoLevel))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config errors", "error", err)
		os.Exit(1)
	}

	logger, err := util.NewZapLogger(cfg.LogLevel)
	if err != nil {
		slog.Error("could not build logger", "error", err)
		os.Exit(1)
	}

	logger.Info("starting solaredge2prom",
		zap.String("version", versioninfo.Short()),
		zap.String("host", cfg.Host),
		zap.Uint("port", cfg.Port),
		zap.Duration("timeout", cfg.RequestTimeout()),
		zap.Uint("unit", cfg.Unit),
		zap.Duration("polling_interval", cfg.PollInterval()),
		zap.Uint("metrics_port", cfg.MetricsPort))

	reader, err := sunspec_modbus.CreateSolarEdgeInverterModbusReader(cfg.Host, cfg.Port, uint8(cfg.Unit),
		cfg.RequestTimeout(), logger, nil)
	if err != nil {
		exit(logger, err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err = run(ctx, *cfg, reader, reg, logger)
	stop()
	if err != nil {
		exit(logger, err)
	}
	logger.Info("shutdown complete")
	_ = logger.Sync()
}

func exit(logger *zap.Logger, err error) {
	logger.Error("solaredge2prom stopped", zap.Error(err))
	_ = logger.Sync()
	os.Exit(1)
}

// run connects to the inverter and publishes its first reading before the
// metrics endpoint is opened. It returns nil once ctx is done.
func run(ctx context.Context, cfg config.Config, reader sunspec_modbus.InverterModbusReader,
	reg *prometheus.Registry, logger *zap.Logger) error {

	if err := reader.Open(); err != nil {
		return fmt.Errorf("connect inverter: %w", err)
	}
	defer reader.Close()

	poller, err := service.NewPoller(reader, metrics.SinkFactory(reg), cfg.PollInterval(),
		util.ComponentLogger("poller", logger))
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	apiServer := server.NewServer(cfg, reg, poller, util.ComponentLogger("http", logger))
	serverDone := make(chan struct{})
	go func() {
		defer close(serverDone)
		if err := apiServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			cancel(fmt.Errorf("http server: %w", err))
		}
	}()
	logger.Info("serving metrics", zap.String("addr", apiServer.Addr))

	loopErr := poller.Run(ctx)

	// The context is used to inform the server it has 5 seconds to finish
	// the request it is currently handling
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("server forced to shutdown", zap.Error(err))
	}
	<-serverDone

	if loopErr != nil {
		return loopErr
	}
	if cause := context.Cause(ctx); cause != nil && !errors.Is(cause, context.Canceled) {
		return cause
	}
	return nil
}
