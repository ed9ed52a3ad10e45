package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/berfenger/solaredge2prom/internal/config"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// PublishReporter tells when metrics were last refreshed.
type PublishReporter interface {
	LastPublish() time.Time
}

type Server struct {
	port       uint
	httpLog    bool
	gatherer   prometheus.Gatherer
	reporter   PublishReporter
	staleAfter time.Duration // three missed polls
	logger     *zap.Logger
}

func NewServer(cfg config.Config, gatherer prometheus.Gatherer, reporter PublishReporter, logger *zap.Logger) *http.Server {
	NewServer := &Server{
		port:       cfg.MetricsPort,
		httpLog:    cfg.HttpLog,
		gatherer:   gatherer,
		reporter:   reporter,
		staleAfter: 3 * (cfg.PollInterval() + cfg.RequestTimeout()),
		logger:     logger,
	}

	// Declare Server config
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", NewServer.port),
		Handler:      NewServer.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return server
}
