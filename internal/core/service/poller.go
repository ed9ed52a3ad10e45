package service

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/berfenger/solaredge2prom/internal/core/domain"
	"github.com/berfenger/solaredge2prom/internal/core/port"
	"github.com/berfenger/solaredge2prom/pkg/sunspec_modbus"
	"go.uber.org/zap"
)

// Poller is the single writer of the metric sink. Reads never overlap: the
// next read starts interval after the previous publish.
type Poller struct {
	source   port.RegisterSource
	sink     port.MetricSink
	topology domain.Topology
	interval time.Duration
	logger   *zap.Logger

	lastPublish atomic.Int64
	wait        func(ctx context.Context, d time.Duration) error
}

// NewPoller performs the first read, fixes the topology, builds the sink for
// it and publishes that first reading. Any error here is fatal.
func NewPoller(source port.RegisterSource, sinkFactory port.MetricSinkFactory, interval time.Duration,
	logger *zap.Logger) (*Poller, error) {

	reading, err := source.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("initial read: %w", err)
	}
	did, err := reading.Int(sunspec_modbus.FieldSunSpecDID)
	if err != nil {
		return nil, fmt.Errorf("initial read: %w", err)
	}
	topology := domain.TopologyFromDID(did)

	sink, err := sinkFactory(topology)
	if err != nil {
		return nil, fmt.Errorf("create metric sink: %w", err)
	}

	p := &Poller{
		source:   source,
		sink:     sink,
		topology: topology,
		interval: interval,
		logger:   logger,
		wait:     sleepContext,
	}
	if err := p.publish(reading); err != nil {
		return nil, err
	}
	logger.Info("inverter detected", zap.Stringer("topology", topology), zap.Int64("did", did))
	return p, nil
}

func (p *Poller) Topology() domain.Topology {
	return p.topology
}

// LastPublish is safe to call from any goroutine.
func (p *Poller) LastPublish() time.Time {
	return time.Unix(0, p.lastPublish.Load())
}

// Run polls until ctx is done (nil) or a read, projection or publish fails.
func (p *Poller) Run(ctx context.Context) error {
	for {
		if err := p.wait(ctx, p.interval); err != nil {
			p.logger.Debug("poller stopped", zap.Error(err))
			return nil
		}
		reading, err := p.source.ReadAll()
		if err != nil {
			return fmt.Errorf("read inverter: %w", err)
		}
		if err := p.publish(reading); err != nil {
			return err
		}
	}
}

func (p *Poller) publish(reading sunspec_modbus.RawReading) error {
	if did, err := reading.Int(sunspec_modbus.FieldSunSpecDID); err == nil {
		if current := domain.TopologyFromDID(did); current != p.topology {
			p.logger.Warn("inverter topology changed, keeping startup gauges",
				zap.Stringer("startup", p.topology), zap.Stringer("current", current))
		}
	}

	metrics, info, err := Project(reading, p.topology)
	if err != nil {
		return fmt.Errorf("project reading: %w", err)
	}
	if err := p.sink.Publish(metrics, info); err != nil {
		return fmt.Errorf("publish metrics: %w", err)
	}
	p.lastPublish.Store(time.Now().UnixNano())
	p.logger.Debug("reading published", zap.Int("metrics", len(metrics)), zap.String("status", info.Status))
	return nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
