package port

import (
	"github.com/berfenger/solaredge2prom/internal/core/domain"
	"github.com/berfenger/solaredge2prom/pkg/sunspec_modbus"
)

type RegisterSource interface {
	ReadAll() (sunspec_modbus.RawReading, error)
}

// MetricSink receives every projected reading. Implementations are built
// once for a topology and only accept that topology's metrics.
type MetricSink interface {
	Publish(metrics []domain.ScaledMetric, info domain.InfoRecord) error
}

type MetricSinkFactory func(topology domain.Topology) (MetricSink, error)
