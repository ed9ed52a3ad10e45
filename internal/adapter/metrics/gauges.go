package metrics

import (
	"fmt"

	"github.com/berfenger/solaredge2prom/internal/core/domain"
	"github.com/berfenger/solaredge2prom/internal/core/port"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/model"
)

func init() {
	// phase to neutral voltages are exported as solaredge_phaseN-n_voltage
	model.NameValidationScheme = model.UTF8Validation
}

// GaugeSet holds the gauges registered for one inverter topology.
type GaugeSet struct {
	gauges map[string]prometheus.Gauge
	info   *prometheus.GaugeVec
}

func NewGaugeSet(reg prometheus.Registerer, topology domain.Topology) (*GaugeSet, error) {
	fields := domain.Fields(topology)
	set := &GaugeSet{
		gauges: make(map[string]prometheus.Gauge, len(fields)),
		info: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: domain.MetricInfo,
			Help: "SolarEdge Info",
		}, domain.InfoLabels),
	}

	if err := reg.Register(set.info); err != nil {
		return nil, fmt.Errorf("register %s: %w", domain.MetricInfo, err)
	}
	for _, f := range fields {
		gauge := prometheus.NewGauge(prometheus.GaugeOpts{
			Name: f.Metric,
			Help: f.Help,
		})
		if err := reg.Register(gauge); err != nil {
			return nil, fmt.Errorf("register %s: %w", f.Metric, err)
		}
		set.gauges[f.Metric] = gauge
	}
	return set, nil
}

// Publish sets every gauge of the reading. Nothing is set when a metric has
// no registered gauge.
func (set *GaugeSet) Publish(metrics []domain.ScaledMetric, info domain.InfoRecord) error {
	for _, m := range metrics {
		if _, ok := set.gauges[m.Name]; !ok {
			return fmt.Errorf("no gauge registered for %s", m.Name)
		}
	}
	for _, m := range metrics {
		set.gauges[m.Name].Set(m.Value)
	}

	set.info.Reset()
	set.info.With(info.Labels()).Set(1)
	return nil
}

// SinkFactory registers the gauge set on reg once the topology is known.
func SinkFactory(reg prometheus.Registerer) port.MetricSinkFactory {
	return func(topology domain.Topology) (port.MetricSink, error) {
		return NewGaugeSet(reg, topology)
	}
}

// ensure interface compliance
var _ port.MetricSink = (*GaugeSet)(nil)
