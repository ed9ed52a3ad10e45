package service

import (
	"math"

	"github.com/berfenger/solaredge2prom/internal/core/domain"
	"github.com/berfenger/solaredge2prom/pkg/sunspec_modbus"
)

// Scale applies a SunSpec scale factor: value * 10^exponent.
// Negative exponents divide so that 40 with -2 yields exactly 0.4.
func Scale(value int64, exponent int64) float64 {
	if exponent < 0 {
		return float64(value) / math.Pow10(int(-exponent))
	}
	return float64(value) * math.Pow10(int(exponent))
}

// Project turns a raw reading into the metrics exported for topology.
// Values and scale factors always come from the same reading.
func Project(reading sunspec_modbus.RawReading, topology domain.Topology) ([]domain.ScaledMetric, domain.InfoRecord, error) {
	fields := domain.Fields(topology)
	metrics := make([]domain.ScaledMetric, 0, len(fields))
	for _, f := range fields {
		value, err := reading.Int(f.Value)
		if err != nil {
			return nil, domain.InfoRecord{}, err
		}
		exponent, err := reading.Int(f.Scale)
		if err != nil {
			return nil, domain.InfoRecord{}, err
		}
		metrics = append(metrics, domain.ScaledMetric{Name: f.Metric, Value: Scale(value, exponent)})
	}

	info, err := projectInfo(reading)
	if err != nil {
		return nil, domain.InfoRecord{}, err
	}
	return metrics, info, nil
}

func projectInfo(reading sunspec_modbus.RawReading) (domain.InfoRecord, error) {
	var info domain.InfoRecord
	var err error

	did, err := reading.Int(sunspec_modbus.FieldSunSpecDID)
	if err != nil {
		return info, err
	}
	if info.DeviceType, err = sunspec_modbus.SunSpecDIDToString(did); err != nil {
		return info, err
	}
	status, err := reading.Int(sunspec_modbus.FieldStatus)
	if err != nil {
		return info, err
	}
	if info.Status, err = sunspec_modbus.InverterStatusToString(status); err != nil {
		return info, err
	}

	if info.Manufacturer, err = reading.String(sunspec_modbus.FieldManufacturer); err != nil {
		return info, err
	}
	if info.Model, err = reading.String(sunspec_modbus.FieldModel); err != nil {
		return info, err
	}
	if info.Version, err = reading.String(sunspec_modbus.FieldVersion); err != nil {
		return info, err
	}
	if info.SerialNumber, err = reading.String(sunspec_modbus.FieldSerialNumber); err != nil {
		return info, err
	}
	return info, nil
}
