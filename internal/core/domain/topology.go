package domain

import "github.com/berfenger/solaredge2prom/pkg/sunspec_modbus"

// Topology decides which per-phase fields an inverter exports.
// Only ThreePhase and SinglePhase implement it.
type Topology interface {
	PhaseFields() []ScaledField
	String() string
	sealed()
}

type ThreePhase struct{}

// SinglePhase covers every non three phase inverter, split phase included.
type SinglePhase struct {
	DID uint16
}

func TopologyFromDID(did int64) Topology {
	if did == sunspec_modbus.SunSpecDIDThreePhaseInverter {
		return ThreePhase{}
	}
	return SinglePhase{DID: uint16(did)}
}

func (ThreePhase) PhaseFields() []ScaledField {
	return threePhaseFields
}

func (ThreePhase) String() string {
	return "three_phase"
}

func (ThreePhase) sealed() {}

func (SinglePhase) PhaseFields() []ScaledField {
	return singlePhaseFields
}

func (SinglePhase) String() string {
	return "single_phase"
}

func (SinglePhase) sealed() {}

// Fields returns every scaled field exported for the topology, common first.
func Fields(t Topology) []ScaledField {
	phase := t.PhaseFields()
	fields := make([]ScaledField, 0, len(CommonFields)+len(phase))
	fields = append(fields, CommonFields...)
	return append(fields, phase...)
}

// ScaledField maps a raw value and its scale factor to a gauge.
type ScaledField struct {
	Metric string
	Help   string
	Value  string
	Scale  string
}

const (
	MetricInfo          = "solaredge_info"
	MetricTemperature   = "solaredge_temperature"
	MetricCurrent       = "solaredge_current"
	MetricPhase1Current = "solaredge_phase1_current"
	MetricPhase2Current = "solaredge_phase2_current"
	MetricPhase3Current = "solaredge_phase3_current"
	MetricPhase1Voltage = "solaredge_phase1_voltage"
	MetricPhase2Voltage = "solaredge_phase2_voltage"
	MetricPhase3Voltage = "solaredge_phase3_voltage"
	MetricPhase1NVolt   = "solaredge_phase1-n_voltage"
	MetricPhase2NVolt   = "solaredge_phase2-n_voltage"
	MetricPhase3NVolt   = "solaredge_phase3-n_voltage"
	MetricFrequency     = "solaredge_frequency"
	MetricPowerAC       = "solaredge_power_ac"
	MetricPowerApparent = "solaredge_power_apparent"
	MetricPowerReactive = "solaredge_power_reactive"
	MetricPowerFactor   = "solaredge_power_factor"
	MetricEnergyTotal   = "solaredge_energy_total"
	MetricDCCurrent     = "solaredge_dc_current"
	MetricDCVoltage     = "solaredge_dc_voltage"
	MetricDCPower       = "solaredge_dc_power"
)

var CommonFields = []ScaledField{
	{MetricTemperature, "SolarEdge Temperature", sunspec_modbus.FieldTemperature, sunspec_modbus.FieldTemperatureSF},
	{MetricCurrent, "Current", sunspec_modbus.FieldCurrent, sunspec_modbus.FieldCurrentSF},
	{MetricFrequency, "Frequency", sunspec_modbus.FieldFrequency, sunspec_modbus.FieldFrequencySF},
	{MetricPowerAC, "Power AC", sunspec_modbus.FieldPowerAC, sunspec_modbus.FieldPowerACSF},
	{MetricPowerApparent, "Power Apparent", sunspec_modbus.FieldPowerApparent, sunspec_modbus.FieldPowerApparentSF},
	{MetricPowerReactive, "Power Reactive", sunspec_modbus.FieldPowerReactive, sunspec_modbus.FieldPowerReactiveSF},
	{MetricPowerFactor, "Power Factor", sunspec_modbus.FieldPowerFactor, sunspec_modbus.FieldPowerFactorSF},
	{MetricEnergyTotal, "Total Energy", sunspec_modbus.FieldEnergyTotal, sunspec_modbus.FieldEnergyTotalSF},
	{MetricDCCurrent, "DC Current", sunspec_modbus.FieldCurrentDC, sunspec_modbus.FieldCurrentDCSF},
	{MetricDCVoltage, "DC Voltage", sunspec_modbus.FieldVoltageDC, sunspec_modbus.FieldVoltageDCSF},
	{MetricDCPower, "DC Power", sunspec_modbus.FieldPowerDC, sunspec_modbus.FieldPowerDCSF},
}

var threePhaseFields = []ScaledField{
	{MetricPhase1Current, "Phase 1 Current", sunspec_modbus.FieldL1Current, sunspec_modbus.FieldCurrentSF},
	{MetricPhase2Current, "Phase 2 Current", sunspec_modbus.FieldL2Current, sunspec_modbus.FieldCurrentSF},
	{MetricPhase3Current, "Phase 3 Current", sunspec_modbus.FieldL3Current, sunspec_modbus.FieldCurrentSF},
	{MetricPhase1Voltage, "Phase 1 Voltage", sunspec_modbus.FieldL1Voltage, sunspec_modbus.FieldVoltageSF},
	{MetricPhase2Voltage, "Phase 2 Voltage", sunspec_modbus.FieldL2Voltage, sunspec_modbus.FieldVoltageSF},
	{MetricPhase3Voltage, "Phase 3 Voltage", sunspec_modbus.FieldL3Voltage, sunspec_modbus.FieldVoltageSF},
	{MetricPhase1NVolt, "Phase 1-N Voltage", sunspec_modbus.FieldL1NVoltage, sunspec_modbus.FieldVoltageSF},
	{MetricPhase2NVolt, "Phase 2-N Voltage", sunspec_modbus.FieldL2NVoltage, sunspec_modbus.FieldVoltageSF},
	{MetricPhase3NVolt, "Phase 3-N Voltage", sunspec_modbus.FieldL3NVoltage, sunspec_modbus.FieldVoltageSF},
}

var singlePhaseFields = []ScaledField{
	{MetricPhase1Voltage, "Phase 1 Voltage", sunspec_modbus.FieldL1Voltage, sunspec_modbus.FieldVoltageSF},
}
