package sunspec_modbus

import (
	"fmt"
	"strconv"
)

// SunSpec device ids reported in the model header of a device block
const (
	SunSpecDIDSinglePhaseInverter = 101
	SunSpecDIDSplitPhaseInverter  = 102
	SunSpecDIDThreePhaseInverter  = 103
	SunSpecDIDUnknown             = 65535
)

var sunSpecDIDNames = map[uint16]string{
	101:   "Single Phase Inverter",
	102:   "Split Phase Inverter",
	103:   "Three Phase Inverter",
	201:   "Single Phase Meter",
	202:   "Split Phase Meter",
	203:   "Wye 3P1N Three Phase Meter",
	204:   "Delta 3P Three Phase Meter",
	802:   "Battery",
	803:   "Lithium Ion Bank Battery",
	804:   "Lithium Ion String Battery",
	805:   "Lithium Ion Module Battery",
	806:   "Flow Battery",
	807:   "Flow String Battery",
	808:   "Flow Module Battery",
	809:   "Flow Stack Battery",
	65535: "Unknown",
}

// SolarEdge operating states (register St of the inverter model)
const (
	InverterStatusUndefined    = 0
	InverterStatusOff          = 1
	InverterStatusSleeping     = 2
	InverterStatusStarting     = 3
	InverterStatusProducing    = 4
	InverterStatusThrottled    = 5
	InverterStatusShuttingDown = 6
	InverterStatusFault        = 7
	InverterStatusMaintenance  = 8
)

var inverterStatusNames = []string{
	"Undefined",
	"Off",
	"Sleeping (Auto-Shutdown) - Night mode",
	"Grid Monitoring/wake-up",
	"Inverter is ON and producing power",
	"Production (Curtailed)",
	"Shutting down",
	"Fault",
	"Maintenance/setup",
}

// SunSpecDIDToString returns the device type name of a SunSpec model id.
func SunSpecDIDToString(did int64) (string, error) {
	if did >= 0 && did <= 0xFFFF {
		if name, ok := sunSpecDIDNames[uint16(did)]; ok {
			return name, nil
		}
	}
	return "", &DataError{Field: FieldSunSpecDID, Reason: "unknown device id " + strconv.FormatInt(did, 10)}
}

// InverterStatusToString returns the SolarEdge label of an operating state.
func InverterStatusToString(status int64) (string, error) {
	if status >= 0 && status < int64(len(inverterStatusNames)) {
		return inverterStatusNames[status], nil
	}
	return "", &DataError{Field: FieldStatus, Reason: "unknown status " + strconv.FormatInt(status, 10)}
}

// Field names of a RawReading
const (
	FieldManufacturer    = "c_manufacturer"
	FieldModel           = "c_model"
	FieldVersion         = "c_version"
	FieldSerialNumber    = "c_serialnumber"
	FieldDeviceAddress   = "c_deviceaddress"
	FieldSunSpecDID      = "c_sunspec_did"
	FieldSunSpecLength   = "c_sunspec_length"
	FieldStatus          = "status"
	FieldVendorStatus    = "vendor_status"
	FieldTemperature     = "temperature"
	FieldCurrent         = "current"
	FieldL1Current       = "l1_current"
	FieldL2Current       = "l2_current"
	FieldL3Current       = "l3_current"
	FieldL1Voltage       = "l1_voltage"
	FieldL2Voltage       = "l2_voltage"
	FieldL3Voltage       = "l3_voltage"
	FieldL1NVoltage      = "l1n_voltage"
	FieldL2NVoltage      = "l2n_voltage"
	FieldL3NVoltage      = "l3n_voltage"
	FieldFrequency       = "frequency"
	FieldPowerAC         = "power_ac"
	FieldPowerApparent   = "power_apparent"
	FieldPowerReactive   = "power_reactive"
	FieldPowerFactor     = "power_factor"
	FieldEnergyTotal     = "energy_total"
	FieldCurrentDC       = "current_dc"
	FieldVoltageDC       = "voltage_dc"
	FieldPowerDC         = "power_dc"
	FieldTemperatureSF   = "temperature_scale"
	FieldCurrentSF       = "current_scale"
	FieldVoltageSF       = "voltage_scale"
	FieldFrequencySF     = "frequency_scale"
	FieldPowerACSF       = "power_ac_scale"
	FieldPowerApparentSF = "power_apparent_scale"
	FieldPowerReactiveSF = "power_reactive_scale"
	FieldPowerFactorSF   = "power_factor_scale"
	FieldEnergyTotalSF   = "energy_total_scale"
	FieldCurrentDCSF     = "current_dc_scale"
	FieldVoltageDCSF     = "voltage_dc_scale"
	FieldPowerDCSF       = "power_dc_scale"
)

// RawReading holds the undecorated result of one read of the inverter.
// Integer registers and scale factors live in Values, strings in Strings.
type RawReading struct {
	Values  map[string]int64
	Strings map[string]string
}

func NewRawReading() RawReading {
	return RawReading{
		Values:  make(map[string]int64),
		Strings: make(map[string]string),
	}
}

func (r RawReading) Int(field string) (int64, error) {
	v, ok := r.Values[field]
	if !ok {
		return 0, &DataError{Field: field, Reason: "missing from reading"}
	}
	return v, nil
}

func (r RawReading) String(field string) (string, error) {
	v, ok := r.Strings[field]
	if !ok {
		return "", &DataError{Field: field, Reason: "missing from reading"}
	}
	return v, nil
}

func (r RawReading) Clone() RawReading {
	c := NewRawReading()
	for k, v := range r.Values {
		c.Values[k] = v
	}
	for k, v := range r.Strings {
		c.Strings[k] = v
	}
	return c
}

type registerKind int

const (
	regUint16 registerKind = iota
	regInt16
	regAcc32
	regScaleFactor
	regString
)

// registerDef locates a field relative to the first register (model id) of its block.
type registerDef struct {
	name   string
	offset uint16
	kind   registerKind
	size   uint16 // registers, strings only
}

func (d registerDef) length() uint16 {
	switch d.kind {
	case regAcc32:
		return 2
	case regString:
		return d.size
	default:
		return 1
	}
}

func (d registerDef) decode(regs []uint16, into RawReading) error {
	end := int(d.offset) + int(d.length())
	if end > len(regs) {
		return &DataError{Field: d.name, Reason: fmt.Sprintf("register offset %d beyond block of %d", d.offset, len(regs))}
	}
	switch d.kind {
	case regUint16:
		into.Values[d.name] = int64(regs[d.offset])
	case regInt16, regScaleFactor:
		into.Values[d.name] = int64(int16(regs[d.offset]))
	case regAcc32:
		into.Values[d.name] = int64(uint32(regs[d.offset])<<16 | uint32(regs[d.offset+1]))
	case regString:
		into.Strings[d.name] = decodeString(registersToBytes(regs[d.offset:end]))
	}
	return nil
}

const (
	commonBlockLength   = 67
	inverterBlockLength = 40
)

// common model (id 1)
var commonRegisters = []registerDef{
	{name: FieldManufacturer, offset: 2, kind: regString, size: 16},
	{name: FieldModel, offset: 18, kind: regString, size: 16},
	{name: FieldVersion, offset: 42, kind: regString, size: 8},
	{name: FieldSerialNumber, offset: 50, kind: regString, size: 16},
	{name: FieldDeviceAddress, offset: 66, kind: regUint16},
}

// inverter models (id 101, 102, 103)
var inverterRegisters = []registerDef{
	{name: FieldSunSpecDID, offset: 0, kind: regUint16},
	{name: FieldSunSpecLength, offset: 1, kind: regUint16},
	{name: FieldCurrent, offset: 2, kind: regUint16},
	{name: FieldL1Current, offset: 3, kind: regUint16},
	{name: FieldL2Current, offset: 4, kind: regUint16},
	{name: FieldL3Current, offset: 5, kind: regUint16},
	{name: FieldCurrentSF, offset: 6, kind: regScaleFactor},
	{name: FieldL1Voltage, offset: 7, kind: regUint16},
	{name: FieldL2Voltage, offset: 8, kind: regUint16},
	{name: FieldL3Voltage, offset: 9, kind: regUint16},
	{name: FieldL1NVoltage, offset: 10, kind: regUint16},
	{name: FieldL2NVoltage, offset: 11, kind: regUint16},
	{name: FieldL3NVoltage, offset: 12, kind: regUint16},
	{name: FieldVoltageSF, offset: 13, kind: regScaleFactor},
	{name: FieldPowerAC, offset: 14, kind: regInt16},
	{name: FieldPowerACSF, offset: 15, kind: regScaleFactor},
	{name: FieldFrequency, offset: 16, kind: regUint16},
	{name: FieldFrequencySF, offset: 17, kind: regScaleFactor},
	{name: FieldPowerApparent, offset: 18, kind: regInt16},
	{name: FieldPowerApparentSF, offset: 19, kind: regScaleFactor},
	{name: FieldPowerReactive, offset: 20, kind: regInt16},
	{name: FieldPowerReactiveSF, offset: 21, kind: regScaleFactor},
	{name: FieldPowerFactor, offset: 22, kind: regInt16},
	{name: FieldPowerFactorSF, offset: 23, kind: regScaleFactor},
	{name: FieldEnergyTotal, offset: 24, kind: regAcc32},
	{name: FieldEnergyTotalSF, offset: 26, kind: regScaleFactor},
	{name: FieldCurrentDC, offset: 27, kind: regUint16},
	{name: FieldCurrentDCSF, offset: 28, kind: regScaleFactor},
	{name: FieldVoltageDC, offset: 29, kind: regUint16},
	{name: FieldVoltageDCSF, offset: 30, kind: regScaleFactor},
	{name: FieldPowerDC, offset: 31, kind: regInt16},
	{name: FieldPowerDCSF, offset: 32, kind: regScaleFactor},
	// heat sink temperature; SolarEdge leaves cabinet/transformer/other unimplemented
	{name: FieldTemperature, offset: 34, kind: regInt16},
	{name: FieldTemperatureSF, offset: 37, kind: regScaleFactor},
	{name: FieldStatus, offset: 38, kind: regUint16},
	{name: FieldVendorStatus, offset: 39, kind: regUint16},
}

type InverterModbusReader interface {
	Open() error
	Close() error
	ReadAll() (RawReading, error)
}
