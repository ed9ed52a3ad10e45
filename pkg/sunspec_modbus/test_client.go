package sunspec_modbus

import "errors"

// CreateTestInverterModbusReader returns a reader that always serves
// TestThreePhaseReading.
func CreateTestInverterModbusReader() (InverterModbusReader, error) {
	return &TestInverterModbusReader{
		Readings: []RawReading{TestThreePhaseReading()},
	}, nil
}

// TestInverterModbusReader replays Readings in order and keeps returning the
// last one. ReadErr, when set, is returned once FailAfter reads have succeeded.
type TestInverterModbusReader struct {
	Readings  []RawReading
	OpenErr   error
	ReadErr   error
	FailAfter int

	Reads  int
	Opened bool
	Closed bool
}

func (inv *TestInverterModbusReader) Open() error {
	if inv.OpenErr != nil {
		return inv.OpenErr
	}
	inv.Opened = true
	return nil
}

func (inv *TestInverterModbusReader) Close() error {
	inv.Closed = true
	return nil
}

func (inv *TestInverterModbusReader) ReadAll() (RawReading, error) {
	if inv.ReadErr != nil && inv.Reads >= inv.FailAfter {
		return RawReading{}, inv.ReadErr
	}
	if len(inv.Readings) == 0 {
		return RawReading{}, connectionError("read inverter block", errors.New("no readings configured"))
	}
	i := min(inv.Reads, len(inv.Readings)-1)
	inv.Reads++
	return inv.Readings[i].Clone(), nil
}

// TestThreePhaseReading is a SolarEdge SE8K as seen around noon.
func TestThreePhaseReading() RawReading {
	return RawReading{
		Values: map[string]int64{
			FieldDeviceAddress:   1,
			FieldSunSpecDID:      SunSpecDIDThreePhaseInverter,
			FieldSunSpecLength:   50,
			FieldCurrent:         100,
			FieldL1Current:       40,
			FieldL2Current:       35,
			FieldL3Current:       25,
			FieldCurrentSF:       -2,
			FieldL1Voltage:       4000,
			FieldL2Voltage:       4010,
			FieldL3Voltage:       3990,
			FieldL1NVoltage:      2300,
			FieldL2NVoltage:      2310,
			FieldL3NVoltage:      2295,
			FieldVoltageSF:       -1,
			FieldPowerAC:         5230,
			FieldPowerACSF:       0,
			FieldFrequency:       5001,
			FieldFrequencySF:     -2,
			FieldPowerApparent:   5300,
			FieldPowerApparentSF: 0,
			FieldPowerReactive:   -120,
			FieldPowerReactiveSF: 0,
			FieldPowerFactor:     987,
			FieldPowerFactorSF:   -3,
			FieldEnergyTotal:     12345678,
			FieldEnergyTotalSF:   0,
			FieldCurrentDC:       1234,
			FieldCurrentDCSF:     -2,
			FieldVoltageDC:       7500,
			FieldVoltageDCSF:     -1,
			FieldPowerDC:         5400,
			FieldPowerDCSF:       0,
			FieldTemperature:     250,
			FieldTemperatureSF:   -1,
			FieldStatus:          InverterStatusProducing,
			FieldVendorStatus:    0,
		},
		Strings: map[string]string{
			FieldManufacturer: "SolarEdge",
			FieldModel:        "SE8K-RW0TEBEN4",
			FieldVersion:      "0004.0020.0036",
			FieldSerialNumber: "7E123456",
		},
	}
}

// TestSinglePhaseReading is a SolarEdge SE3680H. The three phase registers
// hold whatever the device leaves there and must not be exported.
func TestSinglePhaseReading() RawReading {
	r := TestThreePhaseReading()
	r.Values[FieldSunSpecDID] = SunSpecDIDSinglePhaseInverter
	r.Values[FieldL1Voltage] = 2300
	r.Values[FieldL2Voltage] = 0xFFFF
	r.Values[FieldL3Voltage] = 0xFFFF
	r.Values[FieldL2Current] = 0xFFFF
	r.Values[FieldL3Current] = 0xFFFF
	r.Values[FieldVoltageSF] = -1
	r.Strings[FieldModel] = "SE3680H-RWS00BNN4"
	return r
}
