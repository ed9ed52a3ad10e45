package sunspec_modbus

import (
	"slices"
	"strings"
	"time"

	"github.com/simonvetter/modbus"
)

// ModbusClient wraps a modbus client so every request reports its duration.
type ModbusClient struct {
	client     *modbus.ModbusClient
	instrument []ModbusInstrument
}

type ModbusInstrument struct {
	RecordTime func(fnName string, readTime time.Duration)
}

func (c ModbusClient) readString(addr uint16, nBytes uint16) (string, error) {
	raw, err := c.readRawBytes(addr, nBytes, modbus.HOLDING_REGISTER)
	if err != nil {
		return "", err
	}
	return decodeString(raw), nil
}

func (c ModbusClient) readRegisters(addr uint16, quantity uint16, regType modbus.RegType) ([]uint16, error) {
	defer RecordTimer("ReadRegisters", c.instrument)()
	return c.client.ReadRegisters(addr, quantity, regType)
}

func (c ModbusClient) readRawBytes(addr uint16, nBytes uint16, regType modbus.RegType) ([]byte, error) {
	defer RecordTimer("ReadRawBytes", c.instrument)()
	return c.client.ReadRawBytes(addr, nBytes, regType)
}

// RecordTimer starts a timer and returns the func that reports it to every
// instrument.
func RecordTimer(name string, instrument []ModbusInstrument) func() {
	if len(instrument) == 0 {
		return func() {}
	}
	start := time.Now()
	return func() {
		elapsed := time.Since(start)
		for _, inst := range instrument {
			inst.RecordTime(name, elapsed)
		}
	}
}

// decodeString cuts a SunSpec string at the first NUL and drops space padding.
func decodeString(raw []byte) string {
	if end := slices.Index(raw, 0x00); end >= 0 {
		raw = raw[:end]
	}
	return strings.TrimRight(string(raw), " ")
}

// registersToBytes lays registers out big-endian, the way they travel on the wire.
func registersToBytes(regs []uint16) []byte {
	raw := make([]byte, 0, len(regs)*2)
	for _, r := range regs {
		raw = append(raw, byte(r>>8), byte(r))
	}
	return raw
}
