package sunspec_modbus

import (
	"fmt"
	"time"

	"github.com/simonvetter/modbus"
	"go.uber.org/zap"
)

// SolarEdgeInverterModbusReader reads the SunSpec common and inverter models
// of a SolarEdge inverter over Modbus TCP.
type SolarEdgeInverterModbusReader struct {
	ModbusClient

	logger *zap.Logger
	blocks inverterModbusBlocks
}

func (inv *SolarEdgeInverterModbusReader) Open() error {
	if err := inv.client.Open(); err != nil {
		return connectionError("open", err)
	}
	if err := inv.survey(); err != nil {
		inv.client.Close()
		return err
	}
	inv.logger.Debug("sunspec blocks found",
		zap.Uint16("common", inv.blocks.common), zap.Uint16("inverter", inv.blocks.inverter))
	return nil
}

func (inv *SolarEdgeInverterModbusReader) Close() error {
	return inv.client.Close()
}

// ReadAll reads every known register of the common and inverter models.
// Each model is fetched in a single request so that values and scale
// factors always come from the same snapshot.
func (inv *SolarEdgeInverterModbusReader) ReadAll() (RawReading, error) {
	reading := NewRawReading()

	common, err := inv.readRegisters(inv.blocks.common, commonBlockLength, modbus.HOLDING_REGISTER)
	if err != nil {
		return RawReading{}, connectionError("read common block", err)
	}
	if err := decodeBlock(commonRegisters, common, reading); err != nil {
		return RawReading{}, err
	}

	inverter, err := inv.readRegisters(inv.blocks.inverter, inverterBlockLength, modbus.HOLDING_REGISTER)
	if err != nil {
		return RawReading{}, connectionError("read inverter block", err)
	}
	if err := decodeBlock(inverterRegisters, inverter, reading); err != nil {
		return RawReading{}, err
	}

	return reading, nil
}

func decodeBlock(defs []registerDef, regs []uint16, into RawReading) error {
	for _, def := range defs {
		if err := def.decode(regs, into); err != nil {
			return err
		}
	}
	return nil
}

func traceLoggerInstrumentation(logger *zap.Logger) ModbusInstrument {
	return ModbusInstrument{
		RecordTime: func(fnName string, readTime time.Duration) {
			logger.Debug("modbus read", zap.String("fn", fnName), zap.Duration("took", readTime))
		},
	}
}

// CreateSolarEdgeInverterModbusReader prepares a reader for the inverter at
// ip:port. No connection is made until Open.
func CreateSolarEdgeInverterModbusReader(ip string, port uint, unitId uint8, timeout time.Duration,
	logger *zap.Logger, instrumentation *ModbusInstrument) (InverterModbusReader, error) {
	client, err := modbus.NewClient(&modbus.ClientConfiguration{
		URL:     fmt.Sprintf("tcp://%s:%d", ip, port),
		Timeout: timeout,
	})
	if err != nil {
		return nil, err
	}
	if err := client.SetUnitId(unitId); err != nil {
		return nil, err
	}

	readerLogger := logger.With(zap.String("target", "inverter"), zap.Uint8("unit", unitId))
	inst := []ModbusInstrument{traceLoggerInstrumentation(readerLogger)}
	if instrumentation != nil {
		inst = append(inst, *instrumentation)
	}

	return &SolarEdgeInverterModbusReader{
		ModbusClient: ModbusClient{
			client:     client,
			instrument: inst,
		},
		logger: readerLogger,
	}, nil
}
