package sunspec_modbus

import (
	"errors"
	"fmt"

	"github.com/simonvetter/modbus"
	"go.uber.org/zap"
)

const (
	SUNSPEC_BASE_ADDR        = 40000
	SUNSPEC_MARKER           = "SunS"
	SUNSPEC_WK_COMMON        = 1
	SUNSPEC_WK_INVERTERS_MIN = 101
	SUNSPEC_WK_INVERTERS_MAX = 103
	SUNSPEC_END_MODEL        = 0xFFFF

	// SolarEdge exposes a handful of models; anything past this is a broken map
	maxSurveyedModels = 20
)

// sunSpecModel is a model header: id and length, then length registers of data.
type sunSpecModel struct {
	id     uint16
	addr   uint16
	length uint16
}

// span is the number of registers the model occupies, header included.
func (m sunSpecModel) span() uint16 {
	return m.length + 2
}

func isInverterModel(id uint16) bool {
	return id >= SUNSPEC_WK_INVERTERS_MIN && id <= SUNSPEC_WK_INVERTERS_MAX
}

type inverterModbusBlocks struct {
	common   uint16
	inverter uint16
}

func (blk inverterModbusBlocks) complete() bool {
	return blk.common > 0 && blk.inverter > 0
}

// survey locates the common and inverter models by walking the model chain
// that follows the SunSpec marker.
func (inv *SolarEdgeInverterModbusReader) survey() error {
	marker, err := inv.readString(SUNSPEC_BASE_ADDR, uint16(len(SUNSPEC_MARKER)))
	if err != nil {
		return connectionError("read sunspec marker", err)
	}
	if marker != SUNSPEC_MARKER {
		return connectionError("survey", fmt.Errorf("no SunSpec marker at %d, found %q", SUNSPEC_BASE_ADDR, marker))
	}

	var blocks inverterModbusBlocks
	addr := uint16(SUNSPEC_BASE_ADDR + 2)
	for n := 0; n < maxSurveyedModels && !blocks.complete(); n++ {
		model, err := inv.readModelHeader(addr)
		if err != nil {
			return connectionError("survey block", err)
		}
		if model.id == SUNSPEC_END_MODEL {
			break
		}
		inv.logger.Debug("sunspec model", zap.Uint16("id", model.id), zap.Uint16("addr", model.addr),
			zap.Uint16("length", model.length))

		switch {
		case model.id == SUNSPEC_WK_COMMON && blocks.common == 0:
			if model.span() < commonBlockLength {
				return connectionError("survey", fmt.Errorf("common model too short: %d registers", model.length))
			}
			blocks.common = model.addr
		case isInverterModel(model.id) && blocks.inverter == 0:
			if model.span() < inverterBlockLength {
				return connectionError("survey", fmt.Errorf("inverter model %d too short: %d registers", model.id, model.length))
			}
			blocks.inverter = model.addr
		}
		addr += model.span()
	}

	if !blocks.complete() {
		return connectionError("survey", errors.New("could not find all required sunspec blocks (common, inverter)"))
	}
	inv.blocks = blocks
	return nil
}

func (reader ModbusClient) readModelHeader(addr uint16) (sunSpecModel, error) {
	header, err := reader.readRegisters(addr, 2, modbus.HOLDING_REGISTER)
	if err != nil {
		return sunSpecModel{}, err
	}
	return sunSpecModel{id: header[0], addr: addr, length: header[1]}, nil
}
