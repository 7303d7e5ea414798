// Package latency provides the instruction timing model: per-unit pipeline
// depths, the vector chime formula, and the memory bank-conflict model.
package latency

import (
	"fmt"

	"github.com/sarchlab/vmipsim/insts"
)

// Table provides instruction latency lookups.
type Table struct {
	config *Config
}

// NewTable creates a latency table with default parameters.
func NewTable() *Table {
	return &Table{config: DefaultConfig()}
}

// NewTableWithConfig creates a latency table with the given parameters.
func NewTableWithConfig(config *Config) *Table {
	return &Table{config: config}
}

// CyclesFor returns the execution latency in cycles for the given
// instruction under the current vector length vl.
//
// Vector ALU latency is pipelineDepth + VL/numLanes - 1 with floor
// division, as in the reference machine; VL is a multiple of numLanes in
// normal use, making this identical to the ceiling form.
func (t *Table) CyclesFor(inst *insts.Instruction, vl int) (int, error) {
	if vl < 1 || vl > insts.MaxVectorLength {
		return 0, fmt.Errorf("vector length %d out of range [1, %d]", vl, insts.MaxVectorLength)
	}

	switch inst.Unit {
	case insts.UnitVectorADD:
		return t.config.PipelineDepthAdd + vl/t.config.NumLanes - 1, nil
	case insts.UnitVectorMUL:
		return t.config.PipelineDepthMul + vl/t.config.NumLanes - 1, nil
	case insts.UnitVectorDIV:
		return t.config.PipelineDepthDiv + vl/t.config.NumLanes - 1, nil
	case insts.UnitVectorSHUF:
		return t.config.PipelineDepthShuffle + vl/t.config.NumLanes - 1, nil
	case insts.UnitVectorLS:
		return t.VectorAccessCycles(inst.Addrs), nil
	default:
		return 1, nil
	}
}

// Config returns the table's parameters.
func (t *Table) Config() *Config {
	return t.config
}
