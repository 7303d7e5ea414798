package pipeline

import (
	"github.com/sarchlab/vmipsim/insts"
)

// HazardUnit performs the in-flight hazard scan: a combined RAW/WAR/WAW
// check collapsed to "no register shared with an older in-flight writer".
type HazardUnit struct{}

// NewHazardUnit creates a new hazard detection unit.
func NewHazardUnit() *HazardUnit {
	return &HazardUnit{}
}

// Conflicts reports whether any in-flight instruction older than inst
// (bound to a functional unit or waiting in a dispatch queue) has a
// destination register that inst reads or writes. Program order is
// decided by Seq, which makes the scan deterministic when several queues
// hold siblings.
func (h *HazardUnit) Conflicts(inst *insts.Instruction, units []*FuncUnit, queues []*DispatchQueue) bool {
	for _, fu := range units {
		if fu.Busy() && h.conflictsWith(inst, fu.Inst()) {
			return true
		}
	}

	for _, q := range queues {
		for _, earlier := range q.Snapshot() {
			if h.conflictsWith(inst, earlier) {
				return true
			}
		}
	}

	return false
}

// conflictsWith reports whether earlier precedes inst in program order and
// writes a register inst touches. The earlier instruction's destination is
// its first operand, when it has one.
func (h *HazardUnit) conflictsWith(inst, earlier *insts.Instruction) bool {
	if earlier.Seq >= inst.Seq {
		return false
	}

	dest, ok := earlier.Dest()
	if !ok {
		return false
	}

	for _, op := range inst.Operands {
		if op == dest {
			return true
		}
	}
	return false
}
