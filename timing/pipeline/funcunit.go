package pipeline

import (
	"fmt"

	"github.com/sarchlab/vmipsim/insts"
)

// FuncUnit is a single-issue functional unit: a busy flag, a
// remaining-cycle counter, and the bound instruction descriptor. The unit
// is busy exactly while it holds a descriptor with at least one cycle
// remaining.
type FuncUnit struct {
	unit      insts.Unit
	inst      *insts.Instruction
	remaining int
}

// NewFuncUnit creates a free functional unit of the given kind.
func NewFuncUnit(unit insts.Unit) *FuncUnit {
	return &FuncUnit{unit: unit}
}

// Unit returns the unit kind.
func (f *FuncUnit) Unit() insts.Unit {
	return f.unit
}

// Name returns the unit kind's name.
func (f *FuncUnit) Name() string {
	return f.unit.String()
}

// Busy reports whether the unit holds an instruction.
func (f *FuncUnit) Busy() bool {
	return f.inst != nil
}

// Inst returns the bound instruction, or nil when free.
func (f *FuncUnit) Inst() *insts.Instruction {
	return f.inst
}

// Remaining returns the remaining-cycle counter.
func (f *FuncUnit) Remaining() int {
	return f.remaining
}

// Bind transitions the unit free -> busy for inst.Cycles cycles. Binding
// a busy unit, or an instruction without a positive latency, is a defect.
func (f *FuncUnit) Bind(inst *insts.Instruction) error {
	if f.inst != nil {
		return fmt.Errorf("%s: bind while busy with %q", f.Name(), f.inst.Word)
	}
	if inst.Cycles < 1 {
		return fmt.Errorf("%s: bind %q with non-positive latency %d", f.Name(), inst.Word, inst.Cycles)
	}

	f.inst = inst
	f.remaining = inst.Cycles
	return nil
}

// Tick decrements the remaining-cycle counter of a busy unit. On reaching
// zero the unit transitions busy -> free and returns the released
// descriptor so the driver can clear its scoreboard bits.
func (f *FuncUnit) Tick() (*insts.Instruction, bool) {
	if f.inst == nil {
		return nil, false
	}

	f.remaining--
	if f.remaining > 0 {
		return nil, false
	}

	inst := f.inst
	f.inst = nil
	f.remaining = 0
	return inst, true
}
