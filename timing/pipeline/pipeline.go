package pipeline

import (
	"fmt"

	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/vmipsim/insts"
	"github.com/sarchlab/vmipsim/timing/latency"
)

// InstSource supplies pre-tokenised instruction lines by program index.
type InstSource interface {
	Fetch(idx int) ([]string, bool)
}

// Hook positions invoked by the pipeline. The hook item is the
// *insts.Instruction involved.
var (
	// HookPosDispatch fires when a decoded instruction enters its
	// dispatch queue.
	HookPosDispatch = &sim.HookPos{Name: "PipelineDispatch"}
	// HookPosIssue fires when an instruction binds to its functional unit.
	HookPosIssue = &sim.HookPos{Name: "PipelineIssue"}
	// HookPosComplete fires when a functional unit releases an
	// instruction.
	HookPosComplete = &sim.HookPos{Name: "PipelineComplete"}
)

// Stats holds pipeline performance counters.
type Stats struct {
	// Cycles is the total number of simulated cycles.
	Cycles uint64
	// Instructions is the number of instructions dispatched.
	Instructions uint64
	// Completed is the number of instructions that finished executing.
	Completed uint64
	// DispatchStalls counts ticks a decoded instruction could not enter
	// its full dispatch queue.
	DispatchStalls uint64
	// IssueStalls counts queue-head issue attempts rejected by a busy
	// unit or an in-flight hazard.
	IssueStalls uint64
	// UnknownInsts counts dispatched instructions with mnemonics outside
	// the decode table.
	UnknownInsts uint64
}

// Pipeline is the cycle-driven engine: three dispatch queues feeding six
// single-issue functional units, with RAW/WAW hazards enforced by an
// in-flight scan over queues and units.
//
// Each Tick evaluates the sub-stages in a fixed order that keeps
// producer-before-consumer semantics within one cycle: execute first (a
// unit finishing this tick can be re-bound this tick), then halt test,
// decode+dispatch, issue, fetch.
type Pipeline struct {
	sim.HookableBase

	src     InstSource
	decoder *insts.Decoder
	table   *latency.Table
	hazard  *HazardUnit

	vdq    *DispatchQueue
	vcq    *DispatchQueue
	scq    *DispatchQueue
	queues []*DispatchQueue

	units   []*FuncUnit
	unitByK map[insts.Unit]*FuncUnit

	srfBoard *Scoreboard
	vrfBoard *Scoreboard

	// Vector length register, reset to the maximum vector length and
	// rewritten by MTCL at decode time.
	vl int

	pc         int
	seq        int
	pending    []string
	dispatchOK bool

	fetchHalted  bool
	decodeHalted bool
	execHalted   bool

	stats Stats
	err   error
}

// NewPipeline creates a pipeline reading instructions from src and timing
// them with table. Queue capacities come from the table's configuration.
func NewPipeline(src InstSource, table *latency.Table) *Pipeline {
	cfg := table.Config()

	p := &Pipeline{
		src:        src,
		decoder:    insts.NewDecoder(),
		table:      table,
		hazard:     NewHazardUnit(),
		vdq:        NewDispatchQueue("VDQ", cfg.DataQueueDepth),
		vcq:        NewDispatchQueue("VCQ", cfg.ComputeQueueDepth),
		scq:        NewDispatchQueue("SCQ", cfg.ComputeQueueDepth),
		srfBoard:   NewScoreboard("SRF", insts.NumScalarRegs),
		vrfBoard:   NewScoreboard("VRF", insts.NumVectorRegs),
		vl:         insts.MaxVectorLength,
		dispatchOK: true,
	}
	p.queues = []*DispatchQueue{p.vdq, p.vcq, p.scq}

	kinds := []insts.Unit{
		insts.UnitVectorLS,
		insts.UnitVectorADD,
		insts.UnitVectorMUL,
		insts.UnitVectorDIV,
		insts.UnitVectorSHUF,
		insts.UnitScalar,
	}
	p.unitByK = make(map[insts.Unit]*FuncUnit, len(kinds))
	for _, k := range kinds {
		fu := NewFuncUnit(k)
		p.units = append(p.units, fu)
		p.unitByK[k] = fu
	}

	return p
}

// VL returns the current vector length.
func (p *Pipeline) VL() int {
	return p.vl
}

// Halted reports whether the pipeline has drained to completion.
func (p *Pipeline) Halted() bool {
	return p.execHalted
}

// Err returns the first fatal defect encountered, if any.
func (p *Pipeline) Err() error {
	return p.err
}

// TotalCycles returns the simulated cycle count so far.
func (p *Pipeline) TotalCycles() uint64 {
	return p.stats.Cycles
}

// Stats returns the pipeline performance counters.
func (p *Pipeline) Stats() Stats {
	return p.stats
}

// Run ticks the pipeline until it halts or hits a defect.
func (p *Pipeline) Run() error {
	for !p.execHalted && p.err == nil {
		p.Tick()
	}
	return p.err
}

// Tick advances the pipeline by one cycle.
func (p *Pipeline) Tick() {
	if p.execHalted || p.err != nil {
		return
	}

	p.stats.Cycles++

	p.doExecute()

	// Halt once decode has observed HALT and everything in flight has
	// drained. The halting tick is counted.
	if p.decodeHalted && p.drained() {
		p.execHalted = true
		return
	}

	p.doDecodeDispatch()
	if p.err != nil {
		return
	}
	p.doIssue()
	if p.err != nil {
		return
	}
	p.doFetch()
}

// doExecute ticks every busy functional unit and, for units completing
// this cycle, clears the scoreboard bits held by the released descriptor.
func (p *Pipeline) doExecute() {
	for _, fu := range p.units {
		inst, done := fu.Tick()
		if !done {
			continue
		}

		for _, op := range inst.Operands {
			if err := p.board(op.Class).Clear(op.Index); err != nil {
				p.fail(err)
				return
			}
		}

		p.stats.Completed++
		p.InvokeHook(sim.HookCtx{Domain: p, Pos: HookPosComplete, Item: inst})
	}
}

// doDecodeDispatch decodes the pending token list and pushes the
// descriptor into the queue selected by its unit. A full queue leaves the
// token list pending; fetch will not advance this tick.
func (p *Pipeline) doDecodeDispatch() {
	if p.decodeHalted || p.pending == nil {
		return
	}

	inst, err := p.decoder.Decode(p.pending)
	if err != nil {
		p.fail(fmt.Errorf("decode at program index %d: %w", p.seq, err))
		return
	}
	inst.Seq = p.seq

	// MTCL rewrites the vector length register at decode time; every
	// later vector decode uses the new length.
	if inst.SetsVL {
		p.vl = inst.VLValue
	}

	if inst.IsHalt {
		p.decodeHalted = true
		p.pending = nil
		return
	}

	cycles, err := p.table.CyclesFor(inst, p.vl)
	if err != nil {
		p.fail(fmt.Errorf("latency for %q: %w", inst.Word, err))
		return
	}
	inst.Cycles = cycles

	if !p.queueFor(inst.Unit).Push(inst) {
		p.dispatchOK = false
		p.stats.DispatchStalls++
		return
	}

	p.dispatchOK = true
	p.pending = nil
	p.seq++
	p.stats.Instructions++
	if inst.Unknown {
		p.stats.UnknownInsts++
	}
	p.InvokeHook(sim.HookCtx{Domain: p, Pos: HookPosDispatch, Item: inst})
}

// doIssue examines each queue head in VDQ, VCQ, SCQ order and binds it to
// its functional unit when the unit is free and no older in-flight
// instruction holds a conflicting register. The head stays in place
// otherwise, preserving queue order.
func (p *Pipeline) doIssue() {
	for _, q := range p.queues {
		head := q.Peek()
		if head == nil {
			continue
		}

		fu := p.unitByK[head.Unit]
		if fu.Busy() || p.hazard.Conflicts(head, p.units, p.queues) {
			p.stats.IssueStalls++
			continue
		}

		q.Pop()
		if err := fu.Bind(head); err != nil {
			p.fail(err)
			return
		}

		for _, op := range head.Operands {
			if err := p.board(op.Class).SetBusy(op.Index); err != nil {
				p.fail(err)
				return
			}
		}

		p.InvokeHook(sim.HookCtx{Domain: p, Pos: HookPosIssue, Item: head})
	}
}

// doFetch reads the next token list from instruction memory. When the
// dispatch attempt of this tick failed, the pending token list stays
// pending and the program counter does not advance.
func (p *Pipeline) doFetch() {
	if p.fetchHalted || !p.dispatchOK {
		return
	}

	tokens, ok := p.src.Fetch(p.pc)
	if !ok {
		p.fail(fmt.Errorf("instruction fetch past end of program at index %d", p.pc))
		return
	}

	p.pending = tokens
	if tokens[0] == "HALT" {
		p.fetchHalted = true
	}
	p.pc++
}

// drained reports whether every queue is empty and every unit is free.
func (p *Pipeline) drained() bool {
	for _, q := range p.queues {
		if q.Len() > 0 {
			return false
		}
	}
	for _, fu := range p.units {
		if fu.Busy() {
			return false
		}
	}
	return true
}

// board selects the scoreboard for a register file.
func (p *Pipeline) board(class insts.RegClass) *Scoreboard {
	if class == insts.RegVector {
		return p.vrfBoard
	}
	return p.srfBoard
}

// queueFor selects the dispatch queue for a functional unit: VectorLS
// feeds the vector data queue, ScalarU the scalar queue, and every other
// vector unit the vector compute queue.
func (p *Pipeline) queueFor(unit insts.Unit) *DispatchQueue {
	switch unit {
	case insts.UnitVectorLS:
		return p.vdq
	case insts.UnitScalar:
		return p.scq
	default:
		return p.vcq
	}
}

// fail records the first fatal defect and stops the simulation.
func (p *Pipeline) fail(err error) {
	if p.err == nil {
		p.err = err
	}
}

// UnitState describes one functional unit in a Snapshot.
type UnitState struct {
	Name      string
	Busy      bool
	Remaining int
	Inst      string
}

// Snapshot captures queue, unit, and scoreboard state for tracing and
// invariant checks.
type Snapshot struct {
	Cycle      uint64
	Queues     map[string][]string
	Units      []UnitState
	ScalarBusy []bool
	VectorBusy []bool
}

// Snapshot returns the current pipeline state.
func (p *Pipeline) Snapshot() Snapshot {
	s := Snapshot{
		Cycle:      p.stats.Cycles,
		Queues:     make(map[string][]string, len(p.queues)),
		ScalarBusy: p.srfBoard.Statuses(),
		VectorBusy: p.vrfBoard.Statuses(),
	}

	for _, q := range p.queues {
		words := []string{}
		for _, inst := range q.Snapshot() {
			words = append(words, inst.String())
		}
		s.Queues[q.Name()] = words
	}

	for _, fu := range p.units {
		state := UnitState{
			Name:      fu.Name(),
			Busy:      fu.Busy(),
			Remaining: fu.Remaining(),
		}
		if fu.Busy() {
			state.Inst = fu.Inst().String()
		}
		s.Units = append(s.Units, state)
	}

	return s
}

// InFlight returns the number of instructions queued or executing.
func (p *Pipeline) InFlight() int {
	n := 0
	for _, q := range p.queues {
		n += q.Len()
	}
	for _, fu := range p.units {
		if fu.Busy() {
			n++
		}
	}
	return n
}
