// Package core provides the cycle-accurate vector core model. It wraps
// the pipeline implementation to provide a high-level interface.
package core

import (
	"github.com/sarchlab/vmipsim/timing/latency"
	"github.com/sarchlab/vmipsim/timing/pipeline"
)

// Stats holds performance statistics for the core.
type Stats struct {
	// Cycles is the total number of cycles simulated.
	Cycles uint64
	// Instructions is the number of instructions dispatched.
	Instructions uint64
	// DispatchStalls is the number of back-pressure stall cycles.
	DispatchStalls uint64
	// IssueStalls is the number of rejected issue attempts.
	IssueStalls uint64
	// UnknownInsts is the number of unrecognised mnemonics executed as
	// scalar no-ops.
	UnknownInsts uint64
}

// Core represents the cycle-accurate vector core model.
type Core struct {
	// Pipeline is the underlying cycle-driven engine.
	Pipeline *pipeline.Pipeline
}

// NewCore creates a Core reading instructions from src and timing them
// with table.
func NewCore(src pipeline.InstSource, table *latency.Table) *Core {
	return &Core{
		Pipeline: pipeline.NewPipeline(src, table),
	}
}

// Tick executes one cycle.
func (c *Core) Tick() {
	c.Pipeline.Tick()
}

// Halted reports whether the core has drained to completion.
func (c *Core) Halted() bool {
	return c.Pipeline.Halted()
}

// Run executes the core until it halts. It returns the total cycle count.
func (c *Core) Run() (uint64, error) {
	if err := c.Pipeline.Run(); err != nil {
		return c.Pipeline.TotalCycles(), err
	}
	return c.Pipeline.TotalCycles(), nil
}

// Stats returns performance statistics for the core.
func (c *Core) Stats() Stats {
	s := c.Pipeline.Stats()
	return Stats{
		Cycles:         s.Cycles,
		Instructions:   s.Instructions,
		DispatchStalls: s.DispatchStalls,
		IssueStalls:    s.IssueStalls,
		UnknownInsts:   s.UnknownInsts,
	}
}
