// Package benchmarks provides timing microbenchmark infrastructure for
// the vector core: canned kernels with known hazard and bank-conflict
// structure, run through the timing model to report cycle counts.
package benchmarks

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sarchlab/vmipsim/timing/core"
	"github.com/sarchlab/vmipsim/timing/latency"
)

// Program is an in-memory instruction stream: one token list per line.
type Program [][]string

// Fetch implements pipeline.InstSource.
func (p Program) Fetch(idx int) ([]string, bool) {
	if idx < 0 || idx >= len(p) {
		return nil, false
	}
	return p[idx], true
}

// Benchmark defines a single benchmark kernel.
type Benchmark struct {
	// Name identifies the benchmark.
	Name string

	// Description explains what the benchmark measures.
	Description string

	// Program is the resolved token stream, terminated by HALT.
	Program Program
}

// Result holds the timing results for a single benchmark run.
type Result struct {
	// Name identifies the benchmark.
	Name string `json:"name"`

	// Description explains what the benchmark measures.
	Description string `json:"description"`

	// Cycles is the total cycle count from the timing simulator.
	Cycles uint64 `json:"cycles"`

	// Instructions is the number of dispatched instructions.
	Instructions uint64 `json:"instructions"`

	// CPI is cycles per instruction.
	CPI float64 `json:"cpi"`

	// DispatchStalls is the number of back-pressure stall cycles.
	DispatchStalls uint64 `json:"dispatch_stalls"`

	// IssueStalls is the number of rejected issue attempts.
	IssueStalls uint64 `json:"issue_stalls"`

	// WallTime is the host time taken to run the simulation.
	WallTime time.Duration `json:"wall_time_ns"`
}

// HarnessConfig configures the benchmark harness.
type HarnessConfig struct {
	// Config supplies the microarchitecture parameters.
	Config *latency.Config

	// Output receives the result report.
	Output io.Writer
}

// DefaultConfig returns a harness configuration with default parameters,
// writing to standard output.
func DefaultConfig() HarnessConfig {
	return HarnessConfig{
		Config: latency.DefaultConfig(),
		Output: os.Stdout,
	}
}

// Harness runs a set of benchmarks against one configuration.
type Harness struct {
	config     HarnessConfig
	benchmarks []Benchmark
}

// NewHarness creates a benchmark harness.
func NewHarness(config HarnessConfig) *Harness {
	if config.Config == nil {
		config.Config = latency.DefaultConfig()
	}
	if config.Output == nil {
		config.Output = os.Stdout
	}
	return &Harness{config: config}
}

// AddBenchmarks appends benchmarks to the run set.
func (h *Harness) AddBenchmarks(benchmarks []Benchmark) {
	h.benchmarks = append(h.benchmarks, benchmarks...)
}

// Run executes one benchmark and returns its result.
func (h *Harness) Run(b Benchmark) (Result, error) {
	c := core.NewCore(b.Program, latency.NewTableWithConfig(h.config.Config))

	start := time.Now()
	cycles, err := c.Run()
	if err != nil {
		return Result{}, fmt.Errorf("benchmark %s: %w", b.Name, err)
	}

	stats := c.Stats()
	result := Result{
		Name:           b.Name,
		Description:    b.Description,
		Cycles:         cycles,
		Instructions:   stats.Instructions,
		DispatchStalls: stats.DispatchStalls,
		IssueStalls:    stats.IssueStalls,
		WallTime:       time.Since(start),
	}
	if stats.Instructions > 0 {
		result.CPI = float64(cycles) / float64(stats.Instructions)
	}
	return result, nil
}

// RunAll executes every benchmark and returns the results.
func (h *Harness) RunAll() ([]Result, error) {
	results := make([]Result, 0, len(h.benchmarks))
	for _, b := range h.benchmarks {
		r, err := h.Run(b)
		if err != nil {
			return results, err
		}
		results = append(results, r)
	}
	return results, nil
}

// PrintResults writes a human-readable report.
func (h *Harness) PrintResults(results []Result) {
	w := h.config.Output
	fmt.Fprintf(w, "%-24s %10s %8s %8s %10s %10s\n",
		"Benchmark", "Cycles", "Insts", "CPI", "DispStall", "IssStall")
	for _, r := range results {
		fmt.Fprintf(w, "%-24s %10d %8d %8.2f %10d %10d\n",
			r.Name, r.Cycles, r.Instructions, r.CPI, r.DispatchStalls, r.IssueStalls)
	}
}

// PrintCSV writes results as CSV for spreadsheet comparison.
func (h *Harness) PrintCSV(results []Result) {
	w := h.config.Output
	fmt.Fprintln(w, "name,cycles,instructions,cpi,dispatch_stalls,issue_stalls")
	for _, r := range results {
		fmt.Fprintf(w, "%s,%d,%d,%.4f,%d,%d\n",
			r.Name, r.Cycles, r.Instructions, r.CPI, r.DispatchStalls, r.IssueStalls)
	}
}

// PrintJSON writes results as indented JSON.
func (h *Harness) PrintJSON(results []Result) error {
	enc := json.NewEncoder(h.config.Output)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}
