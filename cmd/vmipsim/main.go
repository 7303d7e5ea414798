// Command vmipsim runs the VMIPS vector timing simulator.
//
// Usage:
//
//	go run ./cmd/vmipsim --iodir <path> [flags]
//
// The I/O directory must hold Config.txt and Resolved_Code.txt, and may
// hold SDMEM.txt and VDMEM.txt data images. The simulator reports the
// cycle count needed to execute the program on the configured
// microarchitecture; it computes no functional results.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/sarchlab/akita/v4/sim"
	log "github.com/sirupsen/logrus"

	"github.com/sarchlab/vmipsim/insts"
	"github.com/sarchlab/vmipsim/loader"
	"github.com/sarchlab/vmipsim/timing/core"
	"github.com/sarchlab/vmipsim/timing/latency"
)

var (
	iodir   = flag.String("iodir", "", "Path to the folder containing the input files")
	verbose = flag.Bool("v", false, "Verbose output")
	trace   = flag.Bool("trace", false, "Log dispatch/issue/complete events per instruction")
)

// traceHook logs pipeline hook events.
type traceHook struct {
	logger *log.Logger
}

// Func implements sim.Hook.
func (h traceHook) Func(ctx sim.HookCtx) {
	inst, ok := ctx.Item.(*insts.Instruction)
	if !ok {
		return
	}
	h.logger.WithFields(log.Fields{
		"pos":  ctx.Pos.Name,
		"seq":  inst.Seq,
		"unit": inst.Unit.String(),
	}).Info(inst.String())
}

func main() {
	flag.Parse()

	logger := log.New()
	logger.SetLevel(log.WarnLevel)
	if *verbose || *trace {
		logger.SetLevel(log.InfoLevel)
	}
	log.SetLevel(logger.GetLevel())

	if *iodir == "" {
		fmt.Fprintf(os.Stderr, "Usage: vmipsim --iodir <path> [flags]\n\nFlags:\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	dir, err := filepath.Abs(*iodir)
	if err != nil {
		logger.WithError(err).Fatal("bad I/O directory")
	}
	logger.WithField("iodir", dir).Info("reading input directory")

	params, err := loader.LoadParams(filepath.Join(dir, loader.ConfigFileName))
	if err != nil {
		logger.WithError(err).Fatal("failed to load configuration")
	}

	config, err := latency.FromParams(params)
	if err != nil {
		logger.WithError(err).Fatal("bad configuration")
	}
	if *verbose {
		printConfig(params)
	}

	imem, err := loader.LoadIMem(filepath.Join(dir, loader.IMemFileName))
	if err != nil {
		logger.WithError(err).Fatal("failed to load program")
	}

	// The timing core never touches data memory contents; the images are
	// loaded so malformed input directories fail up front.
	if _, err := loader.LoadDMem("SDMEM", dir, loader.SDMemAddrBits); err != nil {
		logger.WithError(err).Fatal("failed to load scalar data memory")
	}
	if _, err := loader.LoadDMem("VDMEM", dir, loader.VDMemAddrBits); err != nil {
		logger.WithError(err).Fatal("failed to load vector data memory")
	}

	c := core.NewCore(imem, latency.NewTableWithConfig(config))
	if *trace {
		c.Pipeline.AcceptHook(traceHook{logger: logger})
	}

	cycles, err := c.Run()
	if err != nil {
		logger.WithError(err).Fatal("simulation failed")
	}

	if *verbose {
		stats := c.Stats()
		logger.WithFields(log.Fields{
			"instructions":   stats.Instructions,
			"dispatchStalls": stats.DispatchStalls,
			"issueStalls":    stats.IssueStalls,
		}).Info("simulation finished")
	}
	if n := c.Stats().UnknownInsts; n > 0 {
		logger.Warnf("%d unknown mnemonics executed as scalar no-ops", n)
	}

	fmt.Printf("Total Cycles: %d\n", cycles)
}

// printConfig lists the loaded parameters in key order as an aligned
// plain table.
func printConfig(params map[string]int) {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Println("VMIPS Configuration:")
	for _, k := range keys {
		fmt.Printf("  %-22s %d\n", k, params[k])
	}
	fmt.Println("")
}
