// Package main provides the entry point for vmipsim.
// vmipsim is a cycle-accurate timing simulator for a VMIPS-style
// in-order vector processor.
//
// For the full CLI, use: go run ./cmd/vmipsim
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("vmipsim - VMIPS Vector Timing Simulator")
	fmt.Println("")
	fmt.Println("Usage: vmipsim --iodir <path>")
	fmt.Println("")
	fmt.Println("Options:")
	fmt.Println("  --iodir    Directory with Config.txt, Resolved_Code.txt and data images")
	fmt.Println("  -v         Verbose output")
	fmt.Println("  -trace     Log dispatch/issue/complete events")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/vmipsim' for the full CLI.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/vmipsim' instead.")
	}
}
