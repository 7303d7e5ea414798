package benchmarks

import (
	"strconv"
	"strings"
)

// addrList renders a parenthesised address list of count addresses
// starting at base with the given stride.
func addrList(base, count, stride int) string {
	var b strings.Builder
	b.WriteByte('(')
	for i := 0; i < count; i++ {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(base + i*stride))
	}
	b.WriteByte(')')
	return b.String()
}

// GetMicrobenchmarks returns the standard kernel set. Every kernel is a
// resolved token stream with a terminal HALT.
func GetMicrobenchmarks() []Benchmark {
	return []Benchmark{
		{
			Name:        "vector_add",
			Description: "Single full-length vector add, no hazards",
			Program: Program{
				{"ADDVV", "VR1", "VR2", "VR3"},
				{"HALT"},
			},
		},
		{
			Name:        "structural_serial",
			Description: "Back-to-back adds with disjoint registers serialise on the add unit",
			Program: Program{
				{"ADDVV", "VR1", "VR2", "VR3"},
				{"ADDVV", "VR4", "VR5", "VR6"},
				{"HALT"},
			},
		},
		{
			Name:        "load_use_chain",
			Description: "Vector load feeding a dependent add (RAW through VR1)",
			Program: Program{
				{"LV", "VR1", addrList(0, 64, 1)},
				{"ADDVV", "VR2", "VR1", "VR1"},
				{"HALT"},
			},
		},
		{
			Name:        "bank_conflict_stride",
			Description: "Strided load hitting one bank repeatedly",
			Program: Program{
				{"LV", "VR1", addrList(0, 64, 16)},
				{"HALT"},
			},
		},
		{
			Name:        "queue_pressure",
			Description: "Load burst filling the vector data queue until fetch stalls",
			Program: Program{
				{"LV", "VR1", addrList(0, 64, 1)},
				{"LV", "VR2", addrList(64, 64, 1)},
				{"LV", "VR3", addrList(128, 64, 1)},
				{"LV", "VR4", addrList(192, 64, 1)},
				{"LV", "VR5", addrList(256, 64, 1)},
				{"LV", "VR6", addrList(320, 64, 1)},
				{"HALT"},
			},
		},
		{
			Name:        "short_vector_mix",
			Description: "MTCL-shortened vectors across the compute units",
			Program: Program{
				{"MTCL", "SR1", "4"},
				{"MULVV", "VR1", "VR2", "VR3"},
				{"DIVVV", "VR4", "VR5", "VR6"},
				{"PACKLO", "VR7", "VR1", "VR4"},
				{"HALT"},
			},
		},
		{
			Name:        "scalar_loop_body",
			Description: "Scalar arithmetic and branches, latency one each",
			Program: Program{
				{"ADD", "SR1", "SR2", "SR3"},
				{"SUB", "SR4", "SR1", "SR2"},
				{"SLL", "SR5", "SR4", "2"},
				{"BNE", "SR5", "SR0", "-3"},
				{"HALT"},
			},
		},
	}
}
