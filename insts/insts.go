// Package insts provides VMIPS instruction descriptors and decoding.
//
// Instructions arrive pre-tokenised: labels are already resolved and memory
// operands are materialised into literal address lists. Decoding classifies
// each token list into a descriptor carrying the target functional unit and
// the typed operand list. Execution latency is assigned by the timing model
// after decode, once the current vector length is known.
//
// Usage:
//
//	decoder := insts.NewDecoder()
//	inst, err := decoder.Decode([]string{"ADDVV", "VR1", "VR2", "VR3"})
//	fmt.Printf("Unit: %v, Operands: %v\n", inst.Unit, inst.Operands)
package insts

import (
	"strconv"
	"strings"
)

// Unit identifies a functional unit.
type Unit uint8

// Functional units. Each kind has exactly one single-issue instance.
const (
	UnitScalar Unit = iota
	UnitVectorLS
	UnitVectorADD
	UnitVectorMUL
	UnitVectorDIV
	UnitVectorSHUF
)

// String returns the unit name.
func (u Unit) String() string {
	switch u {
	case UnitScalar:
		return "ScalarU"
	case UnitVectorLS:
		return "VectorLS"
	case UnitVectorADD:
		return "VectorADD"
	case UnitVectorMUL:
		return "VectorMUL"
	case UnitVectorDIV:
		return "VectorDIV"
	case UnitVectorSHUF:
		return "VectorSHUF"
	}
	return "Unknown"
}

// RegClass identifies a register file.
type RegClass uint8

// Register files.
const (
	RegScalar RegClass = iota
	RegVector
)

// String returns the register file name.
func (c RegClass) String() string {
	if c == RegVector {
		return "vector"
	}
	return "scalar"
}

// Register file and vector geometry.
const (
	// NumScalarRegs is the number of scalar registers (SR0-SR7).
	NumScalarRegs = 8
	// NumVectorRegs is the number of vector registers (VR0-VR7).
	NumVectorRegs = 8
	// MaxVectorLength is the maximum (and reset) value of the vector
	// length register.
	MaxVectorLength = 64
)

// Operand names one register of one register file.
type Operand struct {
	// Index is the register number within its file.
	Index int
	// Class selects the scalar or vector register file.
	Class RegClass
}

// String renders the operand in assembly form (SR3, VR2).
func (o Operand) String() string {
	prefix := "SR"
	if o.Class == RegVector {
		prefix = "VR"
	}
	return prefix + strconv.Itoa(o.Index)
}

// Instruction is a decoded instruction descriptor. It is immutable once the
// pipeline has assigned Seq and Cycles.
type Instruction struct {
	// Word is the mnemonic.
	Word string

	// Seq is the program-order index assigned at decode time. It is the
	// tie-breaker for in-flight hazard checks across queues and units.
	Seq int

	// Unit is the functional unit this instruction binds to.
	Unit Unit

	// Cycles is the latency once bound to its unit.
	Cycles int

	// Operands is the ordered register operand list. When the instruction
	// has a destination it is Operands[0]; the rest are sources.
	Operands []Operand

	// Addrs is the literal address list of a vector load/store.
	Addrs []int

	// IsHalt marks the HALT instruction.
	IsHalt bool

	// SetsVL marks MTCL, which rewrites the vector length register at
	// decode time.
	SetsVL bool

	// VLValue is the vector length MTCL writes.
	VLValue int

	// Unknown marks a mnemonic outside the decode table, handled as a
	// ScalarU no-op of latency 1.
	Unknown bool
}

// Dest returns the destination operand, if the instruction has one.
func (i *Instruction) Dest() (Operand, bool) {
	if len(i.Operands) == 0 {
		return Operand{}, false
	}
	return i.Operands[0], true
}

// OperandTokens serialises the operand list back to assembly tokens:
// register operands as prefix+index, the address list as a parenthesised
// comma-separated literal.
func (i *Instruction) OperandTokens() []string {
	tokens := make([]string, 0, len(i.Operands)+1)
	for _, op := range i.Operands {
		tokens = append(tokens, op.String())
	}
	if len(i.Addrs) > 0 {
		parts := make([]string, len(i.Addrs))
		for n, a := range i.Addrs {
			parts[n] = strconv.Itoa(a)
		}
		tokens = append(tokens, "("+strings.Join(parts, ",")+")")
	}
	return tokens
}

// String renders the instruction in assembly form.
func (i *Instruction) String() string {
	if len(i.Operands) == 0 && len(i.Addrs) == 0 {
		return i.Word
	}
	return i.Word + " " + strings.Join(i.OperandTokens(), " ")
}
