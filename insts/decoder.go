// Package insts provides VMIPS instruction descriptors and decoding.
package insts

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// scalarMnemonics lists the scalar-unit mnemonics whose register operands
// are decoded. Anything else outside the vector families is an unknown
// mnemonic and decodes to an operand-less ScalarU no-op.
var scalarMnemonics = map[string]bool{
	"ADD": true, "SUB": true, "AND": true, "OR": true, "XOR": true,
	"SLL": true, "SRL": true, "SRA": true,
	"BEQ": true, "BNE": true, "BGT": true, "BLT": true, "BGE": true, "BLE": true,
	"LS": true, "SS": true,
	"CVM": true, "POP": true, "MTCL": true, "MFCL": true,
}

// Decoder turns whitespace-tokenised instruction lines into descriptors.
// The decoder is stateless; Seq, Cycles, and the MTCL side effect are the
// pipeline's business.
type Decoder struct{}

// NewDecoder creates a new instruction decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Decode classifies a token list into an instruction descriptor.
// The first token is the mnemonic; classification follows the mnemonic
// family rules of the instruction set:
//
//   - HALT
//   - ADDVV/SUBVV and S..VV mask compares -> VectorADD, three vector operands
//   - ADDVS/SUBVS and S..VS              -> VectorADD, scalar second source
//   - MULVV/MULVS, DIVVV/DIVVS           -> VectorMUL / VectorDIV
//   - mnemonics containing PACK          -> VectorSHUF, three vector operands
//   - LV.. / SV..                        -> VectorLS, register + address list
//   - everything else                    -> ScalarU, latency one
func (d *Decoder) Decode(tokens []string) (*Instruction, error) {
	if len(tokens) == 0 {
		return nil, fmt.Errorf("empty instruction")
	}

	word := tokens[0]
	inst := &Instruction{Word: word}

	switch {
	case word == "HALT":
		inst.IsHalt = true
		inst.Unit = UnitScalar

	case word == "ADDVV" || word == "SUBVV" ||
		(strings.HasPrefix(word, "S") && strings.HasSuffix(word, "VV")):
		inst.Unit = UnitVectorADD
		if err := decodeVectorALU(inst, tokens, RegVector); err != nil {
			return nil, err
		}

	case word == "ADDVS" || word == "SUBVS" ||
		(strings.HasPrefix(word, "S") && strings.HasSuffix(word, "VS")):
		inst.Unit = UnitVectorADD
		if err := decodeVectorALU(inst, tokens, RegScalar); err != nil {
			return nil, err
		}

	case word == "MULVV":
		inst.Unit = UnitVectorMUL
		if err := decodeVectorALU(inst, tokens, RegVector); err != nil {
			return nil, err
		}

	case word == "MULVS":
		inst.Unit = UnitVectorMUL
		if err := decodeVectorALU(inst, tokens, RegScalar); err != nil {
			return nil, err
		}

	case word == "DIVVV":
		inst.Unit = UnitVectorDIV
		if err := decodeVectorALU(inst, tokens, RegVector); err != nil {
			return nil, err
		}

	case word == "DIVVS":
		inst.Unit = UnitVectorDIV
		if err := decodeVectorALU(inst, tokens, RegScalar); err != nil {
			return nil, err
		}

	case strings.Contains(word, "PACK"):
		inst.Unit = UnitVectorSHUF
		if err := decodeVectorALU(inst, tokens, RegVector); err != nil {
			return nil, err
		}

	case strings.HasPrefix(word, "LV") || strings.HasPrefix(word, "SV"):
		inst.Unit = UnitVectorLS
		if err := decodeVectorMem(inst, tokens); err != nil {
			return nil, err
		}

	case word == "MTCL":
		inst.Unit = UnitScalar
		if err := decodeMoveToVL(inst, tokens); err != nil {
			return nil, err
		}

	case scalarMnemonics[word]:
		inst.Unit = UnitScalar
		if err := decodeScalar(inst, tokens); err != nil {
			return nil, err
		}

	default:
		// Unknown mnemonic: a ScalarU no-op of latency one with no
		// operands. The pipeline counts these so the front end can warn.
		inst.Unit = UnitScalar
		inst.Unknown = true
	}

	return inst, nil
}

// decodeVectorALU decodes the three-operand vector ALU families. The
// destination and first source are vector registers; srcClass selects the
// file of the second source (VV vs VS forms).
func decodeVectorALU(inst *Instruction, tokens []string, srcClass RegClass) error {
	if len(tokens) != 4 {
		return fmt.Errorf("%s: want 3 operands, got %d", tokens[0], len(tokens)-1)
	}

	dst, err := parseReg(tokens[1], RegVector)
	if err != nil {
		return fmt.Errorf("%s: %w", tokens[0], err)
	}
	src1, err := parseReg(tokens[2], RegVector)
	if err != nil {
		return fmt.Errorf("%s: %w", tokens[0], err)
	}
	src2, err := parseReg(tokens[3], srcClass)
	if err != nil {
		return fmt.Errorf("%s: %w", tokens[0], err)
	}

	inst.Operands = []Operand{dst, src1, src2}
	return nil
}

// decodeVectorMem decodes vector loads and stores: one vector register and
// one pre-materialised address list.
func decodeVectorMem(inst *Instruction, tokens []string) error {
	if len(tokens) != 3 {
		return fmt.Errorf("%s: want register and address list, got %d operands",
			tokens[0], len(tokens)-1)
	}

	reg, err := parseReg(tokens[1], RegVector)
	if err != nil {
		return fmt.Errorf("%s: %w", tokens[0], err)
	}
	addrs, err := parseAddrList(tokens[2])
	if err != nil {
		return fmt.Errorf("%s: %w", tokens[0], err)
	}

	inst.Operands = []Operand{reg}
	inst.Addrs = addrs
	return nil
}

// decodeMoveToVL decodes MTCL. The second operand supplies the new vector
// length: a register token contributes its index, a numeric token its
// value. Expression forms are rejected.
func decodeMoveToVL(inst *Instruction, tokens []string) error {
	if len(tokens) != 3 {
		return fmt.Errorf("MTCL: want register and length, got %d operands", len(tokens)-1)
	}

	dst, err := parseReg(tokens[1], RegScalar)
	if err != nil {
		return fmt.Errorf("MTCL: %w", err)
	}

	var vl int
	if isRegToken(tokens[2]) {
		vl, err = regIndex(tokens[2])
	} else {
		vl, err = strconv.Atoi(tokens[2])
	}
	if err != nil {
		return fmt.Errorf("MTCL: bad length operand %q", tokens[2])
	}
	if vl < 1 || vl > MaxVectorLength {
		return fmt.Errorf("MTCL: vector length %d out of range [1, %d]", vl, MaxVectorLength)
	}

	inst.Operands = []Operand{dst}
	inst.SetsVL = true
	inst.VLValue = vl
	return nil
}

// decodeScalar decodes the scalar-unit mnemonics. Register tokens become
// scalar operands; immediate tokens carry no timing state and are dropped.
func decodeScalar(inst *Instruction, tokens []string) error {
	for _, tok := range tokens[1:] {
		if isRegToken(tok) {
			op, err := parseReg(tok, RegScalar)
			if err != nil {
				return fmt.Errorf("%s: %w", tokens[0], err)
			}
			inst.Operands = append(inst.Operands, op)
			continue
		}
		if _, err := strconv.Atoi(tok); err != nil {
			return fmt.Errorf("%s: malformed operand token %q", tokens[0], tok)
		}
	}
	return nil
}

// isRegToken reports whether tok has the register form: two letters
// followed by a signed integer index.
func isRegToken(tok string) bool {
	if len(tok) < 3 {
		return false
	}
	for _, r := range tok[:2] {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	_, err := strconv.Atoi(tok[2:])
	return err == nil
}

// regIndex strips the two-letter file prefix and parses the index.
func regIndex(tok string) (int, error) {
	if !isRegToken(tok) {
		return 0, fmt.Errorf("malformed register token %q", tok)
	}
	return strconv.Atoi(tok[2:])
}

// parseReg parses a register token into an operand of the given file and
// range-checks the index. Both files hold eight registers.
func parseReg(tok string, class RegClass) (Operand, error) {
	idx, err := regIndex(tok)
	if err != nil {
		return Operand{}, err
	}

	limit := NumScalarRegs
	if class == RegVector {
		limit = NumVectorRegs
	}
	if idx < 0 || idx >= limit {
		return Operand{}, fmt.Errorf("register index %d out of range for %v file", idx, class)
	}

	return Operand{Index: idx, Class: class}, nil
}

// parseAddrList parses an address list literal: comma-separated signed
// integers in parentheses, no spaces.
func parseAddrList(tok string) ([]int, error) {
	if !strings.HasPrefix(tok, "(") || !strings.HasSuffix(tok, ")") {
		return nil, fmt.Errorf("malformed address list %q", tok)
	}

	body := tok[1 : len(tok)-1]
	if body == "" {
		return nil, fmt.Errorf("empty address list")
	}

	parts := strings.Split(body, ",")
	addrs := make([]int, len(parts))
	for i, p := range parts {
		a, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("malformed address %q in list", p)
		}
		if a < 0 {
			return nil, fmt.Errorf("memory address %d out of range", a)
		}
		addrs[i] = a
	}
	return addrs, nil
}
