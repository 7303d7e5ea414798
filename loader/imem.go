package loader

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
)

// IMemFileName is the resolved assembly file read from the I/O directory.
const IMemFileName = "Resolved_Code.txt"

// IMemSize is the instruction memory capacity.
const IMemSize = 1 << 16

// IMem is the instruction memory: an ordered list of pre-tokenised
// instruction lines.
type IMem struct {
	lines [][]string
}

// LoadIMem reads the resolved assembly program. One instruction per line,
// whitespace-separated tokens. The program must contain a HALT.
func LoadIMem(path string) (*IMem, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open instruction file: %w", err)
	}
	defer f.Close()

	im := &IMem{}
	sawHalt := false
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := stripComment(scanner.Text())
		if line == "" {
			continue
		}

		tokens := strings.Fields(line)
		im.lines = append(im.lines, tokens)
		if tokens[0] == "HALT" {
			sawHalt = true
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read instruction file: %w", err)
	}

	if len(im.lines) > IMemSize {
		return nil, fmt.Errorf("program has %d instructions, instruction memory holds %d",
			len(im.lines), IMemSize)
	}
	if !sawHalt {
		return nil, fmt.Errorf("program has no HALT instruction")
	}

	log.WithFields(log.Fields{"file": path, "instructions": len(im.lines)}).
		Info("instructions loaded")

	return im, nil
}

// Fetch returns the token list at program index idx.
func (m *IMem) Fetch(idx int) ([]string, bool) {
	if idx < 0 || idx >= len(m.lines) {
		return nil, false
	}
	return m.lines[idx], true
}

// Count returns the number of instructions loaded.
func (m *IMem) Count() int {
	return len(m.lines)
}
