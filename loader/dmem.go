package loader

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"

	log "github.com/sirupsen/logrus"
)

// Data memory geometry: word-addressable, 32 bits per word.
const (
	// SDMemAddrBits sizes the scalar data memory (32 KB = 2^13 words).
	SDMemAddrBits = 13
	// VDMemAddrBits sizes the vector data memory (512 KB = 2^17 words).
	VDMemAddrBits = 17
)

// DMem is a word-addressable data memory image. The timing core never
// reads or writes it; it exists so input directories load cleanly and so
// the image can be dumped back out.
type DMem struct {
	name string
	data []int32
}

// LoadDMem reads <name>.txt from the I/O directory, one decimal integer
// per line, and zero-fills the image to 2^addrBits words. A missing file
// is tolerated: the memory loads as all zeros.
func LoadDMem(name, iodir string, addrBits uint) (*DMem, error) {
	size := 1 << addrBits
	m := &DMem{
		name: name,
		data: make([]int32, size),
	}

	path := filepath.Join(iodir, name+".txt")
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.WithField("file", path).Warn("data memory file missing, loading zeros")
			return m, nil
		}
		return nil, fmt.Errorf("failed to open data memory file: %w", err)
	}
	defer f.Close()

	idx := 0
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := stripComment(scanner.Text())
		if line == "" {
			continue
		}

		v, err := strconv.ParseInt(line, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: non-integer value: %w", path, lineNo, err)
		}
		if v < math.MinInt32 || v > math.MaxInt32 {
			return nil, fmt.Errorf("%s:%d: value %d exceeds 32-bit word range", path, lineNo, v)
		}
		if idx >= size {
			return nil, fmt.Errorf("%s: more than %d words", path, size)
		}
		m.data[idx] = int32(v)
		idx++
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read data memory file: %w", err)
	}

	log.WithFields(log.Fields{"file": path, "words": idx}).
		Infof("%s data loaded", name)

	return m, nil
}

// Name returns the memory's name (SDMEM, VDMEM).
func (m *DMem) Name() string {
	return m.name
}

// Size returns the capacity in words.
func (m *DMem) Size() int {
	return len(m.data)
}

// Read returns the word at idx.
func (m *DMem) Read(idx int) (int32, error) {
	if idx < 0 || idx >= len(m.data) {
		return 0, fmt.Errorf("%s: invalid access at index %d with memory size %d",
			m.name, idx, len(m.data))
	}
	return m.data[idx], nil
}

// Write stores a word at idx.
func (m *DMem) Write(idx int, val int32) error {
	if idx < 0 || idx >= len(m.data) {
		return fmt.Errorf("%s: invalid access at index %d with memory size %d",
			m.name, idx, len(m.data))
	}
	m.data[idx] = val
	return nil
}

// Dump writes the image to <name>OP.txt in the I/O directory, one word
// per line.
func (m *DMem) Dump(iodir string) error {
	path := filepath.Join(iodir, m.name+"OP.txt")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create dump file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, v := range m.data {
		fmt.Fprintln(w, v)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to write dump file: %w", err)
	}
	return nil
}
