// Package loader reads the simulator input directory: the configuration
// file, the resolved assembly program, and the optional data memory images.
//
// All inputs are plain text. Comment handling is uniform: '#' starts a
// comment, blank and comment-only lines are ignored.
package loader

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
)

// ConfigFileName is the parameter file read from the I/O directory.
const ConfigFileName = "Config.txt"

// LoadParams reads a key = value parameter file into an integer map.
// Values must parse as signed integers; anything else is fatal.
func LoadParams(path string) (map[string]int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	params := make(map[string]int)
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := stripComment(scanner.Text())
		if line == "" {
			continue
		}

		key, value, found := strings.Cut(line, "=")
		if !found {
			return nil, fmt.Errorf("%s:%d: missing '=' separator", path, lineNo)
		}

		key = strings.TrimSpace(key)
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return nil, fmt.Errorf("%s:%d: non-integer value for %q: %w", path, lineNo, key, err)
		}
		params[key] = n
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	log.WithFields(log.Fields{"file": path, "params": len(params)}).
		Info("configuration parameters loaded")

	return params, nil
}

// stripComment removes a trailing '#' comment and surrounding whitespace.
func stripComment(line string) string {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		line = line[:i]
	}
	return strings.TrimSpace(line)
}
