// Package benchdata discovers and loads gate benchmark files.
//
// A data directory holds one JSON file per benchmark source. Each file maps a gate
// name to its measurements:
//
//	{"X": {"nqubits": [1, 2, 3], "times": [10.5, 20.1, 30.7]}, "CNOT": {...}}
//
// Files are processed in lexicographic order so downstream color assignment is
// reproducible. Any unreadable or malformed file aborts the whole load.
package benchdata

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/SnowflurrySDK/Snowflurry.jl/src/logging"
	"github.com/SnowflurrySDK/Snowflurry.jl/src/types"
)

// DefaultPattern matches every JSON file in the data directory.
const DefaultPattern = "*.json"

// ErrLengthMismatch reports a gate whose nqubits and times arrays differ in length.
var ErrLengthMismatch = errors.New("nqubits and times lengths differ")

// SourceName derives the source identifier from a file path: the base name without extension.
func SourceName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Discover returns the regular files in dir matching pattern, sorted lexicographically.
func Discover(dir, pattern string) ([]string, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("data dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("data dir %s: not a directory", dir)
	}
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, fmt.Errorf("glob %q: %w", pattern, err)
	}
	out := matches[:0]
	for _, m := range matches {
		fi, err := os.Stat(m)
		if err != nil {
			return nil, err
		}
		if fi.Mode().IsRegular() {
			out = append(out, m)
		}
	}
	sort.Strings(out)
	return out, nil
}

// LoadFile parses one benchmark file into a Record named after the file.
func LoadFile(path string) (types.Record, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return types.Record{}, err
	}
	rec, err := Decode(SourceName(path), b)
	if err != nil {
		return types.Record{}, fmt.Errorf("%s: %w", path, err)
	}
	rec.Path = path
	return rec, nil
}

// Decode parses the JSON body of a benchmark file.
func Decode(source string, b []byte) (types.Record, error) {
	gates := map[string]types.GateTimings{}
	if err := json.Unmarshal(b, &gates); err != nil {
		return types.Record{}, fmt.Errorf("decode: %w", err)
	}
	for name, g := range gates {
		if len(g.NQubits) != len(g.Times) {
			return types.Record{}, fmt.Errorf("gate %s: %w (%d vs %d)", name, ErrLengthMismatch, len(g.NQubits), len(g.Times))
		}
	}
	return types.Record{Source: source, Gates: gates}, nil
}

// LoadDir loads every matching file in dir whose source name is not in ignore.
// Ignored files are never opened. Records come back in sorted filename order.
func LoadDir(dir, pattern string, ignore []string) ([]types.Record, error) {
	paths, err := Discover(dir, pattern)
	if err != nil {
		return nil, err
	}
	skip := make(map[string]struct{}, len(ignore))
	for _, n := range ignore {
		skip[n] = struct{}{}
	}
	records := make([]types.Record, 0, len(paths))
	for _, p := range paths {
		name := SourceName(p)
		if _, ok := skip[name]; ok {
			logging.Debugf("[load] ignoring source %s", name)
			continue
		}
		logging.Infof("[load] loading source %s", name)
		rec, err := LoadFile(p)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if len(records) == 0 {
		logging.Warnf("[load] no benchmark files matched %s in %s", pattern, dir)
	}
	return records, nil
}
