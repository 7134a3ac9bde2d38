// Package types holds the benchmark data model shared by loading, layout and rendering.
package types

import "sort"

// GateTimings is one gate's measurements: times[i] (ns) was measured at nqubits[i].
type GateTimings struct {
	NQubits []int     `json:"nqubits" yaml:"nqubits"`
	Times   []float64 `json:"times" yaml:"times"`
}

// Len returns the number of paired points (the shorter of the two slices).
func (g GateTimings) Len() int {
	if len(g.NQubits) < len(g.Times) {
		return len(g.NQubits)
	}
	return len(g.Times)
}

// Record is the content of one benchmark source file.
type Record struct {
	Source string                 // filename without extension
	Path   string                 // file the record was read from (may be empty in tests)
	Gates  map[string]GateTimings // keyed by gate name
}

// Gate returns the timings for name and whether the source measured that gate.
func (r Record) Gate(name string) (GateTimings, bool) {
	g, ok := r.Gates[name]
	return g, ok
}

// GateNames returns the measured gate names, sorted.
func (r Record) GateNames() []string {
	out := make([]string, 0, len(r.Gates))
	for k := range r.Gates {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
