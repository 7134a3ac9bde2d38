package benchdata

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/SnowflurrySDK/Snowflurry.jl/src/types"
)

// GateInventory describes the extent of one gate's measurements in one source.
type GateInventory struct {
	Gate      string `yaml:"gate"`
	Points    int    `yaml:"points"`
	MinQubits int    `yaml:"min_qubits"`
	MaxQubits int    `yaml:"max_qubits"`
}

// SourceInventory lists what a source measured, gates sorted by name.
type SourceInventory struct {
	Source string          `yaml:"source"`
	Path   string          `yaml:"path"`
	Gates  []GateInventory `yaml:"gates"`
}

// Inventory summarizes which gates each source covers and over which qubit range.
func Inventory(records []types.Record) []SourceInventory {
	out := make([]SourceInventory, 0, len(records))
	for _, r := range records {
		si := SourceInventory{Source: r.Source, Path: r.Path}
		for _, name := range r.GateNames() {
			g := r.Gates[name]
			gi := GateInventory{Gate: name, Points: g.Len()}
			for i, q := range g.NQubits {
				if i == 0 || q < gi.MinQubits {
					gi.MinQubits = q
				}
				if i == 0 || q > gi.MaxQubits {
					gi.MaxQubits = q
				}
			}
			si.Gates = append(si.Gates, gi)
		}
		out = append(out, si)
	}
	return out
}

// Coverage maps each gate name to the sources that measured it, in record order.
func Coverage(records []types.Record) map[string][]string {
	cov := map[string][]string{}
	for _, r := range records {
		for _, name := range r.GateNames() {
			cov[name] = append(cov[name], r.Source)
		}
	}
	return cov
}

// WriteInventory prints a plain-text inventory, one line per (source, gate).
func WriteInventory(w io.Writer, inv []SourceInventory) error {
	for _, si := range inv {
		if _, err := fmt.Fprintf(w, "%s (%d gates)\n", si.Source, len(si.Gates)); err != nil {
			return err
		}
		for _, g := range si.Gates {
			if _, err := fmt.Fprintf(w, "  %-6s points=%d qubits=%d..%d\n", g.Gate, g.Points, g.MinQubits, g.MaxQubits); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteCoverage prints, per gate, which sources provide it.
func WriteCoverage(w io.Writer, cov map[string][]string) error {
	gates := make([]string, 0, len(cov))
	for g := range cov {
		gates = append(gates, g)
	}
	sort.Strings(gates)
	for _, g := range gates {
		if _, err := fmt.Fprintf(w, "%s: %s\n", g, strings.Join(cov[g], ", ")); err != nil {
			return err
		}
	}
	return nil
}
