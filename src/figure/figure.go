// Package figure lays benchmark records out as a grid of per-gate panels.
//
// The layout is independent of any plotting library: it decides which series land
// in which panel, what each series is called and which color it gets. Renderers in
// package render only draw what a Figure describes.
//
// Color assignment is order dependent. Records are walked in the order given
// (sorted by file name when they come from benchdata.LoadDir); a source without a
// pinned color takes the next palette color the first time one of its gates is
// drawn and keeps it for every later gate.
package figure

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/SnowflurrySDK/Snowflurry.jl/src/logging"
	"github.com/SnowflurrySDK/Snowflurry.jl/src/types"
)

const (
	XLabel = "n qubits"
	YLabel = "time (ns)"
)

var (
	ErrNoGates  = errors.New("no gates to plot")
	ErrGridSize = errors.New("grid too small for gate list")
)

// Options controls layout and per-source styling. Labels, Colors and Ignore are
// keyed by source name.
type Options struct {
	Gates  []string
	Rows   int
	Cols   int
	Labels map[string]string
	Colors map[string]color.Color
	Ignore []string
}

// Point is one measurement: Y ns at X qubits.
type Point struct {
	X, Y float64
}

// Series is one source drawn on one panel: a line through Points plus a marker at each point.
type Series struct {
	Source string
	Label  string
	Color  color.Color
	Points []Point
}

// Panel is the subplot for one gate.
type Panel struct {
	Gate   string
	Row    int
	Col    int
	Title  string
	XLabel string
	YLabel string
	LogY   bool
	Grid   bool
	Legend bool
	Series []Series
}

// Labels returns the legend entries in drawing order.
func (p *Panel) Labels() []string {
	out := make([]string, len(p.Series))
	for i, s := range p.Series {
		out[i] = s.Label
	}
	return out
}

// Empty reports whether no source measured this panel's gate.
func (p *Panel) Empty() bool { return len(p.Series) == 0 }

// Style is the resolved look of one source across the whole figure.
type Style struct {
	Label string
	Color color.Color
	// Auto is true when Color came from the palette rather than an override.
	Auto bool
}

// Pair identifies one drawn (source, gate) combination.
type Pair struct {
	Source string
	Gate   string
}

// Figure is the complete grid. Panels are stored in gate order, which is row-major
// grid order; cells past the last gate are blank.
type Figure struct {
	Rows    int
	Cols    int
	Panels  []Panel
	Styles  map[string]Style
	Sources []string // drawn sources in processing order
}

// Cell returns the panel at (row, col), or nil for a blank cell.
func (f *Figure) Cell(row, col int) *Panel {
	i := row*f.Cols + col
	if row < 0 || col < 0 || col >= f.Cols || i >= len(f.Panels) {
		return nil
	}
	return &f.Panels[i]
}

// Panel returns the panel for gate, or nil if the gate is not on the grid.
func (f *Figure) Panel(gate string) *Panel {
	for i := range f.Panels {
		if f.Panels[i].Gate == gate {
			return &f.Panels[i]
		}
	}
	return nil
}

// Drawn lists every (source, gate) pair that produced a series, panel by panel.
func (f *Figure) Drawn() []Pair {
	var out []Pair
	for _, p := range f.Panels {
		for _, s := range p.Series {
			out = append(out, Pair{Source: s.Source, Gate: p.Gate})
		}
	}
	return out
}

// Build lays out records on the grid described by opts, drawing colors for
// unpinned sources from palette.
func Build(records []types.Record, opts Options, palette Palette) (*Figure, error) {
	if len(opts.Gates) == 0 {
		return nil, ErrNoGates
	}
	rows, cols := opts.Rows, opts.Cols
	if rows <= 0 || cols <= 0 || len(opts.Gates) > rows*cols {
		return nil, fmt.Errorf("%w: %d gates on %dx%d", ErrGridSize, len(opts.Gates), rows, cols)
	}
	fig := &Figure{
		Rows:   rows,
		Cols:   cols,
		Panels: make([]Panel, len(opts.Gates)),
		Styles: map[string]Style{},
	}
	for i, gate := range opts.Gates {
		fig.Panels[i] = Panel{
			Gate:   gate,
			Row:    i / cols,
			Col:    i % cols,
			Title:  gate + " gate",
			XLabel: XLabel,
			YLabel: YLabel,
			LogY:   true,
			Grid:   true,
			Legend: true,
		}
	}

	ignored := make(map[string]struct{}, len(opts.Ignore))
	for _, n := range opts.Ignore {
		ignored[n] = struct{}{}
	}
	cycle := NewCycle(palette)

	for _, rec := range records {
		if _, skip := ignored[rec.Source]; skip {
			continue
		}
		label, ok := opts.Labels[rec.Source]
		if !ok {
			label = rec.Source
		}
		for i := range fig.Panels {
			panel := &fig.Panels[i]
			g, ok := rec.Gate(panel.Gate)
			if !ok {
				continue
			}
			st, seen := fig.Styles[rec.Source]
			if !seen {
				st = Style{Label: label}
				if c, pinned := opts.Colors[rec.Source]; pinned {
					st.Color = c
				} else {
					st.Color = cycle.Next()
					st.Auto = true
				}
				fig.Styles[rec.Source] = st
				fig.Sources = append(fig.Sources, rec.Source)
			}
			panel.Series = append(panel.Series, Series{
				Source: rec.Source,
				Label:  st.Label,
				Color:  st.Color,
				Points: points(rec.Source, panel.Gate, g),
			})
		}
	}
	logging.Debugf("[figure] %d sources drawn, %d colors taken from the palette", len(fig.Sources), cycle.Used())
	return fig, nil
}

// points pairs qubit counts with times. Non-positive times cannot sit on a log
// axis and are dropped.
func points(source, gate string, g types.GateTimings) []Point {
	n := g.Len()
	out := make([]Point, 0, n)
	dropped := 0
	for i := 0; i < n; i++ {
		if g.Times[i] <= 0 {
			dropped++
			continue
		}
		out = append(out, Point{X: float64(g.NQubits[i]), Y: g.Times[i]})
	}
	if dropped > 0 {
		logging.Warnf("[figure] %s/%s: dropped %d non-positive time(s) on log axis", source, gate, dropped)
	}
	return out
}
