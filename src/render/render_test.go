package render

import (
	"bytes"
	"errors"
	"image"
	_ "image/png" // register PNG decoder
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/plot"

	"github.com/SnowflurrySDK/Snowflurry.jl/src/config"
	"github.com/SnowflurrySDK/Snowflurry.jl/src/figure"
	"github.com/SnowflurrySDK/Snowflurry.jl/src/types"
)

func smallOptions() Options {
	return Options{
		Size:       Size{WidthIn: 8, HeightIn: 6, DPI: 100},
		LineWidth:  1,
		MarkerSize: 20,
		Palette:    "default",
	}
}

// sampleFigure lays out two sources on the stock gate grid; "H" stays empty.
func sampleFigure(t *testing.T, r Renderer) *figure.Figure {
	t.Helper()
	records := []types.Record{
		{Source: "A", Gates: map[string]types.GateTimings{
			"X":    {NQubits: []int{1, 2, 3}, Times: []float64{10, 20, 30}},
			"CNOT": {NQubits: []int{2, 3, 4}, Times: []float64{100, 1000, 10000}},
		}},
		{Source: "B", Gates: map[string]types.GateTimings{
			"X": {NQubits: []int{1, 2, 3}, Times: []float64{15, 25, 35}},
			"T": {NQubits: []int{5}, Times: []float64{42}},
		}},
	}
	d := config.Defaults()
	fig, err := figure.Build(records, figure.Options{Gates: d.Gates, Rows: d.Rows, Cols: d.Cols}, r.Palette())
	require.NoError(t, err)
	return fig
}

func TestNewKnowsEveryConfiguredBackend(t *testing.T) {
	for _, name := range config.Backends {
		r, err := New(name, smallOptions())
		require.NoError(t, err, name)
		assert.Equal(t, name, r.Name())
		assert.NotNil(t, r.Palette().Color(0))
	}
	_, err := New("matplotlib", smallOptions())
	assert.Error(t, err)
}

func TestRasterBackendsProduceConfiguredSize(t *testing.T) {
	for _, name := range []string{"gonum", "gochart"} {
		t.Run(name, func(t *testing.T) {
			r, err := New(name, smallOptions())
			require.NoError(t, err)
			img, err := RenderImage(r, sampleFigure(t, r))
			require.NoError(t, err)
			w, h := smallOptions().Size.Pixels()
			assert.Equal(t, image.Rect(0, 0, w, h), img.Bounds().Sub(img.Bounds().Min))
		})
	}
}

func TestSavePNG(t *testing.T) {
	for _, name := range []string{"gonum", "gochart"} {
		t.Run(name, func(t *testing.T) {
			r, err := New(name, smallOptions())
			require.NoError(t, err)
			out := filepath.Join(t.TempDir(), "fig.png")
			require.NoError(t, r.Save(sampleFigure(t, r), out))
			f, err := os.Open(out)
			require.NoError(t, err)
			defer f.Close()
			cfg, format, err := image.DecodeConfig(f)
			require.NoError(t, err)
			assert.Equal(t, "png", format)
			assert.Equal(t, 800, cfg.Width)
			assert.Equal(t, 600, cfg.Height)
		})
	}
}

func TestGonumSavesSVG(t *testing.T) {
	r, err := New("gonum", smallOptions())
	require.NoError(t, err)
	out := filepath.Join(t.TempDir(), "fig.svg")
	require.NoError(t, r.Save(sampleFigure(t, r), out))
	b, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(b), "<svg")
	assert.Contains(t, string(b), "CNOT gate")
}

func TestGoChartRejectsNonPNG(t *testing.T) {
	r, err := New("gochart", smallOptions())
	require.NoError(t, err)
	err = r.Save(sampleFigure(t, r), filepath.Join(t.TempDir(), "fig.svg"))
	assert.Error(t, err)
}

func TestEChartsPage(t *testing.T) {
	r, err := New("echarts", smallOptions())
	require.NoError(t, err)
	fig := sampleFigure(t, r)

	_, err = RenderImage(r, fig)
	assert.True(t, errors.Is(err, ErrNotRaster))

	var buf bytes.Buffer
	require.NoError(t, r.(*EChartsRenderer).Write(fig, &buf))
	html := buf.String()
	for _, want := range []string{"X gate", "CNOT gate", `"log"`, "n qubits", "time (ns)"} {
		assert.Contains(t, html, want)
	}
	a := fig.Styles["A"].Color
	assert.Contains(t, strings.ToLower(html), config.ToHex(a))
}

func TestBrewerPalette(t *testing.T) {
	opts := smallOptions()
	opts.Palette = "brewer:Set1"
	r, err := New("gonum", opts)
	require.NoError(t, err)
	c, ok := r.Palette().(figure.Colors)
	require.True(t, ok)
	assert.Len(t, c, 9)

	opts.Palette = "brewer:NoSuchPalette"
	_, err = New("gonum", opts)
	assert.Error(t, err)
}

func TestMarkerRadius(t *testing.T) {
	o := Options{MarkerSize: 20}
	assert.InDelta(t, 2.523, o.MarkerRadius(), 0.001)
	assert.Zero(t, Options{}.MarkerRadius())
}

func TestDecadeTicks(t *testing.T) {
	ticks := decadeTicks(1, 3)
	require.Len(t, ticks, 3)
	assert.Equal(t, "10", ticks[0].Label)
	assert.Equal(t, "1000", ticks[2].Label)
}

// singleGate builds a one-panel figure for gate X from the given timings.
func singleGate(t *testing.T, r Renderer, timings ...types.GateTimings) *figure.Figure {
	t.Helper()
	records := make([]types.Record, len(timings))
	for i, g := range timings {
		records[i] = types.Record{Source: string(rune('A' + i)), Gates: map[string]types.GateTimings{"X": g}}
	}
	fig, err := figure.Build(records, figure.Options{Gates: []string{"X"}, Rows: 1, Cols: 1}, r.Palette())
	require.NoError(t, err)
	return fig
}

func TestGonumLogAxisOnDegenerateRanges(t *testing.T) {
	cases := []struct {
		name   string
		g      types.GateTimings
		lo, hi float64
	}{
		{"sub-nanosecond single point", types.GateTimings{NQubits: []int{1}, Times: []float64{0.5}}, 0.05, 5},
		{"constant 1ns series", types.GateTimings{NQubits: []int{1, 2}, Times: []float64{1, 1}}, 0.1, 10},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r, err := New("gonum", smallOptions())
			require.NoError(t, err)
			fig := singleGate(t, r, c.g)

			p, err := r.(*GonumRenderer).panelPlot(&fig.Panels[0])
			require.NoError(t, err)
			assert.IsType(t, plot.LogScale{}, p.Y.Scale)
			assert.InDelta(t, c.lo, p.Y.Min, 1e-12)
			assert.InDelta(t, c.hi, p.Y.Max, 1e-12)

			require.NotPanics(t, func() {
				img, err := RenderImage(r, fig)
				require.NoError(t, err)
				assert.NotNil(t, img)
			})
		})
	}
}

func TestGonumLogAxisSpansData(t *testing.T) {
	r, err := New("gonum", smallOptions())
	require.NoError(t, err)
	fig := singleGate(t, r,
		types.GateTimings{NQubits: []int{1, 2}, Times: []float64{0.2, 40}},
		types.GateTimings{NQubits: []int{3}, Times: []float64{900}},
	)
	p, err := r.(*GonumRenderer).panelPlot(&fig.Panels[0])
	require.NoError(t, err)
	assert.Equal(t, 0.2, p.Y.Min)
	assert.Equal(t, 900.0, p.Y.Max)
}

func TestGonumPanelSeriesStyle(t *testing.T) {
	r, err := New("gonum", smallOptions())
	require.NoError(t, err)
	g := r.(*GonumRenderer)
	fig := sampleFigure(t, r)

	for i := range fig.Panels {
		panel := &fig.Panels[i]
		parts, err := g.panelSeries(panel)
		require.NoError(t, err)
		require.Len(t, parts, len(panel.Series), panel.Gate)
		for j, s := range panel.Series {
			sp := parts[j]
			assert.Equal(t, s.Label, sp.Label)
			assert.Equal(t, s.Color, sp.Line.Color, "%s/%s line", panel.Gate, s.Source)
			assert.Equal(t, s.Color, sp.Scatter.GlyphStyle.Color, "%s/%s markers", panel.Gate, s.Source)
			assert.Len(t, sp.Line.XYs, len(s.Points))
		}

		p, err := g.panelPlot(panel)
		require.NoError(t, err)
		if panel.Empty() {
			assert.IsType(t, plot.LinearScale{}, p.Y.Scale, panel.Gate)
		} else {
			assert.IsType(t, plot.LogScale{}, p.Y.Scale, panel.Gate)
		}
	}
}

func TestEChartsMarkerSize(t *testing.T) {
	r, err := New("echarts", smallOptions())
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, r.(*EChartsRenderer).Write(sampleFigure(t, r), &buf))
	// 20pt² area at 100 dpi is a 7px circle
	assert.Contains(t, buf.String(), `"symbolSize":7`)
	assert.InDelta(t, 7.0, smallOptions().MarkerDiameterPx(), 0.05)
}
