package render

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/SnowflurrySDK/Snowflurry.jl/src/figure"
	"github.com/SnowflurrySDK/Snowflurry.jl/src/logging"
)

// GonumRenderer draws every panel as a gonum plot on one tiled canvas.
type GonumRenderer struct {
	opts    Options
	palette figure.Palette
}

func (g *GonumRenderer) Name() string { return "gonum" }

func (g *GonumRenderer) Palette() figure.Palette {
	if g.palette != nil {
		return g.palette
	}
	return figure.Colors(plotutil.DefaultColors)
}

// Render draws fig onto an in-memory image at the configured DPI.
func (g *GonumRenderer) Render(fig *figure.Figure) (image.Image, error) {
	c := g.rasterCanvas()
	if err := g.draw(fig, draw.New(c)); err != nil {
		return nil, err
	}
	return c.Image(), nil
}

// Save writes fig to path; the extension picks the format.
func (g *GonumRenderer) Save(fig *figure.Figure, path string) error {
	format := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	var cw vg.CanvasWriterTo
	switch format {
	case "png":
		cw = vgimg.PngCanvas{Canvas: g.rasterCanvas()}
	case "jpg", "jpeg":
		cw = vgimg.JpegCanvas{Canvas: g.rasterCanvas()}
	case "tif", "tiff":
		cw = vgimg.TiffCanvas{Canvas: g.rasterCanvas()}
	default:
		var err error
		cw, err = draw.NewFormattedCanvas(g.width(), g.height(), format)
		if err != nil {
			return fmt.Errorf("save %s: %w", path, err)
		}
	}
	if err := g.draw(fig, draw.New(cw)); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := cw.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

func (g *GonumRenderer) width() vg.Length  { return vg.Length(g.opts.Size.WidthIn) * vg.Inch }
func (g *GonumRenderer) height() vg.Length { return vg.Length(g.opts.Size.HeightIn) * vg.Inch }

func (g *GonumRenderer) rasterCanvas() *vgimg.Canvas {
	return vgimg.NewWith(
		vgimg.UseWH(g.width(), g.height()),
		vgimg.UseDPI(int(g.opts.Size.DPI)),
		vgimg.UseBackgroundColor(color.White),
	)
}

// draw lays the panels out on a rows x cols tiling of c. Blank cells stay empty.
func (g *GonumRenderer) draw(fig *figure.Figure, c draw.Canvas) error {
	tiles := draw.Tiles{
		Rows:      fig.Rows,
		Cols:      fig.Cols,
		PadX:      vg.Millimeter * 4,
		PadY:      vg.Millimeter * 4,
		PadTop:    vg.Millimeter * 2,
		PadBottom: vg.Millimeter * 2,
		PadLeft:   vg.Millimeter * 2,
		PadRight:  vg.Millimeter * 2,
	}
	for row := 0; row < fig.Rows; row++ {
		for col := 0; col < fig.Cols; col++ {
			panel := fig.Cell(row, col)
			if panel == nil {
				continue
			}
			p, err := g.panelPlot(panel)
			if err != nil {
				return fmt.Errorf("%s: %w", panel.Title, err)
			}
			p.Draw(tiles.At(c, col, row))
		}
	}
	logging.Debugf("[render] gonum drew %d panels on %dx%d grid", len(fig.Panels), fig.Rows, fig.Cols)
	return nil
}

// seriesPlot is the line and marker pair drawn for one source.
type seriesPlot struct {
	Label   string
	Line    *plotter.Line
	Scatter *plotter.Scatter
}

// panelSeries builds a line and circle markers per source, both in the source color.
func (g *GonumRenderer) panelSeries(panel *figure.Panel) ([]seriesPlot, error) {
	out := make([]seriesPlot, 0, len(panel.Series))
	for _, s := range panel.Series {
		xys := make(plotter.XYs, len(s.Points))
		for i, pt := range s.Points {
			xys[i].X = pt.X
			xys[i].Y = pt.Y
		}
		line := &plotter.Line{LineStyle: plotter.DefaultLineStyle}
		scatter := &plotter.Scatter{GlyphStyle: plotter.DefaultGlyphStyle}
		if len(xys) > 0 {
			var err error
			if line, err = plotter.NewLine(xys); err != nil {
				return nil, fmt.Errorf("line %s: %w", s.Source, err)
			}
			if scatter, err = plotter.NewScatter(xys); err != nil {
				return nil, fmt.Errorf("scatter %s: %w", s.Source, err)
			}
		}
		line.Color = s.Color
		line.Width = vg.Points(g.opts.LineWidth)
		scatter.GlyphStyle.Color = s.Color
		scatter.GlyphStyle.Shape = draw.CircleGlyph{}
		scatter.GlyphStyle.Radius = vg.Points(g.opts.MarkerRadius())
		out = append(out, seriesPlot{Label: s.Label, Line: line, Scatter: scatter})
	}
	return out, nil
}

// panelPlot builds the plot for one gate.
func (g *GonumRenderer) panelPlot(panel *figure.Panel) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = panel.Title
	p.X.Label.Text = panel.XLabel
	p.Y.Label.Text = panel.YLabel
	p.Legend.Top = true
	p.Legend.Left = true
	if panel.Grid {
		p.Add(plotter.NewGrid())
	}
	parts, err := g.panelSeries(panel)
	if err != nil {
		return nil, err
	}
	for _, sp := range parts {
		if len(sp.Line.XYs) > 0 {
			p.Add(sp.Line, sp.Scatter)
		}
		if panel.Legend {
			p.Legend.Add(sp.Label, sp.Line, sp.Scatter)
		}
	}
	if !panel.LogY {
		return p, nil
	}
	// LogScale panics unless both ends of the axis are positive
	if lo, hi, ok := logRange(panel); ok {
		p.Y.Min, p.Y.Max = lo, hi
		p.Y.Scale = plot.LogScale{}
		p.Y.Tick.Marker = logTicks{}
	}
	return p, nil
}

// logTicks are gonum's log ticks with plain decimal labels for the decades.
type logTicks struct{}

func (logTicks) Ticks(min, max float64) []plot.Tick {
	ticks := plot.LogTicks{}.Ticks(min, max)
	for i := range ticks {
		if ticks[i].Label == "" {
			continue
		}
		ticks[i].Label = strconv.FormatFloat(ticks[i].Value, 'g', -1, 64)
	}
	return ticks
}
