package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/SnowflurrySDK/Snowflurry.jl/src/figure"
	"github.com/SnowflurrySDK/Snowflurry.jl/src/logging"
)

// GoChartRenderer renders each panel with go-chart and pastes the panels into a grid.
// go-chart has no log axis, so times are plotted as log10 values with decade ticks.
type GoChartRenderer struct {
	opts    Options
	palette figure.Palette
}

func (g *GoChartRenderer) Name() string { return "gochart" }

func (g *GoChartRenderer) Palette() figure.Palette {
	if g.palette != nil {
		return g.palette
	}
	cols := make(figure.Colors, len(chart.DefaultColors))
	for i, c := range chart.DefaultColors {
		cols[i] = c
	}
	return cols
}

// Render composes all panels into one image of the configured pixel size.
func (g *GoChartRenderer) Render(fig *figure.Figure) (image.Image, error) {
	w, h := g.opts.Size.Pixels()
	tileW, tileH := w/fig.Cols, h/fig.Rows
	dst := blank(w, h)
	for row := 0; row < fig.Rows; row++ {
		for col := 0; col < fig.Cols; col++ {
			panel := fig.Cell(row, col)
			if panel == nil {
				continue
			}
			tile, err := g.renderPanel(panel, tileW, tileH)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", panel.Title, err)
			}
			r := image.Rect(col*tileW, row*tileH, (col+1)*tileW, (row+1)*tileH)
			draw.Draw(dst, r, tile, tile.Bounds().Min, draw.Over)
		}
	}
	logging.Debugf("[render] gochart composed %d panels into %dx%d px", len(fig.Panels), w, h)
	return dst, nil
}

// Save writes the composed figure; only PNG is supported.
func (g *GoChartRenderer) Save(fig *figure.Figure, path string) error {
	if ext := strings.ToLower(filepath.Ext(path)); ext != ".png" {
		return fmt.Errorf("gochart: unsupported output %q (png only)", ext)
	}
	img, err := g.Render(fig)
	if err != nil {
		return err
	}
	return WritePNG(img, path)
}

func (g *GoChartRenderer) renderPanel(panel *figure.Panel, w, h int) (image.Image, error) {
	if !hasPoints(panel) {
		return drawCaption(blank(w, h), panel.Title+": no data"), nil
	}
	minX, maxX := math.MaxFloat64, -math.MaxFloat64
	minY, maxY := math.MaxFloat64, -math.MaxFloat64
	series := make([]chart.Series, 0, len(panel.Series))
	for _, s := range panel.Series {
		xs := make([]float64, len(s.Points))
		ys := make([]float64, len(s.Points))
		for i, pt := range s.Points {
			xs[i] = pt.X
			ys[i] = pt.Y
			if panel.LogY {
				ys[i] = math.Log10(pt.Y)
			}
			minX, maxX = math.Min(minX, xs[i]), math.Max(maxX, xs[i])
			minY, maxY = math.Min(minY, ys[i]), math.Max(maxY, ys[i])
		}
		col := toDrawingColor(s.Color)
		series = append(series, chart.ContinuousSeries{
			Name:    s.Label,
			XValues: xs,
			YValues: ys,
			Style: chart.Style{
				StrokeColor: col,
				StrokeWidth: g.opts.LineWidth,
				DotColor:    col,
				DotWidth:    g.opts.MarkerRadius(),
			},
		})
	}
	if maxX <= minX {
		minX, maxX = minX-0.5, maxX+0.5
	}
	yAxis := chart.YAxis{Name: panel.YLabel}
	if panel.LogY {
		lo, hi := math.Floor(minY), math.Ceil(maxY)
		if hi <= lo {
			hi = lo + 1
		}
		yAxis.Range = &chart.ContinuousRange{Min: lo, Max: hi}
		yAxis.Ticks = decadeTicks(lo, hi)
	} else {
		if maxY <= minY {
			maxY = minY + 1
		}
		yAxis.Range = &chart.ContinuousRange{Min: minY, Max: maxY}
	}
	xAxis := chart.XAxis{Name: panel.XLabel, Range: &chart.ContinuousRange{Min: minX, Max: maxX}}
	if panel.Grid {
		grid := chart.Style{StrokeColor: drawing.ColorFromHex("dddddd"), StrokeWidth: 1}
		xAxis.GridMajorStyle = grid
		yAxis.GridMajorStyle = grid
	}
	ch := chart.Chart{
		Title:      panel.Title,
		Width:      w,
		Height:     h,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis:      xAxis,
		YAxis:      yAxis,
		Series:     series,
	}
	if panel.Legend {
		ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	}
	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	return png.Decode(&buf)
}

// decadeTicks labels integer log10 positions with their linear value.
func decadeTicks(lo, hi float64) []chart.Tick {
	ticks := make([]chart.Tick, 0, int(hi-lo)+1)
	for e := lo; e <= hi; e++ {
		ticks = append(ticks, chart.Tick{Value: e, Label: strconv.FormatFloat(math.Pow(10, e), 'g', -1, 64)})
	}
	return ticks
}

func toDrawingColor(c color.Color) drawing.Color {
	r, g, b, a := c.RGBA()
	return drawing.Color{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: uint8(a >> 8)}
}

// drawCaption writes text centered on img in the basic 7x13 face.
func drawCaption(img *image.RGBA, text string) *image.RGBA {
	if strings.TrimSpace(text) == "" {
		return img
	}
	face := basicfont.Face7x13
	dr := &font.Drawer{Dst: img, Src: image.NewUniform(color.RGBA{R: 90, G: 90, B: 90, A: 255}), Face: face}
	b := img.Bounds()
	tw := dr.MeasureString(text).Ceil()
	x := b.Min.X + (b.Dx()-tw)/2
	y := b.Min.Y + b.Dy()/2
	dr.Dot = fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)}
	dr.DrawString(text)
	return img
}
