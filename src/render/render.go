// Package render draws a figure.Figure with one of several plotting backends.
//
//   - gonum:   gonum.org/v1/plot, the default; PNG/JPEG/TIFF/SVG/PDF/EPS output
//   - gochart: go-chart panels composed into one PNG
//   - echarts: go-echarts interactive HTML page
//
// Each backend brings its own default color cycle, which is why callers ask the
// renderer for its Palette before building the figure.
package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"strings"

	"gonum.org/v1/plot/palette/brewer"

	"github.com/SnowflurrySDK/Snowflurry.jl/src/config"
	"github.com/SnowflurrySDK/Snowflurry.jl/src/figure"
)

// ErrNotRaster is returned when an image is requested from an HTML-only backend.
var ErrNotRaster = errors.New("backend has no raster output")

// Size is the physical size of the whole figure.
type Size struct {
	WidthIn  float64
	HeightIn float64
	DPI      float64
}

// Pixels returns the raster size at the configured DPI.
func (s Size) Pixels() (int, int) {
	return int(math.Round(s.WidthIn * s.DPI)), int(math.Round(s.HeightIn * s.DPI))
}

// Options are the drawing settings shared by all backends.
type Options struct {
	Size       Size
	LineWidth  float64 // pt
	MarkerSize float64 // marker area in pt^2
	Palette    string  // "default" or "brewer:<name>"
}

// OptionsFromConfig copies the drawing settings out of a config.
func OptionsFromConfig(c config.Config) Options {
	return Options{
		Size:       Size{WidthIn: c.WidthIn, HeightIn: c.HeightIn, DPI: c.DPI},
		LineWidth:  c.LineWidth,
		MarkerSize: c.MarkerSize,
		Palette:    c.Palette,
	}
}

// MarkerRadius converts a marker area in pt^2 to a circle radius in pt.
func (o Options) MarkerRadius() float64 {
	if o.MarkerSize <= 0 {
		return 0
	}
	return math.Sqrt(o.MarkerSize / math.Pi)
}

// MarkerDiameterPx is the marker width in screen pixels at the configured DPI,
// rounded to a tenth of a pixel.
func (o Options) MarkerDiameterPx() float64 {
	dpi := o.Size.DPI
	if dpi <= 0 {
		dpi = 72
	}
	return math.Round(2*o.MarkerRadius()*dpi/72*10) / 10
}

// Renderer draws a figure to a file.
type Renderer interface {
	Name() string
	// Palette is the color cycle used for sources without a pinned color.
	Palette() figure.Palette
	Save(fig *figure.Figure, path string) error
}

// ImageRenderer additionally produces an in-memory raster (used by the viewer).
type ImageRenderer interface {
	Renderer
	Render(fig *figure.Figure) (image.Image, error)
}

// New returns the backend called name.
func New(name string, opts Options) (Renderer, error) {
	pal, err := resolvePalette(opts.Palette)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "gonum":
		return &GonumRenderer{opts: opts, palette: pal}, nil
	case "gochart":
		return &GoChartRenderer{opts: opts, palette: pal}, nil
	case "echarts":
		return &EChartsRenderer{opts: opts, palette: pal}, nil
	}
	return nil, fmt.Errorf("unknown backend %q", name)
}

// RenderImage renders fig to an image, failing for HTML-only backends.
func RenderImage(r Renderer, fig *figure.Figure) (image.Image, error) {
	ir, ok := r.(ImageRenderer)
	if !ok {
		return nil, fmt.Errorf("%s: %w", r.Name(), ErrNotRaster)
	}
	return ir.Render(fig)
}

// resolvePalette returns nil for the backend default, else the named ColorBrewer
// qualitative palette at its largest available size.
func resolvePalette(choice string) (figure.Palette, error) {
	if choice == "" || choice == "default" {
		return nil, nil
	}
	name, ok := strings.CutPrefix(choice, "brewer:")
	if !ok {
		return nil, fmt.Errorf("palette %q: want default or brewer:<name>", choice)
	}
	var lastErr error
	for n := 12; n >= 3; n-- {
		p, err := brewer.GetPalette(brewer.TypeQualitative, name, n)
		if err == nil {
			return figure.Colors(p.Colors()), nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("palette %q: %w", choice, lastErr)
}

// WritePNG encodes img to path.
func WritePNG(img image.Image, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("png encode %s: %w", path, err)
	}
	return f.Close()
}

// blank returns a white w x h image.
func blank(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	return img
}

// hasPoints reports whether any series of p carries data.
func hasPoints(p *figure.Panel) bool {
	if p.Empty() {
		return false
	}
	for _, s := range p.Series {
		if len(s.Points) > 0 {
			return true
		}
	}
	return false
}

// logRange is the positive y extent of panel for a log axis. A single value v
// widens to one decade either side, [v/10, v*10].
func logRange(p *figure.Panel) (lo, hi float64, ok bool) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, s := range p.Series {
		for _, pt := range s.Points {
			if pt.Y <= 0 {
				continue
			}
			lo, hi = math.Min(lo, pt.Y), math.Max(hi, pt.Y)
		}
	}
	if lo > hi {
		return 0, 0, false
	}
	if lo == hi {
		lo, hi = lo/10, hi*10
	}
	return lo, hi, true
}

// toHex formats a color for HTML output.
func toHex(c color.Color) string { return config.ToHex(c) }
