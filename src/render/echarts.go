package render

import (
	"fmt"
	"io"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/SnowflurrySDK/Snowflurry.jl/src/config"
	"github.com/SnowflurrySDK/Snowflurry.jl/src/figure"
)

// echartsPalette is the ECharts default series palette.
var echartsPalette = []string{"#5470c6", "#91cc75", "#fac858", "#ee6666", "#73c0de", "#3ba272", "#fc8452", "#9a60b4", "#ea7ccc"}

// EChartsRenderer writes the figure as an HTML page with one interactive chart per panel.
type EChartsRenderer struct {
	opts    Options
	palette figure.Palette
}

func (e *EChartsRenderer) Name() string { return "echarts" }

func (e *EChartsRenderer) Palette() figure.Palette {
	if e.palette != nil {
		return e.palette
	}
	cols := make(figure.Colors, 0, len(echartsPalette))
	for _, hex := range echartsPalette {
		c, err := config.ParseColor(hex)
		if err != nil {
			continue
		}
		cols = append(cols, c)
	}
	return cols
}

// Page builds the go-echarts page for fig. Panels flow left to right, Cols per row
// when the browser window is as wide as the configured figure.
func (e *EChartsRenderer) Page(fig *figure.Figure) *components.Page {
	page := components.NewPage()
	page.PageTitle = "Gate benchmarks"
	page.SetLayout(components.PageFlexLayout)
	w, h := e.opts.Size.Pixels()
	tileW, tileH := w/fig.Cols, h/fig.Rows
	for i := range fig.Panels {
		page.AddCharts(e.panelChart(&fig.Panels[i], tileW, tileH))
	}
	return page
}

// Write renders the page HTML to w.
func (e *EChartsRenderer) Write(fig *figure.Figure, w io.Writer) error {
	return e.Page(fig).Render(w)
}

// Save writes the HTML page to path.
func (e *EChartsRenderer) Save(fig *figure.Figure, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := e.Write(fig, f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

func (e *EChartsRenderer) panelChart(panel *figure.Panel, w, h int) *charts.Line {
	yType := "value"
	if panel.LogY && hasPoints(panel) {
		yType = "log"
	}
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Width:  fmt.Sprintf("%dpx", w),
			Height: fmt.Sprintf("%dpx", h),
		}),
		charts.WithTitleOpts(opts.Title{Title: panel.Title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "item"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(panel.Legend), Top: "bottom"}),
		charts.WithXAxisOpts(opts.XAxis{
			Name:      panel.XLabel,
			Type:      "value",
			SplitLine: &opts.SplitLine{Show: opts.Bool(panel.Grid)},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name:      panel.YLabel,
			Type:      yType,
			SplitLine: &opts.SplitLine{Show: opts.Bool(panel.Grid)},
		}),
	)
	for _, s := range panel.Series {
		data := make([]opts.LineData, len(s.Points))
		for i, pt := range s.Points {
			data[i] = opts.LineData{Value: []interface{}{pt.X, pt.Y}}
		}
		hex := toHex(s.Color)
		line.AddSeries(s.Label, data,
			charts.WithLineChartOpts(opts.LineChart{
				ShowSymbol: opts.Bool(true),
				Symbol:     "circle",
				SymbolSize: e.opts.MarkerDiameterPx(),
			}),
			charts.WithLineStyleOpts(opts.LineStyle{Color: hex, Width: float32(e.opts.LineWidth)}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: hex}),
		)
	}
	return line
}
