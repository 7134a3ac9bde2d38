// benchviewer shows the gate benchmark figure in a window.
//
// It prepares the figure exactly like benchplot does and displays the raster
// output of the gonum or gochart backend. The data folder can be switched at
// runtime; the last one used is remembered in the app preferences.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/SnowflurrySDK/Snowflurry.jl/cmd/benchviewer/uihelpers"
	"github.com/SnowflurrySDK/Snowflurry.jl/src/config"
	"github.com/SnowflurrySDK/Snowflurry.jl/src/logging"
	"github.com/SnowflurrySDK/Snowflurry.jl/src/pipeline"
	"github.com/SnowflurrySDK/Snowflurry.jl/src/render"
)

// raster backends the window can display
var viewerBackends = []string{"gonum", "gochart"}

type uiState struct {
	app      fyne.App
	window   fyne.Window
	cfg      config.Config
	fit      bool // scale DPI to the window instead of cfg.DPI
	img      *canvas.Image
	status   *widget.Label
	dirLabel *widget.Label
}

// dark theme wrapper
type darkTheme struct{}

func (d *darkTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	return theme.DefaultTheme().Color(name, theme.VariantDark)
}
func (d *darkTheme) Font(style fyne.TextStyle) fyne.Resource { return theme.DefaultTheme().Font(style) }
func (d *darkTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}
func (d *darkTheme) Size(name fyne.ThemeSizeName) float32 { return theme.DefaultTheme().Size(name) }

func main() {
	var configPath, dataDir, backend, logLevel string
	var dark, fit bool
	flag.StringVar(&configPath, "config", "", "Optional YAML or JSONC config file")
	flag.StringVar(&dataDir, "data", "", "Benchmark data directory (overrides config and the remembered folder)")
	flag.StringVar(&backend, "backend", "", "Raster renderer: gonum or gochart")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug|info|warn|error)")
	flag.BoolVar(&dark, "dark", false, "Use the dark theme")
	flag.BoolVar(&fit, "fit", true, "Scale the figure to the window")
	flag.Parse()
	logging.SetLogLevel(logLevel)

	cfg := config.Defaults()
	if configPath != "" {
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			fmt.Fprintf(os.Stderr, "benchviewer: %v\n", err)
			os.Exit(1)
		}
	}
	if !isViewerBackend(cfg.Backend) {
		cfg.Backend = viewerBackends[0]
	}
	if backend != "" {
		if !isViewerBackend(backend) {
			fmt.Fprintf(os.Stderr, "benchviewer: backend %q cannot be shown in a window (use gonum or gochart)\n", backend)
			os.Exit(2)
		}
		cfg.Backend = backend
	}

	a := app.NewWithID("com.snowflurry.benchviewer")
	if dark {
		a.Settings().SetTheme(&darkTheme{})
	}
	if dataDir == "" && configPath == "" {
		dataDir = a.Preferences().StringWithFallback("lastDataDir", "")
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}

	w := a.NewWindow("Gate benchmarks")
	w.Resize(fyne.NewSize(1200, 860))
	state := &uiState{app: a, window: w, cfg: cfg, fit: fit}

	state.img = canvas.NewImageFromImage(image.NewRGBA(image.Rect(0, 0, 100, 60)))
	state.img.FillMode = canvas.ImageFillContain
	state.img.SetMinSize(fyne.NewSize(600, 400))
	state.status = widget.NewLabel("")
	state.dirLabel = widget.NewLabel(uihelpers.TruncatePath(cfg.DataDir, 60))

	backendSelect := widget.NewSelect(viewerBackends, func(v string) {
		if v == state.cfg.Backend {
			return
		}
		state.cfg.Backend = v
		reload(state)
	})
	backendSelect.Selected = cfg.Backend

	top := container.NewHBox(
		widget.NewButton("Open Folder…", func() { openFolderDialog(state) }),
		widget.NewButton("Reload", func() { reload(state) }),
		widget.NewButton("Export PNG…", func() { exportPNG(state) }),
		widget.NewLabel("Backend:"), backendSelect,
		state.dirLabel,
	)
	w.SetContent(container.NewBorder(top, state.status, nil, nil, state.img))
	buildMenus(state)

	reload(state)
	w.ShowAndRun()
}

func isViewerBackend(name string) bool {
	for _, b := range viewerBackends {
		if b == name {
			return true
		}
	}
	return false
}

// menus and shortcuts
func buildMenus(state *uiState) {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open Folder…", func() { openFolderDialog(state) }),
		fyne.NewMenuItem("Reload", func() { reload(state) }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export PNG…", func() { exportPNG(state) }),
	)
	state.window.SetMainMenu(fyne.NewMainMenu(fileMenu))

	canv := state.window.Canvas()
	if canv == nil {
		return
	}
	for _, mod := range []fyne.KeyModifier{fyne.KeyModifierSuper, fyne.KeyModifierControl} {
		canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyO, Modifier: mod}, func(fyne.Shortcut) { openFolderDialog(state) })
		canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyR, Modifier: mod}, func(fyne.Shortcut) { reload(state) })
		canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyE, Modifier: mod}, func(fyne.Shortcut) { exportPNG(state) })
		canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyW, Modifier: mod}, func(fyne.Shortcut) { state.window.Close() })
	}
}

func openFolderDialog(state *uiState) {
	d := dialog.NewFolderOpen(func(lu fyne.ListableURI, err error) {
		if err != nil || lu == nil {
			return
		}
		state.cfg.DataDir = lu.Path()
		state.dirLabel.SetText(uihelpers.TruncatePath(state.cfg.DataDir, 60))
		state.app.Preferences().SetString("lastDataDir", state.cfg.DataDir)
		reload(state)
	}, state.window)
	d.Show()
}

// reload re-reads the data folder and redraws the figure.
func reload(state *uiState) {
	cfg := state.cfg
	if state.fit {
		size := state.img.Size()
		if size.Width < 10 || size.Height < 10 {
			size = state.window.Canvas().Size()
		}
		scale := state.window.Canvas().Scale()
		cfg.DPI = uihelpers.ComputeFigureDPI(size.Width*scale, size.Height*scale, cfg.WidthIn, cfg.HeightIn, cfg.DPI)
	}
	res, err := pipeline.Prepare(cfg)
	if err != nil {
		logging.Errorf("[viewer] %v", err)
		state.status.SetText("load failed")
		dialog.ShowError(err, state.window)
		return
	}
	ir, ok := res.Renderer.(render.ImageRenderer)
	if !ok {
		dialog.ShowError(render.ErrNotRaster, state.window)
		return
	}
	img, err := ir.Render(res.Figure)
	if err != nil {
		logging.Errorf("[viewer] render: %v", err)
		dialog.ShowError(err, state.window)
		return
	}
	state.img.Image = img
	state.img.Refresh()
	state.status.SetText(fmt.Sprintf("%d sources, %d panels, %s @ %.0f dpi", len(res.Figure.Sources), len(res.Figure.Panels), res.Renderer.Name(), cfg.DPI))
	logging.Infof("[viewer] %s: %d sources from %s", res.Renderer.Name(), len(res.Figure.Sources), cfg.DataDir)
}

func exportPNG(state *uiState) {
	if state.img == nil || state.img.Image == nil {
		dialog.ShowInformation("Export", "No figure to export.", state.window)
		return
	}
	fs := dialog.NewFileSave(func(wc fyne.URIWriteCloser, err error) {
		if err != nil || wc == nil {
			return
		}
		defer wc.Close()
		if err := png.Encode(wc, state.img.Image); err != nil {
			dialog.ShowError(err, state.window)
		}
	}, state.window)
	fs.SetFileName(uihelpers.ExportName(state.cfg.Backend))
	fs.Show()
}
