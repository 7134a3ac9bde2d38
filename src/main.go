// benchplot renders gate simulation benchmarks as a grid of log-scale panels.
//
// Every JSON file in the data directory is one benchmark source (see package
// benchdata for the format). Each configured gate gets one panel; each source that
// measured the gate gets one line with markers in that panel.
//
// Modes:
//  1. Render (default): write the figure to --out. The extension picks the format
//     (png/svg/pdf/... for gonum, png for gochart, html for echarts).
//  2. Serve (--serve addr): serve the echarts page over HTTP, re-reading the data
//     directory on every request so a browser refresh shows new results.
//
// Use cmd/benchviewer for an on-screen window.
package main

import (
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/SnowflurrySDK/Snowflurry.jl/src/config"
	"github.com/SnowflurrySDK/Snowflurry.jl/src/logging"
	"github.com/SnowflurrySDK/Snowflurry.jl/src/pipeline"
	"github.com/SnowflurrySDK/Snowflurry.jl/src/render"
)

// cliFlags are the command-line overrides applied on top of the config file.
type cliFlags struct {
	configPath string
	dataDir    string
	pattern    string
	ignore     string
	backend    string
	palette    string
	out        string
	serve      string
	logLevel   string
}

func parseFlags(fs *flag.FlagSet, args []string) (cliFlags, error) {
	var f cliFlags
	fs.StringVar(&f.configPath, "config", "", "Optional YAML or JSONC config file")
	fs.StringVar(&f.dataDir, "data", "", "Benchmark data directory (overrides config)")
	fs.StringVar(&f.pattern, "pattern", "", "Glob for benchmark files inside the data directory (overrides config)")
	fs.StringVar(&f.ignore, "ignore", "", "Comma separated source names to skip (added to config ignore list)")
	fs.StringVar(&f.backend, "backend", "", "Renderer: gonum, gochart or echarts (overrides config)")
	fs.StringVar(&f.palette, "palette", "", "Color cycle: default or brewer:<name> (overrides config)")
	fs.StringVar(&f.out, "out", "benchmark_gates.png", "Output file")
	fs.StringVar(&f.serve, "serve", "", "Serve the interactive echarts page on this address (e.g. :3030) instead of writing a file")
	fs.StringVar(&f.logLevel, "log-level", "info", "Log level (debug|info|warn|error)")
	err := fs.Parse(args)
	return f, err
}

// resolveConfig loads the config file (or defaults) and applies flag overrides.
func resolveConfig(f cliFlags) (config.Config, error) {
	cfg := config.Defaults()
	if f.configPath != "" {
		var err error
		if cfg, err = config.Load(f.configPath); err != nil {
			return cfg, err
		}
	}
	if f.dataDir != "" {
		cfg.DataDir = f.dataDir
	}
	if f.pattern != "" {
		cfg.Pattern = f.pattern
	}
	cfg.Ignore = append(cfg.Ignore, config.SplitList(f.ignore)...)
	if f.backend != "" {
		cfg.Backend = f.backend
	}
	if f.palette != "" {
		cfg.Palette = f.palette
	}
	if f.serve != "" {
		cfg.Backend = "echarts"
	}
	return cfg, cfg.Validate()
}

func run(args []string) error {
	f, err := parseFlags(flag.NewFlagSet("benchplot", flag.ContinueOnError), args)
	if err != nil {
		return err
	}
	logging.SetLogLevel(f.logLevel)
	cfg, err := resolveConfig(f)
	if err != nil {
		return err
	}
	if f.serve != "" {
		return serve(cfg, f.serve)
	}
	res, err := pipeline.Prepare(cfg)
	if err != nil {
		return err
	}
	if err := res.Renderer.Save(res.Figure, f.out); err != nil {
		return err
	}
	logging.Infof("[render] %s: %d sources, %d panels -> %s", res.Renderer.Name(), len(res.Figure.Sources), len(res.Figure.Panels), f.out)
	return nil
}

// pageHandler answers every request with a freshly loaded echarts page.
func pageHandler(cfg config.Config) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
		res, err := pipeline.Prepare(cfg)
		if err != nil {
			logging.Errorf("[serve] %v", err)
			http.Error(rw, err.Error(), http.StatusInternalServerError)
			return
		}
		ec, ok := res.Renderer.(*render.EChartsRenderer)
		if !ok {
			http.Error(rw, "serve needs the echarts backend", http.StatusInternalServerError)
			return
		}
		rw.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := ec.Write(res.Figure, rw); err != nil {
			logging.Errorf("[serve] write page: %v", err)
		}
	})
}

func serve(cfg config.Config, addr string) error {
	logging.Infof("[serve] listening on %s (data dir %s)", addr, cfg.DataDir)
	if err := http.ListenAndServe(addr, pageHandler(cfg)); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "benchplot: %v\n", err)
		os.Exit(1)
	}
}
