// Package pipeline wires config, loading, layout and a renderer together so the
// command-line tool and the viewer prepare figures the same way.
package pipeline

import (
	"fmt"
	"time"

	"github.com/SnowflurrySDK/Snowflurry.jl/src/benchdata"
	"github.com/SnowflurrySDK/Snowflurry.jl/src/config"
	"github.com/SnowflurrySDK/Snowflurry.jl/src/figure"
	"github.com/SnowflurrySDK/Snowflurry.jl/src/logging"
	"github.com/SnowflurrySDK/Snowflurry.jl/src/render"
	"github.com/SnowflurrySDK/Snowflurry.jl/src/types"
)

// Result is one prepared figure.
type Result struct {
	Records  []types.Record
	Figure   *figure.Figure
	Renderer render.Renderer
}

// Prepare loads the data directory in cfg and lays it out for cfg.Backend.
func Prepare(cfg config.Config) (*Result, error) {
	defer logging.TimeTrack(time.Now(), "prepare")
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	r, err := render.New(cfg.Backend, render.OptionsFromConfig(cfg))
	if err != nil {
		return nil, err
	}
	records, err := benchdata.LoadDir(cfg.DataDir, cfg.Pattern, cfg.Ignore)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	fig, err := Layout(cfg, records, r.Palette())
	if err != nil {
		return nil, err
	}
	return &Result{Records: records, Figure: fig, Renderer: r}, nil
}

// Layout builds the figure for already loaded records.
func Layout(cfg config.Config, records []types.Record, palette figure.Palette) (*figure.Figure, error) {
	colors, err := cfg.ParsedColors()
	if err != nil {
		return nil, err
	}
	fig, err := figure.Build(records, figure.Options{
		Gates:  cfg.Gates,
		Rows:   cfg.Rows,
		Cols:   cfg.Cols,
		Labels: cfg.Labels,
		Colors: colors,
		Ignore: cfg.Ignore,
	}, palette)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	logging.Debugf("[layout] %d (source, gate) pairs on %d panels", len(fig.Drawn()), len(fig.Panels))
	for _, src := range fig.Sources {
		st := fig.Styles[src]
		logging.Debugf("[layout] %s label=%q color=%s auto=%v", src, st.Label, config.ToHex(st.Color), st.Auto)
	}
	return fig, nil
}
