// Package config holds the plotter settings: which gates go where on the grid, how
// sources are labelled and colored, and which sources are skipped.
//
// Defaults reproduce the layout the benchmark figures have always used; a YAML or
// JSONC file can override any subset of fields, and command-line flags override the file.
package config

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/wcharczuk/go-chart/v2/drawing"
	"gopkg.in/yaml.v3"
)

// Backends known to the renderers.
var Backends = []string{"gonum", "gochart", "echarts"}

// Config is the full plotter configuration.
type Config struct {
	DataDir string `yaml:"data_dir" json:"data_dir"`
	Pattern string `yaml:"pattern" json:"pattern"`

	Gates []string `yaml:"gates" json:"gates"`
	Rows  int      `yaml:"rows" json:"rows"`
	Cols  int      `yaml:"cols" json:"cols"`

	WidthIn  float64 `yaml:"width_in" json:"width_in"`
	HeightIn float64 `yaml:"height_in" json:"height_in"`
	DPI      float64 `yaml:"dpi" json:"dpi"`

	// Labels and Colors are keyed by source name (file name without extension).
	Labels map[string]string `yaml:"labels" json:"labels"`
	Colors map[string]string `yaml:"colors" json:"colors"`
	Ignore []string          `yaml:"ignore" json:"ignore"`

	MarkerSize float64 `yaml:"marker_size" json:"marker_size"` // marker area in pt^2
	LineWidth  float64 `yaml:"line_width" json:"line_width"`   // pt

	Backend string `yaml:"backend" json:"backend"`
	Palette string `yaml:"palette" json:"palette"` // "default" or "brewer:<name>"
}

// Defaults returns the stock configuration.
func Defaults() Config {
	return Config{
		DataDir:  "benchmarking/data",
		Pattern:  "*.json",
		Gates:    []string{"X", "H", "T", "CNOT", "Y"},
		Rows:     2,
		Cols:     3,
		WidthIn:  12,
		HeightIn: 8,
		DPI:      96,
		Labels: map[string]string{
			"dataYao_target=1": "Yao",
		},
		Colors: map[string]string{
			"dataYao_target=1": "#C71585",
		},
		Ignore:     nil,
		MarkerSize: 20,
		LineWidth:  1,
		Backend:    "gonum",
		Palette:    "default",
	}
}

// StripJSONC returns b with full-line // comments and blank lines removed.
// Inline // is kept so URLs and paths survive.
func StripJSONC(b []byte) ([]byte, error) {
	var out []byte
	scanner := bufio.NewScanner(bytes.NewReader(b))
	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "//") {
			continue
		}
		out = append(out, []byte(line+"\n")...)
	}
	return out, scanner.Err()
}

// Load reads a config file on top of Defaults. The format follows the extension:
// .yaml/.yml are YAML, .json/.jsonc are JSON with optional full-line comments.
// Map entries in the file are merged into the default maps.
func Load(path string) (Config, error) {
	cfg := Defaults()
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	case ".json", ".jsonc":
		clean, err := StripJSONC(b)
		if err != nil {
			return cfg, err
		}
		if err := json.Unmarshal(clean, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		return cfg, fmt.Errorf("config %s: unsupported extension %q", path, filepath.Ext(path))
	}
	return cfg, cfg.Validate()
}

// Validate checks the layout and style settings.
func (c Config) Validate() error {
	var errs []error
	if len(c.Gates) == 0 {
		errs = append(errs, errors.New("gates: empty"))
	}
	if c.Rows <= 0 || c.Cols <= 0 {
		errs = append(errs, fmt.Errorf("grid %dx%d: rows and cols must be positive", c.Rows, c.Cols))
	} else if len(c.Gates) > c.Rows*c.Cols {
		errs = append(errs, fmt.Errorf("grid %dx%d holds %d panels, %d gates configured", c.Rows, c.Cols, c.Rows*c.Cols, len(c.Gates)))
	}
	if c.WidthIn <= 0 || c.HeightIn <= 0 || c.DPI <= 0 {
		errs = append(errs, fmt.Errorf("size %gx%gin @%g dpi: must be positive", c.WidthIn, c.HeightIn, c.DPI))
	}
	if c.MarkerSize < 0 || c.LineWidth < 0 {
		errs = append(errs, errors.New("marker_size and line_width must not be negative"))
	}
	for src, hex := range c.Colors {
		if _, err := ParseColor(hex); err != nil {
			errs = append(errs, fmt.Errorf("colors[%s]: %w", src, err))
		}
	}
	if !knownBackend(c.Backend) {
		errs = append(errs, fmt.Errorf("backend %q: want one of %s", c.Backend, strings.Join(Backends, ", ")))
	}
	if c.Palette != "" && c.Palette != "default" && !strings.HasPrefix(c.Palette, "brewer:") {
		errs = append(errs, fmt.Errorf("palette %q: want default or brewer:<name>", c.Palette))
	}
	return errors.Join(errs...)
}

func knownBackend(name string) bool {
	for _, b := range Backends {
		if b == name {
			return true
		}
	}
	return false
}

// ParsedColors resolves the color overrides. Call after Validate.
func (c Config) ParsedColors() (map[string]color.Color, error) {
	out := make(map[string]color.Color, len(c.Colors))
	for src, hex := range c.Colors {
		col, err := ParseColor(hex)
		if err != nil {
			return nil, fmt.Errorf("colors[%s]: %w", src, err)
		}
		out[src] = col
	}
	return out, nil
}

// ParseColor accepts "#RRGGBB", "RRGGBB", "#RGB" or "RGB".
func ParseColor(s string) (color.Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 3 && len(hex) != 6 {
		return nil, fmt.Errorf("color %q: want #RGB or #RRGGBB", s)
	}
	if _, err := strconv.ParseUint(hex, 16, 32); err != nil {
		return nil, fmt.Errorf("color %q: not hex", s)
	}
	return drawing.ColorFromHex(hex), nil
}

// ToHex formats a color as #rrggbb, dropping alpha.
func ToHex(c color.Color) string {
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8)
}

// SplitList splits a comma separated flag value, dropping empty items.
func SplitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
