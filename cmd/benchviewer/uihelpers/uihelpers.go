package uihelpers

import (
	"math"
	"path/filepath"
)

// Figure DPI bounds for on-screen rendering.
const (
	MinDPI = 48
	MaxDPI = 192
)

// ComputeFigureDPI picks the DPI that makes a widthIn x heightIn figure fill a
// canvas of canvasW x canvasH pixels without overflowing either side.
// The result is clamped to [MinDPI, MaxDPI]; fallback is used when the canvas or
// the figure has no size yet.
func ComputeFigureDPI(canvasW, canvasH float32, widthIn, heightIn, fallback float64) float64 {
	if canvasW <= 0 || canvasH <= 0 || widthIn <= 0 || heightIn <= 0 {
		return fallback
	}
	dpi := math.Min(float64(canvasW)/widthIn, float64(canvasH)/heightIn)
	dpi = math.Floor(dpi)
	if dpi < MinDPI {
		dpi = MinDPI
	}
	if dpi > MaxDPI {
		dpi = MaxDPI
	}
	return dpi
}

// TruncatePath shortens p to at most n characters, keeping the base name.
func TruncatePath(p string, n int) string {
	if len(p) <= n {
		return p
	}
	base := filepath.Base(p)
	if len(base)+4 >= n {
		return "..." + base
	}
	dir := filepath.Dir(p)
	left := n - len(base) - 4
	if len(dir) > left {
		dir = dir[:left]
	}
	return dir + "/..." + base
}

// ExportName is the default file name offered when exporting the figure for a backend.
func ExportName(backend string) string {
	if backend == "" {
		return "benchmark_gates.png"
	}
	return "benchmark_gates_" + backend + ".png"
}
