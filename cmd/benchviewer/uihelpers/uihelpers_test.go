package uihelpers

import (
	"strings"
	"testing"
)

func TestComputeFigureDPI(t *testing.T) {
	cases := []struct {
		w, h float32
		want float64
	}{
		{1200, 800, 100},  // exact fit
		{2400, 800, 100},  // height bound
		{1200, 4000, 100}, // width bound
		{120, 80, MinDPI},
		{12000, 8000, MaxDPI},
	}
	for _, c := range cases {
		got := ComputeFigureDPI(c.w, c.h, 12, 8, 96)
		if got != c.want {
			t.Fatalf("canvas %.0fx%.0f => dpi %v want %v", c.w, c.h, got, c.want)
		}
	}
	if got := ComputeFigureDPI(0, 0, 12, 8, 96); got != 96 {
		t.Fatalf("empty canvas should fall back, got %v", got)
	}
	if got := ComputeFigureDPI(1000, 1000, 0, 8, 72); got != 72 {
		t.Fatalf("zero width figure should fall back, got %v", got)
	}
}

func TestTruncatePath(t *testing.T) {
	short := "/tmp/data"
	if got := TruncatePath(short, 60); got != short {
		t.Fatalf("short path changed: %q", got)
	}
	long := "/home/user/projects/quantum/benchmarks/results/2024/run-17/data"
	got := TruncatePath(long, 30)
	if len(got) > 30 {
		t.Fatalf("truncated path too long (%d): %q", len(got), got)
	}
	if !strings.HasSuffix(got, "/...data") {
		t.Fatalf("base name lost: %q", got)
	}
	if got := TruncatePath("/a/very_long_directory_name_here", 10); got != "...very_long_directory_name_here" {
		t.Fatalf("long base should collapse to ...base, got %q", got)
	}
}

func TestExportName(t *testing.T) {
	if got := ExportName(""); got != "benchmark_gates.png" {
		t.Fatalf("default export name %q", got)
	}
	if got := ExportName("gochart"); got != "benchmark_gates_gochart.png" {
		t.Fatalf("backend export name %q", got)
	}
}
