package main

import (
	"flag"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeBench(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func sampleDataDir(t *testing.T) string {
	dir := t.TempDir()
	writeBench(t, dir, "A.json", `{"X":{"nqubits":[1,2,3],"times":[10,20,30]}}`)
	writeBench(t, dir, "B.json", `{"X":{"nqubits":[1,2,3],"times":[15,25,35]},"Y":{"nqubits":[2],"times":[7]}}`)
	return dir
}

func TestResolveConfigFlagOverrides(t *testing.T) {
	f, err := parseFlags(flag.NewFlagSet("t", flag.ContinueOnError), []string{
		"-data", "d", "-ignore", "a, b", "-backend", "gochart", "-palette", "brewer:Dark2",
	})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	cfg, err := resolveConfig(f)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if cfg.DataDir != "d" || cfg.Backend != "gochart" || cfg.Palette != "brewer:Dark2" {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if strings.Join(cfg.Ignore, ",") != "a,b" {
		t.Fatalf("ignore = %v", cfg.Ignore)
	}
}

func TestResolveConfigServeForcesEcharts(t *testing.T) {
	f, err := parseFlags(flag.NewFlagSet("t", flag.ContinueOnError), []string{"-serve", ":0", "-backend", "gonum"})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	cfg, err := resolveConfig(f)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if cfg.Backend != "echarts" {
		t.Fatalf("backend = %s", cfg.Backend)
	}
}

func TestRunWritesOutputPerBackend(t *testing.T) {
	dir := sampleDataDir(t)
	for backend, name := range map[string]string{"gonum": "fig.svg", "gochart": "fig.png", "echarts": "fig.html"} {
		out := filepath.Join(t.TempDir(), name)
		if err := run([]string{"-data", dir, "-backend", backend, "-out", out, "-log-level", "error"}); err != nil {
			t.Fatalf("%s: run: %v", backend, err)
		}
		fi, err := os.Stat(out)
		if err != nil || fi.Size() == 0 {
			t.Fatalf("%s: output missing or empty: %v", backend, err)
		}
	}
}

func TestRunFailsOnMalformedData(t *testing.T) {
	dir := sampleDataDir(t)
	writeBench(t, dir, "C.json", `{"X":`)
	err := run([]string{"-data", dir, "-out", filepath.Join(t.TempDir(), "x.png"), "-log-level", "error"})
	if err == nil || !strings.Contains(err.Error(), "C.json") {
		t.Fatalf("expected load failure naming C.json, got %v", err)
	}
}

func TestPageHandlerServesFreshData(t *testing.T) {
	dir := sampleDataDir(t)
	f, _ := parseFlags(flag.NewFlagSet("t", flag.ContinueOnError), []string{"-data", dir, "-serve", ":0"})
	cfg, err := resolveConfig(f)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	srv := httptest.NewServer(pageHandler(cfg))
	defer srv.Close()

	get := func() string {
		resp, err := http.Get(srv.URL)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status %d", resp.StatusCode)
		}
		b, _ := io.ReadAll(resp.Body)
		return string(b)
	}
	if body := get(); strings.Contains(body, "Cnew") {
		t.Fatalf("unexpected source before write")
	}
	writeBench(t, dir, "Cnew.json", `{"H":{"nqubits":[1],"times":[2]}}`)
	if body := get(); !strings.Contains(body, "Cnew") {
		t.Fatalf("new source not picked up on reload")
	}
}
