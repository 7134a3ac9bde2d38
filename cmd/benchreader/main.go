// benchreader prints which gates each benchmark source in a data directory measured.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/SnowflurrySDK/Snowflurry.jl/src/benchdata"
	"github.com/SnowflurrySDK/Snowflurry.jl/src/config"
	"github.com/SnowflurrySDK/Snowflurry.jl/src/logging"
)

type coverageDoc struct {
	Sources  []benchdata.SourceInventory `yaml:"sources"`
	Coverage map[string][]string         `yaml:"coverage"`
}

type readerFlags struct {
	dir      string
	pattern  string
	ignore   string
	format   string
	coverage bool
	logLevel string
}

func parseFlags(fs *flag.FlagSet, args []string) (readerFlags, error) {
	var f readerFlags
	fs.StringVar(&f.dir, "data", config.Defaults().DataDir, "Benchmark data directory")
	fs.StringVar(&f.pattern, "pattern", benchdata.DefaultPattern, "Glob for benchmark files")
	fs.StringVar(&f.ignore, "ignore", "", "Comma separated source names to skip")
	fs.BoolVar(&f.coverage, "coverage", false, "Also print which sources measured each gate")
	fs.StringVar(&f.format, "format", "text", "Output format: text or yaml")
	fs.StringVar(&f.logLevel, "log-level", "warn", "Log level (debug|info|warn|error)")
	err := fs.Parse(args)
	return f, err
}

func run(args []string, stdout io.Writer) error {
	f, err := parseFlags(flag.NewFlagSet("benchreader", flag.ContinueOnError), args)
	if err != nil {
		return err
	}
	logging.SetLogLevel(f.logLevel)

	records, err := benchdata.LoadDir(f.dir, f.pattern, config.SplitList(f.ignore))
	if err != nil {
		return err
	}
	inv := benchdata.Inventory(records)
	switch f.format {
	case "yaml":
		doc := coverageDoc{Sources: inv}
		if f.coverage {
			doc.Coverage = benchdata.Coverage(records)
		}
		enc := yaml.NewEncoder(stdout)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	case "text":
		fmt.Fprintf(stdout, "Total sources: %d\n", len(inv))
		if err := benchdata.WriteInventory(stdout, inv); err != nil {
			return err
		}
		if f.coverage {
			return benchdata.WriteCoverage(stdout, benchdata.Coverage(records))
		}
		return nil
	default:
		return fmt.Errorf("unknown format %q", f.format)
	}
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
