package appconfig

import (
	"fmt"
	"io"
)

// ShowConfig prints the current configuration summary.
func ShowConfig(out io.Writer, file string, cfg *Config) {
	if file == "" {
		fmt.Fprintln(out, "No config file loaded (using defaults).")
	} else {
		fmt.Fprintf(out, "Config file: %s\n\n", file)
	}

	if cfg == nil {
		cfg = &Config{}
	}

	fmt.Fprintln(out, "Current configuration:")
	fmt.Fprintf(out, "  Workers:         %d\n", cfg.WorkerCount())
	fmt.Fprintf(out, "  Iterations:      %d\n", cfg.IterationCount())
	fmt.Fprintf(out, "  Duration:        %s\n", cfg.DurationBudget())
	fmt.Fprintf(out, "  Include:         %q\n", cfg.Include)
	fmt.Fprintf(out, "  Exclude:         %q\n", cfg.Exclude)
	fmt.Fprintf(out, "  Quick:           %v\n", cfg.Quick)
	fmt.Fprintf(out, "  Scale:           %d\n", cfg.ScaleFactor())
	fmt.Fprintf(out, "  Force Time:      %v\n", cfg.Time)
	fmt.Fprintf(out, "  Stdev:           %v\n", cfg.Stdev)
	fmt.Fprintf(out, "  Sleep:           %s\n", cfg.SleepDuration())
	fmt.Fprintf(out, "  Seed:            %d\n", cfg.Seed)
	fmt.Fprintf(out, "  No Pass:         %v\n", cfg.NoPass)
	fmt.Fprintf(out, "  No Parallel:     %v\n", cfg.NoParallel)
	fmt.Fprintf(out, "  Keep Outliers:   %v\n", cfg.KeepOutliers)
	fmt.Fprintf(out, "  Quiet:           %v\n", cfg.Quiet)
	fmt.Fprintf(out, "  Debug:           %v\n", cfg.Debug)
	fmt.Fprintf(out, "  Format:          %s\n", cfg.OutputFormat())
	fmt.Fprintf(out, "  Log File:        %s\n", cfg.LogFilePath())
	fmt.Fprintf(out, "  Store:           %s\n", cfg.StorePath())
	if len(cfg.Benchmarks) == 0 {
		fmt.Fprintln(out, "  Benchmarks:      all built-in workloads")
		return
	}
	fmt.Fprintln(out, "  Benchmarks:")
	for _, b := range cfg.Benchmarks {
		fmt.Fprintf(out, "    - %s (%s)\n", b.BenchmarkName(), b.Workload)
	}
}
