// internal/cli/root.go
package corebench

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/mwiater/corebench/internal/appconfig"
	"github.com/mwiater/corebench/internal/logging"
)

var (
	cfgFile       string
	currentConfig *appconfig.Config
)

var rootCmd = &cobra.Command{
	Use:           "corebench",
	Short:         "corebench: parallel micro-benchmark runner with scalability scoring",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// 1) Load and validate the config file, if any.
		if err := ensureConfigLoaded(cmd); err != nil {
			return err
		}

		// 2) Materialize the fully merged configuration into currentConfig
		//    (flags > config > defaults).
		var cfg appconfig.Config
		if err := viper.Unmarshal(&cfg); err != nil {
			return fmt.Errorf("unmarshal config: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		cfg.ConfigPath = viper.ConfigFileUsed()
		currentConfig = &cfg

		// 3) Logging goes to the log file, and to the console in debug mode
		//    unless quiet.
		return logging.Init(cfg.LogFilePath(), cfg.Debug && !cfg.Quiet)
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return logging.Close()
	},
}

// Execute runs the root command. SIGINT and SIGTERM cancel the running
// command's context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// boolFlags and the other tables below are the persistent flags shared by
// every command, each bound to the viper key of the same name.
var boolFlags = []struct {
	name, usage string
}{
	{"debug", "log every invocation to the console"},
	{"quiet", "suppress report output"},
	{"quick", "quick mode: small arguments, no scaling, time reporting"},
	{"time", "report times instead of scores"},
	{"stdev", "report relative standard deviation across iterations"},
	{"noPass", "skip verification of returned values"},
	{"noParallel", "run a single worker without parallel dispatch"},
	{"keepOutliers", "keep poorly scaling benchmarks in the scalability total"},
	{"progress", "show a live progress bar on a terminal"},
	{"save", "save the run to the history store"},
}

var stringFlags = []struct {
	name, usage string
}{
	{"include", "only run benchmarks whose name matches this regular expression"},
	{"exclude", "skip benchmarks whose name matches this regular expression"},
	{"format", "report format: text, json or yaml"},
	{"output", "export the result to this file (.json, .yaml or .yml)"},
	{"logFile", "log file path"},
	{"store", "run history database path"},
	{"metricsFile", "write Prometheus metrics to this textfile"},
}

func init() {
	// --config (defaults to config/corebench.yaml)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", appconfig.DefaultConfigPath, "config file (JSON or YAML)")

	flags := rootCmd.PersistentFlags()
	flags.IntP("workers", "w", 0, "number of parallel workers (default 1; scale defaults to the CPU count)")
	flags.IntP("iterations", "i", 1, "number of iterations")
	flags.Float64P("duration", "d", 0, "duration budget in seconds; overrides iterations")
	flags.Int("scale", 1, "workload scale factor")
	flags.Float64("sleep", 0, "seconds to pause after each benchmark")
	flags.Int64("seed", 0, "seed for reproducible workload randomness (0 disables)")
	for _, f := range boolFlags {
		flags.Bool(f.name, false, f.usage)
	}
	for _, f := range stringFlags {
		flags.String(f.name, "", f.usage)
	}

	// Bind flags to Viper keys (flags override config)
	flags.VisitAll(func(f *pflag.Flag) {
		if f.Name == "config" {
			return
		}
		_ = viper.BindPFlag(f.Name, f)
	})
}

// ensureConfigLoaded reads the config file. A missing default config file is
// fine; a missing file named with --config is not.
func ensureConfigLoaded(cmd *cobra.Command) error {
	path := cfgFile
	if path == "" {
		path = appconfig.DefaultConfigPath
	}
	loaded, err := appconfig.Load(path)
	if err != nil {
		if !cmd.Flags().Changed("config") && errors.Is(err, appconfig.ErrNoConfig) {
			// No file: fine, we'll use defaults/flags
			return nil
		}
		return fmt.Errorf("failed to load config: %w", err)
	}

	viper.SetConfigFile(loaded.ConfigPath)
	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	return nil
}

// GetConfig returns the loaded application configuration for other packages.
func GetConfig() *appconfig.Config {
	return currentConfig
}
