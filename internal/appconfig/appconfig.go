// internal/appconfig/appconfig.go
// Package appconfig manages loading and interpreting application configuration.
package appconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigPath is the default path to the application's configuration file.
	DefaultConfigPath = "config/corebench.yaml"
	// legacyConfigPath is checked when the default path does not exist.
	legacyConfigPath = "corebench.yaml"
	// defaultLogFile is used when the config does not name a log file.
	defaultLogFile = "corebench.log"
	// defaultStorePath is the SQLite history database used when none is configured.
	defaultStorePath = "corebenchData/history.db"
)

var (
	// ErrInvalid is wrapped by every validation error returned from this package.
	ErrInvalid = errors.New("invalid configuration")
	// ErrNoConfig is wrapped when no configuration file exists.
	ErrNoConfig = errors.New("no configuration file found")
)

// Config represents the top-level application configuration.
type Config struct {
	Workers      int               `json:"workers,omitempty" yaml:"workers,omitempty" mapstructure:"workers"`
	Iterations   int               `json:"iterations,omitempty" yaml:"iterations,omitempty" mapstructure:"iterations"`
	Duration     float64           `json:"duration,omitempty" yaml:"duration,omitempty" mapstructure:"duration"`
	Include      string            `json:"include,omitempty" yaml:"include,omitempty" mapstructure:"include"`
	Exclude      string            `json:"exclude,omitempty" yaml:"exclude,omitempty" mapstructure:"exclude"`
	Quick        bool              `json:"quick" yaml:"quick" mapstructure:"quick"`
	Scale        int               `json:"scale,omitempty" yaml:"scale,omitempty" mapstructure:"scale"`
	Time         bool              `json:"time" yaml:"time" mapstructure:"time"`
	Stdev        bool              `json:"stdev" yaml:"stdev" mapstructure:"stdev"`
	Sleep        float64           `json:"sleep,omitempty" yaml:"sleep,omitempty" mapstructure:"sleep"`
	Seed         int64             `json:"seed,omitempty" yaml:"seed,omitempty" mapstructure:"seed"`
	NoPass       bool              `json:"noPass" yaml:"noPass" mapstructure:"noPass"`
	NoParallel   bool              `json:"noParallel" yaml:"noParallel" mapstructure:"noParallel"`
	KeepOutliers bool              `json:"keepOutliers" yaml:"keepOutliers" mapstructure:"keepOutliers"`
	Quiet        bool              `json:"quiet" yaml:"quiet" mapstructure:"quiet"`
	Debug        bool              `json:"debug" yaml:"debug" mapstructure:"debug"`
	Progress     bool              `json:"progress" yaml:"progress" mapstructure:"progress"`
	Format       string            `json:"format,omitempty" yaml:"format,omitempty" mapstructure:"format"`
	Output       string            `json:"output,omitempty" yaml:"output,omitempty" mapstructure:"output"`
	LogFile      string            `json:"logFile,omitempty" yaml:"logFile,omitempty" mapstructure:"logFile"`
	Store        string            `json:"store,omitempty" yaml:"store,omitempty" mapstructure:"store"`
	Save         bool              `json:"save" yaml:"save" mapstructure:"save"`
	MetricsFile  string            `json:"metricsFile,omitempty" yaml:"metricsFile,omitempty" mapstructure:"metricsFile"`
	Benchmarks   []BenchmarkConfig `json:"benchmarks,omitempty" yaml:"benchmarks,omitempty" mapstructure:"benchmarks"`
	ConfigPath   string            `json:"-" yaml:"-" mapstructure:"-"`
}

// BenchmarkConfig selects a registered workload and optionally overrides its
// default settings. Unset pointer fields keep the workload's defaults.
type BenchmarkConfig struct {
	Name     string `json:"name,omitempty" yaml:"name,omitempty" mapstructure:"name"`
	Workload string `json:"workload" yaml:"workload" mapstructure:"workload"`
	// Code is accepted by the decoder only so it can be rejected with a clear
	// error; workloads must be Go functions.
	Code      string   `json:"code,omitempty" yaml:"code,omitempty" mapstructure:"code"`
	Reference *float64 `json:"reference,omitempty" yaml:"reference,omitempty" mapstructure:"reference"`
	Expected  any      `json:"expected,omitempty" yaml:"expected,omitempty" mapstructure:"expected"`
	QuickArg  *int     `json:"quickArg,omitempty" yaml:"quickArg,omitempty" mapstructure:"quickArg"`
	NormalArg *int     `json:"normalArg,omitempty" yaml:"normalArg,omitempty" mapstructure:"normalArg"`
}

// BenchmarkName returns the configured name, falling back to the workload name.
func (b BenchmarkConfig) BenchmarkName() string {
	if name := strings.TrimSpace(b.Name); name != "" {
		return name
	}
	return strings.TrimSpace(b.Workload)
}

// WorkerCount returns the configured worker count, at least 1. Parallel
// dispatch being disabled forces a single worker.
func (c Config) WorkerCount() int {
	if c.NoParallel || c.Workers < 1 {
		return 1
	}
	return c.Workers
}

// IterationCount returns the configured iteration count, at least 1.
func (c Config) IterationCount() int {
	if c.Iterations < 1 {
		return 1
	}
	return c.Iterations
}

// ScaleFactor returns the workload scale factor. Quick mode and disabled
// parallel dispatch force a factor of 1.
func (c Config) ScaleFactor() int {
	if c.Quick || c.NoParallel || c.Scale < 1 {
		return 1
	}
	return c.Scale
}

// DurationBudget returns the duration budget, zero when disabled.
func (c Config) DurationBudget() time.Duration {
	return seconds(c.Duration)
}

// SleepDuration returns the pause between benchmarks.
func (c Config) SleepDuration() time.Duration {
	return seconds(c.Sleep)
}

// LogFilePath returns the path to the application log file, applying a default if not set.
func (c Config) LogFilePath() string {
	if path := c.LogFile; strings.TrimSpace(path) != "" {
		return path
	}
	return defaultLogFile
}

// StorePath returns the path of the run history database.
func (c Config) StorePath() string {
	if path := strings.TrimSpace(c.Store); path != "" {
		return path
	}
	return defaultStorePath
}

// OutputFormat returns the report format: text, json or yaml.
func (c Config) OutputFormat() string {
	switch f := strings.ToLower(strings.TrimSpace(c.Format)); f {
	case "json", "yaml":
		return f
	default:
		return "text"
	}
}

// Validate checks value ranges that the schema cannot express on its own.
func (c Config) Validate() error {
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must be >= 1, got %d", ErrInvalid, c.Workers)
	}
	if c.Iterations < 0 {
		return fmt.Errorf("%w: iterations must be >= 1, got %d", ErrInvalid, c.Iterations)
	}
	if c.Duration < 0 {
		return fmt.Errorf("%w: duration must not be negative", ErrInvalid)
	}
	if c.Sleep < 0 {
		return fmt.Errorf("%w: sleep must not be negative", ErrInvalid)
	}
	if c.Scale < 0 {
		return fmt.Errorf("%w: scale must be >= 1, got %d", ErrInvalid, c.Scale)
	}
	switch strings.ToLower(strings.TrimSpace(c.Format)) {
	case "", "text", "json", "yaml":
	default:
		return fmt.Errorf("%w: unknown format %q", ErrInvalid, c.Format)
	}
	for i, b := range c.Benchmarks {
		if strings.TrimSpace(b.Workload) == "" && strings.TrimSpace(b.Code) == "" {
			return fmt.Errorf("%w: benchmark %d has no workload", ErrInvalid, i+1)
		}
		if b.Reference != nil && *b.Reference < 0 {
			return fmt.Errorf("%w: benchmark %q has a negative reference time", ErrInvalid, b.BenchmarkName())
		}
	}
	return nil
}

// Load reads the application configuration from the specified path, with fallback to a legacy path.
func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultConfigPath
	}

	config, err := loadFromPath(path)
	if err == nil {
		config.ConfigPath = path
		return config, nil
	}

	if errors.Is(err, os.ErrNotExist) {
		if path == DefaultConfigPath {
			config, legacyErr := loadFromPath(legacyConfigPath)
			if legacyErr == nil {
				config.ConfigPath = legacyConfigPath
				return config, nil
			}
			if errors.Is(legacyErr, os.ErrNotExist) {
				return Config{}, fmt.Errorf("%w (searched %q and %q)", ErrNoConfig, DefaultConfigPath, legacyConfigPath)
			}
			return Config{}, fmt.Errorf("could not read config file %q: %w", legacyConfigPath, legacyErr)
		}
		return Config{}, fmt.Errorf("%w at %q", ErrNoConfig, path)
	}

	return Config{}, fmt.Errorf("could not read config file %q: %w", path, err)
}

// loadFromPath decodes and validates the configuration file at path.
func loadFromPath(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	var config Config
	var document any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &document); err != nil {
			return Config{}, err
		}
		if err := yaml.Unmarshal(data, &config); err != nil {
			return Config{}, err
		}
	default:
		if err := json.Unmarshal(data, &document); err != nil {
			return Config{}, err
		}
		if err := json.Unmarshal(data, &config); err != nil {
			return Config{}, err
		}
	}

	if err := ValidateDocument(document); err != nil {
		return Config{}, err
	}
	if err := config.Validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}

func seconds(v float64) time.Duration {
	if v <= 0 {
		return 0
	}
	return time.Duration(v * float64(time.Second))
}
