// Package config builds the application configuration from command-line
// flags, PARSUM_* environment variables, and defaults, in that order of
// priority.
package config

import (
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/agbru/parsum/internal/dataset"
	apperrors "github.com/agbru/parsum/internal/errors"
	"github.com/agbru/parsum/internal/memory"
	"github.com/agbru/parsum/internal/orchestration"
	"github.com/agbru/parsum/internal/ui"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "PARSUM_"

// AppConfig holds every tunable of a run.
type AppConfig struct {
	// DatasetPath is the dataset file, generated when absent.
	DatasetPath string
	// DatasetSize is the number of values to generate.
	DatasetSize int
	// MaxValue bounds generated values to [1, MaxValue].
	MaxValue int
	// Seed makes generation reproducible; 0 means time-based.
	Seed uint64
	// WorkerCounts is the ordered worker-count sweep.
	WorkerCounts []int
	// GCMode is the collector policy during timed sections.
	GCMode string
	// MetricsFile, when set, receives a Prometheus textfile after the run.
	MetricsFile string
	// Theme names the color scheme (dark, light, none).
	Theme   string
	Verbose bool
	Quiet   bool
	NoColor bool
}

// Default returns the stock configuration.
func Default() AppConfig {
	return AppConfig{
		DatasetPath:  dataset.DefaultPath,
		DatasetSize:  dataset.DefaultSize,
		MaxValue:     dataset.DefaultMaxValue,
		WorkerCounts: append([]int(nil), orchestration.DefaultWorkerCounts...),
		GCMode:       string(memory.GCModeAuto),
		Theme:        ui.DarkTheme.Name,
	}
}

// workerList is a flag.Value for a comma-separated list of worker counts.
type workerList struct{ counts *[]int }

func (w workerList) String() string {
	if w.counts == nil {
		return ""
	}
	return FormatWorkerCounts(*w.counts)
}

func (w workerList) Set(s string) error {
	counts, err := ParseWorkerCounts(s)
	if err != nil {
		return err
	}
	*w.counts = counts
	return nil
}

// ParseWorkerCounts parses "2,4,8". Order is preserved and duplicates are
// kept: each entry is one trial.
func ParseWorkerCounts(s string) ([]int, error) {
	fields := strings.Split(s, ",")
	counts := make([]int, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, apperrors.NewConfigError("invalid worker count %q", f)
		}
		counts = append(counts, n)
	}
	if len(counts) == 0 {
		return nil, apperrors.NewConfigError("empty worker count list %q", s)
	}
	return counts, nil
}

// FormatWorkerCounts renders counts the way ParseWorkerCounts reads them.
func FormatWorkerCounts(counts []int) string {
	parts := make([]string, len(counts))
	for i, c := range counts {
		parts[i] = strconv.Itoa(c)
	}
	return strings.Join(parts, ",")
}

// ParseConfig parses args into an AppConfig. Flags not given on the command
// line fall back to PARSUM_* environment variables, then to defaults.
func ParseConfig(programName string, args []string, errWriter io.Writer) (AppConfig, error) {
	cfg := Default()
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errWriter)

	fs.StringVar(&cfg.DatasetPath, "data", cfg.DatasetPath, "Dataset file (generated if absent).")
	fs.IntVar(&cfg.DatasetSize, "size", cfg.DatasetSize, "Number of values to generate for a new dataset.")
	fs.IntVar(&cfg.MaxValue, "max-value", cfg.MaxValue, "Upper bound of generated values.")
	fs.Uint64Var(&cfg.Seed, "seed", cfg.Seed, "Generation seed (0 = random).")
	fs.Var(workerList{&cfg.WorkerCounts}, "workers", "Comma-separated worker counts to sweep.")
	fs.StringVar(&cfg.GCMode, "gc", cfg.GCMode, "GC policy while timing: auto, disabled, off.")
	fs.StringVar(&cfg.MetricsFile, "metrics-file", cfg.MetricsFile, "Write Prometheus metrics to this file.")
	fs.BoolVar(&cfg.Verbose, "v", cfg.Verbose, "Verbose logging (shorthand).")
	fs.BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "Verbose logging.")
	fs.BoolVar(&cfg.Quiet, "q", cfg.Quiet, "Quiet mode (shorthand).")
	fs.BoolVar(&cfg.Quiet, "quiet", cfg.Quiet, "Print only the report table.")
	fs.BoolVar(&cfg.NoColor, "no-color", cfg.NoColor, "Disable colored output.")
	fs.StringVar(&cfg.Theme, "theme", cfg.Theme, "Color theme: dark, light, none.")

	fs.Usage = func() {
		fmt.Fprintf(errWriter, "Usage: %s [flags]\n\nBenchmarks sequential versus parallel summation of an integer dataset.\n\nFlags:\n", programName)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return AppConfig{}, err
	}
	if err := applyEnvOverrides(&cfg, fs); err != nil {
		fmt.Fprintln(errWriter, err)
		return AppConfig{}, err
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(errWriter, err)
		return AppConfig{}, err
	}
	return cfg, nil
}

// Validate checks the configuration for values no run can use.
func (c AppConfig) Validate() error {
	if c.DatasetPath == "" {
		return apperrors.NewConfigError("dataset path must not be empty")
	}
	if c.DatasetSize < 0 {
		return apperrors.InvalidArgumentError{Name: "size", Value: c.DatasetSize}
	}
	if c.MaxValue <= 0 {
		return apperrors.InvalidArgumentError{Name: "max-value", Value: c.MaxValue}
	}
	if len(c.WorkerCounts) == 0 {
		return apperrors.NewConfigError("at least one worker count is required")
	}
	for _, w := range c.WorkerCounts {
		if w <= 0 {
			return apperrors.InvalidArgumentError{Name: "workers", Value: w}
		}
	}
	if _, ok := memory.ParseGCMode(c.GCMode); !ok {
		return apperrors.NewConfigError("unknown gc mode %q (want auto, disabled or off)", c.GCMode)
	}
	if _, ok := ui.LookupTheme(c.Theme); !ok {
		return apperrors.NewConfigError("unknown theme %q (want dark, light or none)", c.Theme)
	}
	if c.Verbose && c.Quiet {
		return apperrors.NewConfigError("--verbose and --quiet are mutually exclusive")
	}
	return nil
}

// DriverConfig projects the configuration onto the benchmark driver's.
func (c AppConfig) DriverConfig() orchestration.Config {
	return orchestration.Config{
		DatasetPath:  c.DatasetPath,
		DatasetSize:  c.DatasetSize,
		WorkerCounts: append([]int(nil), c.WorkerCounts...),
	}
}

// GC returns the validated GC mode.
func (c AppConfig) GC() memory.GCMode {
	mode, _ := memory.ParseGCMode(c.GCMode)
	return mode
}
